package report

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/edusuivi/hebdo/core"
)

// Grade levels
const (
	ClassCP  StudentClass = "cp"
	ClassCE1 StudentClass = "ce1"
	ClassCE2 StudentClass = "ce2"
	ClassCM1 StudentClass = "cm1"
	ClassCM2 StudentClass = "cm2"
)

// Daily objective statuses
const (
	StatusDone       DayStatus = "done"
	StatusInProgress DayStatus = "in_progress"
	StatusNotReached DayStatus = "not_reached"
	StatusUnset      DayStatus = "unset"
)

// Home objective statuses
const (
	HomeRealized    HomeStatus = "realized"
	HomeNotRealized HomeStatus = "not_realized"
)

var (
	Classes      = []StudentClass{ClassCP, ClassCE1, ClassCE2, ClassCM1, ClassCM2}
	DayStatuses  = []DayStatus{StatusDone, StatusInProgress, StatusNotReached, StatusUnset}
	HomeStatuses = []HomeStatus{HomeRealized, HomeNotRealized}
)

type (
	StudentClass string
	DayStatus    string
	HomeStatus   string
)

// Skill checklists; one fixed-field struct per competency category so that
// every persisted record always carries the full key set.
type (
	AutonomySkills struct {
		Dressing   bool `json:"dressing"`
		Washing    bool `json:"washing"`
		Toilet     bool `json:"toilet"`
		Materials  bool `json:"materials"`
		Organizing bool `json:"organizing"`
	}

	FineMotorSkills struct {
		Pencil   bool `json:"pencil"`
		Scissors bool `json:"scissors"`
		Buttons  bool `json:"buttons"`
		Laces    bool `json:"laces"`
		Shapes   bool `json:"shapes"`
		Writing  bool `json:"writing"`
	}

	CommunicationSkills struct {
		Needs        bool `json:"needs"`
		Questions    bool `json:"questions"`
		Initiate     bool `json:"initiate"`
		Listening    bool `json:"listening"`
		Vocabulary   bool `json:"vocabulary"`
		Instructions bool `json:"instructions"`
	}

	SocialSkills struct {
		Rules        bool `json:"rules"`
		Sharing      bool `json:"sharing"`
		Waiting      bool `json:"waiting"`
		Teamwork     bool `json:"teamwork"`
		Conflicts    bool `json:"conflicts"`
		Interactions bool `json:"interactions"`
	}
)

type (
	// DayEntry is one weekday's objective/status/remark triple.
	DayEntry struct {
		Objective string    `json:"objective"`
		Status    DayStatus `json:"status" validate:"omitempty,daystatus"`
		Remark    string    `json:"remark"`
	}

	DailyTracking struct {
		Monday    DayEntry `json:"monday"`
		Tuesday   DayEntry `json:"tuesday"`
		Wednesday DayEntry `json:"wednesday"`
		Thursday  DayEntry `json:"thursday"`
		Friday    DayEntry `json:"friday"`
	}
)

// normalize defaults an unset status; all other DayEntry fields zero out to
// their wire defaults already.
func (e *DayEntry) normalize() {
	if e.Status == "" {
		e.Status = StatusUnset
	}
}

func (dt *DailyTracking) normalize() {
	dt.Monday.normalize()
	dt.Tuesday.normalize()
	dt.Wednesday.normalize()
	dt.Thursday.normalize()
	dt.Friday.normalize()
}

type WeeklyReport struct {
	ID                   string              `json:"id"`
	StudentFirstName     string              `json:"studentFirstName"`
	StudentLastName      string              `json:"studentLastName"`
	StudentClass         StudentClass        `json:"studentClass"`
	ObserverName         string              `json:"observerName"`
	WeekStartDate        string              `json:"weekStartDate"`
	WeekEndDate          string              `json:"weekEndDate"`
	AutonomySkills       AutonomySkills      `json:"autonomySkills"`
	AutonomyComment      *string             `json:"autonomyComment"`
	FineMotorSkills      FineMotorSkills     `json:"fineMotorSkills"`
	FineMotorComment     *string             `json:"fineMotorComment"`
	CommunicationSkills  CommunicationSkills `json:"communicationSkills"`
	CommunicationComment *string             `json:"communicationComment"`
	SocialSkills         SocialSkills        `json:"socialSkills"`
	SocialComment        *string             `json:"socialComment"`
	DailyTracking        DailyTracking       `json:"dailyTracking"`
	HomeObjectiveWorked  bool                `json:"homeObjectiveWorked"`
	HomeStatus           *HomeStatus         `json:"homeStatus"`
	FamilyComment        *string             `json:"familyComment"`
	FinalObservation     *string             `json:"finalObservation"`
	FreeComments         *string             `json:"freeComments"`
	UserID               string              `json:"userId"`
	CreatedAt            time.Time           `json:"createdAt"` // UTC
	UpdatedAt            time.Time           `json:"updatedAt"` // UTC
}

func (rpt WeeklyReport) StudentName() string {
	return rpt.StudentFirstName + " " + rpt.StudentLastName
}

// NewReport contains information needed to create a new WeeklyReport.
type NewReport struct {
	StudentFirstName     string              `json:"studentFirstName" validate:"required"`
	StudentLastName      string              `json:"studentLastName" validate:"required"`
	StudentClass         StudentClass        `json:"studentClass" validate:"required,studentclass"`
	ObserverName         string              `json:"observerName" validate:"required"`
	WeekStartDate        string              `json:"weekStartDate" validate:"required,isodate"`
	WeekEndDate          string              `json:"weekEndDate" validate:"required,isodate"`
	AutonomySkills       AutonomySkills      `json:"autonomySkills"`
	AutonomyComment      *string             `json:"autonomyComment"`
	FineMotorSkills      FineMotorSkills     `json:"fineMotorSkills"`
	FineMotorComment     *string             `json:"fineMotorComment"`
	CommunicationSkills  CommunicationSkills `json:"communicationSkills"`
	CommunicationComment *string             `json:"communicationComment"`
	SocialSkills         SocialSkills        `json:"socialSkills"`
	SocialComment        *string             `json:"socialComment"`
	DailyTracking        DailyTracking       `json:"dailyTracking"`
	HomeObjectiveWorked  bool                `json:"homeObjectiveWorked"`
	HomeStatus           *HomeStatus         `json:"homeStatus" validate:"omitempty,homestatus"`
	FamilyComment        *string             `json:"familyComment"`
	FinalObservation     *string             `json:"finalObservation"`
	FreeComments         *string             `json:"freeComments"`

	// server-controlled fields; forms may echo them back, they are always discarded
	ID        json.RawMessage `json:"id,omitempty"`
	UserID    json.RawMessage `json:"userId,omitempty"`
	CreatedAt json.RawMessage `json:"createdAt,omitempty"`
	UpdatedAt json.RawMessage `json:"updatedAt,omitempty"`
}

func (nr *NewReport) Validate(validate *validator.Validate) error {
	nr.StudentFirstName = core.CleanString(nr.StudentFirstName)
	nr.StudentLastName = core.CleanString(nr.StudentLastName)
	nr.ObserverName = core.CleanString(nr.ObserverName)
	nr.DailyTracking.normalize()
	return validate.Struct(nr)
}

// UpdateReport defines what information may be provided to modify an existing
// WeeklyReport. A nil field means "leave unchanged".
type UpdateReport struct {
	StudentFirstName     *string              `json:"studentFirstName" validate:"omitempty,min=1"`
	StudentLastName      *string              `json:"studentLastName" validate:"omitempty,min=1"`
	StudentClass         *StudentClass        `json:"studentClass" validate:"omitempty,studentclass"`
	ObserverName         *string              `json:"observerName" validate:"omitempty,min=1"`
	WeekStartDate        *string              `json:"weekStartDate" validate:"omitempty,isodate"`
	WeekEndDate          *string              `json:"weekEndDate" validate:"omitempty,isodate"`
	AutonomySkills       *AutonomySkills      `json:"autonomySkills"`
	AutonomyComment      *string              `json:"autonomyComment"`
	FineMotorSkills      *FineMotorSkills     `json:"fineMotorSkills"`
	FineMotorComment     *string              `json:"fineMotorComment"`
	CommunicationSkills  *CommunicationSkills `json:"communicationSkills"`
	CommunicationComment *string              `json:"communicationComment"`
	SocialSkills         *SocialSkills        `json:"socialSkills"`
	SocialComment        *string              `json:"socialComment"`
	DailyTracking        *DailyTracking       `json:"dailyTracking"`
	HomeObjectiveWorked  *bool                `json:"homeObjectiveWorked"`
	HomeStatus           *HomeStatus          `json:"homeStatus" validate:"omitempty,homestatus"`
	FamilyComment        *string              `json:"familyComment"`
	FinalObservation     *string              `json:"finalObservation"`
	FreeComments         *string              `json:"freeComments"`

	ID        json.RawMessage `json:"id,omitempty"`
	UserID    json.RawMessage `json:"userId,omitempty"`
	CreatedAt json.RawMessage `json:"createdAt,omitempty"`
	UpdatedAt json.RawMessage `json:"updatedAt,omitempty"`
}

func (ur *UpdateReport) Validate(validate *validator.Validate) error {
	cleanPtr := func(s *string) {
		if s != nil {
			*s = core.CleanString(*s)
		}
	}
	cleanPtr(ur.StudentFirstName)
	cleanPtr(ur.StudentLastName)
	cleanPtr(ur.ObserverName)
	if ur.DailyTracking != nil {
		ur.DailyTracking.normalize()
	}
	return validate.Struct(ur)
}

// apply merges the patch's present fields into rpt.
func (ur UpdateReport) apply(rpt WeeklyReport) WeeklyReport {
	if ur.StudentFirstName != nil {
		rpt.StudentFirstName = *ur.StudentFirstName
	}
	if ur.StudentLastName != nil {
		rpt.StudentLastName = *ur.StudentLastName
	}
	if ur.StudentClass != nil {
		rpt.StudentClass = *ur.StudentClass
	}
	if ur.ObserverName != nil {
		rpt.ObserverName = *ur.ObserverName
	}
	if ur.WeekStartDate != nil {
		rpt.WeekStartDate = *ur.WeekStartDate
	}
	if ur.WeekEndDate != nil {
		rpt.WeekEndDate = *ur.WeekEndDate
	}
	if ur.AutonomySkills != nil {
		rpt.AutonomySkills = *ur.AutonomySkills
	}
	if ur.AutonomyComment != nil {
		rpt.AutonomyComment = ur.AutonomyComment
	}
	if ur.FineMotorSkills != nil {
		rpt.FineMotorSkills = *ur.FineMotorSkills
	}
	if ur.FineMotorComment != nil {
		rpt.FineMotorComment = ur.FineMotorComment
	}
	if ur.CommunicationSkills != nil {
		rpt.CommunicationSkills = *ur.CommunicationSkills
	}
	if ur.CommunicationComment != nil {
		rpt.CommunicationComment = ur.CommunicationComment
	}
	if ur.SocialSkills != nil {
		rpt.SocialSkills = *ur.SocialSkills
	}
	if ur.SocialComment != nil {
		rpt.SocialComment = ur.SocialComment
	}
	if ur.DailyTracking != nil {
		rpt.DailyTracking = *ur.DailyTracking
	}
	if ur.HomeObjectiveWorked != nil {
		rpt.HomeObjectiveWorked = *ur.HomeObjectiveWorked
	}
	if ur.HomeStatus != nil {
		rpt.HomeStatus = ur.HomeStatus
	}
	if ur.FamilyComment != nil {
		rpt.FamilyComment = ur.FamilyComment
	}
	if ur.FinalObservation != nil {
		rpt.FinalObservation = ur.FinalObservation
	}
	if ur.FreeComments != nil {
		rpt.FreeComments = ur.FreeComments
	}
	return rpt
}

// dateOrdered reports whether start <= end. Malformed dates are the isodate
// validator's concern and never count as a second violation here.
func dateOrdered(start, end string) bool {
	s, err := time.Parse(core.ISODateLayout, start)
	if err != nil {
		return true
	}
	e, err := time.Parse(core.ISODateLayout, end)
	if err != nil {
		return true
	}
	return !e.Before(s)
}
