package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/edusuivi/hebdo/core"
	"github.com/edusuivi/hebdo/core/report"
	"github.com/edusuivi/hebdo/core/user"
)

// NewConfig returns the app config forced into test mode.
func NewConfig() *core.Config {
	conf := core.NewConfig()
	conf.Debug = false
	conf.TestMode = true
	conf.ReportNotifyEmail = "coordinator@test.fr"
	return conf
}

// NewValidator returns a fully initialized validator/translator pair.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	report.InitValidators(validate, translator)
	return validate, translator
}

func CreateUser(t *testing.T, repo user.Repository, id, email, firstName, lastName string) user.User {
	t.Helper()

	now := time.Now().UTC()
	usr, err := repo.UpsertUser(context.Background(), user.User{
		ID:        id,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

// NewReport returns a valid report fixture owned by ownerID.
func NewReport(ownerID string) report.WeeklyReport {
	now := time.Now().UTC()
	return report.WeeklyReport{
		StudentFirstName: "Asma",
		StudentLastName:  "Martin",
		StudentClass:     report.ClassCE1,
		ObserverName:     "Mme Diallo",
		WeekStartDate:    "2024-01-01",
		WeekEndDate:      "2024-01-05",
		AutonomySkills:   report.AutonomySkills{Dressing: true, Materials: true},
		DailyTracking: report.DailyTracking{
			Monday: report.DayEntry{Objective: "Cut along a straight line", Status: report.StatusDone},
			Friday: report.DayEntry{Status: report.StatusUnset},
		},
		UserID:    ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func CreateReport(t *testing.T, repo report.Repository, ownerID string, createdAt ...time.Time) report.WeeklyReport {
	t.Helper()

	rpt := NewReport(ownerID)
	if len(createdAt) > 0 {
		rpt.CreatedAt = createdAt[0].UTC()
		rpt.UpdatedAt = rpt.CreatedAt
	}
	rpt, err := repo.CreateReport(context.Background(), rpt)
	if err != nil {
		t.Fatalf("CreateReport() failed: %v", err)
	}
	return rpt
}
