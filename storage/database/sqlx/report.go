package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/edusuivi/hebdo/core/report"
)

type reportRepository struct {
	db *sqlx.DB
}

var _ report.Repository = (*reportRepository)(nil) // interface compliance check

func NewReportRepository(db *sqlx.DB) *reportRepository {
	return &reportRepository{db: db}
}

// reportRow mirrors the weekly_report table; checklists and daily tracking
// are JSONB columns.
type reportRow struct {
	ID                   string      `db:"id"`
	Seq                  int64       `db:"seq"`
	StudentFirstName     string      `db:"student_first_name"`
	StudentLastName      string      `db:"student_last_name"`
	StudentClass         string      `db:"student_class"`
	ObserverName         string      `db:"observer_name"`
	WeekStartDate        string      `db:"week_start_date"`
	WeekEndDate          string      `db:"week_end_date"`
	AutonomySkills       []byte      `db:"autonomy_skills"`
	AutonomyComment      null.String `db:"autonomy_comment"`
	FineMotorSkills      []byte      `db:"fine_motor_skills"`
	FineMotorComment     null.String `db:"fine_motor_comment"`
	CommunicationSkills  []byte      `db:"communication_skills"`
	CommunicationComment null.String `db:"communication_comment"`
	SocialSkills         []byte      `db:"social_skills"`
	SocialComment        null.String `db:"social_comment"`
	DailyTracking        []byte      `db:"daily_tracking"`
	HomeObjectiveWorked  bool        `db:"home_objective_worked"`
	HomeStatus           null.String `db:"home_status"`
	FamilyComment        null.String `db:"family_comment"`
	FinalObservation     null.String `db:"final_observation"`
	FreeComments         null.String `db:"free_comments"`
	UserID               string      `db:"user_id"`
	CreatedAt            time.Time   `db:"created_at"`
	UpdatedAt            time.Time   `db:"updated_at"`
}

func (repo reportRepository) pack(rpt report.WeeklyReport) (reportRow, error) {
	autonomy, err := json.Marshal(rpt.AutonomySkills)
	if err != nil {
		return reportRow{}, errors.Wrap(err, "marshaling autonomy skills")
	}
	fineMotor, err := json.Marshal(rpt.FineMotorSkills)
	if err != nil {
		return reportRow{}, errors.Wrap(err, "marshaling fine motor skills")
	}
	communication, err := json.Marshal(rpt.CommunicationSkills)
	if err != nil {
		return reportRow{}, errors.Wrap(err, "marshaling communication skills")
	}
	social, err := json.Marshal(rpt.SocialSkills)
	if err != nil {
		return reportRow{}, errors.Wrap(err, "marshaling social skills")
	}
	tracking, err := json.Marshal(rpt.DailyTracking)
	if err != nil {
		return reportRow{}, errors.Wrap(err, "marshaling daily tracking")
	}

	var homeStatus *string
	if rpt.HomeStatus != nil {
		s := string(*rpt.HomeStatus)
		homeStatus = &s
	}

	return reportRow{
		ID:                   rpt.ID,
		StudentFirstName:     rpt.StudentFirstName,
		StudentLastName:      rpt.StudentLastName,
		StudentClass:         string(rpt.StudentClass),
		ObserverName:         rpt.ObserverName,
		WeekStartDate:        rpt.WeekStartDate,
		WeekEndDate:          rpt.WeekEndDate,
		AutonomySkills:       autonomy,
		AutonomyComment:      null.StringFromPtr(rpt.AutonomyComment),
		FineMotorSkills:      fineMotor,
		FineMotorComment:     null.StringFromPtr(rpt.FineMotorComment),
		CommunicationSkills:  communication,
		CommunicationComment: null.StringFromPtr(rpt.CommunicationComment),
		SocialSkills:         social,
		SocialComment:        null.StringFromPtr(rpt.SocialComment),
		DailyTracking:        tracking,
		HomeObjectiveWorked:  rpt.HomeObjectiveWorked,
		HomeStatus:           null.StringFromPtr(homeStatus),
		FamilyComment:        null.StringFromPtr(rpt.FamilyComment),
		FinalObservation:     null.StringFromPtr(rpt.FinalObservation),
		FreeComments:         null.StringFromPtr(rpt.FreeComments),
		UserID:               rpt.UserID,
		CreatedAt:            rpt.CreatedAt.UTC(),
		UpdatedAt:            rpt.UpdatedAt.UTC(),
	}, nil
}

func (repo reportRepository) unpack(row reportRow) (report.WeeklyReport, error) {
	rpt := report.WeeklyReport{
		ID:                   row.ID,
		StudentFirstName:     row.StudentFirstName,
		StudentLastName:      row.StudentLastName,
		StudentClass:         report.StudentClass(row.StudentClass),
		ObserverName:         row.ObserverName,
		WeekStartDate:        row.WeekStartDate,
		WeekEndDate:          row.WeekEndDate,
		AutonomyComment:      row.AutonomyComment.Ptr(),
		FineMotorComment:     row.FineMotorComment.Ptr(),
		CommunicationComment: row.CommunicationComment.Ptr(),
		SocialComment:        row.SocialComment.Ptr(),
		HomeObjectiveWorked:  row.HomeObjectiveWorked,
		FamilyComment:        row.FamilyComment.Ptr(),
		FinalObservation:     row.FinalObservation.Ptr(),
		FreeComments:         row.FreeComments.Ptr(),
		UserID:               row.UserID,
		CreatedAt:            row.CreatedAt.UTC(),
		UpdatedAt:            row.UpdatedAt.UTC(),
	}
	if row.HomeStatus.Valid {
		status := report.HomeStatus(row.HomeStatus.String)
		rpt.HomeStatus = &status
	}

	if err := json.Unmarshal(row.AutonomySkills, &rpt.AutonomySkills); err != nil {
		return report.WeeklyReport{}, errors.Wrap(err, "unmarshaling autonomy skills")
	}
	if err := json.Unmarshal(row.FineMotorSkills, &rpt.FineMotorSkills); err != nil {
		return report.WeeklyReport{}, errors.Wrap(err, "unmarshaling fine motor skills")
	}
	if err := json.Unmarshal(row.CommunicationSkills, &rpt.CommunicationSkills); err != nil {
		return report.WeeklyReport{}, errors.Wrap(err, "unmarshaling communication skills")
	}
	if err := json.Unmarshal(row.SocialSkills, &rpt.SocialSkills); err != nil {
		return report.WeeklyReport{}, errors.Wrap(err, "unmarshaling social skills")
	}
	if err := json.Unmarshal(row.DailyTracking, &rpt.DailyTracking); err != nil {
		return report.WeeklyReport{}, errors.Wrap(err, "unmarshaling daily tracking")
	}
	return rpt, nil
}

// trapNoRowsErr maps psql "no rows" err to report.ErrNotFound
func (repo reportRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return report.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

const reportColumns = `id, student_first_name, student_last_name, student_class, observer_name,
week_start_date, week_end_date, autonomy_skills, autonomy_comment, fine_motor_skills,
fine_motor_comment, communication_skills, communication_comment, social_skills, social_comment,
daily_tracking, home_objective_worked, home_status, family_comment, final_observation,
free_comments, user_id, created_at, updated_at`

func (repo reportRepository) CreateReport(ctx context.Context, rpt report.WeeklyReport) (report.WeeklyReport, error) {
	rpt.ID = uuid.New().String()
	row, err := repo.pack(rpt)
	if err != nil {
		return report.WeeklyReport{}, err
	}

	_, err = repo.db.NamedExecContext(ctx, `
INSERT INTO weekly_report (`+reportColumns+`)
VALUES (:id, :student_first_name, :student_last_name, :student_class, :observer_name,
        :week_start_date, :week_end_date, :autonomy_skills, :autonomy_comment, :fine_motor_skills,
        :fine_motor_comment, :communication_skills, :communication_comment, :social_skills, :social_comment,
        :daily_tracking, :home_objective_worked, :home_status, :family_comment, :final_observation,
        :free_comments, :user_id, :created_at, :updated_at)`, row)
	if err != nil {
		return report.WeeklyReport{}, errors.Wrap(err, "inserting weekly report")
	}
	return rpt, nil
}

func (repo reportRepository) QueryReportsByOwner(ctx context.Context, ownerID string) ([]report.WeeklyReport, error) {
	var rows []reportRow
	err := repo.db.SelectContext(ctx, &rows, `
SELECT `+reportColumns+`, seq FROM weekly_report
WHERE user_id = $1
ORDER BY created_at DESC, seq DESC`, ownerID)
	if err != nil {
		return nil, errors.Wrap(err, "querying weekly reports")
	}

	reports := make([]report.WeeklyReport, 0, len(rows))
	for _, row := range rows {
		rpt, err := repo.unpack(row)
		if err != nil {
			return nil, err
		}
		reports = append(reports, rpt)
	}
	return reports, nil
}

func (repo reportRepository) GetReportByID(ctx context.Context, id string) (report.WeeklyReport, error) {
	if _, err := uuid.Parse(id); err != nil {
		return report.WeeklyReport{}, report.ErrNotFound
	}

	var row reportRow
	err := repo.db.GetContext(ctx, &row, `
SELECT `+reportColumns+`, seq FROM weekly_report WHERE id = $1`, id)
	if err != nil {
		return report.WeeklyReport{}, repo.trapNoRowsErr(err, "finding weekly report by ID")
	}
	return repo.unpack(row)
}

func (repo reportRepository) UpdateReport(ctx context.Context, rpt report.WeeklyReport) (report.WeeklyReport, error) {
	row, err := repo.pack(rpt)
	if err != nil {
		return report.WeeklyReport{}, err
	}

	res, err := repo.db.NamedExecContext(ctx, `
UPDATE weekly_report SET
    student_first_name = :student_first_name,
    student_last_name = :student_last_name,
    student_class = :student_class,
    observer_name = :observer_name,
    week_start_date = :week_start_date,
    week_end_date = :week_end_date,
    autonomy_skills = :autonomy_skills,
    autonomy_comment = :autonomy_comment,
    fine_motor_skills = :fine_motor_skills,
    fine_motor_comment = :fine_motor_comment,
    communication_skills = :communication_skills,
    communication_comment = :communication_comment,
    social_skills = :social_skills,
    social_comment = :social_comment,
    daily_tracking = :daily_tracking,
    home_objective_worked = :home_objective_worked,
    home_status = :home_status,
    family_comment = :family_comment,
    final_observation = :final_observation,
    free_comments = :free_comments,
    updated_at = :updated_at
WHERE id = :id`, row)
	if err != nil {
		return report.WeeklyReport{}, errors.Wrap(err, "updating weekly report")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return report.WeeklyReport{}, report.ErrNotFound
	}
	return rpt, nil
}

func (repo reportRepository) DeleteReport(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM weekly_report WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting weekly report")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return report.ErrNotFound
	}
	return nil
}
