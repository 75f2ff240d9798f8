package report

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/edusuivi/hebdo/core"
)

var (
	// ErrNotFound covers both a missing report and an ownership mismatch:
	// non-owners must not be able to probe for a report's existence.
	ErrNotFound = errors.New("report not found")
)

type (
	Repository interface {
		CreateReport(ctx context.Context, rpt WeeklyReport) (WeeklyReport, error)
		QueryReportsByOwner(ctx context.Context, ownerID string) ([]WeeklyReport, error)
		GetReportByID(ctx context.Context, id string) (WeeklyReport, error)
		UpdateReport(ctx context.Context, rpt WeeklyReport) (WeeklyReport, error)
		DeleteReport(ctx context.Context, id string) error
	}

	Service interface {
		Create(ctx context.Context, nr NewReport, ownerID string) (WeeklyReport, error)
		QueryByOwner(ctx context.Context, ownerID string) ([]WeeklyReport, error)
		GetByID(ctx context.Context, id string) (WeeklyReport, error)
		Update(ctx context.Context, id string, ur UpdateReport, ownerID string) (WeeklyReport, error)
		Delete(ctx context.Context, id, ownerID string) error
	}

	service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
	}
)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) Service {
	return &service{
		repo:    repo,
		mailSvc: mailSvc,
		conf:    conf,
	}
}

func (svc *service) Create(ctx context.Context, nr NewReport, ownerID string) (WeeklyReport, error) {
	now := time.Now().UTC()
	rpt := WeeklyReport{
		StudentFirstName:     nr.StudentFirstName,
		StudentLastName:      nr.StudentLastName,
		StudentClass:         nr.StudentClass,
		ObserverName:         nr.ObserverName,
		WeekStartDate:        nr.WeekStartDate,
		WeekEndDate:          nr.WeekEndDate,
		AutonomySkills:       nr.AutonomySkills,
		AutonomyComment:      nr.AutonomyComment,
		FineMotorSkills:      nr.FineMotorSkills,
		FineMotorComment:     nr.FineMotorComment,
		CommunicationSkills:  nr.CommunicationSkills,
		CommunicationComment: nr.CommunicationComment,
		SocialSkills:         nr.SocialSkills,
		SocialComment:        nr.SocialComment,
		DailyTracking:        nr.DailyTracking,
		HomeObjectiveWorked:  nr.HomeObjectiveWorked,
		HomeStatus:           nr.HomeStatus,
		FamilyComment:        nr.FamilyComment,
		FinalObservation:     nr.FinalObservation,
		FreeComments:         nr.FreeComments,
		UserID:               ownerID,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	rpt, err := svc.repo.CreateReport(ctx, rpt)
	if err != nil {
		return WeeklyReport{}, err
	}
	svc.sendReportCreatedMail(rpt)
	return rpt, nil
}

func (svc *service) QueryByOwner(ctx context.Context, ownerID string) ([]WeeklyReport, error) {
	return svc.repo.QueryReportsByOwner(ctx, ownerID)
}

func (svc *service) GetByID(ctx context.Context, id string) (WeeklyReport, error) {
	return svc.repo.GetReportByID(ctx, id)
}

func (svc *service) Update(ctx context.Context, id string, ur UpdateReport, ownerID string) (WeeklyReport, error) {
	rpt, err := svc.getOwned(ctx, id, ownerID)
	if err != nil {
		return WeeklyReport{}, err
	}

	rpt = ur.apply(rpt)
	if !dateOrdered(rpt.WeekStartDate, rpt.WeekEndDate) {
		return WeeklyReport{}, core.NewValidationError(
			errors.New(dateOrderText),
			core.FieldError{Field: "weekEndDate", Error: dateOrderText},
		)
	}
	rpt.UpdatedAt = time.Now().UTC()

	return svc.repo.UpdateReport(ctx, rpt)
}

func (svc *service) Delete(ctx context.Context, id, ownerID string) error {
	if _, err := svc.getOwned(ctx, id, ownerID); err != nil {
		return err
	}
	return svc.repo.DeleteReport(ctx, id)
}

// getOwned fetches a report and hides it behind ErrNotFound when owned by
// someone else.
func (svc *service) getOwned(ctx context.Context, id, ownerID string) (WeeklyReport, error) {
	rpt, err := svc.repo.GetReportByID(ctx, id)
	if err != nil {
		return WeeklyReport{}, err
	}
	if rpt.UserID != ownerID {
		return WeeklyReport{}, ErrNotFound
	}
	return rpt, nil
}

func (svc *service) sendReportCreatedMail(rpt WeeklyReport) {
	if svc.conf.ReportNotifyEmail == "" {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Address: svc.conf.ReportNotifyEmail}},
		Subject:      "New weekly report for " + rpt.StudentName(),
		TemplateName: "report_created",
		TemplateData: struct {
			ID            string
			StudentName   string
			StudentClass  StudentClass
			WeekStartDate string
			WeekEndDate   string
			ObserverName  string
		}{rpt.ID, rpt.StudentName(), rpt.StudentClass, rpt.WeekStartDate, rpt.WeekEndDate, rpt.ObserverName},
	})
}
