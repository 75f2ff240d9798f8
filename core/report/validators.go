package report

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/edusuivi/hebdo/core"
)

var (
	studentClassTag  = "studentclass"
	studentClassText = "must be one of: cp, ce1, ce2, cm1, cm2"

	dayStatusTag  = "daystatus"
	dayStatusText = "must be one of: done, in_progress, not_reached, unset"

	homeStatusTag  = "homestatus"
	homeStatusText = "must be one of: realized, not_realized"

	dateOrderTag  = "dateorder"
	dateOrderText = "must not be before weekStartDate"
)

// InitValidators registers the report validators on the given validator instance.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(studentClassTag, studentClassValidation)
	core.RegisterCustomTranslation(validate, translator, studentClassTag, studentClassText)

	_ = validate.RegisterValidation(dayStatusTag, dayStatusValidation)
	core.RegisterCustomTranslation(validate, translator, dayStatusTag, dayStatusText)

	_ = validate.RegisterValidation(homeStatusTag, homeStatusValidation)
	core.RegisterCustomTranslation(validate, translator, homeStatusTag, homeStatusText)

	validate.RegisterStructValidation(reportStructValidation, NewReport{}, UpdateReport{})
	core.RegisterCustomTranslation(validate, translator, dateOrderTag, dateOrderText)
}

// Custom Validators

// studentClassValidation checks that the provided grade level is a known one.
func studentClassValidation(fl validator.FieldLevel) bool {
	val := StudentClass(fl.Field().String())
	for _, class := range Classes {
		if val == class {
			return true
		}
	}
	return false
}

// dayStatusValidation checks that a daily objective status is a known one.
func dayStatusValidation(fl validator.FieldLevel) bool {
	val := DayStatus(fl.Field().String())
	for _, status := range DayStatuses {
		if val == status {
			return true
		}
	}
	return false
}

// homeStatusValidation checks that the home objective status is a known one.
func homeStatusValidation(fl validator.FieldLevel) bool {
	val := HomeStatus(fl.Field().String())
	for _, status := range HomeStatuses {
		if val == status {
			return true
		}
	}
	return false
}

// reportStructValidation does struct level validation on NewReport and UpdateReport.
func reportStructValidation(sl validator.StructLevel) {
	switch rpt := sl.Current().Interface().(type) {
	case NewReport:
		if !dateOrdered(rpt.WeekStartDate, rpt.WeekEndDate) {
			sl.ReportError(rpt.WeekEndDate, "weekEndDate", "WeekEndDate", dateOrderTag, "")
		}
	case UpdateReport:
		// both dates in one patch must still be ordered; a single date is
		// checked against the stored record by the service after merging
		if rpt.WeekStartDate != nil && rpt.WeekEndDate != nil {
			if !dateOrdered(*rpt.WeekStartDate, *rpt.WeekEndDate) {
				sl.ReportError(*rpt.WeekEndDate, "weekEndDate", "WeekEndDate", dateOrderTag, "")
			}
		}
	}
}
