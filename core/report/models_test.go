package report

import (
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/edusuivi/hebdo/core"
)

func newValidator() *validator.Validate {
	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)
	return validate
}

func validNewReport() NewReport {
	return NewReport{
		StudentFirstName: "Asma",
		StudentLastName:  "Martin",
		StudentClass:     ClassCE1,
		ObserverName:     "Mme Diallo",
		WeekStartDate:    "2024-01-01",
		WeekEndDate:      "2024-01-05",
	}
}

// fieldErrs indexes validator errors by their (JSON) field name.
func fieldErrs(t *testing.T, err error) map[string]string {
	t.Helper()

	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		t.Fatalf("expected validator.ValidationErrors, got %T: %v", err, err)
	}
	fields := make(map[string]string, len(vErrs))
	for _, vErr := range vErrs {
		fields[vErr.Field()] = vErr.Tag()
	}
	return fields
}

func TestNewReport_Validate(t *testing.T) {
	validate := newValidator()

	t.Run("valid", func(t *testing.T) {
		nr := validNewReport()
		assert.NoError(t, nr.Validate(validate))
	})

	t.Run("names are trimmed", func(t *testing.T) {
		nr := validNewReport()
		nr.StudentFirstName = "  Asma "
		nr.ObserverName = " Mme Diallo  "
		assert.NoError(t, nr.Validate(validate))
		assert.Equal(t, "Asma", nr.StudentFirstName)
		assert.Equal(t, "Mme Diallo", nr.ObserverName)
	})

	t.Run("statuses default to unset", func(t *testing.T) {
		nr := validNewReport()
		assert.NoError(t, nr.Validate(validate))
		assert.Equal(t, StatusUnset, nr.DailyTracking.Monday.Status)
		assert.Equal(t, StatusUnset, nr.DailyTracking.Friday.Status)
	})

	t.Run("missing required fields", func(t *testing.T) {
		nr := NewReport{}
		err := nr.Validate(validate)
		assert.Error(t, err)

		fields := fieldErrs(t, err)
		for _, fld := range []string{
			"studentFirstName", "studentLastName", "studentClass",
			"observerName", "weekStartDate", "weekEndDate",
		} {
			assert.Contains(t, fields, fld)
		}
	})

	t.Run("whitespace-only name is rejected", func(t *testing.T) {
		nr := validNewReport()
		nr.StudentLastName = "   "
		err := nr.Validate(validate)
		assert.Error(t, err)
		assert.Contains(t, fieldErrs(t, err), "studentLastName")
	})

	t.Run("unknown class", func(t *testing.T) {
		nr := validNewReport()
		nr.StudentClass = "6eme"
		err := nr.Validate(validate)
		assert.Error(t, err)
		assert.Equal(t, "studentclass", fieldErrs(t, err)["studentClass"])
	})

	t.Run("malformed dates", func(t *testing.T) {
		nr := validNewReport()
		nr.WeekStartDate = "01/01/2024"
		nr.WeekEndDate = "2024-13-40"
		err := nr.Validate(validate)
		assert.Error(t, err)

		fields := fieldErrs(t, err)
		assert.Equal(t, "isodate", fields["weekStartDate"])
		assert.Equal(t, "isodate", fields["weekEndDate"])
	})

	t.Run("end before start", func(t *testing.T) {
		nr := validNewReport()
		nr.WeekStartDate = "2024-01-05"
		nr.WeekEndDate = "2024-01-01"
		err := nr.Validate(validate)
		assert.Error(t, err)
		assert.Equal(t, "dateorder", fieldErrs(t, err)["weekEndDate"])
	})

	t.Run("same day week is fine", func(t *testing.T) {
		nr := validNewReport()
		nr.WeekStartDate = "2024-01-03"
		nr.WeekEndDate = "2024-01-03"
		assert.NoError(t, nr.Validate(validate))
	})

	t.Run("malformed date does not double-report as unordered", func(t *testing.T) {
		nr := validNewReport()
		nr.WeekEndDate = "lol"
		err := nr.Validate(validate)
		assert.Error(t, err)
		assert.Equal(t, "isodate", fieldErrs(t, err)["weekEndDate"])
	})

	t.Run("unknown day status", func(t *testing.T) {
		nr := validNewReport()
		nr.DailyTracking.Tuesday.Status = "perhaps"
		err := nr.Validate(validate)
		assert.Error(t, err)
		assert.Equal(t, "daystatus", fieldErrs(t, err)["status"])
	})

	t.Run("unknown home status", func(t *testing.T) {
		nr := validNewReport()
		hs := HomeStatus("meh")
		nr.HomeStatus = &hs
		err := nr.Validate(validate)
		assert.Error(t, err)
		assert.Equal(t, "homestatus", fieldErrs(t, err)["homeStatus"])
	})
}

func TestUpdateReport_Validate(t *testing.T) {
	validate := newValidator()

	sPtr := func(s string) *string { return &s }

	t.Run("empty patch is valid", func(t *testing.T) {
		ur := UpdateReport{}
		assert.NoError(t, ur.Validate(validate))
	})

	t.Run("empty string field is rejected", func(t *testing.T) {
		ur := UpdateReport{StudentFirstName: sPtr("  ")}
		err := ur.Validate(validate)
		assert.Error(t, err)
		assert.Contains(t, fieldErrs(t, err), "studentFirstName")
	})

	t.Run("single date is not checked for order", func(t *testing.T) {
		ur := UpdateReport{WeekEndDate: sPtr("2023-12-25")}
		assert.NoError(t, ur.Validate(validate))
	})

	t.Run("both dates must be ordered", func(t *testing.T) {
		ur := UpdateReport{
			WeekStartDate: sPtr("2024-01-05"),
			WeekEndDate:   sPtr("2024-01-01"),
		}
		err := ur.Validate(validate)
		assert.Error(t, err)
		assert.Equal(t, "dateorder", fieldErrs(t, err)["weekEndDate"])
	})

	t.Run("unknown class", func(t *testing.T) {
		class := StudentClass("lycee")
		ur := UpdateReport{StudentClass: &class}
		err := ur.Validate(validate)
		assert.Error(t, err)
		assert.Equal(t, "studentclass", fieldErrs(t, err)["studentClass"])
	})
}

func TestUpdateReport_apply(t *testing.T) {
	rpt := WeeklyReport{
		StudentFirstName: "Asma",
		StudentLastName:  "Martin",
		StudentClass:     ClassCE1,
		ObserverName:     "Mme Diallo",
		WeekStartDate:    "2024-01-01",
		WeekEndDate:      "2024-01-05",
	}

	t.Run("empty patch changes nothing", func(t *testing.T) {
		assert.Equal(t, rpt, UpdateReport{}.apply(rpt))
	})

	t.Run("present fields are merged", func(t *testing.T) {
		name := "Amina"
		class := ClassCE2
		comment := "Great week overall"
		worked := true
		ur := UpdateReport{
			StudentFirstName:    &name,
			StudentClass:        &class,
			FreeComments:        &comment,
			HomeObjectiveWorked: &worked,
			SocialSkills:        &SocialSkills{Sharing: true},
		}

		got := ur.apply(rpt)
		assert.Equal(t, "Amina", got.StudentFirstName)
		assert.Equal(t, ClassCE2, got.StudentClass)
		assert.Equal(t, &comment, got.FreeComments)
		assert.True(t, got.HomeObjectiveWorked)
		assert.True(t, got.SocialSkills.Sharing)
		// untouched fields survive
		assert.Equal(t, "Martin", got.StudentLastName)
		assert.Equal(t, "2024-01-05", got.WeekEndDate)
	})
}
