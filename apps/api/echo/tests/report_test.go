package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/edusuivi/hebdo/core/report"
	"github.com/edusuivi/hebdo/core/user"
	emailsvc "github.com/edusuivi/hebdo/services/email"
	"github.com/edusuivi/hebdo/tests"
)

func validReportPayload() map[string]interface{} {
	return map[string]interface{}{
		"studentFirstName": "Asma",
		"studentLastName":  "Martin",
		"studentClass":     "ce1",
		"observerName":     "Mme Diallo",
		"weekStartDate":    "2024-01-01",
		"weekEndDate":      "2024-01-05",
		"autonomySkills":   map[string]bool{"dressing": true},
		"dailyTracking": map[string]interface{}{
			"monday": map[string]string{
				"objective": "Hold scissors correctly",
				"status":    "in_progress",
			},
		},
	}
}

func Test_reportApi_create(t *testing.T) {
	app := setup(t)

	owner := user.User{ID: "usr1", Email: "awe@test.fr", FirstName: "Awa", LastName: "Diallo"}
	token := getToken(t, owner)

	t.Run("auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/reports", marchallObj(t, validReportPayload()))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)
	})

	t.Run("unknown field is rejected", func(t *testing.T) {
		payload := validReportPayload()
		payload["studentAge"] = 9
		req, rec := newAuthRequest(http.MethodPost, "/v1/reports", token, marchallObj(t, payload))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: `invalid request body: json: unknown field "studentAge"`}),
		}, rec)
	})

	t.Run("missing fields", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/reports", token, []byte(`{"studentFirstName":"Asma"}`))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"studentLastName": "this field is required",
				"studentClass":    "this field is required",
				"observerName":    "this field is required",
				"weekStartDate":   "this field is required",
				"weekEndDate":     "this field is required",
			}),
		}, rec)
	})

	t.Run("end before start", func(t *testing.T) {
		payload := validReportPayload()
		payload["weekStartDate"] = "2024-01-05"
		payload["weekEndDate"] = "2024-01-01"
		req, rec := newAuthRequest(http.MethodPost, "/v1/reports", token, marchallObj(t, payload))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"weekEndDate": "must not be before weekStartDate"}),
		}, rec)
	})

	t.Run("created", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/reports", token, marchallObj(t, validReportPayload()))
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var rpt report.WeeklyReport
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rpt))
		assert.NotEmpty(t, rpt.ID)
		assert.Equal(t, owner.ID, rpt.UserID)
		assert.Equal(t, report.ClassCE1, rpt.StudentClass)
		assert.True(t, rpt.AutonomySkills.Dressing)
		assert.False(t, rpt.AutonomySkills.Washing)
		assert.Equal(t, report.StatusInProgress, rpt.DailyTracking.Monday.Status)
		assert.Equal(t, report.StatusUnset, rpt.DailyTracking.Tuesday.Status)
		assert.Equal(t, rpt.CreatedAt, rpt.UpdatedAt)

		// coordinator notification went out
		assert.Len(t, emailsvc.SentMessages, 1)
		assert.Contains(t, emailsvc.SentMessages[0].Subject, "Asma Martin")
	})

	t.Run("server-controlled fields are discarded", func(t *testing.T) {
		payload := validReportPayload()
		payload["id"] = "forged-id"
		payload["userId"] = "someone-else"
		payload["createdAt"] = "1970-01-01T00:00:00Z"
		payload["updatedAt"] = "1970-01-01T00:00:00Z"
		req, rec := newAuthRequest(http.MethodPost, "/v1/reports", token, marchallObj(t, payload))
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var rpt report.WeeklyReport
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rpt))
		assert.NotEqual(t, "forged-id", rpt.ID)
		assert.Equal(t, owner.ID, rpt.UserID)
		assert.NotEqual(t, 1970, rpt.CreatedAt.Year())
	})
}

func Test_reportApi_query(t *testing.T) {
	app := setup(t)

	owner := user.User{ID: "usr1"}
	other := user.User{ID: "usr2"}
	token := getToken(t, owner)

	t.Run("auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/reports")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)
	})

	t.Run("empty", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/reports", token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, []report.WeeklyReport{})}, rec)
	})

	t.Run("only own reports, most recent first", func(t *testing.T) {
		now := time.Now()
		old := testutil.CreateReport(t, rptRepo, owner.ID, now.Add(-time.Hour))
		recent := testutil.CreateReport(t, rptRepo, owner.ID, now)
		testutil.CreateReport(t, rptRepo, other.ID, now)

		req, rec := newAuthRequest(http.MethodGet, "/v1/reports", token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, recent, old)}, rec)
	})
}

func Test_reportApi_retrieve(t *testing.T) {
	app := setup(t)

	owner := user.User{ID: "usr1"}
	rpt := testutil.CreateReport(t, rptRepo, owner.ID)
	path := fmt.Sprintf("/v1/reports/%s", rpt.ID)

	tests := []httpTest{
		{name: "auth required", path: path, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "not found", path: "/v1/reports/4f9f51c2-84f6-422b-b6a3-8cfa6a2b4ed6", token: getToken(t, owner),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{name: "owner reads own report", path: path, token: getToken(t, owner), wantCode: http.StatusOK, wantData: marchallObj(t, rpt)},
		{
			name: "reads are not ownership-checked", path: path, token: getToken(t, user.User{ID: "usr2"}),
			wantCode: http.StatusOK, wantData: marchallObj(t, rpt),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_reportApi_update(t *testing.T) {
	app := setup(t)

	owner := user.User{ID: "usr1"}
	token := getToken(t, owner)
	rpt := testutil.CreateReport(t, rptRepo, owner.ID)
	path := fmt.Sprintf("/v1/reports/%s", rpt.ID)

	t.Run("auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodPut, path, []byte(`{}`))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)
	})

	t.Run("unknown field is rejected", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, path, token, []byte(`{"studentAge":9}`))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: `invalid request body: json: unknown field "studentAge"`}),
		}, rec)
	})

	t.Run("non-owner sees not found", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, path, getToken(t, user.User{ID: "usr2"}), []byte(`{"observerName":"Intruder"}`))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})}, rec)
	})

	t.Run("new start date must not pass the stored end date", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, path, token, []byte(`{"weekStartDate":"2024-02-01"}`))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"weekEndDate": "must not be before weekStartDate"}),
		}, rec)
	})

	t.Run("owner updates own report", func(t *testing.T) {
		body := []byte(`{"observerName":"M. Traore","socialSkills":{"sharing":true},"freeComments":"Great week"}`)
		req, rec := newAuthRequest(http.MethodPut, path, token, body)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)

		var got report.WeeklyReport
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "M. Traore", got.ObserverName)
		assert.True(t, got.SocialSkills.Sharing)
		assert.Equal(t, "Great week", *got.FreeComments)
		assert.Equal(t, rpt.StudentFirstName, got.StudentFirstName)
		assert.True(t, got.UpdatedAt.After(rpt.UpdatedAt))
	})
}

func Test_reportApi_destroy(t *testing.T) {
	app := setup(t)

	owner := user.User{ID: "usr1"}
	token := getToken(t, owner)
	rpt := testutil.CreateReport(t, rptRepo, owner.ID)
	path := fmt.Sprintf("/v1/reports/%s", rpt.ID)

	t.Run("auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodDelete, path)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)
	})

	t.Run("non-owner sees not found", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, path, getToken(t, user.User{ID: "usr2"}))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})}, rec)
	})

	t.Run("owner deletes own report", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, path, token)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		req, rec = newAuthRequest(http.MethodGet, path, token)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("already gone", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, path, token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})}, rec)
	})
}
