package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edusuivi/hebdo/core/user"
)

func Test_authApi_currentUser(t *testing.T) {
	app := setup(t)

	usr := user.User{
		ID:        "sub-123",
		Email:     "awe@test.fr",
		FirstName: "Awa",
		LastName:  "Diallo",
		AvatarURL: "https://cdn.test.fr/awa.png",
	}

	t.Run("auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/auth/user")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)
	})

	t.Run("first fetch creates the user", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/auth/user", getToken(t, usr))
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)

		var got user.User
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, usr.ID, got.ID)
		assert.Equal(t, "Awa Diallo", got.FullName())
		assert.Equal(t, usr.AvatarURL, got.AvatarURL)
		assert.False(t, got.CreatedAt.IsZero())

		stored, err := usrRepo.GetUserByID(context.Background(), usr.ID)
		assert.NoError(t, err)
		assert.Equal(t, got.ID, stored.ID)
		assert.Equal(t, got.Email, stored.Email)
	})

	t.Run("next fetch follows profile changes", func(t *testing.T) {
		changed := usr
		changed.LastName = "Traore"
		req, rec := newAuthRequest(http.MethodGet, "/v1/auth/user", getToken(t, changed))
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)

		var got user.User
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "Awa Traore", got.FullName())
	})

	t.Run("claims without a subject are rejected", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/auth/user", getToken(t, user.User{Email: "ghost@test.fr"}))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"id": "this field is required"}),
		}, rec)
	})
}
