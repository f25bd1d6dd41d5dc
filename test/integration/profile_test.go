package integration_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexusjob_backend/internal/models"
	"nexusjob_backend/internal/services/dto"
	"nexusjob_backend/test/helpers"
)

func TestProfileUpsert(t *testing.T) {
	ts := GetTestServer(t)
	ts.ClearTables()

	// A fresh identity from the provider, no profile row yet.
	userID := uuid.NewString()
	token := helpers.MintToken(t, userID, "Jane Seeker", models.UserRoleSeeker)

	res, _ := ts.SendRequest(t, http.MethodGet, "/api/v1/profile", token, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	saveBody := map[string]interface{}{
		"name":   "Jane Seeker",
		"email":  "jane@test.com",
		"bio":    "Backend developer",
		"skills": []string{"go", "postgres"},
	}
	res, body := ts.SendRequest(t, http.MethodPut, "/api/v1/profile", token, saveBody)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var profile dto.UserResponse
	require.NoError(t, json.Unmarshal([]byte(body), &profile))
	assert.Equal(t, userID, profile.ID)
	assert.Equal(t, models.UserRoleSeeker, profile.Role)
	assert.Equal(t, []string{"go", "postgres"}, profile.Skills)

	// Second save updates in place.
	saveBody["bio"] = "Senior backend developer"
	res, body = ts.SendRequest(t, http.MethodPut, "/api/v1/profile", token, saveBody)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	require.NoError(t, json.Unmarshal([]byte(body), &profile))
	assert.Equal(t, "Senior backend developer", profile.Bio)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/profile", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.NoError(t, json.Unmarshal([]byte(body), &profile))
	assert.Equal(t, "Senior backend developer", profile.Bio)
}

func TestProfileValidation(t *testing.T) {
	ts := GetTestServer(t)
	ts.ClearTables()

	token := helpers.MintToken(t, uuid.NewString(), "Jane Seeker", models.UserRoleSeeker)

	saveBody := map[string]interface{}{
		"name":  "Jane Seeker",
		"email": "not-an-email",
	}
	res, body := ts.SendRequest(t, http.MethodPut, "/api/v1/profile", token, saveBody)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, body, "email")
}

func TestEndSession(t *testing.T) {
	ts := GetTestServer(t)
	ts.ClearTables()

	_, token := helpers.CreateSeeker(t, ts.DB, "Jane Seeker")

	res, _ := ts.SendRequest(t, http.MethodDelete, "/api/v1/session", token, nil)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	// The token still works, a fresh session is started on demand.
	res, _ = ts.SendRequest(t, http.MethodGet, "/api/v1/jobs", token, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestRejectedTokens(t *testing.T) {
	ts := GetTestServer(t)
	ts.ClearTables()

	res, _ := ts.SendRequest(t, http.MethodGet, "/api/v1/profile", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}
