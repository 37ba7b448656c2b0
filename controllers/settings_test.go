package controllers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sareeapi/models"
	"sareeapi/session"
	"sareeapi/test"
)

func TestSettingsAreAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	s := env.signIn(t, "Liza")

	for _, path := range []string{"/settings/credentials", "/settings/vendors", "/settings/users"} {
		rec := env.do(s, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code, path)
	}
}

func TestCredentialSettings(t *testing.T) {
	env := newTestEnv(t)
	s := env.signIn(t, "Admin")

	rec := env.do(s, http.MethodGet, "/settings/credentials", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []models.CredentialOut
	decode(t, rec, &list)
	require.Len(t, list, 1)
	assert.True(t, list[0].Active)
	assert.NotContains(t, rec.Body.String(), "env-key")

	rec = env.do(s, http.MethodPost, "/settings/credentials", models.CredentialIn{Key: "second-key-123456"})
	require.Equal(t, http.StatusCreated, rec.Code)
	decode(t, rec, &list)
	require.Len(t, list, 2)
	assert.False(t, list[1].Active)

	rec = env.do(s, http.MethodDelete, "/settings/credentials/0", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &list)
	require.Len(t, list, 1)
	assert.True(t, list[0].Active)
	key, _ := s.Credentials.Active()
	assert.Equal(t, "second-key-123456", key)

	rec = env.do(s, http.MethodDelete, "/settings/credentials/7", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = env.do(s, http.MethodDelete, "/settings/credentials/first", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCredentialLimit(t *testing.T) {
	env := newTestEnv(t)
	s := env.signIn(t, "Admin")

	for s.Credentials.Len() < session.MaxCredentials {
		require.NoError(t, s.Credentials.Add("key"))
	}
	rec := env.do(s, http.MethodPost, "/settings/credentials", models.CredentialIn{Key: "one-too-many"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, session.MsgTooManyCredentials, message(t, rec))
}

func TestVendorSettings(t *testing.T) {
	env := newTestEnv(t)
	s := env.signIn(t, "sbhatta4")

	rec := env.do(s, http.MethodPost, "/settings/vendors", models.VendorIn{Name: "Kolkata Weaves", Code: "KW"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var vendor models.Vendor
	decode(t, rec, &vendor)
	assert.NotEmpty(t, vendor.ID)

	rec = env.do(s, http.MethodGet, "/settings/vendors", nil)
	var vendors []models.Vendor
	decode(t, rec, &vendors)
	require.Len(t, vendors, 2)
	assert.Equal(t, "Mou", vendors[0].Code)

	rec = env.do(s, http.MethodPost, "/settings/vendors", models.VendorIn{Name: "No Code"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(s, http.MethodDelete, "/settings/vendors/"+vendor.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(s, http.MethodDelete, "/settings/vendors/"+vendor.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserSettings(t *testing.T) {
	env := newTestEnv(t)
	s := env.signIn(t, "Admin")

	rec := env.do(s, http.MethodGet, "/settings/users", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var users []models.UserInfoOut
	decode(t, rec, &users)
	assert.Len(t, users, 3)

	rec = env.do(s, http.MethodPost, "/settings/users/Liza/reset-password", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.serve(test.NewJSONRequest(http.MethodPost, "/auth/login", models.LoginIn{Username: "Liza", Password: session.ResetPassword}))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(s, http.MethodPost, "/settings/users/ghost/reset-password", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
