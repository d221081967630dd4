package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nexscholar/backend/internal/models"
)

func setupAuthEnv(t *testing.T, name string) *testEnv {
	t.Helper()
	env := setupEnv(t, name)
	auth := env.e.Group("/api/v1/auth")
	NewAuthHandler(env.users, "test-secret").RegisterAuthRoutes(auth)
	return env
}

func TestSignupAndSignIn(t *testing.T) {
	env := setupAuthEnv(t, "h_auth_flow")

	rec := env.request(http.MethodPost, "/api/v1/auth/signup", models.CreateUserRequest{
		Name:        "Dr. Chen",
		Email:       "chen@nexscholar.test",
		Password:    "correct-horse",
		Title:       "Dr.",
		Institution: "Nexscholar University",
	}, 0)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var signup struct {
		Token string `json:"token"`
	}
	decodeBody(t, rec, &signup)
	assert.NotEmpty(t, signup.Token)

	rec = env.request(http.MethodPost, "/api/v1/auth/signin", map[string]string{
		"email": "chen@nexscholar.test", "password": "correct-horse",
	}, 0)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.request(http.MethodPost, "/api/v1/auth/signin", map[string]string{
		"email": "chen@nexscholar.test", "password": "wrong",
	}, 0)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	env := setupAuthEnv(t, "h_auth_dup")
	env.seedUser(t, "Dr. Chen", "chen@nexscholar.test")

	rec := env.request(http.MethodPost, "/api/v1/auth/signup", models.CreateUserRequest{
		Name: "Dr. Chen", Email: "chen@nexscholar.test", Password: "correct-horse",
	}, 0)
	assert.Equal(t, http.StatusConflict, rec.Code)
}
