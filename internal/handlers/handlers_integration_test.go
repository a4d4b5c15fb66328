package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"mars/internal/database"
	"mars/internal/handlers"
	"mars/internal/middleware"
	"mars/internal/models"
	"mars/internal/repositories"
	"mars/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// setupApp sets up a Fiber app for testing with in-memory SQLite and all handlers/services.
func setupApp(t *testing.T) (*fiber.App, *services.AuthService) {
	t.Helper()

	// Configure Viper for testing
	v := viper.New()
	v.SetDefault("SESSION_SECRET", "test_session_secret_0123456789")
	v.AutomaticEnv()

	// Initialize in-memory SQLite database
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	// Initialize Repositories
	userRepo := repositories.NewGORMUserRepository(db, 0)
	newsRepo := repositories.NewGORMNewsRepository(db, 0)
	jobRepo := repositories.NewGORMJobRepository(db, 0)
	sessionRepo := repositories.NewGORMSessionRepository(db, 0)

	// Initialize Services
	credentials := services.NewCredentialStore(bcrypt.MinCost)
	userService := services.NewUserService(userRepo, credentials, nil)
	newsService := services.NewNewsService(newsRepo, nil)
	jobService := services.NewJobService(jobRepo)
	authService := services.NewAuthService(userService, sessionRepo, credentials, services.AuthConfig{
		Secret: v.GetString("SESSION_SECRET"),
	})

	app := fiber.New()
	app.Use(middleware.LoadViewer(authService))

	handlers.NewAuthHandler(authService, false).RegisterRoutes(app)
	handlers.NewNewsHandler(newsService).RegisterRoutes(app)
	handlers.NewJobHandler(jobService).RegisterRoutes(app)

	return app, authService
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

func registration(email string) map[string]interface{} {
	return map[string]interface{}{
		"surname":        "Watney",
		"name":           "Mark",
		"age":            37,
		"position":       "crew",
		"speciality":     "botanist",
		"address":        "hab_1",
		"email":          email,
		"password":       "password123",
		"password_again": "password123",
	}
}

// doJSON sends a JSON request, optionally carrying a session cookie.
func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, session *http.Cookie) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != nil {
		req.AddCookie(session)
	}
	resp, err := app.Test(req, -1) // -1 for no timeout
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, cookie := range resp.Cookies() {
		if cookie.Name == middleware.SessionCookie {
			return cookie
		}
	}
	t.Fatalf("response has no %s cookie", middleware.SessionCookie)
	return nil
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func registerColonist(t *testing.T, app *fiber.App, email string) *http.Cookie {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/register", registration(email), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return sessionCookie(t, resp)
}

func TestAuthRegisterAndLogin(t *testing.T) {
	app, authService := setupApp(t)

	// Test Registration
	resp := doJSON(t, app, http.MethodPost, "/register", registration("mark@ares3.org"), nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var registerResp map[string]interface{}
	decode(t, resp, &registerResp)
	assert.Equal(t, "User registered successfully", registerResp["message"])
	profile, ok := registerResp["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "mark@ares3.org", profile["email"])
	assert.NotContains(t, profile, "password_hash")

	cookie := sessionCookie(t, resp)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Expires.IsZero(), "registration does not remember the session")

	// Test Duplicate Registration
	resp = doJSON(t, app, http.MethodPost, "/register", registration("mark@ares3.org"), nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	var conflictResp map[string]string
	decode(t, resp, &conflictResp)
	assert.Equal(t, "This user exists", conflictResp["message"])

	// Test Login
	resp = doJSON(t, app, http.MethodPost, "/login", map[string]interface{}{
		"email":       "mark@ares3.org",
		"password":    "password123",
		"remember_me": true,
	}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	remembered := sessionCookie(t, resp)
	assert.False(t, remembered.Expires.IsZero())

	var loginResp map[string]interface{}
	decode(t, resp, &loginResp)
	token, _ := loginResp["token"].(string)
	require.NotEmpty(t, token)
	claims, err := authService.ValidateToken(token)
	require.NoError(t, err)
	assert.True(t, claims.Remember)

	// Bad credentials get the same generic answer
	for _, creds := range []map[string]string{
		{"email": "mark@ares3.org", "password": "wrong"},
		{"email": "nobody@ares3.org", "password": "password123"},
	} {
		resp = doJSON(t, app, http.MethodPost, "/login", creds, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		var failResp map[string]string
		decode(t, resp, &failResp)
		assert.Equal(t, "Incorrect login or password", failResp["message"])
	}
}

func TestRegisterValidation(t *testing.T) {
	app, _ := setupApp(t)

	mismatch := registration("mark@ares3.org")
	mismatch["password_again"] = "password124"
	resp := doJSON(t, app, http.MethodPost, "/register", mismatch, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body map[string]interface{}
	decode(t, resp, &body)
	assert.Contains(t, body["errors"], "password_again")

	missing := registration("mark@ares3.org")
	delete(missing, "surname")
	resp = doJSON(t, app, http.MethodPost, "/register", missing, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Nothing was stored, so the email is still free
	registerColonist(t, app, "mark@ares3.org")
}

func TestNewsEndpointsWithoutAuth(t *testing.T) {
	app, _ := setupApp(t)

	tests := []struct {
		method string
		path   string
		body   interface{}
	}{
		{http.MethodPost, "/news", map[string]string{"title": "ghost"}},
		{http.MethodGet, "/news/1", nil},
		{http.MethodPost, "/news/1", map[string]string{"title": "ghost"}},
		{http.MethodGet, "/news_delete/1", nil},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			resp := doJSON(t, app, tt.method, tt.path, tt.body, nil)
			assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
			assert.Equal(t, middleware.LoginPath, resp.Header.Get(fiber.HeaderLocation))
		})
	}

	// The index is public
	resp := doJSON(t, app, http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNewsLifecycle(t *testing.T) {
	app, _ := setupApp(t)
	owner := registerColonist(t, app, "owner@mars.org")
	stranger := registerColonist(t, app, "stranger@mars.org")

	// --- Create (JSON) ---
	resp := doJSON(t, app, http.MethodPost, "/news", map[string]interface{}{
		"title":      "Greenhouse",
		"content":    "Potatoes are growing",
		"is_private": true,
	}, owner)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.News
	decode(t, resp, &created)
	assert.NotZero(t, created.ID)
	assert.True(t, created.IsPrivate)

	// --- Create (form) ---
	form := url.Values{"title": {"Dust storm"}, "content": {"Stay inside"}}
	req := httptest.NewRequest(http.MethodPost, "/news", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(owner)
	formResp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer formResp.Body.Close()
	require.Equal(t, http.StatusCreated, formResp.StatusCode)
	var public models.News
	decode(t, formResp, &public)
	assert.False(t, public.IsPrivate)

	// --- Index visibility ---
	var list []models.News
	decode(t, doJSON(t, app, http.MethodGet, "/", nil, nil), &list)
	require.Len(t, list, 1)
	assert.Equal(t, public.ID, list[0].ID)

	decode(t, doJSON(t, app, http.MethodGet, "/", nil, owner), &list)
	assert.Len(t, list, 2)

	// --- A stranger cannot see, edit or delete it ---
	path := fmt.Sprintf("/news/%d", created.ID)
	assert.Equal(t, http.StatusNotFound, doJSON(t, app, http.MethodGet, path, nil, stranger).StatusCode)
	assert.Equal(t, http.StatusNotFound, doJSON(t, app, http.MethodPost, path, map[string]string{"title": "mine now"}, stranger).StatusCode)
	assert.Equal(t, http.StatusNotFound, doJSON(t, app, http.MethodGet, fmt.Sprintf("/news_delete/%d", created.ID), nil, stranger).StatusCode)
	assert.Equal(t, http.StatusNotFound, doJSON(t, app, http.MethodGet, "/news/9999", nil, stranger).StatusCode)

	// --- Owner edits ---
	resp = doJSON(t, app, http.MethodGet, path, nil, owner)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, path, map[string]interface{}{"title": ""}, owner)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, path, map[string]interface{}{
		"title":   "Greenhouse",
		"content": "Harvest done",
	}, owner)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.News
	decode(t, resp, &updated)
	assert.Equal(t, "Harvest done", updated.Content)
	assert.False(t, updated.IsPrivate)

	// --- Owner deletes ---
	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/news_delete/%d", created.ID), nil, owner)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var deleteResp map[string]string
	decode(t, resp, &deleteResp)
	assert.Contains(t, deleteResp["message"], "deleted successfully")

	assert.Equal(t, http.StatusNotFound, doJSON(t, app, http.MethodGet, path, nil, owner).StatusCode)
}

func TestBearerToken(t *testing.T) {
	app, _ := setupApp(t)
	cookie := registerColonist(t, app, "api@mars.org")

	req := httptest.NewRequest(http.MethodPost, "/news", strings.NewReader(`{"title":"from the rover"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cookie.Value)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestLogout(t *testing.T) {
	app, _ := setupApp(t)
	cookie := registerColonist(t, app, "mark@ares3.org")

	resp := doJSON(t, app, http.MethodGet, "/logout", nil, cookie)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get(fiber.HeaderLocation))

	// The old token is revoked even if a client kept it
	resp = doJSON(t, app, http.MethodPost, "/news", map[string]string{"title": "after logout"}, cookie)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	// Logging out again, or anonymously, is harmless
	assert.Equal(t, http.StatusSeeOther, doJSON(t, app, http.MethodGet, "/logout", nil, cookie).StatusCode)
	assert.Equal(t, http.StatusSeeOther, doJSON(t, app, http.MethodGet, "/logout", nil, nil).StatusCode)
}

func TestJobsEndpoint(t *testing.T) {
	app, _ := setupApp(t)

	resp := doJSON(t, app, http.MethodGet, "/jobs", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var jobs []models.Job
	decode(t, resp, &jobs)
	assert.Empty(t, jobs)
}

func TestPublicListingsHideAuthorProfile(t *testing.T) {
	app, _ := setupApp(t)
	owner := registerColonist(t, app, "secret.owner@mars.org")

	resp := doJSON(t, app, http.MethodPost, "/news", map[string]interface{}{"title": "Open letter"}, owner)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	for _, session := range []*http.Cookie{nil, owner} {
		resp = doJSON(t, app, http.MethodGet, "/", nil, session)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		assert.NotContains(t, string(body), "secret.owner@mars.org")
		assert.NotContains(t, string(body), "hab_1")
		assert.NotContains(t, string(body), "password")

		var list []map[string]interface{}
		require.NoError(t, json.Unmarshal(body, &list))
		require.Len(t, list, 1)
		author, ok := list[0]["user"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "Watney", author["surname"])
		assert.Equal(t, "Mark", author["name"])
		assert.NotContains(t, author, "email")
		assert.NotContains(t, author, "address")
		assert.NotContains(t, author, "age")
	}
}
