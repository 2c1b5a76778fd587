package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"workclock/internal/adapters/http/middleware"
	"workclock/internal/adapters/persistence/models"
	"workclock/internal/config"
	"workclock/internal/pkg/password"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	cfg := &config.Config{
		AppMode:     "dev",
		Port:        "0",
		Propagation: config.PropagationBestEffort,
		JWT: config.JWTConfig{
			Secret:           "test_secret",
			RefreshSecret:    "test_refresh_secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
		Cookie: config.CookieConfig{SameSite: "lax"},
	}

	app := fiber.New(fiber.Config{ErrorHandler: middleware.CustomErrorHandler})
	Setup(app, db, cfg)
	return app, db
}

func seedAccount(t *testing.T, db *gorm.DB, username, role string) {
	t.Helper()

	hash, err := password.Hash("secret-password")
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.User{
		EmployeeID: "EMP-" + username,
		Username:   username,
		Email:      username + "@example.com",
		Password:   hash,
		FullName:   username,
		Role:       role,
		IsActive:   true,
	}).Error)
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var parsed map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &parsed))
	}

	return resp.StatusCode, parsed
}

func login(t *testing.T, app *fiber.App, username string) string {
	t.Helper()

	status, body := doJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"username": username,
		"password": "secret-password",
	})
	require.Equal(t, http.StatusOK, status)

	data := body["data"].(map[string]interface{})
	return data["access_token"].(string)
}

func TestHealthEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := doJSON(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestRegisterAndLogin(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"username":  "alice",
		"email":     "alice@example.com",
		"password":  "secret-password",
		"full_name": "Alice Example",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, true, body["success"])

	token := login(t, app, "alice")
	assert.NotEmpty(t, token)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"username":  "alice",
		"email":     "alice@example.com",
		"password":  "short",
		"full_name": "Alice Example",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
}

func TestProtectedRouteNeedsToken(t *testing.T) {
	app, _ := newTestApp(t)

	status, _ := doJSON(t, app, http.MethodPost, "/api/attendance/checkin", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestTokenExtractionPaths(t *testing.T) {
	app, db := newTestApp(t)
	seedAccount(t, db, "carol", models.RoleEmployee)
	token := login(t, app, "carol")

	cases := []struct {
		name  string
		apply func(req *http.Request)
		want  int
	}{
		{
			name: "cookie",
			apply: func(req *http.Request) {
				req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
			},
			want: http.StatusOK,
		},
		{
			name: "bearer header",
			apply: func(req *http.Request) {
				req.Header.Set("Authorization", "Bearer "+token)
			},
			want: http.StatusOK,
		},
		{
			name: "x-auth-token header",
			apply: func(req *http.Request) {
				req.Header.Set("x-auth-token", token)
			},
			want: http.StatusOK,
		},
		{
			name: "authorization without bearer prefix",
			apply: func(req *http.Request) {
				req.Header.Set("Authorization", token)
			},
			want: http.StatusUnauthorized,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			tc.apply(req)

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

func TestCheckInFlow(t *testing.T) {
	app, db := newTestApp(t)
	seedAccount(t, db, "alice", models.RoleEmployee)
	token := login(t, app, "alice")

	status, body := doJSON(t, app, http.MethodPost, "/api/attendance/checkin", token, nil)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, true, body["success"])

	// Second check-in the same day is refused with 400
	status, body = doJSON(t, app, http.MethodPost, "/api/attendance/checkin", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])

	// Check out today's record
	status, body = doJSON(t, app, http.MethodPut, "/api/attendance/checkout", token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
}

func TestAdminOnlyRoutes(t *testing.T) {
	app, db := newTestApp(t)
	seedAccount(t, db, "alice", models.RoleEmployee)
	seedAccount(t, db, "boss", models.RoleAdmin)

	aliceToken := login(t, app, "alice")
	bossToken := login(t, app, "boss")

	status, _ := doJSON(t, app, http.MethodGet, "/api/leaves", aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = doJSON(t, app, http.MethodGet, "/api/leaves", bossToken, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, app, http.MethodGet, "/api/dashboard/admin", aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = doJSON(t, app, http.MethodGet, "/api/dashboard/admin", bossToken, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestLeaveLifecycleOverHTTP(t *testing.T) {
	app, db := newTestApp(t)
	seedAccount(t, db, "alice", models.RoleEmployee)
	seedAccount(t, db, "boss", models.RoleAdmin)

	aliceToken := login(t, app, "alice")
	bossToken := login(t, app, "boss")

	status, body := doJSON(t, app, http.MethodPost, "/api/leaves", aliceToken, fiber.Map{
		"leave_type": "annual",
		"start_date": "2026-09-10T00:00:00Z",
		"end_date":   "2026-09-12T00:00:00Z",
		"reason":     "vacation",
	})
	require.Equal(t, http.StatusCreated, status)
	leaveID := int(body["data"].(map[string]interface{})["id"].(float64))

	// Overlapping request is refused
	status, _ = doJSON(t, app, http.MethodPost, "/api/leaves", aliceToken, fiber.Map{
		"leave_type": "casual",
		"start_date": "2026-09-12T00:00:00Z",
		"end_date":   "2026-09-14T00:00:00Z",
		"reason":     "more vacation",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	// Employees cannot decide
	path := "/api/leaves/" + strconv.Itoa(leaveID)
	status, _ = doJSON(t, app, http.MethodPut, path, aliceToken, fiber.Map{
		"status": "approved",
	})
	assert.Equal(t, http.StatusForbidden, status)

	// Unknown body keys are rejected
	status, _ = doJSON(t, app, http.MethodPut, path, bossToken, fiber.Map{
		"status": "approved",
		"bogus":  true,
	})
	assert.Equal(t, http.StatusBadRequest, status)

	// Admin approves
	status, body = doJSON(t, app, http.MethodPut, path, bossToken, fiber.Map{
		"status": "approved",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "approved", body["data"].(map[string]interface{})["status"])

	// Deciding twice is refused
	status, _ = doJSON(t, app, http.MethodPut, path, bossToken, fiber.Map{
		"status":        "rejected",
		"admin_comment": "no",
	})
	assert.Equal(t, http.StatusBadRequest, status)
}
