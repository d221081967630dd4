package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nexscholar/backend/internal/models"
	"github.com/nexscholar/backend/internal/notify"
	"github.com/nexscholar/backend/internal/repositories"
)

// recordingSender captures outgoing mail instead of talking to SMTP.
type recordingSender struct {
	mu   sync.Mutex
	sent []string // "to|subject"
}

func (s *recordingSender) Send(to, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, to+"|"+subject)
	return nil
}

func (s *recordingSender) all() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.sent))
	copy(out, s.sent)
	return out
}

// testAuth substitutes the JWT middleware: the acting user comes from a
// test-only request header.
func testAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if v := c.Request().Header.Get("X-Test-User"); v != "" {
				id, err := strconv.ParseUint(v, 10, 32)
				if err == nil {
					c.Set("user", &models.JwtCustomClaims{UserID: uint(id)})
				}
			}
			return next(c)
		}
	}
}

type testEnv struct {
	e             *echo.Echo
	db            *gorm.DB
	users         repositories.UserRepository
	workspaces    repositories.WorkspaceRepository
	tasks         repositories.TaskRepository
	notifications repositories.NotificationRepository
	preferences   repositories.PreferenceRepository
	dispatcher    *notify.Dispatcher
	sender        *recordingSender

	closeOnce sync.Once
}

func (env *testEnv) closeDispatcher() {
	env.closeOnce.Do(env.dispatcher.Close)
}

func setupEnv(t *testing.T, name string) *testEnv {
	t.Helper()
	notify.SetBaseURL("http://localhost:8080")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Workspace{},
		&models.WorkspaceMember{},
		&models.Task{},
		&models.ConnectionRequest{},
		&models.Notification{},
		&models.NotificationPreference{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	env := &testEnv{
		e:             echo.New(),
		db:            db,
		users:         repositories.NewPostgresUserRepository(db),
		workspaces:    repositories.NewPostgresWorkspaceRepository(db),
		tasks:         repositories.NewPostgresTaskRepository(db),
		notifications: repositories.NewPostgresNotificationRepository(db),
		preferences:   repositories.NewPostgresPreferenceRepository(db),
		sender:        &recordingSender{},
	}
	env.dispatcher = notify.NewDispatcher(env.notifications, env.preferences, nil, env.sender, nil)
	t.Cleanup(env.closeDispatcher)

	app := env.e.Group("/api/v1/app")
	app.Use(testAuth())
	NewWorkspaceHandler(env.workspaces, env.tasks, env.users, env.dispatcher).RegisterWorkspaceRoutes(app)
	NewTaskHandler(env.tasks, env.workspaces, env.users, env.dispatcher).RegisterTaskRoutes(app)
	NewConnectionHandler(repositories.NewPostgresConnectionRepository(db), env.users, env.dispatcher).RegisterConnectionRoutes(app)
	NewNotificationHandler(env.notifications).RegisterNotificationRoutes(app)
	NewPreferenceHandler(env.preferences).RegisterPreferenceRoutes(app)

	return env
}

// request performs a JSON request as the given user. userID 0 leaves the
// request unauthenticated.
func (env *testEnv) request(method, target string, body interface{}, userID uint) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if userID != 0 {
		req.Header.Set("X-Test-User", strconv.FormatUint(uint64(userID), 10))
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) seedUser(t *testing.T, name, email string) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: email, Password: "hashed"}
	if err := env.users.CreateUser(u); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return u
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}
