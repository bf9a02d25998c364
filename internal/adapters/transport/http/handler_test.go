package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	transport "github.com/taskora/taskora/internal/adapters/transport/http"
	"github.com/taskora/taskora/internal/adapters/transport/http/dto"
	"github.com/taskora/taskora/internal/adapters/transport/http/middleware"
	authErrors "github.com/taskora/taskora/internal/domain/auth/errors"
	"github.com/taskora/taskora/internal/domain/auth/model"
	todomodel "github.com/taskora/taskora/internal/domain/todo/model"
)

/* ──────────────────────────────── stubs ──────────────────────────────── */

type authStub struct {
	registerFn func(dto.RegisterDTO) (model.User, string, error)
	loginFn    func(dto.LoginDTO) (model.User, model.TokenPair, error)
	refreshFn  func(dto.RefreshDTO) (string, error)
	logoutFn   func(dto.LogoutDTO) error
	forgotFn   func(dto.ForgotPasswordDTO) error
	resetFn    func(string, dto.ResetPasswordDTO) error
	themeFn    func(uuid.UUID, dto.UpdateThemeDTO) (model.User, error)
	user       model.User
}

func (s *authStub) Register(_ context.Context, in dto.RegisterDTO) (model.User, string, error) {
	return s.registerFn(in)
}
func (s *authStub) Login(_ context.Context, in dto.LoginDTO) (model.User, model.TokenPair, error) {
	return s.loginFn(in)
}
func (s *authStub) Validate(_ context.Context, token string) (model.User, error) {
	if token != "good-token" {
		return model.User{}, authErrors.ErrInvalidToken
	}
	return s.user, nil
}
func (s *authStub) Refresh(_ context.Context, in dto.RefreshDTO) (string, error) {
	return s.refreshFn(in)
}
func (s *authStub) Logout(_ context.Context, in dto.LogoutDTO) error { return s.logoutFn(in) }
func (s *authStub) ForgotPassword(_ context.Context, in dto.ForgotPasswordDTO) error {
	return s.forgotFn(in)
}
func (s *authStub) ResetPassword(_ context.Context, token string, in dto.ResetPasswordDTO) error {
	return s.resetFn(token, in)
}
func (s *authStub) UpdateTheme(_ context.Context, id uuid.UUID, in dto.UpdateThemeDTO) (model.User, error) {
	return s.themeFn(id, in)
}

type todoStub struct {
	createFn func(uuid.UUID, dto.CreateTodoDTO) (todomodel.Todo, error)
	listFn   func(uuid.UUID) ([]todomodel.Todo, error)
	updateFn func(uuid.UUID, uuid.UUID, dto.UpdateTodoDTO) (todomodel.Todo, error)
	deleteFn func(uuid.UUID, uuid.UUID) (todomodel.Todo, error)
}

func (s *todoStub) Create(_ context.Context, userID uuid.UUID, in dto.CreateTodoDTO) (todomodel.Todo, error) {
	return s.createFn(userID, in)
}
func (s *todoStub) List(_ context.Context, userID uuid.UUID) ([]todomodel.Todo, error) {
	return s.listFn(userID)
}
func (s *todoStub) Update(_ context.Context, userID, todoID uuid.UUID, in dto.UpdateTodoDTO) (todomodel.Todo, error) {
	return s.updateFn(userID, todoID, in)
}
func (s *todoStub) Delete(_ context.Context, userID, todoID uuid.UUID) (todomodel.Todo, error) {
	return s.deleteFn(userID, todoID)
}

/* ───────────────────────────── helpers ───────────────────────────── */

func newRouter(auth *authStub, todos *todoStub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := transport.NewHandler(auth, todos, zap.NewNop())
	h.RegisterRoutes(router, middleware.NewAuthWindowLimiter(1000, time.Minute))
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body, bearer string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Body.String(), "{") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func testUser() model.User {
	return model.User{
		ID:              uuid.New(),
		Email:           "u@example.com",
		Username:        "user",
		PasswordHash:    "$2a$12$secret",
		ThemePreference: "system",
	}
}

/* ───────────────────────────── tests ───────────────────────────── */

func TestHandler_Register(t *testing.T) {
	user := testUser()
	auth := &authStub{
		registerFn: func(dto.RegisterDTO) (model.User, string, error) { return user, "access", nil },
	}
	router := newRouter(auth, &todoStub{})

	rec, body := doJSON(t, router, http.MethodPost, "/api/register",
		`{"email":"u@example.com","password":"Aa1aaaaa","username":"user"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "access", body["token"])

	// the hash never leaves the service
	require.NotContains(t, rec.Body.String(), "secret")
	u, ok := body["user"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "u@example.com", u["email"])
}

func TestHandler_RegisterDuplicate(t *testing.T) {
	auth := &authStub{
		registerFn: func(dto.RegisterDTO) (model.User, string, error) {
			return model.User{}, "", authErrors.ErrAlreadyExists
		},
	}
	router := newRouter(auth, &todoStub{})

	rec, body := doJSON(t, router, http.MethodPost, "/api/register",
		`{"email":"u@example.com","password":"Aa1aaaaa","username":"user"}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Email or username already in use", body["error"])
}

func TestHandler_RegisterMalformedJSON(t *testing.T) {
	router := newRouter(&authStub{}, &todoStub{})
	rec, _ := doJSON(t, router, http.MethodPost, "/api/register", `{"email":`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Login(t *testing.T) {
	user := testUser()
	auth := &authStub{
		loginFn: func(dto.LoginDTO) (model.User, model.TokenPair, error) {
			return user, model.TokenPair{AccessToken: "access", RefreshToken: "refresh"}, nil
		},
	}
	router := newRouter(auth, &todoStub{})

	rec, body := doJSON(t, router, http.MethodPost, "/api/login",
		`{"email":"u@example.com","password":"Aa1aaaaa"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "access", body["token"])
	require.Equal(t, "refresh", body["refreshToken"])
}

func TestHandler_LoginInvalidCredentials(t *testing.T) {
	auth := &authStub{
		loginFn: func(dto.LoginDTO) (model.User, model.TokenPair, error) {
			return model.User{}, model.TokenPair{}, authErrors.ErrInvalidCredentials
		},
	}
	router := newRouter(auth, &todoStub{})

	rec, body := doJSON(t, router, http.MethodPost, "/api/login",
		`{"email":"u@example.com","password":"wrong"}`, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Invalid credentials", body["error"])
}

func TestHandler_RefreshRejected(t *testing.T) {
	auth := &authStub{
		refreshFn: func(dto.RefreshDTO) (string, error) { return "", authErrors.ErrInvalidToken },
	}
	router := newRouter(auth, &todoStub{})

	rec, body := doJSON(t, router, http.MethodPost, "/api/refresh-token",
		`{"refreshToken":"revoked"}`, "")
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "Invalid or expired refresh token", body["error"])
}

func TestHandler_Refresh(t *testing.T) {
	auth := &authStub{
		refreshFn: func(in dto.RefreshDTO) (string, error) {
			require.Equal(t, "rt", in.RefreshToken)
			return "fresh-access", nil
		},
	}
	router := newRouter(auth, &todoStub{})

	rec, body := doJSON(t, router, http.MethodPost, "/api/refresh-token", `{"refreshToken":"rt"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "fresh-access", body["token"])
}

func TestHandler_Logout(t *testing.T) {
	auth := &authStub{logoutFn: func(dto.LogoutDTO) error { return nil }}
	router := newRouter(auth, &todoStub{})

	rec, body := doJSON(t, router, http.MethodPost, "/api/logout", `{"refreshToken":"whatever"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Logged out", body["message"])
}

func TestHandler_ForgotPassword(t *testing.T) {
	auth := &authStub{forgotFn: func(dto.ForgotPasswordDTO) error { return nil }}
	router := newRouter(auth, &todoStub{})

	rec, body := doJSON(t, router, http.MethodPost, "/api/forgot-password",
		`{"email":"u@example.com"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Password reset email sent", body["message"])
}

func TestHandler_ForgotPasswordUnknownEmail(t *testing.T) {
	auth := &authStub{forgotFn: func(dto.ForgotPasswordDTO) error { return authErrors.ErrNotFound }}
	router := newRouter(auth, &todoStub{})

	rec, body := doJSON(t, router, http.MethodPost, "/api/forgot-password",
		`{"email":"none@example.com"}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Email not found", body["error"])
}

func TestHandler_ForgotPasswordDispatchFailure(t *testing.T) {
	auth := &authStub{
		forgotFn: func(dto.ForgotPasswordDTO) error {
			return authErrors.ErrMailDispatch
		},
	}
	router := newRouter(auth, &todoStub{})

	rec, body := doJSON(t, router, http.MethodPost, "/api/forgot-password",
		`{"email":"u@example.com"}`, "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "Failed to send reset email", body["error"])
}

func TestHandler_ResetPassword(t *testing.T) {
	auth := &authStub{
		resetFn: func(token string, _ dto.ResetPasswordDTO) error {
			require.Equal(t, "abc123", token)
			return nil
		},
	}
	router := newRouter(auth, &todoStub{})

	rec, body := doJSON(t, router, http.MethodPost, "/api/reset-password/abc123",
		`{"password":"Bb2bbbbb"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Password has been reset", body["message"])
}

func TestHandler_ResetPasswordInvalidToken(t *testing.T) {
	auth := &authStub{
		resetFn: func(string, dto.ResetPasswordDTO) error { return authErrors.ErrResetTokenInvalid },
	}
	router := newRouter(auth, &todoStub{})

	rec, body := doJSON(t, router, http.MethodPost, "/api/reset-password/stale",
		`{"password":"Bb2bbbbb"}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid or expired reset token", body["error"])
}

func TestHandler_MeRequiresAuth(t *testing.T) {
	router := newRouter(&authStub{}, &todoStub{})

	for _, bearer := range []string{"", "bad-token"} {
		rec, body := doJSON(t, router, http.MethodGet, "/api/me", "", bearer)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "Please authenticate", body["error"])
	}
}

func TestHandler_Me(t *testing.T) {
	user := testUser()
	router := newRouter(&authStub{user: user}, &todoStub{})

	rec, body := doJSON(t, router, http.MethodGet, "/api/me", "", "good-token")
	require.Equal(t, http.StatusOK, rec.Code)
	u, ok := body["user"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, user.ID.String(), u["id"])
	require.Equal(t, "system", u["themePreference"])
}

func TestHandler_UpdateTheme(t *testing.T) {
	user := testUser()
	auth := &authStub{
		user: user,
		themeFn: func(id uuid.UUID, in dto.UpdateThemeDTO) (model.User, error) {
			require.Equal(t, user.ID, id)
			user.ThemePreference = in.ThemePreference
			return user, nil
		},
	}
	router := newRouter(auth, &todoStub{})

	rec, body := doJSON(t, router, http.MethodPatch, "/api/me/theme",
		`{"themePreference":"dark"}`, "good-token")
	require.Equal(t, http.StatusOK, rec.Code)
	u, ok := body["user"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "dark", u["themePreference"])
}

func TestHandler_TodoLifecycle(t *testing.T) {
	user := testUser()
	todoID := uuid.New()
	todos := &todoStub{
		createFn: func(userID uuid.UUID, in dto.CreateTodoDTO) (todomodel.Todo, error) {
			require.Equal(t, user.ID, userID)
			return todomodel.Todo{ID: todoID, UserID: userID, Title: in.Title}, nil
		},
		listFn: func(userID uuid.UUID) ([]todomodel.Todo, error) {
			return []todomodel.Todo{{ID: todoID, UserID: userID, Title: "buy milk"}}, nil
		},
		updateFn: func(userID, id uuid.UUID, in dto.UpdateTodoDTO) (todomodel.Todo, error) {
			require.Equal(t, todoID, id)
			return todomodel.Todo{ID: id, UserID: userID, Title: "buy milk", Completed: *in.Completed}, nil
		},
		deleteFn: func(userID, id uuid.UUID) (todomodel.Todo, error) {
			return todomodel.Todo{ID: id, UserID: userID, Title: "buy milk"}, nil
		},
	}
	router := newRouter(&authStub{user: user}, todos)

	rec, body := doJSON(t, router, http.MethodPost, "/api/todos", `{"title":"buy milk"}`, "good-token")
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "buy milk", body["title"])

	rec, _ = doJSON(t, router, http.MethodGet, "/api/todos", "", "good-token")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)

	rec, body = doJSON(t, router, http.MethodPatch, "/api/todos/"+todoID.String(),
		`{"completed":true}`, "good-token")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, body["completed"])

	rec, body = doJSON(t, router, http.MethodDelete, "/api/todos/"+todoID.String(), "", "good-token")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, todoID.String(), body["id"])
}

func TestHandler_TodoStrangerGets404(t *testing.T) {
	user := testUser()
	todos := &todoStub{
		updateFn: func(uuid.UUID, uuid.UUID, dto.UpdateTodoDTO) (todomodel.Todo, error) {
			return todomodel.Todo{}, authErrors.ErrNotFound
		},
		deleteFn: func(uuid.UUID, uuid.UUID) (todomodel.Todo, error) {
			return todomodel.Todo{}, authErrors.ErrNotFound
		},
	}
	router := newRouter(&authStub{user: user}, todos)

	rec, _ := doJSON(t, router, http.MethodPatch, "/api/todos/"+uuid.NewString(),
		`{"completed":true}`, "good-token")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = doJSON(t, router, http.MethodDelete, "/api/todos/"+uuid.NewString(), "", "good-token")
	require.Equal(t, http.StatusNotFound, rec.Code)

	// a non-uuid id is just as invisible
	rec, _ = doJSON(t, router, http.MethodDelete, "/api/todos/not-a-uuid", "", "good-token")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_RegisterThrottled(t *testing.T) {
	auth := &authStub{
		registerFn: func(dto.RegisterDTO) (model.User, string, error) {
			return testUser(), "access", nil
		},
		loginFn: func(dto.LoginDTO) (model.User, model.TokenPair, error) {
			return testUser(), model.TokenPair{AccessToken: "a", RefreshToken: "r"}, nil
		},
		refreshFn: func(dto.RefreshDTO) (string, error) { return "a", nil },
	}
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := transport.NewHandler(auth, &todoStub{}, zap.NewNop())
	h.RegisterRoutes(router, middleware.NewAuthWindowLimiter(2, time.Minute))

	// register and login share one counter per source
	rec, _ := doJSON(t, router, http.MethodPost, "/api/register",
		`{"email":"u@example.com","password":"Aa1aaaaa","username":"user"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	rec, _ = doJSON(t, router, http.MethodPost, "/api/login",
		`{"email":"u@example.com","password":"Aa1aaaaa"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body := doJSON(t, router, http.MethodPost, "/api/login",
		`{"email":"u@example.com","password":"Aa1aaaaa"}`, "")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "Too many attempts, please try again later", body["error"])

	// unlimited endpoints are not throttled
	rec, _ = doJSON(t, router, http.MethodPost, "/api/refresh-token", `{"refreshToken":"rt"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_Health(t *testing.T) {
	router := newRouter(&authStub{}, &todoStub{})
	rec, body := doJSON(t, router, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", body["status"])
}
