package http

import (
	"crypto/sha256"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskora/taskora/internal/adapters/transport/http/dto"
	"github.com/taskora/taskora/internal/adapters/transport/http/middleware"
	authsvc "github.com/taskora/taskora/internal/app/auth/service"
	todosvc "github.com/taskora/taskora/internal/app/todo/service"
	authErrors "github.com/taskora/taskora/internal/domain/auth/errors"
)

type Handler struct {
	auth   authsvc.Service
	todos  todosvc.Service
	logger *zap.Logger
}

func NewHandler(auth authsvc.Service, todos todosvc.Service, logger *zap.Logger) *Handler {
	return &Handler{auth: auth, todos: todos, logger: logger}
}

// RegisterRoutes mounts the API. The fixed-window limiter wraps only the
// register and login endpoints.
func (h *Handler) RegisterRoutes(router *gin.Engine, authLimiter *middleware.AuthWindowLimiter) {
	api := router.Group("/api")

	limited := api.Group("", authLimiter.Handler())
	limited.POST("/register", h.register)
	limited.POST("/login", h.login)

	api.POST("/refresh-token", h.refresh)
	api.POST("/logout", h.logout)
	api.POST("/forgot-password", h.forgotPassword)
	api.POST("/reset-password/:token", h.resetPassword)

	authed := api.Group("", middleware.Authenticate(h.auth))
	authed.GET("/me", h.me)
	authed.PATCH("/me/theme", h.updateTheme)
	authed.POST("/todos", h.createTodo)
	authed.GET("/todos", h.listTodos)
	authed.PATCH("/todos/:id", h.updateTodo)
	authed.DELETE("/todos/:id", h.deleteTodo)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Unix()})
	})
}

func (h *Handler) register(c *gin.Context) {
	var body dto.RegisterDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.logger.Info("/register",
		zap.String("user", fmt.Sprintf("%x", sha256.Sum256([]byte(body.Email)))),
	)

	user, token, err := h.auth.Register(c.Request.Context(), body)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"user":  dto.NewUserResponse(user),
		"token": token,
	})
}

func (h *Handler) login(c *gin.Context) {
	var body dto.LoginDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.logger.Info("/login",
		zap.String("user", fmt.Sprintf("%x", sha256.Sum256([]byte(body.Email)))),
	)

	user, pair, err := h.auth.Login(c.Request.Context(), body)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":         dto.NewUserResponse(user),
		"token":        pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

func (h *Handler) refresh(c *gin.Context) {
	var body dto.RefreshDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.auth.Refresh(c.Request.Context(), body)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *Handler) logout(c *gin.Context) {
	var body dto.LogoutDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.logger.Info("/logout")

	if err := h.auth.Logout(c.Request.Context(), body); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *Handler) forgotPassword(c *gin.Context) {
	var body dto.ForgotPasswordDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.auth.ForgotPassword(c.Request.Context(), body)
	switch {
	case authErrors.IsNotFound(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email not found"})
		return
	case err != nil:
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset email sent"})
}

func (h *Handler) resetPassword(c *gin.Context) {
	var body dto.ResetPasswordDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.auth.ResetPassword(c.Request.Context(), c.Param("token"), body); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset"})
}

func (h *Handler) me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please authenticate"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": dto.NewUserResponse(user)})
}

func (h *Handler) updateTheme(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please authenticate"})
		return
	}

	var body dto.UpdateThemeDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.auth.UpdateTheme(c.Request.Context(), user.ID, body)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": dto.NewUserResponse(updated)})
}

func (h *Handler) createTodo(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please authenticate"})
		return
	}

	var body dto.CreateTodoDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	todo, err := h.todos.Create(c.Request.Context(), user.ID, body)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewTodoResponse(todo))
}

func (h *Handler) listTodos(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please authenticate"})
		return
	}

	todos, err := h.todos.List(c.Request.Context(), user.ID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	out := make([]dto.TodoResponse, 0, len(todos))
	for _, t := range todos {
		out = append(out, dto.NewTodoResponse(t))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) updateTodo(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please authenticate"})
		return
	}

	todoID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	var body dto.UpdateTodoDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	todo, err := h.todos.Update(c.Request.Context(), user.ID, todoID, body)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTodoResponse(todo))
}

func (h *Handler) deleteTodo(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please authenticate"})
		return
	}

	todoID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	todo, err := h.todos.Delete(c.Request.Context(), user.ID, todoID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTodoResponse(todo))
}

func parseID(raw string) (uuid.UUID, error) {
	return uuid.Parse(raw)
}

// handleError is the single place driver and domain errors become HTTP
// responses; nothing provider-specific leaks to the client.
func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case authErrors.IsInvalidArgument(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case authErrors.IsAlreadyExists(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email or username already in use"})
	case authErrors.IsInvalidCredentials(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case authErrors.IsInvalidToken(err):
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid or expired refresh token"})
	case authErrors.IsResetTokenInvalid(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired reset token"})
	case authErrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case authErrors.IsMailDispatch(err):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send reset email"})
	default:
		h.logger.Error("unhandled error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
