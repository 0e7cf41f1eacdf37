package http

import (
	"errors"
	"net/http"

	"github.com/ecomm-platform/ecomm/internal/auth/application"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	cmd   *application.AuthCommandService
	query *application.AuthQueryService
}

func NewHandler(cmd *application.AuthCommandService, query *application.AuthQueryService) *Handler {
	return &Handler{cmd: cmd, query: query}
}

// RegisterRoutes 挂载认证路由，loginMiddlewares 仅作用于登录接口（限流）
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, loginMiddlewares ...gin.HandlerFunc) {
	g := r.Group("/auth")
	g.POST("/register", h.Register)
	g.POST("/login", append(loginMiddlewares, h.Login)...)
	g.GET("/validate-token", h.ValidateToken)
}

func (h *Handler) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, application.AuthResult{Message: err.Error()})
		return
	}

	result, err := h.cmd.Register(c.Request.Context(), application.RegisterCommand{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, application.AuthResult{Message: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, application.AuthResult{Message: err.Error()})
		return
	}

	result, err := h.cmd.Login(c.Request.Context(), application.LoginCommand{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		status := http.StatusUnauthorized
		if errors.Is(err, application.ErrLoginUnavailable) {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, application.AuthResult{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) ValidateToken(c *gin.Context) {
	result, err := h.query.ValidateToken(c.Request.Context(), c.GetHeader("Authorization"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, application.AuthResult{Message: "Invalid or expired token"})
		return
	}
	c.JSON(http.StatusOK, result)
}
