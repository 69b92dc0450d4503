package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"navy-training/backend/pkg/response"
)

// TokenRevoker 注销 Token（由 Redis 黑名单实现）
type TokenRevoker interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// SessionHandler 会话 HTTP 处理器
// Token 由账号服务签发，本服务只负责让当前 Token 失效
type SessionHandler struct {
	revoker TokenRevoker
}

// NewSessionHandler 创建 SessionHandler
func NewSessionHandler(revoker TokenRevoker) *SessionHandler {
	return &SessionHandler{revoker: revoker}
}

// Logout 注销当前 Access Token，黑名单 TTL 为剩余有效期
// POST /api/v1/session/logout
func (h *SessionHandler) Logout(c *gin.Context) {
	if h.revoker == nil {
		response.Error(c, http.StatusServiceUnavailable, 10008, "注销服务不可用")
		return
	}

	jti := c.GetString("token_jti")
	exp, ok := c.Get("token_exp")
	expAt, isTime := exp.(time.Time)
	if jti == "" || !ok || !isTime {
		response.Unauthorized(c, 10002, "未认证")
		return
	}

	if err := h.revoker.BlacklistToken(c.Request.Context(), jti, time.Until(expAt)); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}
