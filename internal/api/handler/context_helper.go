package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	pkgerrors "navy-training/backend/pkg/errors"
	"navy-training/backend/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return 0, false
	}
	id, ok := v.(int64)
	if !ok || id <= 0 {
		response.Unauthorized(c, 10002, "未认证")
		return 0, false
	}
	return id, true
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get("role")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// parseIDParam 解析路径中的数字 ID，失败时写入 400
func parseIDParam(c *gin.Context, name, message string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, 10001, message)
		return 0, false
	}
	return id, true
}

// respondError 写出业务错误；AppError 的定位信息放入 details
func respondError(c *gin.Context, httpStatus, code int, message string, err error) {
	if appErr, ok := pkgerrors.As(err); ok {
		response.ErrorWithDetails(c, httpStatus, code, message, appErr.Details())
		return
	}
	response.Error(c, httpStatus, code, message)
}

// respondByKind 未单独映射的业务错误按类别兜底
func respondByKind(c *gin.Context, err error) {
	appErr, ok := pkgerrors.As(err)
	if !ok {
		response.InternalError(c)
		return
	}
	switch appErr.Kind {
	case pkgerrors.KindNotFound:
		respondError(c, http.StatusNotFound, 10006, appErr.Err.Error(), err)
	case pkgerrors.KindInvalidOperation:
		respondError(c, http.StatusConflict, 10007, appErr.Err.Error(), err)
	case pkgerrors.KindBadRequest:
		respondError(c, http.StatusBadRequest, 10001, appErr.Err.Error(), err)
	default:
		response.InternalError(c)
	}
}
