package errors

import (
	"errors"
	"fmt"
)

// Kind 业务错误类别，调用方据此决定 HTTP 状态与提示
type Kind string

const (
	KindNotFound         Kind = "NOT_FOUND"
	KindInvalidOperation Kind = "INVALID_OPERATION"
	KindBadRequest       Kind = "BAD_REQUEST"
)

// AppError 携带类别与出错对象的业务错误
// Err 为各模块定义的哨兵错误，errors.Is 可直接匹配
type AppError struct {
	Kind   Kind
	Entity string // 出错的实体或字段名
	ID     any    // 出错的 ID 或原始输入，可为空
	Err    error
}

func (e *AppError) Error() string {
	if e.ID == nil {
		return fmt.Sprintf("%s: %s", e.Entity, e.Err)
	}
	return fmt.Sprintf("%s %v: %s", e.Entity, e.ID, e.Err)
}

func (e *AppError) Unwrap() error { return e.Err }

// Details 返回给前端的定位信息
func (e *AppError) Details() string {
	if e.ID == nil {
		return fmt.Sprintf("entity=%s", e.Entity)
	}
	return fmt.Sprintf("entity=%s id=%v", e.Entity, e.ID)
}

// NotFound 必需引用不存在
func NotFound(sentinel error, entity string, id any) error {
	return &AppError{Kind: KindNotFound, Entity: entity, ID: id, Err: sentinel}
}

// InvalidOperation 操作在当前状态下不允许
func InvalidOperation(sentinel error, entity string, id any) error {
	return &AppError{Kind: KindInvalidOperation, Entity: entity, ID: id, Err: sentinel}
}

// BadRequest 输入格式或取值非法
func BadRequest(sentinel error, field string, value any) error {
	return &AppError{Kind: KindBadRequest, Entity: field, ID: value, Err: sentinel}
}

// As 提取 AppError
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf 返回错误类别，非 AppError 返回空字符串
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return ""
}
