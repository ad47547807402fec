package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind 错误类别，封闭枚举，每个类别对应一个HTTP状态码
type Kind int

const (
	KindBadRequest Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindMethodNotAllowed
	KindConflict
	KindUnprocessable
	KindTooManyRequests
	KindInternal
	KindBadGateway
	KindServiceUnavailable
	KindGatewayTimeout
)

// Status 类别对应的HTTP状态码
func (k Kind) Status() int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case KindConflict:
		return http.StatusConflict
	case KindUnprocessable:
		return http.StatusUnprocessableEntity
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	case KindBadGateway:
		return http.StatusBadGateway
	case KindServiceUnavailable:
		return http.StatusServiceUnavailable
	case KindGatewayTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Name 类别对应的错误名称，用于统一响应体的name字段
func (k Kind) Name() string {
	switch k {
	case KindBadRequest:
		return "BadRequestError"
	case KindUnauthorized:
		return "UnauthorizedError"
	case KindForbidden:
		return "ForbiddenError"
	case KindNotFound:
		return "NotFoundError"
	case KindMethodNotAllowed:
		return "MethodNotAllowedError"
	case KindConflict:
		return "ConflictError"
	case KindUnprocessable:
		return "UnprocessableEntityError"
	case KindTooManyRequests:
		return "TooManyRequestsError"
	case KindBadGateway:
		return "BadGatewayError"
	case KindServiceUnavailable:
		return "ServiceUnavailableError"
	case KindGatewayTimeout:
		return "GatewayTimeoutError"
	default:
		return "InternalServerError"
	}
}

// AppError 带类别的业务错误，业务代码只负责抛出，统一由错误翻译中间件格式化
type AppError struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// Status 错误对应的HTTP状态码
func (e *AppError) Status() int {
	return e.Kind.Status()
}

// Name 错误名称
func (e *AppError) Name() string {
	return e.Kind.Name()
}

// New 创建指定类别的错误
func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

// Wrap 包装底层错误并标注类别
func Wrap(kind Kind, message string, cause error) *AppError {
	return &AppError{Kind: kind, Message: message, cause: cause}
}

// ========== 快捷构造方法 ==========

func BadRequest(message string) *AppError {
	return New(KindBadRequest, message)
}

func Unauthorized(message string) *AppError {
	return New(KindUnauthorized, message)
}

func Forbidden(message string) *AppError {
	return New(KindForbidden, message)
}

func NotFound(message string) *AppError {
	return New(KindNotFound, message)
}

func Conflict(message string) *AppError {
	return New(KindConflict, message)
}

func Unprocessable(message string) *AppError {
	return New(KindUnprocessable, message)
}

func TooManyRequests(message string) *AppError {
	return New(KindTooManyRequests, message)
}

func Internal(message string) *AppError {
	return New(KindInternal, message)
}

// From 将任意错误归一为AppError，未标注类别的错误一律视为服务器内部错误
func From(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(KindInternal, "服务器内部错误", err)
}
