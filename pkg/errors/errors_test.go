package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStatusMapping(t *testing.T) {
	tests := []struct {
		kind   Kind
		status int
		name   string
	}{
		{KindBadRequest, http.StatusBadRequest, "BadRequestError"},
		{KindUnauthorized, http.StatusUnauthorized, "UnauthorizedError"},
		{KindForbidden, http.StatusForbidden, "ForbiddenError"},
		{KindNotFound, http.StatusNotFound, "NotFoundError"},
		{KindMethodNotAllowed, http.StatusMethodNotAllowed, "MethodNotAllowedError"},
		{KindConflict, http.StatusConflict, "ConflictError"},
		{KindUnprocessable, http.StatusUnprocessableEntity, "UnprocessableEntityError"},
		{KindTooManyRequests, http.StatusTooManyRequests, "TooManyRequestsError"},
		{KindInternal, http.StatusInternalServerError, "InternalServerError"},
		{KindBadGateway, http.StatusBadGateway, "BadGatewayError"},
		{KindServiceUnavailable, http.StatusServiceUnavailable, "ServiceUnavailableError"},
		{KindGatewayTimeout, http.StatusGatewayTimeout, "GatewayTimeoutError"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.kind.Status())
			assert.Equal(t, tt.name, tt.kind.Name())
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("连接被拒绝")
	err := Wrap(KindInternal, "查询失败", cause)

	assert.Equal(t, "查询失败: 连接被拒绝", err.Error())
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestFromKeepsExistingKind(t *testing.T) {
	original := NotFound("订单不存在")
	got := From(original)

	assert.Equal(t, KindNotFound, got.Kind)
	assert.Equal(t, "订单不存在", got.Message)
}

func TestFromUnwrapsNestedAppError(t *testing.T) {
	inner := Forbidden("权限不足")
	wrapped := fmt.Errorf("处理请求: %w", inner)

	got := From(wrapped)
	assert.Equal(t, KindForbidden, got.Kind)
	assert.Equal(t, "权限不足", got.Message)
}

func TestFromNormalizesUntypedError(t *testing.T) {
	got := From(fmt.Errorf("磁盘已满"))

	assert.Equal(t, KindInternal, got.Kind)
	// 未标注类别的错误对外只暴露统一文案
	assert.Equal(t, "服务器内部错误", got.Message)
	assert.Equal(t, http.StatusInternalServerError, got.Status())
}

func TestFromNil(t *testing.T) {
	assert.Nil(t, From(nil))
}
