package api

import (
	"errors"

	"budget/config"
	"budget/service"

	"github.com/gin-gonic/gin"
)

// SafeErrorMessage 生产环境下不向客户端暴露内部错误详情，避免信息泄露
func SafeErrorMessage(err error, fallback string) string {
	return config.SafeErrorMessage(err, fallback)
}

// handleServiceError 将业务错误映射为对应的 HTTP 响应
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBudgetNotFound),
		errors.Is(err, service.ErrQuotaNotFound),
		errors.Is(err, service.ErrInterestNotFound),
		errors.Is(err, service.ErrUserNotFound):
		NotFound(c, err.Error())
	case errors.Is(err, service.ErrDuplicateCode),
		errors.Is(err, service.ErrDuplicatePaymentTerm):
		Conflict(c, err.Error())
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidInterestRate),
		errors.Is(err, service.ErrInvalidPaymentTerm),
		errors.Is(err, service.ErrInvalidCodeFormat),
		errors.Is(err, service.ErrInvalidExpirationDate),
		errors.Is(err, service.ErrInvalidQuotaAmount),
		errors.Is(err, service.ErrInvalidStatus):
		BadRequest(c, err.Error())
	default:
		InternalError(c, SafeErrorMessage(err, "服务器内部错误"))
	}
}
