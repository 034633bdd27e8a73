package rpc

import (
	"errors"

	"go.uber.org/zap"

	"tcms/internal/pkg/logger"
	"tcms/pkg/constants"
	pkgErrors "tcms/pkg/errors"
)

// faultPrefix 所有业务错误的 fault 文本都以它开头
const faultPrefix = "Internal error: "

// FaultFromError 把业务错误转换为 JSON-RPC fault
func FaultFromError(method string, err error) *Fault {
	var fault *Fault
	if errors.As(err, &fault) {
		return fault
	}

	var appErr *pkgErrors.AppError
	if !errors.As(err, &appErr) {
		logger.Error("RPC 调用异常", zap.String("method", method), zap.Error(err))
		return &Fault{Code: constants.FaultInternalError, Message: faultPrefix + err.Error()}
	}

	code := faultCode(appErr.Code)
	if code == constants.FaultInternalError {
		logger.Error("RPC 调用失败", zap.String("method", method), zap.Error(err))
	} else {
		logger.Warn("RPC 调用被拒绝", zap.String("method", method), zap.Int("code", appErr.Code), zap.String("error", appErr.Detail()))
	}

	return &Fault{Code: code, Message: faultPrefix + appErr.Detail()}
}

func faultCode(code int) int {
	switch code {
	case pkgErrors.CodeBadRequest, pkgErrors.CodeRequiredFields, pkgErrors.CodeValidationError:
		return constants.FaultInvalidParams
	case pkgErrors.CodeNotFound:
		return constants.FaultNotFound
	case pkgErrors.CodeConstraintViolation:
		return constants.FaultConstraint
	case pkgErrors.CodeUnauthorized, pkgErrors.CodeForbidden, pkgErrors.CodeAuthError:
		return constants.FaultAuth
	default:
		return constants.FaultInternalError
	}
}
