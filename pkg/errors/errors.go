package errors

import (
	stdErrors "errors"
	"fmt"
)

// 错误码
const (
	CodeSuccess             = 200
	CodeBadRequest          = 400 // 参数类型/个数错误
	CodeUnauthorized        = 401
	CodeForbidden           = 403
	CodeNotFound            = 404
	CodeConflict            = 409 // 存储层约束冲突
	CodeRequiredFields      = 422 // 缺少必填字段
	CodeInternalError       = 500
	CodeDatabaseError       = 501
	CodeAuthError           = 502
	CodeValidationError     = 503
	CodeConstraintViolation = CodeConflict
)

// AppError 应用错误
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Detail 返回不带错误码的错误文本, 用于 RPC fault
func (e *AppError) Detail() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码和消息比较, 使 errors.Is 能匹配预定义错误
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// New 创建新错误
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装错误
func Wrap(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// InvalidParameter 参数错误, message 以 "Invalid parameter" 开头
func InvalidParameter(format string, args ...interface{}) *AppError {
	return New(CodeBadRequest, "Invalid parameter: "+fmt.Sprintf(format, args...))
}

// NotFound 实体查询不到, entity 为模型名 (TestBuild, Product ...)
func NotFound(entity string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s matching query does not exist.", entity))
}

// CodeOf 取错误码, 非 AppError 返回 CodeInternalError
func CodeOf(err error) int {
	var appErr *AppError
	if stdErrors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternalError
}

// IsNotFound 判断是否为记录不存在
func IsNotFound(err error) bool {
	return CodeOf(err) == CodeNotFound
}

// 预定义错误
var (
	ErrUnauthorized = New(CodeUnauthorized, "Unauthorized")

	// 具体业务错误
	ErrBuildFieldsRequired  = New(CodeRequiredFields, "Product and name are both required")
	ErrEmptyProductName     = New(CodeBadRequest, "Got empty product name.")
	ErrUnknownProductType   = New(CodeBadRequest, "The type of product is not recognizable.")
	ErrProductNotFound      = NotFound("Product")
	ErrBuildNotFound        = NotFound("TestBuild")
	ErrCasePlanNotFound     = NotFound("TestCasePlan")
	ErrUserNotFound         = NotFound("User")
	ErrInvalidCredentials   = New(CodeAuthError, "Invalid username or password")
	ErrLDAPConnectionFailed = New(CodeAuthError, "LDAP connection failed")
	ErrUserDisabled         = New(CodeForbidden, "User is disabled")
	ErrInvalidToken         = New(CodeUnauthorized, "Invalid session token")
	ErrTokenExpired         = New(CodeUnauthorized, "Session token expired")
	ErrSessionRevoked       = New(CodeUnauthorized, "Session has been logged out")
)
