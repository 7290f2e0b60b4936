package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code用于客户端判断错误类型，Code/100 即对应的HTTP状态码
// 2. Message是用户友好的提示信息
// 3. Details 携带逐条的校验信息（可选）
// 4. Err是内部错误，仅记录到日志，不返回给客户端
type AppError struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
	Err     error    `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Status 返回错误码对应的HTTP状态码
func (e *AppError) Status() int {
	return HTTPStatus(e.Code)
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf 格式化创建AppError
func Newf(code int, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// WithDetails 创建携带校验明细的错误，Message 为明细以单个空格拼接
func WithDetails(code int, details []string) *AppError {
	return &AppError{
		Code:    code,
		Message: strings.Join(details, " "),
		Details: details,
	}
}

// Wrap 包装系统错误（如数据库错误、网络错误）
// 用途：将底层错误转换为业务错误，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// WrapCode 以指定错误码包装系统错误
func WrapCode(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：错误码前三位即HTTP状态码
// - 4xxxx: 客户端错误（参数错误、业务规则校验失败、并发冲突）
// - 5xxxx: 服务端错误（数据库异常、外部服务调用失败）

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal      = 50000 // 内部错误
	ErrCodeDatabaseError = 50001 // 数据库错误
	ErrCodeRedisError    = 50002 // Redis错误

	// 参数错误（40000-40099）
	ErrCodeInvalidParams = 40000 // 参数错误
	ErrCodeBindError     = 40001 // 参数绑定失败

	// 认证授权错误（40100-40199, 40300-40399）
	ErrCodeUnauthorized = 40100 // 未登录
	ErrCodeInvalidToken = 40101 // Token无效
	ErrCodeTokenExpired = 40102 // Token过期
	ErrCodeForbidden    = 40300 // 无权限

	// 资源错误（40400-40499）
	ErrCodeNotFound = 40400 // 资源不存在

	// 版本前置条件错误（41200-41299）
	ErrCodeVersionInvalid  = 41200 // 版本号格式错误
	ErrCodeVersionOutdated = 41201 // 版本号已过期

	// 业务校验错误（42200-42299）
	ErrCodeValidation       = 42200 // 校验失败
	ErrCodeKeyExists        = 42201 // 名称已存在
	ErrCodeExternalIDExists = 42202 // 外部编号已存在

	// 缺少前置条件（42800）
	ErrCodePreconditionRequired = 42800
)

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	// 系统错误
	ErrInternal      = New(ErrCodeInternal, "系统内部错误")
	ErrDatabaseError = New(ErrCodeDatabaseError, "数据库错误")
	ErrRedisError    = New(ErrCodeRedisError, "缓存服务错误")

	// 认证授权
	ErrUnauthorized = New(ErrCodeUnauthorized, "请先登录")
	ErrInvalidToken = New(ErrCodeInvalidToken, "无效的Token")
	ErrTokenExpired = New(ErrCodeTokenExpired, "Token已过期")
	ErrForbidden    = New(ErrCodeForbidden, "无权限访问")

	// 资源
	ErrNotFound = New(ErrCodeNotFound, "资源不存在")

	// 前置条件
	ErrPreconditionRequired = New(ErrCodePreconditionRequired, "缺少If-Match请求头")

	// 参数错误
	ErrInvalidParams = New(ErrCodeInvalidParams, "参数错误")
	ErrBindError     = New(ErrCodeBindError, "参数格式错误")
)

// =========================================
// 辅助函数
// =========================================

// HTTPStatus 将错误码换算为HTTP状态码，无法换算时返回500
func HTTPStatus(code int) int {
	status := code / 100
	if status < 400 || status > 599 || http.StatusText(status) == "" {
		return http.StatusInternalServerError
	}
	return status
}

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "系统内部错误")
}
