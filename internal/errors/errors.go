package errors

import (
	"fmt"
	"net/http"

	"github.com/Snidon06/Playbase/internal/i18n"
)

// ErrorCode 错误码类型
type ErrorCode int

// 定义错误码常量
const (
	// 通用错误码 (1000-1999)
	ErrSuccess        ErrorCode = 0    // 成功
	ErrInternalServer ErrorCode = 1000 // 服务器内部错误
	ErrInvalidParams  ErrorCode = 1001 // 参数错误

	// 账户相关错误码 (2000-2999)
	ErrMissingCredentials ErrorCode = 2000 // 用户名或密码缺失
	ErrDuplicateUsername  ErrorCode = 2001 // 用户名已存在
	ErrInvalidCredentials ErrorCode = 2002 // 用户名或密码错误

	// 上传相关错误码 (3000-3999)
	ErrMissingFields        ErrorCode = 3000 // 上传必填字段缺失
	ErrUnsupportedMediaType ErrorCode = 3001 // 不支持的视频类型
	ErrPayloadTooLarge      ErrorCode = 3002 // 视频文件超过大小上限
	ErrFileWriteFailed      ErrorCode = 3003 // 视频文件写入失败
	ErrFileReadFailed       ErrorCode = 3004 // 视频文件读取失败

	// 数据库相关错误码 (4000-4999)
	ErrDatabaseQuery  ErrorCode = 4000 // 数据库查询错误
	ErrDatabaseInsert ErrorCode = 4001 // 数据库插入错误
	ErrRecordNotFound ErrorCode = 4002 // 记录未找到

	// 镜像相关错误码 (5000-5999)
	ErrMirrorConfigNotFound       ErrorCode = 5000 // 镜像配置未找到
	ErrMirrorConfigInvalid        ErrorCode = 5001 // 镜像配置无效
	ErrMirrorConnectionFailed     ErrorCode = 5002 // 镜像连接失败
	ErrMirrorUploadFailed         ErrorCode = 5003 // 镜像上传失败
	ErrMirrorProviderNotSupported ErrorCode = 5004 // 镜像提供商不支持
	ErrNoActiveMirror             ErrorCode = 5005 // 没有激活的镜像配置
)

// AppError 应用错误结构体
// @Description 应用程序统一错误格式
type AppError struct {
	// 错误码
	Code ErrorCode `json:"code"`
	// 错误消息
	Message string `json:"message"`
	// 详细错误信息
	Details string `json:"details,omitempty"`
	// 原始错误
	OriginalError error `json:"-"`
}

// Error 实现error接口
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%d] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// HTTPStatus 返回错误码对应的HTTP状态码
// 校验类错误映射到400/413/415，认证失败映射到401，其余视为服务端错误
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case ErrInvalidParams, ErrMissingCredentials, ErrDuplicateUsername,
		ErrMissingFields, ErrMirrorConfigInvalid:
		return http.StatusBadRequest
	case ErrInvalidCredentials:
		return http.StatusUnauthorized
	case ErrPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case ErrUnsupportedMediaType:
		return http.StatusUnsupportedMediaType
	case ErrRecordNotFound, ErrMirrorConfigNotFound, ErrNoActiveMirror:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// WithDetails 添加详细错误信息
func (e *AppError) WithDetails(details string) *AppError {
	return &AppError{
		Code:          e.Code,
		Message:       e.Message,
		Details:       details,
		OriginalError: e.OriginalError,
	}
}

// New 创建新的应用错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装原始错误
func Wrap(code ErrorCode, message string, err error) *AppError {
	appErr := &AppError{
		Code:          code,
		Message:       message,
		OriginalError: err,
	}
	if err != nil {
		appErr.Details = err.Error()
	}
	return appErr
}

// IsAppError 判断是否为应用错误
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetAppError 获取应用错误
func GetAppError(err error) (*AppError, bool) {
	appErr, ok := err.(*AppError)
	return appErr, ok
}

// IsCode 判断错误是否携带指定错误码
func IsCode(err error, code ErrorCode) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Code == code
}

// 预定义的常用错误
var (
	ErrInternalServerError = New(ErrInternalServer, GetErrorMessage(ErrInternalServer))
	ErrInvalidParameters   = New(ErrInvalidParams, GetErrorMessage(ErrInvalidParams))

	ErrMissingCredentialsError = New(ErrMissingCredentials, GetErrorMessage(ErrMissingCredentials))
	ErrDuplicateUsernameError  = New(ErrDuplicateUsername, GetErrorMessage(ErrDuplicateUsername))
	ErrInvalidCredentialsError = New(ErrInvalidCredentials, GetErrorMessage(ErrInvalidCredentials))

	ErrMissingFieldsError        = New(ErrMissingFields, GetErrorMessage(ErrMissingFields))
	ErrUnsupportedMediaTypeError = New(ErrUnsupportedMediaType, GetErrorMessage(ErrUnsupportedMediaType))
	ErrPayloadTooLargeError      = New(ErrPayloadTooLarge, GetErrorMessage(ErrPayloadTooLarge))

	ErrNoActiveMirrorError = New(ErrNoActiveMirror, GetErrorMessage(ErrNoActiveMirror))
)

// 错误码到i18n键的映射
var errorCodeToKeyMap = map[ErrorCode]string{
	ErrSuccess:        "success",
	ErrInternalServer: "internal_server_error",
	ErrInvalidParams:  "invalid_params",

	ErrMissingCredentials: "missing_credentials",
	ErrDuplicateUsername:  "duplicate_username",
	ErrInvalidCredentials: "invalid_credentials",

	ErrMissingFields:        "missing_fields",
	ErrUnsupportedMediaType: "unsupported_media_type",
	ErrPayloadTooLarge:      "payload_too_large",
	ErrFileWriteFailed:      "file_write_failed",
	ErrFileReadFailed:       "file_read_failed",

	ErrDatabaseQuery:  "database_query",
	ErrDatabaseInsert: "database_insert",
	ErrRecordNotFound: "record_not_found",

	ErrMirrorConfigNotFound:       "mirror_config_not_found",
	ErrMirrorConfigInvalid:        "mirror_config_invalid",
	ErrMirrorConnectionFailed:     "mirror_connection_failed",
	ErrMirrorUploadFailed:         "mirror_upload_failed",
	ErrMirrorProviderNotSupported: "mirror_provider_not_supported",
	ErrNoActiveMirror:             "no_active_mirror",
}

// GetErrorMessage 根据错误码获取错误消息（使用默认语言）
func GetErrorMessage(code ErrorCode) string {
	return GetErrorMessageWithLang(code, i18n.GetInstance().GetDefaultLanguage())
}

// GetErrorMessageWithLang 根据错误码和语言获取错误消息
func GetErrorMessageWithLang(code ErrorCode, lang string) string {
	key, exists := errorCodeToKeyMap[code]
	if !exists {
		key = "unknown_error"
	}
	return i18n.GetInstance().Translate(key, lang)
}
