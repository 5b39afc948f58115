package util

import "net/http"

// AppError 业务错误，带 HTTP 状态码，由 RespondError 统一映射。
type AppError struct {
	Status  int
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func ValidationError(message string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: message}
}

func AuthorizationError(message string) *AppError {
	return &AppError{Status: http.StatusForbidden, Message: message}
}

func NotFoundError(message string) *AppError {
	return &AppError{Status: http.StatusNotFound, Message: message}
}

func AlreadyExistsError(message string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: message}
}

func PaymentNotSupportedError(message string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: message}
}

// DataIntegrityError 表示存储中的数据违反了定义期就该挡住的约束。
func DataIntegrityError(message string) *AppError {
	return &AppError{Status: http.StatusInternalServerError, Message: message}
}

var (
	ErrUserNotFound       = NotFoundError("user not found")
	ErrModuleNotFound     = NotFoundError("module not found")
	ErrContentNotFound    = NotFoundError("content not found")
	ErrEnrollmentNotFound = NotFoundError("enrollment not found")
	ErrEmailRegistered    = AlreadyExistsError("该邮箱已被注册")
	ErrAlreadyEnrolled    = AlreadyExistsError("already enrolled in this module")
	ErrPaidModule         = PaymentNotSupportedError("paid module enrollment is not supported")
	ErrModuleUnpublished  = ValidationError("module is not published")
	ErrNotEnrolled        = AuthorizationError("not enrolled in this module")
	ErrNotModuleOwner     = AuthorizationError("not the owner of this module")
	ErrNotAQuiz           = ValidationError("content item is not a quiz")
	ErrQuizNoQuestions    = DataIntegrityError("quiz definition has no questions")
)
