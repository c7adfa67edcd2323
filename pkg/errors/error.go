package errors

import (
	"errors"
	"fmt"
)

// 표준 라이브러리 함수 재노출
var (
	New    = errors.New
	Unwrap = errors.Unwrap
	Is     = errors.Is
	As     = errors.As
)

// Error는 기본 에러 인터페이스를 확장합니다
type Error interface {
	error
	Code() string
	Unwrap() error
}

// AppError는 기본 에러 구현체입니다
type AppError struct {
	code    string
	message string
	err     error
}

func (e *AppError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s", e.message, e.err.Error())
	}
	return e.message
}

func (e *AppError) Code() string {
	return e.code
}

// Message는 내부 에러를 제외한 메시지만 반환합니다. 클라이언트 응답에 사용합니다.
func (e *AppError) Message() string {
	return e.message
}

func (e *AppError) Unwrap() error {
	return e.err
}

// Is는 같은 코드와 메시지를 가진 AppError를 동일한 에러로 취급합니다.
// 도메인 센티넬을 Wrap 해도 errors.Is 비교가 유지됩니다.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.code == t.code && e.message == t.message && t.err == nil
}

// NewAppError는 새 애플리케이션 에러를 생성합니다
func NewAppError(code string, message string, err error) *AppError {
	return &AppError{
		code:    code,
		message: message,
		err:     err,
	}
}

// NotFound는 NOT_FOUND 코드의 에러를 생성합니다
func NotFound(format string, args ...interface{}) *AppError {
	return NewAppError(ErrNotFound, fmt.Sprintf(format, args...), nil)
}

// InvalidArgument는 INVALID_ARGUMENT 코드의 에러를 생성합니다
func InvalidArgument(format string, args ...interface{}) *AppError {
	return NewAppError(ErrInvalidArgument, fmt.Sprintf(format, args...), nil)
}

// Wrap은 기존 에러를 래핑합니다
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	// 기존 AppError인 경우 코드를 유지합니다
	var appErr *AppError
	if As(err, &appErr) {
		return NewAppError(appErr.Code(), message, err)
	}

	return NewAppError(ErrInternal, message, err)
}

// CodeOf는 에러 체인에서 첫 번째 AppError의 코드를 반환합니다. 없으면 INTERNAL.
func CodeOf(err error) string {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr.Code()
	}
	return ErrInternal
}

// HasCode는 에러 체인에 주어진 코드의 AppError가 있는지 확인합니다
func HasCode(err error, code string) bool {
	return err != nil && CodeOf(err) == code
}
