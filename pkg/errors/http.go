package errors

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ToHTTPStatus는 에러 코드를 HTTP 상태 코드로 변환합니다
func ToHTTPStatus(code string) int {
	httpStatus, _ := GetCodeMapping(code)
	return httpStatus
}

// ToHTTPError는 에러를 Echo HTTP 에러로 변환합니다.
// 클라이언트 응답 본문은 {"error": 메시지, "code": 코드} 형식이며 내부 에러는 노출하지 않습니다.
func ToHTTPError(err error) *echo.HTTPError {
	if err == nil {
		return nil
	}

	if echoErr, ok := err.(*echo.HTTPError); ok {
		return echoErr
	}

	var appErr *AppError
	if As(err, &appErr) {
		status := ToHTTPStatus(appErr.Code())
		msg := appErr.Message()
		if status >= http.StatusInternalServerError {
			msg = http.StatusText(status)
		}
		return echo.NewHTTPError(status, echo.Map{
			"error": msg,
			"code":  appErr.Code(),
		}).SetInternal(err)
	}

	return echo.NewHTTPError(http.StatusInternalServerError, echo.Map{
		"error": http.StatusText(http.StatusInternalServerError),
		"code":  ErrInternal,
	}).SetInternal(err)
}
