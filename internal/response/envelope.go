package response

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Envelope is the wire shape of every response. Message and Data stay
// JSON null unless explicitly set: success carries neither, errors
// carry only the message.
type Envelope struct {
	HTTPStatus int `json:"httpStatus"`
	Message    any `json:"message"`
	Data       any `json:"data"`
}

func Success(c echo.Context, status int) error {
	return c.JSON(status, Envelope{HTTPStatus: status})
}

func SuccessData(c echo.Context, status int, data any) error {
	return c.JSON(status, Envelope{HTTPStatus: status, Data: data})
}

func Error(c echo.Context, code Code) error {
	return c.JSON(code.HTTPStatus, Envelope{HTTPStatus: code.HTTPStatus, Message: code.Message})
}

// HTTPErrorHandler collapses every error that escapes a handler or
// middleware into the envelope. Unrecognized errors never leak their
// text to the client.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var codeErr *CodeError
	if errors.As(err, &codeErr) {
		_ = Error(c, codeErr.Code)
		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		msg, ok := httpErr.Message.(string)
		if !ok {
			msg = http.StatusText(httpErr.Code)
		}
		_ = c.JSON(httpErr.Code, Envelope{HTTPStatus: httpErr.Code, Message: msg})
		return
	}

	_ = c.JSON(http.StatusInternalServerError, Envelope{
		HTTPStatus: http.StatusInternalServerError,
		Message:    http.StatusText(http.StatusInternalServerError),
	})
}
