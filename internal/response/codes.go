package response

import "net/http"

// Code pairs the HTTP status with a fixed human-readable message.
type Code struct {
	HTTPStatus int
	Message    string
}

var (
	InvalidUserInfo        = Code{http.StatusUnauthorized, "invalid username or password"}
	UserDeleted            = Code{http.StatusUnauthorized, "user has been deleted"}
	InvalidTokens          = Code{http.StatusUnauthorized, "invalid token"}
	RefreshTokenExpired    = Code{http.StatusUnauthorized, "token has expired"}
	UserNotFound           = Code{http.StatusNotFound, "user not found"}
	UserAlreadyExists      = Code{http.StatusConflict, "username already exists"}
	InvalidCurrentPassword = Code{http.StatusBadRequest, "current password does not match"}
	SameAsOldPassword      = Code{http.StatusBadRequest, "new password must differ from the old one"}
)

// CodeError carries a response code through the handler chain until the
// HTTP error handler serializes it.
type CodeError struct {
	Code Code
}

func (e *CodeError) Error() string { return e.Code.Message }

func NewError(code Code) error { return &CodeError{Code: code} }
