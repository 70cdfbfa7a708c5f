package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Kind classifies a BusinessError so transports can map it to a
// stable status code and UIs can tell "pick another slot" apart
// from "you are too late to cancel".
type Kind string

const (
	KindNotFound              Kind = "not_found"
	KindConflict              Kind = "conflict"
	KindInvalidState          Kind = "invalid_state"
	KindPolicyViolation       Kind = "policy_violation"
	KindValidation            Kind = "validation"
	KindDependencyUnavailable Kind = "dependency_unavailable"
)

type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
}

func (e BusinessError) Error() string {
	return e.Code
}

func newBusiness(kind Kind, code, message string) error {
	return BusinessError{Kind: kind, Code: code, Message: message}
}

func ErrNotFound(code, message string) error {
	return newBusiness(KindNotFound, code, message)
}

func ErrConflict(code, message string) error {
	return newBusiness(KindConflict, code, message)
}

func ErrInvalidState(code, message string) error {
	return newBusiness(KindInvalidState, code, message)
}

func ErrPolicy(code, message string) error {
	return newBusiness(KindPolicyViolation, code, message)
}

func ErrValidation(code, message string) error {
	return newBusiness(KindValidation, code, message)
}

func ErrDependency(code, message string) error {
	return newBusiness(KindDependencyUnavailable, code, message)
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func KindOf(err error) (Kind, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind, true
	}
	return "", false
}

func statusFor(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindPolicyViolation:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindInvalidState:
		return http.StatusUnprocessableEntity
	case KindDependencyUnavailable:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// WriteBusiness maps a BusinessError onto the response; anything else
// becomes a 500 with the fallback code.
func WriteBusiness(c *gin.Context, err error, fallbackCode, fallbackMessage string) {
	var be BusinessError
	if errors.As(err, &be) {
		msg := be.Message
		if msg == "" {
			msg = fallbackMessage
		}
		Write(c, statusFor(be.Kind), be.Code, msg)
		return
	}
	Internal(c, fallbackCode, fallbackMessage)
}
