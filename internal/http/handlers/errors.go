package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nvasilas/go-tandem-backend/internal/auth"
	"github.com/nvasilas/go-tandem-backend/internal/services"
)

// Stable machine-readable error codes. Lowercase snake_case; generic codes
// mirror HTTP status semantics, domain codes carry what status alone cannot.
const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	ErrCodeWeakPassword      = "weak_password"
	ErrCodePaymentIncomplete = "payment_not_completed"
	ErrCodeMethodNotAllowed  = "method_not_allowed"
)

// failFromService translates a service sentinel error into the HTTP envelope.
// Unknown errors become opaque 500s; the details go to the logs only.
func failFromService(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMissingFields),
		errors.Is(err, services.ErrNoLanguages),
		errors.Is(err, services.ErrGroupSizeRequired),
		errors.Is(err, services.ErrInvalidRating),
		errors.Is(err, services.ErrEmptyMessage),
		errors.Is(err, services.ErrSelfChat),
		errors.Is(err, services.ErrCloneOwnDeck):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())

	case errors.Is(err, auth.ErrWeakPassword):
		fail(c, http.StatusBadRequest, ErrCodeWeakPassword, err.Error())

	case errors.Is(err, services.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, err.Error())

	case errors.Is(err, services.ErrNotParticipant),
		errors.Is(err, services.ErrRescheduleOwnProposal):
		fail(c, http.StatusForbidden, ErrCodeForbidden, err.Error())

	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrOfferNotFound),
		errors.Is(err, services.ErrClassNotFound),
		errors.Is(err, services.ErrChatNotFound),
		errors.Is(err, services.ErrNotificationNotFound),
		errors.Is(err, services.ErrDeckNotFound),
		errors.Is(err, services.ErrCardNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())

	case errors.Is(err, services.ErrDuplicateUser),
		errors.Is(err, services.ErrReschedulePending),
		errors.Is(err, services.ErrRescheduleNotPending),
		errors.Is(err, services.ErrAlreadyRated):
		fail(c, http.StatusConflict, ErrCodeConflict, err.Error())

	case errors.Is(err, services.ErrPaymentNotCompleted):
		fail(c, http.StatusBadRequest, ErrCodePaymentIncomplete, err.Error())

	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
	}
}
