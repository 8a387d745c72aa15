package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tuananh0303/DATN-sub000/internal/core/domain"
)

// errorStatus pairs each domain sentinel with its HTTP status. Transport
// failures come first because they wrap the error reported upstream.
var errorStatus = []struct {
	err    error
	status int
}{
	{domain.ErrCreationFailed, http.StatusBadGateway},
	{domain.ErrUpdateFailed, http.StatusBadGateway},
	{domain.ErrDeleteFailed, http.StatusBadGateway},
	{domain.ErrPaymentFailed, http.StatusBadGateway},

	{domain.ErrDurationTooShort, http.StatusUnprocessableEntity},
	{domain.ErrTooSoon, http.StatusUnprocessableEntity},
	{domain.ErrBeyondHorizon, http.StatusUnprocessableEntity},
	{domain.ErrOutsideOperatingHours, http.StatusUnprocessableEntity},
	{domain.ErrVoucherNotApplicable, http.StatusUnprocessableEntity},
	{domain.ErrInvalidRule, http.StatusUnprocessableEntity},
	{domain.ErrInvalidQuantity, http.StatusUnprocessableEntity},
	{domain.ErrUnknownService, http.StatusUnprocessableEntity},
	{domain.ErrIncompleteSlots, http.StatusUnprocessableEntity},
	{domain.ErrInvalidPaymentMethod, http.StatusUnprocessableEntity},

	{domain.ErrInvalidPhase, http.StatusConflict},
	{domain.ErrNoDraft, http.StatusNotFound},
	{domain.ErrNotFound, http.StatusNotFound},
}

// writeError renders err in the error envelope. Domain errors keep their
// code; anything else is logged and reported as INTERNAL_ERROR.
func writeError(c *gin.Context, log *zap.Logger, err error) {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			failure(c, e.status, e.err.Error(), err.Error())
			return
		}
	}

	log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	failure(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

func badRequest(c *gin.Context, message string) {
	failure(c, http.StatusBadRequest, "VALIDATION_ERROR", message)
}
