package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gatherly/gatherly-api/internal/application"
	"github.com/gatherly/gatherly-api/internal/domain/repository"
	"github.com/gatherly/gatherly-api/pkg/errdef"
	"github.com/gatherly/gatherly-api/pkg/response"
)

// respondError maps a domain error onto a stable status code and a message a
// client can render directly. Unknown errors become an opaque 500; the cause
// is logged, never leaked.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	var windowErr *application.WindowNotOpenError
	if errors.As(err, &windowErr) {
		response.Error(c, http.StatusBadRequest, windowErr.Error(),
			gin.H{"wait_seconds": windowErr.RemainingSeconds})
		return
	}
	var capErr *application.CapacityTooLowError
	if errors.As(err, &capErr) {
		response.Error(c, http.StatusBadRequest, capErr.Error(),
			gin.H{"attendees": capErr.Attendees})
		return
	}

	switch {
	case errors.Is(err, repository.ErrNotFound):
		response.Error(c, http.StatusNotFound, "event not found", nil)
	case errdef.IsForbidden(err):
		response.Error(c, http.StatusForbidden, err.Error(), nil)
	case errdef.IsUnauthorized(err):
		response.Error(c, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, application.ErrEventExpired),
		errors.Is(err, application.ErrAlreadyReserved),
		errors.Is(err, application.ErrAtCapacity),
		errors.Is(err, repository.ErrCapacityOrDuplicate),
		errors.Is(err, repository.ErrNotReserved),
		errors.Is(err, repository.ErrEmailTaken),
		errdef.IsBadRequest(err):
		response.Error(c, http.StatusBadRequest, err.Error(), nil)
	default:
		if logger != nil {
			logger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		}
		response.Error(c, http.StatusInternalServerError, "internal server error", nil)
	}
}
