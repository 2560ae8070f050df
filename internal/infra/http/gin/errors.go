package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	domainactor "roomly/internal/domain/actor"
	domainlisting "roomly/internal/domain/listing"
	domainreservation "roomly/internal/domain/reservation"
)

// respondError maps domain sentinels onto the HTTP surface. Anything
// unclassified is an internal failure: logged in full, surfaced generically.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, domainlisting.ErrNotFound),
		errors.Is(err, domainreservation.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domainreservation.ErrForbidden),
		errors.Is(err, domainreservation.ErrSelfBooking),
		errors.Is(err, domainlisting.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domainreservation.ErrAlreadyProcessed),
		errors.Is(err, domainreservation.ErrConcurrentUpdate),
		errors.Is(err, domainlisting.ErrConcurrentUpdate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domainreservation.ErrInvalidTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, domainreservation.ErrInvalidDate),
		errors.Is(err, domainreservation.ErrInvalidDateRange),
		errors.Is(err, domainreservation.ErrInvalidType),
		errors.Is(err, domainreservation.ErrTotalPriceRequired),
		errors.Is(err, domainreservation.ErrInvalidPeople),
		errors.Is(err, domainreservation.ErrListingRequired),
		errors.Is(err, domainlisting.ErrNameRequired),
		errors.Is(err, domainlisting.ErrNegativePrice),
		errors.Is(err, domainlisting.ErrInvalidStatus),
		errors.Is(err, domainactor.ErrUnknownRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		if logger != nil {
			logger.Error("request failed", "error", err, "path", c.FullPath(), "request_id", c.GetString("request_id"))
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
