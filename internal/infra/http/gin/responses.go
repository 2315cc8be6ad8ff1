package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"innkeep/internal/app/dto"
	"innkeep/internal/app/services/reservations"
	domainbilling "innkeep/internal/domain/billing"
	domainhotel "innkeep/internal/domain/hotel"
	domainnotification "innkeep/internal/domain/notification"
	domainrate "innkeep/internal/domain/rate"
	domainreservation "innkeep/internal/domain/reservation"
	domainroom "innkeep/internal/domain/room"
	domainrange "innkeep/internal/domain/shared/daterange"
	"innkeep/internal/domain/shared/money"
	domainuser "innkeep/internal/domain/user"
)

// respondDomainError maps domain and service errors onto HTTP statuses.
// Anything unrecognized is logged and returned as an opaque 500.
func respondDomainError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, domainhotel.ErrNotFound),
		errors.Is(err, domainroom.ErrNotFound),
		errors.Is(err, domainrate.ErrNotFound),
		errors.Is(err, domainreservation.ErrNotFound),
		errors.Is(err, domainbilling.ErrNotFound),
		errors.Is(err, domainnotification.ErrNotFound),
		errors.Is(err, domainuser.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domainreservation.ErrRoomUnavailable),
		errors.Is(err, domainreservation.ErrInvalidState),
		errors.Is(err, domainuser.ErrEmailAlreadyUsed),
		errors.Is(err, domainbilling.ErrInvalidStatus):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, reservations.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domainrange.ErrInvalidRange),
		errors.Is(err, domainreservation.ErrInvalidGuests),
		errors.Is(err, reservations.ErrCapacityExceeded),
		errors.Is(err, domainhotel.ErrNameRequired),
		errors.Is(err, domainroom.ErrInvalidType),
		errors.Is(err, domainroom.ErrInvalidStatus),
		errors.Is(err, domainroom.ErrInvalidPrice),
		errors.Is(err, domainroom.ErrInvalidCapacity),
		errors.Is(err, domainrate.ErrNameRequired),
		errors.Is(err, domainrate.ErrInvalidWindow),
		errors.Is(err, domainrate.ErrInvalidMultiplier),
		errors.Is(err, domainuser.ErrInvalidRole),
		errors.Is(err, money.ErrInvalidCurrency),
		errors.Is(err, money.ErrInvalidFactor):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		if logger != nil {
			logger.Error("request failed", "error", err, "path", c.FullPath())
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// bindAndValidate decodes the JSON body and runs the struct tags through the
// shared validator. Responds on failure and reports whether to proceed.
func bindAndValidate(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return false
	}
	if err := dto.Validate.Struct(req); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fieldErrors(invalid)})
			return false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return false
	}
	return true
}

func fieldErrors(invalid validator.ValidationErrors) []string {
	out := make([]string, 0, len(invalid))
	for _, fe := range invalid {
		out = append(out, fe.Field()+": "+fe.Tag())
	}
	return out
}

// parseDateQuery accepts both calendar dates and RFC 3339 timestamps.
func parseDateQuery(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func parseIntWithDefault(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
