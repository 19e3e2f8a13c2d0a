package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/checkout/internal/domain/errors"
	"github.com/polkiloo/checkout/internal/server/http/dto"
	"github.com/polkiloo/checkout/internal/server/http/middleware"
)

// CurrentUserID extracts authenticated user identifier from context.
func CurrentUserID(c *gin.Context) int64 {
	val, ok := c.Get(middleware.UserIDContextKey)
	if !ok {
		return 0
	}
	id, _ := val.(int64)
	return id
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, domainErrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domainErrors.ErrGateway),
		errors.Is(err, domainErrors.ErrInvalidRequest),
		errors.Is(err, domainErrors.ErrInvalidIdentityNumber),
		errors.Is(err, domainErrors.ErrInsufficientStock):
		return http.StatusBadRequest
	case errors.Is(err, domainErrors.ErrProductNotFound),
		errors.Is(err, domainErrors.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps domain errors to HTTP responses. Internal error text is
// included only when verbose is set.
func writeError(c *gin.Context, err error, fallback string, verbose bool) {
	status := errorStatus(err)
	resp := dto.ErrorResponse{Error: err.Error()}

	var gwErr *domainErrors.GatewayError
	switch {
	case status == http.StatusUnauthorized:
		resp.Error = "unauthorized"
	case errors.As(err, &gwErr):
		resp.Details = gwErr.Details
	case status == http.StatusInternalServerError:
		resp.Error = fallback
		if verbose {
			resp.Details = err.Error()
		}
	}
	c.JSON(status, resp)
}
