package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"bazario/api/internal/media/sniffer"
	"bazario/api/internal/repository"
	"bazario/api/internal/service"
)

// Every error response uses the same envelope. Internal detail stays in the
// logs; clients only ever see a safe message.
func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"status":  status,
		"message": message,
	})
}

// failFromError maps domain errors to statuses and collapses everything
// unexpected into a generic 500.
func failFromError(c *gin.Context, log zerolog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrAlreadyPaid):
		fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrInvalidActivation),
		errors.Is(err, service.ErrAddressTypeExists),
		errors.Is(err, service.ErrNoWithdrawMethod),
		errors.Is(err, sniffer.ErrUnsupportedImage),
		errors.Is(err, repository.ErrInsufficientBalance),
		errors.Is(err, repository.ErrOutOfStock):
		fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotOwner):
		fail(c, http.StatusForbidden, err.Error())
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrShopNotFound),
		errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, repository.ErrCouponNotFound),
		errors.Is(err, repository.ErrTransactionNotFound):
		fail(c, http.StatusNotFound, err.Error())
	default:
		log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
		fail(c, http.StatusInternalServerError, "something went wrong")
	}
}

func badRequest(c *gin.Context, err error) {
	fail(c, http.StatusBadRequest, err.Error())
}
