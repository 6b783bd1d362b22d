package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bcibizz-gateway/internal/models"
)

func respondData(c *gin.Context, status int, data any, message string) {
	body := gin.H{
		"success": true,
		"result":  gin.H{"data": data},
	}
	if message != "" {
		body["message"] = message
	}
	c.JSON(status, body)
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

// respondUpstream relays a failed upstream call. Client errors keep their
// status; anything else is a bad gateway.
func respondUpstream(c *gin.Context, resp models.Response, fallback string) {
	status := http.StatusBadGateway
	if resp.Status >= 400 && resp.Status < 500 {
		status = resp.Status
	}
	message := resp.Message
	if message == "" {
		message = fallback
	}
	respondError(c, status, message)
}

// respondErr maps a service error onto a status.
func respondErr(c *gin.Context, err error) {
	var upstream *models.UpstreamError
	switch {
	case errors.As(err, &upstream):
		respondError(c, http.StatusBadGateway, upstream.Message)
	case errors.Is(err, models.ErrWithdrawFailed):
		respondError(c, http.StatusBadGateway, models.ErrWithdrawFailed.Error())
	case errors.Is(err, models.ErrBelowMinimum),
		errors.Is(err, models.ErrInsufficientBalance),
		errors.Is(err, models.ErrAccountRequired),
		errors.Is(err, models.ErrInvalidPhone),
		errors.Is(err, models.ErrInvalidIBAN),
		errors.Is(err, models.ErrMissingFields),
		errors.Is(err, models.ErrInvalidEmail):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrRateLimited):
		respondError(c, http.StatusTooManyRequests, err.Error())
	default:
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "Erro interno. Tente novamente mais tarde.")
	}
}
