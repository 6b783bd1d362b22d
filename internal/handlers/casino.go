package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bcibizz-gateway/internal/middleware"
	"bcibizz-gateway/internal/models"
	"bcibizz-gateway/internal/render"
)

type CasinoHandler struct {
	logger *zap.Logger
}

func NewCasinoHandler(logger *zap.Logger) *CasinoHandler {
	return &CasinoHandler{logger: logger}
}

// List returns the session's casino accounts grouped by casino, filtered by
// the q query parameter.
func (h *CasinoHandler) List(c *gin.Context) {
	resp := middleware.Client(c).GetUserCasinoAccounts(c.Request.Context())
	if !resp.Success {
		respondUpstream(c, resp, "Erro ao carregar contas")
		return
	}

	var accounts []models.CasinoAccount
	if err := resp.DecodeList(&accounts); err != nil {
		h.logger.Warn("casino accounts payload unusable", zap.Error(err))
		accounts = nil
	}

	respondData(c, http.StatusOK, render.CasinoAccounts(accounts, c.Query("q")), "")
}
