package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bcibizz-gateway/internal/middleware"
	"bcibizz-gateway/internal/models"
	"bcibizz-gateway/internal/render"
	"bcibizz-gateway/internal/services"
)

type WithdrawHandler struct {
	withdrawals *services.WithdrawService
	now         func() time.Time
}

func NewWithdrawHandler(withdrawals *services.WithdrawService) *WithdrawHandler {
	return &WithdrawHandler{
		withdrawals: withdrawals,
		now:         func() time.Time { return time.Now().In(render.Lisbon) },
	}
}

func (h *WithdrawHandler) Get(c *gin.Context) {
	overview := h.withdrawals.Overview(c.Request.Context(), middleware.Client(c), middleware.SessionID(c))
	h.respondOverview(c, overview, "")
}

func (h *WithdrawHandler) Post(c *gin.Context) {
	var req models.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, models.ErrBelowMinimum.Error())
		return
	}

	overview, err := h.withdrawals.Submit(c.Request.Context(), middleware.Client(c), middleware.SessionID(c), req)
	if err != nil {
		respondErr(c, err)
		return
	}

	h.respondOverview(c, overview, "Levantamento efetuado com Sucesso")
}

func (h *WithdrawHandler) AddAccount(c *gin.Context) {
	var account models.PayoutAccount
	if err := c.ShouldBindJSON(&account); err != nil {
		respondError(c, http.StatusBadRequest, models.ErrMissingFields.Error())
		return
	}

	if err := h.withdrawals.AddAccount(c.Request.Context(), middleware.SessionID(c), &account); err != nil {
		respondErr(c, err)
		return
	}

	respondData(c, http.StatusCreated, account, "Conta adicionada com sucesso!")
}

func (h *WithdrawHandler) respondOverview(c *gin.Context, overview *services.WithdrawOverview, message string) {
	view := render.Withdraw(overview.User, overview.Withdrawals, overview.Accounts, h.now())

	alerts := overview.Alerts
	if alerts == nil {
		alerts = []string{}
	}

	respondData(c, http.StatusOK, gin.H{
		"view":   view,
		"alerts": alerts,
	}, message)
}
