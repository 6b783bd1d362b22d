package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bcibizz-gateway/internal/middleware"
	"bcibizz-gateway/internal/models"
	"bcibizz-gateway/internal/render"
	"bcibizz-gateway/internal/services"
)

type UserHandler struct {
	guard *services.SessionGuard
}

func NewUserHandler(guard *services.SessionGuard) *UserHandler {
	return &UserHandler{guard: guard}
}

func (h *UserHandler) Me(c *gin.Context) {
	resp := middleware.Client(c).GetUserData(c.Request.Context())
	var user models.User
	if err := resp.Decode(&user); err != nil {
		respondUpstream(c, resp, "Error loading User Data")
		return
	}

	session, err := h.guard.Session(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Session expired or invalid")
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"user":         user,
		"display_name": render.DisplayName(user.FullName),
		"balance":      render.FormatMoney(user.Balance.Float64()),
		"session": gin.H{
			"session_id":    session.ID,
			"remember_me":   session.RememberMe,
			"last_accessed": session.LastAccessed,
		},
	}, "")
}

func (h *UserHandler) Preferences(c *gin.Context) {
	resp := middleware.Client(c).GetPreferences(c.Request.Context())
	if !resp.Success {
		respondUpstream(c, resp, "Erro ao carregar preferências")
		return
	}

	prefs := models.Preferences{}
	if err := resp.Decode(&prefs); err != nil && !errors.Is(err, models.ErrEmptyResult) {
		respondUpstream(c, resp, "Erro ao carregar preferências")
		return
	}
	respondData(c, http.StatusOK, prefs, "")
}

func (h *UserHandler) UpdatePreferences(c *gin.Context) {
	var prefs models.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil || prefs == nil {
		respondError(c, http.StatusBadRequest, "Preferências inválidas")
		return
	}

	resp := middleware.Client(c).UpdatePreferences(c.Request.Context(), prefs)
	if !resp.Success {
		respondUpstream(c, resp, "Erro ao guardar preferências")
		return
	}
	respondData(c, http.StatusOK, prefs, "Preferências guardadas")
}

// Debts relays the upstream payload as-is.
func (h *UserHandler) Debts(c *gin.Context) {
	resp := middleware.Client(c).GetUserDebts(c.Request.Context())
	if !resp.Success {
		respondUpstream(c, resp, "Erro ao carregar dívidas")
		return
	}

	var debts json.RawMessage
	if err := resp.DecodeList(&debts); err != nil {
		debts = json.RawMessage("[]")
	}
	respondData(c, http.StatusOK, debts, "")
}

func (h *UserHandler) ProfileByPhone(c *gin.Context) {
	phone := strings.TrimSpace(c.Param("phone"))
	if phone == "" {
		respondError(c, http.StatusBadRequest, models.ErrInvalidPhone.Error())
		return
	}

	resp := middleware.Client(c).GetProfileByPhone(c.Request.Context(), phone)
	var profile json.RawMessage
	err := resp.Decode(&profile)
	switch {
	case errors.Is(err, models.ErrEmptyResult):
		respondError(c, http.StatusNotFound, "Perfil não encontrado")
		return
	case err != nil:
		respondUpstream(c, resp, "Perfil não encontrado")
		return
	}
	respondData(c, http.StatusOK, profile, "")
}
