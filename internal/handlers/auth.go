package handlers

import (
	"context"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bcibizz-gateway/internal/middleware"
	"bcibizz-gateway/internal/models"
	"bcibizz-gateway/internal/services"
)

const forgotPasswordMessage = "Se o e-mail estiver registado, receberá instruções para recuperar a sua palavra-passe."

type AuthHandler struct {
	guard        *services.SessionGuard
	api          *services.APIClient
	jwt          *services.JWTService
	logger       *zap.Logger
	secureCookie bool
}

func NewAuthHandler(guard *services.SessionGuard, api *services.APIClient, jwtService *services.JWTService, logger *zap.Logger, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		guard:        guard,
		api:          api,
		jwt:          jwtService,
		logger:       logger,
		secureCookie: secureCookie,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Por favor, preencha o nome de utilizador e a palavra-passe.")
		return
	}

	outcome, resp := h.guard.Login(c.Request.Context(), req)
	if outcome == nil {
		respondUpstream(c, resp, "Credenciais inválidas")
		return
	}

	middleware.SetSessionCookie(c, outcome.Token, h.jwt.TTL(outcome.RememberMe), h.secureCookie)

	h.logger.Info("session opened",
		zap.String("session_id", outcome.SessionID),
		zap.Bool("remember_me", outcome.RememberMe))

	respondData(c, http.StatusOK, outcome, "login efetuado com sucesso!")
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.Registration
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, models.ErrMissingFields.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondErr(c, err)
		return
	}

	resp := h.api.Register(c.Request.Context(), &req)
	if !resp.Success {
		respondUpstream(c, resp, "Erro ao criar conta")
		return
	}

	respondData(c, http.StatusCreated, nil, "Conta criada com sucesso!")
}

// ForgotPassword answers the same way whether or not the e-mail exists. The
// upstream call outlives the request.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || !validEmail(req.Email) {
		respondError(c, http.StatusBadRequest, models.ErrInvalidEmail.Error())
		return
	}

	ctx := context.WithoutCancel(c.Request.Context())
	email := strings.TrimSpace(req.Email)
	go func() {
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if resp := h.api.RecoverPasswordEmail(ctx, email); !resp.Success {
			h.logger.Warn("password recovery request failed", zap.String("message", resp.Message))
		}
	}()

	respondData(c, http.StatusAccepted, nil, forgotPasswordMessage)
}

// Session is the auto-login check. Only remembered sessions are reported
// valid.
func (h *AuthHandler) Session(c *gin.Context) {
	valid := false
	if token, ok := middleware.SessionToken(c); ok {
		if claims, err := h.jwt.ValidateToken(token); err == nil {
			valid = h.guard.RememberedSession(c.Request.Context(), claims.SessionID)
		}
	}

	respondData(c, http.StatusOK, gin.H{"valid": valid}, "")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID := middleware.SessionID(c)
	if err := h.guard.Logout(c.Request.Context(), sessionID); err != nil {
		h.logger.Error("failed to destroy session", zap.String("session_id", sessionID), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to logout")
		return
	}

	middleware.SetSessionCookie(c, "", -time.Second, h.secureCookie)
	respondData(c, http.StatusOK, nil, "Successfully logged out")
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	return err == nil && addr.Address == strings.TrimSpace(email)
}
