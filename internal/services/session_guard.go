package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"bcibizz-gateway/internal/models"
)

// LoginPath is where guarded page routes send users without a valid session.
const LoginPath = "/login"

var errMissingUpstreamToken = errors.New("login response without token")

type LoginOutcome struct {
	SessionID  string    `json:"session_id"`
	Token      string    `json:"token"`
	RememberMe bool      `json:"remember_me"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// SessionGuard owns the session lifecycle: created at login, validated
// upstream on every protected request, destroyed at logout or when
// validation fails. Validation is a single attempt with no retry.
type SessionGuard struct {
	store  SessionStore
	api    *APIClient
	jwt    *JWTService
	logger *zap.Logger
}

func NewSessionGuard(store SessionStore, api *APIClient, jwtService *JWTService, logger *zap.Logger) *SessionGuard {
	return &SessionGuard{
		store:  store,
		api:    api,
		jwt:    jwtService,
		logger: logger,
	}
}

// Login forwards credentials upstream and, on success, opens a gateway
// session holding the upstream token. The upstream response is returned so
// rejections surface with the server's message.
func (g *SessionGuard) Login(ctx context.Context, req models.LoginRequest) (*LoginOutcome, models.Response) {
	resp := g.api.Login(ctx, req.Credentials)
	if !resp.Success {
		return nil, resp
	}

	var result models.LoginResult
	if err := resp.Decode(&result); err != nil || result.Token == "" {
		if err == nil {
			err = errMissingUpstreamToken
		}
		g.logger.Error("login response without usable token", zap.Error(err))
		return nil, models.Response{Success: false, Message: "Resposta inválida do servidor de autenticação"}
	}

	sessionID := models.GenerateSessionID()
	if err := g.store.SetItem(ctx, sessionID, models.SessionKeyToken, result.Token); err != nil {
		g.logger.Error("failed to store session token", zap.Error(err))
		return nil, models.Response{Success: false, Message: "Não foi possível iniciar a sessão"}
	}

	if req.RememberMe {
		err := g.store.SetItem(ctx, sessionID, models.SessionKeyRememberMe, strconv.FormatBool(true))
		if err != nil {
			g.logger.Warn("failed to store remember flag", zap.Error(err))
		}
	} else {
		_ = g.store.RemoveItem(ctx, sessionID, models.SessionKeyRememberMe)
	}

	ttl := g.jwt.TTL(req.RememberMe)
	if err := g.store.Expire(ctx, sessionID, ttl); err != nil {
		g.logger.Warn("failed to set session expiry", zap.Error(err))
	}

	token, err := g.jwt.GenerateToken(sessionID, req.RememberMe)
	if err != nil {
		g.logger.Error("failed to issue session token", zap.Error(err))
		_ = g.store.Destroy(ctx, sessionID)
		return nil, models.Response{Success: false, Message: "Não foi possível iniciar a sessão"}
	}

	return &LoginOutcome{
		SessionID:  sessionID,
		Token:      token,
		RememberMe: req.RememberMe,
		ExpiresAt:  time.Now().Add(ttl),
	}, resp
}

// EnsureSession reports whether the session holds a token the upstream API
// still accepts. When it does not, the stored token and remember flag are
// cleared; with redirect set the second value is the login path to send the
// user to.
func (g *SessionGuard) EnsureSession(ctx context.Context, sessionID string, redirect bool) (bool, string) {
	_, redirectTo, ok := g.Authorize(ctx, sessionID, redirect)
	return ok, redirectTo
}

// Authorize is EnsureSession returning the API client bound to the session
// token on success.
func (g *SessionGuard) Authorize(ctx context.Context, sessionID string, redirect bool) (*APIClient, string, bool) {
	return g.check(ctx, sessionID, redirect, false)
}

// EnsureAdminSession validates against the admin endpoint. Failure clears the
// token only.
func (g *SessionGuard) EnsureAdminSession(ctx context.Context, sessionID string, redirect bool) (bool, string) {
	_, redirectTo, ok := g.check(ctx, sessionID, redirect, true)
	return ok, redirectTo
}

func (g *SessionGuard) AuthorizeAdmin(ctx context.Context, sessionID string, redirect bool) (*APIClient, string, bool) {
	return g.check(ctx, sessionID, redirect, true)
}

func (g *SessionGuard) check(ctx context.Context, sessionID string, redirect, admin bool) (*APIClient, string, bool) {
	token := ""
	if sessionID != "" {
		stored, err := g.store.GetItem(ctx, sessionID, models.SessionKeyToken)
		if err != nil {
			g.logger.Error("failed to read session token", zap.String("session_id", sessionID), zap.Error(err))
		}
		token = stored
	}

	if token == "" {
		return nil, redirectTarget(redirect), false
	}

	client := g.api.WithToken(token)

	var resp models.Response
	if admin {
		resp = client.ValidateAdminToken(ctx)
	} else {
		resp = client.ValidateToken(ctx)
	}

	if !resp.Success {
		g.logger.Info("session rejected upstream",
			zap.String("session_id", sessionID),
			zap.Bool("admin", admin),
			zap.String("message", resp.Message))
		g.clear(ctx, sessionID, !admin)
		return nil, redirectTarget(redirect), false
	}

	return client, "", true
}

// RememberedSession is the auto-login check: only sessions that asked to be
// remembered are validated.
func (g *SessionGuard) RememberedSession(ctx context.Context, sessionID string) bool {
	if sessionID == "" {
		return false
	}
	remember, err := g.store.GetItem(ctx, sessionID, models.SessionKeyRememberMe)
	if err != nil || remember == "" {
		return false
	}
	ok, _ := g.EnsureSession(ctx, sessionID, false)
	return ok
}

// Session returns what is stored for the session.
func (g *SessionGuard) Session(ctx context.Context, sessionID string) (*models.Session, error) {
	token, err := g.store.GetItem(ctx, sessionID, models.SessionKeyToken)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, models.ErrNoSession
	}
	remember, _ := g.store.GetItem(ctx, sessionID, models.SessionKeyRememberMe)

	return &models.Session{
		ID:           sessionID,
		Token:        token,
		RememberMe:   remember == "true",
		LastAccessed: time.Now(),
	}, nil
}

func (g *SessionGuard) Logout(ctx context.Context, sessionID string) error {
	return g.store.Destroy(ctx, sessionID)
}

func (g *SessionGuard) clear(ctx context.Context, sessionID string, withRemember bool) {
	if err := g.store.RemoveItem(ctx, sessionID, models.SessionKeyToken); err != nil {
		g.logger.Warn("failed to clear session token", zap.Error(err))
	}
	if withRemember {
		if err := g.store.RemoveItem(ctx, sessionID, models.SessionKeyRememberMe); err != nil {
			g.logger.Warn("failed to clear remember flag", zap.Error(err))
		}
	}
}

func redirectTarget(redirect bool) string {
	if redirect {
		return LoginPath
	}
	return ""
}
