package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"bcibizz-gateway/internal/models"
)

const (
	defaultWithdrawalsPage  = 1
	defaultWithdrawalsLimit = 100000
)

// APIClient talks to the upstream REST API. A client never returns an error
// or panics: every failure is folded into a models.Response with Success
// false, so callers can degrade a single view section.
type APIClient struct {
	http   *resty.Client
	token  string
	logger *zap.Logger
}

func NewAPIClient(baseURL string, timeout time.Duration, logger *zap.Logger) *APIClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &APIClient{
		http:   client,
		logger: logger,
	}
}

// WithToken returns a client bound to the given bearer token. The underlying
// transport is shared.
func (c *APIClient) WithToken(token string) *APIClient {
	scoped := *c
	scoped.token = token
	return &scoped
}

func (c *APIClient) Request(ctx context.Context, method, endpoint string, body any) (out models.Response) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("api request panicked",
				zap.String("method", method),
				zap.String("endpoint", endpoint),
				zap.Any("panic", r))
			out = models.Response{Success: false, Message: "Erro de conexão com o servidor"}
		}
	}()

	req := c.http.R().SetContext(ctx)
	if c.token != "" {
		req.SetAuthToken(c.token)
	}
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, endpoint)
	if err != nil {
		c.logger.Error("api request failed",
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.Error(err))
		message := err.Error()
		if message == "" {
			message = "Erro de conexão com o servidor"
		}
		return models.Response{Success: false, Message: message}
	}

	raw := resp.Body()
	if !json.Valid(raw) {
		c.logger.Error("api response not parsable",
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode()))
		return models.Response{
			Status:  resp.StatusCode(),
			Success: false,
			Message: fmt.Sprintf("Erro de comunicação com o servidor (%d)", resp.StatusCode()),
		}
	}

	if resp.IsSuccess() {
		return models.Response{Status: resp.StatusCode(), Success: true, Result: json.RawMessage(raw)}
	}

	var errBody struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(raw, &errBody)
	message := errBody.Message
	if message == "" {
		message = fmt.Sprintf("Erro %d: %s", resp.StatusCode(), http.StatusText(resp.StatusCode()))
	}

	c.logger.Warn("api request rejected",
		zap.String("method", method),
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode()),
		zap.String("message", message))

	return models.Response{Status: resp.StatusCode(), Success: false, Result: json.RawMessage(raw), Message: message}
}

func (c *APIClient) Register(ctx context.Context, user *models.Registration) models.Response {
	return c.Request(ctx, http.MethodPost, "/auth/register", user)
}

func (c *APIClient) Login(ctx context.Context, creds models.Credentials) models.Response {
	return c.Request(ctx, http.MethodPost, "/auth/login", creds)
}

func (c *APIClient) ValidateToken(ctx context.Context) models.Response {
	return c.Request(ctx, http.MethodGet, "/auth/validateToken", nil)
}

func (c *APIClient) ValidateAdminToken(ctx context.Context) models.Response {
	return c.Request(ctx, http.MethodGet, "/auth/adminAuthenticated", nil)
}

func (c *APIClient) GetUserData(ctx context.Context) models.Response {
	return c.Request(ctx, http.MethodGet, "/users/me", nil)
}

func (c *APIClient) GetChartData(ctx context.Context) models.Response {
	return c.Request(ctx, http.MethodGet, "/users/me/chart-data", nil)
}

func (c *APIClient) GetProfileByPhone(ctx context.Context, phone string) models.Response {
	return c.Request(ctx, http.MethodGet, "/profiles/by-phone/"+url.PathEscape(phone), nil)
}

func (c *APIClient) GetUserCasinoAccounts(ctx context.Context) models.Response {
	return c.Request(ctx, http.MethodGet, "/users/me/casino-accounts", nil)
}

func (c *APIClient) GetUserTransactions(ctx context.Context) models.Response {
	return c.Request(ctx, http.MethodGet, "/users/me/transactions", nil)
}

func (c *APIClient) GetUserDebts(ctx context.Context) models.Response {
	return c.Request(ctx, http.MethodGet, "/users/me/debts", nil)
}

// GetUserWithdrawals pages through withdrawals. Non-positive page or limit
// fall back to page 1 and an effectively unbounded limit.
func (c *APIClient) GetUserWithdrawals(ctx context.Context, page, limit int) models.Response {
	if page <= 0 {
		page = defaultWithdrawalsPage
	}
	if limit <= 0 {
		limit = defaultWithdrawalsLimit
	}
	return c.Request(ctx, http.MethodGet, fmt.Sprintf("/users/me/withdrawals?page=%d&limit=%d", page, limit), nil)
}

func (c *APIClient) GetProfits(ctx context.Context) models.Response {
	return c.Request(ctx, http.MethodGet, "/users/me/profits", nil)
}

func (c *APIClient) GetPreferences(ctx context.Context) models.Response {
	return c.Request(ctx, http.MethodGet, "/users/me/preferences", nil)
}

func (c *APIClient) UpdatePreferences(ctx context.Context, prefs models.Preferences) models.Response {
	return c.Request(ctx, http.MethodPut, "/users/me/preferences", prefs)
}

func (c *APIClient) Withdraw(ctx context.Context, amount float64) models.Response {
	return c.Request(ctx, http.MethodPost, "/users/me/withdraw", map[string]float64{"amount": amount})
}

func (c *APIClient) RecoverPasswordEmail(ctx context.Context, email string) models.Response {
	return c.Request(ctx, http.MethodPost, "/auth/forgot-password", map[string]string{"email": email})
}
