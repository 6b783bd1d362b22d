package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bcibizz-gateway/internal/config"
	"bcibizz-gateway/internal/handlers"
	"bcibizz-gateway/internal/middleware"
	"bcibizz-gateway/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAPI struct {
	mu     sync.Mutex
	routes map[string]string
	status map[string]int
	calls  map[string]int
}

func (f *fakeAPI) set(key string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[key] = body
	f.status[key] = status
}

func (f *fakeAPI) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path

	f.mu.Lock()
	f.calls[key]++
	body, ok := f.routes[key]
	status := f.status[key]
	f.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"not found"}`))
		return
	}
	w.WriteHeader(status)
	w.Write([]byte(body))
}

type env struct {
	api    *fakeAPI
	router *gin.Engine
	store  *services.MemoryStore
}

func newEnv(t *testing.T) *env {
	t.Helper()

	api := &fakeAPI{
		routes: make(map[string]string),
		status: make(map[string]int),
		calls:  make(map[string]int),
	}
	api.set("POST /auth/login", http.StatusOK, `{"data":{"token":"upstream-token"}}`)
	api.set("GET /auth/validateToken", http.StatusOK, `{"data":true}`)
	api.set("GET /users/me", http.StatusOK, `{"data":{"id":1,"fullname":"Ana Maria Silva","balance":80,"phone":"912345678"}}`)
	api.set("GET /users/me/withdrawals", http.StatusOK, `{"data":{"data":[]}}`)
	api.set("GET /users/me/transactions", http.StatusOK, `{"data":{"data":[]}}`)
	api.set("GET /users/me/chart-data", http.StatusOK, `{"data":{"data":[]}}`)
	api.set("GET /users/me/profits", http.StatusOK, `{"data":{"bonus_total":5,"casino_total":10}}`)

	upstream := httptest.NewServer(api)
	t.Cleanup(upstream.Close)

	logger := zap.NewNop()
	store := services.NewMemoryStore()
	client := services.NewAPIClient(upstream.URL, 0, logger)
	jwtService := services.NewJWTService(&config.Config{JWTSecret: "secret"})
	guard := services.NewSessionGuard(store, client, jwtService, logger)
	aggregator := services.NewAggregator(logger)
	hub := handlers.NewWebSocketHub(logger)
	withdrawals := services.NewWithdrawService(store, hub, logger)

	authHandler := handlers.NewAuthHandler(guard, client, jwtService, logger, false)
	userHandler := handlers.NewUserHandler(guard)
	dashboardHandler := handlers.NewDashboardHandler(aggregator, logger)
	casinoHandler := handlers.NewCasinoHandler(logger)
	withdrawHandler := handlers.NewWithdrawHandler(withdrawals)

	router := gin.New()
	router.GET("/health", handlers.Health)
	router.POST("/api/auth/login", authHandler.Login)
	router.POST("/api/auth/register", authHandler.Register)
	router.POST("/api/auth/forgot-password", authHandler.ForgotPassword)
	router.GET("/api/session", authHandler.Session)
	router.GET("/api/rules", handlers.Rules)

	protected := router.Group("/api")
	protected.Use(middleware.SessionMiddleware(jwtService, guard, false))
	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/me", userHandler.Me)
	protected.GET("/dashboard", dashboardHandler.Get)
	protected.GET("/dashboard/chart", dashboardHandler.Chart)
	protected.GET("/dashboard/series", dashboardHandler.Series)
	protected.GET("/casino-accounts", casinoHandler.List)
	protected.GET("/withdraw", withdrawHandler.Get)
	protected.POST("/withdraw", withdrawHandler.Post)
	protected.POST("/withdraw/accounts", withdrawHandler.AddAccount)

	return &env{api: api, router: router, store: store}
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Result  struct {
		Data json.RawMessage `json:"data"`
	} `json:"result"`
}

func (e *env) request(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var out envelope
	json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func (e *env) login(t *testing.T, remember bool) string {
	t.Helper()

	w, out := e.request(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"username":    "ana",
		"password":    "secret",
		"remember_me": remember,
	})
	if w.Code != http.StatusOK || !out.Success {
		t.Fatalf("login failed: %d %s", w.Code, w.Body.String())
	}

	var outcome services.LoginOutcome
	if err := json.Unmarshal(out.Result.Data, &outcome); err != nil {
		t.Fatalf("bad login payload: %v", err)
	}
	return outcome.Token
}

func TestLoginSetsCookie(t *testing.T) {
	e := newEnv(t)

	w, out := e.request(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": "ana", "password": "secret"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if out.Message != "login efetuado com sucesso!" {
		t.Errorf("unexpected message %q", out.Message)
	}

	var found bool
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == middleware.SessionCookie && cookie.HttpOnly && cookie.Value != "" {
			found = true
		}
	}
	if !found {
		t.Error("expected an HttpOnly session cookie")
	}
}

func TestLoginValidationAndRejection(t *testing.T) {
	e := newEnv(t)

	if w, _ := e.request(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": "ana"}); w.Code != http.StatusBadRequest {
		t.Errorf("missing password: expected 400, got %d", w.Code)
	}
	if e.api.count("POST /auth/login") != 0 {
		t.Error("invalid input must not reach the API")
	}

	e.api.set("POST /auth/login", http.StatusUnauthorized, `{"message":"Credenciais inválidas"}`)
	w, out := e.request(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": "ana", "password": "bad"})
	if w.Code != http.StatusUnauthorized || out.Message != "Credenciais inválidas" {
		t.Errorf("unexpected rejection %d %q", w.Code, out.Message)
	}
}

func TestRegister(t *testing.T) {
	e := newEnv(t)

	w, out := e.request(t, http.MethodPost, "/api/auth/register", "", gin.H{"username": "ana", "password": "pw"})
	if w.Code != http.StatusBadRequest || out.Message != "Por favor, preencha todos os campos corretamente." {
		t.Errorf("incomplete registration: %d %q", w.Code, out.Message)
	}
	if e.api.count("POST /auth/register") != 0 {
		t.Error("incomplete registration must not reach the API")
	}

	e.api.set("POST /auth/register", http.StatusCreated, `{"data":{"id":2}}`)
	w, out = e.request(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "ana", "password": "pw", "fullname": "Ana Silva", "email": "ana@example.pt", "phone": "912345678",
	})
	if w.Code != http.StatusCreated || out.Message != "Conta criada com sucesso!" {
		t.Errorf("registration: %d %q", w.Code, out.Message)
	}
}

func TestForgotPasswordIsNeutral(t *testing.T) {
	e := newEnv(t)

	if w, _ := e.request(t, http.MethodPost, "/api/auth/forgot-password", "", gin.H{"email": "nope"}); w.Code != http.StatusBadRequest {
		t.Errorf("invalid e-mail: expected 400, got %d", w.Code)
	}

	e.api.set("POST /auth/forgot-password", http.StatusNotFound, `{"message":"unknown e-mail"}`)
	w, out := e.request(t, http.MethodPost, "/api/auth/forgot-password", "", gin.H{"email": "ana@example.pt"})
	if w.Code != http.StatusAccepted || !out.Success {
		t.Errorf("expected neutral success, got %d %+v", w.Code, out)
	}

	deadline := time.Now().Add(2 * time.Second)
	for e.api.count("POST /auth/forgot-password") == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if e.api.count("POST /auth/forgot-password") != 1 {
		t.Error("expected the recovery request upstream")
	}
}

func TestSessionCheck(t *testing.T) {
	e := newEnv(t)

	_, out := e.request(t, http.MethodGet, "/api/session", e.login(t, false), nil)
	if string(out.Result.Data) != `{"valid":false}` {
		t.Errorf("session without remember flag: %s", out.Result.Data)
	}

	_, out = e.request(t, http.MethodGet, "/api/session", e.login(t, true), nil)
	if string(out.Result.Data) != `{"valid":true}` {
		t.Errorf("remembered session: %s", out.Result.Data)
	}
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	e := newEnv(t)

	for _, path := range []string{"/api/me", "/api/dashboard", "/api/withdraw", "/api/casino-accounts"} {
		if w, _ := e.request(t, http.MethodGet, path, "", nil); w.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", path, w.Code)
		}
	}
}

func TestMeAndLogout(t *testing.T) {
	e := newEnv(t)
	token := e.login(t, false)

	w, out := e.request(t, http.MethodGet, "/api/me", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var me struct {
		DisplayName string `json:"display_name"`
		Balance     string `json:"balance"`
	}
	json.Unmarshal(out.Result.Data, &me)
	if me.DisplayName != "Ana Silva" || me.Balance != "80,00 €" {
		t.Errorf("unexpected profile %+v", me)
	}

	if w, _ := e.request(t, http.MethodPost, "/api/auth/logout", token, nil); w.Code != http.StatusOK {
		t.Fatalf("logout failed: %d", w.Code)
	}
	if w, _ := e.request(t, http.MethodGet, "/api/me", token, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("token must be unusable after logout, got %d", w.Code)
	}
}

func TestDashboardDegradesPerSection(t *testing.T) {
	e := newEnv(t)
	token := e.login(t, false)
	e.api.set("GET /users/me/transactions", http.StatusInternalServerError, `{"message":"boom"}`)

	w, out := e.request(t, http.MethodGet, "/api/dashboard?period=monthly", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var view struct {
		UserName string `json:"user_name"`
		Sections struct {
			User         bool `json:"user"`
			Transactions bool `json:"transactions"`
			Profits      bool `json:"profits"`
		} `json:"sections"`
		Stats []struct {
			Key   string `json:"key"`
			Value string `json:"value"`
		} `json:"stats"`
	}
	if err := json.Unmarshal(out.Result.Data, &view); err != nil {
		t.Fatalf("bad payload: %v", err)
	}
	if view.UserName != "Ana Silva" || !view.Sections.User || !view.Sections.Profits || view.Sections.Transactions {
		t.Errorf("unexpected view %+v", view)
	}
	if view.Stats[0].Value != "15,00 €" {
		t.Errorf("unexpected total gains %q", view.Stats[0].Value)
	}
}

func TestCasinoAccounts(t *testing.T) {
	e := newEnv(t)
	token := e.login(t, false)

	e.api.set("GET /users/me/casino-accounts", http.StatusOK, `{"data":[{"account_id":1,"casino_name":"Betano","full_name":"Ana Silva","status":"ACTIVE"}]}`)
	w, out := e.request(t, http.MethodGet, "/api/casino-accounts?q=betano", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var view struct {
		Total int `json:"total"`
	}
	json.Unmarshal(out.Result.Data, &view)
	if view.Total != 1 {
		t.Errorf("expected 1 account, got %d", view.Total)
	}

	e.api.set("GET /users/me/casino-accounts", http.StatusInternalServerError, `{}`)
	w, _ = e.request(t, http.MethodGet, "/api/casino-accounts", token, nil)
	if w.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", w.Code)
	}
}

func TestCasinoAccountsNumericFields(t *testing.T) {
	e := newEnv(t)
	token := e.login(t, false)

	e.api.set("GET /users/me/casino-accounts", http.StatusOK, `{"data":[
		{"account_id":1,"casino_name":"Betano","full_name":"Ana Silva","nif":123456789,"numero_cartao_cidadao":12345678,"status":"ACTIVE"},
		{"account_id":2,"casino_name":"Solverde","full_name":"Rui Costa","nif":"987654321","status":"PENDING"}
	]}`)
	w, out := e.request(t, http.MethodGet, "/api/casino-accounts", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var view struct {
		Total  int `json:"total"`
		Groups []struct {
			Accounts []struct {
				NIF         string `json:"nif"`
				CitizenCard string `json:"citizen_card"`
			} `json:"accounts"`
		} `json:"groups"`
	}
	if err := json.Unmarshal(out.Result.Data, &view); err != nil {
		t.Fatalf("bad payload: %v", err)
	}
	if view.Total != 2 || len(view.Groups) != 2 {
		t.Fatalf("expected both accounts, got %+v", view)
	}
	if got := view.Groups[0].Accounts[0]; got.NIF != "123456789" || got.CitizenCard != "12345678" {
		t.Errorf("unexpected numeric fields %+v", got)
	}

	w, out = e.request(t, http.MethodGet, "/api/casino-accounts?q=98765", token, nil)
	json.Unmarshal(out.Result.Data, &view)
	if w.Code != http.StatusOK || view.Total != 1 {
		t.Errorf("NIF search: %d %+v", w.Code, view)
	}
}

func TestDashboardChartFetchesOnlyChart(t *testing.T) {
	e := newEnv(t)
	token := e.login(t, false)

	w, out := e.request(t, http.MethodGet, "/api/dashboard/chart?period=weekly", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	for _, key := range []string{"GET /users/me", "GET /users/me/withdrawals", "GET /users/me/transactions", "GET /users/me/profits"} {
		if n := e.api.count(key); n != 0 {
			t.Errorf("%s called %d times", key, n)
		}
	}
	if n := e.api.count("GET /users/me/chart-data"); n != 1 {
		t.Errorf("chart-data called %d times", n)
	}

	var view struct {
		Period string   `json:"period"`
		Empty  bool     `json:"empty"`
		Labels []string `json:"labels"`
	}
	json.Unmarshal(out.Result.Data, &view)
	if view.Period != "weekly" || !view.Empty || len(view.Labels) != 1 || view.Labels[0] != "Sem dados" {
		t.Errorf("unexpected chart %+v", view)
	}
}

func TestDashboardSeriesToleratesBadPayload(t *testing.T) {
	e := newEnv(t)
	token := e.login(t, false)

	e.api.set("GET /users/me/chart-data", http.StatusOK, `{"data":"unexpected"}`)
	w, out := e.request(t, http.MethodGet, "/api/dashboard/series?period=monthly", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var view struct {
		Empty  bool     `json:"empty"`
		Labels []string `json:"labels"`
	}
	json.Unmarshal(out.Result.Data, &view)
	if !view.Empty || len(view.Labels) != 0 {
		t.Errorf("unexpected series %+v", view)
	}
}

func TestWithdrawFlow(t *testing.T) {
	e := newEnv(t)
	token := e.login(t, false)

	w, out := e.request(t, http.MethodPost, "/api/withdraw", token, gin.H{"amount": 5, "account_id": "mbway"})
	if w.Code != http.StatusBadRequest || out.Message != "O valor mínimo para levantamento é €10" {
		t.Errorf("below minimum: %d %q", w.Code, out.Message)
	}

	w, out = e.request(t, http.MethodPost, "/api/withdraw", token, gin.H{"amount": 500, "account_id": "mbway"})
	if w.Code != http.StatusBadRequest || out.Message != "Saldo insuficiente para este levantamento" {
		t.Errorf("insufficient balance: %d %q", w.Code, out.Message)
	}
	if e.api.count("POST /users/me/withdraw") != 0 {
		t.Fatal("rejected withdrawals must not reach the API")
	}

	e.api.set("POST /users/me/withdraw", http.StatusOK, `{"data":{"status":"PENDING"}}`)
	w, out = e.request(t, http.MethodPost, "/api/withdraw", token, gin.H{"amount": 20, "account_id": "mbway"})
	if w.Code != http.StatusOK || out.Message != "Levantamento efetuado com Sucesso" {
		t.Errorf("withdrawal: %d %q", w.Code, out.Message)
	}

	e.api.set("POST /users/me/withdraw", http.StatusBadRequest, `{"message":"Limite atingido"}`)
	w, out = e.request(t, http.MethodPost, "/api/withdraw", token, gin.H{"amount": 20, "account_id": "mbway"})
	if w.Code != http.StatusBadGateway || out.Message != "Falha no levantamento. Por favor, contacte o suporte ou tente novamente" {
		t.Errorf("upstream failure: %d %q", w.Code, out.Message)
	}
}

func TestWithdrawAddAccount(t *testing.T) {
	e := newEnv(t)
	token := e.login(t, false)

	w, out := e.request(t, http.MethodPost, "/api/withdraw/accounts", token, gin.H{"type": "mbway", "phone_number": "812345678"})
	if w.Code != http.StatusBadRequest || out.Message == "" {
		t.Errorf("invalid phone: %d %q", w.Code, out.Message)
	}

	w, out = e.request(t, http.MethodPost, "/api/withdraw/accounts", token, gin.H{"type": "iban", "iban": "PT50 0002 0123 1234 5678 9015 4", "bank_name": "CGD"})
	if w.Code != http.StatusCreated || out.Message != "Conta adicionada com sucesso!" {
		t.Fatalf("add account: %d %q", w.Code, out.Message)
	}

	_, out = e.request(t, http.MethodGet, "/api/withdraw", token, nil)
	var page struct {
		View struct {
			Accounts []struct {
				ID string `json:"id"`
			} `json:"accounts"`
		} `json:"view"`
	}
	json.Unmarshal(out.Result.Data, &page)
	if len(page.View.Accounts) != 2 || page.View.Accounts[1].ID != "iban_PT50000201231234567890154" {
		t.Errorf("unexpected accounts %+v", page.View.Accounts)
	}
}

func TestRulesAndHealth(t *testing.T) {
	e := newEnv(t)

	if w, _ := e.request(t, http.MethodGet, "/health", "", nil); w.Code != http.StatusOK {
		t.Errorf("health: %d", w.Code)
	}
	if w, _ := e.request(t, http.MethodGet, "/api/rules?section=withdrawals", "", nil); w.Code != http.StatusOK {
		t.Errorf("rules section: %d", w.Code)
	}
	if w, _ := e.request(t, http.MethodGet, "/api/rules?section=nope", "", nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown rules section: %d", w.Code)
	}
}
