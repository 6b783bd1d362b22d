package services_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap"

	"bcibizz-gateway/internal/services"
)

var dashboardRoutes = map[string]http.HandlerFunc{
	"GET /users/me":              reply(http.StatusOK, `{"data":{"id":1,"fullname":"Ana Silva","balance":120.5}}`),
	"GET /users/me/withdrawals":  reply(http.StatusOK, `{"data":{"data":[{"id":1,"amount":20,"status":"COMPLETED","created_at":"2026-09-01T10:00:00Z"},{"id":2,"amount":"30.5","status":"PENDING","created_at":"2026-10-10T10:00:00Z"}]}}`),
	"GET /users/me/transactions": reply(http.StatusOK, `{"data":{"data":[{"id":1,"amount":5,"type":"CASINO","created_at":"2026-10-01T09:00:00Z"},{"id":2,"amount":5,"type":"BONUS","created_at":"2026-08-01T09:00:00Z"}]}}`),
	"GET /users/me/chart-data":   reply(http.StatusOK, `{"data":{"data":[{"date":"2026-10-05","profit":10,"transaction_type":"CASINO"},{"date":"2026-10-06","profit":"2.5","transaction_type":"BONUS"},{"date":"2026-07-01","profit":100,"transaction_type":"CASINO"}]}}`),
	"GET /users/me/profits":      reply(http.StatusOK, `{"data":{"bonus_total":12.5,"casino_total":"110"}}`),
}

func withRoute(key string, handler http.HandlerFunc) map[string]http.HandlerFunc {
	routes := make(map[string]http.HandlerFunc, len(dashboardRoutes))
	for k, v := range dashboardRoutes {
		routes[k] = v
	}
	routes[key] = handler
	return routes
}

func TestLoadAllPopulatesEverySection(t *testing.T) {
	up, client := newUpstream(t, dashboardRoutes)

	state := services.NewAggregator(zap.NewNop()).LoadAll(context.Background(), client)

	if state.User == nil || state.Withdrawals == nil || state.Transactions == nil || state.Chart == nil || state.Profits == nil {
		t.Fatalf("expected every section, got %+v", state)
	}
	for key := range dashboardRoutes {
		if up.Calls(key) != 1 {
			t.Errorf("%s called %d times", key, up.Calls(key))
		}
	}
}

func TestLoadAllIsolatesFailures(t *testing.T) {
	_, client := newUpstream(t, withRoute("GET /users/me/withdrawals", reply(http.StatusInternalServerError, `{"message":"boom"}`)))

	state := services.NewAggregator(zap.NewNop()).LoadAll(context.Background(), client)

	if state.Withdrawals != nil {
		t.Error("failed section must stay empty")
	}
	if state.User == nil || state.Transactions == nil || state.Chart == nil || state.Profits == nil {
		t.Errorf("other sections must load, got %+v", state)
	}
}

func TestLoadAllDropsZeroProfits(t *testing.T) {
	_, client := newUpstream(t, withRoute("GET /users/me/profits", reply(http.StatusOK, `{"data":{"bonus_total":0,"casino_total":null}}`)))

	state := services.NewAggregator(zap.NewNop()).LoadAll(context.Background(), client)
	if state.Profits != nil {
		t.Errorf("all-zero profits must be treated as absent, got %+v", state.Profits)
	}
}

func TestDashboardStats(t *testing.T) {
	_, client := newUpstream(t, dashboardRoutes)
	state := services.NewAggregator(zap.NewNop()).LoadAll(context.Background(), client)

	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	stats := state.Stats(now)

	if stats.TotalGains != 122.5 {
		t.Errorf("total gains: expected 122.5, got %v", stats.TotalGains)
	}
	if stats.MonthlyGains != 12.5 {
		t.Errorf("monthly gains: expected 12.5, got %v", stats.MonthlyGains)
	}
	if stats.TotalWithdrawals != 50.5 {
		t.Errorf("total withdrawals: expected 50.5, got %v", stats.TotalWithdrawals)
	}
	if stats.TransactionCount != 1 {
		t.Errorf("transaction count: expected 1, got %d", stats.TransactionCount)
	}
}

func TestLoadAllKeepsChartWithUnreadableDate(t *testing.T) {
	chart := `{"data":{"data":[
		{"date":"2026-10-05T00:00:00.000+0000","profit":4,"transaction_type":"CASINO"},
		{"date":"05/10/2026","profit":100,"transaction_type":"CASINO"},
		{"date":"2026-10-06 10:00:00+00","profit":6,"transaction_type":"BONUS"}
	]}}`
	_, client := newUpstream(t, withRoute("GET /users/me/chart-data", reply(http.StatusOK, chart)))

	state := services.NewAggregator(zap.NewNop()).LoadAll(context.Background(), client)
	if state.Chart == nil || len(state.Chart.Data) != 3 {
		t.Fatalf("chart section must survive one bad date, got %+v", state.Chart)
	}
	if !state.Chart.Data[1].Date.IsZero() {
		t.Errorf("unreadable date must decode to zero, got %v", state.Chart.Data[1].Date)
	}

	stats := state.Stats(time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC))
	if stats.MonthlyGains != 10 {
		t.Errorf("monthly gains: expected 10, got %v", stats.MonthlyGains)
	}
}

func TestDashboardStatsEmptyState(t *testing.T) {
	stats := (&services.DashboardState{}).Stats(time.Now())
	if stats != (services.DashboardStats{}) {
		t.Errorf("expected zero stats, got %+v", stats)
	}
}

func TestInWindowIsInclusive(t *testing.T) {
	from := time.Date(2026, 9, 18, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		at   time.Time
		want bool
	}{
		{from, true},
		{to, true},
		{from.Add(-time.Second), false},
		{to.Add(time.Second), false},
	}
	for _, tc := range cases {
		if got := services.InWindow(tc.at, from, to); got != tc.want {
			t.Errorf("InWindow(%v) = %v, want %v", tc.at, got, tc.want)
		}
	}
}
