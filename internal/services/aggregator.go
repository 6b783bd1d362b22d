package services

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"bcibizz-gateway/internal/models"
)

// DashboardSource is the part of the API the dashboard reads from.
type DashboardSource interface {
	GetUserData(ctx context.Context) models.Response
	GetUserWithdrawals(ctx context.Context, page, limit int) models.Response
	GetUserTransactions(ctx context.Context) models.Response
	GetChartData(ctx context.Context) models.Response
	GetProfits(ctx context.Context) models.Response
}

// DashboardState holds one slice per dashboard fetch. A nil slice means its
// fetch failed; the others are still usable.
type DashboardState struct {
	User         *models.User
	Withdrawals  *models.List[models.Withdrawal]
	Transactions *models.List[models.Transaction]
	Chart        *models.List[models.ChartPoint]
	Profits      *models.Profits
}

type DashboardStats struct {
	TotalGains       float64 `json:"total_gains"`
	MonthlyGains     float64 `json:"monthly_gains"`
	TotalWithdrawals float64 `json:"total_withdrawals"`
	TransactionCount int     `json:"transaction_count"`
}

type Aggregator struct {
	logger *zap.Logger
}

func NewAggregator(logger *zap.Logger) *Aggregator {
	return &Aggregator{logger: logger}
}

// LoadAll fires the five dashboard fetches concurrently and waits for all of
// them. No fetch cancels or blocks another.
func (a *Aggregator) LoadAll(ctx context.Context, src DashboardSource) *DashboardState {
	state := &DashboardState{}

	// Plain Group: a context-derived group would cancel siblings on failure.
	var g errgroup.Group

	g.Go(func() error {
		var user models.User
		if a.load(ctx, "user", src.GetUserData, &user) {
			state.User = &user
		}
		return nil
	})

	g.Go(func() error {
		var withdrawals models.List[models.Withdrawal]
		fetch := func(ctx context.Context) models.Response {
			return src.GetUserWithdrawals(ctx, 0, 0)
		}
		if a.load(ctx, "withdrawals", fetch, &withdrawals) {
			state.Withdrawals = &withdrawals
		}
		return nil
	})

	g.Go(func() error {
		var transactions models.List[models.Transaction]
		if a.load(ctx, "transactions", src.GetUserTransactions, &transactions) {
			state.Transactions = &transactions
		}
		return nil
	})

	g.Go(func() error {
		state.Chart = a.LoadChart(ctx, src)
		return nil
	})

	g.Go(func() error {
		var profits models.Profits
		if a.load(ctx, "profits", src.GetProfits, &profits) {
			if !profits.BonusTotal.IsZero() || !profits.CasinoTotal.IsZero() {
				state.Profits = &profits
			}
		}
		return nil
	})

	_ = g.Wait()

	return state
}

// LoadChart fetches only the chart points; nil means the fetch failed.
func (a *Aggregator) LoadChart(ctx context.Context, src DashboardSource) *models.List[models.ChartPoint] {
	var chart models.List[models.ChartPoint]
	if !a.load(ctx, "chart", src.GetChartData, &chart) {
		return nil
	}
	return &chart
}

func (a *Aggregator) load(ctx context.Context, section string, fetch func(context.Context) models.Response, dst any) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("dashboard fetch panicked", zap.String("section", section), zap.Any("panic", r))
			ok = false
		}
	}()

	resp := fetch(ctx)
	if !resp.Success {
		a.logger.Warn("dashboard fetch failed", zap.String("section", section), zap.String("message", resp.Message))
		return false
	}
	if err := resp.Decode(dst); err != nil {
		a.logger.Warn("dashboard payload unusable", zap.String("section", section), zap.Error(err))
		return false
	}
	return true
}

// Stats derives the four stat cards. Monthly figures cover the rolling window
// [now-1 month, now].
func (s *DashboardState) Stats(now time.Time) DashboardStats {
	var stats DashboardStats

	if s.Profits != nil {
		stats.TotalGains = s.Profits.BonusTotal.Float64() + s.Profits.CasinoTotal.Float64()
	}

	monthAgo := now.AddDate(0, -1, 0)

	if s.Chart != nil {
		for _, point := range s.Chart.Data {
			if InWindow(point.Date.Time, monthAgo, now) {
				stats.MonthlyGains += point.Profit.Float64()
			}
		}
	}

	if s.Withdrawals != nil {
		for _, w := range s.Withdrawals.Data {
			stats.TotalWithdrawals += w.Amount.Float64()
		}
	}

	if s.Transactions != nil {
		for _, tx := range s.Transactions.Data {
			if InWindow(tx.CreatedAt.Time, monthAgo, now) {
				stats.TransactionCount++
			}
		}
	}

	return stats
}

// InWindow reports whether t lies in [from, to].
func InWindow(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}
