package render

import (
	"strconv"
	"strings"
	"time"

	"bcibizz-gateway/internal/services"
)

const defaultUserName = "Utilizador"

type StatCard struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Value string  `json:"value"`
	Raw   float64 `json:"raw"`
}

// Sections tells the shell which dashboard fetches succeeded.
type Sections struct {
	User         bool `json:"user"`
	Withdrawals  bool `json:"withdrawals"`
	Transactions bool `json:"transactions"`
	Chart        bool `json:"chart"`
	Profits      bool `json:"profits"`
}

type DashboardView struct {
	UserName string     `json:"user_name"`
	Balance  string     `json:"balance"`
	Stats    []StatCard `json:"stats"`
	Chart    ChartView  `json:"chart"`
	Sections Sections   `json:"sections"`
}

// Dashboard renders the aggregated state. Missing sections render as their
// zero values.
func Dashboard(state *services.DashboardState, period Period, now time.Time) DashboardView {
	stats := state.Stats(now)

	balance := 0.0
	if state.User != nil {
		balance = state.User.Balance.Float64()
	}

	view := DashboardView{
		Balance: FormatMoney(balance),
		Stats: []StatCard{
			{Key: "total_gains", Label: "Ganhos Totais", Value: FormatMoney(stats.TotalGains), Raw: Finite(stats.TotalGains)},
			{Key: "monthly_gains", Label: "Ganhos Mensais", Value: FormatMoney(stats.MonthlyGains), Raw: Finite(stats.MonthlyGains)},
			{Key: "total_withdrawals", Label: "Total Levantado", Value: FormatMoney(stats.TotalWithdrawals), Raw: Finite(stats.TotalWithdrawals)},
			{Key: "transactions", Label: "Transações", Value: strconv.Itoa(stats.TransactionCount), Raw: float64(stats.TransactionCount)},
		},
		Chart: DashboardChart(state, period, now),
		Sections: Sections{
			User:         state.User != nil,
			Withdrawals:  state.Withdrawals != nil,
			Transactions: state.Transactions != nil,
			Chart:        state.Chart != nil,
			Profits:      state.Profits != nil,
		},
	}

	view.UserName = defaultUserName
	if state.User != nil {
		view.UserName = DisplayName(state.User.FullName)
	}

	return view
}

// DashboardChart renders the activity chart. When the chart fetch failed the
// view is empty with no series, which the shell shows as "Sem dados
// disponíveis". An empty but present list takes the "Sem dados" placeholder.
func DashboardChart(state *services.DashboardState, period Period, now time.Time) ChartView {
	if state.Chart == nil {
		view := newChartView(period)
		view.Empty = true
		view.Labels = []string{}
		view.Series = []Series{}
		return view
	}
	return Chart(state.Chart.Data, period, now)
}

// DisplayName keeps the first and last names of a full name.
func DisplayName(fullName string) string {
	parts := strings.Fields(fullName)
	switch len(parts) {
	case 0:
		return defaultUserName
	case 1:
		return parts[0]
	default:
		return parts[0] + " " + parts[len(parts)-1]
	}
}
