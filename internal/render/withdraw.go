package render

import (
	"sort"
	"strings"
	"time"

	"bcibizz-gateway/internal/models"
)

// HistorySize is how many recent withdrawals the withdraw page lists.
const HistorySize = 3

// QuickAmounts are the preset amounts offered next to the amount field.
var QuickAmounts = []float64{10, 20, 50, 100, 200, 500}

type HistoryItem struct {
	ID         models.ID `json:"id"`
	Amount     string    `json:"amount"`
	Date       string    `json:"date"`
	Status     string    `json:"status"`
	StatusText string    `json:"status_text"`
	Icon       string    `json:"icon"`
}

type QuickAmount struct {
	Amount   float64 `json:"amount"`
	Value    string  `json:"value"`
	Disabled bool    `json:"disabled"`
}

type WithdrawView struct {
	Balance      string                  `json:"balance"`
	BalanceValue float64                 `json:"balance_value"`
	Minimum      float64                 `json:"minimum"`
	QuickAmounts []QuickAmount           `json:"quick_amounts"`
	Accounts     []*models.PayoutAccount `json:"accounts"`
	History      []HistoryItem           `json:"history"`
	ShowHistory  bool                    `json:"show_history"`
}

// Withdraw renders the withdraw page. A nil user shows a zero balance with
// every quick amount disabled.
func Withdraw(user *models.User, withdrawals []models.Withdrawal, accounts []*models.PayoutAccount, now time.Time) WithdrawView {
	balance := 0.0
	if user != nil {
		balance = user.Balance.Float64()
	}

	if accounts == nil {
		accounts = []*models.PayoutAccount{}
	}

	history := History(withdrawals, now)

	return WithdrawView{
		Balance:      FormatEUR(balance),
		BalanceValue: Finite(balance),
		Minimum:      models.MinWithdrawal,
		QuickAmounts: quickAmounts(balance),
		Accounts:     accounts,
		History:      history,
		ShowHistory:  len(history) > 0,
	}
}

// LatestWithdrawals returns up to n withdrawals, newest first. The input is
// left untouched.
func LatestWithdrawals(withdrawals []models.Withdrawal, n int) []models.Withdrawal {
	sorted := make([]models.Withdrawal, len(withdrawals))
	copy(sorted, withdrawals)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt.Time)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func History(withdrawals []models.Withdrawal, now time.Time) []HistoryItem {
	latest := LatestWithdrawals(withdrawals, HistorySize)

	items := make([]HistoryItem, 0, len(latest))
	for _, w := range latest {
		item := HistoryItem{
			ID:         w.ID,
			Amount:     FormatAmount(w.Amount.Float64()),
			Date:       FormatRelativeDate(w.CreatedAt.Time, now),
			Status:     strings.ToLower(string(w.Status)),
			StatusText: "Processando",
			Icon:       "fas fa-clock",
		}
		if w.Status == models.WithdrawalCompleted {
			item.StatusText = "Concluído"
			item.Icon = "fas fa-check-circle"
		}
		items = append(items, item)
	}
	return items
}

func quickAmounts(balance float64) []QuickAmount {
	out := make([]QuickAmount, 0, len(QuickAmounts))
	for _, amount := range QuickAmounts {
		out = append(out, QuickAmount{
			Amount:   amount,
			Value:    fixed2(amount),
			Disabled: amount > balance,
		})
	}
	return out
}
