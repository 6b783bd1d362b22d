package models

type TransactionType string

const (
	TransactionTypeWithdrawal TransactionType = "WITHDRAWAL"
	TransactionTypeProfit     TransactionType = "PROFIT"
	TransactionTypeBonus      TransactionType = "BONUS"
	TransactionTypeCasino     TransactionType = "CASINO"
	TransactionTypeOther      TransactionType = "OUTROS"
)

type Transaction struct {
	ID        ID              `json:"id"`
	Amount    Amount          `json:"amount"`
	Type      TransactionType `json:"type"`
	CreatedAt Timestamp       `json:"created_at"`
}

// ChartPoint is one profit entry of /users/me/chart-data.
type ChartPoint struct {
	Date            Timestamp       `json:"date"`
	Profit          Amount          `json:"profit"`
	TransactionType TransactionType `json:"transaction_type"`
}

type Profits struct {
	BonusTotal  Amount `json:"bonus_total"`
	CasinoTotal Amount `json:"casino_total"`
}

// List is the `{"data": [...]}` wrapper the API nests inside result.data for
// collections.
type List[T any] struct {
	Data []T `json:"data"`
}
