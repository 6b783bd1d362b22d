package models

type WithdrawalStatus string

const (
	WithdrawalPending   WithdrawalStatus = "PENDING"
	WithdrawalCompleted WithdrawalStatus = "COMPLETED"
)

// MinWithdrawal is the smallest amount, in euros, a withdrawal may request.
const MinWithdrawal = 10.0

type Withdrawal struct {
	ID        ID               `json:"id"`
	Amount    Amount           `json:"amount"`
	Status    WithdrawalStatus `json:"status"`
	CreatedAt Timestamp        `json:"created_at"`
}

type WithdrawRequest struct {
	Amount    float64 `json:"amount"`
	AccountID string  `json:"account_id"`
}

type PayoutAccountType string

const (
	PayoutAccountMBWay PayoutAccountType = "mbway"
	PayoutAccountIBAN  PayoutAccountType = "iban"
)

// PayoutAccount is a destination the user picked for withdrawals.
type PayoutAccount struct {
	ID          string            `json:"id"`
	Type        PayoutAccountType `json:"type" binding:"required,oneof=mbway iban"`
	PhoneNumber string            `json:"phone_number,omitempty"`
	IBAN        string            `json:"iban,omitempty"`
	AccountName string            `json:"account_name,omitempty"`
	BankName    string            `json:"bank_name,omitempty"`
	DisplayName string            `json:"display_name"`
}
