package models

type CasinoAccountStatus string

const (
	CasinoAccountActive   CasinoAccountStatus = "ACTIVE"
	CasinoAccountInactive CasinoAccountStatus = "INACTIVE"
	CasinoAccountPending  CasinoAccountStatus = "PENDING"
	CasinoAccountBlocked  CasinoAccountStatus = "BLOCKED"
)

type CasinoAccount struct {
	AccountID     ID                  `json:"account_id"`
	CasinoName    string              `json:"casino_name"`
	FullName      string              `json:"full_name"`
	NIF           Text                `json:"nif"`
	CitizenCardNo Text                `json:"numero_cartao_cidadao"`
	IBAN          Text                `json:"IBAN"`
	Status        CasinoAccountStatus `json:"status"`
}
