package models

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	mbwayPattern = regexp.MustCompile(`^9[1236]\d{7}$`)
	ibanPattern  = regexp.MustCompile(`^PT50\d{21}$`)
	phoneGroups  = regexp.MustCompile(`(\d{3})(\d{3})(\d{3})`)
	nonDigit     = regexp.MustCompile(`\D`)
	whitespace   = regexp.MustCompile(`\s`)
)

func GenerateSessionID() string {
	return uuid.NewString()
}

func GenerateRequestID() string {
	return fmt.Sprintf("req_%s_%d",
		time.Now().Format("20060102"),
		uuid.New().ID())
}

// ValidateWithdrawal applies the client-side checks made before a withdrawal
// is sent upstream.
func ValidateWithdrawal(amount, balance float64, accountID string) error {
	if math.IsNaN(amount) || amount < MinWithdrawal {
		return ErrBelowMinimum
	}
	if amount > balance {
		return ErrInsufficientBalance
	}
	if strings.TrimSpace(accountID) == "" {
		return ErrAccountRequired
	}
	return nil
}

func (r *Registration) Validate() error {
	if strings.TrimSpace(r.Username) == "" ||
		r.Password == "" ||
		strings.TrimSpace(r.FullName) == "" ||
		strings.TrimSpace(r.Email) == "" ||
		strings.TrimSpace(r.Phone) == "" {
		return ErrMissingFields
	}
	return nil
}

// Normalize strips formatting from user input and validates the account,
// filling ID and DisplayName.
func (a *PayoutAccount) Normalize() error {
	switch a.Type {
	case PayoutAccountMBWay:
		phone := nonDigit.ReplaceAllString(a.PhoneNumber, "")
		if !mbwayPattern.MatchString(phone) {
			return ErrInvalidPhone
		}
		a.PhoneNumber = phone
		a.ID = "mbway_" + phone
		if a.AccountName == "" {
			a.AccountName = "MBWAY " + phone
		}
		a.DisplayName = "📱 MBWAY · " + FormatPhoneNumber(phone)
	case PayoutAccountIBAN:
		iban := strings.ToUpper(whitespace.ReplaceAllString(a.IBAN, ""))
		if !ibanPattern.MatchString(iban) {
			return ErrInvalidIBAN
		}
		a.IBAN = iban
		a.ID = "iban_" + iban
		if a.AccountName == "" {
			a.AccountName = "Conta Bancária"
		}
		bank := a.BankName
		if bank == "" {
			bank = "Banco"
		}
		a.DisplayName = "🏦 " + bank + " · " + FormatIBAN(iban)
	default:
		return fmt.Errorf("unknown payout account type: %s", a.Type)
	}
	return nil
}

// DefaultPayoutAccount is the MBWAY account derived from the profile phone.
func DefaultPayoutAccount(user *User) *PayoutAccount {
	if user == nil || user.Phone == "" {
		return nil
	}
	return &PayoutAccount{
		ID:          string(PayoutAccountMBWay),
		Type:        PayoutAccountMBWay,
		PhoneNumber: user.Phone.String(),
		DisplayName: "📱 MBWAY · " + FormatPhoneNumber(user.Phone.String()),
	}
}

// FormatPhoneNumber groups a nine digit number as "912 345 678".
func FormatPhoneNumber(phone string) string {
	loc := phoneGroups.FindStringSubmatchIndex(phone)
	if loc == nil {
		return phone
	}
	grouped := phoneGroups.ExpandString(nil, "$1 $2 $3", phone, loc)
	return phone[:loc[0]] + string(grouped) + phone[loc[1]:]
}

// FormatIBAN inserts a space every four characters.
func FormatIBAN(iban string) string {
	var b strings.Builder
	for i, r := range iban {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
