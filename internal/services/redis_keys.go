package services

import "time"

const (
	KeySession        = "session:%s"
	KeyPayoutAccounts = "session:%s:payout_accounts"
	KeyRateLimit      = "ratelimit:%s:%s"

	TTLSession        = 24 * time.Hour
	TTLRememberedSess = 30 * 24 * time.Hour // 30 days

	DefaultRateLimitWithdraw = 10 // Max 10 withdrawals per minute
)
