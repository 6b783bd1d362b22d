package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"bcibizz-gateway/internal/models"
)

// WithdrawSource is the part of the API the withdraw page uses.
type WithdrawSource interface {
	GetUserData(ctx context.Context) models.Response
	GetUserWithdrawals(ctx context.Context, page, limit int) models.Response
	Withdraw(ctx context.Context, amount float64) models.Response
}

type WithdrawOverview struct {
	User        *models.User
	Withdrawals []models.Withdrawal
	Accounts    []*models.PayoutAccount
	Alerts      []string
}

type WithdrawService struct {
	store       SessionStore
	broadcaster Broadcaster
	logger      *zap.Logger
}

func NewWithdrawService(store SessionStore, broadcaster Broadcaster, logger *zap.Logger) *WithdrawService {
	if broadcaster == nil {
		broadcaster = nopBroadcaster{}
	}
	return &WithdrawService{
		store:       store,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// Overview loads the profile, the withdrawal history and the payout accounts.
// Failed sections are reported in Alerts instead of failing the page.
func (s *WithdrawService) Overview(ctx context.Context, src WithdrawSource, sessionID string) *WithdrawOverview {
	overview := &WithdrawOverview{}

	var userAlert, historyAlert string
	var g errgroup.Group

	g.Go(func() error {
		resp := src.GetUserData(ctx)
		var user models.User
		if err := resp.Decode(&user); err != nil {
			userAlert = alertMessage(resp, "Error loading User Data")
			return nil
		}
		overview.User = &user
		return nil
	})

	g.Go(func() error {
		resp := src.GetUserWithdrawals(ctx, 0, 0)
		var page models.List[models.Withdrawal]
		if err := resp.Decode(&page); err != nil {
			historyAlert = alertMessage(resp, "Error loading User Withdrawals")
			return nil
		}
		overview.Withdrawals = page.Data
		return nil
	})

	_ = g.Wait()

	for _, alert := range []string{userAlert, historyAlert} {
		if alert != "" {
			overview.Alerts = append(overview.Alerts, alert)
		}
	}

	overview.Accounts = s.accounts(ctx, sessionID, overview.User)
	return overview
}

// Submit validates and sends a withdrawal. On success the overview is
// reloaded and the new balance pushed to the session's live connections.
func (s *WithdrawService) Submit(ctx context.Context, src WithdrawSource, sessionID string, req models.WithdrawRequest) (*WithdrawOverview, error) {
	resp := src.GetUserData(ctx)
	var user models.User
	if err := resp.Decode(&user); err != nil {
		return nil, models.NewUpstreamError(resp, "Error loading User Data")
	}

	accountID := ""
	for _, account := range s.accounts(ctx, sessionID, &user) {
		if account.ID == req.AccountID {
			accountID = account.ID
			break
		}
	}

	if err := models.ValidateWithdrawal(req.Amount, user.Balance.Float64(), accountID); err != nil {
		return nil, err
	}

	resp = src.Withdraw(ctx, req.Amount)
	if !resp.Success {
		s.logger.Warn("withdrawal rejected",
			zap.String("session_id", sessionID),
			zap.Float64("amount", req.Amount),
			zap.String("message", resp.Message))
		return nil, fmt.Errorf("%w: %s", models.ErrWithdrawFailed, resp.Message)
	}

	s.logger.Info("withdrawal submitted",
		zap.String("session_id", sessionID),
		zap.Float64("amount", req.Amount),
		zap.String("account_id", accountID))

	overview := s.Overview(ctx, src, sessionID)
	if overview.User != nil {
		s.broadcaster.BroadcastBalance(sessionID, overview.User.Balance.Float64())
	}

	return overview, nil
}

// AddAccount validates a payout account and stores it for the session.
func (s *WithdrawService) AddAccount(ctx context.Context, sessionID string, account *models.PayoutAccount) error {
	if err := account.Normalize(); err != nil {
		return err
	}
	if err := s.store.AddPayoutAccount(ctx, sessionID, account); err != nil {
		return fmt.Errorf("failed to add payout account: %w", err)
	}
	return nil
}

func (s *WithdrawService) accounts(ctx context.Context, sessionID string, user *models.User) []*models.PayoutAccount {
	accounts := make([]*models.PayoutAccount, 0, 1)
	if def := models.DefaultPayoutAccount(user); def != nil {
		accounts = append(accounts, def)
	}

	stored, err := s.store.PayoutAccounts(ctx, sessionID)
	if err != nil {
		s.logger.Warn("failed to load payout accounts", zap.String("session_id", sessionID), zap.Error(err))
		return accounts
	}
	return append(accounts, stored...)
}

func alertMessage(resp models.Response, fallback string) string {
	if resp.Message != "" {
		return resp.Message
	}
	return fallback
}
