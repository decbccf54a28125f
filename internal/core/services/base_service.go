package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/finance_tracker/internal/middleware"
	"github.com/SscSPs/finance_tracker/internal/platform/clock"
	"github.com/shopspring/decimal"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Clock clock.Clock
}

// ServiceOption configures the fields every service shares.
type ServiceOption func(*BaseService)

// WithClock overrides the wall clock, mostly for tests.
func WithClock(c clock.Clock) ServiceOption {
	return func(s *BaseService) {
		s.Clock = c
	}
}

func newBaseService(options ...ServiceOption) BaseService {
	base := BaseService{Clock: clock.System{}}
	for _, option := range options {
		option(&base)
	}
	return base
}

// Now returns the current time from the injected clock.
func (s *BaseService) Now() time.Time {
	return s.Clock.Now()
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// findOwnedWallet loads a wallet and hides wallets of other users behind ErrNotFound.
func findOwnedWallet(ctx context.Context, repo portsrepo.WalletReader, userID, walletID string) (*domain.Wallet, error) {
	wallet, err := repo.FindWalletByID(ctx, walletID)
	if err != nil {
		return nil, err
	}
	if wallet.UserID != userID {
		return nil, fmt.Errorf("%w: wallet %s", apperrors.ErrNotFound, walletID)
	}
	return wallet, nil
}

// findActiveOwnedWallet is findOwnedWallet that also rejects soft-deleted wallets.
func findActiveOwnedWallet(ctx context.Context, repo portsrepo.WalletReader, userID, walletID string) (*domain.Wallet, error) {
	wallet, err := findOwnedWallet(ctx, repo, userID, walletID)
	if err != nil {
		return nil, err
	}
	if !wallet.IsActive {
		return nil, fmt.Errorf("%w: wallet %s is inactive", apperrors.ErrNotFound, walletID)
	}
	return wallet, nil
}

func requirePositive(name string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: %s must be positive", apperrors.ErrValidation, name)
	}
	return nil
}
