package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/dto"
)

// transferService is the Transfer Coordinator.
type transferService struct {
	BaseService
	txManager       portsrepo.TransactionManager
	transferRepo    portsrepo.TransferRepository
	transactionRepo portsrepo.TransactionWriter
	walletRepo      portsrepo.WalletRepositoryFacade
	balanceSvc      portssvc.BalanceSvc
}

// NewTransferService creates a new transfer coordinator.
func NewTransferService(
	txManager portsrepo.TransactionManager,
	transferRepo portsrepo.TransferRepository,
	transactionRepo portsrepo.TransactionWriter,
	walletRepo portsrepo.WalletRepositoryFacade,
	balanceSvc portssvc.BalanceSvc,
	options ...ServiceOption,
) portssvc.TransferSvcFacade {
	return &transferService{
		BaseService:     newBaseService(options...),
		txManager:       txManager,
		transferRepo:    transferRepo,
		transactionRepo: transactionRepo,
		walletRepo:      walletRepo,
		balanceSvc:      balanceSvc,
	}
}

var _ portssvc.TransferSvcFacade = (*transferService)(nil)

func (s *transferService) Transfer(ctx context.Context, userID string, req dto.TransferRequest) (*domain.TransferRecord, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	if err := requirePositive("amount", req.Amount); err != nil {
		return nil, err
	}
	if req.Fee.IsNegative() {
		return nil, fmt.Errorf("%w: fee cannot be negative", apperrors.ErrValidation)
	}
	if req.FromWalletID == req.ToWalletID {
		return nil, fmt.Errorf("%w: cannot transfer a wallet to itself", apperrors.ErrInvalidOperation)
	}

	from, err := findActiveOwnedWallet(ctx, s.walletRepo, userID, req.FromWalletID)
	if err != nil {
		return nil, err
	}
	if _, err := findActiveOwnedWallet(ctx, s.walletRepo, userID, req.ToWalletID); err != nil {
		return nil, err
	}

	debit := req.Amount.Add(req.Fee)
	if !from.CanApply(debit.Neg()) {
		return nil, fmt.Errorf("%w: wallet %s has %s, transfer of %s refused",
			apperrors.ErrInsufficientBalance, from.WalletID, from.Balance.String(), debit.String())
	}

	now := s.Now()
	date := now
	if req.Date != nil {
		date = *req.Date
	}
	audit := domain.NewAuditFields(userID, now)

	transfer := domain.TransferRecord{
		TransferID:            uuid.NewString(),
		UserID:                userID,
		FromWalletID:          req.FromWalletID,
		ToWalletID:            req.ToWalletID,
		Amount:                req.Amount,
		Fee:                   req.Fee,
		Description:           req.Description,
		OutgoingTransactionID: uuid.NewString(),
		IncomingTransactionID: uuid.NewString(),
		Date:                  date,
		AuditFields:           audit,
	}
	outgoing := domain.Transaction{
		TransactionID: transfer.OutgoingTransactionID,
		UserID:        userID,
		WalletID:      req.FromWalletID,
		Amount:        debit,
		Kind:          domain.Transfer,
		Direction:     domain.DirectionOut,
		TransferID:    &transfer.TransferID,
		Date:          date,
		Notes:         req.Description,
		Source:        domain.SourceTransfer,
		AuditFields:   audit,
	}
	incoming := outgoing
	incoming.TransactionID = transfer.IncomingTransactionID
	incoming.WalletID = req.ToWalletID
	incoming.Amount = req.Amount
	incoming.Direction = domain.DirectionIn

	err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		// Lock both wallets in id order so opposite transfers cannot deadlock.
		first, second := req.FromWalletID, req.ToWalletID
		if second < first {
			first, second = second, first
		}
		for _, id := range []string{first, second} {
			if _, err := s.walletRepo.FindWalletByIDForUpdate(ctx, id); err != nil {
				return err
			}
		}

		if err := s.transferRepo.SaveTransfer(ctx, transfer); err != nil {
			return err
		}
		if err := s.transactionRepo.SaveTransaction(ctx, outgoing); err != nil {
			return err
		}
		if err := s.transactionRepo.SaveTransaction(ctx, incoming); err != nil {
			return err
		}
		if _, err := s.balanceSvc.ApplyDelta(ctx, outgoing.WalletID, outgoing.SignedAmount()); err != nil {
			return err
		}
		_, err := s.balanceSvc.ApplyDelta(ctx, incoming.WalletID, incoming.SignedAmount())
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Transfer failed",
			slog.String("from_wallet_id", req.FromWalletID),
			slog.String("to_wallet_id", req.ToWalletID))
		return nil, err
	}

	s.LogInfo(ctx, "Transfer completed",
		slog.String("transfer_id", transfer.TransferID),
		slog.String("amount", transfer.Amount.String()),
		slog.String("fee", transfer.Fee.String()))
	return &transfer, nil
}

func (s *transferService) GetTransfer(ctx context.Context, userID string, transferID string) (*domain.TransferRecord, error) {
	transfer, err := s.transferRepo.FindTransferByID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if transfer.UserID != userID {
		return nil, fmt.Errorf("%w: transfer %s", apperrors.ErrNotFound, transferID)
	}
	return transfer, nil
}
