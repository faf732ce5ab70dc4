package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"Vine/dao"
	"Vine/models"
	"Vine/pkg/snowflake"

	"gorm.io/gorm"
)

type IWithdrawalService interface {
	// Request 申请时立即扣减余额，wallet 为空时使用账户上的地址
	Request(ctx context.Context, userID string, amount int64, wallet string) (*models.Withdrawal, error)
	// Process 拒绝时退回冻结的金额
	Process(ctx context.Context, withdrawalID int64, decision Decision, notes string) (*models.Withdrawal, error)
}

type WithdrawalService struct {
	Ledger        ILedgerService
	Settings      ISettingsProvider
	WithdrawalDAO *dao.Withdrawal
	Events        IEventBus
	Clock         Clock
}

var _ IWithdrawalService = (*WithdrawalService)(nil)

func (w *WithdrawalService) Request(ctx context.Context, userID string, amount int64, wallet string) (*models.Withdrawal, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	settings, err := w.Settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	wallet = strings.TrimSpace(wallet)

	var withdrawal *models.Withdrawal
	acc, _, err := w.Ledger.MutateActive(ctx, userID, func(tx *gorm.DB, acc *models.Profile) (*models.Transaction, error) {
		// 余额不足优先于最低额度报告
		if acc.Balance < amount {
			return nil, ErrInsufficientBalance
		}
		if amount < settings.MinimumWithdrawal {
			return nil, fmt.Errorf("%w: minimum is %d", ErrBelowMinimum, settings.MinimumWithdrawal)
		}
		if wallet == "" && acc.HasWallet() {
			wallet = *acc.WalletAddress
		}
		if wallet == "" {
			return nil, ErrNoWallet
		}

		withdrawal = &models.Withdrawal{
			ID:            snowflake.GenID(),
			UserID:        acc.UserID,
			Amount:        amount,
			WalletAddress: wallet,
			Status:        models.WithdrawalPending,
			CreatedAt:     w.Clock(),
		}
		if err := w.WithdrawalDAO.Tx(tx).Create(ctx, withdrawal); err != nil {
			return nil, fmt.Errorf("create withdrawal: %w", err)
		}

		acc.Balance -= amount
		ref := strconv.FormatInt(withdrawal.ID, 10)
		return &models.Transaction{
			Type:        models.TxWithdrawal,
			Amount:      -amount,
			Description: "Withdrawal request submitted",
			ReferenceID: &ref,
		}, nil
	})
	if err != nil {
		return nil, reject("withdrawal", err)
	}
	w.Events.Publish(ctx, Event{
		Name:       EventWithdrawalRequested,
		UserID:     acc.UserID,
		RefID:      strconv.FormatInt(withdrawal.ID, 10),
		Amount:     amount,
		Status:     string(withdrawal.Status),
		OccurredAt: w.Clock(),
	})
	return withdrawal, nil
}

func (w *WithdrawalService) Process(ctx context.Context, withdrawalID int64, decision Decision, notes string) (*models.Withdrawal, error) {
	if !decision.Valid() {
		return nil, ErrInvalidDecision
	}
	withdrawal, err := w.WithdrawalDAO.FindById(ctx, withdrawalID)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, fmt.Errorf("%w: withdrawal %d", ErrNotFound, withdrawalID)
		}
		return nil, fmt.Errorf("find withdrawal: %w", err)
	}
	if withdrawal.Status != models.WithdrawalPending {
		return nil, ErrAlreadyProcessed
	}

	var notesPtr *string
	if notes != "" {
		notesPtr = &notes
	}
	now := w.Clock()

	if decision == DecisionApprove {
		rows, err := w.WithdrawalDAO.Process(ctx, withdrawalID, models.WithdrawalApproved, notesPtr, now)
		if err != nil {
			return nil, fmt.Errorf("approve withdrawal: %w", err)
		}
		if rows == 0 {
			return nil, ErrAlreadyProcessed
		}
		withdrawal.Status = models.WithdrawalApproved
	} else {
		// 退款不受封禁限制，也不计入累计获得
		_, _, err := w.Ledger.Mutate(ctx, withdrawal.UserID, func(tx *gorm.DB, acc *models.Profile) (*models.Transaction, error) {
			rows, err := w.WithdrawalDAO.Tx(tx).Process(ctx, withdrawalID, models.WithdrawalRejected, notesPtr, now)
			if err != nil {
				return nil, fmt.Errorf("reject withdrawal: %w", err)
			}
			if rows == 0 {
				return nil, ErrAlreadyProcessed
			}
			acc.Balance += withdrawal.Amount
			ref := strconv.FormatInt(withdrawalID, 10)
			return &models.Transaction{
				Type:        models.TxWithdrawal,
				Amount:      withdrawal.Amount,
				Description: "Withdrawal rejected, funds returned",
				ReferenceID: &ref,
			}, nil
		})
		if err != nil {
			return nil, err
		}
		withdrawal.Status = models.WithdrawalRejected
	}
	withdrawal.AdminNotes = notesPtr
	withdrawal.ProcessedAt = &now

	w.Events.Publish(ctx, Event{
		Name:       EventWithdrawalProcessed,
		UserID:     withdrawal.UserID,
		RefID:      strconv.FormatInt(withdrawal.ID, 10),
		Amount:     withdrawal.Amount,
		Status:     string(withdrawal.Status),
		OccurredAt: now,
	})
	return withdrawal, nil
}
