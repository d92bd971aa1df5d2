package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"bazario/api/internal/ids"
	"bazario/api/internal/mail"
	"bazario/api/internal/models"
)

type BalanceStore interface {
	GetByID(ctx context.Context, id string) (models.Shop, error)
	DebitBalance(ctx context.Context, id string, amount float64) error
	CreditBalance(ctx context.Context, id string, amount float64) error
}

type Ledger interface {
	Append(ctx context.Context, txn models.Transaction) error
	GetByID(ctx context.Context, id string) (models.Transaction, error)
	ListByShop(ctx context.Context, shopID string) ([]models.Transaction, error)
	UpdateStatus(ctx context.Context, id string, status models.TransactionStatus) error
}

type WithdrawService struct {
	shops  BalanceStore
	ledger Ledger
	mailer mail.Mailer
	log    zerolog.Logger
}

func NewWithdrawService(shops BalanceStore, ledger Ledger, mailer mail.Mailer, log zerolog.Logger) *WithdrawService {
	return &WithdrawService{
		shops:  shops,
		ledger: ledger,
		mailer: mailer,
		log:    log,
	}
}

// Request debits the shop's balance with a conditional update and appends a
// Processing ledger entry. If the ledger append fails the debit is credited
// back so the balance and the ledger stay consistent.
func (s *WithdrawService) Request(ctx context.Context, shopID string, amount float64) (models.Transaction, error) {
	if amount <= 0 {
		return models.Transaction{}, fmt.Errorf("withdraw amount must be positive")
	}

	shop, err := s.shops.GetByID(ctx, shopID)
	if err != nil {
		return models.Transaction{}, err
	}
	if shop.WithdrawMethod == nil {
		return models.Transaction{}, ErrNoWithdrawMethod
	}

	if err := s.shops.DebitBalance(ctx, shopID, amount); err != nil {
		return models.Transaction{}, err
	}

	txn := models.Transaction{
		ID:     ids.New(),
		ShopID: shopID,
		Amount: amount,
		Status: models.TransactionProcessing,
	}
	if err := s.ledger.Append(ctx, txn); err != nil {
		if creditErr := s.shops.CreditBalance(ctx, shopID, amount); creditErr != nil {
			s.log.Error().Err(creditErr).Str("shop_id", shopID).Msg("balance rollback failed")
		}
		return models.Transaction{}, err
	}

	if err := s.mailer.Send(ctx, mail.Message{
		To:      shop.Email,
		Subject: "Withdrawal request received",
		Body: fmt.Sprintf("Hello %s, your withdrawal request of %.2f is being processed. Expect 3-7 business days.",
			shop.Name, amount),
	}); err != nil {
		s.log.Warn().Err(err).Str("shop_id", shopID).Msg("withdraw mail enqueue failed")
	}

	return txn, nil
}

// Settle marks a Processing transaction as Succeeded. Admin only.
func (s *WithdrawService) Settle(ctx context.Context, txnID string) (models.Transaction, error) {
	if err := s.ledger.UpdateStatus(ctx, txnID, models.TransactionSucceeded); err != nil {
		return models.Transaction{}, err
	}
	return s.ledger.GetByID(ctx, txnID)
}

func (s *WithdrawService) ListByShop(ctx context.Context, shopID string) ([]models.Transaction, error) {
	return s.ledger.ListByShop(ctx, shopID)
}
