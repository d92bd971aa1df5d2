package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"bazario/api/internal/models"
	"bazario/api/internal/repository"
)

type fakeBalanceStore struct {
	shop    models.Shop
	debits  []float64
	credits []float64
}

func (f *fakeBalanceStore) GetByID(_ context.Context, _ string) (models.Shop, error) {
	return f.shop, nil
}

func (f *fakeBalanceStore) DebitBalance(_ context.Context, _ string, amount float64) error {
	if amount > f.shop.AvailableBalance {
		return repository.ErrInsufficientBalance
	}
	f.shop.AvailableBalance -= amount
	f.debits = append(f.debits, amount)
	return nil
}

func (f *fakeBalanceStore) CreditBalance(_ context.Context, _ string, amount float64) error {
	f.shop.AvailableBalance += amount
	f.credits = append(f.credits, amount)
	return nil
}

type fakeLedger struct {
	entries   map[string]models.Transaction
	appendErr error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{entries: make(map[string]models.Transaction)}
}

func (f *fakeLedger) Append(_ context.Context, txn models.Transaction) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.entries[txn.ID] = txn
	return nil
}

func (f *fakeLedger) GetByID(_ context.Context, id string) (models.Transaction, error) {
	txn, ok := f.entries[id]
	if !ok {
		return models.Transaction{}, repository.ErrTransactionNotFound
	}
	return txn, nil
}

func (f *fakeLedger) ListByShop(_ context.Context, shopID string) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, txn := range f.entries {
		if txn.ShopID == shopID {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (f *fakeLedger) UpdateStatus(_ context.Context, id string, status models.TransactionStatus) error {
	txn, ok := f.entries[id]
	if !ok {
		return repository.ErrTransactionNotFound
	}
	txn.Status = status
	f.entries[id] = txn
	return nil
}

func shopWithBalance(balance float64) models.Shop {
	return models.Shop{
		ID:               "s1",
		Name:             "Ada's Shop",
		Email:            "shop@example.com",
		WithdrawMethod:   &models.WithdrawMethod{BankName: "Test Bank"},
		AvailableBalance: balance,
	}
}

func TestWithdrawRequestDebitsAndAppends(t *testing.T) {
	shops := &fakeBalanceStore{shop: shopWithBalance(100)}
	ledger := newFakeLedger()
	svc := NewWithdrawService(shops, ledger, &fakeMailer{}, zerolog.Nop())

	txn, err := svc.Request(context.Background(), "s1", 40)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if txn.Status != models.TransactionProcessing {
		t.Fatalf("Status = %q, want processing", txn.Status)
	}
	if shops.shop.AvailableBalance != 60 {
		t.Fatalf("balance = %v, want 60", shops.shop.AvailableBalance)
	}
	if len(ledger.entries) != 1 {
		t.Fatalf("ledger entries = %d, want 1", len(ledger.entries))
	}
}

func TestWithdrawRequestInsufficientBalance(t *testing.T) {
	shops := &fakeBalanceStore{shop: shopWithBalance(10)}
	ledger := newFakeLedger()
	svc := NewWithdrawService(shops, ledger, &fakeMailer{}, zerolog.Nop())

	_, err := svc.Request(context.Background(), "s1", 40)
	if !errors.Is(err, repository.ErrInsufficientBalance) {
		t.Fatalf("err = %v, want ErrInsufficientBalance", err)
	}
	if len(ledger.entries) != 0 {
		t.Fatal("no ledger entry may be appended when the debit fails")
	}
}

func TestWithdrawRequestNoMethod(t *testing.T) {
	shop := shopWithBalance(100)
	shop.WithdrawMethod = nil
	shops := &fakeBalanceStore{shop: shop}
	svc := NewWithdrawService(shops, newFakeLedger(), &fakeMailer{}, zerolog.Nop())

	_, err := svc.Request(context.Background(), "s1", 40)
	if !errors.Is(err, ErrNoWithdrawMethod) {
		t.Fatalf("err = %v, want ErrNoWithdrawMethod", err)
	}
	if len(shops.debits) != 0 {
		t.Fatal("balance must stay untouched without a withdraw method")
	}
}

func TestWithdrawRequestLedgerFailureRollsBack(t *testing.T) {
	shops := &fakeBalanceStore{shop: shopWithBalance(100)}
	ledger := newFakeLedger()
	ledger.appendErr = errors.New("ledger down")
	svc := NewWithdrawService(shops, ledger, &fakeMailer{}, zerolog.Nop())

	if _, err := svc.Request(context.Background(), "s1", 40); err == nil {
		t.Fatal("expected the append failure to surface")
	}
	if shops.shop.AvailableBalance != 100 {
		t.Fatalf("balance = %v, want the debit credited back", shops.shop.AvailableBalance)
	}
}

func TestWithdrawSettle(t *testing.T) {
	shops := &fakeBalanceStore{shop: shopWithBalance(100)}
	ledger := newFakeLedger()
	svc := NewWithdrawService(shops, ledger, &fakeMailer{}, zerolog.Nop())

	txn, err := svc.Request(context.Background(), "s1", 40)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}

	settled, err := svc.Settle(context.Background(), txn.ID)
	if err != nil {
		t.Fatalf("Settle: %v", err)
	}
	if settled.Status != models.TransactionSucceeded {
		t.Fatalf("Status = %q, want succeeded", settled.Status)
	}
}
