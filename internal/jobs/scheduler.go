package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"bazario/api/internal/mail"
	"bazario/api/internal/models"
	"bazario/api/internal/repository"
)

// staleWithdrawalAge is how long a withdrawal may sit in processing before
// the hourly sweep reminds the shop.
const staleWithdrawalAge = 48 * time.Hour

type Scheduler struct {
	cron    *cron.Cron
	coupons *repository.CouponRepository
	ledger  *repository.TransactionRepository
	shops   *repository.ShopRepository
	mailer  mail.Mailer
	log     zerolog.Logger
}

func NewScheduler(coupons *repository.CouponRepository, ledger *repository.TransactionRepository, shops *repository.ShopRepository, mailer mail.Mailer, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:    c,
		coupons: coupons,
		ledger:  ledger,
		shops:   shops,
		mailer:  mailer,
		log:     log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 0 3 * * *", s.sweepExpiredCoupons); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 0 */1 * * *", s.remindStaleWithdrawals); err != nil { // hourly recheck
		return err
	}

	s.cron.Start()
	return nil
}

// Stop waits for any running job to finish, up to five seconds.
func (s *Scheduler) Stop() {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("scheduler jobs still running at shutdown")
	}
}

func (s *Scheduler) sweepExpiredCoupons() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, err := s.coupons.DeleteExpired(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("expired coupon sweep failed")
		return
	}
	if removed > 0 {
		s.log.Info().Int64("removed", removed).Msg("expired coupons swept")
	}
}

// remindStaleWithdrawals enqueues a reminder mail for every withdrawal that
// has been processing past the age cutoff.
func (s *Scheduler) remindStaleWithdrawals() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	txns, err := s.ledger.ListByStatus(ctx, models.TransactionProcessing)
	if err != nil {
		s.log.Error().Err(err).Msg("stale withdrawal check failed")
		return
	}

	cutoff := time.Now().Add(-staleWithdrawalAge)
	for _, txn := range txns {
		if !txn.CreatedAt.Before(cutoff) {
			continue
		}

		shop, err := s.shops.GetByID(ctx, txn.ShopID)
		if err != nil {
			s.log.Warn().Err(err).Str("transaction_id", txn.ID).Msg("stale withdrawal shop lookup failed")
			continue
		}

		if err := s.mailer.Send(ctx, mail.Message{
			To:      shop.Email,
			Subject: "Your withdrawal is still processing",
			Body: fmt.Sprintf("Hello %s, your withdrawal of %.2f requested on %s is still processing. No action is needed.",
				shop.Name, txn.Amount, txn.CreatedAt.Format("2006-01-02")),
		}); err != nil {
			s.log.Warn().Err(err).Str("transaction_id", txn.ID).Msg("stale withdrawal reminder enqueue failed")
		}
	}
}
