package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/0x5916/Alanpay-backend/db/models"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

// transferParams describes one transfer-class operation: a balanced pair of
// entries, a negative one on the payer and a positive one on the payee. Both
// direct transfers and voucher redemptions go through this single primitive.
type transferParams struct {
	Payer            *models.User
	Payee            *models.User
	Amount           decimal.Decimal
	PayerEntryType   string
	PayeeEntryType   string
	PayerDescription string
	PayeeDescription string
	VoucherID        int64
}

// runInPayTx executes one atomic unit of work. On a serialization failure or
// a row-lock conflict the whole sequence is re-run once with fresh reads; a
// second conflict surfaces as TransientConflict. Domain errors pass through
// untouched, anything else is reported as a storage failure.
func (svc *WalletService) runInPayTx(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error {
	err := svc.DB.RunInTx(ctx, &sql.TxOptions{}, fn)
	if err != nil && isRetryableConflict(err) {
		err = svc.DB.RunInTx(ctx, &sql.TxOptions{}, fn)
		if err != nil && isRetryableConflict(err) {
			return newError(KindTransientConflict, "concurrent update, retry exhausted")
		}
	}
	if err == nil {
		return nil
	}
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return newError(KindStorageFailure, err.Error())
}

func isRetryableConflict(err error) bool {
	var pgErr pgdriver.Error
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Field('C') {
	// serialization_failure, deadlock_detected, lock_not_available
	case "40001", "40P01", "55P03":
		return true
	}
	return false
}

func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	return errors.As(err, &pgErr) && pgErr.Field('C') == "23505"
}

// lockUsers takes FOR UPDATE row locks on the given users. Rows are locked in
// ascending id order so two concurrent transfers touching the same pair of
// accounts cannot deadlock.
func lockUsers(ctx context.Context, tx bun.Tx, userIds ...int64) error {
	var users []models.User
	err := tx.NewSelect().Model(&users).
		Where("id IN (?)", bun.In(userIds)).
		Order("id ASC").
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		return err
	}
	if len(users) != len(userIds) {
		return newError(KindAccountNotFound, "account not found")
	}
	return nil
}

func balanceInTx(ctx context.Context, tx bun.Tx, userId int64) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := tx.NewSelect().Model((*models.Entry)(nil)).
		ColumnExpr("COALESCE(SUM(amount), 0)").
		Where("user_id = ?", userId).
		Scan(ctx, &balance)
	return balance, err
}

// appendTransferEntries writes the balanced entry pair for p inside tx. It
// locks both accounts, re-reads the payer balance under the lock and only
// then writes: the classic check-then-act sequence cannot race here. Callers
// must run it inside runInPayTx.
func appendTransferEntries(ctx context.Context, tx bun.Tx, p *transferParams) (payerEntry, payeeEntry *models.Entry, err error) {
	if p.Payer.ID == p.Payee.ID {
		return nil, nil, newError(KindSelfTransfer, "payer and payee are the same account")
	}

	if err := lockUsers(ctx, tx, p.Payer.ID, p.Payee.ID); err != nil {
		return nil, nil, err
	}

	payerBalance, err := balanceInTx(ctx, tx, p.Payer.ID)
	if err != nil {
		return nil, nil, err
	}
	if payerBalance.LessThan(p.Amount) {
		return nil, nil, newError(KindInsufficientBalance, "amount exceeds available balance")
	}

	payerEntry = &models.Entry{
		UserID:          p.Payer.ID,
		Amount:          p.Amount.Neg(),
		EntryType:       p.PayerEntryType,
		Description:     p.PayerDescription,
		ReferenceUserID: p.Payee.ID,
		VoucherID:       p.VoucherID,
	}
	payeeEntry = &models.Entry{
		UserID:          p.Payee.ID,
		Amount:          p.Amount,
		EntryType:       p.PayeeEntryType,
		Description:     p.PayeeDescription,
		ReferenceUserID: p.Payer.ID,
		VoucherID:       p.VoucherID,
	}

	if _, err := tx.NewInsert().Model(payerEntry).Exec(ctx); err != nil {
		return nil, nil, err
	}
	if _, err := tx.NewInsert().Model(payeeEntry).Exec(ctx); err != nil {
		return nil, nil, err
	}
	return payerEntry, payeeEntry, nil
}

// EntriesSince returns the user's committed entries newest first. A limit of
// zero disables pagination.
func (svc *WalletService) EntriesSince(ctx context.Context, userId int64, since time.Time, limit, offset int) ([]models.Entry, error) {
	entries := []models.Entry{}
	q := svc.DB.NewSelect().Model(&entries).
		Where("entry.user_id = ?", userId).
		Where("entry.created_at >= ?", since).
		Order("created_at DESC", "id DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	err := q.Scan(ctx)
	return entries, err
}

func (svc *WalletService) CountEntriesSince(ctx context.Context, userId int64, since time.Time) (int, error) {
	return svc.DB.NewSelect().Model((*models.Entry)(nil)).
		Where("user_id = ?", userId).
		Where("created_at >= ?", since).
		Count(ctx)
}

// GetEntry loads a single entry and enforces that it belongs to the caller.
func (svc *WalletService) GetEntry(ctx context.Context, userId, entryId int64) (*models.Entry, error) {
	var entry models.Entry
	err := svc.DB.NewSelect().Model(&entry).
		Relation("ReferenceUser").
		Where("entry.id = ?", entryId).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, newError(KindEntryNotFound, "entry not found")
		}
		return nil, err
	}
	if entry.UserID != userId {
		return nil, newError(KindUnauthorized, "access denied to this entry")
	}
	return &entry, nil
}
