package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/0x5916/Alanpay-backend/common"
	"github.com/0x5916/Alanpay-backend/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// RedeemResult reports a finished redemption from the redeemer's point of
// view: their entry, their balance after commit, and who the money moved
// to or from.
type RedeemResult struct {
	Entry             *models.Entry
	NewBalance        decimal.Decimal
	Voucher           *models.Voucher
	CounterpartyLogin string
}

// VoucherView is the public projection of a voucher: just enough for a
// scanning client to render a confirmation screen.
type VoucherView struct {
	Token    string
	Type     string
	Amount   *decimal.Decimal
	ExpireAt *time.Time
}

// voucherUsable is the voucher state machine: a voucher is redeemable while
// it is neither expired nor out of uses. Expiry takes precedence, so an
// expired voucher with remaining uses is still dead.
func voucherUsable(v *models.Voucher, useCount int, at time.Time) bool {
	if !v.ExpireAt.IsZero() && at.After(v.ExpireAt) {
		return false
	}
	return useCount < v.MaxUseCount
}

func (svc *WalletService) VoucherByToken(ctx context.Context, token string) (*models.Voucher, error) {
	var voucher models.Voucher
	err := svc.DB.NewSelect().Model(&voucher).
		Where("token = ?", token).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, newError(KindVoucherNotFound, "voucher not found")
		}
		return nil, err
	}
	return &voucher, nil
}

// VoucherUseCount derives how many redemption events a voucher has seen. One
// entry of each redemption pair belongs to the voucher owner, so counting the
// owner-side rows counts redemptions.
func (svc *WalletService) VoucherUseCount(ctx context.Context, voucher *models.Voucher) (int, error) {
	return voucherUseCountIn(ctx, svc.DB, voucher)
}

func voucherUseCountIn(ctx context.Context, db bun.IDB, voucher *models.Voucher) (int, error) {
	return db.NewSelect().Model((*models.Entry)(nil)).
		Where("voucher_id = ?", voucher.ID).
		Where("user_id = ?", voucher.UserID).
		Count(ctx)
}

// IssueRequestVoucher creates a voucher whose owner collects a fixed amount
// from each redeemer. The requested expiry is clamped to the configured
// maximum lifetime.
func (svc *WalletService) IssueRequestVoucher(ctx context.Context, ownerId int64, amount decimal.Decimal, maxUseCount int, expireAt *time.Time) (*models.Voucher, error) {
	if err := svc.validateAmount(amount); err != nil {
		return nil, err
	}
	if maxUseCount < 1 {
		return nil, newError(KindInvalidAmount, "max use count must be at least one")
	}

	expire := svc.now().Add(time.Duration(svc.Config.VoucherMaxLifetime) * time.Second)
	if expireAt != nil && expireAt.Before(expire) {
		expire = *expireAt
	}

	voucher := &models.Voucher{
		Token:       uuid.NewString(),
		Type:        common.VoucherTypeRequest,
		UserID:      ownerId,
		Amount:      decimal.NewNullDecimal(amount),
		MaxUseCount: maxUseCount,
		ExpireAt:    expire,
	}
	if _, err := svc.DB.NewInsert().Model(voucher).Exec(ctx); err != nil {
		return nil, newError(KindStorageFailure, err.Error())
	}
	return voucher, nil
}

// IssueSendVoucher creates a short-lived single-use voucher that lets its
// redeemer pull money out of the owner's balance. The owner's unused send
// vouchers are pruned first so at most one is outstanding per account.
func (svc *WalletService) IssueSendVoucher(ctx context.Context, ownerId int64) (*models.Voucher, error) {
	voucher := &models.Voucher{
		Token:       uuid.NewString(),
		Type:        common.VoucherTypeSend,
		UserID:      ownerId,
		MaxUseCount: 1,
		ExpireAt:    svc.now().Add(time.Duration(svc.Config.SendVoucherLifetime) * time.Second),
	}
	err := svc.runInPayTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		// SKIP LOCKED leaves a voucher that is mid-redemption alone: the
		// redeeming transaction holds the row lock, and once it commits the
		// voucher has entries and no longer matches.
		_, err := tx.Exec(`
			DELETE FROM vouchers WHERE id IN (
				SELECT v.id FROM vouchers v
				WHERE v.type = ? AND v.user_id = ?
				AND NOT EXISTS (SELECT 1 FROM entries e WHERE e.voucher_id = v.id)
				FOR UPDATE SKIP LOCKED
			)`, common.VoucherTypeSend, ownerId)
		if err != nil {
			return err
		}
		_, err = tx.NewInsert().Model(voucher).Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return voucher, nil
}

// RedeemVoucher turns a voucher token into a transfer. The voucher row is
// locked for the whole unit of work, so the use-count check and the entry
// writes cannot race another redemption of the same token. Request vouchers
// move the voucher amount from the redeemer to the owner; send vouchers move
// the redeemer-supplied amount the other way.
func (svc *WalletService) RedeemVoucher(ctx context.Context, redeemerId int64, token string, amount *decimal.Decimal) (*RedeemResult, error) {
	redeemer, err := svc.FindUser(ctx, redeemerId)
	if err != nil {
		return nil, err
	}

	result := &RedeemResult{}
	err = svc.runInPayTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var voucher models.Voucher
		err := tx.NewSelect().Model(&voucher).
			Where("token = ?", token).
			Limit(1).
			For("UPDATE").
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return newError(KindVoucherNotFound, "voucher not found")
			}
			return err
		}

		if voucher.UserID == redeemer.ID {
			return newError(KindSelfTransfer, "cannot redeem your own voucher")
		}

		useCount, err := voucherUseCountIn(ctx, tx, &voucher)
		if err != nil {
			return err
		}
		if !voucherUsable(&voucher, useCount, svc.now()) {
			return newError(KindVoucherUnusable, "voucher has expired or reached its use limit")
		}

		var owner models.User
		if err := tx.NewSelect().Model(&owner).Where("id = ?", voucher.UserID).Limit(1).Scan(ctx); err != nil {
			return err
		}

		// resolve payer/payee roles by voucher type; everything
		// correctness-critical below this point is shared
		var p transferParams
		switch voucher.Type {
		case common.VoucherTypeRequest:
			if !voucher.Amount.Valid || voucher.Amount.Decimal.LessThanOrEqual(decimal.Zero) {
				return newError(KindInvalidAmount, "voucher has an invalid amount")
			}
			p = transferParams{
				Payer:  redeemer,
				Payee:  &owner,
				Amount: voucher.Amount.Decimal,
			}
		case common.VoucherTypeSend:
			if amount == nil {
				return newError(KindInvalidAmount, "amount is required to redeem a send voucher")
			}
			if err := svc.validateAmount(*amount); err != nil {
				return err
			}
			p = transferParams{
				Payer:  &owner,
				Payee:  redeemer,
				Amount: *amount,
			}
		default:
			return newError(KindVoucherNotFound, "unknown voucher type")
		}
		p.PayerEntryType = common.EntryTypeVoucherPayment
		p.PayeeEntryType = common.EntryTypeVoucherPayment
		p.PayerDescription = fmt.Sprintf("Payment via voucher to %s", p.Payee.Login)
		p.PayeeDescription = fmt.Sprintf("Payment via voucher from %s", p.Payer.Login)
		p.VoucherID = voucher.ID

		payerEntry, payeeEntry, err := appendTransferEntries(ctx, tx, &p)
		if err != nil {
			return err
		}

		balance, err := balanceInTx(ctx, tx, redeemer.ID)
		if err != nil {
			return err
		}
		result.Entry = payeeEntry
		if p.Payer.ID == redeemer.ID {
			result.Entry = payerEntry
		}
		result.NewBalance = balance
		result.Voucher = &voucher
		result.CounterpartyLogin = owner.Login
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// VoucherPublicView is the projection handed to anyone holding the token. A
// send voucher that is no longer usable reads as not found, so a stale token
// leaks nothing about its owner.
func (svc *WalletService) VoucherPublicView(ctx context.Context, token string) (*VoucherView, error) {
	voucher, err := svc.VoucherByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if voucher.Type == common.VoucherTypeSend {
		useCount, err := svc.VoucherUseCount(ctx, voucher)
		if err != nil {
			return nil, err
		}
		if !voucherUsable(voucher, useCount, svc.now()) {
			return nil, newError(KindVoucherNotFound, "voucher not found")
		}
	}

	view := &VoucherView{
		Token: voucher.Token,
		Type:  voucher.Type,
	}
	if voucher.Amount.Valid {
		amount := voucher.Amount.Decimal
		view.Amount = &amount
	}
	if !voucher.ExpireAt.IsZero() {
		expire := voucher.ExpireAt
		view.ExpireAt = &expire
	}
	return view, nil
}
