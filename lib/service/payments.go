package service

import (
	"context"
	"fmt"

	"github.com/0x5916/Alanpay-backend/common"
	"github.com/0x5916/Alanpay-backend/db/models"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// PaymentResult is what every money-moving operation hands back: the entry
// written for the acting account and that account's balance after commit.
type PaymentResult struct {
	Entry      *models.Entry
	NewBalance decimal.Decimal
}

func (svc *WalletService) TopUp(ctx context.Context, userId int64, amount decimal.Decimal) (*PaymentResult, error) {
	if err := svc.validateAmount(amount); err != nil {
		return nil, err
	}

	result := &PaymentResult{}
	err := svc.runInPayTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := lockUsers(ctx, tx, userId); err != nil {
			return err
		}
		entry := &models.Entry{
			UserID:      userId,
			Amount:      amount,
			EntryType:   common.EntryTypeTopUp,
			Description: fmt.Sprintf("Top-up of %s", amount.StringFixed(2)),
		}
		if _, err := tx.NewInsert().Model(entry).Exec(ctx); err != nil {
			return err
		}
		balance, err := balanceInTx(ctx, tx, userId)
		if err != nil {
			return err
		}
		result.Entry = entry
		result.NewBalance = balance
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (svc *WalletService) Withdraw(ctx context.Context, userId int64, amount decimal.Decimal) (*PaymentResult, error) {
	if err := svc.validateAmount(amount); err != nil {
		return nil, err
	}

	result := &PaymentResult{}
	err := svc.runInPayTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := lockUsers(ctx, tx, userId); err != nil {
			return err
		}
		// the balance check and the write happen under the same row lock
		balance, err := balanceInTx(ctx, tx, userId)
		if err != nil {
			return err
		}
		if balance.LessThan(amount) {
			return newError(KindInsufficientBalance, "withdrawal amount exceeds available balance")
		}
		entry := &models.Entry{
			UserID:      userId,
			Amount:      amount.Neg(),
			EntryType:   common.EntryTypeWithdrawal,
			Description: fmt.Sprintf("Withdrawal of %s", amount.StringFixed(2)),
		}
		if _, err := tx.NewInsert().Model(entry).Exec(ctx); err != nil {
			return err
		}
		result.Entry = entry
		result.NewBalance = balance.Sub(amount)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Transfer moves amount from the acting user to the account named by
// payeeLogin, recording the balanced transfer_sent/transfer_received pair in
// one unit of work.
func (svc *WalletService) Transfer(ctx context.Context, payerId int64, payeeLogin string, amount decimal.Decimal, description string) (*PaymentResult, error) {
	if err := svc.validateAmount(amount); err != nil {
		return nil, err
	}

	payer, err := svc.FindUser(ctx, payerId)
	if err != nil {
		return nil, err
	}
	payee, err := svc.FindUserByLogin(ctx, payeeLogin)
	if err != nil {
		return nil, err
	}
	if payee.ID == payer.ID {
		return nil, newError(KindSelfTransfer, "cannot transfer to yourself")
	}

	payerDescription := description
	payeeDescription := description
	if description == "" {
		payerDescription = fmt.Sprintf("Transfer to %s", payee.Login)
		payeeDescription = fmt.Sprintf("Transfer from %s", payer.Login)
	}

	result := &PaymentResult{}
	err = svc.runInPayTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		payerEntry, _, err := appendTransferEntries(ctx, tx, &transferParams{
			Payer:            payer,
			Payee:            payee,
			Amount:           amount,
			PayerEntryType:   common.EntryTypeTransferSent,
			PayeeEntryType:   common.EntryTypeTransferReceived,
			PayerDescription: payerDescription,
			PayeeDescription: payeeDescription,
		})
		if err != nil {
			return err
		}
		balance, err := balanceInTx(ctx, tx, payer.ID)
		if err != nil {
			return err
		}
		result.Entry = payerEntry
		result.NewBalance = balance
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
