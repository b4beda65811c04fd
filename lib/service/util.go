package service

import (
	"crypto/rand"
	"math/big"

	"github.com/shopspring/decimal"
)

// amounts are stored as numeric(18,2), so anything at 10^16 or above
// cannot be represented
var maxAmountMagnitude = decimal.New(1, 16)

func randBytesFromStr(length int, from string) ([]byte, error) {
	b := make([]byte, length)
	fromLenBigInt := big.NewInt(int64(len(from)))
	for i := range b {
		r, err := rand.Int(rand.Reader, fromLenBigInt)
		if err != nil {
			return nil, err
		}
		b[i] = from[r.Int64()]
	}
	return b, nil
}

func (svc *WalletService) validateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return newError(KindInvalidAmount, "amount must be greater than zero")
	}
	if amount.Exponent() < -2 {
		return newError(KindInvalidAmount, "amount can have at most two decimal places")
	}
	if amount.GreaterThanOrEqual(maxAmountMagnitude) {
		return newError(KindInvalidAmount, "amount out of range")
	}
	if svc.Config.MaxAmount > 0 && amount.GreaterThan(decimal.NewFromInt(svc.Config.MaxAmount)) {
		return newError(KindInvalidAmount, "amount exceeds the per-operation limit")
	}
	return nil
}
