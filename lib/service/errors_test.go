package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("redeem failed: %w", newError(KindVoucherUnusable, "out of uses"))

	assert.Equal(t, KindVoucherUnusable, ErrorKind(err))
	assert.True(t, IsKind(err, KindVoucherUnusable))
	assert.False(t, IsKind(err, KindVoucherNotFound))
}

func TestErrorKindDefaultsToStorageFailure(t *testing.T) {
	err := errors.New("connection reset by peer")

	assert.Equal(t, KindStorageFailure, ErrorKind(err))
	assert.False(t, IsKind(err, KindStorageFailure))
}

func TestErrorStringIncludesKindAndDetail(t *testing.T) {
	err := newError(KindInsufficientBalance, "balance is 3.00, requested 10.00")

	assert.Equal(t, "insufficient_balance: balance is 3.00, requested 10.00", err.Error())
}
