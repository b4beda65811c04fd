package responses

import (
	"errors"
	"fmt"
	"testing"

	"github.com/0x5916/Alanpay-backend/lib/service"
	"github.com/stretchr/testify/assert"
)

func kindError(kind service.Kind) error {
	svcErr := &service.Error{Kind: kind, Detail: "test"}
	return fmt.Errorf("wrapped: %w", svcErr)
}

func TestMapDomainError(t *testing.T) {
	assert.Equal(t, InvalidAmountError, MapDomainError(kindError(service.KindInvalidAmount)))
	assert.Equal(t, NotEnoughBalanceError, MapDomainError(kindError(service.KindInsufficientBalance)))
	assert.Equal(t, AccountNotFoundError, MapDomainError(kindError(service.KindAccountNotFound)))
	assert.Equal(t, LoginTakenError, MapDomainError(kindError(service.KindAlreadyExists)))
	assert.Equal(t, SelfTransferError, MapDomainError(kindError(service.KindSelfTransfer)))
	assert.Equal(t, VoucherNotFoundError, MapDomainError(kindError(service.KindVoucherNotFound)))
	assert.Equal(t, VoucherUnusableError, MapDomainError(kindError(service.KindVoucherUnusable)))
	assert.Equal(t, EntryNotFoundError, MapDomainError(kindError(service.KindEntryNotFound)))
	assert.Equal(t, UnauthorizedError, MapDomainError(kindError(service.KindUnauthorized)))
	assert.Equal(t, TransientConflictError, MapDomainError(kindError(service.KindTransientConflict)))
	assert.Equal(t, GeneralServerError, MapDomainError(kindError(service.KindStorageFailure)))
}

func TestMapDomainErrorDefaultsToGeneralServerError(t *testing.T) {
	resp := MapDomainError(errors.New("driver: bad connection"))

	assert.Equal(t, GeneralServerError, resp)
	assert.Equal(t, 500, resp.HttpStatusCode)
}
