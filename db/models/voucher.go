package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Voucher : Voucher Model
//
// A voucher carries no stored status field. Whether it is still redeemable is
// derived from expire_at and from the ledger entries that reference it.
type Voucher struct {
	bun.BaseModel `bun:"table:vouchers"`

	ID          int64               `bun:",pk,autoincrement"`
	Token       string              `bun:",unique,notnull"`
	Type        string              `bun:",notnull"`
	UserID      int64               `bun:",notnull"`
	User        *User               `bun:"rel:belongs-to,join:user_id=id"`
	Amount      decimal.NullDecimal `bun:"type:numeric(18,2)"`
	MaxUseCount int                 `bun:",notnull"`
	CreatedAt   time.Time           `bun:",nullzero,notnull,default:current_timestamp"`
	ExpireAt    time.Time           `bun:",nullzero"`
}
