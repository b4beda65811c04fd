package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Entry : Ledger Entry Model
//
// An entry is an immutable signed fact: once committed it is never updated or
// deleted. A user's balance is always derived as the sum over their entries.
// Transfers and voucher payments are recorded as two balanced entries written
// in the same database transaction.
type Entry struct {
	bun.BaseModel `bun:"table:entries"`

	ID              int64           `bun:",pk,autoincrement"`
	UserID          int64           `bun:",notnull"`
	User            *User           `bun:"rel:belongs-to,join:user_id=id"`
	Amount          decimal.Decimal `bun:"type:numeric(18,2),notnull"`
	EntryType       string          `bun:",notnull"`
	Description     string          `bun:",nullzero"`
	ReferenceUserID int64           `bun:",nullzero"`
	ReferenceUser   *User           `bun:"rel:belongs-to,join:reference_user_id=id"`
	VoucherID       int64           `bun:",nullzero"`
	Voucher         *Voucher        `bun:"rel:belongs-to,join:voucher_id=id"`
	CreatedAt       time.Time       `bun:",nullzero,notnull,default:current_timestamp"`
}
