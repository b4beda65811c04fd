package models

import (
	"time"

	"github.com/uptrace/bun"
)

// User : User Model
type User struct {
	bun.BaseModel `bun:"table:users"`

	ID          int64     `bun:",pk,autoincrement"`
	Login       string    `bun:",unique,notnull"`
	Password    string    `bun:",notnull"`
	Deactivated bool      `bun:",default:false"`
	CreatedAt   time.Time `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:",nullzero"`
}
