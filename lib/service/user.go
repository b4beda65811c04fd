package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/0x5916/Alanpay-backend/db/models"
	"github.com/0x5916/Alanpay-backend/lib/security"
	"github.com/shopspring/decimal"
	passwordvalidator "github.com/wagslane/go-password-validator"
)

func (svc *WalletService) CreateUser(ctx context.Context, login string, password string) (user *models.User, err error) {

	user = &models.User{}

	// generate user login/password if not provided
	user.Login = login
	if login == "" {
		randLoginBytes, err := randBytesFromStr(20, alphaNumBytes)
		if err != nil {
			return nil, err
		}
		user.Login = string(randLoginBytes)
	}

	if password == "" {
		randPasswordBytes, err := randBytesFromStr(20, alphaNumBytes)
		if err != nil {
			return nil, err
		}
		password = string(randPasswordBytes)
	} else {
		if svc.Config.MinPasswordEntropy > 0 {
			entropy := passwordvalidator.GetEntropy(password)
			if entropy < float64(svc.Config.MinPasswordEntropy) {
				return nil, fmt.Errorf("password entropy is too low (%f), required is %d", entropy, svc.Config.MinPasswordEntropy)
			}
		}
	}

	// we only store the hashed password but return the initial plain text password in the HTTP response
	user.Password = security.HashPassword(password)

	_, err = svc.DB.NewInsert().Model(user).Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, newError(KindAlreadyExists, fmt.Sprintf("login %q is already taken", user.Login))
		}
		return nil, err
	}
	//return actual password in the response, not the hashed one
	user.Password = password
	return user, nil
}

func (svc *WalletService) FindUser(ctx context.Context, userId int64) (*models.User, error) {
	var user models.User

	err := svc.DB.NewSelect().Model(&user).Where("id = ?", userId).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, newError(KindAccountNotFound, "account not found")
		}
		return nil, err
	}
	return &user, nil
}

func (svc *WalletService) FindUserByLogin(ctx context.Context, login string) (*models.User, error) {
	var user models.User

	err := svc.DB.NewSelect().Model(&user).Where("login = ?", login).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, newError(KindAccountNotFound, fmt.Sprintf("user %q not found", login))
		}
		return nil, err
	}
	return &user, nil
}

// CurrentUserBalance derives the balance as the sum over the user's ledger
// entries. The balance is never stored or cached anywhere else.
func (svc *WalletService) CurrentUserBalance(ctx context.Context, userId int64) (decimal.Decimal, error) {
	var balance decimal.Decimal

	err := svc.DB.NewSelect().Model((*models.Entry)(nil)).
		ColumnExpr("COALESCE(SUM(amount), 0)").
		Where("user_id = ?", userId).
		Scan(ctx, &balance)
	return balance, err
}
