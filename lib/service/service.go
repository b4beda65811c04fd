package service

import (
	"context"
	"time"

	"github.com/0x5916/Alanpay-backend/db/models"
	"github.com/0x5916/Alanpay-backend/lib/tokens"
	"github.com/labstack/gommon/random"
	"github.com/uptrace/bun"
	"github.com/ziflex/lecho/v3"
	"golang.org/x/crypto/bcrypt"
)

const alphaNumBytes = random.Alphanumeric

type WalletService struct {
	Config *Config
	DB     *bun.DB
	Logger *lecho.Logger
	// ClockOverride pins "now" in tests; leave nil in production.
	ClockOverride Clock
}

// Clock abstracts time.Now so voucher expiry can be pinned in tests.
type Clock func() time.Time

func (svc *WalletService) now() time.Time {
	if svc.ClockOverride != nil {
		return svc.ClockOverride()
	}
	return time.Now()
}

func (svc *WalletService) GenerateToken(ctx context.Context, login, password, inRefreshToken string) (accessToken, refreshToken string, err error) {
	var user *models.User

	switch {
	case login != "" || password != "":
		{
			user, err = svc.FindUserByLogin(ctx, login)
			if err != nil {
				return "", "", newError(KindUnauthorized, "bad auth")
			}
			if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
				return "", "", newError(KindUnauthorized, "bad auth")
			}
		}
	case inRefreshToken != "":
		{
			userId, err := tokens.GetUserIdFromToken(svc.Config.JWTSecret, inRefreshToken)
			if err != nil {
				return "", "", newError(KindUnauthorized, "bad auth")
			}
			user, err = svc.FindUser(ctx, userId)
			if err != nil {
				return "", "", newError(KindUnauthorized, "bad auth")
			}
		}
	default:
		{
			return "", "", newError(KindUnauthorized, "login and password or refresh token is required")
		}
	}

	if user.Deactivated {
		return "", "", newError(KindUnauthorized, "account deactivated")
	}

	accessToken, err = tokens.GenerateAccessToken(svc.Config.JWTSecret, svc.Config.JWTAccessTokenExpiry, user)
	if err != nil {
		return "", "", err
	}

	refreshToken, err = tokens.GenerateRefreshToken(svc.Config.JWTSecret, svc.Config.JWTRefreshTokenExpiry, user)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}
