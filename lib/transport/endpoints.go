package transport

import (
	"github.com/0x5916/Alanpay-backend/controllers"
	"github.com/0x5916/Alanpay-backend/lib/service"
	"github.com/labstack/echo/v4"
)

func RegisterEndpoints(svc *service.WalletService, e *echo.Echo, secured *echo.Group, securedWithStrictRateLimit *echo.Group, strictRateLimitMiddleware echo.MiddlewareFunc) {
	e.POST("/auth", controllers.NewAuthController(svc).Auth)
	if svc.Config.AllowAccountCreation {
		e.POST("/v2/users", controllers.NewCreateUserController(svc).CreateUser, strictRateLimitMiddleware)
	}

	secured.GET("/v2/balance", controllers.NewBalanceController(svc).Balance)

	paymentCtrl := controllers.NewPaymentController(svc)
	securedWithStrictRateLimit.POST("/v2/payments/topup", paymentCtrl.TopUp)
	securedWithStrictRateLimit.POST("/v2/payments/withdraw", paymentCtrl.Withdraw)
	securedWithStrictRateLimit.POST("/v2/payments/transfer", paymentCtrl.Transfer)

	historyCtrl := controllers.NewHistoryController(svc)
	secured.GET("/v2/payments/history", historyCtrl.GetHistory)
	secured.GET("/v2/payments/entries/:id", historyCtrl.GetEntry)

	voucherCtrl := controllers.NewVoucherController(svc)
	secured.POST("/v2/vouchers/request", voucherCtrl.IssueRequestVoucher)
	secured.POST("/v2/vouchers/send", voucherCtrl.IssueSendVoucher)
	secured.GET("/v2/vouchers/:token", voucherCtrl.GetVoucher)
	securedWithStrictRateLimit.POST("/v2/vouchers/:token/redeem", voucherCtrl.RedeemVoucher)
}
