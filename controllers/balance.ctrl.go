package controllers

import (
	"net/http"

	"github.com/0x5916/Alanpay-backend/lib/service"
	"github.com/labstack/echo/v4"
)

// BalanceController : BalanceController struct
type BalanceController struct {
	svc *service.WalletService
}

func NewBalanceController(svc *service.WalletService) *BalanceController {
	return &BalanceController{svc: svc}
}

type BalanceResponse struct {
	Balance string `json:"balance"`
}

// Balance : Balance Controller
func (controller *BalanceController) Balance(c echo.Context) error {
	userId := c.Get("UserID").(int64)
	balance, err := controller.svc.CurrentUserBalance(c.Request().Context(), userId)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, &BalanceResponse{
		Balance: balance.StringFixed(2),
	})
}
