package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/0x5916/Alanpay-backend/lib/responses"
	"github.com/0x5916/Alanpay-backend/lib/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// PaymentController : Payment controller struct
type PaymentController struct {
	svc *service.WalletService
}

func NewPaymentController(svc *service.WalletService) *PaymentController {
	return &PaymentController{svc: svc}
}

type PaymentRequestBody struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

type TransferRequestBody struct {
	Amount            decimal.Decimal `json:"amount" validate:"required"`
	RecipientUsername string          `json:"recipient_username" validate:"required"`
	Description       string          `json:"description"`
}

type PaymentResponseBody struct {
	Message    string    `json:"message"`
	Amount     string    `json:"amount"`
	NewBalance string    `json:"new_balance"`
	EntryID    int64     `json:"entry_id"`
	Timestamp  time.Time `json:"timestamp"`
}

func paymentResponse(message string, result *service.PaymentResult) *PaymentResponseBody {
	return &PaymentResponseBody{
		Message:    message,
		Amount:     result.Entry.Amount.Abs().StringFixed(2),
		NewBalance: result.NewBalance.StringFixed(2),
		EntryID:    result.Entry.ID,
		Timestamp:  result.Entry.CreatedAt,
	}
}

// TopUp : Top up Controller
func (controller *PaymentController) TopUp(c echo.Context) error {
	userId := c.Get("UserID").(int64)
	var body PaymentRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load topup request body: user_id:%v error: %v", userId, err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	result, err := controller.svc.TopUp(c.Request().Context(), userId, body.Amount)
	if err != nil {
		c.Logger().Errorf("Top-up failed user_id:%v amount:%v kind:%v", userId, body.Amount, service.ErrorKind(err))
		resp := responses.MapDomainError(err)
		return c.JSON(resp.HttpStatusCode, resp)
	}

	return c.JSON(http.StatusOK, paymentResponse("Top-up processed successfully", result))
}

// Withdraw : Withdraw Controller
func (controller *PaymentController) Withdraw(c echo.Context) error {
	userId := c.Get("UserID").(int64)
	var body PaymentRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load withdraw request body: user_id:%v error: %v", userId, err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	result, err := controller.svc.Withdraw(c.Request().Context(), userId, body.Amount)
	if err != nil {
		c.Logger().Errorf("Withdrawal failed user_id:%v amount:%v kind:%v", userId, body.Amount, service.ErrorKind(err))
		resp := responses.MapDomainError(err)
		return c.JSON(resp.HttpStatusCode, resp)
	}

	return c.JSON(http.StatusOK, paymentResponse("Withdrawal processed successfully", result))
}

// Transfer : Transfer Controller
func (controller *PaymentController) Transfer(c echo.Context) error {
	userId := c.Get("UserID").(int64)
	var body TransferRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load transfer request body: user_id:%v error: %v", userId, err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	result, err := controller.svc.Transfer(c.Request().Context(), userId, body.RecipientUsername, body.Amount, body.Description)
	if err != nil {
		c.Logger().Errorf("Transfer failed user_id:%v recipient:%v amount:%v kind:%v", userId, body.RecipientUsername, body.Amount, service.ErrorKind(err))
		resp := responses.MapDomainError(err)
		return c.JSON(resp.HttpStatusCode, resp)
	}

	message := fmt.Sprintf("Transfer to %s processed successfully", body.RecipientUsername)
	return c.JSON(http.StatusOK, paymentResponse(message, result))
}
