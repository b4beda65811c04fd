package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/0x5916/Alanpay-backend/common"
	"github.com/0x5916/Alanpay-backend/db/models"
	"github.com/0x5916/Alanpay-backend/lib/qr"
	"github.com/0x5916/Alanpay-backend/lib/responses"
	"github.com/0x5916/Alanpay-backend/lib/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// VoucherController : Voucher controller struct
type VoucherController struct {
	svc *service.WalletService
}

func NewVoucherController(svc *service.WalletService) *VoucherController {
	return &VoucherController{svc: svc}
}

type IssueRequestVoucherBody struct {
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	MaxUseCount int             `json:"max_use_count" validate:"required,gte=1"`
	Expire      *time.Time      `json:"expire"`
}

type RedeemVoucherBody struct {
	Amount *decimal.Decimal `json:"amount"`
}

type VoucherViewResponseBody struct {
	Token  string `json:"token"`
	Type   string `json:"type"`
	Amount string `json:"amount,omitempty"`
	Expire string `json:"expire,omitempty"`
}

// IssueRequestVoucher : Issue request voucher Controller
func (controller *VoucherController) IssueRequestVoucher(c echo.Context) error {
	userId := c.Get("UserID").(int64)
	var body IssueRequestVoucherBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load request voucher body: user_id:%v error: %v", userId, err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	voucher, err := controller.svc.IssueRequestVoucher(c.Request().Context(), userId, body.Amount, body.MaxUseCount, body.Expire)
	if err != nil {
		c.Logger().Errorf("Request voucher issuance failed user_id:%v amount:%v kind:%v", userId, body.Amount, service.ErrorKind(err))
		resp := responses.MapDomainError(err)
		return c.JSON(resp.HttpStatusCode, resp)
	}

	return controller.renderVoucher(c, voucher, "request")
}

// IssueSendVoucher : Issue send voucher Controller
func (controller *VoucherController) IssueSendVoucher(c echo.Context) error {
	userId := c.Get("UserID").(int64)

	voucher, err := controller.svc.IssueSendVoucher(c.Request().Context(), userId)
	if err != nil {
		c.Logger().Errorf("Send voucher issuance failed user_id:%v kind:%v", userId, service.ErrorKind(err))
		resp := responses.MapDomainError(err)
		return c.JSON(resp.HttpStatusCode, resp)
	}

	return controller.renderVoucher(c, voucher, "send")
}

// renderVoucher answers an issuance request with a scannable PNG of the
// voucher url. The token and its metadata travel in headers so clients that
// only want the token do not have to decode the image.
func (controller *VoucherController) renderVoucher(c echo.Context, voucher *models.Voucher, kind string) error {
	url := voucher.Token
	if origin := c.Request().Header.Get("Origin"); origin != "" {
		url = fmt.Sprintf("%s/pay/scan/%s/%s", origin, kind, voucher.Token)
	}

	image, err := qr.EncodeBase64PNG(url)
	if err != nil {
		return err
	}

	c.Response().Header().Set("Voucher-Token", voucher.Token)
	c.Response().Header().Set("Voucher-Url", url)
	c.Response().Header().Set("Voucher-Type", voucher.Type)
	return c.Blob(http.StatusOK, "image/png;base64", []byte(image))
}

// RedeemVoucher : Redeem voucher Controller
// The amount is required only for send-type vouchers; for request vouchers
// the body may be empty.
func (controller *VoucherController) RedeemVoucher(c echo.Context) error {
	userId := c.Get("UserID").(int64)
	token := c.Param("token")

	var body RedeemVoucherBody
	if err := c.Bind(&body); err != nil && c.Request().ContentLength > 0 {
		c.Logger().Errorf("Failed to load redeem voucher body: user_id:%v error: %v", userId, err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	result, err := controller.svc.RedeemVoucher(c.Request().Context(), userId, token, body.Amount)
	if err != nil {
		c.Logger().Errorf("Voucher redemption failed user_id:%v token:%v kind:%v", userId, token, service.ErrorKind(err))
		resp := responses.MapDomainError(err)
		return c.JSON(resp.HttpStatusCode, resp)
	}

	message := fmt.Sprintf("Voucher payment to %s processed successfully", result.CounterpartyLogin)
	if result.Voucher.Type == common.VoucherTypeSend {
		message = fmt.Sprintf("Voucher payment from %s processed successfully", result.CounterpartyLogin)
	}
	return c.JSON(http.StatusOK, &PaymentResponseBody{
		Message:    message,
		Amount:     result.Entry.Amount.Abs().StringFixed(2),
		NewBalance: result.NewBalance.StringFixed(2),
		EntryID:    result.Entry.ID,
		Timestamp:  result.Entry.CreatedAt,
	})
}

// GetVoucher : Voucher public view Controller
func (controller *VoucherController) GetVoucher(c echo.Context) error {
	token := c.Param("token")

	view, err := controller.svc.VoucherPublicView(c.Request().Context(), token)
	if err != nil {
		resp := responses.MapDomainError(err)
		return c.JSON(resp.HttpStatusCode, resp)
	}

	body := &VoucherViewResponseBody{
		Token: view.Token,
		Type:  view.Type,
	}
	if view.Amount != nil {
		body.Amount = view.Amount.StringFixed(2)
	}
	if view.ExpireAt != nil {
		body.Expire = view.ExpireAt.Format(time.RFC3339)
	}
	return c.JSON(http.StatusOK, body)
}
