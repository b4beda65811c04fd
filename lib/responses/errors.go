package responses

import (
	"github.com/0x5916/Alanpay-backend/lib/service"
	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error          bool   `json:"error"`
	Code           int    `json:"code"`
	Message        string `json:"message"`
	HttpStatusCode int    `json:"-"`
}

var GeneralServerError = ErrorResponse{
	Error:          true,
	Code:           6,
	Message:        "Something went wrong. Please try again later",
	HttpStatusCode: 500,
}

var BadArgumentsError = ErrorResponse{
	Error:          true,
	Code:           8,
	Message:        "Bad arguments",
	HttpStatusCode: 400,
}

var BadAuthError = ErrorResponse{
	Error:          true,
	Code:           1,
	Message:        "bad auth",
	HttpStatusCode: 401,
}

var InvalidAmountError = ErrorResponse{
	Error:          true,
	Code:           2,
	Message:        "amount must be a positive number with at most two decimal places",
	HttpStatusCode: 400,
}

var NotEnoughBalanceError = ErrorResponse{
	Error:          true,
	Code:           2,
	Message:        "not enough balance",
	HttpStatusCode: 400,
}

var AccountNotFoundError = ErrorResponse{
	Error:          true,
	Code:           3,
	Message:        "account not found",
	HttpStatusCode: 404,
}

var LoginTakenError = ErrorResponse{
	Error:          true,
	Code:           9,
	Message:        "login already taken",
	HttpStatusCode: 409,
}

var SelfTransferError = ErrorResponse{
	Error:          true,
	Code:           2,
	Message:        "cannot transfer to yourself",
	HttpStatusCode: 400,
}

var VoucherNotFoundError = ErrorResponse{
	Error:          true,
	Code:           4,
	Message:        "voucher not found",
	HttpStatusCode: 404,
}

// Expired and exhausted vouchers share one message so a redeemer cannot
// probe a token's issuance details.
var VoucherUnusableError = ErrorResponse{
	Error:          true,
	Code:           4,
	Message:        "voucher has expired or is invalid",
	HttpStatusCode: 400,
}

var EntryNotFoundError = ErrorResponse{
	Error:          true,
	Code:           5,
	Message:        "entry not found",
	HttpStatusCode: 404,
}

var UnauthorizedError = ErrorResponse{
	Error:          true,
	Code:           1,
	Message:        "access denied",
	HttpStatusCode: 401,
}

var TransientConflictError = ErrorResponse{
	Error:          true,
	Code:           7,
	Message:        "operation conflicted with a concurrent request. Please try again",
	HttpStatusCode: 409,
}

var AccountDeactivatedError = ErrorResponse{
	Error:          true,
	Code:           1,
	Message:        "Account has been suspended. Please contact support for further assistance.",
	HttpStatusCode: 401,
}

// MapDomainError translates a payment engine error into its wire shape.
func MapDomainError(err error) ErrorResponse {
	switch service.ErrorKind(err) {
	case service.KindInvalidAmount:
		return InvalidAmountError
	case service.KindInsufficientBalance:
		return NotEnoughBalanceError
	case service.KindAccountNotFound:
		return AccountNotFoundError
	case service.KindAlreadyExists:
		return LoginTakenError
	case service.KindSelfTransfer:
		return SelfTransferError
	case service.KindVoucherNotFound:
		return VoucherNotFoundError
	case service.KindVoucherUnusable:
		return VoucherUnusableError
	case service.KindEntryNotFound:
		return EntryNotFoundError
	case service.KindUnauthorized:
		return UnauthorizedError
	case service.KindTransientConflict:
		return TransientConflictError
	default:
		return GeneralServerError
	}
}

func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	c.Logger().Error(err)
	if hub := sentryecho.GetHubFromContext(c); hub != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetExtra("UserID", c.Get("UserID"))
			hub.CaptureException(err)
		})
	}
	if he, ok := err.(*echo.HTTPError); ok {
		c.JSON(he.Code, he.Message)
		return
	}
	resp := MapDomainError(err)
	c.JSON(resp.HttpStatusCode, resp)
}
