package controllers

import (
	"net/http"

	"github.com/0x5916/Alanpay-backend/lib/responses"
	"github.com/0x5916/Alanpay-backend/lib/service"
	"github.com/labstack/echo/v4"
)

// CreateUserController : Create user controller struct
type CreateUserController struct {
	svc *service.WalletService
}

func NewCreateUserController(svc *service.WalletService) *CreateUserController {
	return &CreateUserController{svc: svc}
}

type CreateUserRequestBody struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type CreateUserResponseBody struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// CreateUser : Create user Controller
// Credentials are generated when the request does not supply them; the plain
// text password is returned once and only its hash is stored.
func (controller *CreateUserController) CreateUser(c echo.Context) error {
	var body CreateUserRequestBody

	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load create user request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	user, err := controller.svc.CreateUser(c.Request().Context(), body.Login, body.Password)
	if err != nil {
		c.Logger().Errorf("Failed to create user: %v", err)
		if service.IsKind(err, service.KindAlreadyExists) {
			resp := responses.MapDomainError(err)
			return c.JSON(resp.HttpStatusCode, resp)
		}
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	return c.JSON(http.StatusOK, &CreateUserResponseBody{
		Login:    user.Login,
		Password: user.Password,
	})
}
