package integration_tests

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"testing"
	"time"

	"github.com/0x5916/Alanpay-backend/controllers"
	"github.com/0x5916/Alanpay-backend/lib/responses"
	"github.com/0x5916/Alanpay-backend/lib/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type UserTestSuite struct {
	TestSuite
	service *service.WalletService
}

func (suite *UserTestSuite) SetupSuite() {
	svc, err := WalletTestServiceInit()
	if err != nil {
		log.Fatalf("Error initializing test service: %v", err)
	}
	suite.service = svc
	e := newTestEcho()
	e.POST("/v2/users", controllers.NewCreateUserController(suite.service).CreateUser)
	e.POST("/auth", controllers.NewAuthController(suite.service).Auth)
	suite.echo = e
}

func (suite *UserTestSuite) TestCreateUserWithGeneratedCredentials() {
	rec := suite.postJSON("/v2/users", &ExpectedCreateUserRequestBody{}, "")
	createResponse := &ExpectedCreateUserResponseBody{}
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(createResponse))
	assert.NotEmpty(suite.T(), createResponse.Login)
	assert.NotEmpty(suite.T(), createResponse.Password)

	rec = suite.postJSON("/auth", &ExpectedAuthRequestBody{
		Login:    createResponse.Login,
		Password: createResponse.Password,
	}, "")
	authResponse := &ExpectedAuthResponseBody{}
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(authResponse))
	assert.NotEmpty(suite.T(), authResponse.AccessToken)
	assert.NotEmpty(suite.T(), authResponse.RefreshToken)
}

func (suite *UserTestSuite) TestCreateUserWithDuplicateLoginFails() {
	login := fmt.Sprintf("taken-login-%d", time.Now().UnixNano())

	rec := suite.postJSON("/v2/users", &ExpectedCreateUserRequestBody{
		Login:    login,
		Password: "first password with some entropy",
	}, "")
	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	rec = suite.postJSON("/v2/users", &ExpectedCreateUserRequestBody{
		Login:    login,
		Password: "second password with some entropy",
	}, "")
	errorResponse := &responses.ErrorResponse{}
	assert.Equal(suite.T(), http.StatusConflict, rec.Code)
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(errorResponse))
	assert.Equal(suite.T(), responses.LoginTakenError.Code, errorResponse.Code)
	assert.Equal(suite.T(), responses.LoginTakenError.Message, errorResponse.Message)
}

func (suite *UserTestSuite) TestAuthWithWrongPasswordFails() {
	users, _, err := createUsers(suite.service, 1)
	assert.NoError(suite.T(), err)

	rec := suite.postJSON("/auth", &ExpectedAuthRequestBody{
		Login:    users[0].Login,
		Password: "not the password",
	}, "")
	errorResponse := &responses.ErrorResponse{}
	assert.Equal(suite.T(), http.StatusUnauthorized, rec.Code)
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(errorResponse))
	assert.Equal(suite.T(), responses.BadAuthError.Code, errorResponse.Code)
}

func (suite *UserTestSuite) TestAuthWithRefreshToken() {
	users, _, err := createUsers(suite.service, 1)
	assert.NoError(suite.T(), err)

	rec := suite.postJSON("/auth", &ExpectedAuthRequestBody{
		Login:    users[0].Login,
		Password: users[0].Password,
	}, "")
	firstAuth := &ExpectedAuthResponseBody{}
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(firstAuth))

	rec = suite.postJSON("/auth", &ExpectedAuthRequestBody{
		RefreshToken: firstAuth.RefreshToken,
	}, "")
	secondAuth := &ExpectedAuthResponseBody{}
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(secondAuth))
	assert.NotEmpty(suite.T(), secondAuth.AccessToken)
	assert.Equal(suite.T(),
		getUserIdFromToken(firstAuth.AccessToken),
		getUserIdFromToken(secondAuth.AccessToken))
}

func (suite *UserTestSuite) TestAuthWithoutCredentialsFails() {
	rec := suite.postJSON("/auth", &ExpectedAuthRequestBody{}, "")
	assert.Equal(suite.T(), http.StatusUnauthorized, rec.Code)
}

func TestUserTestSuite(t *testing.T) {
	requireDatabase(t)
	suite.Run(t, new(UserTestSuite))
}
