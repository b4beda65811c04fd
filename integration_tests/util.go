package integration_tests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/0x5916/Alanpay-backend/db"
	"github.com/0x5916/Alanpay-backend/db/migrations"
	"github.com/0x5916/Alanpay-backend/lib"
	"github.com/0x5916/Alanpay-backend/lib/logging"
	"github.com/0x5916/Alanpay-backend/lib/responses"
	"github.com/0x5916/Alanpay-backend/lib/service"
	"github.com/golang-jwt/jwt"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/uptrace/bun/migrate"
)

// requireDatabase skips the suite when no test database is configured, so
// the unit tests still run on machines without Postgres.
func requireDatabase(t *testing.T) {
	if os.Getenv("DATABASE_URI") == "" {
		t.Skip("set DATABASE_URI to run integration tests")
	}
}

func WalletTestServiceInit() (svc *service.WalletService, err error) {
	c := &service.Config{
		DatabaseUri:             os.Getenv("DATABASE_URI"),
		DatabaseMaxConns:        1,
		DatabaseMaxIdleConns:    1,
		DatabaseConnMaxLifetime: 10,
		JWTSecret:               []byte("SECRET"),
		JWTAccessTokenExpiry:    3600,
		JWTRefreshTokenExpiry:   3600,
		VoucherMaxLifetime:      604800,
		SendVoucherLifetime:     60,
	}

	dbConn, err := db.Open(c)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx := context.Background()
	migrator := migrate.NewMigrator(dbConn, migrations.Migrations)
	err = migrator.Init(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to init migrations: %w", err)
	}
	_, err = migrator.Migrate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	svc = &service.WalletService{
		Config: c,
		DB:     dbConn,
		Logger: logging.Logger(c.LogFilePath),
	}
	return svc, nil
}

func clearTable(svc *service.WalletService, tableName string) error {
	_, err := svc.DB.Exec(fmt.Sprintf("DELETE FROM %s", tableName))
	return err
}

// unsafe parse jwt method to pull out userId claim
// should be used only in integration_tests package
func getUserIdFromToken(token string) int64 {
	parsedToken, _, _ := new(jwt.Parser).ParseUnverified(token, jwt.MapClaims{})
	claims, _ := parsedToken.Claims.(jwt.MapClaims)
	return int64(claims["id"].(float64))
}

func createUsers(svc *service.WalletService, usersToCreate int) (logins []ExpectedCreateUserResponseBody, tokens []string, err error) {
	logins = []ExpectedCreateUserResponseBody{}
	tokens = []string{}
	for i := 0; i < usersToCreate; i++ {
		user, err := svc.CreateUser(context.Background(), "", "")
		if err != nil {
			return nil, nil, err
		}
		var login ExpectedCreateUserResponseBody
		login.Login = user.Login
		login.Password = user.Password
		logins = append(logins, login)
		token, _, err := svc.GenerateToken(context.Background(), login.Login, login.Password, "")
		if err != nil {
			return nil, nil, err
		}
		tokens = append(tokens, token)
	}
	return logins, tokens, nil
}

type TestSuite struct {
	suite.Suite
	echo *echo.Echo
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = responses.HTTPErrorHandler
	e.Validator = &lib.CustomValidator{Validator: validator.New()}
	return e
}

func (suite *TestSuite) postJSON(path string, body interface{}, token string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	var buf bytes.Buffer
	assert.NoError(suite.T(), json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", token))
	}
	suite.echo.ServeHTTP(rec, req)
	return rec
}

func (suite *TestSuite) getJSON(path, token string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", token))
	}
	suite.echo.ServeHTTP(rec, req)
	return rec
}

func (suite *TestSuite) createTopUpReq(amount, token string) *ExpectedPaymentResponseBody {
	rec := suite.postJSON("/v2/payments/topup", &ExpectedPaymentRequestBody{Amount: amount}, token)
	paymentResponse := &ExpectedPaymentResponseBody{}
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(paymentResponse))
	return paymentResponse
}

func (suite *TestSuite) createTopUpReqError(amount, token string) *responses.ErrorResponse {
	rec := suite.postJSON("/v2/payments/topup", &ExpectedPaymentRequestBody{Amount: amount}, token)
	return decodeErrResponse(suite, rec)
}

func (suite *TestSuite) createWithdrawReq(amount, token string) *ExpectedPaymentResponseBody {
	rec := suite.postJSON("/v2/payments/withdraw", &ExpectedPaymentRequestBody{Amount: amount}, token)
	paymentResponse := &ExpectedPaymentResponseBody{}
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(paymentResponse))
	return paymentResponse
}

func (suite *TestSuite) createWithdrawReqError(amount, token string) *responses.ErrorResponse {
	rec := suite.postJSON("/v2/payments/withdraw", &ExpectedPaymentRequestBody{Amount: amount}, token)
	return decodeErrResponse(suite, rec)
}

func (suite *TestSuite) createTransferReq(transferReq *ExpectedTransferRequestBody, token string) *ExpectedPaymentResponseBody {
	rec := suite.postJSON("/v2/payments/transfer", transferReq, token)
	paymentResponse := &ExpectedPaymentResponseBody{}
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(paymentResponse))
	return paymentResponse
}

func (suite *TestSuite) createTransferReqError(transferReq *ExpectedTransferRequestBody, token string) *responses.ErrorResponse {
	rec := suite.postJSON("/v2/payments/transfer", transferReq, token)
	return decodeErrResponse(suite, rec)
}

func (suite *TestSuite) getBalance(token string) string {
	rec := suite.getJSON("/v2/balance", token)
	balanceResponse := &ExpectedBalanceResponse{}
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(balanceResponse))
	return balanceResponse.Balance
}

func decodeErrResponse(suite *TestSuite, rec *httptest.ResponseRecorder) *responses.ErrorResponse {
	errorResponse := &responses.ErrorResponse{}
	assert.GreaterOrEqual(suite.T(), rec.Code, http.StatusBadRequest)
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(errorResponse))
	return errorResponse
}
