package integration_tests

import (
	"context"
	"log"
	"testing"
	"time"

	"github.com/0x5916/Alanpay-backend/common"
	"github.com/0x5916/Alanpay-backend/controllers"
	"github.com/0x5916/Alanpay-backend/lib/responses"
	"github.com/0x5916/Alanpay-backend/lib/service"
	"github.com/0x5916/Alanpay-backend/lib/tokens"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type PaymentTestSuite struct {
	TestSuite
	service    *service.WalletService
	aliceLogin ExpectedCreateUserResponseBody
	aliceToken string
}

func (suite *PaymentTestSuite) SetupSuite() {
	svc, err := WalletTestServiceInit()
	if err != nil {
		log.Fatalf("Error initializing test service: %v", err)
	}
	users, userTokens, err := createUsers(svc, 1)
	if err != nil {
		log.Fatalf("Error creating test users: %v", err)
	}
	suite.service = svc
	suite.aliceLogin = users[0]
	suite.aliceToken = userTokens[0]

	e := newTestEcho()
	e.Use(tokens.Middleware(suite.service.Config.JWTSecret))
	e.GET("/v2/balance", controllers.NewBalanceController(suite.service).Balance)
	paymentCtrl := controllers.NewPaymentController(suite.service)
	e.POST("/v2/payments/topup", paymentCtrl.TopUp)
	e.POST("/v2/payments/withdraw", paymentCtrl.Withdraw)
	suite.echo = e
}

func (suite *PaymentTestSuite) TearDownTest() {
	clearTable(suite.service, "entries")
	clearTable(suite.service, "vouchers")
}

func (suite *PaymentTestSuite) TestTopUpAndWithdraw() {
	topUpResponse := suite.createTopUpReq("100.00", suite.aliceToken)
	assert.Equal(suite.T(), "100.00", topUpResponse.Amount)
	assert.Equal(suite.T(), "100.00", topUpResponse.NewBalance)
	assert.NotZero(suite.T(), topUpResponse.EntryID)

	assert.Equal(suite.T(), "100.00", suite.getBalance(suite.aliceToken))

	withdrawResponse := suite.createWithdrawReq("40.50", suite.aliceToken)
	assert.Equal(suite.T(), "40.50", withdrawResponse.Amount)
	assert.Equal(suite.T(), "59.50", withdrawResponse.NewBalance)

	assert.Equal(suite.T(), "59.50", suite.getBalance(suite.aliceToken))

	aliceId := getUserIdFromToken(suite.aliceToken)
	entries, err := suite.service.EntriesSince(context.Background(), aliceId, time.Time{}, 0, 0)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, len(entries))
	// newest first
	assert.Equal(suite.T(), common.EntryTypeWithdrawal, entries[0].EntryType)
	assert.Equal(suite.T(), "-40.50", entries[0].Amount.StringFixed(2))
	assert.Equal(suite.T(), common.EntryTypeTopUp, entries[1].EntryType)
	assert.Equal(suite.T(), "100.00", entries[1].Amount.StringFixed(2))
}

func (suite *PaymentTestSuite) TestWithdrawMoreThanBalance() {
	suite.createTopUpReq("10.00", suite.aliceToken)

	errorResponse := suite.createWithdrawReqError("20.00", suite.aliceToken)
	assert.Equal(suite.T(), responses.NotEnoughBalanceError.Code, errorResponse.Code)
	assert.Equal(suite.T(), responses.NotEnoughBalanceError.Message, errorResponse.Message)

	// the failed withdrawal must not leave an entry behind
	assert.Equal(suite.T(), "10.00", suite.getBalance(suite.aliceToken))
	aliceId := getUserIdFromToken(suite.aliceToken)
	entries, err := suite.service.EntriesSince(context.Background(), aliceId, time.Time{}, 0, 0)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, len(entries))
}

func (suite *PaymentTestSuite) TestNegativeAmountRejected() {
	errorResponse := suite.createTopUpReqError("-5.00", suite.aliceToken)
	assert.Equal(suite.T(), responses.InvalidAmountError.Message, errorResponse.Message)
}

func (suite *PaymentTestSuite) TestSubCentAmountRejected() {
	errorResponse := suite.createTopUpReqError("1.234", suite.aliceToken)
	assert.Equal(suite.T(), responses.InvalidAmountError.Message, errorResponse.Message)

	assert.Equal(suite.T(), "0.00", suite.getBalance(suite.aliceToken))
}

func TestPaymentTestSuite(t *testing.T) {
	requireDatabase(t)
	suite.Run(t, new(PaymentTestSuite))
}
