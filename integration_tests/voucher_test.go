package integration_tests

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
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

type VoucherTestSuite struct {
	TestSuite
	service    *service.WalletService
	aliceLogin ExpectedCreateUserResponseBody
	aliceToken string
	bobLogin   ExpectedCreateUserResponseBody
	bobToken   string
}

func (suite *VoucherTestSuite) SetupSuite() {
	svc, err := WalletTestServiceInit()
	if err != nil {
		log.Fatalf("Error initializing test service: %v", err)
	}
	users, userTokens, err := createUsers(svc, 2)
	if err != nil {
		log.Fatalf("Error creating test users: %v", err)
	}
	suite.service = svc
	suite.aliceLogin = users[0]
	suite.aliceToken = userTokens[0]
	suite.bobLogin = users[1]
	suite.bobToken = userTokens[1]

	e := newTestEcho()
	e.Use(tokens.Middleware(suite.service.Config.JWTSecret))
	e.GET("/v2/balance", controllers.NewBalanceController(suite.service).Balance)
	e.POST("/v2/payments/topup", controllers.NewPaymentController(suite.service).TopUp)
	voucherCtrl := controllers.NewVoucherController(suite.service)
	e.POST("/v2/vouchers/request", voucherCtrl.IssueRequestVoucher)
	e.POST("/v2/vouchers/send", voucherCtrl.IssueSendVoucher)
	e.GET("/v2/vouchers/:token", voucherCtrl.GetVoucher)
	e.POST("/v2/vouchers/:token/redeem", voucherCtrl.RedeemVoucher)
	suite.echo = e
}

func (suite *VoucherTestSuite) TearDownTest() {
	suite.service.ClockOverride = nil
	clearTable(suite.service, "entries")
	clearTable(suite.service, "vouchers")
}

// issueVoucherReq asserts the QR image response and returns the voucher
// token from the response headers.
func (suite *VoucherTestSuite) issueVoucherReq(path string, body interface{}, token string) (voucherToken string) {
	rec := suite.postJSON(path, body, token)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	voucherToken = rec.Header().Get("Voucher-Token")
	assert.NotEmpty(suite.T(), voucherToken)
	assert.NotEmpty(suite.T(), rec.Header().Get("Voucher-Type"))

	// body is a base64 encoded QR code PNG
	decoded, err := base64.StdEncoding.DecodeString(rec.Body.String())
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), []byte{0x89, 'P', 'N', 'G'}, decoded[:4])
	return voucherToken
}

func (suite *VoucherTestSuite) redeemVoucherReq(voucherToken, amount, token string) *ExpectedPaymentResponseBody {
	rec := suite.postJSON("/v2/vouchers/"+voucherToken+"/redeem", &ExpectedRedeemVoucherRequestBody{Amount: amount}, token)
	paymentResponse := &ExpectedPaymentResponseBody{}
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(paymentResponse))
	return paymentResponse
}

func (suite *VoucherTestSuite) redeemVoucherReqError(voucherToken, amount, token string) *responses.ErrorResponse {
	rec := suite.postJSON("/v2/vouchers/"+voucherToken+"/redeem", &ExpectedRedeemVoucherRequestBody{Amount: amount}, token)
	return decodeErrResponse(&suite.TestSuite, rec)
}

func (suite *VoucherTestSuite) getVoucherReq(voucherToken, token string) (*ExpectedVoucherResponseBody, *httptest.ResponseRecorder) {
	rec := suite.getJSON("/v2/vouchers/"+voucherToken, token)
	if rec.Code != http.StatusOK {
		return nil, rec
	}
	voucherResponse := &ExpectedVoucherResponseBody{}
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(voucherResponse))
	return voucherResponse, rec
}

func (suite *VoucherTestSuite) TestRequestVoucherRedeemedUpToUseLimit() {
	suite.createTopUpReq("100.00", suite.bobToken)

	voucherToken := suite.issueVoucherReq("/v2/vouchers/request", &ExpectedIssueRequestVoucherRequestBody{
		Amount:      "30.00",
		MaxUseCount: 2,
	}, suite.aliceToken)

	voucherResponse, _ := suite.getVoucherReq(voucherToken, suite.bobToken)
	assert.Equal(suite.T(), common.VoucherTypeRequest, voucherResponse.Type)
	assert.Equal(suite.T(), "30.00", voucherResponse.Amount)
	assert.NotEmpty(suite.T(), voucherResponse.Expire)

	firstRedeem := suite.redeemVoucherReq(voucherToken, "", suite.bobToken)
	assert.Equal(suite.T(), "30.00", firstRedeem.Amount)
	assert.Equal(suite.T(), "70.00", firstRedeem.NewBalance)

	secondRedeem := suite.redeemVoucherReq(voucherToken, "", suite.bobToken)
	assert.Equal(suite.T(), "40.00", secondRedeem.NewBalance)

	// use limit reached
	errorResponse := suite.redeemVoucherReqError(voucherToken, "", suite.bobToken)
	assert.Equal(suite.T(), responses.VoucherUnusableError.Message, errorResponse.Message)

	assert.Equal(suite.T(), "60.00", suite.getBalance(suite.aliceToken))
	assert.Equal(suite.T(), "40.00", suite.getBalance(suite.bobToken))
}

func (suite *VoucherTestSuite) TestRequestVoucherExpiryBeatsRemainingUses() {
	suite.createTopUpReq("100.00", suite.bobToken)

	voucherToken := suite.issueVoucherReq("/v2/vouchers/request", &ExpectedIssueRequestVoucherRequestBody{
		Amount:      "5.00",
		MaxUseCount: 5,
	}, suite.aliceToken)

	// move past the maximum voucher lifetime; the uses left do not matter
	suite.service.ClockOverride = func() time.Time {
		return time.Now().Add(time.Duration(suite.service.Config.VoucherMaxLifetime)*time.Second + time.Hour)
	}

	errorResponse := suite.redeemVoucherReqError(voucherToken, "", suite.bobToken)
	assert.Equal(suite.T(), responses.VoucherUnusableError.Message, errorResponse.Message)
	assert.Equal(suite.T(), "100.00", suite.getBalance(suite.bobToken))
}

func (suite *VoucherTestSuite) TestOwnVoucherCannotBeRedeemed() {
	suite.createTopUpReq("100.00", suite.aliceToken)

	voucherToken := suite.issueVoucherReq("/v2/vouchers/request", &ExpectedIssueRequestVoucherRequestBody{
		Amount:      "5.00",
		MaxUseCount: 1,
	}, suite.aliceToken)

	errorResponse := suite.redeemVoucherReqError(voucherToken, "", suite.aliceToken)
	assert.Equal(suite.T(), responses.SelfTransferError.Message, errorResponse.Message)
}

func (suite *VoucherTestSuite) TestSendVoucher() {
	suite.createTopUpReq("100.00", suite.aliceToken)

	voucherToken := suite.issueVoucherReq("/v2/vouchers/send", struct{}{}, suite.aliceToken)

	redeemResponse := suite.redeemVoucherReq(voucherToken, "45.00", suite.bobToken)
	assert.Equal(suite.T(), "45.00", redeemResponse.Amount)
	assert.Equal(suite.T(), "45.00", redeemResponse.NewBalance)

	assert.Equal(suite.T(), "55.00", suite.getBalance(suite.aliceToken))
	assert.Equal(suite.T(), "45.00", suite.getBalance(suite.bobToken))

	// single use
	errorResponse := suite.redeemVoucherReqError(voucherToken, "1.00", suite.bobToken)
	assert.Equal(suite.T(), responses.VoucherUnusableError.Message, errorResponse.Message)

	// a used up send voucher reads as not found
	_, rec := suite.getVoucherReq(voucherToken, suite.bobToken)
	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)
}

func (suite *VoucherTestSuite) TestSendVoucherRequiresAmount() {
	suite.createTopUpReq("100.00", suite.aliceToken)

	voucherToken := suite.issueVoucherReq("/v2/vouchers/send", struct{}{}, suite.aliceToken)

	errorResponse := suite.redeemVoucherReqError(voucherToken, "", suite.bobToken)
	assert.Equal(suite.T(), responses.InvalidAmountError.Message, errorResponse.Message)
}

func (suite *VoucherTestSuite) TestSendVoucherOverdraftRejected() {
	suite.createTopUpReq("10.00", suite.aliceToken)

	voucherToken := suite.issueVoucherReq("/v2/vouchers/send", struct{}{}, suite.aliceToken)

	errorResponse := suite.redeemVoucherReqError(voucherToken, "50.00", suite.bobToken)
	assert.Equal(suite.T(), responses.NotEnoughBalanceError.Message, errorResponse.Message)
	assert.Equal(suite.T(), "10.00", suite.getBalance(suite.aliceToken))
	assert.Equal(suite.T(), "0.00", suite.getBalance(suite.bobToken))
}

func (suite *VoucherTestSuite) TestIssuingSendVoucherPrunesUnusedOne() {
	firstToken := suite.issueVoucherReq("/v2/vouchers/send", struct{}{}, suite.aliceToken)
	secondToken := suite.issueVoucherReq("/v2/vouchers/send", struct{}{}, suite.aliceToken)
	assert.NotEqual(suite.T(), firstToken, secondToken)

	_, rec := suite.getVoucherReq(firstToken, suite.bobToken)
	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)

	voucherResponse, _ := suite.getVoucherReq(secondToken, suite.bobToken)
	assert.Equal(suite.T(), common.VoucherTypeSend, voucherResponse.Type)
}

func (suite *VoucherTestSuite) TestIssuingSendVoucherKeepsRedeemedOne() {
	suite.createTopUpReq("100.00", suite.aliceToken)

	firstToken := suite.issueVoucherReq("/v2/vouchers/send", struct{}{}, suite.aliceToken)
	suite.redeemVoucherReq(firstToken, "10.00", suite.bobToken)

	// only unused send vouchers are pruned; the redeemed one stays on record
	suite.issueVoucherReq("/v2/vouchers/send", struct{}{}, suite.aliceToken)

	voucher, err := suite.service.VoucherByToken(context.Background(), firstToken)
	assert.NoError(suite.T(), err)
	useCount, err := suite.service.VoucherUseCount(context.Background(), voucher)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, useCount)
}

func (suite *VoucherTestSuite) TestRedeemUnknownTokenNotFound() {
	errorResponse := suite.redeemVoucherReqError("no-such-token", "", suite.bobToken)
	assert.Equal(suite.T(), responses.VoucherNotFoundError.Code, errorResponse.Code)
}

func TestVoucherTestSuite(t *testing.T) {
	requireDatabase(t)
	suite.Run(t, new(VoucherTestSuite))
}
