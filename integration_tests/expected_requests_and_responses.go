package integration_tests

import "time"

type ExpectedCreateUserRequestBody struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type ExpectedCreateUserResponseBody struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type ExpectedAuthRequestBody struct {
	Login        string `json:"login"`
	Password     string `json:"password"`
	RefreshToken string `json:"refresh_token"`
}

type ExpectedAuthResponseBody struct {
	RefreshToken string `json:"refresh_token"`
	AccessToken  string `json:"access_token"`
}

type ExpectedBalanceResponse struct {
	Balance string `json:"balance"`
}

// amounts are sent as strings; the server side accepts both quoted and bare
// JSON numbers
type ExpectedPaymentRequestBody struct {
	Amount string `json:"amount"`
}

type ExpectedTransferRequestBody struct {
	Amount            string `json:"amount"`
	RecipientUsername string `json:"recipient_username"`
	Description       string `json:"description,omitempty"`
}

type ExpectedPaymentResponseBody struct {
	Message    string    `json:"message"`
	Amount     string    `json:"amount"`
	NewBalance string    `json:"new_balance"`
	EntryID    int64     `json:"entry_id"`
	Timestamp  time.Time `json:"timestamp"`
}

type ExpectedIssueRequestVoucherRequestBody struct {
	Amount      string     `json:"amount"`
	MaxUseCount int        `json:"max_use_count"`
	Expire      *time.Time `json:"expire,omitempty"`
}

type ExpectedRedeemVoucherRequestBody struct {
	Amount string `json:"amount,omitempty"`
}

type ExpectedVoucherResponseBody struct {
	Token  string `json:"token"`
	Type   string `json:"type"`
	Amount string `json:"amount,omitempty"`
	Expire string `json:"expire,omitempty"`
}

type ExpectedHistoryItem struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Amount    string    `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

type ExpectedHistoryResponseBody struct {
	Username      string                `json:"username"`
	TotalBalance  string                `json:"total_balance"`
	HistoryMonths int                   `json:"history_months"`
	Entries       []ExpectedHistoryItem `json:"entries"`
	TotalCount    int                   `json:"total_count"`
}

type ExpectedEntryResponseBody struct {
	ID                int64     `json:"id"`
	Amount            string    `json:"amount"`
	Type              string    `json:"type"`
	Description       string    `json:"description,omitempty"`
	Timestamp         time.Time `json:"timestamp"`
	ReferenceUsername string    `json:"reference_username,omitempty"`
}
