package common

const (
	EntryTypeTopUp            = "topup"
	EntryTypeWithdrawal       = "withdrawal"
	EntryTypeTransferSent     = "transfer_sent"
	EntryTypeTransferReceived = "transfer_received"
	EntryTypeVoucherPayment   = "voucher_payment"

	// VoucherTypeRequest lets the owner collect a fixed amount from whoever
	// redeems the token. VoucherTypeSend lets the redeemer pull an amount of
	// their choosing out of the owner's balance.
	VoucherTypeRequest = "request_payment"
	VoucherTypeSend    = "send_payment"
)
