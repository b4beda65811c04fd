package service

import "errors"

// Kind is the closed set of domain failures a payment operation can produce.
// Callers match on the kind, not on error types.
type Kind int

const (
	KindInvalidAmount Kind = iota
	KindInsufficientBalance
	KindAccountNotFound
	KindAlreadyExists
	KindSelfTransfer
	KindVoucherNotFound
	KindVoucherUnusable
	KindEntryNotFound
	KindUnauthorized
	KindTransientConflict
	KindStorageFailure
)

func (k Kind) String() string {
	switch k {
	case KindInvalidAmount:
		return "invalid_amount"
	case KindInsufficientBalance:
		return "insufficient_balance"
	case KindAccountNotFound:
		return "account_not_found"
	case KindAlreadyExists:
		return "already_exists"
	case KindSelfTransfer:
		return "self_transfer_disallowed"
	case KindVoucherNotFound:
		return "voucher_not_found"
	case KindVoucherUnusable:
		return "voucher_unusable"
	case KindEntryNotFound:
		return "entry_not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindTransientConflict:
		return "transient_conflict"
	default:
		return "storage_failure"
	}
}

// Error carries a failure kind plus a human readable detail string.
type Error struct {
	Kind   Kind
	Detail string
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Detail
}

func newError(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// ErrorKind extracts the domain failure kind from err. Unrecognized errors
// are reported as storage failures.
func ErrorKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorageFailure
}

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
