// Package bankwire defines the binary wire contract of the bank API.
//
// The messages mirror proto/bank.proto and are encoded in the protobuf wire
// format. The schema is small and fixed, so the codec is written directly
// against the wire primitives instead of generated code; payloads stay
// byte-compatible with any protoc- or protobufjs-generated peer.
package bankwire

import "errors"

// ErrMalformedMessage indicates that a payload does not parse as the schema.
var ErrMalformedMessage = errors.New("malformed message")

// Error kinds carried by ErrorResponse.
const (
	KindInvalidArgument   = "invalid_argument"
	KindNotFound          = "not_found"
	KindInsufficientFunds = "insufficient_funds"
	KindMalformedMessage  = "malformed_message"
	KindInternal          = "internal"
)

// Message is implemented by every wire message.
type Message interface {
	Marshal() []byte
}

// CreateUserRequest asks the ledger to create a named account.
type CreateUserRequest struct {
	Name string `validate:"required"`
}

// CreateUserResponse carries the new account id.
type CreateUserResponse struct {
	ID      string
	Message string
}

// DepositRequest credits an account.
type DepositRequest struct {
	UserID string `validate:"required"`
	Amount int64  `validate:"required,gt=0"`
}

// DepositResponse carries the balance after the deposit.
type DepositResponse struct {
	NewBalance int64
	Message    string
}

// WithdrawRequest debits an account.
type WithdrawRequest struct {
	UserID string `validate:"required"`
	Amount int64  `validate:"required,gt=0"`
}

// WithdrawResponse carries the balance after the withdrawal.
type WithdrawResponse struct {
	NewBalance int64
	Message    string
}

// GetBalanceRequest reads an account balance.
type GetBalanceRequest struct {
	UserID string `validate:"required"`
}

// GetBalanceResponse carries the current balance.
type GetBalanceResponse struct {
	Balance int64
}

// SendRequest moves funds between two accounts.
type SendRequest struct {
	FromUserID string `validate:"required"`
	ToUserID   string `validate:"required"`
	Amount     int64  `validate:"required,gt=0"`
}

// SendResponse carries the sender's balance after the transfer.
type SendResponse struct {
	Message            string
	FromUserNewBalance int64
}

// ErrorResponse is the envelope returned on every failure path.
type ErrorResponse struct {
	Kind    string
	Message string
}
