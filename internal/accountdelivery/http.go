// Package accountdelivery manages delivery layer of accounts.
//
// Request and response bodies are the binary messages of internal/bankwire;
// gin carries the routing while the package itself does the decoding,
// validation and error-to-status mapping.
package accountdelivery

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/d-morgun/proto-bank/internal/bankwire"
	"github.com/d-morgun/proto-bank/internal/domain"
	"github.com/d-morgun/proto-bank/pkg/errorspkg"
	"github.com/d-morgun/proto-bank/pkg/web"
)

// Service provides service layer interface needed by account delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package accountdelivery
type Service interface {
	Create(ctx context.Context, name string) (domain.Account, error)
	Get(ctx context.Context, id string) (domain.Account, error)
	Deposit(ctx context.Context, id string, amount int64) (domain.Account, error)
	Withdraw(ctx context.Context, id string, amount int64) (domain.Account, error)
	Transfer(ctx context.Context, fromID, toID string, amount int64) (domain.TransferTxResult, error)
}

// Handler facilitates account delivery layer logic.
type Handler struct {
	service  Service
	validate *validator.Validate
}

// NewHandler returns account handler.
func NewHandler(as Service) Handler {
	return Handler{
		service:  as,
		validate: validator.New(),
	}
}

type unmarshaler interface {
	Unmarshal(data []byte) error
}

// decode reads the raw body into the wire message, answering 400 with a
// malformed_message envelope when the payload does not parse.
func (h *Handler) decode(gctx *gin.Context, m unmarshaler) bool {
	l := zerolog.Ctx(gctx.Request.Context())

	body, err := gctx.GetRawData()
	if err == nil {
		err = m.Unmarshal(body)
	}

	if err != nil {
		l.Info().Err(err).Send()
		writeError(gctx, http.StatusBadRequest, bankwire.KindMalformedMessage, bankwire.ErrMalformedMessage)

		return false
	}

	return true
}

// valid checks the decoded message's field constraints, answering 400 with
// an invalid_argument envelope naming the first failed field.
func (h *Handler) valid(gctx *gin.Context, m any) bool {
	err := h.validate.Struct(m)
	if err == nil {
		return true
	}

	l := zerolog.Ctx(gctx.Request.Context())
	l.Info().Err(err).Send()

	errMsg := "invalid request"

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		field := ve[0]
		errMsg = field.Field() + web.GetErrorMsg(field)
	}

	web.Proto(gctx, http.StatusBadRequest, &bankwire.ErrorResponse{
		Kind:    bankwire.KindInvalidArgument,
		Message: errMsg,
	})

	return false
}

func writeError(gctx *gin.Context, status int, kind string, err error) {
	web.Proto(gctx, status, &bankwire.ErrorResponse{
		Kind:    kind,
		Message: err.Error(),
	})
}

// Create handles http request to create an account.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var req bankwire.CreateUserRequest
	if !h.decode(gctx, &req) || !h.valid(gctx, &req) {
		return
	}

	createdAccount, err := h.service.Create(ctx, req.Name)
	if err != nil {
		if err == domain.ErrNameRequired {
			writeError(gctx, http.StatusBadRequest, bankwire.KindInvalidArgument, err)
			return
		}

		writeError(gctx, http.StatusInternalServerError, bankwire.KindInternal, errorspkg.ErrInternal)

		return
	}

	web.Proto(gctx, http.StatusOK, &bankwire.CreateUserResponse{
		ID:      createdAccount.ID,
		Message: fmt.Sprintf("User %s created successfully!", createdAccount.Name),
	})
}

// Deposit handles http request to credit an account.
func (h *Handler) Deposit(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var req bankwire.DepositRequest
	if !h.decode(gctx, &req) || !h.valid(gctx, &req) {
		return
	}

	account, err := h.service.Deposit(ctx, req.UserID, req.Amount)
	if err != nil {
		switch err {
		case domain.ErrAccountNotFound:
			writeError(gctx, http.StatusNotFound, bankwire.KindNotFound, err)
		case domain.ErrInvalidAmount:
			writeError(gctx, http.StatusBadRequest, bankwire.KindInvalidArgument, err)
		default:
			writeError(gctx, http.StatusInternalServerError, bankwire.KindInternal, errorspkg.ErrInternal)
		}

		return
	}

	web.Proto(gctx, http.StatusOK, &bankwire.DepositResponse{
		NewBalance: account.Balance,
		Message:    fmt.Sprintf("Deposited $%d successfully", req.Amount),
	})
}

// Withdraw handles http request to debit an account.
func (h *Handler) Withdraw(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var req bankwire.WithdrawRequest
	if !h.decode(gctx, &req) || !h.valid(gctx, &req) {
		return
	}

	account, err := h.service.Withdraw(ctx, req.UserID, req.Amount)
	if err != nil {
		switch err {
		case domain.ErrAccountNotFound:
			writeError(gctx, http.StatusNotFound, bankwire.KindNotFound, err)
		case domain.ErrInsufficientBalance:
			writeError(gctx, http.StatusBadRequest, bankwire.KindInsufficientFunds, err)
		case domain.ErrInvalidAmount:
			writeError(gctx, http.StatusBadRequest, bankwire.KindInvalidArgument, err)
		default:
			writeError(gctx, http.StatusInternalServerError, bankwire.KindInternal, errorspkg.ErrInternal)
		}

		return
	}

	web.Proto(gctx, http.StatusOK, &bankwire.WithdrawResponse{
		NewBalance: account.Balance,
		Message:    fmt.Sprintf("Withdraw $%d successfully", req.Amount),
	})
}

// Balance handles http request to read an account balance.
func (h *Handler) Balance(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var req bankwire.GetBalanceRequest
	if !h.decode(gctx, &req) || !h.valid(gctx, &req) {
		return
	}

	account, err := h.service.Get(ctx, req.UserID)
	if err != nil {
		if err == domain.ErrAccountNotFound {
			writeError(gctx, http.StatusNotFound, bankwire.KindNotFound, err)
			return
		}

		writeError(gctx, http.StatusInternalServerError, bankwire.KindInternal, errorspkg.ErrInternal)

		return
	}

	web.Proto(gctx, http.StatusOK, &bankwire.GetBalanceResponse{
		Balance: account.Balance,
	})
}

// Send handles http request to transfer funds between two accounts.
func (h *Handler) Send(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var req bankwire.SendRequest
	if !h.decode(gctx, &req) || !h.valid(gctx, &req) {
		return
	}

	result, err := h.service.Transfer(ctx, req.FromUserID, req.ToUserID, req.Amount)
	if err != nil {
		switch err {
		case domain.ErrAccountNotFound:
			writeError(gctx, http.StatusNotFound, bankwire.KindNotFound, err)
		case domain.ErrInsufficientBalance:
			writeError(gctx, http.StatusBadRequest, bankwire.KindInsufficientFunds, err)
		case domain.ErrInvalidAmount:
			writeError(gctx, http.StatusBadRequest, bankwire.KindInvalidArgument, err)
		default:
			writeError(gctx, http.StatusInternalServerError, bankwire.KindInternal, errorspkg.ErrInternal)
		}

		return
	}

	web.Proto(gctx, http.StatusOK, &bankwire.SendResponse{
		Message: fmt.Sprintf("Sent $%d from %s to %s",
			req.Amount, result.FromAccount.Name, result.ToAccount.Name),
		FromUserNewBalance: result.FromAccount.Balance,
	})
}
