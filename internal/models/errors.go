package models

import "errors"

// Upstream failures. The API client reports these as messages, never as
// returned errors, but callers decoding a Response use them.
var (
	ErrUpstreamRejected   = errors.New("upstream request failed")
	ErrUnparsableResponse = errors.New("unparsable upstream response")
	ErrEmptyResult        = errors.New("upstream response has no data")
)

// Session failures.
var (
	ErrNoSession      = errors.New("no session")
	ErrInvalidSession = errors.New("session expired or invalid")
)

// Client-side validation and business-rule rejections.
var (
	ErrBelowMinimum        = errors.New("O valor mínimo para levantamento é €10")
	ErrInsufficientBalance = errors.New("Saldo insuficiente para este levantamento")
	ErrAccountRequired     = errors.New("Por favor, selecione uma conta bancária")
	ErrInvalidPhone        = errors.New("Por favor, insira um número de telemóvel português válido (9 dígitos começando com 91, 92, 93 ou 96)")
	ErrInvalidIBAN         = errors.New("Por favor, insira um IBAN português válido no formato PT50 seguido de 21 dígitos")
	ErrMissingFields       = errors.New("Por favor, preencha todos os campos corretamente.")
	ErrInvalidEmail        = errors.New("Por favor, insira um e-mail válido.")
	ErrRateLimited         = errors.New("Demasiados pedidos. Aguarde um momento.")
)

var ErrWithdrawFailed = errors.New("Falha no levantamento. Por favor, contacte o suporte ou tente novamente")

// UpstreamError carries the message of a call the upstream API rejected.
type UpstreamError struct {
	Message string
}

func (e *UpstreamError) Error() string {
	return e.Message
}

func (e *UpstreamError) Unwrap() error {
	return ErrUpstreamRejected
}

// NewUpstreamError builds the error for a failed response, falling back to
// fallback when the response has no message.
func NewUpstreamError(resp Response, fallback string) error {
	message := resp.Message
	if message == "" {
		message = fallback
	}
	return &UpstreamError{Message: message}
}
