package aptos

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	bCtx "github.com/x-xyz/pixel-relayer/base/ctx"
)

var (
	ErrStatusCodeNotOk = errors.New("http.status is not 2xx")
)

// Client talks to the REST api (v1) of an aptos full node
type Client interface {
	LedgerInfo(bCtx.Ctx) (*LedgerInfo, error)
	Account(ctx bCtx.Ctx, address string) (*AccountInfo, error)
	EstimateGasPrice(bCtx.Ctx) (*GasEstimation, error)
	// EncodeSubmission returns the bytes to sign for the transaction
	EncodeSubmission(bCtx.Ctx, *TransactionRequest) ([]byte, error)
	SubmitTransaction(bCtx.Ctx, *SignedTransactionRequest) (*PendingTransaction, error)
}

type ClientCfg struct {
	HttpClient http.Client
	// NodeUrl is the node root, like https://fullnode.testnet.aptoslabs.com
	NodeUrl string
	Timeout time.Duration
}

type LedgerInfo struct {
	ChainId       uint8  `json:"chain_id"`
	LedgerVersion string `json:"ledger_version"`
}

type AccountInfo struct {
	SequenceNumber    uint64 `json:"sequence_number,string"`
	AuthenticationKey string `json:"authentication_key"`
}

type GasEstimation struct {
	GasEstimate              uint64 `json:"gas_estimate"`
	DeprioritizedGasEstimate uint64 `json:"deprioritized_gas_estimate"`
	PrioritizedGasEstimate   uint64 `json:"prioritized_gas_estimate"`
}

type EntryFunctionPayload struct {
	Type          string        `json:"type"`
	Function      string        `json:"function"`
	TypeArguments []string      `json:"type_arguments"`
	Arguments     []interface{} `json:"arguments"`
}

type TransactionRequest struct {
	Sender                  string                `json:"sender"`
	SequenceNumber          uint64                `json:"sequence_number,string"`
	MaxGasAmount            uint64                `json:"max_gas_amount,string"`
	GasUnitPrice            uint64                `json:"gas_unit_price,string"`
	ExpirationTimestampSecs uint64                `json:"expiration_timestamp_secs,string"`
	Payload                 *EntryFunctionPayload `json:"payload"`
}

type Signature struct {
	Type      string `json:"type"`
	PublicKey string `json:"public_key"`
	Signature string `json:"signature"`
}

type SignedTransactionRequest struct {
	TransactionRequest
	Signature *Signature `json:"signature"`
}

type PendingTransaction struct {
	Hash string `json:"hash"`
}

// ApiError is the error body of the node
type ApiError struct {
	StatusCode  int    `json:"-"`
	Message     string `json:"message"`
	ErrorCode   string `json:"error_code"`
	VmErrorCode *int   `json:"vm_error_code,omitempty"`
}

func (e *ApiError) Error() string {
	return fmt.Sprintf("aptos node status %d %s: %s", e.StatusCode, e.ErrorCode, e.Message)
}

func (e *ApiError) Unwrap() error {
	return ErrStatusCodeNotOk
}
