package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/skillified/skillified-api/internal/observability"
)

const (
	rpcMethodCall     = "ledger_call"
	rpcMethodTransact = "ledger_transact"

	codeNotFound = -32004
	codeReverted = -32000
)

// Config holds connection parameters for the ledger gateway.
type Config struct {
	Endpoint        string
	ContractAddress string
	RequestTimeout  time.Duration
}

// RPCClient implements Client against a JSON-RPC 2.0 ledger gateway. Reads
// use ledger_call, writes use ledger_transact; the gateway blocks until the
// transaction is confirmed and returns its identifier.
type RPCClient struct {
	http     *resty.Client
	contract string
	logger   zerolog.Logger
	nextID   atomic.Int64
}

// NewRPCClient constructs a ledger client bound to one contract address.
func NewRPCClient(cfg Config, logger zerolog.Logger) (*RPCClient, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("ledger endpoint must be provided")
	}
	if cfg.ContractAddress == "" {
		return nil, fmt.Errorf("ledger contract address must be provided")
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := resty.New().
		SetBaseURL(cfg.Endpoint).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	return &RPCClient{
		http:     client,
		contract: cfg.ContractAddress,
		logger:   logger.With().Str("component", "ledger_client").Logger(),
	}, nil
}

type rpcRequest struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      int64     `json:"id"`
	Method  string    `json:"method"`
	Params  rpcParams `json:"params"`
}

type rpcParams struct {
	Contract string        `json:"contract"`
	Method   string        `json:"method"`
	Args     []interface{} `json:"args"`
	From     string        `json:"from,omitempty"`
	Value    string        `json:"value,omitempty"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

func (c *RPCClient) call(ctx context.Context, method string, out interface{}, args ...interface{}) error {
	return c.invoke(ctx, rpcMethodCall, rpcParams{Contract: c.contract, Method: method, Args: args}, out)
}

func (c *RPCClient) transact(ctx context.Context, method, from string, value *big.Int, args ...interface{}) (TxID, error) {
	params := rpcParams{Contract: c.contract, Method: method, Args: args, From: from}
	if value != nil && value.Sign() > 0 {
		params.Value = value.String()
	}

	var txID TxID
	err := c.invoke(ctx, rpcMethodTransact, params, &txID)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	observability.LedgerWrites().WithLabelValues(method, outcome).Inc()
	if err != nil {
		return "", err
	}

	c.logger.Info().Str("method", method).Str("tx_id", string(txID)).Msg("ledger write confirmed")

	return txID, nil
}

func (c *RPCClient) invoke(ctx context.Context, rpcMethod string, params rpcParams, out interface{}) error {
	req := rpcRequest{
		JSONRPC: "2.0",
		ID:      c.nextID.Add(1),
		Method:  rpcMethod,
		Params:  params,
	}

	var resp rpcResponse
	httpResp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		Post("")
	if err != nil {
		return fmt.Errorf("ledger %s %s: %w", rpcMethod, params.Method, err)
	}
	if httpResp.IsError() {
		return fmt.Errorf("ledger %s %s: unexpected status %d", rpcMethod, params.Method, httpResp.StatusCode())
	}

	if resp.Error != nil {
		switch resp.Error.Code {
		case codeNotFound:
			return fmt.Errorf("%s: %w", params.Method, ErrNotFound)
		case codeReverted:
			return fmt.Errorf("%s: %s: %w", params.Method, resp.Error.Message, ErrRejected)
		default:
			return fmt.Errorf("ledger %s: %w", params.Method, resp.Error)
		}
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(resp.Result, out); err != nil {
		return fmt.Errorf("decode %s result: %w", params.Method, err)
	}

	return nil
}

// Wire representations returned by the gateway. Amounts travel as decimal
// strings in smallest units, timestamps as unix seconds.
type wireCourse struct {
	ID                  uint64 `json:"id"`
	Title               string `json:"title"`
	Instructor          string `json:"instructor"`
	MaterialCID         string `json:"materialContentId"`
	ExamID              string `json:"examId"`
	CertificateImageCID string `json:"certificateImageContentId"`
	Fee                 string `json:"fee"`
}

type wireEnrollment struct {
	CourseID    uint64 `json:"courseId"`
	Student     string `json:"student"`
	StudentName string `json:"studentName"`
	EnrolledAt  int64  `json:"enrolledAt"`
}

type wireExamResult struct {
	CourseID   uint64 `json:"courseId"`
	Student    string `json:"student"`
	Passed     bool   `json:"passed"`
	RecordedAt int64  `json:"recordedAt"`
}

type wireCertificate struct {
	MetadataCID string `json:"metadataContentId"`
	Owner       string `json:"owner"`
	CompletedAt int64  `json:"completedAt"`
}

func (w wireCourse) toCourse() (Course, error) {
	fee, ok := new(big.Int).SetString(w.Fee, 10)
	if !ok {
		return Course{}, fmt.Errorf("invalid course fee %q", w.Fee)
	}

	return Course{
		ID:                  w.ID,
		Title:               w.Title,
		Instructor:          w.Instructor,
		MaterialCID:         w.MaterialCID,
		ExamID:              w.ExamID,
		CertificateImageCID: w.CertificateImageCID,
		Fee:                 fee,
	}, nil
}

func (c *RPCClient) Owner(ctx context.Context) (string, error) {
	var owner string
	if err := c.call(ctx, "owner", &owner); err != nil {
		return "", err
	}
	return owner, nil
}

func (c *RPCClient) CourseCount(ctx context.Context) (uint64, error) {
	var count uint64
	if err := c.call(ctx, "courseCount", &count); err != nil {
		return 0, err
	}
	return count, nil
}

func (c *RPCClient) CourseByID(ctx context.Context, id uint64) (Course, error) {
	var wire wireCourse
	if err := c.call(ctx, "courses", &wire, id); err != nil {
		return Course{}, err
	}
	return wire.toCourse()
}

func (c *RPCClient) AccountBalance(ctx context.Context, address string) (*big.Int, error) {
	var raw string
	if err := c.call(ctx, "accountBalance", &raw, address); err != nil {
		return nil, err
	}

	balance, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil, fmt.Errorf("invalid account balance %q", raw)
	}
	return balance, nil
}

func (c *RPCClient) EnrollInCourse(ctx context.Context, courseID uint64, studentName, from string, value *big.Int) (TxID, error) {
	return c.transact(ctx, "enrollInCourse", from, value, courseID, studentName)
}

func (c *RPCClient) Enrollments(ctx context.Context, student string) ([]Enrollment, error) {
	var wire []wireEnrollment
	if err := c.call(ctx, "getEnrollments", &wire, student); err != nil {
		return nil, err
	}

	enrollments := make([]Enrollment, 0, len(wire))
	for _, w := range wire {
		enrolledAt := time.Time{}
		if ts := timeFromUnix(w.EnrolledAt); ts != nil {
			enrolledAt = *ts
		}
		enrollments = append(enrollments, Enrollment{
			CourseID:    w.CourseID,
			Student:     w.Student,
			StudentName: w.StudentName,
			EnrolledAt:  enrolledAt,
		})
	}

	return enrollments, nil
}

func (c *RPCClient) EnrollmentDate(ctx context.Context, courseID uint64, student string) (*time.Time, error) {
	var seconds int64
	if err := c.call(ctx, "getEnrollmentDate", &seconds, courseID, student); err != nil {
		return nil, err
	}
	return timeFromUnix(seconds), nil
}

func (c *RPCClient) ExamResult(ctx context.Context, courseID uint64, student string) (ExamResult, error) {
	var wire wireExamResult
	if err := c.call(ctx, "examResults", &wire, courseID, student); err != nil {
		return ExamResult{}, err
	}

	return ExamResult{
		CourseID:   wire.CourseID,
		Student:    wire.Student,
		Passed:     wire.Passed,
		RecordedAt: timeFromUnix(wire.RecordedAt),
	}, nil
}

func (c *RPCClient) RecordExamResult(ctx context.Context, courseID uint64, passed bool, from string) (TxID, error) {
	return c.transact(ctx, "recordExamResult", from, nil, courseID, passed)
}

func (c *RPCClient) CompletionDate(ctx context.Context, courseID uint64, student string) (*time.Time, error) {
	var seconds int64
	if err := c.call(ctx, "getCompletionDate", &seconds, courseID, student); err != nil {
		return nil, err
	}
	return timeFromUnix(seconds), nil
}

func (c *RPCClient) MarkCompletionAndIssueCertificate(ctx context.Context, courseID uint64, student, studentName, metadataCID, from string) (TxID, error) {
	return c.transact(ctx, "markCompletionAndIssueCertificate", from, nil, courseID, student, studentName, metadataCID)
}

func (c *RPCClient) Certificate(ctx context.Context, tokenID uint64) (Certificate, error) {
	var wire wireCertificate
	if err := c.call(ctx, "getCertificate", &wire, tokenID); err != nil {
		return Certificate{}, err
	}

	return Certificate{
		TokenID:     tokenID,
		MetadataCID: wire.MetadataCID,
		CompletedAt: timeFromUnix(wire.CompletedAt),
	}, nil
}

func (c *RPCClient) BalanceOf(ctx context.Context, owner string) (int, error) {
	var count int
	if err := c.call(ctx, "balanceOf", &count, owner); err != nil {
		return 0, err
	}
	return count, nil
}

func (c *RPCClient) TokenOfOwnerByIndex(ctx context.Context, owner string, index int) (uint64, error) {
	var tokenID uint64
	if err := c.call(ctx, "tokenOfOwnerByIndex", &tokenID, owner, index); err != nil {
		return 0, err
	}
	return tokenID, nil
}

func (c *RPCClient) CreateCourse(ctx context.Context, params CreateCourseParams, from string) (TxID, error) {
	fee := "0"
	if params.Fee != nil {
		fee = params.Fee.String()
	}
	return c.transact(ctx, "createCourse", from, nil,
		params.Title, params.Instructor, params.MaterialCID, params.ExamID, params.CertificateImageCID, fee)
}
