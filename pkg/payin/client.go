// Package payin is the HTTP client for the payin provider: it exchanges a
// fiat amount for a payment instrument (typically a bank-transfer redirect)
// settling into a crypto-denominated account.
package payin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	IsAPIEnabled bool   `json:"isApiEnabled"`
}

// StatusKind tags a PayinStatus. The provider may introduce new kinds; only
// the ones below carry documented side fields.
type StatusKind string

const (
	// StatusPending carries InitiatedAt.
	StatusPending StatusKind = "pending"
	// StatusCompleted carries CompletedAt.
	StatusCompleted StatusKind = "completed"
	// StatusFailed carries Reason.
	StatusFailed StatusKind = "failed"
)

type Status struct {
	Kind        StatusKind `json:"type"`
	InitiatedAt string     `json:"initiatedAt,omitempty"`
	CompletedAt string     `json:"completedAt,omitempty"`
	Reason      string     `json:"reason,omitempty"`
}

// InstructionsKind tags Instructions; "cop" instructions carry a deposit URL
// and an expiry timestamp.
type InstructionsKind string

const InstructionsCOP InstructionsKind = "cop"

type Instructions struct {
	Kind       InstructionsKind `json:"type"`
	DepositURL string           `json:"depositUrl,omitempty"`
	ExpiresAt  string           `json:"expiresAt,omitempty"`
}

type Payin struct {
	ID           string        `json:"id"`
	Status       *Status       `json:"payinStatus,omitempty"`
	Instructions *Instructions `json:"payinInstructions,omitempty"`
}

// APIError is a response the provider answered with. Transport failures come
// back as plain wrapped errors instead.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("payin provider returned %d: %s", e.StatusCode, e.Detail)
}

// defines the methods that a payin provider client must implement.
type Client interface {
	Accounts(ctx context.Context) ([]Account, error)
	ActiveAccountID(ctx context.Context) (string, error)
	CreatePayin(ctx context.Context, accountID string, fiatAmountCOP decimal.Decimal) (*Payin, error)
	ConvertUSDCToCOP(usdc decimal.Decimal) decimal.Decimal
}

type payinClient struct {
	baseURL         string
	apiKey          string
	usdcToCOPRate   decimal.Decimal
	tokenSymbol     string
	tokenBlockchain string
	httpClient      *http.Client
}

type Config struct {
	BaseURL         string
	APIKey          string
	USDCToCOPRate   decimal.Decimal
	TokenSymbol     string
	TokenBlockchain string
	Timeout         time.Duration
}

func NewClient(cfg Config) Client {
	return &payinClient{
		baseURL:         cfg.BaseURL,
		apiKey:          cfg.APIKey,
		usdcToCOPRate:   cfg.USDCToCOPRate,
		tokenSymbol:     cfg.TokenSymbol,
		tokenBlockchain: cfg.TokenBlockchain,
		httpClient:      &http.Client{Timeout: cfg.Timeout},
	}
}

// Accounts implements Client.
func (c *payinClient) Accounts(ctx context.Context) ([]Account, error) {
	var accounts []Account
	if err := c.do(ctx, http.MethodGet, "/api/accounts", nil, &accounts); err != nil {
		return nil, err
	}

	return accounts, nil
}

// ActiveAccountID implements Client. It picks the first ACTIVE, API-enabled
// account, falling back to the first account when none qualifies.
func (c *payinClient) ActiveAccountID(ctx context.Context) (string, error) {
	accounts, err := c.Accounts(ctx)
	if err != nil {
		return "", err
	}

	if len(accounts) == 0 {
		return "", fmt.Errorf("payin provider returned no accounts")
	}

	for _, account := range accounts {
		if account.Status == "ACTIVE" && account.IsAPIEnabled {
			return account.ID, nil
		}
	}

	return accounts[0].ID, nil
}

type createPayinRequest struct {
	DestinationToken struct {
		Symbol     string `json:"symbol"`
		Blockchain string `json:"blockchain"`
	} `json:"destinationToken"`
	DestinationAccountID string       `json:"destinationMuralAccountId"`
	PayinDetails         payinDetails `json:"payinDetails"`
}

type payinDetails struct {
	Type             string          `json:"type"`
	FiatCurrencyCode string          `json:"fiatCurrencyCode"`
	FiatAmount       decimal.Decimal `json:"fiatAmount"`
}

// CreatePayin implements Client.
func (c *payinClient) CreatePayin(ctx context.Context, accountID string, fiatAmountCOP decimal.Decimal) (*Payin, error) {
	req := createPayinRequest{
		DestinationAccountID: accountID,
		PayinDetails: payinDetails{
			Type:             "cop",
			FiatCurrencyCode: "COP",
			FiatAmount:       fiatAmountCOP,
		},
	}
	req.DestinationToken.Symbol = c.tokenSymbol
	req.DestinationToken.Blockchain = c.tokenBlockchain

	var payin Payin
	if err := c.do(ctx, http.MethodPost, "/api/payins/payin", req, &payin); err != nil {
		return nil, err
	}

	return &payin, nil
}

// ConvertUSDCToCOP implements Client. The rate is configuration supplied by
// the operator; this core never computes conversion itself.
func (c *payinClient) ConvertUSDCToCOP(usdc decimal.Decimal) decimal.Decimal {
	return usdc.Mul(c.usdcToCOPRate)
}

func (c *payinClient) do(ctx context.Context, method, path string, body, dest any) error {
	var reqBody io.Reader

	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}

		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("payin provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Detail: decodeDetail(resp.Body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode payin provider response: %w", err)
	}

	return nil
}

func decodeDetail(body io.Reader) string {
	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}

	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return "request failed"
	}

	if payload.Detail != "" {
		return payload.Detail
	}

	if payload.Message != "" {
		return payload.Message
	}

	return "request failed"
}
