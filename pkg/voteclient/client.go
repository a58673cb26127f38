// Package voteclient is a typed HTTP client for the voteledger API.
package voteclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/voteledger/voteledger/web/api"
)

// LiveSnapshot requests the live value instead of a historical one.
const LiveSnapshot = uint64(0)

// Client represents a voteledger API client
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new voteledger API client
func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: baseURL,
	}
}

// NewClientWithHTTP creates a new voteledger API client with custom HTTP client and base URL
func NewClientWithHTTP(httpClient *http.Client, baseURL string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

// CreateSnapshot requests a new snapshot and returns its identifier
func (c *Client) CreateSnapshot(ctx context.Context, caller string) (uint64, error) {
	var resp api.SnapshotResponse
	err := c.post(ctx, "/v1/snapshots", api.SnapshotRequest{Caller: caller}, &resp)
	if err != nil {
		return 0, err
	}
	return resp.SnapshotID, nil
}

// Delegate establishes a delegation from delegator to delegatee
func (c *Client) Delegate(ctx context.Context, delegator, delegatee string) error {
	req := api.DelegationRequest{Delegator: delegator, Delegatee: delegatee}
	return c.post(ctx, "/v1/delegations", req, nil)
}

// Undelegate removes the delegator's delegation
func (c *Client) Undelegate(ctx context.Context, delegator string) error {
	url := fmt.Sprintf("%s/v1/delegations/%s", c.baseURL, delegator)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	return c.do(httpReq, nil)
}

// Balance retrieves an account balance. Pass LiveSnapshot for the live
// balance or a snapshot identifier for a historical one.
func (c *Client) Balance(ctx context.Context, account string, snapshotID uint64) (api.BalanceResponse, error) {
	url := fmt.Sprintf("%s/v1/accounts/%s/balance", c.baseURL, account)
	if snapshotID != LiveSnapshot {
		url = fmt.Sprintf("%s?snapshot=%d", url, snapshotID)
	}

	var resp api.BalanceResponse
	err := c.get(ctx, url, &resp)
	return resp, err
}

// VotingPower retrieves an account's voting power, live or at a snapshot
func (c *Client) VotingPower(ctx context.Context, account string, snapshotID uint64) (api.VotingPowerResponse, error) {
	url := fmt.Sprintf("%s/v1/accounts/%s/voting-power", c.baseURL, account)
	if snapshotID != LiveSnapshot {
		url = fmt.Sprintf("%s?snapshot=%d", url, snapshotID)
	}

	var resp api.VotingPowerResponse
	err := c.get(ctx, url, &resp)
	return resp, err
}

// ListSnapshots retrieves a page of recorded snapshots
func (c *Client) ListSnapshots(ctx context.Context, page, perPage uint64) (api.SnapshotsResponse, error) {
	url := fmt.Sprintf("%s/v1/snapshots?page=%d&per_page=%d", c.baseURL, page, perPage)

	var resp api.SnapshotsResponse
	err := c.get(ctx, url, &resp)
	return resp, err
}

// ListDelegationEvents retrieves a page of recorded delegation events,
// optionally filtered by action
func (c *Client) ListDelegationEvents(ctx context.Context, action string, page, perPage uint64) (api.DelegationEventsResponse, error) {
	url := fmt.Sprintf("%s/v1/delegations/events?page=%d&per_page=%d", c.baseURL, page, perPage)
	if action != "" {
		url = fmt.Sprintf("%s&action=%s", url, action)
	}

	var resp api.DelegationEventsResponse
	err := c.get(ctx, url, &resp)
	return resp, err
}

// Transfer moves tokens between accounts
func (c *Client) Transfer(ctx context.Context, from, to string, amount uint64) error {
	req := api.TransferRequest{From: from, To: to, Amount: amount}
	return c.post(ctx, "/v1/transfers", req, nil)
}

// Mint creates new tokens on the target account
func (c *Client) Mint(ctx context.Context, to string, amount uint64) error {
	req := api.MintRequest{To: to, Amount: amount}
	return c.post(ctx, "/v1/mint", req, nil)
}

// Burn destroys tokens from the source account
func (c *Client) Burn(ctx context.Context, from string, amount uint64) error {
	req := api.BurnRequest{From: from, Amount: amount}
	return c.post(ctx, "/v1/burn", req, nil)
}

func (c *Client) get(ctx context.Context, url string, out any) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	return c.do(httpReq, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	return c.do(httpReq, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// decodeAPIError extracts the structured error message when present
func decodeAPIError(resp *http.Response) error {
	var apiErr struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}

	body, err := io.ReadAll(resp.Body)
	if err == nil && json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
		return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, apiErr.Message)
	}

	return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
}
