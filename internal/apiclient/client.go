// Package apiclient is the game client's view of the backend HTTP API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrNetwork marks transport-level failures: backend unreachable,
// connection dropped, response unreadable.
var ErrNetwork = errors.New("backend unreachable")

// APIError is a non-2xx backend response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend rejected request (%d): %s", e.Status, e.Message)
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type VerifyRequest struct {
	UID         string `json:"uid"`
	Username    string `json:"username"`
	AccessToken string `json:"accessToken"`
}

type VerifiedUser struct {
	UID      string `json:"uid"`
	Username string `json:"username"`
}

type verifyResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    VerifiedUser `json:"user"`
}

func (c *Client) VerifyAuth(ctx context.Context, req VerifyRequest) (VerifiedUser, error) {
	var resp verifyResponse
	if err := c.do(ctx, http.MethodPost, "/auth/verify", "", req, &resp); err != nil {
		return VerifiedUser{}, err
	}
	return resp.User, nil
}

type CompletePaymentRequest struct {
	PaymentID string `json:"paymentId"`
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	Score     int64  `json:"score"`
}

type PaymentInfo struct {
	PaymentID   string     `json:"paymentId"`
	UserID      string     `json:"userId"`
	Amount      float64    `json:"amount"`
	Memo        string     `json:"memo"`
	Status      string     `json:"status"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type ScoreInfo struct {
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Score     int64     `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}

type CompletePaymentResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Payment PaymentInfo `json:"payment"`
	Score   *ScoreInfo  `json:"score,omitempty"`
}

// CompletePayment runs the server-side completion step. token is the
// wallet access token of the paying user.
func (c *Client) CompletePayment(ctx context.Context, token string, req CompletePaymentRequest) (CompletePaymentResponse, error) {
	var resp CompletePaymentResponse
	if err := c.do(ctx, http.MethodPost, "/payments/complete", token, req, &resp); err != nil {
		return CompletePaymentResponse{}, err
	}
	return resp, nil
}

type paymentLookupResponse struct {
	Success bool        `json:"success"`
	Payment PaymentInfo `json:"payment"`
}

func (c *Client) Payment(ctx context.Context, paymentID string) (PaymentInfo, error) {
	var resp paymentLookupResponse
	if err := c.do(ctx, http.MethodGet, "/payments/"+paymentID, "", nil, &resp); err != nil {
		return PaymentInfo{}, err
	}
	return resp.Payment, nil
}

type LeaderboardEntry struct {
	Username  string    `json:"username"`
	Score     int64     `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c *Client) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	var out []LeaderboardEntry
	if err := c.do(ctx, http.MethodGet, "/leaderboard", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UserScores(ctx context.Context, uid string) ([]LeaderboardEntry, error) {
	var out []LeaderboardEntry
	if err := c.do(ctx, http.MethodGet, "/leaderboard/user/"+uid, "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(raw, &apiErr)
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: apiErr.Message}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrNetwork, err)
	}
	return nil
}
