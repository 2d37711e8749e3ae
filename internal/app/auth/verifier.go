package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

const defaultPlatformURL = "https://api.minepi.com/v2"

// PlatformVerifier checks access tokens against the wallet platform's
// /me endpoint. The token itself is the credential; the server API key
// is only sent on platform calls that require it.
type PlatformVerifier struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewPlatformVerifier(apiKey string) *PlatformVerifier {
	return &PlatformVerifier{
		apiKey:  apiKey,
		baseURL: defaultPlatformURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// NewPlatformVerifierURL is for tests pointing at a fake platform.
func NewPlatformVerifierURL(apiKey, baseURL string) *PlatformVerifier {
	v := NewPlatformVerifier(apiKey)
	v.baseURL = baseURL
	return v
}

func (v *PlatformVerifier) VerifyToken(ctx context.Context, uid, accessToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/me", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("platform unreachable: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("platform returned %d", resp.StatusCode)
	}
	return nil
}
