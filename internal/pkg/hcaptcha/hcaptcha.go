package hcaptcha

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fixmyward/fixmyward/internal/pkg/env"
)

// DefaultEndpoint is the hCaptcha verification URL.
const DefaultEndpoint = "https://hcaptcha.com/siteverify"

type Response struct {
	Success     bool     `json:"success"`
	ChallengeTS string   `json:"challenge_ts"`
	Hostname    string   `json:"hostname"`
	ErrorCodes  []string `json:"error-codes"`
}

// Verifier checks hCaptcha tokens submitted with web forms.
type Verifier struct {
	SiteKey  string
	secret   string
	endpoint string
	client   *http.Client
}

// NewVerifier creates a verifier. An empty secret disables verification.
func NewVerifier(siteKey, secret, endpoint string) *Verifier {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Verifier{
		SiteKey:  siteKey,
		secret:   secret,
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// FromEnv reads HCAPTCHA_SITEKEY and HCAPTCHA_SECRET.
func FromEnv() *Verifier {
	return NewVerifier(env.GetEnv("HCAPTCHA_SITEKEY", ""), env.GetEnv("HCAPTCHA_SECRET", ""), "")
}

// Enabled reports whether tokens are checked at all.
func (v *Verifier) Enabled() bool {
	return v != nil && v.secret != ""
}

// Verify asks hCaptcha whether token is a solved challenge. It always succeeds when disabled.
func (v *Verifier) Verify(ctx context.Context, token string) error {
	if !v.Enabled() {
		return nil
	}
	if token == "" {
		return errors.New("hCaptcha token is empty")
	}

	form := url.Values{
		"secret":   {v.secret},
		"response": {token},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to hCaptcha API: %w", err)
	}
	defer resp.Body.Close()

	var response Response
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("failed to decode hCaptcha API response: %w", err)
	}

	if !response.Success {
		msg := "hCaptcha validation failed"
		if len(response.ErrorCodes) > 0 {
			msg = msg + ": " + strings.Join(response.ErrorCodes, ", ")
		}
		return errors.New(msg)
	}
	return nil
}
