package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"points-exchange/models"
	"points-exchange/services"
)

// Gateway is the typed access layer over the backend: row reads, row
// writes, remote-procedure calls and the profile change-notification
// stream. Calls either succeed or return an error; there is no retry
// here — callers surface the error and leave their state unchanged.
type Gateway struct {
	BaseURL    string
	HTTPClient *http.Client

	token string
}

func NewGateway(baseURL string) *Gateway {
	return &Gateway{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError is a non-2xx backend response. The message text is preserved
// verbatim so callers can match known substrings ("Self-referral",
// "Invalid login credentials", ...).
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Authenticated reports whether a session token is held.
func (g *Gateway) Authenticated() bool {
	return g.token != ""
}

// SignOut discards the session token. Tokens are stateless on the server;
// forgetting it ends the session.
func (g *Gateway) SignOut() {
	g.token = ""
}

func (g *Gateway) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(raw, &apiErr)
		if apiErr.Error == "" {
			apiErr.Error = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: apiErr.Error}
	}

	if out != nil {
		return json.Unmarshal(raw, out)
	}
	return nil
}

// --- Auth collaborator ---

func (g *Gateway) SignUp(ctx context.Context, email, password string) error {
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	err := g.do(ctx, http.MethodPost, "/auth/signup", map[string]string{
		"email": email, "password": password,
	}, &resp)
	if err != nil {
		return err
	}
	g.token = resp.AccessToken
	return nil
}

func (g *Gateway) SignIn(ctx context.Context, email, password string) error {
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	err := g.do(ctx, http.MethodPost, "/auth/signin", map[string]string{
		"email": email, "password": password,
	}, &resp)
	if err != nil {
		return err
	}
	g.token = resp.AccessToken
	return nil
}

// SessionInfo is the session-check result the guard builds its decision on.
type SessionInfo struct {
	UserID           string `json:"user_id"`
	Email            string `json:"email"`
	ProfileCompleted bool   `json:"profile_completed"`
}

func (g *Gateway) Session(ctx context.Context) (*SessionInfo, error) {
	var info SessionInfo
	if err := g.do(ctx, http.MethodGet, "/auth/session", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// --- Row reads ---

func (g *Gateway) Profile(ctx context.Context) (*models.Profile, error) {
	var p models.Profile
	if err := g.do(ctx, http.MethodGet, "/profiles/me", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (g *Gateway) Transactions(ctx context.Context, limit int) ([]models.Transaction, error) {
	var txs []models.Transaction
	path := fmt.Sprintf("/transactions?limit=%d", limit)
	if err := g.do(ctx, http.MethodGet, path, nil, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

func (g *Gateway) EarnableChannels(ctx context.Context, limit int) ([]models.Channel, error) {
	var channels []models.Channel
	path := fmt.Sprintf("/channels?scope=earnable&limit=%d", limit)
	if err := g.do(ctx, http.MethodGet, path, nil, &channels); err != nil {
		return nil, err
	}
	return channels, nil
}

func (g *Gateway) MyChannels(ctx context.Context) ([]models.Channel, error) {
	var channels []models.Channel
	if err := g.do(ctx, http.MethodGet, "/channels?scope=mine", nil, &channels); err != nil {
		return nil, err
	}
	return channels, nil
}

func (g *Gateway) ReferralStats(ctx context.Context) (*services.ReferralStats, error) {
	var stats services.ReferralStats
	if err := g.do(ctx, http.MethodGet, "/profiles/referrals/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// --- Row writes ---

func (g *Gateway) UpsertProfile(ctx context.Context, upd services.ProfileUpdate) (*models.Profile, error) {
	var p models.Profile
	if err := g.do(ctx, http.MethodPut, "/profiles/me", upd, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (g *Gateway) CreateChannel(ctx context.Context, in services.ChannelInput) (*models.Channel, error) {
	var ch models.Channel
	if err := g.do(ctx, http.MethodPost, "/channels", in, &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

func (g *Gateway) SetChannelActive(ctx context.Context, channelID string, active bool) (*models.Channel, error) {
	var ch models.Channel
	body := map[string]bool{"active": active}
	if err := g.do(ctx, http.MethodPatch, "/channels/"+channelID, body, &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

func (g *Gateway) DeleteChannel(ctx context.Context, channelID string) error {
	return g.do(ctx, http.MethodDelete, "/channels/"+channelID, nil, nil)
}

// --- Remote procedures ---

func (g *Gateway) ClaimAdReward(ctx context.Context) error {
	return g.do(ctx, http.MethodPost, "/rpc/claim_ad_reward", struct{}{}, nil)
}

func (g *Gateway) ClaimFollowReward(ctx context.Context, channelID string) error {
	return g.do(ctx, http.MethodPost, "/rpc/claim_follow_reward", map[string]string{
		"channel_id": channelID,
	}, nil)
}

func (g *Gateway) SetReferrer(ctx context.Context, code string) error {
	return g.do(ctx, http.MethodPost, "/rpc/set_referrer", map[string]string{
		"referral_code": code,
	}, nil)
}

// --- Change notifications ---

// CancelFunc tears down a subscription. Idempotent.
type CancelFunc func()

// SubscribeProfile opens the profile event stream and invokes cb with
// every updated row until the returned cancel handle is called or the
// context ends. The callback runs on the stream's goroutine.
func (g *Gateway) SubscribeProfile(ctx context.Context, cb func(models.Profile)) (CancelFunc, error) {
	streamCtx, cancel := context.WithCancel(ctx)

	u := fmt.Sprintf("%s/profiles/me/stream?token=%s", g.BaseURL, url.QueryEscape(g.token))
	req, err := http.NewRequestWithContext(streamCtx, http.MethodGet, u, nil)
	if err != nil {
		cancel()
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	// The stream outlives the client's default timeout on purpose.
	streamClient := &http.Client{Transport: g.HTTPClient.Transport}
	resp, err := streamClient.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("backend unreachable: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return nil, &APIError{Status: resp.StatusCode, Message: "subscription rejected"}
	}

	go func() {
		defer resp.Body.Close()
		scanner := bufio.NewScanner(resp.Body)

		event := ""
		for scanner.Scan() {
			line := scanner.Text()
			switch {
			case strings.HasPrefix(line, "event:"):
				event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			case strings.HasPrefix(line, "data:"):
				if event != "profile" {
					continue
				}
				data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
				var profile models.Profile
				if err := json.Unmarshal([]byte(data), &profile); err == nil {
					select {
					case <-streamCtx.Done():
						return
					default:
						cb(profile)
					}
				}
			case line == "":
				event = ""
			}
		}
	}()

	return func() { cancel() }, nil
}
