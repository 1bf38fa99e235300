// Package stays talks to the upstream Stays property-management API. It is
// the only place in the codebase that ever sees raw guest names or phone
// numbers; callers hash them at this boundary before persisting anything.
package stays

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// Reservation is the normalized upstream record. Guest and Phone carry raw
// PII and must never be stored or logged as-is.
type Reservation struct {
	ID         string
	ListingID  string
	Checkin    string
	Checkout   string
	GrossTotal float64
	ExtraFees  float64
	Channel    string
	Guest      string
	Phone      string
}

type Client struct {
	baseURL  string
	login    string
	password string
	http     *http.Client

	mu    sync.Mutex
	token string
}

func NewClient(baseURL, login, password string, timeout time.Duration) *Client {
	return &Client{
		baseURL:  baseURL,
		login:    login,
		password: password,
		http:     &http.Client{Timeout: timeout},
	}
}

// ListReservations fetches reservations overlapping [from, to]. A stale
// session token triggers exactly one re-login and retry.
func (c *Client) ListReservations(ctx context.Context, from, to, listingID string) ([]Reservation, error) {
	params := url.Values{}
	params.Set("from", from)
	params.Set("to", to)
	if listingID != "" {
		params.Set("listing_id", listingID)
	}

	body, status, err := c.get(ctx, "/api/reservations", params)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		c.clearToken()
		body, status, err = c.get(ctx, "/api/reservations", params)
		if err != nil {
			return nil, err
		}
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("stays API returned status %d", status)
	}

	return decodeReservations(body)
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, int, error) {
	token, err := c.sessionToken(ctx)
	if err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("stays request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read stays response: %w", err)
	}

	return body, resp.StatusCode, nil
}

// sessionToken returns the cached token, logging in on first use.
func (c *Client) sessionToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" {
		return c.token, nil
	}

	payload, err := json.Marshal(map[string]string{
		"username": c.login,
		"password": c.password,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/login", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("stays login failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("stays login returned status %d", resp.StatusCode)
	}

	var loginResp struct {
		Token       string `json:"token"`
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		return "", fmt.Errorf("failed to decode stays login response: %w", err)
	}

	c.token = loginResp.Token
	if c.token == "" {
		c.token = loginResp.AccessToken
	}
	if c.token == "" {
		return "", fmt.Errorf("stays login response carried no token")
	}

	return c.token, nil
}

func (c *Client) clearToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

// decodeReservations tolerates the upstream's shifting response envelopes
// ("data", "items", "reservations", or a bare array) and field aliases.
func decodeReservations(body []byte) ([]Reservation, error) {
	var envelope map[string]json.RawMessage
	var items []map[string]any

	if err := json.Unmarshal(body, &envelope); err == nil {
		for _, key := range []string{"data", "items", "reservations"} {
			if raw, ok := envelope[key]; ok {
				if err := json.Unmarshal(raw, &items); err == nil {
					break
				}
			}
		}
	}
	if items == nil {
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("unrecognized stays response shape: %w", err)
		}
	}

	reservations := make([]Reservation, 0, len(items))
	for _, item := range items {
		r := normalize(item)
		if r.ID == "" || r.Checkin == "" || r.Checkout == "" {
			continue
		}
		reservations = append(reservations, r)
	}

	return reservations, nil
}

func normalize(item map[string]any) Reservation {
	return Reservation{
		ID:         firstString(item, "id", "reservation_id"),
		ListingID:  firstString(item, "listing_id", "property_id"),
		Checkin:    firstString(item, "checkin", "check_in", "arrival"),
		Checkout:   firstString(item, "checkout", "check_out", "departure"),
		GrossTotal: firstFloat(item, "total", "total_amount", "amount", "total_bruto"),
		ExtraFees:  firstFloat(item, "fees", "service_fee", "taxas"),
		Channel:    firstString(item, "channel", "source", "canal"),
		Guest:      firstString(item, "guest_name", "guest", "hospede"),
		Phone:      firstString(item, "phone", "telefone"),
	}
}

func firstString(m map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := m[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return fmt.Sprintf("%v", v)
		}
	}
	return ""
}

func firstFloat(m map[string]any, keys ...string) float64 {
	for _, key := range keys {
		if v, ok := m[key].(float64); ok {
			return v
		}
	}
	return 0
}
