// Package botstate queries the bot's current state over the Farmware API.
package botstate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Reader reports the latest value read on a pin.
type Reader interface {
	// PinValue returns the last value read on pin. ok is false when the bot
	// has no value for it.
	PinValue(ctx context.Context, pin int) (value float64, ok bool, err error)
}

// State is the subset of the bot state document used here.
type State struct {
	Pins map[string]PinState `json:"pins"`
}

// PinState is one entry of the bot's pin table. Value is nil until the pin
// has been read.
type PinState struct {
	Mode  int      `json:"mode"`
	Value *float64 `json:"value"`
}

// Client fetches the bot state from the local API.
type Client struct {
	http  *http.Client
	url   string
	token string
}

// NewClient creates a client for the API at baseURL (FARMWARE_URL).
func NewClient(baseURL, token string) *Client {
	return &Client{
		http:  &http.Client{Timeout: 10 * time.Second},
		url:   baseURL + "api/v1/bot/state",
		token: token,
	}
}

// State fetches the full state document.
func (c *Client) State(ctx context.Context) (State, error) {
	var st State

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return st, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "bearer "+c.token)
	req.Header.Set("content-type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return st, fmt.Errorf("get bot state: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return st, fmt.Errorf("get bot state: unexpected status %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return st, fmt.Errorf("decode bot state: %w", err)
	}
	return st, nil
}

// PinValue implements Reader.
func (c *Client) PinValue(ctx context.Context, pin int) (float64, bool, error) {
	st, err := c.State(ctx)
	if err != nil {
		return 0, false, err
	}
	v, ok := st.PinValue(pin)
	return v, ok, nil
}

// PinValue looks pin up in the state. ok is false for a missing pin or a
// null value.
func (s State) PinValue(pin int) (float64, bool) {
	p, found := s.Pins[strconv.Itoa(pin)]
	if !found || p.Value == nil {
		return 0, false
	}
	return *p.Value, true
}
