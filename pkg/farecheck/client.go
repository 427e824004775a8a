package farecheck

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"time"
)

type Client interface {
	Entities(ctx context.Context) ([]EntityStatus, error)
	Trigger(ctx context.Context, identity string) error
}

type Config struct {
	BaseAddress string
	HTTPClient  *http.Client
}

func NewClient(config Config) (Client, error) {
	_, err := url.Parse(config.BaseAddress)
	if err != nil {
		return nil, fmt.Errorf("parsing BaseAddress failed: %w", err)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &client{
		baseAddress: config.BaseAddress,
		httpClient:  httpClient,
	}, nil
}

type client struct {
	baseAddress string
	httpClient  *http.Client
}

type EntityStatus struct {
	Identity          string    `json:"identity"`
	Kind              string    `json:"kind"`
	State             string    `json:"state"`
	NextDue           time.Time `json:"nextDue"`
	RetrievalInterval int       `json:"retrievalIntervalHours"`
}

type entitiesResponse struct {
	Entities []EntityStatus `json:"entities"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Entities lists every monitored entity with its scheduling state.
func (c *client) Entities(ctx context.Context) ([]EntityStatus, error) {
	address, err := c.getAddress("/entities")
	if err != nil {
		return nil, fmt.Errorf("getAddress for entities: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", address, nil)
	if err != nil {
		return nil, fmt.Errorf("building entities request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("listing entities failed: %w", err)
	}
	defer resp.Body.Close()

	var response entitiesResponse
	err = json.NewDecoder(resp.Body).Decode(&response)
	if err != nil {
		return nil, fmt.Errorf("decoding entities response: %w", err)
	}
	return response.Entities, nil
}

// Trigger marks the entity due for an immediate run.
//
// Example usage:
//
//	err := client.Trigger(ctx, "account:traveler")
func (c *client) Trigger(ctx context.Context, identity string) error {
	address, err := c.getAddress(fmt.Sprintf("/entities/%s/trigger", identity))
	if err != nil {
		return fmt.Errorf("getAddress for trigger: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "PUT", address, nil)
	if err != nil {
		return fmt.Errorf("building trigger request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("trigger failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var response errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&response); err == nil && response.Error != "" {
			return fmt.Errorf("trigger rejected: %s", response.Error)
		}
		return fmt.Errorf("trigger returned %s", resp.Status)
	}
	return nil
}

func (c *client) getAddress(after string) (string, error) {
	u, err := url.Parse(c.baseAddress)
	if err != nil {
		return "", fmt.Errorf("parsing baseAddress: %w", err)
	}
	u.Path = path.Join(u.Path, after)

	return u.String(), nil
}
