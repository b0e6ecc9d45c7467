package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/jwebster45206/pokequest/internal/handlers"
	"github.com/jwebster45206/pokequest/pkg/battle"
	"github.com/jwebster45206/pokequest/pkg/state"
)

// battleClient talks to the battle API on behalf of every chat.
type battleClient struct {
	http    *http.Client
	baseURL string
}

func newBattleClient(baseURL string, client *http.Client) *battleClient {
	return &battleClient{http: client, baseURL: baseURL}
}

func (c *battleClient) do(ctx context.Context, method, path string, body any, wantStatus int, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != wantStatus {
		var errResp handlers.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error != "" {
			return errors.New(errResp.Error)
		}
		return fmt.Errorf("API returned status %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *battleClient) createBattle(ctx context.Context, req handlers.CreateBattleRequest) (*handlers.BattleResponse, error) {
	var resp handlers.BattleResponse
	if err := c.do(ctx, http.MethodPost, "/v1/battles", req, http.StatusCreated, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *battleClient) getBattle(ctx context.Context, id uuid.UUID) (*state.BattleState, error) {
	var bs state.BattleState
	if err := c.do(ctx, http.MethodGet, "/v1/battles/"+id.String(), nil, http.StatusOK, &bs); err != nil {
		return nil, err
	}
	return &bs, nil
}

// act sends the chat text as free-text input for one turn.
func (c *battleClient) act(ctx context.Context, id uuid.UUID, input string) (*handlers.BattleResponse, error) {
	var resp handlers.BattleResponse
	path := "/v1/battles/" + id.String() + "/actions"
	if err := c.do(ctx, http.MethodPost, path, handlers.ActionRequest{Input: input}, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *battleClient) heal(ctx context.Context, id uuid.UUID) (*handlers.BattleResponse, error) {
	var resp handlers.BattleResponse
	path := "/v1/battles/" + id.String() + "/heal"
	if err := c.do(ctx, http.MethodPost, path, nil, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// battleItems returns the IDs of every item usable in battle.
func (c *battleClient) battleItems(ctx context.Context) ([]string, error) {
	var items []battle.InventoryItem
	if err := c.do(ctx, http.MethodGet, "/v1/items", nil, http.StatusOK, &items); err != nil {
		return nil, err
	}
	var ids []string
	for _, item := range items {
		if item.CanUseInBattle {
			ids = append(ids, item.ID)
		}
	}
	return ids, nil
}
