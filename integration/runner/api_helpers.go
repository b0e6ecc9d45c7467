package runner

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
	"github.com/jwebster45206/pokequest/pkg/state"
)

// APIError is a non-2xx response from the battle API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API returned %d: %s", e.Status, e.Message)
}

func do(ctx context.Context, client *http.Client, method, url string, body any, wantStatus int, out any) error {
	var reader io.Reader
	if body != nil {
		reqBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewBuffer(reqBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != wantStatus {
		respBody, _ := io.ReadAll(resp.Body)
		var errResp handlers.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			return &APIError{Status: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{Status: resp.StatusCode, Message: string(respBody)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// CreateBattle starts a battle via POST /v1/battles
func CreateBattle(ctx context.Context, client *http.Client, baseURL string, req handlers.CreateBattleRequest) (*handlers.BattleResponse, error) {
	var resp handlers.BattleResponse
	if err := do(ctx, client, http.MethodPost, baseURL+"/v1/battles", req, http.StatusCreated, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetBattle retrieves the current battle state
func GetBattle(ctx context.Context, client *http.Client, baseURL string, battleID uuid.UUID) (*state.BattleState, error) {
	var bs state.BattleState
	url := fmt.Sprintf("%s/v1/battles/%s", baseURL, battleID)
	if err := do(ctx, client, http.MethodGet, url, nil, http.StatusOK, &bs); err != nil {
		return nil, err
	}
	return &bs, nil
}

// DeleteBattle removes a battle; a missing battle is not an error.
func DeleteBattle(ctx context.Context, client *http.Client, baseURL string, battleID uuid.UUID) error {
	url := fmt.Sprintf("%s/v1/battles/%s", baseURL, battleID)
	err := do(ctx, client, http.MethodDelete, url, nil, http.StatusNoContent, nil)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return nil
	}
	return err
}

// PostAction sends free-text input for one turn.
func PostAction(ctx context.Context, client *http.Client, baseURL string, battleID uuid.UUID, input string) (*handlers.BattleResponse, error) {
	var resp handlers.BattleResponse
	url := fmt.Sprintf("%s/v1/battles/%s/actions", baseURL, battleID)
	if err := do(ctx, client, http.MethodPost, url, map[string]string{"input": input}, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// HealBattle restores the team once the battle is over.
func HealBattle(ctx context.Context, client *http.Client, baseURL string, battleID uuid.UUID) (*handlers.BattleResponse, error) {
	var resp handlers.BattleResponse
	url := fmt.Sprintf("%s/v1/battles/%s/heal", baseURL, battleID)
	if err := do(ctx, client, http.MethodPost, url, nil, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DrainLog reads and clears the battle's queued log lines.
func DrainLog(ctx context.Context, client *http.Client, baseURL string, battleID uuid.UUID) ([]string, error) {
	var resp struct {
		Messages []string `json:"messages"`
	}
	url := fmt.Sprintf("%s/v1/battles/%s/log", baseURL, battleID)
	if err := do(ctx, client, http.MethodGet, url, nil, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}
