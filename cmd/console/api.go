package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jwebster45206/pokequest/pkg/state"
)

// PokemonRequest matches the API's species-and-level body.
type PokemonRequest struct {
	Species string `json:"species"`
	Level   int    `json:"level,omitempty"`
}

// InventoryRequest matches the API's inventory entry.
type InventoryRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// CreateBattleRequest matches the API request structure
type CreateBattleRequest struct {
	TrainerID string             `json:"trainer_id,omitempty"`
	Team      []PokemonRequest   `json:"team,omitempty"`
	Enemy     PokemonRequest     `json:"enemy"`
	Inventory []InventoryRequest `json:"inventory,omitempty"`
	Language  string             `json:"language,omitempty"`
}

// BattleResponse matches the API's battle-plus-messages body.
type BattleResponse struct {
	Battle   *state.BattleState `json:"battle"`
	Messages []string           `json:"messages"`
}

// SpeciesSummary is one entry of GET /v1/species.
type SpeciesSummary struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Types []string `json:"types"`
}

// ItemSummary is the part of an item definition the console needs.
type ItemSummary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	CanUseInBattle bool   `json:"can_use_in_battle"`
}

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

// doJSON sends body (if any) and decodes a wantStatus response into out.
func doJSON(client *http.Client, method, url string, body any, wantStatus int, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, url, reader)
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
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != wantStatus {
		var errorResp ErrorResponse
		if err := json.Unmarshal(respBody, &errorResp); err != nil || errorResp.Error == "" {
			return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(respBody))
		}
		return fmt.Errorf("%s", errorResp.Error)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func listSpecies(client *http.Client, baseURL string) ([]SpeciesSummary, error) {
	var list []SpeciesSummary
	if err := doJSON(client, http.MethodGet, baseURL+"/v1/species", nil, http.StatusOK, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func listItems(client *http.Client, baseURL string) ([]ItemSummary, error) {
	var items []ItemSummary
	if err := doJSON(client, http.MethodGet, baseURL+"/v1/items", nil, http.StatusOK, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func getTrainerSummary(client *http.Client, baseURL, trainerID string) (string, error) {
	var resp struct {
		Summary string `json:"summary"`
	}
	if err := doJSON(client, http.MethodGet, baseURL+"/v1/trainers/"+trainerID, nil, http.StatusOK, &resp); err != nil {
		return "", err
	}
	return resp.Summary, nil
}

func createBattle(client *http.Client, baseURL string, req CreateBattleRequest) (*BattleResponse, error) {
	var resp BattleResponse
	if err := doJSON(client, http.MethodPost, baseURL+"/v1/battles", req, http.StatusCreated, &resp); err != nil {
		return nil, fmt.Errorf("failed to create battle: %w", err)
	}
	return &resp, nil
}

// sendAction posts typed input ("2", "/item potion") as one turn.
func sendAction(client *http.Client, baseURL string, battleID uuid.UUID, input string) (*BattleResponse, error) {
	var resp BattleResponse
	url := fmt.Sprintf("%s/v1/battles/%s/actions", baseURL, battleID)
	if err := doJSON(client, http.MethodPost, url, map[string]string{"input": input}, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func healTeam(client *http.Client, baseURL string, battleID uuid.UUID) (*BattleResponse, error) {
	var resp BattleResponse
	url := fmt.Sprintf("%s/v1/battles/%s/heal", baseURL, battleID)
	if err := doJSON(client, http.MethodPost, url, nil, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SSEEvent represents an event from the SSE stream
type SSEEvent struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// listenToSSE connects to the battle's event stream and forwards events to a channel
func listenToSSE(ctx context.Context, client *http.Client, baseURL string, battleID uuid.UUID, eventChan chan<- SSEEvent) error {
	url := fmt.Sprintf("%s/v1/events/battles/%s", baseURL, battleID.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to SSE: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("SSE connection failed with status %d: %s", resp.StatusCode, string(body))
	}

	scanner := bufio.NewScanner(resp.Body)
	var currentEvent SSEEvent

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Text()

		if line == "" {
			if currentEvent.Type != "" {
				eventChan <- currentEvent
				currentEvent = SSEEvent{}
			}
			continue
		}

		// Comment lines (": keepalive") carry nothing
		if strings.HasPrefix(line, "event: ") {
			currentEvent.Type = strings.TrimPrefix(line, "event: ")
		} else if strings.HasPrefix(line, "data: ") {
			var data map[string]any
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &data); err == nil {
				currentEvent.Data = data
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading SSE stream: %w", err)
	}
	return nil
}
