package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type ConsoleConfig struct {
	APIBaseURL string
	TrainerID  string
	Language   string
	Timeout    time.Duration
}

type ErrorResponse struct {
	Error string `json:"error"`
}

const (
	playerLevel  = 25
	enemyLevel   = 22
	itemQuantity = 3
)

func main() {
	cfg := &ConsoleConfig{
		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:8080"),
		TrainerID:  getEnv("TRAINER_ID", ""),
		Language:   getEnv("BATTLE_LANGUAGE", "en"),
		Timeout:    30 * time.Second,
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
	}

	if !testConnection(client, cfg.APIBaseURL) {
		fmt.Fprintf(os.Stderr, "Could not connect to API. Please ensure the API is running.\nTry: docker-compose up -d\n")
		os.Exit(1)
	}

	species, err := listSpecies(client, cfg.APIBaseURL)
	if err != nil || len(species) == 0 {
		fmt.Fprintf(os.Stderr, "Failed to list species: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Available Pokémon:")
	for i, s := range species {
		fmt.Printf("  %d - %s %v\n", i+1, s.Name, s.Types)
	}

	mine := pickSpecies(species, "\nChoose your Pokémon by number: ")
	wild := pickSpecies(species, "Choose the wild Pokémon to battle: ")

	items, err := listItems(client, cfg.APIBaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list items: %v\n", err)
		os.Exit(1)
	}

	req := CreateBattleRequest{
		TrainerID: cfg.TrainerID,
		Team:      []PokemonRequest{{Species: mine.ID, Level: playerLevel}},
		Enemy:     PokemonRequest{Species: wild.ID, Level: enemyLevel},
		Language:  cfg.Language,
	}
	for _, item := range items {
		if item.CanUseInBattle {
			req.Inventory = append(req.Inventory, InventoryRequest{ItemID: item.ID, Quantity: itemQuantity})
		}
	}

	created, err := createBattle(client, cfg.APIBaseURL, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	var trainerSummary string
	if cfg.TrainerID != "" {
		if trainerSummary, err = getTrainerSummary(client, cfg.APIBaseURL, cfg.TrainerID); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load trainer: %v\n", err)
		}
	}

	p := tea.NewProgram(NewConsoleUI(cfg, client, created, trainerSummary),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

func pickSpecies(species []SpeciesSummary, prompt string) SpeciesSummary {
	fmt.Print(prompt)
	var choice int
	if _, err := fmt.Scanf("%d\n", &choice); err != nil || choice < 1 || choice > len(species) {
		fmt.Fprintf(os.Stderr, "Invalid selection\n")
		os.Exit(1)
	}
	return species[choice-1]
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
