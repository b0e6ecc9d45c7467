package handlers

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/jwebster45206/pokequest/internal/logger"
	"github.com/jwebster45206/pokequest/pkg/battle"
	"github.com/jwebster45206/pokequest/pkg/i18n"
	"github.com/jwebster45206/pokequest/pkg/state"
	"github.com/jwebster45206/pokequest/pkg/storage"
)

const defaultLevel = 5

// BattleLog is the per-battle feed of unread log lines.
type BattleLog interface {
	state.BattleLogQueue
	Drain(ctx context.Context, battleID string) ([]string, error)
}

// EventPublisher pushes battle progress to live subscribers.
type EventPublisher interface {
	PublishBattleStarted(ctx context.Context, battleID uuid.UUID, messages []string) error
	PublishTurnResolved(ctx context.Context, battleID uuid.UUID, turn int, messages []string) error
	PublishBattleEnded(ctx context.Context, battleID uuid.UUID, outcome string) error
}

// BattleOptions carries the engine settings from config.
type BattleOptions struct {
	DefaultLanguage string
	AccuracyChecks  bool
	RNGSeed         uint64 // 0 means a fresh random source per turn
}

type BattleHandler struct {
	storage storage.Storage
	logger  *slog.Logger
	opts    BattleOptions
	queue   BattleLog
	events  EventPublisher

	// mu serializes load-apply-save so two requests can't resolve the same turn.
	mu sync.Mutex
}

func NewBattleHandler(logger *slog.Logger, storage storage.Storage, opts BattleOptions) *BattleHandler {
	if opts.DefaultLanguage == "" {
		opts.DefaultLanguage = "en"
	}
	return &BattleHandler{
		storage: storage,
		logger:  logger,
		opts:    opts,
	}
}

// WithQueue sets the battle-log feed
// Returns the BattleHandler for method chaining
func (h *BattleHandler) WithQueue(q BattleLog) *BattleHandler {
	h.queue = q
	return h
}

// WithEvents sets the live event publisher
// Returns the BattleHandler for method chaining
func (h *BattleHandler) WithEvents(p EventPublisher) *BattleHandler {
	h.events = p
	return h
}

// PokemonRequest names a species and level to build a battle Pokemon from.
type PokemonRequest struct {
	Species string `json:"species"`
	Level   int    `json:"level,omitempty"` // Defaults to 5
}

// InventoryRequest puts quantity of an item definition into the bag.
type InventoryRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// CreateBattleRequest defines the request body for starting a battle
type CreateBattleRequest struct {
	TrainerID string             `json:"trainer_id,omitempty"` // Team defaults to the trainer's
	Team      []PokemonRequest   `json:"team,omitempty"`
	Enemy     PokemonRequest     `json:"enemy"`
	Wild      *bool              `json:"wild,omitempty"` // Defaults to true
	Inventory []InventoryRequest `json:"inventory,omitempty"`
	Language  string             `json:"language,omitempty"`
}

// ActionRequest is a structured command, or free text in Input such as
// "/item potion" parsed the same way the console does.
type ActionRequest struct {
	Input string `json:"input,omitempty"`
	state.Command
}

// BattleResponse is returned by every battle endpoint that changes state.
type BattleResponse struct {
	Battle   *state.BattleState `json:"battle"`
	Messages []string           `json:"messages"`
}

// ServeHTTP handles HTTP requests for battles
// Routes:
// POST /v1/battles              - Start a battle
// GET /v1/battles/{id}          - Read battle state
// DELETE /v1/battles/{id}       - Delete a battle
// POST /v1/battles/{id}/actions - Play one turn
// POST /v1/battles/{id}/heal    - Heal the team after the battle
// GET /v1/battles/{id}/log      - Drain unread log lines
func (h *BattleHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/battles"), "/")
	if path == "" {
		if r.Method != http.MethodPost {
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Use POST to start a battle.")
			return
		}
		h.handleCreate(w, r)
		return
	}

	parts := strings.Split(path, "/")
	battleID, err := uuid.Parse(parts[0])
	if err != nil {
		h.logger.Warn("Invalid battle ID", "id", parts[0], "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid battle ID format")
		return
	}

	route := ""
	if len(parts) == 2 {
		route = parts[1]
	} else if len(parts) > 2 {
		writeError(w, h.logger, http.StatusNotFound, "Not found")
		return
	}

	switch {
	case route == "" && r.Method == http.MethodGet:
		h.handleRead(w, r, battleID)
	case route == "" && r.Method == http.MethodDelete:
		h.handleDelete(w, r, battleID)
	case route == "actions" && r.Method == http.MethodPost:
		h.handleAction(w, r, battleID)
	case route == "heal" && r.Method == http.MethodPost:
		h.handleHeal(w, r, battleID)
	case route == "log" && r.Method == http.MethodGet:
		h.handleLog(w, r, battleID)
	case route == "" || route == "actions" || route == "heal" || route == "log":
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed")
	default:
		writeError(w, h.logger, http.StatusNotFound, "Not found")
	}
}

func (h *BattleHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateBattleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid create battle request", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	ctx := r.Context()

	teamReq := req.Team
	if req.TrainerID != "" {
		spec, err := h.storage.GetTrainerSpec(ctx, req.TrainerID)
		if err != nil {
			h.lookupError(w, err, "trainer", req.TrainerID)
			return
		}
		if len(teamReq) == 0 {
			for _, e := range spec.Team {
				teamReq = append(teamReq, PokemonRequest{Species: e.Species, Level: e.Level})
			}
		}
	}
	if len(teamReq) == 0 {
		writeError(w, h.logger, http.StatusBadRequest, "A team or a trainer_id with a default team is required")
		return
	}
	if len(teamReq) > state.MaxTeamSize {
		writeError(w, h.logger, http.StatusBadRequest, fmt.Sprintf("A team has at most %d Pokemon", state.MaxTeamSize))
		return
	}
	if req.Enemy.Species == "" {
		writeError(w, h.logger, http.StatusBadRequest, "enemy.species is required")
		return
	}

	team := make([]battle.Pokemon, 0, len(teamReq))
	for _, pr := range teamReq {
		p, ok := h.buildPokemon(w, ctx, pr)
		if !ok {
			return
		}
		team = append(team, *p)
	}
	enemy, ok := h.buildPokemon(w, ctx, req.Enemy)
	if !ok {
		return
	}

	inventory := make([]battle.InventoryItem, 0, len(req.Inventory))
	for _, ir := range req.Inventory {
		if ir.Quantity <= 0 {
			continue
		}
		item, err := h.storage.GetItem(ctx, ir.ItemID)
		if err != nil {
			h.lookupError(w, err, "item", ir.ItemID)
			return
		}
		item.Quantity = ir.Quantity
		inventory = append(inventory, *item)
	}

	wild := true
	if req.Wild != nil {
		wild = *req.Wild
	}
	lang := req.Language
	if lang == "" {
		lang = h.opts.DefaultLanguage
	}

	bs := state.NewBattleState(team, enemy, wild, inventory, i18n.Match(lang).String())
	bs.TrainerID = req.TrainerID

	msgs := h.newWorker(ctx, bs).Start()
	if err := h.storage.SaveBattle(ctx, bs.ID, bs); err != nil {
		h.logger.Error("Failed to save new battle", "error", err, "battle_id", bs.ID.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to save battle")
		return
	}
	if h.events != nil {
		if err := h.events.PublishBattleStarted(ctx, bs.ID, msgs); err != nil {
			h.logger.Warn("Failed to publish battle start", "error", err, "battle_id", bs.ID.String())
		}
	}

	h.logger.Info("Battle created",
		"battle_id", bs.ID.String(),
		"trainer_id", bs.TrainerID,
		"team_size", len(bs.Team),
		"enemy", bs.Enemy.SpeciesID,
		"wild", bs.IsWild,
		"language", bs.Language)
	writeJSON(w, h.logger, http.StatusCreated, BattleResponse{Battle: bs, Messages: msgs})
}

func (h *BattleHandler) buildPokemon(w http.ResponseWriter, ctx context.Context, pr PokemonRequest) (*battle.Pokemon, bool) {
	sp, err := h.storage.GetSpecies(ctx, pr.Species)
	if err != nil {
		h.lookupError(w, err, "species", pr.Species)
		return nil, false
	}
	level := pr.Level
	if level == 0 {
		level = defaultLevel
	}
	p, err := battle.NewPokemon(sp, level)
	if err != nil {
		h.logger.Error("Failed to build pokemon", "error", err, "species", pr.Species)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to build "+pr.Species)
		return nil, false
	}
	return p, true
}

// lookupError maps a static-data lookup failure to 400 or 500.
func (h *BattleHandler) lookupError(w http.ResponseWriter, err error, kind, id string) {
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, h.logger, http.StatusBadRequest, fmt.Sprintf("Unknown %s: %s", kind, id))
		return
	}
	h.logger.Error("Failed to load "+kind, "error", err, "id", id)
	writeError(w, h.logger, http.StatusInternalServerError, "Failed to load "+kind)
}

// load fetches a battle, writing a 404 or 500 when it can't.
func (h *BattleHandler) load(w http.ResponseWriter, ctx context.Context, id uuid.UUID) (*state.BattleState, bool) {
	bs, err := h.storage.LoadBattle(ctx, id)
	if err != nil {
		h.logger.Error("Failed to load battle", "error", err, "battle_id", id.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load battle")
		return nil, false
	}
	if bs == nil {
		writeError(w, h.logger, http.StatusNotFound, "Battle not found")
		return nil, false
	}
	return bs, true
}

func (h *BattleHandler) handleRead(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	bs, ok := h.load(w, r.Context(), id)
	if !ok {
		return
	}
	writeJSON(w, h.logger, http.StatusOK, bs)
}

func (h *BattleHandler) handleDelete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := h.storage.DeleteBattle(r.Context(), id); err != nil {
		h.logger.Error("Failed to delete battle", "error", err, "battle_id", id.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to delete battle")
		return
	}
	h.logger.Info("Battle deleted", "battle_id", id.String())
	w.WriteHeader(http.StatusNoContent)
}

// errBattleNotFound and errStorage let callers of playTurn pick a status.
var (
	errBattleNotFound = errors.New("battle not found")
	errStorage        = errors.New("storage failure")
)

// commandFor turns an action request into a command, parsing Input when set.
func commandFor(req ActionRequest) (state.Command, error) {
	if req.Input == "" {
		return req.Command, nil
	}
	cmd, ok := state.ParseCommand(req.Input)
	if !ok {
		return state.Command{}, fmt.Errorf("%w: %q", state.ErrUnknownCommand, req.Input)
	}
	return cmd, nil
}

func (h *BattleHandler) handleAction(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	cmd, err := commandFor(req)
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	bs, msgs, err := h.playTurn(r.Context(), id, cmd)
	switch {
	case err == nil:
		writeJSON(w, h.logger, http.StatusOK, BattleResponse{Battle: bs, Messages: msgs})
	case errors.Is(err, errBattleNotFound):
		writeError(w, h.logger, http.StatusNotFound, "Battle not found")
	case errors.Is(err, errStorage):
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to save battle")
	case errors.Is(err, state.ErrBattleOver):
		writeError(w, h.logger, http.StatusConflict, err.Error())
	default:
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
	}
}

// playTurn loads the battle, applies cmd, saves and publishes the result.
// Rule violations come back unwrapped from the turn worker.
func (h *BattleHandler) playTurn(ctx context.Context, id uuid.UUID, cmd state.Command) (*state.BattleState, []string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	bs, err := h.storage.LoadBattle(ctx, id)
	if err != nil {
		h.logger.Error("Failed to load battle", "error", err, "battle_id", id.String())
		return nil, nil, fmt.Errorf("%w: %w", errStorage, err)
	}
	if bs == nil {
		return nil, nil, errBattleNotFound
	}

	msgs, err := h.newWorker(ctx, bs).Apply(cmd)
	if err != nil {
		h.logger.Debug("Rejected battle command", "error", err, "battle_id", id.String(), "type", cmd.Type)
		return nil, nil, err
	}

	if err := h.storage.SaveBattle(ctx, id, bs); err != nil {
		h.logger.Error("Failed to save battle", "error", err, "battle_id", id.String())
		return nil, nil, fmt.Errorf("%w: %w", errStorage, err)
	}
	h.publishTurn(ctx, bs, msgs)
	return bs, msgs, nil
}

func (h *BattleHandler) publishTurn(ctx context.Context, bs *state.BattleState, msgs []string) {
	if h.events == nil {
		return
	}
	if err := h.events.PublishTurnResolved(ctx, bs.ID, bs.Turn, msgs); err != nil {
		h.logger.Warn("Failed to publish turn", "error", err, "battle_id", bs.ID.String())
	}
	if bs.IsOver() {
		if err := h.events.PublishBattleEnded(ctx, bs.ID, string(bs.Outcome)); err != nil {
			h.logger.Warn("Failed to publish battle end", "error", err, "battle_id", bs.ID.String())
		}
	}
}

func (h *BattleHandler) handleHeal(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	ctx := r.Context()
	h.mu.Lock()
	defer h.mu.Unlock()

	bs, ok := h.load(w, ctx, id)
	if !ok {
		return
	}
	if err := bs.FullTeamHeal(); err != nil {
		if errors.Is(err, state.ErrBattleInProgress) {
			writeError(w, h.logger, http.StatusConflict, "Can't heal while the battle is still in progress")
			return
		}
		h.logger.Error("Failed to heal team", "error", err, "battle_id", id.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to heal team")
		return
	}
	if err := h.storage.SaveBattle(ctx, id, bs); err != nil {
		h.logger.Error("Failed to save battle", "error", err, "battle_id", id.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to save battle")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, BattleResponse{Battle: bs, Messages: []string{}})
}

func (h *BattleHandler) handleLog(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if h.queue == nil {
		writeError(w, h.logger, http.StatusNotImplemented, "Battle log feed is not configured")
		return
	}
	lines, err := h.queue.Drain(r.Context(), id.String())
	if err != nil {
		h.logger.Error("Failed to drain battle log", "error", err, "battle_id", id.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to read battle log")
		return
	}
	if lines == nil {
		lines = []string{}
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]any{"messages": lines})
}

// newWorker builds a TurnWorker whose engine speaks the battle's language.
func (h *BattleHandler) newWorker(ctx context.Context, bs *state.BattleState) *state.TurnWorker {
	log := logger.WithBattle(h.logger, bs)
	engine := battle.NewEngine(h.rngFor(bs),
		battle.WithLocalizer(i18n.NewLocalizer(bs.Language)),
		battle.WithLogger(log),
		battle.WithAccuracyChecks(h.opts.AccuracyChecks),
	)
	tw := state.NewTurnWorker(bs, engine, log).WithContext(ctx)
	if h.queue != nil {
		tw = tw.WithQueue(h.queue)
	}
	return tw
}

// rngFor returns the random source for the battle's next turn. With a fixed
// seed the same battle and turn always roll the same numbers.
func (h *BattleHandler) rngFor(bs *state.BattleState) battle.Rand {
	if h.opts.RNGSeed == 0 {
		return battle.NewRand(0)
	}
	idBits := binary.BigEndian.Uint64(bs.ID[8:])
	return battle.NewRand(h.opts.RNGSeed ^ idBits ^ uint64(bs.Turn+1)*0x9e3779b97f4a7c15)
}
