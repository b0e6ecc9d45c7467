package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/pokequest/pkg/battle"
	"github.com/jwebster45206/pokequest/pkg/state"
	"github.com/jwebster45206/pokequest/pkg/storage"
)

func setupTestStorage(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rs := NewRedisStorage(mr.Addr(), t.TempDir(), logger)
	t.Cleanup(func() { _ = rs.Close() })
	return rs, mr
}

func testBattle(t *testing.T) *state.BattleState {
	t.Helper()
	sp := &battle.Species{
		ID:        "pikachu",
		Name:      "Pikachu",
		Types:     []battle.PokemonType{battle.TypeElectric},
		BaseStats: battle.BaseStats{HP: 35, Attack: 55, Defense: 40, SpecialAttack: 50, SpecialDefense: 50, Speed: 90},
		Moves: []battle.Move{{
			Name: "Thunder Shock", Type: battle.TypeElectric, Category: battle.CategorySpecial,
			Power: 40, BasePP: 30,
		}},
	}
	mine, err := battle.NewPokemon(sp, 25)
	require.NoError(t, err)
	wild, err := battle.NewPokemon(sp, 5)
	require.NoError(t, err)
	return state.NewBattleState([]battle.Pokemon{*mine}, wild, true, nil, "en")
}

func TestRedisStorage_SaveLoadDelete(t *testing.T) {
	rs, mr := setupTestStorage(t)
	ctx := context.Background()
	bs := testBattle(t)

	require.NoError(t, rs.SaveBattle(ctx, bs.ID, bs))
	assert.True(t, mr.Exists("battle:"+bs.ID.String()))

	loaded, err := rs.LoadBattle(ctx, bs.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, bs.ID, loaded.ID)
	assert.Equal(t, "Pikachu", loaded.Team[0].Name)
	assert.Equal(t, bs.Team[0].CurrentHP, loaded.Team[0].CurrentHP)
	assert.Equal(t, 30, loaded.Team[0].Moves[0].CurrentPP)
	assert.Equal(t, state.OutcomeOngoing, loaded.Outcome)

	require.NoError(t, rs.DeleteBattle(ctx, bs.ID))
	gone, err := rs.LoadBattle(ctx, bs.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestRedisStorage_LoadMissing(t *testing.T) {
	rs, _ := setupTestStorage(t)
	bs, err := rs.LoadBattle(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("expected no error for missing battle, got %v", err)
	}
	if bs != nil {
		t.Errorf("expected nil battle, got %+v", bs)
	}
}

func TestRedisStorage_SaveNil(t *testing.T) {
	rs, _ := setupTestStorage(t)
	if err := rs.SaveBattle(context.Background(), uuid.New(), nil); err == nil {
		t.Error("expected error saving nil battle")
	}
}

func TestRedisStorage_TTL(t *testing.T) {
	rs, mr := setupTestStorage(t)
	rs.WithTTL(time.Hour)
	ctx := context.Background()
	bs := testBattle(t)

	require.NoError(t, rs.SaveBattle(ctx, bs.ID, bs))
	assert.Equal(t, time.Hour, mr.TTL("battle:"+bs.ID.String()))

	mr.FastForward(2 * time.Hour)
	loaded, err := rs.LoadBattle(ctx, bs.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded, "battle should expire after its TTL")
}

func TestRedisStorage_CorruptBattle(t *testing.T) {
	rs, mr := setupTestStorage(t)
	id := uuid.New()
	require.NoError(t, mr.Set("battle:"+id.String(), "{not json"))

	_, err := rs.LoadBattle(context.Background(), id)
	assert.Error(t, err)
}

func TestRedisStorage_Ping(t *testing.T) {
	rs, mr := setupTestStorage(t)
	ctx := context.Background()
	assert.NoError(t, rs.Ping(ctx))
	assert.NoError(t, rs.WaitForConnection(ctx))

	mr.Close()
	assert.Error(t, rs.Ping(ctx))
}

func writeJSON(t *testing.T, dir, kind, name, body string) {
	t.Helper()
	path := filepath.Join(dir, kind)
	require.NoError(t, os.MkdirAll(path, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(path, name), []byte(body), 0644))
}

func TestRedisStorage_StaticData(t *testing.T) {
	rs, _ := setupTestStorage(t)
	ctx := context.Background()

	writeJSON(t, rs.dataDir, "species", "rattata.json",
		`{"id":"ignored","name":"Rattata","types":["Normal"],"base_stats":{"hp":30,"attack":56,"defense":35,"special_attack":25,"special_defense":35,"speed":72}}`)
	writeJSON(t, rs.dataDir, "species", "notes.txt", "not a species")
	writeJSON(t, rs.dataDir, "items", "potion.json",
		`{"name":"Potion","quantity":9,"can_use_in_battle":true,"target_type":"self_team","effect":{"type":"heal_hp","amount":20}}`)
	writeJSON(t, rs.dataDir, "trainers", "red.json",
		`{"name":"Red","max_hp":20,"team":[{"species":"rattata","level":5}]}`)

	t.Run("species", func(t *testing.T) {
		ids, err := rs.ListSpecies(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"rattata"}, ids)

		sp, err := rs.GetSpecies(ctx, "rattata")
		require.NoError(t, err)
		assert.Equal(t, "rattata", sp.ID)
		assert.Equal(t, 72, sp.BaseStats.Speed)
		assert.Equal(t, []battle.PokemonType{battle.TypeNormal}, sp.Types)
	})

	t.Run("items", func(t *testing.T) {
		item, err := rs.GetItem(ctx, "potion")
		require.NoError(t, err)
		assert.Equal(t, "potion", item.ID)
		assert.Equal(t, 0, item.Quantity)
		require.NotNil(t, item.Effect)
		assert.Equal(t, battle.ItemEffectHealHP, item.Effect.Type)
	})

	t.Run("trainers", func(t *testing.T) {
		ids, err := rs.ListTrainers(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"red"}, ids)

		spec, err := rs.GetTrainerSpec(ctx, "red")
		require.NoError(t, err)
		assert.Equal(t, "red", spec.ID)
		assert.Equal(t, 5, spec.Team[0].Level)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := rs.GetSpecies(ctx, "mew")
		assert.True(t, errors.Is(err, storage.ErrNotFound), "expected ErrNotFound, got %v", err)

		_, err = rs.GetItem(ctx, "../trainers/red")
		assert.True(t, errors.Is(err, storage.ErrNotFound), "expected traversal to be rejected, got %v", err)
	})

	t.Run("missing directory lists nothing", func(t *testing.T) {
		empty := NewRedisStorage("localhost:0", filepath.Join(t.TempDir(), "none"), rs.logger)
		ids, err := empty.ListItems(ctx)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})
}

func TestRedisStorage_YAMLRecords(t *testing.T) {
	rs, _ := setupTestStorage(t)
	ctx := context.Background()

	writeJSON(t, rs.dataDir, "species", "pidgey.yaml", `
name: Pidgey
types: [Normal, Flying]
base_stats: {hp: 40, attack: 45, defense: 40, special_attack: 35, special_defense: 35, speed: 56}
moves:
  - name: Gust
    power: 40
    type: Flying
    category: special
    base_pp: 35
    accuracy: 100
  - name: Sand Attack
    type: Ground
    category: status
    base_pp: 15
    effects:
      - type: stat_change
        target: opponent
        stat_changes: [{stat: accuracy, stage: -1}]
`)
	writeJSON(t, rs.dataDir, "species", "rattata.json",
		`{"name":"Rattata","types":["Normal"],"base_stats":{"hp":30,"attack":56,"defense":35,"special_attack":25,"special_defense":35,"speed":72}}`)
	writeJSON(t, rs.dataDir, "species", "rattata.yml", "name: Shadowed\n")

	ids, err := rs.ListSpecies(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"pidgey", "rattata"}, ids)

	sp, err := rs.GetSpecies(ctx, "pidgey")
	require.NoError(t, err)
	assert.Equal(t, "pidgey", sp.ID)
	assert.Equal(t, []battle.PokemonType{battle.TypeNormal, battle.TypeFlying}, sp.Types)
	assert.Equal(t, 35, sp.BaseStats.SpecialAttack)
	require.Len(t, sp.Moves, 2)
	require.Len(t, sp.Moves[1].Effects, 1)
	assert.Equal(t, -1, sp.Moves[1].Effects[0].StatChanges[0].Stage)

	// JSON wins when both formats exist.
	sp, err = rs.GetSpecies(ctx, "rattata")
	require.NoError(t, err)
	assert.Equal(t, "Rattata", sp.Name)
}

func TestDecodeRecord(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		data    string
		strict  bool
		wantErr bool
	}{
		{"json", "x.json", `{"name":"Potion"}`, true, false},
		{"yaml", "x.yaml", "name: Potion\n", true, false},
		{"unknown field lenient", "x.yml", "name: Potion\ncolour: red\n", false, false},
		{"unknown field strict", "x.yml", "name: Potion\ncolour: red\n", true, true},
		{"bad yaml", "x.yaml", "name: [unclosed\n", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var item battle.InventoryItem
			err := DecodeRecord(tt.path, []byte(tt.data), &item, tt.strict)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Potion", item.Name)
		})
	}
}
