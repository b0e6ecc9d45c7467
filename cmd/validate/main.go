package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/jwebster45206/pokequest/internal/storage"
	"github.com/jwebster45206/pokequest/pkg/actor"
	"github.com/jwebster45206/pokequest/pkg/battle"
	"github.com/jwebster45206/pokequest/pkg/state"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <data/species/x.json|data/items/x.yaml|data/trainers/x.json>...\n", os.Args[0])
		os.Exit(1)
	}

	failed := false
	for _, filename := range os.Args[1:] {
		validator := &DataValidator{}
		if err := validator.validateFile(filename); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}

	fmt.Println("All data files are valid!")
}

// DataValidator checks one data file and collects every problem it finds.
type DataValidator struct {
	errors []string
}

func (v *DataValidator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	baseName := filepath.Base(filename)
	ext := filepath.Ext(baseName)
	if !slices.Contains([]string{".json", ".yaml", ".yml"}, ext) {
		return fmt.Errorf("data file must have a .json, .yaml or .yml extension: %s", baseName)
	}

	id := strings.TrimSuffix(baseName, ext)
	if !isValidID(id) {
		return fmt.Errorf("data filename '%s' must be lowercase snake_case (e.g., poke_ball.json, not poke-ball.json or PokeBall.json)", baseName)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	v.errors = nil

	if ext == ".json" && !json.Valid(data) {
		return fmt.Errorf("file %s contains invalid JSON", filename)
	}

	// The parent directory names the record kind, as in the API data dir.
	switch kind := filepath.Base(filepath.Dir(filename)); kind {
	case "species":
		var s battle.Species
		if err := storage.DecodeRecord(filename, data, &s, true); err != nil {
			return fmt.Errorf("file %s failed strict unmarshaling: %w", filename, err)
		}
		v.validateSpecies(&s)
	case "items":
		var item battle.InventoryItem
		if err := storage.DecodeRecord(filename, data, &item, true); err != nil {
			return fmt.Errorf("file %s failed strict unmarshaling: %w", filename, err)
		}
		v.validateItem(&item)
	case "trainers":
		var spec actor.TrainerSpec
		if err := storage.DecodeRecord(filename, data, &spec, true); err != nil {
			return fmt.Errorf("file %s failed strict unmarshaling: %w", filename, err)
		}
		v.validateTrainer(&spec)
	default:
		return fmt.Errorf("file %s is not under a species, items or trainers directory (got %q)", filename, kind)
	}

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}

	return nil
}

func (v *DataValidator) validateSpecies(s *battle.Species) {
	if s.Name == "" {
		v.addError("species has no name")
	}

	if len(s.Types) == 0 || len(s.Types) > 2 {
		v.addError(fmt.Sprintf("species must have 1 or 2 types, got %d", len(s.Types)))
	}
	for _, t := range s.Types {
		if !t.Valid() {
			v.addError(fmt.Sprintf("unknown type '%s'", t))
		}
	}

	bs := s.BaseStats
	for name, value := range map[string]int{
		"hp": bs.HP, "attack": bs.Attack, "defense": bs.Defense,
		"special_attack": bs.SpecialAttack, "special_defense": bs.SpecialDefense, "speed": bs.Speed,
	} {
		if value <= 0 {
			v.addError(fmt.Sprintf("base stat %s must be positive, got %d", name, value))
		}
	}

	if len(s.Moves) == 0 {
		v.addError("species has no moves")
	}
	if len(s.Moves) > battle.MaxMoves {
		v.addError(fmt.Sprintf("species has %d moves, only the first %d are used", len(s.Moves), battle.MaxMoves))
	}
	for i := range s.Moves {
		v.validateMove(&s.Moves[i])
	}
}

func (v *DataValidator) validateMove(m *battle.Move) {
	context := fmt.Sprintf("move '%s'", m.Name)
	if m.Name == "" {
		v.addError("move has no name")
	}
	if !m.Type.Valid() {
		v.addError(fmt.Sprintf("%s has unknown type '%s'", context, m.Type))
	}

	switch m.Category {
	case battle.CategoryPhysical, battle.CategorySpecial:
		if m.Power <= 0 {
			v.addError(fmt.Sprintf("%s is %s but has no power", context, m.Category))
		}
	case battle.CategoryStatus:
		if m.Power != 0 {
			v.addError(fmt.Sprintf("%s is a status move with power %d", context, m.Power))
		}
	default:
		v.addError(fmt.Sprintf("%s has unknown category '%s'", context, m.Category))
	}

	if m.BasePP <= 0 {
		v.addError(fmt.Sprintf("%s must have positive base_pp", context))
	}
	if m.CurrentPP < 0 || m.CurrentPP > m.BasePP {
		v.addError(fmt.Sprintf("%s current_pp %d is outside 0..%d", context, m.CurrentPP, m.BasePP))
	}
	if m.Accuracy != nil && (*m.Accuracy < 1 || *m.Accuracy > 100) {
		v.addError(fmt.Sprintf("%s accuracy %d is outside 1..100", context, *m.Accuracy))
	}

	for _, e := range m.Effects {
		v.validateMoveEffect(context, &e)
	}
}

func (v *DataValidator) validateMoveEffect(context string, e *battle.MoveEffect) {
	context = fmt.Sprintf("%s effect '%s'", context, e.Type)

	if !e.Type.Supported() {
		v.addError(fmt.Sprintf("%s is not applied in battle", context))
	}
	if e.Target != battle.TargetSelf && e.Target != battle.TargetOpponent {
		v.addError(fmt.Sprintf("%s has unknown target '%s'", context, e.Target))
	}
	if e.Chance != nil && (*e.Chance < 0 || *e.Chance > 1) {
		v.addError(fmt.Sprintf("%s chance %.2f is outside 0..1", context, *e.Chance))
	}

	switch e.Type {
	case battle.EffectStatus:
		if e.Status == "" || e.Status == battle.StatusNone {
			v.addError(fmt.Sprintf("%s needs a status", context))
		}
	case battle.EffectStatChange:
		if len(e.StatChanges) == 0 {
			v.addError(fmt.Sprintf("%s needs stat_changes", context))
		}
		for _, sc := range e.StatChanges {
			if sc.Stat == battle.StatHP || !validStats[sc.Stat] {
				v.addError(fmt.Sprintf("%s cannot change stat '%s'", context, sc.Stat))
			}
		}
	case battle.EffectHeal:
		if e.HealPercent <= 0 {
			v.addError(fmt.Sprintf("%s needs a positive heal_percent", context))
		}
	case battle.EffectDamageHeal:
		if e.DamageHealRatio <= 0 {
			v.addError(fmt.Sprintf("%s needs a positive damage_heal_ratio", context))
		}
	case battle.EffectRecoilPercent:
		if e.RecoilPercent <= 0 {
			v.addError(fmt.Sprintf("%s needs a positive recoil_percent", context))
		}
	case battle.EffectRecoilFixed:
		if e.RecoilFixedPercentMaxHP <= 0 {
			v.addError(fmt.Sprintf("%s needs a positive recoil_fixed_percent_max_hp", context))
		}
	}
}

func (v *DataValidator) validateItem(item *battle.InventoryItem) {
	if item.Name == "" {
		v.addError("item has no name")
	}
	if item.Quantity != 0 {
		v.addError("item definitions must not carry a quantity")
	}

	switch item.TargetType {
	case battle.ItemTargetSelfTeam, battle.ItemTargetEnemy, battle.ItemTargetSelfActive:
	default:
		v.addError(fmt.Sprintf("unknown target_type '%s'", item.TargetType))
	}

	if item.Effect == nil {
		if item.CanUseInBattle {
			v.addError("battle item has no effect")
		}
		return
	}

	switch item.Effect.Type {
	case battle.ItemEffectHealHP:
		if item.Effect.Amount <= 0 {
			v.addError("heal_hp effect needs a positive amount")
		}
	case battle.ItemEffectCureStatus:
		// An empty status cures everything.
	case battle.ItemEffectCatchPokemon:
		if item.TargetType != battle.ItemTargetEnemy {
			v.addError("catch_pokemon items must target the enemy")
		}
		if item.Effect.CatchBonus < 0 {
			v.addError("catch_bonus must not be negative")
		}
	case battle.ItemEffectStatBoostTemp:
		if !validStats[item.Effect.Stat] {
			v.addError(fmt.Sprintf("stat_boost_temp has unknown stat '%s'", item.Effect.Stat))
		}
	default:
		v.addError(fmt.Sprintf("unknown effect type '%s'", item.Effect.Type))
	}
}

func (v *DataValidator) validateTrainer(spec *actor.TrainerSpec) {
	if spec.Name == "" {
		v.addError("trainer has no name")
	}
	if spec.MaxHP <= 0 {
		v.addError("trainer max_hp must be positive")
	}
	if len(spec.Team) > state.MaxTeamSize {
		v.addError(fmt.Sprintf("team has %d members, the limit is %d", len(spec.Team), state.MaxTeamSize))
	}
	for _, entry := range spec.Team {
		v.validateIDFormat("team species", entry.Species)
		if entry.Level < battle.MinLevel || entry.Level > battle.MaxLevel {
			v.addError(fmt.Sprintf("team member %s level %d is outside %d..%d", entry.Species, entry.Level, battle.MinLevel, battle.MaxLevel))
		}
	}
}

func (v *DataValidator) validateIDFormat(fieldName, id string) {
	if !isValidID(id) {
		v.addError(fmt.Sprintf("%s '%s' should be lowercase snake_case", fieldName, id))
	}
}

func (v *DataValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

var validStats = map[battle.Stat]bool{
	battle.StatHP:             true,
	battle.StatAttack:         true,
	battle.StatDefense:        true,
	battle.StatSpecialAttack:  true,
	battle.StatSpecialDefense: true,
	battle.StatSpeed:          true,
	battle.StatAccuracy:       true,
	battle.StatEvasion:        true,
}

var validIDRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)

func isValidID(id string) bool {
	return validIDRegex.MatchString(id)
}
