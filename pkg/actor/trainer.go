package actor

import (
	"encoding/json"
	"fmt"
	"maps"
	"strings"

	"github.com/jwebster45206/d20"
)

// TrainerStats are the trainer's own abilities, separate from their Pokemon.
type TrainerStats struct {
	Stamina   int `json:"stamina"`
	Charisma  int `json:"charisma"`
	Knowledge int `json:"knowledge"`
	Luck      int `json:"luck"`
}

var coreStats = map[string]bool{
	"stamina": true, "charisma": true, "knowledge": true, "luck": true,
}

// ToAttributes converts TrainerStats to a map for d20.Actor compatibility
func (s *TrainerStats) ToAttributes() map[string]int {
	return map[string]int{
		"stamina":   s.Stamina,
		"charisma":  s.Charisma,
		"knowledge": s.Knowledge,
		"luck":      s.Luck,
	}
}

// TrainerSpec is the serializable specification for a player trainer
type TrainerSpec struct {
	ID              string         `json:"id"`
	Name            string         `json:"name,omitempty"`
	Pronouns        string         `json:"pronouns,omitempty"`
	Hometown        string         `json:"hometown,omitempty"`
	Description     string         `json:"description,omitempty"`
	Badges          []string       `json:"badges,omitempty"`
	Money           int            `json:"money,omitempty"`
	Stats           TrainerStats   `json:"stats,omitempty"`
	HP              int            `json:"hp,omitempty"`     // Current HP (for serialization)
	MaxHP           int            `json:"max_hp,omitempty"` // Maximum HP
	AC              int            `json:"ac,omitempty"`
	CombatModifiers map[string]int `json:"combat_modifiers,omitempty"`
	Attributes      map[string]int `json:"attributes,omitempty"` // Skills like "fishing" or "tracking"
	Team            []TeamEntry    `json:"team,omitempty"`       // Default team for new battles
}

// TeamEntry names a species and level on a trainer's default team.
type TeamEntry struct {
	Species string `json:"species"`
	Level   int    `json:"level"`
}

// Trainer is the runtime representation of a player trainer
type Trainer struct {
	Spec  *TrainerSpec
	Actor *d20.Actor // Built at runtime from TrainerSpec
}

// NewTrainerFromSpec creates a Trainer from a TrainerSpec
// This is the preferred way to construct trainers after loading from storage
func NewTrainerFromSpec(spec *TrainerSpec) (*Trainer, error) {
	if spec == nil {
		return nil, fmt.Errorf("spec cannot be nil")
	}
	a, err := buildActor(spec)
	if err != nil {
		return nil, err
	}
	return &Trainer{Spec: spec, Actor: a}, nil
}

func buildActor(spec *TrainerSpec) (*d20.Actor, error) {
	allAttrs := spec.Stats.ToAttributes()
	maps.Copy(allAttrs, spec.Attributes)

	a, err := d20.NewActor(spec.ID).
		WithHP(spec.MaxHP).
		WithAC(spec.AC).
		WithAttributes(allAttrs).
		WithCombatModifiers(spec.CombatModifiers).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build actor: %w", err)
	}

	// Set current HP if different from max
	if spec.HP != spec.MaxHP && spec.HP > 0 {
		if err := a.SetHP(spec.HP); err != nil {
			return nil, fmt.Errorf("failed to set HP: %w", err)
		}
	}
	return a, nil
}

// MarshalJSON writes the trainer back in TrainerSpec form, reading current
// HP, AC, stats and modifiers from the Actor
func (t *Trainer) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("null"), nil
	}
	if t.Actor == nil {
		return json.Marshal(t.Spec)
	}

	getAttr := func(key string) int {
		if val, ok := t.Actor.Attribute(key); ok {
			return val
		}
		return 0
	}

	resp := *t.Spec
	resp.HP = t.Actor.HP()
	resp.MaxHP = t.Actor.MaxHP()
	resp.AC = t.Actor.AC()
	resp.Stats = TrainerStats{
		Stamina:   getAttr("stamina"),
		Charisma:  getAttr("charisma"),
		Knowledge: getAttr("knowledge"),
		Luck:      getAttr("luck"),
	}

	resp.CombatModifiers = make(map[string]int)
	for _, mod := range t.Actor.GetCombatModifiers() {
		resp.CombatModifiers[mod.Reason] = mod.Value
	}

	resp.Attributes = make(map[string]int)
	for key := range t.Spec.Attributes {
		if coreStats[key] {
			continue
		}
		if val, ok := t.Actor.Attribute(key); ok {
			resp.Attributes[key] = val
		}
	}

	return json.Marshal(resp)
}

// UnmarshalJSON reconstructs a Trainer from JSON and rebuilds its Actor
func (t *Trainer) UnmarshalJSON(data []byte) error {
	var spec TrainerSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return fmt.Errorf("failed to unmarshal trainer spec: %w", err)
	}
	a, err := buildActor(&spec)
	if err != nil {
		return fmt.Errorf("failed to rebuild actor: %w", err)
	}
	t.Spec = &spec
	t.Actor = a
	return nil
}

// Summary is a one-line description for status panels, e.g.
// "Red (he/him) from Pallet Town, 2 badges, ₽3000, HP 20/20".
func (t *Trainer) Summary() string {
	if t == nil || t.Spec == nil {
		return ""
	}
	sb := strings.Builder{}
	sb.WriteString(t.Spec.Name)
	if t.Spec.Pronouns != "" {
		sb.WriteString(fmt.Sprintf(" (%s)", t.Spec.Pronouns))
	}
	if t.Spec.Hometown != "" {
		sb.WriteString(" from " + t.Spec.Hometown)
	}

	parts := []string{}
	switch n := len(t.Spec.Badges); n {
	case 0:
	case 1:
		parts = append(parts, "1 badge")
	default:
		parts = append(parts, fmt.Sprintf("%d badges", n))
	}
	parts = append(parts, fmt.Sprintf("₽%d", t.Spec.Money))
	if t.Actor != nil {
		parts = append(parts, fmt.Sprintf("HP %d/%d", t.Actor.HP(), t.Actor.MaxHP()))
	}
	sb.WriteString(", " + strings.Join(parts, ", "))
	return sb.String()
}
