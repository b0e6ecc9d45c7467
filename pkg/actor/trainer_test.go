package actor

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestTrainerStats_ToAttributes(t *testing.T) {
	stats := TrainerStats{Stamina: 12, Charisma: 9, Knowledge: 14, Luck: 11}
	attrs := stats.ToAttributes()

	tests := []struct {
		key      string
		expected int
	}{
		{"stamina", 12},
		{"charisma", 9},
		{"knowledge", 14},
		{"luck", 11},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := attrs[tt.key]; got != tt.expected {
				t.Errorf("ToAttributes()[%q] = %d, want %d", tt.key, got, tt.expected)
			}
		})
	}
}

func testSpec() TrainerSpec {
	return TrainerSpec{
		ID:       "red",
		Name:     "Red",
		Pronouns: "they/them",
		Hometown: "Pallet Town",
		Badges:   []string{"boulder", "cascade"},
		Money:    3000,
		Stats:    TrainerStats{Stamina: 12, Charisma: 9, Knowledge: 14, Luck: 11},
		HP:       15,
		MaxHP:    20,
		AC:       10,
		CombatModifiers: map[string]int{
			"running_shoes": 2,
		},
		Attributes: map[string]int{"fishing": 3},
		Team:       []TeamEntry{{Species: "pikachu", Level: 25}},
	}
}

func TestNewTrainerFromSpec(t *testing.T) {
	spec := testSpec()
	tr, err := NewTrainerFromSpec(&spec)
	if err != nil {
		t.Fatalf("NewTrainerFromSpec() error = %v", err)
	}

	if tr.Actor == nil {
		t.Fatal("expected actor to be built")
	}
	if tr.Actor.HP() != 15 {
		t.Errorf("expected HP 15, got %d", tr.Actor.HP())
	}
	if tr.Actor.MaxHP() != 20 {
		t.Errorf("expected MaxHP 20, got %d", tr.Actor.MaxHP())
	}
	if v, ok := tr.Actor.Attribute("luck"); !ok || v != 11 {
		t.Errorf("expected luck 11, got %d (ok=%v)", v, ok)
	}
	if v, ok := tr.Actor.Attribute("fishing"); !ok || v != 3 {
		t.Errorf("expected fishing 3, got %d (ok=%v)", v, ok)
	}
	if len(tr.Spec.Team) != 1 || tr.Spec.Team[0].Species != "pikachu" {
		t.Errorf("expected default team with pikachu, got %+v", tr.Spec.Team)
	}
}

func TestNewTrainerFromSpec_ZeroMaxHP(t *testing.T) {
	if _, err := NewTrainerFromSpec(&TrainerSpec{Name: "Nobody"}); err == nil {
		t.Error("expected error when max_hp is 0")
	}
}

func TestNewTrainerFromSpec_Nil(t *testing.T) {
	if _, err := NewTrainerFromSpec(nil); err == nil {
		t.Error("expected error for nil spec")
	}
}

func TestTrainer_MarshalJSON(t *testing.T) {
	spec := testSpec()
	tr, err := NewTrainerFromSpec(&spec)
	if err != nil {
		t.Fatalf("NewTrainerFromSpec() error = %v", err)
	}
	if err := tr.Actor.SetHP(7); err != nil {
		t.Fatalf("SetHP() error = %v", err)
	}

	data, err := json.Marshal(tr)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var out TrainerSpec
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if out.HP != 7 {
		t.Errorf("expected HP from actor 7, got %d", out.HP)
	}
	if out.Stats.Knowledge != 14 {
		t.Errorf("expected knowledge 14, got %d", out.Stats.Knowledge)
	}
	if out.CombatModifiers["running_shoes"] != 2 {
		t.Errorf("expected running_shoes modifier 2, got %d", out.CombatModifiers["running_shoes"])
	}
	if _, ok := out.Attributes["luck"]; ok {
		t.Error("core stats should not be duplicated into attributes")
	}
	if out.Attributes["fishing"] != 3 {
		t.Errorf("expected fishing 3, got %d", out.Attributes["fishing"])
	}
}

func TestTrainer_MarshalJSON_NilTrainer(t *testing.T) {
	var tr *Trainer
	data, err := json.Marshal(tr)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != "null" {
		t.Errorf("expected null, got %s", data)
	}
}

func TestTrainer_RoundTrip(t *testing.T) {
	spec := testSpec()
	orig, err := NewTrainerFromSpec(&spec)
	if err != nil {
		t.Fatalf("NewTrainerFromSpec() error = %v", err)
	}

	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var restored Trainer
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if restored.Actor == nil {
		t.Fatal("expected actor to be rebuilt")
	}
	if restored.Actor.HP() != orig.Actor.HP() {
		t.Errorf("expected HP %d, got %d", orig.Actor.HP(), restored.Actor.HP())
	}
	if restored.Spec.Name != "Red" || restored.Spec.Money != 3000 {
		t.Errorf("expected Red with 3000, got %s with %d", restored.Spec.Name, restored.Spec.Money)
	}
}

func TestTrainer_Summary(t *testing.T) {
	spec := testSpec()
	tr, err := NewTrainerFromSpec(&spec)
	if err != nil {
		t.Fatalf("NewTrainerFromSpec() error = %v", err)
	}

	got := tr.Summary()
	expected := "Red (they/them) from Pallet Town, 2 badges, ₽3000, HP 15/20"
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}

	tr.Spec.Badges = []string{"boulder"}
	if !strings.Contains(tr.Summary(), "1 badge,") {
		t.Errorf("expected singular badge, got %q", tr.Summary())
	}

	var nilTrainer *Trainer
	if nilTrainer.Summary() != "" {
		t.Error("expected empty summary for nil trainer")
	}
}
