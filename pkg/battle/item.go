package battle

// ItemTargetType says who an inventory item is used on.
type ItemTargetType string

const (
	ItemTargetSelfTeam   ItemTargetType = "self_team"
	ItemTargetEnemy      ItemTargetType = "enemy"
	ItemTargetSelfActive ItemTargetType = "self_active"
)

// ItemEffectType tags an ItemEffect.
type ItemEffectType string

const (
	ItemEffectHealHP        ItemEffectType = "heal_hp"
	ItemEffectCureStatus    ItemEffectType = "cure_status"
	ItemEffectCatchPokemon  ItemEffectType = "catch_pokemon"
	ItemEffectStatBoostTemp ItemEffectType = "stat_boost_temp" // Declared, not applied
)

// ItemEffect is the payload of a usable item.
type ItemEffect struct {
	Type       ItemEffectType  `json:"type"`
	Amount     int             `json:"amount,omitempty"`      // heal_hp
	Status     StatusCondition `json:"status,omitempty"`      // cure_status
	CatchBonus float64         `json:"catch_bonus,omitempty"` // catch_pokemon ball multiplier, 0 means 1
	Stat       Stat            `json:"stat,omitempty"`        // stat_boost_temp
	Stages     int             `json:"stages,omitempty"`      // stat_boost_temp
}

// InventoryItem is a stack of items in the player's bag.
type InventoryItem struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Quantity       int            `json:"quantity"`
	Description    string         `json:"description,omitempty"`
	EffectText     string         `json:"effect_text,omitempty"`
	ImageURL       string         `json:"image_url,omitempty"`
	CanUseInBattle bool           `json:"can_use_in_battle"`
	TargetType     ItemTargetType `json:"target_type"`
	Effect         *ItemEffect    `json:"effect,omitempty"`
}
