package battle

import (
	"golang.org/x/text/language"

	"github.com/jwebster45206/pokequest/pkg/i18n"
)

// Battle-log format strings. They are also the catalog keys for
// translations, so edit the Chinese table below alongside them.
const (
	MsgSuperEffective   = "It's super effective!"
	MsgNotVeryEffective = "It's not very effective..."
	MsgNoEffect         = "It has no effect..."

	MsgFlinched         = "%s flinched and couldn't move!"
	MsgWokeUp           = "%s woke up!"
	MsgFastAsleep       = "%s is fast asleep."
	MsgThawed           = "%s thawed out!"
	MsgFrozenSolid      = "%s is frozen solid!"
	MsgFullyParalyzed   = "%s is fully paralyzed! It can't move!"
	MsgSnappedOut       = "%s snapped out of its confusion!"
	MsgIsConfused       = "%s is confused!"
	MsgHurtInConfusion  = "It hurt itself in its confusion! (%d damage)"
	MsgMustStruggle     = "%s has no moves left!"
	MsgTypeImmune       = "It doesn't affect %s because of its %s type!"
	MsgAlreadyStatus    = "%s is already %s!"
	MsgStatusFailed     = "But it failed! %s is already %s."
	MsgBecameParalyzed  = "%s is paralyzed! It may be unable to move!"
	MsgBecamePoisoned   = "%s was poisoned!"
	MsgBecameBadlyPois  = "%s was badly poisoned!"
	MsgBecameBurned     = "%s was burned!"
	MsgBecameFrozen     = "%s was frozen solid!"
	MsgFellAsleep       = "%s fell asleep!"
	MsgBecameConfused   = "%s became confused!"
	MsgStatusGeneric    = "%s is now %s!"
	MsgStatMaxed        = "%s's %s won't go any higher!"
	MsgStatMinimized    = "%s's %s won't go any lower!"
	MsgStatRose         = "%s's %s rose!"
	MsgStatRoseSharply  = "%s's %s rose sharply!"
	MsgStatRoseDrastic  = "%s's %s rose drastically!"
	MsgStatFell         = "%s's %s fell!"
	MsgStatFellHarshly  = "%s's %s harshly fell!"
	MsgStatFellSeverely = "%s's %s severely fell!"
	MsgHPFull           = "%s's HP is already full!"
	MsgRestoredHP       = "%s restored %d HP!"
	MsgDrainedHP        = "%s drained %d HP!"
	MsgRecoil           = "%s is damaged by recoil! (%d damage)"

	MsgPoisonDamage      = "%s is hurt by poison! (%d damage)"
	MsgBadlyPoisonDamage = "%s is badly hurt by poison! (%d damage)"
	MsgBurnDamage        = "%s is hurt by its burn! (%d damage)"
	MsgFainted           = "%s fainted!"

	MsgItemNoEffect     = "This item has no effect."
	MsgItemUnusable     = "%s can't be used here."
	MsgItemNoTarget     = "There is no target for %s."
	MsgItemOnFainted    = "%s has fainted. It won't have any effect."
	MsgItemRecoveredHP  = "%s recovered %d HP!"
	MsgItemCured        = "%s was cured of its %s condition!"
	MsgItemNotAfflicted = "%s isn't %s."
	MsgCatchOwned       = "You can't catch a Pokémon that already belongs to you!"
	MsgThrewBall        = "You threw a %s!"
	MsgCaught           = "Gotcha! %s was caught!"
	MsgBrokeFree        = "Oh no! %s broke free!"

	MsgUsedMove   = "%s used %s!"
	MsgMissed     = "%s's attack missed!"
	MsgTookDamage = "%s took %d damage!"
	MsgNoPP       = "%s has no PP left for %s!"
)

var statNames = map[Stat]string{
	StatHP:             "HP",
	StatAttack:         "Attack",
	StatDefense:        "Defense",
	StatSpecialAttack:  "Sp. Atk",
	StatSpecialDefense: "Sp. Def",
	StatSpeed:          "Speed",
	StatAccuracy:       "accuracy",
	StatEvasion:        "evasiveness",
}

var statusNames = map[StatusCondition]string{
	StatusParalyzed:     "paralyzed",
	StatusPoisoned:      "poisoned",
	StatusBadlyPoisoned: "badly poisoned",
	StatusBurned:        "burned",
	StatusFrozen:        "frozen",
	StatusAsleep:        "asleep",
	StatusConfused:      "confused",
	StatusFlinched:      "flinched",
}

// StatName returns the localized display name of stat.
func (e *Engine) StatName(stat Stat) string {
	if name, ok := statNames[stat]; ok {
		return e.loc.Name(name)
	}
	return string(stat)
}

// StatusName returns the localized adjective for condition.
func (e *Engine) StatusName(condition StatusCondition) string {
	if name, ok := statusNames[condition]; ok {
		return e.loc.Name(name)
	}
	return string(condition)
}

// TypeName returns the localized display name of t.
func (e *Engine) TypeName(t PokemonType) string {
	return e.loc.Name(string(t))
}

func init() {
	i18n.MustRegister(language.Chinese, map[string]string{
		MsgSuperEffective:   "效果拔群！",
		MsgNotVeryEffective: "效果不太好……",
		MsgNoEffect:         "好像没有效果……",

		MsgFlinched:         "%s畏缩了，无法行动！",
		MsgWokeUp:           "%s醒过来了！",
		MsgFastAsleep:       "%s正在呼呼大睡。",
		MsgThawed:           "%s的冰冻解除了！",
		MsgFrozenSolid:      "%s被冻住了，无法行动！",
		MsgFullyParalyzed:   "%s身体麻痹，无法行动！",
		MsgSnappedOut:       "%s的混乱解除了！",
		MsgIsConfused:       "%s混乱了！",
		MsgHurtInConfusion:  "不知所以地攻击了自己！（%d点伤害）",
		MsgMustStruggle:     "%s已经没有可以使用的招式了！",
		MsgTypeImmune:       "对%s没有效果，因为它是%s属性！",
		MsgAlreadyStatus:    "%s已经处于%s状态了！",
		MsgStatusFailed:     "但是失败了！%s已经处于%s状态。",
		MsgBecameParalyzed:  "%s麻痹了！可能会无法行动！",
		MsgBecamePoisoned:   "%s中毒了！",
		MsgBecameBadlyPois:  "%s中了剧毒！",
		MsgBecameBurned:     "%s被灼伤了！",
		MsgBecameFrozen:     "%s被冻住了！",
		MsgFellAsleep:       "%s睡着了！",
		MsgBecameConfused:   "%s混乱了！",
		MsgStatusGeneric:    "%s陷入了%s状态！",
		MsgStatMaxed:        "%s的%s已经无法再提高了！",
		MsgStatMinimized:    "%s的%s已经无法再降低了！",
		MsgStatRose:         "%s的%s提高了！",
		MsgStatRoseSharply:  "%s的%s大幅提高了！",
		MsgStatRoseDrastic:  "%s的%s巨幅提高了！",
		MsgStatFell:         "%s的%s降低了！",
		MsgStatFellHarshly:  "%s的%s大幅降低了！",
		MsgStatFellSeverely: "%s的%s巨幅降低了！",
		MsgHPFull:           "%s的HP已经是满的了！",
		MsgRestoredHP:       "%s回复了%d点HP！",
		MsgDrainedHP:        "%s吸取了%d点HP！",
		MsgRecoil:           "%s受到了反作用力的伤害！（%d点伤害）",

		MsgPoisonDamage:      "%s受到了毒的伤害！（%d点伤害）",
		MsgBadlyPoisonDamage: "%s受到了剧毒的伤害！（%d点伤害）",
		MsgBurnDamage:        "%s受到了灼伤的伤害！（%d点伤害）",
		MsgFainted:           "%s倒下了！",

		MsgItemNoEffect:     "这个道具没有效果。",
		MsgItemUnusable:     "%s无法在这里使用。",
		MsgItemNoTarget:     "%s没有可以使用的对象。",
		MsgItemOnFainted:    "%s已经倒下了，使用也没有效果。",
		MsgItemRecoveredHP:  "%s回复了%d点HP！",
		MsgItemCured:        "%s的%s状态治愈了！",
		MsgItemNotAfflicted: "%s并没有处于%s状态。",
		MsgCatchOwned:       "不能捕捉自己的宝可梦！",
		MsgThrewBall:        "你扔出了%s！",
		MsgCaught:           "好耶！成功捕捉到了%s！",
		MsgBrokeFree:        "糟糕！%s挣脱了！",

		MsgUsedMove:   "%s使用了%s！",
		MsgMissed:     "%s的攻击没有命中！",
		MsgTookDamage: "%s受到了%d点伤害！",
		MsgNoPP:       "%s的%s已经没有PP了！",

		"HP":          "HP",
		"Attack":      "攻击",
		"Defense":     "防御",
		"Sp. Atk":     "特攻",
		"Sp. Def":     "特防",
		"Speed":       "速度",
		"accuracy":    "命中率",
		"evasiveness": "闪避率",

		"paralyzed":      "麻痹",
		"poisoned":       "中毒",
		"badly poisoned": "剧毒",
		"burned":         "灼伤",
		"frozen":         "冰冻",
		"asleep":         "睡眠",
		"confused":       "混乱",
		"flinched":       "畏缩",

		string(TypeNormal):   "一般",
		string(TypeFire):     "火",
		string(TypeWater):    "水",
		string(TypeGrass):    "草",
		string(TypeElectric): "电",
		string(TypeFighting): "格斗",
		string(TypePsychic):  "超能力",
		string(TypeDark):     "恶",
		string(TypeSteel):    "钢",
		string(TypeDragon):   "龙",
		string(TypeFlying):   "飞行",
		string(TypeGround):   "地面",
		string(TypeRock):     "岩石",
		string(TypeBug):      "虫",
		string(TypeGhost):    "幽灵",
		string(TypeIce):      "冰",
		string(TypePoison):   "毒",
		string(TypeFairy):    "妖精",
	})
}
