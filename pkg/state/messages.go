package state

import (
	"golang.org/x/text/language"

	"github.com/jwebster45206/pokequest/pkg/i18n"
)

const (
	MsgWildAppeared = "A wild %s appeared!"
	MsgTrainerSent  = "The opposing trainer sent out %s!"
	MsgGoPokemon    = "Go! %s!"
	MsgComeBack     = "%s, come back!"
	MsgGotAway      = "Got away safely!"
	MsgJoinedTeam   = "%s joined your team!"
	MsgTeamFull     = "Your team is full, so %s was sent to storage."
	MsgWon          = "You won the battle!"
	MsgOutOfPokemon = "You have no Pokémon left that can fight!"
)

func init() {
	i18n.MustRegister(language.Chinese, map[string]string{
		MsgWildAppeared: "野生的%s出现了！",
		MsgTrainerSent:  "对手派出了%s！",
		MsgGoPokemon:    "上吧！%s！",
		MsgComeBack:     "%s，回来吧！",
		MsgGotAway:      "成功逃走了！",
		MsgJoinedTeam:   "%s加入了队伍！",
		MsgTeamFull:     "队伍已满，%s被送往了仓库。",
		MsgWon:          "你赢得了对战！",
		MsgOutOfPokemon: "你已经没有可以战斗的宝可梦了！",
	})
}
