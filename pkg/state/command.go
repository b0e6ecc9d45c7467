package state

import (
	"strconv"
	"strings"
)

type CommandType string

const (
	CmdMove   CommandType = "move"
	CmdItem   CommandType = "item"
	CmdSwitch CommandType = "switch"
	CmdRun    CommandType = "run"
	CmdNone   CommandType = "" // Not a battle command
)

// Command is one player choice for a turn. Indexes are zero-based.
type Command struct {
	Type        CommandType `json:"type"`
	MoveIndex   int         `json:"move_index,omitempty"`
	ItemID      string      `json:"item_id,omitempty"`
	SwitchIndex int         `json:"switch_index,omitempty"`
	// TargetIndex picks the team member for self_team items; nil means
	// the active Pokemon.
	TargetIndex *int `json:"target_index,omitempty"`
}

// ParseCommand reads typed input such as "2", "/item potion", "switch 3"
// or "run". Move and team numbers are one-based in text. The second return
// is false when the input is not a battle command.
func ParseCommand(input string) (Command, bool) {
	known := map[string]CommandType{
		"move":   CmdMove,
		"m":      CmdMove,
		"item":   CmdItem,
		"i":      CmdItem,
		"use":    CmdItem,
		"switch": CmdSwitch,
		"s":      CmdSwitch,
		"run":    CmdRun,
		"r":      CmdRun,
		"flee":   CmdRun,
	}

	fields := strings.Fields(strings.ToLower(strings.TrimSpace(input)))
	if len(fields) == 0 {
		return Command{}, false
	}
	word := strings.TrimPrefix(fields[0], "/")

	// A bare number picks a move.
	if n, err := strconv.Atoi(word); err == nil {
		return Command{Type: CmdMove, MoveIndex: n - 1}, n >= 1
	}

	cmd, ok := known[word]
	if !ok {
		return Command{}, false
	}
	args := fields[1:]

	switch cmd {
	case CmdMove, CmdSwitch:
		if len(args) == 0 {
			return Command{}, false
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return Command{}, false
		}
		if cmd == CmdMove {
			return Command{Type: CmdMove, MoveIndex: n - 1}, true
		}
		return Command{Type: CmdSwitch, SwitchIndex: n - 1}, true

	case CmdItem:
		if len(args) == 0 {
			return Command{}, false
		}
		c := Command{Type: CmdItem, ItemID: args[0]}
		if len(args) > 1 {
			if n, err := strconv.Atoi(args[1]); err == nil && n >= 1 {
				target := n - 1
				c.TargetIndex = &target
			}
		}
		return c, true

	case CmdRun:
		return Command{Type: CmdRun}, true
	}
	return Command{}, false
}
