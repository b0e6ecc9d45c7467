package state

import "errors"

var (
	ErrBattleOver       = errors.New("battle is over")
	ErrBattleInProgress = errors.New("battle is still in progress")
	ErrInvalidMove      = errors.New("invalid move")
	ErrInvalidItem      = errors.New("invalid item")
	ErrInvalidSwitch    = errors.New("invalid switch")
	ErrCannotRun        = errors.New("cannot run from a trainer battle")
	ErrUnknownCommand   = errors.New("unknown command")
)
