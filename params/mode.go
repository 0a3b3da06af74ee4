package params

import (
	"errors"
	"fmt"
)

var (
	// ErrNoArguments is returned when no command token was given.
	ErrNoArguments = errors.New("no arguments passed")

	// ErrInvalidCommand is returned for an unknown command token or mode.
	ErrInvalidCommand = errors.New("invalid command")
)

// Mode selects which parameter set is emitted.
type Mode int

const (
	ModeProve Mode = iota + 1
	ModeVerify
)

// Command tokens accepted on the command line.
const (
	ProveCommand  = "gen_prove_params"
	VerifyCommand = "gen_verify_params"
)

func (m Mode) String() string {
	switch m {
	case ModeProve:
		return ProveCommand
	case ModeVerify:
		return VerifyCommand
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps a command token to its mode.
func ParseMode(token string) (Mode, error) {
	switch token {
	case "":
		return 0, ErrNoArguments
	case ProveCommand:
		return ModeProve, nil
	case VerifyCommand:
		return ModeVerify, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidCommand, token)
	}
}
