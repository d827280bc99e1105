package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrQuit is returned by an ActionProvider when the player abandons the
	// combat. It is propagated without further mutation.
	ErrQuit = errors.New("combat abandoned")
	// ErrEndTurn is returned by an ActionProvider to finish the character
	// turn before the action limit is reached.
	ErrEndTurn = errors.New("end of turn")

	ErrPermanentEffect       = errors.New("cannot decrement a permanent effect")
	ErrEffectFinished        = errors.New("effect duration already finished")
	ErrMultipleIgniteEffects = errors.New("more than one ignite effect on the same entity")
	ErrUnknownAbilityType    = errors.New("unknown ability type")
	ErrOutOfBounds           = errors.New("grid position out of bounds")
	ErrGridFull              = errors.New("placement grid is full")
	ErrUnknownEntity         = errors.New("entity not in combat")
	ErrRoundLimit            = errors.New("round limit reached")
	ErrCombatOver            = errors.New("combat already finished")

	ErrNoTargetSelected = errors.New("no target selected")
	ErrNoWeaponSelected = errors.New("no weapon selected")
	ErrDuplicateParry   = errors.New("parry already queued this turn")
	ErrWrongSender      = errors.New("action must be sent by the character")
)

// ValidationError wraps a recoverable input problem. The character turn
// reports it and asks the provider again.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return "invalid action: " + e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

// Invalid wraps err as a ValidationError.
func Invalid(err error) error { return &ValidationError{Err: err} }

// Invalidf formats a ValidationError around a sentinel.
func Invalidf(sentinel error, format string, args ...any) error {
	return &ValidationError{Err: fmt.Errorf(format+": %w", append(args, sentinel)...)}
}

// IsValidation reports whether err is a recoverable input error.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
