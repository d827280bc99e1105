package game

import "errors"

var (
	ErrHealthOutOfRange        = errors.New("health out of range")
	ErrInvalidMaxHealth        = errors.New("max health must be positive")
	ErrNegativeDamage          = errors.New("damage must not be negative")
	ErrNegativeHeal            = errors.New("heal amount must not be negative")
	ErrNegativeResistanceDelta = errors.New("resistance delta must not be negative")
	ErrInvalidParry            = errors.New("parry threshold must be positive and reflection non-negative")
	ErrInvalidIntelligence     = errors.New("intelligence must be positive")
	ErrUnknownAbility          = errors.New("unknown ability action")
	ErrEmptyOffensivenessTable = errors.New("offensiveness table is empty")
)
