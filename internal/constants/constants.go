package constants

// Centralized constants for env keys, log fields and CLI messages.
const (
	// Environment variable keys
	EnvConfig      = "GAIA_CONFIG"
	EnvDB          = "GAIA_DB"
	EnvSeed        = "GAIA_SEED"
	EnvEncounters  = "GAIA_ENCOUNTERS"
	EnvParallelism = "GAIA_PARALLELISM"
	EnvMaxRounds   = "GAIA_MAX_ROUNDS"
	EnvUser        = "GAIA_USER"
	EnvEncounter   = "GAIA_ENCOUNTER"
	EnvLogLevel    = "GAIA_LOG_LEVEL"
)

// Log field names shared by every package.
const (
	LogFieldEncounterID = "encounter_id"
	LogFieldUserID      = "user_id"
	LogFieldRound       = "round"
	LogFieldOutcome     = "outcome"
	LogFieldSeed        = "seed"
	LogFieldEnemy       = "enemy"
	LogFieldPath        = "path"
	LogFieldCount       = "count"
)

// Common error messages used by the CLI
const (
	ErrFailedLoadSettings = "Failed to load settings"
	ErrFailedLoadConfig   = "Failed to load config"
	ErrFailedOpenDB       = "Failed to open database"
	ErrFailedSimulation   = "Simulation failed"
)
