package constants

// Centralized constants for env keys, headers and routes.
const (
	// Environment variable keys
	EnvConfigPath = "FATEWEAVER_CONFIG"
	EnvDBPath     = "FATEWEAVER_DB"
	EnvAddr       = "FATEWEAVER_ADDR"

	// Defaults
	DefaultConfigPath = "fateweaver_config.json"
	DefaultDBPath     = "fateweaver.db"
	DefaultAddr       = ":8080"

	// HTTP headers and content types
	HeaderContentType = "Content-Type"
	ContentTypeJSON   = "application/json"
)

// Routes used by the backend router
const (
	RouteAPIPrefix        = "/api"
	RouteHealth           = "/healthz"
	RouteVersion          = "/version"
	RouteContent          = "/content"
	RouteEncounters       = "/encounters"
	RouteEncounterByID    = "/encounters/:encounterID"
	RouteEncounterAction  = "/encounters/:encounterID/action"
	RouteEncounterAdvance = "/encounters/:encounterID/advance"
	RouteEncounterResult  = "/encounters/:encounterID/result"
	RouteEncounterVerify  = "/encounters/:encounterID/verify"
	RouteFixtures         = "/fixtures"
	RouteFixtureByName    = "/fixtures/:name"
	RouteFixtureVerify    = "/fixtures/:name/verify"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
	JSONKeyStatus  = "status"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest       = "Invalid request"
	ErrEncounterNotFound    = "Encounter not found"
	ErrEncounterOver        = "Encounter already finished"
	ErrEncounterNotOver     = "Encounter still in progress"
	ErrFixtureNotFound      = "Fixture not found"
	ErrFailedCreate         = "Failed to create encounter"
	ErrFailedStoreEncounter = "Failed to store encounter"
	ErrFailedFetchFixtures  = "Failed to fetch fixtures"
	ErrFailedSaveFixture    = "Failed to save fixture"
	ErrFailedVerify         = "Replay verification failed to run"
)

// Logging field names
const (
	LogFieldEncounterID = "encounter_id"
	LogFieldFixture     = "fixture"
	LogFieldSeed        = "seed"
	LogFieldRound       = "round"
	LogFieldPhase       = "phase"
	LogFieldAddr        = "addr"
	LogFieldPath        = "path"
	LogFieldStatus      = "status"
)
