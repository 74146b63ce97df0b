package constants

// Centralized constants for env keys, routes, JSON keys and error messages.
const (
	// Environment variable keys
	EnvSessionSecret = "SESSION_SECRET"
	EnvConfigPath    = "VEILDUEL_CONFIG"
	EnvDatabasePath  = "VEILDUEL_DB"

	// HTTP headers and content types
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"

	ContentTypeJSON = "application/json"

	// Authorization prefix
	BearerPrefix = "Bearer "
)

// Routes used by the backend router
const (
	RouteAPIPrefix        = "/api"
	RouteGuestSession     = "/session/guest"
	RouteVersion          = "/version"
	RouteLeaderboard      = "/leaderboard"
	RouteProfile          = "/profile"
	RouteMatches          = "/matches"
	RouteMatchesJoin      = "/matches/join"
	RouteMatchByCode      = "/matches/:matchCode"
	RouteRoundCommit      = "/matches/:matchCode/rounds/:roundNumber/commit"
	RouteRoundReveal      = "/matches/:matchCode/rounds/:roundNumber/reveal"
	RouteRoundResolve     = "/matches/:matchCode/rounds/:roundNumber/resolve"
	RouteRoundReady       = "/matches/:matchCode/rounds/:roundNumber/ready"
	RouteMatchmakingJoin  = "/matchmaking/join"
	RouteMatchmakingLeave = "/matchmaking/cancel"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
	JSONKeyStatus  = "status"
	JSONKeyMatched = "matched"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest    = "Invalid request"
	ErrInvalidMatchCode  = "Invalid match code"
	ErrInvalidRoundParam = "Invalid round number"
	ErrMatchNotFound     = "Match not found"
	ErrRoundNotFound     = "Round not found"
	ErrProfileNotFound   = "Profile not found"

	ErrFailedCreateMatch      = "Failed to create match"
	ErrFailedFetchMatch       = "Failed to fetch match"
	ErrFailedUpdateMatch      = "Failed to update match"
	ErrFailedFetchLeaderboard = "Failed to fetch leaderboard"
	ErrFailedFetchProfile     = "Failed to fetch profile"
	ErrFailedCreateSession    = "Failed to create session"

	ErrMatchNotJoinable   = "Match is not joinable"
	ErrMatchNotInProgress = "Match is not in progress"
	ErrNotAParticipant    = "Player is not a participant of this match"
	ErrUnknownCharacter   = "Unknown character"

	ErrInvalidAction   = "Invalid action"
	ErrAlreadyRevealed = "Action already revealed"
	ErrCommitLocked    = "Commitment is locked for this turn"
	ErrNoCommitment    = "No commitment for this round"
	ErrNotAllCommitted = "Both players must commit before revealing"
	ErrCommitMismatch  = "Revealed action does not match commitment"
	ErrNotAllRevealed  = "Both players must reveal before resolving"
	ErrRoundNotEnded   = "Round has no winner yet"
	ErrFailedStoreTurn = "Failed to store turn data"
	ErrFailedResolve   = "Failed to resolve turn"

	ErrFailedJoinQueue  = "Failed to join matchmaking queue"
	ErrFailedLeaveQueue = "Failed to leave matchmaking queue"

	ErrAuthRequired   = "Authentication required"
	ErrInvalidSession = "Invalid session"
)

// Logging field names
const (
	LogFieldMatchID   = "match_id"
	LogFieldMatchCode = "match_code"
	LogFieldRound     = "round_number"
	LogFieldPlayerID  = "player_id"
	LogFieldWinnerID  = "winner_id"
	LogFieldSource    = "source"
	LogFieldKey       = "key"
	LogFieldAddr      = "addr"
)
