// Package constants centralizes the small fixed values shared across
// handlers, middleware and services.
package constants

// Session and context keys.
const (
	SessionCookieName = "task_session"
	ContextKeyUserID  = "user_id"
	ContextKeyTask    = "task"
)

// Authentication.
const (
	MinPasswordLength = 8
)

// Pagination.
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Leaderboard.
const (
	DefaultLeaderboardLimit = 10
)
