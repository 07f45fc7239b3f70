// File: utils/constants.go
package utils

// DateLayout is the wire and storage format of slot dates.
const DateLayout = "2006-01-02"

// SlotChannelPrefix prefixes the Redis pub/sub channels carrying slot updates.
const SlotChannelPrefix = "courtbook:slots:"

// Context keys set by the auth middleware.
const (
	ContextActorKey = "actor"
	ContextUserID   = "userID"
)

// ContextLoggerKey holds the request-scoped *zap.Logger.
const ContextLoggerKey = "logger"
