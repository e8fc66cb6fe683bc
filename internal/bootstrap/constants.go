package bootstrap

import "time"

// ShutdownTimeout bounds graceful shutdown of the HTTP server
const ShutdownTimeout = 10 * time.Second

// Log messages for application lifecycle
const (
	LogMsgLoggingInitialized   = "Logging initialized"
	LogMsgStartingApp          = "Starting Floris API"
	LogMsgConfigurationLoaded  = "Configuration loaded"
	LogMsgShuttingDownServer   = "Shutting down server"
	LogMsgServerForcedShutdown = "Server forced to shutdown"
	LogMsgServerStopped        = "Server stopped"
)

// MaxLogFiles is how many session log files are kept in the log directory
const MaxLogFiles = 9
