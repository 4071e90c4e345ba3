package envvar

const (
	// AuroraViewEnv is the environment variable used to determine the environment
	AuroraViewEnv = "AURORAVIEW_ENV"

	// AuroraViewMainThreadBackend overrides main-thread backend selection by
	// display name, matched case-insensitively
	AuroraViewMainThreadBackend = "AURORAVIEW_MAINTHREAD_BACKEND"

	// AuroraViewLogLevel is the environment variable used to determine the log level
	AuroraViewLogLevel = "AURORAVIEW_LOG_LEVEL"

	// AuroraViewConfig points at an alternative dispatcher config file
	AuroraViewConfig = "AURORAVIEW_CONFIG"
)
