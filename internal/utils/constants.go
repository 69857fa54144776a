package utils

// Configuration file locations.
const (
	// ConfigFileName is the local configuration file looked up in the working directory.
	ConfigFileName = ".treetouch.yaml"
	// GlobalConfigDirectoryName is the directory under the user's home holding global configuration.
	GlobalConfigDirectoryName = ".treetouch"
	// GlobalConfigFileName is the configuration file inside GlobalConfigDirectoryName.
	GlobalConfigFileName = "config.yaml"
	// DotEnvFileName is the environment file read for TREETOUCH_ overrides.
	DotEnvFileName = ".env"
)

const (
	// LoggerInitializationFailedMessageFormat reports a logger construction failure.
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
)
