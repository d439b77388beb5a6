package suitcase

const (
	// DefaultAppFolder is the folder the packager places the application in
	DefaultAppFolder = "app"

	// ConfigFileName is the optional sidecar config looked up next to the launcher executable
	ConfigFileName = "pysuitcase.yaml"

	// EnvPrefix prefixes environment overrides, e.g. PYSUITCASE_COMMAND
	EnvPrefix = "PYSUITCASE"

	// DialogTitle is the caption of every fatal error dialog
	DialogTitle = "PySuitcase Critical Error"

	// ReadBufferSize is the chunk size used when relaying piped output
	ReadBufferSize = 1024

	// ExitFailure is returned when the launcher itself fails before or while starting the command
	ExitFailure = 1
)
