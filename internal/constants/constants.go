package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "jmetrics"

	// ConfigFileName is the default config file name
	ConfigFileName = ".jmetrics.yaml"

	// EnvVarPrefix is the prefix for environment variables
	EnvVarPrefix = "JMETRICS"
)

// ConfigFileNames lists the file names searched during config discovery, in order
var ConfigFileNames = []string{
	".jmetrics.yaml",
	".jmetrics.yml",
	"jmetrics.yaml",
	"jmetrics.yml",
	".jmetrics.json",
	".jmetrics.toml",
}

// Output format constants
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
	OutputFormatCSV  = "csv"
)

// Input file kinds recognized by the compute command
const (
	JavaSourceExtension = ".java"
)

// Exit codes of the check command
const (
	ExitCodeSuccess   = 0
	ExitCodeViolation = 1
	ExitCodeError     = 2
)
