package constants

// BatutaHome is the name of the batuta configuration directory, relative
// to the user's home directory.
const BatutaHome = ".batuta"

// Configuration and log file names.
const (
	// GlobalConfigName is the name of the global batuta configuration file
	// inside the batuta home directory.
	GlobalConfigName = "config.yaml"

	// CLILogFileName is the rotating CLI log file under ~/.batuta/logs/.
	CLILogFileName = "batuta.log"

	// LogsDirName is the log directory name inside the batuta home.
	LogsDirName = "logs"
)

// CLI log rotation settings for the lumberjack writer.
const (
	// LogMaxSizeMB is the maximum size of the CLI log before rotation.
	LogMaxSizeMB = 10

	// LogMaxBackups is how many rotated log files are kept.
	LogMaxBackups = 3

	// LogMaxAgeDays is how long rotated log files are kept.
	LogMaxAgeDays = 30

	// LogCompress enables gzip compression of rotated log files.
	LogCompress = true
)

// Environment variables consulted by tool resolution.
const (
	// EnvBatutaHome overrides the batuta home directory location.
	EnvBatutaHome = "BATUTA_HOME"


	// EnvAPKEditorJar points at the APKEditor jar (file or containing
	// directory). Highest-priority resolution strategy.
	EnvAPKEditorJar = "APKEDITOR_JAR"

	// EnvAndroidHome is the primary Android SDK root variable.
	EnvAndroidHome = "ANDROID_HOME"

	// EnvAndroidSDKRoot is the legacy Android SDK root variable.
	EnvAndroidSDKRoot = "ANDROID_SDK_ROOT"
)

// APKEditorJarName is the jar file name looked for when the configured
// APKEditor path is a directory.
const APKEditorJarName = "APKEditor.jar"
