package config

const currentVersion = "1"

const (
	defaultBaseDir      = "~/Library/Mail"
	defaultScanTimeout  = "5m"
	defaultWarnSize     = "500M"
	defaultLogLevel     = "warn"
	defaultMailCheckCmd = "pgrep -x Mail"
)

// DefaultConfig returns config pointing at the standard Mail storage directory.
func DefaultConfig() *Config {
	return &Config{
		Version:      currentVersion,
		BaseDir:      defaultBaseDir,
		Mode:         ModeTrash,
		Concurrency:  0,
		ScanTimeout:  defaultScanTimeout,
		WarnSize:     defaultWarnSize,
		LogLevel:     defaultLogLevel,
		MailCheckCmd: defaultMailCheckCmd,
	}
}
