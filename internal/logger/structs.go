package logger

// Console implements a console based logger.
type Console struct {
	Enabled          bool `toml:"enabled"`
	UseConsoleWriter bool
}

// LogFile implements a file based logger.
type LogFile struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`

	AccessLog        string `toml:"access"`
	AccessMaxSize    int    `toml:"accessMaxSize"`
	AccessMaxBackups int    `toml:"accessMaxBackups"`
	AccessMaxAge     int    `toml:"accessMaxAge"`

	ErrorLog        string `toml:"error"`
	ErrorMaxSize    int    `toml:"errorMaxSize"`
	ErrorMaxBackups int    `toml:"errorMaxBackups"`
	ErrorMaxAge     int    `toml:"errorMaxAge"`

	InfoLog        string `toml:"info"`
	InfoMaxSize    int    `toml:"infoMaxSize"`
	InfoMaxBackups int    `toml:"infoMaxBackups"`
	InfoMaxAge     int    `toml:"infoMaxAge"`

	TraceLog        string `toml:"trace"`
	TraceMaxSize    int    `toml:"traceMaxSize"`
	TraceMaxBackups int    `toml:"traceMaxBackups"`
	TraceMaxAge     int    `toml:"traceMaxAge"`

	WarnLog        string `toml:"warn"`
	WarnMaxSize    int    `toml:"warnMaxSize"`
	WarnMaxBackups int    `toml:"warnMaxBackups"`
	WarnMaxAge     int    `toml:"warnMaxAge"`
}

// Log implements the logger config.
type Log struct {
	LogLevel string // trace, debug, info, warn, error.

	// EnableAccessLogToConsole if true the web service access log is written to the console.
	// Does not overrule flag Console.Enabled!
	// If Console.Enabled is false, still no access log output to the console will be shown.
	EnableAccessLogToConsole bool
	ReportCaller             bool
	DisableCheckAlive        bool // do not log /checkalive calls

	AppName     string
	ServiceName string

	// Console used mainly for docker and dev.
	Console Console

	// File enables rolling log files next to the binary.
	File LogFile `toml:"file"`
}

const (
	defaultLevel      = "info"
	defaultFileSizeMB = 10
)

// Defaults fills empty names and levels. Both app and service name default
// to name; file names default to <kind>.log.
func (l Log) Defaults(name string) Log {
	if l.LogLevel == "" {
		l.LogLevel = defaultLevel
	}

	if l.AppName == "" {
		l.AppName = name
	}

	if l.ServiceName == "" {
		l.ServiceName = name
	}

	f := &l.File

	for _, w := range []struct {
		name *string
		size *int
		kind string
	}{
		{&f.AccessLog, &f.AccessMaxSize, "access"},
		{&f.ErrorLog, &f.ErrorMaxSize, "error"},
		{&f.InfoLog, &f.InfoMaxSize, "info"},
		{&f.TraceLog, &f.TraceMaxSize, "trace"},
		{&f.WarnLog, &f.WarnMaxSize, "warn"},
	} {
		if *w.name == "" {
			*w.name = w.kind + ".log"
		}

		if *w.size == 0 {
			*w.size = defaultFileSizeMB
		}
	}

	return l
}
