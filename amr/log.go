package amr

import "time"

// LogMode is the minimum severity of messages that get logged.
type LogMode uint

const (
	DebugMode LogMode = iota
	InfoMode
	WarningMode
	ErrorMode
	SilentMode
)

var mode = InfoMode

// Logger writes messages of each severity.  The package-level functions gate
// messages by the current LogMode before handing them to the active Logger.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warningf(format string, args ...interface{})
	Errorf(format string, args ...interface{})

	// Shutdown closes any log file.
	Shutdown()
}

// SetLogMode sets the minimum severity that is logged.  SetLogMode(SilentMode)
// turns off logging.
func SetLogMode(m LogMode) {
	mode = m
}

// Verbose returns true if debug messages are logged, in which case tools
// should also print detail such as every block of a hierarchy.
func Verbose() bool {
	return mode <= DebugMode
}

func Debugf(format string, args ...interface{}) {
	if mode <= DebugMode {
		logger.Debugf(format, args...)
	}
}

func Infof(format string, args ...interface{}) {
	if mode <= InfoMode {
		logger.Infof(format, args...)
	}
}

func Warningf(format string, args ...interface{}) {
	if mode <= WarningMode {
		logger.Warningf(format, args...)
	}
}

func Errorf(format string, args ...interface{}) {
	if mode <= ErrorMode {
		logger.Errorf(format, args...)
	}
}

// Shutdown closes any log file.
func Shutdown() {
	logger.Shutdown()
}

// Elapsed logs a debug message with the time since start appended, e.g.,
//
//	start := time.Now()
//	...
//	amr.Elapsed(start, "Validated %d levels", n)
func Elapsed(start time.Time, format string, args ...interface{}) {
	if mode <= DebugMode {
		logger.Debugf(format+": %s\n", append(args, time.Since(start))...)
	}
}
