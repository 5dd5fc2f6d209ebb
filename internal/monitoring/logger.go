// Package monitoring routes loader and pipeline diagnostics to whichever
// logger the process installs. The CLI installs a zap sugared logger.
package monitoring

import "log"

// LogFunc is a printf-style sink.
type LogFunc func(format string, v ...interface{})

var logf LogFunc = log.Printf

// Logf writes one diagnostic line through the installed sink.
func Logf(format string, v ...interface{}) {
	logf(format, v...)
}

// SetLogger installs f as the sink and returns the previous one. A nil f
// discards diagnostics.
func SetLogger(f LogFunc) LogFunc {
	prev := logf
	if f == nil {
		f = func(string, ...interface{}) {}
	}
	logf = f
	return prev
}
