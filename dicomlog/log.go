// Package dicomlog is a thin verbosity gate over logrus shared by the decoder
// packages and the dcmnav command.
package dicomlog

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// level sets log verbosity. The larger the value, the more verbose.  Setting it
// to -1 disables logging completely.
var level = int32(0)

// SetLevel sets log verbosity. The larger the value, the more verbose. Setting
// it to -1 disables logging completely. Thread safe.
func SetLevel(l int) {
	atomic.StoreInt32(&level, int32(l))
	if l >= 2 {
		logrus.SetLevel(logrus.DebugLevel)
	}
}

// Level returns the current log level. The larger the value, the more verbose.
// Thread safe.
func Level() int {
	return int(atomic.LoadInt32(&level))
}

// Vprintf is shorthand for "if level > Level { log.Printf(...) }".
func Vprintf(l int, format string, args ...interface{}) {
	if Level() >= l {
		logrus.Printf(format, args...)
	}
}

// Warnf reports a recoverable decode problem (odd length, VR mismatch, RLE
// fallback). Suppressed only when logging is disabled.
func Warnf(fields logrus.Fields, format string, args ...interface{}) {
	if Level() >= 0 {
		logrus.WithFields(fields).Warnf(format, args...)
	}
}

// Debugf logs at verbosity 2 and above with structured fields attached.
func Debugf(fields logrus.Fields, format string, args ...interface{}) {
	if Level() >= 2 {
		logrus.WithFields(fields).Debugf(format, args...)
	}
}
