// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pkcs8

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

var logger atomic.Pointer[logrus.Logger]

func init() {
	logger.Store(logrus.StandardLogger())
}

// SetLogger sets the logger used for diagnostic messages. By default the
// standard logger of the logrus package is used. Messages are logged at the
// debug level and never include key material. Passing nil restores the default.
func SetLogger(l *logrus.Logger) {
	if l == nil {
		l = logrus.StandardLogger()
	}
	logger.Store(l)
}

// debugEnabled reports whether diagnostic messages are logged at all.
func debugEnabled() bool {
	return logger.Load().IsLevelEnabled(logrus.DebugLevel)
}

// logFields returns a log entry for the given function.
func logFields(function string, fields logrus.Fields) *logrus.Entry {
	entry := logger.Load().WithField("function", function)
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	return entry
}
