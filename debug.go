// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ipset

import "log"

// Verbosity levels for the package-level debug logger, mirroring the
// reference library's _LOGLEVEL convention.
const (
	LogSilent = 0
	LogTrace  = 1
)

var (
	debugEnabled = false
	logLevel     = LogSilent
)

// SetDebug turns the package's internal trace logging on or off. It is a
// process-wide switch, matching the reference's build-time _DEBUG flag; it
// exists for diagnosing node-store behavior (node allocation and freeing)
// and is never consulted on the evaluation hot path.
func SetDebug(enabled bool, level int) {
	debugEnabled = enabled
	logLevel = level
}

func debugf(level int, format string, args ...interface{}) {
	if !debugEnabled || level > logLevel {
		return
	}
	log.Printf(format, args...)
}
