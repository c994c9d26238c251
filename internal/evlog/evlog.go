// File: internal/evlog/evlog.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Thin level-tagged wrapper over the standard log package, in the spirit
// of facade.go, which logs operational events with log.Printf directly.
// No third-party logging library is pulled in for this concern.

package evlog

import (
	"log"
	"os"
)

// Logger tags every line with a component name, e.g. "opdriver", "shmregion".
type Logger struct {
	std *log.Logger
	tag string
}

// New creates a Logger writing to stderr with the given component tag.
func New(tag string) *Logger {
	return &Logger{std: log.New(os.Stderr, "", log.LstdFlags), tag: tag}
}

func (l *Logger) Debugf(format string, args ...any) { l.std.Printf("[debug] "+l.tag+": "+format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.std.Printf("[warn] "+l.tag+": "+format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.std.Printf("[error] "+l.tag+": "+format, args...) }
