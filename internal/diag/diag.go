// Package diag implements debug-dump helpers over the core's
// diagnostic sink (§6: "a single function write(bytes) that writes to
// a text output; never fails observably"): a sorted field-by-field
// string builder, rendering structured log lines instead of a
// pretty-printed error.
package diag

import (
	"fmt"
	"sort"
	"strings"

	"t3/internal/collab"
)

// Level is a dump's severity, used only to prefix output; the core
// never branches on it.
type Level string

const (
	Debug Level = "DEBUG"
	Info  Level = "INFO"
	Warn  Level = "WARN"
)

// Logger writes leveled, field-tagged lines to a collab.Sink. The zero
// Logger is valid and discards everything (a nil Sink is treated as
// /dev/null), matching the sink contract's "never fails observably."
type Logger struct {
	sink  collab.Sink
	alloc collab.Allocator
}

// New creates a Logger writing to sink using alloc for its scratch
// render buffer. A nil alloc defaults to collab.Heap.
func New(sink collab.Sink, alloc collab.Allocator) *Logger {
	if alloc == nil {
		alloc = collab.Heap
	}
	return &Logger{sink: sink, alloc: alloc}
}

// Fields is an unordered set of key/value pairs attached to a dump line,
// rendered in sorted key order for deterministic output.
type Fields map[string]any

// Dump writes one leveled line of the form "LEVEL message key=value ..."
// to the logger's sink. It never returns an error: a write failure is
// swallowed per the sink's never-fails-observably contract.
func (l *Logger) Dump(level Level, message string, fields Fields) {
	if l == nil || l.sink == nil {
		return
	}
	buf := l.alloc.Alloc(0) // scratch buffer the render path may grow into
	buf = append(buf[:0], string(level)...)
	buf = append(buf, ' ')
	buf = append(buf, message...)

	if len(fields) > 0 {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var sb strings.Builder
		for _, k := range keys {
			sb.WriteByte(' ')
			sb.WriteString(k)
			sb.WriteByte('=')
			fmt.Fprintf(&sb, "%v", fields[k])
		}
		buf = append(buf, sb.String()...)
	}
	buf = append(buf, '\n')
	l.sink.Write(buf)
}

// Debugf writes a Debug-level line with no structured fields,
// convenient for ad-hoc dumps in hot paths (the TVM's Step loop).
func (l *Logger) Debugf(format string, args ...any) {
	l.Dump(Debug, fmt.Sprintf(format, args...), nil)
}
