// Package diag carries diagnostics messages from nodes to the hosting editor.
//
// Nodes never read messages back. A node posts a message by toggling it on
// and retracts it by toggling it off; the sink decides how to present it.
package diag

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
)

// Severity classifies a message.
type Severity int

// Message severities.
const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Message is a diagnostic attached to one element of the patch.
// Messages are comparable so they can serve as keys.
type Message struct {
	ElementID uint32
	Severity  Severity
	Text      string
}

// Sink receives message toggles.
type Sink interface {
	Toggle(m Message, on bool)
}

// Discard is a Sink that drops every message.
var Discard Sink = discard{}

type discard struct{}

func (discard) Toggle(Message, bool) {}

// Collector is an in-memory Sink. Toggling the same message on twice
// requires two toggles off before it disappears.
//
// Collector is not safe for concurrent use.
type Collector struct {
	active map[Message]int
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{active: make(map[Message]int)}
}

// Toggle implements Sink.
func (c *Collector) Toggle(m Message, on bool) {
	if on {
		c.active[m]++
		return
	}
	if n := c.active[m]; n > 1 {
		c.active[m] = n - 1
	} else {
		delete(c.active, m)
	}
}

// Active returns the currently posted messages ordered by element id.
func (c *Collector) Active() []Message {
	out := make([]Message, 0, len(c.active))
	for m := range c.active {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ElementID != out[j].ElementID {
			return out[i].ElementID < out[j].ElementID
		}
		return out[i].Text < out[j].Text
	})
	return out
}

// Len returns the number of distinct posted messages.
func (c *Collector) Len() int { return len(c.active) }

// LogSink writes posted and retracted messages to a logger.
type LogSink struct {
	Logger *slog.Logger
}

// Toggle implements Sink.
func (s LogSink) Toggle(m Message, on bool) {
	l := s.Logger
	if l == nil {
		l = slog.Default()
	}
	level := slog.LevelInfo
	if m.Severity >= SeverityWarning && on {
		level = slog.LevelWarn
	}
	action := "retracted"
	if on {
		action = "posted"
	}
	l.Log(context.Background(), level, "diagnostic "+action,
		"element", m.ElementID,
		"severity", m.Severity.String(),
		"text", m.Text,
	)
}

// Tee fans out toggles to several sinks.
func Tee(sinks ...Sink) Sink {
	return tee(sinks)
}

type tee []Sink

func (t tee) Toggle(m Message, on bool) {
	for _, s := range t {
		s.Toggle(m, on)
	}
}
