package diag

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollector(t *testing.T) {
	t.Run("toggle on and off", func(t *testing.T) {
		c := NewCollector()
		m := Message{ElementID: 7, Severity: SeverityWarning, Text: "careful"}

		c.Toggle(m, true)
		assert.Equal(t, []Message{m}, c.Active())

		c.Toggle(m, false)
		assert.Empty(t, c.Active())
	})

	t.Run("counts repeated posts", func(t *testing.T) {
		c := NewCollector()
		m := Message{ElementID: 1, Text: "x"}

		c.Toggle(m, true)
		c.Toggle(m, true)
		c.Toggle(m, false)
		assert.Equal(t, 1, c.Len())

		c.Toggle(m, false)
		assert.Equal(t, 0, c.Len())
	})

	t.Run("retracting unknown message is a no-op", func(t *testing.T) {
		c := NewCollector()
		c.Toggle(Message{ElementID: 3}, false)
		assert.Equal(t, 0, c.Len())
	})

	t.Run("orders by element id", func(t *testing.T) {
		c := NewCollector()
		c.Toggle(Message{ElementID: 9, Text: "b"}, true)
		c.Toggle(Message{ElementID: 2, Text: "a"}, true)

		active := c.Active()
		assert.Equal(t, uint32(2), active[0].ElementID)
		assert.Equal(t, uint32(9), active[1].ElementID)
	})
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	s := LogSink{Logger: slog.New(slog.NewTextHandler(&buf, nil))}

	s.Toggle(Message{ElementID: 4, Severity: SeverityWarning, Text: "two parents"}, true)

	out := buf.String()
	assert.True(t, strings.Contains(out, "diagnostic posted"), out)
	assert.True(t, strings.Contains(out, "level=WARN"), out)
	assert.True(t, strings.Contains(out, "two parents"), out)
}

func TestTee(t *testing.T) {
	a, b := NewCollector(), NewCollector()
	m := Message{ElementID: 1, Text: "both"}

	Tee(a, b, Discard).Toggle(m, true)

	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 1, b.Len())
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "Severity(42)", Severity(42).String())
}
