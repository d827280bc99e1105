package engine

import (
	"fmt"
	"strings"
)

// --- Round context and helpers ----------------------------------------
type roundContext struct {
	round   int
	sink    MessageSink
	summary []string
}

func newRoundContext(round int, sink MessageSink) *roundContext {
	return &roundContext{round: round, sink: sink, summary: make([]string, 0, 16)}
}

func (rc *roundContext) add(msg string) {
	rc.summary = append(rc.summary, msg)
	rc.sink.Publish(msg)
}

func (rc *roundContext) addf(format string, args ...any) {
	rc.add(fmt.Sprintf(format, args...))
}

// joinSummary returns the accumulated summary as a single string.
func (rc *roundContext) joinSummary() string {
	return strings.Join(rc.summary, "\n")
}
