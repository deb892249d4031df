package xlgrid

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

// newTestSheet creates a worksheet that logs into a capture hook instead of stderr.
func newTestSheet(t *testing.T, opts ...Option) (*Worksheet, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	opts = append([]Option{WithLogger(logger)}, opts...)
	return NewWorksheet("Sheet1", opts...), hook
}

// fillRow writes the given values into row 1 starting at column A.
func fillRow(t *testing.T, ws *Worksheet, values ...any) {
	t.Helper()
	for i, v := range values {
		require.NoError(t, ws.SetValue(1, i+1, v))
	}
}

// column returns the column view or fails the test.
func column(t *testing.T, ws *Worksheet, n int) *Column {
	t.Helper()
	c, err := ws.Column(n)
	require.NoError(t, err)
	return c
}

// collectEvents returns a listener option and the slice it appends to.
func collectEvents() (Option, *[]ReferenceEvent) {
	var events []ReferenceEvent
	return WithReferenceListener(ReferenceListenerFunc(func(ev ReferenceEvent) {
		events = append(events, ev)
	})), &events
}

// warnings returns the messages logged at warn level.
func warnings(hook *test.Hook) []string {
	var out []string
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			out = append(out, e.Message)
		}
	}
	return out
}

// nullLogger discards everything.
func nullLogger() *logrus.Logger {
	logger, _ := test.NewNullLogger()
	return logger
}
