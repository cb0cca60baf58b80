package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		debug     bool
		wantDebug bool
	}{
		{name: "info level hides debug", debug: false, wantDebug: false},
		{name: "debug level shows debug", debug: true, wantDebug: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(&buf, tt.debug)

			logger.Debug("debug record")
			logger.Info("sync en locale")

			out := buf.String()
			assert.Contains(t, out, "sync en locale")
			assert.Contains(t, out, "scope="+Scope)
			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("debug record")))
			// Buffers are never terminals, so no ANSI escapes.
			assert.NotContains(t, out, "\x1b[")
		})
	}
}
