package debuglog_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaiqueGovani/tetrion/internal/debuglog"
)

func TestLogf(t *testing.T) {
	var buf bytes.Buffer
	debuglog.SetOutput(&buf)
	t.Cleanup(func() {
		debuglog.Enable(false)
		debuglog.SetOutput(nil)
	})

	debuglog.Logf("dropped %d", 1)
	assert.Empty(t, buf.String())

	debuglog.Enable(true)
	assert.True(t, debuglog.Enabled())
	debuglog.Logf("lock shape=%s\nrows=%v", "T", []int{19})

	line := strings.TrimSuffix(buf.String(), "\n")
	require.NotContains(t, line, "\n")
	stamp, msg, ok := strings.Cut(line, " ")
	require.True(t, ok)
	_, err := time.Parse(time.RFC3339, stamp)
	require.NoError(t, err)
	assert.Equal(t, "lock shape=T rows=[19]", msg)
}

func TestPath(t *testing.T) {
	assert.True(t, strings.HasSuffix(debuglog.Path(), debuglog.FileName))
}
