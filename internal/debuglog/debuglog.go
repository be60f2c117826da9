// Package debuglog writes timestamped single-line traces to a file in the
// temp directory while debugging is enabled. It is silent otherwise, since
// the terminal belongs to the game.
package debuglog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const FileName = "tetrion-debug.log"

var (
	mu      sync.Mutex
	enabled bool
	out     io.Writer
)

func Enable(on bool) {
	mu.Lock()
	enabled = on
	mu.Unlock()
}

func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// SetOutput redirects the log. A nil writer restores the default file.
func SetOutput(w io.Writer) {
	mu.Lock()
	out = w
	mu.Unlock()
}

// Path is where the log goes when no output has been set.
func Path() string {
	return filepath.Join(os.TempDir(), FileName)
}

func Logf(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if !enabled {
		return
	}
	if out == nil {
		file, err := os.OpenFile(Path(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return
		}
		out = file
	}
	timestamp := time.Now().Format(time.RFC3339)
	message := strings.ReplaceAll(fmt.Sprintf(format, args...), "\n", " ")
	_, _ = fmt.Fprintf(out, "%s %s\n", timestamp, message)
}
