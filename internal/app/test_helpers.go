package app

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/vk/blockfold/internal/config"
)

// SafeBuffer is a thread-safe buffer for capturing output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// SetupAppTest creates a new app instance writing logs, reports and diffs
// to one buffer. Set BLOCKFOLD_TEST_LOGS=true to dump the output of each test.
func SetupAppTest(t *testing.T, cfg *Config, loaders ...config.Loader) (*App, *SafeBuffer) {
	t.Helper()

	out := &SafeBuffer{}
	cfg.LogLevel = "debug"
	testApp, err := NewApp(out, out, cfg, loaders...)
	if err != nil {
		t.Fatalf("failed to create app: %v", err)
	}

	t.Cleanup(func() {
		if os.Getenv("BLOCKFOLD_TEST_LOGS") == "true" {
			t.Logf("--- Full Output for %s ---\n%s", t.Name(), out.String())
		}
	})

	return testApp, out
}
