package cli

// Test Plan for watch mode:
// - watchExtract writes the table, skips a save with identical content, and
//   regenerates after the header changes
// - watchExtract returns once the context is cancelled
// - watchCombine re-merges when a new message file appears in the directory
// - watchCombine is not re-triggered by its own combined output

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mvp-joe/enumgen/internal/combine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDebounce = 100 * time.Millisecond

// syncBuffer is a bytes.Buffer safe for a writer goroutine and a reading test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// runWatch starts fn in the background and returns a stop function that
// cancels it and waits for it to return.
func runWatch(t *testing.T, fn func(ctx context.Context) error) (stop func() error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- fn(ctx) }()

	var once sync.Once
	var err error
	stop = func() error {
		once.Do(func() {
			cancel()
			select {
			case err = <-errCh:
			case <-time.After(5 * time.Second):
				t.Fatal("watch did not return after cancel")
			}
		})
		return err
	}
	t.Cleanup(func() { _ = stop() })
	return stop
}

func TestWatchExtract_RegeneratesOnChange(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "Enums_Internal.hpp")
	output := filepath.Join(dir, "enums.json")
	require.NoError(t, os.WriteFile(input, []byte(testHeader), 0644))

	out := &syncBuffer{}
	job := &extractJob{input: input, output: output, out: out}
	stop := runWatch(t, func(ctx context.Context) error {
		return watchExtract(ctx, job, testDebounce)
	})

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Watching "+input)
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, 1, strings.Count(out.String(), " -> "))

	// Same bytes: the watcher fires but the content hash matches.
	require.NoError(t, os.WriteFile(input, []byte(testHeader), 0644))
	time.Sleep(6 * testDebounce)
	assert.Equal(t, 1, strings.Count(out.String(), " -> "), "unchanged input should not be regenerated")

	require.NoError(t, os.WriteFile(input, []byte(`namespace foo { enum class Baz { Z = 9, }; }`), 0644))
	require.Eventually(t, func() bool {
		data, err := os.ReadFile(output)
		return err == nil && strings.Contains(string(data), `"foo.Baz"`)
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, 2, strings.Count(out.String(), " -> "))

	assert.NoError(t, stop())
}

func TestWatchCombine_RemergesOnNewFile(t *testing.T) {
	resetCombineFlags(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.msg.23.json"),
		[]byte(`{"msgs": {"1": "one"}, "name_to_uuid": {}}`), 0644))

	out := &syncBuffer{}
	opts := combine.Options{Suffix: "msg.23.json", Reporter: NewCombineProgressReporter(out, false)}
	c, err := combine.New(opts)
	require.NoError(t, err)

	stop := runWatch(t, func(ctx context.Context) error {
		return watchCombine(ctx, c, dir, opts, out, testDebounce)
	})

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Watching "+dir)
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, 1, strings.Count(out.String(), "Combined JSON saved to"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.msg.23.json"),
		[]byte(`{"msgs": {"2": "two"}, "name_to_uuid": {}}`), 0644))

	combined := filepath.Join(dir, combine.DefaultOutputName)
	require.Eventually(t, func() bool {
		data, err := os.ReadFile(combined)
		return err == nil && strings.Contains(string(data), `"two"`)
	}, 5*time.Second, 20*time.Millisecond)

	// Writing the combined output must not start another merge.
	time.Sleep(6 * testDebounce)
	assert.Equal(t, 2, strings.Count(out.String(), "Combined JSON saved to"))

	assert.NoError(t, stop())
}
