package sessionlog

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func TestAppend(t *testing.T) {
	dir := t.TempDir()

	Append(dir, "abc", "first")
	Append(dir, "abc", "second")

	path := filepath.Join(dir, "logs", "session-abc.txt")
	assert.Equal(t, path, Path(dir, "abc"))

	lines := readLines(t, path)
	require.Len(t, lines, 2)
	for i, want := range []string{"first", "second"} {
		require.True(t, strings.HasPrefix(lines[i], "["))
		stamp, text, ok := strings.Cut(lines[i][1:], "] ")
		require.True(t, ok)
		assert.Equal(t, want, text)
		_, err := strfmt.ParseDateTime(stamp)
		assert.NoError(t, err)
	}
}

func TestAppendLine_Format(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "s.txt")
	at := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	require.NoError(t, appendLine(path, at, "hello"))
	assert.Equal(t, []string{"[2024-05-06T07:08:09.000Z] hello"}, readLines(t, path))
}

func TestAppend_UnwritableDirIsIgnored(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	assert.NotPanics(t, func() { Append(file, "abc", "lost") })
	_, err := os.Stat(Path(file, "abc"))
	assert.Error(t, err)
}

func TestLogger(t *testing.T) {
	dir := t.TempDir()
	l := New(dir, "s1")
	assert.Equal(t, "s1", l.SessionID())

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Logf("line %d", i)
		}()
	}
	wg.Wait()

	assert.Len(t, readLines(t, l.Path()), 20)
}

func TestLogger_Disabled(t *testing.T) {
	l := New("", "s1")
	assert.Empty(t, l.Path())
	assert.NotPanics(t, func() { l.Log("ignored") })

	var nilLogger *Logger
	assert.NotPanics(t, func() { nilLogger.Log("ignored") })
}
