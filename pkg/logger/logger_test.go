package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLevels(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, LogOptions{DisableColor: true})
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())

	log.Debug("hidden")
	assert.Empty(t, buf.String())

	log, err = New(&buf, LogOptions{Verbose: true, DisableColor: true})
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
}

func TestFormatterLine(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, LogOptions{DisableColor: true})
	require.NoError(t, err)

	log.WithField("link", 3).Warn("insert rejected")

	line := buf.String()
	assert.Contains(t, line, "[WARNING]")
	assert.Contains(t, line, "[logger_test.go:")
	assert.Contains(t, line, "insert rejected link=3")
	assert.NotContains(t, line, "\033[")
	assert.True(t, strings.HasSuffix(line, "\n"))
}

func TestFormatterColor(t *testing.T) {
	f := &Formatter{HideLogTime: true, HideLogPath: true}
	out, err := f.Format(&logrus.Entry{Level: logrus.ErrorLevel, Message: "boom", Time: time.Now()})
	require.NoError(t, err)
	assert.Equal(t, "\033[31m [ERROR] boom\n\033[0m", string(out))
}

func TestFormatFieldsSorted(t *testing.T) {
	assert.Equal(t, "", formatFields(nil))
	assert.Equal(t, " a=1 target=#2", formatFields(logrus.Fields{"target": "#2", "a": 1}))
}

func TestFileHook(t *testing.T) {
	dir := t.TempDir()
	log, err := New(&bytes.Buffer{}, LogOptions{LogToFile: true, OutputPath: dir})
	require.NoError(t, err)

	log.Info("written to disk")

	matches, err := filepath.Glob(filepath.Join(dir, "armature.log.*"))
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to disk")
}

func TestConcurrentLogging(t *testing.T) {
	var buf syncBuffer
	log, err := New(&buf, LogOptions{Verbose: true, DisableColor: true})
	require.NoError(t, err)

	wg := &sync.WaitGroup{}
	for j := 0; j < 5; j++ {
		wg.Add(1)
		go func(x int) {
			defer wg.Done()
			log.Debugf("entry %d", x)
		}(j)
	}
	wg.Wait()

	assert.Equal(t, 5, strings.Count(buf.String(), "[DEBUG]"))
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func TestInitConfiguresStandardLogger(t *testing.T) {
	std := logrus.StandardLogger()
	defer func() {
		std.SetLevel(logrus.InfoLevel)
		std.SetReportCaller(false)
		std.SetFormatter(&logrus.TextFormatter{})
	}()

	log, err := Init(LogOptions{Verbose: true})
	require.NoError(t, err)
	assert.Same(t, std, log)
	assert.Equal(t, logrus.DebugLevel, std.GetLevel())
	assert.IsType(t, &Formatter{}, std.Formatter)
}
