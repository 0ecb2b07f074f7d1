package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodeCraft-Studio/studio-site/internal/logger"
)

func TestInit(t *testing.T) {
	testCases := []struct {
		name         string
		cfg          logger.Log
		wantOutput   bool
		outputIsJSON bool
	}{
		{
			name:       "no writer enabled",
			cfg:        logger.Log{LogLevel: "", ServiceName: "test", AppName: "test"},
			wantOutput: false,
		},
		{
			name: "console json info",
			cfg: logger.Log{
				LogLevel: "info", ServiceName: "test", AppName: "test",
				Console: logger.Console{Enabled: true},
			},
			wantOutput:   true,
			outputIsJSON: true,
		},
		{
			name: "console writer trace",
			cfg: logger.Log{
				LogLevel: "trace", ServiceName: "test", AppName: "test",
				Console: logger.Console{Enabled: true, UseConsoleWriter: true},
			},
			wantOutput: true,
		},
		{
			name: "console json trace with caller and stack",
			cfg: logger.Log{
				LogLevel: "trace", ServiceName: "test", AppName: "test", ReportCaller: true,
				Console: logger.Console{Enabled: true},
			},
			wantOutput:   true,
			outputIsJSON: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := captureLogOutput(t, tc.cfg)

			if !tc.wantOutput {
				assert.Empty(t, out)
				return
			}

			require.NotEmpty(t, out)

			if tc.outputIsJSON {
				for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
					var entry map[string]any
					require.NoError(t, json.Unmarshal([]byte(line), &entry), "line %q", line)
					assert.Equal(t, "test", entry["app"])
				}
			}
		})
	}
}

func TestInitRejectsMissingNames(t *testing.T) {
	err := logger.Init(logger.Log{LogLevel: "info", AppName: "test"})
	require.ErrorIs(t, err, logger.ErrServiceNameIsEmpty)

	err = logger.Init(logger.Log{LogLevel: "info", ServiceName: "test"})
	require.ErrorIs(t, err, logger.ErrAppNameIsEmpty)

	err = logger.Init(logger.Log{LogLevel: "loud", ServiceName: "test", AppName: "test"})
	require.Error(t, err)
}

func TestInitFileWriter(t *testing.T) {
	dir := t.TempDir()

	err := logger.Init(logger.Log{
		LogLevel: "info", ServiceName: "test", AppName: "test",
		File: logger.LogFile{
			Enabled:  true,
			Path:     dir,
			ErrorLog: "error.log", ErrorMaxSize: 1,
			InfoLog: "info.log", InfoMaxSize: 1,
			TraceLog: "trace.log", TraceMaxSize: 1,
			WarnLog: "warn.log", WarnMaxSize: 1,
		},
	})
	require.NoError(t, err)

	log.Info().Msg("to the info file")
	log.Error().Msg("to the error file")

	info, err := os.ReadFile(filepath.Join(dir, "info.log"))
	require.NoError(t, err)
	assert.Contains(t, string(info), "to the info file")

	errLog, err := os.ReadFile(filepath.Join(dir, "error.log"))
	require.NoError(t, err)
	assert.Contains(t, string(errLog), "to the error file")
	assert.NotContains(t, string(errLog), "to the info file")
}

func TestComponent(t *testing.T) {
	out := captureLogOutput(t, logger.Log{
		LogLevel: "info", ServiceName: "test", AppName: "test",
		Console: logger.Console{Enabled: true},
	}, func() {
		l := logger.Component("repository")
		l.Info().Msg("component message")
	})

	assert.Contains(t, out, `"component":"repository"`)
}

func captureLogOutput(t *testing.T, cfg logger.Log, emit ...func()) string {
	t.Helper()

	stdout := os.Stdout
	stderr := os.Stderr

	r, w, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout = w
	os.Stderr = w

	require.NoError(t, logger.Init(cfg))

	if len(emit) == 0 {
		log.Info().Msg("this info message should be seen...")
		log.Error().Err(errors.New("a test error")).Msg("this err message should be seen...") //nolint:goerr113
	}

	for _, fn := range emit {
		fn()
	}

	outC := make(chan string)

	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	_ = w.Close()
	os.Stdout = stdout
	os.Stderr = stderr

	return <-outC
}

func TestDefaults(t *testing.T) {
	l := logger.Log{File: logger.LogFile{ErrorLog: "err.log", ErrorMaxSize: 3}}.Defaults("site")

	assert.Equal(t, "info", l.LogLevel)
	assert.Equal(t, "site", l.AppName)
	assert.Equal(t, "site", l.ServiceName)
	assert.Equal(t, "err.log", l.File.ErrorLog)
	assert.Equal(t, 3, l.File.ErrorMaxSize)
	assert.Equal(t, "access.log", l.File.AccessLog)
	assert.Equal(t, 10, l.File.WarnMaxSize)

	kept := logger.Log{LogLevel: "warn", AppName: "a", ServiceName: "b"}.Defaults("site")
	assert.Equal(t, "warn", kept.LogLevel)
	assert.Equal(t, "a", kept.AppName)
	assert.Equal(t, "b", kept.ServiceName)

	require.NoError(t, logger.Init(logger.Log{}.Defaults("site")))
}
