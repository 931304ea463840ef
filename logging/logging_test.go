/*
Copyright © 2025 Jayson Grace <jayson.e.grace@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/

package logging_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/cowdogmoo/buildpad/logging"
)

func TestNewCustomLogger(t *testing.T) {
	tests := []struct {
		name      string
		level     slog.Level
		wantLevel slog.Level
		wantQuiet bool
	}{
		{
			name:      "info level",
			level:     slog.LevelInfo,
			wantLevel: slog.LevelInfo,
			wantQuiet: false,
		},
		{
			name:      "debug level",
			level:     slog.LevelDebug,
			wantLevel: slog.LevelDebug,
			wantQuiet: false,
		},
		{
			name:      "error level",
			level:     slog.LevelError,
			wantLevel: slog.LevelError,
			wantQuiet: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := logging.NewCustomLogger(tt.level)
			if logger == nil {
				t.Fatal("expected non-nil logger")
				return
			}
			if logger.LogLevel != tt.wantLevel {
				t.Errorf("got level %v, want %v",
					logger.LogLevel, tt.wantLevel)
			}
			if logger.Quiet != tt.wantQuiet {
				t.Errorf("got quiet %v, want %v",
					logger.Quiet, tt.wantQuiet)
			}
		})
	}
}

func TestNewCustomLoggerWithOptions(t *testing.T) {
	tests := []struct {
		name         string
		logLevel     string
		outputFormat string
		quiet        bool
		verbose      bool
		wantLevel    slog.Level
		wantOutput   logging.OutputType
		wantQuiet    bool
		wantVerbose  bool
	}{
		{
			name:         "default settings",
			logLevel:     "info",
			outputFormat: "text",
			quiet:        false,
			verbose:      false,
			wantLevel:    slog.LevelInfo,
			wantOutput:   logging.PlainOutput,
			wantQuiet:    false,
			wantVerbose:  false,
		},
		{
			name:         "json format",
			logLevel:     "debug",
			outputFormat: "json",
			quiet:        true,
			verbose:      false,
			wantLevel:    slog.LevelDebug,
			wantOutput:   logging.JSONOutput,
			wantQuiet:    true,
			wantVerbose:  false,
		},
		{
			name:         "color format with verbose",
			logLevel:     "warn",
			outputFormat: "color",
			quiet:        false,
			verbose:      true,
			wantLevel:    slog.LevelDebug, // verbose forces debug level
			wantOutput:   logging.ColorOutput,
			wantQuiet:    false,
			wantVerbose:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := logging.NewCustomLoggerWithOptions(tt.logLevel, tt.outputFormat, tt.quiet, tt.verbose)
			if logger == nil {
				t.Fatal("expected non-nil logger")
			}
			if logger.LogLevel != tt.wantLevel {
				t.Errorf("got level %v, want %v", logger.LogLevel, tt.wantLevel)
			}
			if logger.OutputType != tt.wantOutput {
				t.Errorf("got output type %v, want %v", logger.OutputType, tt.wantOutput)
			}
			if logger.Quiet != tt.wantQuiet {
				t.Errorf("got quiet %v, want %v", logger.Quiet, tt.wantQuiet)
			}
			if logger.Verbose != tt.wantVerbose {
				t.Errorf("got verbose %v, want %v", logger.Verbose, tt.wantVerbose)
			}
		})
	}
}

func TestCustomLogger_SetQuiet(t *testing.T) {
	logger := logging.NewCustomLogger(slog.LevelInfo)

	logger.SetQuiet(true)
	if !logger.IsQuiet() {
		t.Error("expected quiet mode to be enabled")
	}

	logger.SetQuiet(false)
	if logger.IsQuiet() {
		t.Error("expected quiet mode to be disabled")
	}
}

func TestCustomLogger_SetVerbose(t *testing.T) {
	logger := logging.NewCustomLogger(slog.LevelInfo)

	logger.SetVerbose(true)
	if !logger.Verbose {
		t.Error("expected verbose mode to be enabled")
	}

	logger.SetVerbose(false)
	if logger.Verbose {
		t.Error("expected verbose mode to be disabled")
	}
}

func TestCustomLogger_Error(t *testing.T) {
	tests := []struct {
		name     string
		firstArg interface{}
		args     []interface{}
		wantMsg  string
	}{
		{
			name:     "error type",
			firstArg: errors.New("test error"),
			args:     []interface{}{},
			wantMsg:  "test error",
		},
		{
			name:     "string format",
			firstArg: "error: %s",
			args:     []interface{}{"failed"},
			wantMsg:  "error: failed",
		},
		{
			name:     "other type",
			firstArg: 42,
			args:     []interface{}{},
			wantMsg:  "42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := logging.NewCustomLogger(slog.LevelError)
			logger.ConsoleWriter = buf

			logger.Error(tt.firstArg, tt.args...)

			if !bytes.Contains(buf.Bytes(), []byte(tt.wantMsg)) {
				t.Errorf("expected output to contain %q, got %q", tt.wantMsg, buf.String())
			}
		})
	}
}

func TestDetermineLogLevel(t *testing.T) {
	tests := []struct {
		name      string
		levelStr  string
		wantLevel slog.Level
	}{
		{
			name:      "debug level",
			levelStr:  "debug",
			wantLevel: slog.LevelDebug,
		},
		{
			name:      "info level",
			levelStr:  "info",
			wantLevel: slog.LevelInfo,
		},
		{
			name:      "warn level",
			levelStr:  "warn",
			wantLevel: slog.LevelWarn,
		},
		{
			name:      "error level",
			levelStr:  "error",
			wantLevel: slog.LevelError,
		},
		{
			name:      "unknown level defaults to info",
			levelStr:  "unknown",
			wantLevel: slog.LevelInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := logging.DetermineLogLevel(tt.levelStr)
			if got != tt.wantLevel {
				t.Errorf("got level %v, want %v", got, tt.wantLevel)
			}
		})
	}
}

func TestWithLogger(t *testing.T) {
	logger := logging.NewCustomLogger(slog.LevelDebug)
	logger.SetQuiet(true)

	ctx := context.Background()
	ctx = logging.WithLogger(ctx, logger)

	retrieved := logging.FromContext(ctx)
	if retrieved == nil {
		t.Fatal("expected non-nil logger from context")
	}
	if !retrieved.IsQuiet() {
		t.Error("expected retrieved logger to have quiet mode enabled")
	}
	if retrieved.LogLevel != slog.LevelDebug {
		t.Errorf("got level %v, want %v", retrieved.LogLevel, slog.LevelDebug)
	}
}

func TestFromContext_NilContext(t *testing.T) {
	// Should return the default logger when context is nil
	//nolint:staticcheck // SA1012: deliberately testing nil context handling
	logger := logging.FromContext(nil)
	if logger == nil {
		t.Fatal("expected non-nil logger even with nil context")
	}
}

func TestFromContext_NoLogger(t *testing.T) {
	ctx := context.Background()
	logger := logging.FromContext(ctx)
	if logger == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestContextLogging(t *testing.T) {
	// Create a logger that writes to a buffer so we can verify output
	buf := &bytes.Buffer{}
	logger := logging.NewCustomLogger(slog.LevelDebug)
	logger.ConsoleWriter = buf
	logger.SetVerbose(true)

	ctx := logging.WithLogger(context.Background(), logger)

	logging.InfoContext(ctx, "requesting image build for %s", "raspberrypi3")
	logging.WarnContext(ctx, "builder queue for %s is deep", "arm64")
	logging.DebugContext(ctx, "GET builders -> 200")
	logging.ErrorContext(ctx, errors.New("remote request failed"))

	if buf.Len() == 0 {
		t.Error("expected output to be written to buffer")
	}
	for _, want := range []string{"raspberrypi3", "arm64", "GET builders", "remote request failed"} {
		if !bytes.Contains(buf.Bytes(), []byte(want)) {
			t.Errorf("expected output to contain %q, got %q", want, buf.String())
		}
	}
}

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level logging.LogLevel
		want  string
	}{
		{logging.DebugLevel, "DEBUG"},
		{logging.InfoLevel, "INFO"},
		{logging.WarnLevel, "WARN"},
		{logging.ErrorLevel, "ERROR"},
		{logging.LogLevel(99), "INFO"}, // unknown level defaults to INFO
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := tt.level.String()
			if got != tt.want {
				t.Errorf("LogLevel(%d).String() = %q, want %q", tt.level, got, tt.want)
			}
		})
	}
}

func TestLogLevel_Ordering(t *testing.T) {
	// Verify log levels are ordered from least to most severe
	if logging.DebugLevel >= logging.InfoLevel {
		t.Error("DebugLevel should be less than InfoLevel")
	}
	if logging.InfoLevel >= logging.WarnLevel {
		t.Error("InfoLevel should be less than WarnLevel")
	}
	if logging.WarnLevel >= logging.ErrorLevel {
		t.Error("WarnLevel should be less than ErrorLevel")
	}
}

func TestCustomLogger_ConcurrentAccess(t *testing.T) {
	logger := logging.NewCustomLogger(slog.LevelInfo)
	buf := &bytes.Buffer{}
	logger.ConsoleWriter = buf

	// Run concurrent operations to verify thread safety
	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				logger.SetQuiet(true)
				logger.SetQuiet(false)
				logger.SetVerbose(true)
				logger.SetVerbose(false)
				_ = logger.IsQuiet()
				logger.Info("concurrent message %d", j)
			}
			done <- true
		}()
	}

	// Wait for all goroutines
	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestCustomLogger_ColorOutput_AllLevels(t *testing.T) {
	// Exercises the formatMessage ColorOutput branches.
	tests := []struct {
		name    string
		logFunc func(*logging.CustomLogger)
		prefix  string
	}{
		{
			name:    "debug level color output",
			logFunc: func(l *logging.CustomLogger) { l.Debug("debug msg") },
			prefix:  "DEBUG",
		},
		{
			name:    "info level color output",
			logFunc: func(l *logging.CustomLogger) { l.Info("info msg") },
			prefix:  "INFO",
		},
		{
			name:    "warn level color output",
			logFunc: func(l *logging.CustomLogger) { l.Warn("warn msg") },
			prefix:  "WARN",
		},
		{
			name:    "error level color output",
			logFunc: func(l *logging.CustomLogger) { l.Error("error msg") },
			prefix:  "ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := logging.NewCustomLoggerWithOptions("debug", "color", false, true)
			logger.ConsoleWriter = buf

			tt.logFunc(logger)

			output := buf.String()
			if output == "" {
				t.Error("expected output to be written to buffer")
			}
			// The color output should contain the level prefix somewhere
			// (color codes wrap it but the text is still present)
			if !bytes.Contains(buf.Bytes(), []byte(tt.prefix)) {
				t.Errorf("expected output to contain %q, got %q", tt.prefix, output)
			}
		})
	}
}

func TestCustomLogger_PlainOutput_NoColorPrefix(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := logging.NewCustomLoggerWithOptions("debug", "plain", false, true)
	logger.ConsoleWriter = buf

	logger.Info("plain message")

	output := buf.String()
	if output == "" {
		t.Error("expected output to be written")
	}
	// Plain output should contain the message without [INFO] prefix
	if !bytes.Contains(buf.Bytes(), []byte("plain message")) {
		t.Errorf("expected output to contain 'plain message', got %q", output)
	}
}

func TestCustomLogger_QuietMode_OnlyErrors(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := logging.NewCustomLogger(slog.LevelDebug)
	logger.ConsoleWriter = buf
	logger.SetQuiet(true)

	logger.Debug("debug should not appear")
	logger.Info("info should not appear")
	logger.Warn("warn should not appear")
	output := buf.String()
	if output != "" {
		t.Errorf("expected no output in quiet mode for non-error, got %q", output)
	}

	logger.Error("error should appear")
	output = buf.String()
	if !bytes.Contains(buf.Bytes(), []byte("error should appear")) {
		t.Errorf("expected error to appear in quiet mode, got %q", output)
	}
}

func TestCustomLogger_VerboseMode_ShowsDebug(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := logging.NewCustomLogger(slog.LevelDebug)
	logger.ConsoleWriter = buf
	logger.SetVerbose(true)

	logger.Debug("verbose debug message")

	output := buf.String()
	if !bytes.Contains(buf.Bytes(), []byte("verbose debug message")) {
		t.Errorf("expected debug message in verbose mode, got %q", output)
	}
}

func TestCustomLogger_DefaultMode_HidesDebug(t *testing.T) {
	// Default mode (not verbose, not quiet) should hide debug messages
	buf := &bytes.Buffer{}
	logger := logging.NewCustomLogger(slog.LevelDebug)
	logger.ConsoleWriter = buf
	// Default: verbose=false, quiet=false

	logger.Debug("debug should be hidden")
	output := buf.String()
	if output != "" {
		t.Errorf("expected debug to be hidden in default mode, got %q", output)
	}

	logger.Info("info should appear")
	output = buf.String()
	if !bytes.Contains(buf.Bytes(), []byte("info should appear")) {
		t.Errorf("expected info to appear in default mode, got %q", output)
	}
}

func TestCustomLogger_NilConsoleWriter(t *testing.T) {
	// When ConsoleWriter is nil, log should not panic
	logger := logging.NewCustomLogger(slog.LevelInfo)
	logger.ConsoleWriter = nil

	// These should not panic
	logger.Info("test with nil writer")
	logger.Error("error with nil writer")
}

func TestSetDefault(t *testing.T) {
	original := logging.Default()
	t.Cleanup(func() { logging.SetDefault(original) })

	buf := &bytes.Buffer{}
	logger := logging.NewCustomLogger(slog.LevelInfo)
	logger.ConsoleWriter = buf
	logging.SetDefault(logger)

	if logging.Default() != logger {
		t.Error("expected Default to return the logger set with SetDefault")
	}

	logging.Info("default logger message")
	if !bytes.Contains(buf.Bytes(), []byte("default logger message")) {
		t.Errorf("expected package-level Info to use the default logger, got %q", buf.String())
	}
}

func TestNewCustomLoggerWithOptions_UnknownFormat(t *testing.T) {
	// Unknown format should default to PlainOutput
	logger := logging.NewCustomLoggerWithOptions("info", "unknown-format", false, false)
	if logger.OutputType != logging.PlainOutput {
		t.Errorf("expected PlainOutput for unknown format, got %v", logger.OutputType)
	}
}

func TestOutputEncodeFailureDoesNotBlock(t *testing.T) {
	logger := logging.NewCustomLoggerWithOptions("info", "json", false, false)

	// Channels are not JSON-encodable, so this exercises the encode
	// failure path while the logger mutex is held.
	done := make(chan struct{})
	go func() {
		logger.Output(make(chan int))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Output did not return after an encode failure")
	}

	buf := &bytes.Buffer{}
	logger.ConsoleWriter = buf
	logger.Info("still writable")
	if !bytes.Contains(buf.Bytes(), []byte("still writable")) {
		t.Errorf("expected the logger to keep working after an encode failure, got %q", buf.String())
	}
}
