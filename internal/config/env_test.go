package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/llehouerou/gqlopgen/types"
)

func TestLoad_defaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{
		EnvEndpoint, EnvOutputDir, EnvMaxDepth, EnvFileExt, EnvTimeout,
		EnvConcurrency, EnvValidate, EnvSkipRequiredArgs, EnvLogLevel,
	} {
		t.Setenv(key, "")
	}

	cfg := Load(nil)
	want := Config{
		Endpoint:    types.DefaultEndpoint,
		OutputDir:   types.DefaultOutputDir,
		MaxDepth:    types.DefaultMaxDepth,
		Extension:   types.DefaultExtension,
		Timeout:     DefaultTimeout,
		Concurrency: 1,
		LogLevel:    logrus.InfoLevel,
	}
	if cfg != want {
		t.Errorf("got %+v, want %+v", cfg, want)
	}
}

func TestLoad_environment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv(EnvEndpoint, "https://api.example.com/graphql")
	t.Setenv(EnvOutputDir, "generated")
	t.Setenv(EnvMaxDepth, "5")
	t.Setenv(EnvFileExt, ".gql")
	t.Setenv(EnvTimeout, "45")
	t.Setenv(EnvConcurrency, "8")
	t.Setenv(EnvValidate, "true")
	t.Setenv(EnvSkipRequiredArgs, "1")
	t.Setenv(EnvLogLevel, "DEBUG")

	cfg := Load(nil)
	want := Config{
		Endpoint:         "https://api.example.com/graphql",
		OutputDir:        "generated",
		MaxDepth:         5,
		Extension:        "gql",
		Timeout:          45 * time.Second,
		Concurrency:      8,
		Validate:         true,
		SkipRequiredArgs: true,
		LogLevel:         logrus.DebugLevel,
	}
	if cfg != want {
		t.Errorf("got %+v, want %+v", cfg, want)
	}
}

func TestLoadEnv_processWins(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	dotenv := "GRAPHQL_ENDPOINT=http://from-file:4001/graphql\nGQLOPGEN_TEST_FROM_FILE=yes\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(dotenv), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvEndpoint, "http://from-process:4001/graphql")
	t.Cleanup(func() { _ = os.Unsetenv("GQLOPGEN_TEST_FROM_FILE") })

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	LoadEnv(logger)

	if got := os.Getenv(EnvEndpoint); got != "http://from-process:4001/graphql" {
		t.Errorf("got endpoint %q, want the process value", got)
	}
	if got := os.Getenv("GQLOPGEN_TEST_FROM_FILE"); got != "yes" {
		t.Errorf("got %q from .env, want yes", got)
	}
	if last := hook.LastEntry(); last == nil || last.Message != "Loaded env files: .env" {
		t.Errorf("got log entry %v, want Loaded env files: .env", last)
	}
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"", DefaultTimeout},
		{"90s", 90 * time.Second},
		{"2m", 2 * time.Minute},
		{"10", 10 * time.Second},
		{"soon", DefaultTimeout},
	}
	for _, tc := range tests {
		t.Setenv(EnvTimeout, tc.value)
		if got := GetEnvDuration(EnvTimeout, DefaultTimeout); got != tc.want {
			t.Errorf("GetEnvDuration(%q) = %v, want %v", tc.value, got, tc.want)
		}
	}
}

func TestGetEnvInt_invalid(t *testing.T) {
	t.Setenv(EnvMaxDepth, "deep")
	if got := GetEnvInt(EnvMaxDepth, 3); got != 3 {
		t.Errorf("got %d, want default 3", got)
	}
}

func TestGetLogLevel(t *testing.T) {
	tests := []struct {
		value string
		want  logrus.Level
	}{
		{"", logrus.InfoLevel},
		{"debug", logrus.DebugLevel},
		{"TRACE", logrus.TraceLevel},
		{"warning", logrus.WarnLevel},
		{"warn", logrus.WarnLevel},
		{"fatal", logrus.FatalLevel},
		{"loud", logrus.InfoLevel},
	}
	for _, tc := range tests {
		t.Setenv(EnvLogLevel, tc.value)
		if got := GetLogLevel(); got != tc.want {
			t.Errorf("GetLogLevel(%q) = %v, want %v", tc.value, got, tc.want)
		}
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
