package testutil

import (
	"os"
	"testing"
)

// RequireTestEnvironment fails the test unless GO_ENV is "test". The config
// loader picks its .env file from GO_ENV, so running suites under any other
// value would point them at a real database.
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Fatalf("tests must run with GO_ENV=test, got %q", env)
	}
}

// MustSetTestEnvironment forces GO_ENV to test. Use in suite setup before the
// configuration is loaded.
func MustSetTestEnvironment(t *testing.T) {
	t.Helper()

	if err := os.Setenv("GO_ENV", "test"); err != nil {
		t.Fatalf("failed to set GO_ENV=test: %v", err)
	}
}
