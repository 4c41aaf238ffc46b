//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "micromarket-api"
	ConsumerName = "micromarket-web"

	StateCatalogBaseline  = "catalog baseline"
	StateProductExists    = "product p1 exists"
	StateUserRegistered   = "user shopper@example.com is registered"
	StateUserHasFavorites = "user has favorited p1 and p3"
)

const (
	ExistingProductID = "p1"
	SecondProductID   = "p3"
	UnfavoritedID     = "p2"

	UserEmail    = "shopper@example.com"
	UserPassword = "pact-pass"
	SessionToken = "pact-session-token"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleProductPayload provides stable test data for pact interactions.
func ExampleProductPayload() map[string]any {
	return map[string]any{
		"_id":         ExistingProductID,
		"title":       "Walnut Chair",
		"price":       49.5,
		"description": "A sturdy walnut chair",
		"image":       "https://cdn.micromarket.example/p1.png",
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
