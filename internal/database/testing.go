package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/yourusername/touchline/internal/config"
)

// TestConfigEnv names the config file integration tests connect with
const TestConfigEnv = "TOUCHLINE_TEST_CONFIG"

// SetupTestDB connects with the config file named by TestConfigEnv and
// creates the schema. The test is skipped when the variable is unset.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	path := os.Getenv(TestConfigEnv)
	if path == "" {
		t.Skipf("Integration test - set %s to a config file with database settings", TestConfigEnv)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("failed to load test config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := Initialize(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}
	t.Cleanup(db.Close)
	return db
}
