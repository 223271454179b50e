package store_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/promiscuity/internal/db"
	"github.com/persistorai/promiscuity/internal/db/migrations"
	"github.com/persistorai/promiscuity/internal/dbpool"
	"github.com/persistorai/promiscuity/internal/store"
)

// testEnv holds shared test infrastructure (single pool across all tests).
type testEnv struct {
	pool *dbpool.Pool
	log  *logrus.Logger
}

var sharedEnv *testEnv

func getTestEnv(t *testing.T) *testEnv {
	t.Helper()

	if sharedEnv != nil {
		return sharedEnv
	}

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()

	pool, err := dbpool.NewPool(ctx, dbURL, dbpool.Options{MaxConns: 4})
	if err != nil {
		t.Fatalf("connecting to test DB: %v", err)
	}

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
		t.Fatalf("migrating test DB: %v", err)
	}

	sharedEnv = &testEnv{pool: pool, log: log}

	return sharedEnv
}

// setupTestBase creates a Base with a fresh test tenant, removed after the test.
func setupTestBase(t *testing.T) (store.Base, string) {
	t.Helper()

	env := getTestEnv(t)
	base := store.Base{Pool: env.pool, Log: env.log}
	ctx := context.Background()

	apiKey := "test-key-" + uuid.NewString()

	tenantID, err := base.CreateTenant(ctx, fmt.Sprintf("test-tenant-%s", apiKey[9:17]), apiKey)
	if err != nil {
		t.Fatalf("creating test tenant: %v", err)
	}

	t.Cleanup(func() {
		// Nodes and edges cascade from the tenant row.
		env.pool.Exec(context.Background(), "DELETE FROM tenants WHERE id = $1", tenantID) //nolint:errcheck // best-effort cleanup
	})

	got, err := base.GetTenantByAPIKey(ctx, apiKey)
	if err != nil || got != tenantID {
		t.Fatalf("GetTenantByAPIKey = %q, %v; want %q", got, err, tenantID)
	}

	return base, tenantID
}
