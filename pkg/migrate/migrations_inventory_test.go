package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInventoryMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_inventory.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no inventory migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS batches",
		"CHECK (qty_in > 0)",
		"CHECK (qty_left >= 0)",
		"CHECK (qty_left <= qty_in)",
		"CREATE TABLE IF NOT EXISTS movements",
		"CONSTRAINT ux_reservations_order_product UNIQUE (order_id, product_id)",
		"DROP TABLE IF EXISTS batches",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestBatchConsumptionIndexCoversFIFOOrdering(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_inventory.sql"))
	if err != nil || len(matches) == 0 {
		t.Fatalf("no inventory migration file found: %v", err)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	if !strings.Contains(string(data), "ix_batches_product_arrival ON batches(product_id, arrived_at, created_at, id)") {
		t.Error("expected composite index matching the write-off lock ordering")
	}
}
