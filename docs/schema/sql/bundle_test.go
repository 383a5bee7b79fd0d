package sqldocs

import (
	"strings"
	"testing"
)

func TestBundlesDeclareStateTable(t *testing.T) {
	for name, ddl := range map[string]string{"sqlite": SQLite, "postgres": Postgres} {
		if !strings.Contains(ddl, "CREATE TABLE IF NOT EXISTS state") {
			t.Fatalf("%s bundle missing state table DDL", name)
		}
		if !strings.Contains(ddl, "bucket TEXT PRIMARY KEY") {
			t.Fatalf("%s bundle missing bucket key column", name)
		}
	}
	if !strings.Contains(SQLite, "BLOB") {
		t.Fatalf("sqlite payload must be BLOB")
	}
	if !strings.Contains(Postgres, "JSONB") {
		t.Fatalf("postgres payload must be JSONB")
	}
}
