package migration

import (
	"testing"
	"testing/fstest"
)

func TestLoadOrdersByVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/V10__add_matches.sql":  {Data: []byte("CREATE TABLE matches ();")},
		"migrations/V2__add_briefs.sql":    {Data: []byte("CREATE TABLE briefs ();")},
		"migrations/V1__init.sql":          {Data: []byte("CREATE TABLE clients ();")},
		"migrations/notes.md":              {Data: []byte("not a migration")},
		"migrations/V3__missing_suffix":    {Data: []byte("skipped")},
		"migrations/extra__V4__weird.sql":  {Data: []byte("skipped")},
		"migrations/V5__add_designers.sql": {Data: []byte("CREATE TABLE designers ();")},
	}

	migs, err := load(fsys, "migrations")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	wantVersions := []int64{1, 2, 5, 10}
	if len(migs) != len(wantVersions) {
		t.Fatalf("got %d migrations, want %d", len(migs), len(wantVersions))
	}
	for i, m := range migs {
		if m.Version != wantVersions[i] {
			t.Errorf("migs[%d].Version = %d, want %d", i, m.Version, wantVersions[i])
		}
	}
	if migs[0].Name != "init" {
		t.Errorf("migs[0].Name = %q, want %q", migs[0].Name, "init")
	}
	if migs[0].SQL != "CREATE TABLE clients ();" {
		t.Errorf("migs[0].SQL = %q", migs[0].SQL)
	}
	if migs[0].Checksum == "" || migs[0].Checksum == migs[1].Checksum {
		t.Errorf("checksums should be non-empty and content-dependent")
	}
}

func TestLoadRejectsDuplicateVersions(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/V1__one.sql":     {Data: []byte("SELECT 1;")},
		"migrations/V1__one_bis.sql": {Data: []byte("SELECT 2;")},
	}

	if _, err := load(fsys, "migrations"); err == nil {
		t.Fatal("expected duplicate version error")
	}
}

func TestLoadEmptyDir(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/.keep": {Data: nil},
	}

	migs, err := load(fsys, "migrations")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(migs) != 0 {
		t.Fatalf("got %d migrations, want 0", len(migs))
	}
}

func TestEmbeddedMigrationsParse(t *testing.T) {
	migs, err := load(Files, "migrations")
	if err != nil {
		t.Fatalf("load embedded: %v", err)
	}
	if len(migs) == 0 {
		t.Fatal("no embedded migrations found")
	}
	for i := 1; i < len(migs); i++ {
		if migs[i].Version <= migs[i-1].Version {
			t.Fatalf("embedded migrations out of order at index %d", i)
		}
	}
}
