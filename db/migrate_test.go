package db

import (
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/Dosada05/backyard-olympics/db/migrations"
)

func TestUpSection(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "no markers", content: "CREATE TABLE a (id INT);", want: "CREATE TABLE a (id INT);"},
		{name: "up only", content: "-- +migrate Up\nCREATE TABLE a (id INT);", want: "\nCREATE TABLE a (id INT);"},
		{name: "up and down", content: "-- +migrate Up\nCREATE TABLE a (id INT);\n-- +migrate Down\nDROP TABLE a;", want: "\nCREATE TABLE a (id INT);\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := upSection(tt.content); got != tt.want {
				t.Errorf("upSection() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMigrationFilesSorted(t *testing.T) {
	fsys := fstest.MapFS{
		"002_b.sql":  {Data: []byte("SELECT 2;")},
		"001_a.sql":  {Data: []byte("SELECT 1;")},
		"README.txt": {Data: []byte("ignored")},
	}
	files, err := migrationFiles(fsys)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 || files[0] != "001_a.sql" || files[1] != "002_b.sql" {
		t.Fatalf("migrationFiles() = %v", files)
	}
}

func TestEmbeddedMigrationsCreateSchema(t *testing.T) {
	files, err := migrationFiles(migrations.FS)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no embedded migrations")
	}
	content, err := fs.ReadFile(migrations.FS, files[0])
	if err != nil {
		t.Fatal(err)
	}
	up := upSection(string(content))
	for _, table := range []string{"tournaments", "teams", "games", "rounds", "matchups", "wagers", "standings"} {
		if !strings.Contains(up, "CREATE TABLE IF NOT EXISTS "+table+" ") {
			t.Errorf("schema is missing table %s", table)
		}
	}
	if strings.Contains(up, "DROP TABLE") {
		t.Error("up section contains the down statements")
	}
}
