package actionplan

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"firewatch/internal/domain/maintenance"
)

func TestCatalogOverridesFamilyTable(t *testing.T) {
	catalog, err := NewCatalog(Table{
		Family:  FamilyExtinguisher,
		Version: "site-7",
		Rules: []Rule{
			{Keyword: "LACRE", Action: "Seal first."},
			{Keyword: "MANOMETRO", Action: "Gauge second."},
		},
	})
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}

	got, err := catalog.Resolve(FamilyExtinguisher, maintenance.ApprovalNo, "MANOMETRO COM DEFEITO E LACRE VIOLADO")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != "Seal first." {
		t.Fatalf("Resolve() = %q", got)
	}

	hose, err := catalog.Table(FamilyHose)
	if err != nil {
		t.Fatalf("Table(hose) error = %v", err)
	}
	if hose.Version != BuiltinVersion {
		t.Fatalf("hose table version = %q", hose.Version)
	}
}

func TestCatalogReplaceKeepsActiveSetOnError(t *testing.T) {
	catalog, err := NewCatalog()
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}

	err = catalog.Replace([]Table{{Family: FamilyAlarm, Rules: []Rule{{Keyword: "", Action: "x"}}}})
	if !errors.Is(err, ErrInvalidTable) {
		t.Fatalf("Replace() error = %v, want ErrInvalidTable", err)
	}

	table, err := catalog.Table(FamilyAlarm)
	if err != nil || table.Version != BuiltinVersion {
		t.Fatalf("Table(alarm) = %#v, %v", table, err)
	}

	if _, err := catalog.Resolve(Family("boat"), maintenance.ApprovalNo, "x"); !errors.Is(err, ErrUnknownFamily) {
		t.Fatalf("Resolve(boat) error = %v", err)
	}
}

func TestLoadFileTOMLAndYAML(t *testing.T) {
	dir := t.TempDir()

	tomlPath := filepath.Join(dir, "tables.toml")
	tomlBody := `
[[tables]]
family = "Extinguisher"
version = "2025.02"

[[tables.rules]]
keyword = "PINO"
action = "Pin first."

[[tables.rules]]
keyword = "LACRE"
action = "Seal second."
`
	if err := os.WriteFile(tomlPath, []byte(tomlBody), 0o644); err != nil {
		t.Fatalf("write toml: %v", err)
	}

	tables, err := LoadFile(tomlPath)
	if err != nil {
		t.Fatalf("LoadFile(toml) error = %v", err)
	}
	if len(tables) != 1 || tables[0].Family != FamilyExtinguisher || len(tables[0].Rules) != 2 {
		t.Fatalf("LoadFile(toml) = %#v", tables)
	}
	if tables[0].Rules[0].Keyword != "PINO" {
		t.Fatalf("rule order lost: %#v", tables[0].Rules)
	}

	yamlPath := filepath.Join(dir, "tables.yaml")
	yamlBody := `tables:
  - family: alarm
    version: "2025.01"
    rules:
      - keyword: SIRENE
        action: Replace the sounder.
`
	if err := os.WriteFile(yamlPath, []byte(yamlBody), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}

	tables, err = LoadFile(yamlPath)
	if err != nil {
		t.Fatalf("LoadFile(yaml) error = %v", err)
	}
	if len(tables) != 1 || tables[0].Family != FamilyAlarm || tables[0].Rules[0].Action != "Replace the sounder." {
		t.Fatalf("LoadFile(yaml) = %#v", tables)
	}

	if _, err := LoadFile(filepath.Join(dir, "tables.json")); err == nil {
		t.Fatalf("LoadFile(json) expected error")
	}
	if _, err := Decode([]byte("{}"), "json"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("Decode(json) error = %v", err)
	}
}
