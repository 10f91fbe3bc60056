package actionplan

import (
	"strings"
	"testing"

	"firewatch/internal/domain/maintenance"
)

func TestResolveApprovedIsTerminal(t *testing.T) {
	table := BuiltinTable(FamilyExtinguisher)
	for _, text := range []string{"", "MANOMETRO QUEBRADO", "anything at all"} {
		if got := Resolve(table, maintenance.ApprovalYes, text); got != MonitoringPlan {
			t.Fatalf("Resolve(yes, %q) = %q", text, got)
		}
	}
}

func TestResolveFirstTableKeywordWins(t *testing.T) {
	table := BuiltinTable(FamilyExtinguisher)

	got := Resolve(table, maintenance.ApprovalNo, "MANOMETRO COM DEFEITO E LACRE VIOLADO")
	if got != "Replace the pressure gauge immediately." {
		t.Fatalf("Resolve() = %q", got)
	}

	reversed := Resolve(table, maintenance.ApprovalNo, "lacre violado e manometro com defeito")
	if reversed != got {
		t.Fatalf("Resolve() depends on text order: %q vs %q", reversed, got)
	}
}

func TestResolveFoldsAccents(t *testing.T) {
	table := BuiltinTable(FamilyExtinguisher)

	got := Resolve(table, maintenance.ApprovalNo, "Manômetro danificado")
	if got != "Replace the pressure gauge immediately." {
		t.Fatalf("Resolve() = %q", got)
	}
}

func TestResolveFallbacks(t *testing.T) {
	table := BuiltinTable(FamilyExtinguisher)

	got := Resolve(table, maintenance.ApprovalNo, "  cheiro estranho  ")
	if got != "Investigate and correct the reported nonconformity: 'cheiro estranho'." {
		t.Fatalf("Resolve(no match) = %q", got)
	}

	if got := Resolve(table, maintenance.ApprovalNo, "   "); got != FailedGenericPlan {
		t.Fatalf("Resolve(blank) = %q", got)
	}

	if got := Resolve(table, maintenance.ApprovalNotApplicable, "MANOMETRO"); got != NotApplicablePlan {
		t.Fatalf("Resolve(n/a) = %q", got)
	}
	if got := Resolve(table, maintenance.Approval("maybe"), ""); got != NotApplicablePlan {
		t.Fatalf("Resolve(unknown) = %q", got)
	}
}

func TestResolveWithEmptyTableEchoesText(t *testing.T) {
	got := Resolve(Table{}, maintenance.ApprovalNo, "sirene muda")
	if !strings.Contains(got, "'sirene muda'") {
		t.Fatalf("Resolve() = %q", got)
	}
}

func TestBuiltinTablesAreValid(t *testing.T) {
	tables := BuiltinTables()
	if len(tables) != len(Families) {
		t.Fatalf("BuiltinTables() len = %d", len(tables))
	}
	for _, table := range tables {
		if err := table.Validate(); err != nil {
			t.Fatalf("builtin table %s invalid: %v", table.Family, err)
		}
	}
}

func TestFamilyTables(t *testing.T) {
	tests := []struct {
		family Family
		text   string
		want   string
	}{
		{family: FamilyAlarm, text: "central com falha de comunicação", want: "Restore communication between the panel and the loop."},
		{family: FamilyEyewash, text: "água turva na saída", want: "Flush the line until the water runs clear."},
		{family: FamilyGasDetector, text: "sensor fora de calibração", want: "Calibrate the detector."},
		{family: FamilyFoamChamber, text: "vedação ressecada", want: "Replace the vapour seal."},
	}

	for _, tc := range tests {
		if got := Resolve(BuiltinTable(tc.family), maintenance.ApprovalNo, tc.text); got != tc.want {
			t.Fatalf("%s: Resolve(%q) = %q, want %q", tc.family, tc.text, got, tc.want)
		}
	}
}
