package maintenance

import (
	"reflect"
	"testing"
	"time"
)

func mustDate(t *testing.T, raw string) time.Time {
	t.Helper()

	parsed, ok := ParseDate(raw)
	if !ok {
		t.Fatalf("ParseDate(%q) failed", raw)
	}
	return parsed
}

func TestComputeNextDatesInspectionClampsMonthEnd(t *testing.T) {
	got := ComputeNextDates(mustDate(t, "2024-01-31"), LevelInspection, DueDates{})

	want := DueDates{CategoryInspection: "2024-02-29"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ComputeNextDates() = %#v, want %#v", got, want)
	}
	if _, ok := got.Get(CategoryTier2); ok {
		t.Fatalf("tier2 should stay null")
	}
}

func TestComputeNextDatesTier3RefreshesAllTiers(t *testing.T) {
	got := ComputeNextDates(mustDate(t, "2024-06-15"), LevelTier3, DueDates{CategoryInspection: "2024-05-01"})

	want := DueDates{
		CategoryInspection: "2024-07-15",
		CategoryTier2:      "2025-06-15",
		CategoryTier3:      "2029-06-15",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ComputeNextDates() = %#v, want %#v", got, want)
	}
}

func TestComputeNextDatesCarriesUntouchedCategories(t *testing.T) {
	prior := DueDates{
		CategoryInspection:  "2024-01-10",
		CategoryTier2:       "2024-12-10",
		CategoryTier3:       "2028-12-10",
		CategoryHydrostatic: "2029-03-01",
	}
	serviceDate := mustDate(t, "2024-02-10")

	tests := []struct {
		level     ServiceLevel
		refreshed map[Category]string
	}{
		{level: LevelInspection, refreshed: map[Category]string{CategoryInspection: "2024-03-10"}},
		{level: LevelTier2, refreshed: map[Category]string{CategoryInspection: "2024-03-10", CategoryTier2: "2025-02-10"}},
		{level: LevelSubstitution, refreshed: map[Category]string{CategoryInspection: "2024-03-10"}},
	}

	for _, tc := range tests {
		first := ComputeNextDates(serviceDate, tc.level, prior)
		second := ComputeNextDates(serviceDate, tc.level, prior)
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("%s: repeated computation differs: %#v vs %#v", tc.level, first, second)
		}

		for _, category := range Categories {
			got, _ := first.Get(category)
			if want, ok := tc.refreshed[category]; ok {
				if got != want {
					t.Fatalf("%s: %s = %q, want %q", tc.level, category, got, want)
				}
				continue
			}
			if got != prior[category] {
				t.Fatalf("%s: %s = %q, want carried %q", tc.level, category, got, prior[category])
			}
		}
	}

	if prior[CategoryInspection] != "2024-01-10" {
		t.Fatalf("prior mutated: %#v", prior)
	}
}

func TestComputeNextDatesNilPrior(t *testing.T) {
	got := ComputeNextDates(mustDate(t, "2023-03-31"), LevelTier2, nil)
	if got[CategoryInspection] != "2023-04-30" || got[CategoryTier2] != "2024-03-31" {
		t.Fatalf("ComputeNextDates() = %#v", got)
	}
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		in     string
		months int
		want   string
	}{
		{in: "2023-01-31", months: 1, want: "2023-02-28"},
		{in: "2024-02-29", months: 12, want: "2025-02-28"},
		{in: "2024-02-29", months: 48, want: "2028-02-29"},
		{in: "2024-12-15", months: 1, want: "2025-01-15"},
		{in: "2024-08-31", months: 60, want: "2029-08-31"},
	}

	for _, tc := range tests {
		got := FormatDate(AddMonths(mustDate(t, tc.in), tc.months))
		if got != tc.want {
			t.Fatalf("AddMonths(%s, %d) = %s, want %s", tc.in, tc.months, got, tc.want)
		}
	}
}

func TestRetiredDueDatesIsEmpty(t *testing.T) {
	if len(RetiredDueDates()) != 0 {
		t.Fatalf("RetiredDueDates() = %#v", RetiredDueDates())
	}
}
