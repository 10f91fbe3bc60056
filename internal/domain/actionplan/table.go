package actionplan

import (
	"fmt"
	"strings"
)

// Family identifies an equipment family. Each family has its own keyword table.
type Family string

const (
	FamilyExtinguisher Family = "extinguisher"
	FamilyHose         Family = "hose"
	FamilyShelter      Family = "shelter"
	FamilySCBA         Family = "scba"
	FamilyEyewash      Family = "eyewash"
	FamilyFoamChamber  Family = "foam_chamber"
	FamilyGasDetector  Family = "gas_detector"
	FamilyAlarm        Family = "alarm"
)

var Families = []Family{
	FamilyExtinguisher,
	FamilyHose,
	FamilyShelter,
	FamilySCBA,
	FamilyEyewash,
	FamilyFoamChamber,
	FamilyGasDetector,
	FamilyAlarm,
}

func ParseFamily(raw string) (Family, error) {
	candidate := Family(strings.ToLower(strings.TrimSpace(raw)))
	for _, family := range Families {
		if family == candidate {
			return family, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFamily, raw)
}

// Rule maps a keyword found in an observation to a recommended action.
type Rule struct {
	Keyword string `toml:"keyword" yaml:"keyword" json:"keyword"`
	Action  string `toml:"action" yaml:"action" json:"action"`
}

// Table is an ordered rule list. Earlier rules take precedence over later ones.
type Table struct {
	Family  Family `toml:"family" yaml:"family" json:"family"`
	Version string `toml:"version" yaml:"version" json:"version"`
	Rules   []Rule `toml:"rules" yaml:"rules" json:"rules"`
}

func (t Table) Validate() error {
	if _, err := ParseFamily(string(t.Family)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTable, err)
	}
	if len(t.Rules) == 0 {
		return fmt.Errorf("%w: family %s has no rules", ErrInvalidTable, t.Family)
	}
	seen := make(map[string]int, len(t.Rules))
	for i, rule := range t.Rules {
		keyword := Fold(strings.TrimSpace(rule.Keyword))
		if keyword == "" {
			return fmt.Errorf("%w: family %s rule %d has empty keyword", ErrInvalidTable, t.Family, i+1)
		}
		if strings.TrimSpace(rule.Action) == "" {
			return fmt.Errorf("%w: family %s rule %d (%s) has empty action", ErrInvalidTable, t.Family, i+1, rule.Keyword)
		}
		if first, ok := seen[keyword]; ok {
			return fmt.Errorf("%w: family %s keyword %s repeated at rules %d and %d", ErrInvalidTable, t.Family, rule.Keyword, first, i+1)
		}
		seen[keyword] = i + 1
	}
	return nil
}
