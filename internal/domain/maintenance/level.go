package maintenance

import (
	"fmt"
	"strings"
)

type ServiceLevel string

const (
	LevelInspection   ServiceLevel = "Inspection"
	LevelTier2        ServiceLevel = "Maintenance-Tier2"
	LevelTier3        ServiceLevel = "Maintenance-Tier3"
	LevelSubstitution ServiceLevel = "Substitution"
)

var serviceLevelAliases = map[string]ServiceLevel{
	"inspection":         LevelInspection,
	"inspecao":           LevelInspection,
	"inspeção":           LevelInspection,
	"maintenance-tier2":  LevelTier2,
	"tier2":              LevelTier2,
	"manutencao nivel 2": LevelTier2,
	"manutenção nível 2": LevelTier2,
	"maintenance-tier3":  LevelTier3,
	"tier3":              LevelTier3,
	"manutencao nivel 3": LevelTier3,
	"manutenção nível 3": LevelTier3,
	"substitution":       LevelSubstitution,
	"substituicao":       LevelSubstitution,
	"substituição":       LevelSubstitution,
}

func ParseServiceLevel(raw string) (ServiceLevel, error) {
	key := strings.ToLower(strings.Join(strings.Fields(raw), " "))
	if key == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidServiceLevel)
	}
	level, ok := serviceLevelAliases[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidServiceLevel, raw)
	}
	return level, nil
}

func (l ServiceLevel) Valid() bool {
	switch l {
	case LevelInspection, LevelTier2, LevelTier3, LevelSubstitution:
		return true
	}
	return false
}

func (l ServiceLevel) String() string {
	return string(l)
}
