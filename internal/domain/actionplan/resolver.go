package actionplan

import (
	"fmt"
	"strings"

	"firewatch/internal/domain/maintenance"
)

const (
	MonitoringPlan    = "Keep under periodic monitoring."
	FailedGenericPlan = "Failed inspection: assess the nonconformity and take corrective action."
	NotApplicablePlan = "N/A"
)

// Resolve derives the corrective action for an inspection outcome. It never fails: every approval and text
// combination maps to a plan.
func Resolve(table Table, approved maintenance.Approval, observation string) string {
	switch approved {
	case maintenance.ApprovalYes:
		return MonitoringPlan
	case maintenance.ApprovalNo:
	default:
		return NotApplicablePlan
	}

	text := strings.TrimSpace(observation)
	if text == "" {
		return FailedGenericPlan
	}

	if rule, ok := table.Match(text); ok {
		return rule.Action
	}
	return fmt.Sprintf("Investigate and correct the reported nonconformity: '%s'.", text)
}

// Match returns the first rule, in table order, whose keyword occurs in text.
func (t Table) Match(text string) (Rule, bool) {
	folded := Fold(text)
	for _, rule := range t.Rules {
		keyword := Fold(strings.TrimSpace(rule.Keyword))
		if keyword == "" {
			continue
		}
		if strings.Contains(folded, keyword) {
			return rule, true
		}
	}
	return Rule{}, false
}
