package inspection

import (
	"fmt"

	"firewatch/internal/domain/actionplan"
	"firewatch/internal/domain/maintenance"
)

type ActionPlanResult struct {
	Family       string `json:"family" yaml:"family"`
	TableVersion string `json:"table_version" yaml:"table_version"`
	Approved     string `json:"approved" yaml:"approved"`
	ActionPlan   string `json:"action_plan" yaml:"action_plan"`
}

// ResolveActionPlan previews the plan a record would get without writing anything.
func (s *Service) ResolveActionPlan(family string, approved string, observation string) (ActionPlanResult, error) {
	if s.catalog == nil {
		return ActionPlanResult{}, fmt.Errorf("action plan catalog is required")
	}
	parsedFamily, err := actionplan.ParseFamily(family)
	if err != nil {
		return ActionPlanResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	table, err := s.catalog.Table(parsedFamily)
	if err != nil {
		return ActionPlanResult{}, err
	}

	approval := maintenance.ParseApproval(approved)
	return ActionPlanResult{
		Family:       string(parsedFamily),
		TableVersion: table.Version,
		Approved:     string(approval),
		ActionPlan:   actionplan.Resolve(table, approval, observation),
	}, nil
}
