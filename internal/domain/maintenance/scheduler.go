package maintenance

import "time"

type refresh struct {
	category Category
	months   int
}

var refreshPlan = map[ServiceLevel][]refresh{
	LevelInspection: {
		{category: CategoryInspection, months: 1},
	},
	LevelTier2: {
		{category: CategoryInspection, months: 1},
		{category: CategoryTier2, months: 12},
	},
	LevelTier3: {
		{category: CategoryInspection, months: 1},
		{category: CategoryTier2, months: 12},
		{category: CategoryTier3, months: 60},
	},
	LevelSubstitution: {
		{category: CategoryInspection, months: 1},
	},
}

// ComputeNextDates refreshes the categories covered by level and carries every other category from prior
// unchanged. prior is not modified.
func ComputeNextDates(serviceDate time.Time, level ServiceLevel, prior DueDates) DueDates {
	next := prior.Clone()
	for _, step := range refreshPlan[level] {
		next[step.category] = FormatDate(AddMonths(serviceDate, step.months))
	}
	return next
}

// RetiredDueDates is the due-date set written for an asset leaving service: every category is null.
func RetiredDueDates() DueDates {
	return DueDates{}
}
