package maintenance

// Category names one due-date lineage of an asset.
type Category string

const (
	CategoryInspection  Category = "next_inspection"
	CategoryTier2       Category = "next_tier2"
	CategoryTier3       Category = "next_tier3"
	CategoryHydrostatic Category = "next_hydrostatic"
)

// Categories lists every known category in display order.
var Categories = []Category{
	CategoryInspection,
	CategoryTier2,
	CategoryTier3,
	CategoryHydrostatic,
}

// DueDates maps a category to a YYYY-MM-DD date. A missing key is a null due date.
type DueDates map[Category]string

func (d DueDates) Get(category Category) (string, bool) {
	if d == nil {
		return "", false
	}
	value, ok := d[category]
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// Ptr returns the date as a pointer, nil when unset. Persistence layers store categories as nullable columns.
func (d DueDates) Ptr(category Category) *string {
	value, ok := d.Get(category)
	if !ok {
		return nil
	}
	return &value
}

func (d DueDates) Clone() DueDates {
	out := make(DueDates, len(d))
	for category, value := range d {
		if value != "" {
			out[category] = value
		}
	}
	return out
}

// DueDatesFromPtrs builds a mapping from nullable columns in Categories order.
func DueDatesFromPtrs(inspection, tier2, tier3, hydrostatic *string) DueDates {
	out := DueDates{}
	for category, value := range map[Category]*string{
		CategoryInspection:  inspection,
		CategoryTier2:       tier2,
		CategoryTier3:       tier3,
		CategoryHydrostatic: hydrostatic,
	} {
		if value != nil && *value != "" {
			out[category] = *value
		}
	}
	return out
}
