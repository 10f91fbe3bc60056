package actionplan

import (
	"fmt"
	"sync/atomic"

	"firewatch/internal/domain/maintenance"
)

// Catalog holds the active table of every family. Reads are lock-free; Replace swaps the whole set.
type Catalog struct {
	tables atomic.Pointer[map[Family]Table]
}

// NewCatalog starts from the built-in tables and applies overrides on top.
func NewCatalog(overrides ...Table) (*Catalog, error) {
	c := &Catalog{}
	if err := c.Replace(overrides); err != nil {
		return nil, err
	}
	return c, nil
}

// Replace validates overrides and installs them over the built-in tables. On error the active set is kept.
func (c *Catalog) Replace(overrides []Table) error {
	next := make(map[Family]Table, len(Families))
	for _, table := range BuiltinTables() {
		next[table.Family] = table
	}
	for _, table := range overrides {
		if err := table.Validate(); err != nil {
			return err
		}
		rules := make([]Rule, len(table.Rules))
		copy(rules, table.Rules)
		table.Rules = rules
		next[table.Family] = table
	}
	c.tables.Store(&next)
	return nil
}

func (c *Catalog) Table(family Family) (Table, error) {
	tables := c.tables.Load()
	if tables != nil {
		if table, ok := (*tables)[family]; ok {
			return table, nil
		}
	}
	return Table{}, fmt.Errorf("%w: %q", ErrUnknownFamily, family)
}

// Tables lists the active tables in Families order.
func (c *Catalog) Tables() []Table {
	out := make([]Table, 0, len(Families))
	for _, family := range Families {
		if table, err := c.Table(family); err == nil {
			out = append(out, table)
		}
	}
	return out
}

func (c *Catalog) Resolve(family Family, approved maintenance.Approval, observation string) (string, error) {
	table, err := c.Table(family)
	if err != nil {
		return "", err
	}
	return Resolve(table, approved, observation), nil
}
