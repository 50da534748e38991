package dupes

import (
	"sort"

	"github.com/hpungsan/roster/internal/person"
)

// Plan is the set of records a dedupe run will remove.
type Plan struct {
	// Removed holds ids in collection order.
	Removed []string `json:"removed"`

	marked map[string]bool
}

// Count returns the number of records to remove.
func (p *Plan) Count() int {
	return len(p.Removed)
}

// Removes reports whether id is marked for removal.
func (p *Plan) Removes(id string) bool {
	return p.marked[id]
}

// NewPlan builds the removal plan for the indexed collection.
//
// Within every group of two or more members the most recently created record
// survives and the rest are marked. Marks from the three fields are unioned,
// so a record shared on any single field may be removed even when its other
// fields are unique.
func NewPlan(ix *Index) *Plan {
	plan := &Plan{marked: make(map[string]bool)}

	for _, f := range Fields {
		for _, members := range ix.groups[f] {
			if len(members) < 2 {
				continue
			}
			sorted := append([]person.Person(nil), members...)
			sort.SliceStable(sorted, func(i, j int) bool {
				return person.CreatedBefore(sorted[i], sorted[j])
			})
			for _, p := range sorted[:len(sorted)-1] {
				plan.marked[p.ID] = true
			}
		}
	}

	for _, p := range ix.people {
		if plan.marked[p.ID] {
			plan.Removed = append(plan.Removed, p.ID)
		}
	}
	return plan
}

// Apply returns the survivors of plan in their original relative order.
func Apply(people []person.Person, plan *Plan) []person.Person {
	survivors := make([]person.Person, 0, len(people))
	for _, p := range people {
		if !plan.marked[p.ID] {
			survivors = append(survivors, p)
		}
	}
	return survivors
}

// Dedupe indexes people afresh and removes redundant records.
func Dedupe(people []person.Person) ([]person.Person, *Plan) {
	plan := NewPlan(Build(people))
	return Apply(people, plan), plan
}
