package hierarchy

import (
	"github.com/Veraticus/agency-pulse/internal/model"
	"github.com/Veraticus/agency-pulse/internal/names"
)

// Tree indexes hierarchy entries by manager. Lookups accept names in any
// case or spacing.
type Tree struct {
	byName  map[string]model.HierarchyEntry
	reports map[string][]string
	order   []string
}

// BuildTree indexes entries. A later entry with the same name replaces an earlier one.
func BuildTree(entries []model.HierarchyEntry) *Tree {
	t := &Tree{
		byName:  make(map[string]model.HierarchyEntry, len(entries)),
		reports: make(map[string][]string),
	}
	for _, e := range entries {
		key := names.Normalize(e.Name)
		if _, ok := t.byName[key]; !ok {
			t.order = append(t.order, key)
		}
		t.byName[key] = e
	}
	for _, key := range t.order {
		e := t.byName[key]
		if mgr := names.Normalize(e.ManagerName); mgr != "" && mgr != key {
			t.reports[mgr] = append(t.reports[mgr], key)
		}
	}
	return t
}

// Entry returns the entry for name.
func (t *Tree) Entry(name string) (model.HierarchyEntry, bool) {
	e, ok := t.byName[names.Normalize(name)]
	return e, ok
}

// DirectReports returns the people whose manager is name.
func (t *Tree) DirectReports(name string) []model.HierarchyEntry {
	return t.entries(t.reports[names.Normalize(name)])
}

// Subordinates returns everyone below name, nearest first. Cycles in the
// manager links are cut.
func (t *Tree) Subordinates(name string) []model.HierarchyEntry {
	root := names.Normalize(name)
	seen := map[string]bool{root: true}
	var out []string
	queue := []string{root}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		for _, r := range t.reports[next] {
			if seen[r] {
				continue
			}
			seen[r] = true
			out = append(out, r)
			queue = append(queue, r)
		}
	}
	return t.entries(out)
}

// ChainOfCommand returns name's managers from the nearest upwards.
func (t *Tree) ChainOfCommand(name string) []model.HierarchyEntry {
	key := names.Normalize(name)
	seen := map[string]bool{key: true}
	var out []string
	for {
		e, ok := t.byName[key]
		if !ok {
			break
		}
		mgr := names.Normalize(e.ManagerName)
		if mgr == "" || seen[mgr] {
			break
		}
		if _, ok := t.byName[mgr]; !ok {
			break
		}
		seen[mgr] = true
		out = append(out, mgr)
		key = mgr
	}
	return t.entries(out)
}

// Roots returns the entries without a known manager.
func (t *Tree) Roots() []model.HierarchyEntry {
	var out []string
	for _, key := range t.order {
		if _, ok := t.byName[names.Normalize(t.byName[key].ManagerName)]; !ok {
			out = append(out, key)
		}
	}
	return t.entries(out)
}

func (t *Tree) entries(keys []string) []model.HierarchyEntry {
	out := make([]model.HierarchyEntry, 0, len(keys))
	for _, k := range keys {
		out = append(out, t.byName[k])
	}
	return out
}
