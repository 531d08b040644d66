package assist

import (
	"fmt"

	"github.com/metalcycle/lcastudio/internal/domain/project"
)

// Patch is the result of one synthesis run. NewMetals is used when the
// project has no metals, Metals when existing entries have gaps.
type Patch struct {
	Fields    project.Patch        `json:"fields"`
	NewMetals []project.MetalEntry `json:"newMetals,omitempty"`
	Metals    []project.MetalPatch `json:"metals,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (pt Patch) IsEmpty() bool {
	if !pt.Fields.IsEmpty() || len(pt.NewMetals) > 0 {
		return false
	}
	for _, mp := range pt.Metals {
		if !mp.IsEmpty() {
			return false
		}
	}
	return true
}

// Apply returns a copy of p with the whole patch merged in. New entries get
// IDs from nextID; a nil nextID numbers them after the existing entries.
func (pt Patch) Apply(p project.Project, nextID func() string) project.Project {
	out := p.ApplyPatch(pt.Fields)
	for _, mp := range pt.Metals {
		if i := out.FindMetal(mp.ID); i >= 0 {
			out.Metals[i] = out.Metals[i].Apply(mp)
		}
	}
	if nextID == nil {
		nextID = sequentialIDs(out)
	}
	for _, m := range pt.NewMetals {
		entry := m.Clone()
		entry.ID = nextID()
		out.Metals = append(out.Metals, entry)
	}
	return out
}

func sequentialIDs(p project.Project) func() string {
	n := len(p.Metals)
	return func() string {
		for {
			n++
			id := fmt.Sprintf("metal-%d", n)
			if p.FindMetal(id) < 0 {
				return id
			}
		}
	}
}
