package form

import (
	"fmt"

	"github.com/metalcycle/lcastudio/internal/domain/project"
)

// AddMetal appends an entry with empty sub-records and expands it. It returns the new ID.
func (f *Form) AddMetal(metalType string) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextMetalID()
	f.project.Metals = append(f.project.Metals, project.MetalEntry{
		ID:              id,
		Type:            metalType,
		LifecycleStages: []string{},
		Transport:       &project.Transport{},
		Use:             &project.UsePhase{},
		EOL:             &project.EndOfLife{},
	})
	f.expanded[id] = true
	return id
}

// RemoveMetal removes the entry with the given ID. Removing the only entry
// is rejected. It reports whether an entry was removed.
func (f *Form) RemoveMetal(id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.project.FindMetal(id)
	if i < 0 {
		return false, nil
	}
	if len(f.project.Metals) == 1 {
		return false, ErrLastMetal
	}
	f.project.Metals = append(f.project.Metals[:i:i], f.project.Metals[i+1:]...)
	delete(f.expanded, id)
	return true, nil
}

// UpdateMetal shallow-merges a patch into the matching entry. An unknown ID
// is a no-op and reports false.
func (f *Form) UpdateMetal(mp project.MetalPatch) (bool, error) {
	return f.UpdateMetalWithSection(mp, nil)
}

// UpdateMetalSection sets one leaf of an entry's transport, use or eol
// sub-record, keeping its siblings. An unknown ID reports false.
func (f *Form) UpdateMetalSection(id string, sp project.SectionPatch) (bool, error) {
	return f.UpdateMetalWithSection(project.MetalPatch{ID: id}, &sp)
}

// UpdateMetalWithSection merges mp and then, when sp is set, one section
// leaf into the matching entry, committing both or neither.
func (f *Form) UpdateMetalWithSection(mp project.MetalPatch, sp *project.SectionPatch) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.project.FindMetal(mp.ID)
	if i < 0 {
		return false, nil
	}
	entry := f.project.Metals[i].Apply(mp)
	if sp != nil {
		var err error
		if entry, err = entry.ApplySection(*sp); err != nil {
			return false, err
		}
	}
	next := f.project.Clone()
	next.Metals[i] = entry
	if err := f.commit(next); err != nil {
		return false, err
	}
	return true, nil
}

// SetExpanded records the display state of an entry.
func (f *Form) SetExpanded(id string, expanded bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.project.FindMetal(id) < 0 {
		return
	}
	f.expanded[id] = expanded
}

// Expanded reports whether an entry is shown expanded.
func (f *Form) Expanded(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.expanded[id]
}

// nextMetalID returns an entry ID unused in the project. Callers hold f.mu.
func (f *Form) nextMetalID() string {
	for {
		f.metalSeq++
		id := fmt.Sprintf("metal-%d", f.metalSeq)
		if f.project.FindMetal(id) < 0 {
			return id
		}
	}
}
