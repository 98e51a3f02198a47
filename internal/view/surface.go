// Package view binds the calculator page to the import cost pipeline: it reads
// named input fields, runs the pipeline and writes every named display.
package view

import "sort"

// Surface is the page as seen by the calculator. Every method reports false
// when the named element does not exist; callers skip it and carry on.
type Surface interface {
	Value(id string) (string, bool)
	SetValue(id, value string) bool
	Text(id string) (string, bool)
	SetText(id, text string) bool
	SetVisible(id string, visible bool) bool
}

// Form is an in-memory Surface holding a fixed set of elements. It is not
// safe for concurrent use; Controller serializes access.
type Form struct {
	values  map[string]string
	texts   map[string]string
	visible map[string]bool
}

// NewForm creates a form with the given input fields, displays and panels.
func NewForm(fields, displays, panels []string) *Form {
	f := &Form{
		values:  make(map[string]string, len(fields)),
		texts:   make(map[string]string, len(displays)),
		visible: make(map[string]bool, len(panels)),
	}
	for _, id := range fields {
		f.values[id] = ""
	}
	for _, id := range displays {
		f.texts[id] = ""
	}
	for _, id := range panels {
		f.visible[id] = false
	}
	return f
}

// NewStandardForm creates a form with every element of the calculator page.
func NewStandardForm() *Form {
	return NewForm(StandardFields(), StandardDisplays(), []string{PanelSearchResults})
}

func (f *Form) Value(id string) (string, bool) {
	v, ok := f.values[id]
	return v, ok
}

func (f *Form) SetValue(id, value string) bool {
	if _, ok := f.values[id]; !ok {
		return false
	}
	f.values[id] = value
	return true
}

func (f *Form) Text(id string) (string, bool) {
	v, ok := f.texts[id]
	return v, ok
}

func (f *Form) SetText(id, text string) bool {
	if _, ok := f.texts[id]; !ok {
		return false
	}
	f.texts[id] = text
	return true
}

func (f *Form) SetVisible(id string, visible bool) bool {
	if _, ok := f.visible[id]; !ok {
		return false
	}
	f.visible[id] = visible
	return true
}

// Snapshot is a copy of every element, ready to be serialized.
type Snapshot struct {
	Values  map[string]string `json:"values"`
	Texts   map[string]string `json:"texts"`
	Visible map[string]bool   `json:"visible"`
}

// Snapshot copies the current contents.
func (f *Form) Snapshot() Snapshot {
	s := Snapshot{
		Values:  make(map[string]string, len(f.values)),
		Texts:   make(map[string]string, len(f.texts)),
		Visible: make(map[string]bool, len(f.visible)),
	}
	for k, v := range f.values {
		s.Values[k] = v
	}
	for k, v := range f.texts {
		s.Texts[k] = v
	}
	for k, v := range f.visible {
		s.Visible[k] = v
	}
	return s
}

// FieldIDs returns the input field ids, sorted.
func (f *Form) FieldIDs() []string {
	ids := make([]string, 0, len(f.values))
	for id := range f.values {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
