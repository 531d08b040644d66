// Package template holds the gallery of partial projects a form can start from.
package template

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/metalcycle/lcastudio/internal/domain/project"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var builtin []byte

var (
	// ErrTemplateNotFound indicates no template has the requested id.
	ErrTemplateNotFound = errors.New("template not found")
	// ErrInvalidCatalog indicates a malformed template catalog.
	ErrInvalidCatalog = errors.New("invalid template catalog")
)

// Partial is the subset of project fields a template fills. Metals are bare names.
type Partial struct {
	Name           string   `yaml:"name" json:"name"`
	Description    string   `yaml:"description" json:"description,omitempty"`
	FunctionalUnit string   `yaml:"functionalUnit" json:"functionalUnit,omitempty"`
	AssessmentGoal string   `yaml:"assessmentGoal" json:"assessmentGoal,omitempty"`
	Status         string   `yaml:"status" json:"status,omitempty"`
	Metals         []string `yaml:"metals" json:"metals"`
}

// Template is one gallery entry.
type Template struct {
	ID          string  `yaml:"id" json:"id"`
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description" json:"description"`
	Project     Partial `yaml:"project" json:"project"`
}

// Seed converts the template into a new, unsaved project.
func (t Template) Seed() project.Project {
	p := project.Blank()
	p.Name = t.Project.Name
	p.Description = t.Project.Description
	p.FunctionalUnit = t.Project.FunctionalUnit
	p.AssessmentGoal = t.Project.AssessmentGoal
	if t.Project.Status != "" {
		p.Status = project.Status(t.Project.Status)
	}
	for i, name := range t.Project.Metals {
		p.Metals = append(p.Metals, project.MetalEntry{
			ID:              fmt.Sprintf("metal-%d", i+1),
			Type:            name,
			LifecycleStages: []string{},
		})
	}
	return p
}

// Catalog is an ordered set of templates.
type Catalog struct {
	templates []Template
}

// Builtin returns the catalog shipped with the binary.
func Builtin() *Catalog {
	c, err := Load(bytes.NewReader(builtin))
	if err != nil {
		panic(fmt.Sprintf("builtin template catalog: %v", err))
	}
	return c
}

// Load parses a YAML catalog.
func Load(r io.Reader) (*Catalog, error) {
	var doc struct {
		Templates []Template `yaml:"templates"`
	}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	seen := make(map[string]bool, len(doc.Templates))
	for i, t := range doc.Templates {
		if strings.TrimSpace(t.ID) == "" || strings.TrimSpace(t.Name) == "" {
			return nil, fmt.Errorf("%w: template %d needs an id and a name", ErrInvalidCatalog, i+1)
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("%w: duplicate template id %q", ErrInvalidCatalog, t.ID)
		}
		if t.Project.Status != "" && !project.Status(t.Project.Status).Valid() {
			return nil, fmt.Errorf("%w: template %q has unknown status %q", ErrInvalidCatalog, t.ID, t.Project.Status)
		}
		seen[t.ID] = true
	}
	return &Catalog{templates: doc.Templates}, nil
}

// List returns the templates in catalog order.
func (c *Catalog) List() []Template {
	return append([]Template(nil), c.templates...)
}

// Get returns the template with the given id.
func (c *Catalog) Get(id string) (Template, error) {
	for _, t := range c.templates {
		if t.ID == id {
			return t, nil
		}
	}
	return Template{}, ErrTemplateNotFound
}
