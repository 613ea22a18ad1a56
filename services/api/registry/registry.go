// Package registry loads the static transmission-line table and the named
// river-group presets. The file is read once at startup; the resulting
// lookup structure is immutable and its contents are treated as
// pre-validated.
package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Line describes one HVDC transmission line and where its power export lives.
type Line struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	File       string `yaml:"file"`
	Column     string `yaml:"column"`
	DateColumn string `yaml:"date_column"`
	TimeColumn string `yaml:"time_column"`
	Color      string `yaml:"color"`
}

// Preset is a named river group offered as a quick selection.
type Preset struct {
	Name   string   `yaml:"name"`
	Rivers []string `yaml:"rivers"`
}

// Registry is the immutable lookup over lines and presets.
type Registry struct {
	lines   []Line
	byID    map[string]Line
	presets []Preset
}

type registryFile struct {
	Lines   []Line   `yaml:"lines"`
	Presets []Preset `yaml:"presets"`
}

// Default column headers in the power exports.
const (
	defaultDateColumn = "日期"
	defaultTimeColumn = "时点"
)

// Load parses the registry file at path.
func Load(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("registry %s: %w", path, err)
	}

	var file registryFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("registry %s: %w", path, err)
	}
	if len(file.Lines) == 0 {
		return nil, fmt.Errorf("registry %s: no transmission lines defined", path)
	}

	reg := &Registry{
		lines:   file.Lines,
		byID:    make(map[string]Line, len(file.Lines)),
		presets: file.Presets,
	}
	for i, line := range reg.lines {
		if line.ID == "" {
			return nil, fmt.Errorf("registry %s: line %d has no id", path, i)
		}
		if line.DateColumn == "" {
			line.DateColumn = defaultDateColumn
		}
		if line.TimeColumn == "" {
			line.TimeColumn = defaultTimeColumn
		}
		reg.lines[i] = line
		reg.byID[line.ID] = line
	}
	return reg, nil
}

// Lines returns all lines in file order.
func (r *Registry) Lines() []Line {
	return r.lines
}

// Line looks up a line by id.
func (r *Registry) Line(id string) (Line, bool) {
	line, ok := r.byID[id]
	return line, ok
}

// Default returns the first line in the file, mirroring the UI default.
func (r *Registry) Default() Line {
	return r.lines[0]
}

// Presets returns the named river groups.
func (r *Registry) Presets() []Preset {
	return r.presets
}
