package domain

import "sort"

// Facts holds the raw contributions for one project: numeric measurements and
// name lists per project, group, class and method. Fact producers emit it and
// the gatherer pushes it into the metrics tree.
type Facts struct {
	Project             string              `json:"project,omitempty" yaml:"project,omitempty"`
	ProjectMeasurements map[string]float64  `json:"project_measurements,omitempty" yaml:"project_measurements,omitempty"`
	ProjectNames        map[string][]string `json:"project_names,omitempty" yaml:"project_names,omitempty"`
	Groups              []GroupFacts        `json:"groups,omitempty" yaml:"groups,omitempty"`
	Classes             []ClassFacts        `json:"classes,omitempty" yaml:"classes,omitempty"`

	// Source is the file the facts were read or parsed from
	Source string `json:"-" yaml:"-"`
}

// GroupFacts holds the contributions to one group (package)
type GroupFacts struct {
	Name         string              `json:"name" yaml:"name"`
	Measurements map[string]float64  `json:"measurements,omitempty" yaml:"measurements,omitempty"`
	Names        map[string][]string `json:"names,omitempty" yaml:"names,omitempty"`
}

// ClassFacts holds the contributions to one class and its methods
type ClassFacts struct {
	Name         string              `json:"name" yaml:"name"`
	Measurements map[string]float64  `json:"measurements,omitempty" yaml:"measurements,omitempty"`
	Names        map[string][]string `json:"names,omitempty" yaml:"names,omitempty"`
	Methods      []MethodFacts       `json:"methods,omitempty" yaml:"methods,omitempty"`
}

// MethodFacts holds the contributions to one method. Name is the full
// signature, e.g. "com.acme.Foo.bar(int): void".
type MethodFacts struct {
	Name         string              `json:"name" yaml:"name"`
	Measurements map[string]float64  `json:"measurements,omitempty" yaml:"measurements,omitempty"`
	Names        map[string][]string `json:"names,omitempty" yaml:"names,omitempty"`
}

// Merge appends the contributions of other. Project-level maps are combined:
// numbers add up and name lists concatenate.
func (f *Facts) Merge(other *Facts) {
	if other == nil {
		return
	}
	if f.Project == "" {
		f.Project = other.Project
	}

	for name, value := range other.ProjectMeasurements {
		if f.ProjectMeasurements == nil {
			f.ProjectMeasurements = make(map[string]float64)
		}
		f.ProjectMeasurements[name] += value
	}
	for name, values := range other.ProjectNames {
		if f.ProjectNames == nil {
			f.ProjectNames = make(map[string][]string)
		}
		f.ProjectNames[name] = append(f.ProjectNames[name], values...)
	}

	f.Groups = append(f.Groups, other.Groups...)
	f.Classes = append(f.Classes, other.Classes...)
}

// MethodCount returns the number of methods across all classes
func (f *Facts) MethodCount() int {
	n := 0
	for _, c := range f.Classes {
		n += len(c.Methods)
	}
	return n
}

// SortedKeys returns the keys of a fact map in ascending order
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
