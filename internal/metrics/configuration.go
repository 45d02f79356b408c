package metrics

import (
	"fmt"
	"regexp"
	"strings"
)

// Level is a tier of the metrics tree
type Level int

const (
	LevelProject Level = iota
	LevelGroup
	LevelClass
	LevelMethod
)

// AllLevels lists the tiers from the root down
var AllLevels = []Level{LevelProject, LevelGroup, LevelClass, LevelMethod}

func (l Level) String() string {
	switch l {
	case LevelProject:
		return "project"
	case LevelGroup:
		return "group"
	case LevelClass:
		return "class"
	case LevelMethod:
		return "method"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ParseLevel converts a level name, case-insensitively
func ParseLevel(text string) (Level, error) {
	for _, l := range AllLevels {
		if strings.EqualFold(strings.TrimSpace(text), l.String()) {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown level %q", text)
}

type groupDefinition struct {
	name     string
	patterns []*regexp.Regexp
}

// Configuration holds the ordered measurement declarations of every level
// and the named group definitions used to classify classes.
type Configuration struct {
	descriptors map[Level][]*MeasurementDescriptor
	groups      []*groupDefinition
	groupIndex  map[string]*groupDefinition
}

func NewConfiguration() *Configuration {
	return &Configuration{
		descriptors: make(map[Level][]*MeasurementDescriptor),
		groupIndex:  make(map[string]*groupDefinition),
	}
}

// AddMeasurement appends a declaration to a level
func (c *Configuration) AddMeasurement(level Level, descriptor *MeasurementDescriptor) {
	c.descriptors[level] = append(c.descriptors[level], descriptor)
}

// Measurements returns the declarations of a level in declaration order
func (c *Configuration) Measurements(level Level) []*MeasurementDescriptor {
	out := make([]*MeasurementDescriptor, len(c.descriptors[level]))
	copy(out, c.descriptors[level])
	return out
}

// ProjectMeasurements, GroupMeasurements, ClassMeasurements and
// MethodMeasurements are shorthands for Measurements.
func (c *Configuration) ProjectMeasurements() []*MeasurementDescriptor {
	return c.Measurements(LevelProject)
}

func (c *Configuration) GroupMeasurements() []*MeasurementDescriptor {
	return c.Measurements(LevelGroup)
}

func (c *Configuration) ClassMeasurements() []*MeasurementDescriptor {
	return c.Measurements(LevelClass)
}

func (c *Configuration) MethodMeasurements() []*MeasurementDescriptor {
	return c.Measurements(LevelMethod)
}

// AddGroupDefinition adds a pattern to a named group. A group may have many
// patterns; a class belongs to it when any of them matches.
func (c *Configuration) AddGroupDefinition(name, pattern string) error {
	re, err := CompilePattern(pattern)
	if err != nil {
		return fmt.Errorf("group %s: %w", name, err)
	}

	def, ok := c.groupIndex[name]
	if !ok {
		def = &groupDefinition{name: name}
		c.groupIndex[name] = def
		c.groups = append(c.groups, def)
	}
	def.patterns = append(def.patterns, re)
	return nil
}

// GroupDefinitions returns the source of every pattern by group name
func (c *Configuration) GroupDefinitions() map[string][]string {
	out := make(map[string][]string, len(c.groups))
	for _, def := range c.groups {
		for _, re := range def.patterns {
			out[def.name] = append(out[def.name], re.String())
		}
	}
	return out
}

// Groups returns, in definition order, the groups whose patterns match a class name
func (c *Configuration) Groups(className string) []string {
	var names []string
	for _, def := range c.groups {
		for _, re := range def.patterns {
			if re.MatchString(className) {
				names = append(names, def.name)
				break
			}
		}
	}
	return names
}

// Validate checks every declaration of every level
func (c *Configuration) Validate() error {
	for _, level := range AllLevels {
		seen := make(map[string]struct{})
		for _, d := range c.descriptors[level] {
			if _, dup := seen[d.ShortName]; dup {
				return fmt.Errorf("%s measurement %q declared twice", level, d.ShortName)
			}
			seen[d.ShortName] = struct{}{}
			if err := d.Validate(); err != nil {
				return fmt.Errorf("%s measurement: %w", level, err)
			}
		}
	}
	return nil
}
