package metrics

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

// registry memoizes the nodes of one level by name, and tracks which of them
// are in scope.
type registry struct {
	all      map[string]*Metrics
	order    []string
	included map[string]struct{}
}

func newRegistry() *registry {
	return &registry{all: make(map[string]*Metrics), included: make(map[string]struct{})}
}

func (r *registry) get(name string, build func() *Metrics) *Metrics {
	if m, ok := r.all[name]; ok {
		return m
	}
	m := build()
	r.all[name] = m
	r.order = append(r.order, name)
	return m
}

func (r *registry) include(m *Metrics) {
	r.included[m.Name()] = struct{}{}
}

func (r *registry) names(includedOnly bool) []string {
	var names []string
	for _, name := range r.order {
		if _, ok := r.included[name]; ok || !includedOnly {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (r *registry) metrics(includedOnly bool) []*Metrics {
	names := r.names(includedOnly)
	out := make([]*Metrics, 0, len(names))
	for _, name := range names {
		out = append(out, r.all[name])
	}
	return out
}

// Factory builds the project / group / class / method tree. Create calls are
// idempotent per name and level; Include calls put a node in scope and attach
// it to its ancestors.
type Factory struct {
	projectName   string
	configuration *Configuration
	levels        map[Level]*registry
}

// NewFactory validates every declaration of the configuration up front
func NewFactory(projectName string, configuration *Configuration) (*Factory, error) {
	if configuration == nil {
		configuration = NewConfiguration()
	}
	if err := configuration.Validate(); err != nil {
		return nil, fmt.Errorf("invalid metrics configuration: %w", err)
	}

	f := &Factory{projectName: projectName, configuration: configuration}
	f.Clear()
	return f, nil
}

func (f *Factory) ProjectName() string {
	return f.projectName
}

func (f *Factory) Configuration() *Configuration {
	return f.configuration
}

// Clear forgets every node
func (f *Factory) Clear() {
	f.levels = make(map[Level]*registry, len(AllLevels))
	for _, level := range AllLevels {
		f.levels[level] = newRegistry()
	}
}

// CreateProjectMetrics returns the node of the factory's project
func (f *Factory) CreateProjectMetrics() *Metrics {
	return f.CreateProjectMetricsNamed(f.projectName)
}

func (f *Factory) CreateProjectMetricsNamed(name string) *Metrics {
	return f.levels[LevelProject].get(name, func() *Metrics {
		m := NewMetrics(name)
		f.populate(m, LevelProject)
		return m
	})
}

func (f *Factory) IncludeProjectMetrics(m *Metrics) {
	f.levels[LevelProject].include(m)
}

// CreateGroupMetrics returns the named group, owned by the project
func (f *Factory) CreateGroupMetrics(name string) *Metrics {
	return f.levels[LevelGroup].get(name, func() *Metrics {
		m := NewChildMetrics(f.CreateProjectMetrics(), name)
		f.populate(m, LevelGroup)
		m.AddToMeasurement(GroupNameCharacterCount, utf8.RuneCountInString(name))
		m.AddToMeasurement(GroupNameWordCount, CountPackageNameWords(name))
		return m
	})
}

func (f *Factory) IncludeGroupMetrics(m *Metrics) error {
	f.levels[LevelGroup].include(m)
	return f.attachToParent(m, func(project *Metrics) error {
		f.IncludeProjectMetrics(project)
		return nil
	})
}

// CreateClassMetrics returns the named class, owned by its package group.
// The package is everything before the last '.', "" for the default package.
func (f *Factory) CreateClassMetrics(name string) *Metrics {
	return f.levels[LevelClass].get(name, func() *Metrics {
		packageName, simpleName := splitClassName(name)
		m := NewChildMetrics(f.CreateGroupMetrics(packageName), name)
		f.populate(m, LevelClass)
		m.AddToMeasurement(ClassNameCharacterCount, utf8.RuneCountInString(simpleName))
		m.AddToMeasurement(ClassNameWordCount, CountIdentifierWords(simpleName))
		return m
	})
}

// IncludeClassMetrics attaches the class to its package group and to every
// group whose definition matches the class name, and includes those groups.
func (f *Factory) IncludeClassMetrics(m *Metrics) error {
	f.levels[LevelClass].include(m)
	if err := f.attachToParent(m, f.IncludeGroupMetrics); err != nil {
		return err
	}

	for _, groupName := range f.configuration.Groups(m.Name()) {
		group := f.CreateGroupMetrics(groupName)
		if err := group.AddSubMetrics(m); err != nil {
			return err
		}
		if err := f.IncludeGroupMetrics(group); err != nil {
			return err
		}
	}
	return nil
}

// CreateMethodMetrics returns the named method, owned by its class
func (f *Factory) CreateMethodMetrics(name string) *Metrics {
	return f.levels[LevelMethod].get(name, func() *Metrics {
		className, featureName := SplitMethodName(name)
		m := NewChildMetrics(f.CreateClassMetrics(className), name)
		f.populate(m, LevelMethod)
		m.AddToMeasurement(MethodNameCharacterCount, utf8.RuneCountInString(featureName))
		m.AddToMeasurement(MethodNameWordCount, CountIdentifierWords(featureName))
		return m
	})
}

func (f *Factory) IncludeMethodMetrics(m *Metrics) error {
	f.levels[LevelMethod].include(m)
	return f.attachToParent(m, f.IncludeClassMetrics)
}

func (f *Factory) attachToParent(m *Metrics, includeParent func(*Metrics) error) error {
	parent := m.Parent()
	if parent == nil {
		return nil
	}
	if err := parent.AddSubMetrics(m); err != nil {
		return err
	}
	return includeParent(parent)
}

// populate instantiates the declared measurements of a level on a node.
// Declarations were validated by NewFactory, so failures are only logged.
func (f *Factory) populate(m *Metrics, level Level) {
	for _, descriptor := range f.configuration.Measurements(level) {
		measurement, err := descriptor.Create(m)
		if err != nil {
			logger.WithFields(logrus.Fields{"node": m.Name(), "level": level}).WithError(err).
				Error("cannot create measurement")
			continue
		}
		m.Track(measurement)
	}
}

// Names returns the names of the included nodes of a level, sorted
func (f *Factory) Names(level Level) []string {
	return f.levels[level].names(true)
}

// AllNames returns the names of every node created at a level, sorted
func (f *Factory) AllNames(level Level) []string {
	return f.levels[level].names(false)
}

// MetricsAt returns the included nodes of a level, sorted by name
func (f *Factory) MetricsAt(level Level) []*Metrics {
	return f.levels[level].metrics(true)
}

// AllMetricsAt returns every node created at a level, sorted by name
func (f *Factory) AllMetricsAt(level Level) []*Metrics {
	return f.levels[level].metrics(false)
}

// GroupMetricsFor returns the groups a class belongs to through group
// definitions. Its package group is not included.
func (f *Factory) GroupMetricsFor(className string) []*Metrics {
	var groups []*Metrics
	for _, name := range f.configuration.Groups(className) {
		groups = append(groups, f.CreateGroupMetrics(name))
	}
	return groups
}

func (f *Factory) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Factory for project %q\n", f.projectName)
	for _, level := range AllLevels {
		fmt.Fprintf(&sb, "%ss:\n", level)
		for _, name := range f.AllNames(level) {
			fmt.Fprintf(&sb, "    %s\n", name)
		}
	}
	return sb.String()
}

func splitClassName(name string) (packageName, simpleName string) {
	pos := strings.LastIndex(name, ".")
	if pos < 0 {
		return "", name
	}
	return name[:pos], name[pos+1:]
}

// SplitMethodName derives the owning class and the feature name from a
// method signature such as "pkg.Cls.m(int): void" or "pkg.Cls.static {}".
func SplitMethodName(name string) (className, featureName string) {
	if open := strings.Index(name, "("); open >= 0 {
		className, featureName = splitClassName(name[:open])
		return className, featureName
	}

	if strings.HasSuffix(name, ".static {}") {
		return strings.TrimSuffix(name, ".static {}"), "static"
	}

	if colon := strings.Index(name, ":"); colon >= 0 {
		name = strings.TrimSpace(name[:colon])
	}
	return splitClassName(name)
}
