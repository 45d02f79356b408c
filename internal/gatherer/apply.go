package gatherer

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ludo-technologies/jmetrics/domain"
	"github.com/ludo-technologies/jmetrics/internal/metrics"
)

// SourceGatherer produces facts from the content of one source file
type SourceGatherer interface {
	Gather(ctx context.Context, path string, source []byte) (*domain.Facts, error)
}

// Apply pushes a fact document into the factory's tree. Every class and
// method it names is created and included; each contribution is then added
// to the measurement of the same name, numbers first, then name lists, in
// sorted key order. Contributions to undeclared measurements are ignored.
func Apply(factory *metrics.Factory, facts *domain.Facts) error {
	if facts == nil {
		return nil
	}

	project := factory.CreateProjectMetrics()
	factory.IncludeProjectMetrics(project)
	contribute(project, facts.ProjectMeasurements, facts.ProjectNames)

	for _, g := range facts.Groups {
		group := factory.CreateGroupMetrics(g.Name)
		if err := factory.IncludeGroupMetrics(group); err != nil {
			return fmt.Errorf("group %s: %w", g.Name, err)
		}
		contribute(group, g.Measurements, g.Names)
	}

	for _, c := range facts.Classes {
		class := factory.CreateClassMetrics(c.Name)
		if err := factory.IncludeClassMetrics(class); err != nil {
			return fmt.Errorf("class %s: %w", c.Name, err)
		}
		contribute(class, c.Measurements, c.Names)

		for _, m := range c.Methods {
			name := qualifyMethod(c.Name, m.Name)
			method := factory.CreateMethodMetrics(name)
			if err := factory.IncludeMethodMetrics(method); err != nil {
				return fmt.Errorf("method %s: %w", name, err)
			}
			contribute(method, m.Measurements, m.Names)
		}
	}

	metrics.Logger().WithFields(logrus.Fields{
		"source":  facts.Source,
		"groups":  len(facts.Groups),
		"classes": len(facts.Classes),
		"methods": facts.MethodCount(),
	}).Debug("applied facts")
	return nil
}

// qualifyMethod prefixes a bare method signature such as "bar(int): void" with its class
func qualifyMethod(className, methodName string) string {
	if owner, _ := metrics.SplitMethodName(methodName); owner == className {
		return methodName
	}
	if strings.HasPrefix(methodName, className+".") {
		return methodName
	}
	return className + "." + methodName
}

func contribute(node *metrics.Metrics, numbers map[string]float64, names map[string][]string) {
	for _, key := range domain.SortedKeys(numbers) {
		node.AddToMeasurement(key, numbers[key])
	}
	for _, key := range domain.SortedKeys(names) {
		for _, value := range names[key] {
			node.AddToMeasurement(key, value)
		}
	}
}
