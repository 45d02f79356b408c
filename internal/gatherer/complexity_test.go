package gatherer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/jmetrics/internal/metrics"
	"github.com/ludo-technologies/jmetrics/internal/parser"
	"github.com/ludo-technologies/jmetrics/internal/testutil"
)

const routerSource = `package demo;

class Router {
    Router() {}

    int route(int code, boolean cached) {
        if (code < 0 || code > 599) {
            return -1;
        } else if (cached && code == 304) {
            return 0;
        }
        for (int i = 0; i < 3; i++) {
            while (code > 100) { code -= 100; }
        }
        do { code--; } while (code > 10);
        switch (code) {
            case 1: return 1;
            case 2: return 2;
            default: return code > 5 ? 5 : code;
        }
    }

    void safe() {
        try {
            route(1, false);
        } catch (IllegalStateException e) {
            return;
        } catch (RuntimeException e) {
            throw e;
        }
    }

    Runnable task() {
        Runnable r = () -> { if (true) {} };
        Object o = new Object() {
            public String toString() { return true && false ? "a" : "b"; }
        };
        return r;
    }

    static {
        if (System.getenv("X") != null) {}
    }
}
`

func TestCyclomaticComplexity(t *testing.T) {
	facts, err := NewJavaGatherer().Gather(context.Background(), "Router.java", []byte(routerSource))
	require.NoError(t, err)
	router := findClass(t, facts, "demo.Router")

	tests := []struct {
		method string
		want   float64
	}{
		{method: "demo.Router.Router(): void", want: 1},
		// 2 ifs, 2 logical operators, 3 loops, 2 cases, 1 ternary
		{method: "demo.Router.route(int, boolean): int", want: 11},
		{method: "demo.Router.safe(): void", want: 3},
		{method: "demo.Router.task(): Runnable", want: 1},
		{method: "demo.Router.static {}", want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			m := findMethod(t, router, tt.method)
			assert.Equal(t, tt.want, m.Measurements[metrics.CyclomaticComplexity])
		})
	}
}

func TestComplexityResult(t *testing.T) {
	assert.Equal(t, 1, complexityResult{}.Complexity())
	assert.Equal(t, 7, complexityResult{
		IfStatements:      1,
		LoopStatements:    1,
		ExceptionHandlers: 1,
		SwitchCases:       1,
		LogicalOperators:  1,
		TernaryOperators:  1,
	}.Complexity())
}

func TestCyclomaticComplexity_Declarations(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   int
	}{
		{name: "abstract", source: "abstract class A { abstract void m(); }", want: 1},
		{name: "enhanced for", source: "class A { void m(int[] xs) { for (int x : xs) {} } }", want: 2},
		{name: "arrow switch", source: "class A { int m(int x) { return switch (x) { case 1 -> 1; case 2 -> 2; default -> 0; }; } }", want: 3},
		{name: "bitwise operators are not decisions", source: "class A { int m(int x) { return x & 1 | 2; } }", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := testutil.CreateTestTree(t, tt.source)
			require.Equal(t, 1, testutil.CountNodesOfType(tree, parser.NodeMethodDeclaration))
			method := testutil.FindNode(tree, parser.NodeMethodDeclaration)
			assert.Equal(t, tt.want, cyclomaticComplexity(tree, method))
		})
	}
}
