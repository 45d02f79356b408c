package gatherer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/jmetrics/domain"
	"github.com/ludo-technologies/jmetrics/internal/metrics"
)

const cartSource = `package com.acme.shop;

import java.util.List;
import java.util.Map;
import java.io.*;

/** A shopping cart. */
public class Cart {
    private final List<String> items;
    protected int count, limit;
    public static final String NAME = "cart";
    transient volatile Object lock;

    public Cart(List<String> items) {
        this.items = items;
    }

    static {
        int seed = 1;
    }

    public synchronized int add(String item, int quantity) {
        int total = count + quantity;
        for (String s : items) {
            total++;
        }
        try (Reader r = open()) {
            total += 1;
        } catch (IOException e) {
            total--;
        }
        return total;
    }

    @Deprecated
    private static Map<String, Integer> index(String... keys) {
        Runnable r = new Runnable() {
            public void run() { int hidden = 0; }
        };
        return null;
    }

    native void poke(int[] data, byte raw[]);

    public interface Listener {
        void changed(Cart cart);
        default void reset() {}
    }

    static final class Line {
        int quantity;
    }
}

abstract class Discount {
    abstract double rate();
}

enum Color { RED, GREEN; int code() { return 0; } }

record Point(int x, int y) {}
`

func gatherCart(t *testing.T) *domain.Facts {
	t.Helper()
	facts, err := NewJavaGatherer().Gather(context.Background(), "Cart.java", []byte(cartSource))
	require.NoError(t, err)
	return facts
}

func findClass(t *testing.T, facts *domain.Facts, name string) domain.ClassFacts {
	t.Helper()
	for _, c := range facts.Classes {
		if c.Name == name {
			return c
		}
	}
	require.Failf(t, "class not found", "%s", name)
	return domain.ClassFacts{}
}

func findMethod(t *testing.T, class domain.ClassFacts, name string) domain.MethodFacts {
	t.Helper()
	for _, m := range class.Methods {
		if m.Name == name {
			return m
		}
	}
	var names []string
	for _, m := range class.Methods {
		names = append(names, m.Name)
	}
	require.Failf(t, "method not found", "%s not in %v", name, names)
	return domain.MethodFacts{}
}

func TestJavaGatherer_Classes(t *testing.T) {
	facts := gatherCart(t)

	var names []string
	for _, c := range facts.Classes {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{
		"com.acme.shop.Cart",
		"com.acme.shop.Cart$Listener",
		"com.acme.shop.Cart$Line",
		"com.acme.shop.Discount",
		"com.acme.shop.Color",
		"com.acme.shop.Point",
	}, names)
	assert.Equal(t, "Cart.java", facts.Source)
}

func TestJavaGatherer_Attributes(t *testing.T) {
	facts := gatherCart(t)
	cart := findClass(t, facts, "com.acme.shop.Cart")

	expected := map[string]float64{
		metrics.Attributes:          5,
		metrics.PrivateAttributes:   1,
		metrics.ProtectedAttributes: 2,
		metrics.PublicAttributes:    1,
		metrics.PackageAttributes:   1,
		metrics.StaticAttributes:    1,
		metrics.FinalAttributes:     2,
		metrics.TransientAttributes: 1,
		metrics.VolatileAttributes:  1,
	}
	for name, want := range expected {
		assert.Equal(t, want, cart.Measurements[name], name)
	}

	point := findClass(t, facts, "com.acme.shop.Point")
	assert.Equal(t, 2.0, point.Measurements[metrics.Attributes])
	assert.Equal(t, 2.0, point.Measurements[metrics.PrivateAttributes])

	color := findClass(t, facts, "com.acme.shop.Color")
	assert.Equal(t, 2.0, color.Measurements[metrics.Attributes])
	assert.Equal(t, 2.0, color.Measurements[metrics.StaticAttributes])
}

func TestJavaGatherer_MethodCounters(t *testing.T) {
	facts := gatherCart(t)
	cart := findClass(t, facts, "com.acme.shop.Cart")

	expected := map[string]float64{
		metrics.PublicMethods:         2,
		metrics.PrivateMethods:        1,
		metrics.PackageMethods:        1,
		metrics.StaticMethods:         1,
		metrics.SynchronizedMethods:   1,
		metrics.NativeMethods:         1,
		metrics.DeprecatedMethods:     1,
		metrics.InnerClasses:          2,
		metrics.PublicInnerClasses:    1,
		metrics.PackageInnerClasses:   1,
		metrics.StaticInnerClasses:    1,
		metrics.FinalInnerClasses:     1,
		metrics.AbstractMethods:       0,
		metrics.ProtectedMethods:      0,
		metrics.ProtectedInnerClasses: 0,
	}
	for name, want := range expected {
		assert.Equal(t, want, cart.Measurements[name], name)
	}
	assert.Len(t, cart.Methods, 5)

	listener := findClass(t, facts, "com.acme.shop.Cart$Listener")
	assert.Equal(t, 2.0, listener.Measurements[metrics.PublicMethods])
	assert.Equal(t, 1.0, listener.Measurements[metrics.AbstractMethods])

	discount := findClass(t, facts, "com.acme.shop.Discount")
	assert.Equal(t, 1.0, discount.Measurements[metrics.AbstractMethods])
	assert.Equal(t, 1.0, discount.Measurements[metrics.PackageMethods])
}

func TestJavaGatherer_Methods(t *testing.T) {
	facts := gatherCart(t)
	cart := findClass(t, facts, "com.acme.shop.Cart")

	tests := []struct {
		name       string
		parameters float64
		locals     float64
		sloc       float64
	}{
		{name: "com.acme.shop.Cart.Cart(List): void", parameters: 1, locals: 0, sloc: 3},
		{name: "com.acme.shop.Cart.static {}", parameters: 0, locals: 1, sloc: 3},
		{name: "com.acme.shop.Cart.add(String, int): int", parameters: 2, locals: 4, sloc: 12},
		{name: "com.acme.shop.Cart.index(String...): Map", parameters: 1, locals: 1, sloc: 7},
		{name: "com.acme.shop.Cart.poke(int[], byte[]): void", parameters: 2, locals: 0, sloc: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := findMethod(t, cart, tt.name)
			assert.Equal(t, tt.parameters, m.Measurements[metrics.Parameters])
			assert.Equal(t, tt.locals, m.Measurements[metrics.LocalVariables])
			assert.Equal(t, tt.sloc, m.Measurements[metrics.Sloc])
		})
	}

	discount := findClass(t, facts, "com.acme.shop.Discount")
	findMethod(t, discount, "com.acme.shop.Discount.rate(): double")
}

func TestJavaGatherer_NameLists(t *testing.T) {
	facts := gatherCart(t)

	require.Len(t, facts.Groups, 1)
	group := facts.Groups[0]
	assert.Equal(t, "com.acme.shop", group.Name)

	assert.Equal(t, []string{"com.acme.shop.Cart", "com.acme.shop.Cart$Listener"}, group.Names[metrics.PublicClasses])
	assert.Equal(t, []string{
		"com.acme.shop.Cart$Line",
		"com.acme.shop.Discount",
		"com.acme.shop.Color",
		"com.acme.shop.Point",
	}, group.Names[metrics.PackageClasses])
	assert.Equal(t, []string{"com.acme.shop.Cart$Listener"}, group.Names[metrics.Interfaces])
	assert.Equal(t, []string{"com.acme.shop.Discount"}, group.Names[metrics.AbstractClasses])
	assert.Equal(t, []string{"com.acme.shop.Cart$Line"}, group.Names[metrics.FinalClasses])
	assert.Equal(t, group.Names[metrics.PublicClasses], facts.ProjectNames[metrics.PublicClasses])

	cart := findClass(t, facts, "com.acme.shop.Cart")
	assert.Equal(t, []string{"java.util.List", "java.util.Map", "java.io.*"}, cart.Names[metrics.Imports])
}

func TestJavaGatherer_DefaultPackage(t *testing.T) {
	facts, err := NewJavaGatherer().Gather(context.Background(), "Main.java", []byte(`public class Main {
    public static void main(String[] args) {
        System.out.println("hi");
    }
}`))
	require.NoError(t, err)

	require.Len(t, facts.Classes, 1)
	main := facts.Classes[0]
	assert.Equal(t, "Main", main.Name)
	assert.Equal(t, 5.0, main.Measurements[metrics.ClassSloc])
	findMethod(t, main, "Main.main(String[]): void")
	assert.Nil(t, main.Names[metrics.Imports])

	require.Len(t, facts.Groups, 1)
	assert.Equal(t, "", facts.Groups[0].Name)
}

func TestJavaGatherer_SyntaxErrorsStillMeasured(t *testing.T) {
	facts, err := NewJavaGatherer().Gather(context.Background(), "Broken.java", []byte(`package p;
class Ok {
    void fine() {}
}
`+"class Broken { void m( }\n"))
	require.NoError(t, err)
	findClass(t, facts, "p.Ok")
}

func TestEraseType(t *testing.T) {
	tests := map[string]string{
		"Map<String, List<Integer>>": "Map",
		"java.util.List<T>":          "java.util.List",
		"@NonNull String":            "String",
		"int[]":                      "int[]",
		"":                           "",
	}
	for input, want := range tests {
		assert.Equal(t, want, eraseType(input), input)
	}
}
