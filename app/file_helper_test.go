package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTree creates files under root; content is irrelevant to collection
func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}
}

func relative(t *testing.T, root string, files []string) []string {
	t.Helper()
	out := make([]string, len(files))
	for i, f := range files {
		rel, err := filepath.Rel(root, f)
		require.NoError(t, err)
		out[i] = filepath.ToSlash(rel)
	}
	return out
}

var defaultIncludes = []string{"**/*.java", "**/*.facts.yaml", "**/*.facts.yml", "**/*.facts.json"}

func TestCollectSourceFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"Main.java",
		"shop.facts.yaml",
		".jmetrics.yaml",
		"notes.txt",
		"src/com/acme/Cart.java",
		"src/com/acme/CartTest.java",
		"src/com/acme/data.facts.json",
		"build/generated/Gen.java",
		"ignored/Skip.java",
	)
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("ignored/\n"), 0o644))

	tests := []struct {
		name      string
		recursive bool
		gitignore bool
		excludes  []string
		want      []string
	}{
		{
			name:      "recursive",
			recursive: true,
			excludes:  []string{"build"},
			want: []string{
				"Main.java", "ignored/Skip.java", "shop.facts.yaml",
				"src/com/acme/Cart.java", "src/com/acme/CartTest.java", "src/com/acme/data.facts.json",
			},
		},
		{
			name:      "gitignore",
			recursive: true,
			gitignore: true,
			excludes:  []string{"build", "**/*Test.java"},
			want:      []string{"Main.java", "shop.facts.yaml", "src/com/acme/Cart.java", "src/com/acme/data.facts.json"},
		},
		{
			name:     "top level only",
			excludes: []string{"build"},
			want:     []string{"Main.java", "shop.facts.yaml"},
		},
		{
			name:      "excluded by path glob",
			recursive: true,
			gitignore: true,
			excludes:  []string{"src/**", "build/**"},
			want:      []string{"Main.java", "shop.facts.yaml"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewFileHelper().WithGitignore(tt.gitignore)
			files, err := h.CollectSourceFiles([]string{root}, tt.recursive, defaultIncludes, tt.excludes)
			require.NoError(t, err)
			assert.Equal(t, tt.want, relative(t, root, files))
		})
	}
}

func TestCollectSourceFilesExplicitFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "Cart.java", "custom.yaml", "notes.txt")

	h := NewFileHelper()
	files, err := h.CollectSourceFiles([]string{
		filepath.Join(root, "Cart.java"),
		filepath.Join(root, "custom.yaml"),
		filepath.Join(root, "notes.txt"),
		filepath.Join(root, "Cart.java"),
	}, true, defaultIncludes, nil)
	require.NoError(t, err)

	// explicit fact files need not follow the *.facts.* naming
	assert.Equal(t, []string{"Cart.java", "custom.yaml"}, relative(t, root, files))
}

func TestCollectSourceFilesMissingPath(t *testing.T) {
	_, err := NewFileHelper().CollectSourceFiles([]string{filepath.Join(t.TempDir(), "missing")}, true, defaultIncludes, nil)
	assert.Error(t, err)
}

func TestFileHelperPredicates(t *testing.T) {
	h := NewFileHelper()
	assert.True(t, h.IsJavaFile("a/B.java"))
	assert.True(t, h.IsJavaFile("a/B.JAVA"))
	assert.False(t, h.IsJavaFile("a/b.facts.yaml"))
	assert.True(t, h.IsSourceFile("a/b.facts.yaml"))
	assert.False(t, h.IsSourceFile("a/b.txt"))

	root := t.TempDir()
	writeTree(t, root, "A.java")
	exists, err := h.FileExists(filepath.Join(root, "A.java"))
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = h.FileExists(root)
	require.NoError(t, err)
	assert.False(t, exists, "directories are not files")

	exists, err = h.FileExists(filepath.Join(root, "B.java"))
	require.NoError(t, err)
	assert.False(t, exists)
}
