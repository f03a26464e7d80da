package project

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestProject lays out a small python-style project tree.
func newTestProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"README.md":                  "# Test Project\n",
		"requirements.txt":           "flask==2.0\npytest>=7\n",
		"src/main.py":                "print('hello world')\n",
		"src/util/helpers.py":        "def helper(): pass\n",
		"tests/test_main.py":         "assert True\n",
		"vendor/requirements-ci.txt": "tox\n",
	}
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestNewReaderRequiresDirectory(t *testing.T) {
	_, err := NewReader(filepath.Join(t.TempDir(), "missing"), newTestLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist or is not a directory")

	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, err = NewReader(file, newTestLogger())
	require.Error(t, err)
}

func TestReadFile(t *testing.T) {
	reader, err := NewReader(newTestProject(t), newTestLogger())
	require.NoError(t, err)

	content, ok := reader.ReadFile("src/main.py")
	require.True(t, ok)
	assert.Equal(t, "print('hello world')\n", content)

	_, ok = reader.ReadFile("non_existent.txt")
	assert.False(t, ok)

	// Directories are not readable as files.
	_, ok = reader.ReadFile("src")
	assert.False(t, ok)
}

func TestReadFileRejectsEscapingPaths(t *testing.T) {
	parent := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(parent, "secret.txt"), []byte("secret"), 0o644))
	projectDir := filepath.Join(parent, "project")
	require.NoError(t, os.MkdirAll(projectDir, 0o755))

	reader, err := NewReader(projectDir, newTestLogger())
	require.NoError(t, err)

	_, ok := reader.ReadFile("../secret.txt")
	assert.False(t, ok)
	_, ok = reader.ReadFile("a/../../secret.txt")
	assert.False(t, ok)
}

func TestDirExists(t *testing.T) {
	reader, err := NewReader(newTestProject(t), newTestLogger())
	require.NoError(t, err)

	assert.True(t, reader.DirExists("tests/"))
	assert.True(t, reader.DirExists("src/util"))
	assert.False(t, reader.DirExists("data"))
	assert.False(t, reader.DirExists("src/main.py"))
	assert.False(t, reader.DirExists("../"))
}

func TestGlob(t *testing.T) {
	reader, err := NewReader(newTestProject(t), newTestLogger())
	require.NoError(t, err)

	tests := []struct {
		pattern string
		want    []string
	}{
		{"**/requirements*.txt", []string{"requirements.txt", "vendor/requirements-ci.txt"}},
		{"**/pyproject.toml", nil},
		{"*.py", []string{"src/main.py", "src/util/helpers.py", "tests/test_main.py"}},
		{"src/*.py", []string{"src/main.py"}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.want, reader.Glob(tt.pattern))
		})
	}
}

func TestHasTestLayout(t *testing.T) {
	reader, err := NewReader(newTestProject(t), newTestLogger())
	require.NoError(t, err)

	assert.True(t, reader.HasTestLayout([]string{"tests/", "test/"}))
	assert.False(t, reader.HasTestLayout([]string{"spec/"}))
	assert.False(t, reader.HasTestLayout(nil))
}

func TestManifestMentionsTestFramework(t *testing.T) {
	reader, err := NewReader(newTestProject(t), newTestLogger())
	require.NoError(t, err)

	globs := []string{"**/requirements*.txt", "**/pyproject.toml"}

	// requirements.txt in the fixture lists pytest.
	assert.True(t, reader.ManifestMentionsTestFramework(globs, []string{"pytest", "unittest"}))
	// Marker matching is case-insensitive on manifest content.
	assert.True(t, reader.ManifestMentionsTestFramework(globs, []string{"PYTEST"}))
	assert.False(t, reader.ManifestMentionsTestFramework(globs, []string{"rspec"}))
	assert.False(t, reader.ManifestMentionsTestFramework([]string{"**/pyproject.toml"}, []string{"pytest"}))
}

func TestGitMetadata(t *testing.T) {
	t.Run("not a repository", func(t *testing.T) {
		reader, err := NewReader(t.TempDir(), newTestLogger())
		require.NoError(t, err)
		assert.Equal(t, Metadata{}, reader.GitMetadata())
	})

	t.Run("repository with a commit", func(t *testing.T) {
		dir := t.TempDir()
		repo, err := git.PlainInit(dir, false)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(filepath.Join(dir, "main.py"), []byte("print('hi')\n"), 0o644))
		wt, err := repo.Worktree()
		require.NoError(t, err)
		_, err = wt.Add("main.py")
		require.NoError(t, err)
		hash, err := wt.Commit("initial commit", &git.CommitOptions{
			Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
		})
		require.NoError(t, err)

		reader, err := NewReader(dir, newTestLogger())
		require.NoError(t, err)

		meta := reader.GitMetadata()
		assert.Equal(t, "master", meta.Branch)
		assert.Equal(t, hash.String(), meta.Commit)
	})
}
