package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDiffFilenames(t *testing.T) {
	tests := []struct {
		name string
		diff string
		want []string
	}{
		{
			name: "modified file",
			diff: "--- a/src/x.py\n+++ b/src/x.py\n@@ -1 +1 @@\n-old\n+new\n",
			want: []string{"src/x.py"},
		},
		{
			name: "modification plus new file",
			diff: "--- a/src/x.py\n+++ b/src/x.py\n@@ -1 +1 @@\n-old\n+new\n" +
				"--- /dev/null\n+++ b/new.py\n@@ -0,0 +1 @@\n+print('hi')\n",
			want: []string{"new.py", "src/x.py"},
		},
		{
			name: "deleted file keeps only the old path",
			diff: "--- a/gone.py\n+++ /dev/null\n@@ -1 +0,0 @@\n-x\n",
			want: []string{"gone.py"},
		},
		{
			name: "trailing tab metadata is stripped",
			diff: "--- a/src/x.py\t2024-01-01 00:00:00\n+++ b/src/x.py\t2024-01-02 00:00:00\n",
			want: []string{"src/x.py"},
		},
		{
			name: "filenames with spaces",
			diff: "--- a/docs/read me.md\n+++ b/docs/read me.md\n",
			want: []string{"docs/read me.md"},
		},
		{
			name: "results are sorted and unique",
			diff: "--- a/b.py\n+++ b/b.py\n--- a/a.py\n+++ b/a.py\n",
			want: []string{"a.py", "b.py"},
		},
		{
			name: "no headers",
			diff: "just some text\nwith no diff markers\n",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDiffFilenames(tt.diff))
		})
	}
}
