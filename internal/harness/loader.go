package harness

import (
	"os"
	"path/filepath"
	"testing"

	yaml "gopkg.in/yaml.v3"

	"github.com/stretchr/testify/require"

	"github.com/715d/bdatconv/pkg/textfmt"
)

// LoadTestCase loads the case in dir; root is the testdata root the case's Dir
// is made relative to.
func LoadTestCase(t *testing.T, dir, root string) *TestCase {
	t.Helper()
	yamlPath := filepath.Join(dir, "expected.yaml")

	tc := &TestCase{}
	data, err := os.ReadFile(yamlPath)
	require.NoError(t, err)
	err = yaml.Unmarshal(data, tc)
	require.NoError(t, err)

	relPath, err := filepath.Rel(root, dir)
	if err != nil {
		tc.Dir = filepath.Base(dir)
	} else {
		tc.Dir = relPath
	}
	return tc
}

// LoadTables reads every table document of a case.
func LoadTables(t *testing.T, caseDir string) []*textfmt.Document {
	t.Helper()
	docs, err := textfmt.LoadDocuments(t.Context(), textfmt.LoaderOptions{
		Paths: []string{filepath.Join(caseDir, "tables")},
	})
	require.NoError(t, err)
	return docs
}
