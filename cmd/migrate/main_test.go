package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDatabasePath(t *testing.T) {
	t.Run("valid path", func(t *testing.T) {
		path, err := parseDatabasePath("projects/p1/instances/i1/databases/d1")
		require.NoError(t, err)
		assert.Equal(t, "projects/p1/instances/i1", path.instanceName())
		assert.Equal(t, "projects/p1/instances/i1/databases/d1", path.String())
	})

	for _, raw := range []string{
		"",
		"pricing-db",
		"projects/p1/instances/i1",
		"projects//instances/i1/databases/d1",
		"project/p1/instances/i1/databases/d1",
	} {
		t.Run("rejects "+raw, func(t *testing.T) {
			_, err := parseDatabasePath(raw)
			assert.Error(t, err)
		})
	}
}

func TestSplitDDLStatements(t *testing.T) {
	content := `-- header comment
CREATE TABLE a (
  id STRING(36) NOT NULL,
) PRIMARY KEY (id);

-- second
CREATE INDEX idx_a ON a(id);
`
	stmts := splitDDLStatements(content)
	require.Len(t, stmts, 2)
	assert.Contains(t, stmts[0], "CREATE TABLE a")
	assert.Equal(t, "CREATE INDEX idx_a ON a(id)", stmts[1])
	assert.Empty(t, splitDDLStatements("-- only comments\n\n"))
}
