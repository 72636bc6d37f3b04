package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

type jsonGroup struct {
	Label   string           `json:"label"`
	Records []map[string]any `json:"records"`
}

func TestViewLocations(t *testing.T) {
	t.Run("grouped table output", func(t *testing.T) {
		out, err := execute(t, "view", "locations", "--group", "state", "--sort", "revenue", "--dir", "desc")
		require.NoError(t, err)
		assert.Contains(t, out, "IL (1)")
		assert.Contains(t, out, "Chicago")
		assert.Contains(t, out, "officeName")
	})

	t.Run("json output keeps group order", func(t *testing.T) {
		out, err := execute(t, "view", "locations", "--group", "state", "--sort", "revenue", "--dir", "desc", "--format", "json")
		require.NoError(t, err)

		var groups []jsonGroup
		require.NoError(t, json.Unmarshal([]byte(out), &groups))
		labels := make([]string, 0, len(groups))
		for _, g := range groups {
			labels = append(labels, g.Label)
		}
		assert.Equal(t, []string{"IL", "NY", "CA"}, labels)
	})

	t.Run("search narrows the view", func(t *testing.T) {
		out, err := execute(t, "view", "locations", "--search", "no such practice")
		require.NoError(t, err)
		assert.Contains(t, out, "no matching records")
	})

	t.Run("unknown group key is an error", func(t *testing.T) {
		_, err := execute(t, "view", "locations", "--group", "revenue")
		assert.ErrorContains(t, err, "unsupported group key")
	})

	t.Run("unknown entity is an error", func(t *testing.T) {
		_, err := execute(t, "view", "patients")
		assert.Error(t, err)
	})
}

func TestViewUsersFromFixture(t *testing.T) {
	fixture := filepath.Join("..", "..", "..", "internal", "fixture", "testdata", "seed.yaml")
	out, err := execute(t, "view", "users", "--fixture", fixture, "--columns", "name,role", "--format", "json")
	require.NoError(t, err)

	var groups []jsonGroup
	require.NoError(t, json.Unmarshal([]byte(out), &groups))
	require.Len(t, groups, 1)
	assert.Equal(t, "All Users", groups[0].Label)
	require.Len(t, groups[0].Records, 1)
	assert.Equal(t, "Ann Lee", groups[0].Records[0]["name"])
}

func TestSeed(t *testing.T) {
	db := filepath.Join(t.TempDir(), "admin.db")

	out, err := execute(t, "seed", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "locations: 3 created, 0 already present")

	out, err = execute(t, "seed", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "users: 0 created, 3 already present")

	out, err = execute(t, "view", "users", "--db", db, "--sort", "name", "--format", "json")
	require.NoError(t, err)
	var groups []jsonGroup
	require.NoError(t, json.Unmarshal([]byte(out), &groups))
	require.Len(t, groups[0].Records, 3)
	assert.Equal(t, "Bob Johnson", groups[0].Records[0]["name"])

	t.Run("reset replaces the records", func(t *testing.T) {
		fixture := filepath.Join("..", "..", "..", "internal", "fixture", "testdata", "seed.yaml")
		out, err := execute(t, "seed", "--db", db, "--fixture", fixture, "--reset")
		require.NoError(t, err)
		assert.Contains(t, out, "locations: 2 created")
	})

	t.Run("a database is required", func(t *testing.T) {
		_, err := execute(t, "seed")
		assert.Error(t, err)
	})
}

func TestColumnsOr(t *testing.T) {
	fallback := []string{"id", "name"}
	assert.Equal(t, fallback, columnsOr(nil, fallback))
	assert.Equal(t, fallback, columnsOr([]string{" ", ""}, fallback))
	assert.Equal(t, []string{"name", "role"}, columnsOr([]string{" name", "role", "name"}, fallback))
}
