package fixture

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	locationstore "practiceadmin/internal/location/store"
	usermodels "practiceadmin/internal/user/models"
	userstore "practiceadmin/internal/user/store"
)

func TestLoad(t *testing.T) {
	f, err := Load(filepath.Join("testdata", "seed.yaml"))
	require.NoError(t, err)

	require.Len(t, f.Locations, 2)
	austin := f.Locations[0]
	assert.Equal(t, "Austin", austin.City)
	assert.Equal(t, 1800.0, austin.Revenue)
	assert.True(t, austin.Documents["taxReturns"])
	assert.False(t, austin.Documents["debtSchedule"], "unlisted documents default to not collected")

	require.Len(t, f.Users, 1)
	assert.Equal(t, usermodels.RoleManager, f.Users[0].Role, "roles are normalized")
}

func TestParseRejectsInvalidRecords(t *testing.T) {
	t.Run("location without state", func(t *testing.T) {
		_, err := Parse([]byte("locations:\n  - city: Austin\n"))
		assert.Error(t, err)
	})

	t.Run("user without id", func(t *testing.T) {
		_, err := Parse([]byte("users:\n  - name: Ann\n    email: ann@example.com\n    role: staff\n"))
		assert.ErrorContains(t, err, "has no id")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Parse([]byte("locations: [\n"))
		assert.ErrorContains(t, err, "decode fixture")
	})
}

func TestApplyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	locations := locationstore.NewInMemoryStore()
	users := userstore.NewInMemoryStore()

	res, err := Default().Apply(ctx, locations, users)
	require.NoError(t, err)
	assert.Equal(t, Result{LocationsCreated: 3, UsersCreated: 3}, res)

	res, err = Default().Apply(ctx, locations, users)
	require.NoError(t, err)
	assert.Equal(t, Result{LocationsSkipped: 3, UsersSkipped: 3}, res)

	n, err := locations.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
