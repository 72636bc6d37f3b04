//go:build integration

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"practiceadmin/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	StoreSuite
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	s := new(PostgresStoreSuite)
	s.newStore = func() locationStore {
		pg := containers.GetManager().GetPostgres(s.T())
		s.Require().NoError(pg.TruncateTables(context.Background(), "locations"))
		return NewSQL(pg.DB)
	}
	suite.Run(t, s)
}
