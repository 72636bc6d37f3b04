//go:build integration

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"practiceadmin/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	StoreSuite
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	s := new(RedisStoreSuite)
	s.newStore = func() preferenceStore {
		rc := containers.GetManager().GetRedis(s.T())
		s.Require().NoError(rc.FlushAll(context.Background()))
		return NewRedisStore(rc.Client)
	}
	suite.Run(t, s)
}
