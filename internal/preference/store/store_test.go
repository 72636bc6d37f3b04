package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"practiceadmin/pkg/platform/sentinel"
)

type preferenceStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

type StoreSuite struct {
	suite.Suite
	newStore func() preferenceStore
	store    preferenceStore
}

func (s *StoreSuite) SetupTest() {
	s.store = s.newStore()
}

func (s *StoreSuite) TestRoundTrip() {
	ctx := context.Background()
	key := Key("locations", "user@example.com", "group-by")

	_, err := s.store.Get(ctx, key)
	s.ErrorIs(err, sentinel.ErrNotFound)

	s.Require().NoError(s.store.Set(ctx, key, "state"))
	s.Require().NoError(s.store.Set(ctx, key, "type"))

	v, err := s.store.Get(ctx, key)
	s.Require().NoError(err)
	s.Equal("type", v)

	_, err = s.store.Get(ctx, Key("users", "user@example.com", "group-by"))
	s.ErrorIs(err, sentinel.ErrNotFound, "scopes are independent")
}

type InMemoryStoreSuite struct {
	StoreSuite
}

func TestInMemoryStoreSuite(t *testing.T) {
	s := new(InMemoryStoreSuite)
	s.newStore = func() preferenceStore { return NewInMemoryStore() }
	suite.Run(t, s)
}

func TestKey(t *testing.T) {
	if got := Key("locations", "a@b.c", "group-by"); got != "pref:locations:a@b.c:group-by" {
		t.Fatalf("unexpected key %q", got)
	}
}
