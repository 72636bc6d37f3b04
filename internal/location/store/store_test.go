package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"practiceadmin/internal/location/models"
	"practiceadmin/internal/platform/config"
	"practiceadmin/internal/platform/database"
	"practiceadmin/pkg/platform/sentinel"
)

type locationStore interface {
	ListAll(ctx context.Context) ([]*models.Location, error)
	FindByKey(ctx context.Context, key models.Key) (*models.Location, error)
	Create(ctx context.Context, location *models.Location) error
	Update(ctx context.Context, location *models.Location) error
	Delete(ctx context.Context, key models.Key) error
	ToggleDocument(ctx context.Context, key models.Key, document string) (*models.Location, error)
	Count(ctx context.Context) (int, error)
}

// StoreSuite holds the behaviour every location backend shares. Backends embed
// it and provide newStore, which must return an empty store.
type StoreSuite struct {
	suite.Suite
	newStore func() locationStore
	store    locationStore
	ctx      context.Context
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.newStore()
}

func (s *StoreSuite) seed() []*models.Location {
	seed := models.SeedLocations()
	for _, l := range seed {
		s.Require().NoError(s.store.Create(s.ctx, l))
	}
	return seed
}

func (s *StoreSuite) TestListKeepsInsertionOrder() {
	seed := s.seed()

	got, err := s.store.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(got, len(seed))
	for i := range seed {
		s.Equal(seed[i], got[i])
	}

	n, err := s.store.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(len(seed), n)
}

func (s *StoreSuite) TestFindByKey() {
	seed := s.seed()

	s.Run("returns the stored location", func() {
		got, err := s.store.FindByKey(s.ctx, seed[1].Key())
		s.Require().NoError(err)
		s.Equal(seed[1], got)
	})

	s.Run("returns ErrNotFound for an unknown key", func() {
		_, err := s.store.FindByKey(s.ctx, models.Key{City: "Boise", State: "ID"})
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *StoreSuite) TestCreateRejectsDuplicateIdentity() {
	seed := s.seed()

	dup := seed[0].Clone()
	dup.Market = "Changed"
	s.ErrorIs(s.store.Create(s.ctx, dup), sentinel.ErrConflict)

	got, err := s.store.FindByKey(s.ctx, seed[0].Key())
	s.Require().NoError(err)
	s.Equal(seed[0].Market, got.Market)
}

func (s *StoreSuite) TestUpdate() {
	seed := s.seed()

	s.Run("replaces the record", func() {
		changed := seed[2].Clone()
		changed.NotesStatus = "Closed"
		s.Require().NoError(changed.Documents.Toggle("taxReturns"))
		s.Require().NoError(s.store.Update(s.ctx, changed))

		got, err := s.store.FindByKey(s.ctx, changed.Key())
		s.Require().NoError(err)
		s.Equal(changed, got)
	})

	s.Run("keeps the position in the list", func() {
		all, err := s.store.ListAll(s.ctx)
		s.Require().NoError(err)
		s.Equal(seed[2].Key(), all[2].Key())
	})

	s.Run("returns ErrNotFound for an unknown key", func() {
		l := &models.Location{City: "Boise", State: "ID", Documents: models.DefaultDocuments()}
		s.ErrorIs(s.store.Update(s.ctx, l), sentinel.ErrNotFound)
	})
}

func (s *StoreSuite) TestDelete() {
	seed := s.seed()

	s.Require().NoError(s.store.Delete(s.ctx, seed[1].Key()))
	_, err := s.store.FindByKey(s.ctx, seed[1].Key())
	s.ErrorIs(err, sentinel.ErrNotFound)

	all, err := s.store.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal(seed[0].Key(), all[0].Key())
	s.Equal(seed[2].Key(), all[1].Key())

	s.Run("absent key is a no-op", func() {
		s.NoError(s.store.Delete(s.ctx, models.Key{City: "Boise", State: "ID"}))
	})
}

func (s *StoreSuite) TestCreateAfterDeleteAppends() {
	seed := s.seed()

	s.Require().NoError(s.store.Delete(s.ctx, seed[2].Key()))
	s.Require().NoError(s.store.Delete(s.ctx, seed[0].Key()))
	s.Require().NoError(s.store.Create(s.ctx, seed[0]))
	s.Require().NoError(s.store.Create(s.ctx, seed[2]))

	all, err := s.store.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal(seed[1].Key(), all[0].Key())
	s.Equal(seed[0].Key(), all[1].Key())
	s.Equal(seed[2].Key(), all[2].Key())
}

func (s *StoreSuite) TestToggleDocument() {
	seed := s.seed()

	s.Run("flips the entry and returns the stored record", func() {
		got, err := s.store.ToggleDocument(s.ctx, seed[0].Key(), "taxReturns")
		s.Require().NoError(err)
		s.True(got.Documents["taxReturns"])

		stored, err := s.store.FindByKey(s.ctx, seed[0].Key())
		s.Require().NoError(err)
		s.Equal(got, stored)
	})

	s.Run("unknown key", func() {
		_, err := s.store.ToggleDocument(s.ctx, models.Key{City: "Boise", State: "ID"}, "taxReturns")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("unknown document leaves the record unchanged", func() {
		_, err := s.store.ToggleDocument(s.ctx, seed[1].Key(), "napkinSketch")
		s.Error(err)

		stored, err := s.store.FindByKey(s.ctx, seed[1].Key())
		s.Require().NoError(err)
		s.Equal(seed[1].Documents, stored.Documents)
	})
}

func (s *StoreSuite) TestConcurrentTogglesOfDifferentDocuments() {
	seed := s.seed()
	key := seed[2].Key()

	var wg sync.WaitGroup
	for _, document := range models.DocumentNames {
		wg.Add(1)
		go func(document string) {
			defer wg.Done()
			_, err := s.store.ToggleDocument(s.ctx, key, document)
			s.NoError(err)
		}(document)
	}
	wg.Wait()

	got, err := s.store.FindByKey(s.ctx, key)
	s.Require().NoError(err)
	s.Equal(len(models.DocumentNames), got.Documents.Collected())
}

func (s *StoreSuite) TestReadsAreCopies() {
	seed := s.seed()

	got, err := s.store.FindByKey(s.ctx, seed[0].Key())
	s.Require().NoError(err)
	got.Market = "Mutated"
	got.Documents["taxReturns"] = true

	again, err := s.store.FindByKey(s.ctx, seed[0].Key())
	s.Require().NoError(err)
	s.Equal(seed[0].Market, again.Market)
	s.False(again.Documents["taxReturns"])
}

func (s *StoreSuite) TestConcurrentCreates() {
	const n = 20
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l := &models.Location{
				City:      "City",
				State:     string(rune('A'+i/26)) + string(rune('A'+i%26)),
				Documents: models.DefaultDocuments(),
			}
			s.NoError(s.store.Create(s.ctx, l))
		}(i)
	}
	wg.Wait()

	count, err := s.store.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(n, count)

	all, err := s.store.ListAll(s.ctx)
	s.Require().NoError(err)
	seen := make(map[models.Key]bool, n)
	for _, l := range all {
		s.False(seen[l.Key()], "duplicate %s", l.Key())
		seen[l.Key()] = true
	}
}

type InMemoryStoreSuite struct {
	StoreSuite
}

func TestInMemoryStoreSuite(t *testing.T) {
	s := new(InMemoryStoreSuite)
	s.newStore = func() locationStore { return NewInMemoryStore() }
	suite.Run(t, s)
}

func TestInMemoryStoreSeed(t *testing.T) {
	seed := models.SeedLocations()
	store := NewInMemoryStore(append(seed, seed[0])...)

	n, err := store.Count(context.Background())
	if err != nil || n != len(seed) {
		t.Fatalf("expected %d seeded locations, got %d (err %v)", len(seed), n, err)
	}
}

type SQLiteStoreSuite struct {
	StoreSuite
}

func TestSQLiteStoreSuite(t *testing.T) {
	s := new(SQLiteStoreSuite)
	s.newStore = func() locationStore {
		db, err := database.Open(context.Background(), config.StorageConfig{
			Driver:     config.DriverSQLite,
			SQLitePath: filepath.Join(s.T().TempDir(), "admin.db"),
		})
		s.Require().NoError(err)
		s.T().Cleanup(func() { _ = db.Close() })
		return NewSQL(db)
	}
	suite.Run(t, s)
}
