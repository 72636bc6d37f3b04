package revocation

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"practiceadmin/internal/platform/config"
	"practiceadmin/internal/platform/database"
	"practiceadmin/pkg/platform/sentinel"
)

type revocationList interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// TRLSuite covers the backends whose clock can be controlled.
type TRLSuite struct {
	suite.Suite
	newList func(clock Clock) revocationList
	clock   *fakeClock
	trl     revocationList
	ctx     context.Context
}

func (s *TRLSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	s.trl = s.newList(s.clock.Now)
}

func (s *TRLSuite) TestRevokedUntilExpiry() {
	s.Require().NoError(s.trl.RevokeToken(s.ctx, "jti-1", time.Hour))

	revoked, err := s.trl.IsRevoked(s.ctx, "jti-1")
	s.Require().NoError(err)
	s.True(revoked)

	s.clock.Advance(time.Hour)
	revoked, err = s.trl.IsRevoked(s.ctx, "jti-1")
	s.Require().NoError(err)
	s.False(revoked)
}

func (s *TRLSuite) TestUnknownTokenIsNotRevoked() {
	revoked, err := s.trl.IsRevoked(s.ctx, "never-seen")
	s.Require().NoError(err)
	s.False(revoked)
}

func (s *TRLSuite) TestRevokingTwiceExtendsExpiry() {
	s.Require().NoError(s.trl.RevokeToken(s.ctx, "jti-1", time.Minute))
	s.Require().NoError(s.trl.RevokeToken(s.ctx, "jti-1", time.Hour))

	s.clock.Advance(30 * time.Minute)
	revoked, err := s.trl.IsRevoked(s.ctx, "jti-1")
	s.Require().NoError(err)
	s.True(revoked)
}

func (s *TRLSuite) TestRejectsNonPositiveTTL() {
	s.ErrorIs(s.trl.RevokeToken(s.ctx, "jti-1", 0), sentinel.ErrInvalidState)
}

func (s *TRLSuite) TestEmptyJTIIsIgnored() {
	s.NoError(s.trl.RevokeToken(s.ctx, "", time.Hour))
	revoked, err := s.trl.IsRevoked(s.ctx, "")
	s.Require().NoError(err)
	s.False(revoked)
}

type InMemoryTRLSuite struct {
	TRLSuite
}

func TestInMemoryTRLSuite(t *testing.T) {
	s := new(InMemoryTRLSuite)
	s.newList = func(clock Clock) revocationList {
		return NewInMemoryTRL(WithClock(clock))
	}
	suite.Run(t, s)
}

type SQLiteTRLSuite struct {
	TRLSuite
}

func TestSQLiteTRLSuite(t *testing.T) {
	s := new(SQLiteTRLSuite)
	s.newList = func(clock Clock) revocationList {
		db, err := database.Open(context.Background(), config.StorageConfig{
			Driver:     config.DriverSQLite,
			SQLitePath: filepath.Join(s.T().TempDir(), "trl.db"),
		})
		s.Require().NoError(err)
		s.T().Cleanup(func() { _ = db.Close() })
		return NewSQLTRL(db, WithSQLClock(clock))
	}
	suite.Run(t, s)
}
