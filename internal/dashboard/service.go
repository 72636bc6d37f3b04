// Package dashboard serves the landing page summary.
package dashboard

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"practiceadmin/internal/platform/latency"
)

// Counter reports how many records an entity store holds.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// MonthlyRevenue is one bar of the revenue chart.
type MonthlyRevenue struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

// Summary is the dashboard payload. Practice statistics are fixed demo figures;
// the record counts are live.
type Summary struct {
	TotalPatients     int              `json:"totalPatients"`
	AppointmentsToday int              `json:"appointmentsToday"`
	RevenueThisMonth  float64          `json:"revenueThisMonth"`
	MonthlyRevenue    []MonthlyRevenue `json:"monthlyRevenue"`
	LocationCount     int              `json:"location_count"`
	UserCount         int              `json:"user_count"`
}

func staticSummary() Summary {
	return Summary{
		TotalPatients:     1500,
		AppointmentsToday: 25,
		RevenueThisMonth:  75000,
		MonthlyRevenue: []MonthlyRevenue{
			{Month: "Jan", Revenue: 50000},
			{Month: "Feb", Revenue: 55000},
			{Month: "Mar", Revenue: 60000},
			{Month: "Apr", Revenue: 65000},
			{Month: "May", Revenue: 70000},
			{Month: "Jun", Revenue: 75000},
		},
	}
}

type Service struct {
	locations Counter
	users     Counter
	latency   latency.Simulator
}

func NewService(locations, users Counter, l latency.Simulator) (*Service, error) {
	if locations == nil || users == nil {
		return nil, errors.New("location and user counters are required")
	}
	return &Service{locations: locations, users: users, latency: l}, nil
}

// Summary builds the dashboard. Both counts are fetched concurrently.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	if err := s.latency.Wait(ctx); err != nil {
		return nil, err
	}
	summary := staticSummary()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.locations.Count(gctx)
		summary.LocationCount = n
		return err
	})
	g.Go(func() error {
		n, err := s.users.Count(gctx)
		summary.UserCount = n
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &summary, nil
}
