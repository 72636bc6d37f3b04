// Package cmd implements adminctl, the offline companion to the server: it
// renders table views of fixture or database records and seeds databases.
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"practiceadmin/internal/fixture"
	locationmodels "practiceadmin/internal/location/models"
	locationstore "practiceadmin/internal/location/store"
	"practiceadmin/internal/platform/config"
	"practiceadmin/internal/platform/database"
	usermodels "practiceadmin/internal/user/models"
	userstore "practiceadmin/internal/user/store"
)

// sourceFlags select where records come from. With no flags the built-in demo
// records are used.
type sourceFlags struct {
	fixture     string
	sqlitePath  string
	databaseURL string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.fixture, "fixture", "", "YAML fixture file with locations and users")
	cmd.Flags().StringVar(&f.sqlitePath, "db", "", "SQLite database file")
	cmd.Flags().StringVar(&f.databaseURL, "database-url", "", "PostgreSQL connection URL")
}

func (f *sourceFlags) storage() (config.StorageConfig, bool) {
	switch {
	case f.databaseURL != "":
		return config.StorageConfig{Driver: config.DriverPostgres, DatabaseURL: f.databaseURL}, true
	case f.sqlitePath != "":
		return config.StorageConfig{Driver: config.DriverSQLite, SQLitePath: f.sqlitePath}, true
	default:
		return config.StorageConfig{}, false
	}
}

func (f *sourceFlags) loadFixture() (*fixture.Fixture, error) {
	if f.fixture == "" {
		return fixture.Default(), nil
	}
	return fixture.Load(f.fixture)
}

// records returns the locations and users of the selected source.
func (f *sourceFlags) records(ctx context.Context) ([]*locationmodels.Location, []*usermodels.User, error) {
	cfg, ok := f.storage()
	if !ok {
		fx, err := f.loadFixture()
		if err != nil {
			return nil, nil, err
		}
		return fx.Locations, fx.Users, nil
	}

	db, err := database.Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	defer db.Close()

	locations, err := locationstore.NewSQL(db).ListAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	users, err := userstore.NewSQL(db).ListAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	return locations, users, nil
}

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "adminctl",
		Short:        "Practice admin command line tool",
		Long:         "adminctl renders location and user table views and seeds databases.",
		SilenceUsage: true,
	}
	root.AddCommand(newViewCmd(), newSeedCmd())
	return root
}
