package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"practiceadmin/internal/fixture"
	locationstore "practiceadmin/internal/location/store"
	"practiceadmin/internal/platform/database"
	userstore "practiceadmin/internal/user/store"
)

func newSeedCmd() *cobra.Command {
	var (
		source sourceFlags
		reset  bool
	)
	cmd := &cobra.Command{
		Use:     "seed",
		Short:   "Load a fixture into a database",
		Long:    "Load a fixture (or the built-in demo records) into a database. Existing records are kept unless --reset is given.",
		Example: "  adminctl seed --db admin.db --fixture seed.yaml",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			fx, err := source.loadFixture()
			if err != nil {
				return err
			}
			cfg, _ := source.storage()
			db, err := database.Open(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if reset {
				if err := db.Truncate(ctx, "locations", "users"); err != nil {
					return err
				}
			}
			res, err := fx.Apply(ctx, locationstore.NewSQL(db), userstore.NewSQL(db))
			if err != nil {
				return err
			}
			return printSeedResult(cmd, res)
		},
	}
	source.register(cmd)
	cmd.MarkFlagsOneRequired("db", "database-url")
	cmd.MarkFlagsMutuallyExclusive("db", "database-url")
	cmd.Flags().BoolVar(&reset, "reset", false, "delete existing locations and users first")
	return cmd
}

func printSeedResult(cmd *cobra.Command, res fixture.Result) error {
	_, err := fmt.Fprintf(cmd.OutOrStdout(),
		"locations: %d created, %d already present\nusers: %d created, %d already present\n",
		res.LocationsCreated, res.LocationsSkipped, res.UsersCreated, res.UsersSkipped,
	)
	return err
}
