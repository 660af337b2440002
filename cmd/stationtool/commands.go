package main

import (
	"ev-route-service/internal/adapters/repositories"
	"ev-route-service/internal/domain"
	"ev-route-service/internal/services"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var seedPath string

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Create the postgres tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()

		e.logger.Info().Msg("initializing database schema")
		if err := repositories.InitSchema(e.ctx, e.db); err != nil {
			return err
		}
		e.logger.Info().Msg("schema ready")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load stations from a JSON file into the configured store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		path := seedPath
		if path == "" {
			path = e.cfg.Store.SeedPath
		}

		e.logger.Info().Str("path", path).Str("store", e.cfg.Store.Backend).Msg("seeding stations")
		if e.cfg.Store.Backend == "postgres" {
			if err := repositories.InitSchema(e.ctx, e.db); err != nil {
				return err
			}
			if err := repositories.SeedFromJSON(e.ctx, e.db, path); err != nil {
				return err
			}
		} else {
			stations, err := repositories.ReadSeedFile(path)
			if err != nil {
				return err
			}
			repo := repositories.NewFileStationRepository(e.cfg.Store.StationsPath)
			if err := repo.ReplaceAll(e.ctx, stations); err != nil {
				return err
			}
		}
		e.logger.Info().Msg("seeding complete")
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every station with its reservations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		stations, err := e.stations().ListStations(e.ctx)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tCLASS\tPRICE\tRESERVATIONS")
		for _, st := range stations {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%s\n", st.ID, st.Name, st.PowerClass, st.PricePerKWh, formatReservations(st.Reservations))
		}
		return tw.Flush()
	},
}

var reserveCmd = &cobra.Command{
	Use:   "reserve <station-id> <HH:MM> <HH:MM>",
	Short: "Append a reservation to a station",
	Long: `Append a reservation to a station in the configured store.

With the postgres store the station row is locked for the append, so this is
safe while the server is running.

With the file store, writes are serialised only inside one process. Stop the
server before reserving against the same stations file, or reserve through
POST /station/{id}/reserve instead; otherwise one of two concurrent
reservations can be lost.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := domain.ParseTimeOfDay(args[1])
		if err != nil {
			return err
		}
		end, err := domain.ParseTimeOfDay(args[2])
		if err != nil {
			return err
		}

		e, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		st, err := services.ReserveStation(e.ctx, e.stations(), nil, args[0],
			domain.ReservationInterval{Start: start, End: end})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", st.ID, formatReservations(st.Reservations))
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedPath, "file", "f", "", "station JSON file (defaults to store.seed_path)")
	rootCmd.AddCommand(schemaCmd, seedCmd, listCmd, reserveCmd)
}

func formatReservations(rs []domain.ReservationInterval) string {
	if len(rs) == 0 {
		return "-"
	}
	out := ""
	for i, r := range rs {
		if i > 0 {
			out += ", "
		}
		out += r.Start.String() + "-" + r.End.String()
	}
	return out
}
