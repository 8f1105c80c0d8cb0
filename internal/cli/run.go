package cli

import (
	"delivery-scheduler/internal/adapters/repositories"
	"delivery-scheduler/internal/ports"
	"delivery-scheduler/internal/services"
	"delivery-scheduler/internal/store"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newRunCmd(o *options) *cobra.Command {
	var (
		at   string
		save bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Route every package and print the per-truck routes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, res, err := route(cmd.Context(), o)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printRoutes(out, res)

			if at != "" {
				reports, err := services.NewReporter(s, res).AllStatuses(at)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "\nStatus at %s\n", at)
				printReports(out, reports)
			}

			if save {
				if err := saveRun(cmd, o, s, res); err != nil {
					return err
				}
				fmt.Fprintf(out, "\nSaved run %s\n", res.RunID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Also print every package's status at this time (HH:MM)")
	cmd.Flags().BoolVar(&save, "save", false, "Persist the run to the configured database")
	return cmd
}

func saveRun(cmd *cobra.Command, o *options, s *store.PackageStore, res *services.RunResult) error {
	conn, d, err := openDB(o)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx := cmd.Context()
	if err := repositories.InitSchema(ctx, conn, d); err != nil {
		return err
	}

	record := ports.RunRecord{
		RunID:        res.RunID,
		CreatedAt:    time.Now(),
		TotalMiles:   res.TotalMiles,
		TruckMiles:   res.TruckMiles(),
		Packages:     s.Packages(),
		LatePackages: res.LatePackages,
	}
	if err := repositories.NewSQLRunRepository(conn, d).SaveRun(ctx, record); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{"run_id": res.RunID, "driver": o.dbDriver}).Info("run saved")
	return nil
}

func printRoutes(w io.Writer, res *services.RunResult) {
	fmt.Fprintf(w, "Run %s\n", res.RunID)
	for _, plan := range res.Routes {
		fmt.Fprintf(w, "\nTruck %d: departs %s, returns %s, %.1f miles\n",
			plan.TruckID, plan.DepartAt, plan.ReturnAt, plan.TotalMiles)
		for _, stop := range plan.Stops {
			fmt.Fprintf(w, "  %s  %-45s packages %s\n", stop.ArriveAt, stop.Destination, joinInts(stop.PackageIDs))
		}
	}

	fmt.Fprintf(w, "\nTotal mileage: %.1f\n", res.TotalMiles)
	if len(res.LatePackages) == 0 {
		fmt.Fprintln(w, "Late packages: none")
	} else {
		fmt.Fprintf(w, "Late packages: %s\n", joinInts(res.LatePackages))
	}
}

func printReports(w io.Writer, reports []services.StatusReport) {
	for _, r := range reports {
		fmt.Fprintln(w, r.String())
	}
}

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ", ")
}
