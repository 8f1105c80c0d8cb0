package cli

import (
	"delivery-scheduler/internal/services"
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status <package-id> <HH:MM>",
		Short: "Print one package's status at a time of day",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := services.ParsePackageID(args[0])
			if err != nil {
				return err
			}
			at, err := services.ParseQueryTime(args[1])
			if err != nil {
				return err
			}

			s, res, err := route(cmd.Context(), o)
			if err != nil {
				return err
			}
			report, err := services.NewReporter(s, res).StatusAt(id, at)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), report.String())
			return nil
		},
	}
}
