package cli

import (
	"bufio"
	"delivery-scheduler/internal/services"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

const shellHelp = `Commands:
  <id>            look up a package, then enter a time when prompted
  <id> <HH:MM>    look up a package at a time
  all <HH:MM>     every package at a time
  mileage         total miles driven by all trucks
  help            this text
  q               quit`

// Shell is a line-oriented status query loop. Bad input is reported and the loop
// continues; only end of input or "q" stops it.
type Shell struct {
	Reporter *services.Reporter
	In       io.Reader
	Out      io.Writer
}

func (s *Shell) Run() error {
	scanner := bufio.NewScanner(s.In)
	prompt := func(p string) bool {
		fmt.Fprint(s.Out, p)
		return scanner.Scan()
	}

	fmt.Fprintf(s.Out, "%d packages routed, %.1f total miles. Type \"help\" for commands.\n",
		s.Reporter.PackageCount(), s.Reporter.TotalMileage())

	for prompt("> ") {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch cmd := strings.ToLower(fields[0]); {
		case cmd == "q" || cmd == "quit" || cmd == "exit":
			fmt.Fprintln(s.Out, "bye")
			return nil

		case cmd == "help":
			fmt.Fprintln(s.Out, shellHelp)

		case cmd == "mileage":
			fmt.Fprintf(s.Out, "Total mileage: %.1f\n", s.Reporter.TotalMileage())

		case cmd == "all":
			if len(fields) < 2 {
				s.fail(fmt.Errorf("%w: usage: all <HH:MM>", services.ErrRejectedInput))
				continue
			}
			reports, err := s.Reporter.AllStatuses(strings.Join(fields[1:], " "))
			if err != nil {
				s.fail(err)
				continue
			}
			printReports(s.Out, reports)

		default:
			id, err := services.ParsePackageID(fields[0])
			if err != nil {
				s.fail(fmt.Errorf("%w (type \"help\" for commands)", err))
				continue
			}

			at := strings.Join(fields[1:], " ")
			if at == "" {
				if !prompt("Time (HH:MM): ") {
					return scanner.Err()
				}
				at = scanner.Text()
			}

			report, err := s.Reporter.Status(id, at)
			if err != nil {
				s.fail(err)
				continue
			}
			fmt.Fprintln(s.Out, report.String())
		}
	}

	return scanner.Err()
}

func (s *Shell) fail(err error) {
	fmt.Fprintf(s.Out, "error: %v\n", err)
}

func newShellCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Route the day, then answer status queries interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, res, err := route(cmd.Context(), o)
			if err != nil {
				return err
			}

			sh := &Shell{
				Reporter: services.NewReporter(s, res),
				In:       cmd.InOrStdin(),
				Out:      cmd.OutOrStdout(),
			}
			return sh.Run()
		},
	}
}
