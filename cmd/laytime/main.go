/*
main.go - Laytime settlement CLI

PURPOSE:
  Runs a settlement from a YAML dossier file without a server: the terms
  and SOF ledger are read from disk, the settlement is computed, and the
  statement is printed or written as a PDF.

COMMANDS:
  laytime settle <dossier.yaml>           Print the laytime statement
  laytime report <dossier.yaml> -o x.pdf  Write the statement as a PDF

FLAGS:
  --calendars  Port holiday calendar YAML file (both commands)

SEE ALSO:
  - cmd/laytime/dossier.go: The dossier file format
  - report: Statement rendering
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/seafix/laytime-engine/calendar"
	"github.com/seafix/laytime-engine/laytime"
	"github.com/seafix/laytime-engine/report"
)

const appVersion = "0.3.0"

func main() {
	var calPath string

	root := &cobra.Command{
		Use:           "laytime",
		Short:         "Laytime and demurrage settlement from a dossier file",
		Version:       appVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&calPath, "calendars", "", "port holiday calendar YAML file")

	settleCmd := &cobra.Command{
		Use:   "settle <dossier.yaml>",
		Short: "Compute the settlement and print the statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			statement, err := run(args[0], calPath)
			if err != nil {
				return err
			}
			return report.WriteText(cmd.OutOrStdout(), statement)
		},
	}

	var outPath string
	reportCmd := &cobra.Command{
		Use:   "report <dossier.yaml>",
		Short: "Write the laytime statement as a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			statement, err := run(args[0], calPath)
			if err != nil {
				return err
			}
			data, err := report.BuildPDF(statement)
			if err != nil {
				return err
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("write pdf: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", outPath, len(data))
			return nil
		},
	}
	reportCmd.Flags().StringVarP(&outPath, "out", "o", "statement.pdf", "output PDF path")

	root.AddCommand(settleCmd, reportCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run loads the dossier and calendars and computes the settlement.
func run(dossierPath, calPath string) (report.Statement, error) {
	df, terms, ledger, err := loadDossier(dossierPath)
	if err != nil {
		return report.Statement{}, err
	}

	calendars, err := calendar.LoadFile(calPath)
	if err != nil {
		return report.Statement{}, err
	}

	result, err := laytime.Settle(terms, ledger, calendars.ForPort(df.Port))
	if err != nil {
		return report.Statement{}, err
	}

	return report.Statement{
		DossierName: df.Name,
		Port:        df.Port,
		Terms:       terms,
		Result:      result,
	}, nil
}
