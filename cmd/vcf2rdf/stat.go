package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vcf2rdf/internal/config"
	"github.com/inodb/vcf2rdf/internal/convert"
	"github.com/inodb/vcf2rdf/internal/duckdb"
	"github.com/inodb/vcf2rdf/internal/stats"
	"github.com/inodb/vcf2rdf/internal/vcf"
)

func newStatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stat",
		Short: "Summarize a VCF file",
	}
	cmd.PersistentFlags().String("duckdb", "", "DuckDB file for stored reports")
	_ = viper.BindPFlag("stat.duckdb", cmd.PersistentFlags().Lookup("duckdb"))

	cmd.AddCommand(newStatCountCmd())
	cmd.AddCommand(newStatReportCmd())
	cmd.AddCommand(newStatRunsCmd())
	cmd.AddCommand(newStatShowCmd())
	return cmd
}

func newStatCountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count <input.vcf.gz>",
		Short: "Print the number of records",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := collectStats(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.Records)
			return nil
		},
	}
}

func newStatReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report <input.vcf.gz>",
		Short: "Print record, contig, filter and INFO counts as YAML",
		Long: `Print record, contig, filter and INFO counts as YAML.

With --duckdb the report is also stored so it can be listed with 'stat runs'.`,
		Example: `  vcf2rdf stat report input.vcf.gz
  vcf2rdf stat report --duckdb stats.duckdb input.vcf.gz`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := collectStats(args[0])
			if err != nil {
				return err
			}

			if path := viper.GetString("stat.duckdb"); path != "" {
				if err := storeReport(path, args[0], report); err != nil {
					return err
				}
			}
			return printReport(cmd, report)
		},
	}
}

func newStatRunsCmd() *cobra.Command {
	var clear bool
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List reports stored with --duckdb",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if clear {
				return store.ClearRuns()
			}

			runs, err := store.Runs()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "ID\tInput\tRecords\tSkipped\tTriples\tCreated")
			for _, r := range runs {
				fmt.Fprintf(out, "%d\t%s\t%d\t%d\t%d\t%s\n",
					r.ID, r.Input.Path, r.Records, r.Skipped, r.Triples, r.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&clear, "clear", false, "Delete all stored reports")
	return cmd
}

func newStatShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Print a stored report as YAML",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return &usageError{err: fmt.Errorf("invalid run id %q", args[0])}
			}
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			report, err := store.LookupReport(id)
			if err != nil {
				return err
			}
			return printReport(cmd, report)
		},
	}
}

// collectStats folds every record of input into a report.
func collectStats(input string) (*stats.Report, error) {
	parser, err := vcf.Open(input)
	if err != nil {
		return nil, err
	}
	defer parser.Close()

	cfg, err := config.Resolve(nil, parser.Header(), config.Options{Logger: logger})
	if err != nil {
		return nil, err
	}
	return convert.NewRun(cfg, parser, convert.Options{Logger: logger}).Stats(context.Background())
}

func storeReport(path, input string, report *stats.Report) error {
	fp, err := duckdb.StatFile(input)
	if err != nil {
		return fmt.Errorf("stat input: %w", err)
	}
	store, err := duckdb.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.WriteReport(fp, report)
	if err != nil {
		return fmt.Errorf("store report: %w", err)
	}
	logger.Info("stored report", zap.String("db", path), zap.Int64("run", id))
	return nil
}

func openStore() (*duckdb.Store, error) {
	path := viper.GetString("stat.duckdb")
	if path == "" {
		return nil, &usageError{err: fmt.Errorf("--duckdb is required")}
	}
	return duckdb.Open(path)
}

func printReport(cmd *cobra.Command, report *stats.Report) error {
	out, err := report.YAML()
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
