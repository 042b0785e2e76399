package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vcf2rdf/internal/config"
	"github.com/inodb/vcf2rdf/internal/convert"
	"github.com/inodb/vcf2rdf/internal/rdf"
	"github.com/inodb/vcf2rdf/internal/vcf"
)

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <input.vcf.gz>",
		Short: "Convert a VCF file to N-Triples",
		Long: `Convert a bgzip-compressed, tabix-indexed VCF file to N-Triples.

The input must have a .tbi or .csi index next to it. Use '-' to read plain or
gzip-compressed VCF from stdin.`,
		Example: `  vcf2rdf convert input.vcf.gz > out.nt
  vcf2rdf convert -c config.yaml --subject normalized-reference input.vcf.gz
  vcf2rdf convert --rehearsal input.vcf.gz
  zcat input.vcf.gz | vcf2rdf convert --subject blank-node -`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args[0])
		},
	}

	f := cmd.Flags()
	f.StringP("config", "c", "", "Run configuration YAML (see 'generate config')")
	f.StringP("subject", "s", "", fmt.Sprintf("Subject strategy: %v", config.StrategyNames()))
	f.Bool("normalize", true, "Normalize alleles and locations")
	f.Bool("per-record", false, "One subject per record instead of one per alternate allele")
	f.Bool("rehearsal", false, "Convert only the first record")
	f.String("on-error", "abort", "Malformed record policy: abort or best-effort")
	f.StringP("output", "o", "", "Output file (default: stdout)")

	for _, name := range []string{"config", "subject", "normalize", "per-record", "on-error"} {
		_ = viper.BindPFlag("convert."+name, f.Lookup(name))
	}

	return cmd
}

func runConvert(cmd *cobra.Command, input string) error {
	policy, err := convert.ParsePolicy(viper.GetString("convert.on-error"))
	if err != nil {
		return &usageError{err: err}
	}
	rehearsal, _ := cmd.Flags().GetBool("rehearsal")
	outputPath, _ := cmd.Flags().GetString("output")

	parser, err := vcf.Open(input)
	if err != nil {
		return err
	}
	defer parser.Close()

	cfg, err := resolveRunConfig(parser.Header())
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := rdf.NewWriter(out)
	r := convert.NewRun(cfg, parser, convert.Options{
		Rehearsal: rehearsal,
		Policy:    policy,
		Logger:    logger,
	})

	report, err := r.Convert(ctx, w)
	if cerr := w.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("write output: %w", cerr)
	}
	if err != nil {
		return err
	}

	logger.Info("conversion finished",
		zap.String("input", input),
		zap.Int64("records", report.Records),
		zap.Int64("skipped", report.Skipped),
		zap.Int64("triples", report.Triples))
	return nil
}

// resolveRunConfig loads the run configuration named by --config (if any)
// and applies the command-line overrides.
func resolveRunConfig(hdr *vcf.Header) (*config.RunConfig, error) {
	var tree any
	if path := viper.GetString("convert.config"); path != "" {
		t, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		tree = t
	}

	opts := config.Options{
		Subject:   viper.GetString("convert.subject"),
		PerRecord: viper.GetBool("convert.per-record"),
		Logger:    logger,
	}
	if viper.IsSet("convert.normalize") {
		n := viper.GetBool("convert.normalize")
		opts.Normalize = &n
	}
	return config.Resolve(tree, hdr, opts)
}
