package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/vcf2rdf/internal/config"
	"github.com/inodb/vcf2rdf/internal/vcf"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate files for a conversion",
	}
	cmd.AddCommand(newGenerateConfigCmd())
	return cmd
}

func newGenerateConfigCmd() *cobra.Command {
	names := make([]string, len(config.Assemblies))
	for i, a := range config.Assemblies {
		names[i] = a.Name
	}

	cmd := &cobra.Command{
		Use:   "config <input.vcf.gz>",
		Short: "Write a run configuration skeleton for a VCF file",
		Long: `Write a run configuration skeleton listing every INFO key and contig of
the input. With --assembly, contigs are mapped to reference sequence IRIs.`,
		Example: `  vcf2rdf generate config input.vcf.gz > config.yaml
  vcf2rdf generate config --assembly GRCh38 -o config.yaml input.vcf.gz`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var asm *config.Assembly
			if name := viper.GetString("generate.assembly"); name != "" {
				a, ok := config.LookupAssembly(name)
				if !ok {
					return &usageError{err: fmt.Errorf("unknown assembly %q (want one of %s)", name, strings.Join(names, ", "))}
				}
				asm = a
			}

			parser, err := vcf.Open(args[0])
			if err != nil {
				return err
			}
			defer parser.Close()

			out, err := config.Generate(parser.Header(), asm)
			if err != nil {
				return err
			}

			outputPath, _ := cmd.Flags().GetString("output")
			if outputPath == "" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(outputPath, out, 0644); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringP("assembly", "a", "", "Assembly for reference mapping: "+strings.Join(names, ", "))
	cmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
	_ = viper.BindPFlag("generate.assembly", cmd.Flags().Lookup("assembly"))
	return cmd
}
