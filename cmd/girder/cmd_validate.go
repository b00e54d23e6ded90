package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"girder/internal/format"
	"girder/internal/ingest"
	"girder/internal/logging"
	"girder/internal/report"
)

var (
	validateFormat string
	validateOut    string
)

var validateCmd = &cobra.Command{
	Use:   "validate <structure-file>",
	Short: "Validate one structure file (JSON or YAML)",
	Long: `Runs the full pipeline on a structure file: joint inference, connection
synthesis, clash detection, and the bounded correct/revalidate loop. Prints
a summary; use --output to also write the full result as JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateFormat, "format", "text", "summary format (text|markdown|json)")
	validateCmd.Flags().StringVarP(&validateOut, "output", "o", "", "write full result JSON to this file")
}

func runValidate(cmd *cobra.Command, args []string) error {
	logger := logging.New("validate")

	s, err := ingest.DecodeFile(args[0])
	if err != nil {
		return err
	}
	in := s.Build(logger)
	if len(in.Members) == 0 {
		return fmt.Errorf("%s: no valid members", args[0])
	}

	pipe, err := buildPipeline(cfg, nil)
	if err != nil {
		return err
	}

	out, err := pipe.Run(cmd.Context(), in.Name, in.Members, in.Joints)
	if err != nil {
		return fmt.Errorf("validate %s: %w", in.Name, err)
	}
	out.Report.Anomalies = append(in.Anomalies, out.Report.Anomalies...)

	if validateOut != "" {
		data, err := report.JSON(out)
		if err != nil {
			return err
		}
		if err := os.WriteFile(validateOut, data, 0o644); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
		logger.Info("result written", "path", validateOut)
	}

	switch validateFormat {
	case "json":
		data, err := report.JSON(out)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	case "markdown":
		fmt.Fprint(cmd.OutOrStdout(), report.Summary(out.Report, format.Markdown))
	default:
		fmt.Fprint(cmd.OutOrStdout(), report.Summary(out.Report, format.ASCII))
	}
	return nil
}
