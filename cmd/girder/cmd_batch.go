package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"girder/internal/display"
	"girder/internal/format"
	"girder/internal/ingest"
	"girder/internal/logging"
	"girder/internal/report"
	"girder/pkg/pipeline"
)

var (
	batchParallel int
	batchOutDir   string
)

var batchCmd = &cobra.Command{
	Use:   "batch <directory>",
	Short: "Validate every structure file in a directory in parallel",
	Long: `Finds *.json, *.yaml, and *.yml files in the directory and validates each
through the full pipeline. Structures run in parallel; one bad input never
sinks the rest of the batch.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().IntVarP(&batchParallel, "parallel", "p", 0, "worker count (0 = GOMAXPROCS)")
	batchCmd.Flags().StringVar(&batchOutDir, "output-dir", "", "write per-structure result JSON into this directory")
}

func runBatch(cmd *cobra.Command, args []string) error {
	logger := logging.New("batch")

	files, err := structureFiles(args[0])
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("%s: no structure files (*.json, *.yaml, *.yml)", args[0])
	}

	var inputs []pipeline.Input
	for _, path := range files {
		s, err := ingest.DecodeFile(path)
		if err != nil {
			logger.Warn("skipping file", "path", path, "err", err)
			continue
		}
		in := s.Build(logger)
		if len(in.Members) == 0 {
			logger.Warn("skipping structure with no valid members", "path", path)
			continue
		}
		inputs = append(inputs, pipeline.Input{Name: in.Name, Members: in.Members, Joints: in.Joints})
	}
	if len(inputs) == 0 {
		return fmt.Errorf("%s: no decodable structures", args[0])
	}

	pipe, err := buildPipeline(cfg, nil)
	if err != nil {
		return err
	}
	results := pipe.RunBatch(cmd.Context(), inputs, batchParallel)

	tb := format.NewTable(format.ASCII)
	tb.Header("Structure", "Status", "Clashes", "Corrections", "Iterations")
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			tb.Row(res.Name, "ERROR", "-", "-", "-")
			logger.Error("structure failed", "structure", res.Name, "err", res.Err)
			continue
		}
		r := res.Output.Report
		tb.Row(res.Name, display.RunStatus(string(r.Status)),
			len(r.Clashes), len(r.Corrections), r.IterationsUsed)

		if batchOutDir != "" {
			if err := writeResult(res, batchOutDir); err != nil {
				return err
			}
		}
	}
	tb.Columns(
		format.ColumnConfig{Number: 3, Right: true},
		format.ColumnConfig{Number: 4, Right: true},
		format.ColumnConfig{Number: 5, Right: true},
	)
	fmt.Fprintln(cmd.OutOrStdout(), tb.String())

	if failed > 0 {
		return fmt.Errorf("%d of %d structures failed", failed, len(results))
	}
	return nil
}

func structureFiles(dir string) ([]string, error) {
	var files []string
	for _, pat := range []string{"*.json", "*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pat))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}

func writeResult(res pipeline.BatchResult, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	data, err := report.JSON(res.Output)
	if err != nil {
		return err
	}
	path := filepath.Join(dir, res.Name+".result.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write result %s: %w", path, err)
	}
	return nil
}
