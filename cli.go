package main

import (
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/dvgjettinggrid/jetgridgen/pkg/valves"
)

// runCLI loads a configuration, runs the pipeline once, and prints a
// summary table of the result, in the teacher's "--- Results ---" style.
func runCLI(configPath string) error {
	fmt.Println("--- Jetting Grid Schedule Generation ---")
	fmt.Printf(">>> Loading config from %s\n", configPath)

	cfg, err := Load(configPath)
	if err != nil {
		return err
	}

	start := time.Now()
	result, err := Run(cfg, func(stage string, frame, total int) {
		fmt.Printf(">>> %s\n", stage)
	})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Println("--- Results ---")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Field", "Value"})
	table.Append([]string{"Run ID", result.RunID})
	table.Append([]string{"Frames", fmt.Sprintf("%d", cfg.NFrames)})
	table.Append([]string{"Duration", elapsed.String()})
	table.Append([]string{"Mean alpha (valve)", fmt.Sprintf("%.4f", meanOf(result.AlphaValve))})
	if result.Converged != nil {
		table.Append([]string{"Nonconverged frames", fmt.Sprintf("%d", countFalse(result.Converged))})
	}
	table.Append([]string{"Proto file", result.ProtoPath})
	table.Append([]string{"Alpha report", result.AlphaPath})
	table.Append([]string{"PDF report", result.PDFPath})
	table.Append([]string{"Parquet archive", result.ParquetPath})
	table.Append([]string{"Metadata", result.MetaPath})
	table.Render()

	printPDFTable(cfg.DtFrame, result)

	return nil
}

// printPDFTable prints the dwell-time PDF bins, truncated at the last
// nonzero row across the four on/off theoretical/jet_grid columns.
func printPDFTable(dtFrame float64, result *RunResult) {
	last := valves.LastNonzero(
		result.TheoreticalPDFs.On, result.JetGridPDFs.On,
		result.TheoreticalPDFs.Off, result.JetGridPDFs.Off,
	)
	if last < 0 {
		return
	}

	fmt.Println("--- Dwell PDF (truncated at last nonzero bin) ---")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Duration (s)", "Open theoretical", "Open jet_grid", "Closed theoretical", "Closed jet_grid"})
	for d := 0; d <= last; d++ {
		table.Append([]string{
			fmt.Sprintf("%g", float64(d)*dtFrame),
			fmt.Sprintf("%.6f", result.TheoreticalPDFs.On[d]),
			fmt.Sprintf("%.6f", result.JetGridPDFs.On[d]),
			fmt.Sprintf("%.6f", result.TheoreticalPDFs.Off[d]),
			fmt.Sprintf("%.6f", result.JetGridPDFs.Off[d]),
		})
	}
	table.Render()
}

func meanOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func countFalse(bs []bool) int {
	n := 0
	for _, b := range bs {
		if !b {
			n++
		}
	}
	return n
}
