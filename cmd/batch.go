package main

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/facturio/siret-cli/internal/export"
	"github.com/facturio/siret-cli/internal/model"
)

var (
	batchInput  string
	batchOutput string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Validate identifiers from a CSV file and write a report",
	Long:  "Reads a CSV with an identifier column (plus optional company_name, invoice_id, role), validates every row and writes a CSV or XLSX report chosen by the output extension.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("batch"); err != nil {
			return err
		}

		ctx := cmd.Context()
		env, err := initValidator(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		f, err := os.Open(batchInput)
		if err != nil {
			return eris.Wrapf(err, "open input %s", batchInput)
		}
		ins, err := export.ReadInputs(f)
		_ = f.Close()
		if err != nil {
			return err
		}
		if len(ins) == 0 {
			return eris.New("input file has no rows")
		}

		results := env.Validator.ValidateMany(ctx, ins)

		var counts [3]int
		for _, res := range results {
			switch res.BlockingLevel {
			case model.BlockingNone:
				counts[0]++
			case model.BlockingWarn:
				counts[1]++
			case model.BlockingBlock:
				counts[2]++
			}
		}
		zap.L().Info("batch validation complete",
			zap.Int("total", len(results)),
			zap.Int("passed", counts[0]),
			zap.Int("warned", counts[1]),
			zap.Int("blocked", counts[2]),
		)

		if err := writeReport(batchOutput, results); err != nil {
			return err
		}
		cmd.Printf("%d identifiants validés : %d verts, %d oranges, %d rouges → %s\n",
			len(results), counts[0], counts[1], counts[2], batchOutput)
		return nil
	},
}

func writeReport(path string, results []*model.ValidationResult) error {
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return export.WriteXLSX(path, results)
	}
	out, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "create output %s", path)
	}
	defer out.Close() //nolint:errcheck
	return export.WriteCSV(out, results)
}

func init() {
	batchCmd.Flags().StringVar(&batchInput, "input", "", "input CSV file (required)")
	batchCmd.Flags().StringVar(&batchOutput, "output", "report.csv", "output report, .csv or .xlsx")
	_ = batchCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(batchCmd)
}
