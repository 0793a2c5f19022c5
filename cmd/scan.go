package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/facturio/siret-cli/internal/extract"
	"github.com/facturio/siret-cli/internal/model"
	"github.com/facturio/siret-cli/pkg/anthropic"
)

var (
	scanFile string
	scanLLM  bool
	scanJSON bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Extract and validate identifiers from a document",
	Long:  "Scans raw document text for SIREN/SIRET-shaped tokens and validates each one. With --llm, a Claude model reads the document instead of the regex scanner, which copes better with mangled OCR output.",
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := "validate"
		if scanLLM {
			mode = "extract"
		}
		if err := cfg.Validate(mode); err != nil {
			return err
		}

		ctx := cmd.Context()
		raw, err := os.ReadFile(scanFile)
		if err != nil {
			return eris.Wrapf(err, "read document %s", scanFile)
		}

		var ins []model.Input
		if scanLLM {
			extractor := extract.NewExtractor(anthropic.NewClient(cfg.Anthropic.Key), cfg.Anthropic.Model)
			ins, err = extractor.Extract(ctx, string(raw))
			if err != nil {
				return err
			}
		} else {
			for _, hit := range extract.Scan(string(raw)) {
				ins = append(ins, model.Input{Identifier: hit.Raw})
			}
		}
		if len(ins) == 0 {
			cmd.Println("aucun identifiant trouvé dans le document")
			return nil
		}
		zap.L().Info("identifiers extracted",
			zap.String("document", scanFile),
			zap.Int("count", len(ins)),
			zap.Bool("llm", scanLLM),
		)

		env, err := initValidator(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		results := env.Validator.ValidateMany(ctx, ins)
		if scanJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		}
		for _, res := range results {
			printResult(cmd, res)
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().StringVar(&scanFile, "file", "", "document text file (required)")
	scanCmd.Flags().BoolVar(&scanLLM, "llm", false, "use a Claude model instead of the regex scanner")
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "print results as JSON")
	_ = scanCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(scanCmd)
}
