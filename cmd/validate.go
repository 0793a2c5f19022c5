package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/facturio/siret-cli/internal/model"
)

var (
	validateName    string
	validateInvoice string
	validateRole    string
	validateJSON    bool
)

var validateCmd = &cobra.Command{
	Use:   "validate <identifier>...",
	Short: "Validate one or more SIREN/SIRET identifiers",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("validate"); err != nil {
			return err
		}

		ctx := cmd.Context()
		env, err := initValidator(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		ins := make([]model.Input, len(args))
		for i, arg := range args {
			ins[i] = model.Input{
				Identifier:  arg,
				CompanyName: validateName,
				InvoiceID:   validateInvoice,
				Role:        model.Role(validateRole),
			}
		}
		results := env.Validator.ValidateMany(ctx, ins)

		if validateJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		}

		blocked := false
		for _, res := range results {
			printResult(cmd, res)
			blocked = blocked || res.ExportBlocked
		}
		if blocked {
			return eris.New("export bloqué : au moins un identifiant invalide")
		}
		return nil
	},
}

func printResult(cmd *cobra.Command, res *model.ValidationResult) {
	cmd.Printf("%s  %s\n", lightSymbol(res.TrafficLight), res.Original)
	if res.Correction == model.CorrectionSucceeded {
		cmd.Printf("   corrigé en : %s\n", res.Cleaned)
	}
	if res.Denomination != "" {
		cmd.Printf("   dénomination : %s\n", res.Denomination)
	}
	cmd.Printf("   %s\n", res.Message)
	for _, note := range res.Notes {
		cmd.Printf("   - %s\n", note)
	}
}

func lightSymbol(l model.TrafficLight) string {
	switch l {
	case model.LightGreen:
		return "[VERT]"
	case model.LightYellow:
		return "[ORANGE]"
	case model.LightRed:
		return "[ROUGE]"
	}
	return fmt.Sprintf("[%s]", strings.ToUpper(string(l)))
}

func init() {
	validateCmd.Flags().StringVar(&validateName, "name", "", "company name to cross-check against the registry")
	validateCmd.Flags().StringVar(&validateInvoice, "invoice", "", "invoice ID recorded on audit events")
	validateCmd.Flags().StringVar(&validateRole, "role", "", "party role: supplier or customer")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "print results as JSON")
	rootCmd.AddCommand(validateCmd)
}
