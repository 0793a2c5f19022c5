package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/facturio/siret-cli/internal/model"
	"github.com/facturio/siret-cli/internal/store"
)

var (
	auditLevel   string
	auditInvoice string
	auditSince   string
	auditLimit   int
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "List recorded validation events",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("audit"); err != nil {
			return err
		}

		ctx := cmd.Context()
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		filter := store.EventFilter{
			BlockingLevel: model.BlockingLevel(auditLevel),
			InvoiceID:     auditInvoice,
			Limit:         auditLimit,
		}
		if auditSince != "" {
			d, err := time.ParseDuration(auditSince)
			if err != nil {
				return eris.Wrapf(err, "parse --since %q", auditSince)
			}
			filter.Since = time.Now().UTC().Add(-d)
		}

		events, err := st.ListEvents(ctx, filter)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(events)
	},
}

func init() {
	auditCmd.Flags().StringVar(&auditLevel, "level", "", "filter by blocking level: none, warn or block")
	auditCmd.Flags().StringVar(&auditInvoice, "invoice", "", "filter by invoice ID")
	auditCmd.Flags().StringVar(&auditSince, "since", "", "only events newer than this duration, e.g. 24h")
	auditCmd.Flags().IntVar(&auditLimit, "limit", 100, "maximum number of events")
	rootCmd.AddCommand(auditCmd)
}
