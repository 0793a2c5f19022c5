package extract

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/facturio/siret-cli/internal/model"
	"github.com/facturio/siret-cli/pkg/anthropic"
)

const extractSystemPrompt = `Tu extrais les identifiants d'entreprises françaises (SIREN et SIRET) d'un document de facturation.

Réponds uniquement avec un tableau JSON. Chaque élément a la forme :
{"identifier": "...", "company_name": "...", "invoice_id": "...", "role": "supplier"|"customer"}

Recopie les identifiants exactement tels qu'ils apparaissent, fautes d'OCR comprises. N'invente jamais d'identifiant. Tableau vide si le document n'en contient aucun.`

// Extractor asks a model to read identifiers out of a document. It is the
// fallback for documents the regex scanner mangles: crooked scans, photos,
// multi-column layouts.
type Extractor struct {
	client anthropic.Client
	model  string
}

// NewExtractor creates an Extractor using the given model.
func NewExtractor(client anthropic.Client, model string) *Extractor {
	return &Extractor{client: client, model: model}
}

// Extract returns the identifiers the model found in document, with their
// invoice context. The identifiers are raw; validation happens downstream.
func (e *Extractor) Extract(ctx context.Context, document string) ([]model.Input, error) {
	resp, err := e.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     e.model,
		MaxTokens: 2048,
		System:    []anthropic.SystemBlock{{Text: extractSystemPrompt}},
		Messages: []anthropic.Message{
			{Role: "user", Content: document},
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "extract: create message")
	}
	resp.Usage.LogUsage(e.model, "extract")

	text := stripFences(resp.Text())
	if text == "" {
		return nil, eris.New("extract: empty model response")
	}

	var ins []model.Input
	if err := json.Unmarshal([]byte(text), &ins); err != nil {
		return nil, eris.Wrap(err, "extract: parse model response")
	}
	return ins, nil
}

// stripFences removes a surrounding markdown code fence, if any.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
