package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturio/siret-cli/internal/model"
	"github.com/facturio/siret-cli/pkg/anthropic"
)

// fakeClient returns a canned response.
type fakeClient struct {
	resp *anthropic.MessageResponse
	err  error
	req  anthropic.MessageRequest
}

func (f *fakeClient) CreateMessage(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	f.req = req
	return f.resp, f.err
}

func textResponse(s string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{Content: []anthropic.ContentBlock{{Type: "text", Text: s}}}
}

func TestExtract(t *testing.T) {
	t.Parallel()

	client := &fakeClient{resp: textResponse(
		`[{"identifier": "652 014 051 00016", "company_name": "Boulangerie Dupont", "invoice_id": "F-2024-001", "role": "supplier"}]`,
	)}
	e := NewExtractor(client, "claude-haiku-4-5-20251001")

	ins, err := e.Extract(context.Background(), "FACTURE ...")
	require.NoError(t, err)
	require.Len(t, ins, 1)

	assert.Equal(t, "652 014 051 00016", ins[0].Identifier)
	assert.Equal(t, "Boulangerie Dupont", ins[0].CompanyName)
	assert.Equal(t, model.RoleSupplier, ins[0].Role)
	assert.Equal(t, "claude-haiku-4-5-20251001", client.req.Model)
	require.NotEmpty(t, client.req.Messages)
	assert.Equal(t, "FACTURE ...", client.req.Messages[0].Content)
}

func TestExtract_FencedResponse(t *testing.T) {
	t.Parallel()

	client := &fakeClient{resp: textResponse("```json\n[{\"identifier\": \"652014051\"}]\n```")}
	e := NewExtractor(client, "m")

	ins, err := e.Extract(context.Background(), "doc")
	require.NoError(t, err)
	require.Len(t, ins, 1)
	assert.Equal(t, "652014051", ins[0].Identifier)
}

func TestExtract_EmptyDocument(t *testing.T) {
	t.Parallel()

	client := &fakeClient{resp: textResponse("[]")}
	e := NewExtractor(client, "m")

	ins, err := e.Extract(context.Background(), "doc")
	require.NoError(t, err)
	assert.Empty(t, ins)
}

func TestExtract_ClientError(t *testing.T) {
	t.Parallel()

	client := &fakeClient{err: assert.AnError}
	e := NewExtractor(client, "m")

	_, err := e.Extract(context.Background(), "doc")
	assert.Error(t, err)
}

func TestExtract_MalformedResponse(t *testing.T) {
	t.Parallel()

	client := &fakeClient{resp: textResponse("je ne peux pas répondre en JSON")}
	e := NewExtractor(client, "m")

	_, err := e.Extract(context.Background(), "doc")
	assert.Error(t, err)
}

func TestStripFences(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "[]", stripFences("```json\n[]\n```"))
	assert.Equal(t, "[]", stripFences("```\n[]\n```"))
	assert.Equal(t, "[]", stripFences("  [] "))
	assert.Equal(t, "", stripFences(""))
}
