package export

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/facturio/siret-cli/internal/model"
)

func TestReadInputs(t *testing.T) {
	t.Parallel()

	in := strings.NewReader(`identifier,company_name,invoice_id,role
652014051,Boulangerie Dupont,inv-1,supplier
65201405100016,,inv-2,customer
`)
	ins, err := ReadInputs(in)
	require.NoError(t, err)
	require.Len(t, ins, 2)

	assert.Equal(t, "652014051", ins[0].Identifier)
	assert.Equal(t, "Boulangerie Dupont", ins[0].CompanyName)
	assert.Equal(t, "inv-1", ins[0].InvoiceID)
	assert.Equal(t, model.RoleSupplier, ins[0].Role)
	assert.Equal(t, model.RoleCustomer, ins[1].Role)
}

func TestReadInputs_FrenchHeader(t *testing.T) {
	t.Parallel()

	in := strings.NewReader("identifiant,facture\n652 014 051,F-2024-001\n")
	ins, err := ReadInputs(in)
	require.NoError(t, err)
	require.Len(t, ins, 1)
	assert.Equal(t, "652 014 051", ins[0].Identifier)
	assert.Equal(t, "F-2024-001", ins[0].InvoiceID)
}

func TestReadInputs_MissingIdentifierColumn(t *testing.T) {
	t.Parallel()

	_, err := ReadInputs(strings.NewReader("company,invoice\nfoo,bar\n"))
	assert.Error(t, err)
}

func TestReadInputs_Empty(t *testing.T) {
	t.Parallel()

	_, err := ReadInputs(strings.NewReader(""))
	assert.Error(t, err)
}

func sampleResults() []*model.ValidationResult {
	return []*model.ValidationResult{
		{
			Original:        "652 014 051",
			Cleaned:         "652014051",
			StructuralValid: true,
			RegistryStatus:  model.RegistryActive,
			Correction:      model.CorrectionNotNeeded,
			BlockingLevel:   model.BlockingNone,
			TrafficLight:    model.LightGreen,
			Message:         "Identifiant vérifié.",
			InvoiceID:       "inv-1",
			Role:            model.RoleSupplier,
		},
		{
			Original:        "65201405I",
			Cleaned:         "652014051",
			StructuralValid: true,
			Correction:      model.CorrectionSucceeded,
			BlockingLevel:   model.BlockingWarn,
			TrafficLight:    model.LightYellow,
			Message:         "Identifiant corrigé automatiquement.",
			Notes:           []string{"correction automatique"},
		},
		{
			Original:      "12345",
			Cleaned:       "12345",
			Correction:    model.CorrectionFailed,
			BlockingLevel: model.BlockingBlock,
			TrafficLight:  model.LightRed,
			ExportBlocked: true,
			Message:       "Identifiant invalide.",
		},
	}
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleResults()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, reportHeader, records[0])
	assert.Equal(t, "652 014 051", records[1][0])
	assert.Equal(t, "vert", records[1][3])
	// Only corrected identifiers carry a corrected value.
	assert.Empty(t, records[1][1])
	assert.Equal(t, "652014051", records[2][1])
	assert.Equal(t, "blocage", records[3][4])
	assert.Equal(t, "true", records[3][5])
}

func TestWriteXLSX(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteXLSX(path, sampleResults()))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.NotEmpty(t, f.Sheets)

	sheet := f.Sheets[0]
	assert.Equal(t, "Validation", sheet.Name)
	require.Len(t, sheet.Rows, 4)
	assert.Equal(t, "identifiant", sheet.Rows[0].Cells[0].String())
	assert.Equal(t, "652 014 051", sheet.Rows[1].Cells[0].String())
	assert.Equal(t, "rouge", sheet.Rows[3].Cells[3].String())
}
