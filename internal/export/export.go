// Package export reads batch input files and writes validation reports.
// Reports come in CSV and XLSX flavors with French column headers, matching
// what accounting teams feed back into their invoicing tools.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/facturio/siret-cli/internal/model"
)

// reportHeader is the column layout shared by the CSV and XLSX reports.
var reportHeader = []string{
	"identifiant",
	"identifiant_corrigé",
	"statut",
	"feu",
	"niveau_blocage",
	"export_bloqué",
	"statut_registre",
	"dénomination",
	"facture",
	"rôle",
	"message",
	"remarques",
}

// ReadInputs parses a batch input CSV. The first row must be a header
// carrying at least an "identifier" column; "company_name", "invoice_id"
// and "role" are optional.
func ReadInputs(r io.Reader) ([]model.Input, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, eris.New("export: input file is empty")
	}
	if err != nil {
		return nil, eris.Wrap(err, "export: read header")
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	idCol, ok := cols["identifier"]
	if !ok {
		// French headers are accepted too.
		if idCol, ok = cols["identifiant"]; !ok {
			return nil, eris.New("export: input file has no identifier column")
		}
	}
	field := func(record []string, names ...string) string {
		for _, name := range names {
			if i, ok := cols[name]; ok && i < len(record) {
				return strings.TrimSpace(record[i])
			}
		}
		return ""
	}

	var ins []model.Input
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "export: read row")
		}
		if idCol >= len(record) {
			continue
		}
		ins = append(ins, model.Input{
			Identifier:  strings.TrimSpace(record[idCol]),
			CompanyName: field(record, "company_name", "dénomination", "denomination"),
			InvoiceID:   field(record, "invoice_id", "facture"),
			Role:        model.Role(field(record, "role", "rôle")),
		})
	}
	return ins, nil
}

// WriteCSV writes the validation report as CSV.
func WriteCSV(w io.Writer, results []*model.ValidationResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(reportHeader); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	for _, res := range results {
		if err := cw.Write(reportRow(res)); err != nil {
			return eris.Wrap(err, "export: write csv row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}

// WriteXLSX writes the validation report as an XLSX workbook at path.
func WriteXLSX(path string, results []*model.ValidationResult) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Validation")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	row := sheet.AddRow()
	for _, name := range reportHeader {
		row.AddCell().SetString(name)
	}
	for _, res := range results {
		row := sheet.AddRow()
		for _, val := range reportRow(res) {
			row.AddCell().SetString(val)
		}
	}

	return eris.Wrapf(f.Save(path), "export: save xlsx %s", path)
}

func reportRow(res *model.ValidationResult) []string {
	corrected := ""
	if res.Correction == model.CorrectionSucceeded {
		corrected = res.Cleaned
	}
	return []string{
		res.Original,
		corrected,
		statusLabel(res),
		lightLabel(res.TrafficLight),
		levelLabel(res.BlockingLevel),
		boolLabel(res.ExportBlocked),
		string(res.RegistryStatus),
		res.Denomination,
		res.InvoiceID,
		string(res.Role),
		res.Message,
		strings.Join(res.Notes, " ; "),
	}
}

func statusLabel(res *model.ValidationResult) string {
	if res.StructuralValid {
		return "valide"
	}
	return "invalide"
}

func lightLabel(l model.TrafficLight) string {
	switch l {
	case model.LightGreen:
		return "vert"
	case model.LightYellow:
		return "orange"
	case model.LightRed:
		return "rouge"
	}
	return string(l)
}

func levelLabel(l model.BlockingLevel) string {
	switch l {
	case model.BlockingNone:
		return "aucun"
	case model.BlockingWarn:
		return "avertissement"
	case model.BlockingBlock:
		return "blocage"
	}
	return string(l)
}

func boolLabel(b bool) string {
	return strconv.FormatBool(b)
}
