package spreadsheet

import (
	"strings"
	"unicode"

	"firewatch/internal/domain/actionplan"
)

type column string

const (
	colAssetID         column = "asset_id"
	colFamily          column = "family"
	colLocation        column = "location"
	colServiceDate     column = "service_date"
	colServiceLevel    column = "service_level"
	colApproved        column = "approved"
	colObservation     column = "observation"
	colActionPlan      column = "action_plan"
	colNextInspection  column = "next_inspection"
	colNextTier2       column = "next_tier2"
	colNextTier3       column = "next_tier3"
	colNextHydrostatic column = "next_hydrostatic"
	colRecordedBy      column = "recorded_by"
)

// exportColumns is the header row written on export, in order.
var exportColumns = []struct {
	name  column
	title string
	width float64
}{
	{colAssetID, "Asset ID", 16},
	{colFamily, "Family", 14},
	{colLocation, "Location", 24},
	{colServiceDate, "Service Date", 14},
	{colServiceLevel, "Service Level", 20},
	{colApproved, "Approved", 10},
	{colObservation, "Observation", 40},
	{colActionPlan, "Action Plan", 48},
	{colNextInspection, "Next Inspection", 16},
	{colNextTier2, "Next Tier2", 14},
	{colNextTier3, "Next Tier3", 14},
	{colNextHydrostatic, "Next Hydrostatic", 16},
	{colRecordedBy, "Recorded By", 16},
}

var requiredColumns = []column{colAssetID, colServiceDate, colServiceLevel}

// headerAliases maps a normalised header cell to its column. Legacy unit sheets use Portuguese headers.
var headerAliases = map[string]column{
	"asset_id":              colAssetID,
	"asset":                 colAssetID,
	"id":                    colAssetID,
	"id_equipamento":        colAssetID,
	"equipamento":           colAssetID,
	"numero_identificacao":  colAssetID,
	"family":                colFamily,
	"familia":               colFamily,
	"tipo_equipamento":      colFamily,
	"location":              colLocation,
	"local":                 colLocation,
	"localizacao":           colLocation,
	"service_date":          colServiceDate,
	"date":                  colServiceDate,
	"data":                  colServiceDate,
	"data_servico":          colServiceDate,
	"data_inspecao":         colServiceDate,
	"service_level":         colServiceLevel,
	"level":                 colServiceLevel,
	"nivel_servico":         colServiceLevel,
	"tipo_servico":          colServiceLevel,
	"approved":              colApproved,
	"aprovado":              colApproved,
	"observation":           colObservation,
	"observations":          colObservation,
	"observacao":            colObservation,
	"observacoes":           colObservation,
	"obs":                   colObservation,
	"action_plan":           colActionPlan,
	"plano_acao":            colActionPlan,
	"plano_de_acao":         colActionPlan,
	"next_inspection":       colNextInspection,
	"proxima_inspecao":      colNextInspection,
	"next_tier2":            colNextTier2,
	"proxima_manut_n2":      colNextTier2,
	"proxima_manutencao_n2": colNextTier2,
	"next_tier3":            colNextTier3,
	"proxima_manut_n3":      colNextTier3,
	"proxima_manutencao_n3": colNextTier3,
	"next_hydrostatic":      colNextHydrostatic,
	"proximo_teste_hidro":   colNextHydrostatic,
	"proximo_ensaio_hidro":  colNextHydrostatic,
	"recorded_by":           colRecordedBy,
	"responsavel":           colRecordedBy,
	"inspetor":              colRecordedBy,
}

// normalizeHeader folds accents and case and collapses separators to single underscores.
func normalizeHeader(raw string) string {
	folded := strings.ToLower(actionplan.Fold(strings.TrimSpace(raw)))
	var b strings.Builder
	pendingSep := false
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

func lookupColumn(header string) (column, bool) {
	col, ok := headerAliases[normalizeHeader(header)]
	return col, ok
}
