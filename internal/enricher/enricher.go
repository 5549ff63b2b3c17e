package enricher

import (
	"fmt"

	"github.com/Jhonyc92/busca-cnpj-em-lote/internal/models"
	"github.com/Jhonyc92/busca-cnpj-em-lote/internal/receitaws"
)

type ProgressCallback func(current, total int, msg string)
type LoggerCallback func(msg string)

// FormatRecord projects a registry record down to the ten persisted fields,
// defaulting to empty strings for anything missing. atividade_principal comes
// back as a list of {code, text} objects; only the text of the first entry is
// kept.
func FormatRecord(empresa models.CompanyRecord) models.FormattedRow {
	get := func(key string) string {
		s, _ := empresa[key].(string)
		return s
	}

	row := models.FormattedRow{
		CNPJ:       get("cnpj"),
		Nome:       get("nome"),
		Telefone:   get("telefone"),
		Email:      get("email"),
		Logradouro: get("logradouro"),
		Bairro:     get("bairro"),
		Municipio:  get("municipio"),
		UF:         get("uf"),
		CEP:        get("cep"),
	}

	if atividades, ok := empresa["atividade_principal"].([]any); ok && len(atividades) > 0 {
		if first, ok := atividades[0].(map[string]any); ok {
			row.AtividadePrincipal, _ = first["text"].(string)
		}
	}

	return row
}

// EnrichAll looks up every CNPJ sequentially and collects the formatted rows.
// Identifiers the registry has no data for are skipped; output order follows
// input order. A lookup that fails hard (malformed 200 response) aborts the
// whole batch.
func EnrichAll(client *receitaws.Client, cnpjs []string, onProgress ProgressCallback, logger LoggerCallback) ([]models.FormattedRow, error) {
	total := len(cnpjs)
	var rows []models.FormattedRow

	for i, raw := range cnpjs {
		if logger != nil {
			logger(fmt.Sprintf("Lendo CNPJ: %s", raw))
		}

		empresa, err := client.Lookup(raw)
		if err != nil {
			return nil, err
		}
		if empresa != nil {
			rows = append(rows, FormatRecord(empresa))
		}

		if onProgress != nil {
			onProgress(i+1, total, "")
		}
	}

	return rows, nil
}
