package models

// CompanyRecord is a registration record as returned by ReceitaWS, decoded as
// generic JSON. The shape is controlled by the API and any field may be
// missing, so callers look fields up by key instead of binding to a struct.
type CompanyRecord map[string]any

// FieldNames lists the columns written to the output sheet, in order. The
// names match the ReceitaWS payload keys.
var FieldNames = []string{
	"cnpj",
	"nome",
	"telefone",
	"email",
	"logradouro",
	"bairro",
	"municipio",
	"uf",
	"cep",
	"atividade_principal",
}

// FormattedRow holds the ten fields kept from a registry record. Fields the
// registry did not return are empty strings.
type FormattedRow struct {
	CNPJ               string
	Nome               string
	Telefone           string
	Email              string
	Logradouro         string
	Bairro             string
	Municipio          string
	UF                 string
	CEP                string
	AtividadePrincipal string
}

// Values returns the cell values in FieldNames order.
func (r FormattedRow) Values() []interface{} {
	return []interface{}{
		r.CNPJ,
		r.Nome,
		r.Telefone,
		r.Email,
		r.Logradouro,
		r.Bairro,
		r.Municipio,
		r.UF,
		r.CEP,
		r.AtividadePrincipal,
	}
}
