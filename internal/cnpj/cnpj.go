package cnpj

import "strings"

// Normalize strips a CNPJ down to its decimal digits, preserving order.
// Spreadsheets usually carry the formatted form (12.345.678/0001-90) while
// the registry API only accepts the bare digit sequence. No length or check
// digit validation happens here.
func Normalize(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
