package receitaws

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/Jhonyc92/busca-cnpj-em-lote/internal/cnpj"
	"github.com/Jhonyc92/busca-cnpj-em-lote/internal/models"
)

// DefaultBaseURL points at the public ReceitaWS API.
const DefaultBaseURL = "https://www.receitaws.com.br"

// Client queries the ReceitaWS company registry.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// Logger receives one diagnostic line per lookup. Defaults to log.Printf.
	Logger func(msg string)
}

// New builds a client for the given base URL, falling back to the public API
// when baseURL is empty.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *Client) logf(format string, args ...any) {
	if c.Logger != nil {
		c.Logger(fmt.Sprintf(format, args...))
		return
	}
	log.Printf(format, args...)
}

// Lookup fetches the registration record for one CNPJ, normalizing it first.
// It returns (nil, nil) whenever the registry has no data: connection
// failure, non-200 status, or a payload carrying the "status": "ERROR"
// sentinel. A 200 response whose body does not decode as JSON is returned as
// an error, since that indicates a broken API rather than a missing record.
func (c *Client) Lookup(rawCNPJ string) (models.CompanyRecord, error) {
	digits := cnpj.Normalize(rawCNPJ)

	resp, err := c.HTTPClient.Get(c.BaseURL + "/v1/cnpj/" + digits)
	if err != nil {
		c.logf("Processando CNPJ %s: falha de conexão (%v)", digits, err)
		return nil, nil
	}
	defer resp.Body.Close()

	c.logf("Processando CNPJ %s: Status %d", digits, resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response for CNPJ %s: %w", digits, err)
	}

	var empresa models.CompanyRecord
	if err := json.Unmarshal(body, &empresa); err != nil {
		return nil, fmt.Errorf("decoding response for CNPJ %s: %w", digits, err)
	}

	if status, ok := empresa["status"].(string); ok && status == "ERROR" {
		msg, _ := empresa["message"].(string)
		if msg == "" {
			msg = "Sem mensagem de erro"
		}
		c.logf("Erro ao buscar dados para o CNPJ %s: %s", digits, msg)
		return nil, nil
	}

	return empresa, nil
}
