package postal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dukerupert/wagsales/internal/domain"
)

// DefaultBaseURL is the public ViaCEP endpoint.
const DefaultBaseURL = "https://viacep.com.br/ws"

// MaxResponseBytes caps how much of a ViaCEP reply is read. Real replies are
// well under 1KB.
const MaxResponseBytes = 64 << 10

// ViaCEP implements Lookup using the ViaCEP web service.
type ViaCEP struct {
	baseURL string
	client  *http.Client
}

type viaCEPResponse struct {
	CEP         string `json:"cep"`
	Logradouro  string `json:"logradouro"`
	Complemento string `json:"complemento"`
	Bairro      string `json:"bairro"`
	Localidade  string `json:"localidade"`
	UF          string `json:"uf"`
	Erro        any    `json:"erro"`
}

// NewViaCEP creates a client for baseURL ("" for DefaultBaseURL).
// A non-positive timeout leaves requests bounded only by their context.
func NewViaCEP(baseURL string, timeout time.Duration) *ViaCEP {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := &http.Client{}
	if timeout > 0 {
		client.Timeout = timeout
	}
	return &ViaCEP{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// Lookup implements Lookup.
func (v *ViaCEP) Lookup(ctx context.Context, code string) (*domain.Address, error) {
	cep, err := Normalize(code)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s/json/", v.baseURL, cep), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, domain.WrapError(err, domain.EUNAVAILABLE, "postal.lookup", "postal code service unavailable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(body) > MaxResponseBytes {
		return nil, domain.WrapError(
			fmt.Errorf("viacep response exceeds %d bytes", MaxResponseBytes),
			domain.EUNAVAILABLE, "postal.lookup", "postal code service unavailable")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, domain.WrapError(
			fmt.Errorf("viacep status %d: %s", resp.StatusCode, string(body)),
			domain.EUNAVAILABLE, "postal.lookup", "postal code service unavailable")
	}

	var result viaCEPResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	// ViaCEP answers unknown codes with 200 and {"erro": true} (older
	// deployments send the string "true").
	if result.Erro != nil && result.Erro != false {
		return nil, ErrNotFound
	}

	return &domain.Address{
		PostalCode:   cep,
		Street:       result.Logradouro,
		Complement:   result.Complemento,
		Neighborhood: result.Bairro,
		City:         result.Localidade,
		State:        result.UF,
	}, nil
}
