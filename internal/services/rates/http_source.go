package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// HTTPSource fetches tables from an exchangerate-api compatible endpoint:
// GET {baseURL}/v6/{apiKey}/latest/{base}
type HTTPSource struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

type latestResponse struct {
	Result          string             `json:"result"`
	ErrorType       string             `json:"error-type"`
	BaseCode        string             `json:"base_code"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
}

func NewHTTPSource(baseURL, apiKey string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *HTTPSource) GetRates(ctx context.Context, base string) (Table, error) {
	url := fmt.Sprintf("%s/v6/%s/latest/%s", s.baseURL, s.apiKey, base)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrSourceUnavailable, resp.StatusCode)
	}

	var body latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrSourceUnavailable, err)
	}
	if body.Result != "success" {
		return nil, fmt.Errorf("%w: %s", ErrSourceUnavailable, body.ErrorType)
	}
	if len(body.ConversionRates) == 0 {
		return nil, fmt.Errorf("%w: empty rate table", ErrSourceUnavailable)
	}

	return Table(body.ConversionRates), nil
}
