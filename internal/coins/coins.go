// Package coins parses simple-price API responses.
package coins

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Quote is one coin price in one currency.
type Quote struct {
	ID       string  `json:"id"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
}

// PriceData is the fixed-point record emitted for downstream consumers,
// with the price scaled to six decimal places.
type PriceData struct {
	ID       string `json:"id"`
	Price    uint64 `json:"price"`
	Currency string `json:"currency"`
}

// Scaled converts the quote to its fixed-point form.
func (q Quote) Scaled() PriceData {
	return PriceData{ID: q.ID, Price: uint64(q.Price * 1_000_000), Currency: q.Currency}
}

// apiError is the error shape the price API returns on failure.
type apiError struct {
	Status struct {
		ErrorCode    int    `json:"error_code"`
		ErrorMessage string `json:"error_message"`
	} `json:"status"`
}

// Parse extracts the quote for coin/currency from a simple-price
// response body. API-level failures (the error shape) and unrecognized
// payloads are reported as errors.
func Parse(body []byte, coin, currency string) (Quote, error) {
	var prices map[string]map[string]float64
	if err := json.Unmarshal(body, &prices); err == nil {
		if price, ok := prices[coin][currency]; ok {
			return Quote{ID: coin, Price: price, Currency: currency}, nil
		}
	}

	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Status.ErrorMessage != "" {
		return Quote{}, errors.Errorf("api error %d: %s", apiErr.Status.ErrorCode, apiErr.Status.ErrorMessage)
	}
	return Quote{}, errors.Errorf("unrecognized response: %s", body)
}
