package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
)

const maxBodySize = 1 << 20 // 1 MiB

// validationError marks a client-side input problem. Handlers map it to
// a 400 response with the message as body.
type validationError struct {
	message string
}

func (e *validationError) Error() string { return e.message }

func invalidInput(format string, args ...any) error {
	return &validationError{message: fmt.Sprintf(format, args...)}
}

// decodeJSON reads the request body into dst, rejecting oversized bodies,
// malformed JSON and unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		switch {
		case errors.Is(err, io.EOF):
			return invalidInput("Request body is empty")
		case errors.As(err, new(*http.MaxBytesError)):
			return invalidInput("Request body too large")
		default:
			return invalidInput("Invalid request body")
		}
	}
	if dec.More() {
		return invalidInput("Request body must contain a single JSON object")
	}
	return nil
}

// parseAmount accepts either a JSON number or a numeric string, the two
// shapes clients send for money values. The result is positive and
// rounded to two fractional digits.
func parseAmount(raw json.RawMessage) (decimal.Decimal, error) {
	if len(raw) == 0 {
		return decimal.Decimal{}, invalidInput("Amount is required")
	}

	text := strings.TrimSpace(string(raw))
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Decimal{}, invalidInput("Invalid amount")
		}
		text = strings.TrimSpace(s)
	}

	amount, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, invalidInput("Invalid amount")
	}
	if !amount.IsPositive() {
		return decimal.Decimal{}, invalidInput("Amount must be positive")
	}
	return amount.Round(2), nil
}
