package commons

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "storefront/internal/errors"
)

// QueryInt reads an integer query parameter, returning def when it is absent.
func QueryInt(r *http.Request, key string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewValidationError("invalid query parameter", apperrors.ValidationDetail{
			Field:   key,
			Message: "must be an integer",
		})
	}
	return n, nil
}

// QueryDecimal reads an optional decimal query parameter.
func QueryDecimal(r *http.Request, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid query parameter", apperrors.ValidationDetail{
			Field:   key,
			Message: "must be a number",
		})
	}
	return &d, nil
}
