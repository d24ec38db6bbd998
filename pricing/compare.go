package pricing

import (
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrMissingAddress is returned when the origin or destination is empty.
var ErrMissingAddress = errors.New("from and to are required")

// Request describes the package to compare prices for.
type Request struct {
	// Weight is the actual weight in kg, defaults to 1
	Weight float64 `json:"weight,omitempty" yaml:"weight,omitempty"`
	Dimensions
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// CompareAll estimates the price of every known courier and returns
// the quotes sorted by price, keeping the table order on ties.
func CompareAll(req *Request) ([]*PriceQuote, error) {
	from := strings.TrimSpace(req.From)
	to := strings.TrimSpace(req.To)
	if from == "" || to == "" {
		return nil, errors.WithStack(ErrMissingAddress)
	}
	weight := req.Weight
	if weight <= 0 {
		weight = 1
	}

	quotes := make([]*PriceQuote, 0, len(couriers))
	for _, c := range couriers {
		vw := VolumetricWeight(c.Name, req.Dimensions)
		q, err := Estimate(c.Name, weight, vw, from, to)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}

	slices.SortStableFunc(quotes, func(a, b *PriceQuote) int {
		return a.Price.Cmp(b.Price)
	})
	return quotes, nil
}
