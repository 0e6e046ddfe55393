package domain

import "github.com/shopspring/decimal"

// Quote is the priced breakdown of a stay.
type Quote struct {
	Total    float64
	Discount float64
	Tax      float64
	Final    float64
}

// Price computes total = rate*nights, tax on (total-discount), and the
// final amount rounded half-up to cents. Discount is a flat amount.
func Price(rate float64, nights int, discount, taxPercent float64) (Quote, error) {
	switch {
	case rate < 0:
		return Quote{}, Validation(CodeInvalidInput, "nightly rate must not be negative")
	case nights < 1:
		return Quote{}, Validation(CodeInvalidInput, "nights must be at least 1")
	case discount < 0:
		return Quote{}, Validation(CodeInvalidInput, "discount must not be negative")
	case taxPercent < 0 || taxPercent > 100:
		return Quote{}, Validation(CodeInvalidInput, "tax percentage must be between 0 and 100")
	}

	total := decimal.NewFromFloat(rate).Mul(decimal.NewFromInt(int64(nights)))
	disc := decimal.NewFromFloat(discount)
	if disc.GreaterThan(total) {
		return Quote{}, Validation(CodeInvalidInput, "discount exceeds the stay total")
	}
	subtotal := total.Sub(disc)
	tax := subtotal.Mul(decimal.NewFromFloat(taxPercent)).Div(decimal.NewFromInt(100))
	// decimal.Round rounds half away from zero, which is half-up for non-negative amounts.
	final := subtotal.Add(tax).Round(2)

	return Quote{
		Total:    total.InexactFloat64(),
		Discount: disc.InexactFloat64(),
		Tax:      tax.InexactFloat64(),
		Final:    final.InexactFloat64(),
	}, nil
}
