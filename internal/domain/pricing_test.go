package domain_test

import (
	"errors"
	"testing"

	"hotel_backoffice/internal/domain"
)

func TestPrice(t *testing.T) {
	cases := []struct {
		name                     string
		rate                     float64
		nights                   int
		discount, tax            float64
		total, disc, taxAmt, fin float64
	}{
		{"two nights 12%", 100, 2, 0, 12, 200, 0, 24, 224},
		{"flat discount", 150, 3, 50, 10, 450, 50, 40, 440},
		{"no tax", 99.99, 1, 0, 0, 99.99, 0, 0, 99.99},
		{"half-up cents", 33.35, 1, 0, 10, 33.35, 0, 3.335, 36.69},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := domain.Price(tc.rate, tc.nights, tc.discount, tc.tax)
			if err != nil {
				t.Fatalf("err: %v", err)
			}
			if q.Total != tc.total || q.Discount != tc.disc || q.Tax != tc.taxAmt || q.Final != tc.fin {
				t.Fatalf("unexpected quote: %+v", q)
			}
		})
	}
}

func TestPrice_RejectsNegativeInputs(t *testing.T) {
	for _, in := range [][2]float64{{-1, 0}, {0, -5}, {0, 101}, {500, 0}} {
		_, err := domain.Price(100, 2, in[0], in[1])
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("discount=%v tax=%v: expected validation error, got %v", in[0], in[1], err)
		}
	}
}
