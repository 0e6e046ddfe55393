package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"hotel_backoffice/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report JSON field names in errors
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

const maxBody = 1 << 20

// decode reads a JSON body into dst and runs its validate tags.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.Validation(domain.CodeInvalidInput, "malformed JSON body: %v", err)
	}
	return check(dst)
}

func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return domain.Validation(domain.CodeInvalidInput, "%v", err)
	}
	msgs := make([]string, 0, len(ves))
	for _, fe := range ves {
		msg := fe.Field() + " failed " + fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		msgs = append(msgs, msg)
	}
	return domain.Validation(domain.CodeInvalidInput, "%s", strings.Join(msgs, "; "))
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Validation(domain.CodeInvalidInput, "%s must be a positive integer", name)
	}
	return id, nil
}

// query reads optional typed query parameters, remembering the first error.
type query struct {
	r   *http.Request
	err error
}

func (q *query) str(k string) string { return strings.TrimSpace(q.r.URL.Query().Get(k)) }

func (q *query) fail(k, want string) {
	if q.err == nil {
		q.err = domain.Validation(domain.CodeInvalidInput, "query parameter %s must be %s", k, want)
	}
}

func (q *query) int(k string, def int) int {
	v := q.str(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		q.fail(k, "a non-negative integer")
	}
	return n
}

func (q *query) intPtr(k string) *int {
	if q.str(k) == "" {
		return nil
	}
	n := q.int(k, 0)
	return &n
}

func (q *query) id(k string) *int64 {
	v := q.str(k)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		q.fail(k, "a positive integer")
	}
	return &n
}

func (q *query) float(k string) *float64 {
	v := q.str(k)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		q.fail(k, "a non-negative number")
	}
	return &f
}

func (q *query) bool(k string) *bool {
	v := q.str(k)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		q.fail(k, "true or false")
	}
	return &b
}

func (q *query) date(k string, required bool) time.Time {
	v := q.str(k)
	if v == "" {
		if required {
			q.fail(k, "a date (YYYY-MM-DD)")
		}
		return time.Time{}
	}
	d, err := domain.ParseDate(v)
	if err != nil {
		q.fail(k, "a date (YYYY-MM-DD)")
	}
	return d
}

// page reads skip and limit; the services clamp limit.
func (q *query) page() (skip, limit int) {
	return q.int("skip", 0), q.int("limit", 100)
}

// mustDate parses a value already checked by a datetime=2006-01-02 tag.
func mustDate(s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(fmt.Sprintf("unchecked date %q: %v", s, err))
	}
	return d
}

func optDate(s *string) *time.Time {
	if s == nil {
		return nil
	}
	d := mustDate(*s)
	return &d
}

func dateStr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(domain.DateLayout)
	return &s
}

type pageResponse[T any] struct {
	Total int `json:"total"`
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
	Items []T `json:"items"`
}

func toPage[In, Out any](total, skip, limit int, in []In, conv func(In) Out) pageResponse[Out] {
	return pageResponse[Out]{Total: total, Skip: skip, Limit: limit, Items: mapSlice(in, conv)}
}

func mapSlice[In, Out any](in []In, conv func(In) Out) []Out {
	out := make([]Out, 0, len(in))
	for _, x := range in {
		out = append(out, conv(x))
	}
	return out
}
