package validate

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator"

	"github.com/ppiankov/bookrel/internal/graph"
)

// IngestURLRequest is the body of POST /ingest/url
type IngestURLRequest struct {
	BookID *int64 `json:"bookId" validate:"required"`
	URL    string `json:"url" validate:"required,source_url"`
}

// IngestTextRequest is the body of POST /ingest/text. An empty text is valid.
type IngestTextRequest struct {
	BookID *int64  `json:"bookId" validate:"required"`
	Text   *string `json:"text" validate:"required"`
}

// GraphQuery holds the optional filter and snapshot query parameters
type GraphQuery struct {
	FromChapter *int     `query:"fromChapter" validate:"omitempty,min=1"`
	ToChapter   *int     `query:"toChapter" validate:"omitempty,min=1"`
	MinWeight   *float64 `query:"minWeight" validate:"omitempty,min=0,max=1"`
	Limit       int      `query:"limit" validate:"min=0"`
	Progress    *float64 `query:"progress"`
	Window      int      `query:"window" validate:"min=0"`
}

// Snapshot reports whether snapshot parameters were given
func (q GraphQuery) Snapshot() bool {
	return q.Progress != nil || q.Window > 0
}

// Options converts the query into graph filter options for a book with
// totalChapters chapters. Snapshot parameters replace fromChapter/toChapter.
func (q GraphQuery) Options(totalChapters int) (graph.FilterOptions, error) {
	opts := graph.FilterOptions{
		FromChapter: q.FromChapter,
		ToChapter:   q.ToChapter,
		MinWeight:   q.MinWeight,
		Limit:       q.Limit,
	}
	if q.Snapshot() {
		from, to, err := graph.SnapshotRange(q.Progress, totalChapters, q.Window)
		if err != nil {
			return opts, err
		}
		opts.FromChapter, opts.ToChapter = &from, &to
	}
	return opts, nil
}

// Validator checks request structs and renders readable errors
type Validator struct {
	validate *validator.Validate
}

// New creates a validator using json and query tag names in messages
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			if name := strings.Split(f.Tag.Get(tag), ",")[0]; name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	_ = v.RegisterValidation("source_url", isSourceURL)
	return &Validator{validate: v}
}

// Struct validates s
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// Query parses and validates the graph query parameters
func (v *Validator) Query(values url.Values) (GraphQuery, error) {
	var q GraphQuery
	var err error

	if q.FromChapter, err = optionalInt(values, "fromChapter"); err != nil {
		return q, err
	}
	if q.ToChapter, err = optionalInt(values, "toChapter"); err != nil {
		return q, err
	}
	if q.MinWeight, err = optionalFloat(values, "minWeight"); err != nil {
		return q, err
	}
	if q.Progress, err = optionalFloat(values, "progress"); err != nil {
		return q, err
	}
	if limit, err := optionalInt(values, "limit"); err != nil {
		return q, err
	} else if limit != nil {
		q.Limit = *limit
	}
	if window, err := optionalInt(values, "window"); err != nil {
		return q, err
	} else if window != nil {
		q.Window = *window
	}

	if err := v.Struct(q); err != nil {
		return q, err
	}
	if q.FromChapter != nil && q.ToChapter != nil && *q.FromChapter > *q.ToChapter {
		return q, errors.New("fromChapter must not exceed toChapter")
	}
	return q, nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "source_url":
		return fe.Field() + " must be an absolute http(s) URL"
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}

func isSourceURL(fl validator.FieldLevel) bool {
	u, err := url.Parse(fl.Field().String())
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

func optionalInt(values url.Values, key string) (*int, error) {
	raw := values.Get(key)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", key)
	}
	return &n, nil
}

func optionalFloat(values url.Values, key string) (*float64, error) {
	raw := values.Get(key)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", key)
	}
	return &f, nil
}
