package search

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/abiiranathan/pdfcount/logger"
	"github.com/abiiranathan/pdfcount/pdf"
	"github.com/abiiranathan/pdfcount/table"
	"github.com/go-playground/validator"
)

// Options are the knobs of a run, as given on the command line.
// The zero value counts case-insensitively with one worker.
type Options struct {
	CaseSensitive bool   `flag:"case"`
	Pages         string `flag:"pages"`
	Extractor     string `flag:"extractor" validate:"omitempty,oneof=plain layout"`
	PageProgress  int    `flag:"pprint" validate:"min=0"`
	FileProgress  int    `flag:"ppdf" validate:"min=0"`
	Unicode       bool   `flag:"unicode"`
	Form          string `flag:"form" validate:"omitempty,oneof=NFC NFD NFKC NFKD"`
	Tokens        bool   `flag:"tokens"`

	Outfile    string    `flag:"outfile" validate:"omitempty,nonblank"`
	Show       bool      `flag:"show"`
	Stdout     io.Writer `flag:"-" validate:"-"`
	Sort       []string  `flag:"sort" validate:"dive,nonblank"`
	Descending bool      `flag:"desc"`
	Backend    string    `flag:"backend" validate:"omitempty,oneof=simple frame"`
	Top        int       `flag:"top" validate:"min=0"`

	Separators    string `flag:"dsep"`
	Year          bool   `flag:"year"`
	KeepExtension bool   `flag:"ext"`
	OmitFile      bool   `flag:"nfile"`
	OmitPages     bool   `flag:"npages"`

	Workers   int    `flag:"workers" validate:"min=0,max=256"`
	CachePath string `flag:"cache"`

	Logger logger.Logger `flag:"-" validate:"-"`
}

// Request is the validated, typed form of Options. It is read-only once built.
type Request struct {
	Words      []string
	Pages      pdf.PageRange
	Normalizer Normalizer
	Counter    *Counter
	Filename   FilenameParser
	Layout     table.Layout
	Order      table.Order
	Extractor  string
	Backend    string
	Workers    int
	Options    Options
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(useFlagNames)
		validate.RegisterValidation("nonblank", isNonBlank)
	})
	return validate
}

func useFlagNames(fld reflect.StructField) string {
	name := fld.Tag.Get("flag")
	if name == "-" {
		return ""
	}
	return name
}

func isNonBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// validationError turns the first validator failure into a ConfigError.
func validationError(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return &ConfigError{Option: "options", Err: err}
	}

	fe := errs[0]
	value := fmt.Sprint(fe.Value())

	// List elements are reported as name[i].
	option := fe.Field()
	if i := strings.IndexByte(option, '['); i > 0 {
		option = option[:i]
	}

	switch fe.Tag() {
	case "oneof":
		return &ConfigError{Option: option, Value: value,
			Err: fmt.Errorf("expected one of %s", strings.ReplaceAll(fe.Param(), " ", ", "))}
	case "min", "max":
		return &ConfigError{Option: option, Value: value, Err: fmt.Errorf("must be %s %s", fe.Tag(), fe.Param())}
	case "required":
		return &ConfigError{Option: option, Err: errors.New("missing value")}
	case "nonblank":
		return &ConfigError{Option: option, Value: value, Err: errors.New("must not be blank")}
	}
	return &ConfigError{Option: option, Value: value, Err: err}
}

// SplitList splits a comma-separated list, trimming entries and dropping empty ones.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// NewRequest validates words and opts and compiles them into a Request.
// All failures are ConfigErrors.
func NewRequest(words []string, opts Options) (*Request, error) {
	// Form names are case-insensitive.
	opts.Form = strings.ToUpper(strings.TrimSpace(opts.Form))

	v := getValidator()
	if err := v.Struct(opts); err != nil {
		return nil, validationError(err)
	}

	cleaned := make([]string, 0, len(words))
	seen := make(map[string]bool, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		if seen[w] {
			return nil, &ConfigError{Option: "words", Value: w, Err: errors.New("word given twice")}
		}
		seen[w] = true
		cleaned = append(cleaned, w)
	}
	if len(cleaned) == 0 {
		return nil, &ConfigError{Option: "words", Err: errors.New("at least one word is required")}
	}

	pages, err := pdf.ParsePageRange(opts.Pages)
	if err != nil {
		return nil, &ConfigError{Option: "pages", Value: opts.Pages, Err: err}
	}

	form, err := ParseForm(opts.Form)
	if err != nil {
		return nil, &ConfigError{Option: "form", Value: opts.Form, Err: err}
	}
	normalizer := Normalizer{Unicode: opts.Unicode, Form: form, CaseSensitive: opts.CaseSensitive}

	seps, err := ParseSeparators(opts.Separators)
	if err != nil {
		return nil, &ConfigError{Option: "dsep", Value: opts.Separators, Err: err}
	}
	parser := FilenameParser{Separators: seps, Year: opts.Year, KeepExtension: opts.KeepExtension}

	if err := checkColumns(parser.Columns(), cleaned, opts); err != nil {
		return nil, err
	}

	counter, err := NewCounter(cleaned, normalizer, opts.Tokens)
	if err != nil {
		return nil, &ConfigError{Option: "words", Err: err}
	}

	workers := opts.Workers
	if workers == 0 {
		workers = 1
	}

	extractor := opts.Extractor
	if extractor == "" {
		extractor = pdf.BackendPlain
	}
	backend := opts.Backend
	if backend == "" {
		backend = table.BackendSimple
	}

	return &Request{
		Words:      cleaned,
		Pages:      pages,
		Normalizer: normalizer,
		Counter:    counter,
		Filename:   parser,
		Layout: table.Layout{
			Meta:      parser.Columns(),
			Words:     cleaned,
			OmitFile:  opts.OmitFile,
			OmitPages: opts.OmitPages,
		},
		Order:     table.Order{Columns: opts.Sort, Descending: opts.Descending},
		Extractor: extractor,
		Backend:   backend,
		Workers:   workers,
		Options:   opts,
	}, nil
}

// checkColumns rejects column names that would appear twice in the table.
func checkColumns(meta, words []string, opts Options) error {
	owner := make(map[string]string)
	if !opts.OmitFile {
		owner[ColumnFile] = "file column"
	}
	if !opts.OmitPages {
		owner[ColumnPages] = "pages column"
	}

	for _, m := range meta {
		if prev, ok := owner[m]; ok {
			return &ConfigError{Option: "dsep", Value: m, Err: fmt.Errorf("column name clashes with the %s", prev)}
		}
		owner[m] = "metadata column"
	}
	for _, w := range words {
		if prev, ok := owner[w]; ok {
			return &ConfigError{Option: "words", Value: w, Err: fmt.Errorf("word clashes with the %s", prev)}
		}
	}
	return nil
}
