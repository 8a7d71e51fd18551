package search

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Forms maps the accepted --form names to their normalization forms.
var Forms = map[string]norm.Form{
	"NFC":  norm.NFC,
	"NFD":  norm.NFD,
	"NFKC": norm.NFKC,
	"NFKD": norm.NFKD,
}

const DefaultForm = "NFKC"

func ParseForm(name string) (norm.Form, error) {
	if name == "" {
		name = DefaultForm
	}
	form, ok := Forms[strings.ToUpper(name)]
	if !ok {
		return 0, fmt.Errorf("unknown unicode normalization form %q", name)
	}
	return form, nil
}

// Normalizer prepares text and search words the same way before counting.
type Normalizer struct {
	Unicode       bool
	Form          norm.Form
	CaseSensitive bool
}

func (n Normalizer) Apply(text string) string {
	return Normalize(text, n.Unicode, n.Form, n.CaseSensitive)
}

// Normalize applies form when unicode is set, then lower-cases the text unless
// caseSensitive is set.
func Normalize(text string, unicode bool, form norm.Form, caseSensitive bool) string {
	if unicode {
		text = form.String(text)
	}
	if !caseSensitive {
		// A Caser keeps state so each call gets its own.
		text = cases.Lower(language.Und).String(text)
	}
	return text
}
