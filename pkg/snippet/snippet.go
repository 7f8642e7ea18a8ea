// Package snippet assembles small HTML fragments (buttons, cards and
// forms) with inline styles for embedding in a report visual, and escapes
// them into measure expressions.
//
// Values are interpolated verbatim; nothing is escaped or validated.
package snippet

import (
	"errors"
	"fmt"
	"strings"
	"text/template"
)

var (
	ErrUnknownKind = errors.New("unknown snippet kind")
	ErrUnknownSize = errors.New("unknown button size")
)

// Keyframes holds the supported animations by CSS name.
var Keyframes = map[string]string{
	"bounce":   "@keyframes bounce {0%, 20%, 50%, 80%, 100% {transform: translateY(0);} 40% {transform: translateY(-10px);} 60% {transform: translateY(-5px);}}",
	"fade-in":  "@keyframes fade-in {from {opacity: 0;} to {opacity: 1;}}",
	"slide-in": "@keyframes slide-in {from {transform: translateX(-100%);} to {transform: translateX(0);}}",
	"rotate":   "@keyframes rotate {from {transform: rotate(0deg);} to {transform: rotate(360deg);}}",
	"zoom":     "@keyframes zoom {from {transform: scale(0);} to {transform: scale(1);}}",
}

// AnimationStyles returns a style block with the keyframes of every known
// name, in the given order. Unknown names contribute nothing.
func AnimationStyles(names ...string) string {
	var b strings.Builder
	b.WriteString("<style>")
	for _, n := range names {
		b.WriteString(Keyframes[n])
	}
	b.WriteString("</style>")
	return b.String()
}

// AnimationName turns a display label such as "Fade-In" or "Slide In" into
// its CSS name.
func AnimationName(label string) string {
	return strings.ReplaceAll(strings.ToLower(label), " ", "-")
}

// styleBlock is empty for the "None" label.
func styleBlock(label string) string {
	if label == "None" {
		return ""
	}
	return AnimationStyles(AnimationName(label))
}

var measureEscaper = strings.NewReplacer("&lt;", "<", "&gt;", ">", `"`, `""`)

// Measure wraps a fragment as an HTML measure named name: entities for
// angle brackets are unescaped, quotes doubled and every '+' replaced by
// the '&' concatenation operator, including any in the name.
func Measure(name, html string) string {
	s := "<HTML> " + name + ` = "` + measureEscaper.Replace(html) + `"`
	return strings.ReplaceAll(s, "+", "&")
}

// Merge prepends css to html inside a style element.
func Merge(html, css string) string {
	return "<style>\n" + css + "\n</style>\n" + html
}

func render(t *template.Template, data any) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return b.String(), nil
}

// Snippet is any style record that renders to a fragment.
type Snippet interface {
	HTML() (string, error)
	// MeasureName is the default measure name for the fragment.
	MeasureName() string
}

// Kinds lists the names accepted by New.
var Kinds = []string{"button", "card", "card-v2", "form"}

// New returns a record of the named kind filled with its defaults.
func New(kind string) (Snippet, error) {
	switch strings.ToLower(kind) {
	case "button":
		b := DefaultButton()
		return &b, nil
	case "card":
		c := DefaultCard()
		return &c, nil
	case "card-v2", "cardv2", "styled-card":
		c := DefaultStyledCard()
		return &c, nil
	case "form":
		f := DefaultForm()
		return &f, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}
