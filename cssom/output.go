package cssom

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
)

// ErrInvalidCSS is flagged when raw CSS text of an output cannot be parsed.
var ErrInvalidCSS = errors.New("invalid CSS text")

// Declaration is a single CSS property declaration.
type Declaration struct {
	Property  string
	Value     string
	Important bool
}

func (d Declaration) String() string {
	if d.Important {
		return d.Property + ": " + d.Value + " !important;"
	}
	return d.Property + ": " + d.Value + ";"
}

// Output is what a style producer renders for a selector: raw CSS text,
// followed by declarations. Declarations override properties set by the
// text.
type Output struct {
	Text         string
	Declarations []Declaration
}

// IsEmpty is true if neither text nor declarations are present.
func (o Output) IsEmpty() bool {
	return strings.TrimSpace(o.Text) == "" && len(o.Declarations) == 0
}

// Merge appends the contents of other to o.
func (o Output) Merge(other Output) Output {
	var text string
	switch {
	case strings.TrimSpace(o.Text) == "":
		text = other.Text
	case strings.TrimSpace(other.Text) == "":
		text = o.Text
	default:
		text = terminated(o.Text) + " " + other.Text
	}
	decls := make([]Declaration, 0, len(o.Declarations)+len(other.Declarations))
	decls = append(decls, o.Declarations...)
	return Output{Text: text, Declarations: append(decls, other.Declarations...)}
}

// Declared returns all declarations of an output, those parsed from the
// text first.
func (o Output) Declared() ([]Declaration, error) {
	var decls []Declaration
	if text := strings.TrimSpace(o.Text); text != "" {
		parsed, err := parser.ParseDeclarations(terminated(text))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCSS, err)
		}
		for _, d := range parsed {
			decls = append(decls, Declaration{Property: d.Property, Value: d.Value, Important: d.Important})
		}
	}
	return append(decls, o.Declarations...), nil
}

func (o Output) String() string {
	decls, err := o.Declared()
	if err != nil {
		tracer().Errorf("output %q: %v", o.Text, err)
		return o.Text
	}
	s := make([]string, len(decls))
	for i, d := range decls {
		s[i] = d.String()
	}
	return strings.Join(s, " ")
}

// ToDouceur converts declarations to their douceur representation.
func ToDouceur(decls []Declaration) []*css.Declaration {
	dd := make([]*css.Declaration, len(decls))
	for i, d := range decls {
		dd[i] = &css.Declaration{Property: d.Property, Value: d.Value, Important: d.Important}
	}
	return dd
}

// Winning returns the effective declaration for a property: the last one,
// unless an earlier declaration is marked important and later ones are not.
func Winning(decls []Declaration, property string) (Declaration, bool) {
	var win Declaration
	found := false
	for _, d := range decls {
		if d.Property != property {
			continue
		}
		if !found || d.Important || !win.Important {
			win, found = d, true
		}
	}
	return win, found
}

// terminated makes sure a declaration list ends with a semicolon; the
// parser drops the value of an unterminated last declaration.
func terminated(text string) string {
	text = strings.TrimSpace(text)
	if text == "" || strings.HasSuffix(text, ";") || strings.HasSuffix(text, "}") {
		return text
	}
	return text + ";"
}

// IsAtRule is true for selectors of at-rules, e.g. "@media print".
func IsAtRule(selector string) bool {
	return strings.HasPrefix(strings.TrimSpace(selector), "@")
}

// SplitAtRule splits an at-rule selector into name and prelude,
// e.g. "@media print" into "@media" and "print".
func SplitAtRule(selector string) (name, prelude string) {
	selector = strings.TrimSpace(selector)
	if i := strings.IndexAny(selector, " \t\n"); i > 0 {
		return selector[:i], strings.TrimSpace(selector[i:])
	}
	return selector, ""
}
