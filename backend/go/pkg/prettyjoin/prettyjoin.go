// Package prettyjoin joins names into a human-readable list.
package prettyjoin

import (
	"fmt"
	"html/template"
	"reflect"
	"strings"

	"golang.org/x/text/language"
)

// Item is anything with a display name.
// Items may also implement Linker; that is checked when formatting.
type Item interface {
	DisplayName() string
}

// Linker is the optional capability of an Item that can be linked to.
type Linker interface {
	AbsoluteURL() string
}

// conjunctions maps the supported languages to their word for "and".
// The first entry is the fallback used by the matcher.
var conjunctions = []struct {
	tag  language.Tag
	word string
}{
	{language.BrazilianPortuguese, "e"},
	{language.Portuguese, "e"},
	{language.English, "and"},
	{language.Spanish, "y"},
	{language.French, "et"},
	{language.Italian, "e"},
	{language.German, "und"},
}

var matcher = func() language.Matcher {
	tags := make([]language.Tag, len(conjunctions))
	for i, c := range conjunctions {
		tags[i] = c.tag
	}
	return language.NewMatcher(tags)
}()

// Joiner joins items into one human readable sentence, e.g. "A, B e C".
// A Joiner holds no mutable state and is safe for concurrent use.
type Joiner struct {
	tag         language.Tag
	conjunction string
}

// New returns a Joiner for the closest supported match of tag.
func New(tag language.Tag) *Joiner {
	_, idx, _ := matcher.Match(tag)
	c := conjunctions[idx]
	return &Joiner{tag: c.tag, conjunction: c.word}
}

// Parse builds a Joiner from a BCP 47 string such as "pt-BR" or an
// Accept-Language header value. Unparseable input falls back to Portuguese.
func Parse(s string) *Joiner {
	tags, _, err := language.ParseAcceptLanguage(s)
	if err != nil || len(tags) == 0 {
		return New(language.BrazilianPortuguese)
	}
	_, idx, _ := matcher.Match(tags...)
	c := conjunctions[idx]
	return &Joiner{tag: c.tag, conjunction: c.word}
}

// Language returns the matched language tag.
func (j *Joiner) Language() language.Tag {
	return j.tag
}

// Conjunction returns the localized word used before the last item.
func (j *Joiner) Conjunction() string {
	return j.conjunction
}

// Join renders items as "A", "A e B" or "A, B e C".
func (j *Joiner) Join(items []Item) template.HTML {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = render(item)
	}
	return j.joinRendered(parts)
}

// JoinValue is the template-facing variant of Join. It accepts any slice or
// array; elements that are not an Item are rendered with fmt.Sprint.
func (j *Joiner) JoinValue(v any) template.HTML {
	if v == nil {
		return ""
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return j.joinRendered([]string{renderAny(v)})
	}

	parts := make([]string, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		parts = append(parts, renderAny(rv.Index(i).Interface()))
	}
	return j.joinRendered(parts)
}

// FuncMap exposes the Joiner as the "prettyJoin" template function.
func (j *Joiner) FuncMap() template.FuncMap {
	return template.FuncMap{
		"prettyJoin": j.JoinValue,
	}
}

func (j *Joiner) joinRendered(parts []string) template.HTML {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return template.HTML(parts[0])
	}
	last := len(parts) - 1
	head := strings.Join(parts[:last], ", ")
	return template.HTML(head + " " + j.conjunction + " " + parts[last])
}

func renderAny(v any) string {
	if item, ok := v.(Item); ok {
		return render(item)
	}
	return template.HTMLEscapeString(fmt.Sprint(v))
}

func render(item Item) string {
	name := template.HTMLEscapeString(item.DisplayName())
	linker, ok := item.(Linker)
	if !ok {
		return name
	}
	url := linker.AbsoluteURL()
	if url == "" {
		return name
	}
	return `<a href="` + template.HTMLEscapeString(url) + `">` + name + `</a>`
}
