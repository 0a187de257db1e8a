package articles

import (
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Article is one sidebar entry derived from a markdown file.
type Article struct {
	Text        string     `json:"text" yaml:"text"`
	Link        string     `json:"link" yaml:"link"`
	File        string     `json:"-" yaml:"-"`
	Heading     string     `json:"heading,omitempty" yaml:"heading,omitempty"`
	LastUpdated *time.Time `json:"lastUpdated,omitempty" yaml:"lastUpdated,omitempty"`
}

// ParseFilename derives the sidebar text and link for an article file.
// "vue-app-wide-modal-dialogs.md" becomes {"Vue App Wide Modal Dialogs", "/articles/vue-app-wide-modal-dialogs"}.
func ParseFilename(filename, linkPrefix string) Article {
	base := filepath.Base(filename)
	name := strings.TrimSuffix(base, ".md")
	return Article{
		Text: StartCase(name),
		Link: strings.TrimRight(linkPrefix, "/") + "/" + name,
		File: base,
	}
}

// StartCase splits s into words and upper-cases the first letter of each,
// leaving the rest of every word untouched: "fooBar_baz" -> "Foo Bar Baz".
// Ordinals stay whole: "1st-post" -> "1st Post".
func StartCase(s string) string {
	words := splitWords(s)
	// Casers are stateful; one per call keeps StartCase goroutine-safe.
	caser := cases.Title(language.Und, cases.NoLower)
	for i, w := range words {
		_, size := utf8.DecodeRuneInString(w)
		words[i] = caser.String(w[:size]) + w[size:]
	}
	return strings.Join(words, " ")
}

type runeClass int

const (
	classOther runeClass = iota
	classLower
	classUpper
	classDigit
)

func classify(r rune) runeClass {
	switch {
	case unicode.IsUpper(r):
		return classUpper
	case unicode.IsLetter(r):
		return classLower
	case unicode.IsDigit(r):
		return classDigit
	default:
		return classOther
	}
}

func isApostrophe(r rune) bool { return r == '\'' || r == '’' }

func splitWords(s string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if isApostrophe(r) {
			continue
		}
		c := classify(r)
		if c == classOther {
			flush()
			continue
		}
		if len(cur) > 0 {
			prev := classify(cur[len(cur)-1])
			if prev == classDigit && ordinalSuffix(cur[len(cur)-1], runes[i:]) {
				cur = append(cur, runes[i], runes[i+1])
				i++
				continue
			}
			switch {
			case prev == classLower && c == classUpper:
				flush()
			case (prev == classDigit) != (c == classDigit):
				flush()
			case prev == classUpper && c == classUpper && i+1 < len(runes) && classify(runes[i+1]) == classLower:
				// Acronym followed by a word: "XMLHttp" -> "XML", "Http".
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

// ordinalSuffix reports whether rest starts with the English ordinal suffix
// for digit ("st" after 1, "nd" after 2, "rd" after 3, "th" otherwise) and
// the suffix ends the word. Suffixes are all lower or all upper case.
func ordinalSuffix(digit rune, rest []rune) bool {
	if len(rest) < 2 {
		return false
	}
	suffix := string(rest[:2])
	lower := strings.ToLower(suffix)
	if suffix != lower && suffix != strings.ToUpper(suffix) {
		return false
	}
	var want string
	switch digit {
	case '1':
		want = "st"
	case '2':
		want = "nd"
	case '3':
		want = "rd"
	default:
		want = "th"
	}
	if lower != want {
		return false
	}
	if len(rest) == 2 {
		return true
	}
	next := classify(rest[2])
	if suffix == lower {
		// "1stPost" still ends the ordinal at the upper-case letter.
		return next == classOther || next == classUpper
	}
	return next == classOther || next == classLower
}
