package glosa

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// token is a run of either word or separator characters in a text.
type token struct {
	start int
	end   int
	word  bool
}

// isWordRune reports whether r belongs to a word: letters, digits and hyphen.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-'
}

// tokenize splits text into alternating word and separator tokens. When
// escapes is set, a backslash and the rune after it always form a separator,
// so "\nfetch" yields the word "fetch".
func tokenize(text string, escapes bool) []token {
	var tokens []token
	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])

		if escapes && r == '\\' {
			end := i + size
			if end < len(text) {
				_, next := utf8.DecodeRuneInString(text[end:])
				end += next
			}
			tokens = appendToken(tokens, i, end, false)
			i = end
			continue
		}

		tokens = appendToken(tokens, i, i+size, isWordRune(r))
		i += size
	}
	return tokens
}

// appendToken extends the last token when it has the same class.
func appendToken(tokens []token, start, end int, word bool) []token {
	if n := len(tokens); n > 0 && tokens[n-1].word == word && tokens[n-1].end == start {
		tokens[n-1].end = end
		return tokens
	}
	return append(tokens, token{start: start, end: end, word: word})
}

// substituteOptions controls a substitution pass.
type substituteOptions struct {
	escapes bool                // Treat backslash sequences as separators
	escape  func(string) string // Escapes replacement text for the enclosing literal
	delim   byte                // Quote character of the enclosing literal, if any
	quoting Quoting             // Extra escaping rules applied by escape
}

// variant identifies the options in segment cache keys.
func (o substituteOptions) variant() string {
	v := "r"
	if o.escapes {
		v = "e"
	}
	if o.delim != 0 {
		v += string(o.delim)
	}
	if o.quoting != QuotingDefault {
		v += "/" + string(o.quoting)
	}
	return v
}

// Substitute replaces every dictionary phrase found in text, preferring the
// longest phrase at each word position. It returns the rewritten text and the
// number of replaced phrases.
func (idx *Index) Substitute(text string) (string, int) {
	return idx.substitute(text, substituteOptions{})
}

func (idx *Index) substitute(text string, opts substituteOptions) (string, int) {
	if idx == nil || idx.maxWords == 0 || text == "" {
		return text, 0
	}

	var words []token
	for _, tok := range tokenize(text, opts.escapes) {
		if tok.word {
			words = append(words, tok)
		}
	}
	if len(words) == 0 {
		return text, 0
	}

	var out strings.Builder
	out.Grow(len(text))
	copied := 0
	count := 0

	for wi := 0; wi < len(words); {
		n := idx.maxWords
		if rest := len(words) - wi; n > rest {
			n = rest
		}

		matched := 0
		for ; n >= 1; n-- {
			start, end := words[wi].start, words[wi+n-1].end
			phrase := text[start:end]
			// Multi-word phrases never swallow a line break
			if n > 1 && strings.ContainsAny(phrase, "\r\n") {
				continue
			}

			translation, ok := idx.translations[NormalizeKey(phrase)]
			if !ok {
				continue
			}

			replacement := MatchCase(phrase, translation)
			if opts.escape != nil {
				replacement = opts.escape(replacement)
			}
			out.WriteString(text[copied:start])
			out.WriteString(replacement)
			copied = end
			count++
			matched = n
			break
		}

		if matched > 0 {
			wi += matched
		} else {
			wi++
		}
	}

	if count == 0 {
		return text, 0
	}
	out.WriteString(text[copied:])
	return out.String(), count
}

// casePattern is the capitalization style of a matched phrase.
type casePattern int

const (
	caseLower casePattern = iota
	caseCapitalized
	caseTitle
	caseUpper
)

// detectCase classifies the capitalization of s.
func detectCase(s string) casePattern {
	letters, uppers := 0, 0
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.IsUpper(r) {
			uppers++
		}
	}
	if letters >= 2 && uppers == letters {
		return caseUpper
	}

	words := strings.FieldsFunc(s, func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsDigit(r) })
	if len(words) == 0 {
		return caseLower
	}

	if len(words) > 1 {
		title := true
		for _, w := range words {
			first, _ := utf8.DecodeRuneInString(w)
			if !unicode.IsUpper(first) {
				title = false
				break
			}
		}
		if title {
			return caseTitle
		}
	}

	first, _ := utf8.DecodeRuneInString(words[0])
	if unicode.IsUpper(first) {
		return caseCapitalized
	}
	return caseLower
}

// MatchCase renders translation with the capitalization pattern of original:
// all caps stays all caps, title case stays title case, a leading capital is
// kept, and anything else is lowercased.
func MatchCase(original, translation string) string {
	// Casers keep state, so each call builds its own.
	switch detectCase(original) {
	case caseUpper:
		return cases.Upper(language.Spanish).String(translation)
	case caseTitle:
		return cases.Title(language.Spanish).String(translation)
	case caseCapitalized:
		lowered := cases.Lower(language.Spanish).String(translation)
		first, size := utf8.DecodeRuneInString(lowered)
		if first == utf8.RuneError {
			return lowered
		}
		return cases.Upper(language.Spanish).String(string(first)) + lowered[size:]
	default:
		return cases.Lower(language.Spanish).String(translation)
	}
}
