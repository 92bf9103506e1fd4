package glosa

import (
	"strings"

	"golang.org/x/net/html"
)

var (
	templateEscaper = strings.NewReplacer(`\`, `\\`, "`", "\\`", "${", `\${`)
	doubleEscaper   = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`)
	singleEscaper   = strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`)
	dollarEscaper   = strings.NewReplacer("$", `\$`)
	braceEscaper    = strings.NewReplacer("{", "{{", "}", "}}")
)

// bodyOptions derives the substitution options for a span body from its
// opening delimiter and quoting. Replacement text is escaped so a translation
// can never close a literal early, open an interpolation or inject markup.
func bodyOptions(span Span) substituteOptions {
	if span.Quoting == QuotingHTML {
		opts := substituteOptions{quoting: QuotingHTML, escape: html.EscapeString}
		if span.Kind == KindComment {
			opts.escape = escapeHTMLComment
		}
		return opts
	}
	if span.Kind != KindString {
		return substituteOptions{}
	}

	opts := substituteOptions{escapes: !span.Raw, quoting: span.Quoting}
	if open := span.Open(); open != "" {
		opts.delim = open[len(open)-1]
	}

	var escapers []func(string) string
	if !span.Raw {
		switch opts.delim {
		case '"':
			escapers = append(escapers, doubleEscaper.Replace)
		case '\'':
			escapers = append(escapers, singleEscaper.Replace)
		case '`':
			escapers = append(escapers, templateEscaper.Replace)
		}
		if span.Quoting == QuotingDollar {
			escapers = append(escapers, dollarEscaper.Replace)
		}
	}
	if span.Quoting == QuotingBraces {
		escapers = append(escapers, braceEscaper.Replace)
	}

	switch len(escapers) {
	case 0:
	case 1:
		opts.escape = escapers[0]
	default:
		opts.escape = func(s string) string {
			for _, esc := range escapers {
				s = esc(s)
			}
			return s
		}
	}
	return opts
}

// escapeHTMLComment breaks up every "--" so a replacement cannot end the
// comment or make it invalid.
func escapeHTMLComment(s string) string {
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "- -")
	}
	return s
}
