package glosa

import "testing"

func testIndex() *Index {
	return NewIndex([]DictionaryEntry{
		{Term: "fetch user", Translation: "obtener usuario"},
		{Term: "fetch", Translation: "obtener"},
		{Term: "user", Translation: "usuario"},
		{Term: "welcome", Translation: "bienvenido"},
		{Term: "save changes", Translation: "guardar cambios"},
		{Term: "e-mail", Translation: "correo"},
	})
}

func TestSubstitute(t *testing.T) {
	idx := testIndex()

	tests := []struct {
		name     string
		input    string
		expected string
		replaced int
	}{
		{"single word", "user", "usuario", 1},
		{"longest match first", "fetch user data", "obtener usuario data", 1},
		{"separate words", "user fetch", "usuario obtener", 2},
		{"punctuation kept", "Welcome, user!", "Bienvenido, usuario!", 2},
		{"whole words only", "username users", "username users", 0},
		{"hyphenated word", "send e-mail", "send correo", 1},
		{"phrase with extra spaces", "save   changes", "guardar cambios", 1},
		{"no line break in phrase", "fetch\nuser", "obtener\nusuario", 2},
		{"no match", "nothing here", "nothing here", 0},
		{"empty", "", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, n := idx.Substitute(tt.input)
			if got != tt.expected {
				t.Errorf("Substitute(%q) = %q, want %q", tt.input, got, tt.expected)
			}
			if n != tt.replaced {
				t.Errorf("Expected %d replacements, got %d", tt.replaced, n)
			}
		})
	}
}

func TestSubstitute_Escapes(t *testing.T) {
	idx := testIndex()

	got, n := idx.substitute(`\nuser`, substituteOptions{escapes: true})
	if got != `\nusuario` || n != 1 {
		t.Errorf("Expected escape to act as separator, got %q (%d)", got, n)
	}

	// Without escape handling the backslash sequence is part of the word
	got, n = idx.substitute(`\nuser`, substituteOptions{})
	if got != `\nuser` || n != 0 {
		t.Errorf("Expected no replacement, got %q (%d)", got, n)
	}
}

func TestSubstitute_EscapesReplacement(t *testing.T) {
	idx := NewIndex([]DictionaryEntry{{Term: "quote", Translation: `di "hola"`}})

	got, _ := idx.substitute("quote", substituteOptions{escapes: true, escape: doubleEscaper.Replace, delim: '"'})
	if got != `di \"hola\"` {
		t.Errorf("Expected escaped replacement, got %q", got)
	}
}

func TestSubstitute_NilAndEmptyIndex(t *testing.T) {
	var idx *Index
	if got, n := idx.Substitute("user"); got != "user" || n != 0 {
		t.Errorf("Nil index should leave text unchanged, got %q (%d)", got, n)
	}

	empty := NewIndex(nil)
	if got, n := empty.Substitute("user"); got != "user" || n != 0 {
		t.Errorf("Empty index should leave text unchanged, got %q (%d)", got, n)
	}
}

func TestMatchCase(t *testing.T) {
	tests := []struct {
		original    string
		translation string
		expected    string
	}{
		{"user", "usuario", "usuario"},
		{"User", "usuario", "Usuario"},
		{"USER", "usuario", "USUARIO"},
		{"Fetch User", "obtener usuario", "Obtener Usuario"},
		{"Fetch user", "obtener usuario", "Obtener usuario"},
		{"FETCH USER", "obtener usuario", "OBTENER USUARIO"},
		{"fetch user", "Obtener Usuario", "obtener usuario"},
		{"I", "yo", "Yo"},
		{"uSER", "usuario", "usuario"},
		{"Error", "ñandú", "Ñandú"},
	}

	for _, tt := range tests {
		t.Run(tt.original, func(t *testing.T) {
			if got := MatchCase(tt.original, tt.translation); got != tt.expected {
				t.Errorf("MatchCase(%q, %q) = %q, want %q", tt.original, tt.translation, got, tt.expected)
			}
		})
	}
}

func TestSubstituteOptions_Variant(t *testing.T) {
	if v := (substituteOptions{}).variant(); v != "r" {
		t.Errorf("Expected 'r', got %q", v)
	}
	if v := (substituteOptions{escapes: true, delim: '"'}).variant(); v != `e"` {
		t.Errorf("Expected 'e\"', got %q", v)
	}
	if v := (substituteOptions{quoting: QuotingHTML}).variant(); v != "r/html" {
		t.Errorf("Expected 'r/html', got %q", v)
	}
}

func TestBodyOptions(t *testing.T) {
	src := `"user"`
	span := Span{Kind: KindString, Start: 0, End: len(src), Text: src, InnerStart: 1, InnerEnd: len(src) - 1}
	opts := bodyOptions(span)
	if !opts.escapes || opts.delim != '"' || opts.escape == nil {
		t.Errorf("Unexpected options for double-quoted string: %+v", opts)
	}

	span.Raw = true
	opts = bodyOptions(span)
	if opts.escapes || opts.escape != nil {
		t.Error("Raw strings should not process escapes")
	}

	comment := Span{Kind: KindComment, Start: 0, End: 6, Text: "// abc", InnerStart: 2, InnerEnd: 6}
	if opts := bodyOptions(comment); opts.escapes || opts.escape != nil || opts.delim != 0 {
		t.Errorf("Comments should use plain options, got %+v", opts)
	}
}

func TestBodyOptions_Quoting(t *testing.T) {
	tests := []struct {
		name        string
		span        Span
		replacement string
		expected    string
	}{
		{"dollar", Span{Kind: KindString, Text: `"x"`, End: 3, InnerStart: 1, InnerEnd: 2, Quoting: QuotingDollar}, `a "$b"`, `a \"\$b\"`},
		{"dollar in raw string", Span{Kind: KindString, Text: `"x"`, End: 3, InnerStart: 1, InnerEnd: 2, Raw: true, Quoting: QuotingDollar}, "$b", "$b"},
		{"braces", Span{Kind: KindString, Text: `$"x"`, End: 4, InnerStart: 2, InnerEnd: 3, Quoting: QuotingBraces}, `{a}`, `{{a}}`},
		{"html text", Span{Kind: KindString, Text: "x", End: 1, InnerEnd: 1, Raw: true, Quoting: QuotingHTML}, `<a & "b">`, "&lt;a &amp; &#34;b&#34;&gt;"},
		{"html comment", Span{Kind: KindComment, Text: "<!--x-->", End: 8, InnerStart: 4, InnerEnd: 5, Quoting: QuotingHTML}, "a---b", "a- - -b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := bodyOptions(tt.span)
			got := tt.replacement
			if opts.escape != nil {
				got = opts.escape(got)
			}
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}
