package glosa_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/ZaguanLabs/glosa"
	"github.com/ZaguanLabs/glosa/scanner"
)

var testEntries = []glosa.DictionaryEntry{
	{Term: "fetch user", Translation: "obtener usuario"},
	{Term: "fetch", Translation: "obtener"},
	{Term: "user", Translation: "usuario"},
	{Term: "welcome", Translation: "bienvenido"},
	{Term: "save changes", Translation: "guardar cambios"},
	{Term: "sign in", Translation: "iniciar sesión", Aliases: []string{"log in"}},
	{Term: "quote", Translation: `di "hola"`},
}

func staticTerms(entries []glosa.DictionaryEntry) glosa.TermProvider {
	return glosa.TermProviderFunc(func(ctx context.Context) ([]glosa.DictionaryEntry, error) {
		return entries, nil
	})
}

func newTestTranslator(opts ...glosa.TranslatorOption) *glosa.Translator {
	opts = append([]glosa.TranslatorOption{glosa.WithScanners(scanner.Defaults()...)}, opts...)
	return glosa.NewTranslator(glosa.NewDictionaryCache(staticTerms(testEntries)), opts...)
}

// mapCache is a simple segment cache for testing
type mapCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string]string)}
}

func (c *mapCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	val, ok := c.data[key]
	return val, ok
}

func (c *mapCache) Set(key string, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func translate(t *testing.T, tr *glosa.Translator, code, language string) *glosa.TranslationResult {
	t.Helper()
	result, err := tr.TranslateStructural(context.Background(), glosa.Request{Code: code, Language: language})
	if err != nil {
		t.Fatalf("TranslateStructural failed: %v", err)
	}
	return result
}

func TestTranslator_CommentAndStringIsolation(t *testing.T) {
	tr := newTestTranslator()

	result := translate(t, tr, "// fetch user\nconst name = \"user\";", "ts")

	expected := "// obtener usuario\nconst name = \"usuario\";"
	if result.Code != expected {
		t.Errorf("Expected %q, got %q", expected, result.Code)
	}
	if result.ReplacedComments != 1 {
		t.Errorf("Expected 1 replaced comment phrase, got %d", result.ReplacedComments)
	}
	if result.ReplacedStrings != 1 {
		t.Errorf("Expected 1 replaced string phrase, got %d", result.ReplacedStrings)
	}
	if result.FallbackApplied {
		t.Error("Registered language should not use fallback")
	}
	if result.Language != "ts" {
		t.Errorf("Expected language 'ts', got %q", result.Language)
	}
}

func TestTranslator_IdentifiersUntouched(t *testing.T) {
	tr := newTestTranslator()

	code := "function fetchUser(user) { return user.fetch(); }"
	result := translate(t, tr, code, "js")

	if result.Code != code {
		t.Errorf("Code without strings or comments should be unchanged, got %q", result.Code)
	}
	if result.Replaced() != 0 {
		t.Errorf("Expected no replacements, got %d", result.Replaced())
	}
}

func TestTranslator_TemplateLiteral(t *testing.T) {
	tr := newTestTranslator()

	result := translate(t, tr, "const t = `Welcome ${user.name}`;", "ts")

	expected := "const t = `Bienvenido ${user.name}`;"
	if result.Code != expected {
		t.Errorf("Expected %q, got %q", expected, result.Code)
	}
	if result.ReplacedStrings != 1 {
		t.Errorf("Expected 1 replaced string phrase, got %d", result.ReplacedStrings)
	}
}

func TestTranslator_CasePreserved(t *testing.T) {
	tr := newTestTranslator()

	tests := []struct {
		input    string
		expected string
	}{
		{"// FETCH USER", "// OBTENER USUARIO"},
		{"// Fetch User", "// Obtener Usuario"},
		{"// Fetch user", "// Obtener usuario"},
		{"x = 'Log in';", "x = 'Iniciar sesión';"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := translate(t, tr, tt.input, "js")
			if result.Code != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result.Code)
			}
		})
	}
}

func TestTranslator_EscapesReplacement(t *testing.T) {
	tr := newTestTranslator()

	result := translate(t, tr, `const s = "quote";`, "js")
	expected := `const s = "di \"hola\"";`
	if result.Code != expected {
		t.Errorf("Expected %q, got %q", expected, result.Code)
	}

	// Comments take the translation verbatim
	result = translate(t, tr, `// quote`, "js")
	if result.Code != `// di "hola"` {
		t.Errorf("Expected unescaped comment, got %q", result.Code)
	}
}

func TestTranslator_EscapeSequenceSeparatesWords(t *testing.T) {
	tr := newTestTranslator()

	result := translate(t, tr, `print("\nuser")`, "python")
	if result.Code != `print("\nusuario")` {
		t.Errorf("Expected %q, got %q", `print("\nusuario")`, result.Code)
	}
}

func TestTranslator_Languages(t *testing.T) {
	tr := newTestTranslator()

	tests := []struct {
		name     string
		language string
		input    string
		expected string
	}{
		{"python f-string", "python", "msg = f\"Welcome {user}\"  # fetch user", "msg = f\"Bienvenido {user}\"  # obtener usuario"},
		{"go raw string", "go", "package main\n\nvar s = `save changes`", "package main\n\nvar s = `guardar cambios`"},
		{"go rune literal", "go", "var q = '\"' // user", "var q = '\"' // usuario"},
		{"java", "java", "/* Save changes */ String s = \"user\";", "/* Guardar cambios */ String s = \"usuario\";"},
		{"html", "html", "<p class=\"user\">Welcome</p><!-- user -->", "<p class=\"user\">Bienvenido</p><!-- usuario -->"},
		{"case-insensitive tag", " TypeScript ", "// user", "// usuario"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := translate(t, tr, tt.input, tt.language)
			if result.Code != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result.Code)
			}
		})
	}
}

func TestTranslator_Segments(t *testing.T) {
	tr := newTestTranslator()

	code := "// fetch user\nconst name = \"admin\";"
	result := translate(t, tr, code, "ts")

	if len(result.Segments) != 2 {
		t.Fatalf("Expected 2 segments, got %d", len(result.Segments))
	}

	comment := result.Segments[0]
	if comment.Type != glosa.KindComment || comment.Original != " fetch user" || comment.Translated != " obtener usuario" {
		t.Errorf("Unexpected comment segment: %+v", comment)
	}
	if code[comment.Start:comment.End] != comment.Original {
		t.Errorf("Segment offsets do not point at the original body")
	}

	str := result.Segments[1]
	if str.Type != glosa.KindString || str.Changed() {
		t.Errorf("Expected unchanged string segment, got %+v", str)
	}
}

func TestTranslator_Fallback(t *testing.T) {
	tr := newTestTranslator()

	result := translate(t, tr, "DISPLAY 'Welcome user'.", "cobol")

	if !result.FallbackApplied {
		t.Error("Expected fallback for unregistered language")
	}
	if result.Code != "DISPLAY 'Bienvenido usuario'." {
		t.Errorf("Unexpected fallback output: %q", result.Code)
	}
	if result.ReplacedStrings != 2 {
		t.Errorf("Expected 2 replacements, got %d", result.ReplacedStrings)
	}
	if len(result.Segments) != 0 {
		t.Errorf("Fallback should not report segments, got %d", len(result.Segments))
	}
}

func TestTranslator_EmptyCode(t *testing.T) {
	tr := newTestTranslator()

	for _, code := range []string{"", "   \n\t"} {
		_, err := tr.TranslateStructural(context.Background(), glosa.Request{Code: code, Language: "ts"})
		if !errors.Is(err, glosa.ErrEmptyCode) {
			t.Errorf("Expected ErrEmptyCode for %q, got %v", code, err)
		}
		var inputErr *glosa.InvalidInputError
		if !errors.As(err, &inputErr) || inputErr.Field != "code" {
			t.Errorf("Expected InvalidInputError on 'code', got %v", err)
		}
	}
}

func TestTranslator_DictionaryFailure(t *testing.T) {
	failing := glosa.TermProviderFunc(func(ctx context.Context) ([]glosa.DictionaryEntry, error) {
		return nil, errors.New("connection refused")
	})
	tr := glosa.NewTranslator(glosa.NewDictionaryCache(failing), glosa.WithScanners(scanner.Defaults()...))

	_, err := tr.TranslateStructural(context.Background(), glosa.Request{Code: "// user", Language: "ts"})
	var loadErr *glosa.DictionaryLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("Expected DictionaryLoadError, got %v", err)
	}
}

func TestTranslator_SegmentCache(t *testing.T) {
	c := newMapCache()
	tr := newTestTranslator(glosa.WithCache(c))

	code := "// fetch user\nconst a = \"user\";\nconst b = \"user\";"
	first := translate(t, tr, code, "ts")
	// The second "user" string hits the entry written by the first
	if first.CachedSegments != 1 {
		t.Errorf("Expected 1 cached segment on first call, got %d", first.CachedSegments)
	}

	second := translate(t, tr, code, "ts")
	if second.CachedSegments != 3 {
		t.Errorf("Expected 3 cached segments on second call, got %d", second.CachedSegments)
	}
	if second.Code != first.Code {
		t.Errorf("Cached output differs: %q vs %q", second.Code, first.Code)
	}
	if second.ReplacedStrings != first.ReplacedStrings || second.ReplacedComments != first.ReplacedComments {
		t.Error("Cached counts should match uncached counts")
	}
}

func TestTranslator_SegmentCacheIgnoresCorruptEntries(t *testing.T) {
	c := newMapCache()
	tr := newTestTranslator(glosa.WithCache(c))

	translate(t, tr, "// user", "ts")
	for k := range c.data {
		c.data[k] = "{not json"
	}

	result := translate(t, tr, "// user", "ts")
	if result.Code != "// usuario" {
		t.Errorf("Expected recomputed translation, got %q", result.Code)
	}
	if result.CachedSegments != 0 {
		t.Errorf("Corrupt entries should not count as hits, got %d", result.CachedSegments)
	}
}

func TestTranslator_RegisterScanner(t *testing.T) {
	tr := glosa.NewTranslator(glosa.NewDictionaryCache(staticTerms(testEntries)))

	if err := tr.RegisterScanner(scanner.NewPythonScanner()); err != nil {
		t.Fatalf("RegisterScanner failed: %v", err)
	}

	err := tr.RegisterScanner(scanner.NewPythonScanner())
	var scanErr *glosa.ScannerError
	if !errors.As(err, &scanErr) || scanErr.Language != "python" {
		t.Errorf("Expected duplicate registration error, got %v", err)
	}

	if _, ok := tr.Scanner("PY"); !ok {
		t.Error("Expected scanner lookup to ignore case")
	}

	langs := tr.Languages()
	if strings.Join(langs, ",") != "py,python" {
		t.Errorf("Expected sorted languages [py python], got %v", langs)
	}
}

func TestTranslator_WithScannerReplaces(t *testing.T) {
	tr := glosa.NewTranslator(glosa.NewDictionaryCache(staticTerms(testEntries)),
		glosa.WithScanner(scanner.NewJavaScriptScanner()),
		glosa.WithScanner(scanner.NewJavaScriptScanner(scanner.WithComments(false))),
	)

	result := translate(t, tr, "// user\nx = 'user'", "js")
	if result.Code != "// user\nx = 'usuario'" {
		t.Errorf("Expected the later scanner to win, got %q", result.Code)
	}
}

func TestTranslator_DictionaryInvalidation(t *testing.T) {
	translation := "usuario"
	var mu sync.Mutex
	provider := glosa.TermProviderFunc(func(ctx context.Context) ([]glosa.DictionaryEntry, error) {
		mu.Lock()
		defer mu.Unlock()
		return []glosa.DictionaryEntry{{Term: "user", Translation: translation}}, nil
	})
	dict := glosa.NewDictionaryCache(provider)
	tr := glosa.NewTranslator(dict, glosa.WithScanners(scanner.Defaults()...), glosa.WithCache(newMapCache()))

	if got := translate(t, tr, "// user", "ts").Code; got != "// usuario" {
		t.Fatalf("Unexpected output %q", got)
	}

	mu.Lock()
	translation = "cliente"
	mu.Unlock()

	// Still cached
	if got := translate(t, tr, "// user", "ts").Code; got != "// usuario" {
		t.Errorf("Expected cached dictionary before invalidation, got %q", got)
	}

	dict.Invalidate()
	if got := translate(t, tr, "// user", "ts").Code; got != "// cliente" {
		t.Errorf("Expected reloaded dictionary after invalidation, got %q", got)
	}
}

func TestTranslator_InterpolatedExpressionsUntouched(t *testing.T) {
	tr := newTestTranslator()

	tests := []struct {
		name     string
		language string
		input    string
		expected string
	}{
		{"kotlin", "kotlin", `val s = "Welcome ${user.name}, user $user"`, `val s = "Bienvenido ${user.name}, usuario $user"`},
		{"kotlin raw", "kt", `val s = """Welcome $user"""`, `val s = """Bienvenido $user"""`},
		{"dart", "dart", `print('Welcome $user');`, `print('Bienvenido $user');`},
		{"php", "php", `echo "Welcome $user and {$user->name}";`, `echo "Bienvenido $user and {$user->name}";`},
		{"php single quotes are literal", "php", `echo 'Welcome $user';`, `echo 'Bienvenido $usuario';`},
		{"swift", "swift", `let s = "Welcome \(user)"`, `let s = "Bienvenido \(user)"`},
		{"csharp", "csharp", `var s = $"Welcome {user}";`, `var s = $"Bienvenido {user}";`},
		{"csharp verbatim", "cs", `var p = @"C:\user";`, `var p = @"C:\usuario";`},
		{"rust", "rust", `println!("Welcome {user}");`, `println!("Bienvenido {user}");`},
		{"rust byte string", "rust", `let b = b"user";`, `let b = b"user";`},
		{"scala", "scala", `val s = s"Welcome $user"`, `val s = s"Bienvenido $user"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := translate(t, tr, tt.input, tt.language)
			if result.Code != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result.Code)
			}
			if result.FallbackApplied {
				t.Error("Registered language should not use fallback")
			}
		})
	}
}

func TestTranslator_ReplacementCannotOpenInterpolation(t *testing.T) {
	tr := glosa.NewTranslator(glosa.NewDictionaryCache(staticTerms([]glosa.DictionaryEntry{
		{Term: "cost", Translation: "$costo"},
		{Term: "set", Translation: "{conjunto}"},
	})), glosa.WithScanners(scanner.Defaults()...))

	tests := []struct {
		language string
		input    string
		expected string
	}{
		{"kotlin", `val s = "cost"`, `val s = "\$costo"`},
		{"php", `echo "cost $n";`, `echo "\$costo $n";`},
		{"csharp", `var s = $"set {x}";`, `var s = $"{{conjunto}} {x}";`},
		{"rust", `println!("set");`, `println!("{{conjunto}}");`},
	}

	for _, tt := range tests {
		t.Run(tt.language, func(t *testing.T) {
			result := translate(t, tr, tt.input, tt.language)
			if result.Code != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result.Code)
			}
		})
	}
}

func TestTranslator_PythonBytesUntouched(t *testing.T) {
	tr := newTestTranslator()

	result := translate(t, tr, "a = b\"user\"\nb = rb'user'\nc = \"user\"\n", "python")

	expected := "a = b\"user\"\nb = rb'user'\nc = \"usuario\"\n"
	if result.Code != expected {
		t.Errorf("Expected %q, got %q", expected, result.Code)
	}
	if result.ReplacedStrings != 1 {
		t.Errorf("Expected 1 replaced string phrase, got %d", result.ReplacedStrings)
	}
}

func TestTranslator_HTMLEscapesReplacement(t *testing.T) {
	tr := glosa.NewTranslator(glosa.NewDictionaryCache(staticTerms([]glosa.DictionaryEntry{
		{Term: "less", Translation: "a < b & c"},
		{Term: "note", Translation: "x -- y"},
	})), glosa.WithScanners(scanner.Defaults()...))

	result := translate(t, tr, "<p>less</p><!-- note -->", "html")

	expected := "<p>a &lt; b &amp; c</p><!-- x - - y -->"
	if result.Code != expected {
		t.Errorf("Expected %q, got %q", expected, result.Code)
	}
}
