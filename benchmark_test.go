package glosa_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ZaguanLabs/glosa"
	"github.com/ZaguanLabs/glosa/cache"
	"github.com/ZaguanLabs/glosa/provider"
	"github.com/ZaguanLabs/glosa/scanner"
)

// Benchmarks for performance validation

func benchmarkTranslator(c glosa.TranslationCache) *glosa.Translator {
	opts := []glosa.TranslatorOption{glosa.WithScanners(scanner.Defaults()...)}
	if c != nil {
		opts = append(opts, glosa.WithCache(c))
	}
	return glosa.NewTranslator(glosa.NewDictionaryCache(provider.NewMockProvider()), opts...)
}

func benchmarkSource(lines int) string {
	var b strings.Builder
	for i := 0; i < lines; i++ {
		b.WriteString("// fetch user and save changes\n")
		b.WriteString("const msg = `Welcome ${user.name}, please log in`;\n")
		b.WriteString("if (user) { render(\"Sign in\"); }\n")
	}
	return b.String()
}

func BenchmarkHashText(b *testing.B) {
	text := "Welcome back, please sign in to save changes"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		glosa.HashText(text)
	}
}

func BenchmarkSegmentKey(b *testing.B) {
	body := "Welcome back, please sign in to save changes"
	version := "a591a6d40bf42040"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		glosa.SegmentKey(glosa.KindString, "escaped", body, version)
	}
}

func BenchmarkIndex_Substitute(b *testing.B) {
	p := provider.NewMockProvider()
	idx := glosa.NewIndex(p.Entries)
	text := "Fetch user, then save changes and log in. Welcome!"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		idx.Substitute(text)
	}
}

func BenchmarkInMemoryCache_Get(b *testing.B) {
	c := cache.NewInMemoryCache(time.Hour)
	_ = c.Set("test-key", "test-value")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get("test-key")
	}
}

func BenchmarkScanner_JavaScript(b *testing.B) {
	s := scanner.NewJavaScriptScanner()
	src := benchmarkSource(100)
	b.SetBytes(int64(len(src)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Scan(src)
	}
}

func BenchmarkTranslator_Uncached(b *testing.B) {
	translator := benchmarkTranslator(nil)
	req := glosa.Request{Code: benchmarkSource(100), Language: "ts"}
	ctx := context.Background()
	b.SetBytes(int64(len(req.Code)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = translator.TranslateStructural(ctx, req)
	}
}

func BenchmarkTranslator_Cached(b *testing.B) {
	translator := benchmarkTranslator(cache.NewInMemoryCache(time.Hour))
	req := glosa.Request{Code: benchmarkSource(100), Language: "ts"}
	ctx := context.Background()

	// Warm up cache
	_, _ = translator.TranslateStructural(ctx, req)

	b.SetBytes(int64(len(req.Code)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = translator.TranslateStructural(ctx, req)
	}
}

func BenchmarkGetLanguageName(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		glosa.GetLanguageName("typescript")
	}
}
