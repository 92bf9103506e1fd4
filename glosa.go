// Package glosa translates the human-readable parts of source code.
//
// Glosa scans a source file into string literals, comments and code, and
// replaces dictionary phrases inside the strings and comments with their
// translations. Everything else, identifiers and keywords included, is
// reproduced byte for byte. Phrases are matched longest first and the
// translation takes the case pattern of the text it replaces.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/ZaguanLabs/glosa"
//	    "github.com/ZaguanLabs/glosa/provider"
//	    "github.com/ZaguanLabs/glosa/scanner"
//	)
//
//	func main() {
//	    // Create term store
//	    terms := provider.NewStaticProvider([]glosa.DictionaryEntry{
//	        {Term: "fetch", Translation: "obtener"},
//	        {Term: "user", Translation: "usuario"},
//	    })
//
//	    // Create translator
//	    t := glosa.NewTranslator(glosa.NewDictionaryCache(terms),
//	        glosa.WithScanners(scanner.Defaults()...),
//	    )
//
//	    // Translate TypeScript
//	    result, err := t.TranslateStructural(context.Background(), glosa.Request{
//	        Code:     "// fetch user\nconst name = \"user\";",
//	        Language: "ts",
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(result.Code) // // obtener usuario\nconst name = "usuario";
//	}
package glosa
