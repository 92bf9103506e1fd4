package glosa

import (
	"path/filepath"
	"strings"
)

// LanguageNames maps canonical language tags to human-readable names.
var LanguageNames = map[string]string{
	"js":     "JavaScript",
	"ts":     "TypeScript",
	"c":      "C",
	"cpp":    "C++",
	"java":   "Java",
	"csharp": "C#",
	"kotlin": "Kotlin",
	"swift":  "Swift",
	"rust":   "Rust",
	"php":    "PHP",
	"dart":   "Dart",
	"scala":  "Scala",
	"python": "Python",
	"go":     "Go",
	"html":   "HTML",
}

// ExtensionToLanguage maps file extensions to language tags.
var ExtensionToLanguage = map[string]string{
	".js":    "js",
	".jsx":   "jsx",
	".mjs":   "mjs",
	".cjs":   "cjs",
	".ts":    "ts",
	".tsx":   "tsx",
	".mts":   "ts",
	".c":     "c",
	".h":     "c",
	".cc":    "cpp",
	".cpp":   "cpp",
	".cxx":   "cpp",
	".hpp":   "cpp",
	".java":  "java",
	".cs":    "csharp",
	".kt":    "kotlin",
	".kts":   "kotlin",
	".swift": "swift",
	".rs":    "rust",
	".php":   "php",
	".dart":  "dart",
	".scala": "scala",
	".py":    "python",
	".pyi":   "python",
	".go":    "go",
	".html":  "html",
	".htm":   "html",
	".xml":   "xml",
	".rb":    "ruby",
	".sh":    "shell",
	".lua":   "lua",
	".sql":   "sql",
}

// NormalizeLanguage converts a free-form language tag to its lookup form
// (e.g., " TypeScript " → "typescript", ".py" → "py").
func NormalizeLanguage(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	return strings.TrimPrefix(tag, ".")
}

// LanguageForFile returns the language tag for a file name, based on its
// extension. Unknown extensions return the extension itself without the dot,
// which routes the file to the fallback translator.
func LanguageForFile(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := ExtensionToLanguage[ext]; ok {
		return lang
	}
	return NormalizeLanguage(ext)
}

// GetLanguageName returns the human-readable name for a language tag.
// Falls back to the tag itself if not found.
func GetLanguageName(tag string) string {
	if name, ok := LanguageNames[NormalizeLanguage(tag)]; ok {
		return name
	}
	return tag
}
