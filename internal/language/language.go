package language

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Full-word and native names people pass on the command line. The original
// default target is 简体中文, so the common CJK spellings are included.
var byWord = map[string]language.Tag{
	"english":    language.English,
	"spanish":    language.Spanish,
	"french":     language.French,
	"german":     language.German,
	"italian":    language.Italian,
	"portuguese": language.Portuguese,
	"japanese":   language.Japanese,
	"korean":     language.Korean,
	"chinese":    language.Chinese,
	"russian":    language.Russian,
	"arabic":     language.Arabic,
	"hindi":      language.Hindi,
	"dutch":      language.Dutch,
	"polish":     language.Polish,
	"swedish":    language.Swedish,
	"danish":     language.Danish,
	"norwegian":  language.Norwegian,
	"finnish":    language.Finnish,
	"简体中文":       language.SimplifiedChinese,
	"繁體中文":       language.TraditionalChinese,
	"繁体中文":       language.TraditionalChinese,
	"中文":         language.Chinese,
	"英语":         language.English,
	"英文":         language.English,
	"日语":         language.Japanese,
	"日本語":        language.Japanese,
	"韩语":         language.Korean,
	"한국어":        language.Korean,
}

func lookupWord(value string) (language.Tag, bool) {
	tag, ok := byWord[strings.ToLower(strings.TrimSpace(value))]
	return tag, ok
}

func parseTag(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return language.Und, false
	}
	tag, err := language.Parse(value)
	if err != nil || tag == language.Und {
		return language.Und, false
	}
	return tag, true
}

// Resolve maps a BCP-47 tag, ISO code, or known language name to a tag.
func Resolve(value string) (language.Tag, bool) {
	if tag, ok := lookupWord(value); ok {
		return tag, true
	}
	return parseTag(value)
}

// ToISO2 converts any recognized language code or word to ISO 639-1 (2-letter).
// Returns empty string for unrecognized input.
func ToISO2(value string) string {
	tag, ok := Resolve(value)
	if !ok {
		return ""
	}
	base, conf := tag.Base()
	if conf == language.No {
		return ""
	}
	code := base.String()
	if len(code) != 2 {
		return ""
	}
	return code
}

// ToISO3 converts any recognized language code or word to ISO 639-2 (3-letter).
// Returns "und" for unrecognized input.
func ToISO3(value string) string {
	tag, ok := Resolve(value)
	if !ok {
		return "und"
	}
	base, _ := tag.Base()
	return base.ISO3()
}

// DisplayName returns the English name for a recognized language, "Unknown"
// for empty input, and the trimmed input otherwise.
func DisplayName(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "Unknown"
	}
	tag, ok := Resolve(trimmed)
	if !ok {
		return trimmed
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return trimmed
}

// NativeName returns the self-name of a recognized language (e.g. Deutsch).
func NativeName(value string) string {
	tag, ok := Resolve(value)
	if !ok {
		return strings.TrimSpace(value)
	}
	if name := display.Self.Name(tag); name != "" {
		return name
	}
	return strings.TrimSpace(value)
}

// PromptName returns the target-language text substituted into translation
// prompts. Language codes become English names; anything else, including
// native names like 简体中文, is passed through unchanged.
func PromptName(value string) string {
	trimmed := strings.TrimSpace(value)
	if _, ok := lookupWord(trimmed); ok {
		return trimmed
	}
	if _, ok := parseTag(trimmed); ok {
		return DisplayName(trimmed)
	}
	return trimmed
}
