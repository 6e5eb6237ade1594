package translation

import (
	"regexp"
	"strings"
)

const batchPromptTemplate = `You are a professional subtitle translator. Translate subtitle lines into ${target_language}.

The user message is a JSON object that maps subtitle numbers to source lines.
Reply with a JSON object that has exactly the same keys, each mapped to the translation of its line.
- Translate every line on its own; never merge, split, drop or reorder lines.
- Keep the meaning and tone natural for spoken dialogue and keep lines short.
- Leave names, numbers and technical terms intact when they have no common translation.
- Output only the JSON object, without code fences or commentary.
${custom_prompt}`

const singlePromptTemplate = `You are a professional subtitle translator. Translate the user's subtitle line into ${target_language}.
Reply with the translation only, without quotes, notes or explanations.`

var placeholderPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandTemplate replaces ${name} placeholders with values from vars.
// Placeholders without a value are left untouched.
func expandTemplate(tmpl string, vars map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(tmpl, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		if value, ok := vars[name]; ok {
			return value
		}
		return match
	})
}

// Prompts holds the rendered system prompts for both translation modes.
type Prompts struct {
	Batch  string
	Single string
}

// BuildPrompts renders the batch and single-item system prompts.
func BuildPrompts(targetLanguage, customPrompt string) Prompts {
	vars := map[string]string{
		"target_language": targetLanguage,
		"custom_prompt":   strings.TrimSpace(customPrompt),
	}
	return Prompts{
		Batch:  strings.TrimSpace(expandTemplate(batchPromptTemplate, vars)),
		Single: strings.TrimSpace(expandTemplate(singlePromptTemplate, vars)),
	}
}
