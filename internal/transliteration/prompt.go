package transliteration

import "fmt"

// promptTemplate steers the model. The rules are the whole contract with
// the model, so changes here change the output format.
const promptTemplate = `You are an expert transliteration engine for the Odia language (ଓଡ଼ିଆ).
Convert the following phonetic English text into Odia script.

Rules:
1. Do NOT translate the meaning. Transliterate the sounds (phonemes) into Odia script.
2. Preserve all whitespace, punctuation and line breaks exactly as they appear in the input.
3. Return ONLY the transliterated Odia text. Do not add explanations, quotes, labels or any other commentary.

Input text:
%s`

// BuildPrompt embeds text verbatim into the transliteration instructions
func BuildPrompt(text string) string {
	return fmt.Sprintf(promptTemplate, text)
}
