// Package transliteration converts phonetic English text into Odia script
// by prompting a generative-language model. The model does all the work;
// this package owns the prompt, the provider clients (Gemini and OpenAI),
// and the mapping of every failure onto a single user-facing error.
package transliteration
