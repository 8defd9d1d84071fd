// Package gemini implements the generation.Generator port against the Google
// Gemini API, as an alternative to the OpenRouter adapter. Selected with
// ai.provider=gemini.
package gemini
