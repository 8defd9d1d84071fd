// Package openrouter implements the generation.Generator port against the
// OpenRouter chat completions API. The raw HTTP client classifies provider
// failures into the generation error taxonomy; ResilientClient layers retry
// with exponential backoff and a circuit breaker on top.
package openrouter
