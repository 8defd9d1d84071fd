// Package generation defines the boundary between the application core and
// external AI providers: the Generator port and the provider error taxonomy.
// Concrete adapters live under internal/platform.
package generation
