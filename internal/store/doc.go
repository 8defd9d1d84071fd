// Package store provides abstractions for data persistence: the store
// interfaces consumed by the service layer, shared sentinel errors, and the
// transaction helper. Concrete implementations live in internal/platform.
package store
