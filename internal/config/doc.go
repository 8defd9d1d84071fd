// Package config defines application configuration loading and validation.
package config
