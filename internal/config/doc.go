// Package config loads daemon configuration from environment variables,
// optionally layered over a YAML file. Invalid values are fatal at startup;
// nothing here is reloadable at runtime.
package config
