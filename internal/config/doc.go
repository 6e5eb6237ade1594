// Package config loads, normalizes, and validates subtrans configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, loads a .env file from the working directory,
// and honours environment fallbacks such as OPENAI_API_KEY. Always obtain
// settings through this package so downstream code receives absolute paths and
// clear validation errors.
package config
