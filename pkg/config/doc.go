// Package config loads typed configuration structs from environment
// variables using struct tags, with a .env file loaded once per process
// for development convenience.
//
// Each configuration type is parsed once and cached, so independent
// components can load their own config structs without re-reading the
// environment or disagreeing on values.
package config
