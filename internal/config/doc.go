// Package config loads, validates, and normalizes the ordenar TOML
// configuration: the category table, date-bucketing policy, journal
// location, and logging settings.
package config
