// Package config holds the serialized assistant configuration and the
// built-in defaults for each supported editor flavor. Defaults are exposed
// through accessor functions that return deep copies, so callers may modify
// the result freely before merging user overrides on top of it.
package config
