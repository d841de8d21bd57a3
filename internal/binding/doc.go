// Package binding holds the configuration model for picker key bindings.
//
// A binding associates a canonical (mode, chord) identity with an Action.
// Actions come in four shapes: a Go function, literal host command text, a
// named reference into an action Catalog, or the Disabled sentinel that
// blocks the identity outright. Sequential compositions built with Then
// run their parts left to right.
//
// # Layers
//
// Configuration arrives in priority tiers: global defaults, then
// feature-level config, then call-site config. Each tier is a Layer whose
// accessors normalize keys, so "<C-S>" and "Ctrl+s" share one entry. Merge
// folds the tiers into a single immutable Table; at each identity the
// highest tier wins unconditionally, including a Disabled entry replacing
// a real action.
//
// # Loaders
//
// Feature and call-site tiers typically come from files. The TOML and JSON
// loaders accept the same value shapes: a string is a named action, false
// is the disable sentinel, and {command = "..."} binds literal command
// text. ExportJSON renders an effective table back out for inspection.
package binding
