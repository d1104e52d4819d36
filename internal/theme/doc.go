// Package theme handles color theme loading, inheritance, and application
// for hyprsupreme. Themes are TOML or JSON files resolved from the user
// config directory, the data directory, or a local ./themes directory,
// and may extend one another through an "extends" chain.
package theme
