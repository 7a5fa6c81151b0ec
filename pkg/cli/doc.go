// Package cli implements the stepsub command tree.
//
// Commands:
//   - substitute (sub): resolve templates from arguments or stdin
//   - vars: show the environment and data layers
//   - config: show the effective configuration or its schema
//   - version: show build information
package cli
