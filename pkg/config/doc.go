// Package config loads the stepsub configuration.
//
// Configuration comes from three sources, later ones winning:
//   - built-in defaults (see Default)
//   - a stepsub.yaml, stepsub.yml or stepsub.json file
//   - STEPSUB_* environment variables
//
// Command-line flags are applied on top by the CLI.
//
// Files are checked against an embedded JSON Schema before they are decoded:
//
//	expressionErrors: fail
//	maxRewrites: 1000
//	env:
//	  dir: env
//	  profiles: [staging]
//	data:
//	  files: [data/users.yaml]
//	  values:
//	    retries: 3
//	log:
//	  level: debug
package config
