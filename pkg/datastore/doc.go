// Package datastore provides the runtime data layer for substitution.
//
// Values are kept per scope (suite, spec, scenario). A Snapshot merges the
// scopes with the narrowest scope winning and is what gets passed as the
// data layer to the substitution engine.
package datastore
