// Package envprofile builds the environment layer for substitution.
//
// Profiles live in one directory each below a root (by default "env"):
//
//	env/
//	  default/
//	    user.properties
//	  staging/
//	    urls.properties
//	    nested/extra.properties
//
// The default profile is always read first, requested profiles are layered
// on top in order, and the process environment wins over every file.
package envprofile
