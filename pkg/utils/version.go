// Package utils holds small helpers shared by relay packages that don't
// warrant a package of their own.
package utils

// Build metadata, set with -ldflags at release time.
var (
	Version   = "dev"
	Sha       = "HEAD"
	Buildtime = "dev"
)
