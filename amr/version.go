package amr

import "github.com/blang/semver"

// Version is the version of the AMR box library and tools.
var Version = semver.MustParse("0.4.1")

// CompatibleWith returns true if a peer running version v exchanges boxes with the
// same binary layout as this build.  The box layout is unversioned, so peers must
// share the same major version and, before 1.0, the same minor version.
func CompatibleWith(v semver.Version) bool {
	if v.Major != Version.Major {
		return false
	}
	if Version.Major == 0 {
		return v.Minor == Version.Minor
	}
	return true
}
