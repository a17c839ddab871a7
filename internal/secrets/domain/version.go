package domain

import "strconv"

// Version addresses one version of a secret. Version numbers start at 1 and increase by
// one with every write. The zero Version is the "no version yet" sentinel used as a
// check-and-set precondition for the first write.
type Version uint

// Unversioned returns the sentinel meaning "the secret must not exist yet".
func Unversioned() Version {
	return 0
}

// VersionOf returns the version with the given number.
func VersionOf(number uint) Version {
	return Version(number)
}

// IsVersioned reports whether v addresses an actual version.
func (v Version) IsVersioned() bool {
	return v > 0
}

// Number returns the version number, 0 for Unversioned.
func (v Version) Number() uint {
	return uint(v)
}

// String returns the decimal version number.
func (v Version) String() string {
	return strconv.FormatUint(uint64(v), 10)
}
