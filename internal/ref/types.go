package ref

import (
	"github.com/Masterminds/semver/v3"
)

// Version is a parsed version specification.
type Version struct {
	raw        string
	constraint *semver.Constraints // nil for literal versions
}

// Raw returns the version exactly as it was declared.
func (v Version) Raw() string {
	return v.raw
}

// IsRange reports whether the version is a bracketed range rather than a
// literal pin.
func (v Version) IsRange() bool {
	return v.constraint != nil
}

// String implements fmt.Stringer.
func (v Version) String() string {
	return v.raw
}

// Matches reports whether a concrete candidate version satisfies this
// specification. Literal versions match by string equality. Ranges only
// match candidates that are themselves valid semantic versions.
func (v Version) Matches(candidate string) bool {
	if v.constraint == nil {
		return v.raw == candidate
	}
	sv, err := semver.NewVersion(candidate)
	if err != nil {
		return false
	}
	return v.constraint.Check(sv)
}

// Reference is the structured form of a `name/version` string.
type Reference struct {
	Name    string
	Version Version
}

// String returns the canonical `name/version` form.
func (r Reference) String() string {
	return r.Name + "/" + r.Version.raw
}
