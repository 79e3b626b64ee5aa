package ref

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

const (
	maxNameLength    = 100
	maxVersionLength = 50
)

var (
	nameRegex    = regexp.MustCompile(`^[a-z0-9_][a-z0-9_+.-]*$`)
	versionRegex = regexp.MustCompile(`^[a-zA-Z0-9_][a-zA-Z0-9_+.-]*$`)
)

// ValidateName checks a package name against the accepted character set.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("package name cannot be empty")
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("package name %q is longer than %d characters", name, maxNameLength)
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("invalid package name %q", name)
	}
	return nil
}

// ParseVersion parses a literal version or a bracketed version range.
func ParseVersion(raw string) (Version, error) {
	if raw == "" {
		return Version{}, fmt.Errorf("version cannot be empty")
	}

	if strings.HasPrefix(raw, "[") {
		if !strings.HasSuffix(raw, "]") {
			return Version{}, fmt.Errorf("unterminated version range %q", raw)
		}
		expr := strings.TrimSpace(raw[1 : len(raw)-1])
		if expr == "" {
			return Version{}, fmt.Errorf("empty version range %q", raw)
		}
		c, err := semver.NewConstraint(expr)
		if err != nil {
			return Version{}, fmt.Errorf("invalid version range %q: %w", raw, err)
		}
		return Version{raw: raw, constraint: c}, nil
	}

	if len(raw) > maxVersionLength {
		return Version{}, fmt.Errorf("version %q is longer than %d characters", raw, maxVersionLength)
	}
	if !versionRegex.MatchString(raw) || strings.Contains(raw, "..") || strings.HasSuffix(raw, ".") {
		return Version{}, fmt.Errorf("invalid version %q", raw)
	}
	return Version{raw: raw}, nil
}

// Parse creates a Reference from its canonical `name/version` form.
func Parse(raw string) (*Reference, error) {
	if raw == "" {
		return nil, fmt.Errorf("reference cannot be empty")
	}

	name, version, found := strings.Cut(raw, "/")
	if !found {
		return nil, fmt.Errorf("reference %q must have the form name/version", raw)
	}
	if err := ValidateName(name); err != nil {
		return nil, fmt.Errorf("reference %q: %w", raw, err)
	}
	v, err := ParseVersion(version)
	if err != nil {
		return nil, fmt.Errorf("reference %q: %w", raw, err)
	}

	return &Reference{Name: name, Version: v}, nil
}

// MustParse is like Parse but panics on error. It is intended for
// statically known references.
func MustParse(raw string) *Reference {
	r, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return r
}
