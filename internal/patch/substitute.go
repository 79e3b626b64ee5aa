package patch

import (
	"errors"
	"strings"
)

// ErrSearchNotFound is returned when neither the search text nor its
// replacement occurs in the target.
var ErrSearchNotFound = errors.New("search string not found")

// Outcome describes what a substitution did.
type Outcome int

const (
	// Applied means at least one occurrence was replaced.
	Applied Outcome = iota
	// AlreadyApplied means the replacement is present and no unpatched
	// occurrence remains. The content is unchanged.
	AlreadyApplied
	// Warned means a non-strict rule found nothing to replace.
	Warned
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case AlreadyApplied:
		return "already-applied"
	case Warned:
		return "warned"
	default:
		return "unknown"
	}
}

// Substitute replaces every occurrence of search with replace. It returns the
// new content and the number of replacements made.
//
// When the replacement itself contains the search text, occurrences that are
// part of an existing replacement are left alone, so substituting twice
// never nests replacements.
func Substitute(content, search, replace string) (string, Outcome, int, error) {
	if search == "" {
		return content, Applied, 0, errors.New("search string cannot be empty")
	}

	if replace != "" && strings.Contains(replace, search) {
		segments := strings.Split(content, replace)
		count := 0
		for i, seg := range segments {
			n := strings.Count(seg, search)
			if n > 0 {
				segments[i] = strings.ReplaceAll(seg, search, replace)
				count += n
			}
		}
		if count > 0 {
			return strings.Join(segments, replace), Applied, count, nil
		}
		if len(segments) > 1 {
			return content, AlreadyApplied, 0, nil
		}
		return content, Applied, 0, ErrSearchNotFound
	}

	if count := strings.Count(content, search); count > 0 {
		return strings.ReplaceAll(content, search, replace), Applied, count, nil
	}
	if replace != "" && strings.Contains(content, replace) {
		return content, AlreadyApplied, 0, nil
	}
	return content, Applied, 0, ErrSearchNotFound
}
