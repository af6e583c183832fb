package domain

import (
	"strings"

	apperrors "github.com/nate2211/github-analytics/internal/errors"
)

const hostPrefix = "https://github.com/"

// RepoSlug identifies a repository by owner and name. Both parts are
// case-preserving and compared by exact string.
type RepoSlug struct {
	Owner string
	Name  string
}

func (s RepoSlug) String() string {
	return s.Owner + "/" + s.Name
}

// ParseRepoSlug parses a free-form repo identifier: either a bare
// "owner/name" or a full https://github.com/owner/name URL, trailing
// slashes tolerated.
func ParseRepoSlug(raw string) (RepoSlug, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return RepoSlug{}, &apperrors.ParseError{Input: raw}
	}
	s = strings.ReplaceAll(s, hostPrefix, "")
	s = strings.Trim(s, "/")

	owner, name, ok := strings.Cut(s, "/")
	if !ok {
		return RepoSlug{}, &apperrors.ParseError{Input: raw}
	}
	owner = strings.TrimSpace(owner)
	name = strings.TrimSpace(name)
	if owner == "" || name == "" {
		return RepoSlug{}, &apperrors.ParseError{Input: raw}
	}
	return RepoSlug{Owner: owner, Name: name}, nil
}
