package cterm

import "errors"

// ErrUnsupportedPattern is returned by MatchWithConstraint when the
// pattern side (the consequent) uses a term shape the matcher does not
// know how to walk. This is distinct from an ordinary match failure (a
// nil, nil return), which is an expected outcome during proof search.
var ErrUnsupportedPattern = errors.New("cterm: unsupported pattern shape")
