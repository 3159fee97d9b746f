package repository

import "context"

// ReferenceChecker answers which of the requested ids exist in a collection
// owned by another aggregate. The result is a subset of ids, in no particular order.
type ReferenceChecker interface {
	ExistsByIDs(ctx context.Context, ids []string) ([]string, error)
}

// CategoryRepository checks category references.
type CategoryRepository interface {
	ReferenceChecker
}

// GenreRepository checks genre references.
type GenreRepository interface {
	ReferenceChecker
}

// CastMemberRepository checks cast member references.
type CastMemberRepository interface {
	ReferenceChecker
}
