package postgres

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/hszk-dev/catalog/internal/domain/repository"
	"github.com/hszk-dev/catalog/internal/infrastructure/metrics"
)

// ReferenceRepository answers existence checks against one reference table.
type ReferenceRepository struct {
	db    DBTX
	table string
	query string
}

func newReferenceRepository(db DBTX, table string) *ReferenceRepository {
	return &ReferenceRepository{
		db:    db,
		table: table,
		query: "SELECT id FROM " + table + " WHERE id = ANY($1)",
	}
}

// NewCategoryRepository checks ids against the categories table.
func NewCategoryRepository(db DBTX) *ReferenceRepository {
	return newReferenceRepository(db, metrics.TableCategories)
}

// NewGenreRepository checks ids against the genres table.
func NewGenreRepository(db DBTX) *ReferenceRepository {
	return newReferenceRepository(db, metrics.TableGenres)
}

// NewCastMemberRepository checks ids against the cast_members table.
func NewCastMemberRepository(db DBTX) *ReferenceRepository {
	return newReferenceRepository(db, metrics.TableCastMembers)
}

// ExistsByIDs returns the subset of ids present in the table.
// An empty request is answered without a query.
func (r *ReferenceRepository) ExistsByIDs(ctx context.Context, ids []string) ([]string, error) {
	existing := []string{}
	if len(ids) == 0 {
		return existing, nil
	}

	if err := pgxscan.Select(ctx, r.db, &existing, r.query, ids); err != nil {
		return nil, fmt.Errorf("failed to check %s: %w", r.table, err)
	}
	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, r.table).Inc()

	return existing, nil
}

var (
	_ repository.CategoryRepository   = (*ReferenceRepository)(nil)
	_ repository.GenreRepository      = (*ReferenceRepository)(nil)
	_ repository.CastMemberRepository = (*ReferenceRepository)(nil)
)
