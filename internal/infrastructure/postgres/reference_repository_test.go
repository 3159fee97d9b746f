package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
)

func TestReferenceRepository_ExistsByIDs(t *testing.T) {
	tests := []struct {
		name    string
		newRepo func(db DBTX) *ReferenceRepository
		ids     []string
		mockFn  func(mock pgxmock.PgxPoolIface)
		want    []string
		wantErr string
	}{
		{
			name:    "returns existing categories",
			newRepo: func(db DBTX) *ReferenceRepository { return NewCategoryRepository(db) },
			ids:     []string{"c1", "c2", "c3"},
			mockFn: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT id FROM categories WHERE id = ANY\(\$1\)`).
					WithArgs(pgxmock.AnyArg()).
					WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("c1").AddRow("c3"))
			},
			want: []string{"c1", "c3"},
		},
		{
			name:    "queries the genres table",
			newRepo: func(db DBTX) *ReferenceRepository { return NewGenreRepository(db) },
			ids:     []string{"g1"},
			mockFn: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("SELECT id FROM genres").
					WithArgs(pgxmock.AnyArg()).
					WillReturnRows(pgxmock.NewRows([]string{"id"}))
			},
			want: []string{},
		},
		{
			name:    "empty request skips the query",
			newRepo: func(db DBTX) *ReferenceRepository { return NewCastMemberRepository(db) },
			ids:     nil,
			mockFn:  func(mock pgxmock.PgxPoolIface) {},
			want:    []string{},
		},
		{
			name:    "database error",
			newRepo: func(db DBTX) *ReferenceRepository { return NewCastMemberRepository(db) },
			ids:     []string{"m1"},
			mockFn: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("SELECT id FROM cast_members").
					WithArgs(pgxmock.AnyArg()).
					WillReturnError(errors.New("connection refused"))
			},
			wantErr: "failed to check cast_members",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			if err != nil {
				t.Fatalf("failed to create mock: %v", err)
			}
			defer mock.Close()

			tt.mockFn(mock)

			got, err := tt.newRepo(mock).ExistsByIDs(context.Background(), tt.ids)

			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("ExistsByIDs() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExistsByIDs() unexpected error = %v", err)
			}
			if got == nil || strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("ExistsByIDs() = %#v, want %#v", got, tt.want)
			}

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unfulfilled expectations: %v", err)
			}
		})
	}
}
