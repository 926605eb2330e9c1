package revlog

import (
	"context"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const findLatestQuery = "SELECT id, ease, ivl, type FROM revlog WHERE cid = \\? ORDER BY id DESC LIMIT \\?"

func TestDBRepository_FindLatestByCard(t *testing.T) {
	tests := []struct {
		name      string
		cardID    int64
		limit     int
		setupMock func(mock sqlmock.Sqlmock)
		want      []Entry
		wantErr   bool
	}{
		{
			name:   "returns entries newest first",
			cardID: 1498938915662,
			limit:  10,
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "ease", "ivl", "type"}).
					AddRow(1653772912146, 3, 4, 1).
					AddRow(1653600000000, 1, -600, 2)
				mock.ExpectQuery(findLatestQuery).
					WithArgs(int64(1498938915662), 10).
					WillReturnRows(rows)
			},
			want: []Entry{
				{ID: 1653772912146, Ease: 3, Interval: 4, Type: ReviewTypeReview},
				{ID: 1653600000000, Ease: 1, Interval: -600, Type: ReviewTypeRelearn},
			},
		},
		{
			name:   "limit below one queries a single row",
			cardID: 7,
			limit:  0,
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "ease", "ivl", "type"}).
					AddRow(1653772912146, 2, 0, 0)
				mock.ExpectQuery(findLatestQuery).
					WithArgs(int64(7), 1).
					WillReturnRows(rows)
			},
			want: []Entry{
				{ID: 1653772912146, Ease: 2, Interval: 0, Type: ReviewTypeLearn},
			},
		},
		{
			name:   "card without reviews",
			cardID: 99,
			limit:  10,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(findLatestQuery).
					WithArgs(int64(99), 10).
					WillReturnRows(sqlmock.NewRows([]string{"id", "ease", "ivl", "type"}))
			},
			want: nil,
		},
		{
			name:   "db error",
			cardID: 1,
			limit:  10,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(findLatestQuery).
					WithArgs(int64(1), 10).
					WillReturnError(fmt.Errorf("database is locked"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			repo := NewDBRepository(sqlx.NewDb(db, "sqlite"))
			tt.setupMock(mock)

			got, err := repo.FindLatestByCard(context.Background(), tt.cardID, tt.limit)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBRepository_CountByCard(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		want      int
		wantErr   bool
	}{
		{
			name: "counts reviews",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM revlog WHERE cid = \\?").
					WithArgs(int64(5)).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
			},
			want: 12,
		},
		{
			name: "db error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM revlog WHERE cid = \\?").
					WithArgs(int64(5)).
					WillReturnError(fmt.Errorf("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			repo := NewDBRepository(sqlx.NewDb(db, "mysql"))
			tt.setupMock(mock)

			got, err := repo.CountByCard(context.Background(), 5)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
