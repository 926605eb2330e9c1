package database

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/killfeed/internal/config"
	"github.com/at-ishikawa/killfeed/internal/revlog"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		name       string
		store      config.StoreConfig
		cfg        config.DatabaseConfig
		wantDriver string
		wantErr    bool
	}{
		{
			name:       "sqlite collection",
			store:      config.StoreConfig{Driver: config.DriverSQLite, Path: "/tmp/collection.anki2"},
			wantDriver: "sqlite",
		},
		{
			name:    "sqlite without a path",
			store:   config.StoreConfig{Driver: config.DriverSQLite},
			wantErr: true,
		},
		{
			name:  "mysql mirror",
			store: config.StoreConfig{Driver: config.DriverMySQL},
			cfg: config.DatabaseConfig{
				Host:     "localhost",
				Port:     3306,
				Database: "anki",
				Username: "testuser",
				Password: "testpass",
			},
			wantDriver: "mysql",
		},
		{
			name:  "mysql with pool settings and TLS",
			store: config.StoreConfig{Driver: config.DriverMySQL},
			cfg: config.DatabaseConfig{
				Host:            "db.example.com",
				Port:            3307,
				Database:        "anki",
				Username:        "admin",
				Password:        "secret",
				TLS:             true,
				Params:          map[string]string{"charset": "utf8mb4"},
				MaxOpenConns:    25,
				MaxIdleConns:    5,
				ConnMaxLifetime: 300,
			},
			wantDriver: "mysql",
		},
		{
			name:    "driver without a database",
			store:   config.StoreConfig{Driver: config.DriverYAML, Path: "reviews.yml"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Open(tt.store, tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, got)
			defer got.Close()

			assert.Equal(t, tt.wantDriver, got.DriverName())
		})
	}
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t,
		"file:/home/user/Anki2/User 1/collection.anki2?mode=ro&_pragma=busy_timeout(5000)",
		SQLiteDSN("/home/user/Anki2/User 1/collection.anki2"))
}

func TestPing(t *testing.T) {
	tests := []struct {
		name      string
		attempts  uint
		setupMock func(mock sqlmock.Sqlmock)
		wantErr   bool
	}{
		{
			name:     "first ping succeeds",
			attempts: 3,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectPing()
			},
		},
		{
			name:     "retries until the database answers",
			attempts: 3,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectPing().WillReturnError(fmt.Errorf("connection refused"))
				mock.ExpectPing()
			},
		},
		{
			name:     "gives up after the attempts",
			attempts: 2,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectPing().WillReturnError(fmt.Errorf("connection refused"))
				mock.ExpectPing().WillReturnError(fmt.Errorf("connection refused"))
			},
			wantErr: true,
		},
		{
			name:     "zero attempts still pings once",
			attempts: 0,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectPing().WillReturnError(fmt.Errorf("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
			require.NoError(t, err)
			defer db.Close()
			tt.setupMock(mock)

			err = Ping(context.Background(), sqlx.NewDb(db, "mysql"), tt.attempts)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "connection refused")
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestOpenSQLite_ReadsCollection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "collection.anki2")

	writable, err := sqlx.Open("sqlite", path)
	require.NoError(t, err)
	writable.MustExec(`CREATE TABLE revlog (
		id integer primary key,
		cid integer not null,
		usn integer not null,
		ease integer not null,
		ivl integer not null,
		lastIvl integer not null,
		factor integer not null,
		time integer not null,
		type integer not null
	)`)
	writable.MustExec(`INSERT INTO revlog VALUES
		(1653600112146, 42, 0, 2, 0, -600, 0, 8000, 0),
		(1653772912146, 42, 0, 3, 4, 1, 2500, 6000, 1),
		(1653686512146, 42, 0, 1, -600, 4, 2300, 12000, 2),
		(1653686512999, 7, 0, 4, 10, 4, 2500, 3000, 1)`)
	require.NoError(t, writable.Close())

	db, err := OpenSQLite(path)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, Ping(context.Background(), db, 1))

	repository := revlog.NewDBRepository(db)
	got, err := repository.FindLatestByCard(context.Background(), 42, 2)
	require.NoError(t, err)
	assert.Equal(t, []revlog.Entry{
		{ID: 1653772912146, Ease: 3, Interval: 4, Type: revlog.ReviewTypeReview},
		{ID: 1653686512146, Ease: 1, Interval: -600, Type: revlog.ReviewTypeRelearn},
	}, got)

	count, err := repository.CountByCard(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	_, err = db.Exec("DELETE FROM revlog")
	assert.Error(t, err, "collection must be opened read-only")
}
