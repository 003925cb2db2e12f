package server

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/staffql/internal/dbx"
	"github.com/dmitrijs2005/staffql/internal/server/config"
	"github.com/dmitrijs2005/staffql/internal/server/repositories/employees"
	"github.com/dmitrijs2005/staffql/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/staffql/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepoManager struct {
	migrateErr error
	migrated   bool
}

func (m *stubRepoManager) RunMigrations(context.Context, *sql.DB) error {
	m.migrated = true
	return m.migrateErr
}
func (m *stubRepoManager) Users(db dbx.DBTX) users.Repository { return users.NewPostgresRepository(db) }
func (m *stubRepoManager) Employees(db dbx.DBTX) employees.Repository {
	return employees.NewPostgresRepository(db)
}

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.EndpointAddrHTTP = "127.0.0.1:0"
	return c
}

func stubDeps(t *testing.T, rm *stubRepoManager, dbErr error) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	origOpen, origRM := openDB, newRepoManager
	t.Cleanup(func() { openDB, newRepoManager = origOpen, origRM })

	openDB = func(ctx context.Context, dsn string) (*sql.DB, error) {
		if dbErr != nil {
			return nil, dbErr
		}
		return db, nil
	}
	newRepoManager = func() repomanager.RepositoryManager { return rm }
	return mock
}

func TestNewApp_Success(t *testing.T) {
	rm := &stubRepoManager{}
	mock := stubDeps(t, rm, nil)

	app, err := NewApp(context.Background(), testConfig())
	require.NoError(t, err)
	assert.True(t, rm.migrated)
	assert.NotNil(t, app.userService)
	assert.NotNil(t, app.employeeService)

	mock.ExpectClose()
	require.NoError(t, app.Close())
}

func TestNewPhotoStorage(t *testing.T) {
	c := testConfig()
	c.S3RootUser, c.S3RootPassword = "", ""
	assert.Nil(t, newPhotoStorage(c))

	c.S3RootUser, c.S3RootPassword = "minio", "minio123"
	assert.NotNil(t, newPhotoStorage(c))
}

func TestNewApp_ZapLoggerSyncedOnClose(t *testing.T) {
	mock := stubDeps(t, &stubRepoManager{}, nil)

	c := testConfig()
	c.LogFormat = "zap"
	app, err := NewApp(context.Background(), c)
	require.NoError(t, err)

	mock.ExpectClose()
	require.NoError(t, app.Close())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewApp_DBError(t *testing.T) {
	stubDeps(t, &stubRepoManager{}, errors.New("refused"))

	_, err := NewApp(context.Background(), testConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db init error")
}

func TestNewApp_MigrationError(t *testing.T) {
	mock := stubDeps(t, &stubRepoManager{migrateErr: errors.New("bad sql")}, nil)
	mock.ExpectClose()

	_, err := NewApp(context.Background(), testConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrations error")
}

func TestRun_ReturnsOnCancel(t *testing.T) {
	stubDeps(t, &stubRepoManager{}, nil)

	app, err := NewApp(context.Background(), testConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
