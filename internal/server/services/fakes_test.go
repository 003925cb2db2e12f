package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/staffql/internal/common"
	"github.com/dmitrijs2005/staffql/internal/dbx"
	"github.com/dmitrijs2005/staffql/internal/server/models"
	"github.com/dmitrijs2005/staffql/internal/server/repositories/employees"
	"github.com/dmitrijs2005/staffql/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

type store struct {
	mu        sync.Mutex
	seq       int
	users     map[string]*models.User
	employees map[string]*models.Employee

	// calls counts every repository call, so tests can assert that
	// validation failures never reach the store.
	calls int
	err   error
}

func newStore() *store {
	return &store{users: map[string]*models.User{}, employees: map[string]*models.Employee{}}
}

func (s *store) nextID() string {
	s.seq++
	return fmt.Sprintf("%024x", s.seq)
}

func (s *store) enter() error {
	s.mu.Lock()
	s.calls++
	return s.err
}

type fakeUsers struct{ s *store }

func (f *fakeUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	err := f.s.enter()
	defer f.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	for _, x := range f.s.users {
		if x.Username == u.Username || x.Email == u.Email {
			return nil, common.ErrorConflict
		}
	}
	c := *u
	c.ID = f.s.nextID()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	f.s.users[c.ID] = &c
	out := c
	return &out, nil
}

func (f *fakeUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	err := f.s.enter()
	defer f.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	u, ok := f.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *u
	return &out, nil
}

func (f *fakeUsers) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	err := f.s.enter()
	defer f.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	for _, u := range f.s.users {
		if u.Username == username || u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

type fakeEmployees struct{ s *store }

func (f *fakeEmployees) List(ctx context.Context) ([]*models.Employee, error) {
	return f.Find(ctx, models.EmployeeFilter{})
}

func (f *fakeEmployees) Find(ctx context.Context, filter models.EmployeeFilter) ([]*models.Employee, error) {
	err := f.s.enter()
	defer f.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := make([]*models.Employee, 0)
	for _, e := range f.s.employees {
		if filter.Designation != "" && e.Designation != filter.Designation {
			continue
		}
		if filter.Department != "" && e.Department != filter.Department {
			continue
		}
		c := *e
		out = append(out, &c)
	}
	return out, nil
}

func (f *fakeEmployees) GetByID(ctx context.Context, id string) (*models.Employee, error) {
	err := f.s.enter()
	defer f.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	e, ok := f.s.employees[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *e
	return &c, nil
}

func (f *fakeEmployees) FindByEmail(ctx context.Context, email string) (*models.Employee, error) {
	err := f.s.enter()
	defer f.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	for _, e := range f.s.employees {
		if e.Email == email {
			c := *e
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeEmployees) Create(ctx context.Context, e *models.Employee) (*models.Employee, error) {
	err := f.s.enter()
	defer f.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	for _, x := range f.s.employees {
		if x.Email == e.Email {
			return nil, common.ErrorConflict
		}
	}
	c := *e
	c.ID = f.s.nextID()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	f.s.employees[c.ID] = &c
	out := c
	return &out, nil
}

func (f *fakeEmployees) Update(ctx context.Context, id string, ch models.EmployeeChanges) (*models.Employee, error) {
	err := f.s.enter()
	defer f.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	e, ok := f.s.employees[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	e.FirstName, e.LastName, e.Designation, e.Salary, e.Department =
		ch.FirstName, ch.LastName, ch.Designation, ch.Salary, ch.Department
	e.UpdatedAt = time.Now()
	c := *e
	return &c, nil
}

func (f *fakeEmployees) Delete(ctx context.Context, id string) error {
	err := f.s.enter()
	defer f.s.mu.Unlock()
	if err != nil {
		return err
	}
	if _, ok := f.s.employees[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.s.employees, id)
	return nil
}

type fakeRepoManager struct{ s *store }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository           { return &fakeUsers{m.s} }
func (m *fakeRepoManager) Employees(db dbx.DBTX) employees.Repository   { return &fakeEmployees{m.s} }
