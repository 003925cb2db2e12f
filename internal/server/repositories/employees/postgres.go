// Package employees provides the PostgreSQL-backed employee repository.
package employees

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/staffql/internal/common"
	"github.com/dmitrijs2005/staffql/internal/dbx"
	"github.com/dmitrijs2005/staffql/internal/server/models"
)

const columns = `id, first_name, last_name, email, gender, designation, salary,
	date_of_joining, department, employee_photo, created_at, updated_at`

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEmployee(s scanner) (*models.Employee, error) {
	var (
		e     models.Employee
		photo sql.NullString
	)
	err := s.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.Gender, &e.Designation, &e.Salary,
		&e.DateOfJoining, &e.Department, &photo, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if photo.Valid {
		e.EmployeePhoto = &photo.String
	}
	return &e, nil
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]*models.Employee, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) queryOne(ctx context.Context, query string, args ...any) (*models.Employee, error) {
	e, err := scanEmployee(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

// List returns every employee ordered by creation time. An empty table
// yields an empty, non-nil slice.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Employee, error) {
	return r.query(ctx, `SELECT `+columns+` FROM employees ORDER BY created_at, id`)
}

// Find returns employees matching every non-empty field of filter.
func (r *PostgresRepository) Find(ctx context.Context, filter models.EmployeeFilter) ([]*models.Employee, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Designation != "" {
		args = append(args, filter.Designation)
		conds = append(conds, fmt.Sprintf("designation = $%d", len(args)))
	}
	if filter.Department != "" {
		args = append(args, filter.Department)
		conds = append(conds, fmt.Sprintf("department = $%d", len(args)))
	}

	query := `SELECT ` + columns + ` FROM employees`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at, id`

	return r.query(ctx, query, args...)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Employee, error) {
	return r.queryOne(ctx, `SELECT `+columns+` FROM employees WHERE id = $1`, id)
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.Employee, error) {
	return r.queryOne(ctx, `SELECT `+columns+` FROM employees WHERE email = $1`, email)
}

// Create inserts e with a freshly generated ID. A duplicate email yields
// common.ErrorConflict.
func (r *PostgresRepository) Create(ctx context.Context, e *models.Employee) (*models.Employee, error) {
	id, err := common.NewObjectID()
	if err != nil {
		return nil, fmt.Errorf("id generation error: %w", err)
	}

	query :=
		`INSERT INTO employees (id, first_name, last_name, email, gender, designation, salary,
			date_of_joining, department, employee_photo)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING ` + columns

	var photo sql.NullString
	if e.EmployeePhoto != nil {
		photo = sql.NullString{String: *e.EmployeePhoto, Valid: true}
	}

	created, err := scanEmployee(r.db.QueryRowContext(ctx, query,
		id, e.FirstName, e.LastName, e.Email, e.Gender, e.Designation, e.Salary,
		e.DateOfJoining, e.Department, photo))
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

// Update overwrites the mutable fields of the employee with the given id and
// bumps updated_at. A missing row yields common.ErrorNotFound.
func (r *PostgresRepository) Update(ctx context.Context, id string, changes models.EmployeeChanges) (*models.Employee, error) {
	query :=
		`UPDATE employees
		 SET first_name = $2, last_name = $3, designation = $4, salary = $5, department = $6,
			updated_at = now()
		 WHERE id = $1
		 RETURNING ` + columns

	return r.queryOne(ctx, query,
		id, changes.FirstName, changes.LastName, changes.Designation, changes.Salary, changes.Department)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
