package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dmitrijs2005/staffql/internal/common"
	"github.com/dmitrijs2005/staffql/internal/dbx"
	"github.com/dmitrijs2005/staffql/internal/server/models"
	"github.com/dmitrijs2005/staffql/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/staffql/internal/validation"
)

const EmployeeDeletedMessage = "Employee successfully deleted"

// PhotoPresigner issues upload URLs for employee photos.
type PhotoPresigner interface {
	PresignUpload(ctx context.Context, ext string) (*models.PhotoUpload, error)
}

// NewEmployee carries addEmployee input. Salary is a pointer so that an
// omitted value can be told apart from zero.
type NewEmployee struct {
	FirstName     string
	LastName      string
	Email         string
	Gender        string
	Designation   string
	Salary        *float64
	DateOfJoining string
	Department    string
	EmployeePhoto *string
}

// EmployeeUpdate carries updateEmployee input. Nil fields were not supplied.
type EmployeeUpdate struct {
	ID          string
	FirstName   *string
	LastName    *string
	Designation *string
	Salary      *float64
	Department  *string
}

type EmployeeService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	photos      PhotoPresigner
}

func NewEmployeeService(db *sql.DB, m repomanager.RepositoryManager, photos PhotoPresigner) *EmployeeService {
	return &EmployeeService{db: db, repomanager: m, photos: photos}
}

// storeError keeps tagged errors as they are and tags anything else as a
// store failure.
func storeError(err error, msg string) error {
	var ce *common.Error
	if errors.As(err, &ce) {
		return err
	}
	return common.WrapError(common.ErrorStore, err, msg)
}

func (s *EmployeeService) List(ctx context.Context) ([]*models.Employee, error) {
	list, err := s.repomanager.Employees(s.db).List(ctx)
	if err != nil {
		return nil, storeError(err, "Error fetching employees")
	}
	return list, nil
}

func (s *EmployeeService) GetByID(ctx context.Context, id string) (*models.Employee, error) {
	if err := validation.IDShape(id, "Invalid employee ID"); err != nil {
		return nil, err
	}

	e, err := s.repomanager.Employees(s.db).GetByID(ctx, strings.ToLower(id))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewError(common.ErrorNotFound, "Employee not found")
		}
		return nil, storeError(err, "Error fetching employee")
	}
	return e, nil
}

// Search filters by whichever of designation and department is non-empty.
// No match at all is reported as NotFound rather than an empty list.
func (s *EmployeeService) Search(ctx context.Context, designation, department string) ([]*models.Employee, error) {
	if designation == "" && department == "" {
		return nil, common.NewError(common.ErrorInvalidArgument, "'designation' or 'department' must be provided.")
	}

	list, err := s.repomanager.Employees(s.db).Find(ctx, models.EmployeeFilter{
		Designation: designation,
		Department:  department,
	})
	if err != nil {
		return nil, storeError(err, "Error searching employees")
	}
	if len(list) == 0 {
		return nil, common.NewError(common.ErrorNotFound, "No employees found matching the given criteria.")
	}
	return list, nil
}

func validateNewEmployee(in NewEmployee) error {
	const required = "All fields are required"

	photo := ""
	if in.EmployeePhoto != nil {
		photo = *in.EmployeePhoto
	}

	// A zero salary counts as missing.
	var salaryErr error
	if in.Salary == nil || *in.Salary == 0 {
		salaryErr = common.NewError(common.ErrorValidation, required)
	}

	if err := validation.First(
		validation.RequiredString(in.FirstName, required),
		validation.RequiredString(in.LastName, required),
		validation.RequiredString(in.Email, required),
		validation.RequiredString(in.Gender, required),
		validation.RequiredString(in.Designation, required),
		salaryErr,
		validation.RequiredString(in.DateOfJoining, required),
		validation.RequiredString(in.Department, required),
	); err != nil {
		return err
	}

	return validation.First(
		validation.EmailShape(in.Email, "Invalid email format"),
		validation.PositiveNumber(*in.Salary, "Salary must be a positive number"),
		validation.ISODate(in.DateOfJoining, "Invalid date format for date_of_joining. Expected format: YYYY-MM-DD"),
		validation.ImageURL(photo, "Invalid URL for employee photo"),
	)
}

// Create validates in and stores a new employee. The email pre-check and the
// insert share a transaction; the unique index on email still decides races.
func (s *EmployeeService) Create(ctx context.Context, in NewEmployee) (*models.Employee, error) {
	if err := validateNewEmployee(in); err != nil {
		return nil, err
	}

	conflict := common.NewError(common.ErrorConflict, "An employee with this email already exists")

	var created *models.Employee
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Employees(tx)

		_, err := repo.FindByEmail(ctx, in.Email)
		switch {
		case err == nil:
			return conflict
		case !errors.Is(err, common.ErrorNotFound):
			return storeError(err, "Error adding employee")
		}

		e := &models.Employee{
			FirstName:     in.FirstName,
			LastName:      in.LastName,
			Email:         in.Email,
			Gender:        in.Gender,
			Designation:   in.Designation,
			Salary:        *in.Salary,
			DateOfJoining: in.DateOfJoining,
			Department:    in.Department,
		}
		if in.EmployeePhoto != nil && *in.EmployeePhoto != "" {
			e.EmployeePhoto = in.EmployeePhoto
		}

		created, err = repo.Create(ctx, e)
		if err != nil {
			if errors.Is(err, common.ErrorConflict) {
				return conflict
			}
			return storeError(err, "Error adding employee")
		}
		return nil
	})
	if err != nil {
		return nil, storeError(err, "Error adding employee")
	}
	return created, nil
}

func validateUpdate(in EmployeeUpdate) error {
	str := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}

	if err := validation.First(
		validation.IDShape(in.ID, "Invalid employee ID"),
		validation.NotBlank(str(in.FirstName), "First name is required"),
		validation.NotBlank(str(in.LastName), "Last name is required"),
		validation.NotBlank(str(in.Designation), "Designation is required"),
	); err != nil {
		return err
	}

	if in.Salary == nil {
		return common.NewError(common.ErrorValidation, "Salary must be a valid number")
	}

	return validation.First(
		validation.PositiveNumber(*in.Salary, "Salary must be a valid number"),
		validation.NotBlank(str(in.Department), "Department is required"),
	)
}

// Update overwrites first_name, last_name, designation, salary and
// department. Email, photo, gender and date_of_joining are never touched.
func (s *EmployeeService) Update(ctx context.Context, in EmployeeUpdate) (*models.Employee, error) {
	if err := validateUpdate(in); err != nil {
		return nil, err
	}

	e, err := s.repomanager.Employees(s.db).Update(ctx, strings.ToLower(in.ID), models.EmployeeChanges{
		FirstName:   *in.FirstName,
		LastName:    *in.LastName,
		Designation: *in.Designation,
		Salary:      *in.Salary,
		Department:  *in.Department,
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewError(common.ErrorNotFound, "Employee not found")
		}
		return nil, storeError(err, "Error updating employee")
	}
	return e, nil
}

func (s *EmployeeService) Delete(ctx context.Context, id string) (string, error) {
	if err := validation.IDShape(id, "Invalid employee ID"); err != nil {
		return "", err
	}

	if err := s.repomanager.Employees(s.db).Delete(ctx, strings.ToLower(id)); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.NewError(common.ErrorNotFound, "Employee not found")
		}
		return "", storeError(err, "Error deleting employee")
	}
	return EmployeeDeletedMessage, nil
}

// PhotoUpload returns a presigned PUT URL for a new photo with the given file
// extension, and the URL to pass as employee_photo once uploaded.
func (s *EmployeeService) PhotoUpload(ctx context.Context, ext string) (*models.PhotoUpload, error) {
	if !validation.IsImageExtension(ext) {
		return nil, common.NewError(common.ErrorValidation, "Unsupported photo extension")
	}
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if s.photos == nil {
		return nil, common.NewError(common.ErrorInternal, "Photo storage is not configured")
	}

	up, err := s.photos.PresignUpload(ctx, ext)
	if err != nil {
		return nil, common.WrapError(common.ErrorInternal, err, "Error creating upload URL")
	}
	return up, nil
}
