package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/staffql/internal/common"
	"github.com/dmitrijs2005/staffql/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

type fakePresigner struct {
	gotExt string
	err    error
}

func (f *fakePresigner) PresignUpload(ctx context.Context, ext string) (*models.PhotoUpload, error) {
	f.gotExt = ext
	if f.err != nil {
		return nil, f.err
	}
	return &models.PhotoUpload{
		UploadURL: "http://minio:9000/staffql/employees/x." + ext + "?sig=1",
		PhotoURL:  "http://localhost:9000/staffql/employees/x." + ext,
		ExpiresAt: time.Now().Add(15 * time.Minute),
	}, nil
}

func newEmployeeService(t *testing.T) (*EmployeeService, sqlmock.Sqlmock, *store) {
	t.Helper()
	db, mock := newSQLMockDB(t)
	st := newStore()
	return NewEmployeeService(db, &fakeRepoManager{s: st}, &fakePresigner{}), mock, st
}

func validNewEmployee() NewEmployee {
	return NewEmployee{
		FirstName:     "Ada",
		LastName:      "Lovelace",
		Email:         "ada@example.com",
		Gender:        "female",
		Designation:   "Engineer",
		Salary:        ptr(5000.0),
		DateOfJoining: "2024-01-15",
		Department:    "R&D",
		EmployeePhoto: ptr("https://cdn.example.com/ada.png"),
	}
}

func requireKind(t *testing.T, err error, kind error, msg string) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, kind)
	var ce *common.Error
	require.True(t, errors.As(err, &ce), "want *common.Error, got %T", err)
	assert.Equal(t, msg, ce.Message)
}

func TestCreateThenGetByID(t *testing.T) {
	svc, mock, _ := newEmployeeService(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	in := validNewEmployee()
	created, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	got, err := svc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)

	assert.Len(t, got.ID, 24)
	assert.False(t, got.CreatedAt.IsZero())
	assert.Equal(t, in.FirstName, got.FirstName)
	assert.Equal(t, in.LastName, got.LastName)
	assert.Equal(t, in.Email, got.Email)
	assert.Equal(t, in.Gender, got.Gender)
	assert.Equal(t, in.Designation, got.Designation)
	assert.Equal(t, *in.Salary, got.Salary)
	assert.Equal(t, in.DateOfJoining, got.DateOfJoining)
	assert.Equal(t, in.Department, got.Department)
	require.NotNil(t, got.EmployeePhoto)
	assert.Equal(t, *in.EmployeePhoto, *got.EmployeePhoto)
}

func TestCreate_DuplicateEmailIsConflict(t *testing.T) {
	svc, mock, st := newEmployeeService(t)
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), validNewEmployee())
	require.NoError(t, err)

	dup := validNewEmployee()
	dup.FirstName = "Other"
	_, err = svc.Create(context.Background(), dup)
	requireKind(t, err, common.ErrorConflict, "An employee with this email already exists")
	assert.Len(t, st.employees, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_ValidationOrderAndNoStoreAccess(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*NewEmployee)
		msg    string
	}{
		{"missing first name", func(e *NewEmployee) { e.FirstName = "" }, "All fields are required"},
		{"missing salary", func(e *NewEmployee) { e.Salary = nil }, "All fields are required"},
		{"missing department beats bad email", func(e *NewEmployee) { e.Department = ""; e.Email = "x" }, "All fields are required"},
		{"bad email", func(e *NewEmployee) { e.Email = "not-an-email" }, "Invalid email format"},
		{"zero salary counts as missing", func(e *NewEmployee) { e.Salary = ptr(0.0) }, "All fields are required"},
		{"negative salary", func(e *NewEmployee) { e.Salary = ptr(-10.0) }, "Salary must be a positive number"},
		{"bad date", func(e *NewEmployee) { e.DateOfJoining = "2023/01/01" }, "Invalid date format for date_of_joining. Expected format: YYYY-MM-DD"},
		{"ftp photo", func(e *NewEmployee) { e.EmployeePhoto = ptr("ftp://x.com/a.png") }, "Invalid URL for employee photo"},
		{"bad email beats bad date", func(e *NewEmployee) { e.Email = "bad"; e.DateOfJoining = "x" }, "Invalid email format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mock, st := newEmployeeService(t)
			in := validNewEmployee()
			tt.mutate(&in)

			_, err := svc.Create(context.Background(), in)
			requireKind(t, err, common.ErrorValidation, tt.msg)
			assert.Zero(t, st.calls)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCreate_EmptyPhotoIsStoredAsNull(t *testing.T) {
	svc, mock, _ := newEmployeeService(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	in := validNewEmployee()
	in.EmployeePhoto = ptr("")
	got, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Nil(t, got.EmployeePhoto)
}

func TestCreate_StoreErrorRollsBack(t *testing.T) {
	svc, mock, st := newEmployeeService(t)
	st.err = errors.New("connection reset")
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), validNewEmployee())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrorStore)
	assert.Contains(t, err.Error(), "Error adding employee")
	assert.Contains(t, err.Error(), "connection reset")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_BeginErrorIsStoreError(t *testing.T) {
	svc, mock, _ := newEmployeeService(t)
	mock.ExpectBegin().WillReturnError(errors.New("pool closed"))

	_, err := svc.Create(context.Background(), validNewEmployee())
	assert.ErrorIs(t, err, common.ErrorStore)
}

func TestList(t *testing.T) {
	svc, mock, _ := newEmployeeService(t)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err = svc.Create(context.Background(), validNewEmployee())
	require.NoError(t, err)

	list, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestGetByID_Errors(t *testing.T) {
	svc, _, st := newEmployeeService(t)

	_, err := svc.GetByID(context.Background(), "xyz")
	requireKind(t, err, common.ErrorValidation, "Invalid employee ID")
	assert.Zero(t, st.calls)

	_, err = svc.GetByID(context.Background(), "507f1f77bcf86cd799439011")
	requireKind(t, err, common.ErrorNotFound, "Employee not found")

	st.err = errors.New("db down")
	_, err = svc.GetByID(context.Background(), "507f1f77bcf86cd799439011")
	assert.ErrorIs(t, err, common.ErrorStore)
}

func TestSearch(t *testing.T) {
	svc, mock, _ := newEmployeeService(t)
	ctx := context.Background()

	seed := []struct{ email, designation, department string }{
		{"a@x.com", "Engineer", "R&D"},
		{"b@x.com", "Engineer", "Ops"},
		{"c@x.com", "Manager", "R&D"},
	}
	for _, s := range seed {
		mock.ExpectBegin()
		mock.ExpectCommit()
		in := validNewEmployee()
		in.Email, in.Designation, in.Department = s.email, s.designation, s.department
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	_, err := svc.Search(ctx, "", "")
	requireKind(t, err, common.ErrorInvalidArgument, "'designation' or 'department' must be provided.")

	_, err = svc.Search(ctx, "X", "")
	requireKind(t, err, common.ErrorNotFound, "No employees found matching the given criteria.")

	got, err := svc.Search(ctx, "Engineer", "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a@x.com", "b@x.com"}, emails(got))

	got, err = svc.Search(ctx, "", "R&D")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a@x.com", "c@x.com"}, emails(got))

	got, err = svc.Search(ctx, "Engineer", "R&D")
	require.NoError(t, err)
	assert.Equal(t, []string{"a@x.com"}, emails(got))
}

func emails(list []*models.Employee) []string {
	out := make([]string, 0, len(list))
	for _, e := range list {
		out = append(out, e.Email)
	}
	return out
}

func validUpdate(id string) EmployeeUpdate {
	return EmployeeUpdate{
		ID:          id,
		FirstName:   ptr("Augusta"),
		LastName:    ptr("King"),
		Designation: ptr("Architect"),
		Salary:      ptr(9000.0),
		Department:  ptr("Platform"),
	}
}

func TestUpdate_OverwritesOnlyMutableFields(t *testing.T) {
	svc, mock, _ := newEmployeeService(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	created, err := svc.Create(context.Background(), validNewEmployee())
	require.NoError(t, err)

	got, err := svc.Update(context.Background(), validUpdate(created.ID))
	require.NoError(t, err)

	assert.Equal(t, "Augusta", got.FirstName)
	assert.Equal(t, "King", got.LastName)
	assert.Equal(t, "Architect", got.Designation)
	assert.Equal(t, 9000.0, got.Salary)
	assert.Equal(t, "Platform", got.Department)

	assert.Equal(t, created.Email, got.Email)
	assert.Equal(t, created.Gender, got.Gender)
	assert.Equal(t, created.DateOfJoining, got.DateOfJoining)
	assert.Equal(t, *created.EmployeePhoto, *got.EmployeePhoto)
}

func TestUpdate_Validation(t *testing.T) {
	const id = "507f1f77bcf86cd799439011"
	tests := []struct {
		name   string
		mutate func(*EmployeeUpdate)
		msg    string
	}{
		{"bad id", func(u *EmployeeUpdate) { u.ID = "xyz" }, "Invalid employee ID"},
		{"no first name", func(u *EmployeeUpdate) { u.FirstName = nil }, "First name is required"},
		{"blank last name", func(u *EmployeeUpdate) { u.LastName = ptr("  ") }, "Last name is required"},
		{"empty designation", func(u *EmployeeUpdate) { u.Designation = ptr("") }, "Designation is required"},
		{"no salary", func(u *EmployeeUpdate) { u.Salary = nil }, "Salary must be a valid number"},
		{"negative salary", func(u *EmployeeUpdate) { u.Salary = ptr(-1.0) }, "Salary must be a valid number"},
		{"no department", func(u *EmployeeUpdate) { u.Department = nil }, "Department is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, st := newEmployeeService(t)
			in := validUpdate(id)
			tt.mutate(&in)

			_, err := svc.Update(context.Background(), in)
			requireKind(t, err, common.ErrorValidation, tt.msg)
			assert.Zero(t, st.calls)
		})
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _, _ := newEmployeeService(t)

	_, err := svc.Update(context.Background(), validUpdate("507f1f77bcf86cd799439011"))
	requireKind(t, err, common.ErrorNotFound, "Employee not found")
}

func TestDeleteThenGetByID(t *testing.T) {
	svc, mock, _ := newEmployeeService(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	created, err := svc.Create(context.Background(), validNewEmployee())
	require.NoError(t, err)

	msg, err := svc.Delete(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Employee successfully deleted", msg)

	_, err = svc.GetByID(context.Background(), created.ID)
	requireKind(t, err, common.ErrorNotFound, "Employee not found")

	_, err = svc.Delete(context.Background(), created.ID)
	requireKind(t, err, common.ErrorNotFound, "Employee not found")

	_, err = svc.Delete(context.Background(), "xyz")
	requireKind(t, err, common.ErrorValidation, "Invalid employee ID")
}

func TestUpperCaseIDFindsStoredEmployee(t *testing.T) {
	svc, mock, st := newEmployeeService(t)
	st.seq = 0xabcdef
	mock.ExpectBegin()
	mock.ExpectCommit()

	created, err := svc.Create(context.Background(), validNewEmployee())
	require.NoError(t, err)
	upper := strings.ToUpper(created.ID)
	require.NotEqual(t, created.ID, upper)

	got, err := svc.GetByID(context.Background(), upper)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	got, err = svc.Update(context.Background(), validUpdate(upper))
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Augusta", got.FirstName)

	msg, err := svc.Delete(context.Background(), upper)
	require.NoError(t, err)
	assert.Equal(t, EmployeeDeletedMessage, msg)
	assert.Empty(t, st.employees)
}

func TestPhotoUpload(t *testing.T) {
	db, _ := newSQLMockDB(t)
	pre := &fakePresigner{}
	svc := NewEmployeeService(db, &fakeRepoManager{s: newStore()}, pre)

	_, err := svc.PhotoUpload(context.Background(), "exe")
	requireKind(t, err, common.ErrorValidation, "Unsupported photo extension")
	assert.Empty(t, pre.gotExt)

	up, err := svc.PhotoUpload(context.Background(), ".PNG")
	require.NoError(t, err)
	assert.Equal(t, "png", pre.gotExt)
	assert.Contains(t, up.PhotoURL, ".png")

	pre.err = errors.New("s3 down")
	_, err = svc.PhotoUpload(context.Background(), "jpg")
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestPhotoUpload_NotConfigured(t *testing.T) {
	db, _ := newSQLMockDB(t)
	svc := NewEmployeeService(db, &fakeRepoManager{s: newStore()}, nil)

	_, err := svc.PhotoUpload(context.Background(), "jpg")
	assert.ErrorIs(t, err, common.ErrorInternal)
}
