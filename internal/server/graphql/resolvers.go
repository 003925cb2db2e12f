package graphql

import (
	"github.com/dmitrijs2005/staffql/internal/server/auth"
	"github.com/dmitrijs2005/staffql/internal/server/services"
	"github.com/graphql-go/graphql"
)

func argString(p graphql.ResolveParams, name string) string {
	s, _ := p.Args[name].(string)
	return s
}

func argStringPtr(p graphql.ResolveParams, name string) *string {
	s, ok := p.Args[name].(string)
	if !ok {
		return nil
	}
	return &s
}

func argFloatPtr(p graphql.ResolveParams, name string) *float64 {
	switch v := p.Args[name].(type) {
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	}
	return nil
}

func (r *resolver) getAllEmployees(p graphql.ResolveParams) (interface{}, error) {
	if err := r.guard(p.Context); err != nil {
		return nil, err
	}
	list, err := r.employees.List(p.Context)
	if err != nil {
		return nil, gqlError(err)
	}
	return list, nil
}

func (r *resolver) searchEmployeeByID(p graphql.ResolveParams) (interface{}, error) {
	if err := r.guard(p.Context); err != nil {
		return nil, err
	}
	e, err := r.employees.GetByID(p.Context, argString(p, "id"))
	if err != nil {
		return nil, gqlError(err)
	}
	return e, nil
}

func (r *resolver) searchEmployee(p graphql.ResolveParams) (interface{}, error) {
	if err := r.guard(p.Context); err != nil {
		return nil, err
	}
	list, err := r.employees.Search(p.Context, argString(p, "designation"), argString(p, "department"))
	if err != nil {
		return nil, gqlError(err)
	}
	return list, nil
}

func (r *resolver) addEmployee(p graphql.ResolveParams) (interface{}, error) {
	if err := r.guard(p.Context); err != nil {
		return nil, err
	}
	e, err := r.employees.Create(p.Context, services.NewEmployee{
		FirstName:     argString(p, "first_name"),
		LastName:      argString(p, "last_name"),
		Email:         argString(p, "email"),
		Gender:        argString(p, "gender"),
		Designation:   argString(p, "designation"),
		Salary:        argFloatPtr(p, "salary"),
		DateOfJoining: argString(p, "date_of_joining"),
		Department:    argString(p, "department"),
		EmployeePhoto: argStringPtr(p, "employee_photo"),
	})
	if err != nil {
		return nil, gqlError(err)
	}
	return e, nil
}

func (r *resolver) updateEmployee(p graphql.ResolveParams) (interface{}, error) {
	if err := r.guard(p.Context); err != nil {
		return nil, err
	}
	e, err := r.employees.Update(p.Context, services.EmployeeUpdate{
		ID:          argString(p, "id"),
		FirstName:   argStringPtr(p, "first_name"),
		LastName:    argStringPtr(p, "last_name"),
		Designation: argStringPtr(p, "designation"),
		Salary:      argFloatPtr(p, "salary"),
		Department:  argStringPtr(p, "department"),
	})
	if err != nil {
		return nil, gqlError(err)
	}
	return e, nil
}

func (r *resolver) deleteEmployee(p graphql.ResolveParams) (interface{}, error) {
	if err := r.guard(p.Context); err != nil {
		return nil, err
	}
	msg, err := r.employees.Delete(p.Context, argString(p, "id"))
	if err != nil {
		return nil, gqlError(err)
	}
	return msg, nil
}

func (r *resolver) employeePhotoUploadURL(p graphql.ResolveParams) (interface{}, error) {
	if err := r.guard(p.Context); err != nil {
		return nil, err
	}
	up, err := r.employees.PhotoUpload(p.Context, argString(p, "extension"))
	if err != nil {
		return nil, gqlError(err)
	}
	return up, nil
}

func (r *resolver) signup(p graphql.ResolveParams) (interface{}, error) {
	u, err := r.users.Signup(p.Context, argString(p, "username"), argString(p, "email"), argString(p, "password"))
	if err != nil {
		return nil, gqlError(err)
	}
	return u, nil
}

// login takes the username argument, falling back to email when it is
// absent. Either one is matched against both columns.
func (r *resolver) login(p graphql.ResolveParams) (interface{}, error) {
	login := argString(p, "username")
	if login == "" {
		login = argString(p, "email")
	}
	payload, err := r.users.Login(p.Context, login, argString(p, "password"))
	if err != nil {
		return nil, gqlError(err)
	}
	return payload, nil
}

func (r *resolver) me(p graphql.ResolveParams) (interface{}, error) {
	id, _ := auth.UserIDFromContext(p.Context)
	u, err := r.users.Me(p.Context, id)
	if err != nil {
		return nil, gqlError(err)
	}
	return u, nil
}
