// Package graphql builds the GraphQL schema over the employee and user
// services and executes requests against it.
package graphql

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/staffql/internal/common"
	"github.com/dmitrijs2005/staffql/internal/server/auth"
	"github.com/dmitrijs2005/staffql/internal/server/models"
	"github.com/dmitrijs2005/staffql/internal/server/services"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
)

type EmployeeOps interface {
	List(ctx context.Context) ([]*models.Employee, error)
	GetByID(ctx context.Context, id string) (*models.Employee, error)
	Search(ctx context.Context, designation, department string) ([]*models.Employee, error)
	Create(ctx context.Context, in services.NewEmployee) (*models.Employee, error)
	Update(ctx context.Context, in services.EmployeeUpdate) (*models.Employee, error)
	Delete(ctx context.Context, id string) (string, error)
	PhotoUpload(ctx context.Context, ext string) (*models.PhotoUpload, error)
}

type UserOps interface {
	Signup(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, login, password string) (*models.AuthPayload, error)
	Me(ctx context.Context, userID string) (*models.User, error)
}

type Options struct {
	// ProtectEmployees requires an authenticated caller for every employee
	// query and mutation.
	ProtectEmployees bool
}

type resolver struct {
	users     UserOps
	employees EmployeeOps
	opts      Options
}

// gqlError makes sure err reaches the client as a *common.Error, so the
// formatter can attach extensions.code.
func gqlError(err error) error {
	var ce *common.Error
	if errors.As(err, &ce) {
		return ce
	}
	return common.WrapError(common.ErrorInternal, err, "Internal error")
}

func (r *resolver) guard(ctx context.Context) error {
	if !r.opts.ProtectEmployees {
		return nil
	}
	if _, ok := auth.UserIDFromContext(ctx); !ok {
		return common.NewError(common.ErrorUnauthorized, "Authentication required")
	}
	return nil
}

func rfc3339(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

var (
	employeeType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Employee",
		Fields: graphql.Fields{
			"id":              &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"first_name":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"last_name":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"email":           &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"gender":          &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"designation":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"salary":          &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
			"date_of_joining": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"department":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"employee_photo": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if e, ok := p.Source.(*models.Employee); ok && e.EmployeePhoto != nil {
						return *e.EmployeePhoto, nil
					}
					return nil, nil
				},
			},
			"created_at": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return rfc3339(p.Source.(*models.Employee).CreatedAt), nil
				},
			},
			"updated_at": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return rfc3339(p.Source.(*models.Employee).UpdatedAt), nil
				},
			},
		},
	})

	userType = graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":       &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"username": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"email":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"created_at": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return rfc3339(p.Source.(*models.User).CreatedAt), nil
				},
			},
			"updated_at": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return rfc3339(p.Source.(*models.User).UpdatedAt), nil
				},
			},
		},
	})

	authPayloadType = graphql.NewObject(graphql.ObjectConfig{
		Name: "AuthPayload",
		Fields: graphql.Fields{
			"token": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"user":  &graphql.Field{Type: userType},
		},
	})

	photoUploadType = graphql.NewObject(graphql.ObjectConfig{
		Name: "PhotoUpload",
		Fields: graphql.Fields{
			"upload_url": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"photo_url":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"expires_at": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return rfc3339(p.Source.(*models.PhotoUpload).ExpiresAt), nil
				},
			},
		},
	})
)

// NewSchema builds the schema. Employee fields resolve through employees,
// signup, login and me through users.
func NewSchema(users UserOps, employees EmployeeOps, opts Options) (graphql.Schema, error) {
	r := &resolver{users: users, employees: employees, opts: opts}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"getAllEmployees": &graphql.Field{
				Type:    graphql.NewList(employeeType),
				Resolve: r.getAllEmployees,
			},
			"searchEmployeeById": &graphql.Field{
				Type: employeeType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.searchEmployeeByID,
			},
			"searchEmployee": &graphql.Field{
				Type: graphql.NewList(employeeType),
				Args: graphql.FieldConfigArgument{
					"designation": &graphql.ArgumentConfig{Type: graphql.String},
					"department":  &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.searchEmployee,
			},
			"login": &graphql.Field{
				Type: authPayloadType,
				Args: graphql.FieldConfigArgument{
					"username": &graphql.ArgumentConfig{Type: graphql.String},
					"email":    &graphql.ArgumentConfig{Type: graphql.String},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.login,
			},
			"me": &graphql.Field{
				Type:    userType,
				Resolve: r.me,
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"addEmployee": &graphql.Field{
				Type: employeeType,
				Args: graphql.FieldConfigArgument{
					"first_name":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"last_name":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"email":           &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"gender":          &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"designation":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"salary":          &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"date_of_joining": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"department":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"employee_photo":  &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.addEmployee,
			},
			"updateEmployee": &graphql.Field{
				Type: employeeType,
				Args: graphql.FieldConfigArgument{
					"id":          &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"first_name":  &graphql.ArgumentConfig{Type: graphql.String},
					"last_name":   &graphql.ArgumentConfig{Type: graphql.String},
					"designation": &graphql.ArgumentConfig{Type: graphql.String},
					"salary":      &graphql.ArgumentConfig{Type: graphql.Float},
					"department":  &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.updateEmployee,
			},
			"deleteEmployee": &graphql.Field{
				Type: graphql.String,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.deleteEmployee,
			},
			"signup": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"username": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.signup,
			},
			"employeePhotoUploadUrl": &graphql.Field{
				Type: photoUploadType,
				Args: graphql.FieldConfigArgument{
					"extension": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.employeePhotoUploadURL,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query, Mutation: mutation})
}

// Request is the standard GraphQL-over-HTTP request body.
type Request struct {
	Query         string                 `json:"query" form:"query"`
	Variables     map[string]interface{} `json:"variables" form:"-"`
	OperationName string                 `json:"operationName" form:"operationName"`
}

// Execute runs req against schema. Failures are reported in the result's
// errors list, never as a Go error.
func Execute(ctx context.Context, schema graphql.Schema, req Request) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})
}

// OperationType returns "query", "mutation" or "subscription" for the
// operation req selects. With no operation name the first operation is used.
func OperationType(req Request) (string, error) {
	doc, err := parser.Parse(parser.ParseParams{Source: req.Query})
	if err != nil {
		return "", err
	}
	var first string
	for _, def := range doc.Definitions {
		op, ok := def.(*ast.OperationDefinition)
		if !ok {
			continue
		}
		if first == "" {
			first = op.Operation
		}
		if req.OperationName != "" && op.Name != nil && op.Name.Value == req.OperationName {
			return op.Operation, nil
		}
	}
	if first == "" {
		return "", errors.New("no operation in document")
	}
	return first, nil
}
