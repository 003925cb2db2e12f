// Package api is a small GraphQL-over-HTTP client for the staffql server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/staffql/internal/server/models"
)

// APIError is a GraphQL error returned by the server.
type APIError struct {
	Message string
	Code    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message    string `json:"message"`
		Extensions struct {
			Code string `json:"code"`
		} `json:"extensions"`
	} `json:"errors"`
}

// Client sends GraphQL operations to a single endpoint.
type Client struct {
	url   string
	http  *http.Client
	token string
}

// NewClient returns a Client for url. A nil httpClient means
// http.DefaultClient.
func NewClient(url string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{url: url, http: httpClient}
}

// SetToken sets the bearer token sent with every request.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Do executes query with vars and decodes the data object into out.
// The first GraphQL error, if any, is returned as *APIError.
func (c *Client) Do(ctx context.Context, query string, vars map[string]any, out any) error {
	body, err := json.Marshal(request{Query: query, Variables: vars})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return &APIError{Message: "not authorized", Code: "UNAUTHORIZED"}
	}

	var r response
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}

	if len(r.Errors) > 0 {
		return &APIError{Message: r.Errors[0].Message, Code: r.Errors[0].Extensions.Code}
	}

	if out == nil || len(r.Data) == 0 {
		return nil
	}
	return json.Unmarshal(r.Data, out)
}

const employeeFields = `id first_name last_name email gender designation salary date_of_joining department employee_photo created_at updated_at`

// Signup registers a new user.
func (c *Client) Signup(ctx context.Context, username, email, password string) (*models.User, error) {
	var out struct {
		Signup *models.User `json:"signup"`
	}
	q := `mutation($username: String!, $email: String!, $password: String!) {
  signup(username: $username, email: $email, password: $password) { id username email created_at updated_at }
}`
	err := c.Do(ctx, q, map[string]any{"username": username, "email": email, "password": password}, &out)
	if err != nil {
		return nil, err
	}
	return out.Signup, nil
}

// Login exchanges credentials for a token. login may be a username or an
// email address.
func (c *Client) Login(ctx context.Context, login, password string) (*models.AuthPayload, error) {
	var out struct {
		Login *models.AuthPayload `json:"login"`
	}
	q := `query($username: String, $password: String!) {
  login(username: $username, password: $password) { token user { id username email } }
}`
	err := c.Do(ctx, q, map[string]any{"username": login, "password": password}, &out)
	if err != nil {
		return nil, err
	}
	return out.Login, nil
}

// Employees lists every employee.
func (c *Client) Employees(ctx context.Context) ([]*models.Employee, error) {
	var out struct {
		Employees []*models.Employee `json:"getAllEmployees"`
	}
	if err := c.Do(ctx, `{ getAllEmployees { `+employeeFields+` } }`, nil, &out); err != nil {
		return nil, err
	}
	return out.Employees, nil
}

// SearchEmployees filters employees by designation and/or department.
// Empty values are not sent.
func (c *Client) SearchEmployees(ctx context.Context, designation, department string) ([]*models.Employee, error) {
	vars := map[string]any{}
	if designation != "" {
		vars["designation"] = designation
	}
	if department != "" {
		vars["department"] = department
	}

	var out struct {
		Employees []*models.Employee `json:"searchEmployee"`
	}
	q := `query($designation: String, $department: String) {
  searchEmployee(designation: $designation, department: $department) { ` + employeeFields + ` }
}`
	if err := c.Do(ctx, q, vars, &out); err != nil {
		return nil, err
	}
	return out.Employees, nil
}

// PhotoUploadURL requests a presigned upload target for a file with the
// given extension.
func (c *Client) PhotoUploadURL(ctx context.Context, ext string) (*models.PhotoUpload, error) {
	var out struct {
		Upload *models.PhotoUpload `json:"employeePhotoUploadUrl"`
	}
	q := `mutation($extension: String!) {
  employeePhotoUploadUrl(extension: $extension) { upload_url photo_url expires_at }
}`
	if err := c.Do(ctx, q, map[string]any{"extension": ext}, &out); err != nil {
		return nil, err
	}
	return out.Upload, nil
}
