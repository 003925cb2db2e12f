package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/dmitrijs2005/staffql/internal/client/api"
	"github.com/dmitrijs2005/staffql/internal/client/config"
	"github.com/dmitrijs2005/staffql/internal/server/models"
)

// ErrUnknownCommand is returned for a command name the CLI does not know.
var ErrUnknownCommand = errors.New("unknown command")

// API is the subset of the GraphQL client the commands use.
type API interface {
	SetToken(token string)
	Signup(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, login, password string) (*models.AuthPayload, error)
	Employees(ctx context.Context) ([]*models.Employee, error)
	SearchEmployees(ctx context.Context, designation, department string) ([]*models.Employee, error)
	PhotoUploadURL(ctx context.Context, ext string) (*models.PhotoUpload, error)
}

type App struct {
	config *config.Config
	api    API
	http   *http.Client
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config) *App {
	hc := &http.Client{Timeout: c.RequestTimeout}
	client := api.NewClient(c.ServerURL, hc)
	client.SetToken(c.Token)

	return &App{config: c, api: client, http: hc, reader: bufio.NewReader(os.Stdin), out: os.Stdout}
}

// Run executes the command named by args[0] with the remaining arguments.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.usage()
		return nil
	}

	switch args[0] {
	case "signup":
		return a.signup(ctx)
	case "login":
		return a.login(ctx)
	case "employees":
		return a.employees(ctx, args[1:])
	case "upload-photo":
		return a.uploadPhoto(ctx, args[1:])
	case "help", "-h", "--help":
		a.usage()
		return nil
	default:
		a.usage()
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}
}

func (a *App) usage() {
	fmt.Fprintln(a.out, `usage: staffql-cli [-a url] [-t token] [-timeout d] [-c config.json] <command>

commands:
  signup                                      register a new user
  login                                       print a bearer token
  employees [-designation D] [-department D]  list or search employees
  upload-photo <file>                         upload an employee photo`)
}
