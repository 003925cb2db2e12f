package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dmitrijs2005/staffql/internal/server/models"
)

func (a *App) employees(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("employees", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	designation := fs.String("designation", "", "filter by designation")
	department := fs.String("department", "", "filter by department")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var (
		list []*models.Employee
		err  error
	)
	if *designation == "" && *department == "" {
		list, err = a.api.Employees(ctx)
	} else {
		list, err = a.api.SearchEmployees(ctx, *designation, *department)
	}
	if err != nil {
		return fmt.Errorf("fetching employees: %w", err)
	}

	printEmployees(a.out, list)
	return nil
}

func printEmployees(w io.Writer, list []*models.Employee) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tDESIGNATION\tDEPARTMENT\tSALARY\tJOINED")
	for _, e := range list {
		fmt.Fprintf(tw, "%s\t%s %s\t%s\t%s\t%s\t%.2f\t%s\n",
			e.ID, e.FirstName, e.LastName, e.Email, e.Designation, e.Department, e.Salary, e.DateOfJoining)
	}
	tw.Flush()
}
