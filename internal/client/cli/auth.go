package cli

import (
	"context"
	"fmt"
)

func (a *App) signup(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	u, err := a.api.Signup(ctx, username, email, string(password))
	if err != nil {
		return fmt.Errorf("signup failed: %w", err)
	}

	fmt.Fprintf(a.out, "Registered %s (%s)\n", u.Username, u.ID)
	return nil
}

func (a *App) login(ctx context.Context) error {
	login, err := getSimpleText(a.reader, "Username or email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	payload, err := a.api.Login(ctx, login, string(password))
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	a.api.SetToken(payload.Token)
	fmt.Fprintln(a.out, payload.Token)
	return nil
}
