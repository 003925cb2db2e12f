// Package services contains server-side business logic: employee records,
// user signup and login.
package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/staffql/internal/common"
	"github.com/dmitrijs2005/staffql/internal/dbx"
	"github.com/dmitrijs2005/staffql/internal/server/auth"
	"github.com/dmitrijs2005/staffql/internal/server/models"
	"github.com/dmitrijs2005/staffql/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/staffql/internal/validation"
)

// UserService provides authentication-related operations:
// - Signup: create users with a bcrypt password hash
// - Login: verify credentials and mint an access token
// - Me: resolve the caller of an authenticated request
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	creds       *auth.Credentials
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, creds *auth.Credentials) *UserService {
	return &UserService{db: db, repomanager: m, creds: creds}
}

// Signup registers a user. Username and email must both be unused; the
// pre-check runs in the insert's transaction and the unique indexes settle
// any race.
func (s *UserService) Signup(ctx context.Context, username, email, password string) (*models.User, error) {
	if err := validation.First(
		validation.NotBlank(username, "Username cannot be empty"),
		validation.EmailShape(email, "Please provide a valid email"),
		validation.NotBlank(password, "Password is required"),
	); err != nil {
		return nil, err
	}

	conflict := common.NewError(common.ErrorConflict, "User already exists")

	var created *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		_, err := repo.FindByUsernameOrEmail(ctx, username, email)
		switch {
		case err == nil:
			return conflict
		case !errors.Is(err, common.ErrorNotFound):
			return storeError(err, "Error creating user")
		}

		hash, err := s.creds.Hash(password)
		if err != nil {
			return common.WrapError(common.ErrorInternal, err, "Error hashing password")
		}

		created, err = repo.Create(ctx, &models.User{Username: username, Email: email, PasswordHash: hash})
		if err != nil {
			if errors.Is(err, common.ErrorConflict) {
				return conflict
			}
			return storeError(err, "Error creating user")
		}
		return nil
	})
	if err != nil {
		return nil, storeError(err, "Error creating user")
	}

	created.PasswordHash = ""
	return created, nil
}

// Login accepts either the username or the email as login.
func (s *UserService) Login(ctx context.Context, login, password string) (*models.AuthPayload, error) {
	if err := validation.First(
		validation.NotBlank(login, "Username is required"),
		validation.NotBlank(password, "Password is required"),
	); err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).FindByUsernameOrEmail(ctx, login, login)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewError(common.ErrorNotFound, "User not found")
		}
		return nil, storeError(err, "Error logging in")
	}

	ok, err := s.creds.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, common.WrapError(common.ErrorInternal, err, "Error verifying password")
	}
	if !ok {
		return nil, common.NewError(common.ErrorUnauthorized, "Incorrect password")
	}

	token, err := s.creds.IssueToken(user.ID)
	if err != nil {
		return nil, common.WrapError(common.ErrorInternal, err, "Error issuing token")
	}

	user.PasswordHash = ""
	return &models.AuthPayload{Token: token, User: user}, nil
}

// Me returns the user behind an authenticated request.
func (s *UserService) Me(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, common.NewError(common.ErrorUnauthorized, "Not authenticated")
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewError(common.ErrorNotFound, "User not found")
		}
		return nil, storeError(err, "Error fetching user")
	}

	user.PasswordHash = ""
	return user, nil
}
