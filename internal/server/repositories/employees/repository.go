package employees

import (
	"context"

	"github.com/dmitrijs2005/staffql/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]*models.Employee, error)
	Find(ctx context.Context, filter models.EmployeeFilter) ([]*models.Employee, error)
	GetByID(ctx context.Context, id string) (*models.Employee, error)
	FindByEmail(ctx context.Context, email string) (*models.Employee, error)
	Create(ctx context.Context, e *models.Employee) (*models.Employee, error)
	Update(ctx context.Context, id string, changes models.EmployeeChanges) (*models.Employee, error)
	Delete(ctx context.Context, id string) error
}
