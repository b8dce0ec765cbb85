package directory

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

//go:generate mockgen -source=directory_repo.go -destination=mock/directory_repo_mock.go -package=mock

// Provider is the actor/role lookup surface the workflow engine consumes.
// There is deliberately no write method on it.
type Provider interface {
	ActorByID(ctx context.Context, id string) (*Actor, error)
	ActorsByRole(ctx context.Context, roleCode string) ([]Actor, error)
	InManagementChain(ctx context.Context, managerID, employeeID string) (bool, error)
}

type provider struct {
	db *gorm.DB
}

func NewProvider(db *gorm.DB) Provider {
	return &provider{db: db}
}

func (p *provider) ActorByID(ctx context.Context, id string) (*Actor, error) {
	var a Actor
	err := p.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (p *provider) ActorsByRole(ctx context.Context, roleCode string) ([]Actor, error) {
	var actors []Actor
	err := p.db.WithContext(ctx).
		Where("role_code = ? AND active", roleCode).
		Find(&actors).Error
	return actors, err
}

// InManagementChain walks manager links upward from the employee and reports
// whether managerID appears anywhere in the chain. The depth cap guards
// against a manager cycle introduced by bad directory data.
func (p *provider) InManagementChain(ctx context.Context, managerID, employeeID string) (bool, error) {
	var found bool
	err := p.db.WithContext(ctx).Raw(`
		WITH RECURSIVE chain AS (
			SELECT manager_id, 1 AS depth
			FROM actors
			WHERE id = ?
			UNION ALL
			SELECT a.manager_id, c.depth + 1
			FROM actors a
			JOIN chain c ON a.id = c.manager_id
			WHERE c.depth < 20
		)
		SELECT EXISTS (SELECT 1 FROM chain WHERE manager_id = ?)
	`, employeeID, managerID).Scan(&found).Error
	return found, err
}
