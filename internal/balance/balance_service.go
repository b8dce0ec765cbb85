package balance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Amserna/admin/internal/approval"
	balanceerrors "github.com/Amserna/admin/internal/balance/errors"
)

//go:generate mockgen -source=balance_service.go -destination=mock/balance_service_mock.go -package=mock

// Service covers the read/grant surface of the balance ledger. Deductions
// never pass through here; they happen inside the decision transaction.
type Service interface {
	Get(ctx context.Context, callerID, callerRole, employeeID string, year int) (Response, error)
	Grant(ctx context.Context, actorID, employeeID string, req GrantRequest) (Response, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("balance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Get(ctx context.Context, callerID, callerRole, employeeID string, year int) (Response, error) {
	if callerID != employeeID && callerRole != string(approval.RoleHR) {
		return Response{}, balanceerrors.ErrNotBalanceOwner
	}
	if year == 0 {
		year = time.Now().UTC().Year()
	}

	b, err := s.repo.Find(ctx, employeeID, year)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Response{}, balanceerrors.ErrBalanceNotFound
		}
		s.logger.Error("get balance failed", zap.Error(err))
		return Response{}, err
	}

	return ToResponse(*b), nil
}

// Grant creates or resets an employee's allocation for a year. Days already
// used are kept, so a grant can never drive remaining below zero.
func (s *service) Grant(ctx context.Context, actorID, employeeID string, req GrantRequest) (Response, error) {
	s.logger.Debug("grant balance requested",
		zap.String("actor_id", actorID),
		zap.String("employee_id", employeeID),
		zap.Int("year", req.Year),
		zap.Int("total_days", req.TotalDays),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("grant balance begin tx failed", zap.Error(err))
		return Response{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	existing, err := qtx.FindForUpdate(ctx, employeeID, req.Year)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		s.logger.Error("grant balance lock failed", zap.Error(err))
		return Response{}, err
	}
	if existing != nil && req.TotalDays < existing.UsedDays {
		return Response{}, balanceerrors.ErrInvalidAllocation
	}

	b := &LeaveBalance{
		ID:         uuid.New().String(),
		EmployeeID: employeeID,
		Year:       req.Year,
		TotalDays:  req.TotalDays,
		AdjustedBy: &actorID,
	}
	if err := qtx.Upsert(ctx, b); err != nil {
		s.logger.Error("grant balance upsert failed", zap.Error(err))
		return Response{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("grant balance commit failed", zap.Error(err))
		return Response{}, err
	}

	updated, err := s.repo.Find(ctx, employeeID, req.Year)
	if err != nil {
		s.logger.Error("reload granted balance failed", zap.Error(err))
		return Response{}, err
	}

	s.logger.Info("balance granted",
		zap.String("employee_id", employeeID),
		zap.Int("year", req.Year),
		zap.Int("total_days", req.TotalDays),
	)

	return ToResponse(*updated), nil
}
