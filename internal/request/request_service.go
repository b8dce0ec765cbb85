package request

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Amserna/admin/internal/approval"
	"github.com/Amserna/admin/internal/balance"
	balanceerrors "github.com/Amserna/admin/internal/balance/errors"
	requesterrors "github.com/Amserna/admin/internal/request/errors"
	"github.com/Amserna/admin/internal/shared/counter"
)

const (
	pendingInboxKeyPrefix = "requests:pending:"
	pendingInboxTTL       = 30 * time.Second

	requestCounterType = "leave_request"
)

// PendingInboxKey is the cache key for one role's pending list. The decision
// service deletes these keys after every committed transition.
func PendingInboxKey(role approval.LevelRole) string {
	return pendingInboxKeyPrefix + string(role)
}

// Enqueuer hands a freshly created request to the workflow engine for the
// CREATED -> PENDING_SERVICE_HEAD system transition.
type Enqueuer interface {
	Enqueue(ctx context.Context, requestID string) error
}

//go:generate mockgen -source=request_service.go -destination=mock/request_service_mock.go -package=mock

type Service interface {
	Create(ctx context.Context, employeeID string, req CreateRequest) (Response, error)
	GetMine(ctx context.Context, employeeID string) ([]Response, error)
	GetByID(ctx context.Context, actorID, actorRole, id string) (DetailResponse, error)
	PendingForRole(ctx context.Context, actorRole string) ([]Response, error)
}

type service struct {
	db           *sql.DB
	repo         Repository
	approvalRepo approval.Repository
	balanceRepo  balance.Repository
	counterRepo  counter.Repository
	enqueuer     Enqueuer
	rdb          *redis.Client
	sf           *singleflight.Group
	logger       *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	approvalRepo approval.Repository,
	balanceRepo balance.Repository,
	counterRepo counter.Repository,
	enqueuer Enqueuer,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("request.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("request.service")
	}
	return &service{
		db:           db,
		repo:         repo,
		approvalRepo: approvalRepo,
		balanceRepo:  balanceRepo,
		counterRepo:  counterRepo,
		enqueuer:     enqueuer,
		rdb:          rdb,
		sf:           &singleflight.Group{},
		logger:       l,
	}
}

func (s *service) Create(ctx context.Context, employeeID string, req CreateRequest) (Response, error) {
	s.logger.Debug("create request",
		zap.String("employee_id", employeeID),
		zap.String("leave_type", req.LeaveType),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	if _, err := uuid.Parse(employeeID); err != nil {
		return Response{}, requesterrors.ErrInvalidEmployeeID
	}
	startDate, endDate, days, err := parsePeriod(req.StartDate, req.EndDate)
	if err != nil {
		return Response{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create request begin tx failed", zap.Error(err))
		return Response{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	overlap, err := qtx.HasOverlappingPeriod(ctx, employeeID, startDate, endDate, nil)
	if err != nil {
		s.logger.Error("create request overlap check failed", zap.Error(err))
		return Response{}, err
	}
	if overlap {
		s.logger.Warn("create request overlap detected",
			zap.String("employee_id", employeeID),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return Response{}, requesterrors.ErrLeaveOverlap
	}

	// Sufficiency pre-check at submission time. The engine re-guards the
	// deduction at approval, so a race here cannot corrupt the ledger.
	bal, err := s.balanceRepo.Find(ctx, employeeID, startDate.Year())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Response{}, balanceerrors.ErrBalanceNotFound
		}
		s.logger.Error("create request balance check failed", zap.Error(err))
		return Response{}, err
	}
	if bal.RemainingDays < days {
		return Response{}, fmt.Errorf("requested %d days, %d remaining: %w",
			days, bal.RemainingDays, balanceerrors.ErrInsufficientBalance)
	}

	seq, err := s.counterRepo.GetNextValue(ctx, requestCounterType, startDate.Year())
	if err != nil {
		s.logger.Error("create request counter failed", zap.Error(err))
		return Response{}, err
	}

	lr := &LeaveRequest{
		ID:            uuid.New().String(),
		RequestNumber: fmt.Sprintf("LR-%d-%04d", startDate.Year(), seq),
		EmployeeID:    employeeID,
		LeaveType:     req.LeaveType,
		StartDate:     startDate,
		EndDate:       endDate,
		DaysRequested: days,
		Reason:        req.Reason,
		Status:        StatusCreated,
		CurrentLevel:  0,
		Version:       1,
	}
	if err := qtx.Create(ctx, lr); err != nil {
		s.logger.Error("create request persist failed", zap.Error(err))
		return Response{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create request commit failed", zap.Error(err))
		return Response{}, err
	}

	// Handoff to the engine. Its own transaction moves the request to
	// PENDING_SERVICE_HEAD and writes the audit and notification event.
	// On failure the committed CREATED row is discarded so the employee can
	// retry; if the discard itself fails, the row stays CREATED, which the
	// overlap predicate ignores.
	if err := s.enqueuer.Enqueue(ctx, lr.ID); err != nil {
		s.logger.Error("enqueue created request failed",
			zap.String("leave_request_id", lr.ID),
			zap.Error(err),
		)
		if _, delErr := s.repo.DeleteCreated(ctx, lr.ID); delErr != nil {
			s.logger.Warn("discard stranded request failed",
				zap.String("leave_request_id", lr.ID),
				zap.Error(delErr),
			)
		}
		return Response{}, err
	}
	lr.Status = StatusPendingServiceHead
	lr.CurrentLevel = approval.Levels[0].Rank
	lr.Version++

	s.logger.Info("leave request created",
		zap.String("leave_request_id", lr.ID),
		zap.String("request_number", lr.RequestNumber),
		zap.String("employee_id", employeeID),
		zap.Int("days_requested", days),
	)

	return ToResponse(*lr), nil
}

func (s *service) GetMine(ctx context.Context, employeeID string) ([]Response, error) {
	requests, err := s.repo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return ToListResponse(requests), nil
}

func (s *service) GetByID(ctx context.Context, actorID, actorRole, id string) (DetailResponse, error) {
	lr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return DetailResponse{}, requesterrors.ErrRequestNotFound
		}
		return DetailResponse{}, err
	}

	// Owners see their own requests; approval-chain roles see everything
	// (they need the full history to decide).
	if lr.EmployeeID != actorID {
		if _, isLevel := approval.LevelByRole(approval.LevelRole(actorRole)); !isLevel {
			return DetailResponse{}, requesterrors.ErrNotRequestOwner
		}
	}

	history, err := s.approvalRepo.HistoryFor(ctx, id)
	if err != nil {
		return DetailResponse{}, err
	}

	return DetailResponse{
		Request: ToResponse(*lr),
		History: approval.ToResponses(history),
	}, nil
}

// PendingForRole returns the requests waiting at the caller's level, cached
// per role with singleflight so a burst of approvers produces one query.
func (s *service) PendingForRole(ctx context.Context, actorRole string) ([]Response, error) {
	status, ok := StatusForLevel(approval.LevelRole(actorRole))
	if !ok {
		return nil, fmt.Errorf("role %s owns no approval level: %w", actorRole, requesterrors.ErrNoPendingInbox)
	}

	key := PendingInboxKey(approval.LevelRole(actorRole))

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var resp []Response
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(key, func() (any, error) {
		requests, err := s.repo.ListByStatus(ctx, status)
		if err != nil {
			return nil, err
		}
		resp := ToListResponse(requests)

		if s.rdb != nil {
			if payload, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, key, payload, pendingInboxTTL).Err(); err != nil {
					s.logger.Warn("cache pending inbox failed", zap.String("key", key), zap.Error(err))
				}
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Response), nil
}

func parsePeriod(start, end string) (time.Time, time.Time, int, error) {
	startDate, err := time.Parse("2006-01-02", start)
	if err != nil {
		return time.Time{}, time.Time{}, 0, requesterrors.ErrInvalidDateFormat
	}
	endDate, err := time.Parse("2006-01-02", end)
	if err != nil {
		return time.Time{}, time.Time{}, 0, requesterrors.ErrInvalidDateFormat
	}
	if endDate.Before(startDate) {
		return time.Time{}, time.Time{}, 0, requesterrors.ErrInvalidDateRange
	}

	days := int(endDate.Sub(startDate).Hours()/24) + 1
	return startDate, endDate, days, nil
}
