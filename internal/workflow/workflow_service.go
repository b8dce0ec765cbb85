package workflow

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Amserna/admin/internal/approval"
	"github.com/Amserna/admin/internal/audit"
	"github.com/Amserna/admin/internal/balance"
	balanceerrors "github.com/Amserna/admin/internal/balance/errors"
	"github.com/Amserna/admin/internal/directory"
	"github.com/Amserna/admin/internal/events"
	"github.com/Amserna/admin/internal/messaging/kafka"
	"github.com/Amserna/admin/internal/request"
	requesterrors "github.com/Amserna/admin/internal/request/errors"
	"github.com/Amserna/admin/internal/shared/contextutil"
	workflowerrors "github.com/Amserna/admin/internal/workflow/errors"
)

//go:generate mockgen -source=workflow_service.go -destination=mock/workflow_service_mock.go -package=mock

// Service is the only component allowed to move a leave request through its
// lifecycle or to append to the approval ledger.
type Service interface {
	Decide(ctx context.Context, requestID, actorID string, req DecideRequest) (request.DetailResponse, error)
	Enqueue(ctx context.Context, requestID string) error
}

type service struct {
	db           *sql.DB
	requestRepo  request.Repository
	approvalRepo approval.Repository
	balanceRepo  balance.Repository
	auditRepo    audit.Repository
	outboxRepo   kafka.OutboxRepository
	dir          directory.Provider
	rdb          *redis.Client
	logger       *zap.Logger
}

func NewService(
	db *sql.DB,
	requestRepo request.Repository,
	approvalRepo approval.Repository,
	balanceRepo balance.Repository,
	auditRepo audit.Repository,
	outboxRepo kafka.OutboxRepository,
	dir directory.Provider,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("workflow.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("workflow.service")
	}
	return &service{
		db:           db,
		requestRepo:  requestRepo,
		approvalRepo: approvalRepo,
		balanceRepo:  balanceRepo,
		auditRepo:    auditRepo,
		outboxRepo:   outboxRepo,
		dir:          dir,
		rdb:          rdb,
		logger:       l,
	}
}

// requestSnapshot is the audit projection of a request's mutable fields.
type requestSnapshot struct {
	Status         string  `json:"status"`
	CurrentLevel   int     `json:"current_level"`
	Version        int     `json:"version"`
	FinalDecidedBy *string `json:"final_decided_by,omitempty"`
	ApprovalID     string  `json:"approval_id,omitempty"`
	Decision       string  `json:"decision,omitempty"`
}

func snapshotOf(lr *request.LeaveRequest) requestSnapshot {
	return requestSnapshot{
		Status:         string(lr.Status),
		CurrentLevel:   lr.CurrentLevel,
		Version:        lr.Version,
		FinalDecidedBy: lr.FinalDecidedBy,
	}
}

func (s *service) Decide(ctx context.Context, requestID, actorID string, req DecideRequest) (request.DetailResponse, error) {
	kind := approval.DecisionKind(req.Decision)
	// The middleware chain decorates the context logger with request_id and
	// actor_id; fall back to the service logger outside HTTP.
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("decision requested",
		zap.String("leave_request_id", requestID),
		zap.String("actor_id", actorID),
		zap.String("decision", req.Decision),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("decide begin tx failed", zap.Error(err))
		return request.DetailResponse{}, err
	}
	defer tx.Rollback()

	qRequests := s.requestRepo.WithTx(tx)
	qApprovals := s.approvalRepo.WithTx(tx)
	qBalances := s.balanceRepo.WithTx(tx)
	qAudit := s.auditRepo.WithTx(tx)
	qOutbox := s.outboxRepo.WithTx(tx)

	// Serialization point: the request row lock. NOWAIT turns a lost race
	// into an immediate, retryable conflict.
	lr, err := qRequests.FindByIDForUpdate(ctx, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return request.DetailResponse{}, requesterrors.ErrRequestNotFound
		}
		if isLockNotAvailable(err) {
			return request.DetailResponse{}, fmt.Errorf("request %s locked by a concurrent decision: %w",
				requestID, workflowerrors.ErrConcurrencyConflict)
		}
		log.Error("decide lock request failed", zap.Error(err))
		return request.DetailResponse{}, err
	}

	if lr.Status.IsTerminal() {
		return request.DetailResponse{}, fmt.Errorf("request %s is %s: %w",
			requestID, lr.Status, workflowerrors.ErrTerminalState)
	}

	level, ok := approval.LevelByRank(lr.CurrentLevel)
	if !ok {
		return request.DetailResponse{}, fmt.Errorf("request %s has no pending level: %w",
			requestID, workflowerrors.ErrInvalidTransition)
	}

	actor, err := s.dir.ActorByID(ctx, actorID)
	if err != nil {
		log.Error("decide actor lookup failed", zap.Error(err))
		return request.DetailResponse{}, err
	}
	if err := authorizeDecision(actor, level); err != nil {
		return request.DetailResponse{}, err
	}
	if level.Role == approval.RoleHierarchy {
		inChain, err := s.dir.InManagementChain(ctx, actorID, lr.EmployeeID)
		if err != nil {
			log.Error("decide management chain lookup failed", zap.Error(err))
			return request.DetailResponse{}, err
		}
		if !inChain {
			return request.DetailResponse{}, fmt.Errorf("actor %s is not in employee %s's management chain: %w",
				actorID, lr.EmployeeID, workflowerrors.ErrUnauthorizedActor)
		}
	}

	voted, err := qApprovals.Exists(ctx, requestID, level.Role, actorID)
	if err != nil {
		log.Error("decide duplicate check failed", zap.Error(err))
		return request.DetailResponse{}, err
	}
	if voted {
		return request.DetailResponse{}, fmt.Errorf("actor %s already decided at %s for request %s: %w",
			actorID, level.Role, requestID, workflowerrors.ErrDuplicateDecision)
	}

	newStatus, err := Next(lr.Status, kind, level.Role)
	if err != nil {
		return request.DetailResponse{}, err
	}

	// Validation is done, everything below is writes on the same transaction.
	now := time.Now().UTC()
	vote := approval.Approval{
		ID:         uuid.New().String(),
		RequestID:  requestID,
		LevelCode:  level.Role,
		LevelRank:  level.Rank,
		ApproverID: actorID,
		Decision:   kind,
		Comment:    req.Comment,
		DecidedAt:  now,
	}
	if err := qApprovals.Record(ctx, vote); err != nil {
		// The unique index backstops the Exists check when two identical
		// calls race past it.
		if isUniqueViolation(err) {
			return request.DetailResponse{}, fmt.Errorf("actor %s already decided at %s for request %s: %w",
				actorID, level.Role, requestID, workflowerrors.ErrDuplicateDecision)
		}
		log.Error("decide record approval failed", zap.Error(err))
		return request.DetailResponse{}, err
	}

	update := request.StatusUpdate{
		ID:           requestID,
		FromVersion:  lr.Version,
		Status:       newStatus,
		CurrentLevel: lr.CurrentLevel,
	}
	if role, pending := newStatus.LevelRole(); pending {
		next, _ := approval.LevelByRole(role)
		update.CurrentLevel = next.Rank
	}
	if newStatus.IsTerminal() {
		update.FinalDecidedBy = &actorID
		update.FinalDecidedAt = &now
	}
	rows, err := qRequests.UpdateStatus(ctx, update)
	if err != nil {
		log.Error("decide update status failed", zap.Error(err))
		return request.DetailResponse{}, err
	}
	if rows == 0 {
		return request.DetailResponse{}, fmt.Errorf("request %s version moved under us: %w",
			requestID, workflowerrors.ErrConcurrencyConflict)
	}

	// The deduction fires on the terminal-APPROVED edge and nowhere else,
	// so a request can never be charged twice.
	if newStatus == request.StatusApproved {
		if err := s.deductBalance(ctx, qBalances, lr, actorID); err != nil {
			return request.DetailResponse{}, err
		}
	}

	updated := *lr
	updated.Status = newStatus
	updated.CurrentLevel = update.CurrentLevel
	updated.Version = lr.Version + 1
	updated.FinalDecidedBy = update.FinalDecidedBy
	updated.FinalDecidedAt = update.FinalDecidedAt

	oldSnap := snapshotOf(lr)
	newSnap := snapshotOf(&updated)
	newSnap.ApprovalID = vote.ID
	newSnap.Decision = string(kind)
	if err := s.recordAudit(ctx, qAudit, actorID, audit.ActionDecisionRecorded, requestID, oldSnap, newSnap); err != nil {
		return request.DetailResponse{}, err
	}

	if err := s.enqueueOutboxEvent(ctx, qOutbox, &updated, string(lr.Status), actorID, events.EventTypeStatusChanged); err != nil {
		return request.DetailResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("decide commit failed", zap.Error(err))
		return request.DetailResponse{}, err
	}

	log.Info("decision recorded",
		zap.String("leave_request_id", requestID),
		zap.String("actor_id", actorID),
		zap.String("level", string(level.Role)),
		zap.String("decision", string(kind)),
		zap.String("old_status", string(lr.Status)),
		zap.String("new_status", string(newStatus)),
	)

	s.invalidatePendingInbox(ctx, lr.Status, newStatus)

	return s.loadDetail(ctx, requestID)
}

// Enqueue performs the CREATED -> PENDING_SERVICE_HEAD system transition.
// No approval row exists for it; the request simply enters the chain.
func (s *service) Enqueue(ctx context.Context, requestID string) error {
	log := contextutil.GetLogger(ctx, s.logger)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("enqueue begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qRequests := s.requestRepo.WithTx(tx)
	qAudit := s.auditRepo.WithTx(tx)
	qOutbox := s.outboxRepo.WithTx(tx)

	lr, err := qRequests.FindByIDForUpdate(ctx, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return requesterrors.ErrRequestNotFound
		}
		if isLockNotAvailable(err) {
			return fmt.Errorf("request %s locked by a concurrent decision: %w",
				requestID, workflowerrors.ErrConcurrencyConflict)
		}
		return err
	}

	if lr.Status != request.StatusCreated {
		return fmt.Errorf("request %s is %s, only CREATED can be enqueued: %w",
			requestID, lr.Status, workflowerrors.ErrInvalidTransition)
	}

	first := approval.Levels[0]
	rows, err := qRequests.UpdateStatus(ctx, request.StatusUpdate{
		ID:           requestID,
		FromVersion:  lr.Version,
		Status:       request.StatusPendingServiceHead,
		CurrentLevel: first.Rank,
	})
	if err != nil {
		log.Error("enqueue update status failed", zap.Error(err))
		return err
	}
	if rows == 0 {
		return fmt.Errorf("request %s version moved under us: %w",
			requestID, workflowerrors.ErrConcurrencyConflict)
	}

	updated := *lr
	updated.Status = request.StatusPendingServiceHead
	updated.CurrentLevel = first.Rank
	updated.Version = lr.Version + 1

	if err := s.recordAudit(ctx, qAudit, lr.EmployeeID, audit.ActionRequestEnqueued, requestID,
		snapshotOf(lr), snapshotOf(&updated)); err != nil {
		return err
	}

	if err := s.enqueueOutboxEvent(ctx, qOutbox, &updated, string(lr.Status), "", events.EventTypeRequestEnqueued); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("enqueue commit failed", zap.Error(err))
		return err
	}

	log.Info("request enqueued",
		zap.String("leave_request_id", requestID),
		zap.String("employee_id", lr.EmployeeID),
	)

	s.invalidatePendingInbox(ctx, lr.Status, updated.Status)

	return nil
}

func (s *service) deductBalance(ctx context.Context, balances balance.Repository, lr *request.LeaveRequest, actorID string) error {
	year := lr.StartDate.Year()

	if _, err := balances.FindForUpdate(ctx, lr.EmployeeID, year); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("no balance row for employee %s year %d: %w",
				lr.EmployeeID, year, balanceerrors.ErrBalanceNotFound)
		}
		s.logger.Error("decide lock balance failed", zap.Error(err))
		return err
	}

	rows, err := balances.ApplyDeduction(ctx, lr.EmployeeID, year, lr.DaysRequested, actorID)
	if err != nil {
		s.logger.Error("decide apply deduction failed", zap.Error(err))
		return err
	}
	if rows == 0 {
		return fmt.Errorf("deducting %d days for employee %s year %d: %w",
			lr.DaysRequested, lr.EmployeeID, year, balanceerrors.ErrBalanceExhausted)
	}
	return nil
}

func (s *service) recordAudit(
	ctx context.Context,
	auditRepo audit.Repository,
	actorID, action, requestID string,
	oldSnap, newSnap requestSnapshot,
) error {
	meta := contextutil.ExtractMetadata(ctx)
	oldJSON, err := json.Marshal(oldSnap)
	if err != nil {
		return err
	}
	newJSON, err := json.Marshal(newSnap)
	if err != nil {
		return err
	}

	entry := audit.Entry{
		ID:         uuid.New().String(),
		ActorID:    actorID,
		Action:     action,
		EntityType: "leave_request",
		EntityID:   requestID,
		OldValue:   oldJSON,
		NewValue:   newJSON,
		RequestID:  meta.RequestID,
	}
	if err := auditRepo.Record(ctx, entry); err != nil {
		s.logger.Error("record audit entry failed", zap.Error(err))
		return err
	}
	return nil
}

func (s *service) enqueueOutboxEvent(
	ctx context.Context,
	outbox kafka.OutboxRepository,
	lr *request.LeaveRequest,
	oldStatus, decidedBy, eventType string,
) error {
	meta := contextutil.ExtractMetadata(ctx)
	eventID := uuid.New().String()
	payload, err := json.Marshal(events.LeaveStatusChangedEvent{
		EventID:        eventID,
		EventType:      eventType,
		RequestID:      meta.RequestID,
		LeaveRequestID: lr.ID,
		EmployeeID:     lr.EmployeeID,
		OldStatus:      oldStatus,
		NewStatus:      string(lr.Status),
		DecidedBy:      decidedBy,
		OccurredAt:     time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	event := kafka.OutboxEvent{
		ID:            eventID,
		RequestID:     meta.RequestID,
		AggregateType: "leave_request",
		AggregateID:   lr.ID,
		EventType:     eventType,
		Topic:         events.LeaveWorkflowStatusTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}
	if err := outbox.Create(ctx, event); err != nil {
		s.logger.Error("enqueue outbox event failed", zap.Error(err))
		return err
	}
	return nil
}

// invalidatePendingInbox drops the cached pending lists touched by a
// transition. Best effort: a stale list self-heals at TTL expiry.
func (s *service) invalidatePendingInbox(ctx context.Context, oldStatus, newStatus request.Status) {
	if s.rdb == nil {
		return
	}

	keys := make([]string, 0, 2)
	if role, ok := oldStatus.LevelRole(); ok {
		keys = append(keys, request.PendingInboxKey(role))
	}
	if role, ok := newStatus.LevelRole(); ok {
		keys = append(keys, request.PendingInboxKey(role))
	}
	if len(keys) == 0 {
		return
	}

	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		s.logger.Warn("pending inbox invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

func (s *service) loadDetail(ctx context.Context, requestID string) (request.DetailResponse, error) {
	lr, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		s.logger.Error("reload decided request failed", zap.Error(err))
		return request.DetailResponse{}, err
	}
	history, err := s.approvalRepo.HistoryFor(ctx, requestID)
	if err != nil {
		s.logger.Error("reload approval history failed", zap.Error(err))
		return request.DetailResponse{}, err
	}

	return request.DetailResponse{
		Request: request.ToResponse(*lr),
		History: approval.ToResponses(history),
	}, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isLockNotAvailable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "55P03"
}
