package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/Amserna/admin/internal/directory"
	"github.com/Amserna/admin/internal/events"
	notificationerrors "github.com/Amserna/admin/internal/notification/errors"
	"github.com/Amserna/admin/internal/request"
)

const inboxLimit = 100

//go:generate mockgen -source=notification_service.go -destination=mock/notification_service_mock.go -package=mock

type Service interface {
	FanOut(ctx context.Context, event events.LeaveStatusChangedEvent) error
	ListMine(ctx context.Context, recipientID string) ([]Response, error)
	MarkRead(ctx context.Context, recipientID, id string) error
}

type service struct {
	repo   Repository
	dir    directory.Provider
	logger *zap.Logger
}

func NewService(repo Repository, dir directory.Provider, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{repo: repo, dir: dir, logger: l}
}

// FanOut turns one workflow status event into in-app rows: one for the
// employee, and one per actor holding the now-pending role so the next
// level learns about the waiting work. Duplicate events are absorbed by the
// (recipient, event) unique index.
func (s *service) FanOut(ctx context.Context, event events.LeaveStatusChangedEvent) error {
	recipients := []string{event.EmployeeID}

	if role, ok := request.Status(event.NewStatus).LevelRole(); ok {
		actors, err := s.dir.ActorsByRole(ctx, string(role))
		if err != nil {
			return err
		}
		for _, a := range actors {
			if a.ID != event.EmployeeID {
				recipients = append(recipients, a.ID)
			}
		}
	}

	title, body := renderMessage(event)
	for _, recipientID := range recipients {
		n := &Notification{
			ID:             uuid.New().String(),
			RecipientID:    recipientID,
			LeaveRequestID: event.LeaveRequestID,
			EventID:        event.EventID,
			Title:          title,
			Body:           body,
			Status:         StatusNew,
		}
		if err := s.repo.Create(ctx, n); err != nil {
			if isDuplicateDelivery(err) {
				s.logger.Debug("duplicate event delivery skipped",
					zap.String("event_id", event.EventID),
					zap.String("recipient_id", recipientID),
				)
				continue
			}
			return err
		}
	}

	s.logger.Info("status event fanned out",
		zap.String("event_id", event.EventID),
		zap.String("leave_request_id", event.LeaveRequestID),
		zap.String("new_status", event.NewStatus),
		zap.Int("recipients", len(recipients)),
	)

	return nil
}

func (s *service) ListMine(ctx context.Context, recipientID string) ([]Response, error) {
	notifications, err := s.repo.ListByRecipient(ctx, recipientID, inboxLimit)
	if err != nil {
		return nil, err
	}
	return ToListResponse(notifications), nil
}

func (s *service) MarkRead(ctx context.Context, recipientID, id string) error {
	rows, err := s.repo.MarkRead(ctx, recipientID, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return notificationerrors.ErrNotificationNotFound
	}
	return nil
}

func renderMessage(event events.LeaveStatusChangedEvent) (string, string) {
	status := strings.ReplaceAll(strings.ToLower(event.NewStatus), "_", " ")
	if event.EventType == events.EventTypeRequestEnqueued {
		return "Leave request submitted",
			fmt.Sprintf("A leave request is now %s.", status)
	}
	return "Leave request update",
		fmt.Sprintf("A leave request moved to %s.", status)
}

func isDuplicateDelivery(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate key value")
}
