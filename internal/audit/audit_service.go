package audit

import (
	"context"

	"go.uber.org/zap"
)

const maxExportLimit = 200

//go:generate mockgen -source=audit_service.go -destination=mock/audit_service_mock.go -package=mock

// Service is the read-only export surface over the audit store. Writes go
// through the Repository directly, inside the decision transaction.
type Service interface {
	Export(ctx context.Context, entityType, entityID string, limit, offset int) ([]EntryResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("audit.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Export(ctx context.Context, entityType, entityID string, limit, offset int) ([]EntryResponse, error) {
	if limit < 1 || limit > maxExportLimit {
		limit = maxExportLimit
	}
	if offset < 0 {
		offset = 0
	}

	var (
		entries []Entry
		err     error
	)
	if entityType != "" && entityID != "" {
		entries, err = s.repo.ListByEntity(ctx, entityType, entityID, limit)
	} else {
		entries, err = s.repo.ListRecent(ctx, limit, offset)
	}
	if err != nil {
		s.logger.Error("audit export failed", zap.Error(err))
		return nil, err
	}

	return ToListResponse(entries), nil
}
