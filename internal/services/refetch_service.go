package services

import (
	"context"

	"github.com/soltixdb/reportkit/internal/logging"
	"github.com/soltixdb/reportkit/internal/models"
	"github.com/soltixdb/reportkit/internal/queue"
	"github.com/soltixdb/reportkit/internal/session"
	"github.com/soltixdb/reportkit/internal/subscriber"
	"github.com/soltixdb/reportkit/internal/utils"
)

// RefetchService bumps refetch epochs. With a publisher the bump travels as
// an event and every replica, this one included, applies it from the queue.
// Without one the local namespaces are bumped directly.
type RefetchService struct {
	logger     *logging.Logger
	namespaces *session.Namespaces
	publisher  *queue.RefetchPublisher
}

// NewRefetchService creates a RefetchService. publisher may be nil.
func NewRefetchService(logger *logging.Logger, namespaces *session.Namespaces, publisher *queue.RefetchPublisher) *RefetchService {
	return &RefetchService{
		logger:     logger,
		namespaces: namespaces,
		publisher:  publisher,
	}
}

// Refetch bumps the epoch of a namespace
func (s *RefetchService) Refetch(ctx context.Context, input *models.RefetchRequest) (*models.RefetchResponse, error) {
	sess, ok := s.namespaces.Lookup(input.Namespace)
	if !ok {
		return nil, NewServiceErrorWithDetails(CodeUnresolvedContext, session.ErrUnresolvedContext.Error(),
			map[string]interface{}{"namespace": input.Namespace})
	}

	if s.publisher == nil {
		subscriber.BumpNamespaces(s.namespaces, input.Namespace)
		s.logger.Info("Refetch applied locally",
			"namespace", input.Namespace,
			"reason", input.Reason,
			"refetch", sess.Refetch())
		return &models.RefetchResponse{
			Namespace: input.Namespace,
			Refetch:   sess.Refetch(),
		}, nil
	}

	pubCtx, cancel := context.WithTimeout(ctx, utils.PublishTimeout)
	defer cancel()

	ev, err := s.publisher.Publish(pubCtx, input.Namespace, input.Reason)
	if err != nil {
		s.logger.Error("Failed to publish refetch event",
			"namespace", input.Namespace,
			"subject", s.publisher.Subject(),
			"error", err)
		return nil, NewServiceErrorWithDetails(CodePublishFailed, err.Error(),
			map[string]interface{}{"subject": s.publisher.Subject()})
	}

	s.logger.Info("Refetch event published",
		"namespace", input.Namespace,
		"event_id", ev.ID,
		"subject", s.publisher.Subject())
	return &models.RefetchResponse{
		Namespace: input.Namespace,
		Refetch:   sess.Refetch(),
		Published: true,
	}, nil
}
