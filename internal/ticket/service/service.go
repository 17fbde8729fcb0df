// Package service implements the ticket lifecycle on top of the stores:
// creation with optional auto-classification, reads through the cache,
// partial updates and on-demand re-classification.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ticket-workers/internal/common/logger"
	"ticket-workers/internal/common/metrics"
	"ticket-workers/internal/models"
	"ticket-workers/internal/ticket/store"

	"github.com/google/uuid"
)

var (
	ErrTicketNotFound    = errors.New("ticket not found")
	ErrClassificationLog = errors.New("classification log append failed")
	ErrSearchDisabled    = errors.New("search is not enabled")
)

type TicketRepository interface {
	Save(ctx context.Context, t *models.Ticket) error
	FindByID(ctx context.Context, id string) (*models.Ticket, error)
	FindByFilters(ctx context.Context, filter models.TicketFilter) ([]models.Ticket, error)
	Delete(ctx context.Context, id string) error
}

type ClassificationLogRepository interface {
	Append(ctx context.Context, entry *models.ClassificationLogEntry) error
	FindByTicketID(ctx context.Context, ticketID string) ([]models.ClassificationLogEntry, error)
}

type TicketCache interface {
	Get(ctx context.Context, id string) (*models.Ticket, error)
	Set(ctx context.Context, t *models.Ticket) error
	Invalidate(ctx context.Context, id string) error
}

type SearchIndexer interface {
	Index(ctx context.Context, t *models.Ticket) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, text string, size int) ([]string, error)
}

type Classifier interface {
	Classify(subject, description string) models.ClassificationResult
}

type Service struct {
	tickets    TicketRepository
	logs       ClassificationLogRepository
	classifier Classifier
	cache      TicketCache
	search     SearchIndexer
	logger     logger.Logger
	now        func() time.Time
}

type Option func(*Service)

func WithCache(c TicketCache) Option {
	return func(s *Service) { s.cache = c }
}

func WithSearch(idx SearchIndexer) Option {
	return func(s *Service) { s.search = idx }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(tickets TicketRepository, logs ClassificationLogRepository, classifier Classifier, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		tickets:    tickets,
		logs:       logs,
		classifier: classifier,
		logger:     log.WithFields(map[string]interface{}{"component": "ticket-service"}),
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create persists a new ticket built from req. With AutoClassify set, the
// keyword suggestion replaces only a category left unset or OTHER and a
// priority left unset or MEDIUM, and the suggestion is logged.
func (s *Service) Create(ctx context.Context, req *models.CreateTicketRequest) (*models.Ticket, error) {
	now := s.now()
	t := &models.Ticket{
		ID:            uuid.NewString(),
		CustomerID:    req.CustomerID,
		CustomerEmail: req.CustomerEmail,
		CustomerName:  req.CustomerName,
		Subject:       req.Subject,
		Description:   req.Description,
		Category:      req.Category,
		Priority:      req.Priority,
		Status:        models.StatusNew,
		AssignedTo:    req.AssignedTo,
		Tags:          append([]string{}, req.Tags...),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if t.Category == "" {
		t.Category = models.CategoryOther
	}
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	if req.HasMetadata() {
		t.Metadata = &models.Metadata{
			Source:     req.Source,
			Browser:    req.Browser,
			DeviceType: req.DeviceType,
		}
	}

	var suggestion *models.ClassificationResult
	if req.AutoClassify {
		result := s.classify(t)
		suggestion = &result
		if t.Category == models.CategoryOther {
			t.Category = result.Category
		}
		if t.Priority == models.PriorityMedium {
			t.Priority = result.Priority
		}
	}

	if err := s.tickets.Save(ctx, t); err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}

	if suggestion != nil {
		if err := s.appendLog(ctx, t.ID, *suggestion); err != nil {
			s.logger.WithError(err).Warn("classification log not written", map[string]interface{}{"ticketId": t.ID})
		}
	}
	s.index(ctx, t)

	s.logger.Info("ticket created", map[string]interface{}{
		"ticketId": t.ID,
		"category": t.Category,
		"priority": t.Priority,
	})
	return t, nil
}

// Get reads through the cache when one is configured.
func (s *Service) Get(ctx context.Context, id string) (*models.Ticket, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err != nil {
			s.logger.WithError(err).Warn("ticket cache read failed", map[string]interface{}{"ticketId": id})
		} else if cached != nil {
			return cached, nil
		}
	}

	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, t); err != nil {
			s.logger.WithError(err).Warn("ticket cache write failed", map[string]interface{}{"ticketId": id})
		}
	}
	return t, nil
}

func (s *Service) List(ctx context.Context, filter models.TicketFilter) ([]models.Ticket, error) {
	tickets, err := s.tickets.FindByFilters(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return tickets, nil
}

// Update applies the non-nil fields of req. Moving a ticket to RESOLVED
// stamps ResolvedAt the first time only.
func (s *Service) Update(ctx context.Context, id string, req *models.UpdateTicketRequest) (*models.Ticket, error) {
	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Subject != nil {
		t.Subject = *req.Subject
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Category != nil {
		t.Category = *req.Category
	}
	if req.Priority != nil {
		t.Priority = *req.Priority
	}
	if req.AssignedTo != nil {
		t.AssignedTo = *req.AssignedTo
	}
	if req.Tags != nil {
		t.Tags = append([]string{}, req.Tags...)
	}

	now := s.now()
	if req.Status != nil {
		t.Status = *req.Status
		if t.Status == models.StatusResolved && t.ResolvedAt == nil {
			t.ResolvedAt = &now
		}
	}
	t.UpdatedAt = now

	if err := s.tickets.Save(ctx, t); err != nil {
		return nil, fmt.Errorf("update ticket %s: %w", id, err)
	}
	s.invalidate(ctx, id)
	s.index(ctx, t)
	return t, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.tickets.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(id)
		}
		return fmt.Errorf("delete ticket %s: %w", id, err)
	}
	s.invalidate(ctx, id)
	if s.search != nil {
		if err := s.search.Delete(ctx, id); err != nil {
			s.logger.WithError(err).Warn("ticket search document not removed", map[string]interface{}{"ticketId": id})
		}
	}
	s.logger.Info("ticket deleted", map[string]interface{}{"ticketId": id})
	return nil
}

// Classify re-runs the engine on a stored ticket and logs the suggestion.
// The ticket itself is left unchanged.
func (s *Service) Classify(ctx context.Context, id string) (*models.ClassificationResult, error) {
	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	result := s.classify(t)
	if err := s.appendLog(ctx, t.ID, result); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrClassificationLog, err)
	}
	return &result, nil
}

// ClassificationHistory returns the ticket's log entries, newest first.
func (s *Service) ClassificationHistory(ctx context.Context, id string) ([]models.ClassificationLogEntry, error) {
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}
	entries, err := s.logs.FindByTicketID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("classification history for %s: %w", id, err)
	}
	return entries, nil
}

// Search resolves a full-text query to tickets in relevance order. Ids the
// index still holds for deleted tickets are skipped.
func (s *Service) Search(ctx context.Context, text string, size int) ([]models.Ticket, error) {
	if s.search == nil {
		return nil, ErrSearchDisabled
	}
	ids, err := s.search.Search(ctx, text, size)
	if err != nil {
		return nil, fmt.Errorf("search tickets: %w", err)
	}

	tickets := make([]models.Ticket, 0, len(ids))
	for _, id := range ids {
		t, err := s.Get(ctx, id)
		if errors.Is(err, ErrTicketNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *t)
	}
	return tickets, nil
}

func (s *Service) load(ctx context.Context, id string) (*models.Ticket, error) {
	t, err := s.tickets.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("load ticket %s: %w", id, err)
	}
	return t, nil
}

func (s *Service) classify(t *models.Ticket) models.ClassificationResult {
	result := s.classifier.Classify(t.Subject, t.Description)
	metrics.TicketClassifications.WithLabelValues(string(result.Category), string(result.Priority)).Inc()
	return result
}

func (s *Service) appendLog(ctx context.Context, ticketID string, result models.ClassificationResult) error {
	return s.logs.Append(ctx, &models.ClassificationLogEntry{
		ID:                 uuid.NewString(),
		TicketID:           ticketID,
		SuggestedCategory:  result.Category,
		SuggestedPriority:  result.Priority,
		CategoryConfidence: result.CategoryConfidence,
		PriorityConfidence: result.PriorityConfidence,
		ConfidenceScore:    result.Confidence,
		Reasoning:          result.Reasoning,
		Keywords:           result.Keywords,
		ClassifiedAt:       s.now(),
	})
}

func (s *Service) index(ctx context.Context, t *models.Ticket) {
	if s.search == nil {
		return
	}
	if err := s.search.Index(ctx, t); err != nil {
		s.logger.WithError(err).Warn("ticket not indexed", map[string]interface{}{"ticketId": t.ID})
	}
}

func (s *Service) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.WithError(err).Warn("ticket cache not invalidated", map[string]interface{}{"ticketId": id})
	}
}

func notFound(id string) error {
	return fmt.Errorf("%w with id: %s", ErrTicketNotFound, id)
}
