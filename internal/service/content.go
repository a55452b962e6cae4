// Package service holds the content rules: category resolution, validation,
// identity assignment and lifecycle events.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	infralogger "github.com/barjames/funeral-planner/infrastructure/logger"
	"github.com/barjames/funeral-planner/internal/models"
	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// Size bounds applied on create, in bytes after trimming.
const (
	MaxTitleLength   = 300
	MaxContentLength = 100_000
	MaxLinkLength    = 2048
)

// Repository is the record store used by ContentService.
type Repository interface {
	List(ctx context.Context, cat models.Category) ([]models.ContentItem, error)
	Create(ctx context.Context, cat models.Category, item *models.ContentItem) error
	Delete(ctx context.Context, cat models.Category, id string) (bool, error)
	GetByIDs(ctx context.Context, cat models.Category, ids []string) ([]models.ContentItem, error)
}

// EventPublisher receives content lifecycle notifications. Implementations
// must not block the caller and must not fail the request.
type EventPublisher interface {
	ContentCreated(cat models.Category, item models.ContentItem)
	ContentDeleted(cat models.Category, id string)
}

// ContentService implements list, create and delete for every category.
type ContentService struct {
	repo       Repository
	publishers []EventPublisher
	logger     infralogger.Logger
	now        func() time.Time
}

// Option customizes a ContentService.
type Option func(*ContentService)

// WithPublisher adds p to the lifecycle event receivers. Nil is ignored.
func WithPublisher(p EventPublisher) Option {
	return func(s *ContentService) {
		if p != nil {
			s.publishers = append(s.publishers, p)
		}
	}
}

// WithClock replaces time.Now, for deterministic ordering in tests.
func WithClock(now func() time.Time) Option {
	return func(s *ContentService) { s.now = now }
}

// NewContentService creates a service over repo.
func NewContentService(repo Repository, log infralogger.Logger, opts ...Option) *ContentService {
	s := &ContentService{
		repo:   repo,
		logger: log,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ResolveCategory maps a path segment to a category or a NotFoundError.
func ResolveCategory(key string) (models.Category, error) {
	cat, ok := models.Lookup(key)
	if !ok {
		return models.Category{}, notFound(fmt.Sprintf("Content type '%s' not found.", strings.ToLower(key)))
	}
	return cat, nil
}

// ValidID reports whether id has the shape of a server-assigned identifier.
func ValidID(id string) bool {
	return len(id) == 36 && uuid.Validate(id) == nil
}

// List returns the category's items ordered by creation time.
func (s *ContentService) List(ctx context.Context, category string) ([]models.ContentItem, error) {
	cat, err := ResolveCategory(category)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.List(ctx, cat)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return items, nil
}

// Create validates req against the category's required field and stores a new item.
func (s *ContentService) Create(ctx context.Context, category string, req models.CreateRequest) (*models.ContentItem, error) {
	cat, err := ResolveCategory(category)
	if err != nil {
		return nil, err
	}

	item, err := NewItem(cat, req, s.now())
	if err != nil {
		return nil, err
	}

	if createErr := s.repo.Create(ctx, cat, item); createErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, createErr)
	}

	s.logger.Info("Content item created",
		infralogger.String("category", cat.Key),
		infralogger.String("item_id", item.ID),
	)
	for _, p := range s.publishers {
		p.ContentCreated(cat, *item)
	}

	return item, nil
}

// NewItem validates req for cat and builds an item with a fresh identity.
// Only the category's own payload field is kept.
func NewItem(cat models.Category, req models.CreateRequest, now time.Time) (*models.ContentItem, error) {
	title := clean(req.Title)
	if title == "" {
		return nil, invalid("Missing required field: title")
	}
	if len(title) > MaxTitleLength {
		return nil, invalid(fmt.Sprintf("Field title exceeds %d characters", MaxTitleLength))
	}

	now = now.UTC()
	item := &models.ContentItem{
		ID:        uuid.New().String(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if cat.RequiresLink() {
		link := strings.TrimSpace(req.Link)
		if link == "" {
			return nil, invalid("Missing required field: link")
		}
		if len(link) > MaxLinkLength {
			return nil, invalid(fmt.Sprintf("Field link exceeds %d characters", MaxLinkLength))
		}
		item.Link = link
		return item, nil
	}

	content := clean(req.Content)
	if content == "" {
		return nil, invalid("Missing required field: content")
	}
	if len(content) > MaxContentLength {
		return nil, invalid(fmt.Sprintf("Field content exceeds %d characters", MaxContentLength))
	}
	item.Content = content
	return item, nil
}

// clean trims and NFC-normalizes text so visually identical input is stored identically.
func clean(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// Delete removes one item.
func (s *ContentService) Delete(ctx context.Context, category, id string) (*models.DeleteResponse, error) {
	cat, err := ResolveCategory(category)
	if err != nil {
		return nil, err
	}

	if !ValidID(id) {
		return nil, invalid("Invalid ID format: " + id)
	}

	deleted, err := s.repo.Delete(ctx, cat, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if !deleted {
		return nil, notFound(fmt.Sprintf("%s item with ID %s not found.", cat.Key, id))
	}

	s.logger.Info("Content item deleted",
		infralogger.String("category", cat.Key),
		infralogger.String("item_id", id),
	)
	for _, p := range s.publishers {
		p.ContentDeleted(cat, id)
	}

	return &models.DeleteResponse{
		Message:       cat.Key + " item deleted successfully",
		DeletedItemID: id,
	}, nil
}
