package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/silentc1/mobileotosanayi-sub000/internal/domain"
	pkgkafka "github.com/silentc1/mobileotosanayi-sub000/pkg/kafka"
	"github.com/silentc1/mobileotosanayi-sub000/pkg/logger"
)

// Kafka topic constants for review and business domain events.
const (
	TopicReviewCreated         = "otosanayi.review.created"
	TopicReviewUpdated         = "otosanayi.review.updated"
	TopicReviewDeleted         = "otosanayi.review.deleted"
	TopicReviewLiked           = "otosanayi.review.liked"
	TopicBusinessRatingUpdated = "otosanayi.business.rating_updated"
)

// Aggregate type constants.
const (
	AggregateTypeReview   = "review"
	AggregateTypeBusiness = "business"
)

// Source identifier for events originating from this service.
const SourceReviewService = "otosanayi-api"

// ReviewCreatedData is the payload for a review.created event.
type ReviewCreatedData struct {
	ID         string `json:"id"`
	BusinessID string `json:"business_id"`
	UserID     string `json:"user_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

// ReviewUpdatedData is the payload for a review.updated event.
type ReviewUpdatedData struct {
	ID         string `json:"id"`
	BusinessID string `json:"business_id"`
	UserID     string `json:"user_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

// ReviewDeletedData is the payload for a review.deleted event.
type ReviewDeletedData struct {
	ID         string `json:"id"`
	BusinessID string `json:"business_id"`
}

// ReviewLikedData is the payload for a review.liked event.
type ReviewLikedData struct {
	ID         string `json:"id"`
	BusinessID string `json:"business_id"`
	Likes      int    `json:"likes"`
}

// BusinessRatingUpdatedData is the payload for a business.rating_updated event.
type BusinessRatingUpdatedData struct {
	BusinessID  string  `json:"business_id"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
}

// Producer publishes review and business domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the review service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// newEvent builds the standard envelope and carries the request correlation
// ID into the event so consumers can join their logs to ours.
func newEvent(ctx context.Context, topic, aggregateID, aggregateType string, data any) (*pkgkafka.Event, error) {
	event, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, SourceReviewService, data)
	if err != nil {
		return nil, err
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		event.WithCorrelationID(id)
	}
	return event, nil
}

// PublishReviewCreated publishes a review.created event.
func (p *Producer) PublishReviewCreated(ctx context.Context, review *domain.Review) error {
	data := ReviewCreatedData{
		ID:         review.ID,
		BusinessID: review.BusinessID,
		UserID:     review.UserID,
		Rating:     review.Rating,
		Comment:    review.Comment,
	}

	event, err := newEvent(ctx, TopicReviewCreated, review.ID, AggregateTypeReview, data)
	if err != nil {
		return fmt.Errorf("create review.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReviewCreated, event); err != nil {
		return fmt.Errorf("publish review.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published review.created event",
		slog.String("review_id", review.ID),
		slog.String("business_id", review.BusinessID),
	)

	return nil
}

// PublishReviewUpdated publishes a review.updated event.
func (p *Producer) PublishReviewUpdated(ctx context.Context, review *domain.Review) error {
	data := ReviewUpdatedData{
		ID:         review.ID,
		BusinessID: review.BusinessID,
		UserID:     review.UserID,
		Rating:     review.Rating,
		Comment:    review.Comment,
	}

	event, err := newEvent(ctx, TopicReviewUpdated, review.ID, AggregateTypeReview, data)
	if err != nil {
		return fmt.Errorf("create review.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReviewUpdated, event); err != nil {
		return fmt.Errorf("publish review.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published review.updated event",
		slog.String("review_id", review.ID),
		slog.String("business_id", review.BusinessID),
	)

	return nil
}

// PublishReviewDeleted publishes a review.deleted event.
func (p *Producer) PublishReviewDeleted(ctx context.Context, reviewID, businessID string) error {
	data := ReviewDeletedData{
		ID:         reviewID,
		BusinessID: businessID,
	}

	event, err := newEvent(ctx, TopicReviewDeleted, reviewID, AggregateTypeReview, data)
	if err != nil {
		return fmt.Errorf("create review.deleted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReviewDeleted, event); err != nil {
		return fmt.Errorf("publish review.deleted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published review.deleted event",
		slog.String("review_id", reviewID),
		slog.String("business_id", businessID),
	)

	return nil
}

// PublishReviewLiked publishes a review.liked event.
func (p *Producer) PublishReviewLiked(ctx context.Context, review *domain.Review) error {
	data := ReviewLikedData{
		ID:         review.ID,
		BusinessID: review.BusinessID,
		Likes:      review.Likes,
	}

	event, err := newEvent(ctx, TopicReviewLiked, review.ID, AggregateTypeReview, data)
	if err != nil {
		return fmt.Errorf("create review.liked event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReviewLiked, event); err != nil {
		return fmt.Errorf("publish review.liked event: %w", err)
	}

	p.logger.DebugContext(ctx, "published review.liked event",
		slog.String("review_id", review.ID),
		slog.Int("likes", review.Likes),
	)

	return nil
}

// PublishBusinessRatingUpdated publishes a business.rating_updated event.
func (p *Producer) PublishBusinessRatingUpdated(ctx context.Context, businessID string, rating float64, reviewCount int) error {
	data := BusinessRatingUpdatedData{
		BusinessID:  businessID,
		Rating:      rating,
		ReviewCount: reviewCount,
	}

	event, err := newEvent(ctx, TopicBusinessRatingUpdated, businessID, AggregateTypeBusiness, data)
	if err != nil {
		return fmt.Errorf("create business.rating_updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicBusinessRatingUpdated, event); err != nil {
		return fmt.Errorf("publish business.rating_updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published business.rating_updated event",
		slog.String("business_id", businessID),
		slog.Float64("rating", rating),
		slog.Int("review_count", reviewCount),
	)

	return nil
}
