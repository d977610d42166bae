package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/prohmpiriya/bazaar-client/internal/domain"
	"github.com/prohmpiriya/bazaar-client/internal/dto"
	"github.com/prohmpiriya/bazaar-client/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// ReviewService defines product reviews and discussions
type ReviewService interface {
	List(ctx context.Context, productID int64) ([]domain.Review, error)
	// Mine returns the signed-in user's review of the product
	Mine(ctx context.Context, productID int64) (*domain.Review, error)
	Create(ctx context.Context, productID int64, req *dto.ReviewRequest) (*domain.Review, error)
	Update(ctx context.Context, reviewID int64, req *dto.ReviewRequest) (*domain.Review, error)
	Delete(ctx context.Context, reviewID int64) (*dto.APIResponse, error)

	Discussions(ctx context.Context, productID int64) ([]domain.Discussion, error)
	Discuss(ctx context.Context, productID int64, content string) (*domain.Discussion, error)
}

type reviewService struct {
	api Requester
}

// NewReviewService creates a new review service
func NewReviewService(api Requester) ReviewService {
	return &reviewService{api: api}
}

func (s *reviewService) List(ctx context.Context, productID int64) ([]domain.Review, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.review.list")
	defer span.End()

	if productID <= 0 {
		return nil, end(span, domain.ErrInvalidProductID)
	}
	var reviews []domain.Review
	if err := s.api.Get(ctx, fmt.Sprintf("/api/products/%d/reviews", productID), nil, &reviews); err != nil {
		return nil, end(span, err)
	}
	span.SetAttributes(attribute.Int("result.count", len(reviews)))
	return reviews, end(span, nil)
}

func (s *reviewService) Mine(ctx context.Context, productID int64) (*domain.Review, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.review.mine")
	defer span.End()

	if productID <= 0 {
		return nil, end(span, domain.ErrInvalidProductID)
	}
	var review domain.Review
	if err := s.api.Get(ctx, fmt.Sprintf("/api/products/%d/reviews/user", productID), nil, &review); err != nil {
		return nil, end(span, err)
	}
	return &review, end(span, nil)
}

func (s *reviewService) Create(ctx context.Context, productID int64, req *dto.ReviewRequest) (*domain.Review, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.review.create")
	defer span.End()

	if productID <= 0 {
		return nil, end(span, domain.ErrInvalidProductID)
	}
	if err := req.Validate(); err != nil {
		return nil, end(span, err)
	}
	var review domain.Review
	if err := s.api.Post(ctx, fmt.Sprintf("/api/products/%d/reviews", productID), req, &review); err != nil {
		return nil, end(span, err)
	}
	return &review, end(span, nil)
}

func (s *reviewService) Update(ctx context.Context, reviewID int64, req *dto.ReviewRequest) (*domain.Review, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.review.update")
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, end(span, err)
	}
	var review domain.Review
	if err := s.api.Patch(ctx, fmt.Sprintf("/api/reviews/%d", reviewID), req, &review); err != nil {
		return nil, end(span, err)
	}
	return &review, end(span, nil)
}

func (s *reviewService) Delete(ctx context.Context, reviewID int64) (*dto.APIResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.review.delete")
	defer span.End()

	var res dto.APIResponse
	if err := s.api.Delete(ctx, fmt.Sprintf("/api/reviews/%d", reviewID), &res); err != nil {
		return nil, end(span, err)
	}
	return &res, end(span, nil)
}

func (s *reviewService) Discussions(ctx context.Context, productID int64) ([]domain.Discussion, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.review.discussions")
	defer span.End()

	if productID <= 0 {
		return nil, end(span, domain.ErrInvalidProductID)
	}
	var items []domain.Discussion
	if err := s.api.Get(ctx, fmt.Sprintf("/api/products/%d/discussions", productID), nil, &items); err != nil {
		return nil, end(span, err)
	}
	return items, end(span, nil)
}

func (s *reviewService) Discuss(ctx context.Context, productID int64, content string) (*domain.Discussion, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.review.discuss")
	defer span.End()

	if productID <= 0 {
		return nil, end(span, domain.ErrInvalidProductID)
	}
	if strings.TrimSpace(content) == "" {
		return nil, end(span, domain.ErrEmptyContent)
	}
	var d domain.Discussion
	path := fmt.Sprintf("/api/products/%d/discussions", productID)
	if err := s.api.Post(ctx, path, &dto.DiscussionRequest{Content: content}, &d); err != nil {
		return nil, end(span, err)
	}
	return &d, end(span, nil)
}
