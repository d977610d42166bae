package service

import (
	"context"
	"strconv"

	"github.com/prohmpiriya/bazaar-client/internal/domain"
	"github.com/prohmpiriya/bazaar-client/internal/dto"
	"github.com/prohmpiriya/bazaar-client/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// SubscriptionService defines the seller plan endpoints. Payment happens on
// the provider's hosted checkout; the client only follows the returned URL.
type SubscriptionService interface {
	Plans(ctx context.Context) ([]domain.SubscriptionPlan, error)
	Current(ctx context.Context) (*domain.SellerSubscription, error)
	Subscribe(ctx context.Context, plan *domain.SubscriptionPlan) (*dto.SubscribeResponse, error)
	VerifyPayment(ctx context.Context, sessionID string) (*domain.SellerSubscription, error)
}

type subscriptionService struct {
	api Requester
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(api Requester) SubscriptionService {
	return &subscriptionService{api: api}
}

func (s *subscriptionService) Plans(ctx context.Context) ([]domain.SubscriptionPlan, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.subscription.plans")
	defer span.End()

	var plans []domain.SubscriptionPlan
	if err := s.api.Get(ctx, "/api/seller/subscription/plans", nil, &plans); err != nil {
		return nil, end(span, err)
	}
	return plans, end(span, nil)
}

func (s *subscriptionService) Current(ctx context.Context) (*domain.SellerSubscription, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.subscription.current")
	defer span.End()

	var sub domain.SellerSubscription
	if err := s.api.Get(ctx, "/api/seller/subscription/current", nil, &sub); err != nil {
		return nil, end(span, err)
	}
	return &sub, end(span, nil)
}

func (s *subscriptionService) Subscribe(ctx context.Context, plan *domain.SubscriptionPlan) (*dto.SubscribeResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.subscription.subscribe")
	defer span.End()

	if plan == nil || plan.PlanType == "" {
		return nil, end(span, domain.ErrInvalidPayment)
	}
	span.SetAttributes(attribute.String("plan_type", string(plan.PlanType)))

	req := &dto.SubscribeRequest{
		PlanName: plan.Name,
		PlanType: plan.PlanType,
		Price:    strconv.FormatInt(plan.Price, 10),
	}
	var res dto.SubscribeResponse
	if err := s.api.Post(ctx, "/api/seller/subscription/subscribe", req, &res); err != nil {
		return nil, end(span, err)
	}
	return &res, end(span, nil)
}

func (s *subscriptionService) VerifyPayment(ctx context.Context, sessionID string) (*domain.SellerSubscription, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.subscription.verify_payment")
	defer span.End()

	if sessionID == "" {
		return nil, end(span, domain.ErrInvalidPayment)
	}
	var sub domain.SellerSubscription
	req := &dto.VerifyPaymentRequest{SessionID: sessionID}
	if err := s.api.Post(ctx, "/api/seller/subscription/verify-payment", req, &sub); err != nil {
		return nil, end(span, err)
	}
	return &sub, end(span, nil)
}
