// Package service holds typed calls for each backend area.
package service

import (
	"context"
	"net/url"

	"github.com/prohmpiriya/bazaar-client/internal/api"
	"github.com/prohmpiriya/bazaar-client/pkg/telemetry"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Requester is the subset of *api.Client the services need
type Requester interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Patch(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
	Do(ctx context.Context, method, path string, body any, query url.Values, out any) error
}

// end records err on span and returns it classified as an *api.Error
func end(span trace.Span, err error) error {
	if err != nil {
		err = api.Classify(err)
		telemetry.RecordError(span, err)
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}
