package http

import (
	"context"

	"leadscli/internal/services"
)

// LeadServiceInterface defines the processing operations the handler needs.
type LeadServiceInterface interface {
	CombineAndClean(ctx context.Context, files []services.UploadedFile) (*services.Result, error)
	CleanEach(ctx context.Context, files []services.UploadedFile) (*services.Result, error)
	CheckAgainstReference(ctx context.Context, reference, candidates []services.UploadedFile) (*services.Result, error)
	Split(ctx context.Context, files []services.UploadedFile) (*services.Result, error)
}
