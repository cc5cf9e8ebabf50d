package domain

import "context"

// SummaryStore keeps the single latest summary image.
type SummaryStore interface {
	Save(ctx context.Context, image []byte) error
	Load(ctx context.Context) ([]byte, error)
}

type SummaryRenderer interface {
	Render(ctx context.Context) error
}
