package storage

import (
	"context"

	"profitScope/internal/model"
)

// Sink receives the final ranking of one analysis.
type Sink interface {
	WriteRanking(ctx context.Context, ranking model.Ranking) error
}
