package sagalog

import "context"

// Repository appends saga log entries. Each Save adds a row; nothing is
// ever updated in place.
type Repository interface {
	Save(ctx context.Context, entry *SagaLog) error
}

// Reader returns the trail of one saga, oldest first.
type Reader interface {
	ListBySaga(ctx context.Context, sagaID string) ([]*SagaLog, error)
}
