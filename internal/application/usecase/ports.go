package usecase

import "context"

// CompletionNotifier tells a student that they finished a course.
type CompletionNotifier interface {
	SendCourseCompleted(ctx context.Context, to, name, courseTitle, courseURL string) error
}

// BlobStore keeps uploaded media. Get returns domain.ErrNotFound for a
// missing key.
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, string, error)
}

// ReplayGuard reports whether a webhook delivery id is seen for the first
// time. Forget releases an id whose processing failed.
type ReplayGuard interface {
	FirstSeen(ctx context.Context, id string) (bool, error)
	Forget(ctx context.Context, id string) error
}
