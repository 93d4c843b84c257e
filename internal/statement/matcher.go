package statement

import "context"

// Matcher reconciles an upload's extracted records after extraction has
// finished. The matching algorithm itself lives behind this interface so the
// pipeline can advance a session through the matching stage without caring
// what runs there.
type Matcher interface {
	Match(ctx context.Context, uploadID string) error
}

// NoopMatcher advances the matching stage without doing any work.
type NoopMatcher struct{}

func (NoopMatcher) Match(ctx context.Context, uploadID string) error {
	return nil
}
