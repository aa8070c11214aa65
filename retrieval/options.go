package retrieval

import (
	"fmt"
	"log/slog"
)

// DefaultPrefixRunes is the default near-duplicate fingerprint length.
const DefaultPrefixRunes = 200

type settings struct {
	logger      *slog.Logger
	dimension   int
	prefixRunes int
	candidates  int
	monitor     Monitor
}

func defaultSettings() settings {
	return settings{
		logger:      slog.Default(),
		prefixRunes: DefaultPrefixRunes,
		monitor:     &noopMonitor{},
	}
}

func (s *settings) apply(opts []Option) error {
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return err
		}
	}
	return nil
}

// Option configures an Engine, LexicalSearch or Retriever.
// Options that do not apply to a component are ignored by it.
type Option func(*settings) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithDimension restricts vector ranking to embeddings of exactly dim values.
// Default is 0, which accepts any embedding matching the query's length.
func WithDimension(dim int) Option {
	return func(s *settings) error {
		if dim < 0 {
			return fmt.Errorf("%w: dimension must not be negative", ErrInvalidOption)
		}
		s.dimension = dim
		return nil
	}
}

// WithPrefixRunes sets the near-duplicate fingerprint length.
// Default is DefaultPrefixRunes.
func WithPrefixRunes(n int) Option {
	return func(s *settings) error {
		if n <= 0 {
			return fmt.Errorf("%w: prefix length must be positive", ErrInvalidOption)
		}
		s.prefixRunes = n
		return nil
	}
}

// WithCandidates bounds how many ranked candidates the Retriever
// deduplicates before truncating to topK. Default is 0, meaning every
// valid chunk.
func WithCandidates(n int) Option {
	return func(s *settings) error {
		if n < 0 {
			return fmt.Errorf("%w: candidate limit must not be negative", ErrInvalidOption)
		}
		s.candidates = n
		return nil
	}
}

// WithMonitor installs hooks that observe each retrieval.
func WithMonitor(monitor Monitor) Option {
	return func(s *settings) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		s.monitor = monitor
		return nil
	}
}
