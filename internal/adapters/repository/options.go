package repository

// Option applies a configuration option to the LevelDBStore.
type Option func(*LevelDBStore)

// WithKeyPrefix namespaces every key, e.g. "presale:".
func WithKeyPrefix(prefix string) Option {
	return func(s *LevelDBStore) {
		s.prefix = prefix
	}
}

// WithSyncWrites makes every write fsync before returning.
func WithSyncWrites(sync bool) Option {
	return func(s *LevelDBStore) {
		s.syncWrites = sync
	}
}
