package repository

import "os"

// FileOption configures a FileStore.
type FileOption func(*FileStore)

// WithFileMode sets the permissions of the snapshot file.
func WithFileMode(mode os.FileMode) FileOption {
	return func(s *FileStore) {
		if mode != 0 {
			s.mode = mode
		}
	}
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithKeyPrefix prepends prefix to the snapshot key.
func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		s.key = prefix + s.key
	}
}
