package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrNilTarget is returned when Load receives a nil pointer.
var ErrNilTarget = errors.New("config: target must be a non-nil pointer")

var (
	dotenvOnce sync.Once
	cacheMu    sync.Mutex
	cache      = map[reflect.Type]any{}
)

// Load fills cfg from the environment. The .env file in the working
// directory is read once, if present, without overriding variables that are
// already set. Each type is parsed once; later calls copy the cached value.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return ErrNilTarget
	}

	dotenvOnce.Do(func() { _ = godotenv.Load() })

	typ := reflect.TypeFor[T]()

	cacheMu.Lock()
	defer cacheMu.Unlock()

	if cached, ok := cache[typ]; ok {
		*cfg = cached.(T)
		return nil
	}

	var loaded T
	if err := env.Parse(&loaded); err != nil {
		return fmt.Errorf("config: parse %s: %w", typ, err)
	}
	cache[typ] = loaded
	*cfg = loaded
	return nil
}

// MustLoad is Load that panics on error.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}

// Reset clears the cache so the next Load re-reads the environment.
func Reset() {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	clear(cache)
}
