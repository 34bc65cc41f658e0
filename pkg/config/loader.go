package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type entry struct {
	once  sync.Once
	value any
	err   error
}

var (
	cache          sync.Map // reflect.Type -> *entry
	dotenvLoaded   sync.Once
	dotenvOverride []string
	dotenvMu       sync.Mutex
)

// UseEnvFiles makes the first Load read the given dotenv files instead of
// ./.env. Variables already present in the process environment win.
// It has no effect once a config has been loaded.
func UseEnvFiles(paths ...string) {
	dotenvMu.Lock()
	defer dotenvMu.Unlock()
	dotenvOverride = append([]string(nil), paths...)
}

func loadDotenv() {
	dotenvLoaded.Do(func() {
		dotenvMu.Lock()
		paths := dotenvOverride
		dotenvMu.Unlock()
		// Missing files are fine; the environment alone may be enough.
		_ = godotenv.Load(paths...)
	})
}

// Load parses environment variables into v using `env` struct tags. Each
// config type is parsed once; later calls for the same type get the cached
// value, or the cached error.
//
//	type UsageConfig struct {
//		StoreDriver  string        `env:"STORE_DRIVER" envDefault:"memory"`
//		StoreTimeout time.Duration `env:"USAGE_STORE_TIMEOUT" envDefault:"3s"`
//	}
//
//	var cfg UsageConfig
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	loadDotenv()

	key := reflect.TypeFor[T]()
	raw, _ := cache.LoadOrStore(key, &entry{})
	e := raw.(*entry)
	e.once.Do(func() {
		var parsed T
		if err := env.Parse(&parsed); err != nil {
			e.err = errors.Join(ErrParsingConfig, err)
			return
		}
		e.value = parsed
	})
	if e.err != nil {
		return e.err
	}

	cached, ok := e.value.(T)
	if !ok {
		return ErrConfigNotLoaded
	}
	*v = cached
	return nil
}

// MustLoad is Load that panics on failure. Use it for configs the process
// cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}
