package billing

import (
	"strings"
	"sync"

	"github.com/stripe/stripe-go/v74/client"
	"go.uber.org/zap"
)

// Loader constructs the payment provider SDK handle at most once and hands
// out the same instance afterwards. A failed attempt is not remembered, so a
// later call can succeed once configuration is fixed.
type Loader struct {
	key     string
	factory func(key string) *client.API
	logger  *zap.Logger

	mu  sync.Mutex
	api *client.API
}

type LoaderOption func(*Loader)

// WithFactory overrides how the SDK handle is built. A factory returning nil
// means the SDK is unavailable.
func WithFactory(factory func(key string) *client.API) LoaderOption {
	return func(l *Loader) {
		l.factory = factory
	}
}

func WithLoaderLogger(logger *zap.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

func NewLoader(key string, opts ...LoaderOption) *Loader {
	l := &Loader{
		key:    strings.TrimSpace(key),
		logger: zap.NewNop(),
		factory: func(key string) *client.API {
			return client.New(key, nil)
		},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Loader) Load() (*client.API, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.api != nil {
		return l.api, nil
	}

	api, err := l.construct()
	if err != nil {
		l.logger.Error("payment provider initialization failed", zap.Error(err))
		return nil, err
	}
	l.api = api
	return l.api, nil
}

func (l *Loader) construct() (*client.API, error) {
	if l.key == "" {
		return nil, &ConfigurationError{Reason: "payment provider key is not set"}
	}
	if l.factory == nil {
		return nil, &ConfigurationError{Reason: "payment provider SDK is unavailable"}
	}

	api := l.factory(l.key)
	if api == nil {
		return nil, &ConfigurationError{Reason: "payment provider SDK is unavailable"}
	}
	return api, nil
}
