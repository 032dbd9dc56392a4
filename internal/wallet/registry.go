package wallet

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Registry is the table of configured wallets. It is built once at startup
// and read-only afterwards, so lookups need no locking.
type Registry struct {
	wallets map[string]*Wallet
	names   []string
	log     logrus.FieldLogger
}

// NewRegistry creates one wallet per name. A nil log falls back to the standard logger.
func NewRegistry(engine Engine, names []string, log logrus.FieldLogger) (*Registry, error) {
	if engine == nil {
		return nil, fmt.Errorf("%w: wallet requires a persistence engine", ErrConfiguration)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no wallet names given", ErrConfiguration)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	r := &Registry{
		wallets: make(map[string]*Wallet, len(names)),
		names:   make([]string, 0, len(names)),
		log:     log,
	}
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			return nil, fmt.Errorf("%w: blank wallet name in %q", ErrConfiguration, names)
		}
		if _, dup := r.wallets[name]; dup {
			return nil, fmt.Errorf("%w: duplicate wallet name %q", ErrConfiguration, name)
		}
		r.wallets[name] = newWallet(name, engine, log)
		r.names = append(r.names, name)
		log.WithField("wallet", name).Debug("wallet created")
	}
	return r, nil
}

// Get returns the named wallet. Unknown names are not an error; names may come
// from clients, so misses are logged at warn level.
func (r *Registry) Get(name string) (*Wallet, bool) {
	w, ok := r.wallets[name]
	if !ok {
		r.log.WithField("wallet", name).Warn("wallet not found")
	}
	return w, ok
}

// Names lists the wallets in configuration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}
