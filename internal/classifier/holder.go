package classifier

import (
	"fmt"
	"sync"

	"diabetes-risk/internal/domain"
)

// Holder carga el clasificador una sola vez y lo mantiene durante la vida
// del proceso. Un fallo de carga tambien queda fijado: cada Get posterior
// devuelve el mismo error.
type Holder struct {
	once   sync.Once
	load   func() (Classifier, error)
	clf    Classifier
	err    error
	loaded bool
	mu     sync.RWMutex
}

func NewHolder(load func() (Classifier, error)) *Holder {
	return &Holder{load: load}
}

// Get carga en el primer uso.
func (h *Holder) Get() (Classifier, error) {
	h.once.Do(func() {
		clf, err := h.load()
		if err == nil && clf == nil {
			err = fmt.Errorf("%w: loader returned no classifier", domain.ErrClassifierUnavailable)
		}
		h.mu.Lock()
		h.clf, h.err, h.loaded = clf, err, true
		h.mu.Unlock()
	})
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clf, h.err
}

// State informa si ya se intento la carga y con que resultado, sin disparar la carga.
func (h *Holder) State() (attempted bool, err error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.loaded, h.err
}
