package basket

import (
	"errors"
	"sync"

	"github.com/utafrali/storefront/internal/domain"
)

// ErrNotLoaded is returned by mutations before the basket was first fetched.
var ErrNotLoaded = errors.New("basket not loaded")

// Store owns the client-side basket. The basket is absent until Replace is
// called with the first fetched state; every read returns a copy.
//
// version advances on every change and every started mutation, so a fetched
// state can be dropped when the basket moved while it was in flight.
type Store struct {
	mu       sync.RWMutex
	basket   *domain.Basket
	version  uint64
	inflight int

	subMu  sync.Mutex
	nextID int
	subs   map[int]chan *domain.Basket
}

// NewStore returns an empty store with no basket loaded.
func NewStore() *Store {
	return &Store{subs: make(map[int]chan *domain.Basket)}
}

// Loaded reports whether a basket has been fetched.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.basket != nil
}

// Snapshot returns a copy of the basket and whether one is loaded.
func (s *Store) Snapshot() (*domain.Basket, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.basket == nil {
		return nil, false
	}
	return s.basket.Clone(), true
}

// Version returns the current change counter. Pass it to ReplaceAt.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Begin marks a remote mutation as in flight until the returned function is
// called. While any is in flight ReplaceAt keeps the local basket.
func (s *Store) Begin() func() {
	s.mu.Lock()
	s.version++
	s.inflight++
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.inflight--
			s.mu.Unlock()
		})
	}
}

// Replace installs lines as the current basket.
func (s *Store) Replace(lines []domain.BasketLine) {
	_ = s.mutate(func(b **domain.Basket) error {
		*b = domain.NewBasket(lines)
		return nil
	})
}

// ReplaceAt installs lines only if the store is still at version and no
// mutation is in flight. It reports whether lines were installed.
func (s *Store) ReplaceAt(lines []domain.BasketLine, version uint64) bool {
	err := s.mutate(func(b **domain.Basket) error {
		if s.version != version || s.inflight > 0 {
			return errUnchanged
		}
		*b = domain.NewBasket(lines)
		return nil
	})
	return err == nil
}

// Add records one more unit of p.
func (s *Store) Add(p domain.Product) error {
	return s.mutate(func(b **domain.Basket) error {
		if *b == nil {
			return ErrNotLoaded
		}
		(*b).Add(p)
		return nil
	})
}

// Remove records one unit fewer of productID and reports whether the
// product was in the basket.
func (s *Store) Remove(productID int64) (bool, error) {
	var found bool
	err := s.mutate(func(b **domain.Basket) error {
		if *b == nil {
			return ErrNotLoaded
		}
		found = (*b).Remove(productID)
		if !found {
			return errUnchanged
		}
		return nil
	})
	if errors.Is(err, errUnchanged) {
		err = nil
	}
	return found, err
}

// Clear empties the loaded basket.
func (s *Store) Clear() error {
	return s.mutate(func(b **domain.Basket) error {
		if *b == nil {
			return ErrNotLoaded
		}
		(*b).Clear()
		return nil
	})
}

// Quantity returns the quantity of productID, 0 when absent or not loaded.
func (s *Store) Quantity(productID int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.basket == nil {
		return 0
	}
	return s.basket.Quantity(productID)
}

// Subscribe returns a channel receiving the latest basket after each change
// and a function that unsubscribes and closes it. Slow readers only see the
// most recent snapshot.
func (s *Store) Subscribe() (<-chan *domain.Basket, func()) {
	ch := make(chan *domain.Basket, 1)

	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
			close(ch)
		})
	}
}

var errUnchanged = errors.New("unchanged")

// mutate applies fn under the write lock and, when fn succeeds, notifies
// subscribers with a snapshot taken before the lock is released.
func (s *Store) mutate(fn func(b **domain.Basket) error) error {
	s.mu.Lock()
	if err := fn(&s.basket); err != nil {
		s.mu.Unlock()
		return err
	}
	s.version++
	snap := s.basket.Clone()

	// Publishing under mu keeps notification order equal to mutation order.
	s.publish(snap)
	s.mu.Unlock()
	return nil
}

func (s *Store) publish(b *domain.Basket) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- b.Clone():
		default:
		}
	}
}
