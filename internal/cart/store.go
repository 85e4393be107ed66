package cart

// Store holds the current cart state for one shopper and notifies a single
// subscriber after every mutation. Callers are expected to serialize access;
// the shopper session holds the lock.
type Store struct {
	items    []LineItem
	onChange func()
}

// NewStore builds an empty cart store. onChange may be nil.
func NewStore(onChange func()) *Store {
	return &Store{onChange: onChange}
}

// AddItem merges the item into the cart by identity, summing quantities.
// Quantity validation happens at the API boundary, not here.
func (s *Store) AddItem(item LineItem, qty int) {
	s.items = Add(s.items, item, qty)
	s.notify()
}

// RemoveItem drops the entry with the given identity key.
func (s *Store) RemoveItem(key string) {
	s.items = Remove(s.items, key)
	s.notify()
}

// IncrementQty bumps the matching entry by one.
func (s *Store) IncrementQty(key string) {
	s.items = Increment(s.items, key)
	s.notify()
}

// DecrementQty lowers the matching entry by one, removing it at qty 1.
func (s *Store) DecrementQty(key string) {
	s.items = Decrement(s.items, key)
	s.notify()
}

// Clear resets the cart to empty.
func (s *Store) Clear() {
	s.items = nil
	s.notify()
}

// Items returns a deep copy of the current line items.
func (s *Store) Items() []LineItem {
	return Clone(s.items)
}

// TotalCents derives the cart total from the current snapshot.
func (s *Store) TotalCents() int64 {
	return TotalCents(s.items)
}

// ItemCount derives the summed quantity from the current snapshot.
func (s *Store) ItemCount() int {
	return ItemCount(s.items)
}

// Snapshot returns the persisted representation of the store.
func (s *Store) Snapshot() State {
	return State{Items: Clone(s.items)}
}

// Restore replaces the store contents without notifying; used for hydration.
func (s *Store) Restore(state State) {
	s.items = Clone(state.Items)
}

func (s *Store) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}
