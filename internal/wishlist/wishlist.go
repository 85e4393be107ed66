// Package wishlist owns a deduplicated set of saved products, independent of
// the cart and checkout lifecycle. Identity is the product id alone; variant
// fields are descriptive only.
package wishlist

// Item is one saved product.
type Item struct {
	ProductID  string  `json:"product_id"`
	Title      string  `json:"title"`
	PriceCents int64   `json:"price_cents"`
	Image      string  `json:"image,omitempty"`
	Size       *string `json:"size,omitempty"`
	Color      *string `json:"color,omitempty"`
}

// State is the persisted wishlist snapshot.
type State struct {
	Items []Item `json:"items"`
}

// Store holds the saved products for one shopper. Callers serialize access;
// the shopper session holds the lock.
type Store struct {
	items    []Item
	onChange func()
}

// NewStore builds an empty wishlist store. onChange may be nil.
func NewStore(onChange func()) *Store {
	return &Store{onChange: onChange}
}

// Add inserts the item unless the product is already saved. The first insert
// wins; a duplicate add never updates the stored payload.
func (s *Store) Add(item Item) {
	if s.Contains(item.ProductID) {
		return
	}
	next := make([]Item, 0, len(s.items)+1)
	next = append(next, s.items...)
	next = append(next, cloneItem(item))
	s.items = next
	s.notify()
}

// Remove drops the saved product. Absent ids are a no-op.
func (s *Store) Remove(productID string) {
	if !s.Contains(productID) {
		return
	}
	next := make([]Item, 0, len(s.items))
	for _, existing := range s.items {
		if existing.ProductID == productID {
			continue
		}
		next = append(next, existing)
	}
	s.items = next
	s.notify()
}

// Contains reports whether the product is saved.
func (s *Store) Contains(productID string) bool {
	for _, existing := range s.items {
		if existing.ProductID == productID {
			return true
		}
	}
	return false
}

// Toggle removes the item when present, adds it otherwise. Implemented in
// terms of Add and Remove so there is a single logic path for each.
func (s *Store) Toggle(item Item) {
	if s.Contains(item.ProductID) {
		s.Remove(item.ProductID)
		return
	}
	s.Add(item)
}

// Items returns an independent copy of the saved products.
func (s *Store) Items() []Item {
	next := make([]Item, len(s.items))
	for i, item := range s.items {
		next[i] = cloneItem(item)
	}
	return next
}

// Snapshot returns the persisted representation of the store.
func (s *Store) Snapshot() State {
	return State{Items: s.Items()}
}

// Restore replaces the store contents without notifying; used for hydration.
func (s *Store) Restore(state State) {
	s.items = make([]Item, len(state.Items))
	for i, item := range state.Items {
		s.items[i] = cloneItem(item)
	}
}

func (s *Store) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}

func cloneItem(item Item) Item {
	if item.Size != nil {
		size := *item.Size
		item.Size = &size
	}
	if item.Color != nil {
		color := *item.Color
		item.Color = &color
	}
	return item
}
