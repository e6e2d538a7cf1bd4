package attr

// Set is an ordered attribute collection with unique keys. Passes consume
// entries by removing them; Drain hands the rest over and leaves the set
// empty.
type Set struct {
	items []Attribute
}

func NewSet(attrs ...Attribute) *Set {
	s := &Set{items: make([]Attribute, 0, len(attrs))}
	for _, a := range attrs {
		s.Put(a)
	}
	return s
}

func (s *Set) index(key string) int {
	for i := range s.items {
		if s.items[i].Key == key {
			return i
		}
	}
	return -1
}

// Put inserts a or replaces the entry with the same key in place.
func (s *Set) Put(a Attribute) {
	if i := s.index(a.Key); i >= 0 {
		s.items[i] = a
		return
	}
	s.items = append(s.items, a)
}

// Lookup finds an attribute by key.
func (s *Set) Lookup(key string) (Attribute, bool) {
	if s == nil {
		return Attribute{}, false
	}
	if i := s.index(key); i >= 0 {
		return s.items[i], true
	}
	return Attribute{}, false
}

// Find returns the attribute of a recognised kind.
func (s *Set) Find(k Kind) (Attribute, bool) {
	return s.Lookup(k.Key())
}

func (s *Set) Has(k Kind) bool {
	_, ok := s.Find(k)
	return ok
}

// Remove deletes the entry with key and reports whether it existed.
func (s *Set) Remove(key string) bool {
	if s == nil {
		return false
	}
	i := s.index(key)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return true
}

// Take removes and returns the attribute of kind k.
func (s *Set) Take(k Kind) (Attribute, bool) {
	a, ok := s.Find(k)
	if ok {
		s.Remove(a.Key)
	}
	return a, ok
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// All returns a copy of the entries in insertion order.
func (s *Set) All() []Attribute {
	if s == nil {
		return nil
	}
	out := make([]Attribute, len(s.items))
	copy(out, s.items)
	return out
}

// Drain returns the remaining entries and clears the set.
func (s *Set) Drain() []Attribute {
	out := s.All()
	s.Clear()
	return out
}

func (s *Set) Clear() {
	if s != nil {
		s.items = s.items[:0]
	}
}

func (s *Set) Clone() *Set {
	return NewSet(s.All()...)
}
