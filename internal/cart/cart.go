package cart

import (
	"sync"

	"github.com/projetproduits/storefront/internal/models"
)

// Line is one product in the cart. Quantity is always >= 1 while the
// line exists; a quantity pushed to zero removes the line instead.
type Line struct {
	ProductID int64   `json:"productId"`
	Nom       string  `json:"nom"`
	Prix      float64 `json:"prix"`
	Quantity  int     `json:"quantity"`
	ImageURL  string  `json:"imageUrl"`
}

// Store holds the tab-scoped cart: an ordered line list plus the
// drawer visibility flag. Totals are derived on every read, never
// cached, so they can not go stale.
type Store struct {
	mu    sync.Mutex
	lines []Line
	open  bool
}

func NewStore() *Store {
	return &Store{}
}

// AddToCart appends the product with quantity 1, or bumps the existing
// line's quantity when the product is already present. The drawer is
// left alone.
func (s *Store) AddToCart(product models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].ProductID == product.ID {
			s.lines[i].Quantity++

			return
		}
	}

	s.lines = append(s.lines, Line{
		ProductID: product.ID,
		Nom:       product.Nom,
		Prix:      product.Prix,
		Quantity:  1,
		ImageURL:  product.ImageURL,
	})
}

// UpdateQuantity sets the line's quantity, removing the line when the
// new quantity is zero or below. No upper bound is enforced.
func (s *Store) UpdateQuantity(productID int64, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		s.removeLocked(productID)

		return
	}

	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines[i].Quantity = quantity

			return
		}
	}
}

// RemoveFromCart drops the line unconditionally; absent lines are a
// no-op.
func (s *Store) RemoveFromCart(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(productID)
}

func (s *Store) removeLocked(productID int64) {
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)

			return
		}
	}
}

func (s *Store) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
}

// Total is the sum of prix * quantity over all lines; 0 when empty.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total float64

	for _, line := range s.lines {
		total += line.Prix * float64(line.Quantity)
	}

	return total
}

// Count is the sum of quantities, independent of how many distinct
// products are present. The "99+" badge cap is the view's business.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int

	for _, line := range s.lines {
		count += line.Quantity
	}

	return count
}

// Items returns a copy of the current lines in insertion order.
func (s *Store) Items() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]Line, len(s.lines))
	copy(items, s.lines)

	return items
}

func (s *Store) OpenCart() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.open = true
}

func (s *Store) CloseCart() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.open = false
}

func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.open
}
