package domain

import (
	"fmt"
	"time"
)

// CartItem is one line of a client's pre-checkout selection. UnitAmount is
// the entry's selling price captured when the line was added.
type CartItem struct {
	EntryID    int64
	ProductID  int64
	Name       string
	UnitAmount int64
	Quantity   int32
}

// Cart holds a single client's in-progress selection. All lines must come
// from the same establishment.
type Cart struct {
	ID              int64
	ClientID        int64
	EstablishmentID int64 // zero while the cart is empty
	Items           []CartItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CrossEstablishmentError rejects mixing entries from two establishments in
// one cart. The client has to clear the cart before switching stores.
type CrossEstablishmentError struct {
	CartEstablishmentID  int64
	EntryEstablishmentID int64
}

func (e *CrossEstablishmentError) Error() string {
	return fmt.Sprintf("cart belongs to establishment %d, entry belongs to %d",
		e.CartEstablishmentID, e.EntryEstablishmentID)
}

// SubtotalAmount is always recomputed from the lines, never cached.
func (c *Cart) SubtotalAmount() int64 {
	var total int64
	for _, it := range c.Items {
		total += it.UnitAmount * int64(it.Quantity)
	}
	return total
}

// Merge adds a line, summing quantities when the entry is already present.
func (c *Cart) Merge(item CartItem) {
	for i := range c.Items {
		if c.Items[i].EntryID == item.EntryID {
			c.Items[i].Quantity += item.Quantity
			return
		}
	}
	c.Items = append(c.Items, item)
}
