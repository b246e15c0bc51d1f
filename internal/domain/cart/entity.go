// internal/domain/cart/entity.go
package cart

import (
	"errors"
	"strings"
)

var (
	ErrInvalidLine = errors.New("cart: invalid line")
)

// Line is one orderable entry in the cart.
// Name/Price/Image are snapshots taken at add-time and are never re-fetched
// from the catalog. Optional fields are pointers (nil = absent).
type Line struct {
	ID                  string  `json:"id" firestore:"id"`
	MenuItemID          string  `json:"menuItemId" firestore:"menuItemId"`
	Name                string  `json:"name" firestore:"name"`
	Price               float64 `json:"price" firestore:"price"`
	Quantity            int     `json:"quantity" firestore:"quantity"`
	Image               *string `json:"image,omitempty" firestore:"image,omitempty"`
	SpecialInstructions *string `json:"specialInstructions,omitempty" firestore:"specialInstructions,omitempty"`
}

// Candidate is a Line missing only its identity; the store assigns the id at
// insertion. Price >= 0 and Quantity >= 1 are documented preconditions of the
// caller, not enforced here.
type Candidate struct {
	MenuItemID          string
	Name                string
	Price               float64
	Quantity            int
	Image               *string
	SpecialInstructions *string
}

// Cart is the aggregate: an ordered line sequence plus at most one restaurant
// context. Invariant: RestaurantID is empty iff Lines is empty; all lines in a
// non-empty cart belong to RestaurantID.
type Cart struct {
	Lines          []Line `json:"lines" firestore:"lines"`
	RestaurantID   string `json:"restaurantId" firestore:"restaurantId"`
	RestaurantName string `json:"restaurantName" firestore:"restaurantName"`
}

// New returns the empty initial state.
func New() *Cart {
	return &Cart{Lines: []Line{}}
}

// IsEmpty reports whether the cart holds no lines.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Lines) == 0
}

// Add applies the add policy:
//  1. different restaurant -> the whole sequence is replaced by the new line
//     (starting a new order clears the old one, no confirmation);
//  2. same menu item already present -> its quantity is incremented; the
//     existing line's fields win and the candidate's instructions are dropped;
//  3. otherwise append; an empty cart adopts the restaurant context.
//
// id must be a freshly generated unique identity.
func (c *Cart) Add(id string, cand Candidate, restaurantID, restaurantName string) error {
	if c == nil {
		return ErrInvalidLine
	}

	lid := strings.TrimSpace(id)
	mid := strings.TrimSpace(cand.MenuItemID)
	rid := strings.TrimSpace(restaurantID)
	if lid == "" || mid == "" || rid == "" {
		return ErrInvalidLine
	}

	line := Line{
		ID:                  lid,
		MenuItemID:          mid,
		Name:                cand.Name,
		Price:               cand.Price,
		Quantity:            cand.Quantity,
		Image:               cand.Image,
		SpecialInstructions: cand.SpecialInstructions,
	}

	// Restaurant switch: discard everything, keep only the new line.
	if c.RestaurantID != "" && c.RestaurantID != rid {
		c.Lines = []Line{line}
		c.RestaurantID = rid
		c.RestaurantName = restaurantName
		return nil
	}

	// Merge path: same menu item increments quantity in place.
	if idx := c.findByMenuItem(mid); idx >= 0 {
		c.Lines[idx].Quantity += line.Quantity
		return nil
	}

	c.Lines = append(c.Lines, line)
	c.RestaurantID = rid
	c.RestaurantName = restaurantName
	return nil
}

// Remove deletes the line with the given identity. Absent id is a no-op.
// Removing the last line resets the restaurant context.
func (c *Cart) Remove(lineID string) {
	if c == nil {
		return
	}

	idx := c.findByID(strings.TrimSpace(lineID))
	if idx < 0 {
		return
	}

	c.Lines = append(c.Lines[:idx], c.Lines[idx+1:]...)
	if len(c.Lines) == 0 {
		c.RestaurantID = ""
		c.RestaurantName = ""
	}
}

// SetQuantity replaces the matching line's quantity; quantity <= 0 behaves
// exactly as Remove. Absent id is a no-op.
func (c *Cart) SetQuantity(lineID string, quantity int) {
	if c == nil {
		return
	}
	if quantity <= 0 {
		c.Remove(lineID)
		return
	}
	if idx := c.findByID(strings.TrimSpace(lineID)); idx >= 0 {
		c.Lines[idx].Quantity = quantity
	}
}

// Clear resets to the empty initial state.
func (c *Cart) Clear() {
	if c == nil {
		return
	}
	c.Lines = []Line{}
	c.RestaurantID = ""
	c.RestaurantName = ""
}

// Total is the exact sum of price * quantity over all lines. Display rounding
// is the caller's concern.
func (c *Cart) Total() float64 {
	if c == nil {
		return 0
	}
	var total float64
	for _, l := range c.Lines {
		total += l.Price * float64(l.Quantity)
	}
	return total
}

// ItemCount is the customer-facing "items in cart" count: the sum of
// quantities, not the number of lines.
func (c *Cart) ItemCount() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// LineCount is the number of distinct lines.
func (c *Cart) LineCount() int {
	if c == nil {
		return 0
	}
	return len(c.Lines)
}

// Clone returns a deep copy, safe to hand to readers while the original keeps
// mutating.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return New()
	}
	cp := &Cart{
		Lines:          make([]Line, len(c.Lines)),
		RestaurantID:   c.RestaurantID,
		RestaurantName: c.RestaurantName,
	}
	for i, l := range c.Lines {
		cp.Lines[i] = l
		if l.Image != nil {
			v := *l.Image
			cp.Lines[i].Image = &v
		}
		if l.SpecialInstructions != nil {
			v := *l.SpecialInstructions
			cp.Lines[i].SpecialInstructions = &v
		}
	}
	return cp
}

func (c *Cart) findByID(id string) int {
	for i := range c.Lines {
		if c.Lines[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Cart) findByMenuItem(menuItemID string) int {
	for i := range c.Lines {
		if c.Lines[i].MenuItemID == menuItemID {
			return i
		}
	}
	return -1
}
