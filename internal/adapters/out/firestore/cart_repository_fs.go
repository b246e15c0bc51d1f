// internal/adapters/out/firestore/cart_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	cartdom "tastebite/internal/domain/cart"
)

// DefaultCartKey is the fixed durable-storage key. Absence of the document is
// equivalent to an empty cart.
const DefaultCartKey = "cart"

const cartCollection = "carts"

// CartRepositoryFS implements cart.Repository on a single Firestore document
// (collection: carts, docId: the session's cart key).
//
// An empty cart is represented by deleting the document, never by storing an
// empty record.
type CartRepositoryFS struct {
	Client *firestore.Client
	Key    string
}

func NewCartRepositoryFS(client *firestore.Client, key string) *CartRepositoryFS {
	k := strings.TrimSpace(key)
	if k == "" {
		k = DefaultCartKey
	}
	return &CartRepositoryFS{Client: client, Key: k}
}

func (r *CartRepositoryFS) doc() *firestore.DocumentRef {
	return r.Client.Collection(cartCollection).Doc(r.Key)
}

// Load returns (nil, nil) when no record exists. A record that cannot be
// decoded returns cart.ErrCorruptRecord so the caller can fall back to the
// empty initial state instead of failing startup.
func (r *CartRepositoryFS) Load(ctx context.Context) (*cartdom.Cart, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("cart_repository_fs: firestore client is nil")
	}

	snap, err := r.doc().Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}

	doc, err := cartDocFromSnapshot(snap.Data())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cartdom.ErrCorruptRecord, err)
	}
	return doc.toDomain(), nil
}

// Save overwrites the full document (simple and predictable).
func (r *CartRepositoryFS) Save(ctx context.Context, c *cartdom.Cart) error {
	if r == nil || r.Client == nil {
		return errors.New("cart_repository_fs: firestore client is nil")
	}
	if c == nil || c.IsEmpty() {
		return errors.New("cart_repository_fs: refusing to save an empty cart (use Delete)")
	}

	_, err := r.doc().Set(ctx, cartDocFromDomain(c))
	return err
}

// Delete removes the record; deleting an absent document is a success.
func (r *CartRepositoryFS) Delete(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("cart_repository_fs: firestore client is nil")
	}

	_, err := r.doc().Delete(ctx)
	if err != nil && status.Code(err) == codes.NotFound {
		return nil
	}
	return err
}

// -----------------------------------------
// Firestore DTO
// -----------------------------------------

type cartDoc struct {
	Lines          []cartLineDoc `firestore:"lines"`
	RestaurantID   string        `firestore:"restaurantId"`
	RestaurantName string        `firestore:"restaurantName"`
}

type cartLineDoc struct {
	ID                  string  `firestore:"id"`
	MenuItemID          string  `firestore:"menuItemId"`
	Name                string  `firestore:"name"`
	Price               float64 `firestore:"price"`
	Quantity            int     `firestore:"quantity"`
	Image               *string `firestore:"image,omitempty"`
	SpecialInstructions *string `firestore:"specialInstructions,omitempty"`
}

// cartDocFromSnapshot parses raw document data by hand rather than via
// DataTo, so a schema drift or hand-edited document degrades to
// ErrCorruptRecord instead of an opaque decode panic deep in a request.
func cartDocFromSnapshot(raw map[string]any) (cartDoc, error) {
	if raw == nil {
		return cartDoc{}, errors.New("document has no data")
	}

	out := cartDoc{}
	out.RestaurantID = asString(raw["restaurantId"])
	out.RestaurantName = asString(raw["restaurantName"])

	linesAny, ok := raw["lines"]
	if !ok {
		return cartDoc{}, errors.New("missing lines field")
	}
	linesArr, ok := linesAny.([]any)
	if !ok {
		return cartDoc{}, fmt.Errorf("lines has unexpected type %T", linesAny)
	}

	for i, lv := range linesArr {
		lm, ok := lv.(map[string]any)
		if !ok {
			return cartDoc{}, fmt.Errorf("line %d has unexpected type %T", i, lv)
		}

		line := cartLineDoc{
			ID:         strings.TrimSpace(asString(lm["id"])),
			MenuItemID: strings.TrimSpace(asString(lm["menuItemId"])),
			Name:       asString(lm["name"]),
			Price:      asFloat(lm["price"]),
			Quantity:   asInt(lm["quantity"]),
		}
		if line.ID == "" || line.MenuItemID == "" || line.Quantity < 1 {
			return cartDoc{}, fmt.Errorf("line %d is malformed", i)
		}
		if v, ok := lm["image"]; ok {
			if s := asString(v); s != "" {
				line.Image = &s
			}
		}
		if v, ok := lm["specialInstructions"]; ok {
			if s := asString(v); s != "" {
				line.SpecialInstructions = &s
			}
		}
		out.Lines = append(out.Lines, line)
	}

	// A stored record with lines but no restaurant context (or vice versa)
	// violates the cart invariant; treat it as corrupt.
	if (len(out.Lines) == 0) != (strings.TrimSpace(out.RestaurantID) == "") {
		return cartDoc{}, errors.New("restaurant context does not match line sequence")
	}

	return out, nil
}

func cartDocFromDomain(c *cartdom.Cart) cartDoc {
	doc := cartDoc{
		Lines:          make([]cartLineDoc, 0, len(c.Lines)),
		RestaurantID:   c.RestaurantID,
		RestaurantName: c.RestaurantName,
	}
	for _, l := range c.Lines {
		doc.Lines = append(doc.Lines, cartLineDoc{
			ID:                  l.ID,
			MenuItemID:          l.MenuItemID,
			Name:                l.Name,
			Price:               l.Price,
			Quantity:            l.Quantity,
			Image:               l.Image,
			SpecialInstructions: l.SpecialInstructions,
		})
	}
	return doc
}

func (d cartDoc) toDomain() *cartdom.Cart {
	c := &cartdom.Cart{
		Lines:          make([]cartdom.Line, 0, len(d.Lines)),
		RestaurantID:   d.RestaurantID,
		RestaurantName: d.RestaurantName,
	}
	for _, l := range d.Lines {
		c.Lines = append(c.Lines, cartdom.Line{
			ID:                  l.ID,
			MenuItemID:          l.MenuItemID,
			Name:                l.Name,
			Price:               l.Price,
			Quantity:            l.Quantity,
			Image:               l.Image,
			SpecialInstructions: l.SpecialInstructions,
		})
	}
	return c
}

// ----------------------------
// loose type helpers
// ----------------------------

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	}
	return 0
}

func asInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}
