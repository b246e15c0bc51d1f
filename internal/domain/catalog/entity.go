// internal/domain/catalog/entity.go
package catalog

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("catalog: not found")

// Restaurant is a read-only listing entry. The catalog is an external
// collaborator of the cart core; nothing here is validated against it.
type Restaurant struct {
	ID           string  `json:"id" firestore:"id"`
	Name         string  `json:"name" firestore:"name"`
	Image        string  `json:"image" firestore:"image"`
	Cuisine      string  `json:"cuisine" firestore:"cuisine"`
	Rating       float64 `json:"rating" firestore:"rating"`
	DeliveryTime string  `json:"deliveryTime" firestore:"deliveryTime"`
	DeliveryFee  string  `json:"deliveryFee" firestore:"deliveryFee"`
	MinimumOrder string  `json:"minimumOrder" firestore:"minimumOrder"`
	Featured     bool    `json:"featured,omitempty" firestore:"featured"`
}

// MenuItem is one orderable entry on a restaurant's menu.
type MenuItem struct {
	ID          string  `json:"id" firestore:"id"`
	Name        string  `json:"name" firestore:"name"`
	Description string  `json:"description" firestore:"description"`
	Price       float64 `json:"price" firestore:"price"`
	Image       string  `json:"image" firestore:"image"`
	Category    string  `json:"category" firestore:"category"`
	Popular     bool    `json:"popular,omitempty" firestore:"popular"`
	Vegetarian  bool    `json:"vegetarian,omitempty" firestore:"vegetarian"`
}

// Repository is the read-only catalog port.
type Repository interface {
	ListRestaurants(ctx context.Context) ([]Restaurant, error)
	GetRestaurant(ctx context.Context, id string) (*Restaurant, error)
	ListMenu(ctx context.Context, restaurantID string) ([]MenuItem, error)
}
