// internal/adapters/out/firestore/catalog_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	catalogdom "tastebite/internal/domain/catalog"
)

const (
	restaurantsCollection = "restaurants"
	menuSubcollection     = "menu"
)

// ImageURLResolver turns a stored image reference (an object path or an
// absolute URL) into a browser-servable URL. Nil means references are served
// as stored.
type ImageURLResolver interface {
	Resolve(ref string) string
}

// CatalogRepositoryFS is the read-only menu catalog adapter
// (restaurants/{id}, restaurants/{id}/menu/{itemId}). The catalog is an
// external collaborator: this adapter never writes.
type CatalogRepositoryFS struct {
	Client *firestore.Client
	Images ImageURLResolver
}

func NewCatalogRepositoryFS(client *firestore.Client, images ImageURLResolver) *CatalogRepositoryFS {
	return &CatalogRepositoryFS{Client: client, Images: images}
}

func (r *CatalogRepositoryFS) ListRestaurants(ctx context.Context) ([]catalogdom.Restaurant, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("catalog_repository_fs: firestore client is nil")
	}

	iter := r.Client.Collection(restaurantsCollection).Documents(ctx)
	defer iter.Stop()

	var out []catalogdom.Restaurant
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var rest catalogdom.Restaurant
		if err := snap.DataTo(&rest); err != nil {
			return nil, err
		}
		rest.ID = snap.Ref.ID
		rest.Image = r.resolveImage(rest.Image)
		out = append(out, rest)
	}
	return out, nil
}

func (r *CatalogRepositoryFS) GetRestaurant(ctx context.Context, id string) (*catalogdom.Restaurant, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("catalog_repository_fs: firestore client is nil")
	}

	rid := strings.TrimSpace(id)
	if rid == "" {
		return nil, catalogdom.ErrNotFound
	}

	snap, err := r.Client.Collection(restaurantsCollection).Doc(rid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, catalogdom.ErrNotFound
		}
		return nil, err
	}

	var rest catalogdom.Restaurant
	if err := snap.DataTo(&rest); err != nil {
		return nil, err
	}
	rest.ID = snap.Ref.ID
	rest.Image = r.resolveImage(rest.Image)
	return &rest, nil
}

func (r *CatalogRepositoryFS) ListMenu(ctx context.Context, restaurantID string) ([]catalogdom.MenuItem, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("catalog_repository_fs: firestore client is nil")
	}

	rid := strings.TrimSpace(restaurantID)
	if rid == "" {
		return nil, catalogdom.ErrNotFound
	}

	iter := r.Client.Collection(restaurantsCollection).Doc(rid).Collection(menuSubcollection).Documents(ctx)
	defer iter.Stop()

	var out []catalogdom.MenuItem
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var item catalogdom.MenuItem
		if err := snap.DataTo(&item); err != nil {
			return nil, err
		}
		item.ID = snap.Ref.ID
		item.Image = r.resolveImage(item.Image)
		out = append(out, item)
	}
	return out, nil
}

func (r *CatalogRepositoryFS) resolveImage(ref string) string {
	if r.Images == nil {
		return ref
	}
	return r.Images.Resolve(ref)
}
