// Package store implements the four storefront stores (catalog, identity,
// orders, aggregation) on top of the storage adapter. Each operation is a
// whole-collection read-modify-write; the adapter's revision check turns
// racing writers into a retry instead of a lost update.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/glowmart/shopcore/internal/metrics"
	"github.com/glowmart/shopcore/internal/models"
	"github.com/glowmart/shopcore/internal/storage"
)

const placeholderImage = "https://picsum.photos/seed/new/600/600"

const (
	defaultRating  = 4.5
	defaultReviews = 0
)

type Catalog struct {
	Storage *storage.Store
}

func (c *Catalog) ListProducts(ctx context.Context) ([]models.Product, error) {
	metrics.StoreOps.WithLabelValues(storage.KeyProducts, "list").Inc()
	return storage.List[models.Product](ctx, c.Storage, storage.KeyProducts)
}

func (c *Catalog) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	metrics.StoreOps.WithLabelValues(storage.KeyProducts, "get").Inc()
	products, err := storage.List[models.Product](ctx, c.Storage, storage.KeyProducts)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, fmt.Errorf("%w: product %q", ErrNotFound, id)
}

// ProductUpdate names exactly the fields an admin edit may change. Nil
// means "leave as is".
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	SubCategory *string
	Image       *string
	Images      *[]string
	Stock       *int
	IsFeatured  *bool
}

func (u ProductUpdate) validate() error {
	if u.Price != nil && *u.Price < 0 {
		return fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}
	if u.Stock != nil && *u.Stock < 0 {
		return fmt.Errorf("%w: stock must be >= 0", ErrValidation)
	}
	return nil
}

func (u ProductUpdate) apply(p *models.Product) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.SubCategory != nil {
		p.SubCategory = *u.SubCategory
	}
	if u.Image != nil {
		p.Image = *u.Image
	}
	if u.Images != nil {
		p.Images = *u.Images
	}
	if u.Stock != nil {
		p.Stock = *u.Stock
	}
	if u.IsFeatured != nil {
		p.IsFeatured = *u.IsFeatured
	}
}

// CreateProduct mints a new catalog record. Rating starts at the storefront
// default and the image falls back to a placeholder, matching the seeded
// catalog's shape.
func (c *Catalog) CreateProduct(ctx context.Context, upd ProductUpdate) (*models.Product, error) {
	metrics.StoreOps.WithLabelValues(storage.KeyProducts, "create").Inc()
	if err := upd.validate(); err != nil {
		return nil, err
	}
	if upd.Name == nil || *upd.Name == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}

	product := models.Product{
		ID:      "p-" + uuid.NewString(),
		Rating:  defaultRating,
		Reviews: defaultReviews,
		Image:   placeholderImage,
	}
	upd.apply(&product)
	if product.Image == "" {
		product.Image = placeholderImage
	}

	err := storage.Update(ctx, c.Storage, storage.KeyProducts, func(products []models.Product) ([]models.Product, error) {
		return append(products, product), nil
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct merges the named fields onto an existing record. Unknown
// ids are rejected; the original silently produced a hole in the catalog.
func (c *Catalog) UpdateProduct(ctx context.Context, id string, upd ProductUpdate) (*models.Product, error) {
	metrics.StoreOps.WithLabelValues(storage.KeyProducts, "update").Inc()
	if err := upd.validate(); err != nil {
		return nil, err
	}

	var updated models.Product
	err := storage.Update(ctx, c.Storage, storage.KeyProducts, func(products []models.Product) ([]models.Product, error) {
		for i := range products {
			if products[i].ID == id {
				upd.apply(&products[i])
				updated = products[i]
				return products, nil
			}
		}
		return nil, fmt.Errorf("%w: product %q", ErrNotFound, id)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteProduct removes the record. Deleting an unknown id is a no-op:
// orders hold snapshots, so nothing dangles either way.
func (c *Catalog) DeleteProduct(ctx context.Context, id string) error {
	metrics.StoreOps.WithLabelValues(storage.KeyProducts, "delete").Inc()
	return storage.Update(ctx, c.Storage, storage.KeyProducts, func(products []models.Product) ([]models.Product, error) {
		kept := products[:0]
		for _, p := range products {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		return kept, nil
	})
}

func (c *Catalog) ListCategories(ctx context.Context) ([]models.Category, error) {
	metrics.StoreOps.WithLabelValues(storage.KeyCategories, "list").Inc()
	return storage.List[models.Category](ctx, c.Storage, storage.KeyCategories)
}

type CategoryUpdate struct {
	Name     *string
	Image    *string
	ParentID *string
}

func (u CategoryUpdate) apply(cat *models.Category) {
	if u.Name != nil {
		cat.Name = *u.Name
		cat.Slug = Slugify(*u.Name)
	}
	if u.Image != nil {
		cat.Image = *u.Image
	}
	if u.ParentID != nil {
		cat.ParentID = *u.ParentID
	}
}

// Slugify derives the URL form of a category name. Uniqueness is not
// enforced; the storefront routes on ids and only displays slugs.
func Slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

func (c *Catalog) CreateCategory(ctx context.Context, upd CategoryUpdate) (*models.Category, error) {
	metrics.StoreOps.WithLabelValues(storage.KeyCategories, "create").Inc()
	if upd.Name == nil || *upd.Name == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}

	category := models.Category{
		ID:    "c-" + uuid.NewString(),
		Image: placeholderImage,
	}
	upd.apply(&category)

	err := storage.Update(ctx, c.Storage, storage.KeyCategories, func(categories []models.Category) ([]models.Category, error) {
		if category.ParentID != "" && !categoryExists(categories, category.ParentID) {
			return nil, fmt.Errorf("%w: parent category %q", ErrNotFound, category.ParentID)
		}
		return append(categories, category), nil
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *Catalog) UpdateCategory(ctx context.Context, id string, upd CategoryUpdate) (*models.Category, error) {
	metrics.StoreOps.WithLabelValues(storage.KeyCategories, "update").Inc()
	var updated models.Category
	err := storage.Update(ctx, c.Storage, storage.KeyCategories, func(categories []models.Category) ([]models.Category, error) {
		for i := range categories {
			if categories[i].ID == id {
				upd.apply(&categories[i])
				if pid := categories[i].ParentID; pid != "" && !categoryExists(categories, pid) {
					return nil, fmt.Errorf("%w: parent category %q", ErrNotFound, pid)
				}
				updated = categories[i]
				return categories, nil
			}
		}
		return nil, fmt.Errorf("%w: category %q", ErrNotFound, id)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteCategory removes the node only. Children keep their parentId and
// become unreachable through parent navigation but stay listable.
func (c *Catalog) DeleteCategory(ctx context.Context, id string) error {
	metrics.StoreOps.WithLabelValues(storage.KeyCategories, "delete").Inc()
	return storage.Update(ctx, c.Storage, storage.KeyCategories, func(categories []models.Category) ([]models.Category, error) {
		kept := categories[:0]
		for _, cat := range categories {
			if cat.ID != id {
				kept = append(kept, cat)
			}
		}
		return kept, nil
	})
}

func categoryExists(categories []models.Category, id string) bool {
	for _, cat := range categories {
		if cat.ID == id {
			return true
		}
	}
	return false
}
