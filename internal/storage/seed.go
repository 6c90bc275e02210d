package storage

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/glowmart/shopcore/internal/hash"
	"github.com/glowmart/shopcore/internal/models"
)

//go:embed seed.yaml
var seedYAML []byte

const (
	SeedAdminEmail    = "admin@glowmart.io"
	seedAdminPassword = "password123"
)

// Local seed types carry explicit yaml tags; the model types are tagged
// for their JSON persistence form only.
type seedCategory struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Slug     string `yaml:"slug"`
	Image    string `yaml:"image"`
	ParentID string `yaml:"parentId"`
}

type seedProduct struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Price       float64 `yaml:"price"`
	Category    string  `yaml:"category"`
	SubCategory string  `yaml:"subCategory"`
	Image       string  `yaml:"image"`
	Stock       int     `yaml:"stock"`
	Rating      float64 `yaml:"rating"`
	Reviews     int     `yaml:"reviews"`
	IsFeatured  bool    `yaml:"isFeatured"`
}

type seedData struct {
	Categories []seedCategory `yaml:"categories"`
	Products   []seedProduct  `yaml:"products"`
}

func (d seedData) categories() []models.Category {
	out := make([]models.Category, len(d.Categories))
	for i, c := range d.Categories {
		out[i] = models.Category{
			ID:       c.ID,
			Name:     c.Name,
			Slug:     c.Slug,
			Image:    c.Image,
			ParentID: c.ParentID,
		}
	}
	return out
}

func (d seedData) products() []models.Product {
	out := make([]models.Product, len(d.Products))
	for i, p := range d.Products {
		out[i] = models.Product{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			Category:    p.Category,
			SubCategory: p.SubCategory,
			Image:       p.Image,
			Stock:       p.Stock,
			Rating:      p.Rating,
			Reviews:     p.Reviews,
			IsFeatured:  p.IsFeatured,
		}
	}
	return out
}

// Initialize seeds each collection with its default content exactly once:
// the key is written only if absent, so calling this on every start is safe.
func (s *Store) Initialize(ctx context.Context) error {
	var seed seedData
	if err := yaml.Unmarshal(seedYAML, &seed); err != nil {
		return fmt.Errorf("decode seed data: %w", err)
	}

	pwHash, err := hash.HashPassword(seedAdminPassword)
	if err != nil {
		return fmt.Errorf("hash seed admin password: %w", err)
	}
	admin := models.User{
		ID:           "admin-1",
		Name:         "Admin User",
		Email:        SeedAdminEmail,
		Role:         models.RoleAdmin,
		PasswordHash: pwHash,
	}

	defaults := []struct {
		key   string
		value any
	}{
		{KeyProducts, seed.products()},
		{KeyCategories, seed.categories()},
		{KeyUsers, []models.UserRecord{models.NewUserRecord(admin)}},
		{KeyOrders, []models.Order{}},
	}

	for _, d := range defaults {
		raw, err := json.Marshal(d.value)
		if err != nil {
			return fmt.Errorf("encode default %q: %w", d.key, err)
		}
		if err := s.SeedIfAbsent(ctx, d.key, raw); err != nil {
			return err
		}
	}
	return nil
}
