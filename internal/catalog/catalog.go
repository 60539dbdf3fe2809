package catalog

import (
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/coffeehouse/storefront/pkg/models"
)

// ErrProductNotFound is the "not found" state a client renders with a
// way back to the catalog.
var ErrProductNotFound = errors.New("product not found")

// Catalog is the static menu: categories and products loaded once at
// startup. It is read-only reference data for the process lifetime.
type Catalog struct {
	categories []models.Category
	products   []models.Product
	byID       map[string]int
	byCategory map[string][]int
}

type catalogFile struct {
	Categories []categoryEntry `yaml:"categories"`
	Products   []productEntry  `yaml:"products"`
}

type categoryEntry struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Icon        string `yaml:"icon"`
	Image       string `yaml:"image"`
	Description string `yaml:"description"`
}

type productEntry struct {
	ID          string        `yaml:"id"`
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Price       float64       `yaml:"price"`
	Image       string        `yaml:"image"`
	Images      []string      `yaml:"images"`
	Category    string        `yaml:"category"`
	Available   *bool         `yaml:"available"`
	Options     []optionEntry `yaml:"options"`
	Tags        []string      `yaml:"tags"`
}

type optionEntry struct {
	ID       string       `yaml:"id"`
	Name     string       `yaml:"name"`
	Type     string       `yaml:"type"`
	Required bool         `yaml:"required"`
	Values   []valueEntry `yaml:"values"`
}

type valueEntry struct {
	ID    string  `yaml:"id"`
	Name  string  `yaml:"name"`
	Price float64 `yaml:"price"`
}

// Load reads the catalog dataset from a YAML file and indexes it.
func Load(path string, logger *logrus.Logger) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}

	c, err := build(file)
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"path":       path,
		"categories": len(c.categories),
		"products":   len(c.products),
	}).Info("Catalog loaded")
	return c, nil
}

func build(file catalogFile) (*Catalog, error) {
	c := &Catalog{
		byID:       make(map[string]int),
		byCategory: make(map[string][]int),
	}

	categoryIDs := make(map[string]bool)
	for _, entry := range file.Categories {
		if entry.ID == "" {
			return nil, errors.New("category with empty id")
		}
		if categoryIDs[entry.ID] {
			return nil, fmt.Errorf("duplicate category id %q", entry.ID)
		}
		categoryIDs[entry.ID] = true
		c.categories = append(c.categories, models.Category{
			ID:          entry.ID,
			Name:        entry.Name,
			Icon:        entry.Icon,
			Image:       entry.Image,
			Description: entry.Description,
		})
	}

	for _, entry := range file.Products {
		if entry.ID == "" {
			return nil, errors.New("product with empty id")
		}
		if _, dup := c.byID[entry.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %q", entry.ID)
		}
		if !categoryIDs[entry.Category] {
			return nil, fmt.Errorf("product %q references unknown category %q", entry.ID, entry.Category)
		}

		available := true
		if entry.Available != nil {
			available = *entry.Available
		}

		product := models.Product{
			ID:          entry.ID,
			Name:        entry.Name,
			Description: entry.Description,
			Price:       decimal.NewFromFloat(entry.Price),
			Image:       entry.Image,
			Images:      entry.Images,
			CategoryID:  entry.Category,
			Available:   available,
			Tags:        entry.Tags,
		}
		for _, opt := range entry.Options {
			option := models.ProductOption{
				ID:       opt.ID,
				Name:     opt.Name,
				Type:     opt.Type,
				Required: opt.Required,
			}
			for _, v := range opt.Values {
				option.Values = append(option.Values, models.OptionValue{
					ID:    v.ID,
					Name:  v.Name,
					Price: decimal.NewFromFloat(v.Price),
				})
			}
			product.Options = append(product.Options, option)
		}

		c.byID[product.ID] = len(c.products)
		c.byCategory[product.CategoryID] = append(c.byCategory[product.CategoryID], len(c.products))
		c.products = append(c.products, product)
	}

	return c, nil
}

func (c *Catalog) Categories() []models.Category {
	out := make([]models.Category, len(c.categories))
	copy(out, c.categories)
	return out
}

func (c *Catalog) Products() []models.Product {
	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out
}

// ProductsByCategory returns the products of one category in catalog
// order. An unknown category yields an empty list, not an error.
func (c *Catalog) ProductsByCategory(categoryID string) []models.Product {
	indexes := c.byCategory[categoryID]
	out := make([]models.Product, 0, len(indexes))
	for _, i := range indexes {
		out = append(out, c.products[i])
	}
	return out
}

func (c *Catalog) Product(id string) (models.Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return models.Product{}, ErrProductNotFound
	}
	return c.products[i], nil
}
