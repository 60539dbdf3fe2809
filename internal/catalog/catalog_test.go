package catalog

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	c, err := Load(filepath.Join("testdata", "catalog.yaml"), logger)
	require.NoError(t, err)
	return c
}

func TestLoadCatalog(t *testing.T) {
	c := loadTestCatalog(t)

	assert.Len(t, c.Categories(), 3)
	assert.Len(t, c.Products(), 9)
}

func TestProductLookup(t *testing.T) {
	c := loadTestCatalog(t)

	p, err := c.Product("cappuccino")
	require.NoError(t, err)
	assert.Equal(t, "Капучино", p.Name)
	assert.True(t, p.Price.Equal(decimal.NewFromInt(250)))
	assert.True(t, p.Available)
	require.Len(t, p.Options, 2)
	assert.Equal(t, "size", p.Options[0].ID)
	assert.True(t, p.Options[0].Values[1].Price.Equal(decimal.NewFromInt(40)))
}

func TestProductNotFound(t *testing.T) {
	c := loadTestCatalog(t)

	_, err := c.Product("unicorn-latte")
	assert.True(t, errors.Is(err, ErrProductNotFound))
}

func TestAvailabilityDefaultsAndOverrides(t *testing.T) {
	c := loadTestCatalog(t)

	espresso, err := c.Product("espresso")
	require.NoError(t, err)
	assert.True(t, espresso.Available, "available should default to true")

	napoleon, err := c.Product("napoleon")
	require.NoError(t, err)
	assert.False(t, napoleon.Available)
}

func TestProductsByCategory(t *testing.T) {
	c := loadTestCatalog(t)

	coffee := c.ProductsByCategory("coffee")
	require.Len(t, coffee, 4)
	assert.Equal(t, "espresso", coffee[0].ID, "catalog order preserved")

	assert.Empty(t, c.ProductsByCategory("sushi"))
}

func TestLoadRejectsBrokenData(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	_, err := Load(filepath.Join("testdata", "nope.yaml"), logger)
	assert.Error(t, err)

	_, err = build(catalogFile{
		Products: []productEntry{{ID: "x", Category: "ghost"}},
	})
	assert.ErrorContains(t, err, "unknown category")

	_, err = build(catalogFile{
		Categories: []categoryEntry{{ID: "a"}, {ID: "a"}},
	})
	assert.ErrorContains(t, err, "duplicate category")
}
