package seed

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"go.yaml.in/yaml/v3"
)

type Catalog struct {
	Categories []CategorySeed `yaml:"categories"`
	Products   []ProductSeed  `yaml:"products"`
	Users      []UserSeed     `yaml:"users"`
	Orders     []OrderSeed    `yaml:"orders"`
}

type CategorySeed struct {
	Name        string `yaml:"name"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
	Image       string `yaml:"image"`
}

type ProductSeed struct {
	Name        string          `yaml:"name"`
	Slug        string          `yaml:"slug"`
	Description string          `yaml:"description"`
	Price       decimal.Decimal `yaml:"price"`
	Image       string          `yaml:"image"`
	Stock       int             `yaml:"stock"`
	Featured    bool            `yaml:"featured"`
	Category    string          `yaml:"category"`
}

type UserSeed struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
	Role  string `yaml:"role"`
}

// OrderSeed is a historical order. Seeding it does not touch stock.
type OrderSeed struct {
	OrderNumber     string          `yaml:"orderNumber"`
	User            string          `yaml:"user"`
	Status          string          `yaml:"status"`
	ShippingName    string          `yaml:"shippingName"`
	ShippingEmail   string          `yaml:"shippingEmail"`
	ShippingAddress string          `yaml:"shippingAddress"`
	ShippingCity    string          `yaml:"shippingCity"`
	ShippingZip     string          `yaml:"shippingZip"`
	Items           []OrderItemSeed `yaml:"items"`
}

type OrderItemSeed struct {
	Product  string          `yaml:"product"`
	Quantity int             `yaml:"quantity"`
	Price    decimal.Decimal `yaml:"price"`
}

func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}
	return ParseCatalog(data)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks slugs and emails are unique and every reference resolves
// within the catalog.
func (c *Catalog) Validate() error {
	categories := make(map[string]bool, len(c.Categories))
	for _, cat := range c.Categories {
		if cat.Slug == "" || cat.Name == "" {
			return fmt.Errorf("category %q: name and slug are required", cat.Slug)
		}
		if categories[cat.Slug] {
			return fmt.Errorf("duplicate category slug %q", cat.Slug)
		}
		categories[cat.Slug] = true
	}

	products := make(map[string]bool, len(c.Products))
	for _, p := range c.Products {
		if p.Slug == "" || p.Name == "" {
			return fmt.Errorf("product %q: name and slug are required", p.Slug)
		}
		if products[p.Slug] {
			return fmt.Errorf("duplicate product slug %q", p.Slug)
		}
		if !categories[p.Category] {
			return fmt.Errorf("product %q: unknown category %q", p.Slug, p.Category)
		}
		if !p.Price.IsPositive() {
			return fmt.Errorf("product %q: price must be positive", p.Slug)
		}
		if p.Stock < 0 {
			return fmt.Errorf("product %q: stock must not be negative", p.Slug)
		}
		products[p.Slug] = true
	}

	users := make(map[string]bool, len(c.Users))
	for _, u := range c.Users {
		if u.Email == "" {
			return fmt.Errorf("user %q: email is required", u.Name)
		}
		if users[u.Email] {
			return fmt.Errorf("duplicate user email %q", u.Email)
		}
		users[u.Email] = true
	}

	for _, o := range c.Orders {
		if o.OrderNumber == "" {
			return fmt.Errorf("order without orderNumber")
		}
		if !users[o.User] {
			return fmt.Errorf("order %q: unknown user %q", o.OrderNumber, o.User)
		}
		if len(o.Items) == 0 {
			return fmt.Errorf("order %q: at least one item is required", o.OrderNumber)
		}
		for _, item := range o.Items {
			if !products[item.Product] {
				return fmt.Errorf("order %q: unknown product %q", o.OrderNumber, item.Product)
			}
			if item.Quantity <= 0 {
				return fmt.Errorf("order %q: quantity must be positive", o.OrderNumber)
			}
		}
	}
	return nil
}
