package catalog

import (
	"strconv"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// Category IDs of the seeded catalog.
const (
	CategoryLaptops     int64 = 1
	CategoryPhones      int64 = 2
	CategoryAccessories int64 = 3
)

// Catalog is a read-only product list in display order.
type Catalog struct {
	products []domain.Product
	byID     map[int64]int
}

// New builds a catalog from products. Later duplicates of an ID are dropped.
func New(products []domain.Product) *Catalog {
	c := &Catalog{
		products: make([]domain.Product, 0, len(products)),
		byID:     make(map[int64]int, len(products)),
	}
	for _, p := range products {
		if _, ok := c.byID[p.ID]; ok {
			continue
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c
}

// Product returns the product with id.
func (c *Catalog) Product(id int64) (domain.Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Product{}, apperrors.NotFound("product", strconv.FormatInt(id, 10))
	}
	return c.products[i], nil
}

// List returns every product, or only those in category when it is set.
func (c *Catalog) List(category *int64) []domain.Product {
	if category == nil {
		out := make([]domain.Product, len(c.products))
		copy(out, c.products)
		return out
	}

	var out []domain.Product
	for _, p := range c.products {
		if p.Category == *category {
			out = append(out, p)
		}
	}
	return out
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

type seedItem struct {
	name  string
	price int64
	desc  string
}

var seed = map[int64][]seedItem{
	CategoryLaptops: {
		{"Ultrabook 13", 109900, "13-inch aluminium ultrabook, 16 GB RAM, 512 GB SSD."},
		{"Ultrabook 15", 139900, "15-inch ultrabook with a larger battery."},
		{"Workstation 16", 249900, "16-inch mobile workstation, 32 GB RAM."},
		{"Gaming Laptop 17", 189900, "17-inch 240 Hz display, discrete GPU."},
		{"Chromebook 14", 34900, "Lightweight 14-inch laptop for the browser."},
		{"Convertible 14", 99900, "2-in-1 touch laptop with pen support."},
		{"Student Laptop 15", 54900, "Budget 15-inch laptop, 8 GB RAM."},
		{"Developer Laptop 14", 159900, "14-inch laptop with a 3K display."},
		{"Rugged Laptop 14", 219900, "Drop-tested field laptop."},
		{"Mini Laptop 11", 29900, "11-inch netbook."},
		{"Creator Laptop 16", 279900, "OLED display tuned for colour work."},
		{"Business Laptop 14", 129900, "Fingerprint reader, LTE modem."},
		{"Thin Laptop 13", 89900, "Fanless 13-inch laptop."},
		{"Desktop Replacement 18", 299900, "18-inch laptop with desktop CPU."},
		{"Refurbished Laptop 13", 44900, "Certified refurbished 13-inch laptop."},
	},
	CategoryPhones: {
		{"Phone Pro", 119900, "Flagship phone with a triple camera."},
		{"Phone Pro Max", 139900, "Flagship phone with a 6.9-inch display."},
		{"Phone", 79900, "6.1-inch phone."},
		{"Phone Mini", 59900, "5.4-inch compact phone."},
		{"Phone Lite", 39900, "Entry-level phone."},
		{"Foldable Phone", 179900, "Book-style foldable phone."},
		{"Flip Phone", 99900, "Clamshell foldable phone."},
		{"Rugged Phone", 49900, "IP69K phone with a 6000 mAh battery."},
		{"Camera Phone", 109900, "1-inch sensor phone."},
		{"Gaming Phone", 89900, "165 Hz phone with shoulder triggers."},
		{"Senior Phone", 12900, "Large buttons, emergency key."},
		{"Feature Phone", 4900, "Classic keypad phone."},
		{"Refurbished Phone", 34900, "Certified refurbished phone."},
		{"Phone SE", 42900, "Small phone with a home button."},
		{"Phone Plus", 89900, "6.7-inch phone."},
	},
	CategoryAccessories: {
		{"USB-C Charger 65W", 4900, "GaN charger for laptops and phones."},
		{"USB-C Cable 2m", 1900, "Braided 100 W cable."},
		{"Wireless Earbuds", 17900, "Noise-cancelling earbuds."},
		{"Over-Ear Headphones", 34900, "Wireless headphones, 30 h battery."},
		{"Laptop Sleeve 14", 2900, "Padded sleeve for 14-inch laptops."},
		{"Phone Case", 3900, "Clear case with MagSafe ring."},
		{"Screen Protector", 1500, "Tempered glass, two pack."},
		{"Wireless Charger", 3900, "15 W charging pad."},
		{"Power Bank 20000", 5900, "20000 mAh power bank."},
		{"Docking Station", 19900, "USB-C dock with dual HDMI."},
		{"Mechanical Keyboard", 12900, "Tenkeyless keyboard, brown switches."},
		{"Wireless Mouse", 4900, "Ergonomic mouse."},
		{"Webcam 4K", 14900, "4K webcam with privacy shutter."},
		{"Smartwatch", 39900, "GPS smartwatch."},
		{"Stylus", 9900, "Pressure-sensitive pen."},
	},
}

// Seed returns the default catalog: products interleaved across the
// categories so every page shows a mix, with IDs starting at 1.
func Seed() *Catalog {
	categories := []int64{CategoryLaptops, CategoryPhones, CategoryAccessories}

	var products []domain.Product
	id := int64(1)
	for i := 0; ; i++ {
		added := false
		for _, cat := range categories {
			items := seed[cat]
			if i >= len(items) {
				continue
			}
			products = append(products, domain.Product{
				ID:          id,
				Category:    cat,
				Name:        items[i].name,
				Price:       items[i].price,
				Description: items[i].desc,
			})
			id++
			added = true
		}
		if !added {
			break
		}
	}
	return New(products)
}
