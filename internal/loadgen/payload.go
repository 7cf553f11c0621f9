package loadgen

import (
	"fmt"
	"sync"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
)

var garments = []string{"Kurta", "Shalwar Kameez", "Dupatta", "Lawn Suit", "Abaya", "Kurti", "Waistcoat", "Shawl"}

// Customer is the checkout customer block
type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// Item is one checkout line
type Item struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Checkout is the POST /orders body
type Checkout struct {
	Customer      Customer `json:"customer"`
	Items         []Item   `json:"items"`
	TotalAmount   float64  `json:"totalAmount"`
	PaymentMethod string   `json:"paymentMethod"`
}

// OrderFactory generates valid checkout payloads. Safe for concurrent use.
type OrderFactory struct {
	mu      sync.Mutex
	faker   *gofakeit.Faker
	profile OrderProfile
}

// NewOrderFactory creates a factory. A zero seed picks a random one.
func NewOrderFactory(profile OrderProfile, seed uint64) *OrderFactory {
	return &OrderFactory{
		faker:   gofakeit.New(seed),
		profile: profile,
	}
}

// Next returns a checkout whose total matches its lines to the cent
func (f *OrderFactory) Next() Checkout {
	f.mu.Lock()
	defer f.mu.Unlock()

	p := f.profile
	n := f.faker.IntRange(p.MinItems, p.MaxItems)
	items := make([]Item, n)
	total := decimal.Zero
	for i := range items {
		price := decimal.NewFromFloat(f.faker.Float64Range(p.MinPrice, p.MaxPrice)).Round(2)
		qty := f.faker.IntRange(1, p.MaxQuantity)
		items[i] = Item{
			Name:     fmt.Sprintf("%s %s", f.faker.Color(), f.faker.RandomString(garments)),
			Price:    price.InexactFloat64(),
			Quantity: qty,
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(qty))))
	}

	return Checkout{
		Customer: Customer{
			Name:    f.faker.Name(),
			Phone:   f.faker.Phone(),
			Email:   f.faker.Email(),
			Address: f.faker.Address().Address,
		},
		Items:         items,
		TotalAmount:   total.InexactFloat64(),
		PaymentMethod: f.faker.RandomString(p.PaymentMethods),
	}
}

// Chance reports true with probability ratio
func (f *OrderFactory) Chance(ratio float64) bool {
	if ratio <= 0 {
		return false
	}
	if ratio >= 1 {
		return true
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.faker.Float64() < ratio
}
