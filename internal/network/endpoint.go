package network

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/utafrali/storefront/internal/domain"
)

// Endpoint describes one storefront API call.
type Endpoint struct {
	Name   string
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// Catalog lists one page of products, optionally filtered by category.
func Catalog(page int, category *int64) Endpoint {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if category != nil {
		q.Set("category", strconv.FormatInt(*category, 10))
	}
	return Endpoint{Name: "catalog", Method: http.MethodGet, Path: "/api/v1/catalog", Query: q}
}

// Product fetches a single product.
func Product(id int64) Endpoint {
	return Endpoint{Name: "product", Method: http.MethodGet, Path: "/api/v1/products/" + strconv.FormatInt(id, 10)}
}

// Basket fetches the caller's basket lines.
func Basket() Endpoint {
	return Endpoint{Name: "basket", Method: http.MethodGet, Path: "/api/v1/basket"}
}

// AddToBasket adds one unit of a product.
func AddToBasket(id int64) Endpoint {
	return Endpoint{Name: "add_to_basket", Method: http.MethodPost, Path: itemPath(id)}
}

// RemoveItemFromBasket removes one unit of a product.
func RemoveItemFromBasket(id int64) Endpoint {
	return Endpoint{Name: "remove_item_from_basket", Method: http.MethodDelete, Path: itemPath(id)}
}

// RemoveAllFromBasket empties the basket.
func RemoveAllFromBasket() Endpoint {
	return Endpoint{Name: "remove_all_from_basket", Method: http.MethodDelete, Path: "/api/v1/basket"}
}

// PayRequest is the body of the pay call.
type PayRequest struct {
	Card domain.PaymentToken `json:"card"`
}

// PayBasket charges the basket to token.
func PayBasket(token domain.PaymentToken) Endpoint {
	return Endpoint{Name: "pay_basket", Method: http.MethodPost, Path: "/api/v1/basket/pay", Body: PayRequest{Card: token}}
}

func itemPath(id int64) string {
	return "/api/v1/basket/items/" + strconv.FormatInt(id, 10)
}
