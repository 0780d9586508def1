package loam

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ProductMetadata is the frontmatter of a catalog document.
//
//	---
//	title: Naruto Hokage Poster
//	image: /img/naruto.webp
//	price: 499
//	category: anime
//	---
type ProductMetadata struct {
	ID       string `json:"id" mapstructure:"id"`
	Title    string `json:"title" mapstructure:"title"`
	Image    string `json:"image" mapstructure:"image"`
	Category string `json:"category" mapstructure:"category"`

	// Price may be written as a number or a string ("₹499").
	Price any `json:"price" mapstructure:"price"`

	// Hidden products stay in the repository but are not offered.
	Hidden bool `json:"hidden" mapstructure:"hidden"`
}

// OrderLine is one cart item inside an order document.
type OrderLine struct {
	Type        string `json:"type" mapstructure:"type"`
	ProductName string `json:"product_name" mapstructure:"product_name"`
	Details     string `json:"details" mapstructure:"details"`
	Size        string `json:"size" mapstructure:"size"`
	Qty         string `json:"qty" mapstructure:"qty"`
}

// OrderMetadata is the frontmatter of a confirmed order document.
type OrderMetadata struct {
	Ref       string      `json:"ref" mapstructure:"ref"`
	SessionID string      `json:"session_id" mapstructure:"session_id"`
	Name      string      `json:"name" mapstructure:"name"`
	Address   string      `json:"address" mapstructure:"address"`
	Phone     string      `json:"phone" mapstructure:"phone"`
	PlacedAt  string      `json:"placed_at" mapstructure:"placed_at"`
	Items     []OrderLine `json:"items" mapstructure:"items"`
}

func formatPrice(v any) string {
	switch p := v.(type) {
	case nil:
		return ""
	case string:
		return p
	case json.Number:
		return p.String()
	case float64:
		return strconv.FormatFloat(p, 'f', -1, 64)
	default:
		return fmt.Sprint(p)
	}
}

func trimExtension(id string) string {
	if i := strings.LastIndex(id, "."); i > strings.LastIndex(id, "/") {
		return id[:i]
	}
	return id
}
