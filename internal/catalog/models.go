package catalog

import (
	"lookbook/internal/docstore"
	"lookbook/pkg/domain"
	dErrors "lookbook/pkg/domain-errors"
)

// Product is the typed catalog record, validated from its document at the
// read boundary.
type Product struct {
	ID          domain.ProductID `json:"id"`
	Name        string           `json:"name"`
	Price       float64          `json:"price"`
	ImageURL    string           `json:"image_url,omitempty"`
	Description string           `json:"description,omitempty"`
	Category    string           `json:"category,omitempty"`
}

const productsCollection = "products"

func fromDocument(id string, doc docstore.Document) (*Product, error) {
	name, ok := doc["name"].(string)
	if !ok || name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "product document missing name")
	}

	p := &Product{ID: domain.ProductID(id), Name: name}
	switch v := doc["price"].(type) {
	case float64:
		p.Price = v
	case int:
		p.Price = float64(v)
	}
	if v, ok := doc["image"].(string); ok {
		p.ImageURL = v
	}
	if v, ok := doc["description"].(string); ok {
		p.Description = v
	}
	if v, ok := doc["category"].(string); ok {
		p.Category = v
	}
	return p, nil
}
