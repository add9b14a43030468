package catalog

import (
	"context"

	"lookbook/internal/docstore"
)

// Seed fills the products collection with a small development catalog so the
// home feed and recommendations have something to serve. Production catalogs
// arrive through the document store, never through this.
func Seed(ctx context.Context, docs docstore.Store) error {
	sample := map[string]docstore.Document{
		"linen-overshirt": {
			"name":        "Linen Overshirt",
			"price":       89.0,
			"image":       "https://img.lookbook.dev/linen-overshirt.jpg",
			"description": "Relaxed-fit overshirt in washed linen.",
			"category":    "outerwear",
		},
		"wide-leg-trousers": {
			"name":        "Wide-Leg Trousers",
			"price":       74.5,
			"image":       "https://img.lookbook.dev/wide-leg-trousers.jpg",
			"description": "High-waisted trousers with a fluid drape.",
			"category":    "bottoms",
		},
		"ribbed-knit-tank": {
			"name":        "Ribbed Knit Tank",
			"price":       32.0,
			"image":       "https://img.lookbook.dev/ribbed-knit-tank.jpg",
			"description": "Fitted tank in a soft ribbed knit.",
			"category":    "tops",
		},
		"suede-ankle-boots": {
			"name":        "Suede Ankle Boots",
			"price":       129.0,
			"image":       "https://img.lookbook.dev/suede-ankle-boots.jpg",
			"description": "Block-heel boots in brushed suede.",
			"category":    "shoes",
		},
		"canvas-tote": {
			"name":        "Canvas Tote",
			"price":       45.0,
			"image":       "https://img.lookbook.dev/canvas-tote.jpg",
			"description": "Everyday tote in heavyweight canvas.",
			"category":    "accessories",
		},
	}

	for id, doc := range sample {
		if err := docs.Set(ctx, productsCollection, id, doc); err != nil {
			return err
		}
	}
	return nil
}
