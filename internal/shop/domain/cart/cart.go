package cart

import (
	"errors"
	"fmt"

	"naikai-shop/internal/shop/domain/models"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrUnknownOption   = errors.New("unknown option group")
	ErrUnknownChoice   = errors.New("unknown option choice")
	ErrItemNotFound    = errors.New("cart item not found")
)

// Cart is an ordered list of line items. Items are only ever appended or
// removed whole; existing entries are never edited in place.
type Cart struct {
	Items []models.CartItem `json:"items"`
}

// NewItem snapshots product into a cart line after validating the choices.
func NewItem(product models.Product, cartID string, quantity int, selected map[string]string, note string) (models.CartItem, error) {
	if quantity < 1 {
		return models.CartItem{}, fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}

	opts := make(map[string]string, len(selected))
	for group, label := range selected {
		o, ok := product.Option(group)
		if !ok {
			return models.CartItem{}, fmt.Errorf("%w: %q", ErrUnknownOption, group)
		}
		if _, ok := o.Choice(label); !ok {
			return models.CartItem{}, fmt.Errorf("%w: %q in %q", ErrUnknownChoice, label, group)
		}
		opts[group] = label
	}

	return models.CartItem{
		Product:         product.Clone(),
		CartID:          cartID,
		Quantity:        quantity,
		SelectedOptions: opts,
		Note:            note,
	}, nil
}

func (c *Cart) Add(item models.CartItem) {
	c.Items = append(c.Items, item.Clone())
}

func (c *Cart) Remove(cartID string) error {
	for i, it := range c.Items {
		if it.CartID == cartID {
			c.Items = append(c.Items[:i:i], c.Items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrItemNotFound, cartID)
}

func (c *Cart) Clear() {
	c.Items = nil
}

func (c Cart) Len() int {
	return len(c.Items)
}

// Total is Σ price × quantity. Selected option modifiers do not change it.
func (c Cart) Total() float64 {
	total := 0.0
	for _, it := range c.Items {
		total += it.LineTotal()
	}
	return total
}

// Snapshot deep-copies the items so later cart changes cannot reach them.
func (c Cart) Snapshot() []models.CartItem {
	out := make([]models.CartItem, len(c.Items))
	for i, it := range c.Items {
		out[i] = it.Clone()
	}
	return out
}
