package models

// CartItem is a product snapshot plus the customer's choices for it.
type CartItem struct {
	Product
	CartID          string            `json:"cartId"`
	Quantity        int               `json:"quantity"`
	SelectedOptions map[string]string `json:"selectedOptions"`
	Note            string            `json:"note"`
}

// LineTotal is price × quantity. Option price modifiers are not included.
func (c CartItem) LineTotal() float64 {
	return c.Price * float64(c.Quantity)
}

func (c CartItem) Clone() CartItem {
	out := c
	out.Product = c.Product.Clone()
	if c.SelectedOptions != nil {
		out.SelectedOptions = make(map[string]string, len(c.SelectedOptions))
		for k, v := range c.SelectedOptions {
			out.SelectedOptions[k] = v
		}
	}
	return out
}
