package models

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       float64         `json:"price"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
	Calories    string          `json:"calories,omitempty"`
	Options     []ProductOption `json:"options,omitempty"`
}

// ProductOption is a named group of choices, e.g. "size" with M and L.
type ProductOption struct {
	Name    string         `json:"name"`
	Choices []OptionChoice `json:"choices"`
}

type OptionChoice struct {
	Label    string  `json:"label"`
	PriceMod float64 `json:"priceMod"`
}

// Option looks up an option group by name.
func (p Product) Option(name string) (ProductOption, bool) {
	for _, o := range p.Options {
		if o.Name == name {
			return o, true
		}
	}
	return ProductOption{}, false
}

// Choice looks up a choice in the group by label.
func (o ProductOption) Choice(label string) (OptionChoice, bool) {
	for _, c := range o.Choices {
		if c.Label == label {
			return c, true
		}
	}
	return OptionChoice{}, false
}

// Clone returns a deep copy; option groups are not shared with p.
func (p Product) Clone() Product {
	c := p
	if p.Options != nil {
		c.Options = make([]ProductOption, len(p.Options))
		for i, o := range p.Options {
			c.Options[i] = ProductOption{
				Name:    o.Name,
				Choices: append([]OptionChoice(nil), o.Choices...),
			}
		}
	}
	return c
}

type Category struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

var Categories = []Category{
	{ID: "all", Label: "ทั้งหมด"},
	{ID: "chicken", Label: "ไก่ทอด"},
	{ID: "burger", Label: "เบอร์เกอร์/ข้าว"},
	{ID: "snack", Label: "ของทานเล่น"},
	{ID: "dessert", Label: "ของหวาน"},
	{ID: "drink", Label: "เครื่องดื่ม"},
}

type Promotion struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Code        string `json:"code,omitempty"`
	Active      bool   `json:"active"`
}
