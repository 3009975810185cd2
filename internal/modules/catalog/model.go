package catalog

// UniversalCourse is the sentinel course tag that makes an item
// visible to every student regardless of their own course.
const UniversalCourse = "STI Special"

// Item is a sellable unit of merchandise. Code and size together form
// the natural key: one code covers every size variant of a product.
type Item struct {
	Code      int     `json:"code"`
	Size      string  `json:"size"`
	Name      string  `json:"name"`
	Course    string  `json:"course"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// AddItemRequest is the payload for adding an item to the catalog.
type AddItemRequest struct {
	Code      int     `json:"code"`
	Size      string  `json:"size"`
	Name      string  `json:"name"`
	Course    string  `json:"course"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}
