package domain

// Property is the externally supplied subject property. The engine never
// fetches or mutates it.
type Property struct {
	Address      string            `json:"address" yaml:"address"`
	City         string            `json:"city" yaml:"city"`
	State        string            `json:"state" yaml:"state"`
	Zip          string            `json:"zip" yaml:"zip"`
	PropertyType string            `json:"property_type" yaml:"property_type"`
	Bedrooms     int               `json:"bedrooms" yaml:"bedrooms" validate:"gte=0"`
	Bathrooms    float64           `json:"bathrooms" yaml:"bathrooms" validate:"gte=0"`
	SquareFeet   float64           `json:"square_feet" yaml:"square_feet" validate:"gte=0"`
	YearBuilt    int               `json:"year_built,omitempty" yaml:"year_built" validate:"gte=0"`
	LotSize      float64           `json:"lot_size,omitempty" yaml:"lot_size" validate:"gte=0"`
	ListPrice    float64           `json:"list_price" yaml:"list_price" validate:"gt=0"`
	ARV          *float64          `json:"arv,omitempty" yaml:"arv" validate:"omitempty,gt=0"`
	Sources      map[string]string `json:"sources,omitempty" yaml:"sources"`
}

// Validate checks the property at the input boundary.
func (p Property) Validate() error {
	return validateStruct(p)
}

// AfterRepairValue returns the ARV, falling back to the list price.
func (p Property) AfterRepairValue() float64 {
	if p.ARV != nil && *p.ARV > 0 {
		return *p.ARV
	}
	return p.ListPrice
}

// HasARV reports whether an explicit after-repair value was supplied.
func (p Property) HasARV() bool {
	return p.ARV != nil && *p.ARV > 0
}
