package enums

import "fmt"

// ProductCategory buckets catalog listings for filtering.
type ProductCategory string

const (
	ProductCategoryElectronics ProductCategory = "electronics"
	ProductCategoryTextiles    ProductCategory = "textiles"
	ProductCategoryHomeGoods   ProductCategory = "home_goods"
	ProductCategoryMachinery   ProductCategory = "machinery"
	ProductCategoryBeauty      ProductCategory = "beauty"
	ProductCategoryFood        ProductCategory = "food"
	ProductCategoryOther       ProductCategory = "other"
)

var validProductCategories = []ProductCategory{
	ProductCategoryElectronics,
	ProductCategoryTextiles,
	ProductCategoryHomeGoods,
	ProductCategoryMachinery,
	ProductCategoryBeauty,
	ProductCategoryFood,
	ProductCategoryOther,
}

// String implements fmt.Stringer.
func (p ProductCategory) String() string {
	return string(p)
}

// IsValid reports whether the value is known.
func (p ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}
