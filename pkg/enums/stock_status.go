package enums

// StockStatus is the derived availability band of a product.
type StockStatus string

const (
	StockStatusInStock    StockStatus = "in_stock"
	StockStatusLowStock   StockStatus = "low_stock"
	StockStatusOutOfStock StockStatus = "out_of_stock"
)

// String implements fmt.Stringer.
func (s StockStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StockStatus.
func (s StockStatus) IsValid() bool {
	switch s {
	case StockStatusInStock, StockStatusLowStock, StockStatusOutOfStock:
		return true
	}
	return false
}

// StockStatusFor derives the availability band from a stock level and its
// low-water threshold.
func StockStatusFor(stock, minStock int) StockStatus {
	switch {
	case stock <= 0:
		return StockStatusOutOfStock
	case stock <= minStock:
		return StockStatusLowStock
	default:
		return StockStatusInStock
	}
}
