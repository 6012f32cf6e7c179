package entity

// CartStatus is the lifecycle state of a cart. ConvertedToOrder and Expired
// are terminal: a cart in either state must not be mutated again.
type CartStatus string

const (
	CartActive           CartStatus = "active"
	CartAbandoned        CartStatus = "abandoned"
	CartConvertedToOrder CartStatus = "convertedToOrder"
	CartExpired          CartStatus = "expired"
)

// Terminal reports whether the status forbids further mutation.
func (s CartStatus) Terminal() bool {
	return s == CartConvertedToOrder || s == CartExpired
}

// CartItemStatus is the per-line state. Only active lines count toward the
// summary.
type CartItemStatus string

const (
	ItemActive     CartItemStatus = "active"
	ItemInactive   CartItemStatus = "inactive"
	ItemRemoved    CartItemStatus = "removed"
	ItemOrderedOut CartItemStatus = "orderedOut"
)
