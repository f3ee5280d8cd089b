package econ

import "github.com/nodalync/node/internal/ndltypes"

// ValidatePrice reports whether price falls within [MinPrice, MaxPrice].
func ValidatePrice(price ndltypes.Tinybars) error {
	if price < ndltypes.MinPrice {
		return &PriceError{Price: price, Bound: ndltypes.MinPrice}
	}
	if price > ndltypes.MaxPrice {
		return &PriceError{Price: price, Bound: ndltypes.MaxPrice, TooHigh: true}
	}
	return nil
}

// IsValidPrice is the boolean form of ValidatePrice.
func IsValidPrice(price ndltypes.Tinybars) bool {
	return price >= ndltypes.MinPrice && price <= ndltypes.MaxPrice
}
