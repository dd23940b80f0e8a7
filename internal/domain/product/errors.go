package product

import "errors"

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrProductInvalidName  = errors.New("product name is required")
	ErrProductInvalidPrice = errors.New("product price cannot be negative")
	ErrProductInvalidStock = errors.New("product stock cannot be negative")
	ErrProductInvalidImage = errors.New("product image must be a jpg, jpeg, png, gif or webp file")
	ErrNoImages            = errors.New("at least one image is required")
)
