package model

import "github.com/shopspring/decimal"

// ColorSizeStock maps color to size to units on hand.
type ColorSizeStock map[string]map[string]int

// Product is the catalog entry whose inventory checkout reads and decrements.
type Product struct {
	ID             string
	Name           string
	Price          decimal.Decimal
	Stock          int
	ColorSizeStock ColorSizeStock
}

// HasMatrix reports whether stock is tracked per color and size.
func (p *Product) HasMatrix() bool {
	return len(p.ColorSizeStock) > 0
}

func (p *Product) usesMatrix(color, size string) bool {
	return color != "" && size != "" && p.HasMatrix()
}

// Available returns the units that can be sold for the given variant.
// A color absent from the matrix has nothing available.
func (p *Product) Available(color, size string) int {
	if !p.usesMatrix(color, size) {
		return p.Stock
	}
	sizes, ok := p.ColorSizeStock[color]
	if !ok {
		return 0
	}
	return sizes[size]
}

// DecrementStock removes qty units from the matching counter, flooring at zero.
// It reports false when the variant's color is not tracked and nothing changed.
func (p *Product) DecrementStock(color, size string, qty int) bool {
	if !p.usesMatrix(color, size) {
		p.Stock = max(0, p.Stock-qty)
		return true
	}
	sizes, ok := p.ColorSizeStock[color]
	if !ok {
		return false
	}
	if sizes == nil {
		sizes = map[string]int{}
		p.ColorSizeStock[color] = sizes
	}
	sizes[size] = max(0, sizes[size]-qty)
	return true
}
