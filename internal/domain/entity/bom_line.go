package entity

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BOMLine cantidad de un material requerida para producir una unidad del producto.
type BOMLine struct {
	ID              string
	ProductID       string
	InventoryItemID string
	QtyPerUnit      decimal.Decimal
	Position        int // orden estable de inserción
}

// NewBOMLine construye una línea validada.
func NewBOMLine(id, productID, itemID string, qtyPerUnit decimal.Decimal, position int) (*BOMLine, error) {
	if productID == "" {
		return nil, fmt.Errorf("product id cannot be empty")
	}
	if itemID == "" {
		return nil, fmt.Errorf("inventory item id cannot be empty")
	}
	if !qtyPerUnit.IsPositive() {
		return nil, fmt.Errorf("qty per unit must be positive, got %s", qtyPerUnit)
	}
	if position < 0 {
		return nil, fmt.Errorf("position cannot be negative, got %d", position)
	}
	return &BOMLine{
		ID:              id,
		ProductID:       productID,
		InventoryItemID: itemID,
		QtyPerUnit:      qtyPerUnit,
		Position:        position,
	}, nil
}

// QuantityScale decimales con que se persisten las cantidades (NUMERIC(18,4)).
const QuantityScale int32 = 4

// RoundQuantity redondea a la escala de almacenamiento.
func RoundQuantity(q decimal.Decimal) decimal.Decimal {
	return q.Round(QuantityScale)
}

// Required cantidad necesaria para producir quantity unidades, ya en la escala de almacenamiento.
func (l BOMLine) Required(quantity decimal.Decimal) decimal.Decimal {
	return RoundQuantity(l.QtyPerUnit.Mul(quantity))
}
