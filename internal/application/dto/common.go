package dto

import "github.com/shopspring/decimal"

// DateLayout formato de fecha de negocio en requests y respuestas.
const DateLayout = "2006-01-02"

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// InsufficientStockResponse cuerpo 409 con el detalle para decidir la compra.
type InsufficientStockResponse struct {
	Code      string          `json:"code"`
	Message   string          `json:"message"`
	ItemID    string          `json:"inventory_item_id"`
	SKU       string          `json:"sku"`
	ItemName  string          `json:"item_name"`
	Unit      string          `json:"unit"`
	Required  decimal.Decimal `json:"required"`
	Available decimal.Decimal `json:"available"`
	Shortfall decimal.Decimal `json:"shortfall"`
}
