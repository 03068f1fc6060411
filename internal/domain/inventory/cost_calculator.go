package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost costo promedio ponderado tras una recepción:
// ((onHand * currentCost) + (receivedQty * receivedCost)) / (onHand + receivedQty).
// Si el stock resultante no es positivo se conserva el costo de la entrada.
func WeightedAverageCost(onHand, currentCost, receivedQty, receivedCost decimal.Decimal) decimal.Decimal {
	total := onHand.Add(receivedQty)
	if !total.IsPositive() {
		return receivedCost
	}
	num := onHand.Mul(currentCost).Add(receivedQty.Mul(receivedCost))
	return num.Div(total).Round(4)
}

// LineCost costo de una línea de consumo.
func LineCost(unitCost, qty decimal.Decimal) decimal.Decimal {
	return unitCost.Mul(qty)
}
