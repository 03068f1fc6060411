package inventory

import (
	"github.com/jhoicas/inventario-produccion/internal/application/dto"
	"github.com/jhoicas/inventario-produccion/internal/domain"
	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	"github.com/jhoicas/inventario-produccion/internal/domain/forecast"
)

func toMaterialDTOs(c *consumption) []dto.MaterialUsageDTO {
	out := make([]dto.MaterialUsageDTO, 0, len(c.Lines))
	for _, l := range c.Lines {
		out = append(out, dto.MaterialUsageDTO{
			InventoryItemID: l.InventoryItemID,
			SKU:             l.SKU,
			ItemName:        l.Name,
			Unit:            l.Unit,
			QuantityUsed:    l.QuantityUsed,
			UnitCost:        l.UnitCost,
			TotalCost:       l.LineCost,
			RemainingStock:  c.Remaining[l.InventoryItemID],
		})
	}
	return out
}

func toLineEvents(c *consumption) []domain.MaterialLineEvent {
	out := make([]domain.MaterialLineEvent, 0, len(c.Lines))
	for _, l := range c.Lines {
		out = append(out, domain.MaterialLineEvent{
			InventoryItemID: l.InventoryItemID,
			SKU:             l.SKU,
			QuantityUsed:    l.QuantityUsed,
			RemainingStock:  c.Remaining[l.InventoryItemID],
		})
	}
	return out
}

func toDailyOutputDTO(d *entity.DailyOutput) dto.DailyOutputDTO {
	return dto.DailyOutputDTO{
		ID:               d.ID,
		Date:             d.Date.Format(dto.DateLayout),
		QuantityProduced: d.QuantityProduced,
		Notes:            d.Notes,
		ProducedBy:       d.ProducedBy,
		MaterialCost:     d.MaterialCost,
	}
}

func toItemDTO(item *entity.InventoryItem) *dto.InventoryItemDTO {
	return &dto.InventoryItemDTO{
		ID:             item.ID,
		SKU:            item.SKU,
		Name:           item.Name,
		Category:       item.Category,
		Unit:           item.Unit,
		QuantityOnHand: item.QuantityOnHand,
		UnitCost:       item.UnitCost,
	}
}

func toForecastDTO(r forecast.Result) dto.ForecastDTO {
	return dto.ForecastDTO{
		ItemID:              r.ItemID,
		SKU:                 r.SKU,
		Name:                r.Name,
		Unit:                r.Unit,
		WindowDays:          r.WindowDays,
		QuantityOnHand:      r.QuantityOnHand,
		UsageInWindow:       r.UsageInWindow,
		AvgDailyUsage:       r.AvgDailyUsage.Round(4),
		ReorderPoint:        r.ReorderPoint.Round(4),
		ReorderPointDerived: r.ReorderPointDerived,
		DaysToDepletion:     r.DaysToDepletion,
		SuggestedQty:        r.SuggestedQty.Round(4),
		TurnoverDays:        r.TurnoverDays,
		StockStatus:         r.StockStatus,
		MissingConfig:       r.MissingConfig,
	}
}

func toScheduleEntryDTO(e forecast.ScheduleEntry) dto.ReplenishmentEntryDTO {
	return dto.ReplenishmentEntryDTO{
		ItemID:                e.ItemID,
		SKU:                   e.SKU,
		Name:                  e.Name,
		Unit:                  e.Unit,
		QuantityOnHand:        e.QuantityOnHand,
		ReorderPoint:          e.ReorderPoint.Round(4),
		AvgDailyUsage:         e.AvgDailyUsage.Round(4),
		DaysUntilReorder:      e.DaysUntilReorder,
		ETADate:               e.ETADate.Format(dto.DateLayout),
		OrderByDate:           e.OrderByDate.Format(dto.DateLayout),
		LeadTimeDays:          e.LeadTimeDays,
		SuggestedQty:          e.SuggestedQty.Round(4),
		NeedsImmediateReorder: e.NeedsImmediateReorder,
		Priority:              e.Priority,
	}
}
