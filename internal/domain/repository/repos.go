package repository

// Repos agrupa los repositorios atados a una misma transacción.
type Repos struct {
	Items        InventoryItemRepository
	BOM          BOMRepository
	Usage        UsageEventRepository
	Productions  ProductionRepository
	Stages       ProductionStageRepository
	DailyOutputs DailyOutputRepository
}
