package memory

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
)

// Estructura del archivo de carga inicial (YAML, JSON o TOML; lo detecta viper por extensión).
//
//	items:
//	  - id: it-harina
//	    sku: MAT-HARINA
//	    name: Harina
//	    unit: kg
//	    quantity_on_hand: "120"
//	    unit_cost: "2.5"
//	    reorder_point: "40"
//	products:
//	  - id: prod-pan
//	    name: Pan
//	    bom:
//	      - item_id: it-harina
//	        qty_per_unit: "0.5"
type seedFile struct {
	Items    []seedItem    `mapstructure:"items"`
	Products []seedProduct `mapstructure:"products"`
	Runs     []seedRun     `mapstructure:"production_runs"`
}

type seedItem struct {
	ID             string `mapstructure:"id"`
	SKU            string `mapstructure:"sku"`
	Name           string `mapstructure:"name"`
	Category       string `mapstructure:"category"`
	Unit           string `mapstructure:"unit"`
	QuantityOnHand string `mapstructure:"quantity_on_hand"`
	UnitCost       string `mapstructure:"unit_cost"`
	ReorderPoint   string `mapstructure:"reorder_point"`
	SafetyStock    string `mapstructure:"safety_stock"`
	LeadTimeDays   int    `mapstructure:"lead_time_days"`
	MaxLevel       string `mapstructure:"max_level"`
}

type seedProduct struct {
	ID   string        `mapstructure:"id"`
	Name string        `mapstructure:"name"`
	BOM  []seedBOMLine `mapstructure:"bom"`
}

type seedBOMLine struct {
	ItemID     string `mapstructure:"item_id"`
	QtyPerUnit string `mapstructure:"qty_per_unit"`
}

type seedRun struct {
	ID        string   `mapstructure:"id"`
	ProductID string   `mapstructure:"product_id"`
	Quantity  string   `mapstructure:"quantity"`
	Stages    []string `mapstructure:"stages"`
}

// LoadSeedFile carga ítems, productos con BOM y corridas con sus etapas desde path.
func LoadSeedFile(s *Store, path string, now time.Time) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("leer seed %s: %w", path, err)
	}
	var f seedFile
	if err := v.Unmarshal(&f); err != nil {
		return fmt.Errorf("decodificar seed %s: %w", path, err)
	}

	for _, si := range f.Items {
		item, err := si.toEntity(now)
		if err != nil {
			return err
		}
		if err := s.AddItem(item); err != nil {
			return err
		}
	}

	for _, sp := range f.Products {
		lines := make([]entity.BOMLine, 0, len(sp.BOM))
		for i, sl := range sp.BOM {
			qty, err := decimal.NewFromString(sl.QtyPerUnit)
			if err != nil {
				return fmt.Errorf("seed producto %s línea %d: %w", sp.ID, i, err)
			}
			line, err := entity.NewBOMLine(fmt.Sprintf("%s-%d", sp.ID, i+1), sp.ID, sl.ItemID, qty, i)
			if err != nil {
				return fmt.Errorf("seed producto %s: %w", sp.ID, err)
			}
			lines = append(lines, *line)
		}
		if err := s.AddProduct(entity.Product{ID: sp.ID, Name: sp.Name}, lines...); err != nil {
			return err
		}
	}

	for _, sr := range f.Runs {
		qty, err := decimal.NewFromString(sr.Quantity)
		if err != nil {
			return fmt.Errorf("seed corrida %s: %w", sr.ID, err)
		}
		s.AddProductionRun(entity.ProductionRun{
			ID:                 sr.ID,
			ProductID:          sr.ProductID,
			Quantity:           qty,
			Status:             entity.ProductionStatusPending,
			ProgressPercentage: decimal.Zero,
			MaterialCost:       decimal.Zero,
			StartedAt:          now,
			CreatedAt:          now,
			UpdatedAt:          now,
		})
		for i, name := range sr.Stages {
			s.AddStage(entity.ProductionStage{
				ID:                 fmt.Sprintf("%s-s%d", sr.ID, i+1),
				ProductionID:       sr.ID,
				Name:               name,
				Sequence:           i + 1,
				Status:             entity.StageStatusPending,
				ProgressPercentage: decimal.Zero,
				UpdatedAt:          now,
			})
		}
	}
	return nil
}

func (si seedItem) toEntity(now time.Time) (entity.InventoryItem, error) {
	item := entity.InventoryItem{
		ID:           si.ID,
		SKU:          si.SKU,
		Name:         si.Name,
		Category:     si.Category,
		Unit:         si.Unit,
		LeadTimeDays: si.LeadTimeDays,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if item.Category == "" {
		item.Category = entity.ItemCategoryRaw
	}
	var err error
	if item.QuantityOnHand, err = parseDecimal(si.QuantityOnHand); err != nil {
		return item, fmt.Errorf("seed ítem %s quantity_on_hand: %w", si.SKU, err)
	}
	if item.UnitCost, err = parseDecimal(si.UnitCost); err != nil {
		return item, fmt.Errorf("seed ítem %s unit_cost: %w", si.SKU, err)
	}
	if item.SafetyStock, err = parseDecimal(si.SafetyStock); err != nil {
		return item, fmt.Errorf("seed ítem %s safety_stock: %w", si.SKU, err)
	}
	if item.ReorderPoint, err = parseOptional(si.ReorderPoint); err != nil {
		return item, fmt.Errorf("seed ítem %s reorder_point: %w", si.SKU, err)
	}
	if item.MaxLevel, err = parseOptional(si.MaxLevel); err != nil {
		return item, fmt.Errorf("seed ítem %s max_level: %w", si.SKU, err)
	}
	return item, nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func parseOptional(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
