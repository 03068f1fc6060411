package production

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
)

// Aggregation estado y avance derivados del conjunto de etapas de una corrida.
type Aggregation struct {
	Progress decimal.Decimal
	// Status vacío significa "sin cambio".
	Status string
}

// Aggregate función pura sobre las etapas de una corrida.
// ok=false cuando no hay etapas: no hay nada que promediar.
func Aggregate(stages []entity.ProductionStage) (agg Aggregation, ok bool) {
	if len(stages) == 0 {
		return Aggregation{}, false
	}
	sum := decimal.Zero
	completed, inProgress := 0, 0
	for _, s := range stages {
		sum = sum.Add(s.ProgressPercentage)
		switch s.Status {
		case entity.StageStatusCompleted:
			completed++
		case entity.StageStatusInProgress:
			inProgress++
		}
	}
	agg.Progress = sum.Div(decimal.NewFromInt(int64(len(stages)))).Round(2)
	switch {
	case completed == len(stages):
		agg.Status = entity.ProductionStatusCompleted
		agg.Progress = hundred
	case inProgress > 0:
		agg.Status = entity.ProductionStatusInProgress
	}
	return agg, true
}

// ApplyToRun vuelca la agregación sobre la corrida. Devuelve true si la corrida
// pasó a completed en esta llamada.
func ApplyToRun(run *entity.ProductionRun, agg Aggregation, now time.Time) (justCompleted bool) {
	wasCompleted := run.Status == entity.ProductionStatusCompleted
	run.ProgressPercentage = agg.Progress
	if agg.Status != "" {
		run.Status = agg.Status
	}
	if run.Status == entity.ProductionStatusCompleted && run.ActualEndDate == nil {
		t := now
		run.ActualEndDate = &t
	}
	run.UpdatedAt = now
	return !wasCompleted && run.Status == entity.ProductionStatusCompleted
}
