package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una etapa de producción.
const (
	StageStatusPending    = "pending"
	StageStatusInProgress = "in_progress"
	StageStatusCompleted  = "completed"
	StageStatusOnHold     = "on_hold"
)

// ProductionStage etapa de una corrida (corte, ensamble, acabado, ...).
type ProductionStage struct {
	ID                 string
	ProductionID       string
	Name               string
	Sequence           int
	Status             string
	ProgressPercentage decimal.Decimal // 0..100
	Notes              string
	ActualStartTime    *time.Time
	ActualEndTime      *time.Time
	UpdatedAt          time.Time
}
