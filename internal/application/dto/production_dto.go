package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// UpdateStageRequest body para PATCH /api/production/stages/:id.
type UpdateStageRequest struct {
	Status             string           `json:"status"`
	ProgressPercentage *decimal.Decimal `json:"progress_percentage,omitempty"`
	Notes              *string          `json:"notes,omitempty"`
}

// ProductionStageDTO etapa tras la actualización.
type ProductionStageDTO struct {
	ID                 string          `json:"id"`
	ProductionID       string          `json:"production_id"`
	Name               string          `json:"name"`
	Sequence           int             `json:"sequence"`
	Status             string          `json:"status"`
	ProgressPercentage decimal.Decimal `json:"progress_percentage"`
	Notes              string          `json:"notes,omitempty"`
	ActualStartTime    *time.Time      `json:"actual_start_time,omitempty"`
	ActualEndTime      *time.Time      `json:"actual_end_time,omitempty"`
}

// ProductionRunSummaryDTO estado agregado de la corrida.
type ProductionRunSummaryDTO struct {
	ID                 string          `json:"id"`
	Status             string          `json:"status"`
	ProgressPercentage decimal.Decimal `json:"progress_percentage"`
	ActualEndDate      *time.Time      `json:"actual_end_date,omitempty"`
}

// UpdateStageResultDTO respuesta de UpdateStage.
type UpdateStageResultDTO struct {
	Stage ProductionStageDTO      `json:"stage"`
	Run   ProductionRunSummaryDTO `json:"run"`
}
