// Package production máquina de estados de etapas y agregación del avance de una corrida.
package production

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-produccion/internal/domain"
	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// transitions destinos permitidos por estado. completed es terminal.
var transitions = map[string][]string{
	entity.StageStatusPending:    {entity.StageStatusInProgress, entity.StageStatusOnHold},
	entity.StageStatusInProgress: {entity.StageStatusCompleted, entity.StageStatusOnHold},
	entity.StageStatusOnHold:     {entity.StageStatusInProgress},
	entity.StageStatusCompleted:  {},
}

// IsValidStageStatus indica si el estado pertenece al conjunto conocido.
func IsValidStageStatus(status string) bool {
	_, ok := transitions[status]
	return ok
}

// CanTransition reporta si from -> to está permitido. Repetir un estado no terminal
// (actualizar avance o notas) es válido; completed -> completed es un no-op.
func CanTransition(from, to string) bool {
	if !IsValidStageStatus(from) || !IsValidStageStatus(to) {
		return false
	}
	if from == to {
		return true
	}
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// StageUpdate cambio pedido sobre una etapa.
type StageUpdate struct {
	Status             string
	ProgressPercentage *decimal.Decimal
	Notes              *string
}

// ApplyStageUpdate valida y aplica la transición sobre stage (mutándolo).
// Devuelve changed=false cuando la etapa ya estaba completada y se pide completed otra vez.
func ApplyStageUpdate(stage *entity.ProductionStage, upd StageUpdate, now time.Time) (changed bool, err error) {
	if upd.ProgressPercentage != nil {
		p := *upd.ProgressPercentage
		if p.IsNegative() || p.GreaterThan(hundred) {
			return false, fmt.Errorf("%w: progress_percentage debe estar entre 0 y 100", domain.ErrInvalidInput)
		}
	}
	if !IsValidStageStatus(upd.Status) {
		return false, fmt.Errorf("%w: estado %q desconocido", domain.ErrInvalidInput, upd.Status)
	}
	if stage.Status == entity.StageStatusCompleted && upd.Status == entity.StageStatusCompleted {
		return false, nil
	}
	if !CanTransition(stage.Status, upd.Status) {
		return false, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, stage.Status, upd.Status)
	}

	stage.Status = upd.Status
	if upd.ProgressPercentage != nil {
		stage.ProgressPercentage = *upd.ProgressPercentage
	}
	if upd.Notes != nil {
		stage.Notes = *upd.Notes
	}

	switch upd.Status {
	case entity.StageStatusInProgress:
		if stage.ActualStartTime == nil {
			t := now
			stage.ActualStartTime = &t
		}
	case entity.StageStatusCompleted:
		stage.ProgressPercentage = hundred
		if stage.ActualStartTime == nil {
			t := now
			stage.ActualStartTime = &t
		}
		if stage.ActualEndTime == nil {
			t := now
			stage.ActualEndTime = &t
		}
	}
	stage.UpdatedAt = now
	return true, nil
}
