package dto

import (
	"github.com/google/uuid"

	"idea-board-be/pkg/dedupe/confidence"
)

type ConfidenceResponse struct {
	IdeaId        uuid.UUID                        `json:"ideaId"`
	IntraScore    float64                          `json:"intraScore"`
	Label         string                           `json:"label"`
	Breakdown     map[string]float64               `json:"breakdown"`
	Concentration *confidence.ConcentrationWarning `json:"concentration,omitempty"`
}
