package handler

import (
	"net/http"

	"github.com/mdeadwiler/riskassess/internal/domain/risk"
)

// RulesHandler exposes the static rule catalog for introspection.
type RulesHandler struct {
	registry *risk.Registry
}

// NewRulesHandler creates a new rules handler.
func NewRulesHandler(registry *risk.Registry) *RulesHandler {
	return &RulesHandler{registry: registry}
}

// RulePatternResponse is the wire shape of one catalog entry.
type RulePatternResponse struct {
	Name        string         `json:"name"`
	PatternType string         `json:"pattern_type"`
	Parameters  map[string]any `json:"parameters"`
	IsActive    bool           `json:"is_active"`
}

// Rules handles GET /api/v1/rules.
func (h *RulesHandler) Rules(w http.ResponseWriter, r *http.Request) {
	patterns := h.registry.Patterns()
	out := make([]RulePatternResponse, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, RulePatternResponse{
			Name:        p.Name,
			PatternType: p.PatternType,
			Parameters:  p.Parameters,
			IsActive:    p.IsActive,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"rules": out})
}
