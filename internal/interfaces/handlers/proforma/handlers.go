package proforma

import (
	"encoding/json"

	pfsvc "flipforma-backend/internal/application/proforma"
	"flipforma-backend/internal/domain"
	"flipforma-backend/internal/pkg/format"
	"flipforma-backend/internal/pkg/response"
	"flipforma-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// Handlers serves the stateless calculator; nothing here touches storage.
type Handlers struct{}

type ComputeRequest struct {
	Inputs           *domain.PropertyInputs      `json:"inputs"`
	RenovationItems  []domain.RenovationLineItem `json:"renovationItems"`
	FinancingSources []domain.FinancingSource    `json:"financingSources"`
}

// GET /api/v1/proforma/defaults
func (h *Handlers) Defaults(c *fiber.Ctx) error {
	return response.Success(c, "Default project", domain.NewDraft(), nil)
}

// POST /api/v1/proforma/compute
func (h *Handlers) Compute(c *fiber.Ctx) error {
	var req ComputeRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Inputs == nil {
		return response.BadRequest(c, "Missing required field: inputs")
	}
	return response.Success(c, "Pro forma computed", Computation(*req.Inputs, req.RenovationItems, req.FinancingSources), nil)
}

// Computation bundles a result with its display summary and advisory warnings.
func Computation(in domain.PropertyInputs, items []domain.RenovationLineItem, sources []domain.FinancingSource) fiber.Map {
	return Present(in, items, sources, pfsvc.Compute(in, items, sources))
}

// Present wraps an already computed result the same way Computation does.
func Present(in domain.PropertyInputs, items []domain.RenovationLineItem, sources []domain.FinancingSource, r pfsvc.Result) fiber.Map {
	return fiber.Map{
		"result":   r,
		"summary":  format.Summarize(in, r),
		"warnings": validation.CheckProject(in, items, sources),
	}
}
