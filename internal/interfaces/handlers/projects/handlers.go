package projects

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"strings"

	pfsvc "flipforma-backend/internal/application/proforma"
	projsvc "flipforma-backend/internal/application/projects"
	"flipforma-backend/internal/domain"
	"flipforma-backend/internal/infrastructure/storage"
	proformahandlers "flipforma-backend/internal/interfaces/handlers/proforma"
	"flipforma-backend/internal/pkg/response"
	"flipforma-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/blake2b"
)

// MaxImportSize bounds an uploaded project file.
const MaxImportSize = 1 << 20

type Handlers struct {
	Service *projsvc.Service
}

type SaveAsRequest struct {
	Name string `json:"name"`
	domain.Project
}

// GET /api/v1/projects?prefix=
func (h *Handlers) List(c *fiber.Ctx) error {
	list, err := h.Service.List(c.UserContext(), c.Query("prefix"))
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Projects retrieved", list, fiber.Map{"count": len(list)})
}

// POST /api/v1/projects: saves under the body's id, or a new project_<ms> id.
func (h *Handlers) Save(c *fiber.Ctx) error {
	var p domain.Project
	if err := json.Unmarshal(c.Body(), &p); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	saved, err := h.Service.Save(c.UserContext(), p)
	if err != nil {
		return fail(c, err)
	}
	return response.SuccessCreated(c, "Project saved", saved, nil)
}

// POST /api/v1/projects/save-as
func (h *Handlers) SaveAs(c *fiber.Ctx) error {
	var req SaveAsRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if !validation.IsValidProjectName(req.Name) {
		return response.BadRequest(c, projsvc.ErrNameRequired.Error())
	}
	saved, err := h.Service.SaveAs(c.UserContext(), req.Name, req.Project)
	if err != nil {
		return fail(c, err)
	}
	return response.SuccessCreated(c, "Project saved as "+saved.ProjectName, saved, nil)
}

// POST /api/v1/projects/import: body is an exported project document, either raw or as the
// "file" part of a multipart form.
func (h *Handlers) Import(c *fiber.Ctx) error {
	blob := c.Body()
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		fh, err := c.FormFile("file")
		if err != nil {
			return response.BadRequest(c, "file is required")
		}
		if fh.Size > MaxImportSize {
			return response.Error(c, "File too large", fiber.StatusRequestEntityTooLarge, nil)
		}
		f, err := fh.Open()
		if err != nil {
			return err
		}
		defer f.Close()
		if blob, err = io.ReadAll(f); err != nil {
			return err
		}
	}
	p, err := h.Service.Import(c.UserContext(), blob)
	if err != nil {
		return fail(c, err)
	}
	return response.SuccessCreated(c, "Imported and saved", p, nil)
}

// GET /api/v1/projects/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	p, err := h.Service.Load(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	body, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if notModified(c, body) {
		return c.SendStatus(fiber.StatusNotModified)
	}
	return response.Success(c, "Project loaded", p, nil)
}

// DELETE /api/v1/projects/:id
func (h *Handlers) Delete(c *fiber.Ctx) error {
	if err := h.Service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Deleted", fiber.Map{"id": c.Params("id")}, nil)
}

// GET /api/v1/projects/:id/proforma
func (h *Handlers) Proforma(c *fiber.Ctx) error {
	r, p, err := h.Service.Compute(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	data := proformahandlers.Present(p.Inputs, p.RenovationItems, p.FinancingSources, r)
	data["projectId"] = p.ID
	return response.Success(c, "Pro forma computed", data, nil)
}

// GET /api/v1/projects/:id/export: downloads the project as <name>.json.
func (h *Handlers) Export(c *fiber.Ctx) error {
	body, name, err := h.Service.Export(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	// exportedAt changes every call, so the tag only helps a client comparing two downloads.
	if notModified(c, body) {
		return c.SendStatus(fiber.StatusNotModified)
	}
	c.Attachment(name)
	return c.Send(body)
}

// PATCH /api/v1/projects/:id/inputs
func (h *Handlers) UpdateInputs(c *fiber.Ctx) error {
	var patch pfsvc.InputsPatch
	if err := json.Unmarshal(c.Body(), &patch); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if patch.ProjectName != nil && !validation.IsValidProjectName(*patch.ProjectName) {
		return response.BadRequest(c, "Invalid project name")
	}
	p, err := h.Service.UpdateInputs(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Inputs updated", p, nil)
}

// POST /api/v1/projects/:id/financing-sources
func (h *Handlers) AddFinancingSource(c *fiber.Ctx) error {
	p, added, err := h.Service.AddFinancingSource(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return response.SuccessCreated(c, "Financing source added", fiber.Map{"project": p, "source": added}, nil)
}

// PATCH /api/v1/projects/:id/financing-sources/:sourceId
func (h *Handlers) UpdateFinancingSource(c *fiber.Ctx) error {
	sourceID, err := c.ParamsInt("sourceId")
	if err != nil {
		return response.BadRequest(c, "Invalid source id")
	}
	var patch pfsvc.FinancingSourcePatch
	if err := json.Unmarshal(c.Body(), &patch); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	p, err := h.Service.UpdateFinancingSource(c.UserContext(), c.Params("id"), sourceID, patch)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Financing source updated", p, nil)
}

// PATCH /api/v1/projects/:id/renovation-items/:itemId
func (h *Handlers) UpdateRenovationItem(c *fiber.Ctx) error {
	itemID, err := c.ParamsInt("itemId")
	if err != nil {
		return response.BadRequest(c, "Invalid item id")
	}
	var patch pfsvc.RenovationItemPatch
	if err := json.Unmarshal(c.Body(), &patch); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	p, err := h.Service.UpdateRenovationItem(c.UserContext(), c.Params("id"), itemID, patch)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Renovation item updated", p, nil)
}

// POST /api/v1/projects/:id/renovation-items/:itemId/materials
func (h *Handlers) AddMaterial(c *fiber.Ctx) error {
	itemID, err := c.ParamsInt("itemId")
	if err != nil {
		return response.BadRequest(c, "Invalid item id")
	}
	p, err := h.Service.AddMaterial(c.UserContext(), c.Params("id"), itemID)
	if err != nil {
		return fail(c, err)
	}
	return response.SuccessCreated(c, "Material added", p, nil)
}

// PATCH /api/v1/projects/:id/renovation-items/:itemId/materials/:idx
func (h *Handlers) UpdateMaterial(c *fiber.Ctx) error {
	itemID, idx, err := materialParams(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	var patch pfsvc.MaterialPatch
	if err := json.Unmarshal(c.Body(), &patch); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	p, err := h.Service.UpdateMaterial(c.UserContext(), c.Params("id"), itemID, idx, patch)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Material updated", p, nil)
}

// DELETE /api/v1/projects/:id/renovation-items/:itemId/materials/:idx
func (h *Handlers) RemoveMaterial(c *fiber.Ctx) error {
	itemID, idx, err := materialParams(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	p, err := h.Service.RemoveMaterial(c.UserContext(), c.Params("id"), itemID, idx)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Material removed", p, nil)
}

func materialParams(c *fiber.Ctx) (int, int, error) {
	itemID, err := c.ParamsInt("itemId")
	if err != nil {
		return 0, 0, errors.New("Invalid item id")
	}
	idx, err := c.ParamsInt("idx")
	if err != nil {
		return 0, 0, errors.New("Invalid material index")
	}
	return itemID, idx, nil
}

// fail maps service errors onto status codes. Anything unrecognized goes to the global error handler.
func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, projsvc.ErrProjectNotFound),
		errors.Is(err, pfsvc.ErrSourceNotFound),
		errors.Is(err, pfsvc.ErrItemNotFound),
		errors.Is(err, pfsvc.ErrMaterialNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, projsvc.ErrNameRequired),
		errors.Is(err, projsvc.ErrMalformedProject):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, projsvc.ErrUnsupportedVersion),
		errors.Is(err, pfsvc.ErrInvalidSourceKind),
		errors.Is(err, storage.ErrInvalidValue):
		return response.Unprocessable(c, err.Error(), nil)
	}
	return err
}

// notModified sets a blake2b ETag for body and reports whether the client already has it.
func notModified(c *fiber.Ctx, body []byte) bool {
	sum := blake2b.Sum256(body)
	tag := `"` + hex.EncodeToString(sum[:]) + `"`
	c.Set(fiber.HeaderETag, tag)
	return c.Get(fiber.HeaderIfNoneMatch) == tag
}
