package handler

import (
	"net/http"

	"gravoplus/internal/apierror"
	"gravoplus/internal/dto"
	"gravoplus/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CatalogHandler exposes the pricing catalog: machines, materials and fixed
// services. All mutations are admin/manager-gated at the router.
type CatalogHandler struct{ svc service.CatalogService }

func NewCatalogHandler(svc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// ─── Machines ────────────────────────────────────────────────────────────────

// CreateMachine godoc
// @Summary Crée la grille tarifaire d'un type de machine
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.UpsertMachineRequest true "Tarifs machine"
// @Success 201 {object} dto.MachineResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/machines [post]
func (h *CatalogHandler) CreateMachine(c *gin.Context) {
	var req dto.UpsertMachineRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateMachine(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, apierror.OK(resp))
}

func (h *CatalogHandler) ListMachines(c *gin.Context) {
	resp, err := h.svc.ListMachines(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, apierror.OK(resp))
}

func (h *CatalogHandler) UpdateMachine(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	var req dto.UpsertMachineRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateMachine(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, apierror.OK(resp))
}

func (h *CatalogHandler) DeactivateMachine(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	if err := h.svc.DeactivateMachine(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// ─── Materials ───────────────────────────────────────────────────────────────

func (h *CatalogHandler) CreateMaterial(c *gin.Context) {
	var req dto.UpsertMaterialRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateMaterial(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, apierror.OK(resp))
}

func (h *CatalogHandler) ListMaterials(c *gin.Context) {
	resp, err := h.svc.ListMaterials(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, apierror.OK(resp))
}

func (h *CatalogHandler) UpdateMaterial(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	var req dto.UpsertMaterialRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateMaterial(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, apierror.OK(resp))
}

func (h *CatalogHandler) DeactivateMaterial(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	if err := h.svc.DeactivateMaterial(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// ─── Fixed services ──────────────────────────────────────────────────────────

func (h *CatalogHandler) CreateFixedService(c *gin.Context) {
	var req dto.UpsertFixedServiceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateFixedService(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, apierror.OK(resp))
}

func (h *CatalogHandler) ListFixedServices(c *gin.Context) {
	resp, err := h.svc.ListFixedServices(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, apierror.OK(resp))
}

func (h *CatalogHandler) UpdateFixedService(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	var req dto.UpsertFixedServiceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateFixedService(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, apierror.OK(resp))
}

func (h *CatalogHandler) DeactivateFixedService(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	if err := h.svc.DeactivateFixedService(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
