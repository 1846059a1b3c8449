package handler

import (
	"context"
	"net/http"

	"gravoplus/internal/apierror"
	"gravoplus/internal/dto"
	"gravoplus/internal/middleware"
	"gravoplus/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DevisHandler struct{ svc service.DevisService }

func NewDevisHandler(svc service.DevisService) *DevisHandler { return &DevisHandler{svc: svc} }

// Create godoc
// @Summary Crée un devis brouillon pour un client
// @Tags devis
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateDevisRequest true "Client du devis"
// @Success 201 {object} dto.DevisResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/devis [post]
func (h *DevisHandler) Create(c *gin.Context) {
	var req dto.CreateDevisRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	employeeID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Create(c.Request.Context(), employeeID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, apierror.OK(resp))
}

func (h *DevisHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, apierror.OK(resp))
}

// List godoc
// @Summary Liste les devis, filtrables par statut, client et période
// @Tags devis
// @Produce json
// @Security BearerAuth
// @Param status query string false "DRAFT | VALIDATED | INVOICED | CANCELLED"
// @Param client_id query string false "UUID client"
// @Success 200 {object} dto.DevisListResponse
// @Router /v1/devis [get]
func (h *DevisHandler) List(c *gin.Context) {
	var filter dto.DevisFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, apierror.OK(resp))
}

// Delete removes a DRAFT devis along with its lines and services.
func (h *DevisHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// AddLine godoc
// @Summary Ajoute une ligne chiffrée au devis (schéma fermé par type de machine)
// @Tags devis
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID du devis"
// @Param body body dto.AddDevisLineRequest true "Ligne à composer"
// @Success 200 {object} dto.DevisResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/devis/{id}/lines [post]
func (h *DevisHandler) AddLine(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	var req dto.AddDevisLineRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddLine(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, apierror.OK(resp))
}

func (h *DevisHandler) RemoveLine(c *gin.Context) {
	devisID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	lineID, err := uuid.Parse(c.Param("lineId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de ligne invalide"))
		return
	}
	resp, err := h.svc.RemoveLine(c.Request.Context(), devisID, lineID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, apierror.OK(resp))
}

// ToggleService godoc
// @Summary Attache ou détache un service fixe du devis
// @Tags devis
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID du devis"
// @Param body body dto.ToggleDevisServiceRequest true "Service à basculer"
// @Success 200 {object} dto.DevisResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/devis/{id}/services [post]
func (h *DevisHandler) ToggleService(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	var req dto.ToggleDevisServiceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ToggleService(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, apierror.OK(resp))
}

// Validate moves DRAFT → VALIDATED; the devis becomes read-only and eligible
// for invoicing.
func (h *DevisHandler) Validate(c *gin.Context) {
	h.transition(c, h.svc.Validate)
}

// Cancel moves DRAFT → CANCELLED, a terminal state.
func (h *DevisHandler) Cancel(c *gin.Context) {
	h.transition(c, h.svc.Cancel)
}

func (h *DevisHandler) transition(c *gin.Context, fn func(ctx context.Context, devisID, employeeID uuid.UUID) (*dto.DevisResponse, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	claims := middleware.GetClaims(c)
	employeeID, _ := uuid.Parse(claims.UserID)

	resp, err := fn(c.Request.Context(), id, employeeID)
	if err != nil {
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, apierror.OK(resp))
}
