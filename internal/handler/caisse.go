package handler

import (
	"net/http"

	"gravoplus/internal/apierror"
	"gravoplus/internal/dto"
	"gravoplus/internal/middleware"
	"gravoplus/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CaisseHandler struct{ svc service.CaisseService }

func NewCaisseHandler(svc service.CaisseService) *CaisseHandler {
	return &CaisseHandler{svc: svc}
}

// RegisterPayment godoc
// @Summary Encaisse un paiement sur une facture ou un devis
// @Tags caisse
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RegisterPaymentRequest true "Paiement"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/caisse/payments [post]
func (h *CaisseHandler) RegisterPayment(c *gin.Context) {
	var req dto.RegisterPaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegisterPayment(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, apierror.OK(resp))
}

// InvoiceStats returns the payment aggregate of one invoice.
func (h *CaisseHandler) InvoiceStats(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	resp, err := h.svc.InvoiceStats(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, apierror.OK(resp))
}

// DevisStats returns the payment aggregate of one devis (deposits).
func (h *CaisseHandler) DevisStats(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	resp, err := h.svc.DevisStats(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, apierror.OK(resp))
}

// Ledger godoc
// @Summary Vue caisse: paiements et dépenses fusionnés chronologiquement
// @Tags caisse
// @Produce json
// @Security BearerAuth
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD"
// @Success 200 {object} dto.LedgerResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/caisse/ledger [get]
func (h *CaisseHandler) Ledger(c *gin.Context) {
	var filter dto.LedgerFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Ledger(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, apierror.OK(resp))
}

// CreateClosure godoc
// @Summary Clôture une période financière (opération irréversible)
// @Tags caisse
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateClosureRequest true "Période à clôturer"
// @Success 201 {object} dto.ClosureResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/caisse/closures [post]
func (h *CaisseHandler) CreateClosure(c *gin.Context) {
	var req dto.CreateClosureRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	employeeID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.CreateClosure(c.Request.Context(), employeeID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, apierror.OK(resp))
}

func (h *CaisseHandler) ListClosures(c *gin.Context) {
	resp, err := h.svc.ListClosures(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, apierror.OK(resp))
}
