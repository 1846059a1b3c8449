package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gravoplus/internal/dto"
	"gravoplus/internal/model"
	"gravoplus/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DevisService interface {
	Create(ctx context.Context, employeeID uuid.UUID, req dto.CreateDevisRequest) (*dto.DevisResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.DevisResponse, error)
	List(ctx context.Context, filter dto.DevisFilter) (*dto.DevisListResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error

	AddLine(ctx context.Context, devisID uuid.UUID, req dto.AddDevisLineRequest) (*dto.DevisResponse, error)
	RemoveLine(ctx context.Context, devisID, lineID uuid.UUID) (*dto.DevisResponse, error)
	ToggleService(ctx context.Context, devisID uuid.UUID, req dto.ToggleDevisServiceRequest) (*dto.DevisResponse, error)

	Validate(ctx context.Context, devisID, employeeID uuid.UUID) (*dto.DevisResponse, error)
	Cancel(ctx context.Context, devisID, employeeID uuid.UUID) (*dto.DevisResponse, error)
}

type devisService struct {
	repo         repository.DevisRepository
	clientRepo   repository.ClientRepository
	machineRepo  repository.MachineRepository
	materialRepo repository.MaterialRepository
	serviceRepo  repository.FixedServiceRepository
	notifier     NotificationService
}

func NewDevisService(
	repo repository.DevisRepository,
	clientRepo repository.ClientRepository,
	machineRepo repository.MachineRepository,
	materialRepo repository.MaterialRepository,
	serviceRepo repository.FixedServiceRepository,
	notifier NotificationService,
) DevisService {
	return &devisService{
		repo:         repo,
		clientRepo:   clientRepo,
		machineRepo:  machineRepo,
		materialRepo: materialRepo,
		serviceRepo:  serviceRepo,
		notifier:     notifier,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Create / Get / List / Delete ─────────────────────────────────────────────

func (s *devisService) Create(ctx context.Context, employeeID uuid.UUID, req dto.CreateDevisRequest) (*dto.DevisResponse, error) {
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return nil, fmt.Errorf("client_id invalide: %w", err)
	}
	if _, err := s.clientRepo.FindByID(ctx, clientID); err != nil {
		return nil, errors.New("client introuvable")
	}

	var devis model.Devis
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		num, err := s.repo.NextReference(ctx, tx)
		if err != nil {
			return err
		}
		devis = model.Devis{
			Reference:   fmt.Sprintf("DEV-%d-%04d", time.Now().Year(), num),
			Status:      model.StatusDraft,
			ClientID:    clientID,
			CreatedByID: employeeID,
			Notes:       req.Notes,
		}
		return s.repo.CreateTx(tx, &devis)
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.Get(ctx, devis.ID)
}

func (s *devisService) Get(ctx context.Context, id uuid.UUID) (*dto.DevisResponse, error) {
	devis, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("devis introuvable")
	}
	return devisToResponse(devis), nil
}

func (s *devisService) List(ctx context.Context, filter dto.DevisFilter) (*dto.DevisListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	if err := validateDateRange(filter.From, filter.To); err != nil {
		return nil, err
	}
	if filter.Status != "" && filter.Status != "all" && !model.DevisStatus(filter.Status).Valid() {
		return nil, fmt.Errorf("statut inconnu: %s", filter.Status)
	}
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.DevisResponse, 0, len(items))
	for i := range items {
		data = append(data, *devisToResponse(&items[i]))
	}
	return &dto.DevisListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// Delete removes a devis. Only drafts can be deleted — a validated or
// invoiced devis is part of the financial trail.
func (s *devisService) Delete(ctx context.Context, id uuid.UUID) error {
	devis, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("devis introuvable")
	}
	if devis.Status != model.StatusDraft {
		return errors.New("seul un devis en brouillon peut être supprimé")
	}
	return s.repo.Delete(ctx, id)
}

// ── Line composer ────────────────────────────────────────────────────────────

// AddLine resolves the catalog records the machine-type schema asks for,
// composes and prices the line, and recomputes the devis total — all in one
// transaction. The devis must be DRAFT.
func (s *devisService) AddLine(ctx context.Context, devisID uuid.UUID, req dto.AddDevisLineRequest) (*dto.DevisResponse, error) {
	devis, err := s.repo.FindByID(ctx, devisID)
	if err != nil {
		return nil, errors.New("devis introuvable")
	}
	if devis.Status != model.StatusDraft {
		return nil, errors.New("les lignes ne sont modifiables que sur un devis en brouillon")
	}

	rates, err := s.resolveRates(ctx, req)
	if err != nil {
		return nil, err
	}
	line, err := composeLine(req, rates)
	if err != nil {
		return nil, err
	}
	line.DevisID = devisID

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateLineTx(tx, line); err != nil {
			return err
		}
		return s.refreshTotalTx(tx, devisID)
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.Get(ctx, devisID)
}

func (s *devisService) RemoveLine(ctx context.Context, devisID, lineID uuid.UUID) (*dto.DevisResponse, error) {
	devis, err := s.repo.FindByID(ctx, devisID)
	if err != nil {
		return nil, errors.New("devis introuvable")
	}
	if devis.Status != model.StatusDraft {
		return nil, errors.New("les lignes ne sont modifiables que sur un devis en brouillon")
	}
	if _, err := s.repo.FindLine(ctx, devisID, lineID); err != nil {
		return nil, errors.New("ligne introuvable")
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.DeleteLineTx(tx, lineID); err != nil {
			return err
		}
		return s.refreshTotalTx(tx, devisID)
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.Get(ctx, devisID)
}

// resolveRates fetches exactly the catalog records the machine type needs.
func (s *devisService) resolveRates(ctx context.Context, req dto.AddDevisLineRequest) (lineRates, error) {
	var rates lineRates
	machineType := model.MachineType(req.MachineType)

	switch machineType {
	case model.MachineCNC, model.MachineLaser, model.MachineChamps,
		model.MachinePliage, model.MachinePanneaux:
		machine, err := s.machineRepo.FindByType(ctx, machineType)
		if err != nil {
			return rates, errors.New("aucune machine configurée pour ce type")
		}
		rates.machine = machine
	}

	wantsMaterial := req.MaterialID != nil &&
		machineType != model.MachineCustom &&
		!(machineType == model.MachineMaintenance && model.MaintenanceMode(req.MaintenanceMode) != model.MaintenanceMaterial)
	if wantsMaterial {
		materialID, err := uuid.Parse(*req.MaterialID)
		if err != nil {
			return rates, fmt.Errorf("material_id invalide: %w", err)
		}
		material, err := s.materialRepo.FindByID(ctx, materialID)
		if err != nil {
			return rates, errors.New("matériau introuvable")
		}
		rates.material = material
	}

	if req.ServiceID != nil && machineType == model.MachineMaintenance &&
		model.MaintenanceMode(req.MaintenanceMode) == model.MaintenanceService {
		serviceID, err := uuid.Parse(*req.ServiceID)
		if err != nil {
			return rates, fmt.Errorf("service_id invalide: %w", err)
		}
		svc, err := s.serviceRepo.FindByID(ctx, serviceID)
		if err != nil {
			return rates, errors.New("service introuvable")
		}
		rates.service = svc
	}

	return rates, nil
}

func (s *devisService) refreshTotalTx(tx *gorm.DB, devisID uuid.UUID) error {
	total, err := s.repo.SumItemsTx(tx, devisID)
	if err != nil {
		return err
	}
	return s.repo.UpdateTotalTx(tx, devisID, total)
}

// ── Service toggle ───────────────────────────────────────────────────────────

// ToggleService attaches the fixed service if absent, detaches it if present.
// The attach captures a price snapshot; only active services can be attached.
func (s *devisService) ToggleService(ctx context.Context, devisID uuid.UUID, req dto.ToggleDevisServiceRequest) (*dto.DevisResponse, error) {
	devis, err := s.repo.FindByID(ctx, devisID)
	if err != nil {
		return nil, errors.New("devis introuvable")
	}
	if devis.Status != model.StatusDraft {
		return nil, errors.New("les services ne sont modifiables que sur un devis en brouillon")
	}
	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("service_id invalide: %w", err)
	}

	// Only a definite "not attached" may fall through to the attach branch: a
	// transient lookup failure must not attach a duplicate snapshot.
	existing, err := s.repo.FindServiceItem(ctx, devisID, serviceID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	attached := err == nil && existing != nil

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if attached {
			if err := s.repo.DeleteServiceItemTx(tx, existing.ID); err != nil {
				return err
			}
		} else {
			svc, err := s.serviceRepo.FindByID(ctx, serviceID)
			if err != nil {
				return errors.New("service introuvable")
			}
			if !svc.IsActive {
				return errors.New("ce service n'est plus actif")
			}
			item := &model.DevisServiceItem{
				DevisID:   devisID,
				ServiceID: serviceID,
				Price:     svc.Price,
			}
			if err := s.repo.CreateServiceItemTx(tx, item); err != nil {
				return err
			}
		}
		return s.refreshTotalTx(tx, devisID)
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.Get(ctx, devisID)
}

// ── Status transitions ───────────────────────────────────────────────────────

// Validate moves DRAFT → VALIDATED. Any other source status is rejected; the
// transition table in model.DevisStatus is the single authority.
func (s *devisService) Validate(ctx context.Context, devisID, employeeID uuid.UUID) (*dto.DevisResponse, error) {
	resp, err := s.transition(ctx, devisID, model.StatusValidated)
	if err != nil {
		return nil, err
	}
	s.notifier.Emit(ctx, "devis_validated", "Devis validé",
		fmt.Sprintf("Le devis %s a été validé", resp.Reference), &employeeID)
	return resp, nil
}

// Cancel moves DRAFT → CANCELLED. There is no un-cancel.
func (s *devisService) Cancel(ctx context.Context, devisID, employeeID uuid.UUID) (*dto.DevisResponse, error) {
	resp, err := s.transition(ctx, devisID, model.StatusCancelled)
	if err != nil {
		return nil, err
	}
	s.notifier.Emit(ctx, "devis_cancelled", "Devis annulé",
		fmt.Sprintf("Le devis %s a été annulé", resp.Reference), &employeeID)
	return resp, nil
}

func (s *devisService) transition(ctx context.Context, devisID uuid.UUID, to model.DevisStatus) (*dto.DevisResponse, error) {
	devis, err := s.repo.FindByID(ctx, devisID)
	if err != nil {
		return nil, errors.New("devis introuvable")
	}
	if !devis.Status.CanTransition(to) {
		return nil, fmt.Errorf("transition interdite: %s → %s", devis.Status, to)
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.UpdateStatusTx(tx, devisID, to)
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.Get(ctx, devisID)
}

// ── Mapping ──────────────────────────────────────────────────────────────────

func devisToResponse(d *model.Devis) *dto.DevisResponse {
	lines := make([]dto.DevisLineResponse, 0, len(d.Lines))
	for i := range d.Lines {
		lines = append(lines, lineToResponse(&d.Lines[i]))
	}
	services := make([]dto.DevisServiceItemResponse, 0, len(d.Services))
	for _, item := range d.Services {
		name := ""
		if item.Service != nil {
			name = item.Service.Name
		}
		services = append(services, dto.DevisServiceItemResponse{
			ID:        item.ID.String(),
			ServiceID: item.ServiceID.String(),
			Name:      name,
			Price:     item.Price,
		})
	}

	resp := &dto.DevisResponse{
		ID:          d.ID.String(),
		Reference:   d.Reference,
		Status:      string(d.Status),
		StatusLabel: d.Status.Label(),
		TotalAmount: d.TotalAmount,
		ClientID:    d.ClientID.String(),
		CreatedBy:   d.CreatedByID.String(),
		Notes:       d.Notes,
		Lines:       lines,
		Services:    services,
		CreatedAt:   d.CreatedAt.UTC().Format(time.RFC3339),
	}
	if d.Client != nil {
		resp.Client = clientToResponse(d.Client)
	}
	if d.Invoice != nil {
		resp.Invoice = &dto.InvoiceSummary{
			ID:          d.Invoice.ID.String(),
			Reference:   d.Invoice.Reference,
			TotalAmount: d.Invoice.TotalAmount,
			CreatedAt:   d.Invoice.CreatedAt.UTC().Format(time.RFC3339),
		}
	}
	return resp
}

func lineToResponse(l *model.DevisLine) dto.DevisLineResponse {
	resp := dto.DevisLineResponse{
		ID:           l.ID.String(),
		MachineType:  string(l.MachineType),
		MachineLabel: l.MachineType.Label(),
		Description:  l.Description,
		Minutes:      l.Minutes,
		Meters:       l.Meters,
		Quantity:     l.Quantity,
		Width:        l.Width,
		Height:       l.Height,
		UnitPrice:    l.UnitPrice,
		LineTotal:    l.LineTotal,
	}
	if l.DimensionUnit != nil {
		u := string(*l.DimensionUnit)
		resp.DimensionUnit = &u
	}
	if l.MaterialID != nil {
		id := l.MaterialID.String()
		resp.MaterialID = &id
		if l.Material != nil {
			resp.MaterialName = &l.Material.Name
		}
	}
	if l.ServiceID != nil {
		id := l.ServiceID.String()
		resp.ServiceID = &id
	}
	return resp
}

// validateDateRange rejects from > to; empty bounds mean "no filter".
func validateDateRange(from, to string) error {
	if from == "" || to == "" {
		return nil
	}
	f, err := time.Parse("2006-01-02", from)
	if err != nil {
		return fmt.Errorf("date de début invalide: %w", err)
	}
	t, err := time.Parse("2006-01-02", to)
	if err != nil {
		return fmt.Errorf("date de fin invalide: %w", err)
	}
	if f.After(t) {
		return errors.New("la date de début doit précéder la date de fin")
	}
	return nil
}
