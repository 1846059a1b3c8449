package service

import (
	"context"
	"errors"

	"gravoplus/internal/dto"
	"gravoplus/internal/model"
	"gravoplus/internal/repository"

	"github.com/google/uuid"
)

// CatalogService manages the pricing catalog: machines, materials and fixed
// services. Machine types form a closed set, one pricing row per type.
type CatalogService interface {
	CreateMachine(ctx context.Context, req dto.UpsertMachineRequest) (*dto.MachineResponse, error)
	ListMachines(ctx context.Context) ([]dto.MachineResponse, error)
	UpdateMachine(ctx context.Context, id uuid.UUID, req dto.UpsertMachineRequest) (*dto.MachineResponse, error)
	DeactivateMachine(ctx context.Context, id uuid.UUID) error

	CreateMaterial(ctx context.Context, req dto.UpsertMaterialRequest) (*dto.MaterialResponse, error)
	ListMaterials(ctx context.Context) ([]dto.MaterialResponse, error)
	UpdateMaterial(ctx context.Context, id uuid.UUID, req dto.UpsertMaterialRequest) (*dto.MaterialResponse, error)
	DeactivateMaterial(ctx context.Context, id uuid.UUID) error

	CreateFixedService(ctx context.Context, req dto.UpsertFixedServiceRequest) (*dto.FixedServiceResponse, error)
	ListFixedServices(ctx context.Context) ([]dto.FixedServiceResponse, error)
	UpdateFixedService(ctx context.Context, id uuid.UUID, req dto.UpsertFixedServiceRequest) (*dto.FixedServiceResponse, error)
	DeactivateFixedService(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	machines  repository.MachineRepository
	materials repository.MaterialRepository
	services  repository.FixedServiceRepository
}

func NewCatalogService(
	machines repository.MachineRepository,
	materials repository.MaterialRepository,
	services repository.FixedServiceRepository,
) CatalogService {
	return &catalogService{machines: machines, materials: materials, services: services}
}

// ─── Machines ────────────────────────────────────────────────────────────────

func (s *catalogService) CreateMachine(ctx context.Context, req dto.UpsertMachineRequest) (*dto.MachineResponse, error) {
	machineType := model.MachineType(req.Type)
	if !machineType.Valid() {
		return nil, errors.New("type de machine inconnu")
	}
	if _, err := s.machines.FindByType(ctx, machineType); err == nil {
		return nil, errors.New("une machine de ce type existe déjà")
	}
	m := &model.Machine{
		Type:       machineType,
		Name:       req.Name,
		MinuteRate: req.MinuteRate,
		MeterRate:  req.MeterRate,
		UnitRate:   req.UnitRate,
		Active:     true,
	}
	if err := s.machines.Create(ctx, m); err != nil {
		return nil, err
	}
	return machineToResponse(m), nil
}

func (s *catalogService) ListMachines(ctx context.Context) ([]dto.MachineResponse, error) {
	machines, err := s.machines.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MachineResponse, len(machines))
	for i := range machines {
		out[i] = *machineToResponse(&machines[i])
	}
	return out, nil
}

func (s *catalogService) UpdateMachine(ctx context.Context, id uuid.UUID, req dto.UpsertMachineRequest) (*dto.MachineResponse, error) {
	m, err := s.machines.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("machine introuvable")
	}
	// The type is fixed at creation; only the name and the rates move.
	m.Name = req.Name
	m.MinuteRate = req.MinuteRate
	m.MeterRate = req.MeterRate
	m.UnitRate = req.UnitRate
	if err := s.machines.Update(ctx, m); err != nil {
		return nil, err
	}
	return machineToResponse(m), nil
}

func (s *catalogService) DeactivateMachine(ctx context.Context, id uuid.UUID) error {
	if _, err := s.machines.FindByID(ctx, id); err != nil {
		return errors.New("machine introuvable")
	}
	return s.machines.Deactivate(ctx, id)
}

// ─── Materials ───────────────────────────────────────────────────────────────

func (s *catalogService) CreateMaterial(ctx context.Context, req dto.UpsertMaterialRequest) (*dto.MaterialResponse, error) {
	m := &model.Material{
		Name:             req.Name,
		SquareMeterPrice: req.SquareMeterPrice,
		MeterPrice:       req.MeterPrice,
		UnitPrice:        req.UnitPrice,
		Active:           true,
	}
	if err := s.materials.Create(ctx, m); err != nil {
		return nil, err
	}
	return materialToResponse(m), nil
}

func (s *catalogService) ListMaterials(ctx context.Context) ([]dto.MaterialResponse, error) {
	materials, err := s.materials.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MaterialResponse, len(materials))
	for i := range materials {
		out[i] = *materialToResponse(&materials[i])
	}
	return out, nil
}

func (s *catalogService) UpdateMaterial(ctx context.Context, id uuid.UUID, req dto.UpsertMaterialRequest) (*dto.MaterialResponse, error) {
	m, err := s.materials.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("matériau introuvable")
	}
	m.Name = req.Name
	m.SquareMeterPrice = req.SquareMeterPrice
	m.MeterPrice = req.MeterPrice
	m.UnitPrice = req.UnitPrice
	if err := s.materials.Update(ctx, m); err != nil {
		return nil, err
	}
	return materialToResponse(m), nil
}

func (s *catalogService) DeactivateMaterial(ctx context.Context, id uuid.UUID) error {
	if _, err := s.materials.FindByID(ctx, id); err != nil {
		return errors.New("matériau introuvable")
	}
	return s.materials.Deactivate(ctx, id)
}

// ─── Fixed services ──────────────────────────────────────────────────────────

func (s *catalogService) CreateFixedService(ctx context.Context, req dto.UpsertFixedServiceRequest) (*dto.FixedServiceResponse, error) {
	svc := &model.FixedService{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		IsActive:    true,
	}
	if err := s.services.Create(ctx, svc); err != nil {
		return nil, err
	}
	return fixedServiceToResponse(svc), nil
}

func (s *catalogService) ListFixedServices(ctx context.Context) ([]dto.FixedServiceResponse, error) {
	services, err := s.services.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.FixedServiceResponse, len(services))
	for i := range services {
		out[i] = *fixedServiceToResponse(&services[i])
	}
	return out, nil
}

func (s *catalogService) UpdateFixedService(ctx context.Context, id uuid.UUID, req dto.UpsertFixedServiceRequest) (*dto.FixedServiceResponse, error) {
	svc, err := s.services.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("service introuvable")
	}
	svc.Name = req.Name
	svc.Description = req.Description
	svc.Price = req.Price
	if err := s.services.Update(ctx, svc); err != nil {
		return nil, err
	}
	return fixedServiceToResponse(svc), nil
}

func (s *catalogService) DeactivateFixedService(ctx context.Context, id uuid.UUID) error {
	if _, err := s.services.FindByID(ctx, id); err != nil {
		return errors.New("service introuvable")
	}
	return s.services.Deactivate(ctx, id)
}

func machineToResponse(m *model.Machine) *dto.MachineResponse {
	return &dto.MachineResponse{
		ID:         m.ID.String(),
		Type:       string(m.Type),
		TypeLabel:  m.Type.Label(),
		Name:       m.Name,
		MinuteRate: m.MinuteRate,
		MeterRate:  m.MeterRate,
		UnitRate:   m.UnitRate,
		Active:     m.Active,
	}
}

func materialToResponse(m *model.Material) *dto.MaterialResponse {
	return &dto.MaterialResponse{
		ID:               m.ID.String(),
		Name:             m.Name,
		SquareMeterPrice: m.SquareMeterPrice,
		MeterPrice:       m.MeterPrice,
		UnitPrice:        m.UnitPrice,
		Active:           m.Active,
	}
}

func fixedServiceToResponse(s *model.FixedService) *dto.FixedServiceResponse {
	return &dto.FixedServiceResponse{
		ID:          s.ID.String(),
		Name:        s.Name,
		Description: s.Description,
		Price:       s.Price,
		IsActive:    s.IsActive,
	}
}
