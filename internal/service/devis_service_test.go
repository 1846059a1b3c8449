package service

// Workflow tests for DevisService: DRAFT-only mutations, total recomputation,
// the service toggle and the status transition table.

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"gravoplus/internal/dto"
	"gravoplus/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type devisFixture struct {
	svc       DevisService
	repo      *stubDevisRepo
	clients   *stubClientRepo
	machines  *stubMachineRepo
	materials *stubMaterialRepo
	services  *stubFixedServiceRepo
	notifier  *spyNotifier

	client   *model.Client
	employee uuid.UUID
}

func newDevisFixture(t *testing.T) *devisFixture {
	t.Helper()
	f := &devisFixture{
		repo:      newStubDevisRepo(),
		clients:   newStubClientRepo(),
		machines:  newStubMachineRepo(),
		materials: newStubMaterialRepo(),
		services:  newStubFixedServiceRepo(),
		notifier:  &spyNotifier{},
		employee:  uuid.New(),
	}
	f.svc = NewDevisService(f.repo, f.clients, f.machines, f.materials, f.services, f.notifier)

	f.client = &model.Client{Name: "Atelier Dupont"}
	require.NoError(t, f.clients.Create(context.Background(), f.client))
	return f
}

func (f *devisFixture) createDraft(t *testing.T) *dto.DevisResponse {
	t.Helper()
	resp, err := f.svc.Create(context.Background(), f.employee, dto.CreateDevisRequest{
		ClientID: f.client.ID.String(),
	})
	require.NoError(t, err)
	return resp
}

func TestDevisCreate(t *testing.T) {
	f := newDevisFixture(t)
	resp := f.createDraft(t)

	assert.Equal(t, string(model.StatusDraft), resp.Status)
	assert.Equal(t, "Brouillon", resp.StatusLabel)
	assert.Equal(t, fmt.Sprintf("DEV-%d-0001", time.Now().Year()), resp.Reference)
	assert.True(t, resp.TotalAmount.IsZero())

	second := f.createDraft(t)
	assert.Equal(t, fmt.Sprintf("DEV-%d-0002", time.Now().Year()), second.Reference)
}

func TestDevisCreate_UnknownClient(t *testing.T) {
	f := newDevisFixture(t)
	_, err := f.svc.Create(context.Background(), f.employee, dto.CreateDevisRequest{
		ClientID: uuid.NewString(),
	})
	require.EqualError(t, err, "client introuvable")
}

func TestDevisAddLine_RecomputesTotal(t *testing.T) {
	f := newDevisFixture(t)
	f.machines.add(model.Machine{Type: model.MachineChamps, Name: "Champs", MeterRate: dec("4")})
	draft := f.createDraft(t)
	devisID := uuid.MustParse(draft.ID)

	resp, err := f.svc.AddLine(context.Background(), devisID, dto.AddDevisLineRequest{
		MachineType: "CHAMPS",
		Meters:      decPtr("3"),
	})
	require.NoError(t, err)
	require.Len(t, resp.Lines, 1)
	assert.True(t, resp.TotalAmount.Equal(dec("12")), "got %s", resp.TotalAmount)

	resp, err = f.svc.AddLine(context.Background(), devisID, dto.AddDevisLineRequest{
		MachineType: "CHAMPS",
		Meters:      decPtr("1"),
	})
	require.NoError(t, err)
	assert.True(t, resp.TotalAmount.Equal(dec("16")))

	removed, err := f.svc.RemoveLine(context.Background(), devisID, uuid.MustParse(resp.Lines[0].ID))
	require.NoError(t, err)
	require.Len(t, removed.Lines, 1)
	assert.True(t, removed.TotalAmount.Equal(dec("4")))
}

func TestDevisAddLine_ResolvesCatalogRates(t *testing.T) {
	f := newDevisFixture(t)
	f.machines.add(model.Machine{Type: model.MachineLaser, Name: "Laser", MinuteRate: dec("3")})
	material := f.materials.add(model.Material{Name: "Plexiglass", SquareMeterPrice: dec("120")})
	draft := f.createDraft(t)

	materialID := material.ID.String()
	resp, err := f.svc.AddLine(context.Background(), uuid.MustParse(draft.ID), dto.AddDevisLineRequest{
		MachineType:   "LASER",
		Minutes:       decPtr("10"),
		Width:         decPtr("50"),
		Height:        decPtr("20"),
		DimensionUnit: "cm",
		MaterialID:    &materialID,
	})
	require.NoError(t, err)
	assert.True(t, resp.TotalAmount.Equal(dec("42")), "got %s", resp.TotalAmount)
}

func TestDevisAddLine_NoMachineConfigured(t *testing.T) {
	f := newDevisFixture(t)
	draft := f.createDraft(t)

	_, err := f.svc.AddLine(context.Background(), uuid.MustParse(draft.ID), dto.AddDevisLineRequest{
		MachineType: "CHAMPS",
		Meters:      decPtr("1"),
	})
	require.EqualError(t, err, "aucune machine configurée pour ce type")
}

func TestDevisMutations_RejectedOutsideDraft(t *testing.T) {
	f := newDevisFixture(t)
	f.machines.add(model.Machine{Type: model.MachineChamps, MeterRate: dec("4")})
	draft := f.createDraft(t)
	devisID := uuid.MustParse(draft.ID)

	_, err := f.svc.Validate(context.Background(), devisID, f.employee)
	require.NoError(t, err)

	_, err = f.svc.AddLine(context.Background(), devisID, dto.AddDevisLineRequest{
		MachineType: "CHAMPS",
		Meters:      decPtr("1"),
	})
	require.EqualError(t, err, "les lignes ne sont modifiables que sur un devis en brouillon")

	_, err = f.svc.RemoveLine(context.Background(), devisID, uuid.New())
	require.EqualError(t, err, "les lignes ne sont modifiables que sur un devis en brouillon")

	_, err = f.svc.ToggleService(context.Background(), devisID, dto.ToggleDevisServiceRequest{
		ServiceID: uuid.NewString(),
	})
	require.EqualError(t, err, "les services ne sont modifiables que sur un devis en brouillon")
}

func TestDevisToggleService(t *testing.T) {
	f := newDevisFixture(t)
	fixed := f.services.add(model.FixedService{Name: "Pose", Price: dec("25"), IsActive: true})
	draft := f.createDraft(t)
	devisID := uuid.MustParse(draft.ID)

	resp, err := f.svc.ToggleService(context.Background(), devisID, dto.ToggleDevisServiceRequest{
		ServiceID: fixed.ID.String(),
	})
	require.NoError(t, err)
	require.Len(t, resp.Services, 1)
	assert.True(t, resp.Services[0].Price.Equal(dec("25")), "price snapshot at attach time")
	assert.True(t, resp.TotalAmount.Equal(dec("25")))

	// catalog price change must not reprice the attached snapshot
	fixed.Price = dec("99")
	require.NoError(t, f.services.Update(context.Background(), fixed))
	got, err := f.svc.Get(context.Background(), devisID)
	require.NoError(t, err)
	assert.True(t, got.Services[0].Price.Equal(dec("25")))

	// second toggle detaches
	resp, err = f.svc.ToggleService(context.Background(), devisID, dto.ToggleDevisServiceRequest{
		ServiceID: fixed.ID.String(),
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Services)
	assert.True(t, resp.TotalAmount.IsZero())
}

// flakyServiceItemRepo fails the next FindServiceItem lookup, then recovers.
type flakyServiceItemRepo struct {
	*stubDevisRepo
	failNext bool
}

func (r *flakyServiceItemRepo) FindServiceItem(ctx context.Context, devisID, serviceID uuid.UUID) (*model.DevisServiceItem, error) {
	if r.failNext {
		r.failNext = false
		return nil, errors.New("driver: bad connection")
	}
	return r.stubDevisRepo.FindServiceItem(ctx, devisID, serviceID)
}

func TestDevisToggleService_LookupFailureDoesNotAttach(t *testing.T) {
	f := newDevisFixture(t)
	flaky := &flakyServiceItemRepo{stubDevisRepo: f.repo}
	svc := NewDevisService(flaky, f.clients, f.machines, f.materials, f.services, f.notifier)

	fixed := f.services.add(model.FixedService{Name: "Pose", Price: dec("30"), IsActive: true})
	draft := f.createDraft(t)
	devisID := uuid.MustParse(draft.ID)

	_, err := svc.ToggleService(context.Background(), devisID, dto.ToggleDevisServiceRequest{
		ServiceID: fixed.ID.String(),
	})
	require.NoError(t, err)

	// a failed lookup on the detach toggle must surface, not attach a duplicate
	flaky.failNext = true
	_, err = svc.ToggleService(context.Background(), devisID, dto.ToggleDevisServiceRequest{
		ServiceID: fixed.ID.String(),
	})
	require.EqualError(t, err, "driver: bad connection")

	got, err := svc.Get(context.Background(), devisID)
	require.NoError(t, err)
	require.Len(t, got.Services, 1)
	assert.True(t, got.TotalAmount.Equal(dec("30")), "got %s", got.TotalAmount)
}

func TestDevisToggleService_InactiveRejected(t *testing.T) {
	f := newDevisFixture(t)
	fixed := f.services.add(model.FixedService{Name: "Ancien service", Price: dec("10"), IsActive: false})
	draft := f.createDraft(t)

	_, err := f.svc.ToggleService(context.Background(), uuid.MustParse(draft.ID), dto.ToggleDevisServiceRequest{
		ServiceID: fixed.ID.String(),
	})
	require.EqualError(t, err, "ce service n'est plus actif")
}

func TestDevisTransitions(t *testing.T) {
	f := newDevisFixture(t)
	ctx := context.Background()

	t.Run("validate then notify", func(t *testing.T) {
		draft := f.createDraft(t)
		resp, err := f.svc.Validate(ctx, uuid.MustParse(draft.ID), f.employee)
		require.NoError(t, err)
		assert.Equal(t, string(model.StatusValidated), resp.Status)

		require.NotEmpty(t, f.notifier.emitted)
		last := f.notifier.emitted[len(f.notifier.emitted)-1]
		assert.Equal(t, "devis_validated", last.Type)
		assert.Contains(t, last.Message, draft.Reference)
	})

	t.Run("validate twice rejected", func(t *testing.T) {
		draft := f.createDraft(t)
		id := uuid.MustParse(draft.ID)
		_, err := f.svc.Validate(ctx, id, f.employee)
		require.NoError(t, err)
		_, err = f.svc.Validate(ctx, id, f.employee)
		require.EqualError(t, err, "transition interdite: VALIDATED → VALIDATED")
	})

	t.Run("cancel draft", func(t *testing.T) {
		draft := f.createDraft(t)
		resp, err := f.svc.Cancel(ctx, uuid.MustParse(draft.ID), f.employee)
		require.NoError(t, err)
		assert.Equal(t, string(model.StatusCancelled), resp.Status)
	})

	t.Run("cancel validated rejected", func(t *testing.T) {
		draft := f.createDraft(t)
		id := uuid.MustParse(draft.ID)
		_, err := f.svc.Validate(ctx, id, f.employee)
		require.NoError(t, err)
		_, err = f.svc.Cancel(ctx, id, f.employee)
		require.EqualError(t, err, "transition interdite: VALIDATED → CANCELLED")
	})
}

func TestDevisDelete_OnlyDrafts(t *testing.T) {
	f := newDevisFixture(t)
	ctx := context.Background()

	draft := f.createDraft(t)
	require.NoError(t, f.svc.Delete(ctx, uuid.MustParse(draft.ID)))
	_, err := f.svc.Get(ctx, uuid.MustParse(draft.ID))
	require.EqualError(t, err, "devis introuvable")

	validated := f.createDraft(t)
	_, err = f.svc.Validate(ctx, uuid.MustParse(validated.ID), f.employee)
	require.NoError(t, err)
	err = f.svc.Delete(ctx, uuid.MustParse(validated.ID))
	require.EqualError(t, err, "seul un devis en brouillon peut être supprimé")
}

func TestDevisList_RejectsUnknownStatus(t *testing.T) {
	f := newDevisFixture(t)
	_, err := f.svc.List(context.Background(), dto.DevisFilter{Status: "OPEN", Page: 1, Limit: 10})
	require.EqualError(t, err, "statut inconnu: OPEN")
}
