package service

// Tests for the line composer: one pricing formula and one closed field
// schema per machine type, plus the CUSTOM description flattening.

import (
	"testing"

	"gravoplus/internal/dto"
	"gravoplus/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cncMachine() *model.Machine {
	return &model.Machine{Type: model.MachineCNC, Name: "CNC", MinuteRate: dec("2.50")}
}

func TestComposeLine_CNCMinutesOnly(t *testing.T) {
	req := dto.AddDevisLineRequest{
		MachineType: "CNC",
		Minutes:     decPtr("30"),
		Width:       decPtr("1"),
		Height:      decPtr("1"),
	}
	line, err := composeLine(req, lineRates{machine: cncMachine()})
	require.NoError(t, err)

	assert.Equal(t, model.MachineCNC, line.MachineType)
	assert.True(t, line.LineTotal.Equal(dec("75")), "30 min × 2.50 = 75, got %s", line.LineTotal)
	require.NotNil(t, line.DimensionUnit)
	assert.Equal(t, model.UnitMeter, *line.DimensionUnit, "unit defaults to meters")
	assert.Nil(t, line.MaterialID)
}

func TestComposeLine_LaserWithMaterialInCentimeters(t *testing.T) {
	material := &model.Material{Name: "Plexiglass", SquareMeterPrice: dec("120")}
	material.ID = uuid.New()
	req := dto.AddDevisLineRequest{
		MachineType:   "LASER",
		Minutes:       decPtr("10"),
		Width:         decPtr("50"),
		Height:        decPtr("20"),
		DimensionUnit: "cm",
	}
	machine := &model.Machine{Type: model.MachineLaser, MinuteRate: dec("3")}

	line, err := composeLine(req, lineRates{machine: machine, material: material})
	require.NoError(t, err)

	// 10 min × 3 + (50×20 cm² = 0.1 m²) × 120 = 30 + 12
	assert.True(t, line.LineTotal.Equal(dec("42")), "got %s", line.LineTotal)
	require.NotNil(t, line.MaterialID)
	assert.Equal(t, material.ID, *line.MaterialID)
	require.NotNil(t, line.DimensionUnit)
	assert.Equal(t, model.UnitCentimeter, *line.DimensionUnit)
}

func TestComposeLine_CNCRequiresMinutesAndDimensions(t *testing.T) {
	_, err := composeLine(dto.AddDevisLineRequest{MachineType: "CNC", Width: decPtr("1"), Height: decPtr("1")},
		lineRates{machine: cncMachine()})
	require.EqualError(t, err, "le champ minutes est requis")

	_, err = composeLine(dto.AddDevisLineRequest{MachineType: "CNC", Minutes: decPtr("5"), Width: decPtr("1")},
		lineRates{machine: cncMachine()})
	require.EqualError(t, err, "les champs largeur et hauteur sont requis")
}

func TestComposeLine_ChampsBillsMeters(t *testing.T) {
	machine := &model.Machine{Type: model.MachineChamps, MeterRate: dec("4")}
	line, err := composeLine(dto.AddDevisLineRequest{MachineType: "CHAMPS", Meters: decPtr("3.5")},
		lineRates{machine: machine})
	require.NoError(t, err)
	assert.True(t, line.LineTotal.Equal(dec("14")), "3.5 m × 4 = 14, got %s", line.LineTotal)

	_, err = composeLine(dto.AddDevisLineRequest{MachineType: "CHAMPS"}, lineRates{machine: machine})
	require.EqualError(t, err, "le champ mètres est requis")
}

func TestComposeLine_ChampsDropsOutOfSchemaFields(t *testing.T) {
	machine := &model.Machine{Type: model.MachineChamps, MeterRate: dec("4")}
	req := dto.AddDevisLineRequest{
		MachineType: "CHAMPS",
		Meters:      decPtr("2"),
		// outside the CHAMPS schema, must not leak into the stored line
		Minutes:  decPtr("99"),
		Width:    decPtr("7"),
		Height:   decPtr("7"),
		Quantity: decPtr("7"),
	}
	line, err := composeLine(req, lineRates{machine: machine})
	require.NoError(t, err)

	assert.Nil(t, line.Minutes)
	assert.Nil(t, line.Width)
	assert.Nil(t, line.Height)
	assert.Nil(t, line.Quantity)
	assert.True(t, line.LineTotal.Equal(dec("8")))
}

func TestComposeLine_PliageCombinesMachineAndMaterialMeters(t *testing.T) {
	machine := &model.Machine{Type: model.MachinePliage, MeterRate: dec("5")}
	material := &model.Material{Name: "Tôle", MeterPrice: dec("1.50")}
	material.ID = uuid.New()

	req := dto.AddDevisLineRequest{
		MachineType: "PLIAGE",
		Meters:      decPtr("2"),
		Quantity:    decPtr("3"),
	}
	line, err := composeLine(req, lineRates{machine: machine, material: material})
	require.NoError(t, err)

	// 2 m machine × 5 + 3 m material × 1.50 = 10 + 4.50
	assert.True(t, line.LineTotal.Equal(dec("14.50")), "got %s", line.LineTotal)

	_, err = composeLine(req, lineRates{machine: machine})
	require.EqualError(t, err, "le matériau est requis")
}

func TestComposeLine_PanneauxBillsUnits(t *testing.T) {
	machine := &model.Machine{Type: model.MachinePanneaux, UnitRate: dec("7")}
	line, err := composeLine(dto.AddDevisLineRequest{MachineType: "PANNEAUX", Quantity: decPtr("4")},
		lineRates{machine: machine})
	require.NoError(t, err)
	assert.True(t, line.LineTotal.Equal(dec("28")))
}

func TestComposeLine_MaintenanceModes(t *testing.T) {
	material := &model.Material{Name: "Courroie", UnitPrice: dec("10")}
	material.ID = uuid.New()
	fixed := &model.FixedService{Name: "Révision", Price: dec("15")}
	fixed.ID = uuid.New()

	t.Run("manual", func(t *testing.T) {
		line, err := composeLine(dto.AddDevisLineRequest{
			MachineType:     "SERVICE_MAINTENANCE",
			MaintenanceMode: "manual",
			UnitPrice:       decPtr("99.90"),
		}, lineRates{})
		require.NoError(t, err)
		assert.True(t, line.LineTotal.Equal(dec("99.90")))
	})

	t.Run("material", func(t *testing.T) {
		line, err := composeLine(dto.AddDevisLineRequest{
			MachineType:     "SERVICE_MAINTENANCE",
			MaintenanceMode: "material",
			Quantity:        decPtr("2"),
		}, lineRates{material: material})
		require.NoError(t, err)
		assert.True(t, line.LineTotal.Equal(dec("20")))
		require.NotNil(t, line.MaterialID)
	})

	t.Run("service", func(t *testing.T) {
		line, err := composeLine(dto.AddDevisLineRequest{
			MachineType:     "SERVICE_MAINTENANCE",
			MaintenanceMode: "service",
			Quantity:        decPtr("3"),
		}, lineRates{service: fixed})
		require.NoError(t, err)
		assert.True(t, line.LineTotal.Equal(dec("45")))
		require.NotNil(t, line.ServiceID)
		assert.Equal(t, fixed.ID, *line.ServiceID)
	})

	t.Run("missing mode", func(t *testing.T) {
		_, err := composeLine(dto.AddDevisLineRequest{MachineType: "SERVICE_MAINTENANCE"}, lineRates{})
		require.EqualError(t, err, "le mode de maintenance est requis (manual, material ou service)")
	})

	t.Run("manual without price", func(t *testing.T) {
		_, err := composeLine(dto.AddDevisLineRequest{
			MachineType:     "SERVICE_MAINTENANCE",
			MaintenanceMode: "manual",
		}, lineRates{})
		require.EqualError(t, err, "le prix unitaire est requis en mode manuel")
	})
}

func TestComposeLine_VenteMateriauBillsSurface(t *testing.T) {
	material := &model.Material{Name: "Aluminium", SquareMeterPrice: dec("40")}
	material.ID = uuid.New()

	line, err := composeLine(dto.AddDevisLineRequest{
		MachineType: "VENTE_MATERIAU",
		Width:       decPtr("2"),
		Height:      decPtr("1.5"),
	}, lineRates{material: material})
	require.NoError(t, err)
	// 2 × 1.5 = 3 m² × 40
	assert.True(t, line.LineTotal.Equal(dec("120")))

	_, err = composeLine(dto.AddDevisLineRequest{MachineType: "VENTE_MATERIAU", Width: decPtr("1"), Height: decPtr("1")},
		lineRates{})
	require.EqualError(t, err, "le matériau est requis")
}

func TestComposeLine_CustomQuantityTimesUnitPrice(t *testing.T) {
	line, err := composeLine(dto.AddDevisLineRequest{
		MachineType: "CUSTOM",
		Quantity:    decPtr("3"),
		UnitPrice:   decPtr("9.99"),
	}, lineRates{})
	require.NoError(t, err)
	assert.True(t, line.LineTotal.Equal(dec("29.97")))
}

func TestComposeLine_CustomFlattensFieldsIntoDescription(t *testing.T) {
	line, err := composeLine(dto.AddDevisLineRequest{
		MachineType: "CUSTOM",
		Description: "Gravure",
		Quantity:    decPtr("1"),
		UnitPrice:   decPtr("10"),
		CustomFields: []dto.CustomField{
			{Name: "Couleur", Value: "Rouge"},
			{Name: "Taille", Value: ""},
		},
	}, lineRates{})
	require.NoError(t, err)
	require.NotNil(t, line.Description)
	assert.Equal(t, "Gravure (Couleur: Rouge)", *line.Description)
}

func TestComposeLine_UnknownTypeAndUnit(t *testing.T) {
	_, err := composeLine(dto.AddDevisLineRequest{MachineType: "FRAISEUSE"}, lineRates{})
	require.EqualError(t, err, "type de machine inconnu: FRAISEUSE")

	_, err = composeLine(dto.AddDevisLineRequest{
		MachineType:   "CNC",
		Minutes:       decPtr("5"),
		Width:         decPtr("1"),
		Height:        decPtr("1"),
		DimensionUnit: "mm",
	}, lineRates{machine: cncMachine()})
	require.EqualError(t, err, "unité de dimension inconnue: mm")
}

func TestComposeLine_TotalRoundedToCents(t *testing.T) {
	machine := &model.Machine{Type: model.MachineCNC, MinuteRate: dec("0.333")}
	line, err := composeLine(dto.AddDevisLineRequest{
		MachineType: "CNC",
		Minutes:     decPtr("10"),
		Width:       decPtr("1"),
		Height:      decPtr("1"),
	}, lineRates{machine: machine})
	require.NoError(t, err)
	// 10 × 0.333 = 3.33
	assert.True(t, line.LineTotal.Equal(dec("3.33")), "got %s", line.LineTotal)
}

func TestFlattenCustomFields(t *testing.T) {
	cases := []struct {
		name   string
		base   string
		fields []dto.CustomField
		want   string
	}{
		{"no fields keeps base", "Gravure", nil, "Gravure"},
		{"empty values skipped", "Gravure", []dto.CustomField{{Name: "Taille", Value: "  "}}, "Gravure"},
		{"base with one field", "Gravure", []dto.CustomField{{Name: "Couleur", Value: "Rouge"}}, "Gravure (Couleur: Rouge)"},
		{"no base", "", []dto.CustomField{{Name: "Couleur", Value: "Rouge"}}, "Couleur: Rouge"},
		{
			"order preserved",
			"Plaque",
			[]dto.CustomField{{Name: "Couleur", Value: "Bleu"}, {Name: "Police", Value: "Arial"}},
			"Plaque (Couleur: Bleu | Police: Arial)",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FlattenCustomFields(tc.base, tc.fields))
		})
	}
}

