package service

// devis_lines.go — the line composer.
// Each machine type has a closed field schema: the stored line carries exactly
// the fields of its type, no more. composeLine validates the inputs of the
// chosen type, drops everything outside its schema and prices the line.
//
//	CNC, LASER          → minutes, width, height, dimensionUnit, material (optional)
//	CHAMPS              → meters
//	PLIAGE              → material, meters (machine), quantity (material meters)
//	PANNEAUX            → quantity
//	SERVICE_MAINTENANCE → mode manual: unitPrice | material: material+quantity | service: service+quantity
//	VENTE_MATERIAU      → material, width, height, dimensionUnit
//	CUSTOM              → quantity, unitPrice, ordered (name, value) pairs

import (
	"errors"
	"fmt"
	"strings"

	"gravoplus/internal/dto"
	"gravoplus/internal/model"

	"github.com/shopspring/decimal"
)

// lineRates carries the catalog records composeLine prices against. Which
// pointers must be non-nil depends on the machine type and inputs; the
// resolver in DevisService fetches only what the schema asks for.
type lineRates struct {
	machine  *model.Machine
	material *model.Material
	service  *model.FixedService
}

var cm2PerM2 = decimal.NewFromInt(10000)

// composeLine turns a raw line request into a stored DevisLine. It is pure:
// all catalog lookups happen before the call.
func composeLine(req dto.AddDevisLineRequest, rates lineRates) (*model.DevisLine, error) {
	machineType := model.MachineType(req.MachineType)
	if !machineType.Valid() {
		return nil, fmt.Errorf("type de machine inconnu: %s", req.MachineType)
	}

	line := &model.DevisLine{MachineType: machineType}
	line.Description = buildDescription(req, machineType)

	var total decimal.Decimal

	switch machineType {
	case model.MachineCNC, model.MachineLaser:
		if req.Minutes == nil {
			return nil, errors.New("le champ minutes est requis")
		}
		area, unit, err := surfaceArea(req)
		if err != nil {
			return nil, err
		}
		if rates.machine == nil {
			return nil, errors.New("aucune machine configurée pour ce type")
		}
		line.Minutes = req.Minutes
		line.Width = req.Width
		line.Height = req.Height
		line.DimensionUnit = &unit
		total = req.Minutes.Mul(rates.machine.MinuteRate)
		if rates.material != nil {
			line.MaterialID = &rates.material.ID
			total = total.Add(area.Mul(rates.material.SquareMeterPrice))
		}

	case model.MachineChamps:
		if req.Meters == nil {
			return nil, errors.New("le champ mètres est requis")
		}
		if rates.machine == nil {
			return nil, errors.New("aucune machine configurée pour ce type")
		}
		line.Meters = req.Meters
		total = req.Meters.Mul(rates.machine.MeterRate)

	case model.MachinePliage:
		if rates.material == nil {
			return nil, errors.New("le matériau est requis")
		}
		if req.Meters == nil {
			return nil, errors.New("le champ mètres (machine) est requis")
		}
		if req.Quantity == nil {
			return nil, errors.New("le champ quantité (mètres matériau) est requis")
		}
		if rates.machine == nil {
			return nil, errors.New("aucune machine configurée pour ce type")
		}
		line.MaterialID = &rates.material.ID
		line.Meters = req.Meters
		line.Quantity = req.Quantity
		total = req.Meters.Mul(rates.machine.MeterRate).
			Add(req.Quantity.Mul(rates.material.MeterPrice))

	case model.MachinePanneaux:
		if req.Quantity == nil {
			return nil, errors.New("le champ quantité est requis")
		}
		if rates.machine == nil {
			return nil, errors.New("aucune machine configurée pour ce type")
		}
		line.Quantity = req.Quantity
		total = req.Quantity.Mul(rates.machine.UnitRate)

	case model.MachineMaintenance:
		mode := model.MaintenanceMode(req.MaintenanceMode)
		if !mode.Valid() {
			return nil, errors.New("le mode de maintenance est requis (manual, material ou service)")
		}
		switch mode {
		case model.MaintenanceManual:
			if req.UnitPrice == nil {
				return nil, errors.New("le prix unitaire est requis en mode manuel")
			}
			line.UnitPrice = req.UnitPrice
			total = *req.UnitPrice
		case model.MaintenanceMaterial:
			if rates.material == nil {
				return nil, errors.New("le matériau est requis en mode matériau")
			}
			if req.Quantity == nil {
				return nil, errors.New("le champ quantité est requis en mode matériau")
			}
			line.MaterialID = &rates.material.ID
			line.Quantity = req.Quantity
			total = req.Quantity.Mul(rates.material.UnitPrice)
		case model.MaintenanceService:
			if rates.service == nil {
				return nil, errors.New("le service est requis en mode service")
			}
			if req.Quantity == nil {
				return nil, errors.New("le champ quantité est requis en mode service")
			}
			line.ServiceID = &rates.service.ID
			line.Quantity = req.Quantity
			total = req.Quantity.Mul(rates.service.Price)
		}

	case model.MachineVenteMat:
		if rates.material == nil {
			return nil, errors.New("le matériau est requis")
		}
		area, unit, err := surfaceArea(req)
		if err != nil {
			return nil, err
		}
		line.MaterialID = &rates.material.ID
		line.Width = req.Width
		line.Height = req.Height
		line.DimensionUnit = &unit
		total = area.Mul(rates.material.SquareMeterPrice)

	case model.MachineCustom:
		if req.Quantity == nil {
			return nil, errors.New("le champ quantité est requis")
		}
		if req.UnitPrice == nil {
			return nil, errors.New("le prix unitaire est requis")
		}
		line.Quantity = req.Quantity
		line.UnitPrice = req.UnitPrice
		total = req.Quantity.Mul(*req.UnitPrice)
	}

	line.LineTotal = total.Round(2)
	return line, nil
}

// surfaceArea returns the width×height surface normalized to m².
// Defaults the unit to meters when absent, matching the form default.
func surfaceArea(req dto.AddDevisLineRequest) (decimal.Decimal, model.DimensionUnit, error) {
	if req.Width == nil || req.Height == nil {
		return decimal.Zero, "", errors.New("les champs largeur et hauteur sont requis")
	}
	unit := model.DimensionUnit(req.DimensionUnit)
	if unit == "" {
		unit = model.UnitMeter
	}
	if !unit.Valid() {
		return decimal.Zero, "", fmt.Errorf("unité de dimension inconnue: %s", req.DimensionUnit)
	}
	area := req.Width.Mul(*req.Height)
	if unit == model.UnitCentimeter {
		area = area.Div(cm2PerM2)
	}
	return area, unit, nil
}

// buildDescription stores the free-text description, flattening CUSTOM
// custom fields into it.
func buildDescription(req dto.AddDevisLineRequest, t model.MachineType) *string {
	desc := strings.TrimSpace(req.Description)
	if t == model.MachineCustom {
		desc = FlattenCustomFields(desc, req.CustomFields)
	}
	if desc == "" {
		return nil
	}
	return &desc
}

// FlattenCustomFields joins the non-empty (name, value) pairs as
// "name: value" separated by " | ", appended to the base description in
// parentheses when a base exists, bare otherwise. This is a one-way, lossy
// flattening: the structured pairs are not stored, and stored descriptions
// already use this exact format — do not change it.
func FlattenCustomFields(base string, fields []dto.CustomField) string {
	var parts []string
	for _, f := range fields {
		if strings.TrimSpace(f.Value) == "" {
			continue
		}
		parts = append(parts, f.Name+": "+f.Value)
	}
	if len(parts) == 0 {
		return base
	}
	joined := strings.Join(parts, " | ")
	if base == "" {
		return joined
	}
	return base + " (" + joined + ")"
}
