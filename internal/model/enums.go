package model

// DevisStatus is the lifecycle state of a quote. The transition set is closed:
//
//	DRAFT --validate--> VALIDATED --(invoice creation)--> INVOICED
//	DRAFT --cancel----> CANCELLED
//
// There is no reverse transition: VALIDATED, INVOICED and CANCELLED are final
// with respect to any direct client action, and INVOICED is reached only as a
// side effect of batch invoice creation.
type DevisStatus string

const (
	StatusDraft     DevisStatus = "DRAFT"
	StatusValidated DevisStatus = "VALIDATED"
	StatusInvoiced  DevisStatus = "INVOICED"
	StatusCancelled DevisStatus = "CANCELLED"
)

// CanTransition reports whether from→to is an allowed devis transition.
// VALIDATED→INVOICED is allowed only through invoice creation; callers that
// expose direct status endpoints must restrict themselves to the DRAFT rows.
func (from DevisStatus) CanTransition(to DevisStatus) bool {
	switch from {
	case StatusDraft:
		return to == StatusValidated || to == StatusCancelled
	case StatusValidated:
		return to == StatusInvoiced
	case StatusInvoiced, StatusCancelled:
		return false
	}
	return false
}

func (s DevisStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusValidated, StatusInvoiced, StatusCancelled:
		return true
	}
	return false
}

// Label returns the French display label shown in the UI status badge.
func (s DevisStatus) Label() string {
	switch s {
	case StatusDraft:
		return "Brouillon"
	case StatusValidated:
		return "Validé"
	case StatusInvoiced:
		return "Facturé"
	case StatusCancelled:
		return "Annulé"
	}
	return string(s)
}

// MachineType selects which pricing formula and input fields apply to a devis
// line. The set of input fields each type accepts is closed.
type MachineType string

const (
	MachineCNC         MachineType = "CNC"
	MachineLaser       MachineType = "LASER"
	MachineChamps      MachineType = "CHAMPS"
	MachinePanneaux    MachineType = "PANNEAUX"
	MachineMaintenance MachineType = "SERVICE_MAINTENANCE"
	MachineVenteMat    MachineType = "VENTE_MATERIAU"
	MachinePliage      MachineType = "PLIAGE"
	MachineCustom      MachineType = "CUSTOM"
)

// MachineTypes lists every machine type, in display order.
var MachineTypes = []MachineType{
	MachineCNC, MachineLaser, MachineChamps, MachinePanneaux,
	MachineMaintenance, MachineVenteMat, MachinePliage, MachineCustom,
}

func (m MachineType) Valid() bool {
	switch m {
	case MachineCNC, MachineLaser, MachineChamps, MachinePanneaux,
		MachineMaintenance, MachineVenteMat, MachinePliage, MachineCustom:
		return true
	}
	return false
}

// Label returns the French display label for the machine type.
func (m MachineType) Label() string {
	switch m {
	case MachineCNC:
		return "CNC"
	case MachineLaser:
		return "Laser"
	case MachineChamps:
		return "Champs"
	case MachinePanneaux:
		return "Panneaux"
	case MachineMaintenance:
		return "Service / Maintenance"
	case MachineVenteMat:
		return "Vente de matériau"
	case MachinePliage:
		return "Pliage"
	case MachineCustom:
		return "Personnalisé"
	}
	return string(m)
}

// MaintenanceMode is the SERVICE_MAINTENANCE sub-mode selector.
type MaintenanceMode string

const (
	MaintenanceManual   MaintenanceMode = "manual"   // free unit price
	MaintenanceMaterial MaintenanceMode = "material" // priced from a material
	MaintenanceService  MaintenanceMode = "service"  // priced from a fixed service
)

func (m MaintenanceMode) Valid() bool {
	return m == MaintenanceManual || m == MaintenanceMaterial || m == MaintenanceService
}

// DimensionUnit qualifies width/height inputs. Areas are normalized to m²
// before pricing.
type DimensionUnit string

const (
	UnitMeter      DimensionUnit = "m"
	UnitCentimeter DimensionUnit = "cm"
)

func (u DimensionUnit) Valid() bool {
	return u == UnitMeter || u == UnitCentimeter
}
