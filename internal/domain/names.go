package domain

// Container names
const (
	Organism       = "Organism"
	Lumen          = "Lumen"
	Stomach        = "Stomach"
	LargeIntestine = "LargeIntestine"
	Applications   = "Applications"
)

// Parameter names
const (
	ParamAge                    = "Age"
	ParamWeight                 = "Weight"
	ParamHeight                 = "Height"
	ParamBSA                    = "BSA"
	ParamGETAlphaVariability    = "GET_alpha_variability_factor"
	ParamGETBetaVariability     = "GET_beta_variability_factor"
	ParamLITTFactor             = "Large intestinal transit time factor"
	ParamMolecularWeight        = "Molecular weight"
	ParamFractionUnbound        = "Fraction unbound"
	ParamStartTime              = "Start time"
	ParamReferenceConcentration = "Reference concentration"
	ParamRelativeExpression     = "Relative expression"
)

// Calculation method names
const (
	CalculationMethodRenalAgingHuman   = "Renal_Aging_Human"
	CalculationMethodRenalAgingAnimals = "Renal_Aging_Animals"
)

// SpeciesHuman is the species that carries human-specific calculation methods
const SpeciesHuman = "Human"

// RenalAgingMethod returns the renal aging calculation method of a species
func RenalAgingMethod(species string) string {
	if species == SpeciesHuman {
		return CalculationMethodRenalAgingHuman
	}
	return CalculationMethodRenalAgingAnimals
}
