// internal/datagen/catalog.go
package datagen

// VariantSpec is one orderable variant within a category. Weight is the
// share of vehicle orders that pick this variant; weights sum to 1 within
// a category.
type VariantSpec struct {
	Name   string
	Weight float64
}

// CategorySpec describes a configurable component category on the build
// sheet. BaseCost is the reference unit cost before popularity pricing.
type CategorySpec struct {
	Name     string
	BaseCost float64
	Variants []VariantSpec
}

// SupplierSpec maps a supplier to the categories it serves. Lead times are
// in weeks.
type SupplierSpec struct {
	SupplierID    string
	Name          string
	Country       string
	Categories    []string
	BaseLeadWeeks float64
	LeadStdWeeks  float64
	Reliability   float64
}

// Catalog is the fixed category/variant table the generator draws from.
// Order matters: component IDs are assigned in catalog order so a given
// seed always yields the same dataset.
var Catalog = []CategorySpec{
	{
		Name:     "Floor Color",
		BaseCost: 280,
		Variants: []VariantSpec{
			{Name: "Gray Standard", Weight: 0.40},
			{Name: "Blue", Weight: 0.20},
			{Name: "Black", Weight: 0.15},
			{Name: "Green", Weight: 0.10},
			{Name: "Brown", Weight: 0.10},
			{Name: "Red", Weight: 0.05},
		},
	},
	{
		Name:     "Seat Material",
		BaseCost: 85,
		Variants: []VariantSpec{
			{Name: "Vinyl Brown", Weight: 0.35},
			{Name: "Vinyl Blue", Weight: 0.25},
			{Name: "Vinyl Gray", Weight: 0.20},
			{Name: "Fabric Blue", Weight: 0.10},
			{Name: "Fabric Gray", Weight: 0.10},
		},
	},
	{
		Name:     "Interior Trim",
		BaseCost: 120,
		Variants: []VariantSpec{
			{Name: "Standard White", Weight: 0.45},
			{Name: "Gray", Weight: 0.25},
			{Name: "Blue", Weight: 0.15},
			{Name: "Black", Weight: 0.15},
		},
	},
	{
		Name:     "Exterior Paint",
		BaseCost: 950,
		Variants: []VariantSpec{
			{Name: "Fleet Yellow", Weight: 0.60},
			{Name: "White", Weight: 0.15},
			{Name: "Activity Blue", Weight: 0.10},
			{Name: "Black", Weight: 0.08},
			{Name: "Custom", Weight: 0.07},
		},
	},
	{
		Name:     "Wheelchair Lift",
		BaseCost: 4200,
		Variants: []VariantSpec{
			{Name: "None", Weight: 0.70},
			{Name: "Type A Hydraulic", Weight: 0.15},
			{Name: "Type B Electric", Weight: 0.10},
			{Name: "Type C Heavy-Duty", Weight: 0.05},
		},
	},
	{
		Name:     "AC Unit",
		BaseCost: 3100,
		Variants: []VariantSpec{
			{Name: "None", Weight: 0.30},
			{Name: "Roof-Mount Standard", Weight: 0.35},
			{Name: "Roof-Mount Heavy", Weight: 0.20},
			{Name: "Split System", Weight: 0.15},
		},
	},
	{
		Name:     "Camera System",
		BaseCost: 1800,
		Variants: []VariantSpec{
			{Name: "Basic 4-Camera", Weight: 0.30},
			{Name: "8-Camera HD", Weight: 0.35},
			{Name: "12-Camera Surround", Weight: 0.20},
			{Name: "AI Vision Pro", Weight: 0.15},
		},
	},
	{
		Name:     "Lighting Package",
		BaseCost: 650,
		Variants: []VariantSpec{
			{Name: "Standard Halogen", Weight: 0.25},
			{Name: "LED Basic", Weight: 0.35},
			{Name: "LED Premium", Weight: 0.25},
			{Name: "LED + Emergency Strobe", Weight: 0.15},
		},
	},
	{
		Name:     "Handrails",
		BaseCost: 180,
		Variants: []VariantSpec{
			{Name: "Standard Steel", Weight: 0.50},
			{Name: "Padded Steel", Weight: 0.30},
			{Name: "Stainless Steel", Weight: 0.20},
		},
	},
	{
		Name:     "Mirrors",
		BaseCost: 420,
		Variants: []VariantSpec{
			{Name: "Standard Manual", Weight: 0.20},
			{Name: "Heated Manual", Weight: 0.30},
			{Name: "Heated Power", Weight: 0.35},
			{Name: "Heated Power + Camera", Weight: 0.15},
		},
	},
	{
		Name:     "Stop Arm",
		BaseCost: 350,
		Variants: []VariantSpec{
			{Name: "Standard 1-Arm", Weight: 0.40},
			{Name: "Extended 1-Arm", Weight: 0.30},
			{Name: "Dual Arm", Weight: 0.30},
		},
	},
	{
		Name:     "Crossing Gate",
		BaseCost: 520,
		Variants: []VariantSpec{
			{Name: "None", Weight: 0.25},
			{Name: "Standard Front", Weight: 0.45},
			{Name: "Extended Front", Weight: 0.30},
		},
	},
	{
		Name:     "Roof Hatch",
		BaseCost: 290,
		Variants: []VariantSpec{
			{Name: "Standard Emergency", Weight: 0.50},
			{Name: "Large Emergency", Weight: 0.30},
			{Name: "Dual Hatch", Weight: 0.20},
		},
	},
	{
		Name:     "Storage Compartments",
		BaseCost: 780,
		Variants: []VariantSpec{
			{Name: "None", Weight: 0.20},
			{Name: "Under-Floor Single", Weight: 0.35},
			{Name: "Under-Floor Dual", Weight: 0.30},
			{Name: "Rear Compartment", Weight: 0.15},
		},
	},
	{
		// Priced into the powertrain, so the component itself carries no cost.
		Name:     "Fuel Type",
		BaseCost: 0,
		Variants: []VariantSpec{
			{Name: "Diesel", Weight: 0.35},
			{Name: "Gasoline", Weight: 0.20},
			{Name: "Propane", Weight: 0.25},
			{Name: "CNG", Weight: 0.10},
			{Name: "Electric", Weight: 0.10},
		},
	},
}

// Suppliers is the fixed supplier table. Every catalog category is served
// by exactly one supplier.
var Suppliers = []SupplierSpec{
	{SupplierID: "SUP-001", Name: "Apex Seating Co.", Country: "US", Categories: []string{"Seat Material", "Handrails"}, BaseLeadWeeks: 4, LeadStdWeeks: 1.0, Reliability: 0.92},
	{SupplierID: "SUP-002", Name: "Northline Floor Systems", Country: "US", Categories: []string{"Floor Color", "Interior Trim"}, BaseLeadWeeks: 3, LeadStdWeeks: 0.8, Reliability: 0.95},
	{SupplierID: "SUP-003", Name: "Meridian Mobility Equipment", Country: "US", Categories: []string{"Wheelchair Lift"}, BaseLeadWeeks: 8, LeadStdWeeks: 2.0, Reliability: 0.88},
	{SupplierID: "SUP-004", Name: "Polar Climate Systems", Country: "US", Categories: []string{"AC Unit"}, BaseLeadWeeks: 6, LeadStdWeeks: 1.5, Reliability: 0.90},
	{SupplierID: "SUP-005", Name: "ClearView Safety Electronics", Country: "US", Categories: []string{"Camera System", "Mirrors"}, BaseLeadWeeks: 5, LeadStdWeeks: 1.2, Reliability: 0.93},
	{SupplierID: "SUP-006", Name: "Beacon Signal Works", Country: "US", Categories: []string{"Lighting Package", "Stop Arm", "Crossing Gate"}, BaseLeadWeeks: 3, LeadStdWeeks: 0.7, Reliability: 0.96},
	{SupplierID: "SUP-007", Name: "Cascade Coatings", Country: "US", Categories: []string{"Exterior Paint"}, BaseLeadWeeks: 2, LeadStdWeeks: 0.5, Reliability: 0.97},
	{SupplierID: "SUP-008", Name: "Hartland Fabrication", Country: "CA", Categories: []string{"Roof Hatch", "Storage Compartments"}, BaseLeadWeeks: 5, LeadStdWeeks: 1.3, Reliability: 0.91},
	{SupplierID: "SUP-009", Name: "GreenAxle Powertrain", Country: "US", Categories: []string{"Fuel Type"}, BaseLeadWeeks: 10, LeadStdWeeks: 2.5, Reliability: 0.87},
}

// supplierFor returns the first supplier serving the category, falling back
// to the first supplier in the table.
func supplierFor(category string) SupplierSpec {
	for _, s := range Suppliers {
		for _, c := range s.Categories {
			if c == category {
				return s
			}
		}
	}
	return Suppliers[0]
}
