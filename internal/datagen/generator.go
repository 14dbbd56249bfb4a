// internal/datagen/generator.go

// Package datagen builds deterministic demo datasets for seeding and local
// development. One component is generated per catalog variant, with demand
// derived from variant popularity and stock drawn to land in a realistic
// mix of critical, warning and healthy positions.
package datagen

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/andresuchdata/invopt/internal/domain"
)

const weeksPerYear = 52.0

// Params size and shape a generated dataset.
type Params struct {
	// Seed drives every random draw. The same seed always yields the
	// same dataset.
	Seed int64
	// AnnualVehicles is the yearly vehicle order volume demand figures
	// are derived from.
	AnnualVehicles int
}

// DefaultParams matches the demo dataset shipped with the project.
func DefaultParams() Params {
	return Params{Seed: 42, AnnualVehicles: 9000}
}

// TotalComponents reports how many components one run generates: one per
// catalog variant.
func TotalComponents() int {
	n := 0
	for _, c := range Catalog {
		n += len(c.Variants)
	}
	return n
}

// Generate produces the supplier table and one component per catalog
// variant. Weekly demand is the variant's share of the annual vehicle
// volume with a +-10% jitter, and current stock is drawn in weeks of cover
// so the portfolio opens with a spread of critical, warning and healthy
// positions.
func Generate(p Params) ([]domain.Supplier, []domain.Component) {
	if p.AnnualVehicles <= 0 {
		p.AnnualVehicles = DefaultParams().AnnualVehicles
	}
	rng := rand.New(rand.NewSource(p.Seed))

	suppliers := make([]domain.Supplier, 0, len(Suppliers))
	for _, s := range Suppliers {
		suppliers = append(suppliers, domain.Supplier{
			SupplierID:       s.SupplierID,
			Name:             s.Name,
			Country:          s.Country,
			BaseLeadWeeks:    s.BaseLeadWeeks,
			LeadTimeStdWeeks: s.LeadStdWeeks,
			Reliability:      s.Reliability,
		})
	}

	components := make([]domain.Component, 0, TotalComponents())
	id := 1
	for _, cat := range Catalog {
		sup := supplierFor(cat.Name)
		for _, v := range cat.Variants {
			weekly := float64(p.AnnualVehicles) / weeksPerYear * v.Weight
			weekly *= 0.9 + 0.2*rng.Float64()
			weekly = roundTo(math.Max(weekly, 0.25), 2)

			stock := int(stockBucketWeeks(rng) * weekly)

			components = append(components, domain.Component{
				ComponentID:      fmt.Sprintf("CMP-%04d", id),
				Category:         cat.Name,
				Variant:          v.Name,
				SupplierID:       sup.SupplierID,
				SupplierName:     sup.Name,
				WeeklyDemand:     weekly,
				LeadTimeWeeks:    sup.BaseLeadWeeks,
				LeadTimeStdWeeks: sup.LeadStdWeeks,
				UnitCost:         variantCost(cat.BaseCost, v.Weight),
				CurrentStock:     stock,
				ServiceLevel:     pickServiceLevel(rng),
			})
			id++
		}
	}
	return suppliers, components
}

// variantCost prices a variant from the category base cost scaled by its
// popularity weight, floored at $10. Zero-cost categories stay at zero.
func variantCost(base, weight float64) float64 {
	if base <= 0 {
		return 0
	}
	return roundTo(math.Max(base*(0.8+0.4*weight), 10), 2)
}

// stockBucketWeeks draws the on-hand position in weeks of cover:
// 25% under 2 weeks, 35% between 2 and 6, 40% between 6 and 14.
func stockBucketWeeks(rng *rand.Rand) float64 {
	switch r := rng.Float64(); {
	case r < 0.25:
		return uniform(rng, 0.3, 2.0)
	case r < 0.60:
		return uniform(rng, 2.0, 6.0)
	default:
		return uniform(rng, 6.0, 14.0)
	}
}

var serviceLevelMix = []struct {
	level  float64
	weight float64
}{
	{0.95, 0.55},
	{0.90, 0.20},
	{0.97, 0.15},
	{0.99, 0.10},
}

func pickServiceLevel(rng *rand.Rand) float64 {
	r := rng.Float64()
	acc := 0.0
	for _, m := range serviceLevelMix {
		acc += m.weight
		if r < acc {
			return m.level
		}
	}
	return serviceLevelMix[0].level
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}

func roundTo(v float64, places int) float64 {
	f := math.Pow(10, float64(places))
	return math.Round(v*f) / f
}
