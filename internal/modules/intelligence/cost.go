package intelligence

import (
	"sort"

	"github.com/tenderiq/core/internal/models"
)

const (
	contingencyRate = 0.10
	overheadRate    = 0.05

	// Indicative floor in lakhs when neither a contract value nor a
	// priceable effort estimate is available.
	minSubtotalLakhs = 10.0
)

// CostCalculator builds an indicative cost breakdown. When no contract
// value is known it prices the estimated effort at the configured day rate.
type CostCalculator struct{}

func NewCostCalculator() *CostCalculator {
	return &CostCalculator{}
}

func (c *CostCalculator) Calculate(in Inputs) *models.CostBreakdown {
	subtotal := in.contractValueLakhs()
	if subtotal <= 0 {
		subtotal = float64(in.effortDays()) * in.DayRateLakhs
	}
	if subtotal <= 0 {
		subtotal = minSubtotalLakhs
	}

	lineItems := c.lineItems(in, subtotal)
	contingency := subtotal * contingencyRate
	overhead := subtotal * overheadRate
	margin := (contingency + overhead) / subtotal * 100

	return &models.CostBreakdown{
		LineItems:     lineItems,
		Subtotal:      subtotal,
		Contingency:   contingency,
		Overhead:      overhead,
		TotalEstimate: subtotal + contingency + overhead,
		MarginPercent: margin,
	}
}

// lineItems allocates the subtotal across the three largest work
// components proportionally to their effort.
func (c *CostCalculator) lineItems(in Inputs, subtotal float64) []models.CostLineItem {
	if in.Scope == nil || len(in.Scope.MajorWorkComponents) == 0 || subtotal <= 0 {
		return []models.CostLineItem{}
	}

	components := make([]models.WorkComponent, len(in.Scope.MajorWorkComponents))
	copy(components, in.Scope.MajorWorkComponents)
	sort.SliceStable(components, func(i, j int) bool {
		return components[i].EstimatedEffortDays > components[j].EstimatedEffortDays
	})
	if len(components) > 3 {
		components = components[:3]
	}

	totalEffort := 0
	for _, comp := range in.Scope.MajorWorkComponents {
		totalEffort += comp.EstimatedEffortDays
	}
	if totalEffort <= 0 {
		return []models.CostLineItem{}
	}

	items := make([]models.CostLineItem, 0, len(components))
	for _, comp := range components {
		items = append(items, models.CostLineItem{
			Description: comp.Description,
			Amount:      subtotal * float64(comp.EstimatedEffortDays) / float64(totalEffort),
		})
	}
	return items
}
