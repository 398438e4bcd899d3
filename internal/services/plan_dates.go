package services

import (
	"github.com/plancare/plansale-backend/internal/models"
)

// Coverage months are fixed 30-day blocks and the service offset is a flat
// 365 days, not calendar arithmetic. A service sale on 2024-01-01 therefore
// starts on 2024-12-31 because 2024 is a leap year.
const (
	daysPerMonth      = 30
	serviceOffsetDays = 365
)

// PlanDates holds the derived coverage window of a sale. Both fields are nil
// when the plan category has no date rule.
type PlanDates struct {
	Start *models.Date
	End   *models.Date
}

// ComputePlanDates derives a sale's coverage window from the plan category,
// the item's purchase date and brand warranty, the plan duration and the
// sale's purchase date. It is a pure function of its inputs.
func ComputePlanDates(
	category models.PlanCategory,
	itemPurchase models.Date,
	brandWarrantyMonths int,
	durationMonths int,
	salePurchase models.Date,
) PlanDates {
	var start models.Date

	switch category {
	case models.PlanCategoryExtendedWarranty, models.PlanCategoryScreenProtection:
		start = itemPurchase.AddDays(daysPerMonth * brandWarrantyMonths)
	case models.PlanCategoryADLD, models.PlanCategoryCompleteCare:
		start = salePurchase
	case models.PlanCategoryService:
		start = salePurchase.AddDays(serviceOffsetDays)
	default:
		return PlanDates{}
	}

	end := start.AddDays(daysPerMonth * durationMonths)
	return PlanDates{Start: &start, End: &end}
}
