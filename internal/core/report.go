package core

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const topCategoryLimit = 6

type (
	// DashboardStats summarizes the current calendar month.
	//
	// TotalBalance is the net of the current month's transactions only,
	// not a lifetime running balance. That month scoping is deliberate
	// and must be kept in mind when reading the field name.
	DashboardStats struct {
		TotalBalance      decimal.Decimal `json:"totalBalance"`
		MonthlyIncome     decimal.Decimal `json:"monthlyIncome"`
		MonthlyExpenses   decimal.Decimal `json:"monthlyExpenses"`
		EcoRating         EcoRating       `json:"ecoRating"`
		CO2Reduction      int             `json:"co2Reduction"`
		TotalTransactions int             `json:"totalTransactions"`
	}

	// UserStats covers the whole account lifetime: the rating here is
	// computed over every transaction ever recorded, a materially larger
	// denominator than the dashboard's monthly window.
	UserStats struct {
		TotalTransactions int       `json:"totalTransactions"`
		AccountAge        int       `json:"accountAge"` // whole days
		EcoRating         EcoRating `json:"ecoRating"`
	}

	CategoryShare struct {
		Category   string          `json:"category"`
		Amount     decimal.Decimal `json:"amount"`
		Percentage int             `json:"percentage"`
	}

	EcoMetrics struct {
		TotalCO2        decimal.Decimal `json:"totalCo2"`
		Rating          EcoRating       `json:"rating"`
		Recommendations []string        `json:"recommendations"`
	}

	MonthlyReport struct {
		Month         int             `json:"month"`
		Year          int             `json:"year"`
		TotalIncome   decimal.Decimal `json:"totalIncome"`
		TotalExpenses decimal.Decimal `json:"totalExpenses"`
		TopCategories []CategoryShare `json:"topCategories"`
		EcoMetrics    EcoMetrics      `json:"ecoMetrics"`
	}
)

// BuildDashboardStats aggregates a snapshot of the user's transactions
// already filtered to the current calendar month.
func BuildDashboardStats(monthly []Transaction) DashboardStats {
	income, expenses, totalCO2 := sumWindow(monthly)
	return DashboardStats{
		TotalBalance:      income.Sub(expenses),
		MonthlyIncome:     income,
		MonthlyExpenses:   expenses,
		EcoRating:         RateCO2(totalCO2),
		CO2Reduction:      CO2ReductionPercent(totalCO2),
		TotalTransactions: len(monthly),
	}
}

// BuildUserStats aggregates every transaction the user has ever recorded.
// Account age is floor-divided into whole days.
func BuildUserStats(all []Transaction, accountCreated, now time.Time) UserStats {
	var totalCO2 decimal.Decimal
	for _, t := range all {
		totalCO2 = totalCO2.Add(t.EcoImpact)
	}
	age := int(now.Sub(accountCreated) / (24 * time.Hour))
	if age < 0 {
		age = 0
	}
	return UserStats{
		TotalTransactions: len(all),
		AccountAge:        age,
		EcoRating:         RateCO2(totalCO2),
	}
}

// BuildMonthlyReport aggregates a snapshot filtered to the requested
// month/year: income and expense totals, the top expense categories and
// an eco metrics block. When total expenses are zero the category list is
// empty and no percentage is computed.
func BuildMonthlyReport(month, year int, monthly []Transaction) MonthlyReport {
	income, expenses, totalCO2 := sumWindow(monthly)

	byCategory := make(map[string]decimal.Decimal)
	for _, t := range monthly {
		if t.Kind != Expense {
			continue
		}
		byCategory[t.Category] = byCategory[t.Category].Add(t.Amount)
	}

	top := make([]CategoryShare, 0, len(byCategory))
	if expenses.IsPositive() {
		for category, amount := range byCategory {
			top = append(top, CategoryShare{
				Category:   category,
				Amount:     amount,
				Percentage: int(amount.Div(expenses).Mul(oneHundred).Round(0).IntPart()),
			})
		}
		// Amount descending; equal amounts break ties by category name so
		// the ordering is deterministic.
		sort.Slice(top, func(i, j int) bool {
			if !top[i].Amount.Equal(top[j].Amount) {
				return top[i].Amount.GreaterThan(top[j].Amount)
			}
			return top[i].Category < top[j].Category
		})
		if len(top) > topCategoryLimit {
			top = top[:topCategoryLimit]
		}
	}

	return MonthlyReport{
		Month:         month,
		Year:          year,
		TotalIncome:   income,
		TotalExpenses: expenses,
		TopCategories: top,
		EcoMetrics: EcoMetrics{
			TotalCO2:        totalCO2,
			Rating:          RateCO2(totalCO2),
			Recommendations: EcoRecommendations(),
		},
	}
}

func sumWindow(window []Transaction) (income, expenses, totalCO2 decimal.Decimal) {
	for _, t := range window {
		switch t.Kind {
		case Income:
			income = income.Add(t.Amount)
		case Expense:
			expenses = expenses.Add(t.Amount)
		}
		totalCO2 = totalCO2.Add(t.EcoImpact)
	}
	return income, expenses, totalCO2
}
