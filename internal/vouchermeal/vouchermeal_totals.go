package vouchermeal

import (
	"github.com/gustavopprado/Sistema-RH/internal/domain"
	"github.com/gustavopprado/Sistema-RH/internal/shared/money"

	"github.com/shopspring/decimal"
)

// LineSums are the invoice line amounts folded by part and by category.
type LineSums struct {
	SecondHalf    decimal.Decimal
	FirstHalfNext decimal.Decimal
	Lunch         decimal.Decimal
	Coffee        decimal.Decimal
	ThirdParty    decimal.Decimal
}

func (s LineSums) Total() decimal.Decimal {
	return money.Sum(s.SecondHalf, s.FirstHalfNext)
}

func SumLines(lines []Line) LineSums {
	var s LineSums
	for _, l := range lines {
		switch l.Part {
		case PartSecondHalf:
			s.SecondHalf = s.SecondHalf.Add(l.Amount)
		case PartFirstHalfNext:
			s.FirstHalfNext = s.FirstHalfNext.Add(l.Amount)
		}

		cat, _ := l.Kind.Category()
		switch cat {
		case CategoryLunch:
			s.Lunch = s.Lunch.Add(l.Amount)
		case CategoryCoffee:
			s.Coffee = s.Coffee.Add(l.Amount)
		case CategoryThirdParty:
			s.ThirdParty = s.ThirdParty.Add(l.Amount)
		}
	}
	s.SecondHalf = money.Round2(s.SecondHalf)
	s.FirstHalfNext = money.Round2(s.FirstHalfNext)
	s.Lunch = money.Round2(s.Lunch)
	s.Coffee = money.Round2(s.Coffee)
	s.ThirdParty = money.Round2(s.ThirdParty)
	return s
}

// AllocationSums are the per-employee shares summed over a set of allocations.
type AllocationSums struct {
	Employee20 decimal.Decimal
	Company80  decimal.Decimal
	Total100   decimal.Decimal
	Count      int
}

func SumAllocations(allocs []Allocation) AllocationSums {
	var e20, c80, t100 []decimal.Decimal
	for _, a := range allocs {
		e20 = append(e20, a.Employee20)
		c80 = append(c80, a.Company80)
		t100 = append(t100, a.Total100)
	}
	return AllocationSums{
		Employee20: money.Sum(e20...),
		Company80:  money.Sum(c80...),
		Total100:   money.Sum(t100...),
		Count:      len(allocs),
	}
}

// Reconcile compares the lunch lines against the employee totals of every eligible allocation.
func Reconcile(lines LineSums, eligible AllocationSums) (decimal.Decimal, bool) {
	return domain.Reconcile(lines.Lunch, eligible.Total100)
}

func buildTotals(lines LineSums, eligible, shown AllocationSums) Totals {
	diff, _ := Reconcile(lines, eligible)
	coffeePerEmployee := money.DivRound(lines.Coffee, shown.Count)

	return Totals{
		InvoiceTotal:           money.Format(lines.Total()),
		LunchTotal:             money.Format(lines.Lunch),
		CoffeeTotal:            money.Format(lines.Coffee),
		ThirdPartyTotal:        money.Format(lines.ThirdParty),
		SumEmployee20:          money.Format(shown.Employee20),
		SumCompany80:           money.Format(shown.Company80),
		SumTotal100:            money.Format(shown.Total100),
		Diff:                   money.Format(diff),
		CoffeePerEmployee:      money.Format(coffeePerEmployee),
		CompanyTotalWithCoffee: money.Format(money.Sum(shown.Company80, lines.Coffee)),
		EligibleEmployees:      eligible.Count,
		ListedEmployees:        shown.Count,
	}
}
