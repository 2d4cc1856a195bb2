package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"wedledger/internal/domain/gifts"
)

// ByFamilyMember counts and sums raw amounts per giver id. A bucket whose id
// does not resolve to a member (empty or deleted) keeps its id and is named
// UnknownMemberName.
func ByFamilyMember(items []gifts.Gift, members []gifts.FamilyMember) []MemberTotal {
	known := make(map[string]gifts.FamilyMember, len(members))
	for _, member := range members {
		known[member.ID] = member
	}

	totals := make(map[string]*MemberTotal)
	order := make([]string, 0)
	for _, gift := range items {
		key := gift.FromID()

		total, ok := totals[key]
		if !ok {
			total = &MemberTotal{MemberID: key, Name: UnknownMemberName, Color: UnknownMemberColor, Amount: decimal.Zero}
			if member, found := known[key]; found {
				total.Name = member.Name
				total.Color = member.Color
			}
			totals[key] = total
			order = append(order, key)
		}
		total.Count++
		total.Amount = total.Amount.Add(gift.Amount)
	}

	result := make([]MemberTotal, 0, len(order))
	for _, key := range order {
		result = append(result, *totals[key])
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Name < result[j].Name
	})
	return result
}

// ByMonth buckets gifts by the YYYY-MM of their calendar date. Map order is
// not meaningful; use SortMonths for display.
func ByMonth(items []gifts.Gift) map[string]int {
	months := make(map[string]int)
	for _, gift := range items {
		months[gift.Date.Format("2006-01")]++
	}
	return months
}

func SortMonths(months map[string]int) []MonthCount {
	result := make([]MonthCount, 0, len(months))
	for month, count := range months {
		result = append(result, MonthCount{Month: month, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Month < result[j].Month
	})
	return result
}

// TopRecipients returns the n most frequent recipient names. Names are
// compared exactly; ties go to the alphabetically first name.
func TopRecipients(items []gifts.Gift, n int) []RecipientCount {
	counts := recipientCounts(items)
	if n >= 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// MultipleRecipients returns every recipient that appears more than once.
func MultipleRecipients(items []gifts.Gift) []RecipientCount {
	counts := recipientCounts(items)
	result := make([]RecipientCount, 0)
	for _, count := range counts {
		if count.Count > 1 {
			result = append(result, count)
		}
	}
	return result
}

func recipientCounts(items []gifts.Gift) []RecipientCount {
	byName := make(map[string]int)
	for _, gift := range items {
		byName[gift.RecipientName]++
	}

	result := make([]RecipientCount, 0, len(byName))
	for name, count := range byName {
		result = append(result, RecipientCount{Name: name, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Name < result[j].Name
	})
	return result
}

// Normalize converts every amount into the base currency of rates. A
// currency missing from rates uses the USD rate, then 1. An empty table
// yields an unavailable zero total.
func Normalize(items []gifts.Gift, rates Rates, base string) Normalized {
	if len(rates) == 0 {
		return Normalized{Available: false, Currency: base, Total: decimal.Zero}
	}

	total := decimal.Zero
	for _, gift := range items {
		total = total.Add(gift.Amount.Mul(rates.For(gift.Currency)))
	}
	return Normalized{Available: true, Currency: base, Total: total.Round(2)}
}

func (r Rates) For(currency string) decimal.Decimal {
	if rate, ok := r[currency]; ok {
		return rate
	}
	if rate, ok := r[FallbackCurrency]; ok {
		return rate
	}
	return decimal.NewFromInt(1)
}

// AverageOf divides a normalized total by count. It is unavailable when the
// total is unavailable or zero, or when there is nothing to divide by.
func AverageOf(total Normalized, count int) Average {
	if !total.Available || count <= 0 || total.Total.IsZero() {
		return Average{Available: false, Amount: decimal.Zero}
	}
	return Average{Available: true, Amount: total.Total.Div(decimal.NewFromInt(int64(count))).Round(2)}
}
