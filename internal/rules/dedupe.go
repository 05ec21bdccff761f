package rules

import (
	"sort"

	"github.com/gyeh/billtranslate/internal/model"
	"github.com/gyeh/billtranslate/internal/normalize"
)

// dupKey is the exact composite key for duplicate detection. The date is
// keyed by its ISO rendering and money by integer cents, so equality is
// exact on all four fields with no tolerance.
type dupKey struct {
	dateOfService string
	code          string
	units         int
	chargeCents   int64
}

type dupGroup struct {
	lineIDs []int
	first   model.LineItem
}

// DetectDuplicates groups line items by (date_of_service, code, units,
// charge) and reports only groups with two or more members. Groups are
// ordered and numbered by their minimum LineID; within a group, LineIDs
// appear in encounter order over the LineID-sorted input.
func DetectDuplicates(items []model.LineItem) []model.DuplicateGroup {
	byKey := make(map[dupKey]*dupGroup)
	var order []dupKey

	for _, item := range sortByLineID(items) {
		key := dupKey{
			dateOfService: item.DateOfService.Format(normalize.ISODate),
			code:          item.Code,
			units:         item.Units,
			chargeCents:   item.ChargeCents,
		}
		g, ok := byKey[key]
		if !ok {
			g = &dupGroup{first: item}
			byKey[key] = g
			order = append(order, key)
		}
		g.lineIDs = append(g.lineIDs, item.LineID)
	}

	// Input was sorted ascending, so each group's first LineID is its minimum
	// and first-seen order already matches minimum-LineID order.
	sort.SliceStable(order, func(i, j int) bool {
		return byKey[order[i]].lineIDs[0] < byKey[order[j]].lineIDs[0]
	})

	var groups []model.DuplicateGroup
	for _, key := range order {
		g := byKey[key]
		if len(g.lineIDs) < 2 {
			continue
		}
		groups = append(groups, model.DuplicateGroup{
			GroupNumber:   len(groups) + 1,
			LineIDs:       g.lineIDs,
			DateOfService: g.first.DateOfService,
			Code:          g.first.Code,
			Units:         g.first.Units,
			ChargeCents:   g.first.ChargeCents,
		})
	}
	return groups
}

// ApplyDuplicateNotes appends the duplicate note to every entry whose
// LineID belongs to a group, after any note the rule evaluation left.
func ApplyDuplicateNotes(entries []model.ReportEntry, groups []model.DuplicateGroup) {
	flagged := make(map[int]bool)
	for _, g := range groups {
		for _, id := range g.LineIDs {
			flagged[id] = true
		}
	}
	for i := range entries {
		if !flagged[entries[i].LineID] {
			continue
		}
		if entries[i].Notes != "" {
			entries[i].Notes += "; " + DuplicateNote
		} else {
			entries[i].Notes = DuplicateNote
		}
	}
}
