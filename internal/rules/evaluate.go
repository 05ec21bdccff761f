// Package rules evaluates validated line items against the code pack:
// description resolution, clarification triggers, and duplicate detection.
package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gyeh/billtranslate/internal/codepack"
	"github.com/gyeh/billtranslate/internal/model"
)

const (
	// PlaceholderDescription substitutes both descriptions when the pack
	// cannot describe the code (unknown code or code_type mismatch).
	PlaceholderDescription = "Definition not provided in Code Pack."

	// InactiveDescription substitutes both descriptions when the definition
	// exists but is inactive or not yet effective.
	InactiveDescription = "N/A"

	// NoteInactive doubles as the entry note and the clarification reason
	// for inactive or not-yet-effective codes.
	NoteInactive = "Code is inactive or not effective for the date of service."

	// DuplicateNote is appended to every entry belonging to a duplicate group.
	DuplicateNote = "This appears duplicated under the project's duplicate rule. Please confirm with billing."

	ReasonMissingDefinition = "Missing code definition"
	ReasonZeroUnitsCharge   = "units = 0 AND charge > 0"
	ReasonModifierCharge    = "code_type is MOD with charge > 0"

	modifierCodeType = "MOD"
)

// Evaluate resolves descriptions and collects clarification reasons for
// every line item, in ascending LineID order (stable; ties keep input
// order). Exactly one entry is produced per item; an item with at least one
// reason additionally yields one Clarification carrying all of its reasons
// in discovery order. Nothing is fatal here.
func Evaluate(items []model.LineItem, pack *codepack.Pack) ([]model.ReportEntry, []model.Clarification) {
	sorted := sortByLineID(items)

	entries := make([]model.ReportEntry, 0, len(sorted))
	var clarifications []model.Clarification

	for _, item := range sorted {
		var (
			notes    []string
			reasons  []string
			official string
			plain    string
		)

		def, known := pack.Lookup(item.Code)
		switch {
		case !known:
			official = PlaceholderDescription
			plain = PlaceholderDescription
			reasons = append(reasons, ReasonMissingDefinition)
		case item.CodeType != def.CodeType:
			official = PlaceholderDescription
			plain = PlaceholderDescription
			reasons = append(reasons, fmt.Sprintf(
				"code_type mismatch: bill has '%s', pack has '%s'", item.CodeType, def.CodeType))
		case !def.ActiveOn(item.DateOfService):
			official = InactiveDescription
			plain = InactiveDescription
			notes = append(notes, NoteInactive)
			reasons = append(reasons, NoteInactive)
		default:
			official = def.OfficialDescription
			plain = def.PlainEnglish
		}

		// Independent triggers: these run regardless of the branch above.
		if item.Units == 0 && item.ChargeCents > 0 {
			reasons = append(reasons, ReasonZeroUnitsCharge)
		}
		if item.CodeType == modifierCodeType && item.ChargeCents > 0 {
			reasons = append(reasons, ReasonModifierCharge)
		}

		entries = append(entries, model.ReportEntry{
			LineID:              item.LineID,
			DateOfService:       item.DateOfService,
			Code:                item.Code,
			CodeType:            item.CodeType,
			OfficialDescription: official,
			PlainEnglish:        plain,
			Units:               item.Units,
			ChargeCents:         item.ChargeCents,
			Notes:               strings.Join(notes, "; "),
		})

		if len(reasons) > 0 {
			clarifications = append(clarifications, model.Clarification{
				LineID:  item.LineID,
				Code:    item.Code,
				Reasons: reasons,
			})
		}
	}

	return entries, clarifications
}

// sortByLineID returns a copy of items stable-sorted by ascending LineID.
func sortByLineID(items []model.LineItem) []model.LineItem {
	sorted := make([]model.LineItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LineID < sorted[j].LineID
	})
	return sorted
}
