// Package report renders a pipeline result as the Markdown comment posted
// back to the bill submitter.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gyeh/billtranslate/internal/bill"
	"github.com/gyeh/billtranslate/internal/model"
	"github.com/gyeh/billtranslate/internal/normalize"
	"github.com/gyeh/billtranslate/internal/rules"
)

// Render produces the full five-section Markdown report for a completed run.
func Render(header bill.HeaderFields, res *model.Result) string {
	var b strings.Builder

	if len(res.RowErrors) > 0 {
		writeInputProblems(&b, res.RowErrors)
	}
	writeHeaderSummary(&b, header, res.TotalCents)
	writeLineItemTable(&b, res.Entries)
	writeDuplicatesTable(&b, res.Duplicates)
	writeClarifications(&b, res.Clarifications)
	writeSummaryParagraph(&b, res)

	return b.String()
}

// RenderPackLoadFailure is the fatal-path comment written when the code
// definitions file cannot be loaded.
func RenderPackLoadFailure(err error) string {
	return fmt.Sprintf("❌ **Error:** Could not load code definitions file: %v\n", err)
}

// RenderParseFailure is the fatal-path comment written when no line items
// survived parsing.
func RenderParseFailure(rowErrors []model.RowError) string {
	var b strings.Builder
	b.WriteString("❌ **Error:** Could not parse any line items.\n\n")
	for _, e := range rowErrors {
		fmt.Fprintf(&b, "- %s\n", e)
	}
	return b.String()
}

func writeInputProblems(b *strings.Builder, rowErrors []model.RowError) {
	b.WriteString("Input Problems\n\n")
	b.WriteString("The following rows could not be parsed and are excluded from the output below:\n\n")
	for _, e := range rowErrors {
		fmt.Fprintf(b, "- %s\n", e)
	}
	b.WriteString("\n⚠️ The output below is INCOMPLETE because of the skipped rows listed above.\n\n---\n\n")
}

func writeHeaderSummary(b *strings.Builder, header bill.HeaderFields, totalCents int64) {
	b.WriteString("SECTION 1: Bill Header Summary\n\n")
	write := func(label, val string) {
		if val != "" {
			fmt.Fprintf(b, "- **%s:** %s\n", label, val)
		}
	}
	write("Provider Name", header.ProviderName)
	write("Facility Name", header.FacilityName)
	write("Bill Date", header.BillDate)
	write("Patient Account Number", header.PatientAccount)
	write("Total Billed (Provided)", header.TotalBilled)
	write("Total Billed (Computed)", normalize.FormatCents(totalCents))
	b.WriteString("\n")
}

func writeLineItemTable(b *strings.Builder, entries []model.ReportEntry) {
	b.WriteString("SECTION 2: Plain-English Line Item Table\n\n")
	b.WriteString("| Line # | DOS | Code | Code Type | Official Description | Plain-English | Units | Charge |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|\n")
	for _, e := range entries {
		fmt.Fprintf(b, "| %d | %s | %s | %s | %s | %s | %d | %s |\n",
			e.LineID,
			e.DateOfService.Format(normalize.ISODate),
			e.Code,
			e.CodeType,
			e.OfficialDescription,
			e.PlainEnglish,
			e.Units,
			normalize.FormatCents(e.ChargeCents),
		)
	}
	b.WriteString("\n")
}

func writeDuplicatesTable(b *strings.Builder, groups []model.DuplicateGroup) {
	b.WriteString("SECTION 3: Duplicates Table\n\n")
	if len(groups) == 0 {
		b.WriteString("No duplicates found under the project's duplicate rule.\n\n")
		return
	}
	b.WriteString("| Duplicate Group | Line #s | Matching Fields | Suggested question for billing |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, g := range groups {
		ids := make([]string, len(g.LineIDs))
		for i, id := range g.LineIDs {
			ids[i] = fmt.Sprintf("%d", id)
		}
		matching := fmt.Sprintf("DOS=%s, Code=%s, Units=%d, Charge=%s",
			g.DateOfService.Format(normalize.ISODate), g.Code, g.Units, normalize.FormatCents(g.ChargeCents))
		fmt.Fprintf(b, "| %d | %s | %s | %s |\n",
			g.GroupNumber, strings.Join(ids, ", "), matching, rules.DuplicateNote)
	}
	b.WriteString("\n")
}

func writeClarifications(b *strings.Builder, clarifications []model.Clarification) {
	b.WriteString("SECTION 4: Needs Clarification List\n\n")
	if len(clarifications) == 0 {
		b.WriteString("No items require clarification.\n\n")
		return
	}
	for _, c := range clarifications {
		for _, reason := range c.Reasons {
			fmt.Fprintf(b, "- Clarify: Line %d (Code %s): %s\n", c.LineID, c.Code, reason)
		}
	}
	b.WriteString("\n")
}

func writeSummaryParagraph(b *strings.Builder, res *model.Result) {
	b.WriteString("SECTION 5: Patient-Friendly Summary Paragraph\n\n")

	dupLineCount := 0
	for _, g := range res.Duplicates {
		dupLineCount += len(g.LineIDs)
	}

	var parts []string
	if r := dosRange(res.Entries); r != "" {
		parts = append(parts, fmt.Sprintf(
			"This bill contains %d line items spanning dates of service from %s.", len(res.Entries), r))
	} else {
		parts = append(parts, fmt.Sprintf("This bill contains %d line items.", len(res.Entries)))
	}
	parts = append(parts, fmt.Sprintf(
		"The total billed amount across all line items is %s.", normalize.FormatCents(res.TotalCents)))
	parts = append(parts, "Services include procedures, facility fees, medications, and modifiers.")

	if len(res.Duplicates) > 0 {
		parts = append(parts, fmt.Sprintf(
			"The review identified %d duplicate group(s) involving %d line items where the date of service, code, units, and charge all matched.",
			len(res.Duplicates), dupLineCount))
		parts = append(parts, "You may wish to confirm these with your billing department to ensure they are not billed twice.")
	} else {
		parts = append(parts, "No duplicate charges were identified under the project's duplicate rule.")
	}
	if len(res.Clarifications) > 0 {
		parts = append(parts, fmt.Sprintf(
			"%d line item(s) have been flagged for clarification due to missing definitions, inactive codes, or other triggers described in the rules.",
			len(res.Clarifications)))
	}
	parts = append(parts, "This summary is provided for informational purposes only and does not constitute medical or billing advice.")
	parts = append(parts, "Please review each section and contact your billing department with any questions.")

	b.WriteString(strings.Join(parts, " "))
	b.WriteString("\n")
}

// dosRange renders the span of distinct dates of service, or "" when there
// are no entries.
func dosRange(entries []model.ReportEntry) string {
	seen := make(map[string]bool)
	var dates []string
	for _, e := range entries {
		d := e.DateOfService.Format(normalize.ISODate)
		if !seen[d] {
			seen[d] = true
			dates = append(dates, d)
		}
	}
	if len(dates) == 0 {
		return ""
	}
	sort.Strings(dates)
	if len(dates) == 1 {
		return dates[0]
	}
	return fmt.Sprintf("%s to %s", dates[0], dates[len(dates)-1])
}
