package resume

import (
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

// RenderPDF lays the generated resume document out as a single-column
// A4 PDF. Missing sections are simply skipped; the document shape is
// model output and never fully trusted.
func RenderPDF(doc map[string]any, path string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	renderHeader(pdf, tr, doc)

	if summary := getString(doc, "summary"); summary != "" {
		sectionTitle(pdf, tr, "Summary")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, tr(summary), "", "L", false)
		pdf.Ln(2)
	}

	if skills := getStrings(doc, "skills"); len(skills) > 0 {
		sectionTitle(pdf, tr, "Skills")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, tr(strings.Join(skills, " | ")), "", "L", false)
		pdf.Ln(2)
	}

	renderExperience(pdf, tr, doc)
	renderEducation(pdf, tr, doc)
	renderProjects(pdf, tr, doc)

	renderNameIssuerDate(pdf, tr, doc, "certifications", "Certifications", "name", "issuer")
	renderPublications(pdf, tr, doc)
	renderNameIssuerDate(pdf, tr, doc, "awards", "Awards", "name", "issuer")
	renderVolunteer(pdf, tr, doc)

	return pdf.OutputFileAndClose(path)
}

func renderHeader(pdf *fpdf.Fpdf, tr func(string) string, doc map[string]any) {
	pi, _ := doc["personal_info"].(map[string]any)
	name := getString(pi, "name")
	if name == "" {
		name = "Resume"
	}
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 9, tr(name), "", 1, "C", false, 0, "")

	var contact []string
	for _, k := range []string{"email", "phone", "location"} {
		if v := getString(pi, k); v != "" {
			contact = append(contact, v)
		}
	}
	if len(contact) > 0 {
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 5, tr(strings.Join(contact, "  |  ")), "", 1, "C", false, 0, "")
	}

	var links []string
	for _, k := range []string{"linkedin", "github", "portfolio"} {
		if v := getString(pi, k); v != "" {
			links = append(links, v)
		}
	}
	if len(links) > 0 {
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(0, 4, tr(strings.Join(links, "  |  ")), "", 1, "C", false, 0, "")
	}
	pdf.Ln(3)
}

func renderExperience(pdf *fpdf.Fpdf, tr func(string) string, doc map[string]any) {
	items := getMaps(doc, "experience")
	if len(items) == 0 {
		return
	}
	sectionTitle(pdf, tr, "Experience")
	for _, it := range items {
		pdf.SetFont("Helvetica", "B", 11)
		title := getString(it, "title")
		if company := getString(it, "company"); company != "" {
			title += "  -  " + company
		}
		pdf.CellFormat(0, 6, tr(title), "", 1, "L", false, 0, "")

		meta := joinNonEmpty("  |  ",
			getString(it, "location"),
			dateRange(it, "start_date", "end_date"))
		if meta != "" {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.CellFormat(0, 5, tr(meta), "", 1, "L", false, 0, "")
		}

		pdf.SetFont("Helvetica", "", 10)
		for _, line := range getStrings(it, "description") {
			pdf.MultiCell(0, 5, tr("- "+line), "", "L", false)
		}
		pdf.Ln(2)
	}
}

func renderEducation(pdf *fpdf.Fpdf, tr func(string) string, doc map[string]any) {
	items := getMaps(doc, "education")
	if len(items) == 0 {
		return
	}
	sectionTitle(pdf, tr, "Education")
	for _, it := range items {
		pdf.SetFont("Helvetica", "B", 11)
		head := joinNonEmpty("  -  ", getString(it, "degree"), getString(it, "school"))
		pdf.CellFormat(0, 6, tr(head), "", 1, "L", false, 0, "")

		meta := joinNonEmpty("  |  ",
			getString(it, "location"),
			getString(it, "graduation_date"),
			prefixed("GPA: ", getString(it, "gpa")),
			getString(it, "honors"))
		if meta != "" {
			pdf.SetFont("Helvetica", "", 9)
			pdf.CellFormat(0, 5, tr(meta), "", 1, "L", false, 0, "")
		}
		pdf.Ln(1)
	}
	pdf.Ln(1)
}

func renderProjects(pdf *fpdf.Fpdf, tr func(string) string, doc map[string]any) {
	items := getMaps(doc, "projects")
	if len(items) == 0 {
		return
	}
	sectionTitle(pdf, tr, "Projects")
	for _, it := range items {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 6, tr(getString(it, "name")), "", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "", 10)
		if desc := getString(it, "description"); desc != "" {
			pdf.MultiCell(0, 5, tr(desc), "", "L", false)
		}
		if tech := getStrings(it, "technologies"); len(tech) > 0 {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.MultiCell(0, 5, tr("Technologies: "+strings.Join(tech, ", ")), "", "L", false)
		}
		if url := getString(it, "url"); url != "" {
			pdf.SetFont("Helvetica", "", 9)
			pdf.CellFormat(0, 5, tr(url), "", 1, "L", false, 0, "")
		}
		pdf.Ln(2)
	}
}

func renderPublications(pdf *fpdf.Fpdf, tr func(string) string, doc map[string]any) {
	items := getMaps(doc, "publications")
	if len(items) == 0 {
		return
	}
	sectionTitle(pdf, tr, "Publications")
	for _, it := range items {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.MultiCell(0, 5, tr(getString(it, "title")), "", "L", false)
		meta := joinNonEmpty(". ",
			getString(it, "authors"),
			getString(it, "journal"),
			getString(it, "date"))
		if meta != "" {
			pdf.SetFont("Helvetica", "", 9)
			pdf.MultiCell(0, 5, tr(meta), "", "L", false)
		}
		pdf.Ln(1)
	}
	pdf.Ln(1)
}

func renderVolunteer(pdf *fpdf.Fpdf, tr func(string) string, doc map[string]any) {
	items := getMaps(doc, "volunteer_work")
	if len(items) == 0 {
		return
	}
	sectionTitle(pdf, tr, "Volunteer Work")
	for _, it := range items {
		pdf.SetFont("Helvetica", "B", 11)
		head := joinNonEmpty("  -  ", getString(it, "role"), getString(it, "organization"))
		pdf.CellFormat(0, 6, tr(head), "", 1, "L", false, 0, "")

		meta := joinNonEmpty("  |  ",
			getString(it, "location"),
			dateRange(it, "start_date", "end_date"))
		if meta != "" {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.CellFormat(0, 5, tr(meta), "", 1, "L", false, 0, "")
		}
		if desc := getString(it, "description"); desc != "" {
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr(desc), "", "L", false)
		}
		pdf.Ln(2)
	}
}

func renderNameIssuerDate(pdf *fpdf.Fpdf, tr func(string) string, doc map[string]any, key, title, nameKey, issuerKey string) {
	items := getMaps(doc, key)
	if len(items) == 0 {
		return
	}
	sectionTitle(pdf, tr, title)
	pdf.SetFont("Helvetica", "", 10)
	for _, it := range items {
		line := joinNonEmpty("  -  ",
			getString(it, nameKey),
			getString(it, issuerKey),
			getString(it, "date"))
		pdf.MultiCell(0, 5, tr(line), "", "L", false)
	}
	pdf.Ln(2)
}

func sectionTitle(pdf *fpdf.Fpdf, tr func(string) string, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, tr(strings.ToUpper(title)), "B", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func getString(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	switch v := m[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", v), "0"), ".")
	default:
		return ""
	}
}

func getStrings(m map[string]any, key string) []string {
	raw, _ := m[key].([]any)
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

func getMaps(m map[string]any, key string) []map[string]any {
	raw, _ := m[key].([]any)
	out := make([]map[string]any, 0, len(raw))
	for _, v := range raw {
		if mm, ok := v.(map[string]any); ok {
			out = append(out, mm)
		}
	}
	return out
}

// prefixed labels a value, or stays empty so joinNonEmpty drops it.
func prefixed(p, s string) string {
	if s == "" {
		return ""
	}
	return p + s
}

func dateRange(m map[string]any, startKey, endKey string) string {
	start := getString(m, startKey)
	end := getString(m, endKey)
	switch {
	case start != "" && end != "":
		return start + " - " + end
	case start != "":
		return start + " - Present"
	default:
		return end
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
