package report

import (
	"regexp"
	"strings"
	"time"

	"github.com/pulseid/platform/pkg/common/models"
)

const (
	OtherReportType = "Other"
	NoSummary       = "No summary extracted"
	NoDetails       = "No details extracted"
)

// reportTypes are checked in order; the first one named in the text wins.
var reportTypes = []string{"Blood Test", "X-Ray", "MRI", "CT Scan", "Ultrasound", "ECG"}

var (
	summaryPattern = regexp.MustCompile(`(?i)(?:summary|impression|findings):\s*([^\n]+)`)
	detailsPattern = regexp.MustCompile(`(?i)(?:details|description|results):\s*([^\n]+(?:\n[^\n]+)*)`)
	datePattern    = regexp.MustCompile(`(?i)(?:report date|performed on|date):\s*([^\n]+)`)
	concernPattern = regexp.MustCompile(`(?i)\b(?:abnormal|elevated|low|high|irregular|concerning)\b`)
)

var reportDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
}

// ExtractMedicalReport summarises the plain text of an uploaded report:
// its type, summary and details sections, the date it was performed, and
// every line that flags a concerning result. Missing parts get fixed
// placeholders; a report without a readable date is dated now.
func ExtractMedicalReport(text string, now time.Time) models.MedicalReport {
	mr := models.MedicalReport{
		Type:     OtherReportType,
		Summary:  NoSummary,
		Details:  NoDetails,
		Date:     now.Format("2006-01-02"),
		Concerns: []string{},
	}

	lower := strings.ToLower(text)
	for _, t := range reportTypes {
		if strings.Contains(lower, strings.ToLower(t)) {
			mr.Type = t
			break
		}
	}

	if m := summaryPattern.FindStringSubmatch(text); m != nil {
		mr.Summary = strings.TrimSpace(m[1])
	}
	if m := detailsPattern.FindStringSubmatch(text); m != nil {
		mr.Details = strings.TrimSpace(m[1])
	}
	if m := datePattern.FindStringSubmatch(text); m != nil {
		if d, ok := parseReportDate(strings.TrimSpace(m[1])); ok {
			mr.Date = d.Format("2006-01-02")
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && concernPattern.MatchString(line) {
			mr.Concerns = append(mr.Concerns, line)
		}
	}
	return mr
}

func parseReportDate(s string) (time.Time, bool) {
	for _, layout := range reportDateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}
