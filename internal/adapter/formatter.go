package adapter

import (
	"strings"

	"github.com/kapu/icondeck/internal/constants"
	"github.com/kapu/icondeck/internal/domain"
	"github.com/kapu/icondeck/internal/util"
)

// ImageLine is one resolved portrait for the images report.
type ImageLine struct {
	ID     string
	Name   string
	URL    string
	Failed bool
}

// ReportFormatter renders plain-text reports for the command line.
type ReportFormatter struct {
	urlWidth int
}

func NewReportFormatter(urlWidth int) *ReportFormatter {
	if urlWidth <= 0 {
		urlWidth = constants.StringLimits.ImageURL
	}
	return &ReportFormatter{urlWidth: urlWidth}
}

// FormatRoster lists people, optionally restricted to a field. The field match
// is case-insensitive and partial.
func (f *ReportFormatter) FormatRoster(people []domain.Personality, field string) (string, error) {
	field = strings.TrimSpace(field)
	filtered := make([]domain.Personality, 0, len(people))
	for _, p := range people {
		if util.ContainsFold(p.Field, field) {
			filtered = append(filtered, p)
		}
	}

	return executeFormatterTemplate("roster", struct {
		Field  string
		People []domain.Personality
	}{
		Field:  field,
		People: filtered,
	})
}

func (f *ReportFormatter) FormatImages(lines []ImageLine) (string, error) {
	found := 0
	rendered := make([]ImageLine, len(lines))
	for i, line := range lines {
		if line.URL != "" {
			found++
			line.URL = util.TruncateString(line.URL, f.urlWidth)
		}
		rendered[i] = line
	}

	return executeFormatterTemplate("images", struct {
		Found int
		Lines []ImageLine
	}{
		Found: found,
		Lines: rendered,
	})
}
