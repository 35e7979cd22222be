// Package export renders recruiter candidate lists as spreadsheets.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"talent-match/internal/domain/candidate"
)

const (
	CandidatesSheet = "Candidates"
	SummarySheet    = "Summary"
	ContentType     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var candidateHeaders = []string{"Name", "Email", "Phone", "Rank", "Overall Score", "Skills", "Skill Gaps", "Interview Status", "Resume"}

// WriteCandidates writes profiles, in the order given, as an xlsx workbook.
// Rows at or above threshold are highlighted.
func WriteCandidates(w io.Writer, profiles []candidate.Profile, threshold float64, generatedAt time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", CandidatesSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return err
	}

	if err := writeCandidateRows(f, profiles, threshold); err != nil {
		return fmt.Errorf("candidates sheet: %w", err)
	}
	if err := writeSummary(f, profiles, threshold, generatedAt); err != nil {
		return fmt.Errorf("summary sheet: %w", err)
	}

	return f.Write(w)
}

func writeCandidateRows(f *excelize.File, profiles []candidate.Profile, threshold float64) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	qualifiedStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"C6EFCE"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	for col, h := range candidateHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(CandidatesSheet, cell, h); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(candidateHeaders), 1)
	if err := f.SetCellStyle(CandidatesSheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, p := range profiles {
		row := i + 2
		values := []any{
			p.DisplayName(),
			p.Email,
			p.Phone,
			optional(p.Rank),
			overallScore(p),
			strings.Join(p.Skills, ", "),
			skillGaps(p),
			string(p.InterviewStatus),
			deref(p.ResumeURL),
		}
		first, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(CandidatesSheet, first, &values); err != nil {
			return err
		}
		if p.Rank != nil && *p.Rank >= threshold {
			end, _ := excelize.CoordinatesToCellName(len(candidateHeaders), row)
			if err := f.SetCellStyle(CandidatesSheet, first, end, qualifiedStyle); err != nil {
				return err
			}
		}
	}

	_ = f.SetColWidth(CandidatesSheet, "A", "B", 28)
	_ = f.SetColWidth(CandidatesSheet, "F", "G", 40)
	return f.SetPanes(CandidatesSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func writeSummary(f *excelize.File, profiles []candidate.Profile, threshold float64, generatedAt time.Time) error {
	ranked, qualified := 0, 0
	sum := 0.0
	for _, p := range profiles {
		if p.Rank == nil {
			continue
		}
		ranked++
		sum += *p.Rank
		if *p.Rank >= threshold {
			qualified++
		}
	}
	avg := 0.0
	if ranked > 0 {
		avg = sum / float64(ranked)
	}

	rows := [][]any{
		{"Generated At", generatedAt.UTC().Format(time.RFC3339)},
		{"Candidates", len(profiles)},
		{"Ranked", ranked},
		{"Average Rank", fmt.Sprintf("%.1f", avg)},
		{fmt.Sprintf("Rank >= %.0f", threshold), qualified},
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SummarySheet, cell, &r); err != nil {
			return err
		}
	}
	return f.SetColWidth(SummarySheet, "A", "A", 20)
}

func optional(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func overallScore(p candidate.Profile) any {
	if p.Assessment == nil {
		return ""
	}
	return p.Assessment.OverallScore
}

func skillGaps(p candidate.Profile) string {
	if p.Assessment == nil {
		return ""
	}
	return strings.Join(p.Assessment.SkillGaps, ", ")
}
