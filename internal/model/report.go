package model

import (
	"strings"
	"time"
)

type ReportType string

const (
	ReportPreliminary   ReportType = "preliminar"
	ReportFinal         ReportType = "final"
	ReportSupplementary ReportType = "complementar"
)

var ReportTypes = []ReportType{ReportPreliminary, ReportFinal, ReportSupplementary}

// ReportContent holds the four mandatory sections of a forensic report.
type ReportContent struct {
	Introduction       string `json:"introduction"`
	Methodology        string `json:"methodology"`
	AnalysisAndResults string `json:"analysisAndResults"`
	Conclusion         string `json:"conclusion"`
}

// Report is a formal forensic report ("laudo").  ResponsibleID and
// EvidenceID are optional links to a user and an evidence item.
type Report struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	ReportNumber  string        `json:"reportNumber"`
	IssueDate     time.Time     `json:"issueDate"`
	ReportType    ReportType    `json:"reportType"`
	Content       ReportContent `json:"content"`
	ResponsibleID *string       `json:"responsibleId,omitempty"`
	EvidenceID    *string       `json:"evidenceId,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

func (r *Report) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.ReportNumber = strings.TrimSpace(r.ReportNumber)
}

func (r *Report) Validate() error {
	v := Violations{}
	Required("title", r.Title, v)
	Required("reportNumber", r.ReportNumber, v)
	requiredTime("issueDate", r.IssueDate, v)
	oneOf("reportType", r.ReportType, ReportTypes, v)
	Required("content.introduction", r.Content.Introduction, v)
	Required("content.methodology", r.Content.Methodology, v)
	Required("content.analysisAndResults", r.Content.AnalysisAndResults, v)
	Required("content.conclusion", r.Content.Conclusion, v)
	return v.Err()
}
