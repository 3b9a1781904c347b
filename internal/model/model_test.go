package model

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestValidateFileURL(t *testing.T) {
	accepted := []string{
		"http://x.com/scan.jpg",
		"https://x.com/scan.PNG",
		"https://cdn.test/a/b/video.webm",
		"http://x.com/raw/upload/abc",
	}
	for _, u := range accepted {
		if err := ValidateFileURL("fileUrl", u); err != nil {
			t.Fatalf("%q should be accepted: %v", u, err)
		}
	}
	rejected := []string{
		"ftp://x.com/scan.jpg",
		"http://x.com/scan.txt",
		"x.com/scan.jpg",
		"http://",
		"",
	}
	for _, u := range rejected {
		err := ValidateFileURL("fileUrl", u)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("%q should be rejected, got %v", u, err)
		}
		if ve.Value != u || !strings.Contains(err.Error(), "fileUrl") {
			t.Fatalf("error should name field and value: %v", err)
		}
	}
}

func validRecord() DentalRecord {
	return DentalRecord{
		Type:                  AnteMortem,
		RegistrationDate:      time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		GeneralCharacteristic: "adulto, sexo masculino",
		DentitionType:         DentitionPermanent,
		SpecificFeatures:      []Feature{FeatureImplant},
		ArchRegion:            []ArchRegion{RegionMaxilla},
		FileURL:               "https://x.com/scan.jpg",
	}
}

func TestDentalRecordValidate(t *testing.T) {
	r := validRecord()
	r.Normalize()
	if r.Status != StatusActive {
		t.Fatalf("default status = %q", r.Status)
	}
	if err := r.Validate(); err != nil {
		t.Fatalf("valid record rejected: %v", err)
	}

	bad := validRecord()
	bad.Normalize()
	bad.DentitionType = "adulta"
	bad.SpecificFeatures = []Feature{FeatureCrown, "aparelho"}
	var ve *ViolationsError
	if err := bad.Validate(); !errors.As(err, &ve) {
		t.Fatalf("expected violations, got %v", err)
	}
	if _, ok := ve.Fields["dentitionType"]; !ok {
		t.Fatalf("missing dentitionType violation: %v", ve.Fields)
	}
	if _, ok := ve.Fields["specificFeatures"]; !ok {
		t.Fatalf("missing specificFeatures violation: %v", ve.Fields)
	}

	badURL := validRecord()
	badURL.Normalize()
	badURL.FileURL = "http://x.com/scan.txt"
	var fe *ValidationError
	if err := badURL.Validate(); !errors.As(err, &fe) || fe.Value != "http://x.com/scan.txt" {
		t.Fatalf("expected fileUrl error, got %v", err)
	}
}

func TestReportValidate(t *testing.T) {
	r := Report{Title: " Laudo ", ReportNumber: " L-1 ", IssueDate: time.Now(), ReportType: ReportFinal}
	r.Normalize()
	err := r.Validate()
	var ve *ViolationsError
	if !errors.As(err, &ve) || len(ve.Fields) != 4 {
		t.Fatalf("expected the four content sections to be required, got %v", err)
	}
	r.Content = ReportContent{Introduction: "i", Methodology: "m", AnalysisAndResults: "a", Conclusion: "c"}
	if err := r.Validate(); err != nil {
		t.Fatalf("valid report rejected: %v", err)
	}
	if r.Title != "Laudo" || r.ReportNumber != "L-1" {
		t.Fatalf("normalize did not trim: %+v", r)
	}
}

func TestParseRole(t *testing.T) {
	if r, ok := ParseRole(" Perito "); !ok || r != RoleExaminer {
		t.Fatalf("ParseRole = %q %v", r, ok)
	}
	if _, ok := ParseRole("root"); ok {
		t.Fatal("unknown role accepted")
	}
	if Role("Admin").Valid() {
		t.Fatal("non-canonical role should not be valid")
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	if err != nil || d.Day() != 29 {
		t.Fatalf("ParseDate: %v %v", d, err)
	}
	if _, err := ParseDate("2024-02-29T10:00:00-03:00"); err != nil {
		t.Fatalf("rfc3339: %v", err)
	}
	if _, err := ParseDate("29/02/2024"); err == nil {
		t.Fatal("unexpected success")
	}
}
