package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/odontolegal/forensic-api/internal/database/dbtest"
	"github.com/odontolegal/forensic-api/internal/model"
	"github.com/odontolegal/forensic-api/internal/repository"
	"github.com/odontolegal/forensic-api/internal/utils"
)

func TestEnsureAdmin(t *testing.T) {
	db := dbtest.Open(t)
	users := repository.NewUserRepo(db)
	hasher := utils.NewPasswordHasher(4)
	ctx := context.Background()

	created, err := EnsureAdmin(ctx, users, hasher, "", " Root@Example.com ", "s3cret")
	if err != nil || !created {
		t.Fatalf("first call: created=%v err=%v", created, err)
	}
	u, err := users.GetByEmail(ctx, "root@example.com")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if u.Role != model.RoleAdmin || !hasher.Verify("s3cret", u.PasswordHash) {
		t.Fatalf("unexpected admin: %+v", u)
	}

	created, err = EnsureAdmin(ctx, users, hasher, "Root", "root@example.com", "other")
	if err != nil || created {
		t.Fatalf("second call: created=%v err=%v", created, err)
	}
	if created, _ := EnsureAdmin(ctx, users, hasher, "x", "", ""); created {
		t.Fatal("empty credentials must be a no-op")
	}
}

func TestRenderReportPDF(t *testing.T) {
	long := strings.Repeat("Arcada superior com restaurações extensas em resina. ", 200)
	r := &model.Report{
		Title:        "Identificação de vítima",
		ReportNumber: "L-2024-001",
		IssueDate:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		ReportType:   model.ReportFinal,
		Content: model.ReportContent{
			Introduction:       "Solicitação da autoridade policial.",
			Methodology:        "Comparação ante-mortem e post-mortem.",
			AnalysisAndResults: long,
			Conclusion:         "Identificação positiva.",
		},
	}
	doc, err := RenderReportPDF(r, &model.User{Name: "Dra. Ana", Role: model.RoleExaminer})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(doc, []byte("%PDF")) {
		t.Fatalf("not a PDF: %q", doc[:min(len(doc), 16)])
	}
}

func TestChunkWords(t *testing.T) {
	got := chunkWords("aa bb cc dd", 5)
	want := []string{"aa bb", "cc dd"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("chunks = %q", got)
	}
	if got := chunkWords("abcdefgh", 3); len(got) != 1 || got[0] != "abcdefgh" {
		t.Fatalf("long word = %q", got)
	}
	if got := chunkWords("   ", 3); len(got) != 0 {
		t.Fatalf("blank = %q", got)
	}
}
