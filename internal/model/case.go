package model

import (
	"strings"
	"time"
)

type CaseStatus string

const (
	CaseOpen     CaseStatus = "em andamento"
	CaseClosed   CaseStatus = "finalizado"
	CaseArchived CaseStatus = "arquivado"
)

var CaseStatuses = []CaseStatus{CaseOpen, CaseClosed, CaseArchived}

// Case is a forensic case ("caso").
type Case struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Status        CaseStatus `json:"status"`
	Location      string     `json:"location"`
	OpenedAt      time.Time  `json:"openedAt"`
	ResponsibleID *string    `json:"responsibleId,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (c *Case) Normalize() {
	c.Title = strings.TrimSpace(c.Title)
	if c.Status == "" {
		c.Status = CaseOpen
	}
}

func (c *Case) Validate() error {
	v := Violations{}
	Required("title", c.Title, v)
	oneOf("status", c.Status, CaseStatuses, v)
	requiredTime("openedAt", c.OpenedAt, v)
	return v.Err()
}

type EvidenceType string

const (
	EvidenceImage    EvidenceType = "imagem"
	EvidenceText     EvidenceType = "texto"
	EvidenceDocument EvidenceType = "documento"
	EvidenceOther    EvidenceType = "outro"
)

var EvidenceTypes = []EvidenceType{EvidenceImage, EvidenceText, EvidenceDocument, EvidenceOther}

// Evidence ("evidência") belongs to a case by id only; the link is not
// enforced by the store.
type Evidence struct {
	ID          string       `json:"id"`
	CaseID      string       `json:"caseId"`
	Type        EvidenceType `json:"type"`
	Description string       `json:"description"`
	CollectedAt time.Time    `json:"collectedAt"`
	CollectedBy *string      `json:"collectedBy,omitempty"`
	FileURL     string       `json:"fileUrl,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

func (e *Evidence) Validate() error {
	v := Violations{}
	Required("caseId", e.CaseID, v)
	oneOf("type", e.Type, EvidenceTypes, v)
	Required("description", e.Description, v)
	requiredTime("collectedAt", e.CollectedAt, v)
	if err := v.Err(); err != nil {
		return err
	}
	if e.FileURL != "" {
		return ValidateFileURL("fileUrl", e.FileURL)
	}
	return nil
}
