package model

import "time"

// RecordType distinguishes records captured before and after death.
type RecordType string

const (
	AnteMortem RecordType = "ante-mortem"
	PostMortem RecordType = "post-mortem"
)

type RecordStatus string

const (
	StatusActive   RecordStatus = "ativo"
	StatusInactive RecordStatus = "inativo"
)

type DentitionType string

const (
	DentitionDeciduous DentitionType = "decídua"
	DentitionPermanent DentitionType = "permanente"
	DentitionMixed     DentitionType = "mista"
)

type Feature string

const (
	FeatureMissingTeeth Feature = "dentes ausentes"
	FeatureImplant      Feature = "implante"
	FeatureBridge       Feature = "ponte"
	FeatureCrown        Feature = "coroa"
	FeatureRestorations Feature = "restaurações"
)

type ArchRegion string

const (
	RegionAnterior  ArchRegion = "anterior"
	RegionPosterior ArchRegion = "posterior"
	RegionMaxilla   ArchRegion = "maxila"
	RegionMandible  ArchRegion = "mandíbula"
)

var (
	RecordTypes    = []RecordType{AnteMortem, PostMortem}
	RecordStatuses = []RecordStatus{StatusActive, StatusInactive}
	DentitionTypes = []DentitionType{DentitionDeciduous, DentitionPermanent, DentitionMixed}
	Features       = []Feature{FeatureMissingTeeth, FeatureImplant, FeatureBridge, FeatureCrown, FeatureRestorations}
	ArchRegions    = []ArchRegion{RegionAnterior, RegionPosterior, RegionMaxilla, RegionMandible}
)

// DentalRecord is one entry of the dental database ("banco odonto").
type DentalRecord struct {
	ID                    string        `json:"id"`
	Type                  RecordType    `json:"type"`
	RegistrationDate      time.Time     `json:"registrationDate"`
	GeneralCharacteristic string        `json:"generalCharacteristic"`
	Status                RecordStatus  `json:"status"`
	DentitionType         DentitionType `json:"dentitionType"`
	SpecificFeatures      []Feature     `json:"specificFeatures"`
	ArchRegion            []ArchRegion  `json:"archRegion"`
	FileURL               string        `json:"fileUrl"`
	CreatedAt             time.Time     `json:"createdAt"`
	UpdatedAt             time.Time     `json:"updatedAt"`
}

// Normalize applies defaults: status ativo and empty (not nil) tag sets.
func (r *DentalRecord) Normalize() {
	if r.Status == "" {
		r.Status = StatusActive
	}
	if r.SpecificFeatures == nil {
		r.SpecificFeatures = []Feature{}
	}
	if r.ArchRegion == nil {
		r.ArchRegion = []ArchRegion{}
	}
}

// Validate checks required and enumerated fields, then the file URL.  An
// invalid URL is reported as a *ValidationError naming the value.
func (r *DentalRecord) Validate() error {
	v := Violations{}
	oneOf("type", r.Type, RecordTypes, v)
	requiredTime("registrationDate", r.RegistrationDate, v)
	Required("generalCharacteristic", r.GeneralCharacteristic, v)
	oneOf("status", r.Status, RecordStatuses, v)
	oneOf("dentitionType", r.DentitionType, DentitionTypes, v)
	allOf("specificFeatures", r.SpecificFeatures, Features, v)
	allOf("archRegion", r.ArchRegion, ArchRegions, v)
	if err := v.Err(); err != nil {
		return err
	}
	return ValidateFileURL("fileUrl", r.FileURL)
}
