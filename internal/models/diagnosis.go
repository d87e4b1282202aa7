package models

import "time"

type Environment struct {
	Temperature  float64 `json:"temperature"`
	Humidity     float64 `json:"humidity"`
	SoilMoisture float64 `json:"soilMoisture"`
	Light        float64 `json:"light"`
}

// DiagnosisRecord is one analysed plant photo. Once saved it only changes
// through the archive toggle.
type DiagnosisRecord struct {
	ID                string       `json:"id" validate:"required"`
	Timestamp         int64        `json:"timestamp" validate:"gte=0"`
	PlantName         string       `json:"plantName"`
	Diagnosis         string       `json:"diagnosis"`
	Confidence        float64      `json:"confidence" validate:"gte=0,lte=1"`
	Severity          Severity     `json:"severity" validate:"oneof=Healthy Mild Moderate Severe"`
	OrganicTreatment  string       `json:"organicTreatment"`
	ChemicalTreatment string       `json:"chemicalTreatment"`
	Prevention        string       `json:"prevention"`
	ImageURL          string       `json:"imageUrl,omitempty"`
	Environment       *Environment `json:"environment,omitempty"`
	StressFactor      string       `json:"stressFactor,omitempty"`
	PowerTips         []string     `json:"powerTips"`
	Archived          bool         `json:"archived"`
	IsPlant           *bool        `json:"isPlant,omitempty"`
}

func (d *DiagnosisRecord) Validate() error {
	return validate.Struct(d)
}

// Sanitize repairs fields that older or untrusted payloads may carry out of
// range. Identity fields are left alone.
func (d *DiagnosisRecord) Sanitize() {
	d.Severity = NormalizeSeverity(d.Severity, d.Diagnosis)
	if d.Confidence < 0 {
		d.Confidence = 0
	}
	if d.Confidence > 1 {
		d.Confidence = 1
	}
	if d.PowerTips == nil {
		d.PowerTips = []string{}
	}
	if d.Timestamp < 0 {
		d.Timestamp = 0
	}
}

// CreatedAt returns the record timestamp as a time.Time.
func (d DiagnosisRecord) CreatedAt() time.Time {
	return time.UnixMilli(d.Timestamp)
}

// RecognizedAsPlant reports whether the provider identified a plant. Records
// without the flag are assumed to be plants.
func (d DiagnosisRecord) RecognizedAsPlant() bool {
	return d.IsPlant == nil || *d.IsPlant
}
