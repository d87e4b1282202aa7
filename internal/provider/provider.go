// Package provider turns plant photos into diagnosis records using hosted
// vision models.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/smartgrow/internal/constants"
	apperrors "github.com/julianstephens/smartgrow/internal/errors"
	"github.com/julianstephens/smartgrow/internal/models"
)

// UserMessage is shown to the user whenever a diagnosis cannot be produced.
const UserMessage = "The AI was unable to process the image. Please ensure the plant leaf is clearly visible and try again."

var (
	ErrProviderFailure = errors.New("diagnosis provider failure")
	ErrNotAPlant       = errors.New("no plant recognized in image")
	ErrNoProviders     = errors.New("no diagnosis provider configured")
)

// Image is a photo to analyse.
type Image struct {
	Data []byte
	MIME string
}

// LoadImage reads a photo from disk and sniffs its content type.
func LoadImage(path string) (Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, fmt.Errorf("failed to read image: %w", err)
	}
	return NewImage(data), nil
}

func NewImage(data []byte) Image {
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		mime = constants.DefaultImageMIME
	}
	return Image{Data: data, MIME: mime}
}

type Provider interface {
	Name() string
	// Diagnose returns the provider's record as-is. Callers pass it through
	// Finalize before persisting.
	Diagnose(ctx context.Context, img Image, lang models.Language) (models.DiagnosisRecord, error)
}

// Failure wraps err as a provider failure attributed to name.
func Failure(name string, err error) error {
	if errors.Is(err, ErrProviderFailure) {
		return err
	}
	return apperrors.Wrap(apperrors.KindProvider, name, fmt.Errorf("%w: %w", ErrProviderFailure, err))
}

// Finalize prepares a provider record for persistence under id. The provider's
// own id and timestamp are never trusted.
func Finalize(rec models.DiagnosisRecord, now time.Time, id string) (models.DiagnosisRecord, error) {
	if !rec.RecognizedAsPlant() {
		return models.DiagnosisRecord{}, Failure("finalize", ErrNotAPlant)
	}
	rec.Sanitize()
	rec.ID = id
	rec.Timestamp = now.UnixMilli()
	rec.Archived = false
	return rec, nil
}

// Prompt is the instruction sent alongside the photo.
func Prompt(lang models.Language) string {
	return fmt.Sprintf(`Act as a senior professional horticulturalist.
Analyze the provided image of a plant leaf/specimen.
1. Identify the plant species.
2. Detect symptoms of pests, fungi, nutrient deficiencies, or structural diseases.
3. If the image is NOT a plant, or is too blurry to identify any botanical features, set "isPlant" to false.
4. If perfectly healthy, clearly state "Healthy" in diagnosis and severity.
5. Provide actionable, science-based recovery steps.
6. Output in JSON format.

The JSON object must have these fields:
{
  "isPlant": true,
  "plantName": "scientific or common name",
  "diagnosis": "detailed disease name or healthy status",
  "confidence": 0.0-1.0,
  "severity": "Healthy|Mild|Moderate|Severe",
  "organicTreatment": "natural remedies",
  "chemicalTreatment": "professional agricultural solutions",
  "prevention": "long-term care strategies",
  "stressFactor": "environmental trigger, e.g. overwatering or pests",
  "powerTips": ["three professional growth hacks"]
}

Language requirement: %s.`, lang.Name())
}

// parseDiagnosis decodes the JSON object embedded in a model response.
func parseDiagnosis(text string) (models.DiagnosisRecord, error) {
	jsonStr := extractJSON(text)
	if jsonStr == "" {
		return models.DiagnosisRecord{}, fmt.Errorf("no valid JSON found in response")
	}
	var rec models.DiagnosisRecord
	if err := json.Unmarshal([]byte(jsonStr), &rec); err != nil {
		return models.DiagnosisRecord{}, fmt.Errorf("failed to parse response: %w", err)
	}
	return rec, nil
}

// extractJSON returns the outermost {...} span of s, tolerating code fences
// and surrounding prose.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	if start == -1 {
		return ""
	}
	end := strings.LastIndex(s, "}")
	if end == -1 || end <= start {
		return ""
	}
	return s[start : end+1]
}
