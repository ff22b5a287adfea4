package domain

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DetailTier selects the resolution ladder for a cutout request.
type DetailTier string

const (
	DetailStandard DetailTier = "standard"
	DetailHigh     DetailTier = "high"
	DetailMax      DetailTier = "max"
)

// CutoutRequest is a validated sky cutout request. Build it with NewCutoutRequest.
type CutoutRequest struct {
	RA     float64
	Dec    float64
	FOV    float64
	Survey string
	Label  string
	Detail DetailTier
}

type cutoutRequestInput struct {
	RA     float64 `json:"ra" validate:"gte=-360,lte=360"`
	Dec    float64 `json:"dec" validate:"gte=-90,lte=90"`
	FOV    float64 `json:"fov" validate:"gt=0,lte=180"`
	Survey string  `json:"survey" validate:"min=2"`
	Detail string  `json:"detail" validate:"oneof=standard high max"`
}

var cutoutValidator = newCutoutValidator()

func newCutoutValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// NewCutoutRequest validates the raw parameters and returns an immutable request.
// An empty detail tier defaults to standard.
func NewCutoutRequest(ra, dec, fov float64, survey, label string, detail DetailTier) (CutoutRequest, error) {
	survey = strings.TrimSpace(survey)
	if detail == "" {
		detail = DetailStandard
	}
	detail = DetailTier(strings.ToLower(string(detail)))

	fields := make(map[string]string)
	for name, value := range map[string]float64{"ra": ra, "dec": dec, "fov": fov} {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			fields[name] = "must be a finite number"
		}
	}

	in := cutoutRequestInput{RA: ra, Dec: dec, FOV: fov, Survey: survey, Detail: string(detail)}
	if err := cutoutValidator.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return CutoutRequest{}, err
		}
		for _, fe := range verrs {
			if _, exists := fields[fe.Field()]; exists {
				continue
			}
			fields[fe.Field()] = describeFieldError(fe)
		}
	}
	if len(fields) > 0 {
		return CutoutRequest{}, &ValidationError{Fields: fields}
	}

	return CutoutRequest{
		RA:     ra,
		Dec:    dec,
		FOV:    fov,
		Survey: survey,
		Label:  strings.TrimSpace(label),
		Detail: detail,
	}, nil
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gte":
		return "must be >= " + fe.Param()
	case "lte":
		return "must be <= " + fe.Param()
	case "gt":
		return "must be > " + fe.Param()
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}

// ResolutionCandidate is a pixel size to request from a provider.
type ResolutionCandidate struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (r ResolutionCandidate) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// ResolutionLadder returns the candidate sizes for a tier, largest first.
func ResolutionLadder(tier DetailTier) []ResolutionCandidate {
	var sizes []int
	switch tier {
	case DetailMax:
		sizes = []int{3072, 2048, 1024}
	case DetailHigh:
		sizes = []int{2048, 1024}
	default:
		sizes = []int{1024}
	}

	ladder := make([]ResolutionCandidate, 0, len(sizes))
	for _, s := range sizes {
		ladder = append(ladder, ResolutionCandidate{Width: s, Height: s})
	}
	return ladder
}

// CutoutCandidate is one point of the fallback matrix.
type CutoutCandidate struct {
	RA         float64
	Dec        float64
	FOV        float64
	Survey     string
	Resolution ResolutionCandidate
	Provider   ProviderID
	Attempt    int
}

// CacheKey returns the provider-specific cache key for this candidate.
func (c CutoutCandidate) CacheKey() string {
	return CutoutCacheKey(c.Provider, c.Survey, c.RA, c.Dec, c.FOV, c.Resolution)
}

// RetrievalResult is the payload returned to the HTTP layer.
type RetrievalResult struct {
	Data             []byte
	ContentType      string
	FileName         string
	ResolvedSurvey   string
	ResolvedProvider ProviderID
	Resolution       ResolutionCandidate
	AttemptCount     int
	CacheHit         bool
}

const (
	// CutoutCacheNamespace prefixes every cutout cache key.
	CutoutCacheNamespace = CacheVersion + ":cutout"

	// CacheVersion is the version prefix for cache keys.
	CacheVersion = "v1"

	coordinatePrecision = 1e6
)

// CutoutCacheKey builds the composite cache key. Coordinates are rounded to six decimals.
func CutoutCacheKey(provider ProviderID, survey string, ra, dec, fov float64, res ResolutionCandidate) string {
	return fmt.Sprintf("%s:%s:%s:%.6f:%.6f:%.6f:%dx%d",
		CutoutCacheNamespace, provider, survey,
		roundCoordinate(ra), roundCoordinate(dec), roundCoordinate(fov),
		res.Width, res.Height,
	)
}

func roundCoordinate(v float64) float64 {
	r := math.Round(v*coordinatePrecision) / coordinatePrecision
	if r == 0 {
		// avoid "-0.000000" keys
		return 0
	}
	return r
}

var unsafeFileNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

const maxFileNameBase = 80

// CutoutFileName derives an attachment file name from the request label or coordinates.
func CutoutFileName(req CutoutRequest, contentType string) string {
	base := strings.Trim(unsafeFileNameChars.ReplaceAllString(req.Label, "_"), "._-")
	if base == "" {
		base = fmt.Sprintf("cutout_%.4f_%+.4f_%.2fdeg", req.RA, req.Dec, req.FOV)
	}
	if len(base) > maxFileNameBase {
		base = base[:maxFileNameBase]
	}
	return base + extensionForContentType(contentType)
}

// SniffContentType detects the payload media type. Providers do not always send a reliable header.
func SniffContentType(data []byte) string {
	return http.DetectContentType(data)
}

func extensionForContentType(contentType string) string {
	mediaType := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	switch mediaType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".bin"
	}
}
