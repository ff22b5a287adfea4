package cutout_usecase

import (
	"testing"

	"skyview/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRequest(t *testing.T, survey string, detail domain.DetailTier) domain.CutoutRequest {
	t.Helper()
	req, err := domain.NewCutoutRequest(187.25, 2.05, 1.5, survey, "", detail)
	require.NoError(t, err)
	return req
}

func TestBuildMatrix_Axes(t *testing.T) {
	catalog := domain.DefaultSurveyCatalog()

	tests := []struct {
		name        string
		survey      string
		detail      domain.DetailTier
		providers   []domain.ProviderID
		resolutions []int
		surveys     []string
	}{
		{
			name:        "radio family at standard detail",
			survey:      "radio-survey",
			detail:      domain.DetailStandard,
			providers:   []domain.ProviderID{domain.ProviderPrimary},
			resolutions: []int{1024},
			surveys:     []string{catalog.Radio, catalog.OpticalColor, catalog.Baseline},
		},
		{
			name:        "optical survey at max detail with secondary",
			survey:      "P/2MASS/color",
			detail:      domain.DetailMax,
			providers:   []domain.ProviderID{domain.ProviderPrimary, domain.ProviderSecondary},
			resolutions: []int{3072, 2048, 1024},
			surveys:     []string{"CDS/P/2MASS/color", catalog.Baseline},
		},
		{
			name:        "baseline survey is not repeated",
			survey:      catalog.Baseline,
			detail:      domain.DetailHigh,
			providers:   []domain.ProviderID{domain.ProviderPrimary},
			resolutions: []int{2048, 1024},
			surveys:     []string{catalog.Baseline},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := BuildMatrix(mustRequest(t, tt.survey, tt.detail), catalog, tt.providers)

			widths := make([]int, 0, len(m.Resolutions))
			for _, r := range m.Resolutions {
				widths = append(widths, r.Width)
			}
			assert.Equal(t, tt.resolutions, widths)
			assert.Equal(t, tt.surveys, m.Surveys)
			assert.Equal(t, tt.providers, m.Providers)
			assert.Equal(t, AttemptsPerSurvey, m.AttemptsPerSurvey)
			assert.Len(t, m.Candidates(), m.Len())
		})
	}
}

func TestMatrix_CandidateOrder(t *testing.T) {
	catalog := domain.DefaultSurveyCatalog()
	m := BuildMatrix(mustRequest(t, "radio-survey", domain.DetailHigh), catalog,
		[]domain.ProviderID{domain.ProviderPrimary, domain.ProviderSecondary})

	candidates := m.Candidates()
	require.Len(t, candidates, 2*3*3*2)

	first := candidates[0]
	assert.Equal(t, 2048, first.Resolution.Width)
	assert.Equal(t, catalog.Radio, first.Survey)
	assert.Equal(t, 1, first.Attempt)
	assert.Equal(t, domain.ProviderPrimary, first.Provider)

	// Provider is the innermost axis, attempt next.
	assert.Equal(t, domain.ProviderSecondary, candidates[1].Provider)
	assert.Equal(t, 1, candidates[1].Attempt)
	assert.Equal(t, 2, candidates[2].Attempt)
	assert.Equal(t, domain.ProviderPrimary, candidates[2].Provider)

	// Survey changes only after every attempt and provider.
	assert.Equal(t, catalog.Radio, candidates[5].Survey)
	assert.Equal(t, catalog.OpticalColor, candidates[6].Survey)

	// Resolution is outermost.
	half := len(candidates) / 2
	for i, c := range candidates {
		if i < half {
			assert.Equal(t, 2048, c.Resolution.Width, "candidate %d", i)
		} else {
			assert.Equal(t, 1024, c.Resolution.Width, "candidate %d", i)
		}
	}
}

func TestMatrix_Fallbacks(t *testing.T) {
	catalog := domain.DefaultSurveyCatalog()
	m := BuildMatrix(mustRequest(t, "radio-survey", domain.DetailHigh), catalog,
		[]domain.ProviderID{domain.ProviderPrimary, domain.ProviderSecondary})

	top := m.Candidates()[0]
	assert.Equal(t, domain.FallbackUsage{}, m.Fallbacks(top))

	later := top
	later.Attempt = 3
	assert.Equal(t, domain.FallbackUsage{}, m.Fallbacks(later), "retries are not fallbacks")

	moved := top
	moved.Resolution = domain.ResolutionCandidate{Width: 1024, Height: 1024}
	moved.Survey = catalog.Baseline
	moved.Provider = domain.ProviderSecondary
	assert.Equal(t, domain.FallbackUsage{Resolution: true, Survey: true, Provider: true}, m.Fallbacks(moved))
}
