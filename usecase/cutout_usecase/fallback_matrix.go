package cutout_usecase

import "skyview/domain"

// AttemptsPerSurvey is the retry budget for each survey at one resolution.
const AttemptsPerSurvey = 3

// Matrix holds the three fallback axes of one request.
type Matrix struct {
	RA                float64
	Dec               float64
	FOV               float64
	Resolutions       []domain.ResolutionCandidate
	Surveys           []string
	Providers         []domain.ProviderID
	AttemptsPerSurvey int
}

// BuildMatrix derives the fallback axes for req. It has no side effects.
func BuildMatrix(req domain.CutoutRequest, catalog domain.SurveyCatalog, providers []domain.ProviderID) Matrix {
	return Matrix{
		RA:                req.RA,
		Dec:               req.Dec,
		FOV:               req.FOV,
		Resolutions:       domain.ResolutionLadder(req.Detail),
		Surveys:           catalog.Chain(req.Survey),
		Providers:         append([]domain.ProviderID(nil), providers...),
		AttemptsPerSurvey: AttemptsPerSurvey,
	}
}

// Candidates enumerates the matrix in search order: resolution (highest
// first), then survey, then attempt, then provider. Every survey, provider
// and attempt combination at one resolution precedes the next lower one.
func (m Matrix) Candidates() []domain.CutoutCandidate {
	out := make([]domain.CutoutCandidate, 0, m.Len())
	for _, res := range m.Resolutions {
		out = append(out, m.CandidatesAt(res)...)
	}
	return out
}

// CandidatesAt enumerates the survey, attempt and provider loop for one resolution.
func (m Matrix) CandidatesAt(res domain.ResolutionCandidate) []domain.CutoutCandidate {
	out := make([]domain.CutoutCandidate, 0, len(m.Surveys)*m.AttemptsPerSurvey*len(m.Providers))
	for _, survey := range m.Surveys {
		for attempt := 1; attempt <= m.AttemptsPerSurvey; attempt++ {
			for _, provider := range m.Providers {
				out = append(out, domain.CutoutCandidate{
					RA:         m.RA,
					Dec:        m.Dec,
					FOV:        m.FOV,
					Survey:     survey,
					Resolution: res,
					Provider:   provider,
					Attempt:    attempt,
				})
			}
		}
	}
	return out
}

// Len is the number of candidates in the matrix.
func (m Matrix) Len() int {
	return len(m.Resolutions) * len(m.Surveys) * m.AttemptsPerSurvey * len(m.Providers)
}

// Fallbacks reports on which axes c differs from the top-of-list candidate.
func (m Matrix) Fallbacks(c domain.CutoutCandidate) domain.FallbackUsage {
	var usage domain.FallbackUsage
	if len(m.Resolutions) > 0 && c.Resolution != m.Resolutions[0] {
		usage.Resolution = true
	}
	if len(m.Surveys) > 0 && c.Survey != m.Surveys[0] {
		usage.Survey = true
	}
	if len(m.Providers) > 0 && c.Provider != m.Providers[0] {
		usage.Provider = true
	}
	return usage
}
