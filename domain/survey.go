package domain

import "strings"

// SurveyCatalog names the surveys used when building a survey fallback chain.
type SurveyCatalog struct {
	// Namespace is prepended to survey ids that do not carry it yet.
	Namespace    string
	Radio        string
	OpticalColor string
	Baseline     string
}

// DefaultSurveyCatalog returns the HiPS ids used by the hosted providers.
func DefaultSurveyCatalog() SurveyCatalog {
	return SurveyCatalog{
		Namespace:    "CDS/P/",
		Radio:        "CDS/P/VLASS/QL",
		OpticalColor: "CDS/P/PanSTARRS/DR1/color-z-zg-g",
		Baseline:     "CDS/P/DSS2/color",
	}
}

// IsRadioFamily reports whether a requested survey id refers to the radio survey.
func IsRadioFamily(survey string) bool {
	s := strings.ToLower(survey)
	return strings.Contains(s, "vlass") || strings.Contains(s, "radio")
}

// Normalize prefixes the provider namespace unless the id already carries it.
func (c SurveyCatalog) Normalize(survey string) string {
	survey = strings.TrimSpace(survey)
	if c.Namespace == "" || strings.HasPrefix(survey, c.Namespace) {
		return survey
	}
	// "P/DSS2/color" is the same survey as "CDS/P/DSS2/color"
	root := strings.TrimSuffix(c.Namespace, "/")
	if i := strings.LastIndex(root, "/"); i >= 0 {
		tail := root[i+1:] + "/"
		if strings.HasPrefix(survey, tail) {
			return root[:i+1] + survey
		}
	}
	return c.Namespace + survey
}

// Chain returns the ordered list of surveys to try for a requested survey.
func (c SurveyCatalog) Chain(requested string) []string {
	var chain []string
	if IsRadioFamily(requested) {
		chain = []string{c.Radio, c.OpticalColor, c.Baseline}
	} else {
		chain = []string{c.Normalize(requested), c.Baseline}
	}

	seen := make(map[string]struct{}, len(chain))
	out := make([]string, 0, len(chain))
	for _, s := range chain {
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
