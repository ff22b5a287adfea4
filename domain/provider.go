package domain

// ProviderID identifies an upstream cutout provider.
type ProviderID string

const (
	ProviderPrimary   ProviderID = "primary"
	ProviderSecondary ProviderID = "secondary"
)

func (p ProviderID) String() string {
	return string(p)
}
