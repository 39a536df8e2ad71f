package enums

// InsightErrorKind discriminates failures of the order-insights collaborator
// so the caller can render distinct messaging per kind.
type InsightErrorKind string

const (
	InsightErrorQuotaExhausted InsightErrorKind = "quota_exhausted"
	InsightErrorGeneric        InsightErrorKind = "generic"
	InsightErrorNoCredential   InsightErrorKind = "no_credential"
)

// String implements fmt.Stringer.
func (k InsightErrorKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known InsightErrorKind.
func (k InsightErrorKind) IsValid() bool {
	switch k {
	case InsightErrorQuotaExhausted, InsightErrorGeneric, InsightErrorNoCredential:
		return true
	}
	return false
}
