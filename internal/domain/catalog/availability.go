package catalog

import "sort"

// AvailabilityMode controls which vendors may duplicate a product into their
// own storefront. It is stored verbatim on the product; values outside the
// known set are kept as-is and never grant access.
type AvailabilityMode string

const (
	// AvailabilityUnset means no mode was stored. Eligibility then falls back
	// to the product's course association (see EffectiveMode).
	AvailabilityUnset     AvailabilityMode = ""
	AvailabilityYes       AvailabilityMode = "yes"
	AvailabilitySelective AvailabilityMode = "selective"
	AvailabilityNo        AvailabilityMode = "no"
)

// IsKnown reports whether m is one of the recognised modes, including unset
func (m AvailabilityMode) IsKnown() bool {
	switch m {
	case AvailabilityUnset, AvailabilityYes, AvailabilitySelective, AvailabilityNo:
		return true
	}
	return false
}

// EffectiveMode resolves an unset mode: course-linked products default to
// "yes", everything else to "no". Set modes are returned unchanged.
func (m AvailabilityMode) EffectiveMode(hasCourse bool) AvailabilityMode {
	if m != AvailabilityUnset {
		return m
	}
	if hasCourse {
		return AvailabilityYes
	}
	return AvailabilityNo
}

// VendorSet is an unordered set of vendor user IDs
type VendorSet map[int64]struct{}

// NewVendorSet builds a set from ids, ignoring duplicates
func NewVendorSet(ids ...int64) VendorSet {
	s := make(VendorSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains reports whether vendorID is a member. A nil set contains nothing.
func (s VendorSet) Contains(vendorID int64) bool {
	_, ok := s[vendorID]
	return ok
}

// IDs returns the members in ascending order
func (s VendorSet) IDs() []int64 {
	ids := make([]int64, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// CanDuplicate decides whether vendorID may duplicate a product with the given
// stored mode and allow-list. hasCourse only matters when mode is unset.
func CanDuplicate(mode AvailabilityMode, allowList VendorSet, vendorID int64, hasCourse bool) bool {
	switch mode.EffectiveMode(hasCourse) {
	case AvailabilityYes:
		return true
	case AvailabilitySelective:
		return allowList.Contains(vendorID)
	case AvailabilityNo:
		return false
	default:
		return false
	}
}
