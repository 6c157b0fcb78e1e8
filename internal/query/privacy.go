package query

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/jarosser06/mosaic/internal/store"
)

// AccessMode selects which privacy levels a query may see. The default
// for this single-user system is full access; narrower modes exist for
// externally facing projections.
type AccessMode string

const (
	AccessAll               AccessMode = "all"
	AccessInternalAndPublic AccessMode = "internal_and_public"
	AccessPublicOnly        AccessMode = "public_only"
)

// Valid reports whether m is a known mode.
func (m AccessMode) Valid() bool {
	switch m {
	case AccessAll, AccessInternalAndPublic, AccessPublicOnly:
		return true
	}
	return false
}

// Predicate returns the canonical WHERE fragment for the mode against
// the given table's privacy_level column. Every privacy-aware read in
// the system goes through this one definition.
func (m AccessMode) Predicate(table string) sq.Sqlizer {
	col := table + ".privacy_level"
	switch m {
	case AccessPublicOnly:
		return sq.Eq{col: store.PrivacyPublic}
	case AccessInternalAndPublic:
		return sq.Eq{col: []store.PrivacyLevel{store.PrivacyPublic, store.PrivacyInternal}}
	default:
		return nil
	}
}
