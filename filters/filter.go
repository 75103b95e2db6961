package filters

import (
	"slices"
)

/***** SortField *****/

// SortField identifies the single field a filter orders its results by.
type SortField int

const (
	SortFieldNone SortField = iota
	SortFieldName
	SortFieldKey
	SortFieldDate
	SortFieldVersion
	SortFieldLanguage
	SortFieldMeasure
)

// String provides a string representation of SortField for logging and debugging.
func (sf SortField) String() string {
	switch sf {
	case SortFieldNone:
		return "none"
	case SortFieldName:
		return "name"
	case SortFieldKey:
		return "key"
	case SortFieldDate:
		return "date"
	case SortFieldVersion:
		return "version"
	case SortFieldLanguage:
		return "language"
	case SortFieldMeasure:
		return "measure"
	default:
		return "unknown"
	}
}

/***** PathConstraint *****/

// PathConstraint restricts a filter to the descendants of one base snapshot.
// An empty suffix selects direct children only, a non-empty suffix selects
// every descendant below the base snapshot's materialized path.
type PathConstraint struct {
	baseSnapshotID SnapshotID
	baseDepth      int
	suffix         string
}

func (pc PathConstraint) BaseSnapshotID() SnapshotID {
	return pc.baseSnapshotID
}

func (pc PathConstraint) BaseDepth() int {
	return pc.baseDepth
}

func (pc PathConstraint) Suffix() string {
	return pc.suffix
}

// IsZero reports whether no path constraint was configured.
func (pc PathConstraint) IsZero() bool {
	return pc.baseSnapshotID == 0
}

/***** Filter *****/

// Filter is an immutable description of one snapshot query: which resources to
// select and how to order them. It is created with BuildSnapshotFilter or
// BuildSnapshotFilterForAllQualifiers and configured through the returned builder.
//
// A filter without any qualifier deliberately matches nothing, never everything.
type Filter struct {
	scopes          []string
	qualifiers      []string
	languages       []string
	resourceIDs     []ResourceID
	dateCriterion   DateCriterion
	keyPattern      string
	path            PathConstraint
	measureCriteria []MeasureCriterion
	sortField       SortField
	sortMetricID    MetricID
	sortOnVariation bool
	sortAscending   bool
}

func (f Filter) Scopes() []string {
	return f.scopes
}

func (f Filter) Qualifiers() []string {
	return f.qualifiers
}

func (f Filter) Languages() []string {
	return f.languages
}

func (f Filter) ResourceIDs() []ResourceID {
	return f.resourceIDs
}

func (f Filter) DateCriterion() DateCriterion {
	return f.dateCriterion
}

func (f Filter) KeyPattern() string {
	return f.keyPattern
}

func (f Filter) Path() PathConstraint {
	return f.path
}

func (f Filter) MeasureCriteria() []MeasureCriterion {
	return f.measureCriteria
}

func (f Filter) SortedBy() SortField {
	return f.sortField
}

func (f Filter) SortMetricID() MetricID {
	return f.sortMetricID
}

func (f Filter) SortOnVariation() bool {
	return f.sortOnVariation
}

func (f Filter) IsAscendingSort() bool {
	return f.sortAscending
}

func (f Filter) IsSorted() bool {
	return f.sortField != SortFieldNone
}

func (f Filter) IsSortedByMeasure() bool {
	return f.sortField == SortFieldMeasure
}

// MatchesNothing reports whether the filter can never select a row.
// This is the case for an empty qualifier set.
func (f Filter) MatchesNothing() bool {
	return len(f.qualifiers) == 0
}

/***** FilterBuilder *****/

// FilterBuilder assembles a Filter through chained calls and must eventually
// be finalized with Finalize().
//
// All restrictions are optional and combine with AND:
//
//   - OnScopes / OnQualifiers / OnLanguages / OnResourceIDs restrict to matching resources
//   - WithDateCriterion restricts on the snapshot creation instant
//   - WithKeyPattern restricts on the resource key, case-insensitive, * is the wildcard
//   - UnderPath restricts to children or descendants of a base snapshot
//   - AddMeasureCriterion appends one measure restriction per call, criteria on
//     the same metric intersect as a range
//
// At most one sort mode may be active. Re-invoking the same sort mode is
// idempotent, configuring a second different mode is a programming error
// reported by Finalize.
type FilterBuilder struct {
	filter       Filter
	sortConflict bool
}

// BuildSnapshotFilter creates a FilterBuilder without any qualifier restriction.
// Until OnQualifiers is called the resulting filter matches nothing.
func BuildSnapshotFilter() *FilterBuilder {
	return &FilterBuilder{
		filter: Filter{sortAscending: true},
	}
}

// BuildSnapshotFilterForAllQualifiers creates a FilterBuilder whose qualifier
// set covers every known resource type.
func BuildSnapshotFilterForAllQualifiers() *FilterBuilder {
	fb := BuildSnapshotFilter()
	fb.filter.qualifiers = AllQualifiers()

	return fb
}

// OnScopes restricts the filter to resources with one of the given scope codes.
//
// It sanitizes the input:
//   - removing empty scopes ("")
//   - sorting the scopes
//   - removing duplicate scopes
func (fb *FilterBuilder) OnScopes(scope string, scopes ...string) *FilterBuilder {
	fb.filter.scopes = sanitizeCodes(scope, scopes...)

	return fb
}

// OnQualifiers restricts the filter to resources with one of the given qualifier codes.
//
// It sanitizes the input:
//   - removing empty qualifiers ("")
//   - sorting the qualifiers
//   - removing duplicate qualifiers
func (fb *FilterBuilder) OnQualifiers(qualifier string, qualifiers ...string) *FilterBuilder {
	fb.filter.qualifiers = sanitizeCodes(qualifier, qualifiers...)

	return fb
}

// OnLanguages restricts the filter to resources with one of the given language codes.
//
// It sanitizes the input:
//   - removing empty languages ("")
//   - sorting the languages
//   - removing duplicate languages
func (fb *FilterBuilder) OnLanguages(language string, languages ...string) *FilterBuilder {
	fb.filter.languages = sanitizeCodes(language, languages...)

	return fb
}

// OnResourceIDs restricts the filter to the given resources, for example a user's favourites.
//
// It sanitizes the input:
//   - removing non-positive ids
//   - sorting the ids
//   - removing duplicate ids
func (fb *FilterBuilder) OnResourceIDs(resourceID ResourceID, resourceIDs ...ResourceID) *FilterBuilder {
	allIDs := append([]ResourceID{resourceID}, resourceIDs...)
	allIDs = slices.DeleteFunc(allIDs, func(id ResourceID) bool { return id <= 0 })
	slices.Sort(allIDs)
	allIDs = slices.Compact(allIDs)
	fb.filter.resourceIDs = slices.Clip(allIDs)

	return fb
}

// WithDateCriterion restricts the filter on the snapshot creation instant.
// A zero criterion removes the restriction.
func (fb *FilterBuilder) WithDateCriterion(criterion DateCriterion) *FilterBuilder {
	fb.filter.dateCriterion = criterion

	return fb
}

// WithKeyPattern restricts the filter to resources whose key matches the given
// glob-style pattern. Matching is case-insensitive and * matches any sequence
// of characters.
func (fb *FilterBuilder) WithKeyPattern(pattern string) *FilterBuilder {
	fb.filter.keyPattern = pattern

	return fb
}

// UnderPath restricts the filter to descendants of the given base snapshot.
// An empty pathSuffix selects direct children only. A non-empty pathSuffix must
// be the base snapshot's own materialized path and selects every descendant
// below it, at a depth greater than baseDepth.
func (fb *FilterBuilder) UnderPath(baseSnapshotID SnapshotID, baseDepth int, pathSuffix string) *FilterBuilder {
	fb.filter.path = PathConstraint{
		baseSnapshotID: baseSnapshotID,
		baseDepth:      baseDepth,
		suffix:         pathSuffix,
	}

	return fb
}

// AddMeasureCriterion appends one measure restriction. All appended criteria
// must match (AND), including multiple criteria on the same metric.
// Zero-value criteria are ignored.
func (fb *FilterBuilder) AddMeasureCriterion(criterion MeasureCriterion) *FilterBuilder {
	if criterion.metricID <= 0 || criterion.operator == "" {
		return fb
	}

	fb.filter.measureCriteria = append(fb.filter.measureCriteria, criterion)

	return fb
}

// SortByName orders results by resource name.
func (fb *FilterBuilder) SortByName() *FilterBuilder {
	return fb.setSortField(SortFieldName)
}

// SortByKey orders results by resource key.
func (fb *FilterBuilder) SortByKey() *FilterBuilder {
	return fb.setSortField(SortFieldKey)
}

// SortByDate orders results by snapshot creation instant.
func (fb *FilterBuilder) SortByDate() *FilterBuilder {
	return fb.setSortField(SortFieldDate)
}

// SortByVersion orders results by snapshot version.
func (fb *FilterBuilder) SortByVersion() *FilterBuilder {
	return fb.setSortField(SortFieldVersion)
}

// SortByLanguage orders results by resource language.
func (fb *FilterBuilder) SortByLanguage() *FilterBuilder {
	return fb.setSortField(SortFieldLanguage)
}

// SortByMeasure orders results by the latest measurement of the given metric.
// Resources without a measurement for that metric sort after all others,
// regardless of the sort direction. With onVariation the measurement's
// variation is used instead of its value.
func (fb *FilterBuilder) SortByMeasure(metricID MetricID, onVariation bool) *FilterBuilder {
	fb.setSortField(SortFieldMeasure)
	fb.filter.sortMetricID = metricID
	fb.filter.sortOnVariation = onVariation

	return fb
}

// SortAscending sets the sort direction, the default is ascending.
func (fb *FilterBuilder) SortAscending(ascending bool) *FilterBuilder {
	fb.filter.sortAscending = ascending

	return fb
}

func (fb *FilterBuilder) setSortField(field SortField) *FilterBuilder {
	if fb.filter.sortField != SortFieldNone && fb.filter.sortField != field {
		fb.sortConflict = true

		return fb
	}

	fb.filter.sortField = field

	return fb
}

// Finalize returns the immutable Filter.
// It fails fast on illegal configuration: conflicting sort modes or a measure
// sort without a valid metric id.
func (fb *FilterBuilder) Finalize() (Filter, error) {
	if fb.sortConflict {
		return Filter{}, ErrConflictingSortModes
	}

	if fb.filter.sortField == SortFieldMeasure && fb.filter.sortMetricID <= 0 {
		return Filter{}, ErrInvalidMetricID
	}

	return fb.filter, nil
}

func sanitizeCodes(code string, codes ...string) []string {
	allCodes := append([]string{code}, codes...)
	allCodes = slices.DeleteFunc(allCodes, func(c string) bool { return c == "" })
	slices.Sort(allCodes)
	allCodes = slices.Compact(allCodes)

	return slices.Clip(allCodes)
}
