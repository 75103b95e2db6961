package filters

import (
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// ErrInvalidFilterJSON is returned when filter JSON data is malformed or describes an illegal filter.
var ErrInvalidFilterJSON = errors.New("filter json is not valid")

// filterDocument is the persisted shape of a Filter.
type filterDocument struct {
	Scopes          []string            `json:"scopes,omitempty"`
	Qualifiers      []string            `json:"qualifiers,omitempty"`
	Languages       []string            `json:"languages,omitempty"`
	ResourceIDs     []ResourceID        `json:"resource_ids,omitempty"`
	DateOperator    string              `json:"date_operator,omitempty"`
	Date            *time.Time          `json:"date,omitempty"`
	KeyPattern      string              `json:"key_pattern,omitempty"`
	Path            *pathDocument       `json:"path,omitempty"`
	MeasureCriteria []criterionDocument `json:"measure_criteria,omitempty"`
	SortField       string              `json:"sort_field,omitempty"`
	SortMetricID    MetricID            `json:"sort_metric_id,omitempty"`
	SortOnVariation bool                `json:"sort_on_variation,omitempty"`
	SortDescending  bool                `json:"sort_descending,omitempty"`
}

type pathDocument struct {
	BaseSnapshotID SnapshotID `json:"base_snapshot_id"`
	BaseDepth      int        `json:"base_depth"`
	Suffix         string     `json:"suffix,omitempty"`
}

type criterionDocument struct {
	MetricID    MetricID `json:"metric_id"`
	Operator    string   `json:"operator"`
	Value       float64  `json:"value"`
	OnVariation bool     `json:"on_variation,omitempty"`
}

// MarshalFilterJSON serializes a Filter so it can be persisted, for example as a saved filter.
func MarshalFilterJSON(filter Filter) ([]byte, error) {
	doc := filterDocument{
		Scopes:          filter.scopes,
		Qualifiers:      filter.qualifiers,
		Languages:       filter.languages,
		ResourceIDs:     filter.resourceIDs,
		KeyPattern:      filter.keyPattern,
		SortMetricID:    filter.sortMetricID,
		SortOnVariation: filter.sortOnVariation,
		SortDescending:  !filter.sortAscending,
	}

	if !filter.dateCriterion.IsZero() {
		date := filter.dateCriterion.date
		doc.DateOperator = string(filter.dateCriterion.operator)
		doc.Date = &date
	}

	if !filter.path.IsZero() {
		doc.Path = &pathDocument{
			BaseSnapshotID: filter.path.baseSnapshotID,
			BaseDepth:      filter.path.baseDepth,
			Suffix:         filter.path.suffix,
		}
	}

	for _, criterion := range filter.measureCriteria {
		doc.MeasureCriteria = append(doc.MeasureCriteria, criterionDocument{
			MetricID:    criterion.metricID,
			Operator:    string(criterion.operator),
			Value:       criterion.value,
			OnVariation: criterion.onVariation,
		})
	}

	if filter.sortField != SortFieldNone {
		doc.SortField = filter.sortField.String()
	}

	return jsoniter.ConfigFastest.Marshal(doc)
}

// UnmarshalFilterJSON deserializes a persisted filter document.
// The filter is rebuilt through the regular builder so a stored document is
// subject to the same sanitizing and validation as a freshly configured one.
func UnmarshalFilterJSON(data []byte) (Filter, error) {
	if !jsoniter.ConfigFastest.Valid(data) {
		return Filter{}, ErrInvalidFilterJSON
	}

	var doc filterDocument
	if unmarshalErr := jsoniter.ConfigFastest.Unmarshal(data, &doc); unmarshalErr != nil {
		return Filter{}, errors.Join(ErrInvalidFilterJSON, unmarshalErr)
	}

	fb := BuildSnapshotFilter()

	if len(doc.Scopes) > 0 {
		fb.OnScopes(doc.Scopes[0], doc.Scopes[1:]...)
	}

	if len(doc.Qualifiers) > 0 {
		fb.OnQualifiers(doc.Qualifiers[0], doc.Qualifiers[1:]...)
	}

	if len(doc.Languages) > 0 {
		fb.OnLanguages(doc.Languages[0], doc.Languages[1:]...)
	}

	if len(doc.ResourceIDs) > 0 {
		fb.OnResourceIDs(doc.ResourceIDs[0], doc.ResourceIDs[1:]...)
	}

	if doc.DateOperator != "" && doc.Date != nil {
		criterion, buildErr := BuildDateCriterion(Operator(doc.DateOperator), *doc.Date)
		if buildErr != nil {
			return Filter{}, errors.Join(ErrInvalidFilterJSON, buildErr)
		}

		fb.WithDateCriterion(criterion)
	}

	if doc.KeyPattern != "" {
		fb.WithKeyPattern(doc.KeyPattern)
	}

	if doc.Path != nil {
		fb.UnderPath(doc.Path.BaseSnapshotID, doc.Path.BaseDepth, doc.Path.Suffix)
	}

	for _, criterionDoc := range doc.MeasureCriteria {
		criterion, buildErr := BuildMeasureCriterion(
			criterionDoc.MetricID,
			Operator(criterionDoc.Operator),
			criterionDoc.Value,
			criterionDoc.OnVariation,
		)
		if buildErr != nil {
			return Filter{}, errors.Join(ErrInvalidFilterJSON, buildErr)
		}

		fb.AddMeasureCriterion(criterion)
	}

	if applyErr := applySortField(fb, doc); applyErr != nil {
		return Filter{}, applyErr
	}

	fb.SortAscending(!doc.SortDescending)

	filter, finalizeErr := fb.Finalize()
	if finalizeErr != nil {
		return Filter{}, errors.Join(ErrInvalidFilterJSON, finalizeErr)
	}

	return filter, nil
}

func applySortField(fb *FilterBuilder, doc filterDocument) error {
	switch doc.SortField {
	case "", SortFieldNone.String():
		// unsorted
	case SortFieldName.String():
		fb.SortByName()
	case SortFieldKey.String():
		fb.SortByKey()
	case SortFieldDate.String():
		fb.SortByDate()
	case SortFieldVersion.String():
		fb.SortByVersion()
	case SortFieldLanguage.String():
		fb.SortByLanguage()
	case SortFieldMeasure.String():
		fb.SortByMeasure(doc.SortMetricID, doc.SortOnVariation)
	default:
		return ErrInvalidFilterJSON
	}

	return nil
}
