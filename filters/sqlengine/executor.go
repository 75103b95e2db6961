package sqlengine

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"  // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"   // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/sqlserver" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/toshiaki61/sonar/filters"
	"github.com/toshiaki61/sonar/filters/sqlengine/internal/adapters"
)

const (
	defaultSnapshotTableName = "snapshots"
	defaultResourceTableName = "projects"
	defaultMeasureTableName  = "project_measures"

	aliasSnapshot      = "s"
	aliasResource      = "p"
	aliasSortMeasure   = "pm_sort"
	aliasSortKey       = "sort_key"
	measureAliasPrefix = "pm"

	colSnapshotID        = "s.id"
	colSnapshotResource  = "s.project_id"
	colSnapshotParentID  = "s.parent_snapshot_id"
	colSnapshotPath      = "s.path"
	colSnapshotDepth     = "s.depth"
	colSnapshotScope     = "s.scope"
	colSnapshotQualifier = "s.qualifier"
	colSnapshotVersion   = "s.version"
	colSnapshotCreatedAt = "s.created_at"
	colSnapshotStatus    = "s.status"
	colSnapshotIsLast    = "s.islast"
	colResourceID        = "p.id"
	colResourceKey       = "p.kee"
	colResourceName      = "p.name"
	colResourceLanguage  = "p.language"
	colResourceEnabled   = "p.enabled"
	colResourceCopyID    = "p.copy_resource_id"
	colMeasureSnapshot   = "snapshot_id"
	colMeasureMetric     = "metric_id"
	colMeasureValue      = "value"
	colMeasureVariation  = "variation_value"

	snapshotStatusProcessed = "P"

	globWildcard  = "*"
	sqlWildcard   = "%"
	pathSeparator = "."
	funcUpper     = "UPPER"

	logMsgBuildQueryFailed = "failed to build snapshot select query"
	logMsgDBQueryFailed    = "database query execution failed"
	logMsgCloseRowsFailed  = "failed to close database rows"
	logMsgScanRowFailed    = "failed to scan database row"
	logMsgRowIterFailed    = "database row iteration failed"
	logMsgQueryCompleted   = "filter query completed"
	logMsgEmptyQualifiers  = "filter without qualifiers matches nothing, database not queried"
	logMsgSQLExecuted      = "executed sql for: "
	logMsgOperation        = "filter operation: "
	logAttrError           = "error"
	logAttrQuery           = "query"
	logAttrDialect         = "dialect"
	logAttrRowCount        = "row_count"
	logAttrDurationMS      = "duration_ms"
	logActionQuery         = "query"

	metricQueryDuration = "filterengine_query_duration_seconds"
	metricQueryRows     = "filterengine_query_result_rows"
	metricQueryErrors   = "filterengine_query_errors"
	labelOperation      = "operation"
	labelStatus         = "status"
	labelErrorType      = "error_type"
	statusSuccess       = "success"
	statusError         = "error"
	errorTypeBuild      = "build_query"
	errorTypeQuery      = "execute_query"
	errorTypeScan       = "scan_row"
)

type (
	sqlQueryString = string
	queryDuration  = time.Duration
)

// FilterExecutor compiles a filters.Filter into dialect-specific SQL, executes
// it through a database adapter, and materializes the ordered filters.Result.
//
// The executor itself is stateless apart from its configuration and may be
// shared across goroutines as long as the underlying connection is safe for
// concurrent use.
type FilterExecutor struct {
	db                adapters.DBAdapter
	dialect           Dialect
	snapshotTableName string
	resourceTableName string
	measureTableName  string
	logger            filters.Logger
	contextualLogger  filters.ContextualLogger
	metricsCollector  filters.MetricsCollector
}

// NewFromSQLDB creates a new FilterExecutor using a sql.DB with optional configuration.
func NewFromSQLDB(db *sql.DB, dialect Dialect, options ...Option) (FilterExecutor, error) {
	if db == nil {
		return FilterExecutor{}, filters.ErrNilDatabaseConnection
	}

	return newFilterExecutor(adapters.NewSQLAdapter(db), dialect, options...)
}

// NewFromSQLX creates a new FilterExecutor using a sqlx.DB with optional configuration.
func NewFromSQLX(db *sqlx.DB, dialect Dialect, options ...Option) (FilterExecutor, error) {
	if db == nil {
		return FilterExecutor{}, filters.ErrNilDatabaseConnection
	}

	return newFilterExecutor(adapters.NewSQLXAdapter(db), dialect, options...)
}

// NewFromPGXPool creates a new FilterExecutor using a pgx pool with optional
// configuration. The dialect is always Postgres.
func NewFromPGXPool(pool *pgxpool.Pool, options ...Option) (FilterExecutor, error) {
	if pool == nil {
		return FilterExecutor{}, filters.ErrNilDatabaseConnection
	}

	return newFilterExecutor(adapters.NewPGXAdapter(pool), Postgres(), options...)
}

// NewFromPGXPoolWithReplica creates a new FilterExecutor using a primary pgx
// pool and a replica pool for eventually consistent reads, with optional
// configuration. The dialect is always Postgres.
//
// Queries run against the replica when the context carries
// filters.EventualConsistency, otherwise against the primary.
func NewFromPGXPoolWithReplica(primary *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (FilterExecutor, error) {
	if primary == nil || replica == nil {
		return FilterExecutor{}, filters.ErrNilDatabaseConnection
	}

	return newFilterExecutor(adapters.NewPGXAdapterWithReplica(primary, replica), Postgres(), options...)
}

func newFilterExecutor(db adapters.DBAdapter, dialect Dialect, options ...Option) (FilterExecutor, error) {
	if dialect == nil {
		return FilterExecutor{}, filters.ErrNilDialect
	}

	fe := FilterExecutor{
		db:                db,
		dialect:           dialect,
		snapshotTableName: defaultSnapshotTableName,
		resourceTableName: defaultResourceTableName,
		measureTableName:  defaultMeasureTableName,
	}

	for _, option := range options {
		if err := option(&fe); err != nil {
			return FilterExecutor{}, err
		}
	}

	return fe, nil
}

// Execute compiles the filter, runs it against the database, and returns the
// result rows in the order the compiled query produced them.
//
// A filter without qualifiers matches nothing: Execute returns an empty result
// without touching the database. Storage errors propagate to the caller
// unchanged, there is no retry.
func (fe FilterExecutor) Execute(ctx context.Context, filter filters.Filter) (filters.Result, error) {
	var empty filters.Result

	if filter.MatchesNothing() {
		fe.logOperation(ctx, logMsgEmptyQualifiers, logAttrRowCount, 0)

		return filters.BuildResult(nil), nil
	}

	sqlQuery, args, buildErr := fe.buildSnapshotQuery(filter)
	if buildErr != nil {
		fe.logError(ctx, logMsgBuildQueryFailed, buildErr)
		fe.recordErrorMetrics(ctx, errorTypeBuild)

		return empty, buildErr
	}

	rows, duration, queryErr := fe.executeQuery(ctx, sqlQuery, args)
	if queryErr != nil {
		return empty, queryErr
	}
	defer fe.closeRows(ctx, rows)

	resultRows, scanErr := fe.scanRows(ctx, rows, filter.IsSorted())
	if scanErr != nil {
		fe.recordErrorMetrics(ctx, errorTypeScan)

		return empty, scanErr
	}

	fe.logOperation(
		ctx,
		logMsgQueryCompleted,
		logAttrRowCount, len(resultRows),
		logAttrDurationMS, toMilliseconds(duration))
	fe.recordDurationMetrics(ctx, duration, statusSuccess)
	fe.recordRowCountMetrics(ctx, len(resultRows))

	return filters.BuildResult(resultRows), nil
}

// ToSQL returns the statement text and bound arguments Execute would run for
// the given filter, without executing it. The text is dialect-sensitive in
// exactly the same way as Execute, including the measure join index hint.
//
// Unlike Execute, ToSQL compiles a statement even for a filter without
// qualifiers, the short circuit only guards database access.
func (fe FilterExecutor) ToSQL(filter filters.Filter) (string, []any, error) {
	return fe.buildSnapshotQuery(filter)
}

// Dialect returns the dialect the executor compiles for.
func (fe FilterExecutor) Dialect() Dialect {
	return fe.dialect
}

func (fe FilterExecutor) executeQuery(ctx context.Context, sqlQuery sqlQueryString, args []any) (
	adapters.DBRows,
	queryDuration,
	error,
) {

	start := time.Now()
	rows, queryErr := fe.db.Query(ctx, sqlQuery, args...)
	duration := time.Since(start)
	fe.logQueryWithDuration(ctx, sqlQuery, logActionQuery, duration)

	if queryErr != nil {
		fe.logError(ctx, logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		fe.recordErrorMetrics(ctx, errorTypeQuery)
		fe.recordDurationMetrics(ctx, duration, statusError)

		return nil, duration, errors.Join(filters.ErrQueryingSnapshotsFailed, queryErr)
	}

	return rows, duration, nil
}

func (fe FilterExecutor) scanRows(ctx context.Context, rows adapters.DBRows, sorted bool) ([]filters.Row, error) {
	resultRows := make([]filters.Row, 0)

	for rows.Next() {
		var snapshotID filters.SnapshotID
		var sortKey any

		dest := []any{&snapshotID}
		if sorted {
			dest = append(dest, &sortKey)
		}

		if scanErr := rows.Scan(dest...); scanErr != nil {
			fe.logError(ctx, logMsgScanRowFailed, scanErr)

			return nil, errors.Join(filters.ErrScanningDBRowFailed, scanErr)
		}

		resultRows = append(resultRows, filters.BuildRow(snapshotID, sortKey))
	}

	if iterErr := rows.Err(); iterErr != nil {
		fe.logError(ctx, logMsgRowIterFailed, iterErr)

		return nil, errors.Join(filters.ErrQueryingSnapshotsFailed, iterErr)
	}

	return resultRows, nil
}

func (fe FilterExecutor) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		fe.logWarn(ctx, logMsgCloseRowsFailed, logAttrError, closeErr.Error())
	}
}

func (fe FilterExecutor) buildSnapshotQuery(filter filters.Filter) (sqlQueryString, []any, error) {
	builder := goqu.Dialect(fe.dialect.Name())

	stmt := builder.
		From(goqu.T(fe.snapshotTableName).As(aliasSnapshot)).
		InnerJoin(
			goqu.T(fe.resourceTableName).As(aliasResource),
			goqu.On(fe.resourceJoinConditions(filter)...),
		).
		Select(fe.selectColumns(filter)...)

	stmt = fe.addMeasureCriterionJoins(filter, stmt)
	stmt = fe.addSortMeasureJoin(filter, stmt)
	stmt = fe.addWhereClause(filter, stmt)
	stmt = fe.addOrderClause(filter, stmt)

	sqlQuery, args, toSQLErr := stmt.Prepared(true).ToSQL()
	if toSQLErr != nil {
		return "", nil, errors.Join(filters.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, args, nil
}

// resourceJoinConditions anchors every snapshot on its enabled resource.
// Without a path constraint the join additionally drops project copies, the
// duplicate snapshots a view materializes for each of its projects. A
// path-constrained query targets a view subtree and must report them.
func (fe FilterExecutor) resourceJoinConditions(filter filters.Filter) []exp.Expression {
	conditions := []exp.Expression{
		goqu.I(colResourceID).Eq(goqu.I(colSnapshotResource)),
		goqu.I(colResourceEnabled).Eq(true),
	}

	if filter.Path().IsZero() {
		conditions = append(conditions, goqu.I(colResourceCopyID).IsNull())
	}

	return conditions
}

// selectColumns is the fixed column contract: column 0 is the snapshot id,
// column 1 is the sort key when a sort mode is active.
func (fe FilterExecutor) selectColumns(filter filters.Filter) []any {
	columns := []any{goqu.I(colSnapshotID)}

	if filter.IsSorted() {
		columns = append(columns, goqu.I(fe.sortColumn(filter)).As(aliasSortKey))
	}

	return columns
}

// addMeasureCriterionJoins adds one inner join per criterion so that several
// criteria on the same metric intersect as a range instead of collapsing into
// a single predicate.
func (fe FilterExecutor) addMeasureCriterionJoins(filter filters.Filter, stmt *goqu.SelectDataset) *goqu.SelectDataset {
	for i, criterion := range filter.MeasureCriteria() {
		alias := measureAliasPrefix + strconv.Itoa(i+1)
		valueColumn := goqu.I(alias + pathSeparator + measureValueColumn(criterion.OnVariation()))

		stmt = stmt.InnerJoin(
			fe.measureTableReference(alias),
			goqu.On(
				goqu.I(alias+pathSeparator+colMeasureSnapshot).Eq(goqu.I(colSnapshotID)),
				goqu.I(alias+pathSeparator+colMeasureMetric).Eq(criterion.MetricID()),
				comparison(valueColumn, criterion.Operator(), criterion.Value()),
			),
		)
	}

	return stmt
}

// addSortMeasureJoin supplies the sort key for a measure sort. The join is an
// outer one: snapshots lacking the measurement stay in the result and sort
// after all others.
func (fe FilterExecutor) addSortMeasureJoin(filter filters.Filter, stmt *goqu.SelectDataset) *goqu.SelectDataset {
	if !filter.IsSortedByMeasure() {
		return stmt
	}

	return stmt.LeftJoin(
		fe.measureTableReference(aliasSortMeasure),
		goqu.On(
			goqu.I(aliasSortMeasure+pathSeparator+colMeasureSnapshot).Eq(goqu.I(colSnapshotID)),
			goqu.I(aliasSortMeasure+pathSeparator+colMeasureMetric).Eq(filter.SortMetricID()),
		),
	)
}

// measureTableReference renders the measure table for one join. When the
// dialect forces an index, the hint must sit directly after the table
// reference, which only a literal fragment can express.
func (fe FilterExecutor) measureTableReference(alias string) exp.Expression {
	if hint := fe.dialect.MeasureJoinHint(); hint != "" {
		return goqu.L(fe.measureTableName + " AS " + alias + " " + hint)
	}

	return goqu.T(fe.measureTableName).As(alias)
}

func (fe FilterExecutor) addWhereClause(filter filters.Filter, stmt *goqu.SelectDataset) *goqu.SelectDataset {
	conditions := []exp.Expression{
		goqu.I(colSnapshotStatus).Eq(snapshotStatusProcessed),
		goqu.I(colSnapshotIsLast).Eq(true),
	}

	if scopes := filter.Scopes(); len(scopes) > 0 {
		conditions = append(conditions, goqu.I(colSnapshotScope).In(scopes))
	}

	if qualifiers := filter.Qualifiers(); len(qualifiers) > 0 {
		conditions = append(conditions, goqu.I(colSnapshotQualifier).In(qualifiers))
	}

	if languages := filter.Languages(); len(languages) > 0 {
		conditions = append(conditions, goqu.I(colResourceLanguage).In(languages))
	}

	if resourceIDs := filter.ResourceIDs(); len(resourceIDs) > 0 {
		conditions = append(conditions, goqu.I(colResourceID).In(resourceIDs))
	}

	if dateCriterion := filter.DateCriterion(); !dateCriterion.IsZero() {
		conditions = append(
			conditions,
			comparison(goqu.I(colSnapshotCreatedAt), dateCriterion.Operator(), dateCriterion.Date()),
		)
	}

	if pattern := filter.KeyPattern(); pattern != "" {
		sqlPattern := strings.ToUpper(strings.ReplaceAll(pattern, globWildcard, sqlWildcard))
		conditions = append(conditions, goqu.Func(funcUpper, goqu.I(colResourceKey)).Like(sqlPattern))
	}

	conditions = append(conditions, pathConditions(filter.Path())...)

	return stmt.Where(conditions...)
}

// pathConditions restricts to the subtree of the base snapshot: direct
// children match on the parent id, descendants match on the materialized path
// prefix below the base depth.
func pathConditions(path filters.PathConstraint) []exp.Expression {
	if path.IsZero() {
		return nil
	}

	if path.Suffix() == "" {
		return []exp.Expression{goqu.I(colSnapshotParentID).Eq(path.BaseSnapshotID())}
	}

	pathPattern := path.Suffix() + strconv.FormatInt(path.BaseSnapshotID(), 10) + pathSeparator + sqlWildcard

	return []exp.Expression{
		goqu.I(colSnapshotPath).Like(pathPattern),
		goqu.I(colSnapshotDepth).Gt(path.BaseDepth()),
	}
}

func (fe FilterExecutor) addOrderClause(filter filters.Filter, stmt *goqu.SelectDataset) *goqu.SelectDataset {
	if !filter.IsSorted() {
		return stmt
	}

	sortColumn := fe.sortColumn(filter)

	direction := goqu.I(sortColumn).Asc()
	if !filter.IsAscendingSort() {
		direction = goqu.I(sortColumn).Desc()
	}

	if filter.IsSortedByMeasure() {
		// missing measurements sort last in both directions
		nullsLast := goqu.L("CASE WHEN " + sortColumn + " IS NULL THEN 1 ELSE 0 END").Asc()

		return stmt.Order(nullsLast, direction)
	}

	return stmt.Order(direction)
}

func (fe FilterExecutor) sortColumn(filter filters.Filter) string {
	switch filter.SortedBy() {
	case filters.SortFieldName:
		return colResourceName
	case filters.SortFieldKey:
		return colResourceKey
	case filters.SortFieldDate:
		return colSnapshotCreatedAt
	case filters.SortFieldVersion:
		return colSnapshotVersion
	case filters.SortFieldLanguage:
		return colResourceLanguage
	case filters.SortFieldMeasure:
		return aliasSortMeasure + pathSeparator + measureValueColumn(filter.SortOnVariation())
	default:
		return colSnapshotID
	}
}

func measureValueColumn(onVariation bool) string {
	if onVariation {
		return colMeasureVariation
	}

	return colMeasureValue
}

func comparison(column exp.IdentifierExpression, operator filters.Operator, value any) exp.Expression {
	switch operator {
	case filters.OperatorGreater:
		return column.Gt(value)
	case filters.OperatorLess:
		return column.Lt(value)
	case filters.OperatorGreaterEqual:
		return column.Gte(value)
	case filters.OperatorLessEqual:
		return column.Lte(value)
	default:
		return column.Eq(value)
	}
}
