package test

import (
	"database/sql"
	_ "embed"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // embedded test database driver
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toshiaki61/sonar/filters"
)

//go:embed schema.sql
var schemaDDL string

// Metric ids used by the measure fixtures.
const (
	MetricLines           filters.MetricID = 1
	MetricCoverage        filters.MetricID = 2
	MetricDuplicatedLines filters.MetricID = 3
)

// SchemaDDL returns the DDL for the snapshot store tables.
func SchemaDDL() string {
	return schemaDDL
}

// GivenFilterTestDB opens a fresh in-memory SQLite database with the snapshot
// store schema applied. The database is closed when the test finishes.
func GivenFilterTestDB(t testing.TB) *sql.DB {
	db, openErr := sql.Open("sqlite3", ":memory:")
	require.NoError(t, openErr, "error opening the test database")

	// an in-memory database lives and dies with its connection
	db.SetMaxOpenConns(1)

	_, execErr := db.Exec(schemaDDL)
	require.NoError(t, execErr, "error applying the test schema")

	t.Cleanup(func() {
		closeErr := db.Close()
		assert.NoError(t, closeErr, "error closing the test database")
	})

	return db
}

// GivenUniqueResourceKey returns a resource key that cannot collide with any
// fixture key.
func GivenUniqueResourceKey(t testing.TB) string {
	key, err := uuid.NewV7()
	assert.NoError(t, err, "error in arranging test data")

	return "generated:" + key.String()
}

// GivenSharedFixture seeds three current resources.
//
//	snapshot 2: project  "Bar"  key foo:bar             java   version 1.0  2008-12-25 01:00
//	snapshot 3: module   "Zoo"  key alpha:core          cobol  version 2.0  2008-12-26 22:00
//	snapshot 4: directory "Core" key foo:org.sonar.core java   version 1.1  2008-12-25 02:30, child of snapshot 2
//
// Snapshot 1 is an outdated snapshot of the project and snapshot 7 an
// unprocessed one of the module, both must never show up in results.
func GivenSharedFixture(t testing.TB, db *sql.DB) {
	givenResource(t, db, resourceRow{id: 2, kee: "foo:bar", name: "Bar", scope: filters.ScopeSet, qualifier: filters.QualifierProject, language: "java"})
	givenResource(t, db, resourceRow{id: 3, kee: "alpha:core", name: "Zoo", scope: filters.ScopeSet, qualifier: filters.QualifierModule, language: "cobol"})
	givenResource(t, db, resourceRow{id: 4, kee: "foo:org.sonar.core", name: "Core", scope: filters.ScopeSpace, qualifier: filters.QualifierDirectory, language: "java"})

	givenSnapshot(t, db, snapshotRow{
		id: 1, resourceID: 2, scope: filters.ScopeSet, qualifier: filters.QualifierProject,
		version: "0.9", createdAt: time.Date(2008, 11, 1, 12, 0, 0, 0, time.UTC), status: "P", isLast: false,
	})
	givenSnapshot(t, db, snapshotRow{
		id: 2, resourceID: 2, scope: filters.ScopeSet, qualifier: filters.QualifierProject,
		version: "1.0", createdAt: time.Date(2008, 12, 25, 1, 0, 0, 0, time.UTC), status: "P", isLast: true,
	})
	givenSnapshot(t, db, snapshotRow{
		id: 3, resourceID: 3, scope: filters.ScopeSet, qualifier: filters.QualifierModule,
		version: "2.0", createdAt: time.Date(2008, 12, 26, 22, 0, 0, 0, time.UTC), status: "P", isLast: true,
	})
	givenSnapshot(t, db, snapshotRow{
		id: 4, resourceID: 4, parentID: ptr(filters.SnapshotID(2)), rootID: ptr(filters.SnapshotID(2)), path: "2.", depth: 1,
		scope: filters.ScopeSpace, qualifier: filters.QualifierDirectory,
		version: "1.1", createdAt: time.Date(2008, 12, 25, 2, 30, 0, 0, time.UTC), status: "P", isLast: true,
	})
	givenSnapshot(t, db, snapshotRow{
		id: 7, resourceID: 3, scope: filters.ScopeSet, qualifier: filters.QualifierModule,
		version: "2.1", createdAt: time.Date(2008, 12, 28, 9, 0, 0, 0, time.UTC), status: "U", isLast: true,
	})
}

// GivenMeasuresFixture seeds two classes below the shared directory.
//
//	snapshot 5 "Cls1": lines 500 (variation +50), coverage 80 (variation -5)
//	snapshot 6 "Cls2": lines  60 (variation  +6), coverage 10 (variation +1), duplicated lines 5 (variation +0.5)
//
// Cls1 has no duplicated lines measurement at all.
func GivenMeasuresFixture(t testing.TB, db *sql.DB) {
	givenResource(t, db, resourceRow{id: 5, kee: "foo:org.sonar.Cls1", name: "Cls1", scope: filters.ScopeEntity, qualifier: filters.QualifierClass, language: "java"})
	givenResource(t, db, resourceRow{id: 6, kee: "foo:org.sonar.Cls2", name: "Cls2", scope: filters.ScopeEntity, qualifier: filters.QualifierClass, language: "java"})

	givenSnapshot(t, db, snapshotRow{
		id: 5, resourceID: 5, parentID: ptr(filters.SnapshotID(4)), rootID: ptr(filters.SnapshotID(2)), path: "2.4.", depth: 2,
		scope: filters.ScopeEntity, qualifier: filters.QualifierClass,
		createdAt: time.Date(2008, 12, 25, 2, 30, 0, 0, time.UTC), status: "P", isLast: true,
	})
	givenSnapshot(t, db, snapshotRow{
		id: 6, resourceID: 6, parentID: ptr(filters.SnapshotID(4)), rootID: ptr(filters.SnapshotID(2)), path: "2.4.", depth: 2,
		scope: filters.ScopeEntity, qualifier: filters.QualifierClass,
		createdAt: time.Date(2008, 12, 25, 2, 30, 0, 0, time.UTC), status: "P", isLast: true,
	})

	givenMeasure(t, db, 5, MetricLines, 500, 50)
	givenMeasure(t, db, 5, MetricCoverage, 80, -5)
	givenMeasure(t, db, 6, MetricLines, 60, 6)
	givenMeasure(t, db, 6, MetricCoverage, 10, 1)
	givenMeasure(t, db, 6, MetricDuplicatedLines, 5, 0.5)
}

// GivenViewsFixture seeds a plain project next to a view hierarchy.
//
//	snapshot 1: project "One"
//	snapshot 2: view "All"
//	snapshot 3: subview "Java" below the view
//	snapshot 4: project copy of "One" below the view
func GivenViewsFixture(t testing.TB, db *sql.DB) {
	givenResource(t, db, resourceRow{id: 1, kee: "org.polop:one", name: "One", scope: filters.ScopeSet, qualifier: filters.QualifierProject, language: "java"})
	givenResource(t, db, resourceRow{id: 2, kee: "views:all", name: "All", scope: filters.ScopeSet, qualifier: filters.QualifierView})
	givenResource(t, db, resourceRow{id: 3, kee: "views:java", name: "Java", scope: filters.ScopeSet, qualifier: filters.QualifierSubview})
	givenResource(t, db, resourceRow{id: 4, kee: "views:all:org.polop:one", name: "One", scope: filters.ScopeSet, qualifier: filters.QualifierProject, language: "java", copyResourceID: ptr(filters.ResourceID(1))})

	createdAt := time.Date(2010, 4, 1, 8, 0, 0, 0, time.UTC)

	givenSnapshot(t, db, snapshotRow{
		id: 1, resourceID: 1, scope: filters.ScopeSet, qualifier: filters.QualifierProject,
		createdAt: createdAt, status: "P", isLast: true,
	})
	givenSnapshot(t, db, snapshotRow{
		id: 2, resourceID: 2, scope: filters.ScopeSet, qualifier: filters.QualifierView,
		createdAt: createdAt, status: "P", isLast: true,
	})
	givenSnapshot(t, db, snapshotRow{
		id: 3, resourceID: 3, parentID: ptr(filters.SnapshotID(2)), rootID: ptr(filters.SnapshotID(2)), path: "2.", depth: 1,
		scope: filters.ScopeSet, qualifier: filters.QualifierSubview,
		createdAt: createdAt, status: "P", isLast: true,
	})
	givenSnapshot(t, db, snapshotRow{
		id: 4, resourceID: 4, parentID: ptr(filters.SnapshotID(2)), rootID: ptr(filters.SnapshotID(2)), path: "2.", depth: 1,
		scope: filters.ScopeSet, qualifier: filters.QualifierProject,
		createdAt: createdAt, status: "P", isLast: true,
	})
}

// GivenHierarchyFixture seeds a four level tree of current snapshots.
//
//	snapshot 11: project, root
//	snapshot 12: module, child of 11, path "11."
//	snapshot 13: directory, child of 12, path "11.12."
//	snapshot 14: file, child of 13, path "11.12.13."
func GivenHierarchyFixture(t testing.TB, db *sql.DB) {
	givenResource(t, db, resourceRow{id: 11, kee: "tree:root", name: "Root", scope: filters.ScopeSet, qualifier: filters.QualifierProject, language: "java"})
	givenResource(t, db, resourceRow{id: 12, kee: "tree:module", name: "Module", scope: filters.ScopeSet, qualifier: filters.QualifierModule, language: "java"})
	givenResource(t, db, resourceRow{id: 13, kee: "tree:module:dir", name: "Dir", scope: filters.ScopeSpace, qualifier: filters.QualifierDirectory, language: "java"})
	givenResource(t, db, resourceRow{id: 14, kee: "tree:module:dir.File", name: "File", scope: filters.ScopeEntity, qualifier: filters.QualifierFile, language: "java"})

	createdAt := time.Date(2011, 6, 15, 14, 0, 0, 0, time.UTC)

	givenSnapshot(t, db, snapshotRow{
		id: 11, resourceID: 11, scope: filters.ScopeSet, qualifier: filters.QualifierProject,
		createdAt: createdAt, status: "P", isLast: true,
	})
	givenSnapshot(t, db, snapshotRow{
		id: 12, resourceID: 12, parentID: ptr(filters.SnapshotID(11)), rootID: ptr(filters.SnapshotID(11)), path: "11.", depth: 1,
		scope: filters.ScopeSet, qualifier: filters.QualifierModule,
		createdAt: createdAt, status: "P", isLast: true,
	})
	givenSnapshot(t, db, snapshotRow{
		id: 13, resourceID: 13, parentID: ptr(filters.SnapshotID(12)), rootID: ptr(filters.SnapshotID(11)), path: "11.12.", depth: 2,
		scope: filters.ScopeSpace, qualifier: filters.QualifierDirectory,
		createdAt: createdAt, status: "P", isLast: true,
	})
	givenSnapshot(t, db, snapshotRow{
		id: 14, resourceID: 14, parentID: ptr(filters.SnapshotID(13)), rootID: ptr(filters.SnapshotID(11)), path: "11.12.13.", depth: 3,
		scope: filters.ScopeEntity, qualifier: filters.QualifierFile,
		createdAt: createdAt, status: "P", isLast: true,
	})
}

// GivenDisabledResourceWithSnapshot seeds a disabled project with a current
// snapshot. It must never show up in results.
func GivenDisabledResourceWithSnapshot(t testing.TB, db *sql.DB, resourceID filters.ResourceID, snapshotID filters.SnapshotID) {
	givenResource(t, db, resourceRow{
		id: resourceID, kee: GivenUniqueResourceKey(t), name: "Disabled",
		scope: filters.ScopeSet, qualifier: filters.QualifierProject, language: "java", disabled: true,
	})
	givenSnapshot(t, db, snapshotRow{
		id: snapshotID, resourceID: resourceID, scope: filters.ScopeSet, qualifier: filters.QualifierProject,
		createdAt: time.Date(2008, 12, 25, 1, 0, 0, 0, time.UTC), status: "P", isLast: true,
	})
}

// AssertSnapshotIDs asserts that the result holds exactly the expected
// snapshot ids, in any order.
func AssertSnapshotIDs(t testing.TB, result filters.Result, expected ...filters.SnapshotID) {
	t.Helper()

	assert.Equal(t, len(expected), result.Size(), "unexpected result size")
	assert.ElementsMatch(t, expected, result.SnapshotIDs(), "unexpected snapshot ids")
}

// AssertSortedSnapshotIDs asserts that the result holds exactly the expected
// snapshot ids, in the expected order.
func AssertSortedSnapshotIDs(t testing.TB, result filters.Result, expected ...filters.SnapshotID) {
	t.Helper()

	assert.Equal(t, expected, result.SnapshotIDs(), "unexpected snapshot id order")
}

type resourceRow struct {
	id             filters.ResourceID
	kee            string
	name           string
	scope          string
	qualifier      string
	language       string
	copyResourceID *filters.ResourceID
	disabled       bool
}

type snapshotRow struct {
	id         filters.SnapshotID
	resourceID filters.ResourceID
	parentID   *filters.SnapshotID
	rootID     *filters.SnapshotID
	path       string
	depth      int
	scope      string
	qualifier  string
	version    string
	createdAt  time.Time
	status     string
	isLast     bool
}

func givenResource(t testing.TB, db *sql.DB, row resourceRow) {
	t.Helper()

	var language any
	if row.language != "" {
		language = row.language
	}

	var copyResourceID any
	if row.copyResourceID != nil {
		copyResourceID = *row.copyResourceID
	}

	_, err := db.Exec(
		`INSERT INTO projects (id, kee, name, long_name, scope, qualifier, language, copy_resource_id, enabled)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.id, row.kee, row.name, row.name, row.scope, row.qualifier, language, copyResourceID, !row.disabled,
	)
	assert.NoError(t, err, "error in seeding a resource")
}

func givenSnapshot(t testing.TB, db *sql.DB, row snapshotRow) {
	t.Helper()

	var parentID any
	if row.parentID != nil {
		parentID = *row.parentID
	}

	var rootID any
	if row.rootID != nil {
		rootID = *row.rootID
	}

	var version any
	if row.version != "" {
		version = row.version
	}

	_, err := db.Exec(
		`INSERT INTO snapshots (id, project_id, parent_snapshot_id, root_snapshot_id, path, depth, scope, qualifier, version, created_at, status, islast)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.id, row.resourceID, parentID, rootID, row.path, row.depth, row.scope, row.qualifier, version, row.createdAt.UTC(), row.status, row.isLast,
	)
	assert.NoError(t, err, "error in seeding a snapshot")
}

func givenMeasure(t testing.TB, db *sql.DB, snapshotID filters.SnapshotID, metricID filters.MetricID, value float64, variation float64) {
	t.Helper()

	_, err := db.Exec(
		`INSERT INTO project_measures (snapshot_id, metric_id, value, variation_value) VALUES (?, ?, ?, ?)`,
		snapshotID, metricID, value, variation,
	)
	assert.NoError(t, err, "error in seeding a measure")
}

func ptr[T any](v T) *T {
	return &v
}
