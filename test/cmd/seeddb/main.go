// Command seeddb creates a SQLite snapshot store populated with random
// projects, their snapshot hierarchies, and measures. Useful for trying out
// the sonar-filter CLI without a real analysis database.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/toshiaki61/sonar/filters"
	"github.com/toshiaki61/sonar/test"
)

const (
	DefaultNumProjects        = 20 // number of projects to generate - adapt as needed
	DefaultNumFilesPerProject = 50 // number of files below each project - adapt as needed
)

var languages = []string{"java", "go", "cobol", "php"}

func main() {
	dbPath := flag.String("db", "sonar-filter.db", "path of the SQLite database to create")
	numProjects := flag.Int("projects", DefaultNumProjects, "number of projects to generate")
	numFiles := flag.Int("files", DefaultNumFilesPerProject, "number of files per project")
	flag.Parse()

	if err := generateFixtureDatabase(*dbPath, *numProjects, *numFiles); err != nil {
		fmt.Fprintf(os.Stderr, "error generating fixture database: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("created %s with %d projects\n", *dbPath, *numProjects)
}

func generateFixtureDatabase(dbPath string, numProjects int, numFiles int) error {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if _, err = db.Exec(test.SchemaDDL()); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	seeder := &seeder{tx: tx, createdAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}

	for i := 0; i < numProjects; i++ {
		if err = seeder.seedProject(numFiles); err != nil {
			return err
		}
	}

	return tx.Commit()
}

type seeder struct {
	tx             *sql.Tx
	nextResourceID int64
	nextSnapshotID int64
	createdAt      time.Time
}

// seedProject creates one project with a current and an outdated analysis,
// plus a flat file hierarchy below the current one.
func (s *seeder) seedProject(numFiles int) error {
	projectKey := "generated:" + uuid.NewString()
	language := languages[rand.Intn(len(languages))]

	projectID, err := s.insertResource(projectKey, "Project "+strconv.FormatInt(s.nextResourceID+1, 10),
		filters.ScopeSet, filters.QualifierProject, language)
	if err != nil {
		return err
	}

	// an older analysis that must never show up in filter results
	s.createdAt = s.createdAt.Add(time.Duration(rand.Intn(3600)+60) * time.Second)
	if _, err = s.insertSnapshot(projectID, nil, "", 0, filters.ScopeSet, filters.QualifierProject, false); err != nil {
		return err
	}

	s.createdAt = s.createdAt.Add(time.Duration(rand.Intn(3600)+60) * time.Second)
	projectSnapshotID, err := s.insertSnapshot(projectID, nil, "", 0, filters.ScopeSet, filters.QualifierProject, true)
	if err != nil {
		return err
	}

	for i := 0; i < numFiles; i++ {
		fileID, fileErr := s.insertResource(
			projectKey+":File"+strconv.Itoa(i),
			"File "+strconv.Itoa(i),
			filters.ScopeEntity, filters.QualifierFile, language)
		if fileErr != nil {
			return fileErr
		}

		path := strconv.FormatInt(projectSnapshotID, 10) + "."
		fileSnapshotID, fileErr := s.insertSnapshot(fileID, &projectSnapshotID, path, 1,
			filters.ScopeEntity, filters.QualifierFile, true)
		if fileErr != nil {
			return fileErr
		}

		if fileErr = s.insertMeasures(fileSnapshotID); fileErr != nil {
			return fileErr
		}
	}

	return nil
}

func (s *seeder) insertResource(key string, name string, scope string, qualifier string, language string) (int64, error) {
	s.nextResourceID++

	_, err := s.tx.Exec(
		`INSERT INTO projects (id, kee, name, long_name, scope, qualifier, language, copy_resource_id, enabled)
		 VALUES (?, ?, ?, ?, ?, ?, ?, NULL, 1)`,
		s.nextResourceID, key, name, name, scope, qualifier, language,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting resource %s: %w", key, err)
	}

	return s.nextResourceID, nil
}

func (s *seeder) insertSnapshot(
	resourceID int64,
	parentSnapshotID *int64,
	path string,
	depth int,
	scope string,
	qualifier string,
	isLast bool,
) (int64, error) {

	s.nextSnapshotID++

	var parent any
	var root any
	if parentSnapshotID != nil {
		parent = *parentSnapshotID
		root = *parentSnapshotID
	}

	_, err := s.tx.Exec(
		`INSERT INTO snapshots (id, project_id, parent_snapshot_id, root_snapshot_id, path, depth, scope, qualifier, version, created_at, status, islast)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'P', ?)`,
		s.nextSnapshotID, resourceID, parent, root, path, depth, scope, qualifier,
		strconv.Itoa(rand.Intn(3)+1)+".0", s.createdAt, isLast,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting snapshot for resource %d: %w", resourceID, err)
	}

	return s.nextSnapshotID, nil
}

func (s *seeder) insertMeasures(snapshotID int64) error {
	measures := map[filters.MetricID]float64{
		test.MetricLines:    float64(rand.Intn(2000) + 10),
		test.MetricCoverage: float64(rand.Intn(101)),
	}

	// most files have no duplication measurement at all
	if rand.Intn(4) == 0 {
		measures[test.MetricDuplicatedLines] = float64(rand.Intn(200))
	}

	for metricID, value := range measures {
		variation := value * (rand.Float64()*0.2 - 0.1)

		_, err := s.tx.Exec(
			`INSERT INTO project_measures (snapshot_id, metric_id, value, variation_value) VALUES (?, ?, ?, ?)`,
			snapshotID, metricID, value, variation,
		)
		if err != nil {
			return fmt.Errorf("inserting measure %d for snapshot %d: %w", metricID, snapshotID, err)
		}
	}

	return nil
}
