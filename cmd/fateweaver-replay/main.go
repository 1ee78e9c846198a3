package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/velesar/fateweaver/internal/constants"
	"github.com/velesar/fateweaver/internal/logging"
	"github.com/velesar/fateweaver/internal/service"
	"github.com/velesar/fateweaver/internal/storage"
)

// fateweaver-replay verifies stored golden fixtures against the
// current engine. A non-zero exit means at least one fixture no longer
// reproduces its recorded fingerprint.
func main() {
	dbPath := flag.String("db", "", "path to the fateweaver database (defaults to $FATEWEAVER_DB)")
	name := flag.String("fixture", "", "verify a single fixture by name instead of all of them")
	flag.Parse()

	path := *dbPath
	if path == "" {
		path = os.Getenv(constants.EnvDBPath)
	}
	if path == "" {
		path = constants.DefaultDBPath
	}

	db, err := storage.OpenAndMigrate(path)
	if err != nil {
		logging.Fatal("Failed to open database", err, logging.Fields{"db_path": path})
	}
	repo := storage.NewSQLiteRepository(db)

	var reports []service.FixtureReport
	if *name != "" {
		report, err := service.VerifyFixture(repo, *name)
		if err != nil {
			logging.Fatal("Failed to verify fixture", err, logging.Fields{constants.LogFieldFixture: *name})
		}
		reports = append(reports, *report)
	} else {
		reports, err = service.VerifyAllFixtures(repo)
		if err != nil {
			logging.Fatal("Failed to verify fixtures", err, nil)
		}
	}

	failed := 0
	for _, r := range reports {
		status := "ok"
		if !r.Passed() {
			status = "FAILED"
			failed++
		}
		fmt.Printf("%-30s %s (deterministic=%v fingerprint_matches=%v)\n", r.Name, status, r.Deterministic, r.FingerprintMatches)
	}
	fmt.Printf("%d fixtures verified, %d failed\n", len(reports), failed)
	if failed > 0 {
		os.Exit(1)
	}
}
