//nolint:errcheck // testsetup
package tcpostgres

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/velologic/cycling-season-manager-go/pkg/db/migrate"
	database "github.com/velologic/cycling-season-manager-go/pkg/db/postgres"
)

// create a pg connection pool for the cycling season testdatabase
func SetupTestDB() *pgxpool.Pool {
	ctx := context.Background()
	port, err := nat.NewPort("tcp", "5432")
	if err != nil {
		log.Fatal(err)
	}
	container, err := SetupPostgres(ctx,
		WithPort(port.Port()),
		WithInitialDatabase("postgres", "password", "postgres"),
		WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
		WithName("cycling-season-manager-test"),
	)
	if err != nil {
		log.Fatal(err)
	}
	containerPort, _ := container.MappedPort(ctx, port)
	host, _ := container.Host(ctx)
	dbURL := fmt.Sprintf("postgresql://postgres:password@%s:%s/postgres",
		host, containerPort.Port())

	return initPool(dbURL)
}

// SetupExternalTestDB connects to the database given via TESTDB_URL instead
// of starting a container.
func SetupExternalTestDB() *pgxpool.Pool {
	return initPool(os.Getenv("TESTDB_URL"))
}

func initPool(dbURL string) *pgxpool.Pool {
	if err := migrate.MigrateDB(dbURL); err != nil {
		log.Fatal(err)
	}
	pool, err := database.InitWithURL(dbURL)
	if err != nil {
		log.Fatal(err)
	}
	return pool
}

func ClearScoreTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from rider_classification_score")
}

func ClearPlacementTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from classification_placement")
}

func ClearParticipationTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from race_participation")
}

func ClearRaceTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from race")
}

func ClearBikeTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from bike")
}

func ClearRiderTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from rider")
}

func ClearClassificationTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from classification")
}

func ClearSeasonTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from season")
}

func ClearAllTables(pool *pgxpool.Pool) {
	ClearScoreTable(pool)
	ClearPlacementTable(pool)
	ClearParticipationTable(pool)
	ClearRaceTable(pool)
	ClearBikeTable(pool)
	ClearRiderTable(pool)
	ClearClassificationTable(pool)
	ClearSeasonTable(pool)
}
