package testdb

import (
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	tcpg "github.com/velologic/cycling-season-manager-go/testsupport/tcpostgres"
)

func InitTestDB() *pgxpool.Pool {
	var pool *pgxpool.Pool

	if os.Getenv("TESTDB_URL") != "" {
		pool = tcpg.SetupExternalTestDB()
	} else {
		pool = tcpg.SetupTestDB()
	}
	if pool == nil {
		log.Fatal("could not initialize test database")
	}
	tcpg.ClearAllTables(pool)
	return pool
}
