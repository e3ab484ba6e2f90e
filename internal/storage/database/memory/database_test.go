package memory

import (
	"testing"

	"github.com/LeJamon/goOracle/internal/storage/database"
	"github.com/LeJamon/goOracle/internal/storage/database/dbtest"
)

func TestMemoryDB(t *testing.T) {
	dbtest.Run(t, func(t *testing.T) database.DB {
		return NewDB()
	})
}
