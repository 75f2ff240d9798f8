package dummydb

import (
	"sync"

	"github.com/edusuivi/hebdo/core/report"
	"github.com/edusuivi/hebdo/core/user"
)

type (
	DB struct {
		user   *userTable
		report *reportTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	reportTable struct {
		sync.RWMutex
		table map[string]*reportEntry
		seq   int
	}

	// reportEntry tracks insertion order for list tie-breaking.
	reportEntry struct {
		rpt report.WeeklyReport
		seq int
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:   &userTable{table: make(map[string]*user.User)},
		report: &reportTable{table: make(map[string]*reportEntry)},
	}
	return db, nil
}
