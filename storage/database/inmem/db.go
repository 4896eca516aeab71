package inmemdb

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/Kris-Young-Kim/co-AT-sub000/core"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/application"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/client"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/equipment"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/fabrication"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/schedule"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/user"
)

type (
	// DB keeps every table in memory. Transactions are serialised and roll back by restoring a
	// snapshot taken when they started.
	DB struct {
		mutex   sync.RWMutex
		txMutex sync.Mutex

		users        map[string]user.User
		clients      map[string]client.Client
		applications map[string]application.Application
		serviceLogs  map[string]application.ServiceLog
		equipment    map[string]equipment.Equipment
		jobs         map[string]fabrication.Job
		events       []fabrication.ProgressEvent
		schedules    []schedule.Entry

		failures map[string]error
	}

	snapshot struct {
		users        map[string]user.User
		clients      map[string]client.Client
		applications map[string]application.Application
		serviceLogs  map[string]application.ServiceLog
		equipment    map[string]equipment.Equipment
		jobs         map[string]fabrication.Job
		events       []fabrication.ProgressEvent
		schedules    []schedule.Entry
	}
)

var _ core.TxRunner = (*DB)(nil) // interface compliance check

func Open() *DB {
	return &DB{
		users:        make(map[string]user.User),
		clients:      make(map[string]client.Client),
		applications: make(map[string]application.Application),
		serviceLogs:  make(map[string]application.ServiceLog),
		equipment:    make(map[string]equipment.Equipment),
		jobs:         make(map[string]fabrication.Job),
		failures:     make(map[string]error),
	}
}

// RunInTx runs fn with a nil executor; repositories of this package ignore it.
func (db *DB) RunInTx(ctx context.Context, fn func(exec core.DBExecutor) error) error {
	db.txMutex.Lock()
	defer db.txMutex.Unlock()

	snap := db.snapshot()
	if err := fn(nil); err != nil {
		db.restore(snap)
		return err
	}
	return nil
}

// FailOn makes the next calls of the named repository method return err until cleared with a nil err.
func (db *DB) FailOn(method string, err error) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	if err == nil {
		delete(db.failures, method)
		return
	}
	db.failures[method] = err
}

// Reset empties every table.
func (db *DB) Reset() {
	fresh := Open()
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.users = fresh.users
	db.clients = fresh.clients
	db.applications = fresh.applications
	db.serviceLogs = fresh.serviceLogs
	db.equipment = fresh.equipment
	db.jobs = fresh.jobs
	db.events = nil
	db.schedules = nil
	db.failures = fresh.failures
}

// failure must be called with the mutex held.
func (db *DB) failure(method string) error {
	return db.failures[method]
}

func (db *DB) snapshot() snapshot {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	return snapshot{
		users:        maps.Clone(db.users),
		clients:      maps.Clone(db.clients),
		applications: maps.Clone(db.applications),
		serviceLogs:  maps.Clone(db.serviceLogs),
		equipment:    maps.Clone(db.equipment),
		jobs:         maps.Clone(db.jobs),
		events:       slices.Clone(db.events),
		schedules:    slices.Clone(db.schedules),
	}
}

func (db *DB) restore(snap snapshot) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.users = snap.users
	db.clients = snap.clients
	db.applications = snap.applications
	db.serviceLogs = snap.serviceLogs
	db.equipment = snap.equipment
	db.jobs = snap.jobs
	db.events = snap.events
	db.schedules = snap.schedules
}
