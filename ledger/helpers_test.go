package ledger_test

import (
	"testing"
	"time"

	"gorm.io/gorm"
)

// fakeClock is a settable clock shared by a ledger under test.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Set(t time.Time) { c.t = t }

func at(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}

// interleave runs write once, right before the next create ("create") or
// update ("update") statement on table reaches the database. write shares the
// statement's connection, so it lands inside any transaction the statement is in.
func interleave(t *testing.T, db *gorm.DB, op, table string, write func(tx *gorm.DB) error) {
	t.Helper()
	fired := false
	cb := func(tx *gorm.DB) {
		if fired || tx.Statement.Table != table {
			return
		}
		fired = true
		if err := write(tx.Session(&gorm.Session{NewDB: true})); err != nil {
			t.Errorf("interleaved write on %s: %v", table, err)
		}
	}
	var err error
	switch op {
	case "create":
		err = db.Callback().Create().Before("gorm:create").Register("test:interleave", cb)
	case "update":
		err = db.Callback().Update().Before("gorm:update").Register("test:interleave", cb)
	default:
		t.Fatalf("interleave: unknown op %q", op)
	}
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}
}
