package db

import (
	"testing"

	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"
)

type account struct {
	ID   uint
	Name string
}

func TestRegisterMetricsCallbacks(t *testing.T) {
	gdb, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	d := &DB{DB: gdb}

	var calls int
	err = d.RegisterMetricsCallbacks(func(seconds float64) {
		calls++
		if seconds < 0 {
			t.Errorf("seconds = %f, want >= 0", seconds)
		}
	})
	if err != nil {
		t.Fatalf("RegisterMetricsCallbacks: %v", err)
	}

	t.Run("records query", func(t *testing.T) {
		var out []account
		gdb.Find(&out)
		if calls != 1 {
			t.Errorf("recorded queries = %d, want 1", calls)
		}
	})

	t.Run("records create", func(t *testing.T) {
		gdb.Create(&account{Name: "alice"})
		if calls != 2 {
			t.Errorf("recorded queries = %d, want 2", calls)
		}
	})
}
