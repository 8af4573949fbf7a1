package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/bitfantasy/mashg/internal/inspection/testutil"
)

func TestFactorySearchIsLiteral(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewFactoryRepository(db)
	ctx := context.Background()

	testutil.SeedFactory(t, db, "Acme Foods", "1 Industrial Rd")
	testutil.SeedFactory(t, db, "Beta_Bakery", "2 Mill St")
	testutil.SeedFactory(t, db, "100% Dairy", `3 Back\Lane`)

	tests := []struct {
		query string
		want  int
	}{
		{"%", 1},
		{"_", 1},
		{"a_b", 1},
		{"100%", 1},
		{`back\lane`, 1},
		{"ACME", 1},
		{"rd", 1},
		{"zzz", 0},
	}
	for _, tt := range tests {
		got, err := repo.Search(ctx, tt.query)
		if err != nil {
			t.Fatalf("Search(%q): %v", tt.query, err)
		}
		if len(got) != tt.want {
			t.Errorf("Search(%q): expected %d hits, got %d", tt.query, tt.want, len(got))
		}
	}
}

func TestInspectionUpdateReportURL(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewInspectionRepository(db)
	ctx := context.Background()

	factory := testutil.SeedFactory(t, db, "Acme Foods", "1 Industrial Rd")
	insp := testutil.SeedInspection(t, db, factory, "2024-01-01", "20 Tevet 5784")

	key := "reports/2024/01/1/inspection-report-Acme Foods-2024-01-01.pdf"
	if err := repo.UpdateReportURL(ctx, insp.ID, key); err != nil {
		t.Fatalf("UpdateReportURL: %v", err)
	}
	got, err := repo.FindByID(ctx, insp.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.ReportURL != key {
		t.Errorf("Expected report url %q, got %q", key, got.ReportURL)
	}

	if err := repo.UpdateReportURL(ctx, 999999, key); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for unknown inspection, got %v", err)
	}
	if _, err := repo.FindByID(ctx, 999999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound from FindByID, got %v", err)
	}
}
