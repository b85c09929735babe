package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	db "github.com/bcre/estate-import/internal/database"
)

// ----------------------------------------------------------------------------
// Test fixtures
// ----------------------------------------------------------------------------

// fakeStore stands in for the database at the definition boundary.
type fakeStore struct {
	inserts     []any
	insertErrs  []error // popped per insert; nil means success
	realtors    map[int64]bool
	existsCalls int
	existsErr   error
}

func (f *fakeStore) insert(params any) (int64, error) {
	if len(f.insertErrs) > 0 {
		err := f.insertErrs[0]
		f.insertErrs = f.insertErrs[1:]
		if err != nil {
			return 0, err
		}
	}
	f.inserts = append(f.inserts, params)
	return int64(len(f.inserts)), nil
}

func (f *fakeStore) exists(_ context.Context, id int64) (bool, error) {
	f.existsCalls++
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.realtors[id], nil
}

func newTestService(t *testing.T, store *fakeStore) *Service {
	t.Helper()
	t.Cleanup(Clear)

	Register(EntityDefinition{
		Info: EntityInfo{Key: "realtor", Label: "Realtors", Table: "realtors_realtor"},
		FieldSpecs: []FieldSpec{
			{Name: "name", Type: FieldText, Required: true},
			{Name: "phone", Type: FieldText, Required: true},
			{Name: "email", Type: FieldText, Required: true},
			{Name: "is_mvp", Type: FieldBool},
			{Name: "hire_date", Type: FieldDate},
		},
		BuildParams: func(row []string, idx HeaderIndex) (any, error) {
			get := func(name string) string {
				pos, ok := idx[name]
				if !ok || pos >= len(row) {
					return ""
				}
				return CleanCell(row[pos])
			}
			return db.InsertRealtorParams{
				Name:     ToPgText(get("name")),
				Phone:    ToPgText(get("phone")),
				Email:    ToPgText(get("email")),
				IsMvp:    BoolOrDefault(get("is_mvp"), false),
				HireDate: ToPgDate(get("hire_date")),
			}, nil
		},
		Insert: func(_ context.Context, _ DBTX, params any) (int64, error) {
			return store.insert(params)
		},
	})

	Register(EntityDefinition{
		Info: EntityInfo{Key: "listing", Label: "Listings", Table: "listings_listing"},
		FieldSpecs: []FieldSpec{
			{Name: "realtor_id", Type: FieldInt, Required: true},
			{Name: "title", Type: FieldText, Required: true},
			{Name: "price", Type: FieldInt, Required: true},
			{Name: "district", Type: FieldEnum, EnumValues: []string{"Wan Chai", "Eastern", "North"}},
		},
		BuildParams: func(row []string, idx HeaderIndex) (any, error) {
			get := func(name string) string {
				pos, ok := idx[name]
				if !ok || pos >= len(row) {
					return ""
				}
				return CleanCell(row[pos])
			}
			return db.InsertListingParams{
				RealtorID: ToPgInt8(get("realtor_id")),
				Title:     ToPgText(get("title")),
				Price:     ToPgInt8(get("price")),
				District:  ToPgText(get("district")),
			}, nil
		},
		Insert: func(_ context.Context, _ DBTX, params any) (int64, error) {
			return store.insert(params)
		},
		Resolve: func(ctx context.Context, r *RealtorResolver, params any) error {
			return r.Resolve(ctx, params.(db.InsertListingParams).RealtorID.Int64)
		},
	})

	s := NewService(nil, Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	s.exists = store.exists
	return s
}

func writeCSV(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func unavailableErr() error {
	return fmt.Errorf("dial tcp: %w", syscall.ECONNREFUSED)
}

func transientErr() error {
	return &pgconn.PgError{Code: "23505", Message: "duplicate key value"}
}

// ----------------------------------------------------------------------------
// End-to-end import runs
// ----------------------------------------------------------------------------

func TestImportRealtorValidRow(t *testing.T) {
	store := &fakeStore{}
	s := newTestService(t, store)

	path := writeCSV(t,
		"name,phone,email",
		`Jane Doe,555-0100,jane@x.com`,
	)

	result, err := s.ImportFile(context.Background(), "realtor", path)
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if result.Imported != 1 || result.Skipped != 0 || result.Errored != 0 {
		t.Fatalf("counters = %d/%d/%d, want 1/0/0", result.Imported, result.Skipped, result.Errored)
	}
	if len(store.inserts) != 1 {
		t.Fatalf("store received %d inserts, want 1", len(store.inserts))
	}

	params := store.inserts[0].(db.InsertRealtorParams)
	if params.Name.String != "Jane Doe" || params.Phone.String != "555-0100" || params.Email.String != "jane@x.com" {
		t.Errorf("unexpected params: %+v", params)
	}
	if params.IsMvp.Bool {
		t.Error("is_mvp defaulted to true, want false")
	}
	if params.HireDate.Valid {
		t.Error("absent hire_date coerced valid, want NULL")
	}
}

func TestImportMixedCaseBoolean(t *testing.T) {
	store := &fakeStore{}
	s := newTestService(t, store)

	path := writeCSV(t,
		"name,phone,email,is_mvp",
		`Jane Doe,555-0100,jane@x.com,TRUE`,
	)

	result, err := s.ImportFile(context.Background(), "realtor", path)
	if err != nil || result.Imported != 1 {
		t.Fatalf("result=%+v err=%v", result, err)
	}

	params := store.inserts[0].(db.InsertRealtorParams)
	if !params.IsMvp.Valid || !params.IsMvp.Bool {
		t.Errorf(`is_mvp "TRUE" coerced to %+v, want true`, params.IsMvp)
	}
}

func TestImportSkipListsEveryMissingRequired(t *testing.T) {
	store := &fakeStore{}
	s := newTestService(t, store)

	path := writeCSV(t,
		"name,phone,email",
		`Jane Doe,,`,
	)

	result, err := s.ImportFile(context.Background(), "realtor", path)
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if result.Imported != 0 || result.Skipped != 1 {
		t.Fatalf("counters = %d/%d, want 0 imported / 1 skipped", result.Imported, result.Skipped)
	}
	if len(store.inserts) != 0 {
		t.Fatal("a row with missing required fields reached the store")
	}

	reasons := strings.Join(result.Failed[0].Reasons, "; ")
	for _, field := range []string{"phone", "email"} {
		if !strings.Contains(reasons, field) {
			t.Errorf("reasons %q do not mention missing field %q", reasons, field)
		}
	}
	if result.Failed[0].LineNumber != 2 {
		t.Errorf("line number = %d, want 2", result.Failed[0].LineNumber)
	}
}

func TestImportListingInvalidDistrict(t *testing.T) {
	store := &fakeStore{realtors: map[int64]bool{1: true}}
	s := newTestService(t, store)

	path := writeCSV(t,
		"realtor_id,title,price,district",
		`1,Harbourview 2BR,8500000,Mars`,
	)

	result, err := s.ImportFile(context.Background(), "listing", path)
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if result.Imported != 0 || result.Skipped != 1 {
		t.Fatalf("counters = %d/%d, want 0/1", result.Imported, result.Skipped)
	}
	if !strings.Contains(strings.Join(result.Failed[0].Reasons, " "), "Mars") {
		t.Errorf("reason does not name invalid district: %v", result.Failed[0].Reasons)
	}
	if store.existsCalls != 0 {
		t.Error("resolver consulted for a row rejected by validation")
	}
	if len(store.inserts) != 0 {
		t.Error("rejected row reached the store")
	}
}

func TestImportListingUnknownRealtor(t *testing.T) {
	store := &fakeStore{realtors: map[int64]bool{}}
	s := newTestService(t, store)

	path := writeCSV(t,
		"realtor_id,title,price",
		`9999,Harbourview 2BR,8500000`,
	)

	result, err := s.ImportFile(context.Background(), "listing", path)
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if result.Imported != 0 || result.Skipped != 1 {
		t.Fatalf("counters = %d/%d, want 0/1", result.Imported, result.Skipped)
	}
	if !strings.Contains(strings.Join(result.Failed[0].Reasons, " "), "realtor_id 9999") {
		t.Errorf("reason does not identify the unresolved reference: %v", result.Failed[0].Reasons)
	}
	if len(store.inserts) != 0 {
		t.Error("insert issued for a listing with an unknown realtor")
	}
}

func TestImportIsNotIdempotent(t *testing.T) {
	store := &fakeStore{}
	s := newTestService(t, store)

	path := writeCSV(t,
		"name,phone,email",
		`Jane Doe,555-0100,jane@x.com`,
		`Sam Lee,555-0101,sam@x.com`,
	)

	ctx := context.Background()
	for run := 0; run < 2; run++ {
		if _, err := s.ImportFile(ctx, "realtor", path); err != nil {
			t.Fatalf("run %d: %v", run, err)
		}
	}

	// No deduplication: two runs insert two full sets of rows.
	if len(store.inserts) != 4 {
		t.Errorf("store received %d inserts after two runs, want 4", len(store.inserts))
	}
}

func TestImportRowsAreIndependent(t *testing.T) {
	store := &fakeStore{insertErrs: []error{transientErr(), nil}}
	s := newTestService(t, store)

	path := writeCSV(t,
		"name,phone,email",
		`Jane Doe,555-0100,jane@x.com`,
		`Sam Lee,555-0101,sam@x.com`,
	)

	result, err := s.ImportFile(context.Background(), "realtor", path)
	if err != nil {
		t.Fatalf("a row-scoped store error aborted the run: %v", err)
	}
	if result.Imported != 1 || result.Errored != 1 || result.Skipped != 0 {
		t.Fatalf("counters = %d imported / %d errored / %d skipped, want 1/1/0",
			result.Imported, result.Errored, result.Skipped)
	}
	if result.Failed[0].Status != RowErrored {
		t.Errorf("failed row status = %q, want %q", result.Failed[0].Status, RowErrored)
	}
	if !strings.Contains(result.Failed[0].Reasons[0], "duplicate key") {
		t.Errorf("store error message not surfaced: %v", result.Failed[0].Reasons)
	}
}

func TestImportAbortsWhenStoreUnavailable(t *testing.T) {
	store := &fakeStore{insertErrs: []error{nil, unavailableErr()}}
	s := newTestService(t, store)

	path := writeCSV(t,
		"name,phone,email",
		`Jane Doe,555-0100,jane@x.com`,
		`Sam Lee,555-0101,sam@x.com`,
		`Kim Wong,555-0102,kim@x.com`,
	)

	result, err := s.ImportFile(context.Background(), "realtor", path)
	if err == nil {
		t.Fatal("store unavailability did not abort the run")
	}
	if result.Error == "" {
		t.Error("aborted result carries no error")
	}
	// Partial progress is reported: the first row committed before the loss.
	if result.Imported != 1 {
		t.Errorf("partial imported = %d, want 1", result.Imported)
	}
	if len(store.inserts) != 1 {
		t.Errorf("store received %d inserts, want 1 (run must stop at the failure)", len(store.inserts))
	}
}

func TestImportAbortsWhenResolverUnavailable(t *testing.T) {
	store := &fakeStore{existsErr: unavailableErr()}
	s := newTestService(t, store)

	path := writeCSV(t,
		"realtor_id,title,price",
		`1,Harbourview 2BR,8500000`,
	)

	_, err := s.ImportFile(context.Background(), "listing", path)
	if err == nil {
		t.Fatal("resolver connectivity loss did not abort the run")
	}
	if len(store.inserts) != 0 {
		t.Error("insert issued after resolver failure")
	}
}

// ----------------------------------------------------------------------------
// Run-scoped failures and file handling
// ----------------------------------------------------------------------------

func TestImportUnknownEntity(t *testing.T) {
	s := newTestService(t, &fakeStore{})
	path := writeCSV(t, "a,b", "1,2")

	if _, err := s.ImportFile(context.Background(), "warehouse", path); err == nil {
		t.Fatal("unknown entity kind accepted")
	}
}

func TestImportMissingFile(t *testing.T) {
	s := newTestService(t, &fakeStore{})

	if _, err := s.ImportFile(context.Background(), "realtor", filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatal("missing file accepted")
	}
}

func TestImportMissingRequiredColumnsSkipsRows(t *testing.T) {
	store := &fakeStore{}
	s := newTestService(t, store)

	path := writeCSV(t,
		"name,description",
		`Jane Doe,agent`,
		`John Roe,broker`,
	)

	result, err := s.ImportFile(context.Background(), "realtor", path)
	if err != nil {
		t.Fatalf("header without required columns aborted the run: %v", err)
	}
	if result.Imported != 0 || result.Skipped != 2 || result.Errored != 0 {
		t.Fatalf("counters = %d/%d/%d, want 0/2/0", result.Imported, result.Skipped, result.Errored)
	}
	if len(store.inserts) != 0 {
		t.Fatal("a row without required columns reached the store")
	}

	for _, failed := range result.Failed {
		reasons := strings.Join(failed.Reasons, "; ")
		for _, col := range []string{"phone", "email"} {
			if !strings.Contains(reasons, col) {
				t.Errorf("line %d reasons %q do not mention %q", failed.LineNumber, reasons, col)
			}
		}
	}
}

func TestImportColumnOrderIrrelevant(t *testing.T) {
	store := &fakeStore{}
	s := newTestService(t, store)

	path := writeCSV(t,
		"EMAIL,name,extra,phone",
		`jane@x.com,Jane Doe,ignored,555-0100`,
	)

	result, err := s.ImportFile(context.Background(), "realtor", path)
	if err != nil || result.Imported != 1 {
		t.Fatalf("result=%+v err=%v", result, err)
	}
	params := store.inserts[0].(db.InsertRealtorParams)
	if params.Email.String != "jane@x.com" || params.Phone.String != "555-0100" {
		t.Errorf("columns matched by position, not name: %+v", params)
	}
}

func TestImportIgnoresEmptyRows(t *testing.T) {
	store := &fakeStore{}
	s := newTestService(t, store)

	path := writeCSV(t,
		"name,phone,email",
		`Jane Doe,555-0100,jane@x.com`,
		`,,`,
		"",
		`Sam Lee,555-0101,sam@x.com`,
	)

	result, err := s.ImportFile(context.Background(), "realtor", path)
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if result.TotalRows != 2 || result.Imported != 2 || result.Skipped != 0 {
		t.Errorf("counters = total %d / imported %d / skipped %d, want 2/2/0",
			result.TotalRows, result.Imported, result.Skipped)
	}
}
