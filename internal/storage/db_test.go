package storage

import (
	"errors"
	"os"
	"testing"

	"simplecrm/internal/apperr"
	"simplecrm/internal/models"
)

// setupTestStore creates a temp-file SQLite store for testing.
func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	// Use a temp file so CGO sqlite works (some drivers don't support :memory: + multiple conns)
	f, err := os.CreateTemp("", "simplecrm-test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp db: %v", err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	store, err := NewSQLiteStore(f.Name())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// mustAdd inserts a contact and returns its id.
func mustAdd(t *testing.T, store *SQLiteStore, fields models.ContactFields) uint {
	t.Helper()
	id, err := store.Add(fields)
	if err != nil {
		t.Fatalf("Add(%+v): %v", fields, err)
	}
	return id
}

func rowCount(t *testing.T, store *SQLiteStore) int {
	t.Helper()
	contacts, err := store.List("")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	return len(contacts)
}

func TestAddAndList_RoundTrip(t *testing.T) {
	store := setupTestStore(t)

	id, err := store.Add(models.ContactFields{
		Name:    "John O'Brien-Smith",
		Email:   "john@example.com",
		Phone:   "+7 (999) 123-45-67",
		Company: "Acme Corp",
		Tags:    "vip, partner",
		Notes:   "met at the conference",
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if id == 0 {
		t.Fatal("expected a non-zero id")
	}

	contacts, err := store.List("")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(contacts) != 1 {
		t.Fatalf("expected 1 contact, got %d", len(contacts))
	}

	c := contacts[0]
	if c.ID != id {
		t.Errorf("id = %d, want %d", c.ID, id)
	}
	if c.Name != "John O'Brien-Smith" {
		t.Errorf("name = %q", c.Name)
	}
	if c.Email != "john@example.com" {
		t.Errorf("email = %q", c.Email)
	}
	if c.Phone != "+79991234567" {
		t.Errorf("phone = %q, want normalized +79991234567", c.Phone)
	}
	if c.Company != "Acme Corp" || c.Tags != "vip, partner" || c.Notes != "met at the conference" {
		t.Errorf("free-form fields not preserved: %+v", c)
	}
	if c.CreatedAt.IsZero() {
		t.Error("created_at not assigned")
	}
}

func TestAdd_AssignsDistinctIDs(t *testing.T) {
	store := setupTestStore(t)

	seen := make(map[uint]bool)
	for _, name := range []string{"Anna", "Boris", "Clara"} {
		id := mustAdd(t, store, models.ContactFields{Name: name})
		if seen[id] {
			t.Fatalf("id %d assigned twice", id)
		}
		seen[id] = true
	}
}

func TestAdd_CyrillicName(t *testing.T) {
	store := setupTestStore(t)
	mustAdd(t, store, models.ContactFields{Name: "Алёна Петрова-Смирнова"})
}

func TestAdd_ValidationLeavesStoreUnchanged(t *testing.T) {
	store := setupTestStore(t)
	mustAdd(t, store, models.ContactFields{Name: "Existing"})

	tests := []struct {
		name   string
		fields models.ContactFields
		field  string
	}{
		{"name with digit and symbol", models.ContactFields{Name: "Jo@hn"}, "name"},
		{"empty name", models.ContactFields{Name: ""}, "name"},
		{"whitespace name", models.ContactFields{Name: "   "}, "name"},
		{"email starting with @", models.ContactFields{Name: "Jane", Email: "@x.com"}, "email"},
		{"whitespace-only email", models.ContactFields{Name: "Jane", Email: "   "}, "email"},
		{"email ending with @", models.ContactFields{Name: "Jane", Email: "x@"}, "email"},
		{"email without @", models.ContactFields{Name: "Jane", Email: "x.com"}, "email"},
		{"phone with letters", models.ContactFields{Name: "Jane", Phone: "555-CALL"}, "phone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Add(tt.fields)
			if err == nil {
				t.Fatal("expected a validation error, got nil")
			}
			if !apperr.IsValidation(err) {
				t.Fatalf("expected ValidationError, got %T: %v", err, err)
			}
			var ve *apperr.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("error does not unwrap to *ValidationError: %v", err)
			}
			if ve.Field != tt.field {
				t.Errorf("offending field = %q, want %q", ve.Field, tt.field)
			}
			if n := rowCount(t, store); n != 1 {
				t.Errorf("row count = %d after failed add, want 1", n)
			}
		})
	}
}

func TestList_OrderNewestFirst(t *testing.T) {
	store := setupTestStore(t)
	first := mustAdd(t, store, models.ContactFields{Name: "First"})
	second := mustAdd(t, store, models.ContactFields{Name: "Second"})

	contacts, err := store.List("")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(contacts) != 2 {
		t.Fatalf("expected 2 contacts, got %d", len(contacts))
	}
	if contacts[0].ID != second || contacts[1].ID != first {
		t.Errorf("order = [%d %d], want newest first [%d %d]",
			contacts[0].ID, contacts[1].ID, second, first)
	}
}

func TestList_SubstringFilter(t *testing.T) {
	store := setupTestStore(t)
	acme := mustAdd(t, store, models.ContactFields{Name: "Jane", Company: "Acme Corp"})
	mustAdd(t, store, models.ContactFields{Name: "Bill", Company: "Other Co"})
	tagged := mustAdd(t, store, models.ContactFields{Name: "Rita", Tags: "acme-alumni"})

	contacts, err := store.List("acme")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(contacts) != 2 {
		t.Fatalf("filter matched %d contacts, want 2 (company + tags)", len(contacts))
	}
	// Fields are OR-combined: one match via company, one via tags.
	got := map[uint]bool{contacts[0].ID: true, contacts[1].ID: true}
	if !got[acme] || !got[tagged] {
		t.Errorf("filter returned ids %v, want {%d %d}", got, acme, tagged)
	}

	all, err := store.List("")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("empty filter returned %d contacts, want all 3", len(all))
	}
}

func TestUpdate_ReplacesMutableFields(t *testing.T) {
	store := setupTestStore(t)
	id := mustAdd(t, store, models.ContactFields{
		Name: "Jane", Email: "jane@old.com", Phone: "123", Company: "Old Co",
	})

	err := store.Update(id, models.ContactFields{
		Name:  "Jane Doe",
		Phone: "+1 (222) 333-44-55",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	contacts, _ := store.List("")
	c := contacts[0]
	if c.ID != id {
		t.Fatalf("id changed on update: %d", c.ID)
	}
	if c.Name != "Jane Doe" {
		t.Errorf("name = %q", c.Name)
	}
	if c.Email != "" || c.Company != "" {
		t.Errorf("cleared fields must stay cleared, got email=%q company=%q", c.Email, c.Company)
	}
	if c.Phone != "+12223334455" {
		t.Errorf("phone = %q, want normalized +12223334455", c.Phone)
	}
}

func TestUpdate_ValidatesLikeAdd(t *testing.T) {
	store := setupTestStore(t)
	id := mustAdd(t, store, models.ContactFields{Name: "Jane"})

	err := store.Update(id, models.ContactFields{Name: "Jane", Email: "@bad"})
	if !apperr.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	contacts, _ := store.List("")
	if contacts[0].Email != "" {
		t.Errorf("failed update must not write, got email=%q", contacts[0].Email)
	}
}

func TestUpdate_MissingIDIsNoOp(t *testing.T) {
	store := setupTestStore(t)
	if err := store.Update(9999, models.ContactFields{Name: "Ghost"}); err != nil {
		t.Fatalf("updating a missing id must be a no-op, got %v", err)
	}
	if n := rowCount(t, store); n != 0 {
		t.Errorf("row count = %d, want 0", n)
	}
}

func TestDelete_MissingIDIsNoOp(t *testing.T) {
	store := setupTestStore(t)
	if err := store.Delete(9999); err != nil {
		t.Fatalf("deleting a missing id must be a no-op, got %v", err)
	}
}

func TestDelete_RemovesRow(t *testing.T) {
	store := setupTestStore(t)
	id := mustAdd(t, store, models.ContactFields{Name: "Jane"})

	if err := store.Delete(id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if n := rowCount(t, store); n != 0 {
		t.Errorf("row count = %d after delete, want 0", n)
	}
}

func TestDeleteMany_EmptySet(t *testing.T) {
	store := setupTestStore(t)
	mustAdd(t, store, models.ContactFields{Name: "Jane"})

	count, err := store.DeleteMany(nil)
	if err != nil {
		t.Fatalf("DeleteMany(nil): %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
	if n := rowCount(t, store); n != 1 {
		t.Errorf("row count changed on empty delete: %d", n)
	}
}

func TestDeleteMany_MixedExistingAndMissing(t *testing.T) {
	store := setupTestStore(t)
	a := mustAdd(t, store, models.ContactFields{Name: "Anna"})
	b := mustAdd(t, store, models.ContactFields{Name: "Boris"})
	keep := mustAdd(t, store, models.ContactFields{Name: "Clara"})

	count, err := store.DeleteMany([]uint{a, b, 9999, 10000})
	if err != nil {
		t.Fatalf("DeleteMany: %v", err)
	}
	if count != 2 {
		t.Errorf("removed count = %d, want 2 (missing ids are not errors)", count)
	}

	contacts, _ := store.List("")
	if len(contacts) != 1 || contacts[0].ID != keep {
		t.Errorf("remaining rows = %+v, want only id %d", contacts, keep)
	}
}
