package store

import (
	"context"
	"database/sql"
	"testing"
)

func TestAuditStoreLog(t *testing.T) {
	execer := stubDB{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			expectQuery(t, query, "INSERT INTO audit_logs")
			if len(args) != 5 || args[0] != "user-1" || args[1] != "payment_status" || args[3] != "pay-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewAuditStore(stubDB{})
	if err := store.Log(context.Background(), execer, "user-1", "payment_status", "payment", "pay-1", `{"status":"confirmed"}`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAuditStoreListForEntity(t *testing.T) {
	store := NewAuditStore(stubDB{
		selectFn: func(_ context.Context, dest any, query string, args ...any) error {
			expectQuery(t, query, "FROM audit_logs", "ORDER BY created_at DESC")
			if len(args) != 3 || args[0] != "user-1" || args[1] != "payment" || args[2] != "pay-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*[]AuditEntry) = []AuditEntry{{ID: "log-1"}}
			return nil
		},
	})
	entries, err := store.ListForEntity(context.Background(), "user-1", "payment", "pay-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "log-1" {
		t.Fatalf("unexpected entries: %#v", entries)
	}
}
