package dynamodb

import (
	"context"
	"errors"
	"os"
	"testing"

	"wsdetails/internal/workspace"
)

const testTable = "WorkspaceDetailsTable"

func TestStore_GetProjectsReadFields(t *testing.T) {
	store, mock := NewMockForTests(testTable)
	mock.Put(testTable, map[string]string{"Username": "earl", "Email": "earl@eeg3.net", "WS_Status": "Requested", "WorkspaceId": "ws-123"})
	rec, found, err := store.Get(context.Background(), workspace.Key{Username: "earl", Email: "earl@eeg3.net"}, workspace.ReadFields)
	if err != nil || !found {
		t.Fatalf("get: %v %v", found, err)
	}
	if rec != (workspace.Record{Username: "earl", Email: "earl@eeg3.net", Status: "Requested"}) {
		t.Fatalf("unexpected record %+v", rec)
	}
	reqs := mock.Requests()
	if len(reqs) != 1 {
		t.Fatalf("expected one request, got %d", len(reqs))
	}
	r := reqs[0]
	if r.Operation != "GetItem" || r.TableName != testTable || r.ProjectionExpression != "Username,Email,WS_Status" {
		t.Fatalf("unexpected request %+v", r)
	}
	if r.Key["Username"] != "earl" || r.Key["Email"] != "earl@eeg3.net" {
		t.Fatalf("unexpected key %+v", r.Key)
	}
}

func TestStore_GetMissing(t *testing.T) {
	store, _ := NewMockForTests(testTable)
	_, found, err := store.Get(context.Background(), workspace.Key{Username: "nobody", Email: "n@x"}, workspace.ReadFields)
	if err != nil || found {
		t.Fatalf("expected absent without error: %v %v", found, err)
	}
}

func TestStore_GetFailure(t *testing.T) {
	store, mock := NewMockForTests(testTable)
	mock.Fail("GetItem", true)
	if _, _, err := store.Get(context.Background(), workspace.Key{Username: "u", Email: "e"}, nil); err == nil {
		t.Fatalf("expected error")
	}
	if n := len(mock.Requests()); n != 1 {
		t.Fatalf("expected a single attempt, got %d", n)
	}
}

func TestStore_UpdateSetsStatus(t *testing.T) {
	store, mock := NewMockForTests(testTable)
	mock.Put(testTable, map[string]string{"Username": "earl", "Email": "earl@eeg3.net", "WS_Status": "Requested"})
	err := store.Update(context.Background(), workspace.Key{Username: "earl", Email: "earl@eeg3.net"}, &workspace.Assignment{Field: workspace.FieldStatus, Value: "Approved"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	r := mock.Requests()[0]
	if r.Operation != "UpdateItem" || r.UpdateExpression != "SET #WSS = :s" {
		t.Fatalf("unexpected request %+v", r)
	}
	if r.ExpressionAttributeNames["#WSS"] != "WS_Status" || r.ExpressionAttributeValues[":s"] != "Approved" {
		t.Fatalf("unexpected expression attributes %+v", r)
	}
	if r.ConditionExpression != "attribute_exists(#U)" || r.ExpressionAttributeNames["#U"] != "Username" {
		t.Fatalf("expected existence condition, got %+v", r)
	}
	item, _ := mock.Item(testTable, "earl", "earl@eeg3.net")
	if item["WS_Status"] != "Approved" {
		t.Fatalf("status not applied: %+v", item)
	}
}

func TestStore_UpdateWithoutAssignmentIsTouch(t *testing.T) {
	store, mock := NewMockForTests(testTable)
	mock.Put(testTable, map[string]string{"Username": "u", "Email": "e", "WS_Status": "Requested"})
	if err := store.Update(context.Background(), workspace.Key{Username: "u", Email: "e"}, nil); err != nil {
		t.Fatalf("touch: %v", err)
	}
	r := mock.Requests()[0]
	if r.UpdateExpression != "" || len(r.ExpressionAttributeValues) != 0 {
		t.Fatalf("expected no assignment, got %+v", r)
	}
	if _, ok := r.ExpressionAttributeNames["#WSS"]; ok {
		t.Fatalf("unused attribute name sent: %+v", r.ExpressionAttributeNames)
	}
	item, _ := mock.Item(testTable, "u", "e")
	if item["WS_Status"] != "Requested" {
		t.Fatalf("status changed: %+v", item)
	}
}

func TestStore_UpdateMissingIsNotFound(t *testing.T) {
	store, mock := NewMockForTests(testTable)
	err := store.Update(context.Background(), workspace.Key{Username: "ghost", Email: "g@x"}, &workspace.Assignment{Field: workspace.FieldStatus, Value: "Rejected"})
	if !errors.Is(err, workspace.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, ok := mock.Item(testTable, "ghost", "g@x"); ok {
		t.Fatalf("update must not create a record")
	}
	mock.Fail("UpdateItem", true)
	if err := store.Update(context.Background(), workspace.Key{Username: "ghost", Email: "g@x"}, nil); err == nil || errors.Is(err, workspace.ErrNotFound) {
		t.Fatalf("expected server error, got %v", err)
	}
}

func TestStore_Seed(t *testing.T) {
	store, mock := NewMockForTests(testTable)
	rec := workspace.Record{Username: "a", Email: "a@x", Status: "Requested"}
	if err := store.Seed(context.Background(), rec); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := store.Seed(context.Background(), rec); err == nil {
		t.Fatalf("expected duplicate seed error")
	}
	item, ok := mock.Item(testTable, "a", "a@x")
	if !ok || item["WS_Status"] != "Requested" {
		t.Fatalf("unexpected item %+v", item)
	}
}

func TestStore_New(t *testing.T) {
	_ = os.Setenv("AWS_ACCESS_KEY_ID", "AKIA")
	_ = os.Setenv("AWS_SECRET_ACCESS_KEY", "SECRET")
	defer func() {
		_ = os.Unsetenv("AWS_ACCESS_KEY_ID")
		_ = os.Unsetenv("AWS_SECRET_ACCESS_KEY")
	}()
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatalf("expected table required error")
	}
	s, err := New(context.Background(), Config{Table: testTable, Endpoint: "http://localhost:8000"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.Table() != testTable {
		t.Fatalf("unexpected table %q", s.Table())
	}
}
