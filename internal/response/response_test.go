package response

import (
	"encoding/json"
	"errors"
	"testing"

	"wsdetails/internal/workspace"
)

func TestBuild_Outcomes(t *testing.T) {
	b := NewBuilder("https://portal.example.com")
	cases := []struct {
		name   string
		res    workspace.Result
		status int
		body   string
	}{
		{"not found", workspace.Result{Outcome: workspace.OutcomeNotFound}, 200, `{"Note":"E_NOT_FOUND"}`},
		{"updated", workspace.Result{Outcome: workspace.OutcomeUpdated}, 200, `{"Result":"Success"}`},
		{"update failed", workspace.Result{Outcome: workspace.OutcomeUpdateFailed, Err: errors.New("x")}, 200, `{"Result":"Not Found"}`},
		{"no action", workspace.Result{Outcome: workspace.OutcomeNoAction}, 200, `{"Note":"E_NO_ACTION"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := b.Build(tc.res)
			if resp.StatusCode != tc.status || resp.Body != tc.body {
				t.Fatalf("got %d %s", resp.StatusCode, resp.Body)
			}
			if resp.Headers["Access-Control-Allow-Origin"] != "https://portal.example.com" || resp.Headers["Access-Control-Allow-Methods"] != "GET,OPTIONS" {
				t.Fatalf("unexpected headers %+v", resp.Headers)
			}
		})
	}
}

func TestBuild_FoundRendersTypedItem(t *testing.T) {
	resp := NewBuilder("").Build(workspace.Result{Outcome: workspace.OutcomeFound, Record: workspace.Record{Username: "earl", Email: "earl@eeg3.net", Status: "Approved"}})
	var body struct {
		Result map[string]map[string]string `json:"Result"`
	}
	if err := json.Unmarshal([]byte(resp.Body), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Result["WS_Status"]["S"] != "Approved" || body.Result["Username"]["S"] != "earl" || body.Result["Email"]["S"] != "earl@eeg3.net" {
		t.Fatalf("unexpected body %s", resp.Body)
	}
	if resp.Headers["Access-Control-Allow-Origin"] != "*" {
		t.Fatalf("expected wildcard origin default")
	}
}

func TestBuild_StoreError(t *testing.T) {
	resp := NewBuilder("https://portal.example.com").Build(workspace.Result{Outcome: workspace.OutcomeStoreError, Err: errors.New("throttled")})
	if resp.StatusCode != 500 || resp.Body != `{"Error":{"message":"throttled"}}` {
		t.Fatalf("unexpected response %d %s", resp.StatusCode, resp.Body)
	}
	if len(resp.Headers) != 1 || resp.Headers["Access-Control-Allow-Origin"] != "*" {
		t.Fatalf("unexpected headers %+v", resp.Headers)
	}
	resp = NewBuilder("").Build(workspace.Result{Outcome: workspace.OutcomeStoreError})
	if resp.Body != `{"Error":{"message":"store error"}}` {
		t.Fatalf("unexpected body %s", resp.Body)
	}
}
