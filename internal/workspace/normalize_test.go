package workspace

import (
	"testing"
)

func strPtr(s string) *string { return &s }

func sameCommand(a, b Command) bool {
	if a.Kind != b.Kind || a.Username != b.Username || a.Email != b.Email {
		return false
	}
	if (a.Status == nil) != (b.Status == nil) {
		return false
	}
	return a.Status == nil || *a.Status == *b.Status
}

func TestNormalize_Table(t *testing.T) {
	cases := []struct {
		name   string
		event  string
		want   Command
		source Source
	}{
		{
			name:   "envelope put",
			event:  `{"body": "{\"action\":\"put\",\"requesterUsername\":\"earl\",\"requesterEmailAddress\":\"earl@eeg3.net\",\"ws_status\":\"Approved\"}"}`,
			want:   Command{Kind: KindWrite, Username: "earl", Email: "earl@eeg3.net", Status: strPtr("Approved")},
			source: SourceEnvelope,
		},
		{
			name:   "envelope get ignores status",
			event:  `{"body": "{\"action\":\"get\",\"requesterUsername\":\"earl\",\"requesterEmailAddress\":\"earl@eeg3.net\",\"ws_status\":\"Approved\"}"}`,
			want:   Command{Kind: KindRead, Username: "earl", Email: "earl@eeg3.net"},
			source: SourceEnvelope,
		},
		{
			name:   "direct put without status",
			event:  `{"action":"put","requesterUsername":"alice","requesterEmailAddress":"a@b.com"}`,
			want:   Command{Kind: KindWrite, Username: "alice", Email: "a@b.com"},
			source: SourceDirect,
		},
		{
			name:   "direct put with null status",
			event:  `{"action":"put","requesterUsername":"alice","requesterEmailAddress":"a@b.com","ws_status":null}`,
			want:   Command{Kind: KindWrite, Username: "alice", Email: "a@b.com"},
			source: SourceDirect,
		},
		{
			name:   "direct put with empty status keeps it",
			event:  `{"action":"put","requesterUsername":"alice","requesterEmailAddress":"a@b.com","ws_status":""}`,
			want:   Command{Kind: KindWrite, Username: "alice", Email: "a@b.com", Status: strPtr("")},
			source: SourceDirect,
		},
		{
			name:   "failure callback",
			event:  `{"Error":"States.TaskFailed","Cause":"a@b.com,alice"}`,
			want:   Command{Kind: KindWrite, Username: "alice", Email: "a@b.com", Status: strPtr(StatusRejected)},
			source: SourceFailureCallback,
		},
		{
			name:   "failure callback without username",
			event:  `{"Cause":"a@b.com"}`,
			want:   Command{Kind: KindWrite, Email: "a@b.com", Status: strPtr(StatusRejected)},
			source: SourceFailureCallback,
		},
		{
			name:   "body not json falls through to direct",
			event:  `{"body":"not json","action":"get","requesterUsername":"bob","requesterEmailAddress":"bob@x.io"}`,
			want:   Command{Kind: KindRead, Username: "bob", Email: "bob@x.io"},
			source: SourceDirect,
		},
		{
			name:   "body object is not an envelope",
			event:  `{"body":{"action":"put"},"action":"get","requesterUsername":"bob","requesterEmailAddress":"bob@x.io"}`,
			want:   Command{Kind: KindRead, Username: "bob", Email: "bob@x.io"},
			source: SourceDirect,
		},
		{
			name:   "body without action falls through to callback",
			event:  `{"body":"{\"requesterUsername\":\"x\"}","Cause":"c@d.io,carol"}`,
			want:   Command{Kind: KindWrite, Username: "carol", Email: "c@d.io", Status: strPtr(StatusRejected)},
			source: SourceFailureCallback,
		},
		{
			name:   "unknown action is terminal",
			event:  `{"action":"delete","requesterUsername":"x","requesterEmailAddress":"y","Cause":"a@b.com,alice"}`,
			want:   Command{Kind: KindUnrecognized},
			source: SourceDirect,
		},
		{
			name:   "non-string action is unrecognized",
			event:  `{"action":5}`,
			want:   Command{Kind: KindUnrecognized},
			source: SourceDirect,
		},
		{
			name:  "nothing recognizable",
			event: `{"hello":"world"}`,
			want:  Command{Kind: KindUnrecognized},
		},
		{
			name:  "not json at all",
			event: `{"body": "{\"action\":`,
			want:  Command{Kind: KindUnrecognized},
		},
		{
			name:  "empty input",
			event: ``,
			want:  Command{Kind: KindUnrecognized},
		},
		{
			name:  "top-level array",
			event: `[{"action":"get"}]`,
			want:  Command{Kind: KindUnrecognized},
		},
		{
			name:  "non-string cause",
			event: `{"Cause":{"email":"a@b.com"}}`,
			want:  Command{Kind: KindUnrecognized},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, src := Normalize([]byte(tc.event))
			if !sameCommand(got, tc.want) {
				t.Fatalf("command mismatch: got %+v want %+v", got, tc.want)
			}
			if src != tc.source {
				t.Fatalf("source mismatch: got %q want %q", src, tc.source)
			}
		})
	}
}

func TestNormalize_EquivalentShapesAgree(t *testing.T) {
	envelope := `{"body":"{\"action\":\"get\",\"requesterUsername\":\"U\",\"requesterEmailAddress\":\"E\"}"}`
	direct := `{"action":"get","requesterUsername":"U","requesterEmailAddress":"E"}`
	a, _ := Normalize([]byte(envelope))
	b, _ := Normalize([]byte(direct))
	want := Command{Kind: KindRead, Username: "U", Email: "E"}
	if !sameCommand(a, want) || !sameCommand(b, want) {
		t.Fatalf("expected identical read commands, got %+v and %+v", a, b)
	}
}

func TestNormalize_EnvelopeWinsOutright(t *testing.T) {
	// Envelope defines action but no username: the top-level username must not leak in.
	event := `{"body":"{\"action\":\"put\",\"requesterEmailAddress\":\"inner@x.io\"}","action":"get","requesterUsername":"outer","requesterEmailAddress":"outer@x.io","ws_status":"Approved","Cause":"c@d.io,carol"}`
	got, src := Normalize([]byte(event))
	if src != SourceEnvelope {
		t.Fatalf("expected envelope source, got %q", src)
	}
	want := Command{Kind: KindWrite, Email: "inner@x.io"}
	if !sameCommand(got, want) {
		t.Fatalf("expected envelope-only fields, got %+v", got)
	}
}

func TestNormalize_CauseKeepsOrderWithoutTrimming(t *testing.T) {
	got, _ := Normalize([]byte(`{"Cause":"a@b.com, alice,extra"}`))
	if got.Email != "a@b.com" || got.Username != " alice" {
		t.Fatalf("unexpected split: %+v", got)
	}
}
