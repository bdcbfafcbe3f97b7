package workspace

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Event field names shared by the enveloped and direct calling conventions.
const (
	fieldBody     = "body"
	fieldAction   = "action"
	fieldUsername = "requesterUsername"
	fieldEmail    = "requesterEmailAddress"
	fieldStatus   = "ws_status"
	fieldCause    = "Cause"
)

const (
	actionGet = "get"
	actionPut = "put"
)

// attempt extracts a command from one calling convention. It reports false
// when the convention did not yield a defined action, which lets the next
// attempt run.
type attempt struct {
	source Source
	run    func(event []byte) (Command, bool)
}

// attempts are tried in priority order; the first defined action wins.
var attempts = []attempt{
	{source: SourceEnvelope, run: fromEnvelope},
	{source: SourceDirect, run: fromDirect},
	{source: SourceFailureCallback, run: fromFailureCallback},
}

// Normalize classifies a raw invocation event into a Command and reports
// which calling convention produced it. Input that matches no convention,
// including input that is not JSON at all, yields KindUnrecognized and
// SourceNone.
func Normalize(event []byte) (Command, Source) {
	if !gjson.ValidBytes(event) {
		return Command{Kind: KindUnrecognized}, SourceNone
	}
	for _, a := range attempts {
		if cmd, ok := a.run(event); ok {
			return cmd, a.source
		}
	}
	return Command{Kind: KindUnrecognized}, SourceNone
}

// fromEnvelope reads the command from a JSON document carried as a string
// in the event's body field (API Gateway proxy integration).
func fromEnvelope(event []byte) (Command, bool) {
	body := gjson.GetBytes(event, fieldBody)
	if body.Type != gjson.String || !gjson.Valid(body.Str) {
		return Command{}, false
	}
	return fromObject(gjson.Parse(body.Str))
}

// fromDirect reads the command from the top-level event (direct invocation).
func fromDirect(event []byte) (Command, bool) {
	return fromObject(gjson.ParseBytes(event))
}

func fromObject(obj gjson.Result) (Command, bool) {
	if !obj.IsObject() {
		return Command{}, false
	}
	action := obj.Get(fieldAction)
	if !defined(action) {
		return Command{}, false
	}
	kind := classify(action)
	if kind == KindUnrecognized {
		return Command{Kind: KindUnrecognized}, true
	}
	cmd := Command{
		Kind:     kind,
		Username: stringField(obj, fieldUsername),
		Email:    stringField(obj, fieldEmail),
	}
	if kind == KindWrite {
		if st := obj.Get(fieldStatus); st.Type == gjson.String {
			status := st.Str
			cmd.Status = &status
		}
	}
	return cmd, true
}

// fromFailureCallback handles the workflow catch path, whose Cause carries
// "<email>,<username>". It always marks the record rejected.
func fromFailureCallback(event []byte) (Command, bool) {
	cause := gjson.GetBytes(event, fieldCause)
	if cause.Type != gjson.String {
		return Command{}, false
	}
	parts := strings.Split(cause.Str, ",")
	cmd := Command{Kind: KindWrite, Email: parts[0]}
	if len(parts) > 1 {
		cmd.Username = parts[1]
	}
	status := StatusRejected
	cmd.Status = &status
	return cmd, true
}

func classify(action gjson.Result) Kind {
	if action.Type != gjson.String {
		return KindUnrecognized
	}
	switch action.Str {
	case actionGet:
		return KindRead
	case actionPut:
		return KindWrite
	default:
		return KindUnrecognized
	}
}

// defined mirrors the loose "!= undefined" test callers rely on: a missing
// key and an explicit null are both undefined.
func defined(r gjson.Result) bool {
	return r.Exists() && r.Type != gjson.Null
}

func stringField(obj gjson.Result, name string) string {
	if r := obj.Get(name); r.Type == gjson.String {
		return r.Str
	}
	return ""
}
