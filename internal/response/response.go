// Package response renders executor results as API Gateway proxy responses.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"wsdetails/internal/workspace"
)

const (
	allowHeaders = "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token"
	allowMethods = "GET,OPTIONS"

	// Body notes understood by the portal front end.
	NoteNotFound = "E_NOT_FOUND"
	NoteNoAction = "E_NO_ACTION"

	resultSuccess  = "Success"
	resultNotFound = "Not Found"
)

// Builder shapes responses for one allowed origin.
type Builder struct {
	origin string
}

// NewBuilder returns a Builder; an empty origin allows any.
func NewBuilder(origin string) Builder {
	if origin == "" {
		origin = "*"
	}
	return Builder{origin: origin}
}

type typedString struct {
	S string `json:"S"`
}

type resultBody struct {
	Result any `json:"Result"`
}

type noteBody struct {
	Note string `json:"Note"`
}

type errorBody struct {
	Error errorDetail `json:"Error"`
}

type errorDetail struct {
	Message string `json:"message"`
}

// Build renders res. Store errors are the only non-200 outcome.
func (b Builder) Build(res workspace.Result) events.APIGatewayProxyResponse {
	switch res.Outcome {
	case workspace.OutcomeFound:
		return b.ok(resultBody{Result: item(res.Record)})
	case workspace.OutcomeNotFound:
		return b.ok(noteBody{Note: NoteNotFound})
	case workspace.OutcomeUpdated:
		return b.ok(resultBody{Result: resultSuccess})
	case workspace.OutcomeUpdateFailed:
		return b.ok(resultBody{Result: resultNotFound})
	case workspace.OutcomeStoreError:
		msg := "store error"
		if res.Err != nil {
			msg = res.Err.Error()
		}
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Body:       encode(errorBody{Error: errorDetail{Message: msg}}),
			Headers:    map[string]string{"Access-Control-Allow-Origin": "*"},
		}
	default:
		return b.ok(noteBody{Note: NoteNoAction})
	}
}

func (b Builder) ok(body any) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Body:       encode(body),
		Headers: map[string]string{
			"Access-Control-Allow-Headers": allowHeaders,
			"Access-Control-Allow-Methods": allowMethods,
			"Access-Control-Allow-Origin":  b.origin,
		},
	}
}

// item renders a record in DynamoDB's typed attribute form, which callers
// already parse (Result.WS_Status.S).
func item(rec workspace.Record) map[string]typedString {
	return map[string]typedString{
		string(workspace.FieldUsername): {S: rec.Username},
		string(workspace.FieldEmail):    {S: rec.Email},
		string(workspace.FieldStatus):   {S: rec.Status},
	}
}

func encode(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return `{}`
	}
	return string(b)
}
