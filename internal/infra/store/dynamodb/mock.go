package dynamodb

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

const (
	targetPrefix    = "DynamoDB_20120810."
	errorTypePrefix = "com.amazonaws.dynamodb.v20120810#"
)

// MockRequest is a decoded request seen by the mock transport.
type MockRequest struct {
	Operation                 string
	TableName                 string
	Key                       map[string]string
	ProjectionExpression      string
	UpdateExpression          string
	ConditionExpression       string
	ExpressionAttributeNames  map[string]string
	ExpressionAttributeValues map[string]string
}

// Mock is an in-memory DynamoDB subset (GetItem, UpdateItem, PutItem) served
// through a fake HTTP transport.
type Mock struct {
	mu       sync.Mutex
	items    map[string]map[string]string
	requests []MockRequest
	fail     map[string]bool
}

// NewMockForTests returns a Store backed by an in-memory fake transport and
// the Mock driving it. Retries are disabled so each call maps to one request.
func NewMockForTests(table string) (*Store, *Mock) {
	m := &Mock{items: make(map[string]map[string]string), fail: make(map[string]bool)}
	cfg, _ := config.LoadDefaultConfig(context.Background(),
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")),
	)
	client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		o.HTTPClient = &http.Client{Transport: m}
		o.BaseEndpoint = aws.String("https://mock.dynamodb.local")
		o.Retryer = aws.NopRetryer{}
	})
	return &Store{client: client, table: table}, m
}

// Put stores an item directly, bypassing the API.
func (m *Mock) Put(table string, item map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make(map[string]string, len(item))
	for k, v := range item {
		cp[k] = v
	}
	m.items[itemKey(table, item)] = cp
}

// Item returns a copy of the stored item at (username, email).
func (m *Mock) Item(table, username, email string) (map[string]string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[itemKey(table, map[string]string{"Username": username, "Email": email})]
	if !ok {
		return nil, false
	}
	cp := make(map[string]string, len(it))
	for k, v := range it {
		cp[k] = v
	}
	return cp, true
}

// Requests returns the requests received so far.
func (m *Mock) Requests() []MockRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// Fail makes the named operation (e.g. "GetItem") answer with a server error.
func (m *Mock) Fail(operation string, fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail[operation] = fail
}

type wireAttr struct {
	S *string `json:"S,omitempty"`
}

type wireRequest struct {
	TableName                 string              `json:"TableName"`
	Key                       map[string]wireAttr `json:"Key"`
	Item                      map[string]wireAttr `json:"Item"`
	ProjectionExpression      string              `json:"ProjectionExpression"`
	UpdateExpression          string              `json:"UpdateExpression"`
	ConditionExpression       string              `json:"ConditionExpression"`
	ExpressionAttributeNames  map[string]string   `json:"ExpressionAttributeNames"`
	ExpressionAttributeValues map[string]wireAttr `json:"ExpressionAttributeValues"`
}

// RoundTrip implements http.RoundTripper.
func (m *Mock) RoundTrip(req *http.Request) (*http.Response, error) { //nolint:cyclop
	op := strings.TrimPrefix(req.Header.Get("X-Amz-Target"), targetPrefix)
	body, _ := io.ReadAll(req.Body)
	var in wireRequest
	if err := json.Unmarshal(body, &in); err != nil {
		return errorResponse(http.StatusBadRequest, "SerializationException", err.Error()), nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, MockRequest{
		Operation:                 op,
		TableName:                 in.TableName,
		Key:                       flatten(in.Key),
		ProjectionExpression:      in.ProjectionExpression,
		UpdateExpression:          in.UpdateExpression,
		ConditionExpression:       in.ConditionExpression,
		ExpressionAttributeNames:  in.ExpressionAttributeNames,
		ExpressionAttributeValues: flatten(in.ExpressionAttributeValues),
	})
	if m.fail[op] {
		return errorResponse(http.StatusInternalServerError, "InternalServerError", "injected failure"), nil
	}
	switch op {
	case "GetItem":
		item, ok := m.items[itemKey(in.TableName, flatten(in.Key))]
		if !ok {
			return jsonResponse(map[string]any{}), nil
		}
		return jsonResponse(map[string]any{"Item": expand(project(item, in.ProjectionExpression))}), nil
	case "UpdateItem":
		k := itemKey(in.TableName, flatten(in.Key))
		item, ok := m.items[k]
		if !ok && strings.Contains(in.ConditionExpression, "attribute_exists") {
			return errorResponse(http.StatusBadRequest, "ConditionalCheckFailedException", "The conditional request failed"), nil
		}
		if !ok {
			item = flatten(in.Key)
		}
		for name, value := range parseSet(in.UpdateExpression) {
			if actual, ok := in.ExpressionAttributeNames[name]; ok {
				name = actual
			}
			item[name] = flatten(in.ExpressionAttributeValues)[value]
		}
		m.items[k] = item
		return jsonResponse(map[string]any{}), nil
	case "PutItem":
		item := flatten(in.Item)
		k := itemKey(in.TableName, item)
		if _, exists := m.items[k]; exists && strings.Contains(in.ConditionExpression, "attribute_not_exists") {
			return errorResponse(http.StatusBadRequest, "ConditionalCheckFailedException", "The conditional request failed"), nil
		}
		m.items[k] = item
		return jsonResponse(map[string]any{}), nil
	}
	return errorResponse(http.StatusBadRequest, "UnknownOperationException", op), nil
}

func itemKey(table string, item map[string]string) string {
	return table + "\x00" + item["Username"] + "\x00" + item["Email"]
}

func flatten(attrs map[string]wireAttr) map[string]string {
	out := make(map[string]string, len(attrs))
	for k, v := range attrs {
		if v.S != nil {
			out[k] = *v.S
		}
	}
	return out
}

func expand(item map[string]string) map[string]wireAttr {
	out := make(map[string]wireAttr, len(item))
	for k, v := range item {
		v := v
		out[k] = wireAttr{S: &v}
	}
	return out
}

func project(item map[string]string, projection string) map[string]string {
	if projection == "" {
		return item
	}
	out := make(map[string]string)
	for _, name := range strings.Split(projection, ",") {
		name = strings.TrimSpace(name)
		if v, ok := item[name]; ok {
			out[name] = v
		}
	}
	return out
}

// parseSet understands "SET a = :x, b = :y".
func parseSet(expr string) map[string]string {
	out := make(map[string]string)
	expr = strings.TrimSpace(expr)
	if !strings.HasPrefix(expr, "SET ") {
		return out
	}
	for _, clause := range strings.Split(strings.TrimPrefix(expr, "SET "), ",") {
		parts := strings.SplitN(clause, "=", 2)
		if len(parts) == 2 {
			out[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
		}
	}
	return out
}

func jsonResponse(v any) *http.Response {
	b, _ := json.Marshal(v)
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewReader(b)),
		Header:     http.Header{"Content-Type": {"application/x-amz-json-1.0"}},
	}
}

func errorResponse(status int, errType, msg string) *http.Response {
	b, _ := json.Marshal(map[string]string{"__type": errorTypePrefix + errType, "message": msg})
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(b)),
		Header:     http.Header{"Content-Type": {"application/x-amz-json-1.0"}},
	}
}
