// Package dynamodb implements workspace.Store on an Amazon DynamoDB table
// keyed by Username (partition) and Email (sort).
package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"wsdetails/internal/workspace"
)

var _ workspace.Store = (*Store)(nil)

const (
	statusName  = "#WSS"
	statusValue = ":s"
	keyName     = "#U"
)

// Store reads and updates workspace records in a single DynamoDB table.
type Store struct {
	client *dynamodb.Client
	table  string
}

// Config holds explicit construction parameters. Credentials come from the
// default AWS chain (Lambda execution role, env, shared config).
type Config struct {
	Table    string
	Region   string
	Endpoint string // optional; DynamoDB Local or another compatible endpoint
}

// New creates a DynamoDB store from Config.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Table == "" {
		return nil, fmt.Errorf("dynamodb table required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &Store{client: client, table: cfg.Table}, nil
}

// Table returns the table the store operates on.
func (s *Store) Table() string { return s.table }

// Get fetches the record at key, projecting fields.
func (s *Store) Get(ctx context.Context, key workspace.Key, fields []workspace.Field) (workspace.Record, bool, error) {
	input := &dynamodb.GetItemInput{TableName: &s.table, Key: keyAttributes(key)}
	if len(fields) > 0 {
		names := make([]string, len(fields))
		for i, f := range fields {
			names[i] = string(f)
		}
		input.ProjectionExpression = aws.String(strings.Join(names, ","))
	}
	out, err := s.client.GetItem(ctx, input)
	if err != nil {
		return workspace.Record{}, false, err
	}
	if len(out.Item) == 0 {
		return workspace.Record{}, false, nil
	}
	var rec workspace.Record
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return workspace.Record{}, false, fmt.Errorf("decode item: %w", err)
	}
	return rec, true, nil
}

// Update applies assign to the record at key. The update is conditional on
// the record existing so a stray key never creates a partial record.
func (s *Store) Update(ctx context.Context, key workspace.Key, assign *workspace.Assignment) error {
	input := &dynamodb.UpdateItemInput{
		TableName:                &s.table,
		Key:                      keyAttributes(key),
		ConditionExpression:      aws.String("attribute_exists(" + keyName + ")"),
		ExpressionAttributeNames: map[string]string{keyName: string(workspace.FieldUsername)},
	}
	if assign != nil {
		input.ExpressionAttributeNames[statusName] = string(assign.Field)
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			statusValue: &types.AttributeValueMemberS{Value: assign.Value},
		}
		input.UpdateExpression = aws.String("SET " + statusName + " = " + statusValue)
	}
	_, err := s.client.UpdateItem(ctx, input)
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return workspace.ErrNotFound
	}
	return err
}

// Seed creates a record; errors if the key already exists.
func (s *Store) Seed(ctx context.Context, rec workspace.Record) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("encode item: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                &s.table,
		Item:                     item,
		ConditionExpression:      aws.String("attribute_not_exists(" + keyName + ")"),
		ExpressionAttributeNames: map[string]string{keyName: string(workspace.FieldUsername)},
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return fmt.Errorf("workspace %s/%s already exists", rec.Username, rec.Email)
	}
	return err
}

func keyAttributes(key workspace.Key) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		string(workspace.FieldUsername): &types.AttributeValueMemberS{Value: key.Username},
		string(workspace.FieldEmail):    &types.AttributeValueMemberS{Value: key.Email},
	}
}
