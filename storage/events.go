package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dave-sbs/voting-app-sub000/logging"
)

type EventStorage interface {
	GetOpenEvents(ctx context.Context) ([]*Event, error)
	GetLastEvent(ctx context.Context, category string) (*Event, error)
	GetByID(ctx context.Context, eventID string) (*Event, error)
	Create(ctx context.Context, event *Event) error
	Close(ctx context.Context, eventID string) (*Event, error)
}

type DynamoEventStorage struct {
	Client    *dynamodb.Client
	TableName string
}

// Lock rows live in the same table under a synthetic partition key. The
// conditional put on the lock row is what serializes "one open event per
// category" across concurrent admins.
func openLockKey(category string) string {
	return "OPEN#" + category
}

// formatEventSortKey renders the event date as a fixed-width integer so the
// lexicographic sort key order matches chronological order.
func formatEventSortKey(t time.Time) string {
	return fmt.Sprintf("%020d", t.UTC().UnixNano())
}

func (s *DynamoEventStorage) GetOpenEvents(ctx context.Context) ([]*Event, error) {
	out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
		TableName:        &s.TableName,
		FilterExpression: aws.String("IsOpen = :open"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":open": &types.AttributeValueMemberBOOL{Value: true},
		},
	})
	if err != nil {
		logging.Log.Errorf("EVENT: scan for open events failed: %v", err)
		return nil, err
	}

	var events []*Event
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &events); err != nil {
		logging.Log.Errorf("EVENT: failed to unmarshal open events: %v", err)
		return nil, err
	}
	return events, nil
}

func (s *DynamoEventStorage) GetLastEvent(ctx context.Context, category string) (*Event, error) {
	out, err := s.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:              &s.TableName,
		KeyConditionExpression: aws.String("PK = :category"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":category": &types.AttributeValueMemberS{Value: category},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(1),
	})
	if err != nil {
		logging.Log.Errorf("EVENT: query for last %s event failed: %v", category, err)
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, nil
	}

	var event Event
	if err := attributevalue.UnmarshalMap(out.Items[0], &event); err != nil {
		logging.Log.Errorf("EVENT: failed to unmarshal event: %v", err)
		return nil, err
	}
	return &event, nil
}

func (s *DynamoEventStorage) GetByID(ctx context.Context, eventID string) (*Event, error) {
	out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
		TableName:        &s.TableName,
		FilterExpression: aws.String("EventID = :id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":id": &types.AttributeValueMemberS{Value: eventID},
		},
	})
	if err != nil {
		logging.Log.Errorf("EVENT: scan for event %s failed: %v", eventID, err)
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, nil
	}

	var event Event
	if err := attributevalue.UnmarshalMap(out.Items[0], &event); err != nil {
		logging.Log.Errorf("EVENT: failed to unmarshal event: %v", err)
		return nil, err
	}
	return &event, nil
}

func (s *DynamoEventStorage) Create(ctx context.Context, event *Event) error {
	if event.EventDate.IsZero() {
		event.EventDate = time.Now().UTC()
	}
	event.SortKey = formatEventSortKey(event.EventDate)

	item, err := attributevalue.MarshalMap(event)
	if err != nil {
		logging.Log.Errorf("EVENT: failed to marshal event: %v", err)
		return err
	}

	// AUTO events are bookkeeping rows, never open, so they take no lock.
	if !event.IsOpen {
		_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: &s.TableName,
			Item:      item,
		})
		if err != nil {
			logging.Log.Errorf("EVENT: failed to create closed event: %v", err)
		}
		return err
	}

	// The lock row must not carry an EventID attribute or the GetByID scan
	// filter would match it.
	lock, err := attributevalue.MarshalMap(map[string]string{
		"PK":          openLockKey(event.Category),
		"SK":          "LOCK",
		"OpenEventID": event.EventID,
	})
	if err != nil {
		logging.Log.Errorf("EVENT: failed to marshal open lock: %v", err)
		return err
	}

	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:           &s.TableName,
					Item:                lock,
					ConditionExpression: aws.String("attribute_not_exists(PK)"),
				},
			},
			{
				Put: &types.Put{
					TableName: &s.TableName,
					Item:      item,
				},
			},
		},
	})
	if err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) && conditionFailed(canceled.CancellationReasons, 0) {
			logging.Log.Warnf("EVENT: open %s event already exists", event.Category)
			return ErrOpenEventExists
		}
		logging.Log.Errorf("EVENT: failed to create event: %v", err)
		return err
	}
	return nil
}

func (s *DynamoEventStorage) Close(ctx context.Context, eventID string) (*Event, error) {
	event, err := s.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil || !event.IsOpen {
		logging.Log.Warnf("EVENT: no open event with id %s to close", eventID)
		return nil, ErrNotFound
	}

	key, err := attributevalue.MarshalMap(map[string]string{"PK": event.Category, "SK": event.SortKey})
	if err != nil {
		logging.Log.Errorf("EVENT: failed to marshal event key: %v", err)
		return nil, err
	}
	lockKey, err := attributevalue.MarshalMap(map[string]string{"PK": openLockKey(event.Category), "SK": "LOCK"})
	if err != nil {
		logging.Log.Errorf("EVENT: failed to marshal lock key: %v", err)
		return nil, err
	}

	// Flip IsOpen and release the category lock together so a concurrent
	// create cannot observe a closed event that still holds the lock.
	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Update: &types.Update{
					TableName:           &s.TableName,
					Key:                 key,
					UpdateExpression:    aws.String("SET IsOpen = :closed"),
					ConditionExpression: aws.String("IsOpen = :open"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":closed": &types.AttributeValueMemberBOOL{Value: false},
						":open":   &types.AttributeValueMemberBOOL{Value: true},
					},
				},
			},
			{
				Delete: &types.Delete{
					TableName: &s.TableName,
					Key:       lockKey,
				},
			},
		},
	})
	if err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) && conditionFailed(canceled.CancellationReasons, 0) {
			return nil, ErrNotFound
		}
		logging.Log.Errorf("EVENT: failed to close event %s: %v", eventID, err)
		return nil, err
	}

	event.IsOpen = false
	return event, nil
}

func conditionFailed(reasons []types.CancellationReason, index int) bool {
	if index >= len(reasons) || reasons[index].Code == nil {
		return false
	}
	return *reasons[index].Code == "ConditionalCheckFailed"
}
