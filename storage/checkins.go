package storage

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dave-sbs/voting-app-sub000/logging"
)

type CheckInStorage interface {
	CheckIn(ctx context.Context, eventID string, member *Member) (*CheckIn, bool, error)
	Get(ctx context.Context, eventID, memberID string) (*CheckIn, error)
	GetAll(ctx context.Context, eventID string) ([]*CheckIn, error)
	GetVoted(ctx context.Context, eventID string) ([]*CheckIn, error)
	DeleteAll(ctx context.Context, eventID string) error
}

type DynamoCheckInStorage struct {
	Client    *dynamodb.Client
	TableName string
}

// CheckIn records attendance for (event, member). The first call inserts the
// row behind a conditional put; repeats fall through to an update that only
// touches UpdatedCheckInTime, so HasVoted survives re-check-ins. The second
// return value reports whether the row was created by this call.
func (s *DynamoCheckInStorage) CheckIn(ctx context.Context, eventID string, member *Member) (*CheckIn, bool, error) {
	now := time.Now().UTC()
	checkIn := &CheckIn{
		EventID:            eventID,
		MemberID:           member.MemberID,
		MemberName:         member.MemberName,
		CheckInTime:        now,
		UpdatedCheckInTime: now,
		HasVoted:           false,
	}

	item, err := attributevalue.MarshalMap(checkIn)
	if err != nil {
		logging.Log.Errorf("CHECKIN: failed to marshal check-in: %v", err)
		return nil, false, err
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &s.TableName,
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
	})
	if err == nil {
		return checkIn, true, nil
	}

	var cce *types.ConditionalCheckFailedException
	if !errors.As(err, &cce) {
		logging.Log.Errorf("CHECKIN: failed to create check-in for %s: %v", member.MemberID, err)
		return nil, false, err
	}

	key, err := attributevalue.MarshalMap(map[string]string{"PK": eventID, "SK": member.MemberID})
	if err != nil {
		logging.Log.Errorf("CHECKIN: failed to marshal key: %v", err)
		return nil, false, err
	}

	out, err := s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           &s.TableName,
		Key:                 key,
		UpdateExpression:    aws.String("SET UpdatedCheckInTime = :now"),
		ConditionExpression: aws.String("attribute_exists(PK)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":now": &types.AttributeValueMemberS{Value: now.Format(time.RFC3339Nano)},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		logging.Log.Errorf("CHECKIN: failed to refresh check-in for %s: %v", member.MemberID, err)
		return nil, false, err
	}

	var updated CheckIn
	if err := attributevalue.UnmarshalMap(out.Attributes, &updated); err != nil {
		logging.Log.Errorf("CHECKIN: failed to unmarshal refreshed check-in: %v", err)
		return nil, false, err
	}
	return &updated, false, nil
}

func (s *DynamoCheckInStorage) Get(ctx context.Context, eventID, memberID string) (*CheckIn, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"PK": eventID, "SK": memberID})
	if err != nil {
		logging.Log.Errorf("CHECKIN: failed to marshal key: %v", err)
		return nil, err
	}

	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.TableName,
		Key:       key,
	})
	if err != nil {
		logging.Log.Errorf("CHECKIN: GetItem for %s failed: %v", memberID, err)
		return nil, err
	}
	if out.Item == nil {
		return nil, nil
	}

	var checkIn CheckIn
	if err := attributevalue.UnmarshalMap(out.Item, &checkIn); err != nil {
		logging.Log.Errorf("CHECKIN: failed to unmarshal check-in: %v", err)
		return nil, err
	}
	return &checkIn, nil
}

func (s *DynamoCheckInStorage) GetAll(ctx context.Context, eventID string) ([]*CheckIn, error) {
	return s.query(ctx, eventID, false)
}

func (s *DynamoCheckInStorage) GetVoted(ctx context.Context, eventID string) ([]*CheckIn, error) {
	return s.query(ctx, eventID, true)
}

func (s *DynamoCheckInStorage) query(ctx context.Context, eventID string, votedOnly bool) ([]*CheckIn, error) {
	input := &dynamodb.QueryInput{
		TableName:              &s.TableName,
		KeyConditionExpression: aws.String("PK = :event"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":event": &types.AttributeValueMemberS{Value: eventID},
		},
	}
	if votedOnly {
		input.FilterExpression = aws.String("HasVoted = :voted")
		input.ExpressionAttributeValues[":voted"] = &types.AttributeValueMemberBOOL{Value: true}
	}

	out, err := s.Client.Query(ctx, input)
	if err != nil {
		logging.Log.Errorf("CHECKIN: query for event %s failed: %v", eventID, err)
		return nil, err
	}

	var checkIns []*CheckIn
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &checkIns); err != nil {
		logging.Log.Errorf("CHECKIN: failed to unmarshal check-in list: %v", err)
		return nil, err
	}
	return checkIns, nil
}

// DeleteAll wipes every check-in row for an event. Reset utility only, not
// part of the normal lifecycle.
func (s *DynamoCheckInStorage) DeleteAll(ctx context.Context, eventID string) error {
	checkIns, err := s.GetAll(ctx, eventID)
	if err != nil {
		return err
	}

	var writeRequests []types.WriteRequest
	for _, ci := range checkIns {
		key, err := attributevalue.MarshalMap(map[string]string{"PK": ci.EventID, "SK": ci.MemberID})
		if err != nil {
			logging.Log.Errorf("CHECKIN: failed to marshal delete key: %v", err)
			return err
		}
		writeRequests = append(writeRequests, types.WriteRequest{
			DeleteRequest: &types.DeleteRequest{Key: key},
		})
	}

	for i := 0; i < len(writeRequests); i += 25 {
		end := i + 25
		if end > len(writeRequests) {
			end = len(writeRequests)
		}
		_, err := s.Client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				s.TableName: writeRequests[i:end],
			},
		})
		if err != nil {
			logging.Log.Errorf("CHECKIN: batch delete failed: %v", err)
			return err
		}
		logging.Log.Infof("CHECKIN: deleted batch of %d check-ins", end-i)
	}
	return nil
}
