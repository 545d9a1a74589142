package storage

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dave-sbs/voting-app-sub000/logging"
	"github.com/google/uuid"
)

type MemberStorage interface {
	GetAll(ctx context.Context) ([]*Member, error)
	Get(ctx context.Context, memberID string) (*Member, error)
	GetByName(ctx context.Context, name string) (*Member, error)
	GetByStoreNumber(ctx context.Context, storeNumber string) (*Member, error)
	Add(ctx context.Context, name, storeNumber string) (*Member, error)
	Remove(ctx context.Context, name, storeNumber string) error
	SetBoardStatus(ctx context.Context, name, storeNumber string, isBoardMember bool) (*Member, error)
}

// DynamoMemberStorage keeps members in one table and a store-number →
// member mapping in a second. The mapping table's conditional put is the
// directory-wide store number uniqueness guard.
type DynamoMemberStorage struct {
	Client                *dynamodb.Client
	TableName             string
	StoreNumbersTableName string
}

func (s *DynamoMemberStorage) GetAll(ctx context.Context) ([]*Member, error) {
	out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
		TableName: &s.TableName,
	})
	if err != nil {
		logging.Log.Errorf("MEMBER: scan failed: %v", err)
		return nil, err
	}

	var members []*Member
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &members); err != nil {
		logging.Log.Errorf("MEMBER: failed to unmarshal member list: %v", err)
		return nil, err
	}
	return members, nil
}

func (s *DynamoMemberStorage) Get(ctx context.Context, memberID string) (*Member, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"PK": memberID})
	if err != nil {
		logging.Log.Errorf("MEMBER: failed to marshal key: %v", err)
		return nil, err
	}

	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.TableName,
		Key:       key,
	})
	if err != nil {
		logging.Log.Errorf("MEMBER: GetItem for %s failed: %v", memberID, err)
		return nil, err
	}
	if out.Item == nil {
		return nil, nil
	}

	var member Member
	if err := attributevalue.UnmarshalMap(out.Item, &member); err != nil {
		logging.Log.Errorf("MEMBER: failed to unmarshal member: %v", err)
		return nil, err
	}
	return &member, nil
}

func (s *DynamoMemberStorage) GetByName(ctx context.Context, name string) (*Member, error) {
	out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
		TableName:        &s.TableName,
		FilterExpression: aws.String("MemberName = :name"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":name": &types.AttributeValueMemberS{Value: name},
		},
	})
	if err != nil {
		logging.Log.Errorf("MEMBER: scan by name failed: %v", err)
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, nil
	}

	var member Member
	if err := attributevalue.UnmarshalMap(out.Items[0], &member); err != nil {
		logging.Log.Errorf("MEMBER: failed to unmarshal member: %v", err)
		return nil, err
	}
	return &member, nil
}

func (s *DynamoMemberStorage) GetByStoreNumber(ctx context.Context, storeNumber string) (*Member, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"PK": storeNumber})
	if err != nil {
		logging.Log.Errorf("MEMBER: failed to marshal store key: %v", err)
		return nil, err
	}

	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.StoreNumbersTableName,
		Key:       key,
	})
	if err != nil {
		logging.Log.Errorf("MEMBER: store number lookup for %s failed: %v", storeNumber, err)
		return nil, err
	}
	if out.Item == nil {
		return nil, nil
	}

	var record StoreNumberRecord
	if err := attributevalue.UnmarshalMap(out.Item, &record); err != nil {
		logging.Log.Errorf("MEMBER: failed to unmarshal store record: %v", err)
		return nil, err
	}
	return s.Get(ctx, record.MemberID)
}

func (s *DynamoMemberStorage) Add(ctx context.Context, name, storeNumber string) (*Member, error) {
	existing, err := s.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}

	member := existing
	if member == nil {
		member = &Member{
			MemberID:      uuid.NewString(),
			MemberName:    name,
			StoreNumbers:  []string{storeNumber},
			IsBoardMember: false,
		}
	}

	record, err := attributevalue.MarshalMap(&StoreNumberRecord{
		StoreNumber: storeNumber,
		MemberID:    member.MemberID,
		MemberName:  name,
	})
	if err != nil {
		logging.Log.Errorf("MEMBER: failed to marshal store record: %v", err)
		return nil, err
	}

	items := []types.TransactWriteItem{
		{
			Put: &types.Put{
				TableName:           &s.StoreNumbersTableName,
				Item:                record,
				ConditionExpression: aws.String("attribute_not_exists(PK)"),
			},
		},
	}

	if existing != nil {
		key, err := attributevalue.MarshalMap(map[string]string{"PK": member.MemberID})
		if err != nil {
			logging.Log.Errorf("MEMBER: failed to marshal key: %v", err)
			return nil, err
		}
		items = append(items, types.TransactWriteItem{
			Update: &types.Update{
				TableName:        &s.TableName,
				Key:              key,
				UpdateExpression: aws.String("ADD StoreNumbers :store"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":store": &types.AttributeValueMemberSS{Value: []string{storeNumber}},
				},
			},
		})
		member.StoreNumbers = append(member.StoreNumbers, storeNumber)
	} else {
		item, err := attributevalue.MarshalMap(member)
		if err != nil {
			logging.Log.Errorf("MEMBER: failed to marshal member: %v", err)
			return nil, err
		}
		items = append(items, types.TransactWriteItem{
			Put: &types.Put{
				TableName:           &s.TableName,
				Item:                item,
				ConditionExpression: aws.String("attribute_not_exists(PK)"),
			},
		})
	}

	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) && conditionFailed(canceled.CancellationReasons, 0) {
			logging.Log.Warnf("MEMBER: store number %s already registered", storeNumber)
			return nil, ErrDuplicateStoreNumber
		}
		logging.Log.Errorf("MEMBER: failed to add %s with store %s: %v", name, storeNumber, err)
		return nil, err
	}
	return member, nil
}

func (s *DynamoMemberStorage) Remove(ctx context.Context, name, storeNumber string) error {
	member, err := s.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if member == nil || !containsStore(member.StoreNumbers, storeNumber) {
		logging.Log.Warnf("MEMBER: no member %s with store %s", name, storeNumber)
		return ErrNotFound
	}

	memberKey, err := attributevalue.MarshalMap(map[string]string{"PK": member.MemberID})
	if err != nil {
		logging.Log.Errorf("MEMBER: failed to marshal key: %v", err)
		return err
	}
	storeKey, err := attributevalue.MarshalMap(map[string]string{"PK": storeNumber})
	if err != nil {
		logging.Log.Errorf("MEMBER: failed to marshal store key: %v", err)
		return err
	}

	var memberWrite types.TransactWriteItem
	if len(member.StoreNumbers) == 1 {
		// Last store number: the member record goes with it.
		memberWrite = types.TransactWriteItem{
			Delete: &types.Delete{
				TableName: &s.TableName,
				Key:       memberKey,
			},
		}
	} else {
		memberWrite = types.TransactWriteItem{
			Update: &types.Update{
				TableName:        &s.TableName,
				Key:              memberKey,
				UpdateExpression: aws.String("DELETE StoreNumbers :store"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":store": &types.AttributeValueMemberSS{Value: []string{storeNumber}},
				},
			},
		}
	}

	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			memberWrite,
			{
				Delete: &types.Delete{
					TableName:           &s.StoreNumbersTableName,
					Key:                 storeKey,
					ConditionExpression: aws.String("MemberID = :id"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":id": &types.AttributeValueMemberS{Value: member.MemberID},
					},
				},
			},
		},
	})
	if err != nil {
		logging.Log.Errorf("MEMBER: failed to remove store %s from %s: %v", storeNumber, name, err)
		return err
	}
	return nil
}

func (s *DynamoMemberStorage) SetBoardStatus(ctx context.Context, name, storeNumber string, isBoardMember bool) (*Member, error) {
	member, err := s.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if member == nil {
		if !isBoardMember {
			logging.Log.Warnf("MEMBER: cannot clear board status for unknown member %s", name)
			return nil, ErrNotFound
		}
		// Promoting someone not yet in the directory registers them first.
		member, err = s.Add(ctx, name, storeNumber)
		if err != nil {
			return nil, err
		}
	}

	key, err := attributevalue.MarshalMap(map[string]string{"PK": member.MemberID})
	if err != nil {
		logging.Log.Errorf("MEMBER: failed to marshal key: %v", err)
		return nil, err
	}

	_, err = s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        &s.TableName,
		Key:              key,
		UpdateExpression: aws.String("SET IsBoardMember = :flag"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":flag": &types.AttributeValueMemberBOOL{Value: isBoardMember},
		},
	})
	if err != nil {
		logging.Log.Errorf("MEMBER: failed to set board status for %s: %v", name, err)
		return nil, err
	}

	member.IsBoardMember = isBoardMember
	return member, nil
}

func containsStore(storeNumbers []string, storeNumber string) bool {
	for _, s := range storeNumbers {
		if s == storeNumber {
			return true
		}
	}
	return false
}
