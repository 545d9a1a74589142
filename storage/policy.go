package storage

import (
	"context"
	"errors"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dave-sbs/voting-app-sub000/logging"
)

const policyKey = "selection-policy"

const DefaultMinChoice = 1
const DefaultMaxChoice = 1

type PolicyStorage interface {
	Get(ctx context.Context) (*SelectionPolicy, error)
	SetMin(ctx context.Context, minChoice int) (*SelectionPolicy, error)
	SetMax(ctx context.Context, maxChoice int) (*SelectionPolicy, error)
}

// DynamoPolicyStorage holds the process-wide selection policy as a single
// row. Writes that would leave MinChoice above MaxChoice are rejected by a
// condition on the update itself, so two concurrent setters cannot cross.
type DynamoPolicyStorage struct {
	Client    *dynamodb.Client
	TableName string
}

func (s *DynamoPolicyStorage) Get(ctx context.Context) (*SelectionPolicy, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"PK": policyKey})
	if err != nil {
		logging.Log.Errorf("POLICY: failed to marshal key: %v", err)
		return nil, err
	}

	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.TableName,
		Key:       key,
	})
	if err != nil {
		logging.Log.Errorf("POLICY: GetItem failed: %v", err)
		return nil, err
	}
	if out.Item == nil {
		return &SelectionPolicy{Key: policyKey, MinChoice: DefaultMinChoice, MaxChoice: DefaultMaxChoice}, nil
	}

	var policy SelectionPolicy
	if err := attributevalue.UnmarshalMap(out.Item, &policy); err != nil {
		logging.Log.Errorf("POLICY: failed to unmarshal policy: %v", err)
		return nil, err
	}
	return &policy, nil
}

// SetMin seeds MaxChoice with the same value on first write so the row can
// never hold min above max, not even transiently.
func (s *DynamoPolicyStorage) SetMin(ctx context.Context, minChoice int) (*SelectionPolicy, error) {
	return s.set(ctx,
		"SET MinChoice = :value, MaxChoice = if_not_exists(MaxChoice, :value)",
		"attribute_not_exists(MaxChoice) OR MaxChoice >= :value",
		map[string]types.AttributeValue{
			":value": &types.AttributeValueMemberN{Value: strconv.Itoa(minChoice)},
		}, minChoice)
}

func (s *DynamoPolicyStorage) SetMax(ctx context.Context, maxChoice int) (*SelectionPolicy, error) {
	return s.set(ctx,
		"SET MaxChoice = :value, MinChoice = if_not_exists(MinChoice, :min)",
		"attribute_not_exists(MinChoice) OR MinChoice <= :value",
		map[string]types.AttributeValue{
			":value": &types.AttributeValueMemberN{Value: strconv.Itoa(maxChoice)},
			":min":   &types.AttributeValueMemberN{Value: strconv.Itoa(DefaultMinChoice)},
		}, maxChoice)
}

func (s *DynamoPolicyStorage) set(ctx context.Context, update, condition string, values map[string]types.AttributeValue, value int) (*SelectionPolicy, error) {
	if value < 1 {
		return nil, ErrInvalidPolicy
	}

	key, err := attributevalue.MarshalMap(map[string]string{"PK": policyKey})
	if err != nil {
		logging.Log.Errorf("POLICY: failed to marshal key: %v", err)
		return nil, err
	}

	out, err := s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 &s.TableName,
		Key:                       key,
		UpdateExpression:          aws.String(update),
		ConditionExpression:       aws.String(condition),
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var cce *types.ConditionalCheckFailedException
		if errors.As(err, &cce) {
			logging.Log.Warnf("POLICY: rejected value %d, would cross the other bound", value)
			return nil, ErrInvalidPolicy
		}
		logging.Log.Errorf("POLICY: failed to update policy: %v", err)
		return nil, err
	}

	var policy SelectionPolicy
	if err := attributevalue.UnmarshalMap(out.Attributes, &policy); err != nil {
		logging.Log.Errorf("POLICY: failed to unmarshal policy: %v", err)
		return nil, err
	}
	return &policy, nil
}
