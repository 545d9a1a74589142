package storage

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dave-sbs/voting-app-sub000/logging"
)

type VoteStorage interface {
	CommitBallot(ctx context.Context, eventID, memberID string, candidateIDs []string) error
}

// DynamoVoteStorage commits a ballot as one TransactWriteItems call: a
// compare-and-swap on the voter's HasVoted flag plus an increment per chosen
// candidate. Either every write lands or none does, so a failed attempt can
// be retried whole and two concurrent submissions from the same voter cannot
// both pass the flag check.
type DynamoVoteStorage struct {
	Client              *dynamodb.Client
	CheckInsTableName   string
	CandidatesTableName string
}

func (s *DynamoVoteStorage) CommitBallot(ctx context.Context, eventID, memberID string, candidateIDs []string) error {
	voterKey, err := attributevalue.MarshalMap(map[string]string{"PK": eventID, "SK": memberID})
	if err != nil {
		logging.Log.Errorf("VOTE: failed to marshal voter key: %v", err)
		return err
	}

	items := []types.TransactWriteItem{
		{
			Update: &types.Update{
				TableName:           &s.CheckInsTableName,
				Key:                 voterKey,
				UpdateExpression:    aws.String("SET HasVoted = :voted"),
				ConditionExpression: aws.String("attribute_exists(PK) AND HasVoted = :notVoted"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":voted":    &types.AttributeValueMemberBOOL{Value: true},
					":notVoted": &types.AttributeValueMemberBOOL{Value: false},
				},
			},
		},
	}

	for _, candidateID := range candidateIDs {
		candidateKey, err := attributevalue.MarshalMap(map[string]string{"PK": candidateID})
		if err != nil {
			logging.Log.Errorf("VOTE: failed to marshal candidate key: %v", err)
			return err
		}
		items = append(items, types.TransactWriteItem{
			Update: &types.Update{
				TableName:           &s.CandidatesTableName,
				Key:                 candidateKey,
				UpdateExpression:    aws.String("ADD VoteCount :one"),
				ConditionExpression: aws.String("attribute_exists(PK)"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":one": &types.AttributeValueMemberN{Value: "1"},
				},
			},
		})
	}

	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err == nil {
		logging.Log.Infof("VOTE: committed ballot for member %s on event %s (%d candidates)", memberID, eventID, len(candidateIDs))
		return nil
	}

	var canceled *types.TransactionCanceledException
	if !errors.As(err, &canceled) {
		logging.Log.Errorf("VOTE: ballot transaction for member %s failed: %v", memberID, err)
		return err
	}

	if conditionFailed(canceled.CancellationReasons, 0) {
		// The voter item failed its condition: either no check-in row or the
		// flag was already set. Re-read to report which.
		return s.classifyVoterFailure(ctx, eventID, memberID)
	}
	for i := range candidateIDs {
		if conditionFailed(canceled.CancellationReasons, i+1) {
			logging.Log.Warnf("VOTE: candidate %s no longer active, ballot rejected", candidateIDs[i])
			return ErrNotFound
		}
	}

	logging.Log.Errorf("VOTE: ballot transaction for member %s canceled: %v", memberID, err)
	return err
}

func (s *DynamoVoteStorage) classifyVoterFailure(ctx context.Context, eventID, memberID string) error {
	key, err := attributevalue.MarshalMap(map[string]string{"PK": eventID, "SK": memberID})
	if err != nil {
		return err
	}

	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.CheckInsTableName,
		Key:       key,
	})
	if err != nil {
		logging.Log.Errorf("VOTE: failed to re-read voter %s: %v", memberID, err)
		return err
	}
	if out.Item == nil {
		logging.Log.Warnf("VOTE: member %s is not checked in to event %s", memberID, eventID)
		return ErrNotCheckedIn
	}

	logging.Log.Warnf("VOTE: member %s already voted on event %s", memberID, eventID)
	return ErrAlreadyVoted
}
