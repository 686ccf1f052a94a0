package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/somsu123/peerpath-final/internal/domain"
)

// UserRepo provides typed DynamoDB operations for the users (credentials) table.
// PK: email (lowercased by the caller).
type UserRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewUserRepo(client *dynamodb.Client, tableName string) *UserRepo {
	return &UserRepo{client: client, tableName: tableName}
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("email", email),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	var u domain.User
	if err := attributevalue.UnmarshalMap(out.Item, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new credential record. The conditional put is the last
// line of defence against duplicate e-mails; callers check existence first
// to surface a friendlier message.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	item, err := attributevalue.MarshalMap(u)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(email)"),
	})
	if isConditionFailed(err) {
		return fmt.Errorf("email already registered: %w", domain.ErrConflict)
	}
	return err
}

// SetOTP attaches a fresh OTP challenge to the record, overwriting any
// outstanding code. Last write wins — only the most recent code is valid.
func (r *UserRepo) SetOTP(ctx context.Context, email, code string, expiresAt int64) error {
	return r.update(ctx, email, map[string]interface{}{
		"otp_code":       code,
		"otp_expires_at": expiresAt,
	})
}

// ConsumeOTP marks the record verified and clears the challenge, conditioned
// on the stored code still equalling the one being consumed. A concurrent
// re-issue makes the condition fail, so a verify can never succeed against a
// code that was replaced mid-flight.
func (r *UserRepo) ConsumeOTP(ctx context.Context, email, code string) error {
	ue, err := buildUpdateExpr(map[string]interface{}{
		"is_verified":    true,
		"otp_code":       "",
		"otp_expires_at": int64(0),
		"updated_at":     time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	ue.Values[":code"] = &types.AttributeValueMemberS{Value: code}
	ue.Values[":empty"] = &types.AttributeValueMemberS{Value: ""}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("email", email),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("otp_code = :code AND otp_code <> :empty"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	if isConditionFailed(err) {
		return fmt.Errorf("invalid OTP: %w", domain.ErrBadRequest)
	}
	return err
}

func (r *UserRepo) update(ctx context.Context, email string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("email", email),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

func isConditionFailed(err error) bool {
	var cond *types.ConditionalCheckFailedException
	return errors.As(err, &cond)
}
