package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"chats-api/internal/domain"
)

const (
	DefaultUser1Index = "user1-updatedDt-index"
	DefaultUser2Index = "user2-updatedDt-index"
)

// dynamodbAPI is the minimal DynamoDB interface required by Client.
// It matches dynamodb.QueryAPIClient so it can drive a QueryPaginator.
type dynamodbAPI interface {
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// Indexes names the two participant-role GSIs of the chats table.
type Indexes struct {
	User1 string
	User2 string
}

// Client wraps the chats DynamoDB table.
type Client struct {
	api       dynamodbAPI
	tableName string
	indexes   Indexes
}

// New creates a new repository Client. Empty index names fall back to the
// defaults.
func New(api dynamodbAPI, tableName string, indexes Indexes) (*Client, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("repository: table name must not be empty")
	}
	if strings.TrimSpace(indexes.User1) == "" {
		indexes.User1 = DefaultUser1Index
	}
	if strings.TrimSpace(indexes.User2) == "" {
		indexes.User2 = DefaultUser2Index
	}
	return &Client{api: api, tableName: tableName, indexes: indexes}, nil
}

// ChatsByUser1 returns every chat whose user1 equals userID.
func (c *Client) ChatsByUser1(ctx context.Context, userID string) ([]domain.Chat, error) {
	chats, err := c.queryIndex(ctx, c.indexes.User1, domain.AttrUser1, userID)
	if err != nil {
		return nil, fmt.Errorf("repository: ChatsByUser1: %w", err)
	}
	return chats, nil
}

// ChatsByUser2 returns every chat whose user2 equals userID.
func (c *Client) ChatsByUser2(ctx context.Context, userID string) ([]domain.Chat, error) {
	chats, err := c.queryIndex(ctx, c.indexes.User2, domain.AttrUser2, userID)
	if err != nil {
		return nil, fmt.Errorf("repository: ChatsByUser2: %w", err)
	}
	return chats, nil
}

// queryIndex runs an equality query on one GSI and drains every result page.
func (c *Client) queryIndex(ctx context.Context, index, attr, userID string) ([]domain.Chat, error) {
	in := &dynamodb.QueryInput{
		TableName:              aws.String(c.tableName),
		IndexName:              aws.String(index),
		KeyConditionExpression: aws.String("#user = :user"),
		ExpressionAttributeNames: map[string]string{
			"#user": attr,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":user": &types.AttributeValueMemberS{Value: userID},
		},
	}

	var chats []domain.Chat
	p := dynamodb.NewQueryPaginator(c.api, in)
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", index, err)
		}
		for _, item := range out.Items {
			chat, err := itemToChat(item)
			if err != nil {
				return nil, fmt.Errorf("unmarshal %s item: %w", index, err)
			}
			chats = append(chats, chat)
		}
	}
	return chats, nil
}

// itemToChat converts a DynamoDB attribute map to a Chat. Attributes other than
// the participants and the update timestamp are kept as decoded Go values.
func itemToChat(item map[string]types.AttributeValue) (domain.Chat, error) {
	var raw map[string]any
	if err := attributevalue.UnmarshalMap(item, &raw); err != nil {
		return domain.Chat{}, err
	}

	user1, err := strAttr(raw, domain.AttrUser1)
	if err != nil {
		return domain.Chat{}, err
	}
	user2, err := strAttr(raw, domain.AttrUser2)
	if err != nil {
		return domain.Chat{}, err
	}
	updatedAt, err := timeAttr(raw, domain.AttrUpdatedDt)
	if err != nil {
		return domain.Chat{}, err
	}

	delete(raw, domain.AttrUser1)
	delete(raw, domain.AttrUser2)
	delete(raw, domain.AttrUpdatedDt)

	return domain.Chat{
		User1:      user1,
		User2:      user2,
		UpdatedAt:  updatedAt,
		Attributes: raw,
	}, nil
}

func strAttr(raw map[string]any, key string) (string, error) {
	v, ok := raw[key]
	if !ok {
		return "", fmt.Errorf("repository: missing attribute %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("repository: attribute %q is not a string", key)
	}
	return s, nil
}

// timeAttr accepts ISO-8601 strings and epoch-second numbers.
func timeAttr(raw map[string]any, key string) (time.Time, error) {
	v, ok := raw[key]
	if !ok {
		return time.Time{}, fmt.Errorf("repository: missing attribute %q", key)
	}
	switch t := v.(type) {
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return time.Time{}, fmt.Errorf("repository: parse attribute %q: %w", key, err)
		}
		return parsed.UTC(), nil
	case float64:
		sec, frac := math.Modf(t)
		return time.Unix(int64(sec), int64(math.Round(frac*1e9))).UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("repository: attribute %q is not a timestamp", key)
	}
}
