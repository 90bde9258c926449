package paramstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// ssmAPI is the minimal AWS SSM interface required by Client.
// *ssm.Client from aws-sdk-go-v2 satisfies this interface.
type ssmAPI interface {
	GetParameter(ctx context.Context, in *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// Client reads deployment overrides from SSM Parameter Store.
type Client struct {
	api ssmAPI
}

func New(api ssmAPI) (*Client, error) {
	if api == nil {
		return nil, errors.New("paramstore: api must not be nil")
	}
	return &Client{api: api}, nil
}

func (c *Client) GetParameter(ctx context.Context, name string) (string, error) {
	if c.api == nil {
		return "", errors.New("paramstore: client not initialized")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("paramstore: name is required")
	}

	out, err := c.api.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("paramstore: get parameter %q: %w", name, err)
	}
	if out == nil || out.Parameter == nil || out.Parameter.Value == nil {
		return "", errors.New("paramstore: parameter missing value")
	}
	return *out.Parameter.Value, nil
}

// GetParameterOr returns def when the parameter does not exist or is blank.
// Any other failure is returned.
func (c *Client) GetParameterOr(ctx context.Context, name, def string) (string, error) {
	v, err := c.GetParameter(ctx, name)
	if err != nil {
		var notFound *types.ParameterNotFound
		if errors.As(err, &notFound) {
			return def, nil
		}
		return "", err
	}
	if strings.TrimSpace(v) == "" {
		return def, nil
	}
	return strings.TrimSpace(v), nil
}

// IndexOverrides resolves the chats GSI names under prefix, keeping the given
// values for parameters that are not set.
func (c *Client) IndexOverrides(ctx context.Context, prefix, user1Index, user2Index string) (string, string, error) {
	prefix = strings.TrimRight(strings.TrimSpace(prefix), "/")
	u1, err := c.GetParameterOr(ctx, prefix+"/config/user1_index", user1Index)
	if err != nil {
		return "", "", err
	}
	u2, err := c.GetParameterOr(ctx, prefix+"/config/user2_index", user2Index)
	if err != nil {
		return "", "", err
	}
	return u1, u2, nil
}
