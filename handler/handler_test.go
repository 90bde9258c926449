package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/require"

	"chats-api/internal/domain"
	"chats-api/internal/usecase"
)

type stubUseCase struct {
	out usecase.Page
	err error
	in  usecase.ListChatsInput
}

func (s *stubUseCase) ListChats(_ context.Context, in usecase.ListChatsInput) (usecase.Page, error) {
	s.in = in
	return s.out, s.err
}

func makeEvent(query map[string]string) events.APIGatewayProxyRequest {
	return events.APIGatewayProxyRequest{
		HTTPMethod:            http.MethodGet,
		Path:                  "/chats",
		Headers:               map[string]string{},
		QueryStringParameters: query,
	}
}

func parseBody[T any](t *testing.T, body string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(body), &v))
	return v
}

func requireCommonHeaders(t *testing.T, resp events.APIGatewayProxyResponse) {
	t.Helper()
	require.Equal(t, "application/json", resp.Headers["Content-Type"])
	require.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
	require.NotEmpty(t, resp.Headers["X-Correlation-Id"])
}

func TestNewHandler_ValidatesDependency(t *testing.T) {
	_, err := NewHandler(nil)
	require.Error(t, err)
}

func TestHandle_HappyPath(t *testing.T) {
	updated := time.Date(2026, 2, 27, 12, 0, 0, 0, time.UTC)
	uc := &stubUseCase{out: usecase.Page{
		Chats: []domain.Chat{{
			User1:      "alice",
			User2:      "bob",
			UpdatedAt:  updated,
			Attributes: map[string]any{"chatId": "c-1"},
		}},
		PageSize:   10,
		PageIndex:  1,
		TotalCount: 1,
		TotalPages: 1,
	}}
	h, err := NewHandler(uc)
	require.NoError(t, err)

	resp, err := h.Handle(context.Background(), makeEvent(map[string]string{"userId": "alice", "pageSize": "10", "pageIndex": "1"}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, usecase.ListChatsInput{UserID: "alice", PageSize: "10", PageIndex: "1"}, uc.in)
	requireCommonHeaders(t, resp)
	require.Equal(t, "1", resp.Headers["X-Total-Count"])
	require.Equal(t, "1", resp.Headers["X-Total-Pages"])

	out := parseBody[[]map[string]any](t, resp.Body)
	require.Len(t, out, 1)
	require.Equal(t, "alice", out[0]["user1"])
	require.Equal(t, "bob", out[0]["user2"])
	require.Equal(t, "2026-02-27T12:00:00Z", out[0]["updatedDt"])
	require.Equal(t, "c-1", out[0]["chatId"])
}

func TestHandle_MissingQueryParameters(t *testing.T) {
	uc := &stubUseCase{out: usecase.Page{Chats: []domain.Chat{}}}
	h, err := NewHandler(uc)
	require.NoError(t, err)

	resp, err := h.Handle(context.Background(), makeEvent(nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, usecase.ListChatsInput{}, uc.in)
	require.Equal(t, "[]", resp.Body)
}

func TestHandle_ValidationErrorsAreOKWithText(t *testing.T) {
	cases := []struct {
		name string
		code usecase.ErrorCode
		body string
	}{
		{name: "page size", code: usecase.ErrorInvalidPageSize, body: "Invalid pageSize."},
		{name: "page index", code: usecase.ErrorInvalidPageIndex, body: "Invalid pageIndex."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc := &stubUseCase{err: &usecase.Error{Code: tc.code, Reason: "out_of_range"}}
			h, err := NewHandler(uc)
			require.NoError(t, err)

			resp, err := h.Handle(context.Background(), makeEvent(map[string]string{"userId": "alice"}))
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			require.Equal(t, tc.body, resp.Body)
			requireCommonHeaders(t, resp)
			require.NotContains(t, resp.Headers, "X-Total-Count")
		})
	}
}

func TestHandle_RetrievalFailureIsInvocationError(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{name: "retrieval", err: &usecase.Error{Code: usecase.ErrorRetrieval, Reason: "dynamodb_query_error", Err: errors.New("boom")}},
		{name: "unexpected", err: errors.New("boom")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, err := NewHandler(&stubUseCase{err: tc.err})
			require.NoError(t, err)

			_, err = h.Handle(context.Background(), makeEvent(map[string]string{"userId": "alice"}))
			require.Error(t, err)
			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestHandle_UsesProvidedCorrelationID_CaseInsensitive(t *testing.T) {
	h, err := NewHandler(&stubUseCase{})
	require.NoError(t, err)

	event := makeEvent(map[string]string{"userId": "alice"})
	event.Headers["x-correlation-id"] = "corr-123"
	resp, err := h.Handle(context.Background(), event)
	require.NoError(t, err)
	require.Equal(t, "corr-123", resp.Headers["X-Correlation-Id"])
}
