package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"chats-api/internal/usecase"
)

const correlationHeader = "X-Correlation-Id"

// Validation failures are reported in the body with a 200 status.
var validationMessages = map[usecase.ErrorCode]string{
	usecase.ErrorInvalidPageSize:  "Invalid pageSize.",
	usecase.ErrorInvalidPageIndex: "Invalid pageIndex.",
}

type ChatLister interface {
	ListChats(ctx context.Context, in usecase.ListChatsInput) (usecase.Page, error)
}

type Handler struct {
	chats ChatLister
}

func NewHandler(chats ChatLister) (*Handler, error) {
	if chats == nil {
		return nil, errors.New("handler: chat lister must not be nil")
	}
	return &Handler{chats: chats}, nil
}

// Handle serves GET /chats?userId=&pageSize=&pageIndex=. Store failures are
// returned as invocation errors rather than HTTP responses.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	correlationID := headerValue(req.Headers, correlationHeader)
	if correlationID == "" {
		correlationID = uuid.NewString()
	}

	params := req.QueryStringParameters
	in := usecase.ListChatsInput{
		UserID:    params["userId"],
		PageSize:  params["pageSize"],
		PageIndex: params["pageIndex"],
	}
	log := slog.With("correlation_id", correlationID, "user_id", in.UserID)

	page, err := h.chats.ListChats(ctx, in)
	if err != nil {
		var ucErr *usecase.Error
		if errors.As(err, &ucErr) && ucErr.IsValidation() {
			log.InfoContext(ctx, "rejected pagination request",
				"code", ucErr.Code,
				"page_size", in.PageSize,
				"page_index", in.PageIndex,
			)
			return respond(http.StatusOK, validationMessages[ucErr.Code], correlationID, nil), nil
		}
		log.ErrorContext(ctx, "failed to list chats", "err", err)
		return events.APIGatewayProxyResponse{}, fmt.Errorf("handler: list chats: %w", err)
	}

	body, err := json.Marshal(page.Chats)
	if err != nil {
		log.ErrorContext(ctx, "failed to encode chats", "err", err)
		return events.APIGatewayProxyResponse{}, fmt.Errorf("handler: encode chats: %w", err)
	}

	log.InfoContext(ctx, "listed chats",
		"page_size", page.PageSize,
		"page_index", page.PageIndex,
		"count", len(page.Chats),
		"total", page.TotalCount,
	)
	return respond(http.StatusOK, string(body), correlationID, map[string]string{
		"X-Total-Count": strconv.Itoa(page.TotalCount),
		"X-Total-Pages": strconv.Itoa(page.TotalPages),
	}), nil
}

func respond(status int, body, correlationID string, extra map[string]string) events.APIGatewayProxyResponse {
	headers := map[string]string{
		"Content-Type":                "application/json",
		"Access-Control-Allow-Origin": "*",
		correlationHeader:             correlationID,
	}
	for k, v := range extra {
		headers[k] = v
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    headers,
		Body:       body,
	}
}

// headerValue looks a header up case-insensitively; API Gateway passes
// whatever casing the client sent.
func headerValue(headers map[string]string, name string) string {
	if v, ok := headers[name]; ok {
		return strings.TrimSpace(v)
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
