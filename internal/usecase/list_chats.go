package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"chats-api/internal/domain"
)

const defaultQueryTimeout = 5 * time.Second

type ChatReader interface {
	ChatsByUser1(ctx context.Context, userID string) ([]domain.Chat, error)
	ChatsByUser2(ctx context.Context, userID string) ([]domain.Chat, error)
}

type ListChatsService struct {
	chats        ChatReader
	queryTimeout time.Duration
}

type ListChatsInput struct {
	UserID    string
	PageSize  string
	PageIndex string
}

func NewListChatsService(r ChatReader, queryTimeout time.Duration) (*ListChatsService, error) {
	if r == nil {
		return nil, errors.New("usecase: chat reader must not be nil")
	}
	if queryTimeout <= 0 {
		queryTimeout = defaultQueryTimeout
	}
	return &ListChatsService{chats: r, queryTimeout: queryTimeout}, nil
}

// ListChats loads every chat the user takes part in and returns the requested
// page of it, oldest update first.
func (s *ListChatsService) ListChats(ctx context.Context, in ListChatsInput) (Page, error) {
	all, err := s.AllChats(ctx, in.UserID)
	if err != nil {
		return Page{}, err
	}
	page, err := Paginate(all, in.PageSize, in.PageIndex)
	if err != nil {
		return Page{}, err
	}
	slog.DebugContext(ctx, "chats page resolved",
		"user_id", in.UserID,
		"page_size", page.PageSize,
		"page_index", page.PageIndex,
		"total", page.TotalCount,
	)
	return page, nil
}

// AllChats queries both participant indexes concurrently and merges the
// results sorted by update time. Ties keep user1 matches ahead of user2
// matches. A chat where the user is both participants is returned twice.
func (s *ListChatsService) AllChats(ctx context.Context, userID string) ([]domain.Chat, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	var asUser1, asUser2 []domain.Chat
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		asUser1, err = s.chats.ChatsByUser1(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		asUser2, err = s.chats.ChatsByUser2(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, newError(ErrorRetrieval, "dynamodb_query_error", err)
	}

	merged := make([]domain.Chat, 0, len(asUser1)+len(asUser2))
	merged = append(merged, asUser1...)
	merged = append(merged, asUser2...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].UpdatedAt.Before(merged[j].UpdatedAt)
	})
	return merged, nil
}
