package usecase

import (
	"strconv"
	"strings"

	"chats-api/internal/domain"
)

const (
	defaultPageSize  = 10
	defaultPageIndex = 1
	maxPageSize      = 1000
)

// Page is one slice of the sorted chat list.
type Page struct {
	Chats      []domain.Chat
	PageSize   int
	PageIndex  int
	TotalCount int
	TotalPages int
}

// Paginate validates the raw page parameters against len(chats) and returns
// the requested 1-based page. An empty input has zero pages, so every
// pageIndex is rejected for it.
func Paginate(chats []domain.Chat, pageSizeRaw, pageIndexRaw string) (Page, error) {
	pageSize := parseOrDefault(pageSizeRaw, defaultPageSize)
	if pageSize > maxPageSize || pageSize < 1 {
		return Page{}, newError(ErrorInvalidPageSize, "page_size_out_of_range", nil)
	}

	total := len(chats)
	totalPages := (total + pageSize - 1) / pageSize

	pageIndex := parseOrDefault(pageIndexRaw, defaultPageIndex)
	if pageIndex > totalPages || pageIndex < 1 {
		return Page{}, newError(ErrorInvalidPageIndex, "page_index_out_of_range", nil)
	}

	start := (pageIndex - 1) * pageSize
	end := min(start+pageSize, total)

	return Page{
		Chats:      chats[start:end],
		PageSize:   pageSize,
		PageIndex:  pageIndex,
		TotalCount: total,
		TotalPages: totalPages,
	}, nil
}

// parseOrDefault treats unparsable input, values outside int32 and zero alike.
func parseOrDefault(raw string, def int) int {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 32)
	if err != nil || n == 0 {
		return def
	}
	return int(n)
}
