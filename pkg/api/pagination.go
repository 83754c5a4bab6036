package api

import (
	"github.com/harmony-haven/haven-client/internal/domain"
)

// Candidate key groups for pagination metadata. Within a group the first
// present key wins.
var (
	totalPagesKeys  = []string{"totalPages", "total_pages", "pages", "totalCount", "total"}
	currentPageKeys = []string{"currentPage", "current_page", "page"}
	pageSizeKeys    = []string{"pageSize", "page_size", "size", "limit"}
	totalCountKeys  = []string{"totalCount", "total"}
)

// ExtractPagination recovers pagination metadata from a parsed response
// object. A nested "pagination" object is preferred over a nested "meta"
// object over the top-level fields; unset fields keep the (1, 1, 20)
// defaults.
func ExtractPagination(root map[string]any) domain.PaginationInfo {
	info := domain.DefaultPagination()
	if root == nil {
		return info
	}

	scope := root
	if nested, ok := asObject(root["pagination"]); ok {
		scope = nested
	} else if nested, ok := asObject(root["meta"]); ok {
		scope = nested
	}

	if v, ok := pickInt(scope, totalPagesKeys...); ok {
		info.TotalPages = v
	}
	if v, ok := pickInt(scope, currentPageKeys...); ok {
		info.CurrentPage = v
	}
	if v, ok := pickInt(scope, pageSizeKeys...); ok {
		info.PageSize = v
	}
	return info
}

// extractTotalCount recovers the total record count quotes responses carry;
// fallback is used when the payload has none (e.g. a bare array).
func extractTotalCount(root map[string]any, fallback int) int {
	if root == nil {
		return fallback
	}
	if v, ok := pickInt(root, totalCountKeys...); ok {
		return v
	}
	return fallback
}
