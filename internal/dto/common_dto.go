package dto

// Pagination echoes the page window alongside an independent total count.
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

const (
	DefaultLimit = 15
	DefaultPage  = 1
)

// ListQuery is the shared query-parameter bag for paginated list endpoints.
type ListQuery struct {
	School string `form:"school"`
	Limit  int    `form:"limit"`
	Page   int    `form:"page"`
}

// Window applies the defaults and returns (limit, page, offset) with
// offset = (page-1)*limit.
func (q ListQuery) Window() (int, int, int) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	page := q.Page
	if page <= 0 {
		page = DefaultPage
	}
	return limit, page, (page - 1) * limit
}

// StudentListQuery adds the optional name search backed by the search index.
type StudentListQuery struct {
	ListQuery
	Search string `form:"search"`
}
