package models

// PaginationQuery carries the paging parameters of a list request
type PaginationQuery struct {
	Page     int `form:"page" json:"page"`
	PageSize int `form:"page_size" json:"page_size"`
}

// PaginationResult wraps one page of rows with the paging totals
type PaginationResult struct {
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int64       `json:"total_pages"`
	Data       interface{} `json:"data"`
}

// NewPaginationResult creates a pagination result for one page of rows
func NewPaginationResult(data interface{}, total int64, query *PaginationQuery) *PaginationResult {
	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = 10
	}
	return &PaginationResult{
		Total:      total,
		Page:       query.Page,
		PageSize:   pageSize,
		TotalPages: (total + int64(pageSize) - 1) / int64(pageSize),
		Data:       data,
	}
}
