package model

// Page 分頁回應：total 為符合條件的總筆數，不只是本頁
type Page[T any] struct {
	Data     []*T `json:"data"`
	Total    int  `json:"total"`
	Page     int  `json:"page"`
	PageSize int  `json:"pageSize"`
}

func NewPage[T any](data []*T, total, page, pageSize int) *Page[T] {
	if data == nil {
		data = make([]*T, 0)
	}
	return &Page[T]{Data: data, Total: total, Page: page, PageSize: pageSize}
}

// TotalPages = ceil(total / pageSize)，pageSize 為 0 時回傳 0
func (p *Page[T]) TotalPages() int {
	if p.PageSize <= 0 {
		return 0
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}
