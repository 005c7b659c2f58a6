package dto

// ── 分页请求 ──

// PaginationRequest 通用分页参数
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GetPage 获取页码（含默认值）
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// GetPageSize 每页数量，未传时取默认值，超过上限时截断
func (p *PaginationRequest) GetPageSize() int {
	switch {
	case p.PageSize <= 0:
		return defaultPageSize
	case p.PageSize > maxPageSize:
		return maxPageSize
	default:
		return p.PageSize
	}
}

// GetOffset 计算偏移量
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

// PeriodQuery 伊朗历年月查询参数
type PeriodQuery struct {
	Year  int `form:"year"  binding:"required,min=1,max=9999"`
	Month int `form:"month" binding:"required,min=1,max=12"`
}
