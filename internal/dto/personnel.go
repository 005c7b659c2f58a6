package dto

// ── 人员模块 DTO ──

// CreatePersonnelRequest 创建人员请求
type CreatePersonnelRequest struct {
	FirstName          string `json:"first_name"          binding:"required,max=100"`
	LastName           string `json:"last_name"           binding:"required,max=100"`
	NationalID         string `json:"national_id"         binding:"required,max=64"`
	EmploymentStatus   string `json:"employment_status"   binding:"required,oneof=official contractual"`
	ProductivityStatus string `json:"productivity_status" binding:"required,oneof=productive non_productive"`
	DriverStatus       string `json:"driver_status"       binding:"required,oneof=driver non_driver"`
}

// UpdatePersonnelRequest 更新人员请求
type UpdatePersonnelRequest struct {
	FirstName          *string `json:"first_name"          binding:"omitempty,max=100"`
	LastName           *string `json:"last_name"           binding:"omitempty,max=100"`
	NationalID         *string `json:"national_id"         binding:"omitempty,max=64"`
	EmploymentStatus   *string `json:"employment_status"   binding:"omitempty,oneof=official contractual"`
	ProductivityStatus *string `json:"productivity_status" binding:"omitempty,oneof=productive non_productive"`
	DriverStatus       *string `json:"driver_status"       binding:"omitempty,oneof=driver non_driver"`
}

// PersonnelListRequest 人员列表查询参数
type PersonnelListRequest struct {
	PaginationRequest
	Keyword string `form:"keyword" binding:"omitempty,max=50"`
}

// PersonnelResponse 人员信息响应
type PersonnelResponse struct {
	ID                 string `json:"id"`
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	FullName           string `json:"full_name"`
	NationalID         string `json:"national_id"`
	EmploymentStatus   string `json:"employment_status"`
	ProductivityStatus string `json:"productivity_status"`
	DriverStatus       string `json:"driver_status"`
	IsGuest            bool   `json:"is_guest"`
	CreatedAt          string `json:"created_at"`
}
