package dto

// ── 基地模块 DTO ──

// CreateBaseRequest 创建基地请求
type CreateBaseRequest struct {
	Name   string `json:"name"   binding:"required,min=2,max=100"`
	Number string `json:"number" binding:"required,max=20"`
	Type   string `json:"type"   binding:"required,oneof=urban road"`
}

// UpdateBaseRequest 更新基地请求
type UpdateBaseRequest struct {
	Name   *string `json:"name"   binding:"omitempty,min=2,max=100"`
	Number *string `json:"number" binding:"omitempty,max=20"`
	Type   *string `json:"type"   binding:"omitempty,oneof=urban road"`
}

// BaseResponse 基地信息响应
type BaseResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Number    string `json:"number"`
	Type      string `json:"type"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ── 基地档案 ──

// BaseProfileRequest 负责人登记基地档案请求
type BaseProfileRequest struct {
	BaseName   string `json:"base_name"   binding:"required,min=2,max=100"`
	BaseNumber string `json:"base_number" binding:"required,max=20"`
	BaseType   string `json:"base_type"   binding:"required,oneof=urban road"`
}

// BaseProfileResponse 基地档案响应
type BaseProfileResponse struct {
	UserID     string  `json:"user_id"`
	BaseID     *string `json:"base_id,omitempty"`
	BaseName   string  `json:"base_name"`
	BaseNumber string  `json:"base_number"`
	BaseType   string  `json:"base_type"`
	IsComplete bool    `json:"is_complete"`
	UpdatedAt  string  `json:"updated_at"`
}

// ── 基地成员 ──

// AddBaseMemberRequest 添加基地成员请求
type AddBaseMemberRequest struct {
	PersonnelID string `json:"personnel_id" binding:"required,uuid"`
}

// CreateGuestRequest 创建临时（访客）人员并加入基地
type CreateGuestRequest struct {
	FirstName          string `json:"first_name"          binding:"required,max=100"`
	LastName           string `json:"last_name"           binding:"omitempty,max=100"`
	ProductivityStatus string `json:"productivity_status" binding:"omitempty,oneof=productive non_productive"`
	DriverStatus       string `json:"driver_status"       binding:"omitempty,oneof=driver non_driver"`
}

// BaseMemberResponse 基地成员响应
type BaseMemberResponse struct {
	ID        string             `json:"id"`
	Personnel *PersonnelResponse `json:"personnel,omitempty"`
	CreatedAt string             `json:"created_at"`
}
