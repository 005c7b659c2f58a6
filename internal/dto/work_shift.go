package dto

// ── 班次模块 DTO ──

// CreateWorkShiftRequest 创建班次请求
type CreateWorkShiftRequest struct {
	Title           string `json:"title"            binding:"required,min=1,max=100"`
	EquivalentHours int    `json:"equivalent_hours" binding:"nonneg,max=48"`
	ShiftCode       string `json:"shift_code"       binding:"required,max=20"`
}

// UpdateWorkShiftRequest 更新班次请求
type UpdateWorkShiftRequest struct {
	Title           *string `json:"title"            binding:"omitempty,min=1,max=100"`
	EquivalentHours *int    `json:"equivalent_hours" binding:"omitempty,nonneg,max=48"`
	ShiftCode       *string `json:"shift_code"       binding:"omitempty,max=20"`
}

// WorkShiftResponse 班次信息响应
type WorkShiftResponse struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	EquivalentHours int    `json:"equivalent_hours"`
	ShiftCode       string `json:"shift_code"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

// ShiftBrief 班次简要信息
type ShiftBrief struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	ShiftCode       string `json:"shift_code"`
	EquivalentHours int    `json:"equivalent_hours"`
}
