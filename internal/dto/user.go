package dto

// ── 用户模块 DTO ──

// CreateUserRequest 管理员创建用户请求
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50,alphanum"`
	Name     string `json:"name"     binding:"required,min=2,max=100"`
	Password string `json:"password" binding:"required,min=8,max=64"`
	Role     string `json:"role"     binding:"required,oneof=admin user"`
}

// UpdateUserRequest 更新用户请求
type UpdateUserRequest struct {
	Name     *string `json:"name"     binding:"omitempty,min=2,max=100"`
	Role     *string `json:"role"     binding:"omitempty,oneof=admin user"`
	Password *string `json:"password" binding:"omitempty,min=8,max=64"`
}

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	PaginationRequest
	Keyword string `form:"keyword" binding:"omitempty,max=50"` // 匹配用户名或姓名
	Role    string `form:"role"    binding:"omitempty,oneof=admin user"`
}
