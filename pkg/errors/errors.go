// Package errors 存储层与业务层共用的并发冲突错误
package errors

import "errors"

var (
	// ErrOptimisticLock 携带的版本号已过期，记录在读取后被其他请求修改
	ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

	// ErrStatusConflict 条件更新（如 draft → finalized）影响 0 行，记录已不处于预期状态
	ErrStatusConflict = errors.New("记录状态已变化，迁移未生效")
)
