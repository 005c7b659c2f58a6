// Package grid 将人员、绩效条目与日历投影为 (人员 × 日期) 网格视图。
// 网格为纯派生数据，每次调用都从输入重新计算。
package grid

import (
	"rescue-roster/internal/model"
	"rescue-roster/pkg/jalali"
)

// Row 负责人网格中的一行（一名人员）
type Row struct {
	PersonnelID   string                            `json:"personnel_id"`
	PersonnelName string                            `json:"personnel_name"`
	IsGuest       bool                              `json:"is_guest"`
	EntriesByDate map[string]model.PerformanceEntry `json:"entries_by_date"`
	Summary       *model.PerformanceEntry           `json:"summary,omitempty"`
	TotalMissions int                               `json:"total_missions"`
	TotalMeals    int                               `json:"total_meals"`
}

// AssignedShifts 本行中带班次的日期数
func (r *Row) AssignedShifts() int {
	n := 0
	for _, e := range r.EntriesByDate {
		if e.ShiftID != nil {
			n++
		}
	}
	return n
}

// Stats 网格汇总
type Stats struct {
	TotalPersonnel      int `json:"total_personnel"`
	TotalDays           int `json:"total_days"`
	TotalAssignedShifts int `json:"total_assigned_shifts"`
	TotalMissions       int `json:"total_missions"`
	TotalMeals          int `json:"total_meals"`
}

// Build 按人员列表顺序生成网格行。
// 任务/餐次合计只累加 summary 条目；无日期的条目不进入 EntriesByDate。
// 不属于列表中人员的条目被忽略。
func Build(personnel []model.Personnel, entries []model.PerformanceEntry, days []jalali.Day) []Row {
	rows := make([]Row, len(personnel))
	index := make(map[string]int, len(personnel))
	for i, p := range personnel {
		rows[i] = Row{
			PersonnelID:   p.PersonnelID,
			PersonnelName: p.FullName(),
			IsGuest:       p.IsGuest,
			EntriesByDate: make(map[string]model.PerformanceEntry, len(days)),
		}
		index[p.PersonnelID] = i
	}

	for _, e := range entries {
		i, ok := index[e.PersonnelID]
		if !ok {
			continue
		}
		row := &rows[i]
		if e.EntryType == model.EntryTypeSummary {
			row.TotalMissions += e.Missions
			row.TotalMeals += e.Meals
			entry := e
			row.Summary = &entry
		}
		if e.Date != nil {
			row.EntriesByDate[*e.Date] = e
		}
	}
	return rows
}

// BuildStats 汇总网格行
func BuildStats(rows []Row, days []jalali.Day) Stats {
	stats := Stats{
		TotalPersonnel: len(rows),
		TotalDays:      len(days),
	}
	for i := range rows {
		stats.TotalAssignedShifts += rows[i].AssignedShifts()
		stats.TotalMissions += rows[i].TotalMissions
		stats.TotalMeals += rows[i].TotalMeals
	}
	return stats
}
