package grid

import "rescue-roster/internal/model"

// AdminCell 管理员网格单元格，附带班次与基地的展示信息
type AdminCell struct {
	AssignmentID string  `json:"assignment_id"`
	LogID        *string `json:"log_id,omitempty"`
	ShiftID      string  `json:"shift_id"`
	ShiftTitle   string  `json:"shift_title"`
	ShiftCode    string  `json:"shift_code"`
	Hours        int     `json:"hours"`
	BaseID       string  `json:"base_id"`
	BaseName     string  `json:"base_name"`
	BaseNumber   string  `json:"base_number"`
}

// AdminRow 管理员网格中的一行
type AdminRow struct {
	PersonnelID      string               `json:"personnel_id"`
	PersonnelName    string               `json:"personnel_name"`
	NationalID       string               `json:"national_id"`
	Cells            map[string]AdminCell `json:"cells"`
	AssignmentsCount int                  `json:"assignments_count"`
	TotalHours       int                  `json:"total_hours"`
}

// BuildAdmin 以 (personnel_id, date) 为键投影管理员排班。
// 同一人员同一日期有多条排班（分属不同日志或未关联日志）时，按输入顺序后者覆盖前者，
// AssignmentsCount 与 TotalHours 按日期计，每个日期只计一次。
// 找不到对应班次或基地时展示字段留空。
func BuildAdmin(
	personnel []model.Personnel,
	assignments []model.PerformanceAssignment,
	bases []model.Base,
	shifts []model.WorkShift,
) []AdminRow {
	baseByID := make(map[string]model.Base, len(bases))
	for _, b := range bases {
		baseByID[b.BaseID] = b
	}
	shiftByID := make(map[string]model.WorkShift, len(shifts))
	for _, s := range shifts {
		shiftByID[s.WorkShiftID] = s
	}

	rows := make([]AdminRow, len(personnel))
	index := make(map[string]int, len(personnel))
	for i, p := range personnel {
		rows[i] = AdminRow{
			PersonnelID:   p.PersonnelID,
			PersonnelName: p.FullName(),
			NationalID:    p.NationalID,
			Cells:         make(map[string]AdminCell),
		}
		index[p.PersonnelID] = i
	}

	for _, a := range assignments {
		i, ok := index[a.PersonnelID]
		if !ok {
			continue
		}
		cell := AdminCell{
			AssignmentID: a.AssignmentID,
			LogID:        a.LogID,
			ShiftID:      a.ShiftID,
			BaseID:       a.BaseID,
		}
		if s, ok := shiftByID[a.ShiftID]; ok {
			cell.ShiftTitle = s.Title
			cell.ShiftCode = s.ShiftCode
			cell.Hours = s.EquivalentHours
		}
		if b, ok := baseByID[a.BaseID]; ok {
			cell.BaseName = b.Name
			cell.BaseNumber = b.Number
		}

		row := &rows[i]
		if prev, exists := row.Cells[a.Date]; exists {
			row.TotalHours -= prev.Hours
		} else {
			row.AssignmentsCount++
		}
		row.Cells[a.Date] = cell
		row.TotalHours += cell.Hours
	}
	return rows
}
