package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"rescue-roster/internal/dto"
	"rescue-roster/internal/model"
)

func setupTestEntryService(t *testing.T) (PerformanceEntryService, PerformanceLogService, *mocks, string) {
	t.Helper()
	repo, m := newMockRepository()
	seedSupervisor(m)
	logs := NewPerformanceLogService(repo, zap.NewNop())
	log := mustLog(t, logs, testSupervisor, 1403, 2)
	return NewPerformanceEntryService(repo, zap.NewNop()), logs, m, log.ID
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

// ── Create 测试 ──

func TestPerformanceEntryService_Create_Defaults(t *testing.T) {
	svc, _, _, logID := setupTestEntryService(t)

	entry, err := svc.Create(context.Background(), logID, testSupervisor, &dto.EntryRequest{
		PersonnelID: "p-1",
		ShiftID:     strPtr(testShiftDay),
		Date:        strPtr("1403-02-05"),
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if entry.EntryType != model.EntryTypeCell {
		t.Errorf("有日期的条目默认应为 cell，实际=%s", entry.EntryType)
	}
	if entry.Day == nil || *entry.Day != 5 {
		t.Errorf("day 应由日期派生为 5，实际=%v", entry.Day)
	}
	if entry.Missions != 0 || entry.Meals != 0 {
		t.Error("missions / meals 默认应为 0")
	}
	if entry.Year != 1403 || entry.Month != 2 || entry.UserID != testSupervisor {
		t.Errorf("条目应继承日志的期间与所有者: %+v", entry)
	}

	summary, err := svc.Create(context.Background(), logID, testSupervisor, &dto.EntryRequest{
		PersonnelID: "p-1", Missions: intPtr(3), Meals: intPtr(4),
	})
	if err != nil {
		t.Fatalf("创建汇总条目应成功: %v", err)
	}
	if summary.EntryType != model.EntryTypeSummary || summary.Date != nil {
		t.Errorf("无日期的条目应为 summary: %+v", summary)
	}
}

func TestPerformanceEntryService_Create_Rejections(t *testing.T) {
	svc, _, _, logID := setupTestEntryService(t)
	_, _ = svc.Create(context.Background(), logID, testSupervisor, &dto.EntryRequest{PersonnelID: "p-1", Date: strPtr("1403-02-05")})

	tests := []struct {
		name   string
		caller string
		req    dto.EntryRequest
		want   error
	}{
		{"非所有者", testOther, dto.EntryRequest{PersonnelID: "p-1", Date: strPtr("1403-02-06")}, ErrForbidden},
		{"非基地成员", testSupervisor, dto.EntryRequest{PersonnelID: "p-x", Date: strPtr("1403-02-06")}, ErrForbidden},
		{"人员不存在", testSupervisor, dto.EntryRequest{PersonnelID: "ghost", Date: strPtr("1403-02-06")}, ErrPersonnelNotFound},
		{"班次不存在", testSupervisor, dto.EntryRequest{PersonnelID: "p-1", ShiftID: strPtr("ghost"), Date: strPtr("1403-02-06")}, ErrShiftNotFound},
		{"日期不在期间内", testSupervisor, dto.EntryRequest{PersonnelID: "p-1", Date: strPtr("1403-03-01")}, ErrInvalidInput},
		{"日期超出月份天数", testSupervisor, dto.EntryRequest{PersonnelID: "p-1", Date: strPtr("1403-02-32")}, ErrInvalidInput},
		{"cell 缺少日期", testSupervisor, dto.EntryRequest{PersonnelID: "p-1", EntryType: model.EntryTypeCell}, ErrInvalidInput},
		{"summary 带日期", testSupervisor, dto.EntryRequest{PersonnelID: "p-1", EntryType: model.EntryTypeSummary, Date: strPtr("1403-02-06")}, ErrInvalidInput},
		{"负数任务", testSupervisor, dto.EntryRequest{PersonnelID: "p-1", Missions: intPtr(-1)}, ErrInvalidInput},
		{"同日重复", testSupervisor, dto.EntryRequest{PersonnelID: "p-1", Date: strPtr("1403-02-05")}, ErrEntryExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), logID, tt.caller, &tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("期望 %v，实际: %v", tt.want, err)
			}
		})
	}
}

// ── BatchUpsert 测试 ──

func TestPerformanceEntryService_BatchUpsert_Overwrite(t *testing.T) {
	svc, _, m, logID := setupTestEntryService(t)

	first, err := svc.BatchUpsert(context.Background(), logID, testSupervisor, []dto.EntryRequest{
		{PersonnelID: "p-1", ShiftID: strPtr(testShiftDay), Date: strPtr("1403-02-05"), Missions: intPtr(2)},
	})
	if err != nil {
		t.Fatalf("BatchUpsert 应成功: %v", err)
	}
	originalID := first[0].ID

	second, err := svc.BatchUpsert(context.Background(), logID, testSupervisor, []dto.EntryRequest{
		{PersonnelID: "p-1", ShiftID: strPtr(testShiftNight), Date: strPtr("1403-02-05")},
		{PersonnelID: "p-2", ShiftID: strPtr(testShiftDay), Date: strPtr("1403-02-05")},
	})
	if err != nil {
		t.Fatalf("第二次 BatchUpsert 应成功: %v", err)
	}
	if len(second) != 2 {
		t.Fatalf("结果应与输入一一对应，实际=%d", len(second))
	}
	if second[0].ID != originalID {
		t.Errorf("覆盖应保留原 id: %s != %s", second[0].ID, originalID)
	}
	if *second[0].ShiftID != testShiftNight {
		t.Errorf("班次应被覆盖为 night，实际=%s", *second[0].ShiftID)
	}
	if second[0].Missions != 2 {
		t.Errorf("请求未给出的字段应保留原值，实际 missions=%d", second[0].Missions)
	}
	if got := m.entries.countByLog(logID); got != 2 {
		t.Errorf("期望日志中共 2 条，实际=%d", got)
	}
}

func TestPerformanceEntryService_BatchUpsert_AllOrNothing(t *testing.T) {
	svc, _, m, logID := setupTestEntryService(t)

	_, err := svc.BatchUpsert(context.Background(), logID, testSupervisor, []dto.EntryRequest{
		{PersonnelID: "p-1", Date: strPtr("1403-02-05")},
		{PersonnelID: "p-x", Date: strPtr("1403-02-05")},
	})
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("期望 ErrForbidden，实际: %v", err)
	}
	if got := m.entries.countByLog(logID); got != 0 {
		t.Errorf("任一条目不合法时不应写入，实际=%d", got)
	}

	if _, err := svc.BatchUpsert(context.Background(), logID, testSupervisor, nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("空批次期望 ErrInvalidInput，实际: %v", err)
	}
}

// ── 定稿后不可修改 ──

func TestPerformanceEntryService_ImmutableAfterFinalize(t *testing.T) {
	svc, logs, m, logID := setupTestEntryService(t)

	entry, err := svc.Create(context.Background(), logID, testSupervisor, &dto.EntryRequest{
		PersonnelID: "p-1", ShiftID: strPtr(testShiftDay), Date: strPtr("1403-02-05"),
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if _, err := logs.Finalize(context.Background(), logID, testSupervisor); err != nil {
		t.Fatalf("Finalize 应成功: %v", err)
	}

	if _, err := svc.Update(context.Background(), entry.ID, testSupervisor, &dto.UpdateEntryRequest{Missions: intPtr(9)}); !errors.Is(err, ErrImmutableEntry) {
		t.Errorf("Update 期望 ErrImmutableEntry，实际: %v", err)
	}
	if _, err := svc.Delete(context.Background(), entry.ID, testSupervisor); !errors.Is(err, ErrImmutableEntry) {
		t.Errorf("Delete 期望 ErrImmutableEntry，实际: %v", err)
	}
	if _, err := svc.Create(context.Background(), logID, testSupervisor, &dto.EntryRequest{PersonnelID: "p-2", Date: strPtr("1403-02-06")}); !errors.Is(err, ErrImmutableLog) {
		t.Errorf("Create 期望 ErrImmutableLog，实际: %v", err)
	}
	if _, err := svc.BatchUpsert(context.Background(), logID, testSupervisor, []dto.EntryRequest{{PersonnelID: "p-2", Date: strPtr("1403-02-06")}}); !errors.Is(err, ErrImmutableLog) {
		t.Errorf("BatchUpsert 期望 ErrImmutableLog，实际: %v", err)
	}

	stored := m.entries.entries[entry.ID]
	if stored.Missions != 0 || stored.ShiftID == nil || *stored.ShiftID != testShiftDay {
		t.Errorf("定稿后条目不应改变: %+v", stored)
	}
}

// 不加锁读到的是定稿前的快照时，写入仍须以锁内读取的日志状态为准
func TestPerformanceEntryService_WritesRecheckLogUnderLock(t *testing.T) {
	svc, logs, m, logID := setupTestEntryService(t)

	entry, err := svc.Create(context.Background(), logID, testSupervisor, &dto.EntryRequest{
		PersonnelID: "p-1", ShiftID: strPtr(testShiftDay), Date: strPtr("1403-02-05"),
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	draft := *m.logs.logs[logID]
	if _, err := logs.Finalize(context.Background(), logID, testSupervisor); err != nil {
		t.Fatalf("Finalize 应成功: %v", err)
	}
	m.logs.stale = map[string]*model.PerformanceLog{logID: &draft}
	// 条目标记尚未同步，只能依靠日志状态拒绝
	m.entries.entries[entry.ID].IsFinalized = false

	if _, err := svc.Create(context.Background(), logID, testSupervisor, &dto.EntryRequest{PersonnelID: "p-2", Date: strPtr("1403-02-06")}); !errors.Is(err, ErrImmutableLog) {
		t.Errorf("Create 期望 ErrImmutableLog，实际: %v", err)
	}
	if _, err := svc.Update(context.Background(), entry.ID, testSupervisor, &dto.UpdateEntryRequest{Missions: intPtr(9)}); !errors.Is(err, ErrImmutableEntry) {
		t.Errorf("Update 期望 ErrImmutableEntry，实际: %v", err)
	}
	if _, err := svc.Delete(context.Background(), entry.ID, testSupervisor); !errors.Is(err, ErrImmutableEntry) {
		t.Errorf("Delete 期望 ErrImmutableEntry，实际: %v", err)
	}

	if got := m.entries.countByLog(logID); got != 1 {
		t.Errorf("定稿日志的条目数不应变化，实际=%d", got)
	}
	if stored := m.entries.entries[entry.ID]; stored.Missions != 0 {
		t.Errorf("定稿后条目不应改变: %+v", stored)
	}
}

// ── 非所有者不可写入 ──

func TestPerformanceEntryService_BatchUpsert_ForbiddenForOtherUser(t *testing.T) {
	svc, _, m, logID := setupTestEntryService(t)

	_, err := svc.BatchUpsert(context.Background(), logID, testOther, []dto.EntryRequest{
		{PersonnelID: "p-1", ShiftID: strPtr(testShiftDay), Date: strPtr("1403-02-10")},
		{PersonnelID: "p-1", Missions: intPtr(3), Meals: intPtr(5)},
	})
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("BatchUpsert 期望 ErrForbidden，实际: %v", err)
	}

	tests := []struct {
		name string
		req  dto.AssignRangeRequest
	}{
		{"月内范围", dto.AssignRangeRequest{PersonnelID: "p-1", ShiftID: testShiftDay, FromDay: 1, ToDay: 3}},
		{"越界范围仍先校验归属", dto.AssignRangeRequest{PersonnelID: "p-1", ShiftID: testShiftDay, FromDay: 30, ToDay: 40}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.AssignRange(context.Background(), logID, testOther, &tt.req); !errors.Is(err, ErrForbidden) {
				t.Errorf("AssignRange 期望 ErrForbidden，实际: %v", err)
			}
		})
	}

	if got := m.entries.countByLog(logID); got != 0 {
		t.Errorf("非所有者写入后条目数应为 0，实际=%d", got)
	}
}

func TestPerformanceEntryService_AssignRange_FinalizedBeforeRangeCheck(t *testing.T) {
	svc, logs, _, logID := setupTestEntryService(t)
	if _, err := logs.Finalize(context.Background(), logID, testSupervisor); err != nil {
		t.Fatalf("Finalize 应成功: %v", err)
	}

	_, err := svc.AssignRange(context.Background(), logID, testSupervisor, &dto.AssignRangeRequest{
		PersonnelID: "p-1", ShiftID: testShiftDay, FromDay: 30, ToDay: 40,
	})
	if !errors.Is(err, ErrImmutableLog) {
		t.Errorf("期望 ErrImmutableLog，实际: %v", err)
	}
}

// ── Update / Delete 测试 ──

func TestPerformanceEntryService_Update(t *testing.T) {
	svc, _, _, logID := setupTestEntryService(t)

	entry, _ := svc.Create(context.Background(), logID, testSupervisor, &dto.EntryRequest{PersonnelID: "p-1", Date: strPtr("1403-02-05")})
	_, _ = svc.Create(context.Background(), logID, testSupervisor, &dto.EntryRequest{PersonnelID: "p-1", Date: strPtr("1403-02-06")})

	updated, err := svc.Update(context.Background(), entry.ID, testSupervisor, &dto.UpdateEntryRequest{ShiftID: strPtr(testShiftNight), Meals: intPtr(2)})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if *updated.ShiftID != testShiftNight || updated.Meals != 2 {
		t.Errorf("更新未生效: %+v", updated)
	}
	if updated.LastModifiedBy == nil || *updated.LastModifiedBy != testSupervisor {
		t.Error("应记录 LastModifiedBy")
	}

	if _, err := svc.Update(context.Background(), entry.ID, testSupervisor, &dto.UpdateEntryRequest{Date: strPtr("1403-02-06")}); !errors.Is(err, ErrEntryExists) {
		t.Errorf("改到已占用的日期期望 ErrEntryExists，实际: %v", err)
	}
	if _, err := svc.Update(context.Background(), entry.ID, testOther, &dto.UpdateEntryRequest{Meals: intPtr(1)}); !errors.Is(err, ErrForbidden) {
		t.Errorf("非所有者期望 ErrForbidden，实际: %v", err)
	}
}

func TestPerformanceEntryService_Delete(t *testing.T) {
	svc, _, _, logID := setupTestEntryService(t)
	entry, _ := svc.Create(context.Background(), logID, testSupervisor, &dto.EntryRequest{PersonnelID: "p-1", Date: strPtr("1403-02-05")})

	deleted, err := svc.Delete(context.Background(), entry.ID, testSupervisor)
	if err != nil || !deleted {
		t.Fatalf("Delete 应成功: %v, %v", deleted, err)
	}
	deleted, err = svc.Delete(context.Background(), entry.ID, testSupervisor)
	if err != nil || deleted {
		t.Errorf("再次删除应返回 false，实际: %v, %v", deleted, err)
	}
}

// ── AssignRange 测试 ──

func TestPerformanceEntryService_AssignRange(t *testing.T) {
	svc, _, m, logID := setupTestEntryService(t)

	result, err := svc.AssignRange(context.Background(), logID, testSupervisor, &dto.AssignRangeRequest{
		PersonnelID: "p-2", ShiftID: testShiftDay, FromDay: 10, ToDay: 14,
	})
	if err != nil {
		t.Fatalf("AssignRange 应成功: %v", err)
	}
	if len(result) != 5 {
		t.Fatalf("期望 5 条，实际=%d", len(result))
	}
	if *result[0].Date != "1403-02-10" || *result[4].Date != "1403-02-14" {
		t.Errorf("日期展开不正确: %s .. %s", *result[0].Date, *result[4].Date)
	}
	for _, e := range result {
		if e.EntryType != model.EntryTypeBatch {
			t.Errorf("期望 batch，实际=%s", e.EntryType)
		}
	}
	if got := m.entries.countByLog(logID); got != 5 {
		t.Errorf("期望 5 条，实际=%d", got)
	}

	// 第 2 月只有 31 天
	if _, err := svc.AssignRange(context.Background(), logID, testSupervisor, &dto.AssignRangeRequest{
		PersonnelID: "p-2", ShiftID: testShiftDay, FromDay: 30, ToDay: 32,
	}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("越界日期期望 ErrInvalidInput，实际: %v", err)
	}
}

// ── 查询 ──

func TestPerformanceEntryService_ListByUser_AdminOnlyForOthers(t *testing.T) {
	svc, _, _, logID := setupTestEntryService(t)
	_, _ = svc.Create(context.Background(), logID, testSupervisor, &dto.EntryRequest{PersonnelID: "p-1", Date: strPtr("1403-02-05")})

	if _, err := svc.ListByUser(context.Background(), testOther, model.RoleUser, &dto.EntryListRequest{UserID: testSupervisor}); !errors.Is(err, ErrForbidden) {
		t.Errorf("期望 ErrForbidden，实际: %v", err)
	}

	list, err := svc.ListByUser(context.Background(), "admin-001", model.RoleAdmin, &dto.EntryListRequest{UserID: testSupervisor, Month: intPtr(2)})
	if err != nil || len(list) != 1 {
		t.Errorf("管理员应可查询: %v, %d", err, len(list))
	}

	mine, err := svc.ListByUser(context.Background(), testSupervisor, model.RoleUser, &dto.EntryListRequest{})
	if err != nil || len(mine) != 1 {
		t.Errorf("默认查询自己的条目: %v, %d", err, len(mine))
	}
}

func TestPerformanceEntryService_ListByLog_Forbidden(t *testing.T) {
	svc, _, _, logID := setupTestEntryService(t)

	if _, err := svc.ListByLog(context.Background(), logID, testOther, model.RoleUser); !errors.Is(err, ErrForbidden) {
		t.Errorf("期望 ErrForbidden，实际: %v", err)
	}
	if _, err := svc.ListByLog(context.Background(), logID, "admin-001", model.RoleAdmin); err != nil {
		t.Errorf("管理员应可查看: %v", err)
	}
}
