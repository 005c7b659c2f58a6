//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"rescue-roster/internal/model"
	"rescue-roster/internal/repository"
	"rescue-roster/pkg/database"
	pkgerrors "rescue-roster/pkg/errors"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=postgres password=postgres dbname=rescue_roster_test sslmode=disable TimeZone=Asia/Tehran"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	// 使用与生产一致的 SQL 迁移，部分唯一索引依赖它
	sqlDB, err := testDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "获取 sql.DB 失败: %v\n", err)
		os.Exit(1)
	}
	if os.Getenv("TEST_DATABASE_RESET") == "1" {
		if err := database.ResetMigrations(sqlDB); err != nil {
			fmt.Fprintf(os.Stderr, "清库失败: %v\n", err)
			os.Exit(1)
		}
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "迁移失败: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

type fixture struct {
	user      *model.User
	base      *model.Base
	shift     *model.WorkShift
	personnel *model.Personnel
}

// setupTestData 创建基础测试数据并返回清理函数
func setupTestData(t *testing.T) (*fixture, func()) {
	t.Helper()
	ctx := context.Background()
	seq := time.Now().UnixNano()

	f := &fixture{
		user: &model.User{
			Username:     fmt.Sprintf("sup%d", seq),
			Name:         "测试负责人",
			PasswordHash: "$2a$10$placeholder",
			Role:         model.RoleUser,
		},
		base: &model.Base{
			Name:   "测试基地",
			Number: fmt.Sprintf("B%d", seq%1000000000),
			Type:   model.BaseTypeUrban,
		},
		shift: &model.WorkShift{
			Title:           "白班",
			EquivalentHours: 12,
			ShiftCode:       fmt.Sprintf("D%d", seq%1000000000),
		},
		personnel: &model.Personnel{
			FirstName:  "Ali",
			LastName:   "Rezaei",
			NationalID: fmt.Sprintf("N%d", seq),
		},
	}
	for _, v := range []interface{}{f.user, f.base, f.shift, f.personnel} {
		if err := testDB.WithContext(ctx).Create(v).Error; err != nil {
			t.Fatalf("创建测试数据失败: %v", err)
		}
	}

	cleanup := func() {
		testDB.Where("user_id = ?", f.user.UserID).Delete(&model.PerformanceLog{})
		testDB.Where("user_id = ?", f.user.UserID).Delete(&model.BaseMember{})
		testDB.Unscoped().Where("personnel_id = ?", f.personnel.PersonnelID).Delete(&model.Personnel{})
		testDB.Unscoped().Where("work_shift_id = ?", f.shift.WorkShiftID).Delete(&model.WorkShift{})
		testDB.Unscoped().Where("base_id = ?", f.base.BaseID).Delete(&model.Base{})
		testDB.Unscoped().Where("user_id = ?", f.user.UserID).Delete(&model.User{})
	}
	return f, cleanup
}

func newLog(t *testing.T, repo *repository.Repository, f *fixture, month int) *model.PerformanceLog {
	t.Helper()
	log := &model.PerformanceLog{
		UserID: f.user.UserID,
		BaseID: f.base.BaseID,
		Year:   1403,
		Month:  month,
		Status: model.LogStatusDraft,
	}
	if err := repo.PerformanceLog.Create(context.Background(), log); err != nil {
		t.Fatalf("创建日志失败: %v", err)
	}
	return log
}

// ═══════════════════════════════════════════════════════════
// Test: Transaction
// ═══════════════════════════════════════════════════════════

func TestTransaction_Rollback(t *testing.T) {
	f, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	sentinel := errors.New("rollback")

	var logID string
	err := repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		log := &model.PerformanceLog{UserID: f.user.UserID, BaseID: f.base.BaseID, Year: 1403, Month: 1, Status: model.LogStatusDraft}
		if err := txRepo.PerformanceLog.Create(ctx, log); err != nil {
			return err
		}
		logID = log.LogID
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("期望返回回滚哨兵错误，实际: %v", err)
	}

	if _, err := repo.PerformanceLog.GetByID(ctx, logID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("期望回滚后查不到日志，实际: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: PerformanceLog
// ═══════════════════════════════════════════════════════════

func TestPerformanceLog_UniquePeriod(t *testing.T) {
	f, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	newLog(t, repo, f, 5)

	dup := &model.PerformanceLog{UserID: f.user.UserID, BaseID: f.base.BaseID, Year: 1403, Month: 5, Status: model.LogStatusDraft}
	if err := repo.PerformanceLog.Create(context.Background(), dup); err == nil {
		t.Fatal("期望同一期间重复创建失败")
	}
}

func TestPerformanceLog_MarkFinalizedOnce(t *testing.T) {
	f, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	log := newLog(t, repo, f, 2)

	if err := repo.PerformanceLog.MarkFinalized(ctx, log.LogID, time.Now()); err != nil {
		t.Fatalf("首次定稿失败: %v", err)
	}
	if err := repo.PerformanceLog.MarkFinalized(ctx, log.LogID, time.Now()); !errors.Is(err, pkgerrors.ErrStatusConflict) {
		t.Fatalf("期望 ErrStatusConflict，实际: %v", err)
	}

	got, err := repo.PerformanceLog.GetByID(ctx, log.LogID)
	if err != nil {
		t.Fatalf("查询日志失败: %v", err)
	}
	if got.Status != model.LogStatusFinalized || got.SubmittedAt == nil {
		t.Errorf("定稿状态未持久化: status=%s submitted=%v", got.Status, got.SubmittedAt)
	}
}

func TestPerformanceLog_OptimisticLock(t *testing.T) {
	f, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	log := newLog(t, repo, f, 3)

	stale := *log
	if err := repo.PerformanceLog.Update(ctx, log); err != nil {
		t.Fatalf("首次更新失败: %v", err)
	}
	if err := repo.PerformanceLog.Update(ctx, &stale); !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Fatalf("期望 ErrOptimisticLock，实际: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: PerformanceEntry
// ═══════════════════════════════════════════════════════════

func TestPerformanceEntry_UniqueDayPerPersonnel(t *testing.T) {
	f, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	log := newLog(t, repo, f, 4)

	date := "1403-04-10"
	day := 10
	mk := func() *model.PerformanceEntry {
		return &model.PerformanceEntry{
			LogID: log.LogID, UserID: f.user.UserID, PersonnelID: f.personnel.PersonnelID,
			ShiftID: &f.shift.WorkShiftID, Date: &date, Year: 1403, Month: 4, Day: &day,
			EntryType: model.EntryTypeCell,
		}
	}
	if err := repo.PerformanceEntry.Create(ctx, mk()); err != nil {
		t.Fatalf("创建条目失败: %v", err)
	}
	if err := repo.PerformanceEntry.Create(ctx, mk()); err == nil {
		t.Fatal("期望同日同人重复条目被唯一索引拒绝")
	}
}

func TestPerformanceEntry_MarkFinalizedByLog(t *testing.T) {
	f, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	log := newLog(t, repo, f, 6)

	entry := &model.PerformanceEntry{
		LogID: log.LogID, UserID: f.user.UserID, PersonnelID: f.personnel.PersonnelID,
		Year: 1403, Month: 6, EntryType: model.EntryTypeSummary, Missions: 3, Meals: 5,
	}
	if err := repo.PerformanceEntry.Create(ctx, entry); err != nil {
		t.Fatalf("创建汇总条目失败: %v", err)
	}
	if err := repo.PerformanceEntry.MarkFinalizedByLog(ctx, log.LogID, time.Now()); err != nil {
		t.Fatalf("MarkFinalizedByLog 失败: %v", err)
	}

	got, err := repo.PerformanceEntry.GetByID(ctx, entry.EntryID)
	if err != nil {
		t.Fatalf("查询条目失败: %v", err)
	}
	if !got.IsFinalized || got.FinalizedAt == nil {
		t.Error("条目应带有定稿标记")
	}

	year, month := 1403, 6
	list, err := repo.PerformanceEntry.ListByUser(ctx, f.user.UserID, &year, &month)
	if err != nil {
		t.Fatalf("ListByUser 失败: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("期望 1 条，实际 %d", len(list))
	}
}

// ═══════════════════════════════════════════════════════════
// Test: PerformanceAssignment
// ═══════════════════════════════════════════════════════════

func TestPerformanceAssignment_GetByKeyWithoutLog(t *testing.T) {
	f, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	a := &model.PerformanceAssignment{
		PersonnelID: f.personnel.PersonnelID, BaseID: f.base.BaseID, ShiftID: f.shift.WorkShiftID,
		Date: "1403-07-01", Year: 1403, Month: 7, Day: 1,
	}
	if err := repo.PerformanceAssignment.Create(ctx, a); err != nil {
		t.Fatalf("创建排班失败: %v", err)
	}
	defer repo.PerformanceAssignment.Delete(ctx, a.AssignmentID)

	got, err := repo.PerformanceAssignment.GetByKey(ctx, nil, f.personnel.PersonnelID, "1403-07-01")
	if err != nil {
		t.Fatalf("GetByKey 失败: %v", err)
	}
	if got.AssignmentID != a.AssignmentID {
		t.Errorf("ID 不匹配: expected %s, got %s", a.AssignmentID, got.AssignmentID)
	}

	dup := *a
	dup.AssignmentID = ""
	if err := repo.PerformanceAssignment.Create(ctx, &dup); err == nil {
		t.Error("期望无日志排班按 (personnel, date) 唯一")
	}
}

// ═══════════════════════════════════════════════════════════
// Test: BaseMember
// ═══════════════════════════════════════════════════════════

func TestBaseMember_CreateListDelete(t *testing.T) {
	f, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	if err := repo.BaseMember.Create(ctx, &model.BaseMember{UserID: f.user.UserID, PersonnelID: f.personnel.PersonnelID}); err != nil {
		t.Fatalf("创建成员失败: %v", err)
	}
	members, err := repo.BaseMember.ListByUser(ctx, f.user.UserID)
	if err != nil || len(members) != 1 || members[0].Personnel == nil {
		t.Fatalf("ListByUser 结果异常: %v, %+v", err, members)
	}

	removed, err := repo.BaseMember.Delete(ctx, f.user.UserID, f.personnel.PersonnelID)
	if err != nil || !removed {
		t.Fatalf("删除成员失败: removed=%v err=%v", removed, err)
	}
	removed, _ = repo.BaseMember.Delete(ctx, f.user.UserID, f.personnel.PersonnelID)
	if removed {
		t.Error("重复删除应返回 false")
	}
}

// ═══════════════════════════════════════════════════════════
// Test: User
// ═══════════════════════════════════════════════════════════

func TestUser_ListFilterAndUpdate(t *testing.T) {
	f, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	list, total, err := repo.User.List(ctx, repository.UserFilter{Keyword: f.user.Username, Role: model.RoleUser}, 0, 10)
	if err != nil || total != 1 || len(list) != 1 {
		t.Fatalf("按关键词过滤失败: total=%d err=%v", total, err)
	}

	f.user.Name = "已改名"
	f.user.Role = model.RoleAdmin
	if err := repo.User.Update(ctx, f.user); err != nil {
		t.Fatalf("更新用户失败: %v", err)
	}
	got, _ := repo.User.GetByID(ctx, f.user.UserID)
	if got.Name != "已改名" || got.Role != model.RoleAdmin {
		t.Errorf("更新未生效: %+v", got)
	}

	n, err := repo.User.CountByRole(ctx, model.RoleAdmin)
	if err != nil || n < 1 {
		t.Errorf("CountByRole 结果异常: n=%d err=%v", n, err)
	}
}
