package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"rescue-roster/internal/model"
	"rescue-roster/internal/repository"
	pkgerrors "rescue-roster/pkg/errors"
)

var mockSeq int

func nextID(prefix string) string {
	mockSeq++
	return fmt.Sprintf("%s-%04d", prefix, mockSeq)
}

// mocks 聚合所有 mock，便于测试直接预置数据
type mocks struct {
	users       *mockUserRepo
	bases       *mockBaseRepo
	profiles    *mockBaseProfileRepo
	members     *mockBaseMemberRepo
	personnel   *mockPersonnelRepo
	shifts      *mockWorkShiftRepo
	logs        *mockLogRepo
	entries     *mockEntryRepo
	assignments *mockAssignmentRepo
	holidays    *mockHolidayRepo
}

// newMockRepository 创建不绑定数据库的 Repository 聚合，Transaction 直接在其上执行
func newMockRepository() (*repository.Repository, *mocks) {
	m := &mocks{
		users:       &mockUserRepo{users: make(map[string]*model.User)},
		bases:       &mockBaseRepo{bases: make(map[string]*model.Base)},
		profiles:    &mockBaseProfileRepo{profiles: make(map[string]*model.BaseProfile)},
		personnel:   &mockPersonnelRepo{list: make(map[string]*model.Personnel)},
		shifts:      &mockWorkShiftRepo{shifts: make(map[string]*model.WorkShift)},
		logs:        &mockLogRepo{logs: make(map[string]*model.PerformanceLog)},
		entries:     &mockEntryRepo{entries: make(map[string]*model.PerformanceEntry)},
		assignments: &mockAssignmentRepo{list: make(map[string]*model.PerformanceAssignment)},
		holidays:    &mockHolidayRepo{list: make(map[string]*model.IranHoliday)},
	}
	m.members = &mockBaseMemberRepo{personnel: m.personnel}
	m.entries.shifts = m.shifts

	repo := &repository.Repository{
		User:                  m.users,
		Base:                  m.bases,
		BaseProfile:           m.profiles,
		BaseMember:            m.members,
		Personnel:             m.personnel,
		WorkShift:             m.shifts,
		PerformanceLog:        m.logs,
		PerformanceEntry:      m.entries,
		PerformanceAssignment: m.assignments,
		Holiday:               m.holidays,
	}
	return repo, m
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User // key: user_id
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = nextID("user")
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) List(_ context.Context, filter repository.UserFilter, offset, limit int) ([]model.User, int64, error) {
	var all []model.User
	for _, u := range m.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.Keyword != "" &&
			!strings.Contains(u.Username, filter.Keyword) && !strings.Contains(u.Name, filter.Keyword) {
			continue
		}
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Username < all[j].Username })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockUserRepo) CountByRole(_ context.Context, role string) (int64, error) {
	var n int64
	for _, u := range m.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

// ── Mock BaseRepository ──

type mockBaseRepo struct {
	bases map[string]*model.Base
}

func (m *mockBaseRepo) Create(_ context.Context, base *model.Base) error {
	if base.BaseID == "" {
		base.BaseID = nextID("base")
	}
	m.bases[base.BaseID] = base
	return nil
}

func (m *mockBaseRepo) GetByID(_ context.Context, id string) (*model.Base, error) {
	if b, ok := m.bases[id]; ok {
		return b, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBaseRepo) GetByNumber(_ context.Context, number string) (*model.Base, error) {
	for _, b := range m.bases {
		if b.Number == number {
			return b, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBaseRepo) List(_ context.Context) ([]model.Base, error) {
	var result []model.Base
	for _, b := range m.bases {
		result = append(result, *b)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Number < result[j].Number })
	return result, nil
}

func (m *mockBaseRepo) ListByIDs(_ context.Context, ids []string) ([]model.Base, error) {
	var result []model.Base
	for _, id := range ids {
		if b, ok := m.bases[id]; ok {
			result = append(result, *b)
		}
	}
	return result, nil
}

func (m *mockBaseRepo) Update(_ context.Context, base *model.Base) error {
	m.bases[base.BaseID] = base
	return nil
}

func (m *mockBaseRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.bases, id)
	return nil
}

// ── Mock BaseProfileRepository ──

type mockBaseProfileRepo struct {
	profiles map[string]*model.BaseProfile
}

func (m *mockBaseProfileRepo) GetByUserID(_ context.Context, userID string) (*model.BaseProfile, error) {
	if p, ok := m.profiles[userID]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBaseProfileRepo) Upsert(_ context.Context, profile *model.BaseProfile) error {
	m.profiles[profile.UserID] = profile
	return nil
}

// ── Mock BaseMemberRepository ──

type mockBaseMemberRepo struct {
	members   []model.BaseMember
	personnel *mockPersonnelRepo
}

func (m *mockBaseMemberRepo) Create(_ context.Context, member *model.BaseMember) error {
	if member.BaseMemberID == "" {
		member.BaseMemberID = nextID("member")
	}
	m.members = append(m.members, *member)
	return nil
}

func (m *mockBaseMemberRepo) Exists(_ context.Context, userID, personnelID string) (bool, error) {
	for _, bm := range m.members {
		if bm.UserID == userID && bm.PersonnelID == personnelID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockBaseMemberRepo) ListByUser(_ context.Context, userID string) ([]model.BaseMember, error) {
	var result []model.BaseMember
	for _, bm := range m.members {
		if bm.UserID != userID {
			continue
		}
		if p, ok := m.personnel.list[bm.PersonnelID]; ok {
			bm.Personnel = p
		}
		result = append(result, bm)
	}
	return result, nil
}

func (m *mockBaseMemberRepo) Delete(_ context.Context, userID, personnelID string) (bool, error) {
	for i, bm := range m.members {
		if bm.UserID == userID && bm.PersonnelID == personnelID {
			m.members = append(m.members[:i], m.members[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// ── Mock PersonnelRepository ──

type mockPersonnelRepo struct {
	list map[string]*model.Personnel
}

func (m *mockPersonnelRepo) Create(_ context.Context, p *model.Personnel) error {
	if p.PersonnelID == "" {
		p.PersonnelID = nextID("personnel")
	}
	m.list[p.PersonnelID] = p
	return nil
}

func (m *mockPersonnelRepo) GetByID(_ context.Context, id string) (*model.Personnel, error) {
	if p, ok := m.list[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPersonnelRepo) GetByNationalID(_ context.Context, nationalID string) (*model.Personnel, error) {
	for _, p := range m.list {
		if p.NationalID == nationalID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPersonnelRepo) List(ctx context.Context, _ string, offset, limit int) ([]model.Personnel, int64, error) {
	all, _ := m.ListAll(ctx)
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockPersonnelRepo) ListAll(_ context.Context) ([]model.Personnel, error) {
	var result []model.Personnel
	for _, p := range m.list {
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].PersonnelID < result[j].PersonnelID })
	return result, nil
}

func (m *mockPersonnelRepo) ListByIDs(_ context.Context, ids []string) ([]model.Personnel, error) {
	var result []model.Personnel
	for _, id := range ids {
		if p, ok := m.list[id]; ok {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockPersonnelRepo) Update(_ context.Context, p *model.Personnel) error {
	m.list[p.PersonnelID] = p
	return nil
}

func (m *mockPersonnelRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.list, id)
	return nil
}

// ── Mock WorkShiftRepository ──

type mockWorkShiftRepo struct {
	shifts map[string]*model.WorkShift
}

func (m *mockWorkShiftRepo) Create(_ context.Context, shift *model.WorkShift) error {
	if shift.WorkShiftID == "" {
		shift.WorkShiftID = nextID("shift")
	}
	m.shifts[shift.WorkShiftID] = shift
	return nil
}

func (m *mockWorkShiftRepo) GetByID(_ context.Context, id string) (*model.WorkShift, error) {
	if s, ok := m.shifts[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorkShiftRepo) GetByCode(_ context.Context, code string) (*model.WorkShift, error) {
	for _, s := range m.shifts {
		if s.ShiftCode == code {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorkShiftRepo) List(_ context.Context) ([]model.WorkShift, error) {
	var result []model.WorkShift
	for _, s := range m.shifts {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ShiftCode < result[j].ShiftCode })
	return result, nil
}

func (m *mockWorkShiftRepo) ListByIDs(_ context.Context, ids []string) ([]model.WorkShift, error) {
	var result []model.WorkShift
	for _, id := range ids {
		if s, ok := m.shifts[id]; ok {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockWorkShiftRepo) Update(_ context.Context, shift *model.WorkShift) error {
	m.shifts[shift.WorkShiftID] = shift
	return nil
}

func (m *mockWorkShiftRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.shifts, id)
	return nil
}

// ── Mock PerformanceLogRepository ──

type mockLogRepo struct {
	logs map[string]*model.PerformanceLog
	// stale 不加锁读取返回的旧快照（模拟读取后被并发定稿）；加锁读取总是返回最新值
	stale map[string]*model.PerformanceLog
}

func (m *mockLogRepo) Create(_ context.Context, log *model.PerformanceLog) error {
	for _, l := range m.logs {
		if l.UserID == log.UserID && l.Year == log.Year && l.Month == log.Month {
			return gorm.ErrDuplicatedKey
		}
	}
	if log.LogID == "" {
		log.LogID = nextID("log")
	}
	stored := *log
	m.logs[log.LogID] = &stored
	return nil
}

func (m *mockLogRepo) GetByID(_ context.Context, id string) (*model.PerformanceLog, error) {
	if l, ok := m.stale[id]; ok {
		copied := *l
		return &copied, nil
	}
	if l, ok := m.logs[id]; ok {
		copied := *l
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLogRepo) GetByIDForUpdate(_ context.Context, id string) (*model.PerformanceLog, error) {
	if l, ok := m.logs[id]; ok {
		copied := *l
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLogRepo) GetByPeriod(_ context.Context, userID string, year, month int) (*model.PerformanceLog, error) {
	for _, l := range m.logs {
		if l.UserID == userID && l.Year == year && l.Month == month {
			copied := *l
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLogRepo) ListByPeriod(_ context.Context, year, month int) ([]model.PerformanceLog, error) {
	var result []model.PerformanceLog
	for _, l := range m.logs {
		if l.Year == year && l.Month == month {
			result = append(result, *l)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].LogID < result[j].LogID })
	return result, nil
}

func (m *mockLogRepo) ListByUser(_ context.Context, userID string) ([]model.PerformanceLog, error) {
	var result []model.PerformanceLog
	for _, l := range m.logs {
		if l.UserID == userID {
			result = append(result, *l)
		}
	}
	return result, nil
}

func (m *mockLogRepo) Update(_ context.Context, log *model.PerformanceLog) error {
	stored, ok := m.logs[log.LogID]
	if !ok || stored.Version != log.Version || stored.Status != model.LogStatusDraft {
		return pkgerrors.ErrOptimisticLock
	}
	log.Version++
	log.UpdatedAt = time.Now()
	copied := *log
	m.logs[log.LogID] = &copied
	return nil
}

func (m *mockLogRepo) MarkFinalized(_ context.Context, id string, at time.Time) error {
	stored, ok := m.logs[id]
	if !ok || stored.Status != model.LogStatusDraft {
		return pkgerrors.ErrStatusConflict
	}
	stored.Status = model.LogStatusFinalized
	stored.SubmittedAt = &at
	stored.Version++
	return nil
}

// ── Mock PerformanceEntryRepository ──

type mockEntryRepo struct {
	entries map[string]*model.PerformanceEntry
	shifts  *mockWorkShiftRepo
}

func (m *mockEntryRepo) Create(_ context.Context, entry *model.PerformanceEntry) error {
	if entry.EntryID == "" {
		entry.EntryID = nextID("entry")
	}
	stored := *entry
	m.entries[entry.EntryID] = &stored
	return nil
}

func (m *mockEntryRepo) GetByID(_ context.Context, id string) (*model.PerformanceEntry, error) {
	if e, ok := m.entries[id]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEntryRepo) withShift(e model.PerformanceEntry) model.PerformanceEntry {
	if e.ShiftID != nil && m.shifts != nil {
		if s, ok := m.shifts.shifts[*e.ShiftID]; ok {
			e.Shift = s
		}
	}
	return e
}

func (m *mockEntryRepo) ListByLog(_ context.Context, logID string) ([]model.PerformanceEntry, error) {
	var result []model.PerformanceEntry
	for _, e := range m.entries {
		if e.LogID == logID {
			result = append(result, m.withShift(*e))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EntryID < result[j].EntryID })
	return result, nil
}

func (m *mockEntryRepo) ListByLogIDs(_ context.Context, logIDs []string) ([]model.PerformanceEntry, error) {
	wanted := make(map[string]bool, len(logIDs))
	for _, id := range logIDs {
		wanted[id] = true
	}
	var result []model.PerformanceEntry
	for _, e := range m.entries {
		if wanted[e.LogID] {
			result = append(result, m.withShift(*e))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EntryID < result[j].EntryID })
	return result, nil
}

func (m *mockEntryRepo) ListByUser(_ context.Context, userID string, year, month *int) ([]model.PerformanceEntry, error) {
	var result []model.PerformanceEntry
	for _, e := range m.entries {
		if e.UserID != userID {
			continue
		}
		if year != nil && e.Year != *year {
			continue
		}
		if month != nil && e.Month != *month {
			continue
		}
		result = append(result, *e)
	}
	return result, nil
}

func (m *mockEntryRepo) Update(_ context.Context, entry *model.PerformanceEntry) error {
	if _, ok := m.entries[entry.EntryID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *entry
	m.entries[entry.EntryID] = &stored
	return nil
}

func (m *mockEntryRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := m.entries[id]; !ok {
		return false, nil
	}
	delete(m.entries, id)
	return true, nil
}

func (m *mockEntryRepo) MarkFinalizedByLog(_ context.Context, logID string, at time.Time) error {
	for _, e := range m.entries {
		if e.LogID == logID {
			e.IsFinalized = true
			e.FinalizedAt = &at
		}
	}
	return nil
}

func (m *mockEntryRepo) countByLog(logID string) int {
	n := 0
	for _, e := range m.entries {
		if e.LogID == logID {
			n++
		}
	}
	return n
}

// ── Mock PerformanceAssignmentRepository ──

type mockAssignmentRepo struct {
	list map[string]*model.PerformanceAssignment
	// missKeys 大于 0 时 GetByKey 返回未找到（模拟并发插入尚未可见）
	missKeys int
}

func (m *mockAssignmentRepo) Create(_ context.Context, a *model.PerformanceAssignment) error {
	for _, existing := range m.list {
		if existing.PersonnelID == a.PersonnelID && existing.Date == a.Date && sameLogID(existing.LogID, a.LogID) {
			return gorm.ErrDuplicatedKey
		}
	}
	if a.AssignmentID == "" {
		a.AssignmentID = nextID("assign")
	}
	stored := *a
	m.list[a.AssignmentID] = &stored
	return nil
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id string) (*model.PerformanceAssignment, error) {
	if a, ok := m.list[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) GetByKey(_ context.Context, logID *string, personnelID, date string) (*model.PerformanceAssignment, error) {
	if m.missKeys > 0 {
		m.missKeys--
		return nil, gorm.ErrRecordNotFound
	}
	for _, a := range m.list {
		if a.PersonnelID == personnelID && a.Date == date && sameLogID(a.LogID, logID) {
			copied := *a
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func sameLogID(a, b *string) bool {
	return (a == nil && b == nil) || (a != nil && b != nil && *a == *b)
}

func (m *mockAssignmentRepo) ListByPeriod(_ context.Context, year, month int) ([]model.PerformanceAssignment, error) {
	var result []model.PerformanceAssignment
	for _, a := range m.list {
		if a.Year == year && a.Month == month {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date < result[j].Date })
	return result, nil
}

func (m *mockAssignmentRepo) Update(_ context.Context, a *model.PerformanceAssignment) error {
	stored := *a
	m.list[a.AssignmentID] = &stored
	return nil
}

func (m *mockAssignmentRepo) Delete(_ context.Context, id string) error {
	delete(m.list, id)
	return nil
}

// ── Mock HolidayRepository ──

type mockHolidayRepo struct {
	list  map[string]*model.IranHoliday
	calls int // ListByMonth 调用次数，用于验证缓存命中
}

func (m *mockHolidayRepo) Create(_ context.Context, h *model.IranHoliday) error {
	if h.HolidayID == "" {
		h.HolidayID = nextID("holiday")
	}
	m.list[h.HolidayID] = h
	return nil
}

func (m *mockHolidayRepo) GetByID(_ context.Context, id string) (*model.IranHoliday, error) {
	if h, ok := m.list[id]; ok {
		return h, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockHolidayRepo) ListByMonth(_ context.Context, year, month int) ([]model.IranHoliday, error) {
	m.calls++
	var result []model.IranHoliday
	for _, h := range m.list {
		if h.Year == year && h.Month == month {
			result = append(result, *h)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Day < result[j].Day })
	return result, nil
}

func (m *mockHolidayRepo) Delete(_ context.Context, id string) error {
	delete(m.list, id)
	return nil
}
