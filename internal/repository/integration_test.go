//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"navy-training/backend/internal/model"
	"navy-training/backend/internal/repository"
	"navy-training/backend/internal/service"
	"navy-training/backend/pkg/clock"
	"navy-training/backend/pkg/database"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=navy_training password=navy_training_password dbname=navy_training_test sslmode=disable TimeZone=Asia/Seoul"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	// 使用与生产一致的迁移脚本建表
	sqlDB, err := testDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "获取 sql.DB 失败: %v\n", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "迁移失败: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	os.Exit(code)
}

type fixture struct {
	user        *model.User
	instructors []*model.Instructor
	venue       *model.Venue
}

func date(s string) time.Time {
	d, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// setupTestData 创建申请人、三名讲师与一个场地，返回清理函数
func setupTestData(t *testing.T) (*fixture, func()) {
	t.Helper()
	ctx := context.Background()
	suffix := time.Now().UnixNano()

	f := &fixture{
		user:  &model.User{Name: "测试申请人", Email: fmt.Sprintf("user%d@navy.test", suffix)},
		venue: &model.Venue{Name: fmt.Sprintf("测试场地-%d", suffix), RoomNumber: "B-201"},
	}
	if err := testDB.WithContext(ctx).Create(f.user).Error; err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}
	if err := testDB.WithContext(ctx).Create(f.venue).Error; err != nil {
		t.Fatalf("创建场地失败: %v", err)
	}
	for i := 0; i < 3; i++ {
		ins := &model.Instructor{Name: fmt.Sprintf("讲师%d-%d", i, suffix), Rank: "대위"}
		if err := testDB.WithContext(ctx).Create(ins).Error; err != nil {
			t.Fatalf("创建讲师失败: %v", err)
		}
		f.instructors = append(f.instructors, ins)
	}

	cleanup := func() {
		ids := make([]int64, 0, len(f.instructors))
		for _, ins := range f.instructors {
			ids = append(ids, ins.ID)
		}
		testDB.Where("instructor_id IN ?", ids).Delete(&model.InstructorSchedule{})
		testDB.Where("user_id = ?", f.user.ID).Delete(&model.TrainingRequest{})
		testDB.Where("id IN ?", ids).Delete(&model.Instructor{})
		testDB.Where("id = ?", f.venue.ID).Delete(&model.Venue{})
		testDB.Where("id = ?", f.user.ID).Delete(&model.User{})
	}
	return f, cleanup
}

func (f *fixture) newRequest(t *testing.T, repo *repository.Repository, day string, status model.RequestStatus) *model.TrainingRequest {
	t.Helper()
	req := &model.TrainingRequest{
		UserID:               f.user.ID,
		IdentityInstructorID: &f.instructors[0].ID,
		SecurityInstructorID: &f.instructors[1].ID,
		VenueID:              f.venue.ID,
		TrainingType:         "기본",
		Fleet:                "1함대",
		RequestDate:          date(day),
		Status:               status,
	}
	if err := repo.TrainingRequest.Create(context.Background(), req); err != nil {
		t.Fatalf("创建训练申请失败: %v", err)
	}
	return req
}

// ═══════════════════════════════════════════════════════════
// Test: Transaction
// ═══════════════════════════════════════════════════════════

func TestTransaction_Rollback(t *testing.T) {
	f, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	var createdID int64
	err := repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		s := &model.InstructorSchedule{
			InstructorID: f.instructors[0].ID,
			ScheduleDate: date("2031-05-01"),
			Source:       model.SourceManual,
		}
		if err := txRepo.InstructorSchedule.Create(ctx, s); err != nil {
			return err
		}
		createdID = s.ID
		return fmt.Errorf("强制回滚")
	})
	if err == nil {
		t.Fatal("期望事务返回错误")
	}

	if _, err := repo.InstructorSchedule.GetByID(ctx, createdID); err == nil {
		t.Fatal("期望回滚后查不到日程，但实际查到了")
	}
}

func TestTransaction_Commit(t *testing.T) {
	f, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)
	if err != nil {
		t.Fatalf("BeginTx 失败: %v", err)
	}
	txRepo := repo.WithTx(tx)

	s := &model.InstructorSchedule{
		InstructorID: f.instructors[0].ID,
		ScheduleDate: date("2031-05-02"),
		Source:       model.SourceManual,
	}
	if err := txRepo.InstructorSchedule.Create(ctx, s); err != nil {
		tx.Rollback()
		t.Fatalf("事务内创建日程失败: %v", err)
	}
	if err := tx.Commit().Error; err != nil {
		t.Fatalf("Commit 失败: %v", err)
	}

	found, err := repo.InstructorSchedule.GetByID(ctx, s.ID)
	if err != nil {
		t.Fatalf("提交后查询日程失败: %v", err)
	}
	if !found.ScheduleDate.Equal(date("2031-05-02")) {
		t.Errorf("日期不匹配: %v", found.ScheduleDate)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Schedule queries
// ═══════════════════════════════════════════════════════════

func TestInstructorSchedule_ListByDateRange_Overlap(t *testing.T) {
	f, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	insID := f.instructors[0].ID
	end := date("2031-06-03")

	rows := []model.InstructorSchedule{
		// 跨入窗口的多日日程
		{InstructorID: insID, ScheduleDate: date("2031-05-30"), EndDate: &end, Source: model.SourceManual},
		{InstructorID: insID, ScheduleDate: date("2031-06-10"), Source: model.SourceManual},
		// 窗口外
		{InstructorID: insID, ScheduleDate: date("2031-07-01"), Source: model.SourceManual},
	}
	if err := repo.InstructorSchedule.BatchCreate(ctx, rows); err != nil {
		t.Fatalf("BatchCreate 失败: %v", err)
	}

	list, err := repo.InstructorSchedule.ListByDateRange(ctx, date("2031-06-01"), date("2031-06-30"), &insID)
	if err != nil {
		t.Fatalf("ListByDateRange 失败: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("期望 2 条相交日程，实际 %d", len(list))
	}
	if !list[0].ScheduleDate.Equal(date("2031-05-30")) {
		t.Errorf("期望按开始日期升序，首条为 %v", list[0].ScheduleDate)
	}
}

func TestInstructorSchedule_ListBookedInstructorIDs(t *testing.T) {
	f, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	end := date("2031-08-05")

	rows := []model.InstructorSchedule{
		{InstructorID: f.instructors[1].ID, ScheduleDate: date("2031-08-03"), EndDate: &end, Source: model.SourceManual},
		{InstructorID: f.instructors[0].ID, ScheduleDate: date("2031-08-04"), Source: model.SourceManual},
		{InstructorID: f.instructors[0].ID, ScheduleDate: date("2031-08-04"), Description: "重复", Source: model.SourceManual},
		{InstructorID: f.instructors[2].ID, ScheduleDate: date("2031-08-06"), Source: model.SourceManual},
	}
	if err := repo.InstructorSchedule.BatchCreate(ctx, rows); err != nil {
		t.Fatalf("BatchCreate 失败: %v", err)
	}

	ids, err := repo.InstructorSchedule.ListBookedInstructorIDs(ctx, date("2031-08-04"))
	if err != nil {
		t.Fatalf("ListBookedInstructorIDs 失败: %v", err)
	}
	want := []int64{f.instructors[0].ID, f.instructors[1].ID}
	if len(ids) != len(want) || ids[0] != want[0] || ids[1] != want[1] {
		t.Errorf("期望 %v，实际 %v", want, ids)
	}
}

func TestInstructorSchedule_SourceConstraint(t *testing.T) {
	f, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	// REQUEST 来源缺少回链，违反 CHECK 约束
	bad := &model.InstructorSchedule{
		InstructorID: f.instructors[0].ID,
		ScheduleDate: date("2031-09-01"),
		Source:       model.SourceRequest,
	}
	if err := repo.InstructorSchedule.Create(ctx, bad); err == nil {
		t.Fatal("期望 CHECK 约束拒绝无回链的 REQUEST 日程")
	}
}

func TestInstructorSchedule_DeleteByRequest(t *testing.T) {
	f, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	req := f.newRequest(t, repo, "2031-10-01", model.StatusApproved)

	rows := []model.InstructorSchedule{
		{InstructorID: f.instructors[0].ID, ScheduleDate: req.RequestDate, Source: model.SourceRequest, RequestID: &req.ID},
		{InstructorID: f.instructors[1].ID, ScheduleDate: req.RequestDate, Source: model.SourceRequest, RequestID: &req.ID},
		{InstructorID: f.instructors[2].ID, ScheduleDate: req.RequestDate, Source: model.SourceManual},
	}
	if err := repo.InstructorSchedule.BatchCreate(ctx, rows); err != nil {
		t.Fatalf("BatchCreate 失败: %v", err)
	}

	n, err := repo.InstructorSchedule.DeleteByRequest(ctx, req.ID)
	if err != nil {
		t.Fatalf("DeleteByRequest 失败: %v", err)
	}
	if n != 2 {
		t.Errorf("期望删除 2 行，实际 %d", n)
	}

	remaining, err := repo.InstructorSchedule.ListByInstructor(ctx, f.instructors[2].ID)
	if err != nil {
		t.Fatalf("ListByInstructor 失败: %v", err)
	}
	if len(remaining) != 1 {
		t.Errorf("手动日程不应被删除，剩余 %d", len(remaining))
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Training requests
// ═══════════════════════════════════════════════════════════

func TestTrainingRequest_ListApprovedVenueIDsByDate(t *testing.T) {
	f, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	f.newRequest(t, repo, "2031-11-11", model.StatusApproved)
	f.newRequest(t, repo, "2031-11-11", model.StatusApproved)
	f.newRequest(t, repo, "2031-11-12", model.StatusApproved)

	ids, err := repo.TrainingRequest.ListApprovedVenueIDsByDate(ctx, date("2031-11-11"))
	if err != nil {
		t.Fatalf("ListApprovedVenueIDsByDate 失败: %v", err)
	}
	found := 0
	for _, id := range ids {
		if id == f.venue.ID {
			found++
		}
	}
	if found != 1 {
		t.Errorf("场地应去重后出现一次，实际 %d 次", found)
	}
}

func TestTrainingRequest_StatusConstraint(t *testing.T) {
	f, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	req := f.newRequest(t, repo, "2031-12-01", model.StatusPending)

	req.Status = model.RequestStatus("CONFIRMED")
	if err := repo.TrainingRequest.Update(context.Background(), req); err == nil {
		t.Fatal("期望 CHECK 约束拒绝未归一的状态字面量")
	}
}

// 两个并发审批只生成一组日程
func TestUpdateStatus_ConcurrentApprove(t *testing.T) {
	f, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	req := f.newRequest(t, repo, "2032-01-15", model.StatusInstructorCheck)

	svc := service.NewTrainingRequestService(repo, clock.Real{}, zap.NewNop())

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.UpdateStatus(ctx, req.ID, "APPROVED", f.user.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("并发审批失败: %v", err)
		}
	}

	list, err := repo.InstructorSchedule.ListByRequest(ctx, req.ID)
	if err != nil {
		t.Fatalf("ListByRequest 失败: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("期望 2 条派生日程，实际 %d", len(list))
	}
}

// 撤回后重复取消不再删除任何日程，手动日程不受影响
func TestUpdateStatus_RetractIdempotent(t *testing.T) {
	f, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	req := f.newRequest(t, repo, "2032-02-10", model.StatusPending)
	svc := service.NewTrainingRequestService(repo, clock.Real{}, zap.NewNop())

	manual := &model.InstructorSchedule{
		InstructorID: f.instructors[0].ID,
		ScheduleDate: req.RequestDate,
		Source:       model.SourceManual,
	}
	if err := repo.InstructorSchedule.Create(ctx, manual); err != nil {
		t.Fatalf("创建手动日程失败: %v", err)
	}

	for _, status := range []string{"APPROVED", "CANCELLED", "CANCELLED"} {
		if _, err := svc.UpdateStatus(ctx, req.ID, status, f.user.ID); err != nil {
			t.Fatalf("变更为 %s 失败: %v", status, err)
		}
	}

	derived, err := repo.InstructorSchedule.ListByRequest(ctx, req.ID)
	if err != nil {
		t.Fatalf("ListByRequest 失败: %v", err)
	}
	if len(derived) != 0 {
		t.Errorf("撤回后不应残留派生日程，实际 %d", len(derived))
	}
	if _, err := repo.InstructorSchedule.GetByID(ctx, manual.ID); err != nil {
		t.Errorf("手动日程不应被撤回删除: %v", err)
	}
}
