package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"navy-training/backend/internal/model"
	"navy-training/backend/internal/repository"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	mu    sync.Mutex
	users map[int64]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int64]*model.User)}
}

func (m *mockUserRepo) add(u model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = &u
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) ListByIDs(_ context.Context, ids []int64) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			result = append(result, *u)
		}
	}
	return result, nil
}

// ── Mock InstructorRepository ──

type mockInstructorRepo struct {
	mu          sync.Mutex
	instructors map[int64]*model.Instructor
}

func newMockInstructorRepo() *mockInstructorRepo {
	return &mockInstructorRepo{instructors: make(map[int64]*model.Instructor)}
}

func (m *mockInstructorRepo) add(in model.Instructor) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.instructors[in.ID] = &in
}

func (m *mockInstructorRepo) GetByID(_ context.Context, id int64) (*model.Instructor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if in, ok := m.instructors[id]; ok {
		cp := *in
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInstructorRepo) ListByIDs(_ context.Context, ids []int64) ([]model.Instructor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Instructor
	for _, id := range ids {
		if in, ok := m.instructors[id]; ok {
			result = append(result, *in)
		}
	}
	return result, nil
}

// ── Mock VenueRepository ──

type mockVenueRepo struct {
	mu     sync.Mutex
	venues map[int64]*model.Venue
}

func newMockVenueRepo() *mockVenueRepo {
	return &mockVenueRepo{venues: make(map[int64]*model.Venue)}
}

func (m *mockVenueRepo) add(v model.Venue) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.venues[v.ID] = &v
}

func (m *mockVenueRepo) GetByID(_ context.Context, id int64) (*model.Venue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.venues[id]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockVenueRepo) ListByIDs(_ context.Context, ids []int64) ([]model.Venue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Venue
	for _, id := range ids {
		if v, ok := m.venues[id]; ok {
			result = append(result, *v)
		}
	}
	return result, nil
}

// ── Mock TrainingRequestRepository ──

type mockTrainingRequestRepo struct {
	mu     sync.Mutex
	nextID int64
	reqs   map[int64]*model.TrainingRequest
}

func newMockTrainingRequestRepo() *mockTrainingRequestRepo {
	return &mockTrainingRequestRepo{nextID: 1, reqs: make(map[int64]*model.TrainingRequest)}
}

func (m *mockTrainingRequestRepo) Create(_ context.Context, req *model.TrainingRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if req.ID == 0 {
		req.ID = m.nextID
		m.nextID++
	}
	cp := *req
	m.reqs[req.ID] = &cp
	return nil
}

func (m *mockTrainingRequestRepo) GetByID(_ context.Context, id int64) (*model.TrainingRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.reqs[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTrainingRequestRepo) GetByIDForUpdate(ctx context.Context, id int64) (*model.TrainingRequest, error) {
	return m.GetByID(ctx, id)
}

func (m *mockTrainingRequestRepo) Update(_ context.Context, req *model.TrainingRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *req
	m.reqs[req.ID] = &cp
	return nil
}

func (m *mockTrainingRequestRepo) sorted(filter func(*model.TrainingRequest) bool) []model.TrainingRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []model.TrainingRequest{}
	for _, r := range m.reqs {
		if filter(r) {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result
}

func (m *mockTrainingRequestRepo) List(_ context.Context) ([]model.TrainingRequest, error) {
	return m.sorted(func(*model.TrainingRequest) bool { return true }), nil
}

func (m *mockTrainingRequestRepo) ListByUser(_ context.Context, userID int64) ([]model.TrainingRequest, error) {
	return m.sorted(func(r *model.TrainingRequest) bool { return r.UserID == userID }), nil
}

func (m *mockTrainingRequestRepo) ListApprovedVenueIDsByDate(_ context.Context, date time.Time) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []int64
	for _, r := range m.reqs {
		if r.Status == model.StatusApproved && r.RequestDate.Equal(date) {
			ids = append(ids, r.VenueID)
		}
	}
	return ids, nil
}

// ── Mock InstructorScheduleRepository ──

type mockInstructorScheduleRepo struct {
	mu        sync.Mutex
	nextID    int64
	schedules map[int64]*model.InstructorSchedule
}

func newMockInstructorScheduleRepo() *mockInstructorScheduleRepo {
	return &mockInstructorScheduleRepo{nextID: 1, schedules: make(map[int64]*model.InstructorSchedule)}
}

func (m *mockInstructorScheduleRepo) Create(_ context.Context, schedule *model.InstructorSchedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insertLocked(schedule)
	return nil
}

func (m *mockInstructorScheduleRepo) insertLocked(schedule *model.InstructorSchedule) {
	if schedule.ID == 0 {
		schedule.ID = m.nextID
		m.nextID++
	}
	cp := *schedule
	m.schedules[schedule.ID] = &cp
}

func (m *mockInstructorScheduleRepo) BatchCreate(_ context.Context, schedules []model.InstructorSchedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range schedules {
		m.insertLocked(&schedules[i])
	}
	return nil
}

func (m *mockInstructorScheduleRepo) GetByID(_ context.Context, id int64) (*model.InstructorSchedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.schedules[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInstructorScheduleRepo) GetByIDForUpdate(ctx context.Context, id int64) (*model.InstructorSchedule, error) {
	return m.GetByID(ctx, id)
}

func (m *mockInstructorScheduleRepo) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.schedules, id)
	return nil
}

func (m *mockInstructorScheduleRepo) DeleteByRequest(_ context.Context, requestID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, s := range m.schedules {
		if s.RequestID != nil && *s.RequestID == requestID {
			delete(m.schedules, id)
			n++
		}
	}
	return n, nil
}

func (m *mockInstructorScheduleRepo) filter(keep func(*model.InstructorSchedule) bool) []model.InstructorSchedule {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []model.InstructorSchedule{}
	for _, s := range m.schedules {
		if keep(s) {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].ScheduleDate.Equal(result[j].ScheduleDate) {
			return result[i].ScheduleDate.Before(result[j].ScheduleDate)
		}
		return result[i].ID < result[j].ID
	})
	return result
}

func (m *mockInstructorScheduleRepo) ListByDateRange(_ context.Context, start, end time.Time, instructorID *int64) ([]model.InstructorSchedule, error) {
	return m.filter(func(s *model.InstructorSchedule) bool {
		if instructorID != nil && s.InstructorID != *instructorID {
			return false
		}
		return s.Overlaps(start, end)
	}), nil
}

func (m *mockInstructorScheduleRepo) ListByInstructor(_ context.Context, instructorID int64) ([]model.InstructorSchedule, error) {
	return m.filter(func(s *model.InstructorSchedule) bool { return s.InstructorID == instructorID }), nil
}

func (m *mockInstructorScheduleRepo) ListByRequest(_ context.Context, requestID int64) ([]model.InstructorSchedule, error) {
	return m.filter(func(s *model.InstructorSchedule) bool {
		return s.RequestID != nil && *s.RequestID == requestID
	}), nil
}

func (m *mockInstructorScheduleRepo) ListBookedInstructorIDs(_ context.Context, date time.Time) ([]int64, error) {
	var ids []int64
	for _, s := range m.filter(func(s *model.InstructorSchedule) bool { return s.Covers(date) }) {
		ids = append(ids, s.InstructorID)
	}
	return ids, nil
}

func (m *mockInstructorScheduleRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.schedules)
}

// ── 测试环境 ──

type mockRepos struct {
	users       *mockUserRepo
	instructors *mockInstructorRepo
	venues      *mockVenueRepo
	requests    *mockTrainingRequestRepo
	schedules   *mockInstructorScheduleRepo
}

// newMockRepository 组装未连接数据库的 Repository，Transaction 直接执行回调
func newMockRepository() (*repository.Repository, *mockRepos) {
	m := &mockRepos{
		users:       newMockUserRepo(),
		instructors: newMockInstructorRepo(),
		venues:      newMockVenueRepo(),
		requests:    newMockTrainingRequestRepo(),
		schedules:   newMockInstructorScheduleRepo(),
	}
	repo := &repository.Repository{
		User:               m.users,
		Instructor:         m.instructors,
		Venue:              m.venues,
		TrainingRequest:    m.requests,
		InstructorSchedule: m.schedules,
	}
	return repo, m
}

// seedDefaults 用户 1、场地 10/11、讲师 5/7/9
func (m *mockRepos) seedDefaults() {
	m.users.add(model.User{ID: 1, Name: "김민수", Email: "minsu@navy.mil"})
	m.users.add(model.User{ID: 2, Name: "이서연", Email: "seoyeon@navy.mil"})
	m.venues.add(model.Venue{ID: 10, Name: "1훈련장", RoomNumber: "A-101"})
	m.venues.add(model.Venue{ID: 11, Name: "2훈련장", RoomNumber: "B-201"})
	m.instructors.add(model.Instructor{ID: 5, Name: "박준호", Rank: "대위"})
	m.instructors.add(model.Instructor{ID: 7, Name: "최지훈", Rank: "소령"})
	m.instructors.add(model.Instructor{ID: 9, Name: "정하늘", Rank: "중위"})
}

func mustDate(s string) time.Time {
	d, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func int64Ptr(v int64) *int64 { return &v }
