package service

import (
	"context"

	"navy-training/backend/internal/dto"
	"navy-training/backend/internal/model"
	"navy-training/backend/internal/repository"
)

// viewBuilder 按 ID 批量查协作方，把申请与日程展开为视图
// 每类协作方一次查询，不做懒加载
type viewBuilder struct {
	users       map[int64]*dto.UserBrief
	instructors map[int64]*dto.InstructorBrief
	venues      map[int64]*dto.VenueBrief
}

func loadRequestViews(ctx context.Context, repo *repository.Repository, reqs []model.TrainingRequest) (*viewBuilder, error) {
	var userIDs, instructorIDs, venueIDs []int64
	for i := range reqs {
		r := &reqs[i]
		userIDs = append(userIDs, r.UserID)
		instructorIDs = append(instructorIDs, r.InstructorIDs()...)
		venueIDs = append(venueIDs, r.VenueID)
		if r.SecondVenueID != nil {
			venueIDs = append(venueIDs, *r.SecondVenueID)
		}
	}

	vb := &viewBuilder{}
	var err error
	if vb.users, err = loadUsers(ctx, repo, uniqueIDs(userIDs)); err != nil {
		return nil, err
	}
	if vb.instructors, err = loadInstructors(ctx, repo, uniqueIDs(instructorIDs)); err != nil {
		return nil, err
	}
	if vb.venues, err = loadVenues(ctx, repo, uniqueIDs(venueIDs)); err != nil {
		return nil, err
	}
	return vb, nil
}

func loadScheduleViews(ctx context.Context, repo *repository.Repository, schedules []model.InstructorSchedule) (*viewBuilder, error) {
	ids := make([]int64, 0, len(schedules))
	for i := range schedules {
		ids = append(ids, schedules[i].InstructorID)
	}
	instructors, err := loadInstructors(ctx, repo, uniqueIDs(ids))
	if err != nil {
		return nil, err
	}
	return &viewBuilder{instructors: instructors}, nil
}

func loadUsers(ctx context.Context, repo *repository.Repository, ids []int64) (map[int64]*dto.UserBrief, error) {
	users, err := repo.User.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	m := make(map[int64]*dto.UserBrief, len(users))
	for _, u := range users {
		m[u.ID] = &dto.UserBrief{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	return m, nil
}

func loadInstructors(ctx context.Context, repo *repository.Repository, ids []int64) (map[int64]*dto.InstructorBrief, error) {
	instructors, err := repo.Instructor.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	m := make(map[int64]*dto.InstructorBrief, len(instructors))
	for _, in := range instructors {
		m[in.ID] = &dto.InstructorBrief{ID: in.ID, Name: in.Name, Rank: in.Rank}
	}
	return m, nil
}

func loadVenues(ctx context.Context, repo *repository.Repository, ids []int64) (map[int64]*dto.VenueBrief, error) {
	venues, err := repo.Venue.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	m := make(map[int64]*dto.VenueBrief, len(venues))
	for _, v := range venues {
		m[v.ID] = &dto.VenueBrief{ID: v.ID, Name: v.Name, RoomNumber: v.RoomNumber}
	}
	return m, nil
}

func (vb *viewBuilder) instructor(id *int64) *dto.InstructorBrief {
	if id == nil {
		return nil
	}
	return vb.instructors[*id]
}

func (vb *viewBuilder) venue(id *int64) *dto.VenueBrief {
	if id == nil {
		return nil
	}
	return vb.venues[*id]
}

func (vb *viewBuilder) request(r *model.TrainingRequest) dto.TrainingRequestResponse {
	return dto.TrainingRequestResponse{
		ID:                      r.ID,
		User:                    vb.users[r.UserID],
		IdentityInstructor:      vb.instructor(r.IdentityInstructorID),
		SecurityInstructor:      vb.instructor(r.SecurityInstructorID),
		CommunicationInstructor: vb.instructor(r.CommunicationInstructorID),
		Venue:                   vb.venue(&r.VenueID),
		SecondVenue:             vb.venue(r.SecondVenueID),
		TrainingType:            r.TrainingType,
		Fleet:                   r.Fleet,
		RequestDate:             r.RequestDate.Format(model.DateLayout),
		RequestEndDate:          model.FormatDatePtr(r.RequestEndDate),
		StartTime:               r.StartTime,
		Status:                  string(r.Status),
		Notes:                   r.Notes,
		Plan:                    r.Plan,
		CreatedAt:               formatTime(r.CreatedAt),
		UpdatedAt:               formatTime(r.UpdatedAt),
	}
}

func (vb *viewBuilder) schedule(s *model.InstructorSchedule) dto.InstructorScheduleResponse {
	return dto.InstructorScheduleResponse{
		ID:           s.ID,
		InstructorID: s.InstructorID,
		Instructor:   vb.instructors[s.InstructorID],
		ScheduleDate: s.ScheduleDate.Format(model.DateLayout),
		EndDate:      model.FormatDatePtr(s.EndDate),
		Description:  s.Description,
		Source:       string(s.Source),
		RequestID:    s.RequestID,
		CreatedAt:    formatTime(s.CreatedAt),
	}
}

// uniqueIDs 去重并保持首次出现顺序
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
