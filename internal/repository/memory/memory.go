// Package memory provides an in-memory implementation of the repository
// interfaces. It mirrors the duplicate-key and cascade semantics of the
// MongoDB implementations and backs the service and handler tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pulsefit/fitness-tracker/internal/domain"
	"pulsefit/fitness-tracker/internal/repository"
)

// Store holds every collection behind a single mutex.
type Store struct {
	mu          sync.Mutex
	users       map[primitive.ObjectID]domain.User
	profiles    map[primitive.ObjectID]domain.UserProfile
	exercises   map[primitive.ObjectID]domain.Exercise
	plans       map[primitive.ObjectID]domain.WorkoutPlan
	weeks       map[primitive.ObjectID]domain.WorkoutPlanWeek
	days        map[primitive.ObjectID]domain.WorkoutPlanDay
	planEntries map[primitive.ObjectID]domain.WorkoutPlanExercise
	logs        map[primitive.ObjectID]domain.WorkoutLog
	logEntries  map[primitive.ObjectID]domain.WorkoutLogExercise
	progress    map[primitive.ObjectID]domain.Progress
}

// New creates an empty store.
func New() *Store {
	return &Store{
		users:       make(map[primitive.ObjectID]domain.User),
		profiles:    make(map[primitive.ObjectID]domain.UserProfile),
		exercises:   make(map[primitive.ObjectID]domain.Exercise),
		plans:       make(map[primitive.ObjectID]domain.WorkoutPlan),
		weeks:       make(map[primitive.ObjectID]domain.WorkoutPlanWeek),
		days:        make(map[primitive.ObjectID]domain.WorkoutPlanDay),
		planEntries: make(map[primitive.ObjectID]domain.WorkoutPlanExercise),
		logs:        make(map[primitive.ObjectID]domain.WorkoutLog),
		logEntries:  make(map[primitive.ObjectID]domain.WorkoutLogExercise),
		progress:    make(map[primitive.ObjectID]domain.Progress),
	}
}

// === UserRepository ===

func (s *Store) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}

	user.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = *user
	return user.ID, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (s *Store) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) List(ctx context.Context) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]domain.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

// === ProfileRepository ===

// Profiles returns the store as a repository.ProfileRepository. The method
// names on Store would otherwise collide, so each sub-repository is exposed
// through a thin view type.
func (s *Store) Profiles() repository.ProfileRepository { return profileView{s} }

type profileView struct{ s *Store }

func (v profileView) Create(ctx context.Context, profile *domain.UserProfile) (primitive.ObjectID, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	for _, existing := range v.s.profiles {
		if existing.UserID == profile.UserID || existing.ContactNumber == profile.ContactNumber {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}

	profile.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	v.s.profiles[profile.ID] = *profile
	return profile.ID, nil
}

func (v profileView) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.UserProfile, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	for _, profile := range v.s.profiles {
		if profile.UserID == userID {
			p := profile
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (v profileView) Update(ctx context.Context, profile *domain.UserProfile) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	if _, ok := v.s.profiles[profile.ID]; !ok {
		return repository.ErrNotFound
	}
	profile.UpdatedAt = time.Now().UTC()
	v.s.profiles[profile.ID] = *profile
	return nil
}

// === ExerciseRepository ===

func (s *Store) Exercises() repository.ExerciseRepository { return exerciseView{s} }

type exerciseView struct{ s *Store }

func (v exerciseView) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	exercise.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	exercise.CreatedAt = now
	exercise.UpdatedAt = now
	v.s.exercises[exercise.ID] = *exercise
	return exercise.ID, nil
}

func (v exerciseView) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	exercise, ok := v.s.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &exercise, nil
}

func (v exerciseView) List(ctx context.Context, limit int64) ([]domain.Exercise, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	exercises := make([]domain.Exercise, 0, len(v.s.exercises))
	for _, exercise := range v.s.exercises {
		exercises = append(exercises, exercise)
	}
	sort.Slice(exercises, func(i, j int) bool { return exercises[i].Name < exercises[j].Name })
	if limit > 0 && int64(len(exercises)) > limit {
		exercises = exercises[:limit]
	}
	return exercises, nil
}

// === WorkoutPlanRepository ===

func (s *Store) Plans() repository.WorkoutPlanRepository { return planView{s} }

type planView struct{ s *Store }

func (v planView) Create(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	if plan.Weeks < 1 {
		plan.Weeks = 1
	}
	plan.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	v.s.plans[plan.ID] = *plan
	return plan.ID, nil
}

func (v planView) GetOwned(ctx context.Context, id, userID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	plan, ok := v.s.plans[id]
	if !ok || plan.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &plan, nil
}

func (v planView) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	plan, ok := v.s.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &plan, nil
}

func (v planView) GetByOwner(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	var plans []domain.WorkoutPlan
	for _, plan := range v.s.plans {
		if plan.UserID == userID {
			plans = append(plans, plan)
		}
	}
	sort.Slice(plans, func(i, j int) bool { return plans[i].CreatedAt.Before(plans[j].CreatedAt) })
	return plans, nil
}

func (v planView) Update(ctx context.Context, plan *domain.WorkoutPlan) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	existing, ok := v.s.plans[plan.ID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.Name = plan.Name
	existing.Description = plan.Description
	existing.Weeks = plan.Weeks
	existing.UpdatedAt = time.Now().UTC()
	v.s.plans[plan.ID] = existing
	return nil
}

func (v planView) Delete(ctx context.Context, id primitive.ObjectID) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	if _, ok := v.s.plans[id]; !ok {
		return repository.ErrNotFound
	}
	for weekID, week := range v.s.weeks {
		if week.WorkoutPlanID != id {
			continue
		}
		v.s.deleteWeekLocked(weekID)
	}
	delete(v.s.plans, id)
	return nil
}

// deleteWeekLocked cascades a week removal; callers hold the mutex.
func (s *Store) deleteWeekLocked(weekID primitive.ObjectID) {
	for dayID, day := range s.days {
		if day.WeekID != weekID {
			continue
		}
		for entryID, entry := range s.planEntries {
			if entry.DayID == dayID {
				delete(s.planEntries, entryID)
			}
		}
		delete(s.days, dayID)
	}
	delete(s.weeks, weekID)
}

// === PlanWeekRepository ===

func (s *Store) Weeks() repository.PlanWeekRepository { return weekView{s} }

type weekView struct{ s *Store }

func (v weekView) Create(ctx context.Context, week *domain.WorkoutPlanWeek) (primitive.ObjectID, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	for _, existing := range v.s.weeks {
		if existing.WorkoutPlanID == week.WorkoutPlanID && existing.WeekNumber == week.WeekNumber {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}

	week.ID = primitive.NewObjectID()
	v.s.weeks[week.ID] = *week
	return week.ID, nil
}

func (v weekView) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlanWeek, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	week, ok := v.s.weeks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &week, nil
}

func (v weekView) GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.WorkoutPlanWeek, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	var weeks []domain.WorkoutPlanWeek
	for _, week := range v.s.weeks {
		if week.WorkoutPlanID == planID {
			weeks = append(weeks, week)
		}
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].WeekNumber < weeks[j].WeekNumber })
	return weeks, nil
}

func (v weekView) GetByNumber(ctx context.Context, planID primitive.ObjectID, weekNumber int) (*domain.WorkoutPlanWeek, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	for _, week := range v.s.weeks {
		if week.WorkoutPlanID == planID && week.WeekNumber == weekNumber {
			w := week
			return &w, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (v weekView) Delete(ctx context.Context, id primitive.ObjectID) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	if _, ok := v.s.weeks[id]; !ok {
		return repository.ErrNotFound
	}
	v.s.deleteWeekLocked(id)
	return nil
}

// === PlanDayRepository ===

func (s *Store) Days() repository.PlanDayRepository { return dayView{s} }

type dayView struct{ s *Store }

func (v dayView) Create(ctx context.Context, day *domain.WorkoutPlanDay) (primitive.ObjectID, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	for _, existing := range v.s.days {
		if existing.WeekID == day.WeekID && existing.DayOfWeek == day.DayOfWeek {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}

	day.ID = primitive.NewObjectID()
	v.s.days[day.ID] = *day
	return day.ID, nil
}

func (v dayView) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlanDay, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	day, ok := v.s.days[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &day, nil
}

func (v dayView) GetByWeekID(ctx context.Context, weekID primitive.ObjectID) ([]domain.WorkoutPlanDay, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	var days []domain.WorkoutPlanDay
	for _, day := range v.s.days {
		if day.WeekID == weekID {
			days = append(days, day)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].DayOfWeek < days[j].DayOfWeek })
	return days, nil
}

func (v dayView) GetByLabel(ctx context.Context, weekID primitive.ObjectID, dayOfWeek string) (*domain.WorkoutPlanDay, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	for _, day := range v.s.days {
		if day.WeekID == weekID && day.DayOfWeek == dayOfWeek {
			d := day
			return &d, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (v dayView) GetOwned(ctx context.Context, id, userID primitive.ObjectID) (*domain.WorkoutPlanDay, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	day, ok := v.s.days[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	week, ok := v.s.weeks[day.WeekID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	plan, ok := v.s.plans[week.WorkoutPlanID]
	if !ok || plan.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &day, nil
}

func (v dayView) Delete(ctx context.Context, id primitive.ObjectID) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	if _, ok := v.s.days[id]; !ok {
		return repository.ErrNotFound
	}
	for entryID, entry := range v.s.planEntries {
		if entry.DayID == id {
			delete(v.s.planEntries, entryID)
		}
	}
	delete(v.s.days, id)
	return nil
}

// === PlanExerciseRepository ===

func (s *Store) PlanExercises() repository.PlanExerciseRepository { return planExerciseView{s} }

type planExerciseView struct{ s *Store }

func (v planExerciseView) Create(ctx context.Context, entry *domain.WorkoutPlanExercise) (primitive.ObjectID, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	entry.ID = primitive.NewObjectID()
	v.s.planEntries[entry.ID] = *entry
	return entry.ID, nil
}

func (v planExerciseView) GetByDayID(ctx context.Context, dayID primitive.ObjectID) ([]domain.WorkoutPlanExercise, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	var entries []domain.WorkoutPlanExercise
	for _, entry := range v.s.planEntries {
		if entry.DayID == dayID {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Order < entries[j].Order })
	return entries, nil
}

func (v planExerciseView) GetByDayAndExercise(ctx context.Context, dayID, exerciseID primitive.ObjectID) (*domain.WorkoutPlanExercise, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	for _, entry := range v.s.planEntries {
		if entry.DayID == dayID && entry.ExerciseID == exerciseID {
			e := entry
			return &e, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (v planExerciseView) ExistsInPlan(ctx context.Context, planID, exerciseID primitive.ObjectID) (bool, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	for _, entry := range v.s.planEntries {
		if entry.ExerciseID != exerciseID {
			continue
		}
		day, ok := v.s.days[entry.DayID]
		if !ok {
			continue
		}
		week, ok := v.s.weeks[day.WeekID]
		if ok && week.WorkoutPlanID == planID {
			return true, nil
		}
	}
	return false, nil
}

func (v planExerciseView) Update(ctx context.Context, entry *domain.WorkoutPlanExercise) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	existing, ok := v.s.planEntries[entry.ID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.Sets = entry.Sets
	existing.Reps = entry.Reps
	existing.Order = entry.Order
	v.s.planEntries[entry.ID] = existing
	return nil
}

func (v planExerciseView) Delete(ctx context.Context, dayID, exerciseID primitive.ObjectID) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	for entryID, entry := range v.s.planEntries {
		if entry.DayID == dayID && entry.ExerciseID == exerciseID {
			delete(v.s.planEntries, entryID)
			return nil
		}
	}
	return repository.ErrNotFound
}

// === WorkoutLogRepository ===

func (s *Store) Logs() repository.WorkoutLogRepository { return logView{s} }

type logView struct{ s *Store }

func (v logView) Create(ctx context.Context, log *domain.WorkoutLog) (primitive.ObjectID, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	log.ID = primitive.NewObjectID()
	if log.Date.IsZero() {
		log.Date = time.Now().UTC()
	}
	if log.Status == "" {
		log.Status = "completed"
	}
	log.CreatedAt = time.Now().UTC()
	v.s.logs[log.ID] = *log
	return log.ID, nil
}

func (v logView) GetOwned(ctx context.Context, id, userID primitive.ObjectID) (*domain.WorkoutLog, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	log, ok := v.s.logs[id]
	if !ok || log.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &log, nil
}

func (v logView) GetByOwner(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutLog, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	var logs []domain.WorkoutLog
	for _, log := range v.s.logs {
		if log.UserID == userID {
			logs = append(logs, log)
		}
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].Date.After(logs[j].Date) })
	return logs, nil
}

func (v logView) AddExercise(ctx context.Context, entry *domain.WorkoutLogExercise) (primitive.ObjectID, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	entry.ID = primitive.NewObjectID()
	v.s.logEntries[entry.ID] = *entry
	return entry.ID, nil
}

func (v logView) GetExercises(ctx context.Context, logID primitive.ObjectID) ([]domain.WorkoutLogExercise, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	var entries []domain.WorkoutLogExercise
	for _, entry := range v.s.logEntries {
		if entry.WorkoutLogID == logID {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (v logView) Delete(ctx context.Context, id primitive.ObjectID) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	if _, ok := v.s.logs[id]; !ok {
		return repository.ErrNotFound
	}
	for entryID, entry := range v.s.logEntries {
		if entry.WorkoutLogID == id {
			delete(v.s.logEntries, entryID)
		}
	}
	delete(v.s.logs, id)
	return nil
}

// === ProgressRepository ===

func (s *Store) Progress() repository.ProgressRepository { return progressView{s} }

type progressView struct{ s *Store }

func (v progressView) Create(ctx context.Context, progress *domain.Progress) (primitive.ObjectID, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	progress.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	progress.CreatedAt = now
	progress.UpdatedAt = now
	if progress.Date.IsZero() {
		progress.Date = now
	}
	v.s.progress[progress.ID] = *progress
	return progress.ID, nil
}

func (v progressView) GetOwned(ctx context.Context, id, userID primitive.ObjectID) (*domain.Progress, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	progress, ok := v.s.progress[id]
	if !ok || progress.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &progress, nil
}

func (v progressView) GetByOwner(ctx context.Context, userID primitive.ObjectID) ([]domain.Progress, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	var records []domain.Progress
	for _, progress := range v.s.progress {
		if progress.UserID == userID {
			records = append(records, progress)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Date.After(records[j].Date) })
	return records, nil
}

func (v progressView) Update(ctx context.Context, progress *domain.Progress) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	existing, ok := v.s.progress[progress.ID]
	if !ok || existing.UserID != progress.UserID {
		return repository.ErrNotFound
	}
	progress.CreatedAt = existing.CreatedAt
	progress.UpdatedAt = time.Now().UTC()
	v.s.progress[progress.ID] = *progress
	return nil
}

func (v progressView) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	progress, ok := v.s.progress[id]
	if !ok || progress.UserID != userID {
		return repository.ErrNotFound
	}
	delete(v.s.progress, id)
	return nil
}
