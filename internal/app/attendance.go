package app

import (
	"errors"
	"fmt"
	"time"

	"officedesk/internal/events"
	"officedesk/internal/store"
	"officedesk/pkg/domain"
)

// Punch actions.
const (
	ActionCheckIn  = "in"
	ActionCheckOut = "out"
)

// Punch advances the caller's attendance state machine for today:
// absent -> checked-in -> checked-out. Both directions require
// coordinates; any out-of-order action is rejected without mutating
// the existing record.
func (a *App) Punch(user domain.User, action string, lat, lng *float64) (domain.Attendance, error) {
	if action != ActionCheckIn && action != ActionCheckOut {
		return domain.Attendance{}, ErrInvalidAction
	}
	if lat == nil || lng == nil {
		return domain.Attendance{}, ErrLocationRequired
	}
	now := a.now()
	day := calendarDay(now)

	var (
		rec domain.Attendance
		err error
	)
	switch action {
	case ActionCheckIn:
		rec, err = a.checkIn(user.ID, day, now, *lat, *lng)
	case ActionCheckOut:
		rec, err = a.checkOut(user.ID, day, now, *lat, *lng)
	}
	if err != nil {
		return domain.Attendance{}, err
	}
	a.publish(events.Event{
		Type:       events.TypeAttendancePunch,
		UserID:     user.ID,
		Action:     action,
		OccurredAt: now,
	})
	return rec, nil
}

func (a *App) checkIn(userID string, day, now time.Time, lat, lng float64) (domain.Attendance, error) {
	// The store's (user, day) uniqueness catches the race between the
	// existence check and the insert.
	if _, exists, err := a.store.GetAttendance(userID, day); err != nil {
		return domain.Attendance{}, fmt.Errorf("load attendance: %w", err)
	} else if exists {
		return domain.Attendance{}, ErrInvalidState
	}
	rec, err := a.store.CreateCheckIn(userID, day, now, lat, lng)
	if errors.Is(err, store.ErrAttendanceExists) {
		return domain.Attendance{}, ErrInvalidState
	}
	if err != nil {
		return domain.Attendance{}, fmt.Errorf("create check-in: %w", err)
	}
	return rec, nil
}

func (a *App) checkOut(userID string, day, now time.Time, lat, lng float64) (domain.Attendance, error) {
	rec, exists, err := a.store.GetAttendance(userID, day)
	if err != nil {
		return domain.Attendance{}, fmt.Errorf("load attendance: %w", err)
	}
	if !exists || rec.InTime == nil || rec.OutTime != nil {
		return domain.Attendance{}, ErrInvalidState
	}
	if err := a.store.SetCheckOut(rec.ID, now, lat, lng); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Lost a race with a concurrent check-out.
			return domain.Attendance{}, ErrInvalidState
		}
		return domain.Attendance{}, fmt.Errorf("set check-out: %w", err)
	}
	rec.OutTime = &now
	rec.OutLat = &lat
	rec.OutLng = &lng
	return rec, nil
}

// TodayAttendance returns the caller's record for today, if any.
func (a *App) TodayAttendance(user domain.User) (domain.Attendance, bool, error) {
	return a.store.GetAttendance(user.ID, calendarDay(a.now()))
}

// LiveAttendance lists today's checked-in-but-not-out records with
// usernames resolved, for the admin live map.
func (a *App) LiveAttendance() ([]LiveEntry, error) {
	recs, err := a.store.ListOpenAttendance(calendarDay(a.now()))
	if err != nil {
		return nil, fmt.Errorf("list open attendance: %w", err)
	}
	entries := make([]LiveEntry, 0, len(recs))
	for _, rec := range recs {
		username := "User"
		if u, ok, err := a.store.GetUserByID(rec.UserID); err == nil && ok {
			username = u.Username
		}
		entry := LiveEntry{Username: username}
		if rec.InLat != nil {
			entry.Lat = *rec.InLat
		}
		if rec.InLng != nil {
			entry.Lng = *rec.InLng
		}
		if rec.InTime != nil {
			entry.InTime = rec.InTime.Format(time.RFC3339)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// LiveEntry is one row of the admin live attendance view.
type LiveEntry struct {
	Username string  `json:"username"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	InTime   string  `json:"in_time"`
}

// calendarDay truncates a timestamp to its UTC calendar date.
func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
