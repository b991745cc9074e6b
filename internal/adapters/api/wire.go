package api

import (
	"time"

	"eaglekidz/internal/domain/person"
	"eaglekidz/internal/domain/review"
	"eaglekidz/internal/domain/week"
)

// HealthInfo is the payload of the liveness endpoints.
type HealthInfo struct {
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

type wireService struct {
	Name string `json:"name"`
	Time string `json:"time"`
	SIC  string `json:"sic"`
}

type wireWeek struct {
	ID        string        `json:"id"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Services  []wireService `json:"services"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type createWeekRequest struct {
	StartTime string        `json:"start_time"`
	EndTime   string        `json:"end_time"`
	Services  []wireService `json:"services,omitempty"`
}

type updateServicesRequest struct {
	Services []wireService `json:"services"`
}

type wireReview struct {
	ID           string    `json:"id"`
	WeekID       string    `json:"week_id"`
	WhatWentWell string    `json:"what_went_well"`
	CanImprove   string    `json:"can_improve"`
	ActionPlans  string    `json:"action_plans"`
	Summary      string    `json:"summary"`
	Deleted      bool      `json:"deleted"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type createReviewRequest struct {
	WeekID       string `json:"week_id"`
	WhatWentWell string `json:"what_went_well"`
	CanImprove   string `json:"can_improve"`
	ActionPlans  string `json:"action_plans"`
	Summary      string `json:"summary"`
}

type updateReviewRequest struct {
	WhatWentWell *string `json:"what_went_well,omitempty"`
	CanImprove   *string `json:"can_improve,omitempty"`
	ActionPlans  *string `json:"action_plans,omitempty"`
	Summary      *string `json:"summary,omitempty"`
}

type wirePerson struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Type      string    `json:"type"`
	AgeGroup  []string  `json:"age_group,omitempty"`
	Roles     []string  `json:"roles,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	Deleted   bool      `json:"deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type personRequest struct {
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Type      string   `json:"type"`
	AgeGroup  []string `json:"age_group"`
	Roles     []string `json:"roles"`
	Phone     string   `json:"phone"`
	Email     string   `json:"email,omitempty"`
	Notes     string   `json:"notes,omitempty"`
}

type summarizeRequest struct {
	WhatWentWell string `json:"what_went_well"`
	CanImprove   string `json:"can_improve"`
	ActionPlans  string `json:"action_plans"`
}

type summarizeResponse struct {
	Success bool `json:"success"`
	Data    *struct {
		Summary string `json:"summary"`
	} `json:"data"`
}

func toWeek(w wireWeek) week.Week {
	out := week.Week{
		ID:        w.ID,
		StartTime: w.StartTime,
		EndTime:   w.EndTime,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
	for _, s := range w.Services {
		out.Services = append(out.Services, week.Service{Name: s.Name, Time: s.Time, MinisterID: s.SIC})
	}
	return out
}

func fromServices(services []week.Service) []wireService {
	out := make([]wireService, 0, len(services))
	for _, s := range services {
		out = append(out, wireService{Name: s.Name, Time: s.Time, SIC: s.MinisterID})
	}
	return out
}

func toReview(r wireReview) review.Review {
	return review.Review{
		ID:           r.ID,
		WeekID:       r.WeekID,
		WhatWentWell: r.WhatWentWell,
		CanImprove:   r.CanImprove,
		ActionPlans:  r.ActionPlans,
		Summary:      r.Summary,
		Deleted:      r.Deleted,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func toPerson(p wirePerson) person.Person {
	return person.Person{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Type:      p.Type,
		AgeGroup:  p.AgeGroup,
		Roles:     p.Roles,
		Phone:     p.Phone,
		Email:     p.Email,
		Notes:     p.Notes,
		Deleted:   p.Deleted,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func fromPersonDraft(d person.Draft) personRequest {
	req := personRequest{
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Type:      d.Type,
		AgeGroup:  d.AgeGroup,
		Roles:     d.Roles,
		Phone:     d.Phone,
		Email:     d.Email,
		Notes:     d.Notes,
	}
	if req.AgeGroup == nil {
		req.AgeGroup = []string{}
	}
	if req.Roles == nil {
		req.Roles = []string{}
	}
	return req
}

func mapAll[W, D any](in []W, fn func(W) D) []D {
	out := make([]D, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}
