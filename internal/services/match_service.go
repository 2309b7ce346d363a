// Package services – MatchService
//
// This file implements the matching engine. Matching is pure computation
// over the user population: no state of its own, no mutation. The language
// sets returned on each match are display projections filtered down to the
// mutually relevant codes, never stored back.
package services

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"github.com/nvasilas/go-tandem-backend/internal/domain"
	"github.com/nvasilas/go-tandem-backend/internal/repo"
)

// MatchService computes mutual-exchange partner matches and professional
// teacher matches.
type MatchService struct {
	DB *gorm.DB
}

// PartnerMatch is one mutual-exchange result. TeachLangs and LearnLangs are
// projected: only the codes relevant to the requesting user remain.
type PartnerMatch struct {
	User       domain.User     `json:"user"`
	TeachLangs domain.LangList `json:"teach_langs"`
	LearnLangs domain.LangList `json:"learn_langs"`
}

// TeacherMatch is one professional-teacher result, annotated with the
// teacher's rating aggregate. AvgRating is nil when no reviews exist; the
// caller decides how to display an unrated teacher.
type TeacherMatch struct {
	User        domain.User     `json:"user"`
	TeachLangs  domain.LangList `json:"teach_langs"`
	Offers      []domain.Offer  `json:"offers"`
	AvgRating   *float64        `json:"avg_rating,omitempty"`
	ReviewCount int64           `json:"review_count"`
}

// Partners returns every non-private user whose teaches intersect the
// requester's learns AND whose learns intersect the requester's teaches.
// The requester never matches themselves. An empty teach or learn set on
// the requester yields no matches by definition of intersection.
//
// Results are ordered by username ascending so the listing is deterministic.
func (s *MatchService) Partners(ctx context.Context, requester *domain.User) ([]PartnerMatch, error) {
	users, err := repo.ListUsers(ctx, s.DB)
	if err != nil {
		return nil, err
	}

	out := []PartnerMatch{}
	for _, u := range users {
		if u.ID == requester.ID || u.Private {
			continue
		}
		theyTeach := u.TeachLangs.Intersect(requester.LearnLangs)
		theyLearn := u.LearnLangs.Intersect(requester.TeachLangs)
		if len(theyTeach) == 0 || len(theyLearn) == 0 {
			continue
		}
		out = append(out, PartnerMatch{User: u, TeachLangs: theyTeach, LearnLangs: theyLearn})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].User.Username < out[j].User.Username })
	return out, nil
}

// Teachers returns every professional user who teaches at least one language
// the requester wants to learn AND has at least one offer in such a
// language. Each result carries the projected teach set, the relevant
// offers, and the rating aggregate.
//
// Ordering is deliberate: best-rated first, then by review count, then by
// username for stability.
func (s *MatchService) Teachers(ctx context.Context, requester *domain.User) ([]TeacherMatch, error) {
	users, err := repo.ListUsers(ctx, s.DB)
	if err != nil {
		return nil, err
	}

	var candidates []domain.User
	var ids []string
	for _, u := range users {
		if u.ID == requester.ID || !u.Professional {
			continue
		}
		if len(u.TeachLangs.Intersect(requester.LearnLangs)) == 0 {
			continue
		}
		candidates = append(candidates, u)
		ids = append(ids, u.ID)
	}
	if len(candidates) == 0 {
		return []TeacherMatch{}, nil
	}

	offersByOwner, err := repo.ListOffersByOwners(ctx, s.DB, ids)
	if err != nil {
		return nil, err
	}
	stats, err := repo.RatingStatsBySubjects(ctx, s.DB, ids)
	if err != nil {
		return nil, err
	}

	out := []TeacherMatch{}
	for _, u := range candidates {
		var relevant []domain.Offer
		for _, o := range offersByOwner[u.ID] {
			if requester.LearnLangs.Contains(o.Language) {
				relevant = append(relevant, o)
			}
		}
		if len(relevant) == 0 {
			continue
		}
		m := TeacherMatch{
			User:       u,
			TeachLangs: u.TeachLangs.Intersect(requester.LearnLangs),
			Offers:     relevant,
		}
		if st, ok := stats[u.ID]; ok && st.Count > 0 {
			avg := float64(st.Sum) / float64(st.Count)
			m.AvgRating = &avg
			m.ReviewCount = st.Count
		}
		out = append(out, m)
	}

	sort.Slice(out, func(i, j int) bool {
		ri, rj := out[i], out[j]
		ai, aj := 0.0, 0.0
		if ri.AvgRating != nil {
			ai = *ri.AvgRating
		}
		if rj.AvgRating != nil {
			aj = *rj.AvgRating
		}
		if ai != aj {
			return ai > aj
		}
		if ri.ReviewCount != rj.ReviewCount {
			return ri.ReviewCount > rj.ReviewCount
		}
		return ri.User.Username < rj.User.Username
	})
	return out, nil
}

// SearchResult is the public projection returned by language search.
type SearchResult struct {
	Username   string          `json:"username"`
	Country    string          `json:"country"`
	TeachLangs domain.LangList `json:"teach_langs"`
	LearnLangs domain.LangList `json:"learn_langs"`
}

// SearchByLanguage returns every user who teaches or learns the queried
// language code. A blank or unparseable query yields an empty result.
func (s *MatchService) SearchByLanguage(ctx context.Context, query string) ([]SearchResult, error) {
	code := normalizeLang(query)
	if code == "" {
		return []SearchResult{}, nil
	}
	users, err := repo.ListUsers(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	out := []SearchResult{}
	for _, u := range users {
		if u.TeachLangs.Contains(code) || u.LearnLangs.Contains(code) {
			out = append(out, SearchResult{
				Username:   u.Username,
				Country:    u.Country,
				TeachLangs: u.TeachLangs,
				LearnLangs: u.LearnLangs,
			})
		}
	}
	return out, nil
}
