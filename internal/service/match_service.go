package service

import (
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/nahidkabir/shongi/internal/model"
	"github.com/nahidkabir/shongi/internal/repository"
)

// MatchService computes compatibility-ranked partner suggestions
type MatchService struct {
	userRepo *repository.UserRepository
	connRepo *repository.ConnectionRepository
}

func NewMatchService(userRepo *repository.UserRepository, connRepo *repository.ConnectionRepository) *MatchService {
	return &MatchService{userRepo: userRepo, connRepo: connRepo}
}

// GetSuggestions ranks other members by compatibility with the viewer.
// Members already in the viewer's graph (requested either way or
// connected) are excluded.
func (s *MatchService) GetSuggestions(userID uuid.UUID, limit int) ([]model.MatchSuggestion, error) {
	viewer, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	candidates, err := s.userRepo.ListCandidates(userID, 200)
	if err != nil {
		return nil, err
	}

	known, err := s.knownUserIDs(userID)
	if err != nil {
		return nil, err
	}

	suggestions := make([]model.MatchSuggestion, 0, len(candidates))
	for i := range candidates {
		c := &candidates[i]
		if known[c.ID] || !c.Privacy.IsProfilePublic {
			continue
		}
		if viewer.Gender != "" && c.Gender == viewer.Gender {
			continue
		}

		score, reasons := compatibility(viewer, c)
		photo := c.ProfilePhoto
		if !c.Privacy.ShowPhoto {
			photo = ""
		}
		suggestions = append(suggestions, model.MatchSuggestion{
			UserID:          c.ID,
			FullName:        c.FullName,
			Age:             c.Age,
			Photo:           photo,
			Occupation:      c.Occupation,
			Location:        c.Location,
			Compatibility:   score,
			MatchingReasons: reasons,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Compatibility > suggestions[j].Compatibility
	})

	if limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions, nil
}

// knownUserIDs collects everyone already in the viewer's graph
func (s *MatchService) knownUserIDs(userID uuid.UUID) (map[uuid.UUID]bool, error) {
	known := map[uuid.UUID]bool{userID: true}

	incoming, err := s.connRepo.IncomingRequests(userID)
	if err != nil {
		return nil, err
	}
	for _, c := range incoming {
		known[c.RequesterID] = true
	}

	sent, err := s.connRepo.SentRequests(userID)
	if err != nil {
		return nil, err
	}
	for _, c := range sent {
		known[c.AddresseeID] = true
	}

	accepted, err := s.connRepo.Connections(userID)
	if err != nil {
		return nil, err
	}
	for _, c := range accepted {
		known[c.PartnerOf(userID)] = true
	}
	return known, nil
}

// compatibility scores a candidate 0..100 against the viewer. Religion
// carries the most weight, then location, age proximity, occupation and
// verification status.
func compatibility(viewer, candidate *model.User) (int, []string) {
	score := 20 // everyone starts with a baseline
	var reasons []string

	if viewer.Religion != "" && strings.EqualFold(viewer.Religion, candidate.Religion) {
		score += 30
		reasons = append(reasons, "same religion")
	}
	if viewer.Location != "" && strings.EqualFold(viewer.Location, candidate.Location) {
		score += 20
		reasons = append(reasons, "same location")
	}

	if viewer.Age > 0 && candidate.Age > 0 {
		diff := viewer.Age - candidate.Age
		if diff < 0 {
			diff = -diff
		}
		switch {
		case diff <= 3:
			score += 15
			reasons = append(reasons, "similar age")
		case diff <= 7:
			score += 8
		}
	}

	if viewer.Occupation != "" && strings.EqualFold(viewer.Occupation, candidate.Occupation) {
		score += 5
		reasons = append(reasons, "same profession")
	}

	verified := 0
	if candidate.PhoneVerification.Status == model.VerificationVerified {
		verified++
	}
	if candidate.IDVerification.Status == model.VerificationVerified {
		verified++
	}
	if candidate.VideoVerification.Status == model.VerificationVerified {
		verified++
	}
	if verified > 0 {
		score += verified * 3
		reasons = append(reasons, "verified profile")
	}

	if score > 100 {
		score = 100
	}
	return score, reasons
}
