package service

import (
	"testing"

	"github.com/nahidkabir/shongi/internal/model"
)

func TestSuggestionsExcludeGraphAndSameGender(t *testing.T) {
	env := newTestEnv(t)
	viewer := env.createUser(t, "viewer@example.com", func(u *model.User) {
		u.Gender = "male"
	})
	connected := env.createUser(t, "connected@example.com")
	requested := env.createUser(t, "requested@example.com")
	sameGender := env.createUser(t, "same@example.com", func(u *model.User) {
		u.Gender = "male"
	})
	private := env.createUser(t, "private@example.com", func(u *model.User) {
		u.Privacy.IsProfilePublic = false
	})
	fresh := env.createUser(t, "fresh@example.com")

	env.connect(t, viewer.ID, connected.ID)
	if err := env.auth.SendConnectionRequest(viewer.ID, requested.ID); err != nil {
		t.Fatalf("SendConnectionRequest failed: %v", err)
	}

	suggestions, err := env.match.GetSuggestions(viewer.ID, 0)
	if err != nil {
		t.Fatalf("GetSuggestions failed: %v", err)
	}
	if len(suggestions) != 1 {
		t.Fatalf("suggestions = %d, want 1", len(suggestions))
	}
	if suggestions[0].UserID != fresh.ID {
		t.Errorf("suggestion = %s, want %s", suggestions[0].UserID, fresh.ID)
	}

	for _, s := range suggestions {
		for _, excluded := range []*model.User{connected, requested, sameGender, private, viewer} {
			if s.UserID == excluded.ID {
				t.Errorf("suggestion set must not contain %s", excluded.Email)
			}
		}
	}
}

func TestSuggestionsRankedByCompatibility(t *testing.T) {
	env := newTestEnv(t)
	viewer := env.createUser(t, "viewer@example.com", func(u *model.User) {
		u.Gender = "male"
		u.Age = 28
		u.Religion = "islam"
		u.Location = "Dhaka"
		u.Occupation = "Engineer"
	})

	// Same religion, location, close age, occupation, and verified
	best := env.createUser(t, "best@example.com", func(u *model.User) {
		u.Age = 27
		u.Religion = "islam"
		u.Location = "Dhaka"
		u.Occupation = "Engineer"
		u.IDVerification = model.Verification{Status: model.VerificationVerified, EvidenceURL: "x"}
	})
	// Same religion only
	middle := env.createUser(t, "middle@example.com", func(u *model.User) {
		u.Age = 45
		u.Religion = "islam"
		u.Location = "Sylhet"
		u.Occupation = "Doctor"
	})
	// Nothing in common
	weakest := env.createUser(t, "weakest@example.com", func(u *model.User) {
		u.Age = 50
		u.Religion = "hinduism"
		u.Location = "Khulna"
		u.Occupation = "Artist"
	})

	suggestions, err := env.match.GetSuggestions(viewer.ID, 0)
	if err != nil {
		t.Fatalf("GetSuggestions failed: %v", err)
	}
	if len(suggestions) != 3 {
		t.Fatalf("suggestions = %d, want 3", len(suggestions))
	}

	if suggestions[0].UserID != best.ID {
		t.Errorf("top suggestion = %s, want %s", suggestions[0].UserID, best.ID)
	}
	if suggestions[1].UserID != middle.ID {
		t.Errorf("second suggestion = %s, want %s", suggestions[1].UserID, middle.ID)
	}
	if suggestions[2].UserID != weakest.ID {
		t.Errorf("last suggestion = %s, want %s", suggestions[2].UserID, weakest.ID)
	}

	if suggestions[0].Compatibility > 100 {
		t.Errorf("compatibility = %d, must be capped at 100", suggestions[0].Compatibility)
	}
	if suggestions[2].Compatibility != 20 {
		t.Errorf("baseline compatibility = %d, want 20", suggestions[2].Compatibility)
	}

	// Reasons name what actually matched
	foundReligion := false
	for _, r := range suggestions[0].MatchingReasons {
		if r == "same religion" {
			foundReligion = true
		}
	}
	if !foundReligion {
		t.Errorf("reasons = %v, want to include 'same religion'", suggestions[0].MatchingReasons)
	}
	if len(suggestions[2].MatchingReasons) != 0 {
		t.Errorf("reasons for no-overlap candidate = %v, want none", suggestions[2].MatchingReasons)
	}
}

func TestSuggestionsLimit(t *testing.T) {
	env := newTestEnv(t)
	viewer := env.createUser(t, "viewer@example.com", func(u *model.User) {
		u.Gender = "male"
	})
	for _, email := range []string{"c1@example.com", "c2@example.com", "c3@example.com"} {
		env.createUser(t, email)
	}

	suggestions, err := env.match.GetSuggestions(viewer.ID, 2)
	if err != nil {
		t.Fatalf("GetSuggestions failed: %v", err)
	}
	if len(suggestions) != 2 {
		t.Errorf("suggestions = %d, want 2 (limited)", len(suggestions))
	}
}

func TestSuggestionsHidePhotoWhenPrivate(t *testing.T) {
	env := newTestEnv(t)
	viewer := env.createUser(t, "viewer@example.com", func(u *model.User) {
		u.Gender = "male"
	})
	env.createUser(t, "shy@example.com", func(u *model.User) {
		u.ProfilePhoto = "https://cdn.example.com/p.jpg"
		u.Privacy.ShowPhoto = false
	})

	suggestions, err := env.match.GetSuggestions(viewer.ID, 0)
	if err != nil {
		t.Fatalf("GetSuggestions failed: %v", err)
	}
	if len(suggestions) != 1 {
		t.Fatalf("suggestions = %d, want 1", len(suggestions))
	}
	if suggestions[0].Photo != "" {
		t.Error("expected photo to be hidden when ShowPhoto is off")
	}
}
