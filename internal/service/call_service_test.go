package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nahidkabir/shongi/internal/i18n"
	"github.com/nahidkabir/shongi/internal/model"
)

// vipPair creates two connected VIP users with an open conversation
func vipPair(t *testing.T, env *testEnv) (caller, callee *model.User, convID uuid.UUID) {
	t.Helper()
	caller = env.createUser(t, "caller@example.com", func(u *model.User) {
		u.Plan = model.PlanVIP
	})
	callee = env.createUser(t, "callee@example.com", func(u *model.User) {
		u.Plan = model.PlanVIP
	})
	convID = env.openConversation(t, caller.ID, callee.ID)
	return caller, callee, convID
}

func TestStartCallRequiresVIP(t *testing.T) {
	env := newTestEnv(t)
	basic := env.createUser(t, "basic@example.com")
	partner := env.createUser(t, "partner@example.com")
	convID := env.openConversation(t, basic.ID, partner.ID)

	if _, err := env.call.StartCall(basic.ID, convID, model.CallTypeAudio); err == nil {
		t.Fatal("expected call on basic plan to be refused")
	}

	premium := env.createUser(t, "premium@example.com", func(u *model.User) {
		u.Plan = model.PlanPremium
	})
	convID2 := env.openConversation(t, premium.ID, partner.ID)
	if _, err := env.call.StartCall(premium.ID, convID2, model.CallTypeAudio); err == nil {
		t.Fatal("expected call on premium plan to be refused")
	}
}

func TestCallLifecycleEnded(t *testing.T) {
	env := newTestEnv(t)
	caller, callee, convID := vipPair(t, env)

	base := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	current := base
	env.call.now = func() time.Time { return current }

	session, err := env.call.StartCall(caller.ID, convID, model.CallTypeVideo)
	if err != nil {
		t.Fatalf("StartCall failed: %v", err)
	}
	if session.Status != model.CallStatusCalling {
		t.Errorf("status = %q, want calling", session.Status)
	}

	// The callee gets the offer
	offers := env.notifier.eventsFor(callee.ID)
	if len(offers) == 0 || offers[len(offers)-1].Type != model.WSEventCallOffer {
		t.Error("expected a call_offer event for the callee")
	}

	// Only the callee can answer
	if _, err := env.call.AnswerCall(caller.ID, convID); err == nil {
		t.Fatal("expected caller-side answer to fail")
	}
	answered, err := env.call.AnswerCall(callee.ID, convID)
	if err != nil {
		t.Fatalf("AnswerCall failed: %v", err)
	}
	if answered.Status != model.CallStatusConnected {
		t.Errorf("status = %q, want connected", answered.Status)
	}

	current = base.Add(65 * time.Second)
	msg, err := env.call.EndCall(caller.ID, convID)
	if err != nil {
		t.Fatalf("EndCall failed: %v", err)
	}
	if msg.Type != model.MessageTypeCall {
		t.Errorf("log type = %q, want call", msg.Type)
	}
	if msg.CallOutcome == nil || *msg.CallOutcome != model.CallOutcomeEnded {
		t.Errorf("outcome = %v, want ended", msg.CallOutcome)
	}
	if msg.CallDuration != 65 {
		t.Errorf("duration = %d, want 65", msg.CallDuration)
	}
	if msg.Text != i18n.VideoCall(i18n.LangBengali) {
		t.Errorf("log text = %q, want video call label", msg.Text)
	}

	// Session is gone
	if _, err := env.call.GetSession(convID); err == nil {
		t.Fatal("expected session to be torn down")
	}
}

func TestEndCallBeforePickupLogsMissed(t *testing.T) {
	env := newTestEnv(t)
	caller, _, convID := vipPair(t, env)

	if _, err := env.call.StartCall(caller.ID, convID, model.CallTypeAudio); err != nil {
		t.Fatalf("StartCall failed: %v", err)
	}

	msg, err := env.call.EndCall(caller.ID, convID)
	if err != nil {
		t.Fatalf("EndCall failed: %v", err)
	}
	if msg.CallOutcome == nil || *msg.CallOutcome != model.CallOutcomeMissed {
		t.Errorf("outcome = %v, want missed", msg.CallOutcome)
	}
	if msg.CallDuration != 0 {
		t.Errorf("duration = %d, want 0", msg.CallDuration)
	}

	// The conversation preview carries the missed-call label
	convs, err := env.chat.ListConversations(caller.ID)
	if err != nil {
		t.Fatalf("ListConversations failed: %v", err)
	}
	want := i18n.MissedCall(i18n.LangBengali)
	if convs[0].LastMessage != want {
		t.Errorf("preview = %q, want %q", convs[0].LastMessage, want)
	}
}

func TestRejectCall(t *testing.T) {
	env := newTestEnv(t)
	caller, callee, convID := vipPair(t, env)

	if _, err := env.call.StartCall(caller.ID, convID, model.CallTypeAudio); err != nil {
		t.Fatalf("StartCall failed: %v", err)
	}

	// The caller cannot reject their own call
	if _, err := env.call.RejectCall(caller.ID, convID); err == nil {
		t.Fatal("expected caller-side reject to fail")
	}

	msg, err := env.call.RejectCall(callee.ID, convID)
	if err != nil {
		t.Fatalf("RejectCall failed: %v", err)
	}
	if msg.CallOutcome == nil || *msg.CallOutcome != model.CallOutcomeRejected {
		t.Errorf("outcome = %v, want rejected", msg.CallOutcome)
	}

	if _, err := env.call.GetSession(convID); err == nil {
		t.Fatal("expected session to be torn down after reject")
	}
}

func TestSimulatedPickupConnectsCall(t *testing.T) {
	env := newTestEnv(t)
	caller, _, convID := vipPair(t, env)

	env.call.simulatedPickup = true
	env.call.pickupDelay = 20 * time.Millisecond

	if _, err := env.call.StartCall(caller.ID, convID, model.CallTypeAudio); err != nil {
		t.Fatalf("StartCall failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		session, err := env.call.GetSession(convID)
		if err != nil {
			t.Fatalf("GetSession failed: %v", err)
		}
		if session.Status == model.CallStatusConnected {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("simulated pickup never connected, status %q", session.Status)
		}
		time.Sleep(5 * time.Millisecond)
	}

	msg, err := env.call.EndCall(caller.ID, convID)
	if err != nil {
		t.Fatalf("EndCall failed: %v", err)
	}
	if msg.CallOutcome == nil || *msg.CallOutcome != model.CallOutcomeEnded {
		t.Errorf("outcome = %v, want ended after simulated pickup", msg.CallOutcome)
	}
}

func TestOneCallPerConversation(t *testing.T) {
	env := newTestEnv(t)
	caller, callee, convID := vipPair(t, env)

	if _, err := env.call.StartCall(caller.ID, convID, model.CallTypeAudio); err != nil {
		t.Fatalf("StartCall failed: %v", err)
	}
	if _, err := env.call.StartCall(callee.ID, convID, model.CallTypeAudio); err == nil {
		t.Fatal("expected a second call in the same conversation to fail")
	}
}

func TestCallToggles(t *testing.T) {
	env := newTestEnv(t)
	caller, callee, convID := vipPair(t, env)
	stranger := env.createUser(t, "stranger@example.com")

	if _, err := env.call.StartCall(caller.ID, convID, model.CallTypeVideo); err != nil {
		t.Fatalf("StartCall failed: %v", err)
	}
	if _, err := env.call.AnswerCall(callee.ID, convID); err != nil {
		t.Fatalf("AnswerCall failed: %v", err)
	}

	session, err := env.call.ToggleMute(caller.ID, convID)
	if err != nil {
		t.Fatalf("ToggleMute failed: %v", err)
	}
	if !session.IsMuted {
		t.Error("expected mute on after first toggle")
	}
	session, _ = env.call.ToggleMute(caller.ID, convID)
	if session.IsMuted {
		t.Error("expected mute off after second toggle")
	}

	session, err = env.call.ToggleVideo(callee.ID, convID)
	if err != nil {
		t.Fatalf("ToggleVideo failed: %v", err)
	}
	if !session.IsVideoOff {
		t.Error("expected video off after first toggle")
	}

	if _, err := env.call.ToggleMute(stranger.ID, convID); err == nil {
		t.Fatal("expected non-participant toggle to fail")
	}
}
