package service

import (
	"context"
	"testing"
)

func TestFindOrCreateRegistersNewUser(t *testing.T) {
	store := newTestStore(t)
	svc := NewUserService(store)

	reg, err := svc.FindOrCreate(context.Background(), 100, "worker", 0)
	if err != nil {
		t.Fatalf("FindOrCreate: %v", err)
	}
	if !reg.Created {
		t.Fatal("expected Created for first contact")
	}
	if reg.User.TelegramID != 100 || reg.User.Username != "worker" {
		t.Fatalf("unexpected user: %+v", reg.User)
	}

	again, err := svc.FindOrCreate(context.Background(), 100, "worker", 0)
	if err != nil {
		t.Fatalf("second FindOrCreate: %v", err)
	}
	if again.Created {
		t.Fatal("second contact must not create")
	}
	if again.User.ID != reg.User.ID {
		t.Fatalf("user id changed: %d != %d", again.User.ID, reg.User.ID)
	}
}

func TestFindOrCreateUpdatesUsername(t *testing.T) {
	store := newTestStore(t)
	svc := NewUserService(store)
	ctx := context.Background()

	first, err := svc.FindOrCreate(ctx, 100, "oldname", 0)
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.FindOrCreate(ctx, 100, "newname", 0)
	if err != nil {
		t.Fatal(err)
	}
	if second.User.Username != "newname" {
		t.Fatalf("username = %q, want newname", second.User.Username)
	}

	stored, err := store.GetUser(ctx, first.User.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Username != "newname" {
		t.Fatalf("stored username = %q, want newname", stored.Username)
	}
}

func TestFindOrCreateBindsReferrer(t *testing.T) {
	store := newTestStore(t)
	svc := NewUserService(store)
	ctx := context.Background()

	refReg, err := svc.FindOrCreate(ctx, 1, "referrer", 0)
	if err != nil {
		t.Fatal(err)
	}

	reg, err := svc.FindOrCreate(ctx, 2, "invited", 1)
	if err != nil {
		t.Fatal(err)
	}
	if reg.Referrer == nil || reg.Referrer.ID != refReg.User.ID {
		t.Fatalf("referrer not bound: %+v", reg.Referrer)
	}
	if reg.User.ReferrerID == nil || *reg.User.ReferrerID != refReg.User.ID {
		t.Fatal("user row missing referrer id")
	}

	referrer, err := store.GetUser(ctx, refReg.User.ID)
	if err != nil {
		t.Fatal(err)
	}
	if referrer.ReferralCount != 1 {
		t.Fatalf("referral count = %d, want 1", referrer.ReferralCount)
	}

	// The link never changes after first registration even if the user
	// opens someone else's start link later.
	other, err := svc.FindOrCreate(ctx, 3, "other", 0)
	if err != nil {
		t.Fatal(err)
	}
	rebind, err := svc.FindOrCreate(ctx, 2, "invited", other.User.TelegramID)
	if err != nil {
		t.Fatal(err)
	}
	if rebind.User.ReferrerID == nil || *rebind.User.ReferrerID != refReg.User.ID {
		t.Fatal("referrer must stay bound to the original")
	}
}

func TestFindOrCreateSelfReferral(t *testing.T) {
	svc := NewUserService(newTestStore(t))

	reg, err := svc.FindOrCreate(context.Background(), 100, "worker", 100)
	if err != nil {
		t.Fatalf("FindOrCreate: %v", err)
	}
	if !reg.SelfReferral {
		t.Fatal("expected SelfReferral flag")
	}
	if reg.User.ReferrerID != nil {
		t.Fatal("self referral must not bind")
	}
}

func TestFindOrCreateUnknownReferrer(t *testing.T) {
	svc := NewUserService(newTestStore(t))

	reg, err := svc.FindOrCreate(context.Background(), 100, "worker", 999)
	if err != nil {
		t.Fatalf("FindOrCreate: %v", err)
	}
	if reg.Referrer != nil || reg.User.ReferrerID != nil {
		t.Fatal("unknown referrer must be ignored")
	}
}

func TestToggleBan(t *testing.T) {
	store := newTestStore(t)
	svc := NewUserService(store)
	ctx := context.Background()
	user := mustCreateUser(t, store, 100, "worker")

	banned, err := svc.ToggleBan(ctx, user.ID)
	if err != nil {
		t.Fatalf("ToggleBan: %v", err)
	}
	if !banned.Banned {
		t.Fatal("expected banned after first toggle")
	}

	unbanned, err := svc.ToggleBan(ctx, user.ID)
	if err != nil {
		t.Fatalf("ToggleBan: %v", err)
	}
	if unbanned.Banned {
		t.Fatal("expected unbanned after second toggle")
	}
}
