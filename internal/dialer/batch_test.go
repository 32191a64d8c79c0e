package dialer

import (
	"context"
	"errors"
	"testing"

	"dialout-service/internal/platform"
)

func TestCreateCalls_PreservesOrderAndIsolatesFailures(t *testing.T) {
	mock := platform.NewMock()
	svc := newTestService(t, mock, Options{})

	numbers := []string{"+14155551234", "not-a-number", "+442071838750"}
	entries := svc.CreateCalls(context.Background(), numbers)

	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for i, number := range numbers {
		if entries[i].PhoneNumber != number {
			t.Fatalf("entry %d: expected %q in input order, got %q", i, number, entries[i].PhoneNumber)
		}
	}

	if entries[0].Result == nil || entries[2].Result == nil {
		t.Fatalf("expected valid numbers to succeed, got %+v", entries)
	}
	if entries[1].Error == nil || entries[1].Error.Stage != StageValidation {
		t.Fatalf("expected validation failure for entry 1, got %+v", entries[1])
	}
	if entries[1].Result != nil {
		t.Fatal("failed entry must not also carry a result")
	}

	if n := mock.Calls("CreateSIPParticipant"); n != 2 {
		t.Fatalf("expected 2 dials for 2 valid numbers, got %d", n)
	}
}

func TestCreateCalls_GeneratedRoomNamesNeverCollide(t *testing.T) {
	mock := platform.NewMock()
	svc := newTestService(t, mock, Options{})

	numbers := make([]string, 50)
	for i := range numbers {
		// Same destination for every attempt; the disambiguator alone must
		// keep the generated rooms apart.
		numbers[i] = "+14155551234"
	}
	entries := svc.CreateCalls(context.Background(), numbers)

	seen := make(map[string]bool, len(entries))
	for i, e := range entries {
		if e.Result == nil {
			t.Fatalf("entry %d: expected success, got %+v", i, e.Error)
		}
		if seen[e.Result.RoomName] {
			t.Fatalf("room name %q generated twice", e.Result.RoomName)
		}
		seen[e.Result.RoomName] = true
	}
}

func TestCreateCalls_PlatformOutageFailsEveryEntryIndependently(t *testing.T) {
	mock := platform.NewMock()
	mock.CreateRoomErr = errors.New("service unavailable")
	svc := newTestService(t, mock, Options{})

	entries := svc.CreateCalls(context.Background(), []string{"+14155551234", "+442071838750"})
	for i, e := range entries {
		if e.Error == nil || e.Error.Stage != StageRoomCreation {
			t.Fatalf("entry %d: expected room_creation failure, got %+v", i, e)
		}
	}
}
