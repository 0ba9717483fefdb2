package chat

import (
	"fmt"
	"reflect"
	"sync"
	"testing"
)

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := NewRegistry()

	sess := r.Register("c1", "alice", "public")
	if sess.Username != "alice" || sess.Room != "public" {
		t.Fatalf("unexpected session: %+v", sess)
	}

	got, ok := r.SessionOf("c1")
	if !ok || got != sess {
		t.Fatalf("SessionOf returned %+v, %v; want %+v, true", got, ok, sess)
	}

	if _, ok := r.SessionOf("ghost"); ok {
		t.Fatal("SessionOf returned a session for an unknown connection")
	}
}

func TestRegistryMembersSorted(t *testing.T) {
	r := NewRegistry()

	r.Register("c1", "zoe", "room")
	r.Register("c2", "alice", "room")
	r.Register("c3", "bob", "room")

	want := []string{"alice", "bob", "zoe"}
	if got := r.MembersOf("room"); !reflect.DeepEqual(got, want) {
		t.Fatalf("MembersOf = %v, want %v", got, want)
	}

	if got := r.MembersOf("empty"); len(got) != 0 {
		t.Fatalf("MembersOf unknown room = %v, want empty", got)
	}
}

func TestRegistryUnregisterIdempotent(t *testing.T) {
	r := NewRegistry()
	r.Register("c1", "alice", "room")

	sess, ok := r.Unregister("c1")
	if !ok || sess.Username != "alice" {
		t.Fatalf("first Unregister = %+v, %v", sess, ok)
	}

	if _, ok := r.Unregister("c1"); ok {
		t.Fatal("second Unregister reported a session")
	}

	if got := r.MembersOf("room"); len(got) != 0 {
		t.Fatalf("room still lists members after unregister: %v", got)
	}
}

func TestRegistrySharedUsernameRefcount(t *testing.T) {
	r := NewRegistry()

	// Two connections under one username: the name stays listed until both leave.
	r.Register("c1", "alice", "room")
	r.Register("c2", "alice", "room")

	r.Unregister("c1")
	if got := r.MembersOf("room"); !reflect.DeepEqual(got, []string{"alice"}) {
		t.Fatalf("MembersOf after first departure = %v, want [alice]", got)
	}

	r.Unregister("c2")
	if got := r.MembersOf("room"); len(got) != 0 {
		t.Fatalf("MembersOf after second departure = %v, want empty", got)
	}
}

func TestRegistryReRegisterReleasesOldMembership(t *testing.T) {
	r := NewRegistry()

	r.Register("c1", "alice", "red")
	r.Register("c1", "alice", "blue")

	if got := r.MembersOf("red"); len(got) != 0 {
		t.Fatalf("old room still lists alice: %v", got)
	}
	if got := r.MembersOf("blue"); !reflect.DeepEqual(got, []string{"alice"}) {
		t.Fatalf("new room members = %v, want [alice]", got)
	}

	sess, ok := r.SessionOf("c1")
	if !ok || sess.Room != "blue" {
		t.Fatalf("SessionOf after re-register = %+v, %v", sess, ok)
	}
}

func TestRegistryConnsInRoom(t *testing.T) {
	r := NewRegistry()

	r.Register("c1", "alice", "a")
	r.Register("c2", "bob", "a")
	r.Register("c3", "carol", "b")

	conns := r.ConnsInRoom("a")
	if len(conns) != 2 {
		t.Fatalf("ConnsInRoom(a) = %v, want 2 connections", conns)
	}
	for _, id := range conns {
		if id != "c1" && id != "c2" {
			t.Fatalf("unexpected connection %s in room a", id)
		}
	}
}

func TestRegistryConcurrentChurn(t *testing.T) {
	r := NewRegistry()

	const workers = 32
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := range workers {
		go func() {
			defer wg.Done()

			connID := fmt.Sprintf("conn-%d", i)
			username := fmt.Sprintf("user-%d", i)

			for range 100 {
				r.Register(connID, username, "churn")
				r.Unregister(connID)
			}
			r.Register(connID, username, "churn")
		}()
	}

	wg.Wait()

	if got := len(r.MembersOf("churn")); got != workers {
		t.Fatalf("after quiescence room lists %d members, want %d", got, workers)
	}
}
