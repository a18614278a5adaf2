package rooms

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	apperrors "github.com/louisbranch/clubhouse/internal/platform/errors"
	"github.com/louisbranch/clubhouse/internal/services/realtime/presence"
)

type fakeMembers struct {
	mu      sync.Mutex
	members map[string]map[string]bool
	err     error
	calls   int
}

func (f *fakeMembers) IsMember(_ context.Context, clubID, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	return f.members[clubID][userID], nil
}

func newFakeMembers() *fakeMembers {
	return &fakeMembers{members: map[string]map[string]bool{
		"c1": {"alice": true, "bob": true},
		"c2": {"alice": true},
	}}
}

func TestJoinAndSubscribers(t *testing.T) {
	g := NewGateway(newFakeMembers())
	ctx := context.Background()

	if err := g.Join(ctx, "conn-b", "bob", "c1"); err != nil {
		t.Fatalf("join bob: %v", err)
	}
	if err := g.Join(ctx, "conn-a", "alice", "c1"); err != nil {
		t.Fatalf("join alice: %v", err)
	}
	got := g.SubscribersOf("c1")
	if len(got) != 2 || got[0] != "conn-a" || got[1] != "conn-b" {
		t.Fatalf("subscribers = %v, want [conn-a conn-b]", got)
	}
	if rooms := g.RoomsOf("conn-a"); len(rooms) != 1 || rooms[0] != "c1" {
		t.Fatalf("rooms = %v, want [c1]", rooms)
	}
}

func TestJoinNonMemberIsUnauthorizedAndChangesNothing(t *testing.T) {
	g := NewGateway(newFakeMembers())
	ctx := context.Background()

	if err := g.Join(ctx, "conn-a", "alice", "c1"); err != nil {
		t.Fatalf("join: %v", err)
	}
	err := g.Join(ctx, "conn-b", "bob", "c2")
	if !apperrors.IsCode(err, apperrors.CodeUnauthorized) {
		t.Fatalf("code = %v, want %v", apperrors.GetCode(err), apperrors.CodeUnauthorized)
	}
	if subs := g.SubscribersOf("c2"); len(subs) != 0 {
		t.Fatalf("c2 subscribers = %v, want empty", subs)
	}
	if rooms := g.RoomsOf("conn-b"); len(rooms) != 0 {
		t.Fatalf("conn-b rooms = %v, want empty", rooms)
	}
	if subs := g.SubscribersOf("c1"); len(subs) != 1 {
		t.Fatalf("c1 subscribers = %v, want [conn-a]", subs)
	}

	// A denied join does not block a later join elsewhere.
	if err := g.Join(ctx, "conn-b", "bob", "c1"); err != nil {
		t.Fatalf("retry join: %v", err)
	}
}

func TestJoinCheckerFailure(t *testing.T) {
	members := newFakeMembers()
	members.err = errors.New("store down")
	g := NewGateway(members)

	err := g.Join(context.Background(), "conn-a", "alice", "c1")
	if !apperrors.IsCode(err, apperrors.CodePersistenceFailure) {
		t.Fatalf("code = %v, want %v", apperrors.GetCode(err), apperrors.CodePersistenceFailure)
	}
}

func TestJoinBlankIDs(t *testing.T) {
	members := newFakeMembers()
	g := NewGateway(members)

	err := g.Join(context.Background(), "conn-a", "alice", " ")
	if !apperrors.IsCode(err, apperrors.CodeInvalidInput) {
		t.Fatalf("code = %v, want %v", apperrors.GetCode(err), apperrors.CodeInvalidInput)
	}
	if members.calls != 0 {
		t.Fatalf("checker calls = %d, want 0", members.calls)
	}
}

func TestLeaveIsIdempotent(t *testing.T) {
	g := NewGateway(newFakeMembers())
	if err := g.Join(context.Background(), "conn-a", "alice", "c1"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if !g.Leave("conn-a", "c1") {
		t.Fatal("first leave = false, want true")
	}
	if g.Leave("conn-a", "c1") {
		t.Fatal("second leave = true, want false")
	}
	if subs := g.SubscribersOf("c1"); len(subs) != 0 {
		t.Fatalf("subscribers = %v, want empty", subs)
	}
}

func TestDisconnectCleansRegistryAndGateway(t *testing.T) {
	registry := presence.NewRegistry()
	g := NewGateway(newFakeMembers())
	ctx := context.Background()

	registry.Register("alice", "conn-a")
	registry.Register("alice", "conn-a2")
	for _, club := range []string{"c1", "c2"} {
		if err := g.Join(ctx, "conn-a", "alice", club); err != nil {
			t.Fatalf("join %s: %v", club, err)
		}
	}
	if err := g.Join(ctx, "conn-a2", "alice", "c1"); err != nil {
		t.Fatalf("join second tab: %v", err)
	}

	rooms := g.DropConnection("conn-a")
	registry.Unregister("conn-a")

	if len(rooms) != 2 || rooms[0] != "c1" || rooms[1] != "c2" {
		t.Fatalf("dropped rooms = %v, want [c1 c2]", rooms)
	}
	for _, club := range []string{"c1", "c2"} {
		for _, conn := range g.SubscribersOf(club) {
			if conn == "conn-a" {
				t.Fatalf("%s still has conn-a", club)
			}
		}
	}
	for _, conn := range registry.ConnectionsFor("alice") {
		if conn == "conn-a" {
			t.Fatal("registry still has conn-a")
		}
	}
	if subs := g.SubscribersOf("c1"); len(subs) != 1 || subs[0] != "conn-a2" {
		t.Fatalf("c1 subscribers = %v, want [conn-a2]", subs)
	}
	if rooms := g.DropConnection("conn-a"); len(rooms) != 0 {
		t.Fatalf("second drop = %v, want empty", rooms)
	}
}

func TestConcurrentJoinLeaveDrop(t *testing.T) {
	g := NewGateway(newFakeMembers())
	ctx := context.Background()

	const churn, survivors = 40, 5
	var wg sync.WaitGroup
	for i := 0; i < survivors; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			conn := fmt.Sprintf("keep-%d", i)
			for _, club := range []string{"c1", "c2"} {
				if err := g.Join(ctx, conn, "alice", club); err != nil {
					t.Errorf("join %s %s: %v", conn, club, err)
				}
			}
		}(i)
	}
	for i := 0; i < churn; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			conn := fmt.Sprintf("churn-%d", i)
			for _, club := range []string{"c1", "c2"} {
				if err := g.Join(ctx, conn, "alice", club); err != nil {
					t.Errorf("join %s %s: %v", conn, club, err)
				}
			}
			seen := make(map[string]bool)
			for _, sub := range g.SubscribersOf("c1") {
				if seen[sub] {
					t.Errorf("duplicate subscriber %s", sub)
				}
				seen[sub] = true
			}
			if i%2 == 0 {
				g.Leave(conn, "c1")
			}
			g.DropConnection(conn)
			_ = g.RoomsOf(conn)
		}(i)
	}
	wg.Wait()

	for _, club := range []string{"c1", "c2"} {
		subs := g.SubscribersOf(club)
		if len(subs) != survivors {
			t.Fatalf("%s subscribers = %v, want %d survivors", club, subs, survivors)
		}
		for i, sub := range subs {
			if want := fmt.Sprintf("keep-%d", i); sub != want {
				t.Fatalf("%s subscriber %d = %s, want %s", club, i, sub, want)
			}
		}
	}
	for i := 0; i < churn; i++ {
		if rooms := g.RoomsOf(fmt.Sprintf("churn-%d", i)); len(rooms) != 0 {
			t.Fatalf("churn-%d rooms = %v, want empty", i, rooms)
		}
	}
}
