package clubctl

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	realtimev1 "github.com/louisbranch/clubhouse/api/gen/go/clubhouse/realtime/v1"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/proto"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("clubctl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig(newFlagSet(), []string{"put-club", "-club", "club-1"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Addr != "realtime:8091" {
		t.Fatalf("addr = %q, want realtime:8091", cfg.Addr)
	}
	if cfg.Timeout != 5*time.Second {
		t.Fatalf("timeout = %v, want 5s", cfg.Timeout)
	}
	if cfg.Command != CommandPutClub || cfg.Club != "club-1" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestParseConfigEnvAndRecipients(t *testing.T) {
	t.Setenv("CLUBHOUSE_REALTIME_ADDR", "realtime:9000")

	cfg, err := ParseConfig(newFlagSet(), []string{"notify", "-kind", "event", "-club", "c", "-recipients", "bob, carol,,"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Addr != "realtime:9000" {
		t.Fatalf("addr = %q, want realtime:9000", cfg.Addr)
	}
	if !cfg.HasRecipients || strings.Join(cfg.Recipients, ",") != "bob,carol" {
		t.Fatalf("recipients = %v (set %v)", cfg.Recipients, cfg.HasRecipients)
	}

	cfg, err = ParseConfig(newFlagSet(), []string{"notify", "-kind", "event", "-club", "c", "-recipients", ""})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if !cfg.HasRecipients || len(cfg.Recipients) != 0 {
		t.Fatalf("empty recipients = %v (set %v)", cfg.Recipients, cfg.HasRecipients)
	}
}

func TestParseConfigRequiresCommand(t *testing.T) {
	for _, args := range [][]string{nil, {"-club", "c"}} {
		if _, err := ParseConfig(newFlagSet(), args); err == nil {
			t.Fatalf("args %v: expected usage error", args)
		}
	}
	if _, err := ParseConfig(newFlagSet(), []string{"notify", "-bogus"}); err == nil {
		t.Fatal("expected unknown flag error")
	}
}

type fakeDeliveryClient struct {
	method string
	in     proto.Message
	fanOut *realtimev1.FanOutDomainEventResponse
	err    error
}

func (f *fakeDeliveryClient) record(method string, in proto.Message) error {
	f.method = method
	f.in = in
	return f.err
}

func (f *fakeDeliveryClient) FanOutDomainEvent(_ context.Context, in *realtimev1.FanOutDomainEventRequest, _ ...grpc.CallOption) (*realtimev1.FanOutDomainEventResponse, error) {
	if err := f.record(realtimev1.DeliveryService_FanOutDomainEvent_FullMethodName, in); err != nil {
		return nil, err
	}
	if f.fanOut == nil {
		return &realtimev1.FanOutDomainEventResponse{}, nil
	}
	return f.fanOut, nil
}

func (f *fakeDeliveryClient) PutClub(_ context.Context, in *realtimev1.PutClubRequest, _ ...grpc.CallOption) (*realtimev1.PutClubResponse, error) {
	if err := f.record(realtimev1.DeliveryService_PutClub_FullMethodName, in); err != nil {
		return nil, err
	}
	return &realtimev1.PutClubResponse{}, nil
}

func (f *fakeDeliveryClient) PutClubMember(_ context.Context, in *realtimev1.PutClubMemberRequest, _ ...grpc.CallOption) (*realtimev1.PutClubMemberResponse, error) {
	if err := f.record(realtimev1.DeliveryService_PutClubMember_FullMethodName, in); err != nil {
		return nil, err
	}
	return &realtimev1.PutClubMemberResponse{}, nil
}

func (f *fakeDeliveryClient) RemoveClubMember(_ context.Context, in *realtimev1.RemoveClubMemberRequest, _ ...grpc.CallOption) (*realtimev1.RemoveClubMemberResponse, error) {
	if err := f.record(realtimev1.DeliveryService_RemoveClubMember_FullMethodName, in); err != nil {
		return nil, err
	}
	return &realtimev1.RemoveClubMemberResponse{}, nil
}

func TestExecuteNotify(t *testing.T) {
	client := &fakeDeliveryClient{fanOut: &realtimev1.FanOutDomainEventResponse{Alerted: 2}}
	var buf bytes.Buffer

	cfg := Config{Command: CommandNotify, Kind: "event", Actor: "alice", Club: "club-1", Entity: "e1"}
	if err := Execute(context.Background(), cfg, client, &buf); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if client.method != realtimev1.DeliveryService_FanOutDomainEvent_FullMethodName {
		t.Fatalf("method = %q", client.method)
	}
	req := client.in.(*realtimev1.FanOutDomainEventRequest)
	if req.GetRecipients() != nil {
		t.Fatal("recipients should be absent when not given")
	}
	if req.GetActorId() != "alice" {
		t.Fatalf("actor = %q, want alice", req.GetActorId())
	}
	if req.GetKind() != realtimev1.NotificationKind_NOTIFICATION_KIND_EVENT {
		t.Fatalf("kind = %v, want NOTIFICATION_KIND_EVENT", req.GetKind())
	}
	if !strings.Contains(buf.String(), `"alerted"`) {
		t.Fatalf("output = %q, want alerted count", buf.String())
	}

	cfg.HasRecipients = true
	cfg.Recipients = []string{}
	if err := Execute(context.Background(), cfg, client, io.Discard); err != nil {
		t.Fatalf("execute: %v", err)
	}
	req = client.in.(*realtimev1.FanOutDomainEventRequest)
	if req.GetRecipients() == nil || len(req.GetRecipients().GetUserIds()) != 0 {
		t.Fatalf("recipients = %v, want explicit empty list", req.GetRecipients())
	}
}

func TestExecuteMembership(t *testing.T) {
	tests := []struct {
		command string
		method  string
	}{
		{CommandPutMember, realtimev1.DeliveryService_PutClubMember_FullMethodName},
		{CommandRemoveMember, realtimev1.DeliveryService_RemoveClubMember_FullMethodName},
	}
	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			client := &fakeDeliveryClient{}
			cfg := Config{Command: tt.command, Club: "club-1", User: "bob"}
			if err := Execute(context.Background(), cfg, client, nil); err != nil {
				t.Fatalf("execute: %v", err)
			}
			if client.method != tt.method {
				t.Fatalf("method = %q, want %q", client.method, tt.method)
			}
			member, ok := client.in.(interface{ GetUserId() string })
			if !ok || member.GetUserId() != "bob" {
				t.Fatalf("request = %v, want user_id bob", client.in)
			}
		})
	}
}

func TestExecuteValidation(t *testing.T) {
	client := &fakeDeliveryClient{}
	cases := []Config{
		{Command: "launch"},
		{Command: CommandNotify, Club: "c"},
		{Command: CommandNotify, Kind: "party", Club: "c"},
		{Command: CommandPutClub},
		{Command: CommandPutMember, Club: "c"},
	}
	for _, cfg := range cases {
		if err := Execute(context.Background(), cfg, client, nil); err == nil {
			t.Fatalf("%+v: expected validation error", cfg)
		}
	}
	if client.method != "" {
		t.Fatalf("client called with invalid config: %q", client.method)
	}
}

func TestExecutePropagatesClientError(t *testing.T) {
	boom := errors.New("boom")
	client := &fakeDeliveryClient{err: boom}
	err := Execute(context.Background(), Config{Command: CommandPutClub, Club: "c"}, client, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
}

type fakeDeliveryServer struct {
	realtimev1.UnimplementedDeliveryServiceServer
	puts chan *realtimev1.PutClubRequest
}

func (f *fakeDeliveryServer) PutClub(_ context.Context, in *realtimev1.PutClubRequest) (*realtimev1.PutClubResponse, error) {
	f.puts <- in
	return &realtimev1.PutClubResponse{}, nil
}

func TestRunDialsDeliveryAPI(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	fake := &fakeDeliveryServer{puts: make(chan *realtimev1.PutClubRequest, 1)}
	grpcServer := grpc.NewServer()
	realtimev1.RegisterDeliveryServiceServer(grpcServer, fake)
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(realtimev1.DeliveryService_ServiceDesc.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	go func() {
		_ = grpcServer.Serve(listener)
	}()
	t.Cleanup(grpcServer.Stop)

	var out bytes.Buffer
	cfg := Config{
		Addr:    listener.Addr().String(),
		Timeout: 5 * time.Second,
		Command: CommandPutClub,
		Club:    "club-9",
		Name:    "Debate",
	}
	if err := Run(context.Background(), cfg, &out, io.Discard); err != nil {
		t.Fatalf("run: %v", err)
	}
	got := <-fake.puts
	if got.GetClubId() != "club-9" || got.GetName() != "Debate" {
		t.Fatalf("put club = %v, want club-9 Debate", got)
	}
	if strings.TrimSpace(out.String()) != "{}" {
		t.Fatalf("output = %q, want empty JSON object", out.String())
	}
}

func TestRunValidatesBeforeDialing(t *testing.T) {
	err := Run(context.Background(), Config{Addr: "127.0.0.1:1", Command: CommandPutMember}, nil, nil)
	if err == nil || !strings.Contains(err.Error(), "-club and -user") {
		t.Fatalf("err = %v, want validation error", err)
	}
}
