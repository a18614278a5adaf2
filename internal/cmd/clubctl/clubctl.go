// Package clubctl publishes domain events and mirrors club membership into
// the realtime delivery API.
package clubctl

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	realtimev1 "github.com/louisbranch/clubhouse/api/gen/go/clubhouse/realtime/v1"
	entrypoint "github.com/louisbranch/clubhouse/internal/platform/cmd"
	"github.com/louisbranch/clubhouse/internal/platform/discovery"
	platformgrpc "github.com/louisbranch/clubhouse/internal/platform/grpc"
	"github.com/louisbranch/clubhouse/internal/platform/timeouts"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// Subcommands.
const (
	CommandNotify       = "notify"
	CommandPutClub      = "put-club"
	CommandPutMember    = "put-member"
	CommandRemoveMember = "remove-member"
)

// Config holds clubctl configuration.
type Config struct {
	Addr    string        `env:"CLUBHOUSE_REALTIME_ADDR"`
	Timeout time.Duration `env:"CLUBHOUSE_CLUBCTL_TIMEOUT" envDefault:"5s"`

	Command string
	Kind    string
	Actor   string
	Club    string
	Entity  string
	Name    string
	User    string
	// Recipients is only sent when -recipients was given, so an explicit
	// empty list reaches nobody instead of every member.
	Recipients    []string
	HasRecipients bool
}

// ParseConfig reads env defaults, then the subcommand and its flags.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return Config{}, errors.New("usage: clubctl <notify|put-club|put-member|remove-member> [flags]")
	}
	cfg.Command = args[0]
	cfg.Addr = discovery.OrDefaultGRPCAddr(cfg.Addr, discovery.ServiceRealtime)

	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "realtime delivery API address")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "overall timeout")
	fs.StringVar(&cfg.Kind, "kind", "", "notification kind (event|announcement|general)")
	fs.StringVar(&cfg.Actor, "actor", "", "user who caused the event; never notified")
	fs.StringVar(&cfg.Club, "club", "", "club id")
	fs.StringVar(&cfg.Entity, "entity", "", "related event or announcement id")
	fs.StringVar(&cfg.Name, "name", "", "club display name")
	fs.StringVar(&cfg.User, "user", "", "member user id")
	fs.Func("recipients", "comma-separated recipient ids (default: every club member)", func(value string) error {
		cfg.Recipients = splitIDs(value)
		cfg.HasRecipients = true
		return nil
	})
	if err := entrypoint.ParseArgs(fs, args[1:]); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func splitIDs(value string) []string {
	ids := []string{}
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			ids = append(ids, part)
		}
	}
	return ids
}

// DeliveryClient is the subset of realtimev1.DeliveryServiceClient clubctl calls.
type DeliveryClient interface {
	FanOutDomainEvent(ctx context.Context, in *realtimev1.FanOutDomainEventRequest, opts ...grpc.CallOption) (*realtimev1.FanOutDomainEventResponse, error)
	PutClub(ctx context.Context, in *realtimev1.PutClubRequest, opts ...grpc.CallOption) (*realtimev1.PutClubResponse, error)
	PutClubMember(ctx context.Context, in *realtimev1.PutClubMemberRequest, opts ...grpc.CallOption) (*realtimev1.PutClubMemberResponse, error)
	RemoveClubMember(ctx context.Context, in *realtimev1.RemoveClubMemberRequest, opts ...grpc.CallOption) (*realtimev1.RemoveClubMemberResponse, error)
}

var notificationKinds = map[string]realtimev1.NotificationKind{
	"event":        realtimev1.NotificationKind_NOTIFICATION_KIND_EVENT,
	"announcement": realtimev1.NotificationKind_NOTIFICATION_KIND_ANNOUNCEMENT,
	"general":      realtimev1.NotificationKind_NOTIFICATION_KIND_GENERAL,
}

// Run dials the delivery API and executes the configured subcommand.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if errOut == nil {
		errOut = io.Discard
	}
	if err := validate(cfg); err != nil {
		return err
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = timeouts.GRPCRequest
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, err := platformgrpc.DialWithHealth(ctx, cfg.Addr, platformgrpc.DialOptions{
		Timeout: timeouts.GRPCDial,
		Service: realtimev1.DeliveryService_ServiceDesc.ServiceName,
		Logf:    log.New(errOut, entrypoint.LogPrefix(entrypoint.ServiceClubctl), log.LstdFlags).Printf,
	})
	if err != nil {
		return fmt.Errorf("dial realtime: %w", err)
	}
	defer conn.Close()
	return Execute(ctx, cfg, realtimev1.NewDeliveryServiceClient(conn), out)
}

// Execute sends the subcommand's request and writes the JSON response.
func Execute(ctx context.Context, cfg Config, client DeliveryClient, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if err := validate(cfg); err != nil {
		return err
	}
	if client == nil {
		return errors.New("delivery client is required")
	}

	var (
		resp proto.Message
		err  error
	)
	switch cfg.Command {
	case CommandNotify:
		req := &realtimev1.FanOutDomainEventRequest{
			Kind:     notificationKinds[cfg.Kind],
			ActorId:  cfg.Actor,
			ClubId:   cfg.Club,
			EntityId: cfg.Entity,
		}
		if cfg.HasRecipients {
			req.Recipients = &realtimev1.Recipients{UserIds: cfg.Recipients}
		}
		resp, err = client.FanOutDomainEvent(ctx, req)
	case CommandPutClub:
		resp, err = client.PutClub(ctx, &realtimev1.PutClubRequest{ClubId: cfg.Club, Name: cfg.Name})
	case CommandPutMember:
		resp, err = client.PutClubMember(ctx, &realtimev1.PutClubMemberRequest{ClubId: cfg.Club, UserId: cfg.User})
	case CommandRemoveMember:
		resp, err = client.RemoveClubMember(ctx, &realtimev1.RemoveClubMemberRequest{ClubId: cfg.Club, UserId: cfg.User})
	}
	if err != nil {
		return fmt.Errorf("%s: %w", cfg.Command, err)
	}

	encoded, err := protojson.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	_, err = fmt.Fprintln(out, string(encoded))
	return err
}

func validate(cfg Config) error {
	switch cfg.Command {
	case CommandNotify:
		if cfg.Kind == "" || cfg.Club == "" {
			return errors.New("notify requires -kind and -club")
		}
		if _, ok := notificationKinds[cfg.Kind]; !ok {
			return fmt.Errorf("unknown kind %q (want event, announcement or general)", cfg.Kind)
		}
	case CommandPutClub:
		if cfg.Club == "" {
			return errors.New("put-club requires -club")
		}
	case CommandPutMember, CommandRemoveMember:
		if cfg.Club == "" || cfg.User == "" {
			return fmt.Errorf("%s requires -club and -user", cfg.Command)
		}
	default:
		return fmt.Errorf("unknown command %q", cfg.Command)
	}
	return nil
}
