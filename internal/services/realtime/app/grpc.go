package server

import (
	"context"

	realtimev1 "github.com/louisbranch/clubhouse/api/gen/go/clubhouse/realtime/v1"
	apperrors "github.com/louisbranch/clubhouse/internal/platform/errors"
	"github.com/louisbranch/clubhouse/internal/services/realtime/dispatch"
	"github.com/louisbranch/clubhouse/internal/services/realtime/storage"
)

// deliveryService adapts the delivery gRPC API onto Services.
type deliveryService struct {
	realtimev1.UnimplementedDeliveryServiceServer
	services *Services
	logf     func(format string, args ...any)
}

var _ realtimev1.DeliveryServiceServer = (*deliveryService)(nil)

func (s *deliveryService) FanOutDomainEvent(ctx context.Context, in *realtimev1.FanOutDomainEventRequest) (*realtimev1.FanOutDomainEventResponse, error) {
	kind, err := notificationKindFromProto(in.GetKind())
	if err != nil {
		return nil, apperrors.HandleError(err)
	}
	event := dispatch.DomainEvent{
		Kind:            kind,
		ActorID:         in.GetActorId(),
		ClubID:          in.GetClubId(),
		RelatedEntityID: in.GetEntityId(),
	}
	if recipients := in.GetRecipients(); recipients != nil {
		// An explicit empty list means nobody, not every member.
		event.RecipientIDs = append([]string{}, recipients.GetUserIds()...)
	}
	result, err := s.services.Dispatch.FanOutDomainEvent(ctx, event)
	if err != nil {
		s.logf("realtime: domain event failed kind=%q club=%q err=%v", event.Kind, event.ClubID, err)
		return nil, apperrors.HandleError(err)
	}
	ids := make([]string, 0, len(result.Notifications))
	for _, record := range result.Notifications {
		ids = append(ids, record.ID)
	}
	return &realtimev1.FanOutDomainEventResponse{
		NotificationIds: ids,
		Alerted:         int32(result.Alerted),
		Signalled:       int32(result.Signalled),
	}, nil
}

func notificationKindFromProto(kind realtimev1.NotificationKind) (storage.NotificationKind, error) {
	switch kind {
	case realtimev1.NotificationKind_NOTIFICATION_KIND_EVENT:
		return storage.NotificationKindEvent, nil
	case realtimev1.NotificationKind_NOTIFICATION_KIND_ANNOUNCEMENT:
		return storage.NotificationKindAnnouncement, nil
	case realtimev1.NotificationKind_NOTIFICATION_KIND_GENERAL:
		return storage.NotificationKindGeneral, nil
	default:
		return "", apperrors.New(apperrors.CodeInvalidInput, "kind is required")
	}
}

func (s *deliveryService) PutClub(ctx context.Context, in *realtimev1.PutClubRequest) (*realtimev1.PutClubResponse, error) {
	if in.GetClubId() == "" {
		return nil, apperrors.HandleError(apperrors.New(apperrors.CodeInvalidInput, "club_id is required"))
	}
	if err := s.services.Clubs.PutClub(ctx, in.GetClubId(), in.GetName()); err != nil {
		return nil, apperrors.HandleError(apperrors.Wrap(apperrors.CodePersistenceFailure, "put club", err))
	}
	return &realtimev1.PutClubResponse{}, nil
}

func (s *deliveryService) PutClubMember(ctx context.Context, in *realtimev1.PutClubMemberRequest) (*realtimev1.PutClubMemberResponse, error) {
	if err := requireMembership(in.GetClubId(), in.GetUserId()); err != nil {
		return nil, apperrors.HandleError(err)
	}
	if err := s.services.Clubs.PutClubMember(ctx, in.GetClubId(), in.GetUserId()); err != nil {
		return nil, apperrors.HandleError(apperrors.Wrap(apperrors.CodePersistenceFailure, "put club member", err))
	}
	return &realtimev1.PutClubMemberResponse{}, nil
}

// RemoveClubMember stops future joins and fan-out. Rooms the user already
// has open stay open until the socket leaves them.
func (s *deliveryService) RemoveClubMember(ctx context.Context, in *realtimev1.RemoveClubMemberRequest) (*realtimev1.RemoveClubMemberResponse, error) {
	if err := requireMembership(in.GetClubId(), in.GetUserId()); err != nil {
		return nil, apperrors.HandleError(err)
	}
	if err := s.services.Clubs.RemoveClubMember(ctx, in.GetClubId(), in.GetUserId()); err != nil {
		return nil, apperrors.HandleError(apperrors.Wrap(apperrors.CodePersistenceFailure, "remove club member", err))
	}
	return &realtimev1.RemoveClubMemberResponse{}, nil
}

func requireMembership(clubID, userID string) error {
	if clubID == "" || userID == "" {
		return apperrors.New(apperrors.CodeInvalidInput, "club_id and user_id are required")
	}
	return nil
}
