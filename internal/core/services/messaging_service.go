package services

import (
	"FleetFuel/internal/core/domain"
	"FleetFuel/internal/core/ports"
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// MessagingService delivers administrator-composed messages to users.
type MessagingService struct {
	users ports.UserRepository
	bot   ports.BotClientPort
	log   zerolog.Logger
}

func NewMessagingService(users ports.UserRepository, bot ports.BotClientPort, baseLogger *zerolog.Logger) *MessagingService {
	return &MessagingService{
		users: users,
		bot:   bot,
		log:   baseLogger.With().Str("component", "messaging_service").Logger(),
	}
}

// BroadcastTo sends text verbatim to one registered user. A failed send is
// reported as domain.ErrDelivery and never retried.
func (s *MessagingService) BroadcastTo(ctx context.Context, targetID int64, text string, markup *ports.ReplyMarkup) (*domain.User, error) {
	user, err := s.users.GetByTelegramID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %d: %w", targetID, domain.ErrNotFound)
	}

	_, err = s.bot.SendMessage(ctx, ports.SendMessageParams{
		ChatID:      targetID,
		Text:        text,
		ReplyMarkup: markup,
	})
	if err != nil {
		s.log.Error().Err(err).Int64("target_id", targetID).Msg("Failed to deliver message")
		return user, fmt.Errorf("send to %d: %w: %w", targetID, domain.ErrDelivery, err)
	}

	s.log.Info().Int64("target_id", targetID).Msg("Message delivered")
	return user, nil
}
