package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/myspendr/internal/apperrors"
	"github.com/SscSPs/myspendr/internal/core/domain"
	portssvc "github.com/SscSPs/myspendr/internal/core/ports/services"
	"github.com/SscSPs/myspendr/internal/middleware"
)

// RecentMovementsLimit is how many movements the recent command lists.
const RecentMovementsLimit = 5

// intakeService drives the chat intake state machine and the chat commands.
type intakeService struct {
	BaseService
	sessions *SessionStore
	ledger   portssvc.LedgerSvc
	links    portssvc.ChatLinkSvcFacade
	capital  portssvc.CapitalReaderSvc
	movement portssvc.MovementReaderSvc
}

// NewIntakeService creates a new IntakeSvc.
func NewIntakeService(
	sessions *SessionStore,
	ledger portssvc.LedgerSvc,
	links portssvc.ChatLinkSvcFacade,
	capital portssvc.CapitalReaderSvc,
	movement portssvc.MovementReaderSvc,
	clock Clock,
) portssvc.IntakeSvc {
	return &intakeService{
		BaseService: BaseService{now: clock},
		sessions:    sessions,
		ledger:      ledger,
		links:       links,
		capital:     capital,
		movement:    movement,
	}
}

var _ portssvc.IntakeSvc = (*intakeService)(nil)

func (s *intakeService) Handle(ctx context.Context, ev domain.ChatEvent) (domain.ChatReply, error) {
	if ev.ConversationID == "" {
		return domain.ChatReply{}, fmt.Errorf("%w: conversation id is required", apperrors.ErrValidation)
	}
	ctx = withConversation(ctx, s.GetLogger(ctx), ev.ConversationID)

	if ev.Kind == domain.ChatCommand {
		switch ev.Value {
		case domain.CommandStart:
			return s.link(ctx, ev), nil
		case domain.CommandHelp:
			return domain.ChatReply{Kind: domain.ReplyHelp}, nil
		case domain.CommandPing:
			return domain.ChatReply{Kind: domain.ReplyAlive}, nil
		}
	}

	userID, err := s.links.ResolveUser(ctx, ev.ConversationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.ChatReply{Kind: domain.ReplyNotLinked}, nil
		}
		return domain.ChatReply{}, err
	}

	switch ev.Kind {
	case domain.ChatCommand:
		return s.command(ctx, userID, ev)
	case domain.ChatDirectionSelected:
		return s.selectDirection(ev)
	case domain.ChatCategorySelected:
		return s.selectCategory(ev)
	case domain.ChatSourceSelected:
		return s.selectSource(ev)
	case domain.ChatText:
		return s.submitText(ctx, userID, ev)
	}
	return domain.ChatReply{}, fmt.Errorf("%w: unknown chat event %q", apperrors.ErrValidation, ev.Kind)
}

func (s *intakeService) link(ctx context.Context, ev domain.ChatEvent) domain.ChatReply {
	if _, err := s.links.Link(ctx, ev.ConversationID, ev.Argument); err != nil {
		s.LogWarn(ctx, "Chat link failed", slog.String("error", err.Error()))
		return domain.ChatReply{Kind: domain.ReplyLinkFailed}
	}
	return domain.ChatReply{Kind: domain.ReplyLinked}
}

func (s *intakeService) command(ctx context.Context, userID string, ev domain.ChatEvent) (domain.ChatReply, error) {
	switch ev.Value {
	case domain.CommandExpense:
		err := s.sessions.WithSession(ev.ConversationID, func(sess *domain.IntakeSession) error {
			sess.Clear()
			return nil
		})
		return askDirection(), err

	case domain.CommandCancel:
		err := s.sessions.WithSession(ev.ConversationID, func(sess *domain.IntakeSession) error {
			sess.Clear()
			return nil
		})
		return domain.ChatReply{Kind: domain.ReplySessionCleared}, err

	case domain.CommandRecent:
		ms, err := s.movement.RecentMovements(ctx, userID, RecentMovementsLimit)
		if err != nil {
			return domain.ChatReply{}, err
		}
		return domain.ChatReply{Kind: domain.ReplyRecentMovements, Movements: ms}, nil

	case domain.CommandSummary:
		c, err := s.capital.GetCapital(ctx, userID)
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.ChatReply{Kind: domain.ReplyNoCapital}, nil
		}
		if err != nil {
			return domain.ChatReply{}, err
		}
		return domain.ChatReply{
			Kind:    domain.ReplyCapitalSummary,
			Summary: &domain.CapitalSummary{Bank: c.Bank, Cash: c.Cash, Other: c.Other, Total: c.Total},
		}, nil
	}
	return domain.ChatReply{Kind: domain.ReplyUnknownCommand, Detail: ev.Value}, nil
}

func (s *intakeService) selectDirection(ev domain.ChatEvent) (domain.ChatReply, error) {
	d, err := domain.ParseDirection(ev.Value)
	if err != nil {
		return askDirection(), nil
	}
	err = s.sessions.WithSession(ev.ConversationID, func(sess *domain.IntakeSession) error {
		return sess.SelectDirection(d)
	})
	if err != nil {
		return domain.ChatReply{}, err
	}
	return askCategory(), nil
}

func (s *intakeService) selectCategory(ev domain.ChatEvent) (domain.ChatReply, error) {
	var reply domain.ChatReply
	err := s.sessions.WithSession(ev.ConversationID, func(sess *domain.IntakeSession) error {
		c, perr := domain.ParseCategory(ev.Value)
		if perr != nil {
			reply = promptFor(sess.Step)
			return nil
		}
		reply = advance(sess, sess.SelectCategory(c), askSource)
		return nil
	})
	return reply, err
}

func (s *intakeService) selectSource(ev domain.ChatEvent) (domain.ChatReply, error) {
	var reply domain.ChatReply
	err := s.sessions.WithSession(ev.ConversationID, func(sess *domain.IntakeSession) error {
		src, perr := domain.ParseSource(ev.Value)
		if perr != nil {
			reply = promptFor(sess.Step)
			return nil
		}
		reply = advance(sess, sess.SelectSource(src), askAmountDescription)
		return nil
	})
	return reply, err
}

// submitText commits the movement while the session is held so a conversation cannot commit twice.
func (s *intakeService) submitText(ctx context.Context, userID string, ev domain.ChatEvent) (domain.ChatReply, error) {
	var reply domain.ChatReply
	err := s.sessions.WithSession(ev.ConversationID, func(sess *domain.IntakeSession) error {
		draft, derr := sess.Draft(ev.Value, s.Now())
		switch {
		case errors.Is(derr, apperrors.ErrState):
			reply = domain.ChatReply{Kind: domain.ReplyMissingFields}
			return nil
		case derr != nil:
			reply = domain.ChatReply{Kind: domain.ReplyInvalidFormat, Detail: derr.Error()}
			return nil
		}

		m, aerr := s.ledger.Apply(ctx, userID, draft)
		if aerr != nil {
			s.LogWarn(ctx, "Chat movement commit failed", slog.String("error", aerr.Error()))
			reply = domain.ChatReply{Kind: domain.ReplyCommitFailed, Detail: commitFailureDetail(aerr)}
			return nil
		}
		sess.Clear()
		reply = domain.ChatReply{Kind: domain.ReplyMovementSaved, Movement: m}
		return nil
	})
	return reply, err
}

// advance turns the result of a selection into the next prompt or a corrective one.
func advance(sess *domain.IntakeSession, err error, next func() domain.ChatReply) domain.ChatReply {
	if err == nil {
		return next()
	}
	if errors.Is(err, apperrors.ErrState) {
		r := promptFor(sess.Step)
		return domain.ChatReply{Kind: domain.ReplyOutOfOrder, Options: r.Options, Detail: string(r.Kind)}
	}
	return promptFor(sess.Step)
}

func promptFor(step domain.IntakeStep) domain.ChatReply {
	switch step {
	case domain.IntakeAwaitCategory:
		return askCategory()
	case domain.IntakeAwaitSource:
		return askSource()
	case domain.IntakeAwaitAmountDesc:
		return askAmountDescription()
	}
	return askDirection()
}

func askDirection() domain.ChatReply {
	opts := make([]string, len(domain.Directions))
	for i, d := range domain.Directions {
		opts[i] = string(d)
	}
	return domain.ChatReply{Kind: domain.ReplyAskDirection, Options: opts}
}

func askCategory() domain.ChatReply {
	opts := make([]string, len(domain.Categories))
	for i, c := range domain.Categories {
		opts[i] = string(c)
	}
	return domain.ChatReply{Kind: domain.ReplyAskCategory, Options: opts}
}

func askSource() domain.ChatReply {
	opts := make([]string, len(domain.Sources))
	for i, src := range domain.Sources {
		opts[i] = string(src)
	}
	return domain.ChatReply{Kind: domain.ReplyAskSource, Options: opts}
}

func askAmountDescription() domain.ChatReply {
	return domain.ChatReply{Kind: domain.ReplyAskAmountDescription}
}

func commitFailureDetail(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return "no capital account found"
	case errors.Is(err, apperrors.ErrValidation):
		return strings.TrimPrefix(err.Error(), "failed to apply movement: ")
	}
	return "movement could not be saved"
}

func withConversation(ctx context.Context, logger *slog.Logger, conversationID string) context.Context {
	return middleware.WithLogger(ctx, logger.With(slog.String("conversation_id", conversationID)))
}
