// Package bot drives a chat command from extraction to reply.
package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/zebp/discord-rust-playground/internal/command"
	"github.com/zebp/discord-rust-playground/internal/playground"
	"github.com/zebp/discord-rust-playground/internal/reply"
)

// ErrReply marks a reply that could not be delivered.
var ErrReply = errors.New("sending reply")

const (
	executingMessage   = "Executing..."
	requestUserMessage = "Http request error"
)

// Message is an inbound chat message.
type Message struct {
	ConversationID string
	AuthorID       string
	Text           string
}

// Replier delivers replies back into a conversation.
type Replier interface {
	SendPlain(ctx context.Context, conversationID, text string) error
	SendEmbed(ctx context.Context, conversationID string, e reply.Embed) error
}

// Bot handles playground commands.
type Bot struct {
	extractor *command.Extractor
	runner    playground.Runner
	formatter *reply.Formatter
	logger    *zap.Logger
}

// New creates a Bot. A nil logger disables logging.
func New(extractor *command.Extractor, runner playground.Runner, formatter *reply.Formatter, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{
		extractor: extractor,
		runner:    runner,
		formatter: formatter,
		logger:    logger,
	}
}

// Handle processes one inbound message. Messages that are not commands for
// this bot are ignored and return nil. Any other failure has already been
// reported to the conversation when it is returned.
func (b *Bot) Handle(ctx context.Context, msg Message, r Replier) error {
	task, ok, err := b.extractor.Extract(msg.ConversationID, msg.Text)
	if !ok {
		return nil
	}

	log := b.logger.With(
		zap.String("request_id", uuid.NewString()),
		zap.String("conversation_id", msg.ConversationID),
		zap.String("author_id", msg.AuthorID))

	if err != nil {
		log.Info("rejected command", zap.Error(err))
		b.fail(ctx, log, msg.ConversationID, err, r)
		return err
	}

	return b.evaluate(ctx, log, msg.ConversationID, task, r)
}

// Evaluate runs an already-built task and replies with its result.
func (b *Bot) Evaluate(ctx context.Context, conversationID string, task playground.Task, r Replier) error {
	log := b.logger.With(
		zap.String("request_id", uuid.NewString()),
		zap.String("conversation_id", conversationID))
	return b.evaluate(ctx, log, conversationID, task, r)
}

func (b *Bot) evaluate(ctx context.Context, log *zap.Logger, conversationID string, task playground.Task, r Replier) error {
	log = log.With(
		zap.Stringer("channel", task.Channel()),
		zap.Stringer("crate_type", task.CrateType()))
	log.Info("executing task")

	if err := r.SendPlain(ctx, conversationID, executingMessage); err != nil {
		log.Warn("failed to send acknowledgement", zap.Error(fmt.Errorf("%w: %w", ErrReply, err)))
	}

	var (
		shareLink string
		result    *playground.ExecutionResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		link, err := b.runner.CreateShareLink(gctx, task)
		shareLink = link
		return err
	})
	g.Go(func() error {
		res, err := b.runner.Execute(gctx, task)
		result = res
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error("playground call failed", zap.Error(err))
		b.fail(ctx, log, conversationID, err, r)
		return err
	}

	log.Info("task finished", zap.Bool("success", result.Success))

	embed := b.formatter.Success(shareLink, *result, task.CrateType())
	if err := r.SendEmbed(ctx, conversationID, embed); err != nil {
		err = fmt.Errorf("%w: %w", ErrReply, err)
		log.Error("failed to send result", zap.Error(err))
		return err
	}
	return nil
}

// fail sends the error reply. A delivery failure is only logged.
func (b *Bot) fail(ctx context.Context, log *zap.Logger, conversationID string, cause error, r Replier) {
	if err := r.SendEmbed(ctx, conversationID, reply.Failure(UserMessage(cause))); err != nil {
		log.Error("failed to send error reply", zap.Error(fmt.Errorf("%w: %w", ErrReply, err)))
	}
}

// UserMessage is the text shown to users for err.
func UserMessage(err error) string {
	if errors.Is(err, playground.ErrRequest) {
		return requestUserMessage
	}
	return err.Error()
}
