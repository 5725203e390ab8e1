package discord

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/deskbridge/deskbridge/attachment"
	"github.com/deskbridge/deskbridge/mapping"
)

/* Listener watches bridged Discord threads and runs the forward flow:
 * thread message -> attachment validation -> download -> dashboard upload.
 * Users get emoji feedback instead of raw error text.
 */

// Forwarder runs the forward attachment flow into a ticketing conversation
type Forwarder interface {
	ForwardToTicket(ctx context.Context, conversationID string, author attachment.Author, content string, atts []attachment.Attachment) attachment.TransferResult
}

type Listener struct {
	session  *discordgo.Session
	forward  Forwarder
	detector *attachment.Detector
	store    mapping.Store
	cfg      attachment.Config
	logger   *slog.Logger

	remove func()
}

// NewListener creates a listener with dependency injection
func NewListener(session *discordgo.Session, forward Forwarder, detector *attachment.Detector, store mapping.Store, cfg attachment.Config, logger *slog.Logger) *Listener {
	return &Listener{
		session:  session,
		forward:  forward,
		detector: detector,
		store:    store,
		cfg:      cfg,
		logger:   logger,
	}
}

// Start registers the message handler on the session
func (l *Listener) Start() {
	l.session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent
	l.remove = l.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		// Ignore the bot's own messages.
		if s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID {
			return
		}
		l.handleMessage(context.Background(), m)
	})
}

// Stop unregisters the message handler
func (l *Listener) Stop() {
	if l.remove != nil {
		l.remove()
		l.remove = nil
	}
}

func (l *Listener) handleMessage(ctx context.Context, m *discordgo.MessageCreate) {
	ticketID, err := l.store.TicketForThread(ctx, m.ChannelID)
	if err != nil {
		l.logger.Error("resolving ticket for thread", "threadId", m.ChannelID, "error", err)
		return
	}
	if ticketID == "" {
		// Not a bridged thread.
		return
	}

	atts := normalizeDiscordAttachments(m.Attachments)
	if m.Content == "" && len(atts) == 0 {
		return
	}

	author := attachment.Author{
		Name:  m.Author.Username,
		Email: m.Author.Username + "@discord.bridge",
	}

	result := l.forward.ForwardToTicket(ctx, ticketID, author, m.Content, atts)

	emoji := l.cfg.Messages.UploadSuccess
	if !result.Success {
		emoji = l.cfg.Messages.UploadFailure
		l.logger.Warn("forward transfer failed",
			"threadId", m.ChannelID,
			"ticketId", ticketID,
			"errors", result.Errors,
		)
	}
	if len(atts) > 0 {
		if err := l.react(ctx, m.ChannelID, m.ID, emoji); err != nil {
			l.logger.Debug("adding feedback reaction", "error", err)
		}
	}
}

func (l *Listener) react(ctx context.Context, channelID, messageID, emoji string) error {
	return l.session.MessageReactionAdd(channelID, messageID, emoji, discordgo.WithContext(ctx))
}

// normalizeDiscordAttachments maps Discord's attachment shape into the
// canonical record at the ingress boundary.
func normalizeDiscordAttachments(atts []*discordgo.MessageAttachment) []attachment.Attachment {
	if len(atts) == 0 {
		return nil
	}
	out := make([]attachment.Attachment, 0, len(atts))
	for _, a := range atts {
		out = append(out, attachment.Attachment{
			ID:          a.ID,
			Name:        a.Filename,
			URL:         a.URL,
			ContentType: a.ContentType,
			Size:        int64(a.Size),
		})
	}
	return out
}
