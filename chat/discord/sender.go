package discord

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/deskbridge/deskbridge/attachment"
)

const maxMessageLen = 2000

/* Sender delivers bridge output to Discord threads.
 * Implements attachment.ThreadSender over a discordgo session.
 */
type Sender struct {
	session *discordgo.Session
	logger  *slog.Logger
}

// NewSender creates a Discord sender from a bot token
func NewSender(token string, logger *slog.Logger) (*Sender, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}
	return &Sender{session: session, logger: logger}, nil
}

// NewSenderWithSession wraps an existing session, mainly for tests
func NewSenderWithSession(session *discordgo.Session, logger *slog.Logger) *Sender {
	return &Sender{session: session, logger: logger}
}

// Session exposes the underlying session for the listener
func (s *Sender) Session() *discordgo.Session {
	return s.session
}

// Open establishes the gateway connection
func (s *Sender) Open() error {
	if err := s.session.Open(); err != nil {
		return fmt.Errorf("opening discord gateway: %w", err)
	}
	return nil
}

// Close tears down the gateway connection
func (s *Sender) Close() error {
	return s.session.Close()
}

// SendText sends plain text to a thread, truncated to Discord's limit
func (s *Sender) SendText(ctx context.Context, threadID, content string) error {
	if content == "" {
		return nil
	}
	_, err := s.session.ChannelMessageSend(threadID, clip(content), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("sending text to thread %s: %w", threadID, err)
	}
	return nil
}

// SendFiles sends text plus file attachments to a thread in one message
func (s *Sender) SendFiles(ctx context.Context, threadID, content string, files []*attachment.FileBuffer) error {
	msg := &discordgo.MessageSend{
		Content: clip(content),
		Files:   make([]*discordgo.File, 0, len(files)),
	}
	for _, file := range files {
		msg.Files = append(msg.Files, &discordgo.File{
			Name:        file.Name,
			ContentType: file.ContentType,
			Reader:      bytes.NewReader(file.Data),
		})
	}

	_, err := s.session.ChannelMessageSendComplex(threadID, msg, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("sending %d file(s) to thread %s: %w", len(files), threadID, err)
	}

	s.logger.Debug("delivered files to thread", "threadId", threadID, "files", len(files))
	return nil
}

// AddReaction attaches emoji feedback to a message
func (s *Sender) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	if err := s.session.MessageReactionAdd(channelID, messageID, emoji, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("adding reaction to message %s: %w", messageID, err)
	}
	return nil
}

func clip(content string) string {
	if len(content) <= maxMessageLen {
		return content
	}
	return content[:maxMessageLen-3] + "..."
}
