package bot

import (
	"bytes"
	"context"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
)

const handlerTimeout = 30 * time.Second

// AttachHandlers registers the bot's event handlers on a discordgo
// session. discordgo dispatches each event on its own goroutine, so slow
// geocode/fetch/render calls never stall unrelated events.
func AttachHandlers(s *discordgo.Session, b *Bot) {
	s.AddHandler(func(sess *discordgo.Session, m *discordgo.MessageCreate) {
		ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
		defer cancel()

		fromBot := m.Author != nil && m.Author.Bot
		if err := b.HandleCommand(ctx, m.ChannelID, m.ID, fromBot, m.Content); err != nil {
			log.Printf("ERROR: handle command in %s: %v", m.ChannelID, err)
		}
	})

	s.AddHandler(func(sess *discordgo.Session, r *discordgo.MessageReactionAdd) {
		ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
		defer cancel()

		fromSelf := sess.State != nil && sess.State.User != nil && r.UserID == sess.State.User.ID
		if err := b.HandleReaction(ctx, r.ChannelID, r.MessageID, r.Emoji.Name, r.UserID, fromSelf); err != nil {
			log.Printf("ERROR: handle reaction in %s: %v", r.ChannelID, err)
		}
	})
}

// Intents returns the gateway intents the bot needs.
func Intents() discordgo.Intent {
	return discordgo.IntentGuildMessages |
		discordgo.IntentGuildMessageReactions |
		discordgo.IntentMessageContent
}

// DiscordPlatform adapts a discordgo session to the Platform interface.
type DiscordPlatform struct {
	session *discordgo.Session
}

func NewDiscordPlatform(session *discordgo.Session) *DiscordPlatform {
	return &DiscordPlatform{session: session}
}

func (p *DiscordPlatform) SendNotice(ctx context.Context, channelID, content string) (string, error) {
	msg, err := p.session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	if err != nil {
		return "", err
	}
	return msg.ID, nil
}

func (p *DiscordPlatform) SendImage(ctx context.Context, channelID, filename string, image []byte, footer string) (string, error) {
	msg, err := p.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Files: []*discordgo.File{{
			Name:        filename,
			ContentType: "image/png",
			Reader:      bytes.NewReader(image),
		}},
		Embed: imageEmbed(filename, footer),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", err
	}
	return msg.ID, nil
}

func (p *DiscordPlatform) EditImage(ctx context.Context, channelID, messageID, filename string, image []byte, footer string) error {
	embeds := []*discordgo.MessageEmbed{imageEmbed(filename, footer)}
	// Dropping the old attachment list makes the edit replace the image
	// instead of accumulating files on the message.
	attachments := []*discordgo.MessageAttachment{}

	_, err := p.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel: channelID,
		ID:      messageID,
		Embeds:  &embeds,
		Files: []*discordgo.File{{
			Name:        filename,
			ContentType: "image/png",
			Reader:      bytes.NewReader(image),
		}},
		Attachments: &attachments,
	}, discordgo.WithContext(ctx))
	return err
}

func (p *DiscordPlatform) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	return p.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx))
}

func (p *DiscordPlatform) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	return p.session.MessageReactionAdd(channelID, messageID, emoji, discordgo.WithContext(ctx))
}

func (p *DiscordPlatform) RemoveReaction(ctx context.Context, channelID, messageID, emoji, userID string) error {
	return p.session.MessageReactionRemove(channelID, messageID, emoji, userID, discordgo.WithContext(ctx))
}

func (p *DiscordPlatform) MessageFooter(ctx context.Context, channelID, messageID string) (string, error) {
	msg, err := p.session.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	if err != nil {
		return "", err
	}
	for _, embed := range msg.Embeds {
		if embed.Footer != nil && embed.Footer.Text != "" {
			return embed.Footer.Text, nil
		}
	}
	return "", nil
}

func imageEmbed(filename, footer string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Image: &discordgo.MessageEmbedImage{URL: "attachment://" + filename},
	}
	if footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: footer}
	}
	return embed
}
