package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/FrontRowWithJ/WeatherBot/internal/interaction"
	"github.com/FrontRowWithJ/WeatherBot/internal/render"
	"github.com/FrontRowWithJ/WeatherBot/internal/store"
	"github.com/FrontRowWithJ/WeatherBot/internal/weather"
	"github.com/FrontRowWithJ/WeatherBot/internal/weather/providers"
)

const commandPrefix = "/weather"

// Platform is the subset of the chat platform the bot needs. Every call
// is fallible network I/O; a failed call must never take down handling
// for other messages.
type Platform interface {
	SendNotice(ctx context.Context, channelID, content string) (messageID string, err error)
	SendImage(ctx context.Context, channelID, filename string, image []byte, footer string) (messageID string, err error)
	EditImage(ctx context.Context, channelID, messageID, filename string, image []byte, footer string) error
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	AddReaction(ctx context.Context, channelID, messageID, emoji string) error
	RemoveReaction(ctx context.Context, channelID, messageID, emoji, userID string) error
	MessageFooter(ctx context.Context, channelID, messageID string) (string, error)
}

// Geocoder resolves a free-text place name into coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, location string) (lat, lon float64, err error)
}

// ForecastFetcher fetches the forward forecast for coordinates.
type ForecastFetcher interface {
	FetchForecast(ctx context.Context, lat, lon float64) ([]weather.ForecastSample, error)
}

// Options wires the bot's collaborators.
type Options struct {
	Platform  Platform
	Geocoder  Geocoder
	Forecasts ForecastFetcher
	Renderer  *render.Renderer
	Icons     *render.IconCache

	// States holds interaction state in process memory. Leave nil to run
	// stateless: state is then round-tripped through the message footer
	// and survives restarts.
	States *store.MemoryStore

	// CommandTTL and NoticeTTL control the self-delete delays of the
	// triggering command and of transient notices.
	CommandTTL time.Duration
	NoticeTTL  time.Duration
}

// Bot owns the command and reaction handling. It is also the Presenter
// the interaction manager drives for side effects.
type Bot struct {
	platform  Platform
	geocoder  Geocoder
	forecasts ForecastFetcher
	renderer  *render.Renderer
	icons     *render.IconCache
	states    *store.MemoryStore
	manager   *interaction.Manager
	stateless bool

	commandTTL time.Duration
	noticeTTL  time.Duration
	now        func() time.Time
}

func New(opts Options) *Bot {
	b := &Bot{
		platform:   opts.Platform,
		geocoder:   opts.Geocoder,
		forecasts:  opts.Forecasts,
		renderer:   opts.Renderer,
		icons:      opts.Icons,
		states:     opts.States,
		stateless:  opts.States == nil,
		commandTTL: opts.CommandTTL,
		noticeTTL:  opts.NoticeTTL,
		now:        time.Now,
	}
	if b.commandTTL <= 0 {
		b.commandTTL = 1 * time.Second
	}
	if b.noticeTTL <= 0 {
		b.noticeTTL = 3 * time.Second
	}

	var source interaction.Source
	if b.stateless {
		source = &embedSource{platform: b.platform}
	} else {
		source = b.states
	}
	b.manager = interaction.NewManager(source, b)
	return b
}

// HandleCommand processes one message-create event.
func (b *Bot) HandleCommand(ctx context.Context, channelID, messageID string, fromBot bool, content string) error {
	if fromBot || !strings.HasPrefix(content, commandPrefix) {
		return nil
	}

	b.deleteAfter(channelID, messageID, b.commandTTL)

	location := strings.TrimSpace(strings.TrimPrefix(content, commandPrefix))
	if location == "" {
		return b.notice(ctx, channelID, "No location provided")
	}

	lat, lon, err := b.geocoder.Geocode(ctx, location)
	if err != nil {
		if errors.Is(err, providers.ErrLocationNotFound) {
			return b.notice(ctx, channelID, "Invalid location given")
		}
		log.Printf("ERROR: geocode %q: %v", location, err)
		return b.notice(ctx, channelID, "Could not fetch the forecast")
	}

	set, err := b.fetchForecast(ctx, lat, lon)
	if err != nil {
		log.Printf("ERROR: forecast for %q: %v", location, err)
		return b.notice(ctx, channelID, "Could not fetch the forecast")
	}

	display := titleCase(location)
	image, err := b.renderer.Render(ctx, set, 0, weather.ViewTemperature, display)
	if err != nil {
		log.Printf("ERROR: render for %q: %v", location, err)
		return b.notice(ctx, channelID, "Could not fetch the forecast")
	}

	st := interaction.State{
		Day:        0,
		View:       weather.ViewTemperature,
		Days:       set.Pages(),
		Location:   display,
		Lat:        lat,
		Lon:        lon,
		LastUpdate: b.now().Unix(),
	}

	postedID, err := b.platform.SendImage(ctx, channelID, imageFilename(), image, b.footer(st))
	if err != nil {
		return err
	}

	key := interaction.Key{ChannelID: channelID, MessageID: postedID}
	if err := b.manager.Track(ctx, key, st); err != nil {
		return err
	}

	for _, sym := range interaction.Controls {
		if err := b.platform.AddReaction(ctx, channelID, postedID, string(sym)); err != nil {
			log.Printf("ERROR: add reaction %s: %v", sym, err)
		}
	}
	return nil
}

// HandleReaction processes one reaction-add event.
func (b *Bot) HandleReaction(ctx context.Context, channelID, messageID, emoji, userID string, fromBot bool) error {
	if fromBot {
		return nil
	}
	sym, ok := symbolFromEmoji(emoji)
	if !ok {
		return nil
	}
	key := interaction.Key{ChannelID: channelID, MessageID: messageID}
	return b.manager.HandleReaction(ctx, key, sym, userID)
}

// Update implements interaction.Presenter: refetch, re-render, edit. The
// state deliberately holds only coordinates, so every re-render fetches a
// fresh forecast.
func (b *Bot) Update(ctx context.Context, key interaction.Key, st interaction.State) error {
	set, err := b.fetchForecast(ctx, st.Lat, st.Lon)
	if err != nil {
		return err
	}

	// The refetched forecast can have fewer days than when the state was
	// written; clamp before rendering so the persisted state and the
	// image agree.
	if pages := set.Pages(); st.Day >= pages {
		st.Day = pages - 1
	}

	image, err := b.renderer.Render(ctx, set, st.Day, st.View, st.Location)
	if err != nil {
		return err
	}
	return b.platform.EditImage(ctx, key.ChannelID, key.MessageID, imageFilename(), image, b.footer(st))
}

// Close implements interaction.Presenter.
func (b *Bot) Close(ctx context.Context, key interaction.Key) error {
	return b.platform.DeleteMessage(ctx, key.ChannelID, key.MessageID)
}

// Ack implements interaction.Presenter.
func (b *Bot) Ack(ctx context.Context, key interaction.Key, sym interaction.Symbol, userID string) error {
	return b.platform.RemoveReaction(ctx, key.ChannelID, key.MessageID, string(sym), userID)
}

// ActiveStates implements the status API.
func (b *Bot) ActiveStates() int {
	if b.states == nil {
		return 0
	}
	return b.states.Len()
}

// CachedIcons implements the status API.
func (b *Bot) CachedIcons() int {
	return b.icons.Len()
}

func (b *Bot) fetchForecast(ctx context.Context, lat, lon float64) (*weather.ForecastSet, error) {
	samples, err := b.forecasts.FetchForecast(ctx, lat, lon)
	if err != nil {
		return nil, err
	}
	return weather.Aggregate(samples)
}

func (b *Bot) footer(st interaction.State) string {
	if b.stateless {
		return interaction.EncodeState(st)
	}
	return ""
}

func (b *Bot) notice(ctx context.Context, channelID, content string) error {
	noticeID, err := b.platform.SendNotice(ctx, channelID, content)
	if err != nil {
		return err
	}
	b.deleteAfter(channelID, noticeID, b.noticeTTL)
	return nil
}

// deleteAfter schedules a best-effort delayed delete of a message.
func (b *Bot) deleteAfter(channelID, messageID string, delay time.Duration) {
	time.AfterFunc(delay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := b.platform.DeleteMessage(ctx, channelID, messageID); err != nil {
			log.Printf("ERROR: delayed delete of %s: %v", messageID, err)
		}
	})
}

// symbolFromEmoji maps a raw reaction emoji onto a control symbol. The
// platform sometimes strips the variation selector, so both forms match.
func symbolFromEmoji(emoji string) (interaction.Symbol, bool) {
	trimmed := strings.TrimSuffix(emoji, "\ufe0f")
	for _, c := range interaction.Controls {
		if emoji == string(c) || trimmed == strings.TrimSuffix(string(c), "\ufe0f") {
			return c, true
		}
	}
	return "", false
}

// titleCase capitalizes each whitespace-separated word, lowercasing the
// rest, so "new YORK" renders as "New York".
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

func imageFilename() string {
	return fmt.Sprintf("forecast-%s.png", uuid.NewString())
}
