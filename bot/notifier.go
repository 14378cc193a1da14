package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"guildbot/bot/common"
	"guildbot/domain/entities"

	"github.com/bwmarrin/discordgo"
	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"
)

const (
	outboxSize        = 256
	sendMaxRetries    = 3
	sendMaxElapsed    = 30 * time.Second
	sendInitialDelay  = 500 * time.Millisecond
	sendMaxRetryDelay = 5 * time.Second
)

// ErrOutboxFull is returned when too many messages are waiting to be sent
var ErrOutboxFull = errors.New("notification outbox is full")

// channelAPI is the part of the Discord session used to deliver messages
type channelAPI interface {
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// channelCache is the gateway state the notifier resolves channels from without a REST call
type channelCache interface {
	Channel(channelID string) (*discordgo.Channel, error)
}

type outboundMessage struct {
	channelID string
	msg       entities.Message
}

// ChannelNotifier delivers domain messages to Discord channels. Sends are queued and
// drained by a worker with retries, so callers on the tick path never wait on Discord.
type ChannelNotifier struct {
	api        channelAPI
	cache      channelCache
	outbox     chan outboundMessage
	newBackOff func() backoff.BackOff
}

// NewChannelNotifier creates a notifier over the session's REST API and gateway state.
// cache may be nil, in which case every channel is checked by the delivery worker.
func NewChannelNotifier(api channelAPI, cache channelCache) *ChannelNotifier {
	return &ChannelNotifier{
		api:    api,
		cache:  cache,
		outbox: make(chan outboundMessage, outboxSize),
		newBackOff: func() backoff.BackOff {
			return backoff.WithMaxRetries(backoff.NewExponentialBackOff(
				backoff.WithMaxElapsedTime(sendMaxElapsed),
				backoff.WithInitialInterval(sendInitialDelay),
				backoff.WithMaxInterval(sendMaxRetryDelay),
			), sendMaxRetries)
		},
	}
}

// ResolveChannel accepts a channel for delivery without touching the REST API.
// Channels missing from the gateway cache are looked up by the delivery worker.
func (n *ChannelNotifier) ResolveChannel(ctx context.Context, channelID string) error {
	if channelID == "" {
		return errors.New("no channel configured")
	}
	return ctx.Err()
}

func (n *ChannelNotifier) cached(channelID string) bool {
	if n.cache == nil {
		return false
	}
	ch, err := n.cache.Channel(channelID)
	return err == nil && ch != nil
}

// verify confirms that a channel missing from the gateway cache exists
func (n *ChannelNotifier) verify(ctx context.Context, channelID string) error {
	if n.cached(channelID) {
		return nil
	}
	if _, err := n.api.Channel(channelID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to resolve channel %s: %w", channelID, err)
	}
	return nil
}

// SendMessage queues msg for delivery to channelID
func (n *ChannelNotifier) SendMessage(ctx context.Context, channelID string, msg entities.Message) error {
	select {
	case n.outbox <- outboundMessage{channelID: channelID, msg: msg}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrOutboxFull
	}
}

// Start runs the delivery worker until ctx is cancelled or the returned cleanup function is called.
// Cleanup drains nothing; queued messages are dropped on shutdown.
func (n *ChannelNotifier) Start(ctx context.Context) func() {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		log.Info("Notification worker started")

		for {
			select {
			case <-ctx.Done():
				log.Info("Notification worker shutting down...")
				return
			case out := <-n.outbox:
				if err := n.deliver(ctx, out); err != nil {
					log.WithFields(log.Fields{
						"channelID": out.channelID,
						"title":     out.msg.Title,
						"error":     err,
					}).Warn("Failed to deliver notification")
				}
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

func (n *ChannelNotifier) deliver(ctx context.Context, out outboundMessage) error {
	if err := n.verify(ctx, out.channelID); err != nil {
		return err
	}
	send := common.MessageSend(out.msg)
	return backoff.Retry(func() error {
		_, err := n.api.ChannelMessageSendComplex(out.channelID, send, discordgo.WithContext(ctx))
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(n.newBackOff(), ctx))
}

// retryable reports whether a Discord REST failure may succeed on a later attempt
func retryable(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) || restErr.Response == nil {
		return true
	}
	switch restErr.Response.StatusCode {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return false
	}
	return true
}
