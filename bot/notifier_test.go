package bot

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"guildbot/domain/entities"
	"guildbot/domain/services"

	"github.com/bwmarrin/discordgo"
	"github.com/cenkalti/backoff/v4"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type mockChannelAPI struct {
	mock.Mock
}

func (m *mockChannelAPI) Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
	args := m.Called(channelID)
	ch, _ := args.Get(0).(*discordgo.Channel)
	return ch, args.Error(1)
}

func (m *mockChannelAPI) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	args := m.Called(channelID, data)
	msg, _ := args.Get(0).(*discordgo.Message)
	return msg, args.Error(1)
}

type fakeChannelCache map[string]*discordgo.Channel

func (c fakeChannelCache) Channel(channelID string) (*discordgo.Channel, error) {
	if ch, ok := c[channelID]; ok {
		return ch, nil
	}
	return nil, discordgo.ErrStateNotFound
}

// slowChannelAPI answers channel lookups after a delay, like a rate-limited REST call
type slowChannelAPI struct {
	delay time.Duration
}

func (a slowChannelAPI) Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
	time.Sleep(a.delay)
	return &discordgo.Channel{ID: channelID}, nil
}

func (a slowChannelAPI) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	return &discordgo.Message{ID: "m1"}, nil
}

func newTestNotifier(api channelAPI) *ChannelNotifier {
	n := NewChannelNotifier(api, fakeChannelCache{"ch1": {ID: "ch1"}})
	n.newBackOff = func() backoff.BackOff {
		return backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Millisecond), 3)
	}
	return n
}

func restError(status int) error {
	return &discordgo.RESTError{Response: &http.Response{StatusCode: status}}
}

func TestChannelNotifier_ResolveChannel(t *testing.T) {
	api := new(mockChannelAPI)
	n := newTestNotifier(api)
	ctx := context.Background()

	assert.NoError(t, n.ResolveChannel(ctx, "ch1"))
	assert.NoError(t, n.ResolveChannel(ctx, "uncached"))
	assert.Error(t, n.ResolveChannel(ctx, ""))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.Error(t, n.ResolveChannel(cancelled, "ch1"))

	api.AssertNotCalled(t, "Channel", mock.Anything)
}

func TestChannelNotifier_UncachedChannelIsVerifiedBeforeSending(t *testing.T) {
	api := new(mockChannelAPI)
	api.On("Channel", "ok").Return(&discordgo.Channel{ID: "ok"}, nil).Once()
	api.On("Channel", "gone").Return(nil, restError(http.StatusNotFound)).Once()
	api.On("ChannelMessageSendComplex", "ok", mock.Anything).Return(&discordgo.Message{ID: "m1"}, nil).Once()
	n := newTestNotifier(api)
	ctx := context.Background()

	require.NoError(t, n.deliver(ctx, outboundMessage{channelID: "ok", msg: entities.Message{Content: "x"}}))
	assert.ErrorContains(t, n.deliver(ctx, outboundMessage{channelID: "gone", msg: entities.Message{Content: "x"}}), "resolve channel gone")

	api.AssertExpectations(t)
	api.AssertNotCalled(t, "ChannelMessageSendComplex", "gone", mock.Anything)
}

func TestChannelNotifier_SlowLookupDoesNotDelayTick(t *testing.T) {
	n := NewChannelNotifier(slowChannelAPI{delay: 1500 * time.Millisecond}, nil)
	ctx := context.Background()

	engine := services.NewTimerEngine("g1", clockwork.NewFakeClock(), n, nil, 0)
	_, err := engine.CreateTimer(ctx, "u1", "ch1", entities.TimerKindCustom, 2, "Tea", entities.TimerOptions{})
	require.NoError(t, err)

	start := time.Now()
	engine.Tick(ctx)
	assert.Less(t, time.Since(start), 250*time.Millisecond)
	assert.Len(t, n.outbox, 1, "halfway note should be queued")
}

func TestChannelNotifier_RetriesTransientFailures(t *testing.T) {
	defer goleak.VerifyNone(t)

	delivered := make(chan struct{})
	api := new(mockChannelAPI)
	api.On("ChannelMessageSendComplex", "ch1", mock.Anything).Return(nil, restError(http.StatusBadGateway)).Twice()
	api.On("ChannelMessageSendComplex", "ch1", mock.MatchedBy(func(m *discordgo.MessageSend) bool {
		return m.Content == "<@1>" && len(m.Embeds) == 1 && m.Embeds[0].Title == "Done"
	})).Return(&discordgo.Message{ID: "m1"}, nil).Once().Run(func(mock.Arguments) { close(delivered) })

	n := newTestNotifier(api)
	stop := n.Start(context.Background())

	require.NoError(t, n.SendMessage(context.Background(), "ch1", entities.Message{Content: "<@1>", Title: "Done"}))
	select {
	case <-delivered:
	case <-time.After(2 * time.Second):
		t.Fatal("message was not delivered")
	}

	stop()
	api.AssertExpectations(t)
}

func TestChannelNotifier_PermanentFailureIsNotRetried(t *testing.T) {
	defer goleak.VerifyNone(t)

	api := new(mockChannelAPI)
	api.On("ChannelMessageSendComplex", "ch1", mock.Anything).Return(nil, restError(http.StatusForbidden)).Once()

	n := newTestNotifier(api)
	err := n.deliver(context.Background(), outboundMessage{channelID: "ch1", msg: entities.Message{Content: "x"}})
	assert.Error(t, err)
	api.AssertNumberOfCalls(t, "ChannelMessageSendComplex", 1)
}

func TestChannelNotifier_OutboxFull(t *testing.T) {
	n := newTestNotifier(new(mockChannelAPI))
	ctx := context.Background()

	for i := 0; i < outboxSize; i++ {
		require.NoError(t, n.SendMessage(ctx, "ch1", entities.Message{}))
	}
	assert.True(t, errors.Is(n.SendMessage(ctx, "ch1", entities.Message{}), ErrOutboxFull))
}

func TestRetryable(t *testing.T) {
	assert.True(t, retryable(errors.New("connection reset")))
	assert.True(t, retryable(restError(http.StatusTooManyRequests)))
	assert.True(t, retryable(restError(http.StatusInternalServerError)))
	assert.False(t, retryable(restError(http.StatusForbidden)))
	assert.False(t, retryable(restError(http.StatusNotFound)))
}

type mockRoleAPI struct {
	mock.Mock
}

func (m *mockRoleAPI) GuildRoles(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Role, error) {
	args := m.Called(guildID)
	roles, _ := args.Get(0).([]*discordgo.Role)
	return roles, args.Error(1)
}

func (m *mockRoleAPI) GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error {
	return m.Called(guildID, userID, roleID).Error(0)
}

func (m *mockRoleAPI) GuildMemberRoleRemove(guildID, userID, roleID string, options ...discordgo.RequestOption) error {
	return m.Called(guildID, userID, roleID).Error(0)
}

func TestMuteRoles(t *testing.T) {
	api := new(mockRoleAPI)
	api.On("GuildRoles", "g1").Return([]*discordgo.Role{{ID: "r0", Name: "Member"}, {ID: "r1", Name: "muted"}}, nil)
	api.On("GuildRoles", "g2").Return([]*discordgo.Role{{ID: "r0", Name: "Member"}}, nil)
	api.On("GuildMemberRoleAdd", "g1", "u1", "r1").Return(nil).Once()
	api.On("GuildMemberRoleRemove", "g1", "u1", "r1").Return(nil).Once()
	roles := NewMuteRoles(api, "Muted")
	ctx := context.Background()

	require.NoError(t, roles.AddMuteRole(ctx, "g1", "u1"))
	require.NoError(t, roles.RemoveMuteRole(ctx, "g1", "u1"))
	assert.ErrorContains(t, roles.RemoveMuteRole(ctx, "g2", "u1"), "not found")
	api.AssertExpectations(t)
}
