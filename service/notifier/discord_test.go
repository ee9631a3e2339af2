package notifier

import (
	"errors"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"

	bCtx "github.com/x-xyz/pixel-relayer/base/ctx"
	"github.com/x-xyz/pixel-relayer/domain"
)

type fakeSender struct {
	channel string
	embeds  []*discordgo.MessageEmbed
	err     error
}

func (f *fakeSender) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed) (*discordgo.Message, error) {
	f.channel = channelID
	f.embeds = append(f.embeds, embed)
	return &discordgo.Message{}, f.err
}

func testMessage(payload []byte) (*domain.AttestedMessage, *domain.DispatchResult) {
	msg := &domain.AttestedMessage{
		SourceChainId:  domain.ChainIdAptos,
		Sequence:       9,
		EmitterAddress: domain.MustHexToHash32("0x01"),
		Payload:        payload,
	}
	return msg, &domain.DispatchResult{
		Id:       msg.Id(),
		State:    domain.DispatchStateFailed,
		Terminal: true,
		Err:      domain.ErrUntrustedEmitter,
		Attempts: 0,
	}
}

func TestNotifyFailure(t *testing.T) {
	req := require.New(t)
	sender := &fakeSender{}
	n := &discordNotifier{channelId: "ops", discord: sender}

	msg, res := testMessage([]byte{0xde, 0xad})
	req.NoError(n.NotifyFailure(bCtx.Background(), msg, res))
	req.Equal("ops", sender.channel)
	req.Len(sender.embeds, 1)

	embed := sender.embeds[0]
	req.Contains(embed.Description, "22/9")
	values := map[string]string{}
	for _, f := range embed.Fields {
		values[f.Name] = f.Value
	}
	req.Equal("dead", values["Payload"])
	req.Equal("untrusted emitter", values["Reason"])
	req.Equal("-", values["Source tx"])
}

func TestNotifyFailureTruncatesPayload(t *testing.T) {
	msg, res := testMessage(make([]byte, 1024))
	embed := failureEmbed(msg, res)
	for _, f := range embed.Fields {
		if f.Name == "Payload" {
			require.True(t, strings.HasSuffix(f.Value, "..."))
			require.Len(t, f.Value, maxPayloadHex+3)
		}
	}
}

func TestNotifyFailureSendError(t *testing.T) {
	sender := &fakeSender{err: errors.New("rate limited")}
	n := &discordNotifier{channelId: "ops", discord: sender}
	msg, res := testMessage(nil)
	require.Error(t, n.NotifyFailure(bCtx.Background(), msg, res))
}
