package notifier

import (
	"encoding/hex"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/xerrors"

	bCtx "github.com/x-xyz/pixel-relayer/base/ctx"
	"github.com/x-xyz/pixel-relayer/domain"
)

// maxPayloadHex keeps embeds under the discord field limit
const maxPayloadHex = 512

type embedSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed) (*discordgo.Message, error)
}

type DiscordCfg struct {
	BotKey    string
	ChannelId string
}

type discordNotifier struct {
	channelId string
	discord   embedSender
}

func NewDiscordNotifier(cfg *DiscordCfg) (domain.FailureNotifier, error) {
	discord, err := discordgo.New(fmt.Sprintf("Bot %s", cfg.BotKey))
	if err != nil {
		return nil, xerrors.Errorf("failed to create discord session: %w", err)
	}
	return &discordNotifier{channelId: cfg.ChannelId, discord: discord}, nil
}

func (n *discordNotifier) NotifyFailure(ctx bCtx.Ctx, msg *domain.AttestedMessage, res *domain.DispatchResult) error {
	if _, err := n.discord.ChannelMessageSendEmbed(n.channelId, failureEmbed(msg, res)); err != nil {
		ctx.WithField("err", err).Error("discord.ChannelMessageSendEmbed failed")
		return err
	}
	return nil
}

func failureEmbed(msg *domain.AttestedMessage, res *domain.DispatchResult) *discordgo.MessageEmbed {
	payload := hex.EncodeToString(msg.Payload)
	if len(payload) > maxPayloadHex {
		payload = payload[:maxPayloadHex] + "..."
	}
	if payload == "" {
		payload = "-"
	}
	reason := "-"
	if res.Err != nil {
		reason = res.Err.Error()
	}
	txHash := msg.SourceTxHash
	if txHash == "" {
		txHash = "-"
	}

	return &discordgo.MessageEmbed{
		Title:       "Bridge message dropped",
		Description: fmt.Sprintf("message %s will not be relayed", res.Id),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Source chain", Value: msg.SourceChainId.String(), Inline: true},
			{Name: "Sequence", Value: fmt.Sprint(msg.Sequence), Inline: true},
			{Name: "Attempts", Value: fmt.Sprint(res.Attempts), Inline: true},
			{Name: "Emitter", Value: msg.EmitterAddress.Hex()},
			{Name: "Source tx", Value: txHash},
			{Name: "Reason", Value: reason},
			{Name: "Payload", Value: payload},
		},
	}
}
