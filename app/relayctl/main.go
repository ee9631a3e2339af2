package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/xerrors"

	bCtx "github.com/x-xyz/pixel-relayer/base/ctx"
	"github.com/x-xyz/pixel-relayer/base/payload"
	"github.com/x-xyz/pixel-relayer/base/vaa"
	"github.com/x-xyz/pixel-relayer/domain"
	auth_usecase "github.com/x-xyz/pixel-relayer/stores/auth/usecase"
	watermark_repository "github.com/x-xyz/pixel-relayer/stores/watermark/repository"
)

const usage = `usage: relayctl <command> [flags]

commands:
  encode-revive  encode a revive payload (move -> evm)
  encode-mint    encode a mint payload (evm -> move)
  decode         decode a payload or a vaa
  watermark      print the committed watermark of a chain
  token          sign a bearer token for the attestation intake
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx := bCtx.Background()
	var err error
	switch os.Args[1] {
	case "encode-revive":
		err = encodeRevive(os.Args[2:])
	case "encode-mint":
		err = encodeMint(os.Args[2:])
	case "decode":
		err = decode(os.Args[2:])
	case "watermark":
		err = watermark(ctx, os.Args[2:])
	case "token":
		err = token(ctx, os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printJson(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseHash32(name, v string) (domain.Hash32, error) {
	h, err := domain.HexToHash32(v)
	if err != nil {
		return h, xerrors.Errorf("--%s: %w", name, err)
	}
	return h, nil
}

func encodeRevive(args []string) error {
	fs := pflag.NewFlagSet("encode-revive", pflag.ExitOnError)
	dest := fs.String("dest", "", "evm bridge contract")
	tokenContract := fs.String("token", "", "token contract")
	tokenId := fs.Uint8("token-id", 0, "token id")
	receiver := fs.String("receiver", "", "evm receiver")
	fs.Parse(args)

	action := &domain.ReviveAction{TokenId: *tokenId}
	var err error
	if action.DestContractId, err = parseHash32("dest", *dest); err != nil {
		return err
	}
	if action.TokenContract, err = parseHash32("token", *tokenContract); err != nil {
		return err
	}
	if action.Receiver, err = parseHash32("receiver", *receiver); err != nil {
		return err
	}
	fmt.Println("0x" + hex.EncodeToString(payload.EncodeRevive(action)))
	return nil
}

func encodeMint(args []string) error {
	fs := pflag.NewFlagSet("encode-mint", pflag.ExitOnError)
	dest := fs.String("dest", "", "move bridge module address")
	collection := fs.String("collection", "", "source collection contract")
	tokenId := fs.String("token-id", "0", "decimal token id")
	name := fs.String("collection-name", "", "collection name")
	description := fs.String("collection-description", "", "collection description")
	tokenUri := fs.String("token-uri", "", "token uri or inline json metadata")
	receiver := fs.String("receiver", "", "move receiver")
	fs.Parse(args)

	action := &domain.MintAction{
		TokenId:               *tokenId,
		CollectionName:        *name,
		CollectionDescription: *description,
		TokenUri:              *tokenUri,
	}
	var err error
	if action.DestContractId, err = parseHash32("dest", *dest); err != nil {
		return err
	}
	if action.SourceCollectionContract, err = parseHash32("collection", *collection); err != nil {
		return err
	}
	if action.Receiver, err = parseHash32("receiver", *receiver); err != nil {
		return err
	}
	p, err := payload.EncodeMint(action)
	if err != nil {
		return err
	}
	fmt.Println("0x" + hex.EncodeToString(p))
	return nil
}

type decoded struct {
	Message *domain.AttestedMessage `json:"message,omitempty"`
	Action  domain.ActionDescriptor `json:"action"`
}

func decode(args []string) error {
	fs := pflag.NewFlagSet("decode", pflag.ExitOnError)
	family := fs.String("family", "", "source chain family of a bare payload, evm or move")
	isVaa := fs.Bool("vaa", false, "the input is a signed vaa")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return xerrors.New("decode takes one hex argument")
	}
	input := fs.Arg(0)

	out := decoded{}
	var raw []byte
	f := domain.ChainFamily(*family)
	if *isVaa {
		v, err := vaa.ParseString(input)
		if err != nil {
			return err
		}
		out.Message = v.Message("")
		raw = v.Payload
		if f == "" {
			f = familyOf(v.EmitterChain)
		}
	} else {
		b, err := hex.DecodeString(strings.TrimPrefix(input, "0x"))
		if err != nil {
			return err
		}
		raw = b
	}
	if !f.IsValid() {
		return xerrors.Errorf("--family %q: %w", f, domain.ErrBadParamInput)
	}

	action, err := payload.Decode(f, raw)
	if err != nil {
		return err
	}
	out.Action = action
	return printJson(out)
}

func familyOf(id domain.ChainId) domain.ChainFamily {
	if id == domain.ChainIdAptos {
		return domain.ChainFamilyMove
	}
	return domain.ChainFamilyEvm
}

func loadConfig(path string) error {
	viper.SetConfigType("yaml")
	viper.SetConfigFile(path)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	return viper.ReadInConfig()
}

func watermark(ctx bCtx.Ctx, args []string) error {
	fs := pflag.NewFlagSet("watermark", pflag.ExitOnError)
	configFile := fs.String("config", "infra/configs/relayer/config.yaml", "relayer config file")
	chainId := fs.Uint16("chain", 0, "source chain id")
	fs.Parse(args)
	if err := loadConfig(*configFile); err != nil {
		return err
	}

	repo, err := watermark_repository.Open(ctx, &watermark_repository.DriverCfg{
		Driver:          viper.GetString("watermark.driver"),
		RedisUri:        viper.GetString("redis.uri"),
		RedisPassword:   viper.GetString("redis.password"),
		RedisKeyPrefix:  viper.GetString("redis.keyPrefix"),
		MongoUri:        viper.GetString("mongo.uri"),
		MongoAuthDBName: viper.GetString("mongo.authDBName"),
		MongoDBName:     viper.GetString("mongo.dbName"),
		MongoEnableSSL:  viper.GetBool("mongo.enableSSL"),
	})
	if err != nil {
		return err
	}
	defer repo.Close()

	wm, err := repo.Get(ctx, domain.ChainId(*chainId))
	if err != nil {
		return err
	}
	return printJson(wm)
}

func token(ctx bCtx.Ctx, args []string) error {
	fs := pflag.NewFlagSet("token", pflag.ExitOnError)
	configFile := fs.String("config", "infra/configs/relayer/config.yaml", "relayer config file")
	submitter := fs.String("submitter", "", "name of the token holder")
	ttl := fs.Duration("ttl", 30*24*time.Hour, "token lifetime, 0 for no expiry")
	fs.Parse(args)
	if err := loadConfig(*configFile); err != nil {
		return err
	}

	secret := viper.GetString("server.jwtSecret")
	if secret == "" || *submitter == "" {
		return xerrors.Errorf("server.jwtSecret and --submitter are required: %w", domain.ErrBadParamInput)
	}
	tkn, err := auth_usecase.New(secret).SignToken(ctx, *submitter, *ttl)
	if err != nil {
		return err
	}
	fmt.Println(tkn)
	return nil
}
