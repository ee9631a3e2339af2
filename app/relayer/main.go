package main

import (
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	ipfsapi "github.com/ipfs/go-ipfs-api"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/x-xyz/pixel-relayer/app/relayer/docs"
	bCtx "github.com/x-xyz/pixel-relayer/base/ctx"
	bEth "github.com/x-xyz/pixel-relayer/base/ethereum"
	"github.com/x-xyz/pixel-relayer/base/log"
	"github.com/x-xyz/pixel-relayer/base/relay"
	bValidator "github.com/x-xyz/pixel-relayer/base/validator"
	"github.com/x-xyz/pixel-relayer/domain"
	mmiddleware "github.com/x-xyz/pixel-relayer/middleware"
	"github.com/x-xyz/pixel-relayer/service/aptos"
	"github.com/x-xyz/pixel-relayer/service/evm"
	"github.com/x-xyz/pixel-relayer/service/notifier"
	"github.com/x-xyz/pixel-relayer/service/wormholescan"
	attestation_delivery "github.com/x-xyz/pixel-relayer/stores/attestation/delivery/http"
	auth_usecase "github.com/x-xyz/pixel-relayer/stores/auth/usecase"
	hc_delivery "github.com/x-xyz/pixel-relayer/stores/healthcheck/delivery/http"
	hc_repo "github.com/x-xyz/pixel-relayer/stores/healthcheck/repository"
	hc_usecase "github.com/x-xyz/pixel-relayer/stores/healthcheck/usecase"
	metadata_usecase "github.com/x-xyz/pixel-relayer/stores/metadata/usecase"
	watermark_repository "github.com/x-xyz/pixel-relayer/stores/watermark/repository"
	watermark_usecase "github.com/x-xyz/pixel-relayer/stores/watermark/usecase"
	web_resource "github.com/x-xyz/pixel-relayer/stores/web_resource/repository"
)

func init() {
	configFile := pflag.String("config", "infra/configs/relayer/config.yaml", "config file")
	pflag.Parse()

	viper.SetConfigType("yaml")
	viper.SetConfigFile(*configFile)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

//	@title			Pixel Relayer API
//	@version		1.0
//	@description	Attestation intake and health of the pixel bridge relay.

// main
//
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						Authorization
//	@description				token issued by relayctl token, applied as bearer {token}
func main() {
	ctx, cancel := bCtx.WithCancel(bCtx.Background())
	defer cancel()

	bridge := &domain.BridgeConfig{}
	if err := viper.UnmarshalKey("bridge", bridge); err != nil {
		ctx.WithField("err", err).Panic("failed to read bridge config")
	}
	if err := bValidator.New().Struct(bridge); err != nil {
		ctx.WithField("err", err).Panic("invalid bridge config")
	}

	// watermark store
	ctx.WithField("driver", viper.GetString("watermark.driver")).Info("init watermark store")
	watermarkRepo, err := watermark_repository.Open(ctx, &watermark_repository.DriverCfg{
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
		ctx.WithField("err", err).Panic("failed to open watermark store")
	}
	startSequences := map[domain.ChainId]uint64{}
	for _, c := range bridge.Chains {
		startSequences[c.ChainId] = c.StartSequence
	}
	watermarkUC := watermark_usecase.NewWatermarkUseCase(&watermark_usecase.WatermarkUseCaseCfg{
		Repo:           watermarkRepo,
		CtxTimeout:     viper.GetDuration("relay.storeTimeout"),
		StartSequences: startSequences,
	})

	relayCfg := &relay.Cfg{
		Bridge:        bridge,
		WatermarkUC:   watermarkUC,
		QueueSize:     viper.GetInt("relay.queueSize"),
		MaxAttempts:   viper.GetInt("relay.maxAttempts"),
		AttemptTTL:    viper.GetDuration("relay.attemptTTL"),
		FetchTimeout:  viper.GetDuration("relay.fetchTimeout"),
		SubmitTimeout: viper.GetDuration("relay.submitTimeout"),
	}

	families := map[domain.ChainFamily]bool{}
	for _, c := range bridge.Chains {
		families[c.Family.Destination()] = true
	}

	if families[domain.ChainFamilyEvm] {
		ctx.Info("init evm executor")
		client, err := bEth.Dial(ctx, viper.GetString("evm.rpcUrl"), viper.GetInt("evm.throttle"))
		if err != nil {
			ctx.WithField("err", err).Panic("failed to dial evm node")
		}
		key, err := bEth.LoadPrivateKey(viper.GetString("evm.privateKey"))
		if err != nil {
			ctx.WithField("err", err).Panic("failed to load evm key")
		}
		maxGasPrice, err := decimal.NewFromString(viper.GetString("evm.maxGasPriceGwei"))
		if err != nil {
			maxGasPrice = decimal.Zero
		}
		cfg := &evm.ExecutorCfg{
			Client:          client,
			PrivateKey:      key,
			GasMultiplier:   viper.GetFloat64("evm.gasMultiplier"),
			MaxGasPriceGwei: maxGasPrice,
			Timeout:         viper.GetDuration("relay.submitTimeout"),
		}
		if id := viper.GetInt64("evm.chainId"); id > 0 {
			cfg.NetworkId = big.NewInt(id)
		}
		if relayCfg.EvmExecutor, err = evm.NewExecutor(ctx, cfg); err != nil {
			ctx.WithField("err", err).Panic("failed to init evm executor")
		}
	}

	if families[domain.ChainFamilyMove] {
		ctx.Info("init aptos executor and metadata resolver")
		signer, err := aptos.NewSigner(viper.GetString("aptos.privateKey"))
		if err != nil {
			ctx.WithField("err", err).Panic("failed to load aptos key")
		}
		if relayCfg.MoveExecutor, err = aptos.NewExecutor(ctx, &aptos.ExecutorCfg{
			Client: aptos.NewClient(&aptos.ClientCfg{
				HttpClient: http.Client{},
				NodeUrl:    viper.GetString("aptos.nodeUrl"),
				Timeout:    viper.GetDuration("relay.submitTimeout"),
			}),
			Signer:       signer,
			BridgeDomain: bridge.Domain,
			MaxGasAmount: viper.GetUint64("aptos.maxGasAmount"),
			Expiration:   viper.GetDuration("aptos.expiration"),
			Timeout:      viper.GetDuration("relay.submitTimeout"),
		}); err != nil {
			ctx.WithField("err", err).Panic("failed to init aptos executor")
		}

		metadataTimeout := viper.GetDuration("metadata.timeout")
		ipfsReader := web_resource.NewIpfsGatewayReaderRepo(http.Client{}, viper.GetString("metadata.ipfsGateway"), metadataTimeout)
		if nodeApi := viper.GetString("metadata.ipfsNodeApi"); nodeApi != "" {
			ipfsReader = web_resource.NewIpfsNodeApiReaderRepo(ipfsapi.NewShell(nodeApi), metadataTimeout)
		}
		relayCfg.MetadataUC = metadata_usecase.NewMetadataUseCase(&metadata_usecase.MetadataUseCaseCfg{
			HttpReader:    web_resource.NewHttpReaderRepo(http.Client{}, metadataTimeout, nil),
			IpfsReader:    ipfsReader,
			DataUriReader: web_resource.NewDataUriReaderRepo(),
		})
	}

	if botKey := viper.GetString("discord.botKey"); botKey != "" {
		if relayCfg.Notifier, err = notifier.NewDiscordNotifier(&notifier.DiscordCfg{
			BotKey:    botKey,
			ChannelId: viper.GetString("discord.channelId"),
		}); err != nil {
			ctx.WithField("err", err).Panic("failed to init discord notifier")
		}
	}

	relayer, err := relay.NewRelay(relayCfg)
	if err != nil {
		ctx.WithField("err", err).Panic("failed to init relay")
	}
	relayer.Start(ctx)

	// init echo
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Validator = bValidator.NewCustomValidator(bValidator.New())

	e.GET("/swagger/*", echoSwagger.WrapHandler)
	hc_delivery.New(e, hc_usecase.New(hc_repo.New(watermarkRepo), relayer, bridge))

	sources := []domain.AttestationSource{}
	if secret := viper.GetString("server.jwtSecret"); secret != "" {
		intake, err := attestation_delivery.New(e, auth_usecase.New(secret))
		if err != nil {
			ctx.WithField("err", err).Panic("attestation_delivery.New failed")
		}
		sources = append(sources, intake)
	} else {
		ctx.Warn("server.jwtSecret not set, http attestation intake disabled")
	}

	if viper.GetBool("wormholescan.enabled") {
		sources = append(sources, wormholescan.NewPoller(&wormholescan.PollerCfg{
			Client: wormholescan.NewClient(&wormholescan.ClientCfg{
				HttpClient: http.Client{},
				Url:        viper.GetString("wormholescan.url"),
				Timeout:    viper.GetDuration("relay.fetchTimeout"),
			}),
			Bridge:      bridge,
			WatermarkUC: watermarkUC,
			Interval:    viper.GetDuration("wormholescan.interval"),
			PageSize:    viper.GetInt("wormholescan.pageSize"),
			Workers:     viper.GetInt("wormholescan.workers"),
		}))
	}
	if len(sources) == 0 {
		ctx.Panic("no attestation source, set server.jwtSecret or enable wormholescan")
	}
	for _, s := range sources {
		if err := s.Start(ctx, relayer); err != nil {
			ctx.WithField("err", err).Panic("failed to start attestation source")
		}
	}

	go func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")

	shutdownCtx, shutdownCancel := bCtx.WithTimeout(bCtx.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	}

	// sources stop first, then the lanes drain, then the store closes
	cancel()
	for _, s := range sources {
		s.Wait()
	}
	relayer.Wait()
	if err := watermarkRepo.Close(); err != nil {
		log.Log().WithField("err", err).Error("failed to close watermark store")
	}
	log.Log().Info("shutdown relayer successfully")
}
