package mongoclient

import (
	"context"
	"crypto/tls"
	"runtime"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/x-xyz/pixel-relayer/base/log"
)

const (
	mgSocketTimeout = 60 * time.Second
	connectTimeout  = 10 * time.Second
)

type Cfg struct {
	Uri        string
	AuthDBName string
	DBName     string
	EnableSSL  bool
	// majority write concern, the watermark store always sets it
	Safe bool
	// total pool size is NumCPU * PoolSizeMultiplier, split across hosts
	PoolSizeMultiplier float64
}

// Client wraps mongo.Client
type Client struct {
	DbName string
	*mongo.Client
}

// poolSize returns the min and max pool size of each host
func poolSize(cpus, hosts int, multiplier float64) (uint64, uint64) {
	total := int(float64(cpus) * multiplier)
	if total < 4 {
		total = 4
	}
	if hosts < 1 {
		hosts = 1
	}
	perHost := (total + hosts - 1) / hosts
	return uint64(perHost / 4), uint64(perHost)
}

func Connect(ctx context.Context, cfg Cfg) (*Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	logger := log.Log().WithField("dbName", cfg.DBName)
	connSetting, err := connstring.Parse(cfg.Uri)
	if err != nil {
		logger.WithField("err", err).Error("fail to parse connstring")
		return nil, err
	}
	logger = logger.WithField("mongoHosts", connSetting.Hosts)

	clientOpts := options.Client().ApplyURI(cfg.Uri).SetSocketTimeout(mgSocketTimeout).SetRetryWrites(true)

	// authSource in the uri wins over AuthDBName
	if connSetting.Username != "" && connSetting.AuthSource == "" && cfg.AuthDBName != "" {
		clientOpts.SetAuth(options.Credential{
			AuthMechanism:           connSetting.AuthMechanism,
			AuthMechanismProperties: connSetting.AuthMechanismProperties,
			Username:                connSetting.Username,
			Password:                connSetting.Password,
			PasswordSet:             connSetting.PasswordSet,
			AuthSource:              cfg.AuthDBName,
		})
	}

	minPool, maxPool := poolSize(runtime.NumCPU(), len(connSetting.Hosts), cfg.PoolSizeMultiplier)
	clientOpts.SetMinPoolSize(minPool).SetMaxPoolSize(maxPool)

	if cfg.EnableSSL {
		clientOpts.SetTLSConfig(&tls.Config{})
	}
	if cfg.Safe {
		clientOpts.SetWriteConcern(writeconcern.New(writeconcern.WMajority()))
	}

	client, err := mongo.NewClient(clientOpts)
	if err != nil {
		logger.WithField("err", err).Error("fail to create mongo client")
		return nil, err
	}
	if err := client.Connect(ctx); err != nil {
		logger.WithField("err", err).Error("fail to connect mongo db")
		return nil, err
	}
	if _, err := client.Database(cfg.DBName).ListCollectionNames(ctx, bson.D{}); err != nil {
		logger.WithField("err", err).Error("fail to test mongo db")
		return nil, err
	}

	logger.WithField("maxPoolSize", maxPool).Info("mongo connected")
	return &Client{
		Client: client,
		DbName: cfg.DBName,
	}, nil
}

// Collection returns the named collection of the client database
func (c *Client) Collection(name string) *mongo.Collection {
	return c.Database(c.DbName).Collection(name)
}

// Close disconnects the client, waiting at most connectTimeout for in-use connections
func (c *Client) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return c.Disconnect(ctx)
}
