package mongo

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/xerrors"

	bCtx "github.com/x-xyz/pixel-relayer/base/ctx"
	"github.com/x-xyz/pixel-relayer/base/database/mongoclient"
	"github.com/x-xyz/pixel-relayer/base/log"
	"github.com/x-xyz/pixel-relayer/domain"
)

const TableSequenceWatermarks = "sequence_watermarks"

type watermarkId struct {
	ChainId domain.ChainId `bson:"chainId"`
}

type watermarkPatch struct {
	Sequence int64 `bson:"lastProcessedSequence"`
}

type watermarkMongoRepo struct {
	client *mongoclient.Client
	coll   *mongo.Collection
}

// NewWatermarkMongoRepo makes sure chainId is unique, the conditional upsert relies on it
func NewWatermarkMongoRepo(ctx bCtx.Ctx, client *mongoclient.Client) (domain.WatermarkRepo, error) {
	coll := client.Collection(TableSequenceWatermarks)
	if _, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "chainId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		ctx.WithField("err", err).Error("failed to create chainId index")
		return nil, err
	}
	return &watermarkMongoRepo{client: client, coll: coll}, nil
}

func (r *watermarkMongoRepo) Get(ctx bCtx.Ctx, chainId domain.ChainId) (*domain.SequenceWatermark, error) {
	qry, err := mongoclient.MakeBsonM(&watermarkId{ChainId: chainId})
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":     err,
			"chainId": chainId,
		}).Error("failed to make bson.M")
		return nil, err
	}

	w := &domain.SequenceWatermark{}
	if err := r.coll.FindOne(ctx, qry).Decode(w); err == mongo.ErrNoDocuments {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  qry,
		}).Error("failed to FindOne")
		return nil, err
	}
	return w, nil
}

// storedSequence converts seq to the int64 mongo stores. Sequences above MaxInt64 would wrap.
func storedSequence(seq uint64) (int64, error) {
	if seq > math.MaxInt64 {
		return 0, xerrors.Errorf("sequence %d exceeds int64: %w", seq, domain.ErrBadParamInput)
	}
	return int64(seq), nil
}

func (r *watermarkMongoRepo) CompareAndSet(ctx bCtx.Ctx, chainId domain.ChainId, seq uint64) (*domain.SequenceWatermark, bool, error) {
	stored, err := storedSequence(seq)
	if err != nil {
		ctx.WithField("err", err).Error("storedSequence failed")
		return nil, false, err
	}
	selector := bson.M{
		"chainId":               chainId,
		"lastProcessedSequence": bson.M{"$lt": stored},
	}
	update, err := mongoclient.MakeSetUpdate(&watermarkPatch{Sequence: stored}, time.Now())
	if err != nil {
		return nil, false, err
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	w := &domain.SequenceWatermark{}
	err = r.coll.FindOneAndUpdate(ctx, selector, update, opts).Decode(w)
	if err == nil {
		return w, true, nil
	}

	// the stored sequence is not lower: the selector misses and the upsert hits the unique index
	if mongo.IsDuplicateKeyError(err) || err == mongo.ErrNoDocuments {
		cur, getErr := r.Get(ctx, chainId)
		if getErr != nil {
			return nil, false, getErr
		}
		return cur, false, nil
	}

	ctx.WithFields(log.Fields{
		"err":     err,
		"chainId": chainId,
		"seq":     seq,
	}).Error("failed to FindOneAndUpdate")
	return nil, false, err
}

func (r *watermarkMongoRepo) Close() error {
	return r.client.Close()
}
