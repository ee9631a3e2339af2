package mongoclient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

type patchableWatermark struct {
	ChainId  uint16  `bson:"chainId"`
	Sequence *uint64 `bson:"lastProcessedSequence,omitempty"`
	Note     string  `bson:"note,omitempty"`
	Owner    *string `bson:"owner"`
	Skipped  string  `bson:"-"`
}

func TestMakeBsonM(t *testing.T) {
	seq := uint64(0)
	m, err := MakeBsonM(&patchableWatermark{Sequence: &seq, Skipped: "x"})

	assert.NoError(t, err)
	assert.Equal(t, bson.M{
		// zero chainId is kept, it is not omitempty
		"chainId":               uint16(0),
		"lastProcessedSequence": uint64(0),
	}, m)
}

func TestMakeBsonMNotStruct(t *testing.T) {
	_, err := MakeBsonM(map[string]int{})
	assert.ErrorIs(t, err, ErrNotStruct)
}

func TestMakeSetUpdate(t *testing.T) {
	seq := uint64(9)
	owner := "relayer"
	now := time.Date(2022, 5, 1, 0, 0, 0, 0, time.FixedZone("x", 3600))

	u, err := MakeSetUpdate(patchableWatermark{ChainId: 22, Sequence: &seq, Owner: &owner}, now)
	require.NoError(t, err)
	assert.Equal(t, bson.M{"$set": bson.M{
		"chainId":               uint16(22),
		"lastProcessedSequence": uint64(9),
		"owner":                 "relayer",
		"updatedAt":             now.UTC(),
	}}, u)
}
