package usage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/Mohnish27-dev/protocol-zero/pkg/limits"
)

func TestResetWindowQuery(t *testing.T) {
	t.Parallel()

	from := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	resettable := []limits.Feature{limits.FeaturePushAnalyses, limits.FeatureFixPRs}

	t.Run("compares the current window", func(t *testing.T) {
		t.Parallel()
		filter, update := resetWindowQuery("u1", from, to, resettable)

		assert.Equal(t, bson.M{"_id": "u1", "windowStart": from}, filter)
		assert.Equal(t, bson.M{"$set": bson.M{
			"windowStart":         to,
			"usage.push_analyses": int64(0),
			"usage.fix_prs":       int64(0),
		}}, update)
		assert.NotContains(t, update["$set"], "usage.projects", "durable counter survives the reset")
	})

	t.Run("zero window also matches a missing field", func(t *testing.T) {
		t.Parallel()
		filter, _ := resetWindowQuery("u1", time.Time{}, to, resettable)

		assert.Equal(t, bson.M{"$in": bson.A{nil, time.Time{}}}, filter["windowStart"])
		_, err := bson.Marshal(filter)
		require.NoError(t, err)
	})
}

func TestIncrementIfBelowQuery(t *testing.T) {
	t.Parallel()

	filter, update := incrementIfBelowQuery("u1", limits.FeatureFixPRs, 2)

	assert.Equal(t, bson.M{
		"_id": "u1",
		"$or": bson.A{
			bson.M{"usage.fix_prs": bson.M{"$lt": int64(2)}},
			bson.M{"usage.fix_prs": bson.M{"$exists": false}},
		},
	}, filter)
	assert.Equal(t, bson.M{"$inc": bson.M{"usage.fix_prs": 1}}, update)
}

func TestMongoRecordFrom_DropsLegacyTier(t *testing.T) {
	t.Parallel()

	legacy := mongoRecord{UserID: "u1", Tier: ptr("premium"), Usage: map[string]int64{"projects": 1}}
	rec := legacy.record()
	require.True(t, rec.IsPro)

	out := mongoRecordFrom("u1", rec)
	require.NotNil(t, out.IsPro)
	assert.True(t, *out.IsPro)
	assert.Nil(t, out.Tier, "writes carry the boolean flag only")
	assert.Equal(t, int64(1), out.Usage["projects"])
}
