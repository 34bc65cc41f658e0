package usage

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Mohnish27-dev/protocol-zero/pkg/limits"
)

// mongoRecord is the document layout, one per user keyed by user id.
// Tier holds the legacy plan name written by older clients; it is dropped on the next tier write.
type mongoRecord struct {
	UserID      string           `bson:"_id"`
	IsPro       *bool            `bson:"isPro,omitempty"`
	Tier        *string          `bson:"tier,omitempty"`
	Usage       map[string]int64 `bson:"usage"`
	WindowStart time.Time        `bson:"windowStart"`
	CreatedAt   time.Time        `bson:"createdAt"`
}

func (d mongoRecord) record() Record {
	return Record{
		IsPro:       decodeTier(d.IsPro, d.Tier).normalize(),
		Usage:       countersFrom(d.Usage),
		WindowStart: d.WindowStart.UTC(),
		CreatedAt:   d.CreatedAt.UTC(),
	}
}

func mongoRecordFrom(userID string, rec Record) mongoRecord {
	isPro := rec.IsPro
	return mongoRecord{
		UserID:      userID,
		IsPro:       &isPro,
		Usage:       countersTo(rec.Usage),
		WindowStart: rec.WindowStart.UTC(),
		CreatedAt:   rec.CreatedAt.UTC(),
	}
}

// MongoStore implements Store on a MongoDB collection.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore returns a store over coll. A nil collection yields a store whose
// every call fails with ErrStoreUnavailable.
func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func usageField(f limits.Feature) string {
	return "usage." + string(f)
}

func (s *MongoStore) ready() error {
	if s == nil || s.coll == nil {
		return errors.Join(ErrStoreUnavailable, errors.New("mongo collection is not configured"))
	}
	return nil
}

func (s *MongoStore) Load(ctx context.Context, userID string) (*Record, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	var doc mongoRecord
	err := s.coll.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable(err)
	}
	rec := doc.record()
	return &rec, nil
}

func (s *MongoStore) Create(ctx context.Context, userID string, rec Record) (Record, error) {
	if err := s.ready(); err != nil {
		return Record{}, err
	}
	doc := mongoRecordFrom(userID, rec)
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$setOnInsert": bson.M{
			"isPro":       doc.IsPro,
			"usage":       doc.Usage,
			"windowStart": doc.WindowStart,
			"createdAt":   doc.CreatedAt,
		}},
		options.UpdateOne().SetUpsert(true),
	)
	// Two concurrent upserts on the same _id can surface as a duplicate key error; the other writer won.
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return Record{}, unavailable(err)
	}

	stored, err := s.Load(ctx, userID)
	if err != nil {
		return Record{}, err
	}
	if stored == nil {
		return Record{}, unavailable(ErrRecordNotFound)
	}
	return *stored, nil
}

func (s *MongoStore) Save(ctx context.Context, userID string, rec Record) error {
	if err := s.ready(); err != nil {
		return err
	}
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": userID},
		mongoRecordFrom(userID, rec),
		options.Replace().SetUpsert(true),
	)
	return unavailable(err)
}

func (s *MongoStore) Increment(ctx context.Context, userID string, feature limits.Feature) error {
	if err := s.ready(); err != nil {
		return err
	}
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$inc": bson.M{usageField(feature): 1}},
	)
	if err != nil {
		return unavailable(err)
	}
	if res.MatchedCount == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *MongoStore) Decrement(ctx context.Context, userID string, feature limits.Feature) error {
	if err := s.ready(); err != nil {
		return err
	}
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": userID, usageField(feature): bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{usageField(feature): -1}},
	)
	return unavailable(err)
}

func (s *MongoStore) SetTier(ctx context.Context, userID string, isPro bool) error {
	if err := s.ready(); err != nil {
		return err
	}
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$set":   bson.M{"isPro": isPro},
			"$unset": bson.M{"tier": ""},
		},
	)
	if err != nil {
		return unavailable(err)
	}
	if res.MatchedCount == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *MongoStore) ResetWindow(ctx context.Context, userID string, from, to time.Time, features []limits.Feature) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	filter, update := resetWindowQuery(userID, from, to, features)
	res, err := s.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, unavailable(err)
	}
	return res.MatchedCount == 1, nil
}

func (s *MongoStore) IncrementIfBelow(ctx context.Context, userID string, feature limits.Feature, limit int64) (int64, bool, error) {
	if err := s.ready(); err != nil {
		return 0, false, err
	}
	if limit > 0 {
		filter, update := incrementIfBelowQuery(userID, feature, limit)
		var doc mongoRecord
		err := s.coll.FindOneAndUpdate(ctx, filter, update,
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&doc)
		if err == nil {
			return doc.record().Usage[feature], true, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return 0, false, unavailable(err)
		}
	}

	rec, err := s.Load(ctx, userID)
	if err != nil {
		return 0, false, err
	}
	if rec == nil {
		return 0, false, ErrRecordNotFound
	}
	return rec.Usage[feature], false, nil
}

// resetWindowQuery matches the record only while its window is still from,
// so of two racing resets only one applies.
func resetWindowQuery(userID string, from, to time.Time, features []limits.Feature) (filter, update bson.M) {
	set := bson.M{"windowStart": to.UTC()}
	for _, f := range features {
		set[usageField(f)] = int64(0)
	}
	filter = bson.M{"_id": userID, "windowStart": from.UTC()}
	if from.IsZero() {
		// Legacy documents may lack the window entirely.
		filter["windowStart"] = bson.M{"$in": bson.A{nil, from.UTC()}}
	}
	return filter, bson.M{"$set": set}
}

// incrementIfBelowQuery matches the record only while the counter is below
// limit. A counter that was never written counts as zero.
func incrementIfBelowQuery(userID string, feature limits.Feature, limit int64) (filter, update bson.M) {
	field := usageField(feature)
	filter = bson.M{
		"_id": userID,
		"$or": bson.A{
			bson.M{field: bson.M{"$lt": limit}},
			bson.M{field: bson.M{"$exists": false}},
		},
	}
	return filter, bson.M{"$inc": bson.M{field: 1}}
}

// countersFrom keeps known features only, fills missing ones with zero and clamps negatives.
func countersFrom(raw map[string]int64) Counters {
	out := make(Counters, len(limits.KnownFeatures))
	for _, f := range limits.KnownFeatures {
		out[f] = max(0, raw[string(f)])
	}
	return out
}

func countersTo(c Counters) map[string]int64 {
	out := make(map[string]int64, len(limits.KnownFeatures))
	for _, f := range limits.KnownFeatures {
		out[string(f)] = max(0, c[f])
	}
	return out
}
