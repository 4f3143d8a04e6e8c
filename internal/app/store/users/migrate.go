package userstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MigrateLegacyGroups folds the legacy single group_id into group_ids for
// every user still carrying it, then removes the legacy field. It returns
// the number of users rewritten and is safe to run repeatedly.
func (s *Store) MigrateLegacyGroups(ctx context.Context) (int64, error) {
	filter := bson.M{"group_id": bson.M{"$exists": true}}
	// Pipeline update: null legacy values are dropped rather than added.
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"group_ids": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{bson.M{"$type": "$group_id"}, "objectId"}},
				bson.M{"$setUnion": bson.A{bson.M{"$ifNull": bson.A{"$group_ids", bson.A{}}}, bson.A{"$group_id"}}},
				bson.M{"$ifNull": bson.A{"$group_ids", bson.A{}}},
			}},
		}}},
		{{Key: "$unset", Value: "group_id"}},
	}
	res, err := s.c.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
