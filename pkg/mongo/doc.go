// Package mongo connects the MongoDB driver for the document-backed usage
// store.
//
// Configuration comes from MONGODB_* environment variables:
//
//	var cfg mongo.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//	db, err := mongo.NewWithDatabase(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	store := usage.NewMongoStore(mongo.UsageCollection(db, cfg))
//
// Connection failures wrap ErrFailedToConnectToMongo; Healthcheck wraps
// ErrHealthcheckFailed.
package mongo
