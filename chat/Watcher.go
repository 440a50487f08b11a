package chat

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"campusconnect/database"
	"campusconnect/models"
)

// Watcher tails the posts collection and fans each new post out to the online
// users allowed to see it. It replaces client-side full-collection polling:
// the audience of a post is the author plus the author's connections, which
// mirrors the visibility rule applied on feed reads.
type Watcher struct {
	db     *mongo.Database
	server *Server
	store  Store
	log    *zap.Logger
}

func NewWatcher(db *mongo.Database, server *Server, store Store, log *zap.Logger) *Watcher {
	return &Watcher{db: db, server: server, store: store, log: log}
}

// Run blocks until ctx is cancelled or the change stream fails.
func (w *Watcher) Run(ctx context.Context) error {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"operationType": "insert"}}},
	}
	cs, err := w.db.Collection(database.PostCollection).Watch(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cs.Close(ctx)

	for cs.Next(ctx) {
		var change struct {
			FullDocument models.Post `bson:"fullDocument"`
		}
		if err := cs.Decode(&change); err != nil {
			w.log.Warn("decode change event failed", zap.Error(err))
			continue
		}
		w.fanout(ctx, change.FullDocument)
	}
	return cs.Err()
}

func (w *Watcher) fanout(ctx context.Context, post models.Post) {
	connections, err := w.store.ConnectionsOf(ctx, post.AuthorID)
	if err != nil {
		w.log.Error("resolve post audience failed", zap.Error(err))
		return
	}
	viewers := append(connections, post.AuthorID)
	w.server.NotifyPost(post, viewers)
}
