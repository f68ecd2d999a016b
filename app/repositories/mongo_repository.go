package repositories

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"modernblog/app/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// PostsCollection is the collection holding post documents
const PostsCollection = "posts"

// ConnectMongo connects to MongoDB and verifies the server is reachable.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return client, nil
}

// MongoPostRepository implements PostRepository on a MongoDB collection
type MongoPostRepository struct {
	coll *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{coll: db.Collection(PostsCollection)}
}

// Create inserts a new post
func (r *MongoPostRepository) Create(ctx context.Context, post *models.Post) error {
	post.BeforeCreate()
	if _, err := r.coll.InsertOne(ctx, post); err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}

// GetByID retrieves a post by ID
func (r *MongoPostRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	return decodePost(r.coll.FindOne(ctx, bson.M{"_id": id}))
}

// List retrieves every post passing the filter, newest first
func (r *MongoPostRepository) List(ctx context.Context, filter models.PostFilter) ([]*models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.coll.Find(ctx, mongoFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer cur.Close(ctx)

	posts := []*models.Post{}
	for cur.Next(ctx) {
		var post models.Post
		if err := cur.Decode(&post); err != nil {
			return nil, fmt.Errorf("failed to decode post: %w", err)
		}
		post.Normalize()
		posts = append(posts, &post)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}

// Update sets the supplied fields on an existing post. With ifMatch, the write only
// applies to the version of the document the tag was checked against.
func (r *MongoPostRepository) Update(ctx context.Context, id primitive.ObjectID, patch *models.PostPatch, ifMatch string) (*models.Post, error) {
	if ifMatch == "" || ifMatch == "*" {
		if patch.IsEmpty() {
			return r.GetByID(ctx, id)
		}
		return r.findOneAndUpdate(ctx, bson.M{"_id": id}, setUpdate(patch))
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := CheckPrecondition(current, ifMatch); err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return current, nil
	}

	post, err := r.findOneAndUpdate(ctx, versionFilter(id, current.Version), setUpdate(patch))
	if errors.Is(err, ErrNotFound) {
		// Either deleted or written since the check.
		if _, getErr := r.GetByID(ctx, id); getErr == nil {
			return nil, ErrPreconditionFailed
		}
	}
	return post, err
}

func setUpdate(patch *models.PostPatch) bson.M {
	return bson.M{"$set": patch.SetDocument(), "$inc": bson.M{"version": 1}}
}

// versionFilter matches the post only at the given version. Documents written by
// other tools carry no version and count as version 0.
func versionFilter(id primitive.ObjectID, version int64) bson.M {
	if version == 0 {
		return bson.M{"_id": id, "version": bson.M{"$in": bson.A{0, nil}}}
	}
	return bson.M{"_id": id, "version": version}
}

// Delete deletes a post by ID
func (r *MongoPostRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendComment pushes a comment onto the post's comment array
func (r *MongoPostRepository) AppendComment(ctx context.Context, postID primitive.ObjectID, comment models.Comment) (*models.Post, error) {
	return r.findOneAndUpdate(ctx, bson.M{"_id": postID}, bson.M{
		"$push": bson.M{"comments": comment},
		"$inc":  bson.M{"version": 1},
	})
}

// RemoveComment pulls a comment out of the post's comment array
func (r *MongoPostRepository) RemoveComment(ctx context.Context, postID, commentID primitive.ObjectID) (*models.Post, error) {
	return r.findOneAndUpdate(ctx, bson.M{"_id": postID}, bson.M{
		"$pull": bson.M{"comments": bson.M{"_id": commentID}},
		"$inc":  bson.M{"version": 1},
	})
}

// Clear deletes every post
func (r *MongoPostRepository) Clear(ctx context.Context) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to clear posts: %w", err)
	}
	return nil
}

func (r *MongoPostRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*models.Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	return decodePost(r.coll.FindOneAndUpdate(ctx, filter, update, opts))
}

func decodePost(res *mongo.SingleResult) (*models.Post, error) {
	var post models.Post
	if err := res.Decode(&post); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	post.Normalize()
	return &post, nil
}

// mongoFilter translates a PostFilter; the query is matched literally, not as a pattern.
func mongoFilter(f models.PostFilter) bson.M {
	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Query != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(f.Query), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"content": pattern},
			bson.M{"category": pattern},
		}
	}
	return filter
}
