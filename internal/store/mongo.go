package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/ykvlv/eventbot/internal/domain"
)

const (
	DefaultDatabase  = "event_bot"
	usersCollection  = "users"
	eventsCollection = "events"
)

// eventDoc mirrors a stored event. event_time is kept raw because it is
// written either as "YYYY-MM-DD HH:MM:SS±HHMM" text or as a BSON datetime.
type eventDoc struct {
	EventID   string        `bson:"event_id"`
	Name      string        `bson:"event_name"`
	EventTime bson.RawValue `bson:"event_time"`
	Location  string        `bson:"event_location"`
}

// userDoc mirrors a stored user. registered_events is normally an array of
// event IDs, but a lone string is also matched by the registration query.
type userDoc struct {
	AccountID        string        `bson:"teckzite_id"`
	Name             string        `bson:"name"`
	Email            string        `bson:"email"`
	RegisteredEvents bson.RawValue `bson:"registered_events"`
}

// MongoRepo implements Repo on top of a MongoDB database.
type MongoRepo struct {
	client *mongo.Client
	users  *mongo.Collection
	events *mongo.Collection
	loc    *time.Location
	log    *zap.Logger
}

// OpenMongo connects to uri and verifies the connection with a ping.
// Event times are normalized to loc as they are read.
func OpenMongo(ctx context.Context, uri, database string, loc *time.Location, log *zap.Logger) (*MongoRepo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, unavailable("connect", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, unavailable("ping", err)
	}
	return NewMongoRepo(client, database, loc, log), nil
}

// NewMongoRepo wraps an already connected client.
func NewMongoRepo(client *mongo.Client, database string, loc *time.Location, log *zap.Logger) *MongoRepo {
	if database == "" {
		database = DefaultDatabase
	}
	db := client.Database(database)
	return &MongoRepo{
		client: client,
		users:  db.Collection(usersCollection),
		events: db.Collection(eventsCollection),
		loc:    loc,
		log:    log,
	}
}

// Ping checks that the database is reachable.
func (r *MongoRepo) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx, nil); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

// Close disconnects the client.
func (r *MongoRepo) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// FetchAllEvents returns every stored event with its start time normalized.
// Events with an unreadable time are logged and left out.
func (r *MongoRepo) FetchAllEvents(ctx context.Context) ([]domain.Event, error) {
	cur, err := r.events.Find(ctx, bson.D{})
	if err != nil {
		return nil, unavailable("find events", err)
	}
	docs, err := decodeEach[eventDoc](ctx, cur, r.log, eventsCollection)
	if err != nil {
		return nil, unavailable("read events", err)
	}

	res := make([]domain.Event, 0, len(docs))
	for _, d := range docs {
		ev, err := toEvent(d, r.loc)
		if err != nil {
			r.log.Warn("skip event with bad time", zap.String("event_id", d.EventID), zap.Error(err))
			continue
		}
		res = append(res, ev)
	}
	return res, nil
}

// FetchUsersRegisteredFor returns users whose registered_events contains eventID.
func (r *MongoRepo) FetchUsersRegisteredFor(ctx context.Context, eventID string) ([]domain.User, error) {
	cur, err := r.users.Find(ctx, bson.D{{Key: "registered_events", Value: eventID}})
	if err != nil {
		return nil, unavailable("find registered users", err)
	}
	docs, err := decodeEach[userDoc](ctx, cur, r.log, usersCollection)
	if err != nil {
		return nil, unavailable("read registered users", err)
	}

	res := make([]domain.User, 0, len(docs))
	for _, d := range docs {
		res = append(res, toUser(d))
	}
	return res, nil
}

// FetchUser returns the user with the given account ID, or nil if none exists.
func (r *MongoRepo) FetchUser(ctx context.Context, accountID string) (*domain.User, error) {
	var d userDoc
	err := r.users.FindOne(ctx, bson.D{{Key: "teckzite_id", Value: accountID}}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable("find user", err)
	}
	u := toUser(d)
	return &u, nil
}

// decodeEach drains cur, decoding documents one at a time. A document that
// does not fit T is logged and skipped; only cursor faults are returned.
func decodeEach[T any](ctx context.Context, cur *mongo.Cursor, log *zap.Logger, collection string) ([]T, error) {
	defer func() { _ = cur.Close(ctx) }()

	var out []T
	for cur.Next(ctx) {
		var d T
		if err := cur.Decode(&d); err != nil {
			log.Warn("skip malformed document",
				zap.String("collection", collection),
				zap.Stringer("_id", cur.Current.Lookup("_id")),
				zap.Error(err),
			)
			continue
		}
		out = append(out, d)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// toEvent is the one place where the two stored time representations meet.
func toEvent(d eventDoc, loc *time.Location) (domain.Event, error) {
	ev := domain.Event{
		ID:       d.EventID,
		Name:     d.Name,
		Location: d.Location,
	}
	switch d.EventTime.Type {
	case bson.TypeString:
		raw := d.EventTime.StringValue()
		start, err := domain.ParseStoredTime(raw, loc)
		if err != nil {
			return domain.Event{}, err
		}
		ev.Start, ev.Display = start, raw
	case bson.TypeDateTime:
		native := d.EventTime.Time()
		ev.Start, ev.Display = domain.Normalize(native, loc), domain.FormatStoredTime(native)
	default:
		return domain.Event{}, fmt.Errorf("unsupported event_time type %s", d.EventTime.Type)
	}
	return ev, nil
}

func toUser(d userDoc) domain.User {
	return domain.User{
		AccountID:        d.AccountID,
		Name:             d.Name,
		Email:            d.Email,
		RegisteredEvents: registeredEvents(d.RegisteredEvents),
	}
}

// registeredEvents accepts an array of IDs or a single ID. Non-string
// entries are dropped.
func registeredEvents(v bson.RawValue) []string {
	switch v.Type {
	case bson.TypeString:
		return []string{v.StringValue()}
	case bson.TypeArray:
		vals, err := v.Array().Values()
		if err != nil {
			return nil
		}
		ids := make([]string, 0, len(vals))
		for _, e := range vals {
			if id, ok := e.StringValueOK(); ok {
				ids = append(ids, id)
			}
		}
		return ids
	default:
		return nil
	}
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}
