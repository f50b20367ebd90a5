//go:build integration

package store_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/ykvlv/eventbot/internal/domain"
	"github.com/ykvlv/eventbot/internal/store"
)

var mongoURI string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "27017")
	if err != nil {
		panic(err)
	}
	mongoURI = fmt.Sprintf("mongodb://%s:%s", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func seed(t *testing.T, ctx context.Context, database string) {
	t.Helper()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(ctx) })

	db := client.Database(database)
	_, err = db.Collection("events").InsertMany(ctx, []any{
		bson.M{"event_id": "keynote", "event_name": "Keynote", "event_time": "2025-01-01 10:00:00+0530", "event_location": "Main Hall"},
		bson.M{"event_id": "hackathon", "event_name": "Hackathon", "event_time": time.Date(2025, time.January, 2, 3, 30, 0, 0, time.UTC), "event_location": "Lab 2"},
		bson.M{"event_id": "broken", "event_name": "Broken", "event_time": "soon"},
		bson.M{"event_id": 7, "event_name": "Numbered", "event_time": "2025-01-03 10:00:00+0530"},
	})
	require.NoError(t, err)
	_, err = db.Collection("users").InsertMany(ctx, []any{
		bson.M{"teckzite_id": "TZ1", "name": "Asha", "email": "asha@example.com", "registered_events": bson.A{"keynote", "hackathon"}},
		bson.M{"teckzite_id": "TZ2", "name": "Ravi", "email": "ravi@example.com", "registered_events": bson.A{"keynote"}},
		bson.M{"teckzite_id": "TZ3", "name": "Meera", "email": "meera@example.com", "registered_events": bson.A{}},
		bson.M{"teckzite_id": "TZ4", "name": "Kiran", "email": "kiran@example.com", "registered_events": "keynote"},
		bson.M{"teckzite_id": "TZ5", "name": "Dev", "email": 42, "registered_events": bson.A{"keynote"}},
	})
	require.NoError(t, err)
}

func TestMongoRepo_Reads(t *testing.T) {
	ctx := context.Background()
	database := fmt.Sprintf("event_bot_%d", time.Now().UnixNano())
	seed(t, ctx, database)

	loc, err := domain.LoadReference("")
	require.NoError(t, err)
	repo, err := store.OpenMongo(ctx, mongoURI, database, loc, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close(ctx) })

	require.NoError(t, repo.Ping(ctx))

	t.Run("all_events_skip_unparsable_and_malformed", func(t *testing.T) {
		events, err := repo.FetchAllEvents(ctx)
		require.NoError(t, err)
		require.Len(t, events, 2)
		for _, ev := range events {
			assert.Equal(t, loc, ev.Start.Location())
		}
	})

	t.Run("registered_users", func(t *testing.T) {
		// TZ4 registered with a bare string; TZ5 has a numeric email and is skipped
		users, err := repo.FetchUsersRegisteredFor(ctx, "keynote")
		require.NoError(t, err)
		assert.Len(t, users, 3)

		users, err = repo.FetchUsersRegisteredFor(ctx, "nobody-registered")
		require.NoError(t, err)
		assert.Empty(t, users)
	})

	t.Run("user_lookup", func(t *testing.T) {
		u, err := repo.FetchUser(ctx, "TZ1")
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, "asha@example.com", u.Email)

		missing, err := repo.FetchUser(ctx, "TZ404")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})
}
