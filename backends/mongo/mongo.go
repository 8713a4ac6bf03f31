// Package mongo is the destination store used by the relay
package mongo

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/batchcorp/streamsink/backends"
	"github.com/batchcorp/streamsink/types"
)

const (
	BackendName = "mongo"

	// ConnectionTimeout determines how long before a connection attempt to mongo is timed out
	ConnectionTimeout = time.Second * 10
)

var (
	ErrMissingURI        = errors.New("store URI cannot be empty")
	ErrMissingDatabase   = errors.New("database cannot be empty")
	ErrMissingCollection = errors.New("collection cannot be empty")
	ErrMissingRecord     = errors.New("record cannot be nil")
	ErrConnectionFailed  = errors.New("could not open mongo connection")
)

type Mongo struct {
	ConnectionTimeout time.Duration

	log *logrus.Entry
}

func New() *Mongo {
	return &Mongo{
		ConnectionTimeout: ConnectionTimeout,
		log:               logrus.WithField("backend", BackendName),
	}
}

func (m *Mongo) Name() string {
	return BackendName
}

// Connect opens a client and pings the primary; mongo.Connect on its own does
// not talk to the server.
func (m *Mongo) Connect(ctx context.Context, uri string) (backends.StoreHandle, error) {
	if uri == "" {
		return nil, ErrMissingURI
	}

	connCtx, cancel := context.WithTimeout(ctx, m.ConnectionTimeout)
	defer cancel()

	client, err := mongo.Connect(connCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, ErrConnectionFailed.Error())
	}

	if err := client.Ping(connCtx, readpref.Primary()); err != nil {
		m.disconnect(client)

		return nil, errors.Wrap(err, "unable to ping mongo primary")
	}

	return &Handle{
		client: client,
		log:    m.log,
	}, nil
}

// Handle is a connected mongo client
type Handle struct {
	client *mongo.Client
	log    *logrus.Entry
}

func (h *Handle) InsertOne(ctx context.Context, database, collection string, record types.Record) error {
	if err := validateInsert(database, collection, record); err != nil {
		return err
	}

	res, err := h.client.Database(database).Collection(collection).InsertOne(ctx, map[string]interface{}(record))
	if err != nil {
		return errors.Wrapf(err, "unable to insert into %s.%s", database, collection)
	}

	h.log.Debugf("inserted document '%v' into %s.%s", res.InsertedID, database, collection)

	return nil
}

type disconnecter interface {
	Disconnect(ctx context.Context) error
}

// disconnect releases a client that never became usable; errors are only logged
func (m *Mongo) disconnect(client disconnecter) {
	ctx, cancel := context.WithTimeout(context.Background(), m.ConnectionTimeout)
	defer cancel()

	if err := client.Disconnect(ctx); err != nil {
		m.log.Debugf("unable to disconnect after failed ping: %s", err)
	}
}

func (h *Handle) Close(ctx context.Context) error {
	return h.client.Disconnect(ctx)
}

func validateInsert(database, collection string, record types.Record) error {
	if database == "" {
		return ErrMissingDatabase
	}

	if collection == "" {
		return ErrMissingCollection
	}

	if record == nil {
		return ErrMissingRecord
	}

	return nil
}
