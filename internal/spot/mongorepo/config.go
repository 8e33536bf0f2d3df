package mongorepo

import "time"

// Config configures the Mongo connection.
type Config struct {
	// URI is the connection string, e.g. mongodb://localhost:27017/skatespots.
	URI string `yaml:"uri" mask:"true"`

	// Database overrides the database named in the URI path. Defaults to "test"
	// when neither is set.
	Database string `yaml:"database"`

	Collection string `yaml:"collection" default:"spots"`

	// ConnectTimeout bounds connecting and the initial ping.
	ConnectTimeout time.Duration `yaml:"connect_timeout" default:"10s"`
}
