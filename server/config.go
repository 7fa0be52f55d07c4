package server

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dekarrin/cmdtree/internal/cdf"
	"github.com/dekarrin/cmdtree/server/dao"
	"github.com/dekarrin/cmdtree/server/dao/inmem"
	"github.com/dekarrin/cmdtree/server/dao/sqlite"
	"golang.org/x/crypto/bcrypt"
)

const (
	MaxSecretSize = 64
	MinSecretSize = 32
)

// DBDriver names a persistence backend that a server can store sessions and
// command history in.
type DBDriver string

const (
	DriverNone     DBDriver = ""
	DriverInMemory DBDriver = "inmem"
	DriverSQLite   DBDriver = "sqlite"
)

// driverInfo is what a connection string needs to know about a driver.
type driverInfo struct {
	needsDir bool
	open     func(dir string) (dao.Store, error)
}

var drivers = map[DBDriver]driverInfo{
	DriverInMemory: {
		open: func(string) (dao.Store, error) {
			return inmem.NewDatastore(), nil
		},
	},
	DriverSQLite: {
		needsDir: true,
		open: func(dir string) (dao.Store, error) {
			if err := os.MkdirAll(dir, 0770); err != nil {
				return nil, fmt.Errorf("create data dir: %w", err)
			}
			return sqlite.NewDatastore(dir)
		},
	},
}

// DBConfig selects a persistence backend and where it keeps its data.
type DBConfig struct {
	Driver DBDriver

	// Dir is the directory that file-backed drivers store data in. It must be
	// empty for drivers that keep everything in memory.
	Dir string
}

// Validate checks that the driver is known and has the params it needs.
func (db DBConfig) Validate() error {
	info, ok := drivers[db.Driver]
	if !ok {
		if db.Driver == DriverNone {
			return fmt.Errorf("no driver set")
		}
		return fmt.Errorf("unknown driver %q", string(db.Driver))
	}
	if info.needsDir && db.Dir == "" {
		return fmt.Errorf("driver %q needs a data directory", string(db.Driver))
	}
	if !info.needsDir && db.Dir != "" {
		return fmt.Errorf("driver %q does not take a data directory", string(db.Driver))
	}
	return nil
}

// Connect opens the store that db describes.
func (db DBConfig) Connect() (dao.Store, error) {
	if err := db.Validate(); err != nil {
		return nil, err
	}
	store, err := drivers[db.Driver].open(db.Dir)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", string(db.Driver), err)
	}
	return store, nil
}

// ParseDBConnString parses a connection string of the form "driver:dir", or
// just "driver" for drivers with no data directory, such as "inmem" or
// "sqlite:/var/cmdtree".
func ParseDBConnString(s string) (DBConfig, error) {
	name, dir, _ := strings.Cut(s, ":")

	db := DBConfig{
		Driver: DBDriver(strings.ToLower(strings.TrimSpace(name))),
		Dir:    strings.TrimSpace(dir),
	}
	if err := db.Validate(); err != nil {
		return DBConfig{}, err
	}
	return db, nil
}

// Config holds everything needed to start a Server. Use FillDefaults to get a
// usable Config from a partially-filled one.
type Config struct {
	// TokenSecret signs the JWTs handed out to sessions. It must be between
	// MinSecretSize and MaxSecretSize bytes.
	TokenSecret []byte

	// DB is where sessions and command history are kept. Defaults to memory.
	DB DBConfig

	// UnauthDelayMillis is how long to stall before answering a request that
	// failed auth. It defaults to 1000. Any negative number disables it.
	UnauthDelayMillis int

	// CommandsFile is the path to the CDF file that declares the commands
	// sessions can run. If not set, the built-in commands are used.
	CommandsFile string

	// OperatorPassword is the bcrypt hash of the password that a client gives
	// when creating a session to make it a moderator session. If not set, no
	// session can be a moderator.
	OperatorPassword []byte
}

// UnauthDelay gives UnauthDelayMillis as a Duration, or 0 if it is disabled.
func (cfg Config) UnauthDelay() time.Duration {
	if cfg.UnauthDelayMillis < 1 {
		return 0
	}
	return time.Duration(cfg.UnauthDelayMillis) * time.Millisecond
}

// FillDefaults returns a copy of cfg with every unset field given its default.
func (cfg Config) FillDefaults() Config {
	if cfg.TokenSecret == nil {
		cfg.TokenSecret = []byte("DEFAULT_TOKEN_SECRET-DO_NOT_USE_IN_PROD!")
	}
	if cfg.DB.Driver == DriverNone {
		cfg.DB = DBConfig{Driver: DriverInMemory}
	}
	if cfg.UnauthDelayMillis == 0 {
		cfg.UnauthDelayMillis = 1000
	}
	return cfg
}

// Validate returns an error if any field of cfg is unusable. Unset fields are
// errors too, so call it on the result of FillDefaults.
func (cfg Config) Validate() error {
	if n := len(cfg.TokenSecret); n < MinSecretSize || n > MaxSecretSize {
		return fmt.Errorf("token secret: must be %d to %d bytes but is %d", MinSecretSize, MaxSecretSize, n)
	}
	if err := cfg.DB.Validate(); err != nil {
		return fmt.Errorf("db: %w", err)
	}
	if cfg.CommandsFile != "" {
		if _, err := os.Stat(cfg.CommandsFile); err != nil {
			return fmt.Errorf("commands file: %w", err)
		}
	}
	if cfg.OperatorPassword != nil {
		if _, err := bcrypt.Cost(cfg.OperatorPassword); err != nil {
			return fmt.Errorf("operator password: not a bcrypt hash: %w", err)
		}
	}
	return nil
}

// Definition loads the command definition named by CommandsFile, or gives the
// built-in one if it is not set.
func (cfg Config) Definition() (cdf.Definition, error) {
	if cfg.CommandsFile == "" {
		return cdf.Default(), nil
	}
	return cdf.Load(cfg.CommandsFile)
}
