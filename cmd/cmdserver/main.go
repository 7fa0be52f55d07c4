/*
Cmdserver starts a cmdtree server and begins listening for new connections.

Usage:

	cmdserver [flags]
	cmdserver [flags] -l [[ADDRESS]:PORT]

Once started, the server will listen for HTTP requests and respond to them using
REST protocol. By default, it will listen on localhost:8080. This can be changed
with the --listen/-l flag (or config via environment var). The flag argument
must be either a full address with port, such as "192.168.0.2:6001", or just
the port preceeded by a colon, such as ":6001".

If a JWT token secret is not given, a random one is generated. As a
consequence, in this mode of operation all tokens are rendered invalid as soon
as the server shuts down. This is suitable for testing, but a secret must be
given via either CLI flags or environment variable if running in production.

The flags are:

	-v, --version
		Give the current version of the cmdtree server and then exit.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. If not given, will default to the value of environment variable
		CMDTREE_LISTEN_ADDRESS, and if that is not given, will default to
		localhost:8080.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing JWT tokens. If there are less than
		32 bytes in the secret, it will be repeated until it is. The maximum
		size is 64 bytes. If not given, will default to the value of environment
		variable CMDTREE_TOKEN_SECRET. If no secret is specified or an empty
		secret is given, a random secret will be automatically generated.

	--db DRIVER[:PARAMS]
		Use the given DB connection string. DRIVER must be one of the following:
		inmem, sqlite. inmem has no further params. sqlite needs the path to the
		data directory such as sqlite:path/to/db_dir. If not given, will default
		to the value of environment variable CMDTREE_DATABASE. If no DB driver
		is specified or an empty one is given, an in-memory database is
		automatically selected.

	-c, --commands FILE
		Use the provided CDF file for the command tree. If not given, will
		default to the value of environment variable CMDTREE_COMMANDS, and if
		that is not given, the built-in commands are used.

The operator password, which lets a client start a moderator session, is read
only from the environment variable CMDTREE_OPERATOR_PASSWORD. If it is not set,
no session can be a moderator.
*/
package main

import (
	"crypto/rand"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/dekarrin/cmdtree/internal/version"
	"github.com/dekarrin/cmdtree/server"
	"github.com/dekarrin/cmdtree/server/cmdsvc"
	"github.com/spf13/pflag"
)

const (
	EnvListen   = "CMDTREE_LISTEN_ADDRESS"
	EnvSecret   = "CMDTREE_TOKEN_SECRET"
	EnvDB       = "CMDTREE_DATABASE"
	EnvCommands = "CMDTREE_COMMANDS"
	EnvOperator = "CMDTREE_OPERATOR_PASSWORD"
)

var (
	flagVersion  = pflag.BoolP("version", "v", false, "Give the current version of the cmdtree server and then exit.")
	flagListen   = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret   = pflag.StringP("secret", "s", "", "Use the given secret for token generation.")
	flagDB       = pflag.String("db", "", "Use the given DB connection string.")
	flagCommands = pflag.StringP("commands", "c", "", "Use the given CDF file for the command tree.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s (cmdtree v%s)\n", version.ServerCurrent, version.Current)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(1)
	}

	// get address info
	port := 0
	addr := ""
	listenAddr := os.Getenv(EnvListen)
	if pflag.Lookup("listen").Changed {
		listenAddr = *flagListen
	}
	if listenAddr != "" {
		bindParts := strings.SplitN(listenAddr, ":", 2)
		if len(bindParts) != 2 {
			fmt.Fprintf(os.Stderr, "Listen address is not in ADDRESS:PORT or :PORT format.\nDo -h for help.\n")
			os.Exit(1)
		}

		var err error

		addr = bindParts[0]
		port, err = strconv.Atoi(bindParts[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "%q is not a valid port number.\nDo -h for help.\n", bindParts[1])
			os.Exit(1)
		}
	}

	// assemble a server config
	var cfg server.Config

	dbConnStr := os.Getenv(EnvDB)
	if pflag.Lookup("db").Changed {
		dbConnStr = *flagDB
	}
	if dbConnStr != "" {
		db, err := server.ParseDBConnString(dbConnStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Not a valid DB string: %s\nDo -h for help.\n", err)
			os.Exit(1)
		}
		cfg.DB = db
	}

	cfg.CommandsFile = os.Getenv(EnvCommands)
	if pflag.Lookup("commands").Changed {
		cfg.CommandsFile = *flagCommands
	}

	// get token secret
	tokSecStr := os.Getenv(EnvSecret)
	if pflag.Lookup("secret").Changed {
		tokSecStr = *flagSecret
	}
	if tokSecStr != "" {
		tokSecret := []byte(tokSecStr)

		for len(tokSecret) < server.MinSecretSize {
			doubledTokSecret := make([]byte, len(tokSecret)*2)
			copy(doubledTokSecret, tokSecret)
			copy(doubledTokSecret[len(tokSecret):], tokSecret)
			tokSecret = doubledTokSecret
		}

		if len(tokSecret) > server.MaxSecretSize {
			// keys would be chopped at 64, so rather than the user thinking
			// they have more security by giving a longer key, refuse to start.
			fmt.Fprintf(os.Stderr, "Token secret is %d bytes, but it must be <= %d bytes\nDo -h for help.\n", len(tokSecret), server.MaxSecretSize)
			os.Exit(1)
		}
		cfg.TokenSecret = tokSecret
	} else {
		// use all 64 possible bytes if doing a generated secret
		cfg.TokenSecret = make([]byte, server.MaxSecretSize)
		_, err := rand.Read(cfg.TokenSecret)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not generate token secret: %s\n", err.Error())
			os.Exit(1)
		}

		// yell at the user bc they should know their secret might be bad
		log.Printf("WARN  Using generated token secret; all tokens issued will become invalid at shutdown")
	}

	if opPass := os.Getenv(EnvOperator); opPass != "" {
		hash, err := cmdsvc.HashPassword(opPass)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not hash operator password: %s\n", err.Error())
			os.Exit(1)
		}
		cfg.OperatorPassword = hash
	} else {
		log.Printf("WARN  %s is not set; no session can be a moderator", EnvOperator)
	}

	// configuration complete, initialize the server
	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("FATAL could not start server: %s", err.Error())
	}
	defer srv.Close()
	log.Printf("DEBUG Server initialized")

	log.Printf("INFO  Starting cmdtree server %s...", version.ServerCurrent)
	srv.ServeForever(addr, port)
}
