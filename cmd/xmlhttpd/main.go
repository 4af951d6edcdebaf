/*
Xmlhttpd starts the XML parsing HTTP service and begins listening for new
connections.

Usage:

	xmlhttpd [flags]
	xmlhttpd [flags] -l [[ADDRESS]:PORT]

Once started, the server listens for HTTP requests and responds using a JSON
REST API rooted at /api/v1. Every session created through it is a suspended
parser handle: clients POST chunks of an XML document to it over however many
requests they like and get back the stream of Productions each chunk
produced. By default the service listens on localhost:8080; this can be
changed with the --listen/-l flag (or its environment variable).

If a JWT token secret is not given, one is generated and seeded from a
cryptographically random source. As a consequence, in this mode all tokens
are rendered invalid as soon as the server shuts down. This is suitable for
testing, but a secret must be given via either the CLI flag or environment
variable if running in production.

The flags are:

	-v, --version
		Give the current version of the service and then exit.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. If not given, will default to the value of environment
		variable XMLHTTPD_LISTEN_ADDRESS, and if that is not given, will
		default to localhost:8080.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing JWT tokens. If there are less
		than 32 bytes in the secret, it will be repeated until it is. The
		maximum size is 64 bytes. If not given, will default to the value of
		environment variable XMLHTTPD_TOKEN_SECRET. If no secret is
		specified or an empty secret is given, a random secret is
		automatically generated. Note that any tokens issued with a random
		secret become invalid as soon as the server shuts down.

	--db DRIVER[:PARAMS]
		Use the given DB connection string. DRIVER must be one of the
		following: inmem, sqlite. inmem has no further params. sqlite needs
		the path to the data directory, such as sqlite:path/to/db_dir. If
		not given, will default to the value of environment variable
		XMLHTTPD_DATABASE. If no DB driver is specified or an empty one is
		given, an in-memory database is automatically selected.
*/
package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hannesm/xml/internal/version"
	"github.com/hannesm/xml/server"
	"github.com/hannesm/xml/server/dao"
	"github.com/hannesm/xml/server/serr"
	"github.com/hannesm/xml/server/tunas"
	"github.com/spf13/pflag"
)

const (
	EnvListen = "XMLHTTPD_LISTEN_ADDRESS"
	EnvSecret = "XMLHTTPD_TOKEN_SECRET"
	EnvDB     = "XMLHTTPD_DATABASE"
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of the service and then exit.")
	flagListen  = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret  = pflag.StringP("secret", "s", "", "Use the given secret for token generation.")
	flagDB      = pflag.String("db", "", "Use the given DB connection string.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s (xml module v%s)\n", version.ServerCurrent, version.Current)
		return
	}

	if args := pflag.Args(); len(args) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(1)
	}

	listenAddr := os.Getenv(EnvListen)
	if pflag.Lookup("listen").Changed {
		listenAddr = *flagListen
	}
	if listenAddr == "" {
		listenAddr = "localhost:8080"
	}

	dbConnStr := os.Getenv(EnvDB)
	if pflag.Lookup("db").Changed {
		dbConnStr = *flagDB
	}
	if dbConnStr == "" {
		dbConnStr = "inmem"
	}
	dbCfg, err := server.ParseDBConnString(dbConnStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err)
		os.Exit(1)
	}

	tokSecStr := os.Getenv(EnvSecret)
	if pflag.Lookup("secret").Changed {
		tokSecStr = *flagSecret
	}
	tokSecret, err := resolveSecret(tokSecStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}

	cfg := server.Config{
		TokenSecret: tokSecret,
		DB:          dbCfg,
	}.FillDefaults()

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("FATAL could not start server: %s", err.Error())
	}
	defer srv.Close()
	log.Printf("DEBUG Server initialized")

	if err := bootstrapAdmin(srv.DB()); err != nil {
		log.Printf("ERROR could not create initial admin user: %v", err)
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Printf("INFO  Starting server %s on %s...", version.ServerCurrent, listenAddr)
	if err := srv.ListenAndServe(ctx, listenAddr); err != nil {
		log.Fatalf("FATAL server exited: %s", err.Error())
	}
}

func resolveSecret(tokSecStr string) ([]byte, error) {
	if tokSecStr == "" {
		tokSecret := make([]byte, 64)
		if _, err := rand.Read(tokSecret); err != nil {
			return nil, fmt.Errorf("could not generate token secret: %w", err)
		}
		log.Printf("WARN  Using generated token secret; all tokens issued will become invalid at shutdown")
		return tokSecret, nil
	}

	tokSecret := []byte(tokSecStr)
	for len(tokSecret) < server.MinSecretSize {
		doubled := make([]byte, len(tokSecret)*2)
		copy(doubled, tokSecret)
		copy(doubled[len(tokSecret):], tokSecret)
		tokSecret = doubled
	}
	if len(tokSecret) > server.MaxSecretSize {
		return nil, fmt.Errorf("token secret is %d bytes, but it must be <= %d bytes", len(tokSecret), server.MaxSecretSize)
	}
	return tokSecret, nil
}

// bootstrapAdmin ensures there is always at least one admin user that can be
// used to log in and manage the rest of the user base.
func bootstrapAdmin(db dao.Store) error {
	svc := tunas.Service{DB: db}

	_, err := svc.CreateUser(context.Background(), "admin", "password", "bogus@example.com", dao.Admin)
	if err != nil && !errors.Is(err, serr.ErrAlreadyExists) {
		return err
	}
	if !errors.Is(err, serr.ErrAlreadyExists) {
		log.Printf("INFO  Added initial admin user with password 'password'...")
	}
	return nil
}
