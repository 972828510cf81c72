package main

import (
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/nodle-tools/client-eden-golang-api/handlers"
	"github.com/nodle-tools/client-eden-golang-api/keyring"
)

const (
	success = 0
	failure = 1
)

func main() {
	os.Exit(run())
}

func run() int {

	// Command line parameter initialization.
	var (
		flagURL       string
		flagSigner    string
		flagKeyFile   string
		flagPassword  string
		flagPot       uint32
		flagUsersFile string
		flagBatchSize int
		flagTip       uint64
		flagLifetime  uint64
		flagLevel     string
	)

	pflag.StringVarP(&flagURL, "url", "u", "ws://localhost:9280", "parachain RPC endpoint")
	pflag.StringVarP(&flagSigner, "signer", "s", "", "signer derivation URI or 0x-prefixed hex seed")
	pflag.StringVarP(&flagKeyFile, "key-file", "k", "", "path to the encrypted JSON key file")
	pflag.StringVarP(&flagPassword, "password", "p", "", "password for the JSON key file")
	pflag.Uint32Var(&flagPot, "pot", 0, "id of the pot to register the users in")
	pflag.StringVarP(&flagUsersFile, "users-file", "f", "", "file with one SS58 user address per line")
	pflag.IntVarP(&flagBatchSize, "batch-size", "b", 500, "maximum number of users per envelope")
	pflag.Uint64Var(&flagTip, "tip", 0, "tip for the block author in base units")
	pflag.Uint64Var(&flagLifetime, "lifetime", 0, "validity window in blocks, zero for immortal")
	pflag.StringVarP(&flagLevel, "level", "l", "info", "log output level")

	pflag.Parse()

	// Logger initialization.
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }
	log := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.DebugLevel)
	level, err := zerolog.ParseLevel(flagLevel)
	if err != nil {
		log.Error().Str("level", flagLevel).Err(err).Msg("could not parse log level")
		return failure
	}
	log = log.Level(level)

	if flagUsersFile == "" {
		log.Error().Msg("missing user address file (--users-file)")
		return failure
	}

	addresses, err := readAddresses(flagUsersFile)
	if err != nil {
		log.Error().Err(err).Msg("could not read user addresses")
		return failure
	}
	if len(addresses) == 0 {
		log.Error().Str("file", flagUsersFile).Msg("user address file is empty")
		return failure
	}

	// Signer resolution.
	if flagSigner == "" && flagKeyFile == "" {
		log.Warn().Msg("no signer given, using development key")
	}
	pair, err := keyring.Resolve(flagSigner, flagKeyFile, flagPassword)
	if err != nil {
		log.Error().Err(err).Msg("could not resolve signer")
		return failure
	}
	log.Info().Str("address", pair.Address).Msg("signer resolved")

	conn, err := handlers.Dial(log, flagURL)
	if err != nil {
		log.Error().Err(err).Msg("could not connect to node")
		return failure
	}

	declared, err := conn.SignedExtensions()
	if err != nil {
		log.Error().Err(err).Msg("could not fetch declared signed extensions")
		return failure
	}

	factory, err := handlers.NewEnvelopeFactory(declared, conn.ChainContext(), pair)
	if err != nil {
		log.Error().Err(err).Msg("could not match signed extensions")
		return failure
	}

	workload, err := handlers.NewUserRegistrar(conn.Metadata(), flagPot, addresses)
	if err != nil {
		log.Error().Err(err).Msg("could not build user workload")
		return failure
	}

	nonce, err := conn.NextNonce(pair.PublicKey)
	if err != nil {
		log.Error().Err(err).Msg("could not fetch account nonce")
		return failure
	}

	pipeline := handlers.NewPipeline(log, conn, factory, handlers.NewNonceCursor(nonce))
	if flagTip > 0 {
		pipeline.SetTip(new(big.Int).SetUint64(flagTip))
	}
	if flagLifetime > 0 {
		header, err := conn.LatestHeader()
		if err != nil {
			log.Error().Err(err).Msg("could not fetch latest header")
			return failure
		}
		checkpoint, err := conn.BlockHash(uint64(header.Number))
		if err != nil {
			log.Error().Err(err).Msg("could not fetch checkpoint block hash")
			return failure
		}
		pipeline.SetMortality(checkpoint, uint64(header.Number), flagLifetime)
	}

	err = pipeline.Run(workload, flagBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("could not register users")
		return failure
	}

	return success
}

func readAddresses(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var addresses []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		addresses = append(addresses, line)
	}

	return addresses, nil
}
