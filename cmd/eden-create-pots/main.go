package main

import (
	"math/big"
	"os"
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
		flagURL             string
		flagSigner          string
		flagKeyFile         string
		flagPassword        string
		flagCount           int
		flagBatchSize       int
		flagStartID         uint32
		flagSponsorshipType uint8
		flagFeeQuota        uint64
		flagReserveQuota    uint64
		flagTip             uint64
		flagLifetime        uint64
		flagLevel           string
	)

	pflag.StringVarP(&flagURL, "url", "u", "ws://localhost:9280", "parachain RPC endpoint")
	pflag.StringVarP(&flagSigner, "signer", "s", "", "signer derivation URI or 0x-prefixed hex seed")
	pflag.StringVarP(&flagKeyFile, "key-file", "k", "", "path to the encrypted JSON key file")
	pflag.StringVarP(&flagPassword, "password", "p", "", "password for the JSON key file")
	pflag.IntVarP(&flagCount, "count", "n", 1, "number of pots to create")
	pflag.IntVarP(&flagBatchSize, "batch-size", "b", 500, "maximum number of pots per envelope")
	pflag.Uint32Var(&flagStartID, "start-id", 0, "id of the first pot")
	pflag.Uint8Var(&flagSponsorshipType, "sponsorship-type", handlers.SponsorshipAnySafe, "sponsorship type of the created pots")
	pflag.Uint64Var(&flagFeeQuota, "fee-quota", 1000000000000, "fee quota of each pot in base units")
	pflag.Uint64Var(&flagReserveQuota, "reserve-quota", 1000000000000, "reserve quota of each pot in base units")
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

	if flagCount <= 0 {
		log.Error().Int("count", flagCount).Msg("pot count must be positive")
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

	workload := handlers.NewPotCreator(
		conn.Metadata(),
		flagStartID,
		flagCount,
		flagSponsorshipType,
		new(big.Int).SetUint64(flagFeeQuota),
		new(big.Int).SetUint64(flagReserveQuota),
	)

	err = pipeline.Run(workload, flagBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("could not create pots")
		return failure
	}

	return success
}
