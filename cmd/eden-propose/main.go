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
		flagURL         string
		flagTransact    string
		flagSigner      string
		flagKeyFile     string
		flagPassword    string
		flagTip         uint64
		flagFeeLimit    uint64
		flagThreshold   uint32
		flagLengthBound uint32
		flagDryRun      bool
		flagLevel       string
	)

	pflag.StringVarP(&flagURL, "url", "u", "ws://localhost:9280", "parachain RPC endpoint")
	pflag.StringVarP(&flagTransact, "transact", "t", "", "hex-encoded relay-chain call to propose")
	pflag.StringVarP(&flagSigner, "signer", "s", "", "signer derivation URI or 0x-prefixed hex seed")
	pflag.StringVarP(&flagKeyFile, "key-file", "k", "", "path to the encrypted JSON key file")
	pflag.StringVarP(&flagPassword, "password", "p", "", "password for the JSON key file")
	pflag.Uint64Var(&flagTip, "tip", 0, "tip for the block author in base units")
	pflag.Uint64Var(&flagFeeLimit, "fee-limit", 1000000000000000000, "fee ceiling withdrawn for XCM execution")
	pflag.Uint32Var(&flagThreshold, "threshold", 1, "committee approval threshold")
	pflag.Uint32Var(&flagLengthBound, "length-bound", 100, "length bound of the proposal call")
	pflag.BoolVarP(&flagDryRun, "dry-run", "d", false, "print the hex-encoded envelope instead of submitting")
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

	if flagTransact == "" {
		log.Error().Msg("missing relay-chain call bytes (--transact)")
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

	var tip *big.Int
	if flagTip > 0 {
		tip = new(big.Int).SetUint64(flagTip)
	}

	proposer := handlers.NewProposer(log, conn, factory, new(big.Int).SetUint64(flagFeeLimit))
	err = proposer.Propose(flagTransact, flagThreshold, flagLengthBound, tip, flagDryRun)
	if err != nil {
		log.Error().Err(err).Msg("could not submit proposal")
		return failure
	}

	return success
}
