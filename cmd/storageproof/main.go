package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/henridf/storageproof/chain"
	"github.com/henridf/storageproof/params"
	"github.com/henridf/storageproof/spec"
)

var (
	rpcFlag = &cli.StringFlag{
		Name:     "rpc",
		Usage:    "JSON-RPC endpoint of an archive node",
		EnvVars:  []string{"MAINNET_RPC"},
		Required: true,
	}
	blockFlag = &cli.Uint64Flag{
		Name:     "block",
		Usage:    "block number (decimal)",
		EnvVars:  []string{"BLOCK_NUMBER"},
		Required: true,
	}
	accountFlag = &cli.StringFlag{
		Name:     "account",
		Usage:    "account address (hex)",
		EnvVars:  []string{"TARGET_ACCOUNT"},
		Required: true,
	}
	slotFlag = &cli.StringFlag{
		Name:     "slot",
		Usage:    "storage slot (hex, 32 bytes)",
		EnvVars:  []string{"STORAGE_SLOT"},
		Required: true,
	}
	timeoutFlag = &cli.DurationFlag{
		Name:  "timeout",
		Usage: "abort if the node has not answered within this duration (0 waits forever)",
	}
	omitZeroBaseFeeFlag = &cli.BoolFlag{
		Name:  "omit-zero-basefee",
		Usage: "encode a zero base fee as absent (15-item header)",
	}
	skipProofCheckFlag = &cli.BoolFlag{
		Name:  "skip-proof-check",
		Usage: "do not check fetched proofs against the state root",
	}
	verboseFlag = &cli.BoolFlag{
		Name:  "verbose",
		Usage: "log debug output",
	}

	flags = []cli.Flag{
		rpcFlag,
		blockFlag,
		accountFlag,
		slotFlag,
		timeoutFlag,
		omitZeroBaseFeeFlag,
		skipProofCheckFlag,
		verboseFlag,
	}
)

func bail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	os.Exit(1)
}

func logger(verbose bool) zerolog.Logger {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		bail(fmt.Errorf("loading .env: %w", err))
	}

	err := newApp().Run(os.Args)
	if errors.Is(err, chain.ErrBlockNotFound) {
		fmt.Fprintln(os.Stderr, "Block not found!")
		return
	}
	if err != nil {
		bail(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "storageproof",
		Usage:     "generate storage proof circuit parameters for one account slot",
		ArgsUsage: "<" + params.ProveCommand + "|" + params.VerifyCommand + ">",
		Commands: []*cli.Command{
			{
				Name:   params.ProveCommand,
				Usage:  "emit header, proofs and public inputs for proving",
				Flags:  flags,
				Action: run(params.ModeProve),
			},
			{
				Name:   params.VerifyCommand,
				Usage:  "emit public inputs for verification",
				Flags:  flags,
				Action: run(params.ModeVerify),
			},
		},
		// Reached only when the first argument is not a known command.
		Action: func(ctx *cli.Context) error {
			_, err := params.ParseMode(ctx.Args().First())
			return err
		},
	}
}

func run(mode params.Mode) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		log := logger(ctx.Bool(verboseFlag.Name))

		req, err := request(ctx)
		if err != nil {
			return err
		}

		c := ctx.Context
		if d := ctx.Duration(timeoutFlag.Name); d > 0 {
			var cancel context.CancelFunc
			c, cancel = context.WithTimeout(c, d)
			defer cancel()
		}

		log.Info().Str("mode", mode.String()).Uint64("block", req.Block).Str("account", req.Account.Hex()).Msg("Generating parameters")
		client, err := chain.Dial(c, ctx.String(rpcFlag.Name))
		if err != nil {
			return fmt.Errorf("connecting to %s: %w", ctx.String(rpcFlag.Name), err)
		}
		defer client.Close()

		artifacts, err := params.Generate(c, client, req, log)
		if err != nil {
			return err
		}
		out, err := params.Assemble(mode, artifacts)
		if err != nil {
			return err
		}
		return params.NewSink(ctx.App.Writer).Write(out)
	}
}

func request(ctx *cli.Context) (params.Request, error) {
	req := params.Request{
		Block:          ctx.Uint64(blockFlag.Name),
		Encoding:       spec.EncodeOptions{OmitZeroBaseFee: ctx.Bool(omitZeroBaseFeeFlag.Name)},
		SkipProofCheck: ctx.Bool(skipProofCheckFlag.Name),
	}
	account := ctx.String(accountFlag.Name)
	if !common.IsHexAddress(account) {
		return req, fmt.Errorf("invalid account address %q", account)
	}
	req.Account = common.HexToAddress(account)

	slot, err := parseSlot(ctx.String(slotFlag.Name))
	if err != nil {
		return req, err
	}
	req.Slot = slot
	return req, nil
}

// parseSlot decodes a 32-byte hex slot, with or without 0x prefix.
func parseSlot(s string) (common.Hash, error) {
	b, err := hexutil.Decode("0x" + strings.TrimPrefix(s, "0x"))
	if err != nil {
		return common.Hash{}, fmt.Errorf("invalid storage slot %q: %w", s, err)
	}
	if len(b) != common.HashLength {
		return common.Hash{}, fmt.Errorf("invalid storage slot %q: %d bytes, want %d", s, len(b), common.HashLength)
	}
	return common.BytesToHash(b), nil
}
