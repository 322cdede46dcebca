package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/justmedusty/kryptos/chatpool"
	"github.com/justmedusty/kryptos/chatserver"
	"github.com/justmedusty/kryptos/cipher"
	"github.com/justmedusty/kryptos/internal/sessionkey"
)

var logLevel slog.LevelVar

var rootCmd = &cobra.Command{
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	Use:     "kryptos <port> <key-size> <encryption-type> [<provided-key>]",
	Short:   "An encrypted line-oriented chat server",
	Version: "0.1.0",
	Long: `kryptos runs a telnet-style chat server where every byte on the
wire is enciphered under a symmetric algorithm selected at start-up
(RC4 or AES-128/192/256 in ECB, CBC, or CTR mode).

If no session key is supplied, one is generated from a cryptographic
RNG and printed once at start-up so operators can distribute it to
clients out of band.`,
	Args: cobra.RangeArgs(3, 4),
	RunE: runServer,
}

func init() {
	slog.SetDefault(slog.New(chatserver.NewLogger(os.Stdout, false).Handler()))
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Print debug-level log output")
	rootCmd.PersistentFlags().StringVar(&logDirFlag, "log-dir", "", "Directory to tee each connection's decrypted inbound lines to (disabled if empty)")
}

var debugFlag bool
var logDirFlag string

// Execute runs the root command, exiting 1 on any argument or start-up
// error (spec.md §6: "Exit codes: 0 success/help/version; 1 any argument
// error.").
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	logger := chatserver.NewLogger(os.Stdout, debugFlag)

	port, err := parsePort(args[0])
	if err != nil {
		return err
	}
	keySizeArg, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("key-size must be an integer, got %q", args[1])
	}
	keySize, err := cipher.ParseKeySize(keySizeArg)
	if err != nil {
		return err
	}
	algo, err := cipher.ParseAlgorithm(args[2])
	if err != nil {
		return err
	}

	key, err := resolveKey(args, keySize, algo)
	if err != nil {
		return err
	}

	if algo.Unsafe() {
		logger.Warn("selected algorithm is cryptographically weak and offered only for compatibility", "algorithm", algo.String())
	}

	fmt.Printf("Session key: %s\n", sessionkey.FormatForDisplay(key))

	srv, err := chatserver.NewServer(chatserver.Config{
		Port:      port,
		Algorithm: algo,
		KeySize:   keySize,
		Key:       key,
		Broadcast: chatpool.DefaultBroadcastConfig(),
		LogDir:    logDirFlag,
	}, logger)
	if err != nil {
		return err
	}

	logger.Info("starting kryptos server", "port", port, "algorithm", algo.String())
	if err := srv.ListenAndServe(); err != nil && err != chatserver.ErrListenerClosed {
		return err
	}
	return nil
}

func parsePort(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("port must be an integer, got %q", s)
	}
	if n < 1024 || n > 65535 {
		return 0, fmt.Errorf("port must be in [1024, 65535], got %d", n)
	}
	return n, nil
}

// resolveKey returns the operator-provided key if args[3] is present,
// otherwise a freshly generated one (spec.md §6). RC4 draws a 256-byte
// random key per spec.md §3's Rc4Context lifecycle; AES draws
// keySize.Bytes() bytes.
func resolveKey(args []string, keySize cipher.KeySize, algo cipher.Algorithm) ([]byte, error) {
	if len(args) == 4 {
		provider, err := sessionkey.NewFixedKeyProviderHex(args[3])
		if err != nil {
			return nil, err
		}
		return provider.Key(keySize)
	}

	if algo == cipher.Rc4 {
		return sessionkey.RandomRC4Key()
	}
	return (sessionkey.RandomKeyProvider{}).Key(keySize)
}
