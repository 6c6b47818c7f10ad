// Command download fetches a build artifact that is too large to keep in
// source control. It is run by go generate and does nothing when the
// output already exists.
package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/caffeineduck/wasmbench/internal/logging"
)

func main() {
	sum := flag.String("sha256", "", "expected hex SHA-256 of the download")
	timeout := flag.Duration("timeout", 2*time.Minute, "download timeout")
	flag.Parse()

	if flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: download [-sha256 hex] <url> <output>")
		os.Exit(1)
	}
	url, output := flag.Arg(0), flag.Arg(1)
	log := logging.New(slog.LevelInfo, os.Stderr)

	if _, err := os.Stat(output); err == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := download(ctx, url, output, *sum); err != nil {
		log.Error("download failed", "url", url, "error", err)
		os.Exit(1)
	}
	log.Info("downloaded", "url", url, "output", output)
}

// download writes url to a temporary file next to output and renames it
// into place once the checksum (if any) matches.
func download(ctx context.Context, url, output, wantSum string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	tmp, err := os.CreateTemp(filepath.Dir(output), ".download-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(tmp, h), resp.Body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if wantSum != "" {
		if got := hex.EncodeToString(h.Sum(nil)); got != wantSum {
			return fmt.Errorf("checksum mismatch: got %s, want %s", got, wantSum)
		}
	}
	return os.Rename(tmp.Name(), output)
}
