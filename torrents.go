package main

import (
	"context"
	"net/url"
	"path/filepath"
	"time"

	"github.com/hekmon/transmissionrpc/v3"
)

// TransmissionClient asks the local transmission daemon which downloads
// are still in flight so the scanner can skip their directories.
type TransmissionClient struct {
	client *transmissionrpc.Client
}

func NewTransmissionClient(rpcURL string) (*TransmissionClient, error) {
	endpoint, err := url.Parse(rpcURL)
	if err != nil {
		return nil, err
	}
	client, err := transmissionrpc.New(endpoint, nil)
	if err != nil {
		return nil, err
	}
	return &TransmissionClient{client: client}, nil
}

// IncompleteRoots returns the on-disk roots of torrents that have not
// finished downloading yet.
func (t *TransmissionClient) IncompleteRoots(ctx context.Context) ([]Path, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	torrents, err := t.client.TorrentGet(ctx, []string{"name", "downloadDir", "percentDone"}, nil)
	if err != nil {
		return nil, err
	}

	var roots []Path
	for _, torrent := range torrents {
		if torrent.PercentDone == nil || *torrent.PercentDone >= 1.0 {
			continue
		}
		if torrent.DownloadDir == nil || torrent.Name == nil {
			continue
		}
		roots = append(roots, Path(filepath.Join(*torrent.DownloadDir, *torrent.Name)))
	}
	if len(roots) > 0 {
		Logf("%d torrents still downloading", len(roots))
	}
	return roots, nil
}
