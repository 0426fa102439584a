package ingest

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/papapumpkin/trustgraph/internal/graph"
)

var gzipMagic = []byte{0x1f, 0x8b}

// IsRemote reports whether resource names an http(s) URL rather than a
// local path.
func IsRemote(resource string) bool {
	return strings.HasPrefix(resource, "http://") || strings.HasPrefix(resource, "https://")
}

// Load reads records from a local file or an http(s) URL. Gzip-compressed
// content is detected from its magic bytes and decompressed.
func Load(ctx context.Context, resource string, opts Options) ([]graph.Record, error) {
	rc, err := open(ctx, resource, opts.Client)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	r, err := decompress(rc)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", resource, err)
	}
	records, err := ReadCSV(r, opts)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", resource, err)
	}
	return records, nil
}

func open(ctx context.Context, resource string, client *http.Client) (io.ReadCloser, error) {
	if !IsRemote(resource) {
		f, err := os.Open(resource)
		if err != nil {
			return nil, fmt.Errorf("opening input: %w", err)
		}
		return f, nil
	}

	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resource, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", resource, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s returned %s", ErrFetch, resource, resp.Status)
	}
	return resp.Body, nil
}

// decompress returns a reader over r's content, transparently gunzipping
// it when the stream starts with the gzip magic bytes.
func decompress(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(gzipMagic))
	if err != nil && err != io.EOF {
		return nil, err
	}
	if !bytes.Equal(head, gzipMagic) {
		return br, nil
	}
	zr, err := gzip.NewReader(br)
	if err != nil {
		return nil, fmt.Errorf("gzip header: %w", err)
	}
	return zr, nil
}
