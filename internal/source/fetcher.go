package source

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/bull/email-rag/internal/corpus"
)

// Fetcher pulls raw email example records from JSON files in a
// repository directory. Each file holds a JSON array of records in
// the email_templates.json shape.
type Fetcher struct {
	client   *Client
	owner    string
	repo     string
	basePath string
	logger   *slog.Logger
}

// NewFetcher creates a corpus fetcher for the given repository
// directory. A nil logger uses slog.Default().
func NewFetcher(client *Client, owner, repo, basePath string, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		client:   client,
		owner:    owner,
		repo:     repo,
		basePath: basePath,
		logger:   logger,
	}
}

// FetchAll lists every JSON corpus file under the base path and
// decodes its records. Files that fail to fetch or decode are skipped
// and logged; individual malformed records inside a file are skipped
// and counted.
func (f *Fetcher) FetchAll(ctx context.Context) (raws []corpus.RawRecord, malformed int, err error) {
	paths, err := f.listFiles(ctx, f.basePath)
	if err != nil {
		return nil, 0, fmt.Errorf("list corpus files: %w", err)
	}
	f.logger.Info("found corpus files", "count", len(paths))

	for _, p := range paths {
		records, bad, err := f.fetchFile(ctx, p)
		if err != nil {
			f.logger.Warn("skipping corpus file", "path", p, "error", err)
			continue
		}
		raws = append(raws, records...)
		malformed += bad
	}
	return raws, malformed, nil
}

// listFiles recursively collects .json files under dir.
func (f *Fetcher) listFiles(ctx context.Context, dir string) ([]string, error) {
	var files []string

	_, dirContents, _, err := f.client.Repositories.GetContents(ctx, f.owner, f.repo, dir, nil)
	if err != nil {
		return nil, fmt.Errorf("get contents of %s: %w", dir, err)
	}

	for _, item := range dirContents {
		if item.Type == nil || item.Name == nil {
			continue
		}
		itemPath := path.Join(dir, *item.Name)

		switch *item.Type {
		case "file":
			if strings.HasSuffix(*item.Name, ".json") {
				files = append(files, itemPath)
			}
		case "dir":
			sub, err := f.listFiles(ctx, itemPath)
			if err != nil {
				return nil, err
			}
			files = append(files, sub...)
		}
	}

	return files, nil
}

// fetchFile downloads and decodes one corpus file.
func (f *Fetcher) fetchFile(ctx context.Context, filePath string) ([]corpus.RawRecord, int, error) {
	fileContent, _, _, err := f.client.Repositories.GetContents(ctx, f.owner, f.repo, filePath, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("get content: %w", err)
	}
	if fileContent == nil || fileContent.Content == nil {
		return nil, 0, fmt.Errorf("no file content returned")
	}

	data, err := base64.StdEncoding.DecodeString(*fileContent.Content)
	if err != nil {
		return nil, 0, fmt.Errorf("decode content: %w", err)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, 0, fmt.Errorf("parse records: %w", err)
	}

	raws := make([]corpus.RawRecord, 0, len(items))
	malformed := 0
	for _, item := range items {
		var raw corpus.RawRecord
		if err := json.Unmarshal(item, &raw); err != nil {
			malformed++
			continue
		}
		raws = append(raws, raw)
	}
	return raws, malformed, nil
}
