package tools

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/switchboard/core"
	"go.yaml.in/yaml/v3"
)

// Job listing messages.
const (
	MsgNoJobs         = "No valid job listings found."
	MsgJobsLoadFailed = "Failed to load job listings."
)

// JobListing is one open position.
type JobListing struct {
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Profile   string `json:"profile" yaml:"profile"`
	ApplyLink string `json:"apply_link" yaml:"apply_link"`
}

// valid reports whether the listing has a title and a profile of more than
// one word.
func (j JobListing) valid() bool {
	return strings.TrimSpace(j.Title) != "" && strings.Contains(j.Profile, " ")
}

// JobBoard supplies current job listings.
type JobBoard interface {
	Listings(ctx context.Context) ([]JobListing, error)
}

// FileJobBoard reads listings from a YAML or JSON snapshot.
// The snapshot is either a list of listings or a document with a "jobs" list.
type FileJobBoard struct {
	path             string
	defaultApplyLink string
}

// NewFileJobBoard creates a board reading path. Listings without an apply
// link get defaultApplyLink.
func NewFileJobBoard(path, defaultApplyLink string) (*FileJobBoard, error) {
	if path == "" {
		return nil, ErrPathRequired
	}
	return &FileJobBoard{path: path, defaultApplyLink: defaultApplyLink}, nil
}

// Listings reads the snapshot.
func (b *FileJobBoard) Listings(_ context.Context) ([]JobListing, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		return nil, fmt.Errorf("reading job board: %w", err)
	}

	var listings []JobListing
	if err := yaml.Unmarshal(data, &listings); err != nil {
		var doc struct {
			Jobs []JobListing `yaml:"jobs"`
		}
		if docErr := yaml.Unmarshal(data, &doc); docErr != nil {
			return nil, fmt.Errorf("parsing job board %s: %w", b.path, err)
		}
		listings = doc.Jobs
	}

	for i := range listings {
		if listings[i].ApplyLink == "" {
			listings[i].ApplyLink = b.defaultApplyLink
		}
	}
	return listings, nil
}

// JobListings serves current job postings.
type JobListings struct {
	board  JobBoard
	logger *slog.Logger
}

// NewJobListings creates the job postings tool.
func NewJobListings(board JobBoard) (*JobListings, error) {
	if board == nil {
		return nil, ErrJobBoardRequired
	}
	return &JobListings{
		board:  board,
		logger: slog.Default().With("component", "tool", "tool", "job-listings"),
	}, nil
}

// Invoke returns the valid listings, or a single error record.
func (j *JobListings) Invoke(ctx context.Context, _ string) (any, error) {
	listings, err := j.board.Listings(ctx)
	if err != nil {
		j.logger.Error("error loading job listings", "err", err)
		return []core.ErrorNotice{{Error: MsgJobsLoadFailed}}, nil
	}

	valid := make([]JobListing, 0, len(listings))
	for _, l := range listings {
		if l.valid() {
			valid = append(valid, l)
		}
	}
	if dropped := len(listings) - len(valid); dropped > 0 {
		j.logger.Debug("dropped incomplete job listings", "count", dropped)
	}
	if len(valid) == 0 {
		return []core.ErrorNotice{{Error: MsgNoJobs}}, nil
	}
	return valid, nil
}
