package collectors

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/yair/media-stats/pkg/domain"
)

type ImportResult struct {
	Imported   int
	Duplicates int
}

// ImportFile loads a JSON array of releases into the repository. Releases
// without an ID get a random one; existing IDs are counted as duplicates and
// skipped.
func ImportFile(ctx context.Context, repo domain.ReleaseRepository, path string) (*ImportResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read collection file: %w", err)
	}

	var releases []domain.Release
	if err := json.Unmarshal(data, &releases); err != nil {
		return nil, fmt.Errorf("failed to parse collection file: %w", err)
	}

	result := &ImportResult{}
	for i := range releases {
		release := &releases[i]
		if err := validateRelease(release); err != nil {
			return result, fmt.Errorf("release %d: %w", i, err)
		}
		if release.ID == "" {
			release.ID = uuid.New().String()
		}

		err := repo.Create(ctx, release)
		if errors.Is(err, domain.ErrDuplicateRelease) {
			result.Duplicates++
			continue
		}
		if err != nil {
			return result, fmt.Errorf("release %d: %w", i, err)
		}
		result.Imported++
	}

	return result, nil
}

func validateRelease(release *domain.Release) error {
	if strings.TrimSpace(release.Title) == "" {
		return domain.ValidationError{Field: "title", Message: "title is required"}
	}
	if strings.TrimSpace(release.Artist) == "" {
		return domain.ValidationError{Field: "artist", Message: "artist is required"}
	}
	if strings.TrimSpace(release.Format) == "" {
		return domain.ValidationError{Field: "format", Message: "format is required"}
	}
	for _, tag := range append(append([]string{}, release.Genres...), release.Styles...) {
		if strings.Contains(tag, ",") {
			return domain.ValidationError{Field: "genres", Message: fmt.Sprintf("tag %q must not contain commas", tag)}
		}
	}
	return nil
}
